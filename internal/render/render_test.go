package render

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talhahasanzia/entrifi/internal/reason"
	"github.com/talhahasanzia/entrifi/internal/submission"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	catalog, err := reason.Default()
	require.NoError(t, err)
	return New(catalog,
		WithLocation(time.UTC),
		WithCreationDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	)
}

func sampleRecord() submission.Record {
	amount := 50.0
	return submission.Record{
		SerialNumber:   "abc-1700000000000",
		CreatedBy:      "a@b.com",
		CreatedFor:     "Jane",
		ReasonType:     "doctor_visit",
		Amount:         &amount,
		CreationReason: "checkup",
		ExtraFields:    map[string]any{"appointmentDate": "2023-11-14", "doctorName": "Dr. X", "clinic": ""},
		Timestamp:      1700000000000,
	}
}

func TestDetailSheet(t *testing.T) {
	r := newTestRenderer(t)

	s := r.detailSheet(sampleRecord())

	assert.Equal(t, "Entrifi", s.title)
	assert.Equal(t, "Doctor Visit", s.subtitle)
	require.Len(t, s.sections, 3)

	assert.Equal(t, []row{
		{"Serial Number", "abc-1700000000000"},
		{"Created By", "a@b.com"},
		{"Created For", "Jane"},
		{"Reason Type", "Doctor Visit"},
		{"Amount", "50"},
		{"Date Created", "2023-11-14 22:13:20"},
	}, s.sections[0].rows)

	// Schema order, empty values skipped.
	assert.Equal(t, "Additional Fields", s.sections[1].heading)
	assert.Equal(t, []row{
		{"Doctor Name", "Dr. X"},
		{"Appointment Date", "2023-11-14"},
	}, s.sections[1].rows)

	assert.Equal(t, "Notes", s.sections[2].heading)
	assert.Equal(t, []row{{"Creation Reason / Notes", "checkup"}}, s.sections[2].rows)
}

func TestDetailSheet_OptionalFieldsOmitted(t *testing.T) {
	r := newTestRenderer(t)
	rec := sampleRecord()
	rec.Amount = nil
	rec.CreationReason = ""
	rec.ExtraFields = nil

	s := r.detailSheet(rec)

	require.Len(t, s.sections, 1)
	for _, rw := range s.sections[0].rows {
		assert.NotEqual(t, "Amount", rw.label)
	}
}

func TestDetailSheet_UnknownReason(t *testing.T) {
	r := newTestRenderer(t)
	rec := sampleRecord()
	rec.ReasonType = "retired_reason"

	s := r.detailSheet(rec)

	assert.Equal(t, "retired_reason", s.subtitle)
	// Extra fields cannot be labelled without a schema.
	for _, sec := range s.sections {
		assert.NotEqual(t, "Additional Fields", sec.heading)
	}
}

func TestDetailSheet_NoReason(t *testing.T) {
	r := newTestRenderer(t)
	rec := sampleRecord()
	rec.ReasonType = ""

	s := r.detailSheet(rec)

	assert.Equal(t, "Unknown Type", s.subtitle)
	assert.Contains(t, s.sections[0].rows, row{"Reason Type", "—"})
}

func TestListSheet(t *testing.T) {
	r := newTestRenderer(t)
	older := sampleRecord()
	newer := sampleRecord()
	newer.SerialNumber = "newer"
	newer.CreatedFor = "Bob"
	newer.ReasonType = "service_charge"
	newer.Timestamp = older.Timestamp + 60_000

	s := r.listSheet([]submission.Record{older, newer})

	assert.Equal(t, "Form Submissions", s.title)
	require.NotNil(t, s.table)
	require.Len(t, s.table.rows, 2)
	assert.Equal(t, []string{"Service Charge", "a@b.com", "Bob", "2023-11-14 22:14:20"}, s.table.rows[0])
	assert.Equal(t, []string{"Doctor Visit", "a@b.com", "Jane", "2023-11-14 22:13:20"}, s.table.rows[1])
	assert.Equal(t, "Total: 2 forms", s.footer)
}

func TestListSheet_SingularFooter(t *testing.T) {
	r := newTestRenderer(t)
	s := r.listSheet([]submission.Record{sampleRecord()})
	assert.Equal(t, "Total: 1 form", s.footer)
}

func TestFormatAmount_Grouping(t *testing.T) {
	r := newTestRenderer(t)
	assert.Contains(t, r.FormatAmount(1234567), "1,234,567")
}

func TestDetail_ProducesPDF(t *testing.T) {
	r := newTestRenderer(t)

	data, err := r.Detail(sampleRecord())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestFit_TruncatesCoreFontBytes(t *testing.T) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	in := tr("José " + strings.Repeat("x", 60))
	out := fit(pdf, in, 40)

	assert.True(t, strings.HasPrefix(out, "Jos\xe9 "), "accented byte kept: %q", out)
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.NotContains(t, out, "\uFFFD")
	assert.LessOrEqual(t, pdf.GetStringWidth(out), 40.0)
	assert.Equal(t, in[:len(out)-3], out[:len(out)-3])
}

func TestFit_ShortTextUnchanged(t *testing.T) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	in := tr("José")
	assert.Equal(t, in, fit(pdf, in, 40))
}

func TestList_LongAccentedName(t *testing.T) {
	r := newTestRenderer(t)
	rec := sampleRecord()
	rec.CreatedFor = "José " + strings.Repeat("Álvarez ", 10)

	data, err := r.List([]submission.Record{rec})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestList_ProducesPDF(t *testing.T) {
	r := newTestRenderer(t)

	data, err := r.List(nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	many := make([]submission.Record, 80)
	for i := range many {
		many[i] = sampleRecord()
		many[i].Timestamp += int64(i)
	}
	data, err = r.List(many)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRender_UnknownPageSize(t *testing.T) {
	catalog, err := reason.Default()
	require.NoError(t, err)
	r := New(catalog, WithPageOptions(PageOptions{Size: "Napkin", MarginInches: 0.5}))

	_, err = r.Detail(sampleRecord())
	require.Error(t, err)
	assert.True(t, IsRenderError(err))
}

func TestWriteTemp(t *testing.T) {
	dir := t.TempDir()
	now := time.UnixMilli(1700000000000)

	path, err := WriteTemp(dir, now, []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "form-1700000000000.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))
}

func TestWriteTemp_AvoidsCollision(t *testing.T) {
	dir := t.TempDir()
	now := time.UnixMilli(1700000000000)

	first, err := WriteTemp(dir, now, []byte("one"))
	require.NoError(t, err)
	second, err := WriteTemp(dir, now, []byte("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, filepath.Join(dir, "form-1700000000000-1.pdf"), second)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestWriteTemp_MissingDirectory(t *testing.T) {
	_, err := WriteTemp(filepath.Join(t.TempDir(), "missing"), time.Now(), []byte("x"))
	require.Error(t, err)
	assert.True(t, IsRenderError(err))
}

func TestDetailText_Golden(t *testing.T) {
	r := newTestRenderer(t)
	var buf bytes.Buffer

	require.NoError(t, r.DetailText(&buf, sampleRecord()))

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "detail_text", buf.Bytes())
}

func TestListText_Golden(t *testing.T) {
	r := newTestRenderer(t)
	older := sampleRecord()
	newer := sampleRecord()
	newer.SerialNumber = "newer"
	newer.CreatedFor = "Bob"
	newer.ReasonType = "service_charge"
	newer.Timestamp = older.Timestamp + 60_000

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))

	var buf bytes.Buffer
	require.NoError(t, r.ListText(&buf, []submission.Record{older, newer}))
	g.Assert(t, "list_text", buf.Bytes())

	buf.Reset()
	require.NoError(t, r.ListText(&buf, nil))
	g.Assert(t, "list_text_empty", buf.Bytes())
}
