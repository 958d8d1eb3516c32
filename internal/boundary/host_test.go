package boundary_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talhahasanzia/entrifi/internal/boundary"
	"github.com/talhahasanzia/entrifi/internal/logging"
	"github.com/talhahasanzia/entrifi/internal/metrics"
	"github.com/talhahasanzia/entrifi/internal/shell"
	"github.com/talhahasanzia/entrifi/internal/submission"
	fixtures "github.com/talhahasanzia/entrifi/internal/testutil"
	"github.com/talhahasanzia/entrifi/internal/window"
)

type stubRenderer struct {
	details int
	lists   [][]submission.Record
	err     error
}

func (r *stubRenderer) Detail(rec submission.Record) ([]byte, error) {
	r.details++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-detail " + rec.SerialNumber), nil
}

func (r *stubRenderer) List(records []submission.Record) ([]byte, error) {
	r.lists = append(r.lists, records)
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-list"), nil
}

type panicStore struct{}

func (panicStore) Append(context.Context, submission.Record) error   { panic("disk on fire") }
func (panicStore) List(context.Context) ([]submission.Record, error) { panic("disk on fire") }
func (panicStore) Clear(context.Context) error                       { panic("disk on fire") }

type failingStore struct{ err error }

func (s failingStore) Append(context.Context, submission.Record) error   { return s.err }
func (s failingStore) List(context.Context) ([]submission.Record, error) { return nil, s.err }
func (s failingStore) Clear(context.Context) error                       { return s.err }

type hostFixture struct {
	host     *boundary.Host
	windows  *window.Manager
	renderer *stubRenderer
	opener   *shell.RecordingOpener
	pdfDir   string
	metrics  *metrics.Boundary
}

func newHostFixture(t *testing.T, st boundary.SubmissionStore) *hostFixture {
	t.Helper()

	if st == nil {
		st = fixtures.OpenSubmissions(t)
	}
	clock := fixtures.NewFakeClock()
	f := &hostFixture{
		windows:  window.NewManager(window.WithClock(clock), window.WithLogger(logging.Discard())),
		renderer: &stubRenderer{},
		opener:   &shell.RecordingOpener{},
		pdfDir:   t.TempDir(),
		metrics:  metrics.NewBoundary(metrics.NewRegistry()),
	}
	f.host = boundary.NewHost(boundary.HostConfig{
		Store:    st,
		Windows:  f.windows,
		Renderer: f.renderer,
		Opener:   f.opener,
		PDFDir:   f.pdfDir,
		Clock:    clock,
		Metrics:  f.metrics,
		Logger:   logging.Discard(),
	})
	return f
}

func (f *hostFixture) openWindow(t *testing.T) *window.Window {
	t.Helper()
	w, _, err := f.windows.GetOrCreate(context.Background())
	require.NoError(t, err)
	return w
}

func pdfFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestHost_SaveGetClearScenario(t *testing.T) {
	f := newHostFixture(t, nil)
	ctx := context.Background()
	rec := fixtures.SampleRecord()

	env := f.host.SaveSubmission(ctx, rec)
	require.True(t, env.Success, env.Error)
	assert.Empty(t, env.Error)

	env = f.host.GetSubmissions(ctx)
	require.True(t, env.Success)
	assert.Equal(t, []submission.Record{rec}, env.Submissions())

	require.True(t, f.host.ClearSubmissions(ctx).Success)

	env = f.host.GetSubmissions(ctx)
	require.True(t, env.Success)
	assert.NotNil(t, env.Data)
	assert.Empty(t, env.Submissions())
}

func TestHost_GetSubmissionsNeverWritten(t *testing.T) {
	f := newHostFixture(t, nil)

	env := f.host.GetSubmissions(context.Background())

	require.True(t, env.Success)
	assert.Equal(t, []submission.Record{}, env.Data)
}

func TestHost_SaveDoesNotValidate(t *testing.T) {
	f := newHostFixture(t, nil)
	ctx := context.Background()

	// The host persists what it is given; validation is the caller's job.
	env := f.host.SaveSubmission(ctx, submission.Record{SerialNumber: "bare"})
	require.True(t, env.Success)

	got := f.host.GetSubmissions(ctx).Submissions()
	require.Len(t, got, 1)
	assert.Equal(t, "bare", got[0].SerialNumber)
}

func TestHost_AppendOrder(t *testing.T) {
	f := newHostFixture(t, nil)
	ctx := context.Background()

	r1 := fixtures.Record("r1", fixtures.EpochMillis+10)
	r2 := fixtures.Record("r2", fixtures.EpochMillis)
	require.True(t, f.host.SaveSubmission(ctx, r1).Success)
	require.True(t, f.host.SaveSubmission(ctx, r2).Success)

	got := f.host.GetSubmissions(ctx).Submissions()
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].SerialNumber)
	assert.Equal(t, "r2", got[1].SerialNumber)
}

func TestHost_StoreErrorsBecomeEnvelopes(t *testing.T) {
	f := newHostFixture(t, failingStore{err: errors.New("persistence: get submissions: disk full")})
	ctx := context.Background()

	for _, env := range []boundary.Envelope{
		f.host.SaveSubmission(ctx, fixtures.SampleRecord()),
		f.host.GetSubmissions(ctx),
		f.host.ClearSubmissions(ctx),
	} {
		assert.False(t, env.Success)
		assert.Equal(t, "persistence: get submissions: disk full", env.Error)
		assert.Nil(t, env.Data)
	}
}

func TestHost_PanicsBecomeEnvelopes(t *testing.T) {
	f := newHostFixture(t, panicStore{})

	env := f.host.GetSubmissions(context.Background())

	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "disk on fire")
}

func TestHost_PrintWithoutWindow(t *testing.T) {
	f := newHostFixture(t, nil)

	env := f.host.PrintToPDF(context.Background())

	assert.Equal(t, boundary.Envelope{Success: false, Error: "Window not found"}, env)
	assert.Empty(t, pdfFiles(t, f.pdfDir))
	assert.Empty(t, f.opener.Paths())
	assert.Zero(t, f.renderer.details)
	assert.Empty(t, f.renderer.lists)
}

func TestHost_PrintAfterWindowClosed(t *testing.T) {
	f := newHostFixture(t, nil)
	f.openWindow(t)
	require.NoError(t, f.windows.Close())

	env := f.host.PrintToPDF(context.Background())

	assert.False(t, env.Success)
	assert.Equal(t, "Window not found", env.Error)
	assert.Empty(t, pdfFiles(t, f.pdfDir))
}

func TestHost_PrintListPage(t *testing.T) {
	f := newHostFixture(t, nil)
	ctx := context.Background()
	f.openWindow(t)
	require.True(t, f.host.SaveSubmission(ctx, fixtures.SampleRecord()).Success)

	env := f.host.PrintToPDF(ctx)

	require.True(t, env.Success, env.Error)
	assert.Equal(t, filepath.Join(f.pdfDir, "form-1700000000000.pdf"), env.Path)
	assert.Equal(t, []string{env.Path}, f.opener.Paths())
	require.Len(t, f.renderer.lists, 1)
	assert.Len(t, f.renderer.lists[0], 1)

	data, err := os.ReadFile(env.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-list", string(data))
}

func TestHost_PrintDetailPage(t *testing.T) {
	f := newHostFixture(t, nil)
	ctx := context.Background()
	w := f.openWindow(t)
	rec := fixtures.SampleRecord()
	require.True(t, f.host.SaveSubmission(ctx, rec).Success)

	require.True(t, f.host.ShowSubmission(ctx, rec.SerialNumber).Success)
	require.False(t, w.Page().IsList())

	env := f.host.PrintToPDF(ctx)

	require.True(t, env.Success, env.Error)
	assert.Equal(t, 1, f.renderer.details)
	assert.Empty(t, f.renderer.lists)
}

func TestHost_PrintTwiceSameInstant(t *testing.T) {
	f := newHostFixture(t, nil)
	ctx := context.Background()
	f.openWindow(t)

	first := f.host.PrintToPDF(ctx)
	second := f.host.PrintToPDF(ctx)

	require.True(t, first.Success)
	require.True(t, second.Success)
	assert.NotEqual(t, first.Path, second.Path)
	assert.Len(t, pdfFiles(t, f.pdfDir), 2)
}

func TestHost_PrintRenderFailure(t *testing.T) {
	f := newHostFixture(t, nil)
	f.renderer.err = errors.New("render: pdf: boom")
	f.openWindow(t)

	env := f.host.PrintToPDF(context.Background())

	assert.False(t, env.Success)
	assert.Equal(t, "render: pdf: boom", env.Error)
	assert.Empty(t, pdfFiles(t, f.pdfDir))
	assert.Empty(t, f.opener.Paths())
}

func TestHost_PrintOpenerFailureKeepsFile(t *testing.T) {
	f := newHostFixture(t, nil)
	f.opener.Err = errors.New("no viewer")
	f.openWindow(t)

	env := f.host.PrintToPDF(context.Background())

	assert.False(t, env.Success)
	assert.Equal(t, "no viewer", env.Error)
	assert.Len(t, pdfFiles(t, f.pdfDir), 1)
}

func TestHost_ShowSubmission(t *testing.T) {
	f := newHostFixture(t, nil)
	ctx := context.Background()

	env := f.host.ShowSubmission(ctx, "")
	assert.Equal(t, "Window not found", env.Error)

	w := f.openWindow(t)
	rec := fixtures.SampleRecord()
	require.True(t, f.host.SaveSubmission(ctx, rec).Success)

	require.True(t, f.host.ShowSubmission(ctx, rec.SerialNumber).Success)
	require.NotNil(t, w.Page().Record)
	assert.Equal(t, rec, *w.Page().Record)

	env = f.host.ShowSubmission(ctx, "missing")
	assert.False(t, env.Success)
	assert.Equal(t, `submission "missing" not found`, env.Error)
	assert.False(t, w.Page().IsList(), "failed show keeps the current page")

	require.True(t, f.host.ShowSubmission(ctx, "").Success)
	assert.True(t, w.Page().IsList())
}

func TestHost_ClearResetsDetailPage(t *testing.T) {
	f := newHostFixture(t, nil)
	ctx := context.Background()

	w := f.openWindow(t)
	rec := fixtures.SampleRecord()
	require.True(t, f.host.SaveSubmission(ctx, rec).Success)
	require.True(t, f.host.ShowSubmission(ctx, rec.SerialNumber).Success)
	require.False(t, w.Page().IsList())

	require.True(t, f.host.ClearSubmissions(ctx).Success)
	assert.True(t, w.Page().IsList())

	env := f.host.PrintToPDF(ctx)
	require.True(t, env.Success, env.Error)
	assert.Equal(t, 0, f.renderer.details)
	require.Len(t, f.renderer.lists, 1)
	assert.Empty(t, f.renderer.lists[0])
}

func TestHost_FailedClearKeepsPage(t *testing.T) {
	f := newHostFixture(t, failingStore{err: errors.New("disk full")})
	ctx := context.Background()

	w := f.openWindow(t)
	rec := fixtures.SampleRecord()
	w.Show(window.Page{Record: &rec})

	env := f.host.ClearSubmissions(ctx)
	assert.False(t, env.Success)
	assert.False(t, w.Page().IsList())
}

func TestHost_ClearWithoutWindow(t *testing.T) {
	f := newHostFixture(t, nil)

	assert.True(t, f.host.ClearSubmissions(context.Background()).Success)
	assert.Equal(t, window.StateNoWindow, f.windows.State())
}

func TestHost_ObservesMetrics(t *testing.T) {
	f := newHostFixture(t, nil)
	ctx := context.Background()

	f.host.GetSubmissions(ctx)
	f.host.GetSubmissions(ctx)
	f.host.PrintToPDF(ctx)

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Calls.WithLabelValues(boundary.ChannelGetSubmissions, metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Calls.WithLabelValues(boundary.ChannelPrintToPDF, metrics.OutcomeFailure)))
}
