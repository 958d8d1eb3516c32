package render

import (
	"bytes"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/talhahasanzia/entrifi/internal/reason"
	"github.com/talhahasanzia/entrifi/internal/submission"
)

const mmPerInch = 25.4

// PageOptions controls the page format of generated documents.
type PageOptions struct {
	// Size is an fpdf page size name such as "A4" or "Letter".
	Size string

	// MarginInches applies to all four sides.
	MarginInches float64

	// PrintBackground paints the page background.
	PrintBackground bool
}

// DefaultPageOptions matches the host's print settings.
var DefaultPageOptions = PageOptions{Size: "A4", MarginInches: 0.5, PrintBackground: true}

// Renderer generates PDF documents for submissions.
type Renderer struct {
	catalog *reason.Catalog
	page    PageOptions
	printer *message.Printer
	loc     *time.Location

	// creationDate pins document metadata; zero uses the current time.
	creationDate time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPageOptions overrides DefaultPageOptions.
func WithPageOptions(p PageOptions) Option {
	return func(r *Renderer) { r.page = p }
}

// WithLocation sets the zone used for dates. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(r *Renderer) { r.loc = loc }
}

// WithLanguage sets the locale used for number formatting.
func WithLanguage(tag language.Tag) Option {
	return func(r *Renderer) { r.printer = message.NewPrinter(tag) }
}

// WithCreationDate pins the PDF creation date metadata.
func WithCreationDate(t time.Time) Option {
	return func(r *Renderer) { r.creationDate = t }
}

// New creates a renderer that labels reasons from catalog.
func New(catalog *reason.Catalog, opts ...Option) *Renderer {
	r := &Renderer{
		catalog: catalog,
		page:    DefaultPageOptions,
		printer: message.NewPrinter(language.English),
		loc:     time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Detail renders the detail page of one submission.
func (r *Renderer) Detail(rec submission.Record) ([]byte, error) {
	return r.render(r.detailSheet(rec))
}

// List renders the submission list page, newest first.
func (r *Renderer) List(records []submission.Record) ([]byte, error) {
	return r.render(r.listSheet(records))
}

func (r *Renderer) render(s sheet) ([]byte, error) {
	pdf := fpdf.New("P", "mm", r.page.Size, "")
	if err := pdf.Error(); err != nil {
		return nil, &RenderError{Op: "generate", Err: err}
	}
	margin := r.page.MarginInches * mmPerInch
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(s.title, true)
	pdf.SetCreator("Entrifi", true)
	if !r.creationDate.IsZero() {
		pdf.SetCreationDate(r.creationDate)
	}

	if r.page.PrintBackground {
		pdf.SetHeaderFuncMode(func() {
			w, h := pdf.GetPageSize()
			pdf.SetFillColor(250, 250, 250)
			pdf.Rect(0, 0, w, h, "F")
		}, true)
	}

	// Core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	printable := pageW - 2*margin

	pdf.SetTextColor(33, 33, 33)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr(s.title), "", 1, "L", false, 0, "")
	if s.subtitle != "" {
		pdf.SetFont("Helvetica", "", 11)
		pdf.SetTextColor(117, 117, 117)
		pdf.CellFormat(0, 6, tr(s.subtitle), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	for _, sec := range s.sections {
		if sec.heading != "" {
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "I", 9)
			pdf.SetTextColor(117, 117, 117)
			pdf.CellFormat(0, 6, tr(sec.heading), "B", 1, "C", false, 0, "")
			pdf.Ln(2)
		}
		for _, rw := range sec.rows {
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(117, 117, 117)
			pdf.CellFormat(0, 5, tr(rw.label), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			pdf.SetTextColor(66, 66, 66)
			pdf.SetDrawColor(189, 189, 189)
			pdf.MultiCell(0, 7, tr(rw.value), "1", "L", false)
			pdf.Ln(2)
		}
	}

	if s.table != nil {
		r.drawTable(pdf, tr, s.table, printable)
	}

	if s.footer != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(117, 117, 117)
		pdf.CellFormat(0, 6, tr(s.footer), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &RenderError{Op: "generate", Err: err}
	}
	return buf.Bytes(), nil
}

func (r *Renderer) drawTable(pdf *fpdf.Fpdf, tr func(string) string, t *table, printable float64) {
	if len(t.rows) == 0 {
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(117, 117, 117)
		pdf.CellFormat(0, 20, tr(t.empty), "1", 1, "C", false, 0, "")
		return
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(33, 33, 33)
	pdf.SetFillColor(238, 238, 238)
	for i, h := range t.headers {
		pdf.CellFormat(printable*t.widths[i], 8, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(66, 66, 66)
	for _, cells := range t.rows {
		for i, c := range cells {
			w := printable * t.widths[i]
			pdf.CellFormat(w, 7, fit(pdf, tr(c), w-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

// fit truncates s with an ellipsis so it fits in width w. s is already
// translated to the single-byte core font encoding, so it is cut by bytes.
func fit(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	const ellipsis = "..."
	n := len(s)
	for n > 0 && pdf.GetStringWidth(s[:n]+ellipsis) > w {
		n--
	}
	return s[:n] + ellipsis
}
