package render

import (
	"fmt"
	"time"

	"github.com/talhahasanzia/entrifi/internal/submission"
)

// sheet is the layout-independent content of one document.
type sheet struct {
	title    string
	subtitle string
	sections []section
	table    *table
	footer   string
}

type section struct {
	heading string
	rows    []row
}

type row struct {
	label string
	value string
}

type table struct {
	headers []string
	widths  []float64 // fractions of the printable width
	rows    [][]string
	empty   string
}

const unknownType = "Unknown Type"

func (r *Renderer) detailSheet(rec submission.Record) sheet {
	s := sheet{title: "Entrifi", subtitle: unknownType}

	reasonCfg, known := r.catalog.Lookup(rec.ReasonType)
	switch {
	case known:
		s.subtitle = reasonCfg.Label
	case rec.ReasonType != "":
		s.subtitle = rec.ReasonType
	}

	basic := section{rows: []row{
		{"Serial Number", rec.SerialNumber},
		{"Created By", rec.CreatedBy},
		{"Created For", rec.CreatedFor},
		{"Reason Type", r.catalog.Label(rec.ReasonType)},
	}}
	if rec.Amount != nil {
		basic.rows = append(basic.rows, row{"Amount", r.FormatAmount(*rec.Amount)})
	}
	basic.rows = append(basic.rows, row{"Date Created", r.FormatTime(rec.Timestamp)})
	s.sections = append(s.sections, basic)

	if known && rec.ExtraFields != nil {
		extra := section{heading: "Additional Fields"}
		for _, f := range reasonCfg.Fields {
			v, ok := rec.ExtraFields[f.Name]
			if !ok || v == nil || v == "" {
				continue
			}
			extra.rows = append(extra.rows, row{f.Label, r.formatScalar(v)})
		}
		if len(extra.rows) > 0 {
			s.sections = append(s.sections, extra)
		}
	}

	if rec.CreationReason != "" {
		s.sections = append(s.sections, section{
			heading: "Notes",
			rows:    []row{{"Creation Reason / Notes", rec.CreationReason}},
		})
	}

	return s
}

func (r *Renderer) listSheet(records []submission.Record) sheet {
	t := &table{
		headers: []string{"Reason Type", "Created By", "Created For", "Date"},
		widths:  []float64{0.28, 0.26, 0.22, 0.24},
		empty:   "No forms created yet",
	}
	for _, rec := range submission.NewestFirst(records) {
		t.rows = append(t.rows, []string{
			r.catalog.Label(rec.ReasonType),
			rec.CreatedBy,
			rec.CreatedFor,
			r.FormatTime(rec.Timestamp),
		})
	}

	plural := "s"
	if len(records) == 1 {
		plural = ""
	}
	return sheet{
		title:  "Form Submissions",
		table:  t,
		footer: fmt.Sprintf("Total: %d form%s", len(records), plural),
	}
}

// FormatAmount formats an amount with locale grouping.
func (r *Renderer) FormatAmount(v float64) string {
	return r.printer.Sprintf("%v", v)
}

// FormatTime formats a millisecond timestamp in the renderer's location.
func (r *Renderer) FormatTime(ms int64) string {
	return time.UnixMilli(ms).In(r.loc).Format("2006-01-02 15:04:05")
}

func (r *Renderer) formatScalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return r.FormatAmount(x)
	case bool:
		if x {
			return "Yes"
		}
		return "No"
	default:
		return r.printer.Sprint(x)
	}
}
