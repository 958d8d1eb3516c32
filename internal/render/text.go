package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/talhahasanzia/entrifi/internal/submission"
)

// DetailText writes the detail page of rec as plain text.
func (r *Renderer) DetailText(w io.Writer, rec submission.Record) error {
	return writeText(w, r.detailSheet(rec))
}

// ListText writes the submission list as plain text, newest first. Unlike
// the printed page it leads with the serial number column.
func (r *Renderer) ListText(w io.Writer, records []submission.Record) error {
	s := r.listSheet(records)
	s.table = withSerials(s.table, submission.NewestFirst(records))
	return writeText(w, s)
}

// withSerials prepends a serial column. ordered must be in table row order.
func withSerials(t *table, ordered []submission.Record) *table {
	out := &table{
		headers: append([]string{"Serial Number"}, t.headers...),
		empty:   t.empty,
	}
	for i, cells := range t.rows {
		out.rows = append(out.rows, append([]string{ordered[i].SerialNumber}, cells...))
	}
	return out
}

func writeText(w io.Writer, s sheet) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, s.title)
	if s.subtitle != "" {
		fmt.Fprintln(tw, s.subtitle)
	}

	for _, sec := range s.sections {
		fmt.Fprintln(tw)
		if sec.heading != "" {
			fmt.Fprintln(tw, sec.heading)
		}
		for _, rw := range sec.rows {
			fmt.Fprintf(tw, "%s:\t%s\n", rw.label, rw.value)
		}
	}

	if s.table != nil {
		fmt.Fprintln(tw)
		if len(s.table.rows) == 0 {
			fmt.Fprintln(tw, s.table.empty)
		} else {
			fmt.Fprintln(tw, strings.Join(s.table.headers, "\t"))
			for _, cells := range s.table.rows {
				fmt.Fprintln(tw, strings.Join(cells, "\t"))
			}
		}
	}

	if s.footer != "" {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, s.footer)
	}

	return tw.Flush()
}
