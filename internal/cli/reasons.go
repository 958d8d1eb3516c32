package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewReasonsCommand creates the reasons command.
func NewReasonsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reasons",
		Short: "List reason types and their extra fields",
		Long: `List the reason types a submission can use, with the extra fields each
one accepts through "entrifi save --field name=value".

This command does not need a running host.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)

			_, catalog, err := rootOpts.renderer()
			if err != nil {
				return err
			}

			if f.IsJSON() {
				return f.Success(catalog.All())
			}

			tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
			for _, r := range catalog.All() {
				fmt.Fprintf(tw, "%s\t%s\n", r.Key, r.Label)
				for _, field := range r.Fields {
					kind := string(field.Type)
					if len(field.Options) > 0 {
						kind += " (" + strings.Join(field.Options, ", ") + ")"
					}
					fmt.Fprintf(tw, "  %s\t%s\t%s\n", field.Name, field.Label, kind)
				}
			}
			return tw.Flush()
		},
	}
}
