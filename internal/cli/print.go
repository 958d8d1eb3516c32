package cli

import (
	"github.com/spf13/cobra"
)

// NewPrintCommand creates the print command.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the host window's current page to PDF",
		Long: `Ask the host to print the page its window is showing to a PDF file,
then open that file in the system viewer.

The list page is printed unless "entrifi show --open" selected a submission.
Fails with "Window not found" when the host has no window.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(rootOpts, cmd)
		},
	}
}

func runPrint(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	remote, err := opts.remote()
	if err != nil {
		return err
	}

	env := remote.PrintToPDF(cmd.Context())
	if !env.Success {
		return callFailed(f, env)
	}

	if f.IsJSON() {
		return f.Success(map[string]string{"path": env.Path})
	}
	return f.Success(env.Path)
}
