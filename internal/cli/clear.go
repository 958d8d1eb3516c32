package cli

import (
	"github.com/spf13/cobra"
)

// ClearOptions holds flags for the clear command.
type ClearOptions struct {
	*RootOptions
	Yes bool
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all submissions",
		Long: `Delete every saved submission. This cannot be undone.

The --yes flag is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClear(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "confirm deleting all submissions")

	return cmd
}

func runClear(opts *ClearOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)

	if !opts.Yes {
		return f.Fail(ExitFailure, CodeValidation, "refusing to clear submissions without --yes", nil)
	}

	remote, err := opts.remote()
	if err != nil {
		return err
	}

	env := remote.ClearSubmissions(cmd.Context())
	if !env.Success {
		return callFailed(f, env)
	}

	if f.IsJSON() {
		return f.Success(map[string]bool{"cleared": true})
	}
	return f.Success("All submissions cleared")
}
