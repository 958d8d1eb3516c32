package cli

import (
	"github.com/spf13/cobra"

	"github.com/talhahasanzia/entrifi/internal/submission"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved submissions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd)
		},
	}
}

func runList(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)

	r, _, err := opts.renderer()
	if err != nil {
		return err
	}
	remote, err := opts.remote()
	if err != nil {
		return err
	}

	env := remote.GetSubmissions(cmd.Context())
	if !env.Success {
		return callFailed(f, env)
	}
	records := env.Submissions()
	f.VerboseLog("Fetched %d submission(s)", len(records))

	if f.IsJSON() {
		return f.Success(submission.NewestFirst(records))
	}
	if err := r.ListText(f.Writer, records); err != nil {
		return WrapExitError(ExitCommandError, "write list", err)
	}
	return nil
}
