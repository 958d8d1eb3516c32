package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Open bool // also switch the host window to the record's page
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <serial-number>",
		Short: "Show one submission",
		Long: `Print the details of one submission.

With --open the host window also switches to the submission's detail page,
so a following "entrifi print" prints that record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Open, "open", false, "show the submission in the host window")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command, serial string) error {
	f := newFormatter(opts.RootOptions, cmd)

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

	found := false
	var idx int
	records := env.Submissions()
	for i := range records {
		if records[i].SerialNumber == serial {
			found, idx = true, i
			break
		}
	}
	if !found {
		return f.Fail(ExitFailure, CodeNotFound, fmt.Sprintf("submission %q not found", serial), nil)
	}
	rec := records[idx]

	if opts.Open {
		if env := remote.ShowSubmission(cmd.Context(), serial); !env.Success {
			return callFailed(f, env)
		}
		f.VerboseLog("Window now shows %s", serial)
	}

	if f.IsJSON() {
		return f.Success(rec)
	}
	if err := r.DetailText(f.Writer, rec); err != nil {
		return WrapExitError(ExitCommandError, "write details", err)
	}
	return nil
}
