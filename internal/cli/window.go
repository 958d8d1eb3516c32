package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talhahasanzia/entrifi/internal/boundary"
	"github.com/talhahasanzia/entrifi/internal/ipc"
)

// NewWindowCommand creates the window command group.
func NewWindowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "window",
		Short: "Control the host window",
		Long: `Control the single window of a running host.

  focus - restore and focus the window if one exists
  open  - create the window if none exists, otherwise focus it
  close - close the window; the host keeps running`,
	}

	cmd.AddCommand(newWindowActionCommand(rootOpts, "focus", "Focus the host window", Remote.FocusWindow))
	cmd.AddCommand(newWindowActionCommand(rootOpts, "open", "Open or focus the host window", Remote.OpenWindow))
	cmd.AddCommand(newWindowActionCommand(rootOpts, "close", "Close the host window", Remote.CloseWindow))

	return cmd
}

func newWindowActionCommand(rootOpts *RootOptions, use, short string, action func(Remote, context.Context) boundary.Envelope) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)

			remote, err := rootOpts.remote()
			if err != nil {
				return err
			}

			env := action(remote, cmd.Context())
			if !env.Success {
				return callFailed(f, env)
			}

			st, _ := env.Data.(ipc.WindowState)
			if f.IsJSON() {
				return f.Success(st)
			}
			if st.ID == "" {
				return f.Success(fmt.Sprintf("Window %s", st.State))
			}
			return f.Success(fmt.Sprintf("Window %s (%s): %s", st.ID, st.Title, st.State))
		},
	}
}
