package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/talhahasanzia/entrifi/internal/boundary"
	"github.com/talhahasanzia/entrifi/internal/config"
	"github.com/talhahasanzia/entrifi/internal/ipc"
	"github.com/talhahasanzia/entrifi/internal/reason"
	"github.com/talhahasanzia/entrifi/internal/render"
	"github.com/talhahasanzia/entrifi/internal/shell"
	"github.com/talhahasanzia/entrifi/internal/submission"
)

// Remote is the host as seen from a client command.
type Remote interface {
	boundary.Service
	FocusWindow(ctx context.Context) boundary.Envelope
	OpenWindow(ctx context.Context) boundary.Envelope
	CloseWindow(ctx context.Context) boundary.Envelope
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Socket  string // empty resolves from configuration

	// Connect returns the remote for a socket path. Defaults to ipc.Dial.
	Connect func(socketPath string) Remote

	// Clock, Serials, Location and Opener default to real implementations.
	Clock    clockwork.Clock
	Serials  submission.SerialGenerator
	Location *time.Location
	Opener   shell.Opener
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the entrifi CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entrifi",
		Short: "Entrifi - form entry and submission records",
		Long: "Entrifi records form submissions in a local store and prints them as PDF documents.\n\n" +
			"`entrifi serve` runs the host process; the other commands talk to it over a local socket.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Socket, "socket", "", "host socket path (default from ENTRIFI_SOCKET)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewPrintCommand(opts))
	cmd.AddCommand(NewWindowCommand(opts))
	cmd.AddCommand(NewReasonsCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func (o *RootOptions) clock() clockwork.Clock {
	if o.Clock == nil {
		return clockwork.NewRealClock()
	}
	return o.Clock
}

func (o *RootOptions) serials() submission.SerialGenerator {
	if o.Serials == nil {
		return submission.UUIDSerialGenerator{}
	}
	return o.Serials
}

func (o *RootOptions) location() *time.Location {
	if o.Location == nil {
		return time.Local
	}
	return o.Location
}

func (o *RootOptions) opener() shell.Opener {
	if o.Opener == nil {
		return shell.SystemOpener{}
	}
	return o.Opener
}

// socketPath returns the --socket flag or the configured socket.
func (o *RootOptions) socketPath() (string, error) {
	if o.Socket != "" {
		return o.Socket, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return "", WrapExitError(ExitCommandError, "load config", err)
	}
	return cfg.Socket, nil
}

func (o *RootOptions) connect(socketPath string) Remote {
	if o.Connect != nil {
		return o.Connect(socketPath)
	}
	return ipc.Dial(socketPath)
}

// remote resolves the socket and returns a client for it.
func (o *RootOptions) remote() (Remote, error) {
	path, err := o.socketPath()
	if err != nil {
		return nil, err
	}
	return o.connect(path), nil
}

// renderer returns a text/PDF renderer over the embedded reason table.
func (o *RootOptions) renderer() (*render.Renderer, *reason.Catalog, error) {
	catalog, err := reason.Default()
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "load reasons", err)
	}
	return render.New(catalog, render.WithLocation(o.location())), catalog, nil
}

// callFailed reports a failed envelope. Transport failures exit with
// ExitCommandError, host-side failures with ExitFailure.
func callFailed(f *OutputFormatter, env boundary.Envelope) error {
	if strings.HasPrefix(env.Error, "host unreachable") {
		return f.Fail(ExitCommandError, CodeUnreachable, env.Error, nil)
	}
	return f.Fail(ExitFailure, CodeCallFailed, env.Error, nil)
}
