package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/talhahasanzia/entrifi/internal/boundary"
	"github.com/talhahasanzia/entrifi/internal/config"
	"github.com/talhahasanzia/entrifi/internal/instance"
	"github.com/talhahasanzia/entrifi/internal/ipc"
	"github.com/talhahasanzia/entrifi/internal/logging"
	"github.com/talhahasanzia/entrifi/internal/metrics"
	"github.com/talhahasanzia/entrifi/internal/store"
	"github.com/talhahasanzia/entrifi/internal/window"
)

const shutdownTimeout = 5 * time.Second

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	NoWindow bool // do not open the window at startup
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the host process",
		Long: `Run the privileged host: the submission store, the application window and
the boundary calls on a local socket.

Only one host runs per socket. A second "entrifi serve" asks the running host
to focus its window and exits with status 0.

Examples:
  entrifi serve
  entrifi serve --socket /run/user/1000/entrifi.sock
  ENTRIFI_DATA_DIR=/tmp/entrifi entrifi serve --no-window`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.NoWindow, "no-window", false, "do not open the window at startup")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions, cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	if opts.Socket != "" {
		cfg.Socket = opts.Socket
	}

	logger := logging.Init(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat, opts.Verbose)

	if err := cfg.EnsureDataDir(); err != nil {
		return WrapExitError(ExitCommandError, "create data dir", err)
	}

	lock, err := instance.Acquire(ctx, cfg.Socket,
		instance.WithLogger(logger),
		instance.WithFocuser(func(ctx context.Context, path string) error {
			return opts.connect(path).FocusWindow(ctx).Err()
		}),
	)
	if errors.Is(err, instance.ErrAlreadyRunning) {
		fmt.Fprintln(cmd.OutOrStdout(), "Entrifi is already running; focused the existing window.")
		return nil
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "acquire instance lock", err)
	}
	defer lock.Release()

	kv, err := store.Open(cfg.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer kv.Close()

	storeOpts := []store.Option{store.WithMaxRecords(cfg.MaxSubmissions)}
	if cfg.RejectDuplicateSerials {
		storeOpts = append(storeOpts, store.WithDuplicateSerialCheck())
	}

	renderer, _, err := opts.renderer()
	if err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	bm := metrics.NewBoundary(reg)
	windows := window.NewManager(window.WithLogger(logger), window.WithClock(opts.clock()))

	host := boundary.NewHost(boundary.HostConfig{
		Store:    store.NewSubmissions(kv, storeOpts...),
		Windows:  windows,
		Renderer: renderer,
		Opener:   opts.opener(),
		PDFDir:   cfg.PDFDir,
		Clock:    opts.clock(),
		Metrics:  bm,
		Logger:   logger,
	})

	server := ipc.NewServer(ipc.ServerConfig{
		Dispatcher: boundary.NewDispatcher(host),
		Windows:    windows,
		Registry:   reg,
		Metrics:    bm,
		Logger:     logger,
	})

	if !opts.NoWindow {
		if _, _, err := windows.GetOrCreate(ctx); err != nil {
			return WrapExitError(ExitCommandError, "open window", err)
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(lock.Listener()) }()

	logger.Info("host started", "socket", cfg.Socket, "database", cfg.Database)

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return WrapExitError(ExitCommandError, "serve", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	<-errCh

	logger.Info("host stopped")
	return nil
}
