// Package instance enforces a single running host per socket path.
//
// The lock is the listening unix socket itself. A second launch finds a live
// host on the socket, forwards a focus request to it and stops. A socket file
// left behind by a crashed host is detected by a failed dial and replaced.
package instance

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ErrAlreadyRunning is returned by Acquire when another host holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

const probeTimeout = time.Second

// Focuser forwards a focus request to the running host.
type Focuser func(ctx context.Context, socketPath string) error

// Lock is a held single-instance lock.
type Lock struct {
	path     string
	listener net.Listener
	once     sync.Once
	err      error
}

// Option configures Acquire.
type Option func(*options)

type options struct {
	focus  Focuser
	logger *slog.Logger
}

// WithFocuser sets the function used to notify a running host.
func WithFocuser(f Focuser) Option {
	return func(o *options) { o.focus = f }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Acquire takes the lock at socketPath. When a live host already listens
// there it calls the focuser and returns ErrAlreadyRunning.
func Acquire(ctx context.Context, socketPath string, opts ...Option) (*Lock, error) {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(filepath.Dir(socketPath), 0o700); err != nil {
		return nil, fmt.Errorf("create socket dir: %w", err)
	}

	if alive(ctx, socketPath) {
		o.logger.InfoContext(ctx, "instance already running, forwarding focus", "socket", socketPath)
		if o.focus != nil {
			if err := o.focus(ctx, socketPath); err != nil {
				o.logger.WarnContext(ctx, "focus request failed", "error", err)
			}
		}
		return nil, ErrAlreadyRunning
	}

	if err := os.Remove(socketPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}

	l, err := net.Listen("unix", socketPath)
	if err != nil {
		if alive(ctx, socketPath) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("listen %s: %w", socketPath, err)
	}
	if err := os.Chmod(socketPath, 0o600); err != nil {
		l.Close()
		return nil, fmt.Errorf("chmod socket: %w", err)
	}

	o.logger.DebugContext(ctx, "instance lock acquired", "socket", socketPath)
	return &Lock{path: socketPath, listener: l}, nil
}

func alive(ctx context.Context, socketPath string) bool {
	d := net.Dialer{Timeout: probeTimeout}
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Path returns the socket path.
func (l *Lock) Path() string {
	return l.path
}

// Listener returns the socket listener backing the lock.
func (l *Lock) Listener() net.Listener {
	return l.listener
}

// Release closes the listener and removes the socket file. It is safe to
// call more than once.
func (l *Lock) Release() error {
	l.once.Do(func() {
		if err := l.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			l.err = err
		}
		if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) && l.err == nil {
			l.err = err
		}
	})
	return l.err
}
