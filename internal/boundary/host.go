package boundary

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/jonboulle/clockwork"

	"github.com/talhahasanzia/entrifi/internal/metrics"
	"github.com/talhahasanzia/entrifi/internal/render"
	"github.com/talhahasanzia/entrifi/internal/shell"
	"github.com/talhahasanzia/entrifi/internal/submission"
	"github.com/talhahasanzia/entrifi/internal/window"
)

// SubmissionStore is the persistence the host delegates data calls to.
type SubmissionStore interface {
	Append(ctx context.Context, rec submission.Record) error
	List(ctx context.Context) ([]submission.Record, error)
	Clear(ctx context.Context) error
}

// Renderer turns a page into a document.
type Renderer interface {
	Detail(rec submission.Record) ([]byte, error)
	List(records []submission.Record) ([]byte, error)
}

// HostConfig wires a Host.
type HostConfig struct {
	Store    SubmissionStore
	Windows  *window.Manager
	Renderer Renderer
	Opener   shell.Opener

	// PDFDir receives rendered documents. Empty means os.TempDir().
	PDFDir string

	Clock   clockwork.Clock
	Metrics *metrics.Boundary
	Logger  *slog.Logger
}

// Host is the in-process Service. Calls run sequentially from the caller's
// point of view; the store guards its own read-modify-write cycles.
type Host struct {
	store    SubmissionStore
	windows  *window.Manager
	renderer Renderer
	opener   shell.Opener
	pdfDir   string
	clock    clockwork.Clock
	metrics  *metrics.Boundary
	logger   *slog.Logger
}

var _ Service = (*Host)(nil)

// NewHost creates a Host. Clock and Logger default to the real clock and
// slog.Default().
func NewHost(cfg HostConfig) *Host {
	h := &Host{
		store:    cfg.Store,
		windows:  cfg.Windows,
		renderer: cfg.Renderer,
		opener:   cfg.Opener,
		pdfDir:   cfg.PDFDir,
		clock:    cfg.Clock,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
	}
	if h.clock == nil {
		h.clock = clockwork.NewRealClock()
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	return h
}

// SaveSubmission implements Service.
func (h *Host) SaveSubmission(ctx context.Context, rec submission.Record) Envelope {
	return h.guard(ctx, ChannelSaveSubmission, func() Envelope {
		if err := h.store.Append(ctx, rec); err != nil {
			return Fail(err)
		}
		h.logger.InfoContext(ctx, "submission saved", "serial_number", rec.SerialNumber)
		return OK()
	})
}

// GetSubmissions implements Service.
func (h *Host) GetSubmissions(ctx context.Context) Envelope {
	return h.guard(ctx, ChannelGetSubmissions, func() Envelope {
		records, err := h.store.List(ctx)
		if err != nil {
			return Fail(err)
		}
		if records == nil {
			records = []submission.Record{}
		}
		return OKData(records)
	})
}

// ClearSubmissions implements Service.
func (h *Host) ClearSubmissions(ctx context.Context) Envelope {
	return h.guard(ctx, ChannelClearSubmissions, func() Envelope {
		if err := h.store.Clear(ctx); err != nil {
			return Fail(err)
		}
		// A detail page would otherwise keep printing a cleared record.
		if w, ok := h.windows.Active(); ok {
			w.Show(window.Page{})
		}
		h.logger.InfoContext(ctx, "submissions cleared")
		return OK()
	})
}

// PrintToPDF implements Service. Without an Active window it fails with
// "Window not found" before touching the filesystem.
func (h *Host) PrintToPDF(ctx context.Context) Envelope {
	return h.guard(ctx, ChannelPrintToPDF, func() Envelope {
		w, ok := h.windows.Active()
		if !ok {
			return Fail(window.ErrNoActiveSurface)
		}

		data, err := h.renderPage(ctx, w.Page())
		if err != nil {
			return Fail(err)
		}

		path, err := render.WriteTemp(h.pdfDir, h.clock.Now(), data)
		if err != nil {
			return Fail(err)
		}

		if err := h.opener.Open(path); err != nil {
			return Fail(err)
		}

		h.logger.InfoContext(ctx, "document written", "path", path, "bytes", len(data))
		return OKPath(path)
	})
}

// ShowSubmission implements Service.
func (h *Host) ShowSubmission(ctx context.Context, serial string) Envelope {
	return h.guard(ctx, ChannelShowSubmission, func() Envelope {
		w, ok := h.windows.Active()
		if !ok {
			return Fail(window.ErrNoActiveSurface)
		}

		if serial == "" {
			w.Show(window.Page{})
			return OK()
		}

		records, err := h.store.List(ctx)
		if err != nil {
			return Fail(err)
		}
		for i := range records {
			if records[i].SerialNumber == serial {
				rec := records[i]
				w.Show(window.Page{Record: &rec})
				return OK()
			}
		}
		return Fail(fmt.Errorf("submission %q not found", serial))
	})
}

func (h *Host) renderPage(ctx context.Context, p window.Page) ([]byte, error) {
	if !p.IsList() {
		return h.renderer.Detail(*p.Record)
	}
	records, err := h.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return h.renderer.List(records)
}

// guard is the terminal catch for a call: it converts panics into failed
// envelopes, logs failures and records metrics.
func (h *Host) guard(ctx context.Context, channel string, fn func() Envelope) (env Envelope) {
	start := h.clock.Now()

	defer func() {
		if r := recover(); r != nil {
			h.logger.ErrorContext(ctx, "boundary call panicked",
				"channel", channel, "panic", r, "stack", string(debug.Stack()))
			env = Fail(fmt.Errorf("internal error: %v", r))
		}
		if !env.Success {
			h.logger.ErrorContext(ctx, "boundary call failed", "channel", channel, "error", env.Error)
		}
		h.metrics.ObserveCall(channel, env.Success, h.clock.Since(start))
	}()

	return fn()
}
