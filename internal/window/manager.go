package window

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// ErrNoActiveSurface is returned when an operation needs the window and none
// is Active. The message is the text shown to the UI.
var ErrNoActiveSurface = errors.New("Window not found") //nolint:staticcheck // user-facing text

// State is the lifecycle state of the managed window.
type State int

const (
	StateNoWindow State = iota
	StateCreating
	StateActive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateNoWindow:
		return "no-window"
	case StateCreating:
		return "creating"
	case StateActive:
		return "active"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CreateHook runs while a new window is in the Creating state. An error
// aborts creation and returns the manager to its previous state.
type CreateHook func(ctx context.Context, w *Window) error

// Manager holds the single window and its state machine.
type Manager struct {
	mu     sync.Mutex
	state  State
	win    *Window
	clock  clockwork.Clock
	onInit CreateHook
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used to stamp window creation.
func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithCreateHook sets the hook run for each new window.
func WithCreateHook(h CreateHook) Option {
	return func(m *Manager) { m.onInit = h }
}

// WithLogger sets the manager's logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a manager with no window.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		state:  StateNoWindow,
		clock:  clockwork.NewRealClock(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// GetOrCreate returns the Active window, focusing it, or creates a new one.
// created is true only when a new window was made.
func (m *Manager) GetOrCreate(ctx context.Context) (w *Window, created bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateActive {
		m.win.Focus()
		m.logger.Debug("window already active, focused", "window_id", m.win.id)
		return m.win, false, nil
	}

	prev := m.state
	m.state = StateCreating

	w = &Window{id: uuid.NewString(), created: m.clock.Now()}
	if m.onInit != nil {
		if err := m.onInit(ctx, w); err != nil {
			m.state = prev
			return nil, false, fmt.Errorf("create window: %w", err)
		}
	}

	m.win = w
	m.state = StateActive
	m.logger.Info("window created", "window_id", w.id, "title", Title)
	return w, true, nil
}

// FocusIfExists focuses the Active window. It reports false and does nothing
// when no window is Active.
func (m *Manager) FocusIfExists() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return false
	}
	m.win.Focus()
	return true
}

// Active returns the Active window.
func (m *Manager) Active() (*Window, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return nil, false
	}
	return m.win, true
}

// Close moves the Active window to Closed. Returns ErrNoActiveSurface when
// no window is Active.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return ErrNoActiveSurface
	}
	m.logger.Info("window closed", "window_id", m.win.id)
	m.win = nil
	m.state = StateClosed
	return nil
}
