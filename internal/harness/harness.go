package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/talhahasanzia/entrifi/internal/boundary"
	"github.com/talhahasanzia/entrifi/internal/logging"
	"github.com/talhahasanzia/entrifi/internal/reason"
	"github.com/talhahasanzia/entrifi/internal/render"
	"github.com/talhahasanzia/entrifi/internal/shell"
	"github.com/talhahasanzia/entrifi/internal/store"
	"github.com/talhahasanzia/entrifi/internal/testutil"
	"github.com/talhahasanzia/entrifi/internal/window"
)

// stepInterval is how far the fake clock advances after each step.
const stepInterval = time.Second

// Harness executes scenarios against an in-process host.
type Harness struct {
	store      *store.Submissions
	windows    *window.Manager
	dispatcher *boundary.Dispatcher
	clock      *clockwork.FakeClock
	pdfDir     string
	seq        int64
}

// Run executes a scenario and returns its result. Expectation and assertion
// failures are reported in the result; the error return is reserved for
// harness setup failures and failing setup steps.
func Run(scenario *Scenario) (*Result, error) {
	dir, err := os.MkdirTemp("", "entrifi-harness-")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	kv, err := store.Open(filepath.Join(dir, "entrifi.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	defer kv.Close()

	pdfDir := filepath.Join(dir, "documents")
	if err := os.Mkdir(pdfDir, 0o755); err != nil {
		return nil, fmt.Errorf("create document dir: %w", err)
	}

	catalog, err := reason.Default()
	if err != nil {
		return nil, fmt.Errorf("load reasons: %w", err)
	}

	clock := testutil.NewFakeClock()
	logger := logging.Discard()
	windows := window.NewManager(window.WithClock(clock), window.WithLogger(logger))
	subs := store.NewSubmissions(kv)

	host := boundary.NewHost(boundary.HostConfig{
		Store:   subs,
		Windows: windows,
		Renderer: render.New(catalog,
			render.WithLocation(time.UTC),
			render.WithCreationDate(clock.Now())),
		Opener: &shell.RecordingOpener{},
		PDFDir: pdfDir,
		Clock:  clock,
		Logger: logger,
	})

	h := &Harness{
		store:      subs,
		windows:    windows,
		dispatcher: boundary.NewDispatcher(host),
		clock:      clock,
		pdfDir:     pdfDir,
	}
	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	if scenario.Window {
		if _, _, err := h.windows.GetOrCreate(ctx); err != nil {
			return nil, fmt.Errorf("open window: %w", err)
		}
	}

	for i, step := range scenario.Setup {
		env := h.execute(ctx, step)
		if !env.Success {
			return nil, fmt.Errorf("setup[%d] %s failed: %s", i, stepName(step), env.Error)
		}
	}

	result := NewResult()
	for i, step := range scenario.Flow {
		h.seq++
		result.addInvocation(h.seq, step)

		env := h.execute(ctx, step)

		var count *int
		if step.Call == boundary.ChannelGetSubmissions && env.Success {
			n := len(env.Submissions())
			count = &n
		}
		path := ""
		if env.Path != "" {
			path = filepath.Base(env.Path)
		}

		h.seq++
		result.addCompletion(h.seq, env.Success, env.Error, path, count)

		if step.Expect != nil {
			for _, msg := range checkExpect(step.Expect, env.Success, env.Error, path, count) {
				result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, stepName(step), msg))
			}
		}
	}

	if err := h.collectState(ctx, result); err != nil {
		return nil, err
	}

	for i, a := range scenario.Assertions {
		if err := evaluateAssertion(result, a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}

	return result, nil
}

// execute runs one step and advances the clock.
func (h *Harness) execute(ctx context.Context, step Step) boundary.Envelope {
	defer h.clock.Advance(stepInterval)

	if step.Window != "" {
		return h.windowAction(ctx, step.Window)
	}

	var payload json.RawMessage
	if step.Payload != nil {
		b, err := json.Marshal(step.Payload)
		if err != nil {
			return boundary.Fail(fmt.Errorf("encode payload: %w", err))
		}
		payload = b
	}

	env, _ := h.dispatcher.Invoke(ctx, step.Call, payload)
	return env
}

func (h *Harness) windowAction(ctx context.Context, action string) boundary.Envelope {
	switch action {
	case WindowOpen:
		if _, _, err := h.windows.GetOrCreate(ctx); err != nil {
			return boundary.Fail(err)
		}
	case WindowFocus:
		if !h.windows.FocusIfExists() {
			return boundary.Fail(window.ErrNoActiveSurface)
		}
	case WindowClose:
		if err := h.windows.Close(); err != nil {
			return boundary.Fail(err)
		}
	case WindowMinimize:
		w, ok := h.windows.Active()
		if !ok {
			return boundary.Fail(window.ErrNoActiveSurface)
		}
		w.Minimize()
	default:
		return boundary.Fail(fmt.Errorf("unknown window action %q", action))
	}
	return boundary.OK()
}

func (h *Harness) collectState(ctx context.Context, result *Result) error {
	records, err := h.store.List(ctx)
	if err != nil {
		return fmt.Errorf("read final state: %w", err)
	}
	for _, rec := range records {
		result.Serials = append(result.Serials, rec.SerialNumber)
	}

	entries, err := os.ReadDir(h.pdfDir)
	if err != nil {
		return fmt.Errorf("list documents: %w", err)
	}
	for _, e := range entries {
		result.Files = append(result.Files, e.Name())
	}
	return nil
}

func checkExpect(want *Expect, success bool, errMsg, path string, count *int) []string {
	var problems []string
	if want.Success != success {
		problems = append(problems, fmt.Sprintf("expected success=%t, got %t (error %q)", want.Success, success, errMsg))
	}
	if want.Error != "" && want.Error != errMsg {
		problems = append(problems, fmt.Sprintf("expected error %q, got %q", want.Error, errMsg))
	}
	if want.Path != "" && want.Path != path {
		problems = append(problems, fmt.Sprintf("expected path %q, got %q", want.Path, path))
	}
	if want.Count != nil {
		switch {
		case count == nil:
			problems = append(problems, fmt.Sprintf("expected %d submissions, got no list", *want.Count))
		case *count != *want.Count:
			problems = append(problems, fmt.Sprintf("expected %d submissions, got %d", *want.Count, *count))
		}
	}
	return problems
}

func stepName(step Step) string {
	if step.Window != "" {
		return "window " + step.Window
	}
	return step.Call
}
