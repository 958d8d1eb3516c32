package window

import (
	"sync"
	"time"

	"github.com/talhahasanzia/entrifi/internal/submission"
)

// Title is the window title shown by the host.
const Title = "Entrifi"

// Page is what the window currently displays. A nil Record means the
// submission list.
type Page struct {
	Record *submission.Record
}

// IsList reports whether the page shows the submission list.
func (p Page) IsList() bool {
	return p.Record == nil
}

// Window is the host-side handle of the application window.
type Window struct {
	id      string
	created time.Time

	mu         sync.Mutex
	minimized  bool
	focusCount int
	page       Page
}

// ID identifies this window instance.
func (w *Window) ID() string {
	return w.id
}

// Title returns the window title.
func (w *Window) Title() string {
	return Title
}

// CreatedAt returns when the window was created.
func (w *Window) CreatedAt() time.Time {
	return w.created
}

// Focus restores a minimized window and brings it to the front.
func (w *Window) Focus() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.minimized = false
	w.focusCount++
}

// Minimize minimizes the window.
func (w *Window) Minimize() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.minimized = true
}

// IsMinimized reports whether the window is minimized.
func (w *Window) IsMinimized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.minimized
}

// FocusCount returns how many times the window was focused.
func (w *Window) FocusCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focusCount
}

// Page returns the current page.
func (w *Window) Page() Page {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.page
}

// Show replaces the current page.
func (w *Window) Show(p Page) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.page = p
}
