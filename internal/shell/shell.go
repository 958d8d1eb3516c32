// Package shell exposes the host capabilities the UI may not use directly:
// handing a file to the system's default viewer.
package shell

import (
	"fmt"
	"io"
	"sync"

	"github.com/pkg/browser"
)

// Opener opens a file with the system's default application.
type Opener interface {
	Open(path string) error
}

// SystemOpener opens files through the platform launcher
// (xdg-open, open, or start).
type SystemOpener struct{}

var quietOnce sync.Once

// Open hands path to the default viewer. The viewer runs detached; Open
// returns once the launcher has been started.
func (SystemOpener) Open(path string) error {
	// The launcher's own output must not reach the host's stdout.
	quietOnce.Do(func() {
		browser.Stdout = io.Discard
		browser.Stderr = io.Discard
	})
	if err := browser.OpenFile(path); err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	return nil
}

// RecordingOpener records paths instead of opening them.
type RecordingOpener struct {
	mu    sync.Mutex
	paths []string

	// Err, when set, is returned by Open after recording the path.
	Err error
}

// Open records path.
func (o *RecordingOpener) Open(path string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.paths = append(o.paths, path)
	return o.Err
}

// Paths returns the recorded paths in call order.
func (o *RecordingOpener) Paths() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.paths))
	copy(out, o.paths)
	return out
}
