package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const maxNameAttempts = 100

// WriteTemp writes data to dir as form-<unix-ms>.pdf and returns the path.
// An existing file is never overwritten; a numeric suffix is added instead.
// The file is not tracked or removed afterwards.
func WriteTemp(dir string, now time.Time, data []byte) (string, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	base := fmt.Sprintf("form-%d", now.UnixMilli())

	for i := 0; i < maxNameAttempts; i++ {
		name := base + ".pdf"
		if i > 0 {
			name = fmt.Sprintf("%s-%d.pdf", base, i)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", &RenderError{Op: "write", Err: err}
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", &RenderError{Op: "write", Err: err}
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", &RenderError{Op: "write", Err: err}
		}
		return path, nil
	}

	return "", &RenderError{Op: "write", Err: fmt.Errorf("no free file name for %s in %s", base, dir)}
}
