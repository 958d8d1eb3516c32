package render

import (
	"errors"
	"fmt"
)

// RenderError reports that a document could not be generated or written.
type RenderError struct {
	// Op is "generate" or "write".
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render: %s: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// IsRenderError reports whether err is or wraps a *RenderError.
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
