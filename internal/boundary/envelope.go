package boundary

import (
	"errors"

	"github.com/talhahasanzia/entrifi/internal/submission"
)

// Envelope is the uniform result of every boundary call.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Path    string `json:"path,omitempty"`
}

// OK returns a successful envelope without payload.
func OK() Envelope {
	return Envelope{Success: true}
}

// OKData returns a successful envelope carrying data.
func OKData(data any) Envelope {
	return Envelope{Success: true, Data: data}
}

// OKPath returns a successful envelope carrying a file path.
func OKPath(path string) Envelope {
	return Envelope{Success: true, Path: path}
}

// Fail converts err into a failed envelope.
func Fail(err error) Envelope {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return Envelope{Success: false, Error: msg}
}

// Err returns the failure as an error, or nil on success.
func (e Envelope) Err() error {
	if e.Success {
		return nil
	}
	if e.Error == "" {
		return errors.New("unknown error")
	}
	return errors.New(e.Error)
}

// Submissions returns the records carried by a get-submissions envelope.
func (e Envelope) Submissions() []submission.Record {
	records, _ := e.Data.([]submission.Record)
	return records
}
