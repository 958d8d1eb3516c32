package boundary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/talhahasanzia/entrifi/internal/submission"
)

// HandlerFunc handles one channel. payload is the raw JSON request body and
// may be empty.
type HandlerFunc func(ctx context.Context, payload json.RawMessage) Envelope

// Dispatcher routes channel names to handlers.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	order    []string
}

// NewDispatcher returns a Dispatcher with every channel of svc registered.
func NewDispatcher(svc Service) *Dispatcher {
	d := &Dispatcher{handlers: make(map[string]HandlerFunc)}

	d.mustRegister(ChannelSaveSubmission, func(ctx context.Context, payload json.RawMessage) Envelope {
		var rec submission.Record
		if isEmptyPayload(payload) {
			return Fail(errMissingPayload)
		}
		if err := decodePayload(payload, &rec); err != nil {
			return Fail(err)
		}
		return svc.SaveSubmission(ctx, rec)
	})
	d.mustRegister(ChannelGetSubmissions, func(ctx context.Context, _ json.RawMessage) Envelope {
		return svc.GetSubmissions(ctx)
	})
	d.mustRegister(ChannelClearSubmissions, func(ctx context.Context, _ json.RawMessage) Envelope {
		return svc.ClearSubmissions(ctx)
	})
	d.mustRegister(ChannelPrintToPDF, func(ctx context.Context, _ json.RawMessage) Envelope {
		return svc.PrintToPDF(ctx)
	})
	d.mustRegister(ChannelShowSubmission, func(ctx context.Context, payload json.RawMessage) Envelope {
		var req ShowRequest
		if err := decodePayload(payload, &req); err != nil {
			return Fail(err)
		}
		return svc.ShowSubmission(ctx, req.SerialNumber)
	})

	return d
}

// Register adds a handler. Channel names are unique.
func (d *Dispatcher) Register(channel string, h HandlerFunc) error {
	if channel == "" {
		return fmt.Errorf("register: empty channel name")
	}
	if _, ok := d.handlers[channel]; ok {
		return fmt.Errorf("register: duplicate channel %q", channel)
	}
	d.handlers[channel] = h
	d.order = append(d.order, channel)
	return nil
}

func (d *Dispatcher) mustRegister(channel string, h HandlerFunc) {
	if err := d.Register(channel, h); err != nil {
		panic(err)
	}
}

// Channels returns the registered channels in registration order.
func (d *Dispatcher) Channels() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Invoke runs the handler for channel. found is false for an unknown
// channel, in which case the envelope carries "unknown channel: <name>".
func (d *Dispatcher) Invoke(ctx context.Context, channel string, payload json.RawMessage) (env Envelope, found bool) {
	h, ok := d.handlers[channel]
	if !ok {
		return Fail(fmt.Errorf("unknown channel: %s", channel)), false
	}

	defer func() {
		if r := recover(); r != nil {
			env = Fail(fmt.Errorf("internal error: %v", r))
		}
	}()
	return h(ctx, payload), true
}

// errMissingPayload rejects a call whose request carries no value at all.
var errMissingPayload = errors.New("missing payload")

func isEmptyPayload(payload json.RawMessage) bool {
	payload = bytes.TrimSpace(payload)
	return len(payload) == 0 || bytes.Equal(payload, []byte("null"))
}

func decodePayload(payload json.RawMessage, v any) error {
	if isEmptyPayload(payload) {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
