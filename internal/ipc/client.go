package ipc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/talhahasanzia/entrifi/internal/boundary"
	"github.com/talhahasanzia/entrifi/internal/logging"
	"github.com/talhahasanzia/entrifi/internal/submission"
)

// socketBaseURL is the URL used for requests over a unix socket. The host
// part is ignored by the dialer.
const socketBaseURL = "http://entrifi"

const dialTimeout = 2 * time.Second

// Client is the remote proxy for a host Server.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ boundary.Service = (*Client)(nil)

// Dial returns a Client that talks to the host listening on socketPath.
// No connection is made until the first call.
func Dial(socketPath string) *Client {
	dialer := &net.Dialer{Timeout: dialTimeout}
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			return dialer.DialContext(ctx, "unix", socketPath)
		},
	}
	return NewClient(socketBaseURL, &http.Client{Transport: transport})
}

// NewClient returns a Client for a host at baseURL. hc defaults to
// http.DefaultClient.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// wireEnvelope defers decoding of data until the channel is known.
type wireEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Path    string          `json:"path,omitempty"`
}

// SaveSubmission implements boundary.Service.
func (c *Client) SaveSubmission(ctx context.Context, rec submission.Record) boundary.Envelope {
	env, _ := c.call(ctx, "/invoke/"+boundary.ChannelSaveSubmission, rec)
	return env
}

// GetSubmissions implements boundary.Service. Data holds []submission.Record.
func (c *Client) GetSubmissions(ctx context.Context) boundary.Envelope {
	env, raw := c.call(ctx, "/invoke/"+boundary.ChannelGetSubmissions, nil)
	if !env.Success {
		return env
	}

	records := []submission.Record{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &records); err != nil {
			return boundary.Fail(fmt.Errorf("decode submissions: %w", err))
		}
	}
	env.Data = records
	return env
}

// ClearSubmissions implements boundary.Service.
func (c *Client) ClearSubmissions(ctx context.Context) boundary.Envelope {
	env, _ := c.call(ctx, "/invoke/"+boundary.ChannelClearSubmissions, nil)
	return env
}

// PrintToPDF implements boundary.Service.
func (c *Client) PrintToPDF(ctx context.Context) boundary.Envelope {
	env, _ := c.call(ctx, "/invoke/"+boundary.ChannelPrintToPDF, nil)
	return env
}

// ShowSubmission implements boundary.Service.
func (c *Client) ShowSubmission(ctx context.Context, serial string) boundary.Envelope {
	env, _ := c.call(ctx, "/invoke/"+boundary.ChannelShowSubmission, boundary.ShowRequest{SerialNumber: serial})
	return env
}

// Invoke issues a call on an arbitrary channel and decodes data generically.
func (c *Client) Invoke(ctx context.Context, channel string, payload any) boundary.Envelope {
	env, raw := c.call(ctx, "/invoke/"+channel, payload)
	return withGenericData(env, raw)
}

// FocusWindow asks the host to focus its window.
func (c *Client) FocusWindow(ctx context.Context) boundary.Envelope {
	return c.window(ctx, "focus")
}

// OpenWindow asks the host to get or create its window.
func (c *Client) OpenWindow(ctx context.Context) boundary.Envelope {
	return c.window(ctx, "open")
}

// CloseWindow asks the host to close its window.
func (c *Client) CloseWindow(ctx context.Context) boundary.Envelope {
	return c.window(ctx, "close")
}

func (c *Client) window(ctx context.Context, action string) boundary.Envelope {
	env, raw := c.call(ctx, "/window/"+action, nil)
	if !env.Success || len(raw) == 0 {
		return env
	}
	var st WindowState
	if err := json.Unmarshal(raw, &st); err != nil {
		return boundary.Fail(fmt.Errorf("decode window state: %w", err))
	}
	env.Data = st
	return env
}

// call posts payload to path. Transport and decode failures come back as
// failed envelopes, so callers only ever see the envelope shape.
func (c *Client) call(ctx context.Context, path string, payload any) (boundary.Envelope, json.RawMessage) {
	body := []byte("{}")
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return boundary.Fail(fmt.Errorf("encode payload: %w", err)), nil
		}
		body = b
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return boundary.Fail(fmt.Errorf("build request: %w", err)), nil
	}
	req.Header.Set("Content-Type", "application/json")
	if id, ok := logging.CorrelationID(ctx); ok {
		req.Header.Set(CorrelationHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return boundary.Fail(fmt.Errorf("host unreachable: %w", err)), nil
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return boundary.Fail(fmt.Errorf("read response: %w", err)), nil
	}

	var wire wireEnvelope
	if err := json.Unmarshal(data, &wire); err != nil {
		return boundary.Fail(fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)), nil
	}

	env := boundary.Envelope{Success: wire.Success, Error: wire.Error, Path: wire.Path}
	if !env.Success && env.Error == "" {
		env.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
	}
	return env, wire.Data
}

func withGenericData(env boundary.Envelope, raw json.RawMessage) boundary.Envelope {
	if len(raw) == 0 {
		return env
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return boundary.Fail(fmt.Errorf("decode data: %w", err))
	}
	env.Data = v
	return env
}
