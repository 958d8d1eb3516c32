package submission

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Record is one persisted form submission.
//
// ExtraFields holds JSON scalars (string, float64, bool or nil) keyed by the
// field names of the record's reason type. Its shape is owned by the reason
// schema, not by this type.
type Record struct {
	SerialNumber   string         `json:"serialNumber"`
	CreatedBy      string         `json:"createdBy"`
	CreatedFor     string         `json:"createdFor"`
	ReasonType     string         `json:"reasonType,omitempty"`
	Amount         *float64       `json:"amount,omitempty"`
	CreationReason string         `json:"creationReason,omitempty"`
	ExtraFields    map[string]any `json:"extraFields"`
	Timestamp      int64          `json:"timestamp"`
}

// CreatedAt returns the record timestamp as a time.Time.
func (r Record) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// Draft is the user-entered part of a record, before a serial number and
// timestamp are assigned.
type Draft struct {
	CreatedFor     string
	ReasonType     string
	Amount         *float64
	CreationReason string
	ExtraFields    map[string]any
}

// SerialGenerator produces serial numbers for new records.
type SerialGenerator interface {
	Generate(now time.Time) string
}

// UUIDSerialGenerator joins a random UUID with the creation time in
// milliseconds. Uniqueness is probabilistic.
type UUIDSerialGenerator struct{}

// Generate returns "<uuid>-<unix-ms>".
func (UUIDSerialGenerator) Generate(now time.Time) string {
	return fmt.Sprintf("%s-%d", uuid.NewString(), now.UnixMilli())
}

// FixedSerialGenerator hands out predetermined serials for tests.
type FixedSerialGenerator struct {
	mu      sync.Mutex
	serials []string
	idx     int
}

// NewFixedSerialGenerator creates a generator that returns serials in order.
func NewFixedSerialGenerator(serials ...string) *FixedSerialGenerator {
	return &FixedSerialGenerator{serials: serials}
}

// Generate returns the next serial. Panics once all serials are used.
func (g *FixedSerialGenerator) Generate(time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.serials) {
		panic("FixedSerialGenerator: all serials exhausted")
	}
	s := g.serials[g.idx]
	g.idx++
	return s
}

// jsonNumber converts Go numeric kinds to float64, the only number type an
// ExtraFields value has after the store's JSON round trip.
func jsonNumber(v any) any {
	switch x := v.(type) {
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	case float32:
		return float64(x)
	default:
		return v
	}
}

// New assigns a serial number and creation timestamp to a draft.
// Text fields are trimmed; the draft's ExtraFields map is copied with
// numbers converted to float64.
func New(clock clockwork.Clock, serials SerialGenerator, createdBy string, d Draft) Record {
	now := clock.Now()

	var extra map[string]any
	if d.ExtraFields != nil {
		extra = make(map[string]any, len(d.ExtraFields))
		for k, v := range d.ExtraFields {
			extra[k] = jsonNumber(v)
		}
	}

	return Record{
		SerialNumber:   serials.Generate(now),
		CreatedBy:      createdBy,
		CreatedFor:     strings.TrimSpace(d.CreatedFor),
		ReasonType:     d.ReasonType,
		Amount:         d.Amount,
		CreationReason: strings.TrimSpace(d.CreationReason),
		ExtraFields:    extra,
		Timestamp:      now.UnixMilli(),
	}
}
