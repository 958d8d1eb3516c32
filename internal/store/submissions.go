package store

import (
	"context"
	"sync"

	"github.com/talhahasanzia/entrifi/internal/submission"
)

// SubmissionsKey is the logical key holding the submission collection.
const SubmissionsKey = "submissions"

// DefaultMaxRecords caps the collection size.
const DefaultMaxRecords = 10000

// Submissions persists the ordered submission collection under
// SubmissionsKey. It holds no cache; every call reads the medium.
type Submissions struct {
	kv *Store

	// mu serializes read-modify-write cycles.
	mu sync.Mutex

	maxRecords       int
	rejectDuplicates bool
}

// Option configures a Submissions store.
type Option func(*Submissions)

// WithMaxRecords caps the collection at n records. Zero disables the cap.
func WithMaxRecords(n int) Option {
	return func(s *Submissions) { s.maxRecords = n }
}

// WithDuplicateSerialCheck makes Append reject a record whose serial number
// is already stored.
func WithDuplicateSerialCheck() Option {
	return func(s *Submissions) { s.rejectDuplicates = true }
}

// NewSubmissions creates a submission store on top of kv.
func NewSubmissions(kv *Store, opts ...Option) *Submissions {
	s := &Submissions{kv: kv, maxRecords: DefaultMaxRecords}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds rec to the end of the collection. On any error the stored
// collection is unchanged.
func (s *Submissions) Append(ctx context.Context, rec submission.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.kv.Update(ctx, SubmissionsKey, func(current string, _ bool) (string, error) {
		records, err := unmarshalRecords(current)
		if err != nil {
			return "", err
		}

		if s.maxRecords > 0 && len(records) >= s.maxRecords {
			return "", ErrStoreFull
		}
		if s.rejectDuplicates {
			for _, r := range records {
				if r.SerialNumber == rec.SerialNumber {
					return "", ErrDuplicateSerial
				}
			}
		}

		return marshalRecords(append(records, rec))
	})
}

// List returns the collection in insertion order. A key that was never
// written yields an empty, non-nil slice.
func (s *Submissions) List(ctx context.Context) ([]submission.Record, error) {
	raw, found, err := s.kv.Get(ctx, SubmissionsKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return []submission.Record{}, nil
	}
	return unmarshalRecords(raw)
}

// Clear replaces the collection with an empty one.
func (s *Submissions) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	empty, err := marshalRecords(nil)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, SubmissionsKey, empty)
}
