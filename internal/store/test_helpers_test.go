package store

import (
	"path/filepath"
	"testing"

	"github.com/talhahasanzia/entrifi/internal/submission"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	return createStoreAt(t, filepath.Join(t.TempDir(), "test.db"))
}

func createStoreAt(t *testing.T, path string) *Store {
	t.Helper()
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRecord creates a record with minimal required fields.
func createTestRecord(serial string, ts int64) submission.Record {
	return submission.Record{
		SerialNumber: serial,
		CreatedBy:    "a@b.com",
		CreatedFor:   "Jane",
		ReasonType:   "doctor_visit",
		ExtraFields:  map[string]any{},
		Timestamp:    ts,
	}
}
