package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	var name string
	err = s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='kv'").Scan(&name)
	if err != nil {
		t.Errorf("kv table not found after idempotent opens: %v", err)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	if err == nil {
		t.Fatal("expected error for invalid path, got nil")
	}
	if !IsPersistenceError(err) {
		t.Errorf("expected PersistenceError, got %T: %v", err, err)
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	garbage := strings.Repeat("this is not a sqlite database\n", 64)
	if err := os.WriteFile(path, []byte(garbage), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Open(path)
	if err == nil {
		t.Fatal("expected error for corrupt file, got nil")
	}
	if !IsPersistenceError(err) {
		t.Errorf("expected PersistenceError, got %T: %v", err, err)
	}
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s := createStoreAt(t, path)
	_, err := s.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	s.Close()

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestPragma_JournalMode(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("journal_mode", "wal"); err != nil {
		t.Error(err)
	}
}

func TestPragma_Synchronous(t *testing.T) {
	s := createTestStore(t)
	// NORMAL = 1
	if err := s.verifyPragma("synchronous", "1"); err != nil {
		t.Error(err)
	}
}

func TestPragma_BusyTimeout(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("busy_timeout", "5000"); err != nil {
		t.Error(err)
	}
}

func TestSchema_Version(t *testing.T) {
	s := createTestStore(t)
	if err := s.verifyPragma("user_version", "1"); err != nil {
		t.Error(err)
	}
}

func TestKV_GetMissingKey(t *testing.T) {
	s := createTestStore(t)

	value, found, err := s.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestKV_PutOverwrites(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", "one"))
	require.NoError(t, s.Put(ctx, "k", "two"))

	value, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "two", value)
}

func TestKV_UpdateAbortsOnCallbackError(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "k", "before"))

	boom := errors.New("boom")
	err := s.Update(ctx, "k", func(current string, found bool) (string, error) {
		assert.True(t, found)
		assert.Equal(t, "before", current)
		return "after", boom
	})
	require.ErrorIs(t, err, boom)

	value, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "before", value)
}

func TestKV_ClosedStoreReturnsPersistenceError(t *testing.T) {
	s := createTestStore(t)
	require.NoError(t, s.Close())
	ctx := context.Background()

	_, _, err := s.Get(ctx, "k")
	assert.True(t, IsPersistenceError(err), "Get: %v", err)

	err = s.Put(ctx, "k", "v")
	assert.True(t, IsPersistenceError(err), "Put: %v", err)

	err = s.Update(ctx, "k", func(string, bool) (string, error) { return "v", nil })
	assert.True(t, IsPersistenceError(err), "Update: %v", err)
}

func TestPersistenceError_Message(t *testing.T) {
	err := &PersistenceError{Op: "write", Key: "submissions", Err: errors.New("disk full")}
	assert.Equal(t, "persistence: write submissions: disk full", err.Error())

	err = &PersistenceError{Op: "open", Err: errors.New("denied")}
	assert.Equal(t, "persistence: open: denied", err.Error())
}
