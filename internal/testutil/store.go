package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talhahasanzia/entrifi/internal/store"
)

// OpenSubmissions opens a submission store in a temp directory. The store is
// closed when the test ends.
func OpenSubmissions(t testing.TB, opts ...store.Option) *store.Submissions {
	t.Helper()

	kv, err := store.Open(filepath.Join(t.TempDir(), "entrifi.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	return store.NewSubmissions(kv, opts...)
}
