package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/poiesic/jobmatch/storage"
)

// NewTestJobStore opens a job store in a temporary directory and seeds it
// with records. The store is closed when the test finishes.
func NewTestJobStore(t testing.TB, records ...storage.JobRecord) storage.JobStore {
	t.Helper()
	store, err := NewJobStore(context.Background(), filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open test job store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := store.InsertJobs(context.Background(), records); err != nil {
		t.Fatalf("seed test job store: %v", err)
	}
	return store
}
