package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJobStore_RequiresURL(t *testing.T) {
	_, err := NewJobStore(context.Background(), "")
	assert.ErrorIs(t, err, ErrURLRequired)
}

func TestNewJobStore_BadURL(t *testing.T) {
	_, err := NewJobStore(context.Background(), "://not-a-url")
	assert.Error(t, err)
}

// TestJobStore_Live runs against JOBMATCH_TEST_POSTGRES_URL when set.
func TestJobStore_Live(t *testing.T) {
	url := os.Getenv("JOBMATCH_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("JOBMATCH_TEST_POSTGRES_URL not set")
	}
	ctx := context.Background()

	store, err := NewJobStore(ctx, url)
	require.NoError(t, err)
	defer store.Close()

	rec := storage.JobRecord{
		ID:            core.IDFromContent("live-test-data-analyst"),
		Title:         "Data Analyst",
		CleanLocation: "Jakarta",
		MaxSalary:     15000000,
	}
	_, err = store.InsertJobs(ctx, []storage.JobRecord{rec})
	require.NoError(t, err)

	records, err := store.Query(ctx, storage.JobQuery{
		Predicates: []storage.Predicate{
			{Column: storage.ColumnTitle, Op: storage.OpContains, Value: "DATA ANALYST"},
			{Column: storage.ColumnMaxSalary, Op: storage.OpAtLeast, Value: int64(15000000)},
		},
		Limit: 5,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, records)
}
