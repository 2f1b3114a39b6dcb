package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/jobmatch/storage"
	"github.com/poiesic/jobmatch/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Reindex(t *testing.T) {
	ctx := context.Background()

	var records []storage.JobRecord
	for _, l := range corpus(5) {
		records = append(records, Clean(l))
	}
	jobs := sqlite.NewTestJobStore(t, records...)

	index := newMemoryIndex()
	p, err := NewPipeline(jobs, index, WithBatchSize(2))
	require.NoError(t, err)
	defer p.Release()

	stats, err := p.Reindex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Listings)
	assert.Equal(t, 5, stats.Indexed)
	assert.Equal(t, 5, index.count())

	doc := index.docs["L0"]
	assert.Equal(t, "Rp 8.000.000 – Rp 12.000.000", doc.Metadata["salary"])
	assert.Equal(t, "Jakarta Selatan", doc.Metadata["location"])
	assert.Contains(t, doc.Content, "Job Description: Listing number 0")
}

func TestPipeline_ReindexFailure(t *testing.T) {
	index := newMemoryIndex()
	index.fail = func(int, []storage.Document) error { return errors.New("model not loaded") }

	var records []storage.JobRecord
	for _, l := range corpus(3) {
		records = append(records, Clean(l))
	}
	p, err := NewPipeline(sqlite.NewTestJobStore(t, records...), index, WithRetry(1, time.Millisecond))
	require.NoError(t, err)
	defer p.Release()

	stats, err := p.Reindex(context.Background())
	require.Error(t, err)
	assert.Zero(t, stats.Indexed)
}
