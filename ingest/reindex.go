package ingest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/poiesic/jobmatch/storage"
)

// Reindex rebuilds the vector index from the rows already in the job store,
// typically after switching embedding models. Checkpoints are not used;
// only Listings, Indexed and Elapsed are set on the returned stats.
func (p *Pipeline) Reindex(ctx context.Context) (*Stats, error) {
	start := time.Now()

	records, err := p.jobs.Query(ctx, storage.JobQuery{OrderBy: storage.ColumnID})
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}
	stats := &Stats{Listings: len(records)}

	var chunks []chunk
	for from := 0; from < len(records); from += p.batchSize {
		to := min(from+p.batchSize, len(records))
		c := chunk{end: int64(to), records: records[from:to]}
		for _, r := range c.records {
			c.docs = append(c.docs, NewDocument(r, r.Job().Salary))
		}
		chunks = append(chunks, c)
	}

	progress := NewProgressTracker(p.progress, "Reindexing", len(records), p.batchSize)
	progress.Start()
	defer progress.Finish()

	var mu sync.Mutex
	err = p.indexChunks(ctx, chunks, func(i int) {
		n := len(chunks[i].docs)
		progress.Increment(n)
		mu.Lock()
		stats.Indexed += n
		mu.Unlock()
	})
	stats.Elapsed = time.Since(start)
	if err != nil {
		p.logger.Error("reindex interrupted", "indexed", stats.Indexed, "err", err)
		return stats, err
	}

	p.logger.Info("reindex complete", "indexed", stats.Indexed, "elapsed", stats.Elapsed)
	return stats, nil
}
