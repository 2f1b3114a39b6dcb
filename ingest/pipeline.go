package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/storage"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Defaults for a Pipeline.
const (
	DefaultBatchSize   = 64
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 500 * time.Millisecond
)

// Stats summarizes an ingest run.
type Stats struct {
	Listings int           // listings in the source
	Skipped  int           // listings before the resume offset
	Inserted int           // rows added to the jobs table
	Indexed  int           // documents written to the vector index
	Offset   int64         // committed offset at the end of the run
	Elapsed  time.Duration // wall time of the run
}

// Duplicates returns how many processed listings were already in the jobs table.
func (s *Stats) Duplicates() int {
	return s.Listings - s.Skipped - s.Inserted
}

// Pipeline loads listings into a job store and a vector index.
type Pipeline struct {
	jobs        storage.JobStore
	index       storage.VectorIndex
	checkpoints storage.CheckpointStore
	pool        *ants.Pool
	limiter     *rate.Limiter
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	progress    io.Writer
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the number of concurrent indexing workers.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many listings are committed per chunk.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size <= 0 {
			return ErrInvalidBatchSize
		}
		p.batchSize = size
		return nil
	}
}

// WithRateLimit caps indexing calls per second. Embedding services often
// throttle bursts. Default is unlimited.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(p *Pipeline) error {
		if perSecond <= 0 {
			p.limiter = rate.NewLimiter(rate.Inf, 0)
			return nil
		}
		p.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		return nil
	}
}

// WithRetry sets the attempts and base backoff for each indexing chunk.
func WithRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.maxAttempts = maxAttempts
		p.baseDelay = baseDelay
		return nil
	}
}

// WithCheckpoints enables resumable runs.
func WithCheckpoints(store storage.CheckpointStore) Option {
	return func(p *Pipeline) error {
		p.checkpoints = store
		return nil
	}
}

// WithProgress writes a progress line to w while indexing.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates an ingest pipeline. Call Release when done.
func NewPipeline(jobs storage.JobStore, index storage.VectorIndex, opts ...Option) (*Pipeline, error) {
	if jobs == nil {
		return nil, ErrJobStoreRequired
	}
	if index == nil {
		return nil, ErrVectorIndexRequired
	}

	pool, err := ants.NewPool(max(runtime.NumCPU()/2, 1))
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		jobs:        jobs,
		index:       index,
		pool:        pool,
		limiter:     rate.NewLimiter(rate.Inf, 0),
		batchSize:   DefaultBatchSize,
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		logger:      slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

type chunk struct {
	end     int64 // source offset just past the chunk
	records []storage.JobRecord
	docs    []storage.Document
}

// Run loads listings read from source. Unless restart is set, listings
// before the saved checkpoint for source are skipped.
func (p *Pipeline) Run(ctx context.Context, source string, listings []Listing, restart bool) (*Stats, error) {
	start := time.Now()
	stats := &Stats{Listings: len(listings)}

	offset, err := p.resumeOffset(ctx, source, len(listings), restart)
	if err != nil {
		return nil, err
	}
	stats.Skipped = int(offset)
	stats.Offset = offset

	chunks := p.prepare(listings, offset)
	if len(chunks) == 0 {
		p.logger.Info("nothing to ingest", "source", source, "offset", offset)
		stats.Elapsed = time.Since(start)
		return stats, nil
	}

	progress := NewProgressTracker(p.progress, "Indexing", len(listings)-int(offset), p.batchSize)
	progress.Start()
	defer progress.Finish()

	commits := newCommitLog(chunks, func(end int64) {
		stats.Offset = end
		p.saveCheckpoint(ctx, source, end)
	})

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for i, c := range chunks {
			n, err := p.jobs.InsertJobs(gctx, c.records)
			if err != nil {
				return fmt.Errorf("failed to insert jobs: %w", err)
			}
			mu.Lock()
			stats.Inserted += n
			mu.Unlock()
			commits.done(i, stageRelational)
		}
		return nil
	})

	g.Go(func() error {
		return p.indexChunks(gctx, chunks, func(i int) {
			mu.Lock()
			stats.Indexed += len(chunks[i].docs)
			mu.Unlock()
			progress.Increment(len(chunks[i].docs))
			commits.done(i, stageVector)
		})
	})

	err = g.Wait()
	stats.Elapsed = time.Since(start)
	if err != nil {
		p.logger.Error("ingest interrupted", "source", source, "offset", stats.Offset, "err", err)
		return stats, err
	}

	p.logger.Info("ingest complete", "source", source, "inserted", stats.Inserted,
		"indexed", stats.Indexed, "duplicates", stats.Duplicates(), "elapsed", stats.Elapsed)
	return stats, nil
}

func (p *Pipeline) resumeOffset(ctx context.Context, source string, total int, restart bool) (int64, error) {
	if p.checkpoints == nil || restart {
		return 0, nil
	}
	cp, err := p.checkpoints.LoadCheckpoint(ctx, source)
	if err != nil {
		return 0, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if cp == nil {
		return 0, nil
	}
	p.logger.Info("resuming ingest", "source", source, "offset", cp.Offset)
	return min(max(cp.Offset, 0), int64(total)), nil
}

func (p *Pipeline) prepare(listings []Listing, offset int64) []chunk {
	var chunks []chunk
	for from := int(offset); from < len(listings); from += p.batchSize {
		to := min(from+p.batchSize, len(listings))
		c := chunk{end: int64(to)}
		for _, l := range listings[from:to] {
			r := Clean(l)
			c.records = append(c.records, r)
			c.docs = append(c.docs, NewDocument(r, l.Salary))
		}
		chunks = append(chunks, c)
	}
	return chunks
}

// indexChunks fans chunks out to the worker pool and waits for all of them.
// The first failure cancels the chunks not yet started.
func (p *Pipeline) indexChunks(ctx context.Context, chunks []chunk, onDone func(int)) error {
	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var wg sync.WaitGroup
	for i := range chunks {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			if err := p.indexChunk(ctx, chunks[i]); err != nil {
				cancel(err)
				return
			}
			onDone(i)
		})
		if err != nil {
			wg.Done()
			cancel(err)
			break
		}
	}
	wg.Wait()

	if err := context.Cause(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ctx.Err()
}

func (p *Pipeline) indexChunk(ctx context.Context, c chunk) error {
	return RetryWithBackoff(ctx, p.logger, func() error {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
		return p.index.AddDocuments(ctx, c.docs)
	}, p.maxAttempts, p.baseDelay)
}

func (p *Pipeline) saveCheckpoint(ctx context.Context, source string, offset int64) {
	if p.checkpoints == nil {
		return
	}
	cp := &core.Checkpoint{Source: source, Offset: offset, UpdatedAt: time.Now().UTC()}
	if err := p.checkpoints.SaveCheckpoint(context.WithoutCancel(ctx), cp); err != nil {
		p.logger.Error("error saving checkpoint", "source", source, "offset", offset, "err", err)
	}
}

const (
	stageRelational = 1 << iota
	stageVector
	stagesAll = stageRelational | stageVector
)

// commitLog tracks which chunks finished both stages and reports the end
// offset of the longest completed prefix whenever it grows.
type commitLog struct {
	mu       sync.Mutex
	chunks   []chunk
	stages   []int
	next     int
	onCommit func(end int64)
}

func newCommitLog(chunks []chunk, onCommit func(end int64)) *commitLog {
	return &commitLog{chunks: chunks, stages: make([]int, len(chunks)), onCommit: onCommit}
}

func (l *commitLog) done(i, stage int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stages[i] |= stage
	advanced := false
	for l.next < len(l.stages) && l.stages[l.next] == stagesAll {
		l.next++
		advanced = true
	}
	if advanced {
		l.onCommit(l.chunks[l.next-1].end)
	}
}
