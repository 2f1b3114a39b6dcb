// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package jobmatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/google/uuid"
	"github.com/poiesic/jobmatch/ai"
	"github.com/poiesic/jobmatch/ai/gemini"
	"github.com/poiesic/jobmatch/ai/openai"
	"github.com/poiesic/jobmatch/config"
	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/extract"
	"github.com/poiesic/jobmatch/finalize"
	"github.com/poiesic/jobmatch/ingest"
	"github.com/poiesic/jobmatch/pipeline"
	"github.com/poiesic/jobmatch/profile"
	"github.com/poiesic/jobmatch/retrieval"
	"github.com/poiesic/jobmatch/router"
	"github.com/poiesic/jobmatch/storage"
	"github.com/poiesic/jobmatch/storage/badger"
	"github.com/poiesic/jobmatch/storage/postgres"
	"github.com/poiesic/jobmatch/storage/qdrant"
	"github.com/poiesic/jobmatch/storage/sqlite"
)

// Engine wires the stores, the AI provider and the request pipelines behind
// one handle.
type Engine struct {
	cfg         *config.Config
	backend     *badger.Backend
	jobs        storage.JobStore
	index       storage.VectorIndex
	sessions    storage.SessionStore
	checkpoints storage.CheckpointStore
	provider    ai.AIProvider
	pipeline    *pipeline.Pipeline
	analyzer    *profile.Analyzer
	consultant  *profile.Consultant
	closers     []func() error
	logger      *slog.Logger
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	provider   ai.AIProvider
	jobs       storage.JobStore
	index      storage.VectorIndex
	classifier router.Classifier
	logger     *slog.Logger
}

// WithProvider uses provider instead of building one from the configuration.
// The caller keeps ownership of provider.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *engineOptions) {
		o.provider = provider
	}
}

// WithJobStore uses store instead of opening the configured job store.
// The caller keeps ownership of store.
func WithJobStore(store storage.JobStore) Option {
	return func(o *engineOptions) {
		o.jobs = store
	}
}

// WithVectorIndex uses index instead of opening the configured vector index.
// The caller keeps ownership of index.
func WithVectorIndex(index storage.VectorIndex) Option {
	return func(o *engineOptions) {
		o.index = index
	}
}

// WithClassifier replaces the model-backed intent classifier.
func WithClassifier(c router.Classifier) Option {
	return func(o *engineOptions) {
		o.classifier = c
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// NewEngine opens every store named by cfg and assembles the search and
// profiling pipelines.
func NewEngine(ctx context.Context, cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	e := &Engine{cfg: cfg, logger: options.logger}
	if err := e.open(ctx, options); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) open(ctx context.Context, options *engineOptions) error {
	if err := os.MkdirAll(e.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	backend, err := badger.OpenBackend(e.cfg.DataDir, false)
	if err != nil {
		return err
	}
	e.backend = backend
	e.closers = append(e.closers, backend.Close)

	sessions, err := badger.NewSessionStore(backend)
	if err != nil {
		return err
	}
	e.sessions = sessions
	e.checkpoints = badger.NewCheckpointStore(backend)

	e.provider = options.provider
	if e.provider == nil {
		if e.provider, err = newProvider(ctx, e.cfg.AIConfig()); err != nil {
			return err
		}
		e.closers = append(e.closers, e.provider.Close)
	}

	e.jobs = options.jobs
	if e.jobs == nil {
		if e.jobs, err = e.openJobStore(ctx); err != nil {
			return err
		}
		e.closers = append(e.closers, e.jobs.Close)
	}

	e.index = options.index
	if e.index == nil {
		if e.index, err = e.openVectorIndex(e.cfg.Vector.Collection); err != nil {
			return err
		}
		e.closers = append(e.closers, e.index.Close)
	}

	return e.assemble(options)
}

func (e *Engine) assemble(options *engineOptions) error {
	chat := e.provider.ChatModel()

	semantic, err := retrieval.NewSemanticSearcher(e.index, retrieval.WithSemanticLogger(e.logger))
	if err != nil {
		return err
	}
	structured, err := retrieval.NewStructuredSearcher(e.jobs, retrieval.WithStructuredLogger(e.logger))
	if err != nil {
		return err
	}
	extractor, err := extract.NewExtractor(chat, extract.WithLogger(e.logger))
	if err != nil {
		return err
	}

	classifier := options.classifier
	switch {
	case classifier != nil:
	case e.cfg.Router.Classifier == config.ClassifierKeyword:
		classifier = router.KeywordClassifier{}
	default:
		if classifier, err = router.NewLLMClassifier(chat, e.logger); err != nil {
			return err
		}
	}

	r, err := router.NewRouter(classifier, extractor, semantic, structured, router.WithLogger(e.logger))
	if err != nil {
		return err
	}
	f, err := finalize.NewFinalizer(chat, finalize.WithLogger(e.logger))
	if err != nil {
		return err
	}
	if e.pipeline, err = pipeline.NewPipeline(r, f, pipeline.WithLogger(e.logger)); err != nil {
		return err
	}

	analyzerOpts := []profile.Option{profile.WithLogger(e.logger)}
	// The local index keeps every document under one keyspace, so résumés
	// are only indexed when a separate qdrant collection exists.
	if e.cfg.Vector.Backend == config.VectorQdrant && e.cfg.Vector.ResumeCollection != "" && options.index == nil {
		resumes, err := e.openVectorIndex(e.cfg.Vector.ResumeCollection)
		if err != nil {
			return err
		}
		e.closers = append(e.closers, resumes.Close)
		analyzerOpts = append(analyzerOpts, profile.WithResumeIndex(resumes))
	}
	if e.analyzer, err = profile.NewAnalyzer(chat, semantic, analyzerOpts...); err != nil {
		return err
	}
	e.consultant, err = profile.NewConsultant(chat, semantic, profile.WithConsultLogger(e.logger))
	return err
}

func newProvider(ctx context.Context, cfg *ai.Config) (ai.AIProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Provider {
	case ai.ProviderOpenAI:
		return openai.NewProvider(cfg)
	case ai.ProviderGemini:
		return gemini.NewProvider(ctx, cfg)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
}

func (e *Engine) openJobStore(ctx context.Context) (storage.JobStore, error) {
	switch e.cfg.Jobs.Driver {
	case config.DriverPostgres:
		return postgres.NewJobStore(ctx, e.cfg.Jobs.URL)
	default:
		return sqlite.NewJobStore(ctx, e.cfg.JobsPath())
	}
}

func (e *Engine) openVectorIndex(collection string) (storage.VectorIndex, error) {
	embedder := e.provider.Embedder()
	switch e.cfg.Vector.Backend {
	case config.VectorQdrant:
		return qdrant.NewVectorIndex(e.cfg.Vector.QdrantURL, collection, embedder,
			qdrant.WithAPIKey(e.cfg.Vector.QdrantAPIKey),
			qdrant.WithLogger(e.logger))
	default:
		return badger.NewVectorIndex(e.backend, embedder)
	}
}

// Close releases everything the engine opened, newest first.
func (e *Engine) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i](); err != nil {
			e.logger.Error("error closing engine resource", "err", err)
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// Pipeline returns the query pipeline.
func (e *Engine) Pipeline() *pipeline.Pipeline {
	return e.pipeline
}

// NewIngestPipeline creates an ingest pipeline writing to the engine's job
// store and vector index. Checkpoints are kept in the engine's data
// directory. opts are applied after the configured defaults.
func (e *Engine) NewIngestPipeline(opts ...ingest.Option) (*ingest.Pipeline, error) {
	settings := e.cfg.Ingest
	defaults := []ingest.Option{
		ingest.WithBatchSize(settings.BatchSize),
		ingest.WithPoolSize(settings.Workers),
		ingest.WithRateLimit(settings.Rate, settings.Burst),
		ingest.WithRetry(settings.MaxRetries, settings.RetryDelay),
		ingest.WithCheckpoints(e.checkpoints),
		ingest.WithLogger(e.logger),
	}
	return ingest.NewPipeline(e.jobs, e.index, append(defaults, opts...)...)
}

// NewSession creates and stores an empty session.
func (e *Engine) NewSession(ctx context.Context) (*core.Session, error) {
	s := &core.Session{ID: uuid.NewString()}
	if err := e.sessions.SaveSession(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// Session loads a session. Missing sessions return storage.ErrNotFound.
func (e *Engine) Session(ctx context.Context, id string) (*core.Session, error) {
	return e.sessions.LoadSession(ctx, id)
}

// AnalyzeResume profiles the résumé at path into the session with the given
// ID. An empty ID starts a new session.
func (e *Engine) AnalyzeResume(ctx context.Context, sessionID, path string) (*core.Session, error) {
	text, err := profile.ReadResume(ctx, path)
	if err != nil {
		return nil, err
	}

	s, err := e.sessionOrNew(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := e.analyzer.Analyze(ctx, s, text); err != nil {
		return nil, err
	}
	if err := e.sessions.SaveSession(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// Search answers an instruction in the context of a session: the session's
// summary seeds semantic queries and its working list is what refine
// narrows. With adopt set, a non-empty result replaces the working list.
// An empty session ID runs a stateless search.
func (e *Engine) Search(ctx context.Context, sessionID, instruction string, adopt bool) (*pipeline.Result, error) {
	return e.SearchWithMonitor(ctx, sessionID, instruction, adopt, nil)
}

// SearchWithMonitor is Search with pipeline progress reported to monitor.
func (e *Engine) SearchWithMonitor(ctx context.Context, sessionID, instruction string, adopt bool, monitor pipeline.Monitor) (*pipeline.Result, error) {
	if sessionID == "" {
		return e.pipeline.RouteAndSearchWithMonitor(ctx, instruction, "", nil, monitor)
	}

	s, err := e.sessions.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	result, err := e.pipeline.RouteAndSearchWithMonitor(ctx, instruction, s.Summary, s.Jobs, monitor)
	if err != nil {
		return nil, err
	}

	if adopt && len(result.BestJobs) > 0 {
		s.Jobs = slices.Clone(result.BestJobs)
		if err := e.sessions.SaveSession(ctx, s); err != nil {
			return nil, fmt.Errorf("failed to save session: %w", err)
		}
	}
	return result, nil
}

// SaveJob marks the job at position i of the session's working list as
// preferred. Saving a job twice keeps a single entry.
func (e *Engine) SaveJob(ctx context.Context, sessionID string, i int) (*core.Session, error) {
	s, err := e.sessions.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(s.Jobs) {
		return nil, fmt.Errorf("%w: %d of %d", ErrJobIndexOutOfRange, i, len(s.Jobs))
	}

	job := s.Jobs[i]
	id := job.ID()
	if slices.ContainsFunc(s.Saved, func(j core.Job) bool { return j.ID() == id }) {
		return s, nil
	}
	s.Saved = append(s.Saved, job)
	if err := e.sessions.SaveSession(ctx, s); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return s, nil
}

// Consult answers a question about the job most recently saved to the
// session, using the session summary as the user's profile.
func (e *Engine) Consult(ctx context.Context, sessionID, question string) (*profile.Advice, error) {
	s, err := e.sessions.LoadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(s.Saved) == 0 {
		return nil, ErrNoSavedJob
	}
	return e.consultant.Consult(ctx, s.Summary, s.Saved[len(s.Saved)-1], question)
}

func (e *Engine) sessionOrNew(ctx context.Context, id string) (*core.Session, error) {
	if id == "" {
		return &core.Session{ID: uuid.NewString()}, nil
	}
	s, err := e.sessions.LoadSession(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return &core.Session{ID: id}, nil
	}
	return s, err
}
