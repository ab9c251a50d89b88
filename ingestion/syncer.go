package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/ivanbaha/opensearch-demo/ai"
	"github.com/ivanbaha/opensearch-demo/core"
	"github.com/ivanbaha/opensearch-demo/search"
	"github.com/ivanbaha/opensearch-demo/storage"
)

// State names the syncer lifecycle phases.
type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// Indexer is the subset of engine operations the syncer uses.
// *search.Client satisfies it.
type Indexer interface {
	EnsureIndex(ctx context.Context, name string) error
	BulkIndexPapers(ctx context.Context, name string, papers []*core.IndexedPaper) (*search.BulkResult, error)
}

// maxConsecutiveFailures aborts a run that cannot make progress, so a
// dead source or engine does not spin forever.
const maxConsecutiveFailures = 5

// Syncer drives the source-to-index pipeline. At most one sync runs at
// a time; progress persists through the checkpoint store so an
// interrupted run resumes from its last completed page.
type Syncer struct {
	source      storage.PaperSource
	checkpoints storage.CheckpointStore
	embedder    ai.Embedder
	indexer     Indexer
	mapper      *Mapper
	pool        *ants.Pool
	logger      *slog.Logger

	index        string
	pageSize     int
	pagePause    time.Duration
	errorBackoff time.Duration

	mu         sync.Mutex
	state      State
	cancel     context.CancelFunc
	done       chan struct{}
	checkpoint *core.Checkpoint
}

// Option configures a Syncer.
type Option func(*Syncer) error

// WithIndexName sets the target index. Default is search.DefaultIndexName.
func WithIndexName(name string) Option {
	return func(s *Syncer) error {
		if name == "" {
			return fmt.Errorf("index name cannot be empty")
		}
		s.index = name
		return nil
	}
}

// WithPageSize sets how many stat records each batch pulls.
// Default is 100.
func WithPageSize(size int) Option {
	return func(s *Syncer) error {
		if size <= 0 {
			return fmt.Errorf("page size must be positive, got %d", size)
		}
		s.pageSize = size
		return nil
	}
}

// WithPagePause sets the pause between successful batches.
func WithPagePause(d time.Duration) Option {
	return func(s *Syncer) error {
		s.pagePause = d
		return nil
	}
}

// WithErrorBackoff sets the pause after a failed batch.
func WithErrorBackoff(d time.Duration) Option {
	return func(s *Syncer) error {
		s.errorBackoff = d
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger.With("component", "syncer")
		return nil
	}
}

// NewSyncer creates a syncer and loads its checkpoint. A checkpoint
// left with the running flag set means the previous process died
// mid-run; the flag is corrected here so a new sync can start.
func NewSyncer(
	source storage.PaperSource,
	checkpoints storage.CheckpointStore,
	embedder ai.Embedder,
	indexer Indexer,
	opts ...Option,
) (*Syncer, error) {
	if source == nil {
		return nil, ErrSourceRequired
	}
	if checkpoints == nil {
		return nil, ErrCheckpointStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if indexer == nil {
		return nil, ErrIndexerRequired
	}

	pool, err := ants.NewPool(1)
	if err != nil {
		return nil, err
	}

	s := &Syncer{
		source:       source,
		checkpoints:  checkpoints,
		embedder:     embedder,
		indexer:      indexer,
		mapper:       NewMapper(),
		pool:         pool,
		logger:       slog.Default().With("component", "syncer"),
		index:        search.DefaultIndexName,
		pageSize:     100,
		pagePause:    200 * time.Millisecond,
		errorBackoff: 5 * time.Second,
		state:        StateIdle,
	}
	for _, opt := range opts {
		if optErr := opt(s); optErr != nil {
			pool.Release()
			return nil, optErr
		}
	}

	checkpoint, err := checkpoints.Load()
	if err != nil {
		pool.Release()
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if checkpoint.Running {
		s.logger.Warn("previous sync did not shut down cleanly, clearing running flag")
		checkpoint.Running = false
		if err := checkpoints.Save(checkpoint); err != nil {
			pool.Release()
			return nil, fmt.Errorf("failed to repair checkpoint: %w", err)
		}
	}
	s.checkpoint = checkpoint

	return s, nil
}

// Start begins a background sync. It returns ErrAlreadyRunning when a
// sync is already in flight.
func (s *Syncer) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	s.state = StateRunning
	s.cancel = cancel
	s.done = done
	s.checkpoint.Running = true
	s.checkpoint.StartedAt = time.Now().UTC()
	s.checkpoint.Touch()
	if err := s.checkpoints.Save(s.checkpoint); err != nil {
		s.checkpoint.Running = false
		s.resetLocked()
		s.mu.Unlock()
		cancel()
		return fmt.Errorf("failed to persist checkpoint: %w", err)
	}
	s.mu.Unlock()

	err := s.pool.Submit(func() {
		defer close(done)
		s.run(runCtx)
	})
	if err != nil {
		s.mu.Lock()
		s.checkpoint.Running = false
		s.resetLocked()
		s.mu.Unlock()
		cancel()
		return fmt.Errorf("failed to start sync worker: %w", err)
	}
	return nil
}

// Stop cancels the running sync and waits for it to finish, or for ctx
// to expire.
func (s *Syncer) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.state = StateStopping
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Wait blocks until the current sync finishes. It returns immediately
// when no sync is running.
func (s *Syncer) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Status returns the current state and a snapshot of the checkpoint.
func (s *Syncer) Status() (State, core.Checkpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, *s.checkpoint
}

// Release frees the worker pool. The syncer is unusable afterwards.
func (s *Syncer) Release() {
	s.pool.Release()
}

// resetLocked returns the syncer to idle. Caller holds the mutex.
func (s *Syncer) resetLocked() {
	s.state = StateIdle
	s.cancel = nil
	s.done = nil
}

// run is the sync loop. It processes pages until the source is
// exhausted, the context is canceled, or too many batches fail in a
// row.
func (s *Syncer) run(ctx context.Context) {
	defer s.finish()

	s.logger.Info("sync starting", "index", s.index, "page_size", s.pageSize,
		"resume_after", s.lastKey())

	if err := s.indexer.EnsureIndex(ctx, s.index); err != nil {
		s.recordError(fmt.Errorf("failed to ensure index: %w", err))
		return
	}

	failures := 0
	for {
		if ctx.Err() != nil {
			s.logger.Info("sync canceled")
			return
		}

		// A batch in flight runs to completion; cancellation takes
		// effect between batches, so the checkpoint never records a
		// half-processed page.
		advanced, err := s.processBatch(context.WithoutCancel(ctx))
		if err != nil {
			failures++
			s.recordError(err)
			if failures >= maxConsecutiveFailures {
				s.logger.Error("aborting sync after repeated failures", "failures", failures)
				return
			}
			s.sleep(ctx, s.errorBackoff)
			continue
		}
		failures = 0

		if !advanced {
			s.logger.Info("sync complete, source exhausted",
				"retrieved", s.checkpoint.TotalRetrieved,
				"indexed", s.checkpoint.TotalIndexed)
			return
		}
		s.sleep(ctx, s.pagePause)
	}
}

// processBatch syncs one page. It reports advanced=false when the
// source returned no records past the checkpoint.
func (s *Syncer) processBatch(ctx context.Context) (bool, error) {
	stats, err := s.source.FetchStatPage(ctx, s.lastKey(), s.pageSize)
	if err != nil {
		return false, fmt.Errorf("failed to fetch stat page: %w", err)
	}
	if len(stats) == 0 {
		return false, nil
	}

	keys := make([]string, len(stats))
	for i, stat := range stats {
		keys[i] = stat.Key
	}
	refs, err := s.source.FetchReferencesByKeys(ctx, keys)
	if err != nil {
		return false, fmt.Errorf("failed to fetch references: %w", err)
	}

	papers, texts := s.mapBatch(stats, refs)
	s.embedBatch(ctx, papers, texts)

	indexed := 0
	if len(papers) > 0 {
		result, err := s.indexer.BulkIndexPapers(ctx, s.index, papers)
		if err != nil {
			return false, fmt.Errorf("failed to bulk index batch: %w", err)
		}
		indexed = result.Created + result.Updated
		for _, failure := range result.Failed {
			s.recordError(fmt.Errorf("document %s rejected: %s", failure.ID, failure.Reason))
		}
	}

	lastKey := stats[len(stats)-1].Key
	s.mu.Lock()
	s.checkpoint.Advance(lastKey, len(stats), indexed)
	err = s.checkpoints.Save(s.checkpoint)
	s.mu.Unlock()
	if err != nil {
		return false, fmt.Errorf("failed to persist checkpoint: %w", err)
	}

	s.logger.Info("batch synced", "last_key", lastKey,
		"retrieved", len(stats), "indexed", indexed)
	return true, nil
}

// mapBatch turns stat/reference pairs into search documents. Records
// without a reference or without any content are skipped, not errors;
// the batch keeps going.
func (s *Syncer) mapBatch(stats []*core.SourceStat, refs map[string]*core.SourceReference) ([]*core.IndexedPaper, []string) {
	papers := make([]*core.IndexedPaper, 0, len(stats))
	texts := make([]string, 0, len(stats))

	for _, stat := range stats {
		ref := refs[stat.Key]
		if ref == nil {
			s.logger.Debug("skipping stat without reference", "key", stat.Key)
			continue
		}
		paper, contextual, err := s.mapper.Map(stat, ref)
		if err != nil {
			if errors.Is(err, core.ErrNoContent) {
				s.logger.Debug("skipping paper without content", "key", stat.Key)
				continue
			}
			s.recordError(fmt.Errorf("failed to map %s: %w", stat.Key, err))
			continue
		}
		papers = append(papers, paper)
		texts = append(texts, contextual)
	}
	return papers, texts
}

// embedBatch attaches embeddings to papers, position by position. When
// the whole batch fails to embed, every paper gets a zero vector so
// lexical search still covers it.
func (s *Syncer) embedBatch(ctx context.Context, papers []*core.IndexedPaper, texts []string) {
	if len(papers) == 0 {
		return
	}

	vectors, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil || len(vectors) != len(papers) {
		s.logger.Warn("batch embedding failed, indexing with zero vectors",
			"papers", len(papers), "error", err)
		for _, paper := range papers {
			s.mapper.AttachEmbedding(paper, ai.ZeroVector(core.EmbeddingDimensions))
		}
		return
	}
	for i, paper := range papers {
		s.mapper.AttachEmbedding(paper, vectors[i])
	}
}

// finish persists the terminal checkpoint and returns to idle.
func (s *Syncer) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.checkpoint.Running = false
	s.checkpoint.Touch()
	if err := s.checkpoints.Save(s.checkpoint); err != nil {
		s.logger.Error("failed to persist final checkpoint", "error", err)
	}
	s.resetLocked()
}

func (s *Syncer) lastKey() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkpoint.LastKey == nil {
		return ""
	}
	return *s.checkpoint.LastKey
}

func (s *Syncer) recordError(err error) {
	s.logger.Error("sync error", "error", err)
	s.mu.Lock()
	s.checkpoint.RecordError(err.Error())
	if saveErr := s.checkpoints.Save(s.checkpoint); saveErr != nil {
		s.logger.Error("failed to persist checkpoint", "error", saveErr)
	}
	s.mu.Unlock()
}

func (s *Syncer) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
