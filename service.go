// Package paperindex wires the paper sync and search system together:
// a BadgerDB-backed source of paper records, an embedding backend, and
// a search engine index they are synced into.
package paperindex

import (
	"log/slog"

	"github.com/ivanbaha/opensearch-demo/ai"
	"github.com/ivanbaha/opensearch-demo/ai/openai"
	"github.com/ivanbaha/opensearch-demo/ingestion"
	"github.com/ivanbaha/opensearch-demo/search"
	"github.com/ivanbaha/opensearch-demo/storage"
	"github.com/ivanbaha/opensearch-demo/storage/badger"
)

// Service owns the shared collaborators and hands out the pipeline and
// query components built on them.
type Service struct {
	backend     *badger.Backend
	source      storage.PaperSourceWriter
	checkpoints storage.CheckpointStore
	embedder    ai.Embedder
	engine      *search.Client
	index       string
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig      *ai.Config
	index         string
	engineOptions []search.ClientOption
}

// WithAIConfig overrides the embedding backend configuration.
func WithAIConfig(cfg *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithIndexName overrides the target index name.
func WithIndexName(name string) ServiceOption {
	return func(o *serviceOptions) {
		if name != "" {
			o.index = name
		}
	}
}

// WithEngineOptions passes options through to the engine client.
func WithEngineOptions(opts ...search.ClientOption) ServiceOption {
	return func(o *serviceOptions) {
		o.engineOptions = append(o.engineOptions, opts...)
	}
}

// NewService opens the source store at dataPath, connects the
// embedding backend, and builds an engine client for engineURL.
// checkpointPath is the JSON file sync progress persists to.
func NewService(dataPath, checkpointPath, engineURL string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
		index:    search.DefaultIndexName,
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(dataPath, false)
	if err != nil {
		return nil, err
	}

	source, err := badger.NewSourceRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		backend.Close()
		return nil, err
	}

	engine, err := search.NewClient(engineURL, options.engineOptions...)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Service{
		backend:     backend,
		source:      source,
		checkpoints: storage.NewFileCheckpointStore(checkpointPath),
		embedder:    embedder,
		engine:      engine,
		index:       options.index,
		logger:      slog.Default(),
	}, nil
}

// Close releases the source store.
func (s *Service) Close() error {
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing source store", "err", err)
		return err
	}
	return nil
}

// Source exposes the paper source store, including the write side used
// by seeding tools.
func (s *Service) Source() storage.PaperSourceWriter {
	return s.source
}

// Checkpoints exposes the checkpoint store.
func (s *Service) Checkpoints() storage.CheckpointStore {
	return s.checkpoints
}

// Engine exposes the engine client for index administration.
func (s *Service) Engine() *search.Client {
	return s.engine
}

// NewSyncer builds the sync pipeline on the shared collaborators.
func (s *Service) NewSyncer(opts ...ingestion.Option) (*ingestion.Syncer, error) {
	base := []ingestion.Option{ingestion.WithIndexName(s.index)}
	return ingestion.NewSyncer(s.source, s.checkpoints, s.embedder, s.engine,
		append(base, opts...)...)
}

// NewQueryService builds the query service on the shared collaborators.
func (s *Service) NewQueryService(opts ...search.ServiceOption) (*search.Service, error) {
	base := []search.ServiceOption{search.WithIndex(s.index)}
	return search.NewService(s.engine, s.embedder, append(base, opts...)...)
}
