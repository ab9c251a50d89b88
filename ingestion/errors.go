package ingestion

import "errors"

var (
	// ErrAlreadyRunning is returned when a sync is requested while one
	// is in flight. Only a single sync may run at a time.
	ErrAlreadyRunning = errors.New("sync already running")

	// ErrNotRunning is returned when a stop is requested with no sync
	// in flight.
	ErrNotRunning = errors.New("sync not running")

	// ErrSourceRequired is returned when no paper source is provided.
	ErrSourceRequired = errors.New("paper source is required")

	// ErrCheckpointStoreRequired is returned when no checkpoint store
	// is provided.
	ErrCheckpointStoreRequired = errors.New("checkpoint store is required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrIndexerRequired is returned when no indexer is provided.
	ErrIndexerRequired = errors.New("indexer is required")
)
