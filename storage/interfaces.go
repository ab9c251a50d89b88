package storage

import (
	"context"

	"github.com/ivanbaha/opensearch-demo/core"
)

// PaperSource provides read access to the source document store that
// holds stat and reference records. Implementations must be thread-safe.
type PaperSource interface {
	// FetchStatPage returns up to limit stat records with keys strictly
	// greater than afterKey, in ascending key order. afterKey == ""
	// starts from the beginning. An empty result means the store is
	// exhausted.
	FetchStatPage(ctx context.Context, afterKey string, limit int) ([]*core.SourceStat, error)

	// FetchReferencesByKeys bulk-fetches reference records for the
	// given keys. Missing keys are simply absent from the result map;
	// no error is returned for them.
	FetchReferencesByKeys(ctx context.Context, keys []string) (map[string]*core.SourceReference, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}

// PaperSourceWriter extends PaperSource with seeding writes. Only
// development tooling uses it; the sync pipeline treats the source
// store as read-only.
type PaperSourceWriter interface {
	PaperSource

	// PutStats upserts stat records.
	PutStats(ctx context.Context, stats ...*core.SourceStat) error

	// PutReferences upserts reference records.
	PutReferences(ctx context.Context, refs ...*core.SourceReference) error
}

// CheckpointStore persists the sync checkpoint between runs and across
// process restarts. The orchestrator owns the checkpoint exclusively
// for the duration of a run.
type CheckpointStore interface {
	// Load returns the persisted checkpoint, or a fresh one when none
	// exists or the persisted state is unreadable.
	Load() (*core.Checkpoint, error)

	// Save persists the checkpoint.
	Save(checkpoint *core.Checkpoint) error
}
