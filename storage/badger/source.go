package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/ivanbaha/opensearch-demo/core"
	"github.com/ivanbaha/opensearch-demo/storage"
)

// SourceRepository implements storage.PaperSourceWriter on BadgerDB.
// Values are stored as JSON documents, mirroring the document-store
// shape of the upstream records.
type SourceRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.PaperSourceWriter = (*SourceRepository)(nil)

// NewSourceRepository creates a SourceRepository over an open backend.
func NewSourceRepository(backend *Backend) (*SourceRepository, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend required")
	}
	return &SourceRepository{
		backend: backend,
		logger:  slog.Default().With("component", "paper-source"),
	}, nil
}

// FetchStatPage returns up to limit stat records with keys strictly
// greater than afterKey, in ascending key order.
func (r *SourceRepository) FetchStatPage(ctx context.Context, afterKey string, limit int) ([]*core.SourceStat, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	var stats []*core.SourceStat
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(statPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		seek := []byte(statPrefix)
		if afterKey != "" {
			seek = makeStatSeekKey(afterKey)
		}

		for iter.Seek(seek); iter.Valid() && len(stats) < limit; iter.Next() {
			var stat core.SourceStat
			err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &stat)
			})
			if err != nil {
				return fmt.Errorf("%w: stat %s: %w", storage.ErrSerializationFailed, iter.Item().Key(), err)
			}
			stats = append(stats, &stat)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// FetchReferencesByKeys bulk-fetches reference records. Missing keys
// are absent from the result map.
func (r *SourceRepository) FetchReferencesByKeys(ctx context.Context, keys []string) (map[string]*core.SourceReference, error) {
	refs := make(map[string]*core.SourceReference, len(keys))
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, key := range keys {
			item, err := tx.Get(makeRefKey(key))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}
			var ref core.SourceReference
			err = item.Value(func(val []byte) error {
				return json.Unmarshal(val, &ref)
			})
			if err != nil {
				return fmt.Errorf("%w: reference %s: %w", storage.ErrSerializationFailed, key, err)
			}
			refs[key] = &ref
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// Ping reports whether the store is usable.
func (r *SourceRepository) Ping(ctx context.Context) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return nil
}

// PutStats upserts stat records. Seeding use only.
func (r *SourceRepository) PutStats(ctx context.Context, stats ...*core.SourceStat) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, stat := range stats {
			if err := core.ValidateStat(stat); err != nil {
				return err
			}
			value, err := json.Marshal(stat)
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
			if err := tx.Set(makeStatKey(stat.Key), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// PutReferences upserts reference records. Seeding use only.
func (r *SourceRepository) PutReferences(ctx context.Context, refs ...*core.SourceReference) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, ref := range refs {
			if err := core.ValidateReference(ref); err != nil {
				return err
			}
			value, err := json.Marshal(ref)
			if err != nil {
				return fmt.Errorf("%w: %w", storage.ErrSerializationFailed, err)
			}
			if err := tx.Set(makeRefKey(ref.Key), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Close closes the underlying backend.
func (r *SourceRepository) Close() error {
	return r.backend.Close()
}
