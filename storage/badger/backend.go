package badger

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
)

// Backend owns the BadgerDB handle shared by the stat and reference
// repositories.
type Backend struct {
	db     *badger.DB
	logger *slog.Logger
}

// dbLogger routes badger's internal logging through slog. Badger
// reports routine table and compaction activity at Info, which would
// drown out sync progress, so it lands at Debug instead.
type dbLogger struct {
	logger *slog.Logger
}

var _ badger.Logger = (*dbLogger)(nil)

func (l *dbLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *dbLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *dbLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *dbLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// ensureDataDir creates the data directory when missing and rejects
// paths that exist but are not directories.
func ensureDataDir(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return os.MkdirAll(path, 0o755)
	}
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// OpenBackend opens the BadgerDB store at path, creating the directory
// when needed. With inMemory set, the store lives entirely in memory;
// tests and throwaway tooling use that mode.
func OpenBackend(path string, inMemory bool) (*Backend, error) {
	logger := slog.Default().With("component", "badger")

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := ensureDataDir(path); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(path)
	}
	// Stat and reference values are small JSON blobs; compression costs
	// more than it saves here.
	opts.Compression = options.None
	opts.Logger = &dbLogger{logger: logger}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Backend{db: db, logger: logger}, nil
}

// Close closes the underlying database. Further transactions fail.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether Close has been called.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// WithTx runs fn inside a transaction, read-write when isWrite is set.
// fn commits explicitly when it needs to; the deferred Discard is a
// no-op after a commit and rolls back everything else.
func (b *Backend) WithTx(fn func(tx *badger.Txn) error, isWrite bool) error {
	tx := b.db.NewTransaction(isWrite)
	defer tx.Discard()
	return fn(tx)
}
