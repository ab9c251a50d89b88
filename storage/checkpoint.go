package storage

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ivanbaha/opensearch-demo/core"
)

// FileCheckpointStore persists the sync checkpoint as a JSON file. A
// missing or unreadable file loads as a fresh checkpoint rather than an
// error, so a corrupted file never blocks a sync from starting over.
type FileCheckpointStore struct {
	path   string
	logger *slog.Logger
}

var _ CheckpointStore = (*FileCheckpointStore)(nil)

// NewFileCheckpointStore creates a checkpoint store backed by the JSON
// file at path. The parent directory is created on first save.
func NewFileCheckpointStore(path string) *FileCheckpointStore {
	return &FileCheckpointStore{
		path:   path,
		logger: slog.Default().With("component", "checkpoint-store"),
	}
}

// Load reads the checkpoint file. Returns a fresh checkpoint when the
// file does not exist or cannot be parsed.
func (s *FileCheckpointStore) Load() (*core.Checkpoint, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.NewCheckpoint(), nil
		}
		s.logger.Warn("checkpoint file unreadable, starting fresh", "path", s.path, "err", err)
		return core.NewCheckpoint(), nil
	}

	var checkpoint core.Checkpoint
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		s.logger.Warn("checkpoint file corrupt, starting fresh", "path", s.path, "err", err)
		return core.NewCheckpoint(), nil
	}
	return &checkpoint, nil
}

// Save writes the checkpoint atomically: marshal to a temp file in the
// same directory, then rename over the target.
func (s *FileCheckpointStore) Save(checkpoint *core.Checkpoint) error {
	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".checkpoint-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
