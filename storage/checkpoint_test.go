package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanbaha/opensearch-demo/core"
)

func TestFileCheckpointStoreLoadMissing(t *testing.T) {
	store := NewFileCheckpointStore(filepath.Join(t.TempDir(), "sync", "checkpoint.json"))

	cp, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.Nil(t, cp.LastKey)
	assert.Zero(t, cp.TotalIndexed)
}

func TestFileCheckpointStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "checkpoint.json")
	store := NewFileCheckpointStore(path)

	cp := core.NewCheckpoint()
	cp.Advance("W42", 100, 97)
	cp.Running = true
	cp.StartedAt = time.Now().UTC().Truncate(time.Second)
	cp.RecordError("transient failure")
	require.NoError(t, store.Save(cp))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded.LastKey)
	assert.Equal(t, "W42", *loaded.LastKey)
	assert.Equal(t, int64(100), loaded.TotalRetrieved)
	assert.Equal(t, int64(97), loaded.TotalIndexed)
	assert.True(t, loaded.Running)
	require.Len(t, loaded.Errors, 1)
	assert.Equal(t, "transient failure", loaded.Errors[0].Message)
}

func TestFileCheckpointStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewFileCheckpointStore(path)
	cp, err := store.Load()
	require.NoError(t, err, "corrupt checkpoint must not be fatal")
	assert.Nil(t, cp.LastKey)
}

func TestFileCheckpointStoreOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewFileCheckpointStore(path)

	first := core.NewCheckpoint()
	first.Advance("W1", 10, 10)
	require.NoError(t, store.Save(first))

	second := core.NewCheckpoint()
	second.Advance("W2", 20, 20)
	require.NoError(t, store.Save(second))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "W2", *loaded.LastKey)
	assert.Equal(t, int64(20), loaded.TotalRetrieved)

	// No stray temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
