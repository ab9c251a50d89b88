package paperindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dir := t.TempDir()
	service, err := NewService(
		filepath.Join(dir, "source"),
		filepath.Join(dir, "checkpoint.json"),
		"http://localhost:9200",
	)
	require.NoError(t, err)
	require.NotNil(t, service)
	return service
}

func TestNewService(t *testing.T) {
	t.Run("create new service", func(t *testing.T) {
		service := newTestService(t)
		defer service.Close()

		assert.NotNil(t, service.Source())
		assert.NotNil(t, service.Checkpoints())
		assert.NotNil(t, service.Engine())
	})

	t.Run("error with invalid data path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0644))

		service, err := NewService(tmpFile, filepath.Join(t.TempDir(), "cp.json"), "http://localhost:9200")
		assert.Error(t, err)
		assert.Nil(t, service)
	})

	t.Run("error with empty engine URL", func(t *testing.T) {
		dir := t.TempDir()
		service, err := NewService(filepath.Join(dir, "source"), filepath.Join(dir, "cp.json"), "")
		assert.Error(t, err)
		assert.Nil(t, service)
	})
}

func TestService_FactoryMethods(t *testing.T) {
	service := newTestService(t)
	defer service.Close()

	t.Run("can create syncer", func(t *testing.T) {
		syncer, err := service.NewSyncer()
		require.NoError(t, err)
		require.NotNil(t, syncer)
		syncer.Release()
	})

	t.Run("can create query service", func(t *testing.T) {
		queries, err := service.NewQueryService()
		require.NoError(t, err)
		require.NotNil(t, queries)
	})
}

func TestService_Close(t *testing.T) {
	service := newTestService(t)
	assert.NoError(t, service.Close())
}
