package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanbaha/opensearch-demo/core"
	"github.com/ivanbaha/opensearch-demo/storage"
)

func setupSource(t *testing.T) storage.PaperSourceWriter {
	t.Helper()
	repo, err := NewMemorySource()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedStats(t *testing.T, repo storage.PaperSourceWriter, n int) {
	t.Helper()
	stats := make([]*core.SourceStat, n)
	for i := 0; i < n; i++ {
		stats[i] = &core.SourceStat{
			Key:      fmt.Sprintf("W%03d", i),
			HotScore: float64(i),
		}
	}
	require.NoError(t, repo.PutStats(context.Background(), stats...))
}

func TestFetchStatPageAscending(t *testing.T) {
	repo := setupSource(t)
	seedStats(t, repo, 10)

	page, err := repo.FetchStatPage(context.Background(), "", 4)
	require.NoError(t, err)
	require.Len(t, page, 4)
	for i, stat := range page {
		assert.Equal(t, fmt.Sprintf("W%03d", i), stat.Key)
	}
}

func TestFetchStatPageResumesAfterKey(t *testing.T) {
	repo := setupSource(t)
	seedStats(t, repo, 10)

	page, err := repo.FetchStatPage(context.Background(), "W004", 4)
	require.NoError(t, err)
	require.Len(t, page, 4)
	assert.Equal(t, "W005", page[0].Key, "cursor is exclusive")
	assert.Equal(t, "W008", page[3].Key)
}

func TestFetchStatPageExhaustion(t *testing.T) {
	repo := setupSource(t)
	seedStats(t, repo, 3)

	page, err := repo.FetchStatPage(context.Background(), "W002", 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestFetchStatPageInvalidLimit(t *testing.T) {
	repo := setupSource(t)

	_, err := repo.FetchStatPage(context.Background(), "", 0)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)
}

func TestFetchReferencesByKeys(t *testing.T) {
	repo := setupSource(t)
	ctx := context.Background()

	refs := []*core.SourceReference{
		{Key: "W001", Title: []string{"First"}, DOI: "10.1/a"},
		{Key: "W002", Title: []string{"Second"}},
	}
	require.NoError(t, repo.PutReferences(ctx, refs...))

	found, err := repo.FetchReferencesByKeys(ctx, []string{"W001", "W002", "W999"})
	require.NoError(t, err)
	require.Len(t, found, 2, "missing keys are absent, not errors")
	assert.Equal(t, "First", found["W001"].FirstTitle())
	assert.Equal(t, "10.1/a", found["W001"].DOI)
	assert.NotContains(t, found, "W999")
}

func TestPutStatsValidates(t *testing.T) {
	repo := setupSource(t)

	err := repo.PutStats(context.Background(), &core.SourceStat{})
	assert.ErrorIs(t, err, core.ErrInvalidStat)
}

func TestPingAfterClose(t *testing.T) {
	repo, err := NewMemorySource()
	require.NoError(t, err)
	require.NoError(t, repo.Ping(context.Background()))

	require.NoError(t, repo.Close())
	assert.ErrorIs(t, repo.Ping(context.Background()), storage.ErrStorageClosed)
}

func TestStatRoundTripPreservesTopics(t *testing.T) {
	repo := setupSource(t)
	ctx := context.Background()

	stat := &core.SourceStat{
		Key: "W100",
		Topics: []core.TopicScore{
			{Name: "ensemble", RelevanceScore: 0.91, TopScore: 0.5, HotScore: 0.2},
		},
		HotScore: 3.5,
		PageRank: 1.25,
	}
	require.NoError(t, repo.PutStats(ctx, stat))

	page, err := repo.FetchStatPage(ctx, "W099", 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, stat.Topics, page[0].Topics)
	assert.Equal(t, 3.5, page[0].HotScore)
}
