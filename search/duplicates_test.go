package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanbaha/opensearch-demo/core"
)

func TestFindDuplicatesGroupsByDOIAndTitle(t *testing.T) {
	engine := &fakeEngine{}
	engine.searchFunc = func(ctx context.Context, name string, query *SearchBody) ([]byte, error) {
		if query.From > 0 {
			return []byte(emptyResponse), nil
		}
		return hitsResponse(t,
			core.IndexedPaper{Id: "W001", DOI: "10.1234/ABC", Title: "Deep Learning!"},
			core.IndexedPaper{Id: "W002", DOI: "10.1234/abc", Title: "Something else"},
			core.IndexedPaper{Id: "W003", Title: "deep learning"},
			core.IndexedPaper{Id: "W004", DOI: "10.9999/xyz", Title: "Unrelated"},
		), nil
	}

	svc, err := NewService(engine, nil)
	require.NoError(t, err)

	groups, err := svc.FindDuplicates(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	byKind := map[string][]string{}
	for _, g := range groups {
		byKind[g.Kind] = g.IDs
	}
	assert.ElementsMatch(t, []string{"W001", "W002"}, byKind["doi"], "DOI comparison is case-insensitive")
	assert.ElementsMatch(t, []string{"W001", "W003"}, byKind["title"], "title comparison ignores punctuation and case")
}

func TestFindDuplicatesRequestsOnlyLightFields(t *testing.T) {
	engine := &fakeEngine{}
	svc, err := NewService(engine, nil)
	require.NoError(t, err)

	_, err = svc.FindDuplicates(context.Background())
	require.NoError(t, err)

	sent := engine.lastRequest()
	require.NotNil(t, sent)
	assert.ElementsMatch(t, []string{"id", "doi", "title"}, sent.Source.Includes)
	assert.NotNil(t, sent.Query.MatchAll)
}

func TestFingerprintDeterministic(t *testing.T) {
	assert.Equal(t, fingerprint("doi:10.1/a"), fingerprint("doi:10.1/a"))
	assert.NotEqual(t, fingerprint("doi:10.1/a"), fingerprint("doi:10.1/b"))
}

func TestNormalizeForFingerprint(t *testing.T) {
	assert.Equal(t, "deeplearning", normalizeForFingerprint("Deep Learning!"))
	assert.Equal(t, "deeplearning", normalizeForFingerprint("  deep-learning  "))
	assert.Equal(t, "", normalizeForFingerprint("!!! ???"))
}
