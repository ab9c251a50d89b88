package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivanbaha/opensearch-demo/core"
)

func TestMapBuildsDocument(t *testing.T) {
	mapper := NewMapper()

	stat := &core.SourceStat{
		Key:        "W001",
		HotScore:   2.5,
		HotScore6M: 1.5,
		PageRank:   0.8,
		Topics: []core.TopicScore{
			{Name: "ensemble", RelevanceScore: 0.91},
		},
	}
	ref := &core.SourceReference{
		Key:            "W001",
		Title:          []string{"<jats:title>Boosting &amp; Bagging</jats:title>"},
		Abstract:       "Abstract: We study ensembles.",
		ContainerTitle: []string{"JMLR"},
		Publisher:      "MIT Press",
		Authors:        []core.Author{{FamilyName: "Breiman", Sequence: "first"}},
		DOI:            "10.1234/jmlr.1",
		CitationCount:  1200,
		DateParts:      []int{2001, 10},
	}

	paper, contextual, err := mapper.Map(stat, ref)
	require.NoError(t, err)

	assert.Equal(t, "W001", paper.Id)
	assert.Equal(t, "Boosting & Bagging", paper.Title)
	assert.Equal(t, "We study ensembles.", paper.Abstract)
	assert.Equal(t, "JMLR", paper.Journal)
	assert.Equal(t, "10.1234/jmlr.1", paper.DOI)
	assert.Equal(t, 2.5, paper.HotScore)
	assert.Equal(t, 0.8, paper.PageRank)
	assert.Equal(t, 1200, paper.CitationCount)
	assert.True(t, paper.HasAbstract)
	assert.Equal(t, stat.Topics, paper.Topics)
	assert.Equal(t, 2001, paper.PublishedAt.Year())
	assert.Equal(t, 10, int(paper.PublishedAt.Month()))

	assert.Equal(t, "Boosting & Bagging We study ensembles.", contextual)
	assert.Equal(t, contextual, paper.ContextualContent)
	assert.Equal(t, contextual, paper.Content)
	assert.Nil(t, paper.Embedding, "embedding attaches after mapping")
}

func TestMapIsDeterministic(t *testing.T) {
	mapper := NewMapper()
	stat := &core.SourceStat{Key: "W002", HotScore: 1}
	ref := &core.SourceReference{Key: "W002", Title: []string{"Same input"}}

	first, _, err := mapper.Map(stat, ref)
	require.NoError(t, err)
	second, _, err := mapper.Map(stat, ref)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMapSkipsContentlessPaper(t *testing.T) {
	mapper := NewMapper()
	stat := &core.SourceStat{Key: "W003"}
	ref := &core.SourceReference{Key: "W003", Abstract: "<jats:p></jats:p>"}

	_, _, err := mapper.Map(stat, ref)
	assert.ErrorIs(t, err, core.ErrNoContent)
}

func TestMapFallsBackToKeyWhenDOIMissing(t *testing.T) {
	mapper := NewMapper()
	stat := &core.SourceStat{Key: "W004"}
	ref := &core.SourceReference{Key: "W004", Title: []string{"No DOI here"}}

	paper, _, err := mapper.Map(stat, ref)
	require.NoError(t, err)
	assert.Equal(t, "W004", paper.DOI)
}

func TestMapDefaultsDateToEpoch(t *testing.T) {
	mapper := NewMapper()
	stat := &core.SourceStat{Key: "W005"}
	ref := &core.SourceReference{Key: "W005", Title: []string{"Undated"}}

	paper, _, err := mapper.Map(stat, ref)
	require.NoError(t, err)
	assert.Equal(t, core.EpochDate, paper.PublishedAt)
	assert.False(t, paper.HasAbstract)
}

func TestMapRejectsMissingInputs(t *testing.T) {
	mapper := NewMapper()

	_, _, err := mapper.Map(nil, &core.SourceReference{Key: "W006"})
	assert.ErrorIs(t, err, core.ErrEmptyKey)

	_, _, err = mapper.Map(&core.SourceStat{Key: "W006"}, nil)
	assert.ErrorIs(t, err, core.ErrInvalidReference)
}
