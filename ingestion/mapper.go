package ingestion

import (
	"fmt"

	"github.com/ivanbaha/opensearch-demo/core"
)

// Mapper joins a stat record with its reference and produces the
// search document. Mapping is deterministic, so re-mapping the same
// pair always yields the same document.
type Mapper struct{}

// NewMapper creates a document mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map builds the search document for one paper. The returned string is
// the contextual text the document should be embedded from. A paper
// with neither a usable title nor abstract after cleanup cannot be
// found by any query shape and is reported as core.ErrNoContent.
func (m *Mapper) Map(stat *core.SourceStat, ref *core.SourceReference) (*core.IndexedPaper, string, error) {
	if stat == nil || stat.Key == "" {
		return nil, "", core.ErrEmptyKey
	}
	if ref == nil {
		return nil, "", fmt.Errorf("%w: %s", core.ErrInvalidReference, stat.Key)
	}

	title := Normalize(ref.FirstTitle())
	abstract := Normalize(ref.Abstract)
	if title == "" && abstract == "" {
		return nil, "", fmt.Errorf("%w: %s", core.ErrNoContent, stat.Key)
	}

	doi := ref.DOI
	if doi == "" {
		// The document id domain is stable, so the key stands in for a
		// missing DOI rather than leaving the field empty.
		doi = stat.Key
	}

	paper := &core.IndexedPaper{
		Id:                 stat.Key,
		ExternalId:         ref.Key,
		DOI:                doi,
		Title:              title,
		Abstract:           abstract,
		Journal:            ref.Journal(),
		Publisher:          ref.Publisher,
		Authors:            ref.Authors,
		PublishedAt:        ref.PublishedAt(),
		PublishedDateParts: ref.DateParts,
		HotScore:           stat.HotScore,
		HotScore6M:         stat.HotScore6M,
		PageRank:           stat.PageRank,
		CitationCount:      ref.CitationCount,
		HasAbstract:        abstract != "",
		Topics:             stat.Topics,
	}

	contextual := core.ContextualContentOf(title, abstract, paper.Summary)
	paper.ContextualContent = contextual
	// No full text is available upstream; the contextual text stands in
	// until a content feed exists.
	paper.Content = contextual
	return paper, contextual, nil
}

// AttachEmbedding sets the paper's embedding vector.
func (m *Mapper) AttachEmbedding(paper *core.IndexedPaper, embedding []float32) {
	paper.Embedding = embedding
}
