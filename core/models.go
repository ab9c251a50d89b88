package core

import (
	"strings"
	"time"
)

// EmbeddingDimensions is the width of paper embedding vectors. The index
// mapping and the embedding backend must agree on this value.
const EmbeddingDimensions = 768

// EpochDate is the sentinel publication date for papers whose source
// reference carries no usable date parts.
var EpochDate = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)

// TopicScore is one entry of a paper's topic association list. The four
// scores come precomputed from the source store and default to 0.
type TopicScore struct {
	Name           string  `json:"name"`
	RelevanceScore float64 `json:"relevanceScore"`
	TopScore       float64 `json:"topScore"`
	HotScore       float64 `json:"hotScore"`
	HotScore6M     float64 `json:"hotScore6m"`
}

// Author is a single entry of a paper's ordered author list.
type Author struct {
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	ORCID      string `json:"orcid,omitempty"`
	Sequence   string `json:"sequence,omitempty"`
}

// SourceStat is the per-paper scoring record owned by the source store.
// Read-only to this system.
type SourceStat struct {
	Key        string       `json:"key"`
	Topics     []TopicScore `json:"topics,omitempty"`
	HotScore   float64      `json:"hotScore"`
	HotScore6M float64      `json:"hotScore6m"`
	PageRank   float64      `json:"pageRank"`
}

// SourceReference is the raw bibliographic record owned by the source
// store, keyed in the same domain as SourceStat. Title and container
// are lists of which only the first element is meaningful, mirroring
// the upstream metadata shape.
type SourceReference struct {
	Key            string   `json:"key"`
	Title          []string `json:"title,omitempty"`
	Abstract       string   `json:"abstract,omitempty"`
	ContainerTitle []string `json:"containerTitle,omitempty"`
	Publisher      string   `json:"publisher,omitempty"`
	Authors        []Author `json:"authors,omitempty"`
	DOI            string   `json:"doi,omitempty"`
	CitationCount  int      `json:"citationCount"`
	// DateParts holds 1-3 integers: year, optional month, optional day.
	DateParts []int `json:"dateParts,omitempty"`
}

// FirstTitle returns the first title entry, or "" when absent.
func (r *SourceReference) FirstTitle() string {
	if len(r.Title) == 0 {
		return ""
	}
	return r.Title[0]
}

// Journal returns the first container title entry, or "" when absent.
func (r *SourceReference) Journal() string {
	if len(r.ContainerTitle) == 0 {
		return ""
	}
	return r.ContainerTitle[0]
}

// PublishedAt converts the date-parts decomposition into a concrete
// date. A missing month or day defaults to 1; a record without a year
// maps to EpochDate.
func (r *SourceReference) PublishedAt() time.Time {
	if len(r.DateParts) == 0 || r.DateParts[0] == 0 {
		return EpochDate
	}
	year := r.DateParts[0]
	month, day := 1, 1
	if len(r.DateParts) > 1 && r.DateParts[1] >= 1 && r.DateParts[1] <= 12 {
		month = r.DateParts[1]
	}
	if len(r.DateParts) > 2 && r.DateParts[2] >= 1 && r.DateParts[2] <= 31 {
		day = r.DateParts[2]
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// IndexedPaper is the denormalized search document written to the
// engine. Each sync batch emits complete replacement documents keyed by
// Id, so re-indexing is idempotent. JSON tags define the index schema.
type IndexedPaper struct {
	Id                 string       `json:"id"`
	ExternalId         string       `json:"externalId,omitempty"`
	DOI                string       `json:"doi"`
	Title              string       `json:"title"`
	Abstract           string       `json:"abstract,omitempty"`
	Summary            string       `json:"summary,omitempty"`
	Content            string       `json:"content,omitempty"`
	Embedding          []float32    `json:"embedding,omitempty"`
	ContextualContent  string       `json:"contextualContent,omitempty"`
	Journal            string       `json:"journal,omitempty"`
	Publisher          string       `json:"publisher,omitempty"`
	Authors            []Author     `json:"authors,omitempty"`
	PublishedAt        time.Time    `json:"publishedAt"`
	PublishedDateParts []int        `json:"publishedDateParts,omitempty"`
	HotScore           float64      `json:"hotScore"`
	HotScore6M         float64      `json:"hotScore6m"`
	PageRank           float64      `json:"pageRank"`
	CitationCount      int          `json:"citationCount"`
	VoteScore          int          `json:"voteScore"`
	HasAbstract        bool         `json:"hasAbstract"`
	Topics             []TopicScore `json:"topics,omitempty"`
}

// ContextualContentOf joins title, abstract and summary into the text
// used for embedding generation and the contextual lexical field.
// Empty parts are dropped.
func ContextualContentOf(title, abstract, summary string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{title, abstract, summary} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}
