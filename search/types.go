package search

import (
	"encoding/json"

	"github.com/ivanbaha/opensearch-demo/core"
)

// SearchBody is the JSON body of a search request. Only the fields a
// particular query shape needs are populated.
type SearchBody struct {
	From           int           `json:"from,omitempty"`
	Size           int           `json:"size"`
	Query          *QueryClause  `json:"query,omitempty"`
	Sort           []SortClause  `json:"sort,omitempty"`
	Source         *SourceFilter `json:"_source,omitempty"`
	TrackTotalHits bool          `json:"track_total_hits"`
	Highlight      *Highlight    `json:"highlight,omitempty"`
}

// QueryClause is one node of the engine query DSL. Exactly one field
// must be set.
type QueryClause struct {
	Bool       *BoolClause            `json:"bool,omitempty"`
	MultiMatch *MultiMatchClause      `json:"multi_match,omitempty"`
	Match      map[string]MatchClause `json:"match,omitempty"`
	Term       map[string]TermClause  `json:"term,omitempty"`
	Terms      map[string][]string    `json:"terms,omitempty"`
	Range      map[string]RangeClause `json:"range,omitempty"`
	Nested     *NestedClause          `json:"nested,omitempty"`
	KNN        map[string]KNNClause   `json:"knn,omitempty"`
	MatchAll   *MatchAllClause        `json:"match_all,omitempty"`
}

// BoolClause combines sub-clauses. Filter clauses never contribute to
// the relevance score.
type BoolClause struct {
	Must               []QueryClause `json:"must,omitempty"`
	Should             []QueryClause `json:"should,omitempty"`
	Filter             []QueryClause `json:"filter,omitempty"`
	MustNot            []QueryClause `json:"must_not,omitempty"`
	MinimumShouldMatch int           `json:"minimum_should_match,omitempty"`
}

// MultiMatchClause scores a query string across several weighted fields.
type MultiMatchClause struct {
	Query              string   `json:"query"`
	Fields             []string `json:"fields"`
	Fuzziness          string   `json:"fuzziness,omitempty"`
	MinimumShouldMatch string   `json:"minimum_should_match,omitempty"`
}

// MatchClause is a single-field full-text match.
type MatchClause struct {
	Query     string `json:"query"`
	Fuzziness string `json:"fuzziness,omitempty"`
}

// TermClause is an exact-value match against a keyword or boolean field.
type TermClause struct {
	Value any `json:"value"`
}

// RangeClause bounds a field inclusively. Values are dates or numbers
// in their engine representation.
type RangeClause struct {
	GTE any `json:"gte,omitempty"`
	LTE any `json:"lte,omitempty"`
}

// NestedClause runs a sub-query against a nested collection.
type NestedClause struct {
	Path  string       `json:"path"`
	Query *QueryClause `json:"query"`
}

// KNNClause is a nearest-neighbor clause against a vector field, keyed
// by the field name in the enclosing map.
type KNNClause struct {
	Vector []float32 `json:"vector"`
	K      int       `json:"k"`
}

// MatchAllClause matches every document.
type MatchAllClause struct{}

// SourceFilter controls which document fields the engine returns.
type SourceFilter struct {
	Includes []string `json:"includes,omitempty"`
	Excludes []string `json:"excludes,omitempty"`
}

// Highlight requests snippet extraction for the given fields.
type Highlight struct {
	Fields map[string]HighlightField `json:"fields"`
}

// HighlightField configures highlighting for one field. The engine
// defaults are used.
type HighlightField struct{}

// Script is an inline engine script with parameters.
type Script struct {
	Source string         `json:"source"`
	Params map[string]any `json:"params,omitempty"`
}

// ScriptSort sorts by a script-evaluated number. Needed where the
// engine cannot natively sort by a field inside a matched nested array
// element; this is an engine capability dependency.
type ScriptSort struct {
	Type   string `json:"type"`
	Script Script `json:"script"`
	Order  string `json:"order"`
}

// SortClause is one element of the request sort list: either a plain
// field sort or a script sort.
type SortClause struct {
	Field  string
	Order  string
	Script *ScriptSort
}

// MarshalJSON renders the clause in the engine's sort syntax.
func (s SortClause) MarshalJSON() ([]byte, error) {
	if s.Script != nil {
		return json.Marshal(struct {
			Script *ScriptSort `json:"_script"`
		}{s.Script})
	}
	type fieldOrder struct {
		Order string `json:"order"`
	}
	return json.Marshal(map[string]fieldOrder{s.Field: {Order: s.Order}})
}

// TotalHits is the exact hit count of a response.
type TotalHits struct {
	Value    int64  `json:"value"`
	Relation string `json:"relation"`
}

// Hit is a single search hit with its parsed document.
type Hit struct {
	ID        string              `json:"_id"`
	Score     *float64            `json:"_score"`
	Source    core.IndexedPaper   `json:"_source"`
	Highlight map[string][]string `json:"highlight,omitempty"`
}

type hitsEnvelope struct {
	Total TotalHits `json:"total"`
	Hits  []Hit     `json:"hits"`
}

type searchResponse struct {
	Took     int          `json:"took"`
	TimedOut bool         `json:"timed_out"`
	Hits     hitsEnvelope `json:"hits"`
}

// QueryResult is the outcome of an executed query. When the engine
// response cannot be parsed, Degraded is true and only Raw is
// populated; callers still get the raw body for diagnosis instead of a
// hard failure.
type QueryResult struct {
	Total    int64
	Hits     []Hit
	Raw      json.RawMessage
	Degraded bool
	// Fallback is true when a semantic query fell back to the
	// contextual shape because no usable embedding was available.
	Fallback bool
}

// IndexStats is the subset of index statistics this system surfaces.
type IndexStats struct {
	Docs        int64
	SizeInBytes int64
}

// ClusterHealth is the subset of cluster health this system surfaces.
type ClusterHealth struct {
	Status        string `json:"status"`
	NumberOfNodes int    `json:"number_of_nodes"`
	ActiveShards  int    `json:"active_shards"`
}
