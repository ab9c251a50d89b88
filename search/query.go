package search

import "time"

// SortMode names the result orderings the paper index supports.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortHot       SortMode = "hot"
	SortTop       SortMode = "top"
	SortLatest    SortMode = "latest"
)

// TopicSortField names the per-topic score a topic listing is ordered by.
type TopicSortField string

const (
	TopicSortHot       TopicSortField = "hotScore"
	TopicSortTop       TopicSortField = "topScore"
	TopicSortRelevance TopicSortField = "relevanceScore"
)

const defaultPageSize = 20

// resultSourceExcludes keeps the heavy fields out of every response.
// The embedding alone is 3KB per document.
var resultSourceExcludes = []string{"embedding", "contextualContent", "content"}

// LexicalParams parameterizes a filtered lexical search.
type LexicalParams struct {
	Query         string
	Author        string
	Journal       string
	HasAbstract   *bool
	PublishedFrom *time.Time
	PublishedTo   *time.Time
	Topics        []string
	Sort          SortMode
	From          int
	Size          int
}

// BuildLexicalQuery assembles the filtered lexical shape: a fuzzy
// multi-field match with title weighted above abstract, author and
// journal, plus non-scoring filters and a named sort.
func BuildLexicalQuery(p LexicalParams) *SearchBody {
	boolClause := &BoolClause{
		Must: []QueryClause{{
			MultiMatch: &MultiMatchClause{
				Query:     p.Query,
				Fields:    []string{"title^3", "abstract^2", "authors.familyName", "journal"},
				Fuzziness: "AUTO",
			},
		}},
	}

	if p.Author != "" {
		boolClause.Must = append(boolClause.Must, QueryClause{
			Match: map[string]MatchClause{
				"authors.familyName": {Query: p.Author, Fuzziness: "AUTO"},
			},
		})
	}
	if p.Journal != "" {
		boolClause.Filter = append(boolClause.Filter, QueryClause{
			Term: map[string]TermClause{"journal.keyword": {Value: p.Journal}},
		})
	}
	if p.HasAbstract != nil {
		boolClause.Filter = append(boolClause.Filter, QueryClause{
			Term: map[string]TermClause{"hasAbstract": {Value: *p.HasAbstract}},
		})
	}
	if p.PublishedFrom != nil || p.PublishedTo != nil {
		window := RangeClause{}
		if p.PublishedFrom != nil {
			window.GTE = p.PublishedFrom.Format("2006-01-02")
		}
		if p.PublishedTo != nil {
			window.LTE = p.PublishedTo.Format("2006-01-02")
		}
		boolClause.Filter = append(boolClause.Filter, QueryClause{
			Range: map[string]RangeClause{"publishedAt": window},
		})
	}
	if len(p.Topics) > 0 {
		boolClause.Filter = append(boolClause.Filter, QueryClause{
			Nested: &NestedClause{
				Path:  "topics",
				Query: &QueryClause{Terms: map[string][]string{"topics.name": p.Topics}},
			},
		})
	}

	return &SearchBody{
		From:           p.From,
		Size:           sizeOrDefault(p.Size),
		Query:          &QueryClause{Bool: boolClause},
		Sort:           namedSort(p.Sort),
		Source:         &SourceFilter{Excludes: resultSourceExcludes},
		TrackTotalHits: true,
	}
}

// BuildContextualQuery assembles the contextual shape: a multi-field
// match against the combined contextual text and its stemmed variant,
// requiring three quarters of the query terms, with highlighting.
func BuildContextualQuery(query string, from, size int) *SearchBody {
	return &SearchBody{
		From: from,
		Size: sizeOrDefault(size),
		Query: &QueryClause{
			MultiMatch: &MultiMatchClause{
				Query:              query,
				Fields:             []string{"contextualContent^3", "contextualContent.english^2", "title", "abstract", "summary"},
				MinimumShouldMatch: "75%",
			},
		},
		Source:         &SourceFilter{Excludes: resultSourceExcludes},
		TrackTotalHits: true,
		Highlight: &Highlight{
			Fields: map[string]HighlightField{
				"contextualContent": {},
				"title":             {},
				"abstract":          {},
				"summary":           {},
			},
		},
	}
}

// BuildHybridQuery assembles the semantic shape: a nearest-neighbor
// clause on the embedding OR-combined with a relaxed lexical match, so
// a document reachable by either route is returned. Ties within the
// blended score break by the caller's sort mode.
func BuildHybridQuery(query string, embedding []float32, tiebreak SortMode, from, size int) *SearchBody {
	size = sizeOrDefault(size)

	boolClause := &BoolClause{
		Should: []QueryClause{
			{KNN: map[string]KNNClause{
				"embedding": {Vector: embedding, K: size},
			}},
			{MultiMatch: &MultiMatchClause{
				Query:              query,
				Fields:             []string{"title^3", "abstract^2", "contextualContent"},
				MinimumShouldMatch: "70%",
			}},
		},
		MinimumShouldMatch: 1,
	}

	sort := []SortClause{{Field: "_score", Order: "desc"}}
	if secondary := namedSort(tiebreak); secondary != nil {
		sort = append(sort, secondary...)
	}

	return &SearchBody{
		From:           from,
		Size:           size,
		Query:          &QueryClause{Bool: boolClause},
		Sort:           sort,
		Source:         &SourceFilter{Excludes: resultSourceExcludes},
		TrackTotalHits: true,
	}
}

// BuildListQuery assembles a plain listing of the corpus under a named
// sort. Relevance is meaningless without a query, so it lists latest
// first.
func BuildListQuery(sort SortMode, from, size int) *SearchBody {
	clauses := namedSort(sort)
	if clauses == nil {
		clauses = namedSort(SortLatest)
	}
	return &SearchBody{
		From:           from,
		Size:           sizeOrDefault(size),
		Query:          &QueryClause{MatchAll: &MatchAllClause{}},
		Sort:           clauses,
		Source:         &SourceFilter{Excludes: resultSourceExcludes},
		TrackTotalHits: true,
	}
}

// TopicParams parameterizes a topic listing.
type TopicParams struct {
	Topic string
	Sort  TopicSortField
	From  int
	Size  int
}

// topicScoreScript pulls the matching topic's score out of the nested
// topics array. The engine cannot natively sort by one element of a
// nested array, so the extraction runs as a script.
const topicScoreScript = `double score = 0;
def topics = params._source.topics;
if (topics != null) {
  for (t in topics) {
    if (t.name == params.topic) {
      score = t[params.field] == null ? 0 : t[params.field];
      break;
    }
  }
}
return score;`

// BuildTopicQuery assembles the topic listing shape: a nested filter
// selecting papers tagged with the topic, already published, ordered
// by the requested per-topic score.
func BuildTopicQuery(p TopicParams) *SearchBody {
	sortField := p.Sort
	if sortField == "" {
		sortField = TopicSortHot
	}

	return &SearchBody{
		From: p.From,
		Size: sizeOrDefault(p.Size),
		Query: &QueryClause{
			Bool: &BoolClause{
				Filter: []QueryClause{
					{Nested: &NestedClause{
						Path:  "topics",
						Query: &QueryClause{Term: map[string]TermClause{"topics.name": {Value: p.Topic}}},
					}},
					{Range: map[string]RangeClause{"publishedAt": {LTE: "now"}}},
				},
			},
		},
		Sort: []SortClause{{
			Script: &ScriptSort{
				Type: "number",
				Script: Script{
					Source: topicScoreScript,
					Params: map[string]any{
						"topic": p.Topic,
						"field": string(sortField),
					},
				},
				Order: "desc",
			},
		}},
		Source:         &SourceFilter{Excludes: resultSourceExcludes},
		TrackTotalHits: true,
	}
}

// namedSort maps a sort mode to its sort clauses. Relevance is the
// engine default and needs no clause.
func namedSort(mode SortMode) []SortClause {
	switch mode {
	case SortHot:
		return []SortClause{{Field: "hotScore", Order: "desc"}}
	case SortTop:
		return []SortClause{{Field: "pageRank", Order: "desc"}}
	case SortLatest:
		return []SortClause{{Field: "publishedAt", Order: "desc"}}
	default:
		return nil
	}
}

func sizeOrDefault(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	return size
}
