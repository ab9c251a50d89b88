package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ivanbaha/opensearch-demo/ai"
	"github.com/ivanbaha/opensearch-demo/core"
)

// Engine is the subset of client operations the query service uses.
// *Client satisfies it.
type Engine interface {
	Search(ctx context.Context, name string, query *SearchBody) ([]byte, error)
}

// Service executes the paper query shapes against one index.
type Service struct {
	engine   Engine
	embedder ai.Embedder
	index    string
	logger   *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithIndex overrides the target index name.
func WithIndex(name string) ServiceOption {
	return func(s *Service) {
		s.index = name
	}
}

// NewService creates a query service. The embedder may be nil, in
// which case semantic queries always fall back to the contextual shape.
func NewService(engine Engine, embedder ai.Embedder, opts ...ServiceOption) (*Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine required")
	}

	svc := &Service{
		engine:   engine,
		embedder: embedder,
		index:    DefaultIndexName,
		logger:   slog.Default().With("component", "query-service"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// SearchPapers runs a filtered lexical search.
func (s *Service) SearchPapers(ctx context.Context, params LexicalParams) (*QueryResult, error) {
	if strings.TrimSpace(params.Query) == "" {
		return nil, ErrEmptyQuery
	}
	return s.execute(ctx, BuildLexicalQuery(params))
}

// SearchContextual runs a contextual search over the combined
// title/abstract/summary text.
func (s *Service) SearchContextual(ctx context.Context, query string, from, size int) (*QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	return s.execute(ctx, BuildContextualQuery(query, from, size))
}

// SearchSemantic runs the hybrid nearest-neighbor plus lexical search.
// When the query cannot be embedded, or the embedding has the wrong
// dimensionality, the search degrades to the contextual shape rather
// than failing; the result reports the fallback.
func (s *Service) SearchSemantic(ctx context.Context, query string, tiebreak SortMode, from, size int) (*QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	embedding, ok := s.embedQuery(ctx, query)
	if !ok {
		result, err := s.execute(ctx, BuildContextualQuery(query, from, size))
		if err != nil {
			return nil, err
		}
		result.Fallback = true
		return result, nil
	}

	return s.execute(ctx, BuildHybridQuery(query, embedding, tiebreak, from, size))
}

// ListPapers lists the corpus under a named sort.
func (s *Service) ListPapers(ctx context.Context, sort SortMode, from, size int) (*QueryResult, error) {
	return s.execute(ctx, BuildListQuery(sort, from, size))
}

// ListByTopic lists papers tagged with a topic, ordered by the
// requested per-topic score.
func (s *Service) ListByTopic(ctx context.Context, params TopicParams) (*QueryResult, error) {
	if strings.TrimSpace(params.Topic) == "" {
		return nil, ErrEmptyTopic
	}
	return s.execute(ctx, BuildTopicQuery(params))
}

// embedQuery returns a usable query embedding, or ok=false when the
// semantic route is unavailable.
func (s *Service) embedQuery(ctx context.Context, query string) ([]float32, bool) {
	if s.embedder == nil {
		return nil, false
	}

	embedding, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		s.logger.Warn("query embedding failed, falling back to contextual search", "error", err)
		return nil, false
	}
	if len(embedding) != core.EmbeddingDimensions || ai.IsZeroVector(embedding) {
		s.logger.Warn("query embedding unusable, falling back to contextual search",
			"dimensions", len(embedding))
		return nil, false
	}
	return embedding, true
}

// execute runs a query and parses the response. A response that cannot
// be parsed is returned raw and marked degraded; only transport and
// engine failures are errors.
func (s *Service) execute(ctx context.Context, query *SearchBody) (*QueryResult, error) {
	raw, err := s.engine.Search(ctx, s.index, query)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		s.logger.Warn("failed to parse engine response, returning raw body", "error", err)
		return &QueryResult{Raw: raw, Degraded: true}, nil
	}

	return &QueryResult{
		Total: parsed.Hits.Total.Value,
		Hits:  parsed.Hits.Hits,
		Raw:   raw,
	}, nil
}
