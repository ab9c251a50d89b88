package openai

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/ivanbaha/opensearch-demo/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder implements ai.Embedder against OpenAI-compatible embedding
// APIs. Batch requests are partitioned into fixed-size chunks issued
// concurrently; a failed chunk degrades to zero vectors instead of
// failing the batch.
type Embedder struct {
	embedder embeddings.Embedder
	cfg      *ai.Config
	logger   *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(cfg *ai.Config) (*Embedder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(cfg.Host),
		openai.WithToken(cfg.Token),
		openai.WithEmbeddingModel(cfg.Model),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	)
	if err != nil {
		return nil, err
	}

	// Chunking is handled here, so the inner embedder must not split
	// a chunk further.
	inner, err := embeddings.NewEmbedder(client,
		embeddings.WithStripNewLines(true),
		embeddings.WithBatchSize(cfg.ChunkSize),
	)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		embedder: inner,
		cfg:      cfg,
		logger:   slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(cfg *ai.Config) (ai.Embedder, error) {
	return newEmbedder(cfg)
}

// EmbedText generates an embedding for a single text string. Empty or
// whitespace-only input yields a zero vector without a backend call.
// Backend failures propagate to the caller.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	prepared := e.prepare(text)
	if prepared == "" {
		return ai.ZeroVector(e.cfg.Dimensions), nil
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, []string{prepared})
	if err != nil {
		e.logger.Error("failed to generate embedding", "length", len(prepared), "err", err)
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, ErrEmptyResult
	}
	return vectors[0], nil
}

// EmbedTexts generates embeddings for multiple texts. The input is
// partitioned into chunks of the configured size and each chunk is
// submitted in its own goroutine. The result preserves input order;
// slots belonging to a failed chunk hold zero vectors.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	if len(texts) == 0 {
		return results, nil
	}

	prepared := make([]string, len(texts))
	for i, text := range texts {
		prepared[i] = e.prepare(text)
	}

	chunkSize := e.cfg.ChunkSize
	var wg sync.WaitGroup
	for start := 0; start < len(prepared); start += chunkSize {
		end := start + chunkSize
		if end > len(prepared) {
			end = len(prepared)
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			e.embedChunk(ctx, prepared[start:end], results[start:end], start)
		}(start, end)
	}
	wg.Wait()

	return results, nil
}

// embedChunk fills out with embeddings for the given texts. Empty texts
// get zero vectors without touching the backend; on a backend error the
// whole chunk degrades to zero vectors. out is a disjoint sub-slice of
// the batch result, so no locking is needed.
func (e *Embedder) embedChunk(ctx context.Context, texts []string, out [][]float32, offset int) {
	input := make([]string, 0, len(texts))
	slots := make([]int, 0, len(texts))
	for i, text := range texts {
		if text == "" {
			out[i] = ai.ZeroVector(e.cfg.Dimensions)
			continue
		}
		input = append(input, text)
		slots = append(slots, i)
	}

	if len(input) == 0 {
		return
	}

	vectors, err := e.embedder.EmbedDocuments(ctx, input)
	if err != nil || len(vectors) != len(input) {
		e.logger.Warn("embedding chunk failed, using zero vectors",
			"offset", offset, "size", len(input), "err", err)
		for _, i := range slots {
			out[i] = ai.ZeroVector(e.cfg.Dimensions)
		}
		return
	}

	for j, i := range slots {
		out[i] = vectors[j]
	}
}

// prepare trims whitespace and enforces the backend's length ceiling.
// The ceiling counts characters, not bytes, and a cut must never land
// inside a multi-byte rune.
func (e *Embedder) prepare(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= e.cfg.MaxTextLength {
		// Byte length bounds rune count, so the text fits as is.
		return trimmed
	}
	seen := 0
	for i := range trimmed {
		if seen == e.cfg.MaxTextLength {
			return trimmed[:i]
		}
		seen++
	}
	return trimmed
}
