package ai

import "context"

// Embedder generates vector embeddings from text for semantic search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates an embedding for a single text string.
	// Empty or whitespace-only text maps to a zero vector without a
	// backend call. Returns an error if embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates embeddings for multiple texts in a batch.
	// The returned slice is the same length as the input and preserves
	// input order. Backend failures are isolated per submission chunk:
	// a failed chunk's slots are filled with zero vectors instead of
	// aborting the whole batch.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ZeroVector returns an all-zero embedding of the given width. It is
// the stand-in for text that cannot be embedded.
func ZeroVector(dimensions int) []float32 {
	return make([]float32, dimensions)
}

// IsZeroVector reports whether every component of v is zero.
func IsZeroVector(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}
