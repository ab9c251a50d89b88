// Package ai provides the embedding abstraction used by the sync
// pipeline and the semantic query path.
//
// The Embedder interface decouples callers from the embedding backend;
// the openai subpackage implements it against any OpenAI-compatible
// /embeddings endpoint and the mock subpackage provides a deterministic
// test double.
package ai
