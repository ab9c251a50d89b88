// Package openai implements ai.Embedder for OpenAI-compatible
// embedding APIs (POST /embeddings with bearer-token auth), including
// the chunked concurrent batch submission used by the sync pipeline.
package openai
