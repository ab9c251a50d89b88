// Package search talks to the search engine: index lifecycle, bulk
// document indexing, and the paper query shapes (lexical, contextual,
// semantic, topic).
package search
