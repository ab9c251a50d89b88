package search

import (
	"errors"
	"fmt"
)

var (
	// ErrSystemIndex is returned when a destructive operation targets a
	// system index (name starting with a dot).
	ErrSystemIndex = errors.New("refusing to operate on system index")

	// ErrIndexNotFound is returned when an operation targets an index
	// that does not exist.
	ErrIndexNotFound = errors.New("index not found")

	// ErrEmptyQuery is returned when a query shape requires a query
	// string and none was given.
	ErrEmptyQuery = errors.New("query text required")

	// ErrEmptyTopic is returned when a topic listing is requested
	// without a topic name.
	ErrEmptyTopic = errors.New("topic name required")
)

// EngineError is a non-success response from the search engine. The
// raw body is preserved so callers can inspect the engine's own error
// report.
type EngineError struct {
	StatusCode int
	Body       []byte
}

func (e *EngineError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256]
	}
	return fmt.Sprintf("search engine returned status %d: %s", e.StatusCode, body)
}
