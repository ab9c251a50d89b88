package openai

import "errors"

var (
	// ErrEmptyResult is returned when the backend responds without any
	// embedding data for a non-empty input.
	ErrEmptyResult = errors.New("embedding backend returned no vectors")
)
