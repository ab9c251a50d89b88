package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidStat indicates a SourceStat failed validation.
	ErrInvalidStat = errors.New("invalid stat record")

	// ErrInvalidReference indicates a SourceReference failed validation.
	ErrInvalidReference = errors.New("invalid reference record")

	// ErrEmptyKey indicates a record key is empty.
	ErrEmptyKey = errors.New("record key cannot be empty")

	// ErrNoContent indicates a paper has neither title nor abstract
	// after normalization and must be excluded from indexing.
	ErrNoContent = errors.New("paper has no title or abstract")
)
