package core

import "fmt"

// ValidateStat validates a SourceStat according to domain rules.
//
// Validation rules:
//   - Key must not be empty
//
// Scores are not validated; the source store owns their semantics and
// absent values default to 0.
func ValidateStat(stat *SourceStat) error {
	if stat == nil {
		return fmt.Errorf("%w: stat is nil", ErrInvalidStat)
	}
	if stat.Key == "" {
		return fmt.Errorf("%w: %w", ErrInvalidStat, ErrEmptyKey)
	}
	return nil
}

// ValidateReference validates a SourceReference according to domain rules.
//
// Validation rules:
//   - Key must not be empty
//   - DateParts, when present, must start with a year
func ValidateReference(ref *SourceReference) error {
	if ref == nil {
		return fmt.Errorf("%w: reference is nil", ErrInvalidReference)
	}
	if ref.Key == "" {
		return fmt.Errorf("%w: %w", ErrInvalidReference, ErrEmptyKey)
	}
	if len(ref.DateParts) > 3 {
		return fmt.Errorf("%w: date parts has %d elements", ErrInvalidReference, len(ref.DateParts))
	}
	return nil
}
