package database

import "errors"

// Store-level error kinds. Repositories wrap these with context via
// fmt.Errorf("...: %w", ...) so callers can match with errors.Is.
var (
	// ErrNotFound means a requested or referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConstraintViolation means a uniqueness or required-relationship
	// rule was violated (duplicate ISBN, second review for the same book).
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrValidation means a field value is outside its declared domain,
	// e.g. a review rating outside [1,5] or an illegal status transition.
	ErrValidation = errors.New("validation failed")
)
