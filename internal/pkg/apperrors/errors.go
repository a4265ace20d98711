// internal/pkg/apperrors/errors.go
package apperrors

import "errors"

// Sentinel errors shared by all domain services. Services wrap these with
// fmt.Errorf("%w: ...") so handlers can map them to HTTP status codes with
// errors.Is while keeping the human-readable detail.
var (
	// ErrInvalidInput indicates missing or malformed request data
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a referenced record does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness or state conflict
	ErrConflict = errors.New("conflict")
)
