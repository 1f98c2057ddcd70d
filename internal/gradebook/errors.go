// Package gradebook holds the roster, assignment, grading and aggregation
// rules. Everything here is a pure transformation over in-memory values.
package gradebook

import "errors"

// Error classes shared by the core, the services and the HTTP layer.
// Callers wrap them with fmt.Errorf("...: %w", err) and test with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrDivision   = errors.New("grade denominator is zero")
	ErrStorage    = errors.New("storage failure")
	ErrExists     = errors.New("already exists")

	// ErrConflict is a storage failure caused by a concurrent edit; safe to retry.
	ErrConflict = &conflictError{}
)

type conflictError struct{}

func (*conflictError) Error() string { return "concurrent modification" }

func (*conflictError) Is(target error) bool { return target == ErrStorage }
