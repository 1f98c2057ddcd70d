package response

import (
	"errors"
	"net/http"

	"github.com/classmark/gradebook/internal/gradebook"
)

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenRevoked       ErrCode = "TOKEN_REVOKED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrTeacherAccessOnly ErrCode = "TEACHER_ACCESS_ONLY"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrDivision       ErrCode = "DIVISION_ERROR"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound      ErrCode = "NOT_FOUND"
	ErrAlreadyExists ErrCode = "ALREADY_EXISTS"
	ErrConflict      ErrCode = "CONCURRENT_MODIFICATION"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrStorage  ErrCode = "STORAGE_UNAVAILABLE"
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid username or password."
	case ErrTokenRequired:
		return "An authentication token is required."
	case ErrTokenInvalid:
		return "The authentication token is invalid or expired."
	case ErrTokenRevoked:
		return "This session has been logged out. Please log in again."

	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrTeacherAccessOnly:
		return "This resource is restricted to teachers."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."

	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."
	case ErrDivision:
		return "Cannot compute a grade for an assignment worth zero points."

	case ErrNotFound:
		return "Resource not found."
	case ErrAlreadyExists:
		return "Resource already exists."
	case ErrConflict:
		return "The resource was modified concurrently. Please retry."

	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	case ErrStorage:
		return "The data store is temporarily unavailable."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

// Classify maps a domain error to an HTTP status and error code.
// ErrConflict is checked before ErrStorage since it matches both.
func Classify(err error) (int, ErrCode) {
	switch {
	case errors.Is(err, gradebook.ErrValidation):
		return http.StatusUnprocessableEntity, ErrValidation
	case errors.Is(err, gradebook.ErrDivision):
		return http.StatusUnprocessableEntity, ErrDivision
	case errors.Is(err, gradebook.ErrNotFound):
		return http.StatusNotFound, ErrNotFound
	case errors.Is(err, gradebook.ErrForbidden):
		return http.StatusForbidden, ErrForbidden
	case errors.Is(err, gradebook.ErrExists):
		return http.StatusConflict, ErrAlreadyExists
	case errors.Is(err, gradebook.ErrConflict):
		return http.StatusConflict, ErrConflict
	case errors.Is(err, gradebook.ErrStorage):
		return http.StatusServiceUnavailable, ErrStorage
	default:
		return http.StatusInternalServerError, ErrInternal
	}
}
