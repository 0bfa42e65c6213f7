package apperr

import (
	"errors"
	"net/http"
)

// Sentinel errors for the failure taxonomy. Handlers map these to HTTP
// status codes; services wrap them with fmt.Errorf and %w so errors.Is keeps
// working through the stack.
var (
	// ErrNotFound: a referenced user, lesson, exam prep or plan does not exist.
	ErrNotFound = errors.New("not found")

	// ErrOwnership: the entity exists but belongs to a different user.
	// Surfaced as a distinct error, never silently ignored.
	ErrOwnership = errors.New("not owned by user")

	// ErrValidation: malformed input, rejected before any mutation.
	ErrValidation = errors.New("validation failed")

	// ErrGeneration: the external content-generation call failed or returned
	// unparsable output. Propagated as-is; no retry, no fallback content.
	ErrGeneration = errors.New("content generation failed")
)

// HTTPStatus maps an error to the status code the route layer should return.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrOwnership):
		return http.StatusForbidden
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsOwnership(err error) bool  { return errors.Is(err, ErrOwnership) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsGeneration(err error) bool { return errors.Is(err, ErrGeneration) }
