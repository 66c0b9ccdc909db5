package services

import (
	"errors"
	"fmt"

	"github.com/faturaflow/faturaflow-api/internal/currency"
	"github.com/faturaflow/faturaflow-api/internal/repository"
)

// Common service errors
var (
	ErrUnauthenticated     = errors.New("authentication required")
	ErrForbidden           = errors.New("you are not allowed to perform this action")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrMissingProject      = errors.New("a valid project is required for assignment")
	ErrNotFound            = errors.New("record not found")
	ErrDependencyConflict  = errors.New("record is still referenced")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrValidation          = errors.New("validation failed")
)

// detailedError carries a caller-facing message for a taxonomy error
type detailedError struct {
	kind error
	msg  string
}

func (e *detailedError) Error() string { return e.msg }
func (e *detailedError) Unwrap() error { return e.kind }

func errorf(kind error, format string, args ...interface{}) error {
	return &detailedError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// ErrorCode names the taxonomy class of err for API responses
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrMissingProject):
		return "MISSING_PROJECT"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrDependencyConflict):
		return "DEPENDENCY_CONFLICT"
	case errors.Is(err, ErrUpstreamUnavailable):
		return "UPSTREAM_UNAVAILABLE"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// translate maps storage-level errors onto the service taxonomy
func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case repository.IsNotFound(err):
		return errorf(ErrNotFound, "%s not found", what)
	case errors.Is(err, repository.ErrStatusChanged):
		return errorf(ErrInvalidTransition, "%s was changed by another request", what)
	case errors.Is(err, repository.ErrHasDependents):
		return errorf(ErrDependencyConflict, "%s", err.Error())
	case errors.Is(err, repository.ErrDuplicate):
		return errorf(ErrValidation, "%s", err.Error())
	case errors.Is(err, currency.ErrUnavailable):
		return errorf(ErrUpstreamUnavailable, "exchange rates are unavailable")
	}
	return err
}
