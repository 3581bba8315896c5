package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Handlers translate domain errors to responses through this interface
// instead of switching on concrete types.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the principal's scope excludes the target
	ForbiddenError struct {
		Message string
	}

	// ExpiredError indicates a share capability past its expiry window
	ExpiredError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }
func (e *ExpiredError) Error() string      { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }
func (e *ExpiredError) StatusCode() int      { return http.StatusGone }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrExpired           = errors.New("expired")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrParentNotActive   = errors.New("parent not active")
)

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }
func (e *ExpiredError) Is(target error) bool      { return target == ErrExpired }

// InvalidStateTransitionError indicates a lifecycle precondition violation.
// It carries both the node's current status and the requested one so callers
// can report exactly why the transition was rejected.
type InvalidStateTransitionError struct {
	Current   string // status the node is in
	Requested string // status the caller asked for
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("cannot transition to %s: current status is %s", e.Requested, e.Current)
}

func (e *InvalidStateTransitionError) StatusCode() int { return http.StatusBadRequest }

func (e *InvalidStateTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ParentNotActiveError indicates a restore blocked by ancestor state:
// restoring never produces a node whose visible ancestor chain is non-active.
type ParentNotActiveError struct {
	Message string
}

func (e *ParentNotActiveError) Error() string { return e.Message }

func (e *ParentNotActiveError) StatusCode() int { return http.StatusBadRequest }

func (e *ParentNotActiveError) Is(target error) bool { return target == ErrParentNotActive }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string
	ResourceType string
	ResourceID   int64
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) StatusCode() int { return http.StatusConflict }

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }
