// Package apperror defines the application's error taxonomy. Services return
// typed errors from this package and the HTTP layer maps them to fixed status
// codes and a uniform JSON body, so no ad-hoc status decisions happen in
// business logic.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors.
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database.
	DatabaseError
	// AuthError represents an authentication failure (no/invalid token, bad credentials).
	AuthError
	// UnauthorizedError represents an authorization failure (valid identity, no rights).
	UnauthorizedError
	// NotFoundError represents a missing resource.
	NotFoundError
	// ValidationError represents an input validation failure.
	ValidationError
	// BadRequestError represents a generic malformed request.
	BadRequestError
	// InternalError represents a generic internal server error.
	InternalError
	// ExternalServiceError represents a failure of an external collaborator.
	ExternalServiceError
	// ConflictError represents a conflict, e.g. resource already exists.
	ConflictError
)

// AppError carries the error type, a client-safe message, and the wrapped cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying error to errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode maps the error type to its HTTP status.
// AuthError is 401 (identity not established), UnauthorizedError is 403
// (identity established, rights missing); the two must stay distinct so the
// boundary never conflates "who are you" with "you may not".
func (e *AppError) StatusCode() int {
	switch e.Type {
	case AuthError:
		return http.StatusUnauthorized
	case UnauthorizedError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	case ConflictError:
		return http.StatusConflict
	case ExternalServiceError:
		return http.StatusBadGateway
	case DatabaseError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates an AppError with an explicit type.
func NewAppError(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{Type: errType, Message: message, Err: underlying}
}

// NewDatabaseError creates a DatabaseError.
func NewDatabaseError(message string, underlying error) *AppError {
	return NewAppError(DatabaseError, message, underlying)
}

// NewAuthError creates an AuthError (authentication problem, 401).
func NewAuthError(message string, underlying error) *AppError {
	return NewAppError(AuthError, message, underlying)
}

// NewUnauthorizedError creates an UnauthorizedError (authorization problem, 403).
func NewUnauthorizedError(message string, underlying error) *AppError {
	return NewAppError(UnauthorizedError, message, underlying)
}

// NewNotFoundError creates a NotFoundError.
func NewNotFoundError(message string, underlying error) *AppError {
	return NewAppError(NotFoundError, message, underlying)
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string, underlying error) *AppError {
	return NewAppError(ValidationError, message, underlying)
}

// NewBadRequestError creates a BadRequestError.
func NewBadRequestError(message string, underlying error) *AppError {
	return NewAppError(BadRequestError, message, underlying)
}

// NewInternalError creates an InternalError.
func NewInternalError(message string, underlying error) *AppError {
	return NewAppError(InternalError, message, underlying)
}

// NewExternalServiceError creates an ExternalServiceError.
func NewExternalServiceError(message string, underlying error) *AppError {
	return NewAppError(ExternalServiceError, message, underlying)
}

// NewConflictError creates a ConflictError.
func NewConflictError(message string, underlying error) *AppError {
	return NewAppError(ConflictError, message, underlying)
}

// ErrorResponse is the JSON body sent for every failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"A description of the error"`
}

// ToResponse converts an AppError to its client-facing shape. Only Message is
// exposed; the wrapped cause stays server-side.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// FromError attempts to interpret err as an *AppError.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsAuthError reports whether err is an AuthError.
func IsAuthError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

// IsUnauthorizedError reports whether err is an UnauthorizedError.
func IsUnauthorizedError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == UnauthorizedError
}

// IsConflictError reports whether err is a ConflictError.
func IsConflictError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ConflictError
}
