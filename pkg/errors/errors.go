package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors returned by repositories
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// HTTPStatuser is implemented by errors that map to an HTTP status code
type HTTPStatuser interface {
	HTTPStatus() int
}

// ValidationError represents one or more rule violations on a request body
type ValidationError struct {
	Details []string
}

// NewValidationError creates a new validation error
func NewValidationError(details ...string) *ValidationError {
	return &ValidationError{Details: details}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Details)
}

// HTTPStatus returns the HTTP status for this error
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// InvalidIDError represents an absent or non-numeric resource identifier
type InvalidIDError struct {
	Raw string
}

// NewInvalidIDError creates a new invalid id error
func NewInvalidIDError(raw string) *InvalidIDError {
	return &InvalidIDError{Raw: raw}
}

// Error implements the error interface
func (e *InvalidIDError) Error() string {
	return fmt.Sprintf("invalid user id: %q", e.Raw)
}

// HTTPStatus returns the HTTP status for this error
func (e *InvalidIDError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       int64
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, id int64) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: id=%d", e.Resource, e.ID)
}

// HTTPStatus returns the HTTP status for this error
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// ConflictError represents a uniqueness violation
type ConflictError struct {
	Field string
	Value string
}

// NewConflictError creates a new conflict error
func NewConflictError(field, value string) *ConflictError {
	return &ConflictError{
		Field: field,
		Value: value,
	}
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Field, e.Value)
}

// HTTPStatus returns the HTTP status for this error
func (e *ConflictError) HTTPStatus() int {
	return http.StatusConflict
}

// StorageError represents a failure in the persistence layer.
// Message is safe to show to clients, Err carries the cause.
type StorageError struct {
	Message string
	Err     error
}

// NewStorageError creates a new storage error
func NewStorageError(message string, err error) *StorageError {
	return &StorageError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Cause returns the text of the underlying error, or the message if there is none
func (e *StorageError) Cause() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// HTTPStatus returns the HTTP status for this error
func (e *StorageError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// StatusOf resolves the HTTP status of err, defaulting to 500
func StatusOf(err error) int {
	var s HTTPStatuser
	if errors.As(err, &s) {
		return s.HTTPStatus()
	}
	return http.StatusInternalServerError
}
