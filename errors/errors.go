// Package errors provides error types and handling for blob existence checks.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a blobcheck operation error with context about the
// operation that failed. It wraps the underlying SDK or I/O error with
// additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "probe", "check", "export")
	Op string

	// Container is the storage container name (if applicable)
	Container string

	// Key is the object key (if applicable)
	Key string

	// Err is the underlying error from the SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Container != "" && e.Key != "" {
		return fmt.Sprintf("blobcheck.%s %s/%s: %v", e.Op, e.Container, e.Key, e.Err)
	}
	if e.Container != "" {
		return fmt.Sprintf("blobcheck.%s container %s: %v", e.Op, e.Container, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("blobcheck.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("blobcheck.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithContainer adds container context to an existing error.
func (e *Error) WithContainer(container string) *Error {
	e.Container = container
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewContainerError creates a new Error with container context.
func NewContainerError(op, container string, err error) *Error {
	return &Error{
		Op:        op,
		Container: container,
		Err:       err,
	}
}

// NewObjectError creates a new Error with container and key context.
func NewObjectError(op, container, key string, err error) *Error {
	return &Error{
		Op:        op,
		Container: container,
		Key:       key,
		Err:       err,
	}
}

// Sentinel errors for common blobcheck failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("blobcheck: invalid input")

	// ErrMissingFilenameColumn indicates the input file has no FILENAME column
	ErrMissingFilenameColumn = errors.New("blobcheck: input is missing the FILENAME column")

	// ErrInvalidConnectionString indicates the connection string could not be parsed
	ErrInvalidConnectionString = errors.New("blobcheck: invalid connection string")

	// ErrInvalidExportFormat indicates an unsupported export format was requested
	ErrInvalidExportFormat = errors.New("blobcheck: invalid export format")

	// ErrAccessDenied indicates that access to the container was denied
	ErrAccessDenied = errors.New("blobcheck: access denied")

	// ErrContainerNotFound indicates that the requested container does not exist
	ErrContainerNotFound = errors.New("blobcheck: container not found")
)

// IsInvalidInput checks if an error indicates invalid input.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMissingFilenameColumn checks if an error indicates a missing FILENAME column.
func IsMissingFilenameColumn(err error) bool {
	return errors.Is(err, ErrMissingFilenameColumn)
}

// IsInvalidConnectionString checks if an error indicates an unparseable connection string.
func IsInvalidConnectionString(err error) bool {
	return errors.Is(err, ErrInvalidConnectionString)
}

// IsAccessDenied checks if an error indicates access was denied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}
