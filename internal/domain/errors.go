// Package domain defines the core types, ports, and errors of the
// datasource query backend.
package domain

import "fmt"

// ValidationError indicates invalid input. It is reported before any
// side effect occurs — a request failing validation never reaches the store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError indicates a referenced resource (e.g. a table) was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// StoreError indicates the underlying store rejected or failed a request.
// It is terminal for the request and carries the store's diagnostic message.
type StoreError struct {
	Message string
	Err     error
}

func (e *StoreError) Error() string { return e.Message }

func (e *StoreError) Unwrap() error { return e.Err }

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrStore wraps a store failure with a formatted message.
func ErrStore(err error, format string, args ...interface{}) *StoreError {
	return &StoreError{Message: fmt.Sprintf(format, args...), Err: err}
}
