// Package errs implements the three error kinds from the pipeline's error
// handling design: fatal input errors, per-file parse errors (collected, not
// returned), and semantic lookup gaps (never an error at all, just an unset
// optional field).
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors mapped by MapError for the HTTP transport.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")
)

// FatalInputError aborts the operation: a missing project root, or an
// unknown rule identifier passed to the impact simulation engine.
type FatalInputError struct {
	Input string
	Err   error
}

func (e *FatalInputError) Error() string {
	return fmt.Sprintf("fatal input error on %q: %v", e.Input, e.Err)
}

func (e *FatalInputError) Unwrap() error { return e.Err }

// NewFatalInputError builds a FatalInputError naming the offending input.
func NewFatalInputError(input string, err error) *FatalInputError {
	return &FatalInputError{Input: input, Err: err}
}

// ParseError records one file that failed to parse. It is never returned
// from the pipeline directly; it is collected into SourceSet.Skipped and
// downstream stages behave as if the file were absent.
type ParseError struct {
	FilePath string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.FilePath, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// AppError carries an HTTP status code for the transport layer. It is the
// shape the out-of-scope HTTP collaborator (pkg/httpapi) maps every error
// returned from the core onto.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// MapError maps any error the core can produce to an AppError with an
// appropriate HTTP status code.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var fatal *FatalInputError
	if errors.As(err, &fatal) {
		return NewAppError(http.StatusBadRequest, "invalid input", err)
	}

	if errors.Is(err, ErrInvalidInput) {
		return NewAppError(http.StatusBadRequest, "invalid request", err)
	}
	if errors.Is(err, ErrNotFound) {
		return NewAppError(http.StatusNotFound, "resource not found", err)
	}

	return NewAppError(http.StatusInternalServerError, "internal error", err)
}
