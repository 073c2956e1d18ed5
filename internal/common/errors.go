// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Pipeline errors.
	ErrSchema          = errors.New("schema cannot be inferred")
	ErrRefreshInFlight = errors.New("refresh already in progress")
	ErrNoData          = errors.New("no data loaded")

	// Ingestion errors.
	ErrFetch       = errors.New("fetch failed")
	ErrEmptyResult = errors.New("no data found in the specified range")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// SchemaError reports a matrix too small to hold a header and data.
type SchemaError struct {
	Rows int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: need at least 2 rows, got %d", ErrSchema, e.Rows)
}

// Unwrap lets errors.Is match ErrSchema.
func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// FetchKind classifies ingestion failures.
type FetchKind string

// Fetch failure kinds.
const (
	FetchNetwork FetchKind = "network"
	FetchAPI     FetchKind = "api"
	FetchEmpty   FetchKind = "empty"
	FetchIO      FetchKind = "io"
)

// FetchError is returned by ingestion sources instead of a partial matrix.
type FetchError struct {
	Err    error
	Source string
	Kind   FetchKind
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s (%s): %v", e.Source, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %s (%s)", e.Source, e.Kind)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is makes every FetchError match ErrFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// NewFetchError wraps err as a FetchError of the given kind.
func NewFetchError(source string, kind FetchKind, err error) error {
	return &FetchError{Source: source, Kind: kind, Err: err}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
