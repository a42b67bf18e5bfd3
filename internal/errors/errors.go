// Package errors provides sentinel errors and structured error types for hostctl.
package errors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Sentinel errors for known conditions. Every error hostctl reports to the
// user should wrap one of these so the CLI can pick an exit code.
var (
	// ErrValidation indicates invalid hosting config, CLI config or flags.
	ErrValidation = errors.New("validation error")

	// ErrConnectivity indicates the hosting or auth backend could not be reached.
	ErrConnectivity = errors.New("connectivity error")

	// ErrPermission indicates the caller may not perform the operation.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a site, channel, version or file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTimeout indicates a long-running operation did not finish in time.
	ErrTimeout = errors.New("timed out")
)

// DetailError is a user-facing error with optional location and guidance.
type DetailError struct {
	// Type is the category shown in the first line, e.g. "validation failed".
	Type    string
	Message string

	// Location is the file or site:channel the error refers to.
	Location string
	// Field is the offending field path inside Location.
	Field string
	// Context is extra key-value detail, printed sorted by key.
	Context map[string]string

	Hint  string
	Cause error
}

func (e *DetailError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %s\n", e.Type)

	field := func(k, v string) {
		if v != "" {
			fmt.Fprintf(&b, "  %s: %s\n", k, v)
		}
	}
	field("Location", e.Location)
	field("Field", e.Field)
	for _, k := range slices.Sorted(maps.Keys(e.Context)) {
		field(k, e.Context[k])
	}

	fmt.Fprintf(&b, "\n  %s\n", e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&b, "\nHint: %s\n", e.Hint)
	}
	return b.String()
}

func (e *DetailError) Unwrap() error {
	return e.Cause
}

// NewValidationError reports invalid input at location/field.
func NewValidationError(message, location, field, hint string) error {
	return &DetailError{
		Type:     "validation failed",
		Message:  message,
		Location: location,
		Field:    field,
		Hint:     hint,
		Cause:    ErrValidation,
	}
}

// NewNotFoundError reports a missing site, channel, version or file.
func NewNotFoundError(message, location, hint string) error {
	return &DetailError{
		Type:     "not found",
		Message:  message,
		Location: location,
		Hint:     hint,
		Cause:    ErrNotFound,
	}
}

// Wrap attaches message to a sentinel, e.g. Wrap(ErrPermission, "writing config").
func Wrap(sentinel error, message string) error {
	return fmt.Errorf("%s: %w", message, sentinel)
}
