// Package errors provides the structured error type used across argos.
package errors

import (
	"fmt"
)

// ArgosError is the structured error type for argos.
// It carries the error code, category, and severity alongside the cause so
// the orchestrator can decide whether to skip a topic or abort the run.
type ArgosError struct {
	// Code is the unique error code (e.g., "ERR_401_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Composition, IO, ...).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *ArgosError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ArgosError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with ArgosError.
func (e *ArgosError) Is(target error) bool {
	if t, ok := target.(*ArgosError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *ArgosError) WithDetail(key, value string) *ArgosError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new ArgosError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *ArgosError {
	return &ArgosError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an ArgosError from an existing error.
// The error's message becomes the ArgosError message.
func Wrap(code string, err error) *ArgosError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *ArgosError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// CompositionError creates a query-composition error.
func CompositionError(message string, cause error) *ArgosError {
	return New(ErrCodeComposition, message, cause)
}

// LexicalError creates a lexical-resource (synonym database) error.
// Lexical errors are warnings: expansion degrades to no synonyms.
func LexicalError(message string, cause error) *ArgosError {
	return New(ErrCodeLexicalResource, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *ArgosError {
	return New(ErrCodeFileNotFound, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *ArgosError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
// Fatal errors should abort the current run.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if ae, ok := err.(*ArgosError); ok {
		return ae.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from an ArgosError.
// Returns empty string if not an ArgosError.
func GetCode(err error) string {
	if ae, ok := err.(*ArgosError); ok {
		return ae.Code
	}
	return ""
}

// GetCategory extracts the category from an ArgosError.
// Returns empty string if not an ArgosError.
func GetCategory(err error) Category {
	if ae, ok := err.(*ArgosError); ok {
		return ae.Category
	}
	return ""
}
