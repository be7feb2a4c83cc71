// Package errors provides a lightweight structured error type (DoxyfxError)
// for category-based classification and CLI exit-code mapping.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a doxyfx error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig ErrorCategory = "config"
	CategoryInput  ErrorCategory = "input"

	// Conversion and linking errors
	CategoryParse ErrorCategory = "parse"
	CategoryWrite ErrorCategory = "write"
	CategoryLink  ErrorCategory = "link"

	// Quality-check results
	CategoryLint ErrorCategory = "lint"
	CategoryGate ErrorCategory = "gate"

	// Runtime and infrastructure errors
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
)

// DoxyfxError is a structured error with category, severity, and context
type DoxyfxError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for DoxyfxError
type ContextFields map[string]any

// Error implements the error interface
func (e *DoxyfxError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *DoxyfxError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *DoxyfxError) WithContext(key string, value any) *DoxyfxError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new DoxyfxError
func New(category ErrorCategory, severity ErrorSeverity, message string) *DoxyfxError {
	return &DoxyfxError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new DoxyfxError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *DoxyfxError {
	return &DoxyfxError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	var de *DoxyfxError
	if errors.As(err, &de) {
		return de.Category == category
	}
	return false
}
