// Package errors provides a lightweight structured error type (ForgeError)
// for category-based classification of pipeline failures in the CLI and logs.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory represents the category of a pipeline error for classification.
type ErrorCategory string

const (
	// Content parsing and validation errors
	CategoryMetadata  ErrorCategory = "metadata"
	CategoryDirective ErrorCategory = "directive"
	CategoryDocument  ErrorCategory = "document"

	// Index and storage errors
	CategoryCorpus     ErrorCategory = "corpus"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Configuration and infrastructure errors
	CategoryConfig   ErrorCategory = "config"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Aborts the document
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Recovered locally, surfaced to caller
)

// ErrorCode names the specific failure kind so callers can branch on it
// without string matching.
type ErrorCode string

const (
	CodeMalformedDocument     ErrorCode = "malformed_document"
	CodeUnterminatedMetadata  ErrorCode = "unterminated_metadata"
	CodeMissingRequiredField  ErrorCode = "missing_required_field"
	CodeUnparseableField      ErrorCode = "unparseable_field"
	CodeUnterminatedDirective ErrorCode = "unterminated_directive"
	CodeUnknownDirective      ErrorCode = "unknown_directive"
	CodeInvalidDocument       ErrorCode = "invalid_document"
	CodeDuplicateIdentifier   ErrorCode = "duplicate_identifier"
)

// ForgeError is a structured error with category, code, and context.
type ForgeError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Code     ErrorCode     `json:"code,omitempty"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ForgeError.
type ContextFields map[string]any

// Error implements the error interface.
func (e *ForgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling.
func (e *ForgeError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error.
func (e *ForgeError) WithContext(key string, value any) *ForgeError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new ForgeError.
func New(category ErrorCategory, severity ErrorSeverity, message string) *ForgeError {
	return &ForgeError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ForgeError that wraps an existing error.
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ForgeError {
	return &ForgeError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCode reports whether err (or anything it wraps) is a ForgeError carrying code.
func IsCode(err error, code ErrorCode) bool {
	var fe *ForgeError
	for errors.As(err, &fe) {
		if fe.Code == code {
			return true
		}
		err = fe.Cause
		fe = nil
	}
	return false
}

// GetCategory extracts the category from an error, or CategoryInternal if err
// is not a ForgeError.
func GetCategory(err error) ErrorCategory {
	var fe *ForgeError
	if errors.As(err, &fe) {
		return fe.Category
	}
	return CategoryInternal
}

// GetCode extracts the error code from an error, or "" if err is not a ForgeError.
func GetCode(err error) ErrorCode {
	var fe *ForgeError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
