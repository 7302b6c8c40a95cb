package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryManifest Category = "manifest"
	CategoryCompile  Category = "compile"
	CategoryStorage  Category = "storage"
	CategoryCLI      Category = "cli"
)

// PackError is a structured error with a code, an explanation and a fix hint.
type PackError struct {
	// Code is a unique error identifier (e.g., "E120").
	Code string

	// Category is the error type (config, manifest, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation, usually naming the file or command involved.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *PackError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *PackError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a PackError with the same code.
func (e *PackError) Is(target error) bool {
	t, ok := target.(*PackError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *PackError) WithSuggestion(s string) *PackError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *PackError) WithDetail(d string) *PackError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *PackError) Wrap(err error) *PackError {
	e.Wrapped = err
	return e
}

// New creates a PackError from a registered error code.
func New(code string) *PackError {
	template, ok := registry[code]
	if !ok {
		return &PackError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &PackError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new PackError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *PackError {
	return &PackError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a PackError.
// Errors that already contain a PackError are returned unchanged.
func FromError(err error, code string) *PackError {
	if err == nil {
		return nil
	}
	var pe *PackError
	if stderrors.As(err, &pe) {
		return pe
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err carries a PackError with the given code.
func HasCode(err error, code string) bool {
	return stderrors.Is(err, &PackError{Code: code})
}
