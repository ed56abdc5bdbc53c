package errors

import (
	goerrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryInput  Category = "input"
	CategoryFetch  Category = "fetch"
	CategoryPrune  Category = "prune"
	CategorySetup  Category = "setup"
	CategoryConfig Category = "config"
	CategoryCLI    Category = "cli"
)

// ScaffoldError is a structured error with step context, suggestions, and documentation.
type ScaffoldError struct {
	// Code is a unique error identifier (e.g., "E130").
	Code string

	// Category is the error type (fetch, setup, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Step is the name of the setup step that failed, if any.
	Step string

	// ExitCode is the exit status of the failing process.
	// Zero means the process never ran or the error is not process related.
	ExitCode int

	// Output holds the last lines the failing process wrote.
	Output []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ScaffoldError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Step != "" {
		msg += " (step " + e.Step + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ScaffoldError) Unwrap() error {
	return e.Wrapped
}

// WithDetail adds a detailed explanation to the error.
func (e *ScaffoldError) WithDetail(d string) *ScaffoldError {
	e.Detail = d
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ScaffoldError) WithSuggestion(s string) *ScaffoldError {
	e.Suggestion = s
	return e
}

// WithStep records the setup step the error belongs to.
func (e *ScaffoldError) WithStep(step string) *ScaffoldError {
	e.Step = step
	return e
}

// WithExitCode records the exit status of the failing process.
func (e *ScaffoldError) WithExitCode(code int) *ScaffoldError {
	e.ExitCode = code
	return e
}

// WithOutput attaches the captured output tail of the failing process.
func (e *ScaffoldError) WithOutput(lines []string) *ScaffoldError {
	e.Output = lines
	return e
}

// Wrap wraps another error.
func (e *ScaffoldError) Wrap(err error) *ScaffoldError {
	e.Wrapped = err
	return e
}

// New creates a ScaffoldError from a registered error code.
func New(code string) *ScaffoldError {
	template, ok := registry[code]
	if !ok {
		return &ScaffoldError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ScaffoldError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new ScaffoldError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ScaffoldError {
	return &ScaffoldError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ScaffoldError.
// Errors that already are (or wrap) a ScaffoldError are returned unchanged.
func FromError(err error, code string) *ScaffoldError {
	if err == nil {
		return nil
	}
	if se, ok := As(err); ok {
		return se
	}
	return New(code).Wrap(err)
}

// As reports whether err is or wraps a ScaffoldError and returns it.
func As(err error) (*ScaffoldError, bool) {
	var se *ScaffoldError
	if goerrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// CodeOf returns the code of the first ScaffoldError in err's chain, or "".
func CodeOf(err error) string {
	if se, ok := As(err); ok {
		return se.Code
	}
	return ""
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return goerrors.Is(err, target)
}
