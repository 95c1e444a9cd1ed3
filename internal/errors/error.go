package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// Category represents the type of error.
type Category string

const (
	CategoryRuntime Category = "runtime"
	CategoryRender  Category = "render"
	CategoryConfig  Category = "config"
	CategoryStorage Category = "storage"
	CategoryCLI     Category = "cli"
)

// Severity distinguishes recoverable warnings from hard errors.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns the lower-case name of the severity.
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// ReactorError is a structured error with a code, context fields and hints.
type ReactorError struct {
	// Code is a unique error identifier (e.g., "R001").
	Code string

	// Category is the error type (runtime, render, etc.).
	Category Category

	// Severity is SeverityWarning for recoverable misuse.
	Severity Severity

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Fields carries structured context (target kind, key, selector...).
	Fields map[string]any

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ReactorError) Error() string {
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
func (e *ReactorError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same code.
func (e *ReactorError) Is(target error) bool {
	t, ok := target.(*ReactorError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithField attaches a structured context field.
func (e *ReactorError) WithField(key string, value any) *ReactorError {
	if e.Fields == nil {
		e.Fields = make(map[string]any)
	}
	e.Fields[key] = value
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ReactorError) WithSuggestion(s string) *ReactorError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation.
func (e *ReactorError) WithDetail(d string) *ReactorError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *ReactorError) Wrap(err error) *ReactorError {
	e.Wrapped = err
	return e
}

// LogValue implements slog.LogValuer so diagnostics log as a group.
func (e *ReactorError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("code", e.Code),
		slog.String("category", string(e.Category)),
		slog.String("message", e.Message),
	}
	for _, k := range e.fieldKeys() {
		attrs = append(attrs, slog.Any(k, e.Fields[k]))
	}
	if e.Wrapped != nil {
		attrs = append(attrs, slog.String("cause", e.Wrapped.Error()))
	}
	return slog.GroupValue(attrs...)
}

func (e *ReactorError) fieldKeys() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// New creates a ReactorError from a registered error code.
func New(code string) *ReactorError {
	template, ok := registry[code]
	if !ok {
		return &ReactorError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ReactorError{
		Code:     code,
		Category: template.Category,
		Severity: template.Severity,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new ReactorError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *ReactorError {
	return &ReactorError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a ReactorError.
func FromError(err error, code string) *ReactorError {
	if err == nil {
		return nil
	}
	var re *ReactorError
	if errors.As(err, &re) {
		return re
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err (or anything it wraps) carries code.
func HasCode(err error, code string) bool {
	var re *ReactorError
	for err != nil {
		if errors.As(err, &re) {
			if re.Code == code {
				return true
			}
			err = re.Wrapped
			continue
		}
		return false
	}
	return false
}
