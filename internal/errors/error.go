package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/vango-dev/tagtree/pkg/document"
	"github.com/vango-dev/tagtree/pkg/markup"
)

// Category represents the type of error.
type Category string

const (
	CategoryDocument Category = "document"
	CategoryConfig   Category = "config"
	CategoryPublish  Category = "publish"
	CategoryCLI      Category = "cli"
)

// Location identifies where in a document source the error occurred.
type Location struct {
	File string // Source file, if any
	Path string // Node path inside the document (e.g., "children[0]")
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	switch {
	case l.File != "" && l.Path != "":
		return l.File + ": " + l.Path
	case l.File != "":
		return l.File
	default:
		return l.Path
	}
}

// Error is a structured error with location, suggestion and documentation.
type Error struct {
	// Code is a unique error identifier (e.g., "E100").
	Code string

	// Category is the error type (document, config, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is where in the document the error occurred.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithLocation adds the document location to the error.
func (e *Error) WithLocation(file, path string) *Error {
	e.Location = &Location{File: file, Path: path}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error with the given code.
// Errors that already are *Error are returned unchanged.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}
	return New(code).Wrap(err)
}

// Classify maps library errors to their registered codes. Errors that
// match no known sentinel are wrapped with fallback.
func Classify(err error, fallback string) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e
	}

	var out *Error
	switch {
	case stderrors.Is(err, markup.ErrStructuralConflict):
		out = New("E100").Wrap(err)
		var conflict *markup.ConflictError
		if stderrors.As(err, &conflict) {
			out.WithSuggestion(fmt.Sprintf("Keep a single %q element under this parent", conflict.Kind.Name))
		}
	case stderrors.Is(err, document.ErrUnknownTag):
		out = New("E101").Wrap(err).
			WithSuggestion("Run 'tagtree kinds' to list the supported tags")
	case stderrors.Is(err, document.ErrInvalidNode):
		out = New("E102").Wrap(err)
	case stderrors.Is(err, markup.ErrTextChildren):
		out = New("E103").Wrap(err)
	case stderrors.Is(err, markup.ErrAlreadyAttached):
		out = New("E104").Wrap(err).
			WithSuggestion("Build a new node for each place it appears")
	default:
		return New(fallback).Wrap(err)
	}

	var pathErr *document.PathError
	if stderrors.As(err, &pathErr) {
		out.WithLocation(pathErr.Source, pathErr.Path)
	}
	return out
}
