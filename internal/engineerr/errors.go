// Package engineerr defines the tagged error kinds returned by the
// configuration transformation engine.
package engineerr

import (
	"errors"
	"fmt"
)

// Kind tags the category of a failure so callers can branch on it with
// errors.As instead of string matching.
type Kind string

const (
	// NotFound indicates an entity or context path does not resolve in
	// the source or target tree.
	NotFound Kind = "not_found"
	// Conflict indicates the target already exists and the active
	// strategy declined to proceed.
	Conflict Kind = "conflict"
	// InvalidContext indicates an illegal device-type/context combination.
	InvalidContext Kind = "invalid_context"
	// InvalidArgument indicates a missing or malformed required parameter.
	InvalidArgument Kind = "invalid_argument"
	// InvalidXPath indicates the resolver produced or received a
	// malformed XPath.
	InvalidXPath Kind = "invalid_xpath"
	// VersionIncompatible indicates a required-in-target attribute is
	// missing in the source.
	VersionIncompatible Kind = "version_incompatible"
	// ValidationFailed carries the list of validator messages.
	ValidationFailed Kind = "validation_failed"
	// ParseError indicates the input XML could not be parsed or fails
	// structural sanity.
	ParseError Kind = "parse_error"
	// Internal indicates an unexpected condition, such as a detached
	// element with no parent when one was expected.
	Internal Kind = "internal"
)

// Error is the concrete error type returned by the engine. It wraps an
// optional underlying cause and carries structural detail (entity kind,
// name, context) useful to callers building their own diagnostics.
type Error struct {
	Kind    Kind
	Message string
	Entity  string // optional: kind/name being operated on
	Context string // optional: context description
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Entity != "" {
		msg = fmt.Sprintf("%s (entity=%s)", msg, e.Entity)
	}
	if e.Context != "" {
		msg = fmt.Sprintf("%s (context=%s)", msg, e.Context)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same Kind, letting
// callers write errors.Is(err, engineerr.New(engineerr.NotFound, "")).
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// New constructs an *Error with no entity/context detail.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf constructs an *Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an *Error around an existing cause.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// WithEntity returns a copy of e annotated with entity/context detail.
func (e *Error) WithEntity(entity, context string) *Error {
	cp := *e
	cp.Entity = entity
	cp.Context = context
	return &cp
}

// Of reports whether err's engineerr.Kind matches kind.
func Of(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
