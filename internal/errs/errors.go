// Package errs provides the error taxonomy shared across crudkit.
//
// Every layer (frameworks, route registry, adapters, services) returns one of
// the concrete types below or an *errs.Error. Callers branch on the kind with
// the Is* predicates instead of matching on messages.
//
// Usage:
//
//	if errs.IsConfiguration(err) {
//	    // abort the whole request, nothing was written
//	}
//
//	var perr *errs.PersistenceError
//	if errors.As(err, &perr) {
//	    fmt.Println("failed artifact:", perr.Artifact)
//	}
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// ErrKind categorises an error by how a caller is expected to react to it.
type ErrKind int

const (
	ErrKindUnknown       ErrKind = iota
	ErrKindConfiguration         // bad framework, model name or settings; never retried
	ErrKindGeneration            // artifact text construction failed
	ErrKindPersistence           // an artifact could not be written
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindConfiguration:
		return "configuration"
	case ErrKindGeneration:
		return "generation"
	case ErrKindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// kinded is implemented by every error type in this package.
type kinded interface {
	ErrKind() ErrKind
}

// Error is the generic kinded error used by adapters that have no more
// specific type to report.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error { return e.Cause }

// ErrKind reports the error kind.
func (e *Error) ErrKind() ErrKind { return e.Kind }

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// UnsupportedFrameworkError is returned when a framework identifier is outside
// the closed set of supported frameworks.
type UnsupportedFrameworkError struct {
	Framework string
	Supported []string
}

func (e *UnsupportedFrameworkError) Error() string {
	if len(e.Supported) == 0 {
		return fmt.Sprintf("unsupported framework %q", e.Framework)
	}
	return fmt.Sprintf("unsupported framework %q (valid: %s)", e.Framework, strings.Join(e.Supported, ", "))
}

// ErrKind reports ErrKindConfiguration.
func (e *UnsupportedFrameworkError) ErrKind() ErrKind { return ErrKindConfiguration }

// InvalidModelNameError is returned when a model or view name does not match
// the word-characters-and-dashes rule.
type InvalidModelNameError struct {
	Field string // "model" or "view"
	Name  string
}

func (e *InvalidModelNameError) Error() string {
	field := e.Field
	if field == "" {
		field = "model"
	}
	if e.Name == "" {
		return fmt.Sprintf("%s name is required", field)
	}
	return fmt.Sprintf("invalid %s name %q: only word characters and dashes are allowed", field, e.Name)
}

// ErrKind reports ErrKindConfiguration.
func (e *InvalidModelNameError) ErrKind() ErrKind { return ErrKindConfiguration }

// GenerationError reports that the source text of one artifact could not be
// built. Other artifacts of the same batch are unaffected.
type GenerationError struct {
	Artifact string // List, Create, Update, Delete, Main or router
	Model    string
	Cause    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate %s for model %q: %v", e.Artifact, e.Model, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error { return e.Cause }

// ErrKind reports ErrKindGeneration.
func (e *GenerationError) ErrKind() ErrKind { return ErrKindGeneration }

// PersistenceError reports that one artifact could not be written.
type PersistenceError struct {
	Artifact string // component kind, "route table" or "router"
	Path     string
	Cause    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to write %s at %s: %v", e.Artifact, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *PersistenceError) Unwrap() error { return e.Cause }

// ErrKind reports ErrKindPersistence.
func (e *PersistenceError) ErrKind() ErrKind { return ErrKindPersistence }

// KindOf extracts the ErrKind from the first kinded error in the chain.
func KindOf(err error) ErrKind {
	var k kinded
	if errors.As(err, &k) {
		return k.ErrKind()
	}
	return ErrKindUnknown
}

// IsConfiguration reports whether err must abort the request before any write.
func IsConfiguration(err error) bool {
	return KindOf(err) == ErrKindConfiguration
}

// IsGeneration reports whether err is an artifact text construction failure.
func IsGeneration(err error) bool {
	return KindOf(err) == ErrKindGeneration
}

// IsPersistence reports whether err is a write failure.
func IsPersistence(err error) bool {
	return KindOf(err) == ErrKindPersistence
}
