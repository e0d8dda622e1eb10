package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrDuplicatePath indicates a path was added to a document twice.
	ErrDuplicatePath = errors.New("duplicate path")

	// ErrTypeNotFound indicates a type key could not be resolved.
	ErrTypeNotFound = errors.New("type not found")

	// ErrAnnotation indicates a malformed documentation annotation payload.
	ErrAnnotation = errors.New("malformed annotation")

	// ErrNameCollision indicates two type keys map to the same short name.
	ErrNameCollision = errors.New("schema name collision")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// DuplicatePathError is returned when a path name (after trimming) already
// exists in the document.
type DuplicatePathError struct {
	// Path is the trimmed path name that collided
	Path string
}

// Error returns a human-readable error message.
func (e *DuplicatePathError) Error() string {
	return fmt.Sprintf("path %s already exists", e.Path)
}

// Is reports whether target matches this error type.
func (e *DuplicatePathError) Is(target error) bool {
	return target == ErrDuplicatePath
}

// TypeNotFoundError is returned by introspection providers when a type key
// cannot be resolved.
type TypeNotFoundError struct {
	// TypeKey is the fully qualified type key that was requested
	TypeKey string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *TypeNotFoundError) Error() string {
	msg := "type not found"
	if e.TypeKey != "" {
		msg += ": " + e.TypeKey
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *TypeNotFoundError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *TypeNotFoundError) Is(target error) bool {
	return target == ErrTypeNotFound
}

// AnnotationError represents an @example or @enum payload that failed to
// decode as JSON.
type AnnotationError struct {
	// TypeKey is the type owning the property
	TypeKey string
	// Property is the property whose documentation carries the annotation
	Property string
	// Tag is the annotation name without the leading "@"
	Tag string
	// Payload is the raw annotation text
	Payload string
	// Cause is the underlying decode error
	Cause error
}

// Error returns a human-readable error message.
func (e *AnnotationError) Error() string {
	msg := "malformed annotation"
	if e.Tag != "" {
		msg += " @" + e.Tag
	}
	if e.TypeKey != "" || e.Property != "" {
		msg += " on " + e.TypeKey
		if e.Property != "" {
			msg += "." + e.Property
		}
	}
	if e.Payload != "" {
		msg += fmt.Sprintf(" (payload %q)", e.Payload)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *AnnotationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *AnnotationError) Is(target error) bool {
	return target == ErrAnnotation
}

// NameCollisionError represents two distinct type keys that would both be
// emitted under the same components.schemas name.
type NameCollisionError struct {
	// ShortName is the shared trailing segment
	ShortName string
	// Existing is the type key registered first
	Existing string
	// Incoming is the type key that collided
	Incoming string
}

// Error returns a human-readable error message.
func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("schema name collision: %s and %s both map to %q", e.Existing, e.Incoming, e.ShortName)
}

// Is reports whether target matches this error type.
func (e *NameCollisionError) Is(target error) bool {
	return target == ErrNameCollision
}

// ConfigError represents an invalid configuration option or manifest entry.
type ConfigError struct {
	// Option is the name of the configuration option or manifest field
	Option string
	// Value is the invalid value (may be nil)
	Value any
	// Message describes why the configuration is invalid
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
