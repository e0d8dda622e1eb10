// Package oaserrors provides structured error types for the oasdoc library.
//
// Import path: github.com/erraggy/oasdoc/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors.
//
// # Error Types
//
//   - [DuplicatePathError]: a path name was added to a document twice
//   - [TypeNotFoundError]: an introspection provider could not resolve a type key
//   - [AnnotationError]: an @example or @enum payload failed to decode
//   - [NameCollisionError]: two distinct type keys share a short name
//   - [ConfigError]: invalid configuration, flags, or manifest input
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrDuplicatePath]: Matches any [DuplicatePathError]
//   - [ErrTypeNotFound]: Matches any [TypeNotFoundError]
//   - [ErrAnnotation]: Matches any [AnnotationError]
//   - [ErrNameCollision]: Matches any [NameCollisionError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	if err := doc.AddPath("/api/users", path); errors.Is(err, oaserrors.ErrDuplicatePath) {
//	    // Path already registered
//	}
//
// Extract error details with errors.As():
//
//	var nf *oaserrors.TypeNotFoundError
//	if errors.As(err, &nf) {
//	    fmt.Printf("cannot resolve %s\n", nf.TypeKey)
//	}
//
// # Error Chaining
//
// Error types with a Cause field support chaining via Unwrap(), so the root
// cause stays reachable through the standard error chain.
package oaserrors
