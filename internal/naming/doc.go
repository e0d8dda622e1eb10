// Package naming provides shared identifier conversion utilities for oasdoc packages.
//
// Functions include ToSnakeCase, used to turn introspected property identifiers
// into emitted property names, and ShortName, which derives the display name of
// a fully qualified type key.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
