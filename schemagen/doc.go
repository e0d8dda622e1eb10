// Package schemagen generates OpenAPI component schemas from introspected
// application types.
//
// A [Generator] walks the type graph reachable from a type key through an
// [introspect.Introspector] and registers one object schema per type in an
// [openapi.Document]. Each type is claimed before its properties are
// resolved, so recursive type graphs terminate.
//
// Properties resolve as follows:
//
//  1. More than one type alternative becomes a oneOf with one branch per
//     alternative, in declaration order.
//  2. A single alternative maps directly: collections become arrays (or
//     dictionaries when keyed by string), primitives are canonicalized
//     ("double" to "number", "int" to "integer", "bool" to "boolean"),
//     date-like types become strings with a timestamp example, and
//     anything else becomes a reference.
//  3. Without alternatives the declared type is used.
//
// Summary and description are joined into the schema description. The last
// @example and @enum payloads are decoded as JSON. A malformed payload is
// skipped with a warning unless [WithStrictAnnotations] is set.
//
// Generation is transactional per [Generator.Generate] call. Schemas are
// built privately and published together once the whole graph resolves, so
// a failure leaves the document untouched and concurrent calls never see a
// schema that is still being built.
package schemagen
