// Package introspect describes application types to the schema generator.
//
// The generator depends only on the [Introspector] interface: given a type
// key it returns a [TypeDescription], an ordered list of
// [PropertyDescriptor] values carrying declared type alternatives
// ([TypeRef]), collection shapes, documentation text and raw @example and
// @enum payloads.
//
// Providers:
//
//   - [Registry] holds static descriptions, e.g. from a manifest file.
//   - [Reflector] reflects over Go struct types at runtime, reading json and
//     oas struct tags.
//   - [Source] loads Go packages with golang.org/x/tools/go/packages and
//     reads doc comments, including @example, @enum and @type annotations.
//   - [Chain] combines providers, falling through on unknown keys.
//
// Type expressions such as "?int", "[]example.User", "map[string]int" or
// "Cat|Dog|null" are parsed by [ParseTypeExpr].
package introspect
