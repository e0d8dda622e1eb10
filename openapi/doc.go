// Package openapi provides the OpenAPI 3.0.3 document model assembled by oasdoc.
//
// A [Document] holds an [Info] object, hand-authored [Path] entries in
// registration order, and a registry of component [Schema] nodes keyed by
// fully qualified type key. Schemas are tagged variants: primitive,
// reference, array, dictionary, oneOf and object.
//
// # Serialization
//
// Documents and schemas render into an ordered yaml.Node tree and from there
// to JSON or YAML. Output is deterministic:
//
//   - paths keep registration order
//   - components.schemas is keyed by short name (the last segment of the type
//     key) and sorted ascending
//   - keys inside every object follow a fixed order per kind
//
// A non-nullable reference renders as a bare $ref. A nullable reference
// uses the oneOf idiom, since OpenAPI 3.0 forbids siblings next to $ref:
//
//	{"oneOf": [{"$ref": "#/components/schemas/User"}, {"nullable": true}], "nullable": true, "description": ""}
//
// # Example
//
//	doc := openapi.NewDocument(openapi.WithInfo(openapi.Info{Title: "Users", Version: "1.0.0"}))
//	err := doc.AddPath("/api/users", openapi.NewPath("").
//	    Get(openapi.NewOperation("List users").AddResponse(200, openapi.Array("example.User"))))
//	data, err := doc.MarshalIndentJSON("", "  ")
package openapi
