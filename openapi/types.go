package openapi

import "github.com/erraggy/oasdoc/internal/naming"

// TypeClass is the classification of a declared type name.
type TypeClass int

const (
	// ClassObject is a named application type emitted as a component schema.
	ClassObject TypeClass = iota
	// ClassPrimitive is a JSON Schema primitive (after canonicalization).
	ClassPrimitive
	// ClassDateLike is a date/time type emitted as a string with a timestamp example.
	ClassDateLike
)

// String returns the class name.
func (c TypeClass) String() string {
	switch c {
	case ClassPrimitive:
		return "primitive"
	case ClassDateLike:
		return "date-like"
	default:
		return "object"
	}
}

// canonicalTypes maps declared primitive names to their OpenAPI type.
var canonicalTypes = map[string]string{
	// integers
	"int": "integer", "integer": "integer", "long": "integer",
	"int8": "integer", "int16": "integer", "int32": "integer", "int64": "integer",
	"uint": "integer", "uint8": "integer", "uint16": "integer", "uint32": "integer", "uint64": "integer",
	"uintptr": "integer", "rune": "integer",

	// numbers
	"float": "number", "double": "number", "number": "number",
	"float32": "number", "float64": "number",

	// booleans
	"bool": "boolean", "boolean": "boolean",

	// strings
	"string": "string", "byte": "string", "binary": "string", "password": "string",
	"date": "string", "dateTime": "string",

	// open shapes
	"object": "object", "any": "object", "mixed": "object", "interface{}": "object",
	"array": "array", "iterable": "array",
}

// dateLikeTypes are the type keys treated as timestamps.
var dateLikeTypes = map[string]bool{
	"time.Time":              true,
	"DateTime":               true,
	"DateTimeInterface":      true,
	"DateTimeImmutable":      true,
	`Carbon\Carbon`:          true,
	`Carbon\CarbonImmutable`: true,
	"datetime":               true,
	"date-time":              true,
}

// Classify reports how a declared type name is emitted.
func Classify(name string) TypeClass {
	if _, ok := canonicalTypes[name]; ok {
		return ClassPrimitive
	}
	if dateLikeTypes[name] {
		return ClassDateLike
	}
	return ClassObject
}

// CanonicalType returns the OpenAPI type for a declared primitive name.
// The second result is false when name is not a recognized primitive.
func CanonicalType(name string) (string, bool) {
	t, ok := canonicalTypes[name]
	return t, ok
}

// IsBuiltin reports whether name is a primitive or a recognized date-like
// type. Builtins never receive a component schema.
func IsBuiltin(name string) bool {
	return Classify(name) != ClassObject
}

// ShortName returns the component name used for a type key: the trailing
// segment after its namespace or path separators.
func ShortName(typeKey string) string {
	return naming.ShortName(typeKey)
}

// RefPrefix is the JSON pointer prefix of component schema references.
const RefPrefix = "#/components/schemas/"

// RefFor returns the $ref value for a type key.
func RefFor(typeKey string) string {
	return RefPrefix + ShortName(typeKey)
}
