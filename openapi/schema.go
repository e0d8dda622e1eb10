package openapi

import (
	"github.com/erraggy/oasdoc/internal/naming"
)

// Kind identifies the shape of a Schema node.
type Kind int

const (
	// KindPrimitive is a scalar JSON Schema type such as "string" or "integer".
	KindPrimitive Kind = iota
	// KindRef references a component schema by type key.
	KindRef
	// KindArray is a list of a single element schema.
	KindArray
	// KindDictionary is a string-keyed map of a single value schema.
	KindDictionary
	// KindOneOf is a union of alternative schemas.
	KindOneOf
	// KindObject is an object with named properties.
	KindObject
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindRef:
		return "ref"
	case KindArray:
		return "array"
	case KindDictionary:
		return "dictionary"
	case KindOneOf:
		return "oneOf"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Schema is one JSON Schema fragment. Every node has exactly one Kind, fixed
// at construction; the kind decides which of the shape accessors are
// meaningful and how the node serializes.
//
// Schemas are built with the constructors [Primitive], [Ref], [ArrayOf],
// [DictionaryOf], [OneOf] and [Object], then decorated with the chainable
// setters.
type Schema struct {
	kind Kind

	typeName string    // KindPrimitive
	typeKey  string    // KindRef
	element  *Schema   // KindArray, KindDictionary
	branches []*Schema // KindOneOf

	propNames []string // KindObject, insertion order
	props     map[string]*Schema

	description string
	nullable    bool

	example    any
	hasExample bool
	enum       []any
	hasEnum    bool
}

// Primitive returns a scalar schema. Recognized declared names are
// canonicalized, e.g. "int" becomes "integer" and "double" becomes "number".
func Primitive(name string) *Schema {
	if canonical, ok := CanonicalType(name); ok {
		name = canonical
	}
	return &Schema{kind: KindPrimitive, typeName: name}
}

// Ref returns a reference to the component schema of typeKey.
func Ref(typeKey string) *Schema {
	return &Schema{kind: KindRef, typeKey: typeKey}
}

// ArrayOf returns a list schema whose items are element.
func ArrayOf(element *Schema) *Schema {
	return &Schema{kind: KindArray, element: element}
}

// DictionaryOf returns a string-keyed map schema whose values are element.
func DictionaryOf(element *Schema) *Schema {
	return &Schema{kind: KindDictionary, element: element}
}

// Array returns a list of the named element type.
// Builtin names become primitive items, anything else a reference.
func Array(elementType string) *Schema {
	return ArrayOf(Element(elementType))
}

// Dictionary returns a string-keyed map of the named element type.
func Dictionary(elementType string) *Schema {
	return DictionaryOf(Element(elementType))
}

// Element returns the item schema for a named type: a Primitive for builtin
// names (date-like names become "string") and a Ref otherwise.
func Element(typeName string) *Schema {
	switch Classify(typeName) {
	case ClassPrimitive:
		return Primitive(typeName)
	case ClassDateLike:
		return Primitive("string")
	default:
		return Ref(typeName)
	}
}

// OneOf returns a union of the given alternatives, in order.
func OneOf(branches ...*Schema) *Schema {
	return &Schema{kind: KindOneOf, branches: branches}
}

// Object returns an object schema with no properties.
func Object() *Schema {
	return &Schema{kind: KindObject, props: make(map[string]*Schema)}
}

// Kind returns the shape of the node.
func (s *Schema) Kind() Kind { return s.kind }

// TypeName returns the primitive type name, or "" for non-primitive nodes.
func (s *Schema) TypeName() string { return s.typeName }

// TypeKey returns the referenced type key, or "" for non-reference nodes.
func (s *Schema) TypeKey() string { return s.typeKey }

// Element returns the item schema of an array or the value schema of a
// dictionary, or nil for other kinds.
func (s *Schema) Element() *Schema { return s.element }

// Branches returns the alternatives of a oneOf node.
func (s *Schema) Branches() []*Schema { return s.branches }

// Description returns the description text.
func (s *Schema) Description() string { return s.description }

// Nullable reports whether null is an accepted value.
func (s *Schema) Nullable() bool { return s.nullable }

// Example returns the example value and whether one was set.
// A set example may itself be nil (JSON null).
func (s *Schema) Example() (any, bool) { return s.example, s.hasExample }

// Enum returns the enumeration values and whether an enum was set.
func (s *Schema) Enum() ([]any, bool) { return s.enum, s.hasEnum }

// SetDescription sets the description and returns s.
func (s *Schema) SetDescription(description string) *Schema {
	s.description = description
	return s
}

// SetNullable sets the nullable flag and returns s.
func (s *Schema) SetNullable(nullable bool) *Schema {
	s.nullable = nullable
	return s
}

// SetExample sets the example value and returns s.
// The value must be representable as JSON.
func (s *Schema) SetExample(example any) *Schema {
	s.example = example
	s.hasExample = true
	return s
}

// SetEnum sets the enumeration values and returns s.
func (s *Schema) SetEnum(values []any) *Schema {
	s.enum = values
	s.hasEnum = true
	return s
}

// AddProperty adds or replaces a property of an object schema and returns s.
// The name is converted to lower snake case ("createdAt" becomes
// "created_at"). Replacing a property keeps its original position.
// AddProperty does nothing on non-object schemas.
func (s *Schema) AddProperty(name string, property *Schema) *Schema {
	if s.kind != KindObject {
		return s
	}
	if s.props == nil {
		s.props = make(map[string]*Schema)
	}
	name = naming.ToSnakeCase(name)
	if _, exists := s.props[name]; !exists {
		s.propNames = append(s.propNames, name)
	}
	s.props[name] = property
	return s
}

// PropertyNames returns the object's property names in insertion order.
func (s *Schema) PropertyNames() []string {
	return append([]string(nil), s.propNames...)
}

// Property returns the named property of an object schema.
// The name is looked up as emitted (already snake cased).
func (s *Schema) Property(name string) (*Schema, bool) {
	p, ok := s.props[name]
	return p, ok
}

// ChildTypeKeys returns every type key referenced anywhere below s,
// including s itself when it is a reference, in first-seen order without
// duplicates.
func (s *Schema) ChildTypeKeys() []string {
	var keys []string
	seen := make(map[string]bool)
	s.collectTypeKeys(&keys, seen)
	return keys
}

func (s *Schema) collectTypeKeys(keys *[]string, seen map[string]bool) {
	if s == nil {
		return
	}
	switch s.kind {
	case KindRef:
		if !seen[s.typeKey] {
			seen[s.typeKey] = true
			*keys = append(*keys, s.typeKey)
		}
	case KindArray, KindDictionary:
		s.element.collectTypeKeys(keys, seen)
	case KindOneOf:
		for _, b := range s.branches {
			b.collectTypeKeys(keys, seen)
		}
	case KindObject:
		for _, name := range s.propNames {
			s.props[name].collectTypeKeys(keys, seen)
		}
	}
}
