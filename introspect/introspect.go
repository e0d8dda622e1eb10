package introspect

import (
	"strings"
)

// Introspector supplies the structure and documentation of application types.
//
// Describe returns the properties of typeKey, inherited ones included: the
// ancestor chain is visited from most-base to most-derived, so a derived
// property replaces an inherited property of the same name. Implementations
// return a *oaserrors.TypeNotFoundError when the key cannot be resolved.
type Introspector interface {
	Describe(typeKey string) (*TypeDescription, error)
}

// IntrospectorFunc adapts a function to the Introspector interface.
type IntrospectorFunc func(typeKey string) (*TypeDescription, error)

// Describe implements Introspector.
func (f IntrospectorFunc) Describe(typeKey string) (*TypeDescription, error) {
	return f(typeKey)
}

// TypeDescription is the introspected form of one type.
type TypeDescription struct {
	Key         string               `json:"key"`
	Summary     string               `json:"summary,omitempty"`
	Description string               `json:"description,omitempty"`
	Properties  []PropertyDescriptor `json:"properties"`
}

// Property returns the named property.
func (d *TypeDescription) Property(name string) (PropertyDescriptor, bool) {
	for _, p := range d.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertyDescriptor{}, false
}

// PropertyDescriptor describes one property of a type.
type PropertyDescriptor struct {
	// Name is the identifier as declared; it is converted to snake case on output.
	Name string `json:"name"`

	// Declared is the single declared type, used when Types is empty.
	Declared *TypeRef `json:"declared,omitempty"`

	// Types is the richest available type information. More than one entry
	// is a union.
	Types []TypeRef `json:"types,omitempty"`

	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`

	// Examples and Enums hold raw JSON payloads in occurrence order.
	Examples []string `json:"examples,omitempty"`
	Enums    []string `json:"enums,omitempty"`
}

// Doc returns the summary and description joined by a space and trimmed.
func (p PropertyDescriptor) Doc() string {
	return strings.TrimSpace(p.Summary + " " + p.Description)
}

// TypeRef is one declared type alternative.
type TypeRef struct {
	// Name is a primitive name, a date-like name or a type key. It is empty
	// for collections.
	Name string `json:"name,omitempty"`

	Nullable bool `json:"nullable,omitempty"`

	// Collection is set for list and map shapes.
	Collection *Collection `json:"collection,omitempty"`
}

// Named returns a non-nullable reference to name.
func Named(name string) TypeRef {
	return TypeRef{Name: name}
}

// ListOf returns an int-keyed collection of value.
func ListOf(value TypeRef) TypeRef {
	return TypeRef{Collection: &Collection{Key: "int", Value: &value}}
}

// MapOf returns a collection of value keyed by key.
func MapOf(key string, value TypeRef) TypeRef {
	return TypeRef{Collection: &Collection{Key: key, Value: &value}}
}

// String renders the reference in type expression syntax.
func (t TypeRef) String() string {
	var s string
	switch {
	case t.Collection == nil:
		s = t.Name
	case t.Collection.IsDictionary():
		s = "map[string]" + t.Collection.valueString()
	case t.Collection.Key == "" || t.Collection.Key == "int":
		s = "[]" + t.Collection.valueString()
	default:
		s = "map[" + t.Collection.Key + "]" + t.Collection.valueString()
	}
	if t.Nullable {
		return "?" + s
	}
	return s
}

// Collection is a list or map shape.
type Collection struct {
	// Key is the key type name: "string" for dictionaries, "int" (or any
	// other name) for lists.
	Key string `json:"key"`

	// Value is the element type. Nil means an untyped element.
	Value *TypeRef `json:"value,omitempty"`
}

// IsDictionary reports whether the collection is keyed by string.
func (c *Collection) IsDictionary() bool {
	return c.Key == "string"
}

func (c *Collection) valueString() string {
	if c.Value == nil {
		return "mixed"
	}
	return c.Value.String()
}

// OverlayProperties merges property lists from most-base to most-derived.
// A later property with the same name replaces the earlier one in place.
func OverlayProperties(layers ...[]PropertyDescriptor) []PropertyDescriptor {
	var out []PropertyDescriptor
	index := make(map[string]int)
	for _, layer := range layers {
		for _, p := range layer {
			if i, ok := index[p.Name]; ok {
				out[i] = p
				continue
			}
			index[p.Name] = len(out)
			out = append(out, p)
		}
	}
	return out
}
