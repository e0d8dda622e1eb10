package introspect

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/erraggy/oasdoc/oaserrors"
)

var timeType = reflect.TypeOf(time.Time{})

// TypeKey returns the key of a named Go type: its import path and name
// joined by a dot, e.g. "github.com/acme/api/models.User". Pointers are
// dereferenced. Unnamed types return "".
func TypeKey(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return ""
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}

// Reflector is an Introspector backed by runtime reflection over Go
// struct types.
//
// Fields map to properties as follows:
//   - unexported fields and fields tagged json:"-" or oas:"-" are skipped
//   - the json tag name, if any, replaces the field name
//   - embedded structs are ancestors: their properties come first and a
//     field of the same name in the outer struct replaces them
//   - pointers are nullable
//   - slices and arrays are int-keyed collections, maps are keyed by their
//     key kind, []byte is a string
//   - time.Time is date-like
//
// The oas tag carries documentation: description=..., example=...,
// enum=a|b, type=<type expression> and nullable.
//
// Struct types reached through fields are registered automatically, so
// registering the root types is enough. Reflector is safe for concurrent
// use.
type Reflector struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
	docs  map[string]string
}

// NewReflector returns a Reflector with the given values' types registered.
// It panics if a value is not a struct or pointer to struct; use Register to
// handle that case as an error.
func NewReflector(values ...any) *Reflector {
	r := &Reflector{types: make(map[string]reflect.Type), docs: make(map[string]string)}
	if err := r.Register(values...); err != nil {
		panic(err)
	}
	return r
}

// Register adds the types of the given values, which must be named structs
// or pointers to named structs. It returns the first invalid value as an
// error and registers nothing in that case.
func (r *Reflector) Register(values ...any) error {
	types := make([]reflect.Type, 0, len(values))
	for _, v := range values {
		if v == nil {
			return fmt.Errorf("introspect: cannot register nil")
		}
		t := reflect.TypeOf(v)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		if t.Kind() != reflect.Struct || t.Name() == "" {
			return fmt.Errorf("introspect: cannot register %s: not a named struct", t)
		}
		types = append(types, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range types {
		r.types[TypeKey(t)] = t
	}
	return nil
}

// Document sets the summary of a registered type.
func (r *Reflector) Document(typeKey, summary string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[typeKey] = summary
}

// Describe implements Introspector.
func (r *Reflector) Describe(typeKey string) (*TypeDescription, error) {
	r.mu.RLock()
	t, ok := r.types[typeKey]
	summary := r.docs[typeKey]
	r.mu.RUnlock()
	if !ok {
		return nil, &oaserrors.TypeNotFoundError{TypeKey: typeKey, Message: "not a registered Go type"}
	}

	discovered := make(map[string]reflect.Type)
	props, err := r.structProperties(t, discovered, map[reflect.Type]bool{})
	if err != nil {
		return nil, fmt.Errorf("introspect: %s: %w", typeKey, err)
	}

	r.mu.Lock()
	for k, dt := range discovered {
		if _, exists := r.types[k]; !exists {
			r.types[k] = dt
		}
	}
	r.mu.Unlock()

	return &TypeDescription{Key: typeKey, Summary: summary, Properties: props}, nil
}

// structProperties collects the properties of t, embedded ancestors first.
func (r *Reflector) structProperties(t reflect.Type, discovered map[string]reflect.Type, visiting map[reflect.Type]bool) ([]PropertyDescriptor, error) {
	if visiting[t] {
		return nil, fmt.Errorf("embedding cycle through %s", t)
	}
	visiting[t] = true
	defer delete(visiting, t)

	var ancestors [][]PropertyDescriptor
	var own []PropertyDescriptor

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tags := readFieldTags(field.Tag)
		if tags.skip {
			continue
		}

		if field.Anonymous && tags.name == "" {
			et := field.Type
			for et.Kind() == reflect.Pointer {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				inherited, err := r.structProperties(et, discovered, visiting)
				if err != nil {
					return nil, err
				}
				ancestors = append(ancestors, inherited)
				continue
			}
		}

		if !field.IsExported() {
			continue
		}

		ref := r.typeRef(field.Type, discovered)
		declared := ref
		p := PropertyDescriptor{
			Name:     field.Name,
			Declared: &declared,
			Types:    []TypeRef{ref},
		}
		if err := tags.apply(&p, t.PkgPath()); err != nil {
			return nil, err
		}
		own = append(own, p)
	}

	return OverlayProperties(append(ancestors, own)...), nil
}

// typeRef maps a Go type to a TypeRef, recording named structs it reaches.
func (r *Reflector) typeRef(t reflect.Type, discovered map[string]reflect.Type) TypeRef {
	nullable := false
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
		nullable = true
	}

	var ref TypeRef
	switch {
	case t == timeType:
		ref = Named("time.Time")

	case t.Kind() == reflect.Struct && t.Name() != "":
		key := TypeKey(t)
		discovered[key] = t
		ref = Named(key)

	case t.Kind() == reflect.Struct:
		ref = Named("object")

	case (t.Kind() == reflect.Slice || t.Kind() == reflect.Array) && t.Elem().Kind() == reflect.Uint8:
		ref = Named("string")

	case t.Kind() == reflect.Slice || t.Kind() == reflect.Array:
		ref = ListOf(r.typeRef(t.Elem(), discovered))

	case t.Kind() == reflect.Map:
		ref = MapOf(kindName(t.Key().Kind()), r.typeRef(t.Elem(), discovered))

	default:
		ref = Named(kindName(t.Kind()))
	}

	ref.Nullable = nullable
	return ref
}

// kindName returns the primitive type name of a basic kind.
func kindName(k reflect.Kind) string {
	switch k {
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return "int"
	case reflect.Float32, reflect.Float64:
		return "float"
	case reflect.String:
		return "string"
	default:
		return "any"
	}
}

var _ Introspector = (*Reflector)(nil)
