package schemagen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/erraggy/oasdoc/introspect"
	"github.com/erraggy/oasdoc/oaserrors"
	"github.com/erraggy/oasdoc/openapi"
)

// Generator builds component schemas from introspected types and registers
// them in a document. A Generator holds no per-document state and may be
// shared.
type Generator struct {
	introspector introspect.Introspector
	logger       Logger
	now          func() time.Time
	dateFormat   string
	strict       bool
}

// New returns a Generator reading types from in.
func New(in introspect.Introspector, opts ...Option) *Generator {
	g := &Generator{
		introspector: in,
		logger:       NopLogger{},
		now:          time.Now,
		dateFormat:   DefaultDateFormat,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate registers the schema of typeKey and of every type it reaches.
//
// It does nothing for builtin names and for keys the document already has.
// A type is claimed before its properties are resolved, so self- and
// mutually-referential types terminate.
//
// Schemas are built privately and published to the document in one step
// once every reachable type has resolved. On failure nothing is published
// and the error is returned. Concurrent calls on the same document are
// safe.
func (g *Generator) Generate(doc *openapi.Document, typeKey string) error {
	run := &generation{
		Generator: g,
		doc:       doc,
		log:       g.logger.With("root", typeKey),
		built:     make(map[string]*openapi.Schema),
		shorts:    make(map[string]string),
	}
	if err := run.generate(typeKey); err != nil {
		if len(run.built) > 0 {
			run.log.Debug("discarded schemas", "count", len(run.built))
		}
		return err
	}
	return run.publish()
}

// GenerateAll generates each seed and then every type referenced by the
// document's paths. It stops at the first failure; schemas registered by
// earlier successful seeds are kept.
func (g *Generator) GenerateAll(doc *openapi.Document, seeds ...string) error {
	keys := append(append([]string(nil), seeds...), doc.ReferencedTypeKeys()...)
	before := len(doc.SchemaKeys())
	for _, key := range keys {
		if err := g.Generate(doc, key); err != nil {
			return err
		}
	}
	g.logger.Info("generated schemas",
		"seeds", len(seeds),
		"referenced", len(keys)-len(seeds),
		"registered", len(doc.SchemaKeys())-before)
	return nil
}

// generation is the state of one top-level Generate call.
type generation struct {
	*Generator
	doc *openapi.Document
	log Logger

	// built holds the schemas of this call until they are published.
	built  map[string]*openapi.Schema
	shorts map[string]string
}

func (r *generation) generate(typeKey string) error {
	if typeKey == "" || openapi.IsBuiltin(typeKey) || r.doc.HasSchema(typeKey) {
		return nil
	}
	if _, ok := r.built[typeKey]; ok {
		return nil
	}

	short := openapi.ShortName(typeKey)
	if owner, ok := r.doc.ShortNameOwner(short); ok && owner != typeKey {
		return &oaserrors.NameCollisionError{ShortName: short, Existing: owner, Incoming: typeKey}
	}
	if owner, ok := r.shorts[short]; ok && owner != typeKey {
		return &oaserrors.NameCollisionError{ShortName: short, Existing: owner, Incoming: typeKey}
	}

	schema := openapi.Object()
	r.built[typeKey] = schema
	r.shorts[short] = typeKey

	desc, err := r.introspector.Describe(typeKey)
	if err != nil {
		return fmt.Errorf("schemagen: describing %s: %w", typeKey, err)
	}

	for _, p := range desc.Properties {
		ps, err := r.propertySchema(typeKey, p)
		if err != nil {
			return err
		}
		schema.AddProperty(p.Name, ps)
	}

	for _, child := range schema.ChildTypeKeys() {
		if err := r.generate(child); err != nil {
			return err
		}
	}
	return nil
}

// publish registers the built schemas. Keys another call published in the
// meantime keep that call's schema.
func (r *generation) publish() error {
	added, err := r.doc.AddSchemas(r.built)
	if err != nil {
		return err
	}
	for _, key := range added {
		r.log.Debug("registered schema", "type", key, "short_name", openapi.ShortName(key))
	}
	if skipped := len(r.built) - len(added); skipped > 0 {
		r.log.Debug("schema already registered", "count", skipped)
	}
	return nil
}

// PropertySchema resolves a single property descriptor of owner into a
// schema, documentation included. It does not register referenced types.
func (g *Generator) PropertySchema(owner string, p introspect.PropertyDescriptor) (*openapi.Schema, error) {
	return g.propertySchema(owner, p)
}

func (g *Generator) propertySchema(owner string, p introspect.PropertyDescriptor) (*openapi.Schema, error) {
	var s *openapi.Schema
	switch {
	case len(p.Types) > 1:
		branches := make([]*openapi.Schema, 0, len(p.Types))
		nullable := false
		for _, t := range p.Types {
			branches = append(branches, g.SchemaFor(t))
			nullable = nullable || t.Nullable
		}
		s = openapi.OneOf(branches...).SetNullable(nullable)
	case len(p.Types) == 1:
		s = g.SchemaFor(p.Types[0])
	case p.Declared != nil:
		s = g.SchemaFor(*p.Declared)
	default:
		s = openapi.Primitive("string")
	}

	s.SetDescription(p.Doc())

	if n := len(p.Examples); n > 0 {
		raw := p.Examples[n-1]
		v, err := decodePayload(raw)
		if err != nil {
			if err := g.annotationFailure(owner, p.Name, "example", raw, err); err != nil {
				return nil, err
			}
		} else {
			s.SetExample(v)
		}
	}

	if n := len(p.Enums); n > 0 {
		raw := p.Enums[n-1]
		v, err := decodePayload(raw)
		values, isList := v.([]any)
		if err == nil && !isList {
			err = fmt.Errorf("enum payload is %T, want a JSON array", v)
		}
		if err != nil {
			if err := g.annotationFailure(owner, p.Name, "enum", raw, err); err != nil {
				return nil, err
			}
		} else {
			s.SetEnum(values)
		}
	}

	return s, nil
}

// annotationFailure applies the malformed annotation policy: nil means skip.
func (g *Generator) annotationFailure(owner, property, tag, payload string, cause error) error {
	if g.strict {
		return &oaserrors.AnnotationError{TypeKey: owner, Property: property, Tag: tag, Payload: payload, Cause: cause}
	}
	g.logger.Warn("skipping malformed annotation", "type", owner, "property", property, "tag", tag, "error", cause)
	return nil
}

// SchemaFor maps one type alternative to a schema:
//   - collections become arrays, or dictionaries when keyed by string
//   - primitive names become canonical primitives
//   - date-like names become strings with a current timestamp example
//   - anything else is a reference to the named type
//
// The alternative's nullability is kept.
func (g *Generator) SchemaFor(t introspect.TypeRef) *openapi.Schema {
	if c := t.Collection; c != nil {
		elem := openapi.Primitive("object")
		if c.Value != nil {
			elem = g.SchemaFor(*c.Value)
		}
		if c.IsDictionary() {
			return openapi.DictionaryOf(elem).SetNullable(t.Nullable)
		}
		return openapi.ArrayOf(elem).SetNullable(t.Nullable)
	}

	if t.Name == "" {
		return openapi.Primitive("string").SetNullable(t.Nullable)
	}

	switch openapi.Classify(t.Name) {
	case openapi.ClassPrimitive:
		return openapi.Primitive(t.Name).SetNullable(t.Nullable)
	case openapi.ClassDateLike:
		return openapi.Primitive("string").
			SetNullable(t.Nullable).
			SetExample(g.now().Format(g.dateFormat))
	default:
		return openapi.Ref(t.Name).SetNullable(t.Nullable)
	}
}

// decodePayload decodes a single JSON value, keeping numbers exact.
func decodePayload(raw string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return v, nil
}
