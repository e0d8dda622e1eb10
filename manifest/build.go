package manifest

import (
	"fmt"
	"strconv"

	"github.com/erraggy/oasdoc/introspect"
	"github.com/erraggy/oasdoc/oaserrors"
	"github.com/erraggy/oasdoc/openapi"
	"github.com/erraggy/oasdoc/schemagen"
)

// Registry returns an introspector answering for the declared types. Names
// in the types section are used as given.
func (m *Manifest) Registry() *introspect.Registry {
	r := introspect.NewRegistry()
	for _, t := range m.Types {
		props := make([]introspect.PropertyDescriptor, 0, len(t.Properties))
		for _, p := range t.Properties {
			d, err := p.Schema.descriptor(p.Name)
			if err != nil {
				// Parse already rejected invalid type expressions.
				continue
			}
			props = append(props, d)
		}
		r.Register(t.Key, introspect.TypeDescription{Summary: t.Description, Properties: props})
	}
	return r
}

// Build assembles a document from the manifest's info and paths, then
// generates the schemas of the seeds and of every type the paths reference.
func (m *Manifest) Build(gen *schemagen.Generator) (*openapi.Document, error) {
	doc := openapi.NewDocument(openapi.WithInfo(m.Info))

	for _, pe := range m.Paths {
		path := openapi.NewPath(pe.Description)
		for _, oe := range pe.Operations {
			op, err := oe.build(gen, pe.Name)
			if err != nil {
				return nil, err
			}
			path.Set(oe.Method, op)
		}
		if err := doc.AddPath(pe.Name, path); err != nil {
			return nil, err
		}
	}

	if err := gen.GenerateAll(doc, m.Seeds...); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	return doc, nil
}

func (oe OperationEntry) build(gen *schemagen.Generator, pathName string) (*openapi.Operation, error) {
	where := pathName + " " + string(oe.Method)
	op := openapi.NewOperation(oe.Description)

	for _, p := range oe.Parameters {
		op.AddParameter(p)
	}

	if oe.Request != nil {
		s, err := oe.Request.build(gen, where+" request")
		if err != nil {
			return nil, err
		}
		op.SetRequest(s)
	}

	for _, r := range oe.Responses {
		s, err := r.Schema.build(gen, where+" "+strconv.Itoa(r.Code))
		if err != nil {
			return nil, err
		}
		op.AddResponse(r.Code, s)
	}
	return op, nil
}

// build resolves the entry into a schema. where names the entry in errors.
func (s SchemaEntry) build(gen *schemagen.Generator, where string) (*openapi.Schema, error) {
	if len(s.Properties) > 0 {
		obj := openapi.Object().SetDescription(s.Description).SetNullable(s.Nullable)
		for _, p := range s.Properties {
			child, err := p.Schema.build(gen, where+"."+p.Name)
			if err != nil {
				return nil, err
			}
			obj.AddProperty(p.Name, child)
		}
		return obj, nil
	}

	d, err := s.descriptor("")
	if err != nil {
		return nil, &oaserrors.ConfigError{Option: where, Value: s.Type, Cause: err}
	}
	schema, err := gen.PropertySchema(where, d)
	if err != nil {
		return nil, fmt.Errorf("manifest: %s: %w", where, err)
	}
	return schema, nil
}

// descriptor converts the entry into the descriptor form shared with the
// introspection providers.
func (s SchemaEntry) descriptor(name string) (introspect.PropertyDescriptor, error) {
	p := introspect.PropertyDescriptor{Name: name, Summary: s.Description}

	expr := s.Type
	if expr == "" {
		expr = "string"
	}
	types, err := introspect.ParseTypeExpr(expr)
	if err != nil {
		return p, err
	}
	if s.Nullable {
		for i := range types {
			types[i].Nullable = true
		}
	}
	p.Types = types

	if s.Example != "" {
		p.Examples = []string{s.Example}
	}
	if s.Enum != "" {
		p.Enums = []string{s.Enum}
	}
	return p, nil
}
