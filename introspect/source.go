package introspect

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"slices"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"

	"github.com/erraggy/oasdoc/oaserrors"
	"github.com/erraggy/oasdoc/openapi"
)

// Source is an Introspector backed by Go source code. Property types come
// from the type checker, documentation from doc comments.
//
// Field mapping follows the same rules as Reflector. In addition, type and
// field doc comments are parsed as doc blocks:
//
//	// User is an account holder.
//	type User struct {
//		// Name is the display name.
//		// @example "Jan Kowalski"
//		Name string `json:"name"`
//
//		// Contact is either an email or a phone record.
//		// @type Email|Phone|null
//		Contact any
//	}
//
// The annotations @example (a JSON value), @enum (a JSON array) and @type
// (a type expression, see ParseTypeExpr) are recognized. For @example and
// @enum the last occurrence wins when a value is generated.
type Source struct {
	mu sync.RWMutex

	// named holds every named struct reachable from the loaded packages.
	named map[string]*types.Named

	typeDocs  map[string]string
	fieldDocs map[token.Pos]string
}

// sourceLoadMode is the package information Source needs.
const sourceLoadMode = packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo

// LoadSource loads the Go packages matching patterns, resolved relative to
// dir, and indexes their struct types. Type keys are "<import path>.<Name>".
func LoadSource(ctx context.Context, dir string, patterns ...string) (*Source, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    sourceLoadMode,
		Dir:     dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("introspect: loading %s: %w", strings.Join(patterns, " "), err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("introspect: no packages match %s", strings.Join(patterns, " "))
	}

	var errs []string
	packages.Visit(pkgs, nil, func(pkg *packages.Package) {
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}
	})
	if len(errs) > 0 {
		return nil, fmt.Errorf("introspect: package errors:\n%s", strings.Join(errs, "\n"))
	}

	s := &Source{
		named:     make(map[string]*types.Named),
		typeDocs:  make(map[string]string),
		fieldDocs: make(map[token.Pos]string),
	}
	for _, pkg := range pkgs {
		s.index(pkg)
	}
	return s, nil
}

// index records the struct types and doc comments of one package.
func (s *Source) index(pkg *packages.Package) {
	if pkg.Types == nil {
		return
	}
	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		tn, ok := scope.Lookup(name).(*types.TypeName)
		if !ok {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		if _, ok := named.Underlying().(*types.Struct); ok {
			s.named[namedKey(named)] = named
		}
	}

	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				doc := ts.Doc
				if doc == nil && len(gen.Specs) == 1 {
					doc = gen.Doc
				}
				key := pkg.PkgPath + "." + ts.Name.Name
				if doc != nil {
					s.typeDocs[key] = doc.Text()
				}
				if st, ok := ts.Type.(*ast.StructType); ok {
					s.indexFields(st)
				}
			}
		}
	}
}

func (s *Source) indexFields(st *ast.StructType) {
	for _, field := range st.Fields.List {
		text := ""
		if field.Doc != nil {
			text = field.Doc.Text()
		}
		if field.Comment != nil {
			text = strings.TrimSpace(text + "\n" + field.Comment.Text())
		}
		if text == "" {
			continue
		}
		for _, name := range field.Names {
			s.fieldDocs[name.Pos()] = text
		}
	}
}

// Keys returns, in ascending order, the keys of the struct types declared in
// the loaded packages and reached through them.
func (s *Source) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.named))
	for k := range s.named {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Describe implements Introspector.
func (s *Source) Describe(typeKey string) (*TypeDescription, error) {
	s.mu.RLock()
	named, ok := s.named[typeKey]
	typeDoc := s.typeDocs[typeKey]
	s.mu.RUnlock()
	if !ok {
		return nil, &oaserrors.TypeNotFoundError{TypeKey: typeKey, Message: "not a struct in the loaded packages"}
	}

	discovered := make(map[string]*types.Named)
	props, err := s.structProperties(named, discovered, map[*types.Named]bool{})
	if err != nil {
		return nil, fmt.Errorf("introspect: %s: %w", typeKey, err)
	}

	s.mu.Lock()
	for k, n := range discovered {
		if _, exists := s.named[k]; !exists {
			s.named[k] = n
		}
	}
	s.mu.Unlock()

	block := ParseDocBlock(typeDoc)
	return &TypeDescription{
		Key:         typeKey,
		Summary:     block.Summary,
		Description: block.Description,
		Properties:  props,
	}, nil
}

func (s *Source) structProperties(named *types.Named, discovered map[string]*types.Named, visiting map[*types.Named]bool) ([]PropertyDescriptor, error) {
	if visiting[named] {
		return nil, fmt.Errorf("embedding cycle through %s", namedKey(named))
	}
	visiting[named] = true
	defer delete(visiting, named)

	st := named.Underlying().(*types.Struct)

	var ancestors [][]PropertyDescriptor
	var own []PropertyDescriptor

	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		tags := readFieldTags(reflect.StructTag(st.Tag(i)))
		if tags.skip {
			continue
		}

		if field.Embedded() && tags.name == "" {
			if embedded := embeddedStruct(field.Type()); embedded != nil {
				inherited, err := s.structProperties(embedded, discovered, visiting)
				if err != nil {
					return nil, err
				}
				ancestors = append(ancestors, inherited)
				continue
			}
		}

		if !field.Exported() {
			continue
		}

		ref := goTypeRef(field.Type(), discovered)
		declared := ref
		p := PropertyDescriptor{
			Name:     field.Name(),
			Declared: &declared,
			Types:    []TypeRef{ref},
		}

		s.mu.RLock()
		doc := s.fieldDocs[field.Pos()]
		s.mu.RUnlock()
		if doc != "" {
			if err := applyDocBlock(&p, ParseDocBlock(doc), pkgPath(named)); err != nil {
				return nil, err
			}
		}
		if err := tags.apply(&p, pkgPath(named)); err != nil {
			return nil, err
		}
		own = append(own, p)
	}

	return OverlayProperties(append(ancestors, own)...), nil
}

// applyDocBlock copies doc comment text and annotations onto p. Unqualified
// type names in @type are resolved against pkg.
func applyDocBlock(p *PropertyDescriptor, block DocBlock, pkg string) error {
	p.Summary = block.Summary
	p.Description = block.Description
	p.Examples = append(p.Examples, block.Values("example")...)
	p.Enums = append(p.Enums, block.Values("enum")...)
	if expr, ok := block.Last("type"); ok {
		alts, err := ParseTypeExpr(expr)
		if err != nil {
			return fmt.Errorf("field %s: @type: %w", p.Name, err)
		}
		for i := range alts {
			qualify(&alts[i], pkg)
		}
		p.Types = alts
	}
	return nil
}

// qualify prefixes bare application type names with pkg.
func qualify(ref *TypeRef, pkg string) {
	if ref.Collection != nil {
		if ref.Collection.Value != nil {
			qualify(ref.Collection.Value, pkg)
		}
		return
	}
	if pkg == "" || openapi.IsBuiltin(ref.Name) || strings.ContainsAny(ref.Name, `./\`) {
		return
	}
	ref.Name = pkg + "." + ref.Name
}

func pkgPath(n *types.Named) string {
	if n.Obj().Pkg() == nil {
		return ""
	}
	return n.Obj().Pkg().Path()
}

func embeddedStruct(t types.Type) *types.Named {
	if ptr, ok := types.Unalias(t).(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := types.Unalias(t).(*types.Named)
	if !ok {
		return nil
	}
	if _, ok := named.Underlying().(*types.Struct); !ok {
		return nil
	}
	return named
}

func namedKey(n *types.Named) string {
	obj := n.Obj()
	if obj.Pkg() == nil {
		return obj.Name()
	}
	return obj.Pkg().Path() + "." + obj.Name()
}

// goTypeRef maps a type-checked Go type to a TypeRef.
func goTypeRef(t types.Type, discovered map[string]*types.Named) TypeRef {
	t = types.Unalias(t)
	nullable := false
	for {
		ptr, ok := t.(*types.Pointer)
		if !ok {
			break
		}
		t = types.Unalias(ptr.Elem())
		nullable = true
	}

	var ref TypeRef
	switch tt := t.(type) {
	case *types.Named:
		key := namedKey(tt)
		switch under := tt.Underlying().(type) {
		case *types.Struct:
			if key != "time.Time" {
				discovered[key] = tt
			}
			ref = Named(key)
		default:
			ref = goTypeRef(under, discovered)
		}

	case *types.Basic:
		ref = Named(basicName(tt))

	case *types.Slice:
		if isByte(tt.Elem()) {
			ref = Named("string")
		} else {
			ref = ListOf(goTypeRef(tt.Elem(), discovered))
		}

	case *types.Array:
		if isByte(tt.Elem()) {
			ref = Named("string")
		} else {
			ref = ListOf(goTypeRef(tt.Elem(), discovered))
		}

	case *types.Map:
		key := "string"
		if b, ok := tt.Key().Underlying().(*types.Basic); ok {
			key = basicName(b)
		}
		ref = MapOf(key, goTypeRef(tt.Elem(), discovered))

	case *types.Struct:
		ref = Named("object")

	default:
		ref = Named("any")
	}

	ref.Nullable = ref.Nullable || nullable
	return ref
}

func isByte(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Kind() == types.Uint8
}

func basicName(b *types.Basic) string {
	info := b.Info()
	switch {
	case info&types.IsBoolean != 0:
		return "bool"
	case info&types.IsInteger != 0:
		return "int"
	case info&types.IsFloat != 0:
		return "float"
	case info&types.IsString != 0:
		return "string"
	default:
		return "any"
	}
}

var _ Introspector = (*Source)(nil)
