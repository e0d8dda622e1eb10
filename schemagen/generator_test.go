package schemagen

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasdoc/introspect"
	"github.com/erraggy/oasdoc/oaserrors"
	"github.com/erraggy/oasdoc/openapi"
)

// prop builds a descriptor from a type expression.
func prop(t *testing.T, name, expr string) introspect.PropertyDescriptor {
	t.Helper()
	types, err := introspect.ParseTypeExpr(expr)
	require.NoError(t, err)
	return introspect.PropertyDescriptor{Name: name, Types: types}
}

func registry(types map[string][]introspect.PropertyDescriptor) *introspect.Registry {
	r := introspect.NewRegistry()
	for key, props := range types {
		r.Register(key, introspect.TypeDescription{Properties: props})
	}
	return r
}

func schemaJSON(t *testing.T, doc *openapi.Document, key string) string {
	t.Helper()
	s, ok := doc.Schema(key)
	require.True(t, ok, "schema %s not registered", key)
	data, err := s.MarshalJSON()
	require.NoError(t, err)
	return string(data)
}

func propertyJSON(t *testing.T, doc *openapi.Document, key, property string) string {
	t.Helper()
	s, ok := doc.Schema(key)
	require.True(t, ok, "schema %s not registered", key)
	p, ok := s.Property(property)
	require.True(t, ok, "property %s not found", property)
	data, err := p.MarshalJSON()
	require.NoError(t, err)
	return string(data)
}

// recordingLogger captures warnings.
type recordingLogger struct {
	NopLogger
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Warn(msg string, attrs ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, fmt.Sprint(append([]any{msg}, attrs...)...))
}

func (l *recordingLogger) With(...any) Logger { return l }

func TestGenerateEndToEnd(t *testing.T) {
	users := introspect.NewRegistry()
	users.Register("example.User", introspect.TypeDescription{Properties: []introspect.PropertyDescriptor{
		{Name: "id", Types: []introspect.TypeRef{introspect.Named("int")}},
		{Name: "name", Types: []introspect.TypeRef{introspect.Named("string")}, Summary: "Full name", Examples: []string{`"Jan Kowalski"`}},
		{Name: "email", Types: []introspect.TypeRef{introspect.Named("string")}},
	}})

	doc := openapi.NewDocument()
	require.NoError(t, doc.AddPath("/api/users", openapi.NewPath("").
		Get(openapi.NewOperation("Retrieve a list of users").AddResponse(200, openapi.Array("example.User")))))

	gen := New(users)
	require.NoError(t, gen.GenerateAll(doc))

	data, err := doc.MarshalJSON()
	require.NoError(t, err)
	s := string(data)

	assert.Contains(t, s, `"components":{"schemas":{"User":{"type":"object","properties":{`+
		`"id":{"type":"integer","nullable":false,"description":""},`+
		`"name":{"type":"string","nullable":false,"description":"Full name","example":"Jan Kowalski"},`+
		`"email":{"type":"string","nullable":false,"description":""}}}}}`)
	assert.Contains(t, s, `"responses":{"200":{"content":{"application/json":{"schema":{"type":"array","items":{"$ref":"#/components/schemas/User"}}}},"description":""}}`)

	t.Run("duplicate path leaves document unchanged", func(t *testing.T) {
		err := doc.AddPath("/api/users", openapi.NewPath("again"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrDuplicatePath))
		after, err := doc.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, data, after)
	})
}

func TestGenerateIdempotent(t *testing.T) {
	r := registry(map[string][]introspect.PropertyDescriptor{
		"a.Order": {prop(t, "customer", "a.Customer"), prop(t, "lines", "[]a.Line")},
		"a.Customer": {prop(t, "name", "string")},
		"a.Line":     {prop(t, "sku", "string"), prop(t, "qty", "int")},
	})
	gen := New(r)

	once := openapi.NewDocument()
	require.NoError(t, gen.Generate(once, "a.Order"))

	twice := openapi.NewDocument()
	require.NoError(t, gen.Generate(twice, "a.Order"))
	require.NoError(t, gen.Generate(twice, "a.Order"))

	a, err := once.MarshalJSON()
	require.NoError(t, err)
	b, err := twice.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, []string{"a.Customer", "a.Line", "a.Order"}, twice.SchemaKeys())
}

func TestGenerateCycles(t *testing.T) {
	t.Run("self reference", func(t *testing.T) {
		r := registry(map[string][]introspect.PropertyDescriptor{
			"a.Node": {prop(t, "parent", "a.Node"), prop(t, "children", "[]a.Node")},
		})
		doc := openapi.NewDocument()
		require.NoError(t, New(r).Generate(doc, "a.Node"))

		assert.Equal(t, []string{"a.Node"}, doc.SchemaKeys())
		assert.Equal(t, `{"$ref":"#/components/schemas/Node"}`, propertyJSON(t, doc, "a.Node", "parent"))
		assert.Equal(t, `{"type":"array","items":{"$ref":"#/components/schemas/Node"}}`, propertyJSON(t, doc, "a.Node", "children"))
	})

	t.Run("mutual reference", func(t *testing.T) {
		r := registry(map[string][]introspect.PropertyDescriptor{
			"a.User": {prop(t, "pet", "?a.Pet")},
			"a.Pet":  {prop(t, "owner", "a.User")},
		})
		doc := openapi.NewDocument()
		require.NoError(t, New(r).Generate(doc, "a.User"))
		assert.Equal(t, []string{"a.Pet", "a.User"}, doc.SchemaKeys())
	})
}

func TestGeneratePropertyResolution(t *testing.T) {
	r := registry(map[string][]introspect.PropertyDescriptor{
		"a.Holder": {
			prop(t, "pet", "a.Cat|a.Dog"),
			prop(t, "maybePet", "a.Cat|a.Dog|null"),
			prop(t, "scalarOrRef", "string|a.Cat"),
			prop(t, "owner", "?a.Owner"),
			{Name: "ownerDoc", Types: []introspect.TypeRef{{Name: "a.Owner", Nullable: true}}, Summary: "Owner", Description: "of the pet"},
			prop(t, "counts", "map[string]int"),
			prop(t, "cats", "list<a.Cat>"),
			prop(t, "legacy", "array<int,string>"),
			prop(t, "price", "double"),
			prop(t, "flag", "bool"),
			prop(t, "grid", "int[][]"),
			prop(t, "blob", "mixed[]"),
			{Name: "declaredOnly", Declared: &introspect.TypeRef{Name: "a.Cat", Nullable: true}},
			{Name: "nothing"},
		},
		"a.Cat":   {},
		"a.Dog":   {},
		"a.Owner": {},
	})
	doc := openapi.NewDocument()
	require.NoError(t, New(r).Generate(doc, "a.Holder"))

	tests := []struct {
		property string
		want     string
	}{
		{"pet", `{"oneOf":[{"$ref":"#/components/schemas/Cat"},{"$ref":"#/components/schemas/Dog"}]}`},
		{"maybe_pet", `{"oneOf":[{"$ref":"#/components/schemas/Cat"},{"$ref":"#/components/schemas/Dog"}],"nullable":true}`},
		{"scalar_or_ref", `{"oneOf":[{"type":"string","nullable":false,"description":""},{"$ref":"#/components/schemas/Cat"}]}`},
		{"owner", `{"oneOf":[{"$ref":"#/components/schemas/Owner"},{"nullable":true}],"nullable":true,"description":""}`},
		{"owner_doc", `{"oneOf":[{"$ref":"#/components/schemas/Owner"},{"nullable":true}],"nullable":true,"description":"Owner of the pet"}`},
		{"counts", `{"type":"object","additionalProperties":{"type":"integer"}}`},
		{"cats", `{"type":"array","items":{"$ref":"#/components/schemas/Cat"}}`},
		{"legacy", `{"type":"array","items":{"type":"string"}}`},
		{"price", `{"type":"number","nullable":false,"description":""}`},
		{"flag", `{"type":"boolean","nullable":false,"description":""}`},
		{"grid", `{"type":"array","items":{"type":"array","items":{"type":"integer"}}}`},
		{"blob", `{"type":"array","items":{"type":"object"}}`},
		{"declared_only", `{"oneOf":[{"$ref":"#/components/schemas/Cat"},{"nullable":true}],"nullable":true,"description":""}`},
		{"nothing", `{"type":"string","nullable":false,"description":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.property, func(t *testing.T) {
			assert.Equal(t, tt.want, propertyJSON(t, doc, "a.Holder", tt.property))
		})
	}

	assert.Equal(t, []string{"a.Cat", "a.Dog", "a.Holder", "a.Owner"}, doc.SchemaKeys())
}

func TestGenerateDateLike(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := registry(map[string][]introspect.PropertyDescriptor{
		"a.Event": {
			prop(t, "at", "time.Time"),
			prop(t, "until", "?DateTimeImmutable"),
			{Name: "pinned", Types: []introspect.TypeRef{introspect.Named("time.Time")}, Examples: []string{`"2020-01-01"`}},
		},
	})

	t.Run("default format", func(t *testing.T) {
		doc := openapi.NewDocument()
		require.NoError(t, New(r, WithClock(func() time.Time { return fixed })).Generate(doc, "a.Event"))
		assert.Equal(t, `{"type":"string","nullable":false,"description":"","example":"2024-01-02 03:04:05"}`, propertyJSON(t, doc, "a.Event", "at"))
		assert.Equal(t, `{"type":"string","nullable":true,"description":"","example":"2024-01-02 03:04:05"}`, propertyJSON(t, doc, "a.Event", "until"))
		assert.Equal(t, `{"type":"string","nullable":false,"description":"","example":"2020-01-01"}`, propertyJSON(t, doc, "a.Event", "pinned"))
		assert.False(t, doc.HasSchema("time.Time"))
	})

	t.Run("custom format", func(t *testing.T) {
		doc := openapi.NewDocument()
		gen := New(r, WithClock(func() time.Time { return fixed }), WithDateFormat(time.RFC3339))
		require.NoError(t, gen.Generate(doc, "a.Event"))
		assert.Contains(t, propertyJSON(t, doc, "a.Event", "at"), `"example":"2024-01-02T03:04:05Z"`)
	})
}

func TestGenerateAnnotations(t *testing.T) {
	newRegistry := func() *introspect.Registry {
		return registry(map[string][]introspect.PropertyDescriptor{
			"a.Item": {
				{Name: "qty", Types: []introspect.TypeRef{introspect.Named("int")}, Examples: []string{"5", "0"}},
				{Name: "status", Types: []introspect.TypeRef{introspect.Named("string")}, Enums: []string{`["x"]`, `["active","blocked"]`}},
				{Name: "big", Types: []introspect.TypeRef{introspect.Named("int")}, Examples: []string{"12345678901234567890"}},
				{Name: "broken", Types: []introspect.TypeRef{introspect.Named("string")}, Examples: []string{"Jan Kowalski"}},
				{Name: "notList", Types: []introspect.TypeRef{introspect.Named("string")}, Enums: []string{`"a"`}},
			},
		})
	}

	t.Run("last occurrence wins and falsy values are kept", func(t *testing.T) {
		doc := openapi.NewDocument()
		require.NoError(t, New(newRegistry()).Generate(doc, "a.Item"))
		assert.Equal(t, `{"type":"integer","nullable":false,"description":"","example":0}`, propertyJSON(t, doc, "a.Item", "qty"))
		assert.Equal(t, `{"type":"string","nullable":false,"description":"","enum":["active","blocked"]}`, propertyJSON(t, doc, "a.Item", "status"))
		assert.Equal(t, `{"type":"integer","nullable":false,"description":"","example":12345678901234567890}`, propertyJSON(t, doc, "a.Item", "big"))
	})

	t.Run("malformed payloads are skipped with a warning", func(t *testing.T) {
		logger := &recordingLogger{}
		doc := openapi.NewDocument()
		require.NoError(t, New(newRegistry(), WithLogger(logger)).Generate(doc, "a.Item"))

		assert.Equal(t, `{"type":"string","nullable":false,"description":""}`, propertyJSON(t, doc, "a.Item", "broken"))
		assert.Equal(t, `{"type":"string","nullable":false,"description":""}`, propertyJSON(t, doc, "a.Item", "not_list"))
		require.Len(t, logger.warns, 2)
		assert.True(t, strings.HasPrefix(logger.warns[0], "skipping malformed annotation"))
	})

	t.Run("strict mode fails and publishes nothing", func(t *testing.T) {
		doc := openapi.NewDocument()
		err := New(newRegistry(), WithStrictAnnotations(true)).Generate(doc, "a.Item")
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrAnnotation))

		var ae *oaserrors.AnnotationError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, "a.Item", ae.TypeKey)
		assert.Equal(t, "broken", ae.Property)
		assert.Equal(t, "example", ae.Tag)
		assert.False(t, doc.HasSchema("a.Item"))
	})
}

func TestGenerateTypeNotFound(t *testing.T) {
	r := registry(map[string][]introspect.PropertyDescriptor{
		"a.Order":    {prop(t, "customer", "a.Customer"), prop(t, "ghost", "a.Missing")},
		"a.Customer": {prop(t, "name", "string")},
	})
	doc := openapi.NewDocument()
	doc.AddSchema("a.Existing", openapi.Object())

	err := New(r).Generate(doc, "a.Order")
	require.Error(t, err)
	assert.True(t, errors.Is(err, oaserrors.ErrTypeNotFound))

	var nf *oaserrors.TypeNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "a.Missing", nf.TypeKey)

	assert.Equal(t, []string{"a.Existing"}, doc.SchemaKeys())
}

func TestGenerateNameCollision(t *testing.T) {
	r := registry(map[string][]introspect.PropertyDescriptor{
		"a.User":   {},
		"b.User":   {},
		"a.Holder": {prop(t, "left", "a.User"), prop(t, "right", "b.User")},
	})
	doc := openapi.NewDocument()
	err := New(r).Generate(doc, "a.Holder")
	require.Error(t, err)

	var nc *oaserrors.NameCollisionError
	require.True(t, errors.As(err, &nc))
	assert.Equal(t, "User", nc.ShortName)
	assert.Equal(t, "a.User", nc.Existing)
	assert.Equal(t, "b.User", nc.Incoming)
	assert.Empty(t, doc.SchemaKeys())
}

func TestGenerateBuiltinsAreNoOps(t *testing.T) {
	doc := openapi.NewDocument()
	gen := New(introspect.NewRegistry())
	for _, key := range []string{"int", "string", "time.Time", "DateTime", ""} {
		require.NoError(t, gen.Generate(doc, key))
	}
	assert.Empty(t, doc.SchemaKeys())
}

func TestGenerateAll(t *testing.T) {
	r := registry(map[string][]introspect.PropertyDescriptor{
		"a.User":        {prop(t, "id", "int")},
		"a.UserRequest": {prop(t, "name", "string")},
		"a.Seed":        {},
	})
	doc := openapi.NewDocument()
	require.NoError(t, doc.AddPath("/users", openapi.NewPath("").
		Post(openapi.NewOperation("").
			SetRequest(openapi.Ref("a.UserRequest")).
			AddResponse(201, openapi.Ref("a.User")))))

	require.NoError(t, New(r).GenerateAll(doc, "a.Seed"))
	assert.Equal(t, []string{"a.Seed", "a.User", "a.UserRequest"}, doc.SchemaKeys())
}

type auditFields struct {
	ID      int    `json:"id"`
	Version string `json:"version"`
}

type account struct {
	auditFields
	Version int    `json:"version" oas:"description=Revision counter"`
	Owner   *owner `json:"owner" oas:"description=Account owner"`
}

type owner struct {
	Name string `json:"name" oas:"example=Jan Kowalski"`
}

func TestGenerateWithReflector(t *testing.T) {
	key := introspect.TypeKey(reflectType[account]())
	doc := openapi.NewDocument()
	require.NoError(t, New(introspect.NewReflector(account{})).Generate(doc, key))

	assert.Equal(t, `{"type":"object","properties":{`+
		`"id":{"type":"integer","nullable":false,"description":""},`+
		`"version":{"type":"integer","nullable":false,"description":"Revision counter"},`+
		`"owner":{"oneOf":[{"$ref":"#/components/schemas/owner"},{"nullable":true}],"nullable":true,"description":"Account owner"}}}`,
		schemaJSON(t, doc, key))
	assert.Equal(t, `{"type":"object","properties":{"name":{"type":"string","nullable":false,"description":"","example":"Jan Kowalski"}}}`,
		schemaJSON(t, doc, introspect.TypeKey(reflectType[owner]())))
}

func reflectType[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

// gatedIntrospector blocks the first Describe of one key until released.
type gatedIntrospector struct {
	introspect.Introspector
	key     string
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (g *gatedIntrospector) Describe(key string) (*introspect.TypeDescription, error) {
	if key == g.key {
		first := false
		g.once.Do(func() { first = true })
		if first {
			close(g.entered)
			<-g.release
		}
	}
	return g.Introspector.Describe(key)
}

func TestGenerateConcurrent(t *testing.T) {
	t.Run("failed call does not strand another call's references", func(t *testing.T) {
		gated := &gatedIntrospector{
			Introspector: registry(map[string][]introspect.PropertyDescriptor{
				"ex.Root": {prop(t, "a", "ex.A"), prop(t, "slow", "ex.Slow"), prop(t, "bad", "ex.Missing")},
				"ex.A":    {prop(t, "id", "int")},
				"ex.Slow": {},
				"ex.C":    {prop(t, "a", "ex.A")},
			}),
			key:     "ex.Slow",
			entered: make(chan struct{}),
			release: make(chan struct{}),
		}
		gen := New(gated)
		doc := openapi.NewDocument()

		failed := make(chan error, 1)
		go func() { failed <- gen.Generate(doc, "ex.Root") }()

		<-gated.entered
		require.NoError(t, gen.Generate(doc, "ex.C"))
		close(gated.release)

		err := <-failed
		require.Error(t, err)
		assert.True(t, errors.Is(err, oaserrors.ErrTypeNotFound))

		assert.Equal(t, []string{"ex.A", "ex.C"}, doc.SchemaKeys())
		assert.Equal(t, `{"$ref":"#/components/schemas/A"}`, propertyJSON(t, doc, "ex.C", "a"))
		assert.Equal(t, `{"type":"object","properties":{"id":{"type":"integer","nullable":false,"description":""}}}`,
			schemaJSON(t, doc, "ex.A"))
	})

	t.Run("generation and encoding in parallel", func(t *testing.T) {
		r := registry(map[string][]introspect.PropertyDescriptor{
			"a.Order":    {prop(t, "customer", "a.Customer"), prop(t, "lines", "[]a.Line")},
			"a.Invoice":  {prop(t, "order", "a.Order"), prop(t, "billing", "?a.Customer")},
			"a.Customer": {prop(t, "name", "string"), prop(t, "orders", "[]a.Order")},
			"a.Line":     {prop(t, "sku", "string"), prop(t, "qty", "int")},
		})
		gen := New(r)
		doc := openapi.NewDocument()
		roots := []string{"a.Order", "a.Invoice", "a.Customer"}

		var wg sync.WaitGroup
		for i := 0; i < 12; i++ {
			wg.Add(2)
			go func(root string) {
				defer wg.Done()
				assert.NoError(t, gen.Generate(doc, root))
			}(roots[i%len(roots)])
			go func() {
				defer wg.Done()
				_, err := doc.MarshalJSON()
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, []string{"a.Customer", "a.Invoice", "a.Line", "a.Order"}, doc.SchemaKeys())

		serial := openapi.NewDocument()
		require.NoError(t, gen.Generate(serial, "a.Invoice"))
		want, err := serial.MarshalJSON()
		require.NoError(t, err)
		got, err := doc.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got))
	})
}
