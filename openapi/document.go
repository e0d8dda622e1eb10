package openapi

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasdoc/oaserrors"
)

// Version is the OpenAPI version emitted by every document.
const Version = "3.0.3"

// DocumentOption configures a Document.
type DocumentOption func(*Document)

// WithInfo sets the document's info object.
func WithInfo(info Info) DocumentOption {
	return func(d *Document) {
		d.info = info
	}
}

// Document is the root of an OpenAPI 3.0 document: an info object, paths in
// registration order, and a registry of component schemas keyed by full
// type key.
//
// A Document is safe for concurrent use. Schema registration is atomic per
// key, so concurrent generators never register the same key twice. A
// registered schema must not be modified afterwards.
type Document struct {
	mu sync.RWMutex

	info Info

	pathNames []string
	paths     map[string]*Path

	schemas    map[string]*Schema
	shortNames map[string]string // short name -> first registered type key
}

// NewDocument returns an empty document with default info.
func NewDocument(opts ...DocumentOption) *Document {
	d := &Document{
		info:       DefaultInfo(),
		paths:      make(map[string]*Path),
		schemas:    make(map[string]*Schema),
		shortNames: make(map[string]string),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Info returns the document's info object.
func (d *Document) Info() Info {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.info
}

// SetInfo replaces the document's info object.
func (d *Document) SetInfo(info Info) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.info = info
}

// AddPath registers a path under its trimmed name. It returns a
// *oaserrors.DuplicatePathError if the name is already registered, leaving
// the document unchanged.
func (d *Document) AddPath(name string, path *Path) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addPathLocked(strings.TrimSpace(name), path)
}

func (d *Document) addPathLocked(name string, path *Path) error {
	if _, exists := d.paths[name]; exists {
		return &oaserrors.DuplicatePathError{Path: name}
	}
	d.paths[name] = path
	d.pathNames = append(d.pathNames, name)
	return nil
}

// Path returns the path registered under name.
func (d *Document) Path(name string) (*Path, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.paths[strings.TrimSpace(name)]
	return p, ok
}

// PathNames returns the registered path names in registration order.
func (d *Document) PathNames() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.pathNames)
}

// AddSchema registers schema under key if the key is absent and reports
// whether it was inserted. An existing registration is never overwritten.
func (d *Document) AddSchema(key string, schema *Schema) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addSchemaLocked(key, schema)
}

func (d *Document) addSchemaLocked(key string, schema *Schema) bool {
	if _, exists := d.schemas[key]; exists {
		return false
	}
	d.schemas[key] = schema
	short := ShortName(key)
	if _, taken := d.shortNames[short]; !taken {
		d.shortNames[short] = key
	}
	return true
}

// AddSchemas registers every schema whose key is absent, in a single step,
// and returns the inserted keys in ascending order. If a new key's short
// name is taken by a different key, in d or among schemas, it returns a
// *oaserrors.NameCollisionError and registers nothing.
func (d *Document) AddSchemas(schemas map[string]*Schema) ([]string, error) {
	keys := slices.Sorted(maps.Keys(schemas))

	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.collisionLocked(keys); err != nil {
		return nil, err
	}
	var added []string
	for _, key := range keys {
		if d.addSchemaLocked(key, schemas[key]) {
			added = append(added, key)
		}
	}
	return added, nil
}

// collisionLocked returns the first short-name collision registering keys
// would introduce. Keys already registered are ignored.
func (d *Document) collisionLocked(keys []string) error {
	incoming := make(map[string]string, len(keys))
	for _, key := range keys {
		if _, exists := d.schemas[key]; exists {
			continue
		}
		short := ShortName(key)
		if owner, ok := d.shortNames[short]; ok && owner != key {
			return &oaserrors.NameCollisionError{ShortName: short, Existing: owner, Incoming: key}
		}
		if owner, ok := incoming[short]; ok && owner != key {
			return &oaserrors.NameCollisionError{ShortName: short, Existing: owner, Incoming: key}
		}
		incoming[short] = key
	}
	return nil
}

// HasSchema reports whether a schema is registered under key.
func (d *Document) HasSchema(key string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.schemas[key]
	return ok
}

// Schema returns the schema registered under key.
func (d *Document) Schema(key string) (*Schema, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s, ok := d.schemas[key]
	return s, ok
}

// RemoveSchema unregisters key. It returns false if key was not registered.
func (d *Document) RemoveSchema(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.schemas[key]; !ok {
		return false
	}
	delete(d.schemas, key)
	short := ShortName(key)
	if d.shortNames[short] == key {
		delete(d.shortNames, short)
		// Hand the short name to any remaining key that shares it.
		for other := range d.schemas {
			if ShortName(other) == short {
				d.shortNames[short] = other
				break
			}
		}
	}
	return true
}

// SchemaKeys returns the registered type keys sorted by short name, then by
// full key.
func (d *Document) SchemaKeys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sortedSchemaKeysLocked()
}

func (d *Document) sortedSchemaKeysLocked() []string {
	keys := make([]string, 0, len(d.schemas))
	for k := range d.schemas {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := strings.Compare(ShortName(a), ShortName(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return keys
}

// ShortNameOwner returns the type key registered under a short name.
func (d *Document) ShortNameOwner(short string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	key, ok := d.shortNames[short]
	return key, ok
}

// CheckShortNames returns a *oaserrors.NameCollisionError if two distinct
// registered type keys share a short name.
func (d *Document) CheckShortNames() error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.checkShortNamesLocked()
}

func (d *Document) checkShortNamesLocked() error {
	keys := d.sortedSchemaKeysLocked()
	for i := 1; i < len(keys); i++ {
		if short := ShortName(keys[i]); short == ShortName(keys[i-1]) {
			return &oaserrors.NameCollisionError{ShortName: short, Existing: keys[i-1], Incoming: keys[i]}
		}
	}
	return nil
}

// Merge copies every path and schema of other into d, applying the same
// rules as AddPath and AddSchema. If any path of other is already present,
// Merge returns a *oaserrors.DuplicatePathError; if a new schema's short
// name is taken by a different key, it returns a
// *oaserrors.NameCollisionError. Either way d is left unchanged.
func (d *Document) Merge(other *Document) error {
	if other == d {
		return fmt.Errorf("openapi: cannot merge a document into itself")
	}

	other.mu.RLock()
	names := slices.Clone(other.pathNames)
	paths := make(map[string]*Path, len(other.paths))
	for k, v := range other.paths {
		paths[k] = v
	}
	schemaKeys := other.sortedSchemaKeysLocked()
	schemas := make(map[string]*Schema, len(other.schemas))
	for k, v := range other.schemas {
		schemas[k] = v
	}
	other.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, name := range names {
		if _, exists := d.paths[name]; exists {
			return &oaserrors.DuplicatePathError{Path: name}
		}
	}
	if err := d.collisionLocked(schemaKeys); err != nil {
		return err
	}
	for _, name := range names {
		if err := d.addPathLocked(name, paths[name]); err != nil {
			return err
		}
	}
	for _, key := range schemaKeys {
		d.addSchemaLocked(key, schemas[key])
	}
	return nil
}

// ReferencedTypeKeys returns every type key referenced by the request and
// response schemas of the document's paths, in path registration order and
// without duplicates.
func (d *Document) ReferencedTypeKeys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var keys []string
	seen := make(map[string]bool)
	for _, name := range d.pathNames {
		path := d.paths[name]
		for _, method := range path.Operations() {
			op, _ := path.Operation(method)
			for _, s := range op.schemas() {
				s.collectTypeKeys(&keys, seen)
			}
		}
	}
	return keys
}

// Node builds the ordered yaml.Node form of the document:
// openapi, info, paths (registration order), components.schemas (sorted by
// short name). It returns a *oaserrors.NameCollisionError if two registered
// type keys share a short name.
func (d *Document) Node() (*yaml.Node, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.checkShortNamesLocked(); err != nil {
		return nil, err
	}

	root := newMapping()
	appendPair(root, "openapi", strNode(Version))
	appendPair(root, "info", d.info.node())

	paths := newMapping()
	for _, name := range d.pathNames {
		pathNode, err := d.paths[name].node()
		if err != nil {
			return nil, fmt.Errorf("openapi: path %s: %w", name, err)
		}
		appendPair(paths, name, pathNode)
	}
	appendPair(root, "paths", paths)

	schemas := newMapping()
	for _, key := range d.sortedSchemaKeysLocked() {
		schemaNode, err := d.schemas[key].Node()
		if err != nil {
			return nil, fmt.Errorf("openapi: schema %s: %w", key, err)
		}
		appendPair(schemas, ShortName(key), schemaNode)
	}
	appendPair(root, "components", pairNode("schemas", schemas))

	return root, nil
}
