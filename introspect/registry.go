package introspect

import (
	"slices"
	"sync"

	"github.com/erraggy/oasdoc/oaserrors"
)

// Registry is an in-memory Introspector populated with static descriptions.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]TypeDescription
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]TypeDescription)}
}

// Register stores desc under key, replacing any earlier description.
// desc.Key is set to key.
func (r *Registry) Register(key string, desc TypeDescription) {
	desc.Key = key
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.types == nil {
		r.types = make(map[string]TypeDescription)
	}
	r.types[key] = desc
}

// Has reports whether key is registered.
func (r *Registry) Has(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[key]
	return ok
}

// Keys returns the registered keys in ascending order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.types))
	for k := range r.types {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Describe implements Introspector. The returned description is a copy.
func (r *Registry) Describe(typeKey string) (*TypeDescription, error) {
	r.mu.RLock()
	desc, ok := r.types[typeKey]
	r.mu.RUnlock()
	if !ok {
		return nil, &oaserrors.TypeNotFoundError{TypeKey: typeKey, Message: "not registered"}
	}
	desc.Properties = slices.Clone(desc.Properties)
	return &desc, nil
}

var _ Introspector = (*Registry)(nil)
