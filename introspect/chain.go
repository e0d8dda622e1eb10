package introspect

import (
	"errors"
	"strings"

	"github.com/erraggy/oasdoc/oaserrors"
)

type chain []Introspector

// Chain returns an Introspector that asks each provider in order. A
// provider reporting oaserrors.ErrTypeNotFound passes the key to the next
// one; any other error stops the chain.
func Chain(providers ...Introspector) Introspector {
	flat := make(chain, 0, len(providers))
	for _, p := range providers {
		if p == nil {
			continue
		}
		if nested, ok := p.(chain); ok {
			flat = append(flat, nested...)
			continue
		}
		flat = append(flat, p)
	}
	return flat
}

func (c chain) Describe(typeKey string) (*TypeDescription, error) {
	var misses []string
	for _, p := range c {
		desc, err := p.Describe(typeKey)
		if err == nil {
			return desc, nil
		}
		if !errors.Is(err, oaserrors.ErrTypeNotFound) {
			return nil, err
		}
		misses = append(misses, err.Error())
	}
	nf := &oaserrors.TypeNotFoundError{TypeKey: typeKey, Message: "no provider knows this type"}
	if len(misses) > 0 {
		nf.Cause = errors.New(strings.Join(misses, "; "))
	}
	return nil, nf
}
