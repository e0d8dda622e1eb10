package openapi

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"
)

// Method is an HTTP method slot on a Path.
type Method string

// Supported methods.
const (
	MethodGet     Method = "get"
	MethodPost    Method = "post"
	MethodPatch   Method = "patch"
	MethodPut     Method = "put"
	MethodDelete  Method = "delete"
	MethodOptions Method = "options"
)

// Methods lists the operation slots in emission order.
var Methods = []Method{MethodGet, MethodPost, MethodPatch, MethodPut, MethodDelete, MethodOptions}

// ParseMethod parses an HTTP method name, case-insensitively.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unsupported method %q", s)
}

// Path holds the operations of a single route.
type Path struct {
	description string
	operations  map[Method]*Operation
}

// NewPath returns a path with no operations.
func NewPath(description string) *Path {
	return &Path{description: description, operations: make(map[Method]*Operation)}
}

// SetDescription sets the path description and returns p.
func (p *Path) SetDescription(description string) *Path {
	p.description = description
	return p
}

// Description returns the path description.
func (p *Path) Description() string { return p.description }

// Set places op in the slot for method and returns p. A nil op clears the slot.
func (p *Path) Set(method Method, op *Operation) *Path {
	if p.operations == nil {
		p.operations = make(map[Method]*Operation)
	}
	if op == nil {
		delete(p.operations, method)
		return p
	}
	p.operations[method] = op
	return p
}

// Get sets the GET operation and returns p.
func (p *Path) Get(op *Operation) *Path { return p.Set(MethodGet, op) }

// Post sets the POST operation and returns p.
func (p *Path) Post(op *Operation) *Path { return p.Set(MethodPost, op) }

// Patch sets the PATCH operation and returns p.
func (p *Path) Patch(op *Operation) *Path { return p.Set(MethodPatch, op) }

// Put sets the PUT operation and returns p.
func (p *Path) Put(op *Operation) *Path { return p.Set(MethodPut, op) }

// Delete sets the DELETE operation and returns p.
func (p *Path) Delete(op *Operation) *Path { return p.Set(MethodDelete, op) }

// Options sets the OPTIONS operation and returns p.
func (p *Path) Options(op *Operation) *Path { return p.Set(MethodOptions, op) }

// Operation returns the operation in a slot.
func (p *Path) Operation(method Method) (*Operation, bool) {
	op, ok := p.operations[method]
	return op, ok
}

// Operations returns the populated slots in emission order.
func (p *Path) Operations() []Method {
	var out []Method
	for _, m := range Methods {
		if _, ok := p.operations[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (p *Path) node() (*yaml.Node, error) {
	m := newMapping()
	for _, method := range p.Operations() {
		opNode, err := p.operations[method].node()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", method, err)
		}
		appendPair(m, string(method), opNode)
	}
	appendPair(m, "description", strNode(p.description))
	return m, nil
}
