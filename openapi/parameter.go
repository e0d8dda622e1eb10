package openapi

import (
	"fmt"
	"strings"

	"go.yaml.in/yaml/v4"
)

// ParameterLocation is where a parameter is carried in the request.
type ParameterLocation string

const (
	// InQuery is a query string parameter.
	InQuery ParameterLocation = "query"
	// InPath is a templated path segment.
	InPath ParameterLocation = "path"
	// InHeader is a request header.
	InHeader ParameterLocation = "header"
)

// ParseParameterLocation parses a location name, case-insensitively.
func ParseParameterLocation(s string) (ParameterLocation, error) {
	switch loc := ParameterLocation(strings.ToLower(strings.TrimSpace(s))); loc {
	case InQuery, InPath, InHeader:
		return loc, nil
	default:
		return "", fmt.Errorf("unsupported parameter location %q (want query, path or header)", s)
	}
}

// Parameter is an operation parameter. Parameter values are always
// described as strings.
type Parameter struct {
	Name        string
	In          ParameterLocation
	Description string
	Required    bool
}

// QueryParameter returns a query parameter.
func QueryParameter(name, description string, required bool) Parameter {
	return Parameter{Name: name, In: InQuery, Description: description, Required: required}
}

// PathParameter returns a path parameter. Path parameters are always required.
func PathParameter(name, description string) Parameter {
	return Parameter{Name: name, In: InPath, Description: description, Required: true}
}

// HeaderParameter returns an optional header parameter.
func HeaderParameter(name, description string) Parameter {
	return Parameter{Name: name, In: InHeader, Description: description}
}

func (p Parameter) node() *yaml.Node {
	in := p.In
	if in == "" {
		in = InQuery
	}
	m := newMapping()
	appendPair(m, "name", strNode(p.Name))
	appendPair(m, "in", strNode(string(in)))
	appendPair(m, "description", strNode(p.Description))
	appendPair(m, "required", boolNode(p.Required))
	appendPair(m, "schema", pairNode("type", strNode("string")))
	return m
}
