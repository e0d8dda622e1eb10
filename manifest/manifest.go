package manifest

import (
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasdoc/openapi"
)

// Manifest is a parsed manifest.
type Manifest struct {
	Info  openapi.Info
	Seeds []string
	Paths []PathEntry
	Types []TypeEntry
}

// PathEntry is one route and its operations, in manifest order.
type PathEntry struct {
	Name        string
	Description string
	Operations  []OperationEntry
}

// OperationEntry is one method of a route.
type OperationEntry struct {
	Method      openapi.Method
	Description string
	Parameters  []openapi.Parameter
	Request     *SchemaEntry
	Responses   []ResponseEntry
}

// ResponseEntry is the schema returned with a status code.
type ResponseEntry struct {
	Code   int
	Schema SchemaEntry
}

// SchemaEntry describes a schema either through a type expression or, when
// Properties is set, as an inline object.
type SchemaEntry struct {
	Type        string
	Description string
	Nullable    bool

	// Example and Enum hold JSON text; Enum is an array.
	Example string
	Enum    string

	Properties []PropertyEntry
}

// PropertyEntry is a named property of an inline object or a declared type.
type PropertyEntry struct {
	Name   string
	Schema SchemaEntry
}

// TypeEntry is a static type declaration.
type TypeEntry struct {
	Key         string
	Description string
	Properties  []PropertyEntry
}

// ParseError represents an error reading a manifest.
type ParseError struct {
	// Path is the file path, if the manifest was loaded from a file.
	Path string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("manifest: failed to parse %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("manifest: failed to parse: %v", e.Cause)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// rawManifest is the top level of the document. The ordered sections stay
// nodes and are walked by hand.
type rawManifest struct {
	Info  openapi.Info `yaml:"info"`
	Seeds []string     `yaml:"seeds"`
	Paths yaml.Node    `yaml:"paths"`
	Types yaml.Node    `yaml:"types"`
}

// Parse parses a manifest from YAML or JSON bytes.
//
// Invalid entries are reported as a *ParseError wrapping a
// *oaserrors.ConfigError, or a *oaserrors.DuplicatePathError for routes
// that repeat after trimming.
func Parse(data []byte) (*Manifest, error) {
	var raw rawManifest

	// yaml.Unmarshal handles both YAML and JSON
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Cause: err}
	}

	m := &Manifest{Info: raw.Info, Seeds: raw.Seeds}
	if m.Info.Version == "" {
		m.Info.Version = openapi.DefaultInfoVersion
	}

	paths, err := decodePaths(&raw.Paths)
	if err != nil {
		return nil, &ParseError{Cause: err}
	}
	m.Paths = paths

	types, err := decodeTypes(&raw.Types)
	if err != nil {
		return nil, &ParseError{Cause: err}
	}
	m.Types = types

	return m, nil
}

// Load parses the manifest file at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Cause: err}
	}

	m, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
			return nil, pe
		}
		return nil, &ParseError{Path: path, Cause: err}
	}

	return m, nil
}
