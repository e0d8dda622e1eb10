package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasdoc/internal/fileutil"
)

// Format is an output encoding.
type Format string

const (
	// FormatJSON emits JSON.
	FormatJSON Format = "json"
	// FormatYAML emits YAML.
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. The empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("openapi: unsupported format %q (want json or yaml)", s)
	}
}

// FormatFromPath returns the format implied by a file extension.
// Unknown extensions select JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// marshalNodeAsJSON writes a yaml.Node tree to a buffer as JSON, keeping the
// key order of every mapping. Scalar tags decide the JSON literal type.
func marshalNodeAsJSON(buf *bytes.Buffer, node *yaml.Node) error {
	if node == nil {
		buf.WriteString("null")
		return nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return marshalNodeAsJSON(buf, node.Content[0])

	case yaml.MappingNode:
		if len(node.Content)%2 != 0 {
			return fmt.Errorf("openapi: mapping node with odd content length %d", len(node.Content))
		}
		buf.WriteByte('{')
		for i := 0; i < len(node.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, node.Content[i].Value); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := marshalNodeAsJSON(buf, node.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, item := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalNodeAsJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	case yaml.ScalarNode:
		switch node.Tag {
		case "!!null":
			buf.WriteString("null")
		case "!!bool", "!!int", "!!float":
			buf.WriteString(node.Value)
		default:
			return writeJSON(buf, node.Value)
		}
		return nil

	default:
		return fmt.Errorf("openapi: unsupported node kind %v", node.Kind)
	}
}

// writeJSON marshals a value to JSON and writes it to the buffer.
func writeJSON(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// nodeToJSON renders a node tree as compact JSON.
func nodeToJSON(node *yaml.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalNodeAsJSON(&buf, node); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON renders the schema as JSON in its fixed key order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	node, err := s.Node()
	if err != nil {
		return nil, err
	}
	return nodeToJSON(node)
}

// MarshalJSON renders the document as compact JSON.
func (d *Document) MarshalJSON() ([]byte, error) {
	node, err := d.Node()
	if err != nil {
		return nil, err
	}
	return nodeToJSON(node)
}

// MarshalIndentJSON renders the document as indented JSON.
func (d *Document) MarshalIndentJSON(prefix, indent string) ([]byte, error) {
	data, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalYAML implements yaml.Marshaler so that yaml.Marshal(doc) emits the
// same ordered tree as MarshalJSON.
func (d *Document) MarshalYAML() (any, error) {
	return d.Node()
}

// Encode renders the document in the given format. JSON output is indented
// with two spaces and ends with a newline.
func (d *Document) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		node, err := d.Node()
		if err != nil {
			return nil, err
		}
		return yaml.Marshal(node)
	case FormatJSON, "":
		data, err := d.MarshalIndentJSON("", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("openapi: unsupported format %q", format)
	}
}

// WriteFile encodes the document in the format implied by the path's
// extension and writes it to path.
func (d *Document) WriteFile(path string) error {
	data, err := d.Encode(FormatFromPath(path))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("openapi: writing %s: %w", path, err)
	}
	return nil
}
