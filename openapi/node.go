package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"

	"go.yaml.in/yaml/v4"
)

// Node builds the ordered yaml.Node form of the schema.
//
// Keys are emitted in a fixed order per kind:
//   - primitive: type, nullable, description, example, enum
//   - reference: $ref (nullable references use the oneOf idiom instead)
//   - array: type, items
//   - dictionary: type, additionalProperties
//   - oneOf: oneOf
//   - object: type, properties
//
// Non-primitive kinds carry description and nullable only when set.
func (s *Schema) Node() (*yaml.Node, error) {
	switch s.kind {
	case KindPrimitive:
		return s.primitiveNode()

	case KindRef:
		if !s.nullable {
			return refNode(s.typeKey), nil
		}
		idiom := newMapping()
		appendPair(idiom, "oneOf", sequenceNode(refNode(s.typeKey), pairNode("nullable", boolNode(true))))
		appendPair(idiom, "nullable", boolNode(true))
		appendPair(idiom, "description", strNode(s.description))
		return idiom, nil

	case KindArray, KindDictionary:
		key := "items"
		if s.kind == KindDictionary {
			key = "additionalProperties"
		}
		elem, err := s.element.elementNode()
		if err != nil {
			return nil, err
		}
		collection := newMapping()
		if s.kind == KindArray {
			appendPair(collection, "type", strNode("array"))
		} else {
			appendPair(collection, "type", strNode("object"))
		}
		appendPair(collection, key, elem)
		s.appendDecorations(collection)
		return collection, nil

	case KindOneOf:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, b := range s.branches {
			branch, err := b.branchNode()
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, branch)
		}
		union := newMapping()
		appendPair(union, "oneOf", seq)
		s.appendDecorations(union)
		return union, nil

	case KindObject:
		props := newMapping()
		for _, name := range s.propNames {
			child, err := s.props[name].Node()
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", name, err)
			}
			appendPair(props, name, child)
		}
		obj := newMapping()
		appendPair(obj, "type", strNode("object"))
		appendPair(obj, "properties", props)
		s.appendDecorations(obj)
		return obj, nil

	default:
		return nil, fmt.Errorf("openapi: unknown schema kind %d", s.kind)
	}
}

func (s *Schema) primitiveNode() (*yaml.Node, error) {
	m := newMapping()
	appendPair(m, "type", strNode(s.typeName))
	appendPair(m, "nullable", boolNode(s.nullable))
	appendPair(m, "description", strNode(s.description))
	if s.hasExample {
		v, err := valueToNode(s.example)
		if err != nil {
			return nil, fmt.Errorf("example: %w", err)
		}
		appendPair(m, "example", v)
	}
	if s.hasEnum {
		v, err := valueToNode(s.enum)
		if err != nil {
			return nil, fmt.Errorf("enum: %w", err)
		}
		appendPair(m, "enum", v)
	}
	return m, nil
}

// elementNode is the form used for array items and dictionary values.
func (s *Schema) elementNode() (*yaml.Node, error) {
	if s == nil {
		return nil, fmt.Errorf("openapi: collection schema has no element")
	}
	switch s.kind {
	case KindPrimitive:
		return pairNode("type", strNode(s.typeName)), nil
	case KindRef:
		return refNode(s.typeKey), nil
	default:
		return s.Node()
	}
}

// branchNode is the form used for oneOf alternatives. References are always
// bare since the union itself carries nullability.
func (s *Schema) branchNode() (*yaml.Node, error) {
	if s.kind == KindRef {
		return refNode(s.typeKey), nil
	}
	return s.Node()
}

func (s *Schema) appendDecorations(m *yaml.Node) {
	if s.description != "" {
		appendPair(m, "description", strNode(s.description))
	}
	if s.nullable {
		appendPair(m, "nullable", boolNode(true))
	}
}

func refNode(typeKey string) *yaml.Node {
	return pairNode("$ref", strNode(RefFor(typeKey)))
}

func newMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func pairNode(key string, value *yaml.Node) *yaml.Node {
	m := newMapping()
	appendPair(m, key, value)
	return m
}

func appendPair(m *yaml.Node, key string, value *yaml.Node) {
	m.Content = append(m.Content, strNode(key), value)
}

func sequenceNode(items ...*yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: items}
}

// scalarNode creates a yaml.Node for a scalar value.
func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func strNode(s string) *yaml.Node { return scalarNode("!!str", s) }

func boolNode(b bool) *yaml.Node { return scalarNode("!!bool", strconv.FormatBool(b)) }

// valueToNode converts a decoded JSON value to a yaml.Node.
func valueToNode(v any) (*yaml.Node, error) {
	if v == nil {
		return scalarNode("!!null", "null"), nil
	}

	switch val := v.(type) {
	case bool:
		return boolNode(val), nil
	case int:
		return scalarNode("!!int", strconv.Itoa(val)), nil
	case int64:
		return scalarNode("!!int", strconv.FormatInt(val, 10)), nil
	case uint64:
		return scalarNode("!!int", strconv.FormatUint(val, 10)), nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil, fmt.Errorf("unsupported float value %v", val)
		}
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return scalarNode("!!int", strconv.FormatInt(int64(val), 10)), nil
		}
		return scalarNode("!!float", strconv.FormatFloat(val, 'g', -1, 64)), nil
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return scalarNode("!!int", val.String()), nil
		}
		if _, err := val.Float64(); err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		return scalarNode("!!float", val.String()), nil
	case string:
		return strNode(val), nil
	case []any:
		node := sequenceNode()
		for _, item := range val {
			child, err := valueToNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case map[string]any:
		node := newMapping()
		// Sort keys for determinism
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			valNode, err := valueToNode(val[k])
			if err != nil {
				return nil, err
			}
			appendPair(node, k, valNode)
		}
		return node, nil
	default:
		// For other types, round-trip through JSON
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %T to yaml.Node: %w", v, err)
		}
		var result any
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&result); err != nil {
			return nil, err
		}
		return valueToNode(result)
	}
}
