package manifest

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/oasdoc/introspect"
	"github.com/erraggy/oasdoc/oaserrors"
	"github.com/erraggy/oasdoc/openapi"
)

// pair is one key/value entry of a mapping node.
type pair struct {
	key   *yaml.Node
	value *yaml.Node
}

func invalid(option string, n *yaml.Node, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if n != nil && n.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", n.Line, msg)
	}
	return &oaserrors.ConfigError{Option: option, Message: msg}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isEmpty(n *yaml.Node) bool {
	return n == nil || n.Kind == 0 || (n.Kind == yaml.ScalarNode && n.Tag == "!!null")
}

// mappingPairs returns the entries of a mapping node in document order.
// An absent or null node has no entries.
func mappingPairs(option string, n *yaml.Node) ([]pair, error) {
	n = resolve(n)
	if isEmpty(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, invalid(option, n, "expected a mapping")
	}
	pairs := make([]pair, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		pairs = append(pairs, pair{key: n.Content[i], value: resolve(n.Content[i+1])})
	}
	return pairs, nil
}

func scalar(option string, n *yaml.Node) (string, error) {
	if isEmpty(n) {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", invalid(option, n, "expected a scalar")
	}
	return n.Value, nil
}

func decodePaths(n *yaml.Node) ([]PathEntry, error) {
	pairs, err := mappingPairs("paths", n)
	if err != nil {
		return nil, err
	}

	entries := make([]PathEntry, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, kv := range pairs {
		name := strings.TrimSpace(kv.key.Value)
		if name == "" {
			return nil, invalid("paths", kv.key, "empty path name")
		}
		if seen[name] {
			return nil, &oaserrors.DuplicatePathError{Path: name}
		}
		seen[name] = true

		entry, err := decodePath(name, kv.value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodePath(name string, n *yaml.Node) (PathEntry, error) {
	entry := PathEntry{Name: name}
	option := "paths." + name

	pairs, err := mappingPairs(option, n)
	if err != nil {
		return entry, err
	}
	methods := make(map[openapi.Method]bool)
	for _, kv := range pairs {
		if kv.key.Value == "description" {
			if entry.Description, err = scalar(option+".description", kv.value); err != nil {
				return entry, err
			}
			continue
		}

		method, err := openapi.ParseMethod(kv.key.Value)
		if err != nil {
			return entry, invalid(option, kv.key, "%v", err)
		}
		if methods[method] {
			return entry, invalid(option, kv.key, "method %s declared twice", method)
		}
		methods[method] = true

		op, err := decodeOperation(option+"."+string(method), method, kv.value)
		if err != nil {
			return entry, err
		}
		entry.Operations = append(entry.Operations, op)
	}
	return entry, nil
}

// rawParameter is decoded directly; parameter order is the sequence order.
type rawParameter struct {
	Name        string `yaml:"name"`
	In          string `yaml:"in"`
	Description string `yaml:"description"`
	Required    bool   `yaml:"required"`
}

func decodeOperation(option string, method openapi.Method, n *yaml.Node) (OperationEntry, error) {
	op := OperationEntry{Method: method}

	pairs, err := mappingPairs(option, n)
	if err != nil {
		return op, err
	}
	for _, kv := range pairs {
		field := option + "." + kv.key.Value
		switch kv.key.Value {
		case "description":
			if op.Description, err = scalar(field, kv.value); err != nil {
				return op, err
			}

		case "parameters":
			if op.Parameters, err = decodeParameters(field, kv.value); err != nil {
				return op, err
			}

		case "request":
			if isEmpty(kv.value) {
				continue
			}
			s, err := decodeSchema(field, kv.value, nil)
			if err != nil {
				return op, err
			}
			op.Request = &s

		case "responses":
			if op.Responses, err = decodeResponses(field, kv.value); err != nil {
				return op, err
			}

		default:
			return op, invalid(option, kv.key, "unknown operation field %q", kv.key.Value)
		}
	}
	return op, nil
}

func decodeParameters(option string, n *yaml.Node) ([]openapi.Parameter, error) {
	n = resolve(n)
	if isEmpty(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, invalid(option, n, "expected a list of parameters")
	}

	params := make([]openapi.Parameter, 0, len(n.Content))
	for i, item := range n.Content {
		field := fmt.Sprintf("%s[%d]", option, i)
		var raw rawParameter
		if err := item.Decode(&raw); err != nil {
			return nil, &oaserrors.ConfigError{Option: field, Message: "invalid parameter", Cause: err}
		}
		if strings.TrimSpace(raw.Name) == "" {
			return nil, invalid(field, item, "parameter has no name")
		}

		in := openapi.InQuery
		if raw.In != "" {
			loc, err := openapi.ParseParameterLocation(raw.In)
			if err != nil {
				return nil, &oaserrors.ConfigError{Option: field + ".in", Value: raw.In, Cause: err}
			}
			in = loc
		}

		params = append(params, openapi.Parameter{
			Name:        raw.Name,
			In:          in,
			Description: raw.Description,
			Required:    raw.Required || in == openapi.InPath,
		})
	}
	return params, nil
}

func decodeResponses(option string, n *yaml.Node) ([]ResponseEntry, error) {
	pairs, err := mappingPairs(option, n)
	if err != nil {
		return nil, err
	}

	responses := make([]ResponseEntry, 0, len(pairs))
	seen := make(map[int]bool, len(pairs))
	for _, kv := range pairs {
		code, err := strconv.Atoi(strings.TrimSpace(kv.key.Value))
		if err != nil || code < 100 || code > 599 {
			return nil, &oaserrors.ConfigError{
				Option:  option,
				Value:   kv.key.Value,
				Message: fmt.Sprintf("line %d: status code must be a number between 100 and 599", kv.key.Line),
			}
		}
		if seen[code] {
			return nil, invalid(option, kv.key, "status code %d declared twice", code)
		}
		seen[code] = true

		s, err := decodeSchema(fmt.Sprintf("%s.%d", option, code), kv.value, nil)
		if err != nil {
			return nil, err
		}
		responses = append(responses, ResponseEntry{Code: code, Schema: s})
	}
	return responses, nil
}

// decodeSchema reads a schema given as a type expression or a mapping. When
// name is non-nil the mapping may also carry a name key, which is stored
// there.
func decodeSchema(option string, n *yaml.Node, name *string) (SchemaEntry, error) {
	var s SchemaEntry
	n = resolve(n)

	switch {
	case isEmpty(n):
		return s, invalid(option, n, "empty schema")

	case n.Kind == yaml.ScalarNode:
		if name != nil {
			return s, invalid(option, n, "expected a mapping with a name")
		}
		s.Type = strings.TrimSpace(n.Value)
		if _, err := introspect.ParseTypeExpr(s.Type); err != nil {
			return s, &oaserrors.ConfigError{Option: option, Value: n.Value, Cause: err}
		}
		return s, nil

	case n.Kind != yaml.MappingNode:
		return s, invalid(option, n, "expected a type expression or a mapping")
	}

	pairs, _ := mappingPairs(option, n)
	var err error
	for _, kv := range pairs {
		field := option + "." + kv.key.Value
		switch kv.key.Value {
		case "name":
			if name == nil {
				return s, invalid(option, kv.key, "unknown schema field %q", kv.key.Value)
			}
			if *name, err = scalar(field, kv.value); err != nil {
				return s, err
			}

		case "type":
			if s.Type, err = scalar(field, kv.value); err != nil {
				return s, err
			}
			s.Type = strings.TrimSpace(s.Type)
			if _, err := introspect.ParseTypeExpr(s.Type); err != nil {
				return s, &oaserrors.ConfigError{Option: field, Value: s.Type, Cause: err}
			}

		case "description":
			if s.Description, err = scalar(field, kv.value); err != nil {
				return s, err
			}

		case "nullable":
			if err := kv.value.Decode(&s.Nullable); err != nil {
				return s, &oaserrors.ConfigError{Option: field, Value: kv.value.Value, Cause: err}
			}

		case "example":
			if s.Example, err = jsonText(field, kv.value); err != nil {
				return s, err
			}

		case "enum":
			if kv.value.Kind != yaml.SequenceNode {
				return s, invalid(field, kv.value, "enum must be a list")
			}
			if s.Enum, err = jsonText(field, kv.value); err != nil {
				return s, err
			}

		case "properties":
			props, err := mappingPairs(field, kv.value)
			if err != nil {
				return s, err
			}
			for _, p := range props {
				child, err := decodeSchema(field+"."+p.key.Value, p.value, nil)
				if err != nil {
					return s, err
				}
				s.Properties = append(s.Properties, PropertyEntry{Name: p.key.Value, Schema: child})
			}

		default:
			return s, invalid(option, kv.key, "unknown schema field %q", kv.key.Value)
		}
	}

	if s.Type != "" && len(s.Properties) > 0 {
		return s, invalid(option, n, "type and properties are mutually exclusive")
	}
	return s, nil
}

// jsonText re-encodes a YAML value as JSON.
func jsonText(option string, n *yaml.Node) (string, error) {
	var v any
	if err := n.Decode(&v); err != nil {
		return "", &oaserrors.ConfigError{Option: option, Cause: err}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", &oaserrors.ConfigError{Option: option, Message: "value is not JSON compatible", Cause: err}
	}
	return string(data), nil
}

func decodeTypes(n *yaml.Node) ([]TypeEntry, error) {
	pairs, err := mappingPairs("types", n)
	if err != nil {
		return nil, err
	}

	entries := make([]TypeEntry, 0, len(pairs))
	seen := make(map[string]bool, len(pairs))
	for _, kv := range pairs {
		key := strings.TrimSpace(kv.key.Value)
		option := "types." + key
		if key == "" {
			return nil, invalid("types", kv.key, "empty type key")
		}
		if openapi.IsBuiltin(key) {
			return nil, invalid(option, kv.key, "%s is a builtin type", key)
		}
		if seen[key] {
			return nil, invalid(option, kv.key, "type declared twice")
		}
		seen[key] = true

		entry, err := decodeType(option, key, kv.value)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func decodeType(option, key string, n *yaml.Node) (TypeEntry, error) {
	entry := TypeEntry{Key: key}

	pairs, err := mappingPairs(option, n)
	if err != nil {
		return entry, err
	}
	for _, kv := range pairs {
		field := option + "." + kv.key.Value
		switch kv.key.Value {
		case "description":
			if entry.Description, err = scalar(field, kv.value); err != nil {
				return entry, err
			}

		case "properties":
			if kv.value.Kind != yaml.SequenceNode {
				return entry, invalid(field, kv.value, "expected a list of properties")
			}
			for i, item := range kv.value.Content {
				var name string
				itemField := fmt.Sprintf("%s[%d]", field, i)
				s, err := decodeSchema(itemField, item, &name)
				if err != nil {
					return entry, err
				}
				if strings.TrimSpace(name) == "" {
					return entry, invalid(itemField, item, "property has no name")
				}
				if len(s.Properties) > 0 {
					return entry, invalid(itemField, item, "inline objects cannot be declared here; declare a separate type")
				}
				entry.Properties = append(entry.Properties, PropertyEntry{Name: name, Schema: s})
			}

		default:
			return entry, invalid(option, kv.key, "unknown type field %q", kv.key.Value)
		}
	}
	return entry, nil
}
