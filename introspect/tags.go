package introspect

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// parseJSONTag parses a struct field's json tag.
// Returns the field name and options (like "omitempty").
func parseJSONTag(tag string) (name string, opts []string) {
	if tag == "" {
		return "", nil
	}

	parts := strings.Split(tag, ",")
	name = parts[0]
	if len(parts) > 1 {
		opts = parts[1:]
	}
	return name, opts
}

// parseOASTag parses the oas struct tag into a map of key-value pairs.
// Supports formats like: oas:"description=User ID,example=42,enum=a|b"
func parseOASTag(tag string) map[string]string {
	result := make(map[string]string)
	if tag == "" {
		return result
	}

	parts := strings.Split(tag, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		// Handle key=value pairs
		if idx := strings.Index(part, "="); idx > 0 {
			key := strings.TrimSpace(part[:idx])
			value := strings.TrimSpace(part[idx+1:])
			result[key] = value
		} else {
			// Handle boolean flags (e.g., "nullable" without =true)
			result[part] = "true"
		}
	}

	return result
}

// fieldTags holds the options a struct field declares through its json and
// oas tags.
type fieldTags struct {
	name     string
	skip     bool
	nullable bool
	typeExpr string

	description string
	example     *string
	enum        []string
}

func readFieldTags(tag reflect.StructTag) fieldTags {
	var ft fieldTags

	jsonTag := tag.Get("json")
	if jsonTag == "-" {
		ft.skip = true
		return ft
	}
	ft.name, _ = parseJSONTag(jsonTag)

	for key, value := range parseOASTag(tag.Get("oas")) {
		switch key {
		case "-":
			ft.skip = true
		case "description":
			ft.description = value
		case "example":
			v := value
			ft.example = &v
		case "enum":
			for _, e := range strings.Split(value, "|") {
				ft.enum = append(ft.enum, strings.TrimSpace(e))
			}
		case "type":
			ft.typeExpr = value
		case "nullable":
			ft.nullable = value == "true"
		}
	}
	return ft
}

// apply copies the tag options onto a descriptor whose Declared and Types are
// already derived from the Go type. Bare type names in the type option are
// qualified with pkg.
func (ft fieldTags) apply(p *PropertyDescriptor, pkg string) error {
	if ft.name != "" {
		p.Name = ft.name
	}
	if ft.typeExpr != "" {
		alts, err := ParseTypeExpr(ft.typeExpr)
		if err != nil {
			return fmt.Errorf("field %s: oas type: %w", p.Name, err)
		}
		for i := range alts {
			qualify(&alts[i], pkg)
		}
		p.Types = alts
	}
	if ft.nullable {
		if p.Declared != nil {
			p.Declared.Nullable = true
		}
		for i := range p.Types {
			p.Types[i].Nullable = true
		}
	}
	if ft.description != "" {
		p.Summary = ft.description
	}
	if ft.example != nil {
		p.Examples = append(p.Examples, exampleJSON(*ft.example))
	}
	if len(ft.enum) > 0 {
		data, err := json.Marshal(ft.enum)
		if err != nil {
			return fmt.Errorf("field %s: oas enum: %w", p.Name, err)
		}
		p.Enums = append(p.Enums, string(data))
	}
	return nil
}

// exampleJSON returns v when it is already a JSON document, and v quoted as
// a JSON string otherwise, so that example=Jan Kowalski and example=42 both
// work in tags.
func exampleJSON(v string) string {
	if json.Valid([]byte(v)) {
		return v
	}
	data, _ := json.Marshal(v)
	return string(data)
}
