package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasdoc/introspect"
)

type describeTypeInput struct {
	Go   goInput `json:"go"   jsonschema:"Go packages containing the type"`
	Type string  `json:"type" jsonschema:"Type key, e.g. example.com/api/models.User"`
}

// propertySummary is a flattened PropertyDescriptor; type alternatives are
// rendered as type expressions.
type propertySummary struct {
	Name        string   `json:"name"`
	Types       []string `json:"types"`
	Summary     string   `json:"summary,omitempty"`
	Description string   `json:"description,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	Enums       []string `json:"enums,omitempty"`
}

type describeTypeOutput struct {
	Key         string            `json:"key"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Properties  []propertySummary `json:"properties"`
}

func handleDescribeType(ctx context.Context, _ *mcp.CallToolRequest, input describeTypeInput) (*mcp.CallToolResult, describeTypeOutput, error) {
	if strings.TrimSpace(input.Type) == "" {
		return errResult(fmt.Errorf("type is required")), describeTypeOutput{}, nil
	}

	src, err := input.Go.load(ctx)
	if err != nil {
		return errResult(err), describeTypeOutput{}, nil
	}

	desc, err := src.Describe(input.Type)
	if err != nil {
		return errResult(err), describeTypeOutput{}, nil
	}

	output := describeTypeOutput{
		Key:         desc.Key,
		Summary:     desc.Summary,
		Description: desc.Description,
		Properties:  make([]propertySummary, 0, len(desc.Properties)),
	}
	for _, p := range desc.Properties {
		output.Properties = append(output.Properties, summarizeProperty(p))
	}
	return nil, output, nil
}

func summarizeProperty(p introspect.PropertyDescriptor) propertySummary {
	refs := p.Types
	if len(refs) == 0 && p.Declared != nil {
		refs = []introspect.TypeRef{*p.Declared}
	}
	types := make([]string, 0, len(refs))
	for _, r := range refs {
		types = append(types, r.String())
	}
	return propertySummary{
		Name:        p.Name,
		Types:       types,
		Summary:     p.Summary,
		Description: p.Description,
		Examples:    p.Examples,
		Enums:       p.Enums,
	}
}

type listTypesInput struct {
	Go     goInput `json:"go"               jsonschema:"Go packages to list"`
	Filter string  `json:"filter,omitempty" jsonschema:"Only keys containing this substring (case-insensitive)"`
	Offset int     `json:"offset,omitempty" jsonschema:"Skip the first N results"`
	Limit  int     `json:"limit,omitempty"  jsonschema:"Maximum results to return"`
}

type listTypesOutput struct {
	Total    int      `json:"total"`
	Returned int      `json:"returned"`
	Types    []string `json:"types"`
}

func handleListTypes(ctx context.Context, _ *mcp.CallToolRequest, input listTypesInput) (*mcp.CallToolResult, listTypesOutput, error) {
	src, err := input.Go.load(ctx)
	if err != nil {
		return errResult(err), listTypesOutput{}, nil
	}

	keys := src.Keys()
	if input.Filter != "" {
		filter := strings.ToLower(input.Filter)
		matched := keys[:0:0]
		for _, k := range keys {
			if strings.Contains(strings.ToLower(k), filter) {
				matched = append(matched, k)
			}
		}
		keys = matched
	}

	page := paginate(keys, input.Offset, input.Limit)
	return nil, listTypesOutput{Total: len(keys), Returned: len(page), Types: page}, nil
}
