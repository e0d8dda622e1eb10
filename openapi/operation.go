package openapi

import (
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v4"
)

// ContentType is the media type of every request and response body.
const ContentType = "application/json"

type response struct {
	code   int
	schema *Schema
}

// Operation is a single HTTP method on a path.
type Operation struct {
	description string
	responses   []response
	parameters  []Parameter
	request     *Schema
}

// NewOperation returns an empty operation.
func NewOperation(description string) *Operation {
	return &Operation{description: description}
}

// SetDescription sets the operation description and returns o.
func (o *Operation) SetDescription(description string) *Operation {
	o.description = description
	return o
}

// AddResponse sets the response body schema for a status code and returns o.
// A repeated code replaces the earlier schema in place.
func (o *Operation) AddResponse(code int, schema *Schema) *Operation {
	for i := range o.responses {
		if o.responses[i].code == code {
			o.responses[i].schema = schema
			return o
		}
	}
	o.responses = append(o.responses, response{code: code, schema: schema})
	return o
}

// AddParameter appends a parameter and returns o.
func (o *Operation) AddParameter(p Parameter) *Operation {
	o.parameters = append(o.parameters, p)
	return o
}

// SetRequest sets the request body schema and returns o. A nil schema
// removes the request body.
func (o *Operation) SetRequest(schema *Schema) *Operation {
	o.request = schema
	return o
}

// Description returns the operation description.
func (o *Operation) Description() string { return o.description }

// Parameters returns the operation parameters in order.
func (o *Operation) Parameters() []Parameter {
	return append([]Parameter(nil), o.parameters...)
}

// Request returns the request body schema, or nil.
func (o *Operation) Request() *Schema { return o.request }

// ResponseCodes returns the status codes in insertion order.
func (o *Operation) ResponseCodes() []int {
	codes := make([]int, len(o.responses))
	for i, r := range o.responses {
		codes[i] = r.code
	}
	return codes
}

// Response returns the schema registered for a status code.
func (o *Operation) Response(code int) (*Schema, bool) {
	for _, r := range o.responses {
		if r.code == code {
			return r.schema, true
		}
	}
	return nil, false
}

// schemas returns the request and response schemas in emission order.
func (o *Operation) schemas() []*Schema {
	var out []*Schema
	for _, r := range o.responses {
		out = append(out, r.schema)
	}
	if o.request != nil {
		out = append(out, o.request)
	}
	return out
}

func contentNode(schema *Schema) (*yaml.Node, error) {
	schemaNode, err := schema.Node()
	if err != nil {
		return nil, err
	}
	return pairNode("content", pairNode(ContentType, pairNode("schema", schemaNode))), nil
}

func (o *Operation) node() (*yaml.Node, error) {
	m := newMapping()

	if len(o.responses) > 0 {
		responses := newMapping()
		for _, r := range o.responses {
			if r.schema == nil {
				return nil, fmt.Errorf("response %d: nil schema", r.code)
			}
			body, err := contentNode(r.schema)
			if err != nil {
				return nil, fmt.Errorf("response %d: %w", r.code, err)
			}
			appendPair(body, "description", strNode(""))
			appendPair(responses, strconv.Itoa(r.code), body)
		}
		appendPair(m, "responses", responses)
	}

	if len(o.parameters) > 0 {
		params := sequenceNode()
		for _, p := range o.parameters {
			params.Content = append(params.Content, p.node())
		}
		appendPair(m, "parameters", params)
	}

	if o.request != nil {
		body, err := contentNode(o.request)
		if err != nil {
			return nil, fmt.Errorf("request body: %w", err)
		}
		appendPair(m, "requestBody", body)
	}

	appendPair(m, "description", strNode(o.description))
	return m, nil
}
