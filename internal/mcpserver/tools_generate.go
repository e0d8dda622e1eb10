package mcpserver

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasdoc/internal/fileutil"
	"github.com/erraggy/oasdoc/introspect"
	"github.com/erraggy/oasdoc/openapi"
	"github.com/erraggy/oasdoc/schemagen"
)

type generateInput struct {
	Manifest manifestInput `json:"manifest"          jsonschema:"The manifest describing info, paths and types"`
	Go       *goInput      `json:"go,omitempty"      jsonschema:"Go packages to read types from"`
	Format   string        `json:"format,omitempty"  jsonschema:"Output format: json or yaml (default: OASDOC_DEFAULT_FORMAT, else json)"`
	Strict   *bool         `json:"strict,omitempty"  jsonschema:"Fail on malformed annotations instead of skipping them"`
	Output   string        `json:"output,omitempty"  jsonschema:"File to write the document to instead of returning it inline"`
}

type generateOutput struct {
	Format      string   `json:"format"`
	Document    string   `json:"document,omitempty"`
	WrittenTo   string   `json:"written_to,omitempty"`
	PathCount   int      `json:"path_count"`
	SchemaCount int      `json:"schema_count"`
	Schemas     []string `json:"schemas"`
	Warnings    []string `json:"warnings,omitempty"`
}

func handleGenerate(ctx context.Context, _ *mcp.CallToolRequest, input generateInput) (*mcp.CallToolResult, generateOutput, error) {
	format := cfg.DefaultFormat
	if input.Format != "" {
		f, err := openapi.ParseFormat(input.Format)
		if err != nil {
			return errResult(err), generateOutput{}, nil
		}
		format = f
	}

	strict := cfg.StrictAnnotations
	if input.Strict != nil {
		strict = *input.Strict
	}

	m, err := input.Manifest.resolve()
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	providers := []introspect.Introspector{m.Registry()}
	if input.Go.enabled() {
		src, err := input.Go.load(ctx)
		if err != nil {
			return errResult(fmt.Errorf("loading Go packages: %w", err)), generateOutput{}, nil
		}
		providers = append(providers, src)
	}

	warnings := &warningCollector{}
	gen := schemagen.New(introspect.Chain(providers...),
		schemagen.WithLogger(warnings),
		schemagen.WithStrictAnnotations(strict),
	)

	doc, err := m.Build(gen)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	data, err := doc.Encode(format)
	if err != nil {
		return errResult(err), generateOutput{}, nil
	}

	keys := doc.SchemaKeys()
	schemas := make([]string, 0, len(keys))
	for _, k := range keys {
		schemas = append(schemas, openapi.ShortName(k))
	}

	output := generateOutput{
		Format:      string(format),
		PathCount:   len(doc.PathNames()),
		SchemaCount: len(keys),
		Schemas:     schemas,
		Warnings:    warnings.list(),
	}

	if input.Output != "" {
		if err := os.WriteFile(input.Output, data, fileutil.OwnerReadWrite); err != nil {
			return errResult(fmt.Errorf("failed to write output file: %w", err)), generateOutput{}, nil
		}
		output.WrittenTo = input.Output
	} else {
		output.Document = string(data)
	}

	return nil, output, nil
}

// warningCollector is a schemagen.Logger that keeps warnings for the tool
// result and drops everything else.
type warningCollector struct {
	schemagen.NopLogger

	mu       sync.Mutex
	warnings []string
}

func (w *warningCollector) Warn(msg string, attrs ...any) {
	line := msg
	for i := 0; i+1 < len(attrs); i += 2 {
		line += fmt.Sprintf(" %v=%v", attrs[i], attrs[i+1])
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warnings = append(w.warnings, line)
}

func (w *warningCollector) With(...any) schemagen.Logger { return w }

func (w *warningCollector) list() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.warnings...)
}
