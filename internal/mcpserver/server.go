// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes oasdoc capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/oasdoc"
)

const serverInstructions = `oasdoc MCP server: builds OpenAPI 3.0.3 documents from manifests and generates component schemas from Go types.

Configuration: All defaults are configurable via OASDOC_* environment variables set in your MCP client config.

Key settings:
- OASDOC_STRICT_ANNOTATIONS (default: false): fail on malformed @example/@enum annotations instead of skipping them
- OASDOC_DEFAULT_FORMAT (default: json): output format of the generate tool
- OASDOC_MAX_MANIFEST_BYTES (default: 10485760): maximum manifest size
- OASDOC_CACHE_ENABLED (default: true): cache loaded Go packages per session
- OASDOC_CACHE_TTL (default: 5m): how long loaded Go packages are reused
- OASDOC_LIST_LIMIT (default: 100): default result limit for list_types

Caching: Loaded Go packages are cached per directory and pattern list. Edits to the sources are picked up once the entry expires.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		sourceCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "oasdoc", Version: oasdoc.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Build an OpenAPI 3.0.3 document from a manifest (info, paths, operations, seed types, optional static type declarations) and generate a component schema for every referenced type. Types not declared in the manifest are read from the Go packages given in go.packages. Returns the document inline, or writes it to output. Malformed @example/@enum annotations are skipped with a warning unless strict is set (default configurable via OASDOC_STRICT_ANNOTATIONS).",
	}, handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "describe_type",
		Description: "Describe a Go struct type as the schema generator sees it: properties in output order with their type alternatives, documentation, @example and @enum payloads. Type keys are <import path>.<Name>; use list_types to find them.",
	}, handleDescribeType)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_types",
		Description: "List the struct type keys found in Go packages. Filter by substring of the key. Use offset/limit to paginate (default limit configurable via OASDOC_LIST_LIMIT).",
	}, handleListTypes)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.ListLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.ListLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
