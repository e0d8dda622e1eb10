// Package commands provides CLI command handlers for oasdoc.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/erraggy/oasdoc/internal/fileutil"
	"github.com/erraggy/oasdoc/introspect"
	"github.com/erraggy/oasdoc/openapi"
)

// StdoutPath is the output path that selects standard output.
const StdoutPath = "-"

// SplitPackages splits a comma-separated package pattern list, dropping
// empty entries.
func SplitPackages(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NewLogger returns a text logger writing to w, at debug level when
// verbose and warn level otherwise.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// LoadSource loads the Go packages matching patterns relative to dir.
func LoadSource(ctx context.Context, dir string, patterns []string) (*introspect.Source, error) {
	if dir == "" {
		dir = "."
	}
	src, err := introspect.LoadSource(ctx, dir, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading Go packages: %w", err)
	}
	return src, nil
}

// ResolveFormat picks the output format: the explicit format if given, else
// the one implied by the output path, else JSON.
func ResolveFormat(format, output string) (openapi.Format, error) {
	if format != "" {
		return openapi.ParseFormat(format)
	}
	if output != "" && output != StdoutPath {
		return openapi.FormatFromPath(output), nil
	}
	return openapi.FormatJSON, nil
}

// WriteDocument encodes doc and writes it to output, or to stdout when
// output is empty or "-".
func WriteDocument(doc *openapi.Document, format openapi.Format, output string, stdout io.Writer) error {
	data, err := doc.Encode(format)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if output == "" || output == StdoutPath {
		if _, err := stdout.Write(data); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(output, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}
