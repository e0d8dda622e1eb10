package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/oasdoc/internal/cliutil"
	"github.com/erraggy/oasdoc/introspect"
	"github.com/erraggy/oasdoc/manifest"
	"github.com/erraggy/oasdoc/schemagen"
)

// GenerateFlags contains flags for the generate command
type GenerateFlags struct {
	Output   string
	Format   string
	Dir      string
	Packages string
	Strict   bool
	Verbose  bool
}

// SetupGenerateFlags creates and configures a FlagSet for the generate command.
// Returns the FlagSet and a GenerateFlags struct with bound flag variables.
func SetupGenerateFlags() (*flag.FlagSet, *GenerateFlags) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	flags := &GenerateFlags{}

	fs.StringVar(&flags.Output, "o", "", "output file (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file (default: stdout)")
	fs.StringVar(&flags.Format, "format", "", "output format: json or yaml (default: from output extension, else json)")
	fs.StringVar(&flags.Dir, "dir", ".", "directory Go package patterns are resolved from")
	fs.StringVar(&flags.Packages, "packages", "", "comma-separated Go package patterns to read types from")
	fs.BoolVar(&flags.Strict, "strict", false, "fail on malformed @example or @enum annotations instead of skipping them")
	fs.BoolVar(&flags.Verbose, "v", false, "log schema registration to stderr")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasdoc generate [flags] <manifest>\n\n")
		cliutil.Writef(fs.Output(), "Build an OpenAPI 3.0.3 document from a manifest, generating the schemas of\n")
		cliutil.Writef(fs.Output(), "every referenced type.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oasdoc generate api.yaml\n")
		cliutil.Writef(fs.Output(), "  oasdoc generate -o openapi.yaml api.yaml\n")
		cliutil.Writef(fs.Output(), "  oasdoc generate -packages ./models,./api -format yaml api.yaml\n")
		cliutil.Writef(fs.Output(), "\nNotes:\n")
		cliutil.Writef(fs.Output(), "  - Types declared in the manifest take precedence over Go types\n")
		cliutil.Writef(fs.Output(), "  - Go type keys are <import path>.<Name>, e.g. example.com/api/models.User\n")
	}

	return fs, flags
}

// HandleGenerate executes the generate command
func HandleGenerate(args []string) error {
	fs, flags := SetupGenerateFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("generate command requires exactly one manifest file")
	}

	return RunGenerate(context.Background(), flags, fs.Arg(0), os.Stdout, os.Stderr)
}

// RunGenerate builds the document described by the manifest at path and
// writes it according to flags. Logs go to stderr.
func RunGenerate(ctx context.Context, flags *GenerateFlags, path string, stdout, stderr io.Writer) error {
	format, err := ResolveFormat(flags.Format, flags.Output)
	if err != nil {
		return err
	}

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	providers := []introspect.Introspector{m.Registry()}
	if patterns := SplitPackages(flags.Packages); len(patterns) > 0 {
		src, err := LoadSource(ctx, flags.Dir, patterns)
		if err != nil {
			return err
		}
		providers = append(providers, src)
	}

	logger := NewLogger(stderr, flags.Verbose)
	gen := schemagen.New(introspect.Chain(providers...),
		schemagen.WithLogger(schemagen.NewSlogAdapter(logger)),
		schemagen.WithStrictAnnotations(flags.Strict),
	)

	doc, err := m.Build(gen)
	if err != nil {
		return err
	}
	logger.Info("built document", "paths", len(doc.PathNames()), "schemas", len(doc.SchemaKeys()))

	return WriteDocument(doc, format, flags.Output, stdout)
}
