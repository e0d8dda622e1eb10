package commands

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/oasdoc/internal/cliutil"
)

// DescribeFlags contains flags for the describe command
type DescribeFlags struct {
	Dir      string
	Packages string
	List     bool
}

// SetupDescribeFlags creates and configures a FlagSet for the describe command.
func SetupDescribeFlags() (*flag.FlagSet, *DescribeFlags) {
	fs := flag.NewFlagSet("describe", flag.ContinueOnError)
	flags := &DescribeFlags{}

	fs.StringVar(&flags.Dir, "dir", ".", "directory Go package patterns are resolved from")
	fs.StringVar(&flags.Packages, "packages", "", "comma-separated Go package patterns to read types from (required)")
	fs.BoolVar(&flags.List, "list", false, "list the type keys found instead of describing one")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: oasdoc describe [flags] <type-key>\n\n")
		cliutil.Writef(fs.Output(), "Print the properties introspected from a Go type as JSON.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  oasdoc describe -packages ./models example.com/api/models.User\n")
		cliutil.Writef(fs.Output(), "  oasdoc describe -packages ./... -list\n")
	}

	return fs, flags
}

// HandleDescribe executes the describe command
func HandleDescribe(args []string) error {
	fs, flags := SetupDescribeFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	typeKey := ""
	switch {
	case flags.List && fs.NArg() == 0:
	case !flags.List && fs.NArg() == 1:
		typeKey = fs.Arg(0)
	default:
		fs.Usage()
		return fmt.Errorf("describe command requires exactly one type key, or -list")
	}

	return RunDescribe(context.Background(), flags, typeKey, os.Stdout)
}

// RunDescribe prints the description of typeKey, or the available type keys
// when flags.List is set.
func RunDescribe(ctx context.Context, flags *DescribeFlags, typeKey string, stdout io.Writer) error {
	patterns := SplitPackages(flags.Packages)
	if len(patterns) == 0 {
		return fmt.Errorf("describe command requires -packages")
	}

	src, err := LoadSource(ctx, flags.Dir, patterns)
	if err != nil {
		return err
	}

	var out any
	if flags.List {
		out = src.Keys()
	} else {
		desc, err := src.Describe(typeKey)
		if err != nil {
			return err
		}
		out = desc
	}
	return writeJSON(stdout, out)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling to json: %w", err)
	}
	if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
