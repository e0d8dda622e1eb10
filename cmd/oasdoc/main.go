package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/oasdoc"
	"github.com/erraggy/oasdoc/cmd/oasdoc/commands"
	"github.com/erraggy/oasdoc/internal/mcpserver"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	var err error
	switch command {
	case "version", "-v", "--version":
		fmt.Println(oasdoc.BuildInfo())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "generate":
		err = commands.HandleGenerate(os.Args[2:])
	case "describe":
		err = commands.HandleDescribe(os.Args[2:])
	case "mcp":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err = mcpserver.Run(ctx)
		stop()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, usageText)
}

const usageText = `oasdoc - OpenAPI 3.0.3 document assembly with generated schemas

Usage:
  oasdoc <command> [flags] [args]

Commands:
  generate  Build a document from a manifest
  describe  Print the properties introspected from a Go type
  mcp       Run the MCP server over stdio
  version   Show version information
  help      Show this help message

Run 'oasdoc <command> -h' for command flags.
`
