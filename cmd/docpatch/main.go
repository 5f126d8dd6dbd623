package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/docpatch"
	"github.com/erraggy/docpatch/cmd/docpatch/commands"
	"github.com/erraggy/docpatch/internal/mcpserver"
)

// commandNames lists every subcommand, in usage order.
var commandNames = []string{"merge", "get", "validate", "mcp", "version", "help"}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	var err error

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("docpatch v%s\n\n%s\n", docpatch.Version(), docpatch.BuildInfo())
		return
	case "help", "-h", "--help":
		printUsage()
		return
	case "merge":
		err = commands.HandleMerge(os.Args[2:])
	case "get":
		err = commands.HandleGet(os.Args[2:])
	case "validate":
		err = commands.HandleValidate(os.Args[2:])
	case "mcp":
		err = runMCP()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			fmt.Fprintf(os.Stderr, "Did you mean '%s'?\n", suggestion)
		}
		fmt.Fprintln(os.Stderr)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMCP() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return mcpserver.Run(ctx)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `docpatch - merge table rows and override directives into JSON or YAML documents

Usage:
  docpatch <command> [flags]

Commands:
  merge      Merge a CSV or SQL table and override directives into a document
  get        Print the value at a path in a document
  validate   Check an override directives file
  mcp        Serve the merge tools over MCP (stdio)
  version    Print the version
  help       Show this help

Run 'docpatch <command> --help' for the flags of a command.
`)
}

// suggestCommand returns the closest known command within edit distance 2,
// or "" when nothing is close.
func suggestCommand(input string) string {
	best, bestDist := "", 3
	for _, name := range commandNames {
		if d := editDistance(input, name); d < bestDist {
			best, bestDist = name, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
