// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes docpatch capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"
	"strconv"

	"github.com/erraggy/docpatch"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `docpatch MCP server - merges CSV table rows and override directives into JSON or YAML documents, addressed by $-rooted paths.

Inputs: every document, table, mapping, or directives argument accepts either a file path ("file") or inline text ("content").

Configuration: defaults are configurable via DOCPATCH_* environment variables set in your MCP client config.
- DOCPATCH_ID_FIELD (default: id) - document field matched against row identifiers
- DOCPATCH_ID_COLUMN (default: ID) - table column holding row identifiers
- DOCPATCH_MAX_INPUT_SIZE (default: 10485760) - maximum bytes read from any input`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "docpatch", Version: docpatch.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge",
		Description: "Merge CSV table rows and override directives into a document that is an object or a list of objects. Rows are matched to objects by identifier (id field vs ID column, configurable), mapped columns are cast to the type already at each path, then directives are applied. Type-changing updates are skipped and reported. Use dry_run=true to preview, or output to write the merged document to a file; otherwise it is returned inline.",
	}, handleMerge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve_path",
		Description: "Resolve a path such as $.pricing.amount or $.items[0]['display name'] against a document and return the value and its type. Supported steps are .field, ['field'] and [index]; negative indexes count from the end.",
	}, handleResolvePath)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_directives",
		Description: "Check a list of override directives without applying them. Each directive needs a valid path, an operation of update or remove, and a value for update. Returns every problem with its directive index and field.",
	}, handleValidateDirectives)
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

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
