package mcpserver

import (
	"context"

	"github.com/erraggy/docpatch/internal/jsonpath"
	"github.com/erraggy/docpatch/typecast"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type resolvePathInput struct {
	Document sourceInput `json:"document" jsonschema:"The JSON or YAML document to read"`
	Path     string      `json:"path"     jsonschema:"Path expression starting at $, e.g. $.pricing.amount or $.items[0]"`
}

type resolvePathOutput struct {
	Path  string `json:"path"`
	Found bool   `json:"found"`
	Type  string `json:"type,omitempty"`
	Value any    `json:"value"`
}

func handleResolvePath(_ context.Context, _ *mcp.CallToolRequest, input resolvePathInput) (*mcp.CallToolResult, resolvePathOutput, error) {
	path, err := jsonpath.Parse(input.Path)
	if err != nil {
		return errResult(err), resolvePathOutput{}, nil
	}
	doc, err := input.Document.document()
	if err != nil {
		return errResult(err), resolvePathOutput{}, nil
	}

	output := resolvePathOutput{Path: path.String()}
	value, found := path.Get(doc.Value)
	if !found {
		return nil, output, nil
	}
	output.Found = true
	output.Type = typecast.Of(value).String()
	output.Value = value
	return nil, output, nil
}
