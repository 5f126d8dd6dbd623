package mcpserver

import (
	"context"
	"errors"

	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/erraggy/docpatch/override"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type validateDirectivesInput struct {
	Directives sourceInput `json:"directives" jsonschema:"List of override directives (JSON or YAML)"`
}

type directiveIssue struct {
	Index   int    `json:"index"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type validateDirectivesOutput struct {
	Valid      bool             `json:"valid"`
	Directives int              `json:"directives"`
	Issues     []directiveIssue `json:"issues,omitempty"`
	Summary    string           `json:"summary"`
}

func handleValidateDirectives(_ context.Context, _ *mcp.CallToolRequest, input validateDirectivesInput) (*mcp.CallToolResult, validateDirectivesOutput, error) {
	if input.Directives.isEmpty() {
		return errResult(errors.New("exactly one of file or content must be provided for directives (got 0)")), validateDirectivesOutput{}, nil
	}
	directives, err := input.Directives.directives()
	if err != nil {
		return errResult(err), validateDirectivesOutput{}, nil
	}

	errs := override.ValidateAll(directives)
	output := validateDirectivesOutput{
		Valid:      len(errs) == 0,
		Directives: len(directives),
		Issues:     makeSlice[directiveIssue](len(errs)),
	}
	for _, err := range errs {
		issue := directiveIssue{Message: err.Error()}
		var me *mergeerrors.MalformedDirectiveError
		if errors.As(err, &me) {
			issue.Index = me.Index
			issue.Field = me.Field
			issue.Message = me.Message
			if me.Cause != nil {
				issue.Message += ": " + me.Cause.Error()
			}
		}
		output.Issues = append(output.Issues, issue)
	}

	if output.Valid {
		output.Summary = formatCount(output.Directives, "directive") + " valid."
	} else {
		output.Summary = formatCount(len(errs), "issue") + " found in " + formatCount(output.Directives, "directive") + "."
	}
	return nil, output, nil
}
