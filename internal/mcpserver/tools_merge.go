package mcpserver

import (
	"context"
	"errors"

	"github.com/erraggy/docpatch/merge"
	"github.com/erraggy/docpatch/table"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mergeInput struct {
	Document   sourceInput `json:"document"             jsonschema:"The JSON or YAML document to update (an object or a list of objects)"`
	Table      sourceInput `json:"table,omitempty"      jsonschema:"CSV table whose header row names the columns. Optional."`
	Mapping    sourceInput `json:"mapping,omitempty"    jsonschema:"Object mapping table column names to document paths. Required with table."`
	Directives sourceInput `json:"directives,omitempty"  jsonschema:"List of override directives applied after the table. Optional."`
	IDField    string      `json:"id_field,omitempty"   jsonschema:"Document field matched against row identifiers. Defaults to DOCPATCH_ID_FIELD or id."`
	IDColumn   string      `json:"id_column,omitempty"  jsonschema:"Table column holding row identifiers. Defaults to DOCPATCH_ID_COLUMN or ID."`
	DryRun     bool        `json:"dry_run,omitempty"    jsonschema:"Merge without writing; the document is returned inline"`
	Output     string      `json:"output,omitempty"     jsonschema:"File path to write the merged document. If omitted the result is returned inline."`
}

type mergeSkip struct {
	Object    int    `json:"object"`
	Source    string `json:"source"`
	Path      string `json:"path"`
	Reason    string `json:"reason"`
	Column    string `json:"column,omitempty"`
	Directive *int   `json:"directive,omitempty"`
}

type mergeOutput struct {
	RunID            string      `json:"run_id"`
	Shape            string      `json:"shape"`
	Objects          int         `json:"objects"`
	RowsMatched      int         `json:"rows_matched"`
	RowsUnmatched    int         `json:"rows_unmatched"`
	FieldsUpdated    int         `json:"fields_updated"`
	FieldsSkipped    int         `json:"fields_skipped"`
	OverridesApplied int         `json:"overrides_applied"`
	OverridesSkipped int         `json:"overrides_skipped"`
	Skips            []mergeSkip `json:"skips,omitempty"`
	Warnings         []string    `json:"warnings,omitempty"`
	WrittenTo        string      `json:"written_to,omitempty"`
	Document         string      `json:"document,omitempty"`
	Summary          string      `json:"summary"`
}

func handleMerge(_ context.Context, _ *mcp.CallToolRequest, input mergeInput) (*mcp.CallToolResult, mergeOutput, error) {
	if !input.Table.isEmpty() && input.Mapping.isEmpty() {
		return errResult(errors.New("mapping is required when a table is given")), mergeOutput{}, nil
	}

	doc, err := input.Document.document()
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	rows, err := input.Table.rows()
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	mapping, err := input.Mapping.mapping()
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	directives, err := input.Directives.directives()
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	m := &merge.Merger{
		Mapping:  mapping,
		IDField:  firstNonEmpty(input.IDField, cfg.IDField),
		IDColumn: firstNonEmpty(input.IDColumn, cfg.IDColumn),
	}
	result, err := m.Run(doc.Value, rows, directives)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	output := mergeOutput{
		RunID:            result.RunID,
		Shape:            string(result.Shape),
		Objects:          result.Objects,
		RowsMatched:      result.RowsMatched,
		RowsUnmatched:    result.RowsUnmatched,
		FieldsUpdated:    result.FieldsUpdated(),
		FieldsSkipped:    result.FieldsSkipped(),
		OverridesApplied: result.OverridesApplied(),
		OverridesSkipped: result.OverridesSkipped(),
		Warnings:         result.Warnings,
		Skips:            collectSkips(result),
	}
	output.Summary = buildMergeSummary(output)

	if input.Output != "" && !input.DryRun {
		if err := merge.SaveDocument(doc, input.Output); err != nil {
			return errResult(err), mergeOutput{}, nil
		}
		output.WrittenTo = input.Output
		return nil, output, nil
	}

	data, err := doc.Marshal()
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	output.Document = string(data)
	if input.DryRun {
		output.Summary += " (dry run - nothing written)"
	}
	return nil, output, nil
}

func collectSkips(result *merge.Result) []mergeSkip {
	skips := makeSlice[mergeSkip](result.FieldsSkipped() + result.OverridesSkipped())
	for _, f := range result.Fields {
		if f.Status != table.StatusSkipped {
			continue
		}
		skips = append(skips, mergeSkip{
			Object: f.Object,
			Source: "table",
			Path:   f.Path,
			Column: f.Column,
			Reason: f.Err.Error(),
		})
	}
	for obj, res := range result.Overrides {
		for _, w := range res.Warnings {
			reason := w.Message
			if w.Cause != nil {
				reason = w.Cause.Error()
			}
			skips = append(skips, mergeSkip{
				Object:    obj,
				Source:    "directive",
				Path:      w.Path,
				Directive: &w.Index,
				Reason:    reason,
			})
		}
	}
	return skips
}

func buildMergeSummary(o mergeOutput) string {
	summary := "Merged into " + formatCount(o.Objects, "object") + ": " +
		formatCount(o.FieldsUpdated, "field") + " updated, " +
		formatCount(o.OverridesApplied, "directive") + " applied"
	if skipped := o.FieldsSkipped + o.OverridesSkipped; skipped > 0 {
		summary += ", " + formatCount(skipped, "update") + " skipped"
	}
	if len(o.Warnings) > 0 {
		summary += " with " + formatCount(len(o.Warnings), "warning")
	}
	return summary + "."
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
