// Package docpatch merges tabular data and explicit override directives into
// nested JSON or YAML documents, addressing targets with path expressions.
//
// # Overview
//
// A merge run combines three inputs with one document:
//
//   - a table (CSV file or SQL query) whose rows are matched to document
//     objects by identifier
//   - a mapping from table column to document path
//   - an ordered list of override directives (update or remove a path)
//
// Table updates are applied first, then overrides. Every update keeps the
// type of the value already stored at its path: a cell destined for an
// integer field is parsed as an integer, and an update that would turn a
// string into a boolean is skipped and reported.
//
// The library consists of these packages:
//
//   - typecast: the closed set of value types and text-to-value casting
//   - table: CSV/SQL row loading, column mappings, and the row merger
//   - override: directive parsing, validation, and application
//   - merge: the orchestrator that runs a full merge over a document
//   - mergeerrors: sentinel and typed errors shared by all packages
//
// The docpatch command (cmd/docpatch) wraps merge for the shell and also
// serves the same operations as MCP tools.
//
// # Quick Start
//
//	result, err := merge.RunWithOptions(ctx,
//	    merge.WithDocumentFile("items.json"),
//	    merge.WithTableCSVFile("updates.csv"),
//	    merge.WithMappingFile("mapping.json"),
//	    merge.WithDirectivesFile("static.json"),
//	    merge.WithOutputFile("items.out.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("updated %d fields\n", result.FieldsUpdated())
//
// # Paths
//
// Paths start at the document root "$" and are followed by field steps
// (".name" or "['name with spaces']") and index steps ("[0]", "[-1]").
// There are no wildcards or filters, so every path addresses at most one
// location.
package docpatch
