// Package table merges row-oriented table data into documents.
//
// A table is a list of [Row] values, each a map of column name to cell text.
// Rows come from CSV ([LoadCSV], [LoadCSVFile]) or from a SQL query
// ([LoadSQL]) against sqlite, postgres or mysql. A [Mapping] binds columns to
// path expressions and is loaded from a JSON or YAML object with
// [LoadMapping] or [LoadMappingFile].
//
// # Type preservation
//
// Table cells carry no type. [Merger.Apply] casts each cell to the type of
// the value already stored at the target path, so a numeric field stays
// numeric:
//
//	obj := map[string]any{"id": "1", "count": 5}
//	m := table.NewMerger(mapping)
//	m.Apply(obj, table.Row{"ID": "1", "count": "9"})
//	// obj["count"] == 9
//
// A cell that cannot be cast ("abc" into an integer field) is skipped with a
// *mergeerrors.TypeMismatchError rather than stored as a string. A path with
// no current value is created and receives the cell text verbatim.
//
// Every mapped column yields a [FieldResult], so callers can report skips
// without inspecting log output.
package table
