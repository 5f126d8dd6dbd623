// Package merge runs a full merge: table rows first, then override
// directives, against a document that is a single object or a list of
// objects.
//
// # Quick Start
//
// Merge files and write the result back to the document:
//
//	result, err := merge.RunWithOptions(ctx,
//	    merge.WithDocumentFile("products.json"),
//	    merge.WithTableCSVFile("prices.csv"),
//	    merge.WithMappingFile("mapping.json"),
//	    merge.WithDirectivesFile("static.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("updated %d fields, skipped %d\n", result.FieldsUpdated(), result.FieldsSkipped())
//
// Or run against values already in memory:
//
//	m := merge.New(mapping)
//	result, err := m.Run(doc, rows, directives)
//
// # Matching
//
// Objects are matched to rows by comparing the object's "id" field with the
// row's "ID" column (see Merger.IDField and Merger.IDColumn). Only string
// ids match. A single-object document takes the first matching row; in a
// list document every matching row is merged into every object that shares
// its id.
//
// # Output
//
// Documents are written in the format they were read in. Keys keep their
// source order and keys added by the merge follow in sorted order. JSON is
// indented two spaces; floats always keep a fraction so an integral float
// reads back as a float. Files are written with owner-only permissions and
// never through a symlink.
package merge
