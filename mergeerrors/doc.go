// Package mergeerrors provides structured error types for docpatch.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish fatal input problems from the
// recoverable, per-field failures that a merge records and skips.
//
// # Error Categories
//
// Fatal (the run stops and nothing is written):
//   - LoadError: a document, table, mapping, or directive source could not be read
//   - SaveError: the merged document could not be written
//   - DocumentShapeError: the document is not an object or a list of objects
//   - ConfigError: invalid options or missing inputs
//
// Recoverable (one update is skipped, the run continues):
//   - PathConflictError: a write path runs into a container of the wrong shape
//   - TypeMismatchError: an update would change the type of an existing value
//   - MalformedDirectiveError: an override directive is missing keys or invalid
//   - CastError: table text could not be converted; the raw string is kept
//
// # Usage with errors.Is
//
//	for _, f := range result.Fields {
//	    if errors.Is(f.Err, mergeerrors.ErrTypeMismatch) {
//	        // the table tried to change a field's type
//	    }
//	}
//
// # Usage with errors.As
//
//	var shapeErr *mergeerrors.DocumentShapeError
//	if errors.As(err, &shapeErr) {
//	    fmt.Println("bad document:", shapeErr.Got)
//	}
package mergeerrors
