package merge

import (
	"fmt"

	"github.com/erraggy/docpatch"
	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/erraggy/docpatch/override"
	"github.com/erraggy/docpatch/table"
	"github.com/erraggy/docpatch/typecast"
	"github.com/google/uuid"
)

// DefaultIDField is the object field matched against a row's identifier.
const DefaultIDField = "id"

// Phase is one ordered step of a merge run.
type Phase int

const (
	// PhaseTable writes matching table rows into document objects.
	PhaseTable Phase = iota
	// PhaseOverrides applies override directives to every object.
	PhaseOverrides
)

// phases is the order a run executes in. Overrides come last so they win
// over table values at the same path.
var phases = []Phase{PhaseTable, PhaseOverrides}

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseTable:
		return "table"
	case PhaseOverrides:
		return "overrides"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Shape is the top-level form of a document.
type Shape string

const (
	// ShapeObject is a single object.
	ShapeObject Shape = "object"
	// ShapeList is a list of objects.
	ShapeList Shape = "list"
)

// Merger runs table rows and override directives against a document.
//
// Example:
//
//	m := merge.New(mapping)
//	m.IDColumn = "SKU"
//	result, err := m.Run(doc.Value, rows, directives)
type Merger struct {
	// Mapping routes table columns to document paths.
	Mapping table.Mapping
	// IDField is the object field holding the identifier. Default: "id".
	IDField string
	// IDColumn is the table column holding the identifier. Default: "ID".
	IDColumn string
	// Logger receives per-field and per-directive warnings. Default: no-op.
	Logger docpatch.Logger
}

// New creates a Merger with default identifier names.
func New(mapping table.Mapping) *Merger {
	return &Merger{
		Mapping:  mapping,
		IDField:  DefaultIDField,
		IDColumn: table.DefaultIDColumn,
		Logger:   docpatch.NopLogger{},
	}
}

// FieldUpdate is a table FieldResult tagged with where it happened.
type FieldUpdate struct {
	// Object is the index of the object in a list document; 0 for an object document.
	Object int
	// RowID is the identifier of the row that supplied the value.
	RowID string
	table.FieldResult
}

// Result summarizes a merge run.
type Result struct {
	// RunID identifies the run in log output.
	RunID string
	// Shape is the document's top-level shape.
	Shape Shape
	// Objects is the number of document objects.
	Objects int
	// RowsMatched counts rows applied to at least one object.
	RowsMatched int
	// RowsUnmatched counts rows of a list document that matched no object.
	RowsUnmatched int
	// Fields holds one entry per mapped column written or skipped.
	Fields []FieldUpdate
	// Overrides holds one directive result per object, in object order.
	Overrides []*override.Result
	// Warnings are run-level notes such as objects or rows with no match.
	Warnings []string

	// Document is the merged document. Set by RunWithOptions.
	Document *Document
	// Output is the path written, or "" for a dry run. Set by RunWithOptions.
	Output string
}

// FieldsUpdated returns the number of fields updated or created.
func (r *Result) FieldsUpdated() int {
	n := 0
	for _, f := range r.Fields {
		if f.Status != table.StatusSkipped {
			n++
		}
	}
	return n
}

// FieldsSkipped returns the number of fields left unchanged.
func (r *Result) FieldsSkipped() int {
	return len(r.Fields) - r.FieldsUpdated()
}

// OverridesApplied returns the number of directive applications that succeeded.
func (r *Result) OverridesApplied() int {
	n := 0
	for _, o := range r.Overrides {
		n += o.Applied
	}
	return n
}

// OverridesSkipped returns the number of directive applications that were skipped.
func (r *Result) OverridesSkipped() int {
	n := 0
	for _, o := range r.Overrides {
		n += o.Skipped
	}
	return n
}

// HasSkips reports whether any field or directive was skipped.
func (r *Result) HasSkips() bool {
	return r.FieldsSkipped() > 0 || r.OverridesSkipped() > 0
}

// Run merges rows and then directives into doc, which must be an object
// (map[string]any) or a list whose every element is an object. Objects are
// mutated in place.
//
// For an object document the first row whose identifier equals the
// object's id is merged. For a list document every row is merged into
// every object with a matching id. Directives are then applied to each
// object in order.
//
// The only error is a *mergeerrors.DocumentShapeError, returned before
// anything is changed. Per-field and per-directive failures are reported
// in the Result.
func (m *Merger) Run(doc any, rows []table.Row, directives []override.Directive) (*Result, error) {
	objects, shape, err := objectsOf(doc)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:   uuid.NewString(),
		Shape:   shape,
		Objects: len(objects),
	}
	log := docpatch.OrNop(m.Logger).With("run", result.RunID)
	log.Debug("merge started", "shape", string(shape), "objects", len(objects), "rows", len(rows), "directives", len(directives))

	for _, phase := range phases {
		switch phase {
		case PhaseTable:
			tm := table.NewMerger(m.Mapping, table.WithIDColumn(m.idColumn()), table.WithLogger(log))
			if shape == ShapeObject {
				m.mergeObjectRow(tm, objects[0], rows, result, log)
			} else {
				m.mergeListRows(tm, objects, rows, result, log)
			}

		case PhaseOverrides:
			if len(directives) == 0 {
				continue
			}
			ap := override.NewApplier(override.WithLogger(log))
			for i, obj := range objects {
				res := ap.Apply(obj, directives)
				if res.HasWarnings() {
					log.Debug("overrides skipped", "object", i, "skipped", res.Skipped)
				}
				result.Overrides = append(result.Overrides, res)
			}
		}
	}

	log.Info("merge finished",
		"fields_updated", result.FieldsUpdated(),
		"fields_skipped", result.FieldsSkipped(),
		"overrides_applied", result.OverridesApplied(),
		"overrides_skipped", result.OverridesSkipped(),
	)
	return result, nil
}

func (m *Merger) mergeObjectRow(tm *table.Merger, obj map[string]any, rows []table.Row, result *Result, log docpatch.Logger) {
	id, ok := m.objectID(obj)
	if ok {
		for _, row := range rows {
			rowID, hasID := row.Get(tm.IDColumn())
			if !hasID || rowID != id {
				continue
			}
			result.RowsMatched = 1
			result.addFields(0, rowID, tm.Apply(obj, row))
			return
		}
	}

	msg := fmt.Sprintf("no matching table row for object %s", describeID(m.idField(), id, ok))
	result.Warnings = append(result.Warnings, msg)
	log.Warn("no matching table row", "id", id)
}

func (m *Merger) mergeListRows(tm *table.Merger, objects []map[string]any, rows []table.Row, result *Result, log docpatch.Logger) {
	for r, row := range rows {
		rowID, ok := row.Get(tm.IDColumn())
		matched := false
		if ok {
			for i, obj := range objects {
				// Read per row: an earlier row may have rewritten the id field.
				if id, hasID := m.objectID(obj); !hasID || id != rowID {
					continue
				}
				matched = true
				result.addFields(i, rowID, tm.Apply(obj, row))
			}
		}

		if matched {
			result.RowsMatched++
			continue
		}
		result.RowsUnmatched++
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("table row %d has no %s column", r+1, tm.IDColumn()))
			log.Warn("table row has no identifier", "row", r+1)
			continue
		}
		result.Warnings = append(result.Warnings, fmt.Sprintf("table row %s=%q matched no object", tm.IDColumn(), rowID))
		log.Warn("table row matched no object", "id", rowID)
	}
}

func (r *Result) addFields(object int, rowID string, fields []table.FieldResult) {
	for _, f := range fields {
		r.Fields = append(r.Fields, FieldUpdate{Object: object, RowID: rowID, FieldResult: f})
	}
}

// objectID returns the object's identifier. Only string identifiers match
// rows, since table cells are always text.
func (m *Merger) objectID(obj map[string]any) (string, bool) {
	id, ok := obj[m.idField()].(string)
	return id, ok
}

func (m *Merger) idField() string {
	if m.IDField == "" {
		return DefaultIDField
	}
	return m.IDField
}

func (m *Merger) idColumn() string {
	if m.IDColumn == "" {
		return table.DefaultIDColumn
	}
	return m.IDColumn
}

func describeID(field, id string, ok bool) string {
	if !ok {
		return "without a string " + field
	}
	return fmt.Sprintf("%s=%q", field, id)
}

// objectsOf checks the top-level shape and returns the document's objects.
func objectsOf(doc any) ([]map[string]any, Shape, error) {
	switch v := doc.(type) {
	case map[string]any:
		return []map[string]any{v}, ShapeObject, nil
	case []any:
		objects := make([]map[string]any, 0, len(v))
		for i, el := range v {
			obj, ok := el.(map[string]any)
			if !ok {
				return nil, "", &mergeerrors.DocumentShapeError{Got: fmt.Sprintf("list element %d is %s", i, describeShape(el))}
			}
			objects = append(objects, obj)
		}
		return objects, ShapeList, nil
	default:
		return nil, "", &mergeerrors.DocumentShapeError{Got: describeShape(doc)}
	}
}

func describeShape(v any) string {
	if _, ok := v.(map[any]any); ok {
		return "Map with non-string keys"
	}
	return typecast.Of(v).String()
}
