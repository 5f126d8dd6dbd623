package table

import (
	"github.com/erraggy/docpatch"
	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/erraggy/docpatch/typecast"
)

// DefaultIDColumn is the column holding each row's identifier.
const DefaultIDColumn = "ID"

//go:generate go tool stringer -type=Status -trimprefix=Status -output=status_string.go

// Status is the outcome of merging one cell into a document object.
type Status int

const (
	// StatusUpdated means an existing value was replaced by the cast cell.
	StatusUpdated Status = iota
	// StatusCreated means the path did not exist and was created.
	StatusCreated
	// StatusSkipped means the document was left unchanged at the path.
	StatusSkipped
)

// FieldResult records what happened to one mapped column of one row.
type FieldResult struct {
	// Column is the table column name.
	Column string
	// Path is the target path expression.
	Path string
	// Status is the outcome.
	Status Status
	// Value is the value written, or nil when skipped.
	Value any
	// Err explains a skip: a *mergeerrors.TypeMismatchError or
	// *mergeerrors.PathConflictError. Nil otherwise.
	Err error
}

// Option configures a Merger.
type Option func(*Merger)

// WithIDColumn sets the identifier column, which is never written into
// the document. Default: "ID".
func WithIDColumn(column string) Option {
	return func(m *Merger) {
		if column != "" {
			m.idColumn = column
		}
	}
}

// WithLogger sets the logger used for skipped fields.
func WithLogger(l docpatch.Logger) Option {
	return func(m *Merger) {
		m.logger = docpatch.OrNop(l)
	}
}

// Merger writes table rows into document objects through a Mapping.
type Merger struct {
	mapping  Mapping
	idColumn string
	logger   docpatch.Logger
}

// NewMerger creates a Merger for mapping.
func NewMerger(mapping Mapping, opts ...Option) *Merger {
	m := &Merger{
		mapping:  mapping,
		idColumn: DefaultIDColumn,
		logger:   docpatch.NopLogger{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IDColumn returns the identifier column name.
func (m *Merger) IDColumn() string {
	return m.idColumn
}

// Apply merges row into obj, one mapped column at a time in mapping order.
//
// The identifier column and columns the row does not have are skipped
// without a result. For every other column the current value at the path
// decides the write:
//   - a non-null value fixes the type: the cell is cast to that Tag and the
//     write is skipped with a TypeMismatchError if the cast result has a
//     different Tag (this includes cells that fail to parse as numbers)
//   - a null or missing value is replaced by the cell text as a string,
//     creating intermediate maps as needed
//
// A failure affects only its own field; Apply always processes every column.
func (m *Merger) Apply(obj map[string]any, row Row) []FieldResult {
	results := make([]FieldResult, 0, len(m.mapping))
	for _, f := range m.mapping {
		if f.Column == m.idColumn {
			continue
		}
		raw, ok := row[f.Column]
		if !ok {
			continue
		}
		results = append(results, m.applyField(obj, f, raw))
	}
	return results
}

func (m *Merger) applyField(obj map[string]any, f Field, raw string) FieldResult {
	res := FieldResult{Column: f.Column, Path: f.Path.String()}
	log := m.logger.With("column", f.Column, "path", res.Path)

	current, found := f.Path.Get(obj)
	status := StatusCreated
	var value any

	switch {
	case found && current != nil:
		want := typecast.Of(current)
		cast, err := typecast.Cast(raw, want)
		if err != nil {
			log.Warn("cast failed", "error", err)
		}
		if got := typecast.Of(cast); got != want {
			res.Status = StatusSkipped
			res.Err = &mergeerrors.TypeMismatchError{Path: res.Path, Want: want.String(), Got: got.String()}
			log.Warn("skipping field", "error", res.Err)
			return res
		}
		value = cast
		status = StatusUpdated

	case found:
		value = typecast.Infer(raw)
		status = StatusUpdated

	default:
		value = typecast.Infer(raw)
	}

	if _, err := f.Path.Upsert(obj, value); err != nil {
		res.Status = StatusSkipped
		res.Err = err
		log.Warn("skipping field", "error", err)
		return res
	}

	res.Status = status
	res.Value = value
	log.Debug("field merged", "status", status.String())
	return res
}
