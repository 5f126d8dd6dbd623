package table

import (
	"errors"
	"testing"

	"github.com/erraggy/docpatch/internal/jsonpath"
	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/erraggy/docpatch/typecast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMapping(t *testing.T, pairs ...string) Mapping {
	t.Helper()
	require.Zero(t, len(pairs)%2, "pairs must be column/path")
	m := make(Mapping, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		m = append(m, Field{Column: pairs[i], Path: jsonpath.MustParse(pairs[i+1])})
	}
	return m
}

func TestMergerApply(t *testing.T) {
	tests := []struct {
		name       string
		doc        map[string]any
		row        Row
		mapping    []string
		want       map[string]any
		wantStatus []Status
	}{
		{
			name:       "integer field cast from text",
			doc:        map[string]any{"id": "1", "count": 5},
			row:        Row{"ID": "1", "count": "9"},
			mapping:    []string{"count", "$.count"},
			want:       map[string]any{"id": "1", "count": 9},
			wantStatus: []Status{StatusUpdated},
		},
		{
			name:       "new field created as string",
			doc:        map[string]any{"id": "1"},
			row:        Row{"ID": "1", "tag": "new"},
			mapping:    []string{"tag", "$.tag"},
			want:       map[string]any{"id": "1", "tag": "new"},
			wantStatus: []Status{StatusCreated},
		},
		{
			name:       "new numeric-looking field stays string",
			doc:        map[string]any{},
			row:        Row{"n": "42"},
			mapping:    []string{"n", "$.n"},
			want:       map[string]any{"n": "42"},
			wantStatus: []Status{StatusCreated},
		},
		{
			name:       "nested path created",
			doc:        map[string]any{"id": "1"},
			row:        Row{"owner": "kim"},
			mapping:    []string{"owner", "$.meta.owner.name"},
			want:       map[string]any{"id": "1", "meta": map[string]any{"owner": map[string]any{"name": "kim"}}},
			wantStatus: []Status{StatusCreated},
		},
		{
			name:       "float and boolean",
			doc:        map[string]any{"price": 1.0, "active": false},
			row:        Row{"price": "2.75", "active": "Yes"},
			mapping:    []string{"price", "$.price", "active", "$.active"},
			want:       map[string]any{"price": 2.75, "active": true},
			wantStatus: []Status{StatusUpdated, StatusUpdated},
		},
		{
			name:       "list and map fragments",
			doc:        map[string]any{"tags": []any{"a"}, "meta": map[string]any{"k": 1}},
			row:        Row{"tags": `["x", "y"]`, "meta": ""},
			mapping:    []string{"tags", "$.tags", "meta", "$.meta"},
			want:       map[string]any{"tags": []any{"x", "y"}, "meta": map[string]any{}},
			wantStatus: []Status{StatusUpdated, StatusUpdated},
		},
		{
			name:       "null current value takes text",
			doc:        map[string]any{"note": nil},
			row:        Row{"note": "7"},
			mapping:    []string{"note", "$.note"},
			want:       map[string]any{"note": "7"},
			wantStatus: []Status{StatusUpdated},
		},
		{
			name:       "list element field",
			doc:        map[string]any{"variants": []any{map[string]any{"stock": 1}}},
			row:        Row{"stock": "4"},
			mapping:    []string{"stock", "$.variants[0].stock"},
			want:       map[string]any{"variants": []any{map[string]any{"stock": 4}}},
			wantStatus: []Status{StatusUpdated},
		},
		{
			name:       "id and absent columns produce no result",
			doc:        map[string]any{"id": "1"},
			row:        Row{"ID": "99"},
			mapping:    []string{"ID", "$.id", "tag", "$.tag"},
			want:       map[string]any{"id": "1"},
			wantStatus: []Status{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMerger(mustMapping(t, tt.mapping...))
			results := m.Apply(tt.doc, tt.row)
			assert.Equal(t, tt.want, tt.doc)

			statuses := make([]Status, len(results))
			for i, r := range results {
				statuses[i] = r.Status
				assert.NoError(t, r.Err)
			}
			assert.Equal(t, tt.wantStatus, statuses)
		})
	}
}

func TestMergerSkips(t *testing.T) {
	tests := []struct {
		name    string
		doc     map[string]any
		row     Row
		path    string
		wantErr error
	}{
		{
			name:    "integer field with garbage",
			doc:     map[string]any{"count": 5},
			row:     Row{"c": "abc"},
			path:    "$.count",
			wantErr: mergeerrors.ErrTypeMismatch,
		},
		{
			name:    "float field with nan",
			doc:     map[string]any{"price": 1.5},
			row:     Row{"c": "NaN"},
			path:    "$.price",
			wantErr: mergeerrors.ErrTypeMismatch,
		},
		{
			name:    "list field given map fragment",
			doc:     map[string]any{"tags": []any{}},
			row:     Row{"c": `{"a": 1}`},
			path:    "$.tags",
			wantErr: mergeerrors.ErrTypeMismatch,
		},
		{
			name:    "map field given broken fragment",
			doc:     map[string]any{"meta": map[string]any{}},
			row:     Row{"c": `{"a": `},
			path:    "$.meta",
			wantErr: mergeerrors.ErrTypeMismatch,
		},
		{
			name:    "field step into list",
			doc:     map[string]any{"tags": []any{"a"}},
			row:     Row{"c": "x"},
			path:    "$.tags.name",
			wantErr: mergeerrors.ErrPathConflict,
		},
		{
			name:    "index out of range",
			doc:     map[string]any{"tags": []any{"a"}},
			row:     Row{"c": "x"},
			path:    "$.tags[4]",
			wantErr: mergeerrors.ErrPathConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := typecast.Canonical(tt.doc)
			m := NewMerger(mustMapping(t, "c", tt.path))
			results := m.Apply(tt.doc, tt.row)

			require.Len(t, results, 1)
			r := results[0]
			assert.Equal(t, StatusSkipped, r.Status)
			assert.Nil(t, r.Value)
			assert.True(t, errors.Is(r.Err, tt.wantErr), "got %v", r.Err)
			assert.Equal(t, before, typecast.Canonical(tt.doc), "document must be unchanged")
		})
	}
}

func TestMergerContinuesAfterSkip(t *testing.T) {
	doc := map[string]any{"count": 5, "name": "a"}
	m := NewMerger(mustMapping(t, "count", "$.count", "name", "$.name"))
	results := m.Apply(doc, Row{"count": "x", "name": "b"})

	require.Len(t, results, 2)
	assert.Equal(t, StatusSkipped, results[0].Status)
	assert.Equal(t, StatusUpdated, results[1].Status)
	assert.Equal(t, map[string]any{"count": 5, "name": "b"}, doc)
}

func TestMergerIDColumnOption(t *testing.T) {
	doc := map[string]any{"key": "k1"}
	m := NewMerger(mustMapping(t, "sku", "$.key", "tag", "$.tag"), WithIDColumn("sku"), WithLogger(nil))
	assert.Equal(t, "sku", m.IDColumn())

	results := m.Apply(doc, Row{"sku": "other", "tag": "t"})
	require.Len(t, results, 1)
	assert.Equal(t, "tag", results[0].Column)
	assert.Equal(t, "k1", doc["key"])

	assert.Equal(t, DefaultIDColumn, NewMerger(nil, WithIDColumn("")).IDColumn())
}

// Type preservation: no row can change the Tag of an existing non-null field.
func TestMergerPreservesTypes(t *testing.T) {
	seed := map[string]any{
		"s": "text",
		"i": 3,
		"f": 1.25,
		"b": true,
		"l": []any{1},
		"m": map[string]any{"k": "v"},
	}
	cells := []string{"", "0", "-7", "2.5", "1e3", "true", "no", "abc", "[1,2]", `{"x":1}`, "null", "  12  ", "NaN"}

	for field, initial := range seed {
		want := typecast.Of(initial)
		for _, cell := range cells {
			doc := map[string]any{field: initial}
			m := NewMerger(mustMapping(t, "c", "$."+field))
			m.Apply(doc, Row{"c": cell})
			assert.Equal(t, want, typecast.Of(doc[field]), "field %s with cell %q", field, cell)
		}
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Updated", StatusUpdated.String())
	assert.Equal(t, "Created", StatusCreated.String())
	assert.Equal(t, "Skipped", StatusSkipped.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
