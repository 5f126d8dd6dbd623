package merge

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/erraggy/docpatch"
	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/erraggy/docpatch/override"
	"github.com/erraggy/docpatch/table"
	"github.com/erraggy/docpatch/typecast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMapping(t *testing.T, src string) table.Mapping {
	t.Helper()
	m, err := table.LoadMapping([]byte(src))
	require.NoError(t, err)
	return m
}

func mustDirectives(t *testing.T, src string) []override.Directive {
	t.Helper()
	d, err := override.ParseDirectives([]byte(src))
	require.NoError(t, err)
	return d
}

func TestRunMergeBehaviour(t *testing.T) {
	t.Run("cell cast to existing integer field", func(t *testing.T) {
		doc := map[string]any{"id": "1", "count": 5}
		m := New(mustMapping(t, `{"count": "$.count"}`))

		result, err := m.Run(doc, []table.Row{{"ID": "1", "count": "9"}}, nil)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"id": "1", "count": 9}, doc)
		assert.Equal(t, typecast.TagInteger, typecast.Of(doc["count"]))
		assert.Equal(t, 1, result.FieldsUpdated())
		assert.Equal(t, 1, result.RowsMatched)
	})

	t.Run("missing field created as string", func(t *testing.T) {
		doc := map[string]any{"id": "1"}
		m := New(mustMapping(t, `{"tag": "$.tag"}`))

		result, err := m.Run(doc, []table.Row{{"ID": "1", "tag": "new"}}, nil)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"id": "1", "tag": "new"}, doc)
		require.Len(t, result.Fields, 1)
		assert.Equal(t, table.StatusCreated, result.Fields[0].Status)
	})

	t.Run("override with mismatched type is skipped", func(t *testing.T) {
		doc := map[string]any{"flag": "yes"}
		directives := mustDirectives(t, `[{"path":"$.flag","operation":"update","value":true}]`)

		result, err := New(nil).Run(doc, nil, directives)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"flag": "yes"}, doc)
		require.Len(t, result.Overrides, 1)
		assert.Equal(t, 1, result.Overrides[0].Skipped)
		require.Len(t, result.Overrides[0].Warnings, 1)
		assert.True(t, errors.Is(result.Overrides[0].Warnings[0].Cause, mergeerrors.ErrTypeMismatch))
		assert.True(t, result.HasSkips())
	})

	t.Run("override removes field", func(t *testing.T) {
		doc := map[string]any{"obsolete": 1, "x": 2}
		directives := mustDirectives(t, `[{"path":"$.obsolete","operation":"remove"}]`)

		result, err := New(nil).Run(doc, nil, directives)
		require.NoError(t, err)

		assert.Equal(t, map[string]any{"x": 2}, doc)
		assert.Equal(t, 1, result.OverridesApplied())
	})

	t.Run("row updates every object sharing its id", func(t *testing.T) {
		first := map[string]any{"id": "1", "count": 1}
		second := map[string]any{"id": "1", "count": 2}
		doc := []any{first, second}
		m := New(mustMapping(t, `{"count": "$.count"}`))

		result, err := m.Run(doc, []table.Row{{"ID": "1", "count": "7"}}, nil)
		require.NoError(t, err)

		assert.Equal(t, 7, first["count"])
		assert.Equal(t, 7, second["count"])
		assert.Equal(t, ShapeList, result.Shape)
		assert.Equal(t, 2, result.Objects)
		assert.Equal(t, 1, result.RowsMatched)
		require.Len(t, result.Fields, 2)
		assert.Equal(t, 0, result.Fields[0].Object)
		assert.Equal(t, 1, result.Fields[1].Object)
	})
}

func TestRunShapeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  any
		got  string
	}{
		{"string", "hello", "String"},
		{"null", nil, "Null"},
		{"integer", 3, "Integer"},
		{"list with scalar", []any{map[string]any{"id": "1"}, 2}, "list element 1 is Integer"},
		{"list with list", []any{[]any{}}, "list element 0 is List"},
		{"non-string keys", map[any]any{1: "a"}, "Map with non-string keys"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			directives := []override.Directive{override.Update("$.x", 1)}
			result, err := New(nil).Run(tt.doc, nil, directives)
			require.Error(t, err)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, mergeerrors.ErrDocumentShape))

			var se *mergeerrors.DocumentShapeError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.got, se.Got)
		})
	}

	t.Run("list untouched on shape error", func(t *testing.T) {
		obj := map[string]any{"id": "1"}
		_, err := New(nil).Run([]any{obj, "x"}, nil, []override.Directive{override.Update("$.y", 1)})
		require.Error(t, err)
		assert.Equal(t, map[string]any{"id": "1"}, obj)
	})
}

func TestRunObjectMatching(t *testing.T) {
	mapping := `{"count": "$.count"}`

	t.Run("first matching row wins", func(t *testing.T) {
		doc := map[string]any{"id": "a", "count": 0}
		rows := []table.Row{
			{"ID": "b", "count": "1"},
			{"ID": "a", "count": "2"},
			{"ID": "a", "count": "3"},
		}
		result, err := New(mustMapping(t, mapping)).Run(doc, rows, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, doc["count"])
		require.Len(t, result.Fields, 1)
		assert.Equal(t, "a", result.Fields[0].RowID)
	})

	t.Run("no matching row warns", func(t *testing.T) {
		doc := map[string]any{"id": "a", "count": 0}
		result, err := New(mustMapping(t, mapping)).Run(doc, []table.Row{{"ID": "z", "count": "9"}}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, doc["count"])
		assert.Equal(t, 0, result.RowsMatched)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], `id="a"`)
	})

	t.Run("non-string id never matches", func(t *testing.T) {
		doc := map[string]any{"id": 1, "count": 0}
		result, err := New(mustMapping(t, mapping)).Run(doc, []table.Row{{"ID": "1", "count": "9"}}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, doc["count"])
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "without a string id")
	})

	t.Run("missing id does not match row without ID", func(t *testing.T) {
		doc := map[string]any{"count": 0}
		_, err := New(mustMapping(t, mapping)).Run(doc, []table.Row{{"count": "9"}}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, doc["count"])
	})

	t.Run("overrides still run without a match", func(t *testing.T) {
		doc := map[string]any{"id": "a", "count": 0}
		result, err := New(mustMapping(t, mapping)).Run(doc, nil, []override.Directive{override.Update("$.status", "ok")})
		require.NoError(t, err)
		assert.Equal(t, "ok", doc["status"])
		assert.Equal(t, 1, result.OverridesApplied())
	})
}

func TestRunListMatching(t *testing.T) {
	a := map[string]any{"id": "a", "n": 0}
	b := map[string]any{"id": "b", "n": 0}
	c := map[string]any{"n": 0}
	rows := []table.Row{
		{"ID": "b", "n": "2"},
		{"ID": "x", "n": "9"},
		{"n": "5"},
		{"ID": "a", "n": "1"},
	}

	result, err := New(mustMapping(t, `{"n": "$.n"}`)).Run([]any{a, b, c}, rows, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, a["n"])
	assert.Equal(t, 2, b["n"])
	assert.Equal(t, 0, c["n"])
	assert.Equal(t, 2, result.RowsMatched)
	assert.Equal(t, 2, result.RowsUnmatched)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], `ID="x"`)
	assert.Contains(t, result.Warnings[1], "row 3 has no ID column")
}

func TestRunListMatchingSeesRewrittenIDs(t *testing.T) {
	obj := map[string]any{"id": "a", "n": 0}
	rows := []table.Row{
		{"ID": "a", "rename": "z", "n": "1"},
		{"ID": "z", "rename": "z", "n": "2"},
		{"ID": "a", "rename": "a", "n": "3"},
	}

	result, err := New(mustMapping(t, `{"rename": "$.id", "n": "$.n"}`)).Run([]any{obj}, rows, nil)
	require.NoError(t, err)

	assert.Equal(t, "z", obj["id"])
	assert.Equal(t, 2, obj["n"])
	assert.Equal(t, 2, result.RowsMatched)
	assert.Equal(t, 1, result.RowsUnmatched)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], `ID="a"`)
}

func TestRunLogAttributes(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})

	m := New(mustMapping(t, `{"count": "$.count"}`))
	m.Logger = docpatch.NewSlogAdapter(slog.New(handler))
	directives := []override.Directive{override.Update("$.count", "x")}

	result, err := m.Run(map[string]any{"id": "1", "count": 5}, []table.Row{{"ID": "1", "count": "many"}}, directives)
	require.NoError(t, err)
	require.True(t, result.HasSkips())

	out := buf.String()
	assert.Contains(t, out, "run="+result.RunID)
	assert.Contains(t, out, `msg="skipping field"`)
	assert.Contains(t, out, "column=count path=$.count")
	assert.Contains(t, out, `msg="skipping directive"`)
	assert.Contains(t, out, "directive=0 path=$.count")
}

func TestRunOverridesWinOverTable(t *testing.T) {
	doc := []any{
		map[string]any{"id": "a", "price": 1.0},
		map[string]any{"id": "b", "price": 1.0},
	}
	rows := []table.Row{{"ID": "a", "price": "5.5"}}
	directives := []override.Directive{override.Update("$.price", 9.0)}

	result, err := New(mustMapping(t, `{"price": "$.price"}`)).Run(doc, rows, directives)
	require.NoError(t, err)

	assert.Equal(t, 9.0, doc[0].(map[string]any)["price"])
	assert.Equal(t, 9.0, doc[1].(map[string]any)["price"])
	assert.Equal(t, 1, result.FieldsUpdated())
	require.Len(t, result.Overrides, 2)
	assert.Equal(t, 2, result.OverridesApplied())
}

func TestRunCustomIdentifiers(t *testing.T) {
	doc := map[string]any{"sku": "X-1", "qty": 0}
	m := New(mustMapping(t, `{"SKU": "$.sku", "qty": "$.qty"}`))
	m.IDField = "sku"
	m.IDColumn = "SKU"

	result, err := m.Run(doc, []table.Row{{"SKU": "X-1", "qty": "4"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, doc["qty"])
	require.Len(t, result.Fields, 1, "the identifier column is never written")
	assert.Equal(t, "qty", result.Fields[0].Column)
}

func TestRunSkippedFieldsCounted(t *testing.T) {
	doc := map[string]any{"id": "1", "count": 5, "name": "x"}
	m := New(mustMapping(t, `{"count": "$.count", "name": "$.name"}`))

	result, err := m.Run(doc, []table.Row{{"ID": "1", "count": "many", "name": "y"}}, nil)
	require.NoError(t, err)

	assert.Equal(t, 5, doc["count"])
	assert.Equal(t, "y", doc["name"])
	assert.Equal(t, 1, result.FieldsUpdated())
	assert.Equal(t, 1, result.FieldsSkipped())
	assert.True(t, result.HasSkips())
	assert.NotEmpty(t, result.RunID)
}

func TestRunEmptyInputs(t *testing.T) {
	doc := map[string]any{"id": "1"}
	result, err := New(nil).Run(doc, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Fields)
	assert.Empty(t, result.Overrides)
	assert.False(t, result.HasSkips())

	result, err = New(nil).Run([]any{}, nil, []override.Directive{override.Remove("$.x")})
	require.NoError(t, err)
	assert.Equal(t, ShapeList, result.Shape)
	assert.Equal(t, 0, result.Objects)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "table", PhaseTable.String())
	assert.Equal(t, "overrides", PhaseOverrides.String())
	assert.Equal(t, "Phase(7)", Phase(7).String())
	assert.Equal(t, []Phase{PhaseTable, PhaseOverrides}, phases)
}
