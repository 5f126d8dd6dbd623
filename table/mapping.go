package table

import (
	"errors"
	"fmt"
	"os"

	"github.com/erraggy/docpatch/internal/jsonnode"
	"github.com/erraggy/docpatch/internal/jsonpath"
	"github.com/erraggy/docpatch/mergeerrors"
	"go.yaml.in/yaml/v4"
)

// Field maps one table column to the document location it updates.
type Field struct {
	Column string
	Path   *jsonpath.Path
}

// Mapping is the ordered set of column-to-path bindings used by a Merger.
// Fields are applied in the order the mapping source declares them.
// A Mapping is read-only once loaded and may be shared between mergers.
type Mapping []Field

// Columns returns the mapped column names in declaration order.
func (m Mapping) Columns() []string {
	cols := make([]string, len(m))
	for i, f := range m {
		cols[i] = f.Column
	}
	return cols
}

// Lookup returns the path bound to column.
func (m Mapping) Lookup(column string) (*jsonpath.Path, bool) {
	for _, f := range m {
		if f.Column == column {
			return f.Path, true
		}
	}
	return nil, false
}

// LoadMappingFile reads a mapping from a JSON or YAML file.
func LoadMappingFile(path string) (Mapping, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: mapping path is user-provided
	if err != nil {
		return nil, &mergeerrors.LoadError{Source: path, Kind: "mapping", Cause: err}
	}
	m, err := LoadMapping(data)
	if err != nil {
		var le *mergeerrors.LoadError
		if errors.As(err, &le) {
			le.Source = path
		}
		return nil, err
	}
	return m, nil
}

// LoadMapping decodes a mapping from a JSON or YAML object of
// column name to path expression:
//
//	{"count": "$.count", "owner": "$.meta.owner"}
//
// Key order is preserved. Every path is compiled up front, so an invalid
// expression fails the load rather than each row that uses it.
func LoadMapping(data []byte) (Mapping, error) {
	node, err := jsonnode.ParseNode(data)
	if err != nil {
		return nil, &mergeerrors.LoadError{Kind: "mapping", Message: "cannot decode", Cause: err}
	}

	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, &mergeerrors.LoadError{Kind: "mapping", Message: "must be an object of column to path"}
	}

	m := make(Mapping, 0, len(node.Content)/2)
	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		column := key.Value
		if val.Kind != yaml.ScalarNode || val.ShortTag() != "!!str" {
			return nil, &mergeerrors.LoadError{
				Kind:    "mapping",
				Message: fmt.Sprintf("column %q: path must be a string (line %d)", column, val.Line),
			}
		}
		if seen[column] {
			return nil, &mergeerrors.LoadError{
				Kind:    "mapping",
				Message: fmt.Sprintf("column %q mapped more than once (line %d)", column, key.Line),
			}
		}
		p, err := jsonpath.Parse(val.Value)
		if err != nil {
			return nil, &mergeerrors.LoadError{
				Kind:    "mapping",
				Message: fmt.Sprintf("column %q", column),
				Cause:   err,
			}
		}
		seen[column] = true
		m = append(m, Field{Column: column, Path: p})
	}
	return m, nil
}
