package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/erraggy/docpatch/mergeerrors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Row is one table record keyed by column name. Every cell is text;
// a column missing from a short record is absent from the row.
type Row map[string]string

// Get returns the cell for column and whether the row has it.
func (r Row) Get(column string) (string, bool) {
	v, ok := r[column]
	return v, ok
}

// LoadCSVFile reads a CSV table from path.
func LoadCSVFile(path string) ([]Row, error) {
	f, err := os.Open(path) //nolint:gosec // G304: table path is user-provided
	if err != nil {
		return nil, &mergeerrors.LoadError{Source: path, Kind: "table", Cause: err}
	}
	defer func() { _ = f.Close() }()

	rows, err := LoadCSV(f)
	if err != nil {
		var le *mergeerrors.LoadError
		if errors.As(err, &le) {
			le.Source = path
		}
		return nil, err
	}
	return rows, nil
}

// LoadCSV reads a CSV table whose first record names the columns.
//
// A leading UTF-8 byte order mark is dropped so the first column name
// matches the mapping. Quotes are parsed leniently and records may have
// fewer or more cells than the header; cells beyond the header are ignored.
func LoadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &mergeerrors.LoadError{Kind: "table", Message: "empty file", Cause: err}
		}
		return nil, &mergeerrors.LoadError{Kind: "table", Message: "cannot read header", Cause: err}
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &mergeerrors.LoadError{
				Kind:    "table",
				Message: fmt.Sprintf("record %d", len(rows)+1),
				Cause:   err,
			}
		}
		row := make(Row, len(header))
		for j, column := range header {
			if j < len(record) {
				row[column] = record[j]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
