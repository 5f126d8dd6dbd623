package testutil

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// NewSQLiteTable creates a SQLite database in a temporary directory with
// one table named name holding the CSV content. Every column is TEXT.
// Returns the database path, usable as a DSN for the "sqlite" driver.
func NewSQLiteTable(t *testing.T, name, csvContent string) string {
	t.Helper()

	records, err := csv.NewReader(strings.NewReader(csvContent)).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV fixture: %v", err)
	}
	if len(records) == 0 {
		t.Fatalf("CSV fixture has no header")
	}

	dsn := filepath.Join(t.TempDir(), name+".db")
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open SQLite database: %v", err)
	}
	defer func() { _ = db.Close() }()

	header := records[0]
	cols := make([]string, len(header))
	marks := make([]string, len(header))
	for i, h := range header {
		cols[i] = fmt.Sprintf("%q TEXT", h)
		marks[i] = "?"
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %q (%s)", name, strings.Join(cols, ", "))); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	insert := fmt.Sprintf("INSERT INTO %q VALUES (%s)", name, strings.Join(marks, ", "))
	for _, rec := range records[1:] {
		args := make([]any, len(rec))
		for i, v := range rec {
			args[i] = v
		}
		if _, err := db.Exec(insert, args...); err != nil {
			t.Fatalf("Failed to insert row: %v", err)
		}
	}
	return dsn
}
