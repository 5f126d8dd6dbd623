package table

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/erraggy/docpatch/mergeerrors"
	"github.com/erraggy/docpatch/typecast"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQL driver names accepted by LoadSQL.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Drivers lists the SQL driver names LoadSQL accepts.
var Drivers = []string{DriverSQLite, DriverPostgres, DriverMySQL}

// queryTimeout bounds a single table query.
const queryTimeout = 30 * time.Second

// LoadSQL runs query against the database named by driver and dsn and
// returns one Row per result row, keyed by result column name.
//
// Cells are converted to text the way a CSV export would render them:
// byte slices as strings, timestamps as RFC 3339, numbers and booleans in
// canonical form. SQL NULL leaves the cell absent so the column is skipped
// for that row.
func LoadSQL(ctx context.Context, driver, dsn, query string) ([]Row, error) {
	if !slices.Contains(Drivers, driver) {
		return nil, &mergeerrors.LoadError{
			Source:  driver,
			Kind:    "table",
			Message: fmt.Sprintf("unsupported driver %q (want one of %v)", driver, Drivers),
		}
	}
	if query == "" {
		return nil, &mergeerrors.LoadError{Source: driver, Kind: "table", Message: "query is required"}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, &mergeerrors.LoadError{Source: driver, Kind: "table", Message: "open", Cause: err}
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, &mergeerrors.LoadError{Source: driver, Kind: "table", Message: "query", Cause: err}
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &mergeerrors.LoadError{Source: driver, Kind: "table", Message: "columns", Cause: err}
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for j := range values {
			ptrs[j] = &values[j]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &mergeerrors.LoadError{Source: driver, Kind: "table", Message: "scan row", Cause: err}
		}

		row := make(Row, len(cols))
		for j, v := range values {
			if s, ok := cellText(v); ok {
				row[cols[j]] = s
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, &mergeerrors.LoadError{Source: driver, Kind: "table", Message: "iterate", Cause: err}
	}
	return out, nil
}

// cellText renders a scanned SQL value as table text. NULL reports false.
func cellText(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case []byte:
		return string(val), true
	case time.Time:
		return val.Format(time.RFC3339), true
	default:
		return typecast.Canonical(val), true
	}
}
