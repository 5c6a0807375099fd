package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Table is the statically declared shape of one relation in the store.
type Table struct {
	Name    string
	Columns []string
}

// Schema lists the relations and columns the server reads. The store is
// produced elsewhere; VerifySchema only checks that it matches.
var Schema = []Table{
	{Name: "measurement", Columns: []string{"id", "station", "date", "prcp", "tobs"}},
	{Name: "station", Columns: []string{"id", "station", "name", "latitude", "longitude", "elevation"}},
}

// VerifySchema selects every declared column from every declared table with
// LIMIT 0, which fails on any missing table or column without reading rows.
func VerifySchema(ctx context.Context, db *sql.DB) error {
	for _, t := range Schema {
		q := fmt.Sprintf("SELECT %s FROM %s LIMIT 0", strings.Join(t.Columns, ", "), t.Name)
		rows, err := db.QueryContext(ctx, q)
		if err != nil {
			return fmt.Errorf("schema check %s: %w", t.Name, err)
		}
		if err := rows.Close(); err != nil {
			return fmt.Errorf("schema check %s: %w", t.Name, err)
		}
	}
	return nil
}
