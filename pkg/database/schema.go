package database

import (
	"context"
	"fmt"
)

const discoverTablesQuery = `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = 'public'
  AND table_type = 'BASE TABLE'
ORDER BY table_name`

const discoverColumnsQuery = `
SELECT column_name
FROM information_schema.columns
WHERE table_schema = 'public'
  AND table_name = $1
ORDER BY ordinal_position`

// IntrospectSchema discovers the tables and columns of the public schema
// and returns them as a table -> columns descriptor. The result is the
// authoritative schema fed to the validator when a live database is
// configured.
func (db *DB) IntrospectSchema(ctx context.Context) (map[string][]string, error) {
	rows, err := db.Query(ctx, discoverTablesQuery)
	if err != nil {
		return nil, fmt.Errorf("discover tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}

	schema := make(map[string][]string, len(tables))
	for _, table := range tables {
		columns, err := db.introspectColumns(ctx, table)
		if err != nil {
			return nil, err
		}
		schema[table] = columns
	}
	return schema, nil
}

func (db *DB) introspectColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := db.Query(ctx, discoverColumnsQuery, table)
	if err != nil {
		return nil, fmt.Errorf("discover columns for %s: %w", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column name: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns for %s: %w", table, err)
	}
	return columns, nil
}
