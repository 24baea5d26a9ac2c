// Package resultdb provides read-only access to OakVar result SQLite
// databases.
package resultdb

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Result holds the rows of one read statement. Rows are column→value
// maps so the payload serializes without positional bookkeeping.
type Result struct {
	Columns  []string         `json:"columns"`
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}

// DB is a read-only handle on one result database.
type DB struct {
	sqlDB *sql.DB
}

// Open opens a result database read-only. The file must already exist;
// result databases are produced by the pipeline, never by this layer.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath + "?mode=ro&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &DB{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (d *DB) Close() error {
	if d == nil || d.sqlDB == nil {
		return nil
	}
	return d.sqlDB.Close()
}

// Select executes one read statement and collects column names and rows.
func (d *DB) Select(ctx context.Context, stmt string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if d == nil || d.sqlDB == nil {
		return nil, fmt.Errorf("database is not open")
	}

	rows, err := d.sqlDB.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	result := &Result{Columns: columns, Rows: []map[string]any{}}
	values := make([]any, len(columns))
	scanTargets := make([]any, len(columns))
	for i := range values {
		scanTargets[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, name := range columns {
			row[name] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	result.RowCount = len(result.Rows)
	return result, nil
}

// Query opens path, runs one read statement, and closes the handle. Every
// invocation is independently reproducible; no connection is shared
// across requests.
func Query(ctx context.Context, path, stmt string) (*Result, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	return db.Select(ctx, stmt)
}

// normalizeValue maps driver values onto JSON-friendly types.
func normalizeValue(value any) any {
	if blob, ok := value.([]byte); ok {
		return string(blob)
	}
	return value
}
