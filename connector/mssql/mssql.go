// Package mssql implements core.Connector over database/sql using the
// denisenkom/go-mssqldb driver.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb"
)

// Connector adapts a *sql.DB opened with the sqlserver driver to
// core.Connector.
type Connector struct {
	db *sql.DB
}

// Open dials dsn (a sqlserver:// connection string) and validates it
// with a bounded ping.
func Open(ctx context.Context, dsn string, maxOpenConns int) (*Connector, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("connector/mssql: open: %w", err)
	}
	db.SetMaxOpenConns(maxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connector/mssql: ping: %w", err)
	}

	return &Connector{db: db}, nil
}

// New wraps an already-open *sql.DB.
func New(db *sql.DB) *Connector {
	return &Connector{db: db}
}

// Close releases the underlying pool.
func (c *Connector) Close() error {
	return c.db.Close()
}

// ExecuteQuery runs sql against the pool and flattens every row into a
// map keyed by lowercased column name. go-mssqldb expects positional
// parameters as @p1, @p2, ... rather than ?; callers write queries
// accordingly.
func (c *Connector) ExecuteQuery(ctx context.Context, query string, params ...any) ([]map[string]any, error) {
	rows, err := c.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("connector/mssql: query: %w", err)
	}
	defer rows.Close()
	return rowsToMaps(rows)
}

// HealthCheck reports whether the pool can still reach SQL Server.
func (c *Connector) HealthCheck(ctx context.Context) bool {
	return c.db.PingContext(ctx) == nil
}

func rowsToMaps(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("connector/mssql: reading columns: %w", err)
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("connector/mssql: scanning row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			key := strings.ToLower(col)
			if values[i].Valid {
				row[key] = values[i].String
			} else {
				row[key] = nil
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("connector/mssql: iterating rows: %w", err)
	}
	return result, nil
}
