// Package postgres implements core.Connector over a pgxpool connection
// pool, giving every information_schema query issued by extractor a
// real round trip against PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions configures the underlying connection pool.
type PoolOptions struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

// Connector adapts a pgxpool.Pool to core.Connector.
type Connector struct {
	pool *pgxpool.Pool
}

// NewPool dials databaseURL, validates it with a bounded ping, and
// returns a ready pool.
func NewPool(ctx context.Context, databaseURL string, opts PoolOptions) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connector/postgres: parsing database URL: %w", err)
	}

	config.MaxConns = opts.MaxConns
	config.MinConns = opts.MinConns
	config.MaxConnLifetime = opts.MaxConnLifetime
	config.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connector/postgres: creating connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connector/postgres: pinging database: %w", err)
	}

	return pool, nil
}

// New wraps an already-open pool.
func New(pool *pgxpool.Pool) *Connector {
	return &Connector{pool: pool}
}

// ExecuteQuery runs sql against the pool and flattens every row into a
// map keyed by lowercased column name, matching core.Connector's
// dialect-agnostic contract.
func (c *Connector) ExecuteQuery(ctx context.Context, sql string, params ...any) ([]map[string]any, error) {
	rows, err := c.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, fmt.Errorf("connector/postgres: query: %w", err)
	}
	defer rows.Close()
	return rowsToMaps(rows)
}

// HealthCheck reports whether the pool can still reach PostgreSQL.
func (c *Connector) HealthCheck(ctx context.Context) bool {
	return c.pool.Ping(ctx) == nil
}

func rowsToMaps(rows pgx.Rows) ([]map[string]any, error) {
	fields := rows.FieldDescriptions()
	var result []map[string]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("connector/postgres: reading row values: %w", err)
		}
		row := make(map[string]any, len(fields))
		for i, fd := range fields {
			row[strings.ToLower(fd.Name)] = vals[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("connector/postgres: iterating rows: %w", err)
	}
	return result, nil
}
