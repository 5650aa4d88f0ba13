package extractor

import (
	"context"

	"go.uber.org/zap"
)

// GetRowCount returns table's exact row count via COUNT(*), or 0 if the
// query fails. GetCompleteTableMetadata stores it as the table's
// estimated_row_count, which change detection's row-count-delta check
// then compares.
func (e *Extractor) GetRowCount(ctx context.Context, table string) int64 {
	sql, params := e.dialect.CountQuery(e.schema, table)
	rows, err := e.connector.ExecuteQuery(ctx, sql, params...)
	if err != nil || len(rows) == 0 {
		if err != nil {
			e.logger.Warn("failed to fetch row count", zap.String("table", table), zap.Error(err))
		}
		return 0
	}
	n, _ := optionalInt64(rows[0], "row_count")
	if n == nil {
		return 0
	}
	return *n
}

// ColumnStats is the row/null/distinct-count triple for one column.
type ColumnStats struct {
	RowCount      int64
	NullCount     int64
	DistinctCount int64
}

// GetColumnStats computes row/null/distinct counts for a single column.
// This is the SUPPLEMENT profiling step gated by
// config.ProfilerConfig.ProfilePerformance: it is one extra full-table
// scan per column and is skipped unless explicitly enabled.
func (e *Extractor) GetColumnStats(ctx context.Context, table, column string) (*ColumnStats, bool) {
	sql, params := e.dialect.ColumnStatsQuery(e.schema, table, column)
	rows, err := e.connector.ExecuteQuery(ctx, sql, params...)
	if err != nil || len(rows) == 0 {
		if err != nil {
			e.logger.Warn("failed to fetch column stats", zap.String("table", table), zap.String("column", column), zap.Error(err))
		}
		return nil, false
	}
	row := rows[0]
	rc, _ := optionalInt64(row, "row_count")
	nc, _ := optionalInt64(row, "null_count")
	dc, _ := optionalInt64(row, "distinct_count")
	if rc == nil || nc == nil || dc == nil {
		return nil, false
	}
	return &ColumnStats{RowCount: *rc, NullCount: *nc, DistinctCount: *dc}, true
}
