package extractor

import (
	"context"

	"go.uber.org/zap"

	"profiler/core"
)

// GetIndexes fetches every non-primary-key index on table, one entry per
// (index, column) pair.
func (e *Extractor) GetIndexes(ctx context.Context, table string) []*core.IndexEntry {
	sql, params := e.dialect.IndexesQuery(e.schema, table)
	rows, err := e.connector.ExecuteQuery(ctx, sql, params...)
	if err != nil {
		e.logger.Error("failed to fetch indexes", zap.String("table", table), zap.Error(err))
		return nil
	}
	out := make([]*core.IndexEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, &core.IndexEntry{
			IndexName:  stringField(row, "index_name"),
			ColumnName: stringField(row, "column_name"),
			IsUnique:   isUniqueField(row),
		})
	}
	return out
}

func isUniqueField(row map[string]any) bool {
	if v, ok := row["non_unique"]; ok {
		n, ok := toInt64(v)
		return ok && n == 0
	}
	if v, ok := row["is_unique"]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
		n, ok := toInt64(v)
		return ok && n != 0
	}
	return false
}
