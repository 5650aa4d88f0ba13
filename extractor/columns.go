package extractor

import (
	"context"

	"go.uber.org/zap"

	"profiler/core"
)

// GetColumnProfiles fetches a table's columns in ordinal order and
// converts them to ColumnProfile. IsPrimaryKey/IsForeignKey/IsIndexed are
// left false here; GetCompleteTableMetadata fills them in once the key
// and index queries have run, since a single columns_query never carries
// enough information for every dialect to set them correctly on its own.
func (e *Extractor) GetColumnProfiles(ctx context.Context, table string) []*core.ColumnProfile {
	sql, params := e.dialect.ColumnsQuery(e.schema, table)
	rows, err := e.connector.ExecuteQuery(ctx, sql, params...)
	if err != nil {
		e.logger.Error("failed to fetch columns", zap.String("table", table), zap.Error(err))
		return nil
	}

	out := make([]*core.ColumnProfile, 0, len(rows))
	for _, row := range rows {
		cp := &core.ColumnProfile{
			Name:            stringField(row, "column_name"),
			DataType:        stringField(row, "data_type"),
			IsNullable:      isNullableField(row),
			OrdinalPosition: int(intFieldOr(row, "ordinal_position", 0)),
		}
		if n, ok := optionalInt(row, "character_maximum_length"); ok {
			cp.MaxLength = n
		}
		if n, ok := optionalInt(row, "numeric_precision"); ok {
			cp.NumericPrecision = n
		}
		if n, ok := optionalInt(row, "numeric_scale"); ok {
			cp.NumericScale = n
		}
		if s, ok := optionalString(row, "column_default"); ok {
			cp.DefaultValue = s
		}
		if s, ok := optionalString(row, "column_comment"); ok && *s != "" {
			cp.ColumnComment = s
		}
		if columnKey := stringField(row, "column_key"); columnKey == "UNI" {
			cp.IsUnique = true
		}
		out = append(out, cp)
	}
	return out
}

func isNullableField(row map[string]any) bool {
	v := stringField(row, "is_nullable")
	if v != "" {
		return v == "YES" || v == "yes" || v == "1" || v == "true"
	}
	if b, ok := row["is_nullable"].(bool); ok {
		return b
	}
	return false
}

func intFieldOr(row map[string]any, key string, fallback int64) int64 {
	n, ok := optionalInt64(row, key)
	if !ok {
		return fallback
	}
	return *n
}

func optionalInt(row map[string]any, key string) (*int, bool) {
	n, ok := optionalInt64(row, key)
	if !ok {
		return nil, false
	}
	v := int(*n)
	return &v, true
}
