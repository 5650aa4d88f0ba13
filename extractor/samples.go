package extractor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"profiler/core"
)

// GetSampleData fetches up to limit rows from table for sample-value
// attachment and pattern detection. A failure here is never fatal to the
// table profile; it simply means no sample_data/sample_values.
func (e *Extractor) GetSampleData(ctx context.Context, table string, limit int) []map[string]any {
	if limit <= 0 {
		return nil
	}
	sql, params := e.dialect.SampleQuery(e.schema, table, nil, limit)
	rows, err := e.connector.ExecuteQuery(ctx, sql, params...)
	if err != nil {
		e.logger.Warn("failed to fetch sample data", zap.String("table", table), zap.Error(err))
		return nil
	}
	return rows
}

// AttachSampleValues copies up to limit string-formatted values per
// column from sampleRows onto the matching ColumnProfile, so the
// PatternRecognizer has material to evaluate without re-querying.
func AttachSampleValues(columns []*core.ColumnProfile, sampleRows []map[string]any, limit int) {
	if limit <= 0 {
		return
	}
	for _, col := range columns {
		values := make([]string, 0, limit)
		for _, row := range sampleRows {
			if len(values) >= limit {
				break
			}
			v, ok := row[col.Name]
			if !ok {
				v, ok = row[strings.ToLower(col.Name)]
			}
			if !ok || v == nil {
				continue
			}
			values = append(values, fmt.Sprintf("%v", v))
		}
		if len(values) > 0 {
			col.SampleValues = values
		}
	}
}
