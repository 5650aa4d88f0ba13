// Package extractor implements MetadataExtractor (C2): it drives a
// dialect's query templates against a Connector to build the raw
// metadata records — columns, keys, indexes, samples, row counts — that
// CoreProfiler assembles into a TableProfile.
//
// Every query is attempted independently. A failure on one sub-query
// degrades that sub-query's contribution to an empty/zero value and is
// logged; it never aborts the table. GetCompleteTableMetadata therefore
// always returns a well-formed struct, per the teacher's own pattern in
// internal/introspect/mysql of isolating each information_schema query
// behind its own function and error return.
package extractor

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"profiler/core"
	"profiler/dialect"
)

// Extractor is the C2 MetadataExtractor.
type Extractor struct {
	connector core.Connector
	dialect   dialect.Dialect
	schema    string
	logger    *zap.Logger
	opts      Options
}

// New returns an Extractor bound to one database connection and dialect.
// An unknown databaseType defaults to Postgres syntax with a logged
// warning.
func New(connector core.Connector, databaseType core.DatabaseType, schema string, opts Options, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := dialect.Get(databaseType)
	if databaseType != core.DatabaseMySQL && databaseType != core.DatabasePostgreSQL && databaseType != core.DatabaseMSSQL {
		logger.Warn("unknown database dialect, defaulting to postgres syntax", zap.String("database_type", string(databaseType)))
	}
	return &Extractor{connector: connector, dialect: d, schema: schema, logger: logger, opts: opts}
}

// GetTablesInfo lists every base table in the configured schema. A query
// failure is logged and yields a nil list rather than an error; a
// successful query that finds no tables yields an empty, non-nil list.
func (e *Extractor) GetTablesInfo(ctx context.Context) []dialect.TableRow {
	sql, params := e.dialect.TablesQuery(e.schema)
	rows, err := e.connector.ExecuteQuery(ctx, sql, params...)
	if err != nil {
		e.logger.Error("failed to list tables", zap.Error(err))
		return nil
	}

	out := make([]dialect.TableRow, 0, len(rows))
	for _, row := range rows {
		tr := dialect.TableRow{
			TableName: stringField(row, "table_name"),
			TableType: stringOr(stringField(row, "table_type"), "BASE TABLE"),
		}
		if c, ok := optionalString(row, "table_comment"); ok {
			tr.TableComment = c
		}
		if n, ok := optionalInt64(row, "estimated_rows"); ok {
			tr.EstimatedRowCount = n
		} else if n, ok := optionalInt64(row, "table_rows"); ok {
			tr.EstimatedRowCount = n
		}
		out = append(out, tr)
	}
	return out
}

// fkCandidatePattern matches column names that look like an undeclared
// foreign key by suffix convention (_id, _key, _code, _ref, _fk).
var fkCandidatePattern = regexp.MustCompile(`(?i)_(id|key|code|ref|fk)$`)

func stringField(row map[string]any, key string) string {
	v, ok := row[strings.ToLower(key)]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return ""
	}
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func optionalString(row map[string]any, key string) (*string, bool) {
	v, ok := row[strings.ToLower(key)]
	if !ok || v == nil {
		return nil, false
	}
	s := stringField(row, key)
	return &s, true
}

func optionalInt64(row map[string]any, key string) (*int64, bool) {
	v, ok := row[strings.ToLower(key)]
	if !ok || v == nil {
		return nil, false
	}
	n, ok := toInt64(v)
	if !ok {
		return nil, false
	}
	return &n, true
}

func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int32:
		return int64(t), true
	case float64:
		return int64(t), true
	case []byte:
		return parseInt64(string(t))
	case string:
		return parseInt64(t)
	default:
		return 0, false
	}
}

func parseInt64(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	var n int64
	neg := false
	for i, r := range s {
		if i == 0 && r == '-' {
			neg = true
			continue
		}
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int64(r-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}
