// Package dialect supplies the per-database SQL templates and identifier
// quoting that the rest of the profiling engine needs to stay
// database-agnostic. Adding a new engine means adding one Dialect value
// here; nothing upstream branches on database type directly.
package dialect

import (
	"fmt"

	"profiler/core"
)

// ColumnRow is one row of the columns_query result, in the shape every
// dialect normalizes its information_schema (or equivalent) response to.
type ColumnRow struct {
	ColumnName      string
	DataType        string
	IsNullable      bool
	MaxLength       *int
	Precision       *int
	Scale           *int
	ColumnDefault   *string
	OrdinalPosition int
	ColumnComment   *string
	// ColumnKey carries a dialect-native primary-key/unique hint when the
	// information schema exposes one directly (MySQL's COLUMN_KEY). Left
	// empty where the dialect has no such shortcut; MetadataExtractor
	// fills is_primary_key/is_unique from the primary-keys and indexes
	// queries in that case.
	ColumnKey string
	Extra     string
}

// TableRow is one row of the tables_query result.
type TableRow struct {
	TableName         string
	TableType         string
	TableComment      *string
	EstimatedRowCount *int64
}

// ForeignKeyRow is one row of the foreign_keys_query result.
type ForeignKeyRow struct {
	ColumnName       string
	ReferencedTable  string
	ReferencedColumn string
	ConstraintName   string
}

// IndexRow is one row of the indexes_query result.
type IndexRow struct {
	IndexName  string
	ColumnName string
	IsUnique   bool
}

// Dialect is the per-database SQL and quoting strategy consumed by
// MetadataExtractor (C2). Implementations never interpolate identifiers
// into SQL text directly — QuoteIdentifier is always used for that, and
// values are always passed as bound parameters.
type Dialect interface {
	Name() core.DatabaseType

	// TablesQuery returns the SQL and params to list base tables.
	TablesQuery(schema string) (sql string, params []any)
	// ColumnsQuery returns the SQL and params to list a table's columns,
	// ordered by ordinal position.
	ColumnsQuery(schema, table string) (sql string, params []any)
	// PrimaryKeysQuery returns the SQL and params for a table's PK
	// columns, in key-ordinal order.
	PrimaryKeysQuery(schema, table string) (sql string, params []any)
	// ForeignKeysQuery returns the SQL and params for a table's declared
	// foreign keys.
	ForeignKeysQuery(schema, table string) (sql string, params []any)
	// IndexesQuery returns the SQL and params for a table's indexes,
	// excluding the primary-key index.
	IndexesQuery(schema, table string) (sql string, params []any)
	// SampleQuery returns the SQL to fetch up to limit sample rows.
	SampleQuery(schema, table string, columns []string, limit int) (sql string, params []any)
	// CountQuery returns "SELECT COUNT(*) AS row_count FROM <qtable>".
	CountQuery(schema, table string) (sql string, params []any)
	// ColumnStatsQuery returns row_count/null_count/distinct_count for a
	// single column in one query.
	ColumnStatsQuery(schema, table, column string) (sql string, params []any)

	// QuoteIdentifier quotes a table/column/schema name per dialect
	// convention. Always used instead of string interpolation.
	QuoteIdentifier(name string) string
}

// Get resolves a dialect by name. An unknown name defaults to Postgres
// syntax; the caller is expected to log a warning (see
// extractor.New), this function never errors or panics.
func Get(name core.DatabaseType) Dialect {
	switch name {
	case core.DatabaseMySQL:
		return NewMySQL()
	case core.DatabaseMSSQL:
		return NewMSSQL()
	case core.DatabasePostgreSQL:
		return NewPostgres()
	default:
		return NewPostgres()
	}
}

func qualify(quote func(string) string, schema, table string) string {
	if schema == "" {
		return quote(table)
	}
	return fmt.Sprintf("%s.%s", quote(schema), quote(table))
}
