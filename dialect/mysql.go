package dialect

import (
	"fmt"
	"strings"

	"profiler/core"
)

// MySQL implements Dialect for MySQL/MariaDB, grounded in the
// information_schema queries used by the teacher's
// internal/introspect/mysql package: tables/columns/indexes are all read
// from information_schema with the current database selected via
// DATABASE(), and identifiers are backtick-quoted.
type MySQL struct{}

// NewMySQL returns the MySQL dialect.
func NewMySQL() Dialect { return MySQL{} }

func (MySQL) Name() core.DatabaseType { return core.DatabaseMySQL }

func (d MySQL) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (d MySQL) TablesQuery(schema string) (string, []any) {
	sql := `
		SELECT table_name, table_type, table_comment, table_rows
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name`
	return sql, []any{schema}
}

func (d MySQL) ColumnsQuery(schema, table string) (string, []any) {
	sql := `
		SELECT
			column_name, data_type, is_nullable, character_maximum_length,
			numeric_precision, numeric_scale, column_default, ordinal_position,
			column_comment, column_key, extra
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position`
	return sql, []any{schema, table}
}

func (d MySQL) PrimaryKeysQuery(schema, table string) (string, []any) {
	sql := `
		SELECT column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ? AND table_name = ? AND constraint_name = 'PRIMARY'
		ORDER BY ordinal_position`
	return sql, []any{schema, table}
}

func (d MySQL) ForeignKeysQuery(schema, table string) (string, []any) {
	sql := `
		SELECT column_name, referenced_table_name, referenced_column_name, constraint_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ? AND table_name = ? AND referenced_table_name IS NOT NULL
		ORDER BY ordinal_position`
	return sql, []any{schema, table}
}

func (d MySQL) IndexesQuery(schema, table string) (string, []any) {
	sql := `
		SELECT index_name, column_name, non_unique
		FROM information_schema.statistics
		WHERE table_schema = ? AND table_name = ? AND index_name != 'PRIMARY'
		ORDER BY index_name, seq_in_index`
	return sql, []any{schema, table}
}

func (d MySQL) SampleQuery(schema, table string, columns []string, limit int) (string, []any) {
	cols := "*"
	if len(columns) > 0 {
		cols = d.quoteList(columns)
	}
	q := fmt.Sprintf("SELECT %s FROM %s LIMIT %d", cols, qualify(d.QuoteIdentifier, schema, table), limit)
	return q, nil
}

func (d MySQL) CountQuery(schema, table string) (string, []any) {
	return fmt.Sprintf("SELECT COUNT(*) AS row_count FROM %s", qualify(d.QuoteIdentifier, schema, table)), nil
}

func (d MySQL) ColumnStatsQuery(schema, table, column string) (string, []any) {
	qcol := d.QuoteIdentifier(column)
	q := fmt.Sprintf(
		`SELECT COUNT(*) AS row_count, COUNT(*) - COUNT(%s) AS null_count, COUNT(DISTINCT %s) AS distinct_count FROM %s`,
		qcol, qcol, qualify(d.QuoteIdentifier, schema, table),
	)
	return q, nil
}

func (d MySQL) quoteList(cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = d.QuoteIdentifier(c)
	}
	return strings.Join(out, ", ")
}
