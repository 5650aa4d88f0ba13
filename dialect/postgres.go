package dialect

import (
	"fmt"
	"strings"

	"profiler/core"
)

// Postgres implements Dialect for PostgreSQL. Identifiers are
// double-quoted; parameters are bound positionally ($1, $2, ...) per the
// pgx/lib/pq convention used across the example pack.
type Postgres struct{}

// NewPostgres returns the PostgreSQL dialect.
func NewPostgres() Dialect { return Postgres{} }

func (Postgres) Name() core.DatabaseType { return core.DatabasePostgreSQL }

func (d Postgres) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (d Postgres) TablesQuery(schema string) (string, []any) {
	sql := `
		SELECT c.relname AS table_name, 'BASE TABLE' AS table_type,
		       obj_description(c.oid) AS table_comment,
		       c.reltuples::bigint AS estimated_rows
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relkind = 'r'
		ORDER BY c.relname`
	return sql, []any{schemaOrPublic(schema)}
}

func (d Postgres) ColumnsQuery(schema, table string) (string, []any) {
	sql := `
		SELECT
			column_name, data_type, is_nullable, character_maximum_length,
			numeric_precision, numeric_scale, column_default, ordinal_position,
			col_description((table_schema || '.' || table_name)::regclass::oid, ordinal_position) AS column_comment
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position`
	return sql, []any{schemaOrPublic(schema), table}
}

func (d Postgres) PrimaryKeysQuery(schema, table string) (string, []any) {
	sql := `
		SELECT a.attname AS column_name
		FROM pg_index i
		JOIN pg_attribute a ON a.attrelid = i.indrelid AND a.attnum = ANY(i.indkey)
		JOIN pg_class c ON c.oid = i.indrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE i.indisprimary AND n.nspname = $1 AND c.relname = $2
		ORDER BY array_position(i.indkey, a.attnum)`
	return sql, []any{schemaOrPublic(schema), table}
}

func (d Postgres) ForeignKeysQuery(schema, table string) (string, []any) {
	sql := `
		SELECT
			kcu.column_name, ccu.table_name AS referenced_table,
			ccu.column_name AS referenced_column, tc.constraint_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage ccu
			ON ccu.constraint_name = tc.constraint_name AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1 AND tc.table_name = $2
		ORDER BY kcu.ordinal_position`
	return sql, []any{schemaOrPublic(schema), table}
}

func (d Postgres) IndexesQuery(schema, table string) (string, []any) {
	sql := `
		SELECT i.relname AS index_name, a.attname AS column_name, ix.indisunique AS is_unique
		FROM pg_index ix
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = ANY(ix.indkey)
		WHERE NOT ix.indisprimary AND n.nspname = $1 AND t.relname = $2
		ORDER BY i.relname`
	return sql, []any{schemaOrPublic(schema), table}
}

func (d Postgres) SampleQuery(schema, table string, columns []string, limit int) (string, []any) {
	cols := "*"
	if len(columns) > 0 {
		cols = d.quoteList(columns)
	}
	q := fmt.Sprintf("SELECT %s FROM %s LIMIT %d", cols, qualify(d.QuoteIdentifier, schemaOrPublicStr(schema), table), limit)
	return q, nil
}

func (d Postgres) CountQuery(schema, table string) (string, []any) {
	return fmt.Sprintf("SELECT COUNT(*) AS row_count FROM %s", qualify(d.QuoteIdentifier, schemaOrPublicStr(schema), table)), nil
}

func (d Postgres) ColumnStatsQuery(schema, table, column string) (string, []any) {
	qcol := d.QuoteIdentifier(column)
	q := fmt.Sprintf(
		`SELECT COUNT(*) AS row_count, COUNT(*) - COUNT(%s) AS null_count, COUNT(DISTINCT %s) AS distinct_count FROM %s`,
		qcol, qcol, qualify(d.QuoteIdentifier, schemaOrPublicStr(schema), table),
	)
	return q, nil
}

func (d Postgres) quoteList(cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = d.QuoteIdentifier(c)
	}
	return strings.Join(out, ", ")
}

func schemaOrPublic(schema string) any {
	return schemaOrPublicStr(schema)
}

func schemaOrPublicStr(schema string) string {
	if schema == "" {
		return "public"
	}
	return schema
}
