package dialect

import (
	"fmt"
	"strings"

	"profiler/core"
)

// MSSQL implements Dialect for SQL Server, grounded in the
// faucetdb-faucet example's information_schema-based MSSQL introspector:
// identifiers are bracket-quoted and sampling uses TOP n instead of a
// trailing LIMIT clause.
type MSSQL struct{}

// NewMSSQL returns the SQL Server dialect.
func NewMSSQL() Dialect { return MSSQL{} }

func (MSSQL) Name() core.DatabaseType { return core.DatabaseMSSQL }

func (d MSSQL) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (d MSSQL) TablesQuery(schema string) (string, []any) {
	sql := `
		SELECT t.TABLE_NAME, t.TABLE_TYPE,
		       CAST(ep.value AS NVARCHAR(MAX)) AS table_comment,
		       p.rows AS estimated_rows
		FROM INFORMATION_SCHEMA.TABLES t
		LEFT JOIN sys.tables st ON st.name = t.TABLE_NAME
		LEFT JOIN sys.partitions p ON p.object_id = st.object_id AND p.index_id IN (0, 1)
		LEFT JOIN sys.extended_properties ep ON ep.major_id = st.object_id AND ep.minor_id = 0 AND ep.name = 'MS_Description'
		WHERE t.TABLE_SCHEMA = @p1 AND t.TABLE_TYPE = 'BASE TABLE'
		ORDER BY t.TABLE_NAME`
	return sql, []any{schemaOrDbo(schema)}
}

func (d MSSQL) ColumnsQuery(schema, table string) (string, []any) {
	sql := `
		SELECT
			COLUMN_NAME, DATA_TYPE, IS_NULLABLE, CHARACTER_MAXIMUM_LENGTH,
			NUMERIC_PRECISION, NUMERIC_SCALE, COLUMN_DEFAULT, ORDINAL_POSITION
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = @p1 AND TABLE_NAME = @p2
		ORDER BY ORDINAL_POSITION`
	return sql, []any{schemaOrDbo(schema), table}
}

func (d MSSQL) PrimaryKeysQuery(schema, table string) (string, []any) {
	sql := `
		SELECT kcu.COLUMN_NAME
		FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
			ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME AND tc.TABLE_SCHEMA = kcu.TABLE_SCHEMA
		WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY' AND tc.TABLE_SCHEMA = @p1 AND tc.TABLE_NAME = @p2
		ORDER BY kcu.ORDINAL_POSITION`
	return sql, []any{schemaOrDbo(schema), table}
}

func (d MSSQL) ForeignKeysQuery(schema, table string) (string, []any) {
	sql := `
		SELECT
			kcu.COLUMN_NAME, ccu.TABLE_NAME AS REFERENCED_TABLE_NAME,
			ccu.COLUMN_NAME AS REFERENCED_COLUMN_NAME, tc.CONSTRAINT_NAME
		FROM INFORMATION_SCHEMA.REFERENTIAL_CONSTRAINTS rc
		JOIN INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc ON tc.CONSTRAINT_NAME = rc.CONSTRAINT_NAME
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu ON kcu.CONSTRAINT_NAME = tc.CONSTRAINT_NAME
		JOIN INFORMATION_SCHEMA.CONSTRAINT_COLUMN_USAGE ccu ON ccu.CONSTRAINT_NAME = rc.UNIQUE_CONSTRAINT_NAME
		WHERE tc.TABLE_SCHEMA = @p1 AND tc.TABLE_NAME = @p2
		ORDER BY kcu.ORDINAL_POSITION`
	return sql, []any{schemaOrDbo(schema), table}
}

func (d MSSQL) IndexesQuery(schema, table string) (string, []any) {
	sql := `
		SELECT i.name AS index_name, c.name AS column_name, i.is_unique
		FROM sys.indexes i
		JOIN sys.index_columns ic ON ic.object_id = i.object_id AND ic.index_id = i.index_id
		JOIN sys.columns c ON c.object_id = ic.object_id AND c.column_id = ic.column_id
		JOIN sys.tables t ON t.object_id = i.object_id
		JOIN sys.schemas s ON s.schema_id = t.schema_id
		WHERE i.is_primary_key = 0 AND s.name = @p1 AND t.name = @p2
		ORDER BY i.name, ic.key_ordinal`
	return sql, []any{schemaOrDbo(schema), table}
}

func (d MSSQL) SampleQuery(schema, table string, columns []string, limit int) (string, []any) {
	cols := "*"
	if len(columns) > 0 {
		cols = d.quoteList(columns)
	}
	q := fmt.Sprintf("SELECT TOP %d %s FROM %s", limit, cols, qualify(d.QuoteIdentifier, schemaOrDboStr(schema), table))
	return q, nil
}

func (d MSSQL) CountQuery(schema, table string) (string, []any) {
	return fmt.Sprintf("SELECT COUNT(*) AS row_count FROM %s", qualify(d.QuoteIdentifier, schemaOrDboStr(schema), table)), nil
}

func (d MSSQL) ColumnStatsQuery(schema, table, column string) (string, []any) {
	qcol := d.QuoteIdentifier(column)
	q := fmt.Sprintf(
		`SELECT COUNT(*) AS row_count, COUNT(*) - COUNT(%s) AS null_count, COUNT(DISTINCT %s) AS distinct_count FROM %s`,
		qcol, qcol, qualify(d.QuoteIdentifier, schemaOrDboStr(schema), table),
	)
	return q, nil
}

func (d MSSQL) quoteList(cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = d.QuoteIdentifier(c)
	}
	return strings.Join(out, ", ")
}

func schemaOrDbo(schema string) any { return schemaOrDboStr(schema) }

func schemaOrDboStr(schema string) string {
	if schema == "" {
		return "dbo"
	}
	return schema
}
