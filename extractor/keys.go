package extractor

import (
	"context"

	"go.uber.org/zap"

	"profiler/core"
)

// GetPrimaryKeys fetches the primary-key column names for table, in
// key-ordinal order.
func (e *Extractor) GetPrimaryKeys(ctx context.Context, table string) []string {
	sql, params := e.dialect.PrimaryKeysQuery(e.schema, table)
	rows, err := e.connector.ExecuteQuery(ctx, sql, params...)
	if err != nil {
		e.logger.Error("failed to fetch primary keys", zap.String("table", table), zap.Error(err))
		return nil
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, stringField(row, "column_name"))
	}
	return out
}

// GetForeignKeys fetches the declared foreign-key constraints on table.
func (e *Extractor) GetForeignKeys(ctx context.Context, table string) []*core.ForeignKey {
	sql, params := e.dialect.ForeignKeysQuery(e.schema, table)
	rows, err := e.connector.ExecuteQuery(ctx, sql, params...)
	if err != nil {
		e.logger.Error("failed to fetch foreign keys", zap.String("table", table), zap.Error(err))
		return nil
	}
	out := make([]*core.ForeignKey, 0, len(rows))
	for _, row := range rows {
		out = append(out, &core.ForeignKey{
			ColumnName:       stringField(row, "column_name"),
			ReferencedTable:  stringField(row, "referenced_table_name"),
			ReferencedColumn: stringField(row, "referenced_column_name"),
			ConstraintName:   stringField(row, "constraint_name"),
		})
	}
	return out
}

// PotentialFKCandidates scans columns not already covered by a declared
// foreign key and flags the ones whose name matches the _id/_key/_code/
// _ref/_fk suffix convention.
func PotentialFKCandidates(columns []*core.ColumnProfile, declared []*core.ForeignKey) []*core.PotentialFKCandidate {
	declaredCols := make(map[string]bool, len(declared))
	for _, fk := range declared {
		declaredCols[fk.ColumnName] = true
	}

	var out []*core.PotentialFKCandidate
	for _, col := range columns {
		if col.IsPrimaryKey || declaredCols[col.Name] {
			continue
		}
		if fkCandidatePattern.MatchString(col.Name) {
			out = append(out, &core.PotentialFKCandidate{
				ColumnName: col.Name,
				DataType:   col.DataType,
				Reason:     "column name suffix matches foreign-key naming convention",
			})
		}
	}
	return out
}
