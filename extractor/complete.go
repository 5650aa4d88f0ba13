package extractor

import (
	"context"
	"time"

	"profiler/core"
	"profiler/dialect"
)

// Options controls which optional sub-queries GetCompleteTableMetadata
// issues. It mirrors the relevant subset of config.ProfilerConfig without
// importing it, so extractor has no dependency on the config package.
type Options struct {
	IncludeSampleData  bool
	SampleDataLimit    int
	ProfilePerformance bool
}

// GetCompleteTableMetadata composes every other Get* method into one
// TableProfile. Each sub-query is isolated: a failure in indexes or
// sample data never prevents the columns/keys that did succeed from
// being returned.
func (e *Extractor) GetCompleteTableMetadata(ctx context.Context, table dialect.TableRow, schemaName *string) *core.TableProfile {
	columns := e.GetColumnProfiles(ctx, table.TableName)
	primaryKeys := e.GetPrimaryKeys(ctx, table.TableName)
	pkSet := make(map[string]bool, len(primaryKeys))
	for _, pk := range primaryKeys {
		pkSet[pk] = true
	}
	fks := e.GetForeignKeys(ctx, table.TableName)
	fkByCol := make(map[string]*core.ForeignKey, len(fks))
	for _, fk := range fks {
		fkByCol[fk.ColumnName] = fk
	}
	indexes := e.GetIndexes(ctx, table.TableName)
	indexedCols := make(map[string]bool)
	uniqueCols := make(map[string]bool)
	for _, idx := range indexes {
		indexedCols[idx.ColumnName] = true
		if idx.IsUnique {
			uniqueCols[idx.ColumnName] = true
		}
	}

	var selfRef []string
	for _, col := range columns {
		col.IsPrimaryKey = pkSet[col.Name]
		col.IsIndexed = indexedCols[col.Name] || col.IsPrimaryKey
		if uniqueCols[col.Name] || col.IsPrimaryKey {
			col.IsUnique = true
		}
		if fk, ok := fkByCol[col.Name]; ok {
			col.IsForeignKey = true
			col.FKReference = &core.ForeignKeyReference{
				ReferencedTable:  fk.ReferencedTable,
				ReferencedColumn: fk.ReferencedColumn,
				ConstraintName:   fk.ConstraintName,
			}
			if fk.ReferencedTable == table.TableName {
				selfRef = append(selfRef, col.Name)
			}
		}
	}

	rowCount := e.GetRowCount(ctx, table.TableName)

	var sampleRows []map[string]any
	if e.opts.IncludeSampleData {
		limit := e.opts.SampleDataLimit
		if limit <= 0 {
			limit = 5
		}
		sampleRows = e.GetSampleData(ctx, table.TableName, limit)
		AttachSampleValues(columns, sampleRows, limit)
	}

	if e.opts.ProfilePerformance {
		for _, col := range columns {
			if stats, ok := e.GetColumnStats(ctx, table.TableName, col.Name); ok {
				col.RowCount = &stats.RowCount
				col.NullCount = &stats.NullCount
				col.DistinctCount = &stats.DistinctCount
			}
		}
	}

	tp := &core.TableProfile{
		Name:               table.TableName,
		Schema:             schemaName,
		TableType:          table.TableType,
		TableComment:       table.TableComment,
		EstimatedRowCount:  rowCount,
		Columns:            columns,
		PrimaryKeys:        primaryKeys,
		ForeignKeys:        fks,
		Indexes:            indexes,
		SampleData:         sampleRows,
		SelfReferencingCol: selfRef,
		PotentialFKCands:   PotentialFKCandidates(columns, fks),
		ProfiledAt:         time.Now().UTC(),
	}
	return tp
}
