// Package profile implements CoreProfiler (C4): profiling one table by
// composing MetadataExtractor and PatternRecognizer, plus the
// once-per-run cross-table analysis that correlates every profiled
// table afterward.
package profile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"profiler/core"
	"profiler/dialect"
	"profiler/extractor"
)

// Recognizer is the subset of pattern.Recognizer CoreProfiler depends on.
type Recognizer interface {
	DetectPatterns(sampleValues []string, fieldName string) []string
}

// Profiler is the C4 CoreProfiler.
type Profiler struct {
	extractor                 *extractor.Extractor
	recognizer                Recognizer
	includeSampleData         bool
	patternRecognitionEnabled bool
	logger                    *zap.Logger
}

// New returns a Profiler. recognizer may be nil, in which case pattern
// detection is skipped regardless of patternRecognitionEnabled.
func New(ex *extractor.Extractor, recognizer Recognizer, includeSampleData, patternRecognitionEnabled bool, logger *zap.Logger) *Profiler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Profiler{
		extractor:                 ex,
		recognizer:                recognizer,
		includeSampleData:         includeSampleData,
		patternRecognitionEnabled: patternRecognitionEnabled,
		logger:                    logger,
	}
}

// ProfileTable profiles one table end-to-end. It never returns an error:
// a catastrophic failure in metadata extraction yields a minimal profile
// with empty lists and row_count 0 rather than aborting the run.
func (p *Profiler) ProfileTable(ctx context.Context, table dialect.TableRow, schemaName *string) (tp *core.TableProfile) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic while profiling table, returning minimal profile",
				zap.String("table", table.TableName), zap.Any("panic", r))
			tp = minimalProfile(table.TableName, schemaName)
		}
	}()

	tp = p.extractor.GetCompleteTableMetadata(ctx, table, schemaName)
	if tp == nil {
		return minimalProfile(table.TableName, schemaName)
	}

	if !p.includeSampleData {
		tp.SampleData = nil
		for _, col := range tp.Columns {
			col.SampleValues = nil
		}
	}

	if p.patternRecognitionEnabled && p.recognizer != nil {
		for _, col := range tp.Columns {
			col.DetectedPatterns = p.detectColumnPatterns(col)
		}
	}

	return tp
}

func (p *Profiler) detectColumnPatterns(col *core.ColumnProfile) (patterns []string) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic during pattern detection, column proceeds with no patterns",
				zap.String("column", col.Name), zap.Any("panic", r))
			patterns = nil
		}
	}()
	return p.recognizer.DetectPatterns(col.SampleValues, col.Name)
}

func minimalProfile(name string, schemaName *string) *core.TableProfile {
	return &core.TableProfile{
		Name:        name,
		Schema:      schemaName,
		TableType:   "BASE TABLE",
		Columns:     nil,
		PrimaryKeys: nil,
		ForeignKeys: nil,
		Indexes:     nil,
		ProfiledAt:  time.Now().UTC(),
	}
}

// AnalyzeSchema runs the once-per-run cross-table analysis: declared
// foreign keys become cross_table_relationships, naming-convention
// heuristics become potential_relationships, and pattern occurrences are
// histogrammed into pattern_summary.
func AnalyzeSchema(profile *core.SchemaProfile) {
	profile.CrossTableRelations = crossTableRelationships(profile.Tables)
	profile.PotentialRelations = potentialRelationships(profile.Tables)
	profile.PatternSummary = patternSummary(profile.Tables)
}

func crossTableRelationships(tables []*core.TableProfile) []*core.CrossTableRelationship {
	var out []*core.CrossTableRelationship
	for _, t := range tables {
		for _, fk := range t.ForeignKeys {
			out = append(out, &core.CrossTableRelationship{
				Type:           "foreign_key",
				FromTable:      t.Name,
				FromColumn:     fk.ColumnName,
				ToTable:        fk.ReferencedTable,
				ToColumn:       fk.ReferencedColumn,
				ConstraintName: fk.ConstraintName,
			})
		}
	}
	return out
}

func potentialRelationships(tables []*core.TableProfile) []*core.PotentialRelationship {
	firstPK := make(map[string]string, len(tables))
	for _, t := range tables {
		if len(t.PrimaryKeys) > 0 {
			firstPK[t.Name] = t.PrimaryKeys[0]
		}
	}

	declaredCols := make(map[string]map[string]bool, len(tables))
	pkCols := make(map[string]map[string]bool, len(tables))
	for _, t := range tables {
		declared := make(map[string]bool)
		for _, fk := range t.ForeignKeys {
			declared[fk.ColumnName] = true
		}
		declaredCols[t.Name] = declared

		pks := make(map[string]bool, len(t.PrimaryKeys))
		for _, pk := range t.PrimaryKeys {
			pks[pk] = true
		}
		pkCols[t.Name] = pks
	}

	seen := make(map[string]bool)
	var out []*core.PotentialRelationship
	for _, from := range tables {
		for _, col := range from.Columns {
			if pkCols[from.Name][col.Name] || declaredCols[from.Name][col.Name] {
				continue
			}
			colLower := strings.ToLower(col.Name)
			for _, to := range tables {
				if to.Name == from.Name {
					continue
				}
				pkCol, hasPK := firstPK[to.Name]
				candidates := []string{
					strings.ToLower(to.Name) + "_id",
					strings.ToLower(to.Name) + "_key",
				}
				if hasPK {
					candidates = append(candidates, strings.ToLower(to.Name)+"_"+strings.ToLower(pkCol), strings.ToLower(pkCol))
				}

				matched := false
				for _, c := range candidates {
					if colLower == c {
						matched = true
						break
					}
				}
				if !matched {
					continue
				}

				key := fmt.Sprintf("%s|%s|%s|%s", from.Name, col.Name, to.Name, pkCol)
				if pkCol == "" {
					key = fmt.Sprintf("%s|%s|%s|", from.Name, col.Name, to.Name)
				}
				if seen[key] {
					continue
				}
				seen[key] = true

				toCol := pkCol
				if toCol == "" {
					toCol = "id"
				}
				out = append(out, &core.PotentialRelationship{
					Type:       "potential_foreign_key",
					FromTable:  from.Name,
					FromColumn: col.Name,
					ToTable:    to.Name,
					ToColumn:   toCol,
					Confidence: core.ConfidenceMedium,
					Reason:     "Column name pattern suggests relationship",
				})
			}
		}
	}
	return out
}

func patternSummary(tables []*core.TableProfile) map[string]int {
	summary := make(map[string]int)
	for _, t := range tables {
		for _, col := range t.Columns {
			for _, p := range col.DetectedPatterns {
				summary[p]++
			}
		}
	}
	return summary
}
