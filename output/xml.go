package output

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"

	"profiler/core"
)

type xmlFormatter struct{}

// Format serializes profile as XML. encoding/xml cannot marshal Go maps
// directly, so PatternSummary and each row of SampleData (both
// map-typed in the data model) are converted to sorted key/value
// element lists rather than being passed through as-is.
func (xmlFormatter) Format(profile *core.SchemaProfile) (string, error) {
	doc := newXMLSchemaProfile(profile)

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("output: encode xml: %w", err)
	}
	return buf.String(), nil
}

type xmlKV struct {
	Key   string `xml:"key,attr"`
	Value string `xml:"value,attr"`
}

func sortedKV(m map[string]int) []xmlKV {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]xmlKV, 0, len(keys))
	for _, k := range keys {
		out = append(out, xmlKV{Key: k, Value: fmt.Sprint(m[k])})
	}
	return out
}

type xmlRow struct {
	Fields []xmlKV `xml:"field"`
}

func rowToXML(row map[string]any) xmlRow {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]xmlKV, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, xmlKV{Key: k, Value: fmt.Sprint(row[k])})
	}
	return xmlRow{Fields: fields}
}

type xmlForeignKeyReference struct {
	ReferencedTable  string `xml:"referenced_table"`
	ReferencedColumn string `xml:"referenced_column"`
	ConstraintName   string `xml:"constraint_name"`
}

type xmlColumn struct {
	Name             string                  `xml:"name"`
	DataType         string                  `xml:"data_type"`
	OrdinalPosition  int                     `xml:"ordinal_position"`
	IsNullable       bool                    `xml:"is_nullable"`
	IsPrimaryKey     bool                    `xml:"is_primary_key"`
	IsForeignKey     bool                    `xml:"is_foreign_key"`
	IsUnique         bool                    `xml:"is_unique"`
	IsIndexed        bool                    `xml:"is_indexed"`
	MaxLength        *int                    `xml:"max_length,omitempty"`
	NumericPrecision *int                    `xml:"numeric_precision,omitempty"`
	NumericScale     *int                    `xml:"numeric_scale,omitempty"`
	DefaultValue     *string                 `xml:"default_value,omitempty"`
	ColumnComment    *string                 `xml:"column_comment,omitempty"`
	SampleValues     []string                `xml:"sample_values>value,omitempty"`
	DetectedPatterns []string                `xml:"detected_patterns>pattern,omitempty"`
	FKReference      *xmlForeignKeyReference `xml:"foreign_key_reference,omitempty"`
	RowCount         *int64                  `xml:"row_count,omitempty"`
	NullCount        *int64                  `xml:"null_count,omitempty"`
	DistinctCount    *int64                  `xml:"distinct_count,omitempty"`
	KeyPhrases       []string                `xml:"key_phrases>phrase,omitempty"`
	EntityType       string                  `xml:"entity_type,omitempty"`
	EntityConfidence float64                 `xml:"entity_confidence,omitempty"`
	SemanticTags     []string                `xml:"semantic_tags>tag,omitempty"`
}

func newXMLColumn(c *core.ColumnProfile) xmlColumn {
	out := xmlColumn{
		Name:             c.Name,
		DataType:         c.DataType,
		OrdinalPosition:  c.OrdinalPosition,
		IsNullable:       c.IsNullable,
		IsPrimaryKey:     c.IsPrimaryKey,
		IsForeignKey:     c.IsForeignKey,
		IsUnique:         c.IsUnique,
		IsIndexed:        c.IsIndexed,
		MaxLength:        c.MaxLength,
		NumericPrecision: c.NumericPrecision,
		NumericScale:     c.NumericScale,
		DefaultValue:     c.DefaultValue,
		ColumnComment:    c.ColumnComment,
		SampleValues:     c.SampleValues,
		DetectedPatterns: c.DetectedPatterns,
		RowCount:         c.RowCount,
		NullCount:        c.NullCount,
		DistinctCount:    c.DistinctCount,
		KeyPhrases:       c.KeyPhrases,
		EntityType:       c.EntityType,
		EntityConfidence: c.EntityConfidence,
		SemanticTags:     c.SemanticTags,
	}
	if c.FKReference != nil {
		out.FKReference = &xmlForeignKeyReference{
			ReferencedTable:  c.FKReference.ReferencedTable,
			ReferencedColumn: c.FKReference.ReferencedColumn,
			ConstraintName:   c.FKReference.ConstraintName,
		}
	}
	return out
}

type xmlForeignKey struct {
	ColumnName       string `xml:"column_name"`
	ReferencedTable  string `xml:"referenced_table"`
	ReferencedColumn string `xml:"referenced_column"`
	ConstraintName   string `xml:"constraint_name"`
}

type xmlIndexEntry struct {
	IndexName  string `xml:"index_name"`
	ColumnName string `xml:"column_name"`
	IsUnique   bool   `xml:"is_unique"`
}

type xmlPotentialFKCandidate struct {
	ColumnName string `xml:"column_name"`
	DataType   string `xml:"data_type"`
	Reason     string `xml:"reason"`
}

type xmlTable struct {
	Name               string                     `xml:"name"`
	Schema             *string                    `xml:"schema,omitempty"`
	TableType          string                     `xml:"table_type"`
	TableComment       *string                    `xml:"table_comment,omitempty"`
	EstimatedRowCount  int64                      `xml:"estimated_row_count"`
	Columns            []xmlColumn                `xml:"columns>column"`
	PrimaryKeys        []string                   `xml:"primary_keys>column,omitempty"`
	ForeignKeys        []xmlForeignKey            `xml:"foreign_keys>foreign_key,omitempty"`
	Indexes            []xmlIndexEntry            `xml:"indexes>index,omitempty"`
	SampleData         []xmlRow                   `xml:"sample_data>row,omitempty"`
	SelfReferencingCol []string                   `xml:"self_referencing_columns>column,omitempty"`
	PotentialFKCands   []xmlPotentialFKCandidate  `xml:"potential_fk_candidates>candidate,omitempty"`
	ProfiledAt         string                     `xml:"profiled_at"`
}

func newXMLTable(t *core.TableProfile) xmlTable {
	out := xmlTable{
		Name:              t.Name,
		Schema:            t.Schema,
		TableType:         t.TableType,
		TableComment:      t.TableComment,
		EstimatedRowCount: t.EstimatedRowCount,
		PrimaryKeys:       t.PrimaryKeys,
		SelfReferencingCol: t.SelfReferencingCol,
		ProfiledAt:        t.ProfiledAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for _, c := range t.Columns {
		out.Columns = append(out.Columns, newXMLColumn(c))
	}
	for _, fk := range t.ForeignKeys {
		out.ForeignKeys = append(out.ForeignKeys, xmlForeignKey{
			ColumnName:       fk.ColumnName,
			ReferencedTable:  fk.ReferencedTable,
			ReferencedColumn: fk.ReferencedColumn,
			ConstraintName:   fk.ConstraintName,
		})
	}
	for _, idx := range t.Indexes {
		out.Indexes = append(out.Indexes, xmlIndexEntry{
			IndexName:  idx.IndexName,
			ColumnName: idx.ColumnName,
			IsUnique:   idx.IsUnique,
		})
	}
	for _, row := range t.SampleData {
		out.SampleData = append(out.SampleData, rowToXML(row))
	}
	for _, cand := range t.PotentialFKCands {
		out.PotentialFKCands = append(out.PotentialFKCands, xmlPotentialFKCandidate{
			ColumnName: cand.ColumnName,
			DataType:   cand.DataType,
			Reason:     cand.Reason,
		})
	}
	return out
}

type xmlCrossTableRelationship struct {
	Type           string `xml:"type"`
	FromTable      string `xml:"from_table"`
	FromColumn     string `xml:"from_column"`
	ToTable        string `xml:"to_table"`
	ToColumn       string `xml:"to_column"`
	ConstraintName string `xml:"constraint_name"`
}

type xmlPotentialRelationship struct {
	Type       string `xml:"type"`
	FromTable  string `xml:"from_table"`
	FromColumn string `xml:"from_column"`
	ToTable    string `xml:"to_table"`
	ToColumn   string `xml:"to_column"`
	Confidence string `xml:"confidence"`
	Reason     string `xml:"reason"`
}

type xmlSchemaProfile struct {
	XMLName             xml.Name                    `xml:"schema_profile"`
	DatabaseName        string                      `xml:"database_name"`
	SchemaName          *string                     `xml:"schema_name,omitempty"`
	DatabaseType        string                      `xml:"database_type"`
	ProfilingTimestamp  string                      `xml:"profiling_timestamp"`
	TotalTables         int                         `xml:"total_tables"`
	TotalColumns        int                         `xml:"total_columns"`
	Tables              []xmlTable                  `xml:"tables>table"`
	CrossTableRelations []xmlCrossTableRelationship `xml:"cross_table_relationships>relationship,omitempty"`
	PotentialRelations  []xmlPotentialRelationship  `xml:"potential_relationships>relationship,omitempty"`
	PatternSummary      []xmlKV                     `xml:"pattern_summary>pattern,omitempty"`
}

func newXMLSchemaProfile(profile *core.SchemaProfile) xmlSchemaProfile {
	doc := xmlSchemaProfile{
		DatabaseName:       profile.DatabaseName,
		SchemaName:         profile.SchemaName,
		DatabaseType:       string(profile.DatabaseType),
		ProfilingTimestamp: profile.ProfilingTimestamp.Format("2006-01-02T15:04:05Z07:00"),
		TotalTables:        profile.TotalTables,
		TotalColumns:       profile.TotalColumns,
		PatternSummary:     sortedKV(profile.PatternSummary),
	}
	for _, t := range profile.Tables {
		doc.Tables = append(doc.Tables, newXMLTable(t))
	}
	for _, rel := range profile.CrossTableRelations {
		doc.CrossTableRelations = append(doc.CrossTableRelations, xmlCrossTableRelationship{
			Type:           rel.Type,
			FromTable:      rel.FromTable,
			FromColumn:     rel.FromColumn,
			ToTable:        rel.ToTable,
			ToColumn:       rel.ToColumn,
			ConstraintName: rel.ConstraintName,
		})
	}
	for _, rel := range profile.PotentialRelations {
		doc.PotentialRelations = append(doc.PotentialRelations, xmlPotentialRelationship{
			Type:       rel.Type,
			FromTable:  rel.FromTable,
			FromColumn: rel.FromColumn,
			ToTable:    rel.ToTable,
			ToColumn:   rel.ToColumn,
			Confidence: string(rel.Confidence),
			Reason:     rel.Reason,
		})
	}
	return doc
}
