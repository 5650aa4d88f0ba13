// Package core holds the data model shared by every profiling component:
// ColumnProfile, TableProfile, SchemaProfile, and the persisted
// IncrementalState. These types are constructed fresh each run and are
// never mutated once a SchemaProfile has been assembled.
package core

import "time"

// DatabaseType identifies the dialect a SchemaProfile was produced from.
type DatabaseType string

const (
	DatabaseMySQL      DatabaseType = "mysql"
	DatabasePostgreSQL DatabaseType = "postgresql"
	DatabaseMSSQL      DatabaseType = "mssql"
	DatabaseUnknown    DatabaseType = "unknown"
)

// ForeignKeyReference describes the target of a foreign key column.
type ForeignKeyReference struct {
	ReferencedTable  string `json:"referenced_table" yaml:"referenced_table"`
	ReferencedColumn string `json:"referenced_column" yaml:"referenced_column"`
	ConstraintName   string `json:"constraint_name" yaml:"constraint_name"`
}

// ColumnProfile describes a single database column.
type ColumnProfile struct {
	Name             string   `json:"name" yaml:"name"`
	DataType         string   `json:"data_type" yaml:"data_type"`
	OrdinalPosition  int      `json:"ordinal_position" yaml:"ordinal_position"`
	IsNullable       bool     `json:"is_nullable" yaml:"is_nullable"`
	IsPrimaryKey     bool     `json:"is_primary_key" yaml:"is_primary_key"`
	IsForeignKey     bool     `json:"is_foreign_key" yaml:"is_foreign_key"`
	IsUnique         bool     `json:"is_unique" yaml:"is_unique"`
	IsIndexed        bool     `json:"is_indexed" yaml:"is_indexed"`
	MaxLength        *int     `json:"max_length,omitempty" yaml:"max_length,omitempty"`
	NumericPrecision *int     `json:"numeric_precision,omitempty" yaml:"numeric_precision,omitempty"`
	NumericScale     *int     `json:"numeric_scale,omitempty" yaml:"numeric_scale,omitempty"`
	DefaultValue     *string  `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	ColumnComment    *string  `json:"column_comment,omitempty" yaml:"column_comment,omitempty"`
	SampleValues     []string `json:"sample_values,omitempty" yaml:"sample_values,omitempty"`
	DetectedPatterns []string `json:"detected_patterns,omitempty" yaml:"detected_patterns,omitempty"`

	FKReference *ForeignKeyReference `json:"foreign_key_reference,omitempty" yaml:"foreign_key_reference,omitempty"`

	// Row-count / null / distinct summary (populated when
	// cfg.ProfilePerformance is enabled). Supplements the base spec with
	// the per-column statistics promised by the PURPOSE section.
	RowCount      *int64 `json:"row_count,omitempty" yaml:"row_count,omitempty"`
	NullCount     *int64 `json:"null_count,omitempty" yaml:"null_count,omitempty"`
	DistinctCount *int64 `json:"distinct_count,omitempty" yaml:"distinct_count,omitempty"`

	// Deterministic, stateless enrichment output (populated by Enricher
	// after cross-table analysis, independent of pattern recognition).
	KeyPhrases       []string `json:"key_phrases,omitempty" yaml:"key_phrases,omitempty"`
	EntityType       string   `json:"entity_type,omitempty" yaml:"entity_type,omitempty"`
	EntityConfidence float64  `json:"entity_confidence,omitempty" yaml:"entity_confidence,omitempty"`
	SemanticTags     []string `json:"semantic_tags,omitempty" yaml:"semantic_tags,omitempty"`
}

// PotentialFKCandidate is a naming-convention hint that a column might be
// an undeclared foreign key, surfaced by MetadataExtractor before
// cross-table analysis has a chance to confirm it against other tables.
type PotentialFKCandidate struct {
	ColumnName string `json:"column_name" yaml:"column_name"`
	DataType   string `json:"data_type" yaml:"data_type"`
	Reason     string `json:"reason" yaml:"reason"`
}

// ForeignKey is one declared FK constraint on a table.
type ForeignKey struct {
	ColumnName       string `json:"column_name" yaml:"column_name"`
	ReferencedTable  string `json:"referenced_table" yaml:"referenced_table"`
	ReferencedColumn string `json:"referenced_column" yaml:"referenced_column"`
	ConstraintName   string `json:"constraint_name" yaml:"constraint_name"`
}

// IndexEntry is one (index, column) pair.
type IndexEntry struct {
	IndexName  string `json:"index_name" yaml:"index_name"`
	ColumnName string `json:"column_name" yaml:"column_name"`
	IsUnique   bool   `json:"is_unique" yaml:"is_unique"`
}

// TableProfile describes a single table.
type TableProfile struct {
	Name               string                  `json:"name" yaml:"name"`
	Schema             *string                 `json:"schema,omitempty" yaml:"schema,omitempty"`
	TableType          string                  `json:"table_type" yaml:"table_type"`
	TableComment       *string                 `json:"table_comment,omitempty" yaml:"table_comment,omitempty"`
	EstimatedRowCount  int64                   `json:"estimated_row_count" yaml:"estimated_row_count"`
	Columns            []*ColumnProfile        `json:"columns" yaml:"columns"`
	PrimaryKeys        []string                `json:"primary_keys" yaml:"primary_keys"`
	ForeignKeys        []*ForeignKey           `json:"foreign_keys" yaml:"foreign_keys"`
	Indexes            []*IndexEntry           `json:"indexes" yaml:"indexes"`
	SampleData         []map[string]any        `json:"sample_data,omitempty" yaml:"sample_data,omitempty"`
	SelfReferencingCol []string                `json:"self_referencing_columns,omitempty" yaml:"self_referencing_columns,omitempty"`
	PotentialFKCands   []*PotentialFKCandidate `json:"potential_fk_candidates,omitempty" yaml:"potential_fk_candidates,omitempty"`
	ProfiledAt         time.Time               `json:"profiled_at" yaml:"profiled_at"`
}

// RelationshipConfidence is the confidence level attached to a heuristic
// (undeclared) relationship.
type RelationshipConfidence string

const (
	ConfidenceLow    RelationshipConfidence = "low"
	ConfidenceMedium RelationshipConfidence = "medium"
	ConfidenceHigh   RelationshipConfidence = "high"
)

// CrossTableRelationship is a declared FK, expressed as a value record so
// tables and columns never hold pointers into one another.
type CrossTableRelationship struct {
	Type           string `json:"type" yaml:"type"`
	FromTable      string `json:"from_table" yaml:"from_table"`
	FromColumn     string `json:"from_column" yaml:"from_column"`
	ToTable        string `json:"to_table" yaml:"to_table"`
	ToColumn       string `json:"to_column" yaml:"to_column"`
	ConstraintName string `json:"constraint_name" yaml:"constraint_name"`
}

// PotentialRelationship is a name-based heuristic FK candidate that the
// database never declared.
type PotentialRelationship struct {
	Type       string                 `json:"type" yaml:"type"`
	FromTable  string                 `json:"from_table" yaml:"from_table"`
	FromColumn string                 `json:"from_column" yaml:"from_column"`
	ToTable    string                 `json:"to_table" yaml:"to_table"`
	ToColumn   string                 `json:"to_column" yaml:"to_column"`
	Confidence RelationshipConfidence `json:"confidence" yaml:"confidence"`
	Reason     string                 `json:"reason" yaml:"reason"`
}

// SchemaProfile is one database snapshot.
type SchemaProfile struct {
	DatabaseName        string                     `json:"database_name" yaml:"database_name"`
	SchemaName          *string                    `json:"schema_name,omitempty" yaml:"schema_name,omitempty"`
	DatabaseType        DatabaseType               `json:"database_type" yaml:"database_type"`
	ProfilingTimestamp  time.Time                  `json:"profiling_timestamp" yaml:"profiling_timestamp"`
	TotalTables         int                        `json:"total_tables" yaml:"total_tables"`
	TotalColumns        int                        `json:"total_columns" yaml:"total_columns"`
	Tables              []*TableProfile            `json:"tables" yaml:"tables"`
	CrossTableRelations []*CrossTableRelationship  `json:"cross_table_relationships" yaml:"cross_table_relationships"`
	PotentialRelations  []*PotentialRelationship   `json:"potential_relationships" yaml:"potential_relationships"`
	PatternSummary      map[string]int             `json:"pattern_summary" yaml:"pattern_summary"`
}

// Recompute refreshes the derived totals. Call it whenever Tables changes
// so TotalTables/TotalColumns stay consistent with the table list.
func (s *SchemaProfile) Recompute() {
	s.TotalTables = len(s.Tables)
	cols := 0
	for _, t := range s.Tables {
		cols += len(t.Columns)
	}
	s.TotalColumns = cols
}
