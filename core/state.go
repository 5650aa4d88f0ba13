package core

import "time"

// ProfileVersion is the current on-disk IncrementalState schema version.
const ProfileVersion = "2.0"

// TableChangeInfo records the last-known fingerprint of a table.
type TableChangeInfo struct {
	TableName        string     `json:"table_name" yaml:"table_name"`
	SchemaHash       string     `json:"schema_hash" yaml:"schema_hash"`
	RowCount         int64      `json:"row_count" yaml:"row_count"`
	LastModified     *time.Time `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	StructureChanged bool       `json:"structure_changed" yaml:"structure_changed"`
	DataChanged      bool       `json:"data_changed" yaml:"data_changed"`
}

// IncrementalState is the persisted state used to skip re-profiling
// unchanged tables between runs.
type IncrementalState struct {
	DatabaseName         string                      `json:"database_name" yaml:"database_name"`
	SchemaName           *string                     `json:"schema_name,omitempty" yaml:"schema_name,omitempty"`
	ProfileVersion       string                      `json:"profile_version" yaml:"profile_version"`
	LastProfileTimestamp time.Time                   `json:"last_profile_timestamp" yaml:"last_profile_timestamp"`
	TableStates          map[string]*TableChangeInfo `json:"table_states" yaml:"table_states"`
}

// NewIncrementalState returns an empty state for a fresh database.
func NewIncrementalState(databaseName string, schemaName *string) *IncrementalState {
	return &IncrementalState{
		DatabaseName:   databaseName,
		SchemaName:     schemaName,
		ProfileVersion: ProfileVersion,
		TableStates:    make(map[string]*TableChangeInfo),
	}
}
