package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig is the on-disk shape, shared by the JSON and TOML loaders.
// It mirrors ProfilerConfig field-for-field using snake_case keys so a
// hand-written config file reads the same regardless of format.
type fileConfig struct {
	DatabaseName string  `json:"database_name" toml:"database_name"`
	SchemaName   *string `json:"schema_name" toml:"schema_name"`

	Strategy          string `json:"strategy" toml:"strategy"`
	MaxWorkers        int    `json:"max_workers" toml:"max_workers"`
	ParallelThreshold int    `json:"parallel_threshold" toml:"parallel_threshold"`

	IncrementalEnabled   bool   `json:"incremental_enabled" toml:"incremental_enabled"`
	IncrementalStatePath string `json:"incremental_state_path" toml:"incremental_state_path"`

	DataChangeThreshold float64 `json:"data_change_threshold" toml:"data_change_threshold"`
	ForceFullProfile    bool    `json:"force_full_profile" toml:"force_full_profile"`

	MaxConnections int `json:"max_connections" toml:"max_connections"`
	QueryTimeout   int `json:"query_timeout" toml:"query_timeout"`
	MemoryLimitMB  int `json:"memory_limit_mb" toml:"memory_limit_mb"`

	PatternRecognitionEnabled bool   `json:"pattern_recognition_enabled" toml:"pattern_recognition_enabled"`
	PatternsConfigPath        string `json:"patterns_config_path" toml:"patterns_config_path"`

	IncludeSampleData bool `json:"include_sample_data" toml:"include_sample_data"`
	SampleDataLimit   int  `json:"sample_data_limit" toml:"sample_data_limit"`

	ValidateRelationships bool `json:"validate_relationships" toml:"validate_relationships"`
	ValidatePatterns      bool `json:"validate_patterns" toml:"validate_patterns"`
	StrictMode            bool `json:"strict_mode" toml:"strict_mode"`

	ExportFormat string `json:"export_format" toml:"export_format"`
	OutputPath   string `json:"output_path" toml:"output_path"`

	LogLevel           string `json:"log_level" toml:"log_level"`
	DebugMode          bool   `json:"debug_mode" toml:"debug_mode"`
	ProfilePerformance bool   `json:"profile_performance" toml:"profile_performance"`

	DatabaseType string `json:"database_type" toml:"database_type"`
}

// LoadFile reads a ProfilerConfig from path, choosing JSON or TOML by
// file extension (.json vs .toml), applying Default() as the base so
// the file only needs to set the fields it wants to override, then
// validating via New.
func LoadFile(path string) (*ProfilerConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}

	fc := fileConfigFromDefault(Default())
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("config: parse toml %q: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("config: parse json %q: %w", path, err)
		}
	}

	return New(fc.toProfilerConfig())
}

func fileConfigFromDefault(d ProfilerConfig) fileConfig {
	var schemaName *string
	if d.SchemaName != nil {
		v := *d.SchemaName
		schemaName = &v
	}
	return fileConfig{
		SchemaName:                schemaName,
		Strategy:                  string(d.Strategy),
		MaxWorkers:                d.MaxWorkers,
		ParallelThreshold:         d.ParallelThreshold,
		IncrementalEnabled:        d.IncrementalEnabled,
		IncrementalStatePath:      d.IncrementalStatePath,
		DataChangeThreshold:       d.DataChangeThreshold,
		ForceFullProfile:          d.ForceFullProfile,
		MaxConnections:            d.MaxConnections,
		QueryTimeout:              d.QueryTimeout,
		MemoryLimitMB:             d.MemoryLimitMB,
		PatternRecognitionEnabled: d.PatternRecognitionEnabled,
		PatternsConfigPath:        d.PatternsConfigPath,
		IncludeSampleData:         d.IncludeSampleData,
		SampleDataLimit:           d.SampleDataLimit,
		ValidateRelationships:     d.ValidateRelationships,
		ValidatePatterns:          d.ValidatePatterns,
		StrictMode:                d.StrictMode,
		ExportFormat:              string(d.ExportFormat),
		OutputPath:                d.OutputPath,
		LogLevel:                  string(d.LogLevel),
		DebugMode:                 d.DebugMode,
		ProfilePerformance:        d.ProfilePerformance,
		DatabaseType:              string(d.DatabaseType),
	}
}

func (fc fileConfig) toProfilerConfig() ProfilerConfig {
	return ProfilerConfig{
		DatabaseName:              fc.DatabaseName,
		SchemaName:                fc.SchemaName,
		Strategy:                  Strategy(fc.Strategy),
		MaxWorkers:                fc.MaxWorkers,
		ParallelThreshold:         fc.ParallelThreshold,
		IncrementalEnabled:        fc.IncrementalEnabled,
		IncrementalStatePath:      fc.IncrementalStatePath,
		DataChangeThreshold:       fc.DataChangeThreshold,
		ForceFullProfile:          fc.ForceFullProfile,
		MaxConnections:            fc.MaxConnections,
		QueryTimeout:              fc.QueryTimeout,
		MemoryLimitMB:             fc.MemoryLimitMB,
		PatternRecognitionEnabled: fc.PatternRecognitionEnabled,
		PatternsConfigPath:        fc.PatternsConfigPath,
		IncludeSampleData:         fc.IncludeSampleData,
		SampleDataLimit:           fc.SampleDataLimit,
		ValidateRelationships:     fc.ValidateRelationships,
		ValidatePatterns:          fc.ValidatePatterns,
		StrictMode:                fc.StrictMode,
		ExportFormat:              ExportFormat(fc.ExportFormat),
		OutputPath:                fc.OutputPath,
		LogLevel:                  LogLevel(fc.LogLevel),
		DebugMode:                 fc.DebugMode,
		ProfilePerformance:        fc.ProfilePerformance,
		DatabaseType:              dbTypeFromString(fc.DatabaseType),
	}
}
