// Package config defines the validated ProfilerConfig the Core consumes
// and the thin JSON/TOML loading adaptors around it. Construction
// validates synchronously; an invalid config never reaches the engine.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"profiler/core"
)

// Strategy selects how TableProcessor schedules work.
type Strategy string

const (
	StrategySequential Strategy = "sequential"
	StrategyParallel   Strategy = "parallel"
	StrategyAdaptive   Strategy = "adaptive"
)

// ExportFormat selects the output serializer.
type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportYAML ExportFormat = "yaml"
	ExportXML  ExportFormat = "xml"
)

// LogLevel mirrors the levels named in the spec; it only constrains
// validation here, the actual logger is injected by the caller.
type LogLevel string

const (
	LogDebug    LogLevel = "DEBUG"
	LogInfo     LogLevel = "INFO"
	LogWarning  LogLevel = "WARNING"
	LogError    LogLevel = "ERROR"
	LogCritical LogLevel = "CRITICAL"
)

// ProfilerConfig is the single value type carrying every option the
// engine reads. It is constructed via New, which validates eagerly.
type ProfilerConfig struct {
	DatabaseName string  `validate:"required"`
	SchemaName   *string

	Strategy          Strategy `validate:"required,oneof=sequential parallel adaptive"`
	MaxWorkers        int      `validate:"gte=1"`
	ParallelThreshold int      `validate:"gte=1"`

	IncrementalEnabled  bool
	IncrementalStatePath string

	DataChangeThreshold float64 `validate:"gte=0,lte=1"`
	ForceFullProfile    bool

	MaxConnections int           `validate:"gte=1"`
	QueryTimeout   int           `validate:"gte=1"` // seconds
	MemoryLimitMB  int           `validate:"gte=64"`

	PatternRecognitionEnabled bool
	PatternsConfigPath        string

	IncludeSampleData bool
	SampleDataLimit   int `validate:"gte=0"`

	ValidateRelationships bool
	ValidatePatterns      bool
	StrictMode            bool

	ExportFormat ExportFormat `validate:"required,oneof=json yaml xml"`
	OutputPath   string

	LogLevel        LogLevel `validate:"required,oneof=DEBUG INFO WARNING ERROR CRITICAL"`
	DebugMode       bool
	ProfilePerformance bool

	DatabaseType core.DatabaseType
}

// Default returns a ProfilerConfig populated with the spec's documented
// defaults; callers still must set DatabaseName (and
// IncrementalStatePath when enabling incremental mode) before calling
// New.
func Default() ProfilerConfig {
	return ProfilerConfig{
		Strategy:                  StrategyAdaptive,
		MaxWorkers:                4,
		ParallelThreshold:         10,
		DataChangeThreshold:       0.10,
		MaxConnections:            10,
		QueryTimeout:              300,
		MemoryLimitMB:             1024,
		PatternRecognitionEnabled: true,
		IncludeSampleData:         true,
		SampleDataLimit:           5,
		ValidateRelationships:     true,
		ValidatePatterns:          true,
		ExportFormat:              ExportJSON,
		LogLevel:                  LogInfo,
		DatabaseType:              core.DatabaseUnknown,
	}
}

func dbTypeFromString(s string) core.DatabaseType {
	switch core.DatabaseType(s) {
	case core.DatabaseMySQL, core.DatabasePostgreSQL, core.DatabaseMSSQL:
		return core.DatabaseType(s)
	default:
		return core.DatabaseUnknown
	}
}

var validate = validator.New()

// New validates cfg and returns it, or core.ErrConfigInvalid wrapped
// with the first violation. Struct-tag validation (required fields,
// enum membership, numeric ranges) runs first; the one cross-field rule
// the spec calls out — IncrementalStatePath required iff
// IncrementalEnabled — is checked by hand afterward since validator's
// struct tags can't express it cleanly against a pointer-free bool.
func New(cfg ProfilerConfig) (*ProfilerConfig, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s", core.ErrConfigInvalid, err)
	}
	if cfg.IncrementalEnabled && cfg.IncrementalStatePath == "" {
		return nil, fmt.Errorf("%w: incremental_state_path is required when incremental_enabled is true", core.ErrConfigInvalid)
	}
	out := cfg
	return &out, nil
}
