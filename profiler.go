// Package profiler is the public facade: it wires Dialect, MetadataExtractor,
// PatternRecognizer, CoreProfiler, TableProcessor, ChangeDetector/StateManager/
// ProfileCache, IncrementalManager, and Enricher into the two operations
// callers actually need, ProfileSchema and ProfileIncremental.
package profiler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"profiler/config"
	"profiler/core"
	"profiler/enrich"
	"profiler/extractor"
	"profiler/incremental"
	"profiler/pattern"
	"profiler/process"
	"profiler/profile"
	"profiler/state"
)

// Orchestrator runs one profiling pass end to end over a single
// Connector.
type Orchestrator struct {
	extractor  *extractor.Extractor
	profiler   *profile.Profiler
	processor  *process.Processor
	recognizer *pattern.Recognizer
	enricher   *enrich.Enricher
	stateMgr   *state.Manager
	cache      *state.Cache
	incr       *incremental.Manager
	cfg        *config.ProfilerConfig
	logger     *zap.Logger
}

// New wires every Core component from cfg and connector. The connector
// is the only external collaborator the Core depends on; callers supply
// a concrete implementation from one of the connector/ subpackages.
func New(cfg *config.ProfilerConfig, connector core.Connector, logger *zap.Logger) (*Orchestrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	recognizer := pattern.New(cfg.PatternsConfigPath, logger)

	enricher, err := enrich.New()
	if err != nil {
		return nil, fmt.Errorf("profiler: loading enrichment rules: %w", err)
	}

	ex := extractor.New(connector, cfg.DatabaseType, derefString(cfg.SchemaName), extractor.Options{
		IncludeSampleData:  cfg.IncludeSampleData,
		SampleDataLimit:    cfg.SampleDataLimit,
		ProfilePerformance: cfg.ProfilePerformance,
	}, logger)

	prof := profile.New(ex, recognizer, cfg.IncludeSampleData, cfg.PatternRecognitionEnabled, logger)
	proc := process.New(prof, cfg.SchemaName, logger)

	var stateMgr *state.Manager
	var cache *state.Cache
	var incr *incremental.Manager
	if cfg.IncrementalEnabled {
		stateMgr = state.NewManager(cfg.IncrementalStatePath, logger)
		cache = state.NewCache(cfg.MemoryLimitMB)
		lister := extractor.New(connector, cfg.DatabaseType, derefString(cfg.SchemaName), extractor.Options{}, logger)
		incr = incremental.New(lister, proc, stateMgr, cache, logger)
	}

	return &Orchestrator{
		extractor:  ex,
		profiler:   prof,
		processor:  proc,
		recognizer: recognizer,
		enricher:   enricher,
		stateMgr:   stateMgr,
		cache:      cache,
		incr:       incr,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// ProfileSchema profiles every table in the configured schema from
// scratch, ignoring any persisted incremental state.
func (o *Orchestrator) ProfileSchema(ctx context.Context) *core.SchemaProfile {
	tables := o.extractor.GetTablesInfo(ctx)

	result := o.processor.ProcessTables(ctx, tables, o.processConfig())

	schemaProfile := &core.SchemaProfile{
		DatabaseName:       o.cfg.DatabaseName,
		SchemaName:         o.cfg.SchemaName,
		DatabaseType:       o.cfg.DatabaseType,
		ProfilingTimestamp: time.Now().UTC(),
		Tables:             result,
	}
	schemaProfile.Recompute()
	profile.AnalyzeSchema(schemaProfile)
	o.enricher.EnrichSchema(schemaProfile)

	return schemaProfile
}

// ProfileIncremental runs the incremental path when cfg.IncrementalEnabled
// is set, falling back to ProfileSchema when it is not (matching the
// design's "incremental is an optional optimization" stance) or when
// the incremental path hits an unrecoverable error.
func (o *Orchestrator) ProfileIncremental(ctx context.Context) *core.SchemaProfile {
	if o.incr == nil {
		return o.ProfileSchema(ctx)
	}

	incrCfg := incremental.Config{
		DatabaseName:        o.cfg.DatabaseName,
		SchemaName:          o.cfg.SchemaName,
		DataChangeThreshold: o.cfg.DataChangeThreshold,
		ForceFullProfile:    o.cfg.ForceFullProfile,
	}

	schemaProfile := o.incr.ProfileIncremental(ctx, incrCfg, o.ProfileSchema, o.processConfig())
	schemaProfile.DatabaseType = o.cfg.DatabaseType
	o.enricher.EnrichSchema(schemaProfile)
	return schemaProfile
}

func (o *Orchestrator) processConfig() process.Config {
	return process.Config{
		Strategy:          process.Strategy(o.cfg.Strategy),
		MaxWorkers:        o.cfg.MaxWorkers,
		MaxConnections:    o.cfg.MaxConnections,
		ParallelThreshold: o.cfg.ParallelThreshold,
		QueryTimeout:      time.Duration(o.cfg.QueryTimeout) * time.Second,
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
