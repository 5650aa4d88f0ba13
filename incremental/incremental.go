// Package incremental implements IncrementalManager (C7): deciding which
// tables actually need re-profiling against a previous run's persisted
// state, delegating the rest to a cached copy, and writing the updated
// state back at the end of the run.
package incremental

import (
	"context"
	"time"

	"go.uber.org/zap"

	"profiler/changedetect"
	"profiler/core"
	"profiler/dialect"
	"profiler/process"
	"profiler/profile"
	"profiler/state"
)

// TableLister enumerates tables and computes a cheap, metadata-only
// TableProfile for each one (no sample data, no statistics) purely to
// derive a schema hash and row count for change detection, without
// paying for a full profile of tables that turn out to be unchanged.
type TableLister interface {
	GetTablesInfo(ctx context.Context) []dialect.TableRow
	GetCompleteTableMetadata(ctx context.Context, table dialect.TableRow, schemaName *string) *core.TableProfile
}

// Config carries the incremental-specific subset of ProfilerConfig.
type Config struct {
	DatabaseName        string
	SchemaName          *string
	DataChangeThreshold float64
	ForceFullProfile    bool
}

// Manager is the C7 IncrementalManager.
type Manager struct {
	lister    TableLister
	processor *process.Processor
	state     *state.Manager
	cache     *state.Cache
	logger    *zap.Logger
}

// New returns a Manager. cache may be nil, in which case every
// unchanged table falls back to a fresh full profile rather than a
// cached one, since nothing persists profiles across runs.
func New(lister TableLister, processor *process.Processor, stateMgr *state.Manager, cache *state.Cache, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{lister: lister, processor: processor, state: stateMgr, cache: cache, logger: logger}
}

// ProfileIncremental runs one incremental pass: tables that are new, or
// whose schema hash or row count drifted past threshold, are
// re-profiled through processor; every unchanged table is served from
// cache when available, or profiled fresh as a fallback. On any
// unrecoverable error enumerating tables it falls back to fullProfile
// entirely.
func (m *Manager) ProfileIncremental(ctx context.Context, cfg Config, fullProfile func(ctx context.Context) *core.SchemaProfile, processCfg process.Config) *core.SchemaProfile {
	tables := m.lister.GetTablesInfo(ctx)
	if tables == nil {
		m.logger.Error("failed to enumerate tables for incremental run, falling back to full profile")
		return fullProfile(ctx)
	}

	previous := m.state.Load()

	tableNames := make([]string, 0, len(tables))
	rowCounts := make(map[string]int64, len(tables))
	hashes := make(map[string]string, len(tables))
	lookupFailed := make(map[string]bool, len(tables))
	tablesByName := make(map[string]dialect.TableRow, len(tables))

	for _, t := range tables {
		tableNames = append(tableNames, t.TableName)
		tablesByName[t.TableName] = t

		meta := m.lister.GetCompleteTableMetadata(ctx, t, cfg.SchemaName)
		if meta == nil {
			lookupFailed[t.TableName] = true
			continue
		}
		rowCounts[t.TableName] = meta.EstimatedRowCount
		hashes[t.TableName] = changedetect.SchemaHash(meta)
	}

	changes := changedetect.SelectTablesToProfile(
		tableNames, previous, rowCounts, hashes,
		cfg.DataChangeThreshold, cfg.ForceFullProfile, lookupFailed,
	)
	changedByName := make(map[string]bool, len(changes))
	for _, c := range changes {
		changedByName[c.TableName] = true
	}

	toProfile := make([]dialect.TableRow, 0, len(changes))
	for _, c := range changes {
		toProfile = append(toProfile, tablesByName[c.TableName])
	}

	profiledNow := make(map[string]bool, len(tables))

	freshlyProfiled := m.processor.ProcessTables(ctx, toProfile, processCfg)
	byName := make(map[string]*core.TableProfile, len(freshlyProfiled))
	for _, tp := range freshlyProfiled {
		byName[tp.Name] = tp
		profiledNow[tp.Name] = true
		if m.cache != nil {
			m.cache.Put(tp.Name, tp)
		}
	}

	var unchanged []dialect.TableRow
	result := make([]*core.TableProfile, 0, len(tables))
	result = append(result, freshlyProfiled...)
	for _, name := range tableNames {
		if changedByName[name] {
			continue
		}
		if m.cache != nil {
			if cached, ok := m.cache.Get(name); ok {
				result = append(result, cached)
				continue
			}
		}
		unchanged = append(unchanged, tablesByName[name])
	}

	if len(unchanged) > 0 {
		m.logger.Warn("no cached profile for unchanged tables, profiling fresh", zap.Int("count", len(unchanged)))
		fresh := m.processor.ProcessTables(ctx, unchanged, processCfg)
		for _, tp := range fresh {
			result = append(result, tp)
			profiledNow[tp.Name] = true
			if m.cache != nil {
				m.cache.Put(tp.Name, tp)
			}
		}
	}

	schemaProfile := &core.SchemaProfile{
		DatabaseName:       cfg.DatabaseName,
		SchemaName:         cfg.SchemaName,
		DatabaseType:       core.DatabaseUnknown,
		ProfilingTimestamp: time.Now().UTC(),
		Tables:             result,
	}
	schemaProfile.Recompute()
	profile.AnalyzeSchema(schemaProfile)

	m.persistState(cfg, schemaProfile, previous, profiledNow, hashes, rowCounts)

	return schemaProfile
}

// persistState stamps last_modified with this run's timestamp for every
// table actually re-profiled this run (profiledNow), and carries the
// previous run's last_modified forward unchanged for every table served
// from cache, so a table's last_modified only advances when its data or
// structure was actually re-examined. The stored schema hash and row count
// are the ones measured for change detection this run (hashes, rowCounts),
// so the next run compares like with like; a table missing from those maps
// falls back to its profiled values.
func (m *Manager) persistState(cfg Config, schemaProfile *core.SchemaProfile, previous *core.IncrementalState, profiledNow map[string]bool, hashes map[string]string, rowCounts map[string]int64) {
	st := core.NewIncrementalState(cfg.DatabaseName, cfg.SchemaName)
	st.LastProfileTimestamp = schemaProfile.ProfilingTimestamp
	for _, tp := range schemaProfile.Tables {
		hash, ok := hashes[tp.Name]
		if !ok {
			hash = changedetect.SchemaHash(tp)
		}
		rowCount, ok := rowCounts[tp.Name]
		if !ok {
			rowCount = tp.EstimatedRowCount
		}
		info := &core.TableChangeInfo{
			TableName:  tp.Name,
			SchemaHash: hash,
			RowCount:   rowCount,
		}
		if profiledNow[tp.Name] {
			lastModified := schemaProfile.ProfilingTimestamp
			info.LastModified = &lastModified
		} else if previous != nil {
			if prevInfo, ok := previous.TableStates[tp.Name]; ok {
				info.LastModified = prevInfo.LastModified
			}
		}
		st.TableStates[tp.Name] = info
	}
	if err := m.state.Save(st); err != nil {
		m.logger.Error("failed to persist incremental state", zap.Error(err))
	}
}
