package changedetect

import (
	"profiler/core"
)

// DataChangeThresholdDefault mirrors ProfilerConfig's documented default.
const DataChangeThresholdDefault = 0.10

// TableChange describes why a table was selected for re-profiling.
type TableChange struct {
	TableName        string
	StructureChanged bool
	DataChanged      bool
	IsNew            bool
}

// Changed reports whether this table needs re-profiling for any reason.
func (c TableChange) Changed() bool {
	return c.IsNew || c.StructureChanged || c.DataChanged
}

// DataChanged reports whether the row-count delta between previous and
// current exceeds threshold.
func DataChanged(previous, current int64, threshold float64) bool {
	if previous == 0 {
		return current > 0
	}
	delta := current - previous
	if delta < 0 {
		delta = -delta
	}
	ratio := float64(delta) / float64(previous)
	return ratio > threshold
}

// SelectTablesToProfile implements the table-selection rule: full
// profile when forced or no previous state exists, otherwise the union
// of new tables and tables whose structure or data changed. A lookup
// failure for a table (signalled by the caller via lookupFailed) is
// fail-safe: that table is always treated as changed.
func SelectTablesToProfile(
	currentTables []string,
	previousState *core.IncrementalState,
	currentRowCounts map[string]int64,
	currentHashes map[string]string,
	threshold float64,
	forceFull bool,
	lookupFailed map[string]bool,
) []TableChange {
	if forceFull || previousState == nil {
		out := make([]TableChange, len(currentTables))
		for i, t := range currentTables {
			out[i] = TableChange{TableName: t, IsNew: previousState == nil}
		}
		return out
	}

	var out []TableChange
	for _, name := range currentTables {
		if lookupFailed[name] {
			out = append(out, TableChange{TableName: name, StructureChanged: true})
			continue
		}

		prev, existed := previousState.TableStates[name]
		if !existed {
			out = append(out, TableChange{TableName: name, IsNew: true})
			continue
		}

		structureChanged := prev.SchemaHash != currentHashes[name]
		dataChanged := DataChanged(prev.RowCount, currentRowCounts[name], threshold)
		if structureChanged || dataChanged {
			out = append(out, TableChange{TableName: name, StructureChanged: structureChanged, DataChanged: dataChanged})
		}
	}
	return out
}
