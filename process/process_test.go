package process

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"profiler/core"
	"profiler/dialect"
)

type fakeTableProfiler struct {
	delay map[string]time.Duration
}

func (f *fakeTableProfiler) ProfileTable(ctx context.Context, table dialect.TableRow, schemaName *string) *core.TableProfile {
	if d, ok := f.delay[table.TableName]; ok {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil
		}
	}
	return &core.TableProfile{Name: table.TableName}
}

func tablesNamed(names ...string) []dialect.TableRow {
	out := make([]dialect.TableRow, len(names))
	for i, n := range names {
		out[i] = dialect.TableRow{TableName: n, TableType: "BASE TABLE"}
	}
	return out
}

func TestProcessTablesSequentialSortsByName(t *testing.T) {
	p := New(&fakeTableProfiler{}, nil, zaptest.NewLogger(t))
	results := p.ProcessTables(context.Background(), tablesNamed("zebra", "apple", "mango"), Config{
		Strategy: StrategySequential,
	})
	require.Len(t, results, 3)
	assert.Equal(t, []string{"apple", "mango", "zebra"}, []string{results[0].Name, results[1].Name, results[2].Name})
}

func TestProcessTablesParallelBoundedByConnections(t *testing.T) {
	p := New(&fakeTableProfiler{}, nil, zaptest.NewLogger(t))
	results := p.ProcessTables(context.Background(), tablesNamed("a", "b", "c", "d"), Config{
		Strategy:       StrategyParallel,
		MaxWorkers:     4,
		MaxConnections: 2,
		QueryTimeout:   time.Second,
	})
	assert.Len(t, results, 4)
}

func TestProcessTablesAdaptiveUsesSequentialBelowThreshold(t *testing.T) {
	p := New(&fakeTableProfiler{}, nil, zaptest.NewLogger(t))
	results := p.ProcessTables(context.Background(), tablesNamed("a", "b"), Config{
		Strategy:          StrategyAdaptive,
		MaxWorkers:        4,
		ParallelThreshold: 10,
	})
	assert.Len(t, results, 2)
}

func TestProcessTablesTimeoutOmitsTable(t *testing.T) {
	p := New(&fakeTableProfiler{delay: map[string]time.Duration{"slow": 200 * time.Millisecond}}, nil, zaptest.NewLogger(t))
	results := p.ProcessTables(context.Background(), tablesNamed("slow", "fast"), Config{
		Strategy:       StrategyParallel,
		MaxWorkers:     2,
		MaxConnections: 2,
		QueryTimeout:   20 * time.Millisecond,
	})
	require.Len(t, results, 1)
	assert.Equal(t, "fast", results[0].Name)
}
