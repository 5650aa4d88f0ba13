package profiler

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"profiler/config"
	"profiler/core"
)

type fakeConnector struct {
	results map[string][]map[string]any
}

func (f *fakeConnector) ExecuteQuery(ctx context.Context, sql string, params ...any) ([]map[string]any, error) {
	if rows, ok := f.results[sql]; ok {
		return rows, nil
	}
	return nil, nil
}

func (f *fakeConnector) HealthCheck(ctx context.Context) bool { return true }

func baseConfig(t *testing.T) config.ProfilerConfig {
	cfg := config.Default()
	cfg.DatabaseName = "appdb"
	cfg.DatabaseType = core.DatabaseMySQL
	validated, err := config.New(cfg)
	require.NoError(t, err)
	return *validated
}

func TestProfileSchemaWithNoTablesReturnsEmptyProfile(t *testing.T) {
	conn := &fakeConnector{results: map[string][]map[string]any{}}
	cfg := baseConfig(t)

	orch, err := New(&cfg, conn, zaptest.NewLogger(t))
	require.NoError(t, err)

	result := orch.ProfileSchema(context.Background())

	assert.Equal(t, "appdb", result.DatabaseName)
	assert.Equal(t, 0, result.TotalTables)
}

func TestProfileIncrementalFallsBackToFullWhenDisabled(t *testing.T) {
	conn := &fakeConnector{results: map[string][]map[string]any{}}
	cfg := baseConfig(t)
	cfg.IncrementalEnabled = false

	orch, err := New(&cfg, conn, zaptest.NewLogger(t))
	require.NoError(t, err)

	result := orch.ProfileIncremental(context.Background())
	assert.Equal(t, "appdb", result.DatabaseName)
}

func TestProfileIncrementalRunsWhenEnabled(t *testing.T) {
	conn := &fakeConnector{results: map[string][]map[string]any{}}
	cfg := baseConfig(t)
	cfg.IncrementalEnabled = true
	cfg.IncrementalStatePath = filepath.Join(t.TempDir(), "state.json")
	validated, err := config.New(cfg)
	require.NoError(t, err)

	orch, err := New(validated, conn, zaptest.NewLogger(t))
	require.NoError(t, err)

	result := orch.ProfileIncremental(context.Background())
	assert.Equal(t, "appdb", result.DatabaseName)
}
