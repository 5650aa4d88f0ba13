package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profiler/core"
)

func TestNewRejectsMissingDatabaseName(t *testing.T) {
	cfg := Default()
	_, err := New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestNewRejectsUnknownStrategy(t *testing.T) {
	cfg := Default()
	cfg.DatabaseName = "db"
	cfg.Strategy = "yolo"
	_, err := New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestNewRequiresStatePathWhenIncrementalEnabled(t *testing.T) {
	cfg := Default()
	cfg.DatabaseName = "db"
	cfg.IncrementalEnabled = true
	_, err := New(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrConfigInvalid)
}

func TestNewAcceptsValidConfig(t *testing.T) {
	cfg := Default()
	cfg.DatabaseName = "db"
	got, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "db", got.DatabaseName)
	assert.Equal(t, StrategyAdaptive, got.Strategy)
}

func TestNewRejectsBadDataChangeThreshold(t *testing.T) {
	cfg := Default()
	cfg.DatabaseName = "db"
	cfg.DataChangeThreshold = 1.5
	_, err := New(cfg)
	require.Error(t, err)
}
