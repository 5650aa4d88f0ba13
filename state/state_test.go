package state

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"profiler/core"
)

func TestManagerSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	m := NewManager(path, zaptest.NewLogger(t))

	st := core.NewIncrementalState("appdb", nil)
	st.TableStates["users"] = &core.TableChangeInfo{TableName: "users", SchemaHash: "abc123", RowCount: 42}

	require.NoError(t, m.Save(st))

	loaded := m.Load()
	require.NotNil(t, loaded)
	assert.Equal(t, "appdb", loaded.DatabaseName)
	assert.Equal(t, int64(42), loaded.TableStates["users"].RowCount)
}

func TestManagerLoadMissingFileReturnsNil(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "missing.json"), zaptest.NewLogger(t))
	assert.Nil(t, m.Load())
}

func TestManagerLoadMalformedFileReturnsNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	m := NewManager(path, zaptest.NewLogger(t))
	assert.Nil(t, m.Load())
}

func TestValidateRejectsMissingFields(t *testing.T) {
	err := Validate(&core.IncrementalState{})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStateInvalid)
}

func TestCachePutGetDelete(t *testing.T) {
	c := NewCache(0)
	tp := &core.TableProfile{Name: "users"}
	c.Put("users", tp)

	got, ok := c.Get("users")
	require.True(t, ok)
	assert.Equal(t, tp, got)

	c.Delete("users")
	_, ok = c.Get("users")
	assert.False(t, ok)
}

func TestCacheRefusesNewEntriesOverMemoryLimit(t *testing.T) {
	c := NewCache(1)
	for i := 0; i < 1000; i++ {
		c.Put(fmt.Sprintf("table_%d", i), &core.TableProfile{})
	}
	assert.Less(t, c.Len(), 1000)
}
