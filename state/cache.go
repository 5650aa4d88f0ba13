package state

import (
	"sync"

	"profiler/core"
)

// estimatedTableProfileBytes is a rough per-entry size used only for the
// memory_limit_mb advisory check; it does not need to be exact.
const estimatedTableProfileBytes = 4096

// Cache is the process-local ProfileCache: a map from table name to its
// most recently computed TableProfile. It is written only by the
// orchestrator goroutine (single-writer discipline); workers only ever
// read a copy handed to them, never the cache itself.
type Cache struct {
	mu            sync.RWMutex
	entries       map[string]*core.TableProfile
	memoryLimitMB int
}

// NewCache returns an empty Cache. memoryLimitMB <= 0 disables the
// advisory memory check entirely.
func NewCache(memoryLimitMB int) *Cache {
	return &Cache{entries: make(map[string]*core.TableProfile), memoryLimitMB: memoryLimitMB}
}

// Get returns the cached profile for table, if any.
func (c *Cache) Get(table string) (*core.TableProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	tp, ok := c.entries[table]
	return tp, ok
}

// Put stores tp for table unless the estimated cache size already
// exceeds memory_limit_mb, in which case the entry is silently dropped:
// the profile is still returned to the caller, just not cached. This is
// an advisory memory budget, not a hard limit.
func (c *Cache) Put(table string, tp *core.TableProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.memoryLimitMB > 0 && c.estimatedBytesLocked() >= int64(c.memoryLimitMB)*1024*1024 {
		return
	}
	c.entries[table] = tp
}

// Delete removes table's cached entry, if any.
func (c *Cache) Delete(table string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, table)
}

// EstimatedBytes reports the cache's advisory size estimate.
func (c *Cache) EstimatedBytes() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.estimatedBytesLocked()
}

func (c *Cache) estimatedBytesLocked() int64 {
	return int64(len(c.entries)) * estimatedTableProfileBytes
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
