// Package state implements the StateManager and ProfileCache halves of
// C6: persisting IncrementalState atomically to disk and caching
// TableProfile results in process memory between runs.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"profiler/core"
)

// Manager persists IncrementalState to a single JSON file with an
// atomic write (serialize to a .tmp sibling, then rename).
type Manager struct {
	path   string
	logger *zap.Logger
}

// NewManager returns a Manager bound to path.
func NewManager(path string, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{path: path, logger: logger}
}

// Load reads and validates the state file. A missing file, malformed
// JSON, or a state failing Validate is treated as "no previous state"
// and logged at ERROR, never returned as an error to the caller.
func (m *Manager) Load() *core.IncrementalState {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if !os.IsNotExist(err) {
			m.logger.Error("failed to read incremental state file, treating as absent", zap.String("path", m.path), zap.Error(err))
		}
		return nil
	}

	var st core.IncrementalState
	if err := json.Unmarshal(data, &st); err != nil {
		m.logger.Error("incremental state file is malformed, treating as absent", zap.String("path", m.path), zap.Error(err))
		return nil
	}

	if err := Validate(&st); err != nil {
		m.logger.Error("incremental state failed validation, treating as absent", zap.String("path", m.path), zap.Error(err))
		return nil
	}
	return &st
}

// Save writes st to path atomically: marshal, write to path+".tmp",
// rename over path. Parent directories are created as needed.
func (m *Manager) Save(st *core.IncrementalState) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("state: create parent directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("state: marshal: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("state: write temp file: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("state: rename temp file: %w", err)
	}
	return nil
}

// Validate rejects a state missing required fields. Malformed
// timestamps cannot occur once JSON has unmarshalled into time.Time, so
// this only needs to check presence of the fields spec.md calls out.
func Validate(st *core.IncrementalState) error {
	if st == nil {
		return fmt.Errorf("%w: state is nil", core.ErrStateInvalid)
	}
	if st.DatabaseName == "" {
		return fmt.Errorf("%w: database_name is required", core.ErrStateInvalid)
	}
	if st.ProfileVersion == "" {
		return fmt.Errorf("%w: profile_version is required", core.ErrStateInvalid)
	}
	if st.TableStates == nil {
		return fmt.Errorf("%w: table_states is required", core.ErrStateInvalid)
	}
	return nil
}
