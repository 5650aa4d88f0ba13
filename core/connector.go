package core

import "context"

// Connector is the external collaborator the Core consumes. It is
// deliberately minimal: the driver/connection-pool implementation lives
// outside the Core (see the connector/ subpackages for reference
// implementations over database/sql).
type Connector interface {
	// ExecuteQuery runs sql with the given positional params and returns
	// each row as a map of lowercased column name to value.
	ExecuteQuery(ctx context.Context, sql string, params ...any) ([]map[string]any, error)
	// HealthCheck reports whether the underlying connection is usable.
	HealthCheck(ctx context.Context) bool
}
