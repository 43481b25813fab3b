package introspect

import "context"

// Static serves a fixed set of tables. It backs tests and repositories that
// declare their data models in configuration instead of a live database.
type Static struct {
	id     string
	tables []Table
}

// Compile-time interface check
var _ Adapter = (*Static)(nil)

// NewStatic creates a Static adapter.
func NewStatic(id string, tables []Table) *Static {
	if id == "" {
		id = "static"
	}
	return &Static{id: id, tables: tables}
}

// ID identifies the adapter kind.
func (s *Static) ID() string {
	return s.id
}

// Tables lists the configured tables.
func (s *Static) Tables(_ context.Context) ([]Table, error) {
	return s.tables, nil
}
