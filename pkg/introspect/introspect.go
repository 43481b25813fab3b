// Package introspect defines how autoupdate runs see live data models.
// Adapters list the tables of one datastore; concrete implementations for
// Postgres and MongoDB live under internal/introspect.
package introspect

import "context"

// Column describes one column or document field of a table.
type Column struct {
	Name       string
	Type       string // source type name, e.g. "character varying" or "objectId"
	Nullable   bool
	PrimaryKey bool
}

// Table describes one table or collection of a datastore.
type Table struct {
	Identifier string // table or collection name
	Namespace  string // schema or database name, empty when the store has none
	Columns    []Column
}

// Adapter lists the live data models of one datastore.
type Adapter interface {
	// ID identifies the adapter kind, e.g. "postgres", "mongodb", "static".
	ID() string

	// Tables lists the tables of the datastore.
	Tables(ctx context.Context) ([]Table, error)
}
