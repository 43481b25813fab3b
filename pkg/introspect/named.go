package introspect

// named wraps an adapter with a caller-chosen ID.
type named struct {
	Adapter
	id string
}

// Named returns the adapter under a different ID. Configured sources use
// it so two adapters of the same kind keep separate dataset directories.
func Named(id string, adapter Adapter) Adapter {
	if id == "" || adapter == nil {
		return adapter
	}
	return &named{Adapter: adapter, id: id}
}

// ID identifies the adapter.
func (n *named) ID() string {
	return n.id
}
