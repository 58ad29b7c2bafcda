package ecs

// Registry tracks all component stores and supports bulk cleanup on entity destroy.
type Registry struct {
	columns []Column
}

func NewRegistry() *Registry {
	return &Registry{
		columns: make([]Column, 0, 16),
	}
}

// Register adds a component store to the registry.
func (r *Registry) Register(c Column) {
	r.columns = append(r.columns, c)
}

// RemoveAll clears the given entity from every registered component store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, c := range r.columns {
		c.drop(id)
	}
}

// Components lists the names of the stores holding a component for id.
func (r *Registry) Components(id EntityID) []string {
	var names []string
	for _, c := range r.columns {
		if c.Has(id) {
			names = append(names, c.Name())
		}
	}
	return names
}

// Len returns the number of registered stores.
func (r *Registry) Len() int { return len(r.columns) }
