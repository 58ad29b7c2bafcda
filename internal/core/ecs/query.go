package ecs

// Filter selects live entities that have every With column and none of the
// Without columns. It iterates the smallest With column and looks the rest up.
type Filter struct {
	world   *World
	with    []Column
	without []Column
}

// NewFilter builds a filter over the given required columns. At least one
// column is required.
func NewFilter(w *World, with ...Column) *Filter {
	if len(with) == 0 {
		panic("ecs: filter needs at least one required column")
	}
	return &Filter{world: w, with: with}
}

// Without adds excluded columns and returns the filter for chaining.
func (f *Filter) Without(cols ...Column) *Filter {
	f.without = append(f.without, cols...)
	return f
}

// Has reports whether id currently matches.
func (f *Filter) Has(id EntityID) bool {
	if !f.world.pool.Alive(id) {
		return false
	}
	for _, c := range f.with {
		if !c.Has(id) {
			return false
		}
	}
	for _, c := range f.without {
		if c.Has(id) {
			return false
		}
	}
	return true
}

// Each visits every matching entity. Order is unspecified and differs
// between calls; callers that need a stable order must sort.
func (f *Filter) Each(fn func(EntityID)) {
	f.smallest().eachID(func(id EntityID) {
		if f.Has(id) {
			fn(id)
		}
	})
}

// Count walks the filter and returns the number of matches.
func (f *Filter) Count() int {
	n := 0
	f.Each(func(EntityID) { n++ })
	return n
}

func (f *Filter) smallest() Column {
	best := f.with[0]
	for _, c := range f.with[1:] {
		if c.Len() < best.Len() {
			best = c
		}
	}
	return best
}
