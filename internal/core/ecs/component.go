package ecs

import "fmt"

// Column is a component store seen through presence only. Filters are built
// from columns so marker stores and data stores mix freely.
type Column interface {
	Has(id EntityID) bool
	Len() int
	Name() string
	eachID(fn func(EntityID))
	drop(id EntityID)
}

// Store is a generic typed map store for one component type. Values are
// copied in on Add, so no two entities ever share a component by reference.
//
// Add and Remove are structural edits: they are queued on the owning World
// and applied by World.Commit. Get/Set mutate the stored value in place and
// take effect immediately.
type Store[T any] struct {
	world *World
	name  string
	data  map[EntityID]*T
}

// NewStore creates a store owned by w and registers it for bulk removal.
func NewStore[T any](w *World) *Store[T] {
	var zero T
	s := &Store[T]{
		world: w,
		name:  fmt.Sprintf("%T", zero),
		data:  make(map[EntityID]*T, 256),
	}
	w.registry.Register(s)
	return s
}

func (s *Store[T]) Name() string { return s.name }

// Add queues attaching v to id. An existing value is overwritten at commit.
func (s *Store[T]) Add(id EntityID, v T) {
	s.world.queue(func() {
		if !s.world.pool.Alive(id) {
			panic(fmt.Sprintf("ecs: add %s to destroyed entity %v", s.name, id))
		}
		c := new(T)
		*c = v
		s.data[id] = c
	})
}

// Remove queues detaching the component from id. Removing an absent
// component is a no-op.
func (s *Store[T]) Remove(id EntityID) {
	s.world.queue(func() { delete(s.data, id) })
}

func (s *Store[T]) Get(id EntityID) (*T, bool) {
	c, ok := s.data[id]
	return c, ok
}

// MustGet returns the component of id and panics when it is missing. Systems
// call it only for components their filter guarantees.
func (s *Store[T]) MustGet(id EntityID) *T {
	c, ok := s.data[id]
	if !ok {
		panic(fmt.Sprintf("ecs: entity %v has no %s", id, s.name))
	}
	return c
}

func (s *Store[T]) Has(id EntityID) bool {
	_, ok := s.data[id]
	return ok
}

func (s *Store[T]) Len() int {
	return len(s.data)
}

// Each visits every stored component. Order is unspecified.
func (s *Store[T]) Each(fn func(EntityID, *T)) {
	for id, c := range s.data {
		fn(id, c)
	}
}

func (s *Store[T]) eachID(fn func(EntityID)) {
	for id := range s.data {
		fn(id)
	}
}

func (s *Store[T]) drop(id EntityID) {
	delete(s.data, id)
}
