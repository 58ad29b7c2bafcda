package ecs

// World is the top-level ECS container. It owns the entity pool, the component
// registry, and the pending-edit list that Commit applies.
//
// Handles returned by CreateEntity are live at once but carry no components
// until the next Commit, so queries cannot see them mid-pass. Destroy is
// deferred the same way.
type World struct {
	pool         *EntityPool
	registry     *Registry
	pending      []func()
	destroyQueue []EntityID
}

func NewWorld(capacity int) *World {
	return &World{
		pool:         NewEntityPool(capacity),
		registry:     NewRegistry(),
		pending:      make([]func(), 0, capacity),
		destroyQueue: make([]EntityID, 0, 64),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Destroy queues id for removal at the next Commit.
func (w *World) Destroy(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// Pending reports the number of queued structural edits, destroys included.
func (w *World) Pending() int {
	return len(w.pending) + len(w.destroyQueue)
}

func (w *World) queue(fn func()) {
	w.pending = append(w.pending, fn)
}

// Commit applies queued component edits in the order they were made, then
// destroys queued entities and clears their components. Destroying a handle
// twice in one pass is harmless.
func (w *World) Commit() {
	for i, fn := range w.pending {
		fn()
		w.pending[i] = nil
	}
	w.pending = w.pending[:0]

	for _, id := range w.destroyQueue {
		if w.pool.Destroy(id) {
			w.registry.RemoveAll(id)
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
}
