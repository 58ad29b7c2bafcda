package system

import (
	"fmt"
	"sort"
)

// Barrier applies the structural edits queued during a pass. ecs.World
// satisfies it.
type Barrier interface {
	Commit()
}

// Runner executes systems in phase order each tick. Systems sharing a phase
// run in registration order, and the barrier is committed after every
// system so each pass sees the previous one fully applied.
type Runner struct {
	systems []System
	sorted  bool
	barrier Barrier
}

func NewRunner(barrier Barrier) *Runner {
	return &Runner{
		systems: make([]System, 0, 16),
		barrier: barrier,
	}
}

func (r *Runner) Register(s System) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

// Tick runs every registered system once.
func (r *Runner) Tick() {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update()
		r.barrier.Commit()
	}
}

// Order returns the labels of the registered systems in execution order.
func (r *Runner) Order() []string {
	r.ensureSorted()
	names := make([]string, len(r.systems))
	for i, s := range r.systems {
		if n, ok := s.(Named); ok {
			names[i] = n.Name()
		} else {
			names[i] = fmt.Sprintf("%T", s)
		}
	}
	return names
}

func (r *Runner) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
