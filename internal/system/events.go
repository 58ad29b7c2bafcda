package system

import (
	"github.com/l1jgo/skirmish/internal/core/event"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
)

// EventSystem swaps the bus buffers and delivers last tick's events.
// It never touches components. Phase 0 (Events).
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }
func (s *EventSystem) Name() string         { return "events" }

func (s *EventSystem) Update() {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
