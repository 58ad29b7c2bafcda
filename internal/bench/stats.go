package bench

import "github.com/l1jgo/skirmish/internal/core/event"

// Stats counts lifecycle and combat events delivered by the bus.
type Stats struct {
	Kills     int
	Respawns  int
	Landed    int
	Discarded int
}

func NewStats(bus *event.Bus) *Stats {
	s := &Stats{}
	event.Subscribe(bus, func(event.UnitKilled) { s.Kills++ })
	event.Subscribe(bus, func(event.UnitRespawned) { s.Respawns++ })
	event.Subscribe(bus, func(e event.AttackResolved) {
		if e.Landed {
			s.Landed++
		} else {
			s.Discarded++
		}
	})
	return s
}
