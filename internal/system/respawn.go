package system

import (
	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	"github.com/l1jgo/skirmish/internal/core/event"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/random"
	"github.com/l1jgo/skirmish/internal/world"
)

// RespawnSystem replaces dead units whose respawn tick has come with a fresh
// spawning entity. The successor keeps the logical slot through its ID and is
// reseeded from the predecessor's full RNG state. Phase 1 (Lifecycle).
type RespawnSystem struct {
	state  *world.State
	filter *ecs.Filter
	bus    *event.Bus
}

func NewRespawnSystem(st *world.State, bus *event.Bus) *RespawnSystem {
	return &RespawnSystem{
		state:  st,
		filter: ecs.NewFilter(st.World, st.Units, st.Datas, st.Deads),
		bus:    bus,
	}
}

func (s *RespawnSystem) Phase() coresys.Phase { return coresys.PhaseLifecycle }
func (s *RespawnSystem) Name() string         { return "respawn" }

func (s *RespawnSystem) Update() {
	st := s.state
	s.filter.Each(func(id ecs.EntityID) {
		unit := st.Units.MustGet(id)
		data := st.Datas.MustGet(id)
		if data.Tick < unit.RespawnTick {
			return
		}

		next := Successor(*unit, data.Tick)
		newID := st.SpawnUnit(*data, next)
		st.World.Destroy(id)

		if s.bus != nil {
			event.Emit(s.bus, event.UnitRespawned{
				Old:     id,
				New:     newID,
				OldID:   unit.ID,
				NewID:   next.ID,
				NewSeed: next.Seed,
				Tick:    data.Tick,
			})
		}
	})
}

// Successor derives the unit that replaces u when it respawns at tick.
func Successor(u component.Unit, tick int64) component.Unit {
	return component.Unit{
		ID:   u.ID | uint32(tick)<<16,
		Seed: random.StableHash(u.Seed, u.Counter),
	}
}
