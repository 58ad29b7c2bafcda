package system

import (
	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	"github.com/l1jgo/skirmish/internal/core/event"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/world"
)

// KillSystem marks units with Hp <= 0 dead and schedules their respawn. It is
// the only writer of Dead and of Unit.RespawnTick. Phase 1 (Lifecycle).
type KillSystem struct {
	state  *world.State
	filter *ecs.Filter
	bus    *event.Bus
	delay  int64
}

func NewKillSystem(st *world.State, bus *event.Bus, respawnDelay int64) *KillSystem {
	return &KillSystem{
		state:  st,
		filter: ecs.NewFilter(st.World, st.Units, st.Healths, st.Datas).Without(st.Deads),
		bus:    bus,
		delay:  respawnDelay,
	}
}

func (s *KillSystem) Phase() coresys.Phase { return coresys.PhaseLifecycle }
func (s *KillSystem) Name() string         { return "kill" }

func (s *KillSystem) Update() {
	st := s.state
	s.filter.Each(func(id ecs.EntityID) {
		if st.Healths.MustGet(id).Hp > 0 {
			return
		}

		unit := st.Units.MustGet(id)
		tick := st.Datas.MustGet(id).Tick
		st.Deads.Add(id, component.Dead{})
		unit.RespawnTick = tick + s.delay

		if s.bus != nil {
			event.Emit(s.bus, event.UnitKilled{
				Entity:      id,
				UnitID:      unit.ID,
				Tick:        tick,
				RespawnTick: unit.RespawnTick,
			})
		}
	})
}
