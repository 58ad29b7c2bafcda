package system

import (
	"github.com/l1jgo/skirmish/internal/core/ecs"
	"github.com/l1jgo/skirmish/internal/core/event"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/world"
)

// DamageSystem counts in-flight attacks down and resolves the ones whose
// countdown is spent. Phase 2 (Update).
//
// An attack seen with Ticks > 0 is decremented and kept. An attack seen with
// Ticks <= 0 is destroyed; its damage lands only if the target is still a
// live, non-dead unit with Health and Damage. Hp is not clamped.
type DamageSystem struct {
	state   *world.State
	attacks *ecs.Filter
	targets *ecs.Filter
	bus     *event.Bus
}

func NewDamageSystem(st *world.State, bus *event.Bus) *DamageSystem {
	return &DamageSystem{
		state:   st,
		attacks: ecs.NewFilter(st.World, st.Attacks),
		targets: ecs.NewFilter(st.World, st.Healths, st.Damages).Without(st.Deads),
		bus:     bus,
	}
}

func (s *DamageSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *DamageSystem) Name() string         { return "damage" }

func (s *DamageSystem) Update() {
	st := s.state
	s.attacks.Each(func(id ecs.EntityID) {
		attack := st.Attacks.MustGet(id)
		if attack.Ticks > 0 {
			attack.Ticks--
			return
		}

		target, dmg := attack.Target, attack.Damage
		st.World.Destroy(id)

		landed := s.targets.Has(target)
		if landed {
			st.Healths.MustGet(target).Hp -= dmg - st.Damages.MustGet(target).Defence
		}

		if s.bus != nil {
			event.Emit(s.bus, event.AttackResolved{Target: target, Damage: dmg, Landed: landed})
		}
	})
}
