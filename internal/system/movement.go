package system

import (
	"github.com/l1jgo/skirmish/internal/core/ecs"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/policy"
	"github.com/l1jgo/skirmish/internal/world"
)

// MovementSystem applies Position += Velocity to every non-dead mover.
// Phase 2 (Update).
type MovementSystem struct {
	state  *world.State
	filter *ecs.Filter
}

func NewMovementSystem(st *world.State) *MovementSystem {
	return &MovementSystem{
		state:  st,
		filter: ecs.NewFilter(st.World, st.Positions, st.Velocities).Without(st.Deads),
	}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *MovementSystem) Name() string         { return "movement" }

func (s *MovementSystem) Update() {
	st := s.state
	s.filter.Each(func(id ecs.EntityID) {
		p := st.Positions.MustGet(id)
		p.V = p.V.Add(st.Velocities.MustGet(id).V)
	})
}

// VelocitySystem recomputes each living unit's velocity from its current
// position, unit state and tick. Phase 2 (Update), after movement, so the new
// velocity moves the unit next tick.
type VelocitySystem struct {
	state    *world.State
	filter   *ecs.Filter
	velocity policy.VelocityFunc
}

func NewVelocitySystem(st *world.State, velocity policy.VelocityFunc) *VelocitySystem {
	return &VelocitySystem{
		state:    st,
		filter:   ecs.NewFilter(st.World, st.Velocities, st.Units, st.Datas, st.Positions).Without(st.Deads),
		velocity: velocity,
	}
}

func (s *VelocitySystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *VelocitySystem) Name() string         { return "velocity" }

func (s *VelocitySystem) Update() {
	st := s.state
	s.filter.Each(func(id ecs.EntityID) {
		st.Velocities.MustGet(id).V = s.velocity(
			st.Positions.MustGet(id).V,
			*st.Units.MustGet(id),
			st.Datas.MustGet(id).Tick,
		)
	})
}
