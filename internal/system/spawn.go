package system

import (
	"github.com/l1jgo/skirmish/internal/core/ecs"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/policy"
	"github.com/l1jgo/skirmish/internal/world"
)

// SpawnSystem resolves units carrying the Spawn marker into active units:
// stats, sprite, position, velocity and exactly one kind marker.
// Phase 1 (Lifecycle).
type SpawnSystem struct {
	state  *world.State
	filter *ecs.Filter
	spawn  policy.SpawnFunc
}

func NewSpawnSystem(st *world.State, spawn policy.SpawnFunc) *SpawnSystem {
	return &SpawnSystem{
		state:  st,
		filter: ecs.NewFilter(st.World, st.Units, st.Datas, st.Spawns).Without(st.Kinds()...),
		spawn:  spawn,
	}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseLifecycle }
func (s *SpawnSystem) Name() string         { return "spawn" }

func (s *SpawnSystem) Update() {
	st := s.state
	s.filter.Each(func(id ecs.EntityID) {
		out := s.spawn(*st.Datas.MustGet(id), st.Units.MustGet(id))

		st.Healths.Add(id, out.Health)
		st.Damages.Add(id, out.Damage)
		st.Sprites.Add(id, out.Sprite)
		st.Positions.Add(id, out.Position)
		st.Velocities.Add(id, out.Velocity)
		st.AddKind(id, out.Kind)
		st.Spawns.Remove(id)
	})
}
