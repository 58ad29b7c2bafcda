package world

import (
	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
)

// State owns the ECS world and one store per component type. It is accessed
// only from the simulation goroutine, so no locks are needed.
type State struct {
	World *ecs.World

	Units      *ecs.Store[component.Unit]
	Datas      *ecs.Store[component.Data]
	Healths    *ecs.Store[component.Health]
	Damages    *ecs.Store[component.Damage]
	Positions  *ecs.Store[component.Position]
	Velocities *ecs.Store[component.Velocity]
	Sprites    *ecs.Store[component.Sprite]
	Attacks    *ecs.Store[component.Attack]

	Spawns   *ecs.Store[component.Spawn]
	Deads    *ecs.Store[component.Dead]
	NPCs     *ecs.Store[component.NPC]
	Heroes   *ecs.Store[component.Hero]
	Monsters *ecs.Store[component.Monster]
}

// NewState creates an empty state sized for roughly capacity entities.
func NewState(capacity int) *State {
	w := ecs.NewWorld(capacity)
	return &State{
		World:      w,
		Units:      ecs.NewStore[component.Unit](w),
		Datas:      ecs.NewStore[component.Data](w),
		Healths:    ecs.NewStore[component.Health](w),
		Damages:    ecs.NewStore[component.Damage](w),
		Positions:  ecs.NewStore[component.Position](w),
		Velocities: ecs.NewStore[component.Velocity](w),
		Sprites:    ecs.NewStore[component.Sprite](w),
		Attacks:    ecs.NewStore[component.Attack](w),
		Spawns:     ecs.NewStore[component.Spawn](w),
		Deads:      ecs.NewStore[component.Dead](w),
		NPCs:       ecs.NewStore[component.NPC](w),
		Heroes:     ecs.NewStore[component.Hero](w),
		Monsters:   ecs.NewStore[component.Monster](w),
	}
}

// Populate creates count spawning units with ID and Seed equal to their
// index, then commits so the first tick sees them.
func (s *State) Populate(count int) {
	for i := 0; i < count; i++ {
		s.SpawnUnit(component.Data{}, component.Unit{ID: uint32(i), Seed: uint32(i)})
	}
	s.World.Commit()
}

// SpawnUnit queues a new entity carrying {Spawn, Data, Unit}.
func (s *State) SpawnUnit(data component.Data, unit component.Unit) ecs.EntityID {
	id := s.World.CreateEntity()
	s.Spawns.Add(id, component.Spawn{})
	s.Datas.Add(id, data)
	s.Units.Add(id, unit)
	return id
}

// AddKind queues the kind marker matching k.
func (s *State) AddKind(id ecs.EntityID, k component.Kind) {
	switch k {
	case component.KindHero:
		s.Heroes.Add(id, component.Hero{})
	case component.KindMonster:
		s.Monsters.Add(id, component.Monster{})
	default:
		s.NPCs.Add(id, component.NPC{})
	}
}

// KindOf reports the kind marker id carries, if any.
func (s *State) KindOf(id ecs.EntityID) (component.Kind, bool) {
	switch {
	case s.NPCs.Has(id):
		return component.KindNPC, true
	case s.Heroes.Has(id):
		return component.KindHero, true
	case s.Monsters.Has(id):
		return component.KindMonster, true
	}
	return 0, false
}

// Kinds lists the three kind marker columns.
func (s *State) Kinds() []ecs.Column {
	return []ecs.Column{s.NPCs, s.Heroes, s.Monsters}
}
