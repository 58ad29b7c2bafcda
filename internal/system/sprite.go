package system

import (
	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/world"
)

// SpriteSystem reclassifies every sprite from markers, in priority order:
// Spawn, then Dead, then the kind marker. Phase 2 (Update).
type SpriteSystem struct {
	state  *world.State
	passes []spritePass
}

type spritePass struct {
	filter    *ecs.Filter
	character component.Character
}

func NewSpriteSystem(st *world.State) *SpriteSystem {
	w := st.World
	live := func(kind ecs.Column) *ecs.Filter {
		return ecs.NewFilter(w, st.Sprites, kind).Without(st.Spawns, st.Deads)
	}
	return &SpriteSystem{
		state: st,
		passes: []spritePass{
			{ecs.NewFilter(w, st.Sprites, st.Spawns), component.CharacterSpawn},
			{ecs.NewFilter(w, st.Sprites, st.Deads).Without(st.Spawns), component.CharacterGrave},
			{live(st.NPCs), component.KindNPC.Character()},
			{live(st.Heroes), component.KindHero.Character()},
			{live(st.Monsters), component.KindMonster.Character()},
		},
	}
}

func (s *SpriteSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *SpriteSystem) Name() string         { return "sprite" }

func (s *SpriteSystem) Update() {
	for _, p := range s.passes {
		c := p.character
		p.filter.Each(func(id ecs.EntityID) {
			s.state.Sprites.MustGet(id).Character = c
		})
	}
}
