package system

import (
	"github.com/l1jgo/skirmish/internal/core/ecs"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/render"
	"github.com/l1jgo/skirmish/internal/world"
)

// RenderSystem writes each sprite glyph at its rounded position. It only
// reads simulation state. Phase 2 (Update).
type RenderSystem struct {
	state  *world.State
	filter *ecs.Filter
	fb     render.Framebuffer
}

func NewRenderSystem(st *world.State, fb render.Framebuffer) *RenderSystem {
	if fb == nil {
		fb = render.Discard{}
	}
	return &RenderSystem{
		state:  st,
		filter: ecs.NewFilter(st.World, st.Positions, st.Sprites, st.Datas),
		fb:     fb,
	}
}

func (s *RenderSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *RenderSystem) Name() string         { return "render" }

func (s *RenderSystem) Update() {
	st := s.state
	s.filter.Each(func(id ecs.EntityID) {
		x, y := st.Positions.MustGet(id).V.Round()
		s.fb.Draw(x, y, st.Sprites.MustGet(id).Character.Glyph())
	})
}
