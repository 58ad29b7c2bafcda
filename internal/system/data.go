package system

import (
	"github.com/l1jgo/skirmish/internal/core/ecs"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/world"
)

// DataSystem advances every entity clock by one. It runs last so the whole
// tick observes the pre-increment value. Phase 2 (Update).
type DataSystem struct {
	state  *world.State
	filter *ecs.Filter
}

func NewDataSystem(st *world.State) *DataSystem {
	return &DataSystem{
		state:  st,
		filter: ecs.NewFilter(st.World, st.Datas),
	}
}

func (s *DataSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *DataSystem) Name() string         { return "data" }

func (s *DataSystem) Update() {
	st := s.state
	s.filter.Each(func(id ecs.EntityID) {
		st.Datas.MustGet(id).Tick++
	})
}
