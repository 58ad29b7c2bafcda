package system

import (
	"sort"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/policy"
	"github.com/l1jgo/skirmish/internal/random"
	"github.com/l1jgo/skirmish/internal/world"
)

// candidate is one row of the per-tick targeting snapshot.
type candidate struct {
	key     uint32 // Unit.ID
	seed    uint32
	counter uint32
	entity  ecs.EntityID
	pos     component.Vec2
}

// AttackSystem lets every ready unit pick a target and launch an attack
// entity at it. Phase 2 (Update).
//
// The store enumerates entities in no particular order, so the candidate
// snapshot is sorted by unit ID before any draw. Every attacker then indexes
// the sorted snapshot with its own generator; the same population always
// yields the same targets.
type AttackSystem struct {
	state   *world.State
	filter  *ecs.Filter
	ticks   policy.AttackTimingFunc
	targets []candidate // scratch, reset every tick
}

func NewAttackSystem(st *world.State, ticks policy.AttackTimingFunc) *AttackSystem {
	return &AttackSystem{
		state: st,
		filter: ecs.NewFilter(st.World, st.Units, st.Datas, st.Damages, st.Positions).
			Without(st.Spawns, st.Deads),
		ticks: ticks,
	}
}

func (s *AttackSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }
func (s *AttackSystem) Name() string         { return "attack" }

func (s *AttackSystem) Update() {
	s.fillTargets()
	if len(s.targets) == 0 {
		return
	}
	sortCandidates(s.targets)
	s.createAttacks()
}

func (s *AttackSystem) fillTargets() {
	st := s.state
	s.targets = s.targets[:0]
	s.filter.Each(func(id ecs.EntityID) {
		u := st.Units.MustGet(id)
		s.targets = append(s.targets, candidate{
			key:     u.ID,
			seed:    u.Seed,
			counter: u.Counter,
			entity:  id,
			pos:     st.Positions.MustGet(id).V,
		})
	})
}

// sortCandidates orders by unit ID. Respawned IDs OR the tick into the old ID
// and can collide, so seed and then cursor break ties.
func sortCandidates(c []candidate) {
	sort.Slice(c, func(i, j int) bool {
		a, b := &c[i], &c[j]
		if a.key != b.key {
			return a.key < b.key
		}
		if a.seed != b.seed {
			return a.seed < b.seed
		}
		return a.counter < b.counter
	})
}

func (s *AttackSystem) createAttacks() {
	st := s.state
	n := len(s.targets)
	for i := range s.targets {
		attacker := &s.targets[i]
		damage := st.Damages.MustGet(attacker.entity)
		if damage.Cooldown <= 0 {
			continue
		}
		unit := st.Units.MustGet(attacker.entity)
		tick := st.Datas.MustGet(attacker.entity).Tick - unit.SpawnTick
		if tick%int64(damage.Cooldown) != 0 {
			continue
		}

		g := random.New(unit.Seed)
		target := s.targets[g.Random(&unit.Counter, n)]

		id := st.World.CreateEntity()
		st.Attacks.Add(id, component.Attack{
			Target: target.entity,
			Damage: damage.Attack,
			Ticks:  s.ticks(attacker.pos, target.pos),
		})
	}
}
