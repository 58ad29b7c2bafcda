package system

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	"github.com/l1jgo/skirmish/internal/core/event"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/data"
	"github.com/l1jgo/skirmish/internal/policy"
	"github.com/l1jgo/skirmish/internal/random"
	"github.com/l1jgo/skirmish/internal/render"
	"github.com/l1jgo/skirmish/internal/world"
)

type pipeline struct {
	state  *world.State
	bus    *event.Bus
	runner *coresys.Runner
	grid   *render.Grid
}

func newPipeline(count int, set policy.Set, respawnDelay int64) *pipeline {
	st := world.NewState(count * 4)
	p := &pipeline{
		state:  st,
		bus:    event.NewBus(),
		runner: coresys.NewRunner(st.World),
		grid:   render.NewGrid(120, 40),
	}
	RegisterAll(p.runner, Deps{
		State:        st,
		Bus:          p.bus,
		Policies:     set,
		Framebuffer:  p.grid,
		RespawnDelay: respawnDelay,
	})
	st.Populate(count)
	return p
}

func (p *pipeline) run(ticks int) {
	for i := 0; i < ticks; i++ {
		p.runner.Tick()
	}
}

func selfAttackPolicies() policy.Set {
	return policy.Set{
		Spawn: policy.Fixed(component.KindNPC,
			component.Health{Hp: 5},
			component.Damage{Attack: 10, Defence: 0, Cooldown: 1}),
		AttackTicks: policy.ConstantTicks(0),
		Velocity:    policy.Still,
	}
}

func onlyUnit(t *testing.T, st *world.State) ecs.EntityID {
	t.Helper()
	require.Equal(t, 1, st.Units.Len())
	var found ecs.EntityID
	st.Units.Each(func(id ecs.EntityID, _ *component.Unit) { found = id })
	return found
}

func TestPipelineOrder(t *testing.T) {
	p := newPipeline(1, selfAttackPolicies(), 3)
	assert.Equal(t, []string{
		"events",
		"spawn", "respawn", "kill",
		"render", "sprite", "damage", "attack", "movement", "velocity", "data",
	}, p.runner.Order())
}

func TestSingleUnitAttacksItselfAndDies(t *testing.T) {
	p := newPipeline(1, selfAttackPolicies(), 3)
	st := p.state

	p.run(1) // tick 0: spawn resolves, first attack launched
	id := onlyUnit(t, st)
	assert.Equal(t, int32(5), st.Healths.MustGet(id).Hp)
	assert.Equal(t, 1, st.Attacks.Len())

	p.run(1) // tick 1: first attack lands, second launched
	assert.Equal(t, int32(-5), st.Healths.MustGet(id).Hp)
	assert.False(t, st.Deads.Has(id))
	assert.Equal(t, 1, st.Attacks.Len())

	p.run(1) // tick 2: kill pass
	require.True(t, st.Deads.Has(id))
	assert.Equal(t, int64(2+3), st.Units.MustGet(id).RespawnTick)
	assert.Equal(t, int32(-5), st.Healths.MustGet(id).Hp, "damage on a dead target is discarded")
	assert.Zero(t, st.Attacks.Len(), "dead units do not attack")
}

func TestRespawnReplacesTheDeadUnit(t *testing.T) {
	p := newPipeline(1, selfAttackPolicies(), 3)
	st := p.state

	var respawned []event.UnitRespawned
	event.Subscribe(p.bus, func(e event.UnitRespawned) { respawned = append(respawned, e) })

	p.run(5) // ticks 0..4; dead since tick 2
	old := onlyUnit(t, st)
	before := *st.Units.MustGet(old)
	require.True(t, st.Deads.Has(old))

	p.run(1) // tick 5: respawn
	assert.False(t, st.World.Alive(old))
	now := onlyUnit(t, st)
	assert.True(t, st.Spawns.Has(now))
	assert.False(t, st.Deads.Has(now))

	unit := st.Units.MustGet(now)
	assert.Equal(t, before.ID|uint32(5)<<16, unit.ID)
	assert.Equal(t, random.StableHash(before.Seed, before.Counter), unit.Seed)
	assert.Zero(t, unit.Counter)
	assert.Equal(t, int64(6), st.Datas.MustGet(now).Tick, "the clock carries over and keeps running")

	p.run(1) // tick 6: the successor resolves; the event from tick 5 arrives
	assert.False(t, st.Spawns.Has(now))
	assert.True(t, st.NPCs.Has(now))
	assert.Equal(t, int32(5), st.Healths.MustGet(now).Hp)
	assert.Equal(t, int64(6), unit.SpawnTick)

	require.Len(t, respawned, 1)
	assert.Equal(t, old, respawned[0].Old)
	assert.Equal(t, now, respawned[0].New)
	assert.Equal(t, unit.Seed, respawned[0].NewSeed)
}

func TestSuccessor(t *testing.T) {
	u := component.Unit{ID: 3, Seed: 7, Counter: 4, SpawnTick: 9, RespawnTick: 12}
	next := Successor(u, 12)
	assert.Equal(t, uint32(3|12<<16), next.ID)
	assert.Equal(t, random.StableHash(7, 4), next.Seed)
	assert.Zero(t, next.Counter)
	assert.Zero(t, next.RespawnTick)

	// Same pre-death state, same successor.
	assert.Equal(t, next, Successor(u, 12))
	// A different cursor yields a different seed.
	u.Counter++
	assert.NotEqual(t, next.Seed, Successor(u, 12).Seed)
}

// addFighter inserts an already resolved unit and commits it.
func addFighter(st *world.State, unitID uint32, dmg component.Damage, pos component.Vec2) ecs.EntityID {
	id := st.World.CreateEntity()
	st.Units.Add(id, component.Unit{ID: unitID, Seed: unitID})
	st.Datas.Add(id, component.Data{})
	st.Healths.Add(id, component.Health{Hp: 100})
	st.Damages.Add(id, dmg)
	st.Positions.Add(id, component.Position{V: pos})
	st.World.Commit()
	return id
}

func TestAttackSkipsSpawningUnits(t *testing.T) {
	st := world.NewState(4)
	id := addFighter(st, 1, component.Damage{Attack: 5, Cooldown: 0}, component.Vec2{})
	st.Spawns.Add(id, component.Spawn{})
	st.World.Commit()

	s := NewAttackSystem(st, policy.ConstantTicks(1))
	for i := 0; i < 4; i++ {
		s.Update()
		st.World.Commit()
		st.Datas.MustGet(id).Tick++
	}
	assert.Zero(t, st.Attacks.Len())

	// Even a ready cooldown does not make a spawning unit a candidate.
	st.Damages.MustGet(id).Cooldown = 1
	s.Update()
	st.World.Commit()
	assert.Zero(t, st.Attacks.Len())
}

func TestAttackRespectsCooldownPhase(t *testing.T) {
	st := world.NewState(4)
	id := addFighter(st, 1, component.Damage{Attack: 5, Cooldown: 3}, component.Vec2{})
	st.Units.MustGet(id).SpawnTick = 1

	s := NewAttackSystem(st, policy.ConstantTicks(1))
	var launched []int64
	for tick := int64(1); tick <= 8; tick++ {
		st.Datas.MustGet(id).Tick = tick
		before := st.Attacks.Len()
		s.Update()
		st.World.Commit()
		if st.Attacks.Len() > before {
			launched = append(launched, tick)
		}
	}
	assert.Equal(t, []int64{1, 4, 7}, launched)
	assert.Equal(t, uint32(3), st.Units.MustGet(id).Counter, "one draw per launched attack")
}

// targetsFor runs one attack pass over units 5 and 9 and counts how often each
// unit ID was targeted. reverse flips the insertion order.
func targetsFor(t *testing.T, reverse bool) map[uint32]int {
	t.Helper()
	st := world.NewState(8)
	ids := []uint32{5, 9}
	if reverse {
		ids = []uint32{9, 5}
	}
	for i, u := range ids {
		addFighter(st, u, component.Damage{Attack: 1, Cooldown: 1}, component.Vec2{X: float32(i)})
	}

	NewAttackSystem(st, policy.ConstantTicks(1)).Update()
	st.World.Commit()
	require.Equal(t, 2, st.Attacks.Len())

	got := map[uint32]int{}
	st.Attacks.Each(func(_ ecs.EntityID, a *component.Attack) {
		got[st.Units.MustGet(a.Target).ID]++
	})
	return got
}

func TestAttackTargetIndependentOfInsertionOrder(t *testing.T) {
	// Replay both draws against the sorted keys [5, 9].
	sorted := []uint32{5, 9}
	want := map[uint32]int{}
	for _, seed := range sorted {
		var counter uint32
		want[sorted[random.New(seed).Random(&counter, len(sorted))]]++
	}

	for i := 0; i < 10; i++ {
		assert.Equal(t, want, targetsFor(t, i%2 == 1))
	}
}

func TestAttackSnapshotSortedByUnitID(t *testing.T) {
	c := []candidate{
		{key: 9, seed: 1},
		{key: 5, seed: 3},
		{key: 5, seed: 2, counter: 4},
		{key: 5, seed: 2, counter: 1},
		{key: 0},
	}
	sortCandidates(c)
	var got [][3]uint32
	for _, x := range c {
		got = append(got, [3]uint32{x.key, x.seed, x.counter})
	}
	assert.Equal(t, [][3]uint32{{0, 0, 0}, {5, 2, 1}, {5, 2, 4}, {5, 3, 0}, {9, 1, 0}}, got)
}

func TestAttackFlightTimeFromPolicy(t *testing.T) {
	st := world.NewState(4)
	attacker := addFighter(st, 1, component.Damage{Attack: 4, Cooldown: 1}, component.Vec2{})
	timing := policy.AttackTiming{Speed: 2, MinTicks: 1}

	NewAttackSystem(st, timing.Ticks).Update()
	st.World.Commit()

	require.Equal(t, 1, st.Attacks.Len())
	st.Attacks.Each(func(_ ecs.EntityID, a *component.Attack) {
		assert.Equal(t, attacker, a.Target)
		assert.Equal(t, int32(4), a.Damage)
		assert.Equal(t, int32(1), a.Ticks, "zero distance is clamped to the minimum")
	})
}

func launch(st *world.State, target ecs.EntityID, dmg, ticks int32) ecs.EntityID {
	id := st.World.CreateEntity()
	st.Attacks.Add(id, component.Attack{Target: target, Damage: dmg, Ticks: ticks})
	st.World.Commit()
	return id
}

func TestDamageCountsDownThenResolvesOnce(t *testing.T) {
	st := world.NewState(4)
	target := addFighter(st, 1, component.Damage{Defence: 2}, component.Vec2{})
	attack := launch(st, target, 10, 2)
	s := NewDamageSystem(st, nil)

	pass := func() {
		s.Update()
		st.World.Commit()
	}

	pass()
	assert.True(t, st.World.Alive(attack))
	assert.Equal(t, int32(1), st.Attacks.MustGet(attack).Ticks)
	assert.Equal(t, int32(100), st.Healths.MustGet(target).Hp)

	pass()
	assert.True(t, st.World.Alive(attack))
	assert.Equal(t, int32(0), st.Attacks.MustGet(attack).Ticks)

	pass()
	assert.False(t, st.World.Alive(attack))
	assert.Equal(t, int32(92), st.Healths.MustGet(target).Hp)

	pass()
	assert.Equal(t, int32(92), st.Healths.MustGet(target).Hp)
	assert.Zero(t, st.Attacks.Len())
}

func TestDamageDoesNotClampHealth(t *testing.T) {
	st := world.NewState(4)
	target := addFighter(st, 1, component.Damage{}, component.Vec2{})
	st.Healths.MustGet(target).Hp = 1
	launch(st, target, 30, 0)
	launch(st, target, 30, 0)

	NewDamageSystem(st, nil).Update()
	st.World.Commit()
	assert.Equal(t, int32(-59), st.Healths.MustGet(target).Hp)
	assert.False(t, st.Deads.Has(target), "only the kill system marks units dead")
}

func TestDamageDiscardsAttacksOnDeadOrMissingTargets(t *testing.T) {
	st := world.NewState(4)
	bus := event.NewBus()
	var resolved []event.AttackResolved
	event.Subscribe(bus, func(e event.AttackResolved) { resolved = append(resolved, e) })

	dead := addFighter(st, 1, component.Damage{}, component.Vec2{})
	st.Deads.Add(dead, component.Dead{})
	gone := addFighter(st, 2, component.Damage{}, component.Vec2{})
	live := addFighter(st, 3, component.Damage{Defence: 1}, component.Vec2{})
	launch(st, dead, 10, 0)
	launch(st, gone, 10, 0)
	launch(st, live, 10, 0)
	st.World.Destroy(gone)
	st.World.Commit()

	NewDamageSystem(st, bus).Update()
	st.World.Commit()
	bus.Flush()

	assert.Zero(t, st.Attacks.Len())
	assert.Equal(t, int32(100), st.Healths.MustGet(dead).Hp)
	assert.Equal(t, int32(91), st.Healths.MustGet(live).Hp)

	require.Len(t, resolved, 3)
	landed := 0
	for _, e := range resolved {
		if e.Landed {
			landed++
			assert.Equal(t, live, e.Target)
		}
	}
	assert.Equal(t, 1, landed)
}

func TestKillMarksDeadOnce(t *testing.T) {
	st := world.NewState(4)
	bus := event.NewBus()
	var killed []event.UnitKilled
	event.Subscribe(bus, func(e event.UnitKilled) { killed = append(killed, e) })

	id := addFighter(st, 4, component.Damage{}, component.Vec2{})
	st.Healths.MustGet(id).Hp = 0
	st.Datas.MustGet(id).Tick = 10
	alive := addFighter(st, 5, component.Damage{}, component.Vec2{})

	s := NewKillSystem(st, bus, 7)
	s.Update()
	st.World.Commit()
	s.Update()
	st.World.Commit()
	bus.Flush()

	assert.True(t, st.Deads.Has(id))
	assert.False(t, st.Deads.Has(alive))
	assert.Equal(t, int64(17), st.Units.MustGet(id).RespawnTick)
	require.Len(t, killed, 1)
	assert.Equal(t, uint32(4), killed[0].UnitID)
	assert.Equal(t, int64(17), killed[0].RespawnTick)
}

func TestSpawnResolvesExactlyOnce(t *testing.T) {
	st := world.NewState(4)
	st.Populate(3)
	calls := 0
	resolve := func(d component.Data, u *component.Unit) policy.Spawned {
		calls++
		u.Counter += 2
		u.SpawnTick = d.Tick
		return policy.Spawned{Kind: component.KindMonster, Health: component.Health{Hp: 9}}
	}
	s := NewSpawnSystem(st, resolve)
	s.Update()
	st.World.Commit()
	s.Update()
	st.World.Commit()

	assert.Equal(t, 3, calls)
	assert.Zero(t, st.Spawns.Len())
	assert.Equal(t, 3, st.Monsters.Len())
	assert.Zero(t, st.NPCs.Len()+st.Heroes.Len())
	st.Units.Each(func(id ecs.EntityID, u *component.Unit) {
		assert.Equal(t, uint32(2), u.Counter)
		assert.Equal(t, int32(9), st.Healths.MustGet(id).Hp)
		assert.True(t, st.Velocities.Has(id))
		assert.True(t, st.Positions.Has(id))
		assert.Equal(t, component.CharacterSpawn, st.Sprites.MustGet(id).Character)
	})
}

func TestSpritePriority(t *testing.T) {
	st := world.NewState(8)
	mk := func(markers ...func(ecs.EntityID)) ecs.EntityID {
		id := st.World.CreateEntity()
		st.Sprites.Add(id, component.Sprite{Character: component.CharacterNPC})
		for _, m := range markers {
			m(id)
		}
		return id
	}
	spawn := func(id ecs.EntityID) { st.Spawns.Add(id, component.Spawn{}) }
	dead := func(id ecs.EntityID) { st.Deads.Add(id, component.Dead{}) }
	hero := func(id ecs.EntityID) { st.Heroes.Add(id, component.Hero{}) }
	monster := func(id ecs.EntityID) { st.Monsters.Add(id, component.Monster{}) }
	npc := func(id ecs.EntityID) { st.NPCs.Add(id, component.NPC{}) }

	cases := map[ecs.EntityID]component.Character{
		mk(spawn, dead, hero): component.CharacterSpawn,
		mk(dead, hero):        component.CharacterGrave,
		mk(hero):              component.CharacterHero,
		mk(monster):           component.CharacterMonster,
		mk(npc):               component.CharacterNPC,
	}
	st.World.Commit()

	NewSpriteSystem(st).Update()
	st.World.Commit()
	for id, want := range cases {
		assert.Equal(t, want, st.Sprites.MustGet(id).Character, "entity %v", id)
	}
}

func TestRenderWritesRoundedGlyphs(t *testing.T) {
	st := world.NewState(4)
	grid := render.NewGrid(10, 5)
	put := func(pos component.Vec2, c component.Character) {
		id := st.World.CreateEntity()
		st.Positions.Add(id, component.Position{V: pos})
		st.Sprites.Add(id, component.Sprite{Character: c})
		st.Datas.Add(id, component.Data{})
	}
	put(component.Vec2{X: 2.4, Y: 3.6}, component.CharacterHero)
	put(component.Vec2{X: 50, Y: 1}, component.CharacterMonster)
	st.World.Commit()

	NewRenderSystem(st, grid).Update()
	assert.Equal(t, byte('H'), grid.At(2, 4))
	assert.Equal(t, 1, grid.Writes(), "out-of-range writes are dropped")
}

func TestMovementAndVelocity(t *testing.T) {
	st := world.NewState(4)
	mover := addFighter(st, 1, component.Damage{}, component.Vec2{X: 1, Y: 1})
	corpse := addFighter(st, 2, component.Damage{}, component.Vec2{X: 1, Y: 1})
	for _, id := range []ecs.EntityID{mover, corpse} {
		st.Velocities.Add(id, component.Velocity{V: component.Vec2{X: 0.5, Y: -1}})
	}
	st.Deads.Add(corpse, component.Dead{})
	st.Datas.MustGet(mover).Tick = 3
	st.World.Commit()

	NewMovementSystem(st).Update()
	assert.Equal(t, component.Vec2{X: 1.5, Y: 0}, st.Positions.MustGet(mover).V)
	assert.Equal(t, component.Vec2{X: 1, Y: 1}, st.Positions.MustGet(corpse).V)

	byTick := func(pos component.Vec2, u component.Unit, tick int64) component.Vec2 {
		return component.Vec2{X: float32(tick), Y: pos.X + float32(u.ID)}
	}
	NewVelocitySystem(st, byTick).Update()
	assert.Equal(t, component.Vec2{X: 3, Y: 2.5}, st.Velocities.MustGet(mover).V)
	assert.Equal(t, component.Vec2{X: 0.5, Y: -1}, st.Velocities.MustGet(corpse).V)
}

func TestDataAdvancesEveryClock(t *testing.T) {
	st := world.NewState(4)
	st.Populate(3)
	s := NewDataSystem(st)
	s.Update()
	s.Update()
	st.Datas.Each(func(_ ecs.EntityID, d *component.Data) {
		assert.Equal(t, int64(2), d.Tick)
	})
}

type unitState struct {
	ID, Seed, Counter uint32
	Hp                int32
	Pos               component.Vec2
	Sprite            component.Character
	Dead              bool
}

func snapshot(st *world.State) []unitState {
	var out []unitState
	st.Units.Each(func(id ecs.EntityID, u *component.Unit) {
		s := unitState{ID: u.ID, Seed: u.Seed, Counter: u.Counter, Dead: st.Deads.Has(id)}
		if h, ok := st.Healths.Get(id); ok {
			s.Hp = h.Hp
		}
		if p, ok := st.Positions.Get(id); ok {
			s.Pos = p.V
		}
		if sp, ok := st.Sprites.Get(id); ok {
			s.Sprite = sp.Character
		}
		out = append(out, s)
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Seed < out[j].Seed
	})
	return out
}

func TestFullPipelineIsDeterministic(t *testing.T) {
	spawner := policy.Spawner{Table: data.DefaultUnitTable(), Width: 120, Height: 40}
	timing := policy.AttackTiming{Speed: 4, MinTicks: 1, MaxTicks: 20}
	patrol := policy.Patrol{Speed: 0.5, TurnInterval: 16, Width: 120, Height: 40}
	set := policy.Set{Spawn: spawner.Spawn, AttackTicks: timing.Ticks, Velocity: patrol.Velocity}

	runOnce := func() []unitState {
		p := newPipeline(64, set, 10)
		p.run(300)
		return snapshot(p.state)
	}

	first := runOnce()
	require.Len(t, first, 64)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, runOnce())
	}
}
