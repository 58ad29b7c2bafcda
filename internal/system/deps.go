package system

import (
	"github.com/l1jgo/skirmish/internal/core/event"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/policy"
	"github.com/l1jgo/skirmish/internal/render"
	"github.com/l1jgo/skirmish/internal/world"
)

// Deps carries everything the simulation systems share.
type Deps struct {
	State        *world.State
	Bus          *event.Bus // optional; nil disables event emission
	Policies     policy.Set
	Framebuffer  render.Framebuffer
	RespawnDelay int64
}

// RegisterAll registers the full tick pipeline on r.
//
//	Phase A (lifecycle): Spawn, Respawn, Kill
//	Phase B (update):    Render, Sprite, Damage, Attack, Movement, VelocityUpdate, DataUpdate
//
// The event dispatch system runs ahead of both when a bus is configured.
func RegisterAll(r *coresys.Runner, deps Deps) {
	if deps.Bus != nil {
		r.Register(NewEventSystem(deps.Bus))
	}

	r.Register(NewSpawnSystem(deps.State, deps.Policies.Spawn))
	r.Register(NewRespawnSystem(deps.State, deps.Bus))
	r.Register(NewKillSystem(deps.State, deps.Bus, deps.RespawnDelay))

	r.Register(NewRenderSystem(deps.State, deps.Framebuffer))
	r.Register(NewSpriteSystem(deps.State))
	r.Register(NewDamageSystem(deps.State, deps.Bus))
	r.Register(NewAttackSystem(deps.State, deps.Policies.AttackTicks))
	r.Register(NewMovementSystem(deps.State))
	r.Register(NewVelocitySystem(deps.State, deps.Policies.Velocity))
	r.Register(NewDataSystem(deps.State))
}
