package scripting

import (
	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/policy"
)

// Policies overlays the Lua policies that the loaded scripts define onto
// fallback. A failed Lua call yields the fallback's value for that call.
func (e *Engine) Policies(fallback policy.Set) policy.Set {
	out := fallback
	if e.HasFunction("attack_ticks") {
		next := fallback.AttackTicks
		out.AttackTicks = func(from, to component.Vec2) int32 {
			if t, ok := e.AttackTicks(from.Distance(to)); ok {
				return t
			}
			return next(from, to)
		}
	}
	if e.HasFunction("unit_velocity") {
		next := fallback.Velocity
		out.Velocity = func(pos component.Vec2, unit component.Unit, tick int64) component.Vec2 {
			v, ok := e.UnitVelocity(VelocityContext{
				X: pos.X, Y: pos.Y,
				ID: unit.ID, Seed: unit.Seed,
				SpawnTick: unit.SpawnTick, Tick: tick,
			})
			if ok {
				return v
			}
			return next(pos, unit, tick)
		}
	}
	return out
}
