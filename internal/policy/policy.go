// Package policy holds the pluggable pure functions the simulation systems
// call: spawn resolution, attack flight timing and velocity steering.
// Implementations must depend only on their arguments.
package policy

import "github.com/l1jgo/skirmish/internal/component"

// Spawned is the full component set a spawn resolution yields.
type Spawned struct {
	Kind     component.Kind
	Health   component.Health
	Damage   component.Damage
	Sprite   component.Sprite
	Position component.Position
	Velocity component.Velocity
}

// SpawnFunc resolves a spawning unit. It may advance unit.Counter and must set
// unit.SpawnTick.
type SpawnFunc func(data component.Data, unit *component.Unit) Spawned

// AttackTimingFunc returns the flight time in ticks between two positions.
// Implementations must be monotonic in distance.
type AttackTimingFunc func(from, to component.Vec2) int32

// VelocityFunc computes a unit's velocity for this tick from current state.
type VelocityFunc func(pos component.Vec2, unit component.Unit, tick int64) component.Vec2

// Set bundles the three policies a simulation runs with.
type Set struct {
	Spawn       SpawnFunc
	AttackTicks AttackTimingFunc
	Velocity    VelocityFunc
}
