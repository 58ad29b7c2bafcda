package component

import "github.com/l1jgo/skirmish/internal/core/ecs"

// Health holds current hit points. Hp may go negative; only the kill system
// acts on the <= 0 threshold.
type Health struct {
	Hp int32
}

// Damage holds combat stats. Cooldown <= 0 disables attacking.
type Damage struct {
	Attack   int32
	Defence  int32
	Cooldown int32
}

// Attack is an in-flight attack. It lives on its own entity until the damage
// system reaps it.
type Attack struct {
	Target ecs.EntityID
	Damage int32
	Ticks  int32
}
