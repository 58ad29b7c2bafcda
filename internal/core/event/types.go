package event

import "github.com/l1jgo/skirmish/internal/core/ecs"

// UnitKilled is emitted by the kill system when a unit is marked dead.
type UnitKilled struct {
	Entity      ecs.EntityID
	UnitID      uint32
	Tick        int64
	RespawnTick int64
}

// UnitRespawned is emitted when a dead unit is replaced by a fresh spawn.
type UnitRespawned struct {
	Old, New ecs.EntityID
	OldID    uint32
	NewID    uint32
	NewSeed  uint32
	Tick     int64
}

// AttackResolved is emitted for every attack entity the damage system reaps.
// Landed is false when the target had already died or vanished.
type AttackResolved struct {
	Target ecs.EntityID
	Damage int32
	Landed bool
}
