package component

// Presence-only markers.

// Spawn marks a unit awaiting spawn resolution.
type Spawn struct{}

// Dead marks a unit waiting for its respawn tick.
type Dead struct{}

type NPC struct{}

type Hero struct{}

type Monster struct{}
