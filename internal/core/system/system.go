package system

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseEvents    Phase = iota // 0: deliver last tick's events
	PhaseLifecycle              // 1: spawn, respawn, kill
	PhaseUpdate                 // 2: render, sprite, combat, motion, data
)

func (p Phase) String() string {
	switch p {
	case PhaseEvents:
		return "events"
	case PhaseLifecycle:
		return "lifecycle"
	case PhaseUpdate:
		return "update"
	default:
		return "unknown"
	}
}

// System is the interface every ECS system implements. Update performs one
// full pass; it must not assume that structural edits it queued are visible
// before it returns.
type System interface {
	Phase() Phase
	Update()
}

// Named is optionally implemented by systems that want a stable label in
// logs and ordering checks.
type Named interface {
	Name() string
}
