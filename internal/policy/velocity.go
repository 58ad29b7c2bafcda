package policy

import (
	"math"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/random"
)

// Patrol walks each unit along a heading that changes every TurnInterval
// ticks. The heading is a hash of the unit seed and the interval index, so it
// needs no stored history. A unit outside the world rectangle heads back to
// the centre instead.
type Patrol struct {
	Speed        float32
	TurnInterval int64
	Width        float32
	Height       float32
}

// Velocity computes in float64 and rounds to float32 once per axis, the same
// arithmetic the bundled Lua policy performs, so both backends agree bit for bit.
func (p Patrol) Velocity(pos component.Vec2, unit component.Unit, tick int64) component.Vec2 {
	speed := float64(p.Speed)
	if p.outside(pos) {
		dx := float64(p.Width)/2 - float64(pos.X)
		dy := float64(p.Height)/2 - float64(pos.Y)
		l := math.Sqrt(float64(dx*dx) + float64(dy*dy)) // conversions keep the ops unfused
		if l == 0 {
			return component.Vec2{}
		}
		return component.Vec2{X: float32(dx * speed / l), Y: float32(dy * speed / l)}
	}
	interval := p.TurnInterval
	if interval <= 0 {
		interval = 1
	}
	h := random.StableHash(unit.Seed, uint32(tick/interval))
	angle := float64(h) / (1 << 32) * 2 * math.Pi
	return component.Vec2{
		X: float32(math.Cos(angle) * speed),
		Y: float32(math.Sin(angle) * speed),
	}
}

func (p Patrol) outside(pos component.Vec2) bool {
	return pos.X < 0 || pos.Y < 0 || pos.X >= p.Width || pos.Y >= p.Height
}

// Still keeps every unit in place.
func Still(component.Vec2, component.Unit, int64) component.Vec2 {
	return component.Vec2{}
}
