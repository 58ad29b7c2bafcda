package policy

import (
	"math"

	"github.com/l1jgo/skirmish/internal/component"
)

// AttackTiming derives flight time from Euclidean distance:
// ceil(distance / Speed), clamped to [MinTicks, MaxTicks]. MaxTicks <= 0
// means uncapped, which still saturates at math.MaxInt32.
type AttackTiming struct {
	Speed    float32
	MinTicks int32
	MaxTicks int32
}

func (a AttackTiming) Ticks(from, to component.Vec2) int32 {
	return a.FromDistance(from.Distance(to))
}

// FromDistance is Ticks for a precomputed distance.
func (a AttackTiming) FromDistance(d float32) int32 {
	return ClampTicks(math.Ceil(float64(d)/float64(a.Speed)), a.MinTicks, a.MaxTicks)
}

// ClampTicks converts a flight time to ticks, clamping to [lo, hi] before the
// conversion so huge or infinite values saturate instead of wrapping. hi <= 0
// means math.MaxInt32. NaN maps to lo.
func ClampTicks(t float64, lo, hi int32) int32 {
	upper := float64(math.MaxInt32)
	if hi > 0 {
		upper = float64(hi)
	}
	switch {
	case math.IsNaN(t) || t <= float64(lo):
		return lo
	case t >= upper:
		return int32(upper)
	}
	return int32(t)
}

// ConstantTicks ignores distance. Useful for fixed-flight scenarios.
func ConstantTicks(n int32) AttackTimingFunc {
	return func(_, _ component.Vec2) int32 { return n }
}
