package component

import "math"

// Vec2 is a 2D world-space vector.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float32) Vec2    { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Length() float32         { return float32(math.Hypot(float64(v.X), float64(v.Y))) }
func (v Vec2) Distance(o Vec2) float32 { return v.Sub(o).Length() }

// Round returns the nearest grid cell.
func (v Vec2) Round() (int, int) {
	return int(math.Round(float64(v.X))), int(math.Round(float64(v.Y)))
}

type Position struct {
	V Vec2
}

// Velocity is the per-tick displacement, recomputed every tick.
type Velocity struct {
	V Vec2
}
