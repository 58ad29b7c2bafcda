// Package random provides the stable seed/counter hash and the bounded
// generator every unit draws from. Both are pure functions of their inputs,
// so a replayed trajectory always yields the same draws.
package random

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// StableHash mixes a seed with a counter into a new 32-bit value. It is the
// reseed used on respawn and the raw draw behind Generator.
func StableHash(seed, counter uint32) uint32 {
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[:4], seed)
	binary.LittleEndian.PutUint32(buf[4:], counter)
	h := xxhash.Sum64(buf[:])
	return uint32(h) ^ uint32(h>>32)
}

// Generator draws values for one seed. The cursor lives with the caller
// (Unit.Counter) and advances by one per draw.
type Generator struct {
	seed uint32
}

func New(seed uint32) Generator {
	return Generator{seed: seed}
}

// Next returns the raw draw at *counter and advances it.
func (g Generator) Next(counter *uint32) uint32 {
	v := StableHash(g.seed, *counter)
	*counter++
	return v
}

// Random returns an index in [0, bound). bound must be positive.
func (g Generator) Random(counter *uint32, bound int) int {
	if bound <= 0 {
		panic("random: bound must be positive")
	}
	return int((uint64(g.Next(counter)) * uint64(bound)) >> 32)
}

// Range returns a value in [lo, hi]. When hi <= lo it returns lo and still
// consumes one draw, so call sites advance the cursor uniformly.
func (g Generator) Range(counter *uint32, lo, hi int32) int32 {
	if hi <= lo {
		g.Next(counter)
		return lo
	}
	span := int(int64(hi)-int64(lo)) + 1
	return int32(int64(lo) + int64(g.Random(counter, span)))
}

// Float returns a value in [0, 1).
func (g Generator) Float(counter *uint32) float32 {
	return float32(g.Next(counter)>>8) / (1 << 24)
}
