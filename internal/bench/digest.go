package bench

import (
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/core/ecs"
	"github.com/l1jgo/skirmish/internal/world"
)

type unitRecord struct {
	id, seed, counter uint32
	tick              int64
	hp                int32
	x, y              uint32 // float bits
	character         uint8
	dead              bool
}

// Digest fingerprints every unit's logical state as BLAKE2b-256 hex. Units are
// ordered by (ID, Seed, Counter) so the value does not depend on entity
// handles or store enumeration order.
func Digest(st *world.State) string {
	recs := make([]unitRecord, 0, st.Units.Len())
	st.Units.Each(func(id ecs.EntityID, u *component.Unit) {
		r := unitRecord{
			id:      u.ID,
			seed:    u.Seed,
			counter: u.Counter,
			dead:    st.Deads.Has(id),
		}
		if d, ok := st.Datas.Get(id); ok {
			r.tick = d.Tick
		}
		if h, ok := st.Healths.Get(id); ok {
			r.hp = h.Hp
		}
		if p, ok := st.Positions.Get(id); ok {
			r.x, r.y = math.Float32bits(p.V.X), math.Float32bits(p.V.Y)
		}
		if s, ok := st.Sprites.Get(id); ok {
			r.character = uint8(s.Character)
		}
		recs = append(recs, r)
	})
	sort.Slice(recs, func(i, j int) bool {
		a, b := &recs[i], &recs[j]
		if a.id != b.id {
			return a.id < b.id
		}
		if a.seed != b.seed {
			return a.seed < b.seed
		}
		return a.counter < b.counter
	})

	h, _ := blake2b.New256(nil) // only fails for an oversized key
	var buf [34]byte
	for _, r := range recs {
		binary.LittleEndian.PutUint32(buf[0:], r.id)
		binary.LittleEndian.PutUint32(buf[4:], r.seed)
		binary.LittleEndian.PutUint32(buf[8:], r.counter)
		binary.LittleEndian.PutUint64(buf[12:], uint64(r.tick))
		binary.LittleEndian.PutUint32(buf[20:], uint32(r.hp))
		binary.LittleEndian.PutUint32(buf[24:], r.x)
		binary.LittleEndian.PutUint32(buf[28:], r.y)
		buf[32] = r.character
		buf[33] = 0
		if r.dead {
			buf[33] = 1
		}
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
