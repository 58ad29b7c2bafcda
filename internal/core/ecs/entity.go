package ecs

import "fmt"

// EntityID encodes a 32-bit index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on destroy so stale handles held
// by attack entities never resolve to a recycled slot.
type EntityID uint64

// NilEntity is never handed out by a pool.
const NilEntity EntityID = 0

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == NilEntity }

func (id EntityID) String() string {
	return fmt.Sprintf("e%d.%d", id.Index(), id.Generation())
}

// EntityPool manages entity allocation with generational indices and a free list.
// Generations start at 1 so that index 0 never encodes NilEntity.
type EntityPool struct {
	generations []uint32
	freeList    []uint32
	nextIndex   uint32
	live        int
}

func NewEntityPool(capacity int) *EntityPool {
	return &EntityPool{
		generations: make([]uint32, 0, capacity),
		freeList:    make([]uint32, 0, capacity/4),
	}
}

func (p *EntityPool) Create() EntityID {
	p.live++
	if n := len(p.freeList); n > 0 {
		idx := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		return NewEntityID(idx, p.generations[idx])
	}
	idx := p.nextIndex
	p.nextIndex++
	p.generations = append(p.generations, 1)
	return NewEntityID(idx, p.generations[idx])
}

func (p *EntityPool) Alive(id EntityID) bool {
	idx := id.Index()
	if idx >= p.nextIndex {
		return false
	}
	return p.generations[idx] == id.Generation()
}

// Destroy invalidates id. It reports false for stale or unknown handles.
func (p *EntityPool) Destroy(id EntityID) bool {
	if !p.Alive(id) {
		return false
	}
	idx := id.Index()
	p.generations[idx]++
	p.freeList = append(p.freeList, idx)
	p.live--
	return true
}

// Len returns the number of live handles.
func (p *EntityPool) Len() int { return p.live }
