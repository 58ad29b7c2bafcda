// Package render holds the output surfaces the render system writes to.
package render

import "strings"

// Framebuffer accepts a character code at a grid cell. Writes outside the
// surface are dropped.
type Framebuffer interface {
	Draw(x, y int, glyph byte)
}

// Grid is an in-memory framebuffer. Blank cells hold Empty.
type Grid struct {
	width, height int
	cells         []byte
	writes        int
}

// Empty is the glyph of an unwritten cell.
const Empty byte = ' '

func NewGrid(width, height int) *Grid {
	g := &Grid{width: width, height: height, cells: make([]byte, width*height)}
	g.Clear()
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) Draw(x, y int, glyph byte) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	g.cells[y*g.width+x] = glyph
	g.writes++
}

// At returns the glyph at a cell, or Empty when out of range.
func (g *Grid) At(x, y int) byte {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return Empty
	}
	return g.cells[y*g.width+x]
}

// Writes counts in-range draws since the last Clear.
func (g *Grid) Writes() int { return g.writes }

func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = Empty
	}
	g.writes = 0
}

// String renders the grid one row per line.
func (g *Grid) String() string {
	var b strings.Builder
	b.Grow((g.width + 1) * g.height)
	for y := 0; y < g.height; y++ {
		b.Write(g.cells[y*g.width : (y+1)*g.width])
		b.WriteByte('\n')
	}
	return b.String()
}

// Discard drops every write. Used by throughput runs that don't inspect output.
type Discard struct{}

func (Discard) Draw(int, int, byte) {}
