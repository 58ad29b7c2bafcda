package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Terminal mirrors a Grid onto a tcell screen. Draw writes to the backing
// grid; Show clears the screen, blits the grid and flips.
type Terminal struct {
	screen tcell.Screen
	grid   *Grid
	styles map[byte]tcell.Style
}

// NewTerminal takes ownership of an initialised screen.
func NewTerminal(screen tcell.Screen, width, height int) *Terminal {
	base := tcell.StyleDefault
	return &Terminal{
		screen: screen,
		grid:   NewGrid(width, height),
		styles: map[byte]tcell.Style{
			'H': base.Foreground(tcell.ColorYellow).Bold(true),
			'M': base.Foreground(tcell.ColorRed),
			'n': base.Foreground(tcell.ColorGreen),
			'+': base.Foreground(tcell.ColorGray),
			'*': base.Foreground(tcell.ColorAqua),
		},
	}
}

// OpenTerminal creates and initialises the process terminal screen.
func OpenTerminal(width, height int) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("new screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	return NewTerminal(screen, width, height), nil
}

func (t *Terminal) Draw(x, y int, glyph byte) {
	t.grid.Draw(x, y, glyph)
}

// Show presents the frame with a status line under it and resets the grid
// for the next tick.
func (t *Terminal) Show(status string) {
	t.screen.Clear()
	for y := 0; y < t.grid.Height(); y++ {
		for x := 0; x < t.grid.Width(); x++ {
			g := t.grid.At(x, y)
			if g == Empty {
				continue
			}
			style, ok := t.styles[g]
			if !ok {
				style = tcell.StyleDefault
			}
			t.screen.SetContent(x, y, rune(g), nil, style)
		}
	}
	for i, r := range status {
		t.screen.SetContent(i, t.grid.Height(), r, nil, tcell.StyleDefault.Reverse(true))
	}
	t.screen.Show()
	t.grid.Clear()
}

// KeyPressed drains pending events and reports whether a key was hit.
func (t *Terminal) KeyPressed() bool {
	for t.screen.HasPendingEvent() {
		if _, ok := t.screen.PollEvent().(*tcell.EventKey); ok {
			return true
		}
	}
	return false
}

func (t *Terminal) Close() {
	t.screen.Fini()
}
