// Package view is the terminal front end. It only ever sees sim.Snapshot
// copies and hands input back as control.InputEvent values.
package view

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mattn/go-runewidth"

	"github.com/l1jgo/skirmish/internal/component"
	"github.com/l1jgo/skirmish/internal/config"
	"github.com/l1jgo/skirmish/internal/sim"
)

// hudRows is the number of rows at the top reserved for the status line.
const hudRows = 1

// Renderer draws snapshots onto a tcell screen. World units map to cells
// through a fixed cell size; y grows downward in both spaces.
type Renderer struct {
	screen tcell.Screen
	cellW  float32
	cellH  float32
}

func NewRenderer(screen tcell.Screen, cfg config.ViewConfig) *Renderer {
	return &Renderer{screen: screen, cellW: cfg.CellWidth, cellH: cfg.CellHeight}
}

// WorldToCell returns the screen cell containing world point p.
func (r *Renderer) WorldToCell(p mgl32.Vec2) (int, int) {
	x := int(math.Floor(float64(p[0] / r.cellW)))
	y := int(math.Floor(float64(p[1]/r.cellH))) + hudRows
	return x, y
}

// CellToWorld returns the world position of the centre of a screen cell.
func (r *Renderer) CellToWorld(x, y int) mgl32.Vec2 {
	return mgl32.Vec2{
		(float32(x) + 0.5) * r.cellW,
		(float32(y-hudRows) + 0.5) * r.cellH,
	}
}

// Draw clears the screen, draws every entity in the snapshot and the
// status line, then shows the result.
func (r *Renderer) Draw(snap sim.Snapshot) {
	r.screen.Clear()
	for _, e := range snap.Entities {
		style := tcell.StyleDefault.Foreground(toColor(e.Color))
		switch s := e.Shape.(type) {
		case component.Rectangle:
			r.drawRect(e.Position, s, style)
		case component.Circle:
			r.drawCircle(e.Position, s, style)
		}
	}
	r.drawText(0, 0, fmt.Sprintf("tick %d  bodies %d  [wasd] move  [click] fire  [esc] quit",
		snap.Tick, len(snap.Entities)), tcell.StyleDefault.Reverse(true))
	r.screen.Show()
}

func toColor(c component.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (r *Renderer) put(x, y int, ch rune, style tcell.Style) {
	w, h := r.screen.Size()
	if x < 0 || y < hudRows || x >= w || y >= h {
		return
	}
	r.screen.SetContent(x, y, ch, nil, style)
}

// drawRect outlines rectangles at least two cells on each side and fills
// anything smaller.
func (r *Renderer) drawRect(pos mgl32.Vec2, s component.Rectangle, style tcell.Style) {
	half := mgl32.Vec2{s.Width / 2, s.Height / 2}
	x0, y0 := r.WorldToCell(pos.Sub(half))
	x1, y1 := r.WorldToCell(pos.Add(half))
	if x1-x0 < 1 || y1-y0 < 1 {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				r.put(x, y, '█', style)
			}
		}
		return
	}
	for x := x0 + 1; x < x1; x++ {
		r.put(x, y0, '─', style)
		r.put(x, y1, '─', style)
	}
	for y := y0 + 1; y < y1; y++ {
		r.put(x0, y, '│', style)
		r.put(x1, y, '│', style)
	}
	r.put(x0, y0, '┌', style)
	r.put(x1, y0, '┐', style)
	r.put(x0, y1, '└', style)
	r.put(x1, y1, '┘', style)
}

// drawCircle fills every cell whose centre lies inside the circle, or the
// single cell under the centre for circles smaller than a cell.
func (r *Renderer) drawCircle(pos mgl32.Vec2, s component.Circle, style tcell.Style) {
	rad := mgl32.Vec2{s.Radius, s.Radius}
	x0, y0 := r.WorldToCell(pos.Sub(rad))
	x1, y1 := r.WorldToCell(pos.Add(rad))
	drawn := false
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if r.CellToWorld(x, y).Sub(pos).Len() <= s.Radius {
				r.put(x, y, '●', style)
				drawn = true
			}
		}
	}
	if !drawn {
		x, y := r.WorldToCell(pos)
		r.put(x, y, '•', style)
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	w, _ := r.screen.Size()
	for _, ch := range text {
		if x >= w {
			return
		}
		r.screen.SetContent(x, y, ch, nil, style)
		x += max(runewidth.RuneWidth(ch), 1)
	}
}
