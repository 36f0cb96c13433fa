// Package hud draws the panels over the map: the contents of an open
// storage and the debug overlay.
package hud

import (
	"fmt"
	"image/color"

	"chosenoffset.com/stationkeeper/internal/events"
	"chosenoffset.com/stationkeeper/internal/inventory"
	"chosenoffset.com/stationkeeper/internal/objects"
	"chosenoffset.com/stationkeeper/internal/render"
	"chosenoffset.com/stationkeeper/internal/render/viewport"
)

// CellSize is the on-screen size of one storage cell.
const CellSize = 40

var (
	panelColor  = color.RGBA{20, 20, 30, 200}
	borderColor = color.RGBA{60, 60, 80, 255}
	cellColor   = color.RGBA{35, 35, 50, 255}
	itemColor   = color.RGBA{120, 110, 70, 255}
	textColor   = color.RGBA{230, 230, 200, 255}
)

// StoragePanel shows the grid of the storage the player opened.
type StoragePanel struct {
	screenW, screenH int
	open             objects.Storer
}

// NewStoragePanel creates a hidden panel for a screen of the given size.
func NewStoragePanel(screenW, screenH int) *StoragePanel {
	return &StoragePanel{screenW: screenW, screenH: screenH}
}

// Open returns the storage being shown, or nil.
func (p *StoragePanel) Open() objects.Storer {
	return p.open
}

// Handle consumes the storage events.
func (p *StoragePanel) Handle(e events.Event) bool {
	switch e := e.(type) {
	case events.ShowStorage:
		if s, ok := e.Object.(objects.Storer); ok {
			p.open = s
		}
		return true
	case events.HideStorage:
		p.open = nil
		return true
	}
	return false
}

// Origin returns the top-left corner of the grid of s.
func (p *StoragePanel) Origin(s *inventory.Storage) (int, int) {
	w, h := s.Width()*CellSize, s.Height()*CellSize
	return p.screenW - w - 20, (p.screenH - h) / 2
}

// Draw draws the open storage.
func (p *StoragePanel) Draw(r render.Renderer, dst render.Image) {
	if p.open == nil {
		return
	}
	s := p.open.Storage()
	x, y := p.Origin(s)
	w, h := s.Width()*CellSize, s.Height()*CellSize

	drawPanel(r, dst, x-8, y-24, w+16, h+32)
	r.DrawText(dst, p.open.Description(), x, y-18, textColor)
	for cy := 0; cy < s.Height(); cy++ {
		for cx := 0; cx < s.Width(); cx++ {
			r.FillRect(dst, float32(x+cx*CellSize+1), float32(y+cy*CellSize+1), CellSize-2, CellSize-2, cellColor)
		}
	}
	for _, st := range s.Items() {
		c := st.Cells()
		ix, iy := x+c.Min.X*CellSize+3, y+c.Min.Y*CellSize+3
		r.FillRect(dst, float32(ix), float32(iy), float32(c.Dx()*CellSize-6), float32(c.Dy()*CellSize-6), itemColor)
		name := st.Item.DisplayName
		if name == "" {
			name = st.Item.Name
		}
		r.DrawText(dst, name, ix+2, iy+2, textColor)
	}
}

// Debug is the F3 overlay with the frame rate and the viewport cache
// counters.
type Debug struct {
	Visible bool
}

// Toggle flips the overlay.
func (d *Debug) Toggle() {
	d.Visible = !d.Visible
}

// Lines returns the overlay text.
func (d *Debug) Lines(fps float64, stats viewport.Stats, objs int) []string {
	return []string{
		fmt.Sprintf("FPS: %.1f", fps),
		fmt.Sprintf("cache: %d full, %d partial, %d cells", stats.Full, stats.Partial, stats.Invalidated),
		fmt.Sprintf("last scroll: %s by %d", stats.LastDir, stats.LastOvershoot),
		fmt.Sprintf("objects: %d", objs),
	}
}

// Draw draws the overlay in the top-left corner.
func (d *Debug) Draw(r render.Renderer, dst render.Image, fps float64, stats viewport.Stats, objs int) {
	if !d.Visible {
		return
	}
	lines := d.Lines(fps, stats, objs)
	drawPanel(r, dst, 10, 10, 300, len(lines)*16+16)
	for i, line := range lines {
		r.DrawText(dst, line, 18, 18+i*16, textColor)
	}
}

func drawPanel(r render.Renderer, dst render.Image, x, y, w, h int) {
	r.FillRect(dst, float32(x), float32(y), float32(w), float32(h), borderColor)
	r.FillRect(dst, float32(x+1), float32(y+1), float32(w-2), float32(h-2), panelColor)
}
