// Package gamemap assembles the layer grids of a loaded map with its tileset
// and viewport cache.
package gamemap

import (
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/stationkeeper/internal/logger"
	"chosenoffset.com/stationkeeper/internal/render"
	"chosenoffset.com/stationkeeper/internal/render/viewport"
	"chosenoffset.com/stationkeeper/internal/world/atlas"
	"chosenoffset.com/stationkeeper/internal/world/direction"
	"chosenoffset.com/stationkeeper/internal/world/layer"
	"chosenoffset.com/stationkeeper/internal/world/maploader"
)

// SpawnOffset moves a spawn point into its cell.
const SpawnOffset = 5

// Pair is the floor and object cell at one grid position.
type Pair struct {
	Floor  *layer.Cell
	Object *layer.Cell
}

// Map is a loaded map.
type Map struct {
	Floor      *layer.Grid
	Decoration *layer.Grid
	Objects    *layer.Grid
	Top        *layer.Grid

	atlas    *atlas.Atlas
	cache    *viewport.Cache
	tileSize int
	log      logrus.FieldLogger
}

// New builds the four grids of md. The atlas decides the scaled tile size.
func New(md *maploader.MapData, at *atlas.Atlas, opts layer.Options, log logrus.FieldLogger) (*Map, error) {
	if md.TileHeight*at.Scale() != at.TileSize() {
		return nil, fmt.Errorf("map tile size %d does not match tileset tile size %d",
			md.TileHeight, at.TileSize()/at.Scale())
	}
	opts.TileSize = at.TileSize()
	opts.Scale = at.Scale()

	m := &Map{
		atlas:    at,
		tileSize: at.TileSize(),
		log:      logger.OrDiscard(log).WithField("component", "map"),
	}
	grids := []**layer.Grid{&m.Floor, &m.Decoration, &m.Objects, &m.Top}
	kinds := []layer.Kind{layer.Floor, layer.Decoration, layer.Objects, layer.Top}
	for i, g := range grids {
		l := md.Layers[i]
		grid, err := layer.Build(l.Data, l.Width, kinds[i], opts)
		if err != nil {
			return nil, fmt.Errorf("%s layer: %w", kinds[i], err)
		}
		*g = grid
	}

	m.log.WithFields(logrus.Fields{
		"width":  m.Floor.Width(),
		"height": m.Floor.Height(),
		"tile":   m.tileSize,
	}).Debug("map built")
	return m, nil
}

// TileSize returns the scaled tile size.
func (m *Map) TileSize() int {
	return m.tileSize
}

// Atlas returns the tileset of the map.
func (m *Map) Atlas() *atlas.Atlas {
	return m.atlas
}

// Size returns the map size in pixels.
func (m *Map) Size() image.Point {
	return image.Pt(m.Floor.Width()*m.tileSize, m.Floor.Height()*m.tileSize)
}

// Bounds is the walkable area: the map without its one-cell border.
func (m *Map) Bounds() image.Rectangle {
	ts := m.tileSize
	return image.Rect(ts, ts, ts*(m.Floor.Width()-1), ts*(m.Floor.Height()-1))
}

// Pairs returns the cells a rectangle can touch when it is at most one cell
// in size: the cell under its top-left corner and the three to the right and
// below. Positions outside the map are skipped.
func (m *Map) Pairs(r image.Rectangle) []Pair {
	cx, cy := r.Min.X/m.tileSize, r.Min.Y/m.tileSize
	out := make([]Pair, 0, 4)
	for _, d := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		f := m.Floor.Cell(cx+d.X, cy+d.Y)
		o := m.Objects.Cell(cx+d.X, cy+d.Y)
		if f == nil || o == nil {
			continue
		}
		out = append(out, Pair{Floor: f, Object: o})
	}
	return out
}

// FirstWalkable returns a spawn point in the first cell, row-major inside
// the border, where the floor and object cells are both walkable.
func (m *Map) FirstWalkable() (image.Point, bool) {
	for y := 1; y < m.Floor.Height()-1; y++ {
		for x := 1; x < m.Floor.Width()-1; x++ {
			if m.Floor.Cell(x, y).Walkable && m.Objects.Cell(x, y).Walkable {
				return m.Floor.CellRect(x, y).Min.Add(image.Pt(SpawnOffset, SpawnOffset)), true
			}
		}
	}
	return image.Point{}, false
}

func (m *Map) grid(kind layer.Kind) *layer.Grid {
	switch kind {
	case layer.Floor:
		return m.Floor
	case layer.Decoration:
		return m.Decoration
	case layer.Objects:
		return m.Objects
	case layer.Top:
		return m.Top
	}
	return nil
}

// ChangeTile swaps the tile of one cell and refreshes the cached pixels of
// that cell. A nil walkable keeps the current flag.
func (m *Map) ChangeTile(kind layer.Kind, x, y, tile int, walkable *bool) {
	g := m.grid(kind)
	if g == nil {
		return
	}
	cell := g.Cell(x, y)
	if cell == nil {
		m.log.WithFields(logrus.Fields{"layer": kind, "x": x, "y": y}).Warn("tile change outside the map")
		return
	}
	g.ChangeTile(cell, tile, walkable)
	if m.cache != nil && kind != layer.Top {
		m.cache.InvalidateCell(x, y)
	}
}

// DrawCell draws the floor, object and decoration tiles of cell (x, y) with
// its top-left corner at `at`.
func (m *Map) DrawCell(dst render.Image, x, y int, at image.Point) {
	for _, g := range []*layer.Grid{m.Floor, m.Objects, m.Decoration} {
		cell := g.Cell(x, y)
		if cell == nil {
			return
		}
		m.drawTile(dst, cell.Tile, at)
	}
}

func (m *Map) drawTile(dst render.Image, tile int, at image.Point) {
	img := m.atlas.Tile(tile)
	if img == nil {
		return
	}
	opts := &render.DrawImageOptions{}
	opts.GeoM.Translate(float64(at.X), float64(at.Y))
	dst.DrawImage(img, opts)
}

// DrawTop draws the top layer cells visible around camera.
func (m *Map) DrawTop(dst render.Image, camera image.Point) {
	w, h := dst.Size()
	view := image.Rect(0, 0, w, h).Add(camera.Sub(image.Pt(w/2, h/2)))
	ts := m.tileSize
	x0, y0 := max(view.Min.X/ts, 0), max(view.Min.Y/ts, 0)
	x1, y1 := min((view.Max.X-1)/ts, m.Top.Width()-1), min((view.Max.Y-1)/ts, m.Top.Height()-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			cell := m.Top.Cell(x, y)
			if cell.Tile == 0 {
				continue
			}
			at := image.Pt(x*ts, y*ts).Sub(view.Min)
			m.drawTile(dst, cell.Tile, at)
		}
	}
}

// AttachCache creates the viewport cache that draws this map.
func (m *Map) AttachCache(r render.Renderer, screenW, screenH int) error {
	c, err := viewport.New(r, m, screenW, screenH, m.tileSize, m.log)
	if err != nil {
		return err
	}
	m.cache = c
	return nil
}

// Cache returns the attached viewport cache, or nil.
func (m *Map) Cache() *viewport.Cache {
	return m.cache
}

// Draw draws the cached bottom layers around camera. A camera that jumped
// beyond the cache margin triggers a full rebuild.
func (m *Map) Draw(dst render.Image, camera image.Point) error {
	if m.cache == nil {
		return fmt.Errorf("map has no viewport cache")
	}
	err := m.cache.Draw(dst, camera)
	if !errors.Is(err, viewport.ErrOvershoot) {
		return err
	}
	m.log.WithError(err).Debug("camera jump, rebuilding cache")
	m.cache.Rebuild(camera, direction.None, 0)
	return m.cache.Draw(dst, camera)
}
