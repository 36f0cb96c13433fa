// Package layer builds grids of cells from Tiled tile layers.
package layer

import (
	"errors"
	"fmt"
	"image"

	"chosenoffset.com/stationkeeper/internal/world/insets"
)

// Kind is the z-order role of a layer.
type Kind int

const (
	Floor Kind = iota
	Decoration
	Objects
	Top
)

func (k Kind) String() string {
	switch k {
	case Floor:
		return "floor"
	case Decoration:
		return "decoration"
	case Objects:
		return "objects"
	case Top:
		return "top"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// EmptyObject is the object-layer tile of a walkable cell.
const EmptyObject = 0

// DefaultStoppableFloor lists the floor tiles that block movement.
var DefaultStoppableFloor = map[int]bool{2: true, 3: true}

// ErrShape is returned when layer data does not form a rectangle.
var ErrShape = errors.New("layer data does not match width")

// ObjectRef is a non-owning link from an object-layer cell to a map object.
type ObjectRef interface {
	Index() int
}

// Cell is one grid position of one layer.
type Cell struct {
	X, Y     int // tile units
	Tile     int
	Rect     image.Rectangle
	Walkable bool
	Object   ObjectRef // object layer only
}

// Options are shared by every grid of a map.
type Options struct {
	TileSize       int // scaled pixels
	Scale          int
	Insets         *insets.Table
	StoppableFloor map[int]bool
}

// Grid is a layer of cells indexed [y][x].
type Grid struct {
	kind   Kind
	opts   Options
	width  int
	height int
	cells  [][]*Cell
}

// Build consumes row-major layer data.
func Build(data []int, width int, kind Kind, opts Options) (*Grid, error) {
	if width <= 0 || len(data) == 0 || len(data)%width != 0 {
		return nil, fmt.Errorf("%w: %d tiles, width %d", ErrShape, len(data), width)
	}
	if opts.TileSize <= 0 {
		return nil, fmt.Errorf("invalid tile size %d", opts.TileSize)
	}
	if opts.Scale == 0 {
		opts.Scale = 1
	}
	if opts.StoppableFloor == nil {
		opts.StoppableFloor = DefaultStoppableFloor
	}

	g := &Grid{
		kind:   kind,
		opts:   opts,
		width:  width,
		height: len(data) / width,
	}
	g.cells = make([][]*Cell, g.height)
	for y := range g.cells {
		row := make([]*Cell, width)
		for x := range row {
			tile := data[y*width+x]
			row[x] = &Cell{
				X:        x,
				Y:        y,
				Tile:     tile,
				Rect:     g.rect(x, y, tile),
				Walkable: g.walkable(tile),
			}
		}
		g.cells[y] = row
	}
	return g, nil
}

func (g *Grid) walkable(tile int) bool {
	switch g.kind {
	case Floor:
		return !g.opts.StoppableFloor[tile]
	case Objects:
		return tile == EmptyObject
	default:
		return true
	}
}

func (g *Grid) rect(x, y, tile int) image.Rectangle {
	return g.opts.Insets.Apply(g.CellRect(x, y), tile, g.opts.Scale)
}

// CellRect returns the nominal pixel rectangle of cell (x, y).
func (g *Grid) CellRect(x, y int) image.Rectangle {
	ts := g.opts.TileSize
	return image.Rect(x*ts, y*ts, (x+1)*ts, (y+1)*ts)
}

// Kind returns the layer kind.
func (g *Grid) Kind() Kind { return g.kind }

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// Cell returns the cell at (x, y), or nil outside the grid.
func (g *Grid) Cell(x, y int) *Cell {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return nil
	}
	return g.cells[y][x]
}

// ChangeTile swaps the tile of cell and recomputes its rectangle. A nil
// walkable keeps the current flag.
func (g *Grid) ChangeTile(cell *Cell, tile int, walkable *bool) {
	cell.Tile = tile
	cell.Rect = g.rect(cell.X, cell.Y, tile)
	if walkable != nil {
		cell.Walkable = *walkable
	}
}

// Walkability returns a snapshot of the walkable flags indexed [y][x].
func (g *Grid) Walkability() [][]bool {
	out := make([][]bool, g.height)
	for y, row := range g.cells {
		out[y] = make([]bool, g.width)
		for x, c := range row {
			out[y][x] = c.Walkable
		}
	}
	return out
}

// Rewalk recomputes every walkable flag from the current tiles.
func (g *Grid) Rewalk() {
	for _, row := range g.cells {
		for _, c := range row {
			c.Walkable = g.walkable(c.Tile)
		}
	}
}
