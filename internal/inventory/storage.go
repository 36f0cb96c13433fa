package inventory

import (
	"fmt"
	"image"
)

// Size is the footprint of an item in storage cells.
type Size struct {
	W int `json:"w"`
	H int `json:"h"`
}

// Common footprints.
var (
	Size1x1 = Size{1, 1}
	Size2x1 = Size{2, 1}
	Size1x2 = Size{1, 2}
	Size2x2 = Size{2, 2}
)

// Stored is one item placed in a storage.
type Stored struct {
	Item *Item
	At   image.Point // top-left cell
}

// Cells returns the cells the item covers.
func (s *Stored) Cells() image.Rectangle {
	size := footprint(s.Item)
	return image.Rectangle{Min: s.At, Max: s.At.Add(image.Pt(size.W, size.H))}
}

// Storage is a grid of cells holding sized items, such as a locker.
type Storage struct {
	width, height int
	cells         [][]*Stored // [y][x]
	items         []*Stored
}

// NewStorage creates an empty width x height storage.
func NewStorage(width, height int) *Storage {
	s := &Storage{width: width, height: height, cells: make([][]*Stored, height)}
	for y := range s.cells {
		s.cells[y] = make([]*Stored, width)
	}
	return s
}

// Width returns the number of columns.
func (s *Storage) Width() int { return s.width }

// Height returns the number of rows.
func (s *Storage) Height() int { return s.height }

// Items returns the stored items in placement order.
func (s *Storage) Items() []*Stored {
	return append([]*Stored(nil), s.items...)
}

// At returns the item covering cell (x, y), or nil.
func (s *Storage) At(x, y int) *Stored {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return nil
	}
	return s.cells[y][x]
}

// Fits reports whether item can be placed with its top-left corner at p.
// Cells taken by ignore count as free, which allows moving an item.
func (s *Storage) Fits(item *Item, p image.Point, ignore *Stored) bool {
	size := footprint(item)
	if p.X < 0 || p.Y < 0 || p.X+size.W > s.width || p.Y+size.H > s.height {
		return false
	}
	for y := p.Y; y < p.Y+size.H; y++ {
		for x := p.X; x < p.X+size.W; x++ {
			if c := s.cells[y][x]; c != nil && c != ignore {
				return false
			}
		}
	}
	return true
}

// Add places item in the first free position, row-major.
func (s *Storage) Add(item *Item) (*Stored, bool) {
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			if s.Fits(item, image.Pt(x, y), nil) {
				return s.place(item, image.Pt(x, y)), true
			}
		}
	}
	return nil, false
}

// Put places item with its top-left corner at p.
func (s *Storage) Put(item *Item, p image.Point) (*Stored, error) {
	if !s.Fits(item, p, nil) {
		return nil, fmt.Errorf("%s does not fit at %v", item.Name, p)
	}
	return s.place(item, p), nil
}

// Move shifts a stored item to a new top-left cell.
func (s *Storage) Move(st *Stored, p image.Point) error {
	if !s.Fits(st.Item, p, st) {
		return fmt.Errorf("%s does not fit at %v", st.Item.Name, p)
	}
	s.fill(st, nil)
	st.At = p
	s.fill(st, st)
	return nil
}

// Remove takes a stored item out.
func (s *Storage) Remove(st *Stored) {
	for i, it := range s.items {
		if it == st {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.fill(st, nil)
			return
		}
	}
}

func (s *Storage) place(item *Item, p image.Point) *Stored {
	st := &Stored{Item: item, At: p}
	s.fill(st, st)
	s.items = append(s.items, st)
	return st
}

func (s *Storage) fill(st *Stored, v *Stored) {
	r := st.Cells()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.cells[y][x] = v
		}
	}
}

func footprint(item *Item) Size {
	if item.Size.W <= 0 || item.Size.H <= 0 {
		return Size1x1
	}
	return item.Size
}
