// Package insets holds the solid footprints of tiles that are smaller than
// their grid cell.
package insets

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"
)

// Inset shrinks a cell rectangle. DX and DY move the top-left corner, DW and
// DH reduce the width and height. Values are unscaled pixels.
type Inset struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
	DW int `json:"dw"`
	DH int `json:"dh"`
}

// Scaled multiplies every field by scale.
func (in Inset) Scaled(scale int) Inset {
	return Inset{DX: in.DX * scale, DY: in.DY * scale, DW: in.DW * scale, DH: in.DH * scale}
}

// Table maps tile numbers to insets. It is not modified after loading.
type Table struct {
	entries map[int]Inset
}

// New builds a table from entries.
func New(entries map[int]Inset) *Table {
	t := &Table{entries: make(map[int]Inset, len(entries))}
	for n, in := range entries {
		t.entries[n] = in
	}
	return t
}

// Lookup returns the inset of tile n. False means the full cell is solid.
func (t *Table) Lookup(n int) (Inset, bool) {
	if t == nil {
		return Inset{}, false
	}
	in, ok := t.entries[n]
	return in, ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Tiles returns every tile number with an entry.
func (t *Table) Tiles() []int {
	out := make([]int, 0, len(t.entries))
	for n := range t.entries {
		out = append(out, n)
	}
	return out
}

// Apply returns cell shrunk by the inset of tile n at the given scale. The
// result never leaves cell; an inset that would empty it yields an empty
// rectangle at the cell's corner.
func (t *Table) Apply(cell image.Rectangle, n, scale int) image.Rectangle {
	in, ok := t.Lookup(n)
	if !ok {
		return cell
	}
	in = in.Scaled(scale)
	min := cell.Min.Add(image.Pt(in.DX, in.DY))
	r := image.Rectangle{
		Min: min,
		Max: min.Add(image.Pt(cell.Dx()-in.DW, cell.Dy()-in.DH)),
	}
	r = r.Intersect(cell)
	if r.Empty() {
		return image.Rectangle{Min: cell.Min, Max: cell.Min}
	}
	return r
}

// Load reads a JSON override file and merges it over Default. A missing file
// yields Default.
func Load(path string) (*Table, error) {
	t := Default()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read insets %s: %w", path, err)
	}

	var raw map[string]Inset
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse insets %s: %w", path, err)
	}
	for key, in := range raw {
		n, err := strconv.Atoi(key)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("insets %s: invalid tile number %q", path, key)
		}
		t.entries[n] = in
	}
	return t, nil
}

// Default returns the footprints of the station tileset.
func Default() *Table {
	e := map[int]Inset{
		// small tables and sofa sides
		261: {12, 0, 0, 0},
		262: {12, 0, 0, 0},
		263: {0, 0, 12, 0},
		264: {0, 0, 12, 0},
		224: {8, 0, 0, 5},
		225: {0, 0, 8, 5},
		307: {6, 2, 0, 7},
		308: {0, 2, 6, 7},
		222: {0, 0, 0, 6},
		223: {0, 0, 0, 6},
		181: {4, 0, 9, 6},
		367: {2, 2, 4, 7},
		370: {2, 2, 4, 7},
		371: {2, 2, 4, 7},
		348: {7, 2, 7, 5},
		368: {7, 2, 7, 5},
		349: {0, 2, 7, 5},
		369: {0, 2, 7, 5},
	}

	fill := func(in Inset, tiles ...int) {
		for _, n := range tiles {
			e[n] = in
		}
	}
	span := func(from, to int) []int {
		out := make([]int, 0, to-from+1)
		for n := from; n <= to; n++ {
			out = append(out, n)
		}
		return out
	}
	join := func(parts ...[]int) []int {
		var out []int
		for _, p := range parts {
			out = append(out, p...)
		}
		return out
	}

	// big lockers
	fill(Inset{0, 0, 0, 5}, join([]int{301, 302}, span(461, 466), span(634, 639))...)
	// pult consoles
	fill(Inset{0, 0, 10, 0}, 481, 501)
	fill(Inset{10, 0, 10, 0}, 482, 502)
	// beds
	fill(Inset{5, 2, 10, 5}, join(span(353, 360), span(373, 380))...)
	// smart and armored doors
	fill(Inset{0, 7, 0, 15}, join(span(421, 424), span(401, 404))...)
	// puffs
	fill(Inset{7, 5, 15, 10}, span(242, 245)...)
	// small tables
	fill(Inset{0, 0, 0, 6}, join(span(283, 285), span(303, 305))...)
	// computers
	fill(Inset{2, 0, 4, 5}, span(381, 383)...)
	// tubes
	fill(Inset{2, 0, 4, 6}, span(341, 344)...)
	// mini tubes
	fill(Inset{10, 5, 20, 7}, join(
		span(273, 277), span(293, 297), span(313, 315),
		span(536, 540), span(576, 578), span(556, 560),
	)...)

	return &Table{entries: e}
}
