// Package maploader reads maps saved by the Tiled editor in JSON format.
package maploader

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
)

// Positional layer order of a map file.
const (
	FloorLayer = iota
	DecorationLayer
	ObjectsLayer
	TopLayer
	MarksLayer
)

// DefaultMarksOffset is added to an object index in the marks layer.
const DefaultMarksOffset = 1280

// ErrLayerCount is returned when a map has fewer than four tile layers.
var ErrLayerCount = errors.New("map needs floor, decoration, objects and top layers")

// Layer is one Tiled tile layer.
type Layer struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []int  `json:"data"`
}

// MapData is the subset of the Tiled format the client reads.
type MapData struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	TileWidth  int     `json:"tilewidth"`
	TileHeight int     `json:"tileheight"`
	Layers     []Layer `json:"layers"`
}

// LoadMap reads and validates a Tiled JSON file.
func LoadMap(path string) (*MapData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", path, err)
	}

	md, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid map data in %s: %w", path, err)
	}
	return md, nil
}

// Parse decodes and validates map JSON.
func Parse(data []byte) (*MapData, error) {
	var md MapData
	if err := json.Unmarshal(data, &md); err != nil {
		return nil, fmt.Errorf("failed to parse map: %w", err)
	}

	// only tile layers take part in the positional order
	layers := md.Layers[:0]
	for _, l := range md.Layers {
		if l.Type == "" || l.Type == "tilelayer" {
			layers = append(layers, l)
		}
	}
	md.Layers = layers

	if err := validateMapData(&md); err != nil {
		return nil, err
	}
	return &md, nil
}

func validateMapData(md *MapData) error {
	if md.TileHeight <= 0 {
		return fmt.Errorf("invalid tile size: %d", md.TileHeight)
	}
	if len(md.Layers) < MarksLayer {
		return fmt.Errorf("%w: got %d", ErrLayerCount, len(md.Layers))
	}

	width := md.Layers[FloorLayer].Width
	size := len(md.Layers[FloorLayer].Data)
	for i, l := range md.Layers {
		if l.Width <= 0 {
			return fmt.Errorf("layer %d: invalid width %d", i, l.Width)
		}
		if l.Width != width || len(l.Data) != size {
			return fmt.Errorf("layer %d: size mismatch: expected %d tiles of width %d, got %d of width %d",
				i, size, width, len(l.Data), l.Width)
		}
		if len(l.Data)%l.Width != 0 {
			return fmt.Errorf("layer %d: %d tiles do not fill rows of %d", i, len(l.Data), l.Width)
		}
	}
	if md.Width == 0 {
		md.Width = width
	}
	if md.Height == 0 {
		md.Height = size / width
	}
	return nil
}

// Columns returns the map width in cells.
func (md *MapData) Columns() int {
	return md.Layers[FloorLayer].Width
}

// Rows returns the map height in cells.
func (md *MapData) Rows() int {
	return len(md.Layers[FloorLayer].Data) / md.Layers[FloorLayer].Width
}

// TilesUsed returns every non-empty tile in the drawable layers.
func (md *MapData) TilesUsed() map[int]bool {
	used := make(map[int]bool)
	for i := FloorLayer; i <= TopLayer; i++ {
		for _, n := range md.Layers[i].Data {
			if n > 0 {
				used[n] = true
			}
		}
	}
	return used
}

// Marks returns the object index of every marked cell. A map without a
// marks layer has no marks.
func (md *MapData) Marks(offset int) (map[image.Point]int, error) {
	marks := make(map[image.Point]int)
	if len(md.Layers) <= MarksLayer {
		return marks, nil
	}
	l := md.Layers[MarksLayer]
	for i, n := range l.Data {
		if n == 0 {
			continue
		}
		p := image.Pt(i%l.Width, i/l.Width)
		if n < offset {
			return nil, fmt.Errorf("mark %d at %v is below offset %d", n, p, offset)
		}
		marks[p] = n - offset
	}
	return marks, nil
}
