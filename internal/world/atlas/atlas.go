// Package atlas slices a tileset image into indexed tile surfaces.
package atlas

import (
	"errors"
	"fmt"
	"image"

	"chosenoffset.com/stationkeeper/internal/render"
)

var (
	// ErrUnsupportedScale is returned for a scale other than 1 or 2.
	ErrUnsupportedScale = errors.New("unsupported tile scale")
	// ErrTilesetSize is returned when the image does not divide into whole tiles.
	ErrTilesetSize = errors.New("tileset size is not a multiple of the tile size")
)

// DefaultAliases maps tile numbers the tileset lacks to a tile drawn in their place.
var DefaultAliases = map[int]int{1980: 2}

// Atlas holds the tiles of one tileset. Index 0 is the empty tile.
type Atlas struct {
	tiles    []render.Image // tiles[i-1] is tile i
	tileSize int            // unscaled
	scale    int
	aliases  map[int]int
}

// Options controls how a tileset is sliced.
type Options struct {
	TileSize int
	Scale    int
	// Used lists the tile numbers to slice. Nil slices every tile.
	Used map[int]bool
	// Aliases replaces a tile number with another. Nil uses DefaultAliases.
	Aliases map[int]int
}

// Load reads the tileset image at path and slices it.
func Load(r render.Renderer, loader render.ResourceLoader, path string, opts Options) (*Atlas, error) {
	if err := checkScale(opts.Scale); err != nil {
		return nil, err
	}
	img, err := loader.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tileset %s: %w", path, err)
	}
	a, err := New(r, img, opts)
	if err != nil {
		return nil, fmt.Errorf("tileset %s: %w", path, err)
	}
	return a, nil
}

// New slices img row-major into TileSize squares. With Scale 2 each used
// tile is copied into a surface twice its size.
func New(r render.Renderer, img render.Image, opts Options) (*Atlas, error) {
	if err := checkScale(opts.Scale); err != nil {
		return nil, err
	}
	ts := opts.TileSize
	w, h := img.Size()
	if ts <= 0 || w == 0 || h == 0 || w%ts != 0 || h%ts != 0 {
		return nil, fmt.Errorf("%w: %dx%d image, tile size %d", ErrTilesetSize, w, h, ts)
	}

	aliases := opts.Aliases
	if aliases == nil {
		aliases = DefaultAliases
	}
	used := opts.Used
	if used != nil {
		used = make(map[int]bool, len(opts.Used))
		for n := range opts.Used {
			used[n] = true
			if to, ok := aliases[n]; ok {
				used[to] = true
			}
		}
	}

	cols, rows := w/ts, h/ts
	a := &Atlas{
		tiles:    make([]render.Image, cols*rows),
		tileSize: ts,
		scale:    opts.Scale,
		aliases:  aliases,
	}
	origin := img.Bounds().Min
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			n := row*cols + col + 1
			if used != nil && !used[n] {
				continue
			}
			x, y := origin.X+col*ts, origin.Y+row*ts
			tile := img.SubImage(image.Rect(x, y, x+ts, y+ts))
			if opts.Scale == 2 {
				tile = upscale(r, tile, ts)
			}
			a.tiles[n-1] = tile
		}
	}
	return a, nil
}

func checkScale(scale int) error {
	if scale != 1 && scale != 2 {
		return fmt.Errorf("%w: %d", ErrUnsupportedScale, scale)
	}
	return nil
}

func upscale(r render.Renderer, tile render.Image, ts int) render.Image {
	big := r.NewImage(ts*2, ts*2)
	opts := &render.DrawImageOptions{}
	opts.GeoM.Scale(2, 2)
	big.DrawImage(tile, opts)
	return big
}

// Tile returns the surface for tile n, or nil when there is none.
func (a *Atlas) Tile(n int) render.Image {
	if to, ok := a.aliases[n]; ok {
		n = to
	}
	if n <= 0 || n > len(a.tiles) {
		return nil
	}
	return a.tiles[n-1]
}

// TileSize returns the scaled tile size in pixels.
func (a *Atlas) TileSize() int {
	return a.tileSize * a.scale
}

// Scale returns the scale factor.
func (a *Atlas) Scale() int {
	return a.scale
}

// Len returns the number of tile slots in the tileset.
func (a *Atlas) Len() int {
	return len(a.tiles)
}
