// Package placeholders generates stand-in art so the client and its tests can
// run without the real station tileset.
package placeholders

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
)

// TileSize is the standard size for placeholder tiles
const TileSize = 32

// CharFrameSize is the frame size of the generated character sheet.
const CharFrameSize = 42

// Palette holds the station theme colors.
var Palette = struct {
	Floor      color.RGBA
	Wall       color.RGBA
	Door       color.RGBA
	Terminal   color.RGBA
	Locker     color.RGBA
	Player     color.RGBA
	Border     color.RGBA
	Background color.RGBA
}{
	Floor:      color.RGBA{72, 78, 86, 255},
	Wall:       color.RGBA{130, 138, 150, 255},
	Door:       color.RGBA{60, 140, 200, 255},
	Terminal:   color.RGBA{40, 200, 120, 255},
	Locker:     color.RGBA{70, 90, 170, 255},
	Player:     color.RGBA{0, 255, 100, 255},
	Border:     color.RGBA{200, 200, 200, 255},
	Background: color.RGBA{20, 22, 26, 255},
}

// CreateSolidTile creates a simple solid-colored tile
func CreateSolidTile(size int, col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
	return img
}

// CreateBorderedTile creates a tile with a border
func CreateBorderedTile(size int, fillColor, borderColor color.RGBA, borderWidth int) *image.RGBA {
	img := CreateSolidTile(size, fillColor)

	for i := 0; i < borderWidth; i++ {
		for x := 0; x < size; x++ {
			img.Set(x, i, borderColor)
			img.Set(x, size-1-i, borderColor)
		}
		for y := 0; y < size; y++ {
			img.Set(i, y, borderColor)
			img.Set(size-1-i, y, borderColor)
		}
	}

	return img
}

// IndexColor returns a color unique to a tile index for any tileset smaller
// than 2^21 tiles. Tests rely on two different indexes never sharing a color.
func IndexColor(index int) color.RGBA {
	// spread the bits so neighbouring indexes look different on screen
	r := uint8(index&0x7f)<<1 | 1
	g := uint8((index>>7)&0x7f)<<1 | 1
	b := uint8((index>>14)&0x7f)<<1 | 1
	return color.RGBA{R: r ^ 0x80, G: g, B: b ^ 0x40, A: 255}
}

// GenerateTileset creates a cols x rows tileset. Tile n (1-based, row-major)
// is filled with IndexColor(n) and has a one-pixel darker border.
func GenerateTileset(cols, rows, tileSize int) *image.RGBA {
	tiles := make([]*image.RGBA, 0, cols*rows)
	for n := 1; n <= cols*rows; n++ {
		fill := IndexColor(n)
		tiles = append(tiles, CreateBorderedTile(tileSize, fill, Darken(fill, 0.6), 1))
	}
	return CreateAtlas(tiles, cols, tileSize)
}

// GenerateCharacterSheet creates a 4x4 sheet of frames. Rows are UP, RIGHT,
// DOWN, LEFT; the columns are walk frames.
func GenerateCharacterSheet(frameSize int) *image.RGBA {
	tiles := make([]*image.RGBA, 0, 16)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			body := Lighten(Palette.Player, float64(col)*0.15)
			tile := CreateCircle(frameSize, body, Darken(body, 0.5))
			markFacing(tile, row, frameSize)
			tiles = append(tiles, tile)
		}
	}
	return CreateAtlas(tiles, 4, frameSize)
}

// markFacing draws a small dot on the side the frame faces.
func markFacing(img *image.RGBA, row, size int) {
	mid := size / 2
	var p image.Point
	switch row {
	case 0:
		p = image.Pt(mid, 4)
	case 1:
		p = image.Pt(size-6, mid)
	case 2:
		p = image.Pt(mid, size-6)
	default:
		p = image.Pt(4, mid)
	}
	for dy := 0; dy < 2; dy++ {
		for dx := 0; dx < 2; dx++ {
			img.Set(p.X+dx, p.Y+dy, Palette.Background)
		}
	}
}

// CreateCircle creates a circular sprite (for characters)
func CreateCircle(size int, fillColor, outlineColor color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	center := size / 2
	radius := size/2 - 2

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := x - center
			dy := y - center
			distSq := dx*dx + dy*dy

			if distSq <= radius*radius {
				img.Set(x, y, fillColor)
			} else if distSq <= (radius+1)*(radius+1) {
				img.Set(x, y, outlineColor)
			}
		}
	}

	return img
}

// CreateAtlas creates a sprite atlas from multiple tiles
func CreateAtlas(tiles []*image.RGBA, columns, tileSize int) *image.RGBA {
	rows := (len(tiles) + columns - 1) / columns
	atlas := image.NewRGBA(image.Rect(0, 0, columns*tileSize, rows*tileSize))

	for i, tile := range tiles {
		if tile == nil {
			continue
		}
		x := (i % columns) * tileSize
		y := (i / columns) * tileSize
		draw.Draw(atlas, image.Rect(x, y, x+tileSize, y+tileSize), tile, image.Point{}, draw.Src)
	}

	return atlas
}

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// GenerateAndSave writes the placeholder tileset and character sheet into dir.
func GenerateAndSave(dir string, cols, rows int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tileset := filepath.Join(dir, "tileset.png")
	if err := SavePNG(GenerateTileset(cols, rows, TileSize), tileset); err != nil {
		return fmt.Errorf("failed to save tileset: %w", err)
	}
	fmt.Printf("  Created %s (%d tiles)\n", tileset, cols*rows)

	char := filepath.Join(dir, "character.png")
	if err := SavePNG(GenerateCharacterSheet(CharFrameSize), char); err != nil {
		return fmt.Errorf("failed to save character sheet: %w", err)
	}
	fmt.Printf("  Created %s\n", char)

	return nil
}

// Darken returns a darker version of a color
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// Lighten returns a lighter version of a color
func Lighten(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) + (255-float64(c.R))*factor),
		G: uint8(float64(c.G) + (255-float64(c.G))*factor),
		B: uint8(float64(c.B) + (255-float64(c.B))*factor),
		A: c.A,
	}
}
