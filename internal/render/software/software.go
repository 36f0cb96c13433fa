// Package software is a CPU implementation of the render interfaces backed by
// image.RGBA. It needs no GPU or window, so it serves headless snapshots and
// tests that compare pixels.
package software

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png" // PNG tilesets
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"chosenoffset.com/stationkeeper/internal/render"
)

// Renderer implements render.Renderer on RGBA images.
type Renderer struct{}

// NewRenderer creates a software renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// NewImage creates a transparent image with the given dimensions.
func (r *Renderer) NewImage(width, height int) render.Image {
	return &Image{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// FillRect blends a filled rectangle onto dst.
func (r *Renderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	d := unwrap(dst)
	min := d.Rect.Min
	rect := image.Rect(
		min.X+int(x), min.Y+int(y),
		min.X+int(x+width), min.Y+int(y+height),
	).Intersect(d.Rect)
	draw.Draw(d, rect, image.NewUniform(clr), image.Point{}, draw.Over)
}

// FillCircle blends a filled circle onto dst.
func (r *Renderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	d := unwrap(dst)
	min := d.Rect.Min
	src := image.NewUniform(clr)
	r2 := float64(radius * radius)
	x0, x1 := int(math.Floor(float64(x-radius))), int(math.Ceil(float64(x+radius)))
	y0, y1 := int(math.Floor(float64(y-radius))), int(math.Ceil(float64(y+radius)))
	for py := y0; py <= y1; py++ {
		for px := x0; px <= x1; px++ {
			dx := float64(px) + 0.5 - float64(x)
			dy := float64(py) + 0.5 - float64(y)
			if dx*dx+dy*dy > r2 {
				continue
			}
			p := image.Pt(min.X+px, min.Y+py)
			if !p.In(d.Rect) {
				continue
			}
			draw.Draw(d, image.Rectangle{Min: p, Max: p.Add(image.Pt(1, 1))}, src, image.Point{}, draw.Over)
		}
	}
}

// DrawText draws text with the basic 7x13 face. y is the top of the line.
func (r *Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color) {
	d := unwrap(dst)
	face := basicfont.Face7x13
	drawer := font.Drawer{
		Dst:  d,
		Src:  image.NewUniform(clr),
		Face: face,
		Dot:  fixed.P(d.Rect.Min.X+x, d.Rect.Min.Y+y+face.Ascent),
	}
	drawer.DrawString(text)
}

// MeasureText returns the size of text drawn with DrawText.
func (r *Renderer) MeasureText(text string) (width, height int) {
	face := basicfont.Face7x13
	return font.MeasureString(face, text).Ceil(), face.Height
}

// Image is an RGBA surface. Sub-images share pixels with their parent.
type Image struct {
	img *image.RGBA
}

// Wrap wraps an existing RGBA image.
func Wrap(img *image.RGBA) *Image {
	return &Image{img: img}
}

func unwrap(img render.Image) *image.RGBA {
	return img.(*Image).img
}

// RGBA returns the backing image.
func (i *Image) RGBA() *image.RGBA {
	return i.img
}

// Bounds returns the bounds of the image.
func (i *Image) Bounds() image.Rectangle {
	return i.img.Rect
}

// Size returns the width and height of the image.
func (i *Image) Size() (width, height int) {
	return i.img.Rect.Dx(), i.img.Rect.Dy()
}

// SubImage returns a view sharing pixels with i.
func (i *Image) SubImage(r image.Rectangle) render.Image {
	return &Image{img: i.img.SubImage(r).(*image.RGBA)}
}

// Fill replaces every pixel with clr.
func (i *Image) Fill(clr color.Color) {
	draw.Draw(i.img, i.img.Rect, image.NewUniform(clr), image.Point{}, draw.Src)
}

// Clear makes every pixel transparent.
func (i *Image) Clear() {
	i.Fill(color.Transparent)
}

// Dispose is a no-op; the garbage collector owns the pixels.
func (i *Image) Dispose() {}

// DrawImage blends src onto i. The source's upper-left corner maps to the
// transformed origin, as ebiten does for sub-images.
func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	s := unwrap(src)
	var geo render.GeoM
	if opts != nil {
		geo = opts.GeoM
	}
	sx, sy, tx, ty := geo.Elements()

	if sx != 1 || sy != 1 {
		s = scaleNearest(s, sx, sy)
	}

	origin := i.img.Rect.Min.Add(image.Pt(int(math.Round(tx)), int(math.Round(ty))))
	target := image.Rectangle{Min: origin, Max: origin.Add(s.Rect.Size())}
	clipped := target.Intersect(i.img.Rect)
	if clipped.Empty() {
		return
	}
	sp := s.Rect.Min.Add(clipped.Min.Sub(target.Min))
	draw.Draw(i.img, clipped, s, sp, draw.Over)
}

// scaleNearest returns a nearest-neighbour scaled copy of src.
func scaleNearest(src *image.RGBA, sx, sy float64) *image.RGBA {
	w := int(math.Round(float64(src.Rect.Dx()) * sx))
	h := int(math.Round(float64(src.Rect.Dy()) * sy))
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srcY := src.Rect.Min.Y + int(float64(y)/sy)
		for x := 0; x < w; x++ {
			srcX := src.Rect.Min.X + int(float64(x)/sx)
			out.SetRGBA(x, y, src.RGBAAt(srcX, srcY))
		}
	}
	return out
}

// Loader implements render.ResourceLoader by decoding image files.
type Loader struct{}

// NewLoader creates a software resource loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadImage decodes an image file into an RGBA surface.
func (l *Loader) LoadImage(path string) (render.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoded, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, decoded.Bounds().Dx(), decoded.Bounds().Dy()))
	draw.Draw(rgba, rgba.Rect, decoded, decoded.Bounds().Min, draw.Src)
	return &Image{img: rgba}, nil
}
