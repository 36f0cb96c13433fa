package software

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/stationkeeper/internal/placeholders"
	"chosenoffset.com/stationkeeper/internal/render"
)

var red = color.RGBA{255, 0, 0, 255}

func TestSubImageSharesPixels(t *testing.T) {
	r := NewRenderer()
	img := r.NewImage(8, 8)
	sub := img.SubImage(image.Rect(2, 2, 4, 4))
	assert.Equal(t, image.Rect(2, 2, 4, 4), sub.Bounds())

	sub.Fill(red)
	rgba := img.(*Image).RGBA()
	assert.Equal(t, red, rgba.RGBAAt(3, 3))
	assert.Zero(t, rgba.RGBAAt(4, 4).A)

	r.FillRect(sub, 0, 0, 1, 1, color.RGBA{0, 0, 255, 255})
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, rgba.RGBAAt(2, 2))
}

func TestDrawImageTranslatesAndScales(t *testing.T) {
	r := NewRenderer()
	src := r.NewImage(2, 2)
	src.Fill(red)
	dst := r.NewImage(10, 10)

	opts := &render.DrawImageOptions{}
	opts.GeoM.Scale(2, 2)
	opts.GeoM.Translate(3, 1)
	dst.DrawImage(src, opts)

	rgba := dst.(*Image).RGBA()
	assert.Equal(t, red, rgba.RGBAAt(3, 1))
	assert.Equal(t, red, rgba.RGBAAt(6, 4))
	assert.Zero(t, rgba.RGBAAt(7, 4).A)
	assert.Zero(t, rgba.RGBAAt(2, 1).A)

	// a sub-image draws from its own corner
	dst.Clear()
	dst.DrawImage(dst.SubImage(image.Rect(5, 5, 6, 6)), nil)
	assert.Zero(t, rgba.RGBAAt(0, 0).A)
}

func TestLoaderReadsPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.png")
	require.NoError(t, placeholders.SavePNG(placeholders.GenerateTileset(2, 1, 4), path))

	img, err := NewLoader().LoadImage(path)
	require.NoError(t, err)
	w, h := img.Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 4, h)
	assert.Equal(t, placeholders.IndexColor(1), img.(*Image).RGBA().RGBAAt(1, 1))

	_, err = NewLoader().LoadImage(filepath.Join(t.TempDir(), "none.png"))
	assert.Error(t, err)
}

func TestMeasureText(t *testing.T) {
	w, h := NewRenderer().MeasureText("abc")
	assert.Equal(t, 21, w)
	assert.Equal(t, 13, h)
}
