package viewport

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/stationkeeper/internal/placeholders"
	"chosenoffset.com/stationkeeper/internal/render"
	"chosenoffset.com/stationkeeper/internal/render/software"
	"chosenoffset.com/stationkeeper/internal/world/direction"
)

// gridComp paints each map cell a color unique to its position.
type gridComp struct {
	r        render.Renderer
	cols     int
	rows     int
	ts       int
	override map[image.Point]color.RGBA
	calls    int
}

func (g *gridComp) DrawCell(dst render.Image, x, y int, at image.Point) {
	g.calls++
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return
	}
	clr, ok := g.override[image.Pt(x, y)]
	if !ok {
		clr = placeholders.IndexColor(y*g.cols + x + 1)
	}
	g.r.FillRect(dst, float32(at.X), float32(at.Y), float32(g.ts), float32(g.ts), clr)
}

func newCache(t *testing.T, comp *gridComp, w, h int) *Cache {
	t.Helper()
	c, err := New(comp.r, comp, w, h, comp.ts, nil)
	require.NoError(t, err)
	return c
}

func snapshot(t *testing.T, c *Cache, r render.Renderer, camera image.Point, w, h int) *image.RGBA {
	t.Helper()
	dst := r.NewImage(w, h)
	require.NoError(t, c.Draw(dst, camera))
	return dst.(*software.Image).RGBA()
}

func TestScrollRightWithOvershoot(t *testing.T) {
	r := software.NewRenderer()
	comp := &gridComp{r: r, cols: 100, rows: 60, ts: 32}
	c := newCache(t, comp, 800, 600)

	c.Rebuild(image.Pt(500, 500), direction.None, 0)
	require.Equal(t, 1, c.Stats().Full)

	dst := r.NewImage(800, 600)
	require.NoError(t, c.Draw(dst, image.Pt(500+850, 500)))

	stats := c.Stats()
	assert.Equal(t, 1, stats.Partial)
	assert.Equal(t, direction.Right, stats.LastDir)
	assert.Equal(t, 50, stats.LastOvershoot)
	assert.Equal(t, image.Pt(1350, 500), c.Anchor())

	require.NoError(t, c.Draw(dst, image.Pt(500+850, 500)))
	assert.Equal(t, 1, c.Stats().Partial)
	assert.Equal(t, 1, c.Stats().Full)
}

func TestNoRebuildWithinMargin(t *testing.T) {
	r := software.NewRenderer()
	comp := &gridComp{r: r, cols: 40, rows: 40, ts: 16}
	c := newCache(t, comp, 160, 120)
	c.Rebuild(image.Pt(300, 300), direction.None, 0)

	for _, cam := range []image.Point{{460, 300}, {140, 300}, {300, 420}, {300, 180}, {460, 420}} {
		snapshot(t, c, r, cam, 160, 120)
	}
	assert.Equal(t, 0, c.Stats().Partial)
}

func TestScrolledMatchesFreshBuild(t *testing.T) {
	r := software.NewRenderer()
	const w, h = 160, 120
	path := []image.Point{
		{330, 250}, {500, 250}, {700, 270}, {700, 420}, {690, 600},
		{520, 600}, {300, 580}, {290, 400}, {280, 200}, {100, 90},
	}

	comp := &gridComp{r: r, cols: 60, rows: 50, ts: 16}
	scrolled := newCache(t, comp, w, h)
	scrolled.Rebuild(image.Pt(300, 240), direction.None, 0)

	for _, cam := range path {
		got := snapshot(t, scrolled, r, cam, w, h)

		fresh := newCache(t, comp, w, h)
		fresh.Rebuild(cam, direction.None, 0)
		want := snapshot(t, fresh, r, cam, w, h)

		require.Equal(t, want.Pix, got.Pix, "camera %v", cam)
	}
	assert.Equal(t, 1, scrolled.Stats().Full)
	assert.Greater(t, scrolled.Stats().Partial, 4)
}

func TestScrollRedrawsOnlyStrip(t *testing.T) {
	r := software.NewRenderer()
	comp := &gridComp{r: r, cols: 60, rows: 50, ts: 16}
	c := newCache(t, comp, 160, 120)
	c.Rebuild(image.Pt(300, 240), direction.None, 0)
	full := comp.calls

	comp.calls = 0
	c.Rebuild(image.Point{}, direction.Right, 0)
	// one screen wide strip of a three screen buffer
	assert.Less(t, comp.calls, full/2)
	assert.Equal(t, image.Pt(460, 240), c.Anchor())
}

func TestInvalidateCell(t *testing.T) {
	r := software.NewRenderer()
	const w, h = 160, 120
	comp := &gridComp{r: r, cols: 40, rows: 40, ts: 16, override: map[image.Point]color.RGBA{}}
	c := newCache(t, comp, w, h)
	cam := image.Pt(320, 320)
	c.Rebuild(cam, direction.None, 0)

	red := color.RGBA{255, 0, 0, 255}
	comp.override[image.Pt(20, 20)] = red
	c.InvalidateCell(20, 20)
	assert.Equal(t, 1, c.Stats().Invalidated)

	got := snapshot(t, c, r, cam, w, h)
	// world (320, 320) is the screen center and the top-left of cell (20, 20)
	assert.Equal(t, red, got.RGBAAt(w/2+3, h/2+3))

	// far away cells are not cached
	c.InvalidateCell(0, 0)
	assert.Equal(t, 1, c.Stats().Invalidated)
}

func TestOvershootBeyondMargin(t *testing.T) {
	r := software.NewRenderer()
	comp := &gridComp{r: r, cols: 100, rows: 100, ts: 16}
	c := newCache(t, comp, 160, 120)
	c.Rebuild(image.Pt(300, 300), direction.None, 0)

	dst := r.NewImage(160, 120)
	err := c.Draw(dst, image.Pt(300+3*160, 300))
	assert.ErrorIs(t, err, ErrOvershoot)

	c.Rebuild(image.Pt(300+3*160, 300), direction.None, 0)
	assert.NoError(t, c.Draw(dst, image.Pt(300+3*160, 300)))
}

func TestOutsideMapIsTransparent(t *testing.T) {
	r := software.NewRenderer()
	comp := &gridComp{r: r, cols: 4, rows: 4, ts: 16}
	c := newCache(t, comp, 160, 120)

	got := snapshot(t, c, r, image.Pt(0, 0), 160, 120)
	assert.Equal(t, color.RGBA{}, got.RGBAAt(0, 0))
	assert.Equal(t, placeholders.IndexColor(1), got.RGBAAt(80+1, 60+1))
}

func TestNewRejectsBadSizes(t *testing.T) {
	r := software.NewRenderer()
	_, err := New(r, &gridComp{}, 0, 100, 16, nil)
	assert.Error(t, err)
	_, err = New(r, &gridComp{}, 100, 100, 0, nil)
	assert.Error(t, err)
}
