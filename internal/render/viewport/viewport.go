// Package viewport caches the composited bottom layers of the map in a surface
// three screens wide and three screens tall.
//
// The camera is the world point the screen is centered on. The cache keeps
// an anchor camera; the buffer covers the anchor's screen plus one screen of
// margin on every side. While the camera stays within one screen of the
// anchor, drawing is a single blit. Crossing the margin scrolls the buffer
// and redraws only the newly exposed strip.
package viewport

import (
	"errors"
	"fmt"
	"image"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/stationkeeper/internal/logger"
	"chosenoffset.com/stationkeeper/internal/render"
	"chosenoffset.com/stationkeeper/internal/world/direction"
)

// maxRebuilds bounds rebuilds within a single Draw.
const maxRebuilds = 4

// ErrOvershoot is returned when the camera moved further than the cache can
// follow in one frame. A full Rebuild recovers.
var ErrOvershoot = errors.New("camera moved beyond the cached margin")

// Compositor draws the cached layers of one map cell.
type Compositor interface {
	// DrawCell draws cell (x, y) with its top-left corner at `at` in dst.
	// Cells outside the map draw nothing.
	DrawCell(dst render.Image, x, y int, at image.Point)
}

// Stats counts rebuilds since the cache was created.
type Stats struct {
	Full          int
	Partial       int
	Invalidated   int
	LastDir       direction.Dir
	LastOvershoot int
}

// Cache is the scrolling pixel cache.
type Cache struct {
	comp     Compositor
	front    render.Image
	back     render.Image
	screen   image.Point
	tileSize int
	anchor   image.Point
	built    bool
	stats    Stats
	log      logrus.FieldLogger
}

// New allocates the front and back surfaces. Call Rebuild before Draw.
func New(r render.Renderer, comp Compositor, screenW, screenH, tileSize int, log logrus.FieldLogger) (*Cache, error) {
	if screenW <= 0 || screenH <= 0 {
		return nil, fmt.Errorf("invalid screen size %dx%d", screenW, screenH)
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("invalid tile size %d", tileSize)
	}
	return &Cache{
		comp:     comp,
		front:    r.NewImage(3*screenW, 3*screenH),
		back:     r.NewImage(3*screenW, 3*screenH),
		screen:   image.Pt(screenW, screenH),
		tileSize: tileSize,
		log:      logger.OrDiscard(log).WithField("component", "viewport"),
	}, nil
}

// Anchor returns the camera of the last rebuild.
func (c *Cache) Anchor() image.Point {
	return c.anchor
}

// Stats returns the rebuild counters.
func (c *Cache) Stats() Stats {
	return c.stats
}

// origin is the world position of the buffer's top-left pixel.
func (c *Cache) origin() image.Point {
	return c.anchor.Sub(image.Pt(c.screen.X*3/2, c.screen.Y*3/2))
}

func (c *Cache) bufferRect() image.Rectangle {
	return image.Rect(0, 0, 3*c.screen.X, 3*c.screen.Y)
}

// Rebuild redraws the cache. With direction.None the whole buffer is drawn
// around camera. With a direction, the anchor moves one screen plus
// overshoot that way, the kept pixels are scrolled and the exposed strip is
// redrawn. The perpendicular anchor coordinate is kept.
func (c *Cache) Rebuild(camera image.Point, dir direction.Dir, overshoot int) {
	if dir == direction.None || !c.built {
		c.anchor = camera
		c.front.Clear()
		c.redraw(c.bufferRect())
		c.built = true
		c.stats.Full++
		c.stats.LastDir, c.stats.LastOvershoot = direction.None, 0
		c.log.WithField("anchor", c.anchor).Debug("full rebuild")
		return
	}

	step := c.screen.X
	if !dir.Horizontal() {
		step = c.screen.Y
	}
	step += overshoot
	move := dir.Delta().Mul(step)
	c.anchor = c.anchor.Add(move)

	// pixels are fixed in the world, so they move against the anchor
	c.back.Clear()
	opts := &render.DrawImageOptions{}
	opts.GeoM.Translate(float64(-move.X), float64(-move.Y))
	c.back.DrawImage(c.front, opts)
	c.front, c.back = c.back, c.front

	c.redraw(c.exposed(dir, step))
	c.stats.Partial++
	c.stats.LastDir, c.stats.LastOvershoot = dir, overshoot
	c.log.WithFields(logrus.Fields{
		"dir":       dir,
		"overshoot": overshoot,
		"anchor":    c.anchor,
	}).Debug("scroll rebuild")
}

// exposed returns the buffer strip left uncovered by a scroll of step pixels.
func (c *Cache) exposed(dir direction.Dir, step int) image.Rectangle {
	b := c.bufferRect()
	switch dir {
	case direction.Right:
		b.Min.X = b.Max.X - step
	case direction.Left:
		b.Max.X = step
	case direction.Down:
		b.Min.Y = b.Max.Y - step
	case direction.Up:
		b.Max.Y = step
	}
	return b.Intersect(c.bufferRect())
}

// redraw clears and recomposites every cell touching the buffer region r.
func (c *Cache) redraw(r image.Rectangle) {
	if r.Empty() {
		return
	}
	o := c.origin()
	world := r.Add(o)
	ts := c.tileSize
	x0, y0 := floorDiv(world.Min.X, ts), floorDiv(world.Min.Y, ts)
	x1, y1 := floorDiv(world.Max.X-1, ts), floorDiv(world.Max.Y-1, ts)

	c.front.SubImage(r).Clear()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.drawCell(x, y, o)
		}
	}
}

func (c *Cache) drawCell(x, y int, o image.Point) {
	at := image.Pt(x*c.tileSize, y*c.tileSize).Sub(o)
	cell := image.Rectangle{Min: at, Max: at.Add(image.Pt(c.tileSize, c.tileSize))}.Intersect(c.bufferRect())
	if cell.Empty() {
		return
	}
	c.front.SubImage(cell).Clear()
	c.comp.DrawCell(c.front, x, y, at)
}

// InvalidateCell redraws cell (x, y) if it is inside the cached region.
func (c *Cache) InvalidateCell(x, y int) {
	if !c.built {
		return
	}
	o := c.origin()
	at := image.Pt(x*c.tileSize, y*c.tileSize).Sub(o)
	cell := image.Rectangle{Min: at, Max: at.Add(image.Pt(c.tileSize, c.tileSize))}
	if !cell.Overlaps(c.bufferRect()) {
		return
	}
	c.drawCell(x, y, o)
	c.stats.Invalidated++
}

// Draw blits the cached screen around camera onto dst, rebuilding first when
// the camera left the margin.
func (c *Cache) Draw(dst render.Image, camera image.Point) error {
	if !c.built {
		c.Rebuild(camera, direction.None, 0)
	}
	for i := 0; ; i++ {
		shift := camera.Sub(c.anchor)
		dir, overshoot := c.needed(shift)
		if dir == direction.None {
			break
		}
		limit := c.screen.X
		if !dir.Horizontal() {
			limit = c.screen.Y
		}
		if i == maxRebuilds || overshoot > limit {
			return fmt.Errorf("%w: shift %v, screen %v", ErrOvershoot, shift, c.screen)
		}
		c.Rebuild(camera, dir, overshoot)
	}

	shift := camera.Sub(c.anchor)
	src := image.Rectangle{Min: c.screen.Add(shift), Max: c.screen.Mul(2).Add(shift)}
	dst.DrawImage(c.front.SubImage(src), nil)
	return nil
}

// needed returns the rebuild a shift requires, horizontal first.
func (c *Cache) needed(shift image.Point) (direction.Dir, int) {
	switch {
	case shift.X > c.screen.X:
		return direction.Right, shift.X - c.screen.X
	case shift.X < -c.screen.X:
		return direction.Left, -shift.X - c.screen.X
	case shift.Y > c.screen.Y:
		return direction.Down, shift.Y - c.screen.Y
	case shift.Y < -c.screen.Y:
		return direction.Up, -shift.Y - c.screen.Y
	}
	return direction.None, 0
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
