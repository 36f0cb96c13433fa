// Package collision resolves a moving character rectangle against the map
// border and the solid cells around it.
package collision

import (
	"image"

	"chosenoffset.com/stationkeeper/internal/world/direction"
	"chosenoffset.com/stationkeeper/internal/world/gamemap"
	"chosenoffset.com/stationkeeper/internal/world/layer"
)

// Terrain is the part of the map the resolver reads.
type Terrain interface {
	Bounds() image.Rectangle
	Pairs(r image.Rectangle) []gamemap.Pair
}

// Result is the outcome of one movement step.
type Result struct {
	Rect    image.Rectangle
	Stopped bool
	// Contacted is the linked object of the solid object cell that stopped
	// the rectangle, if any.
	Contacted layer.ObjectRef
	// OpenPrompt is set when the action prompt should open for an object.
	OpenPrompt layer.ObjectRef
	// ClosePrompt is set when a showing prompt should close.
	ClosePrompt bool
	// Deselected is the previously prompted object the player walked away
	// from. Its open interface should close.
	Deselected layer.ObjectRef
}

// Resolver keeps the prompt state of one character.
type Resolver struct {
	terrain  Terrain
	selected layer.ObjectRef
	showing  bool
}

// New creates a resolver over terrain.
func New(terrain Terrain) *Resolver {
	return &Resolver{terrain: terrain}
}

// Selected returns the object the prompt was last opened for.
func (r *Resolver) Selected() layer.ObjectRef {
	return r.selected
}

// Showing reports whether the action prompt is showing.
func (r *Resolver) Showing() bool {
	return r.showing
}

// PromptClosed records that the interface closed the action prompt itself.
// The selection is kept so the prompt does not reopen for the same object.
func (r *Resolver) PromptClosed() {
	r.showing = false
}

type hit struct {
	border int
	object bool
	ref    layer.ObjectRef
}

// Resolve corrects rect, which has just moved one step in dir.
func (r *Resolver) Resolve(rect image.Rectangle, dir direction.Dir) Result {
	res := Result{Rect: rect}
	if dir == direction.None {
		return res
	}

	bounds := r.terrain.Bounds()
	if !rect.In(bounds) {
		res.Rect = clampToBorder(rect, dir, bounds)
		res.Stopped = true
		return res
	}

	point := SensitivePoint(rect, dir)
	var best *hit
	for _, p := range r.terrain.Pairs(rect) {
		var h *hit
		switch {
		case !p.Object.Walkable && rect.Overlaps(p.Object.Rect):
			h = &hit{border: facing(p.Object.Rect, dir), object: true, ref: p.Object.Object}
			if p.Object.Object != nil && p.Object.Object != r.selected &&
				point.In(p.Object.Rect) && !r.showing && res.OpenPrompt == nil {
				res.OpenPrompt = p.Object.Object
			}
		case !p.Floor.Walkable && rect.Overlaps(p.Floor.Rect):
			h = &hit{border: facing(p.Floor.Rect, dir)}
		default:
			continue
		}
		if best == nil || better(h, best, dir) {
			best = h
		}
	}

	if best == nil {
		if r.showing {
			res.ClosePrompt = true
			r.showing = false
		}
		if r.selected != nil {
			res.Deselected = r.selected
			r.selected = nil
		}
		return res
	}

	if res.OpenPrompt != nil {
		r.showing = true
		r.selected = res.OpenPrompt
	}
	res.Stopped = true
	res.Contacted = best.ref
	res.Rect = stopAt(rect, dir, best.border)
	return res
}

// better reports whether a beats b. Object cells beat floor cells; within a
// layer the border closest to where the rectangle came from wins.
func better(a, b *hit, dir direction.Dir) bool {
	if a.object != b.object {
		return a.object
	}
	switch dir {
	case direction.Right, direction.Down:
		return a.border < b.border
	default:
		return a.border > b.border
	}
}

// facing returns the edge of a solid rectangle that stops movement in dir.
func facing(solid image.Rectangle, dir direction.Dir) int {
	switch dir {
	case direction.Right:
		return solid.Min.X
	case direction.Left:
		return solid.Max.X
	case direction.Up:
		return solid.Max.Y
	default:
		return solid.Min.Y
	}
}

// stopAt moves rect so its leading edge lies on border.
func stopAt(rect image.Rectangle, dir direction.Dir, border int) image.Rectangle {
	var d image.Point
	switch dir {
	case direction.Right:
		d.X = border - rect.Max.X
	case direction.Left:
		d.X = border - rect.Min.X
	case direction.Up:
		d.Y = border - rect.Min.Y
	case direction.Down:
		d.Y = border - rect.Max.Y
	}
	return rect.Add(d)
}

func clampToBorder(rect image.Rectangle, dir direction.Dir, bounds image.Rectangle) image.Rectangle {
	switch dir {
	case direction.Right:
		return stopAt(rect, dir, bounds.Max.X)
	case direction.Left:
		return stopAt(rect, dir, bounds.Min.X)
	case direction.Up:
		return stopAt(rect, dir, bounds.Min.Y)
	default:
		return stopAt(rect, dir, bounds.Max.Y)
	}
}

// SensitivePoint is the middle of the rectangle edge facing dir. A point on
// the right or bottom edge lies just outside rect, inside whatever it touches.
func SensitivePoint(rect image.Rectangle, dir direction.Dir) image.Point {
	cx := rect.Min.X + rect.Dx()/2
	cy := rect.Min.Y + rect.Dy()/2
	switch dir {
	case direction.Left:
		return image.Pt(rect.Min.X, cy)
	case direction.Right:
		return image.Pt(rect.Max.X, cy)
	case direction.Up:
		return image.Pt(cx, rect.Min.Y)
	default:
		return image.Pt(cx, rect.Max.Y)
	}
}
