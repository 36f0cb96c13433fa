// Package actions is the action prompt: up to three buttons shown beside the
// player for the object it faces. Z, X and C trigger Help, Use and Force.
package actions

import (
	"image"
	"image/color"

	"chosenoffset.com/stationkeeper/internal/events"
	"chosenoffset.com/stationkeeper/internal/objects"
	"chosenoffset.com/stationkeeper/internal/render"
	"chosenoffset.com/stationkeeper/internal/world/direction"
)

const (
	// ButtonWidth is the button size in pixels.
	ButtonWidth  = 25
	buttonHeight = 25
)

var keys = map[objects.Action]render.Key{
	objects.Help:  render.KeyZ,
	objects.Use:   render.KeyX,
	objects.Force: render.KeyC,
}

var labels = map[objects.Action]string{
	objects.Help:  "Z",
	objects.Use:   "X",
	objects.Force: "C",
}

var buttonColors = map[objects.Action]color.RGBA{
	objects.Help:  {60, 170, 90, 230},
	objects.Force: {190, 70, 50, 230},
	objects.Use:   {60, 120, 200, 230},
}

// Prompt holds the action prompt state.
type Prompt struct {
	center image.Point
	scale  int
	dir    direction.Dir
	active bool
	obj    objects.Object
	list   []objects.Action
}

// New creates a prompt for a screen of the given size.
func New(screenW, screenH, scale int) *Prompt {
	return &Prompt{center: image.Pt(screenW/2, screenH/2), scale: scale, dir: direction.Right}
}

// Active reports whether the prompt is shown.
func (p *Prompt) Active() bool {
	return p.active && len(p.list) > 0
}

// Object returns the prompted object, or nil.
func (p *Prompt) Object() objects.Object {
	return p.obj
}

// Buttons returns the shown actions in button order.
func (p *Prompt) Buttons() []objects.Action {
	if !p.Active() {
		return nil
	}
	return append([]objects.Action(nil), p.list...)
}

// Handle consumes prompt events. closed is set when the prompt was hidden
// by a DisableActions event.
func (p *Prompt) Handle(e events.Event) (handled, closed bool) {
	switch e := e.(type) {
	case events.EnableActions:
		obj, ok := e.Object.(objects.Object)
		if !ok {
			return true, false
		}
		p.obj = obj
		p.list = obj.Actions().List()
		p.dir = e.Dir
		p.active = true
		return true, false
	case events.DisableActions:
		p.active = false
		return true, true
	case events.UpdateActions:
		if p.obj != nil {
			p.list = p.obj.Actions().List()
		}
		return true, false
	}
	return false, false
}

// HandleKeys routes a just pressed action key to the prompted object.
// It reports the action taken.
func (p *Prompt) HandleKeys(in render.InputManager) (objects.Action, bool) {
	if !p.active || p.obj == nil {
		return 0, false
	}
	for _, a := range []objects.Action{objects.Force, objects.Use, objects.Help} {
		if in.IsKeyJustPressed(keys[a]) {
			p.act(a)
			return a, true
		}
	}
	return 0, false
}

func (p *Prompt) act(a objects.Action) {
	switch a {
	case objects.Help:
		p.obj.ActHelp()
	case objects.Force:
		p.obj.ActForce()
	case objects.Use:
		p.obj.ActUse()
	}
}

// Positions returns the top-left corners of n buttons for a player facing
// dir, in button order.
func (p *Prompt) Positions(n int, dir direction.Dir) []image.Point {
	cx, cy, s := p.center.X, p.center.Y, p.scale
	const w, h = ButtonWidth, buttonHeight
	pt := image.Pt
	switch n {
	case 1:
		switch dir {
		case direction.Up:
			return []image.Point{pt(cx-w/2, cy-30*s-40)}
		case direction.Down:
			return []image.Point{pt(cx-w/2, cy+20)}
		case direction.Left:
			return []image.Point{pt(cx-20*s-25, cy+10-h/2-15*s)}
		default:
			return []image.Point{pt(cx+20*s, cy+10-h/2-15*s)}
		}
	case 2:
		switch dir {
		case direction.Up:
			return []image.Point{pt(cx-20-w, cy-30*s-40), pt(cx+20, cy-30*s-40)}
		case direction.Down:
			return []image.Point{pt(cx-20-w, cy+20), pt(cx+20, cy+20)}
		case direction.Left:
			return []image.Point{pt(cx-25*s-15, cy-10-h-15*s), pt(cx-25*s-15, cy+30-15*s)}
		default:
			return []image.Point{pt(cx+20*s-5, cy-10-h-15*s), pt(cx+20*s-5, cy+30-15*s)}
		}
	case 3:
		switch dir {
		case direction.Up:
			return []image.Point{pt(cx-30-w, cy-40*s), pt(cx-w/2, cy-30*s-40), pt(cx+30, cy-40*s)}
		case direction.Down:
			return []image.Point{pt(cx-30-w, cy+10), pt(cx-w/2, cy+20), pt(cx+30, cy+10)}
		case direction.Left:
			return []image.Point{
				pt(cx-35*s+10, cy-20-h-15*s),
				pt(cx-25*s-25, cy+10-h/2-15*s),
				pt(cx-35*s+10, cy+40-15*s),
			}
		default:
			return []image.Point{
				pt(cx+35*s-35, cy-20-h-15*s),
				pt(cx+25*s, cy+10-h/2-15*s),
				pt(cx+35*s-35, cy+40-15*s),
			}
		}
	}
	return nil
}

// Draw draws the buttons.
func (p *Prompt) Draw(r render.Renderer, dst render.Image) {
	if !p.Active() {
		return
	}
	for i, at := range p.Positions(len(p.list), p.dir) {
		a := p.list[i]
		r.FillRect(dst, float32(at.X), float32(at.Y), ButtonWidth, buttonHeight, buttonColors[a])
		tw, th := r.MeasureText(labels[a])
		r.DrawText(dst, labels[a], at.X+(ButtonWidth-tw)/2, at.Y+(buttonHeight-th)/2, color.White)
	}
}
