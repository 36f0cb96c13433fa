// Package chars moves the characters over the map and answers whether a
// rectangle is occupied by any of them.
package chars

import (
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/stationkeeper/internal/events"
	"chosenoffset.com/stationkeeper/internal/logger"
	"chosenoffset.com/stationkeeper/internal/render"
	"chosenoffset.com/stationkeeper/internal/world/collision"
	"chosenoffset.com/stationkeeper/internal/world/direction"
)

const (
	// MoveSpeed is the player step in pixels per tick.
	MoveSpeed = 2
	// FrameDelay is how long one walk frame is shown.
	FrameDelay = 100 * time.Millisecond
)

// innerRect is the unscaled collision box inside a character frame.
var innerRect = image.Rect(10, 30, 32, 40)

// Input is the movement keys held this tick.
type Input struct {
	Up, Down, Left, Right bool
}

// Dir returns the movement direction. Only one key counts, checked in the
// order down, up, left, right.
func (in Input) Dir() direction.Dir {
	switch {
	case in.Down:
		return direction.Down
	case in.Up:
		return direction.Up
	case in.Left:
		return direction.Left
	case in.Right:
		return direction.Right
	}
	return direction.None
}

type describer interface {
	Description() string
}

type interfaceCloser interface {
	IsOpened() bool
	CloseInterface()
}

// Player is the character driven by the keyboard.
type Player struct {
	rect     image.Rectangle
	inner    image.Rectangle
	facing   direction.Dir
	idle     bool
	speed    int
	walk     time.Duration
	sheet    *Sheet
	resolver *collision.Resolver
	queue    *events.Queue
	log      logrus.FieldLogger
}

// NewPlayer places a player with its collision box at spawn.
func NewPlayer(spawn image.Point, sheet *Sheet, scale int, resolver *collision.Resolver, queue *events.Queue, log logrus.FieldLogger) *Player {
	inner := image.Rect(innerRect.Min.X*scale, innerRect.Min.Y*scale, innerRect.Max.X*scale, innerRect.Max.Y*scale)
	return &Player{
		rect:     image.Rectangle{Min: spawn, Max: spawn.Add(inner.Size())},
		inner:    inner,
		facing:   direction.Down,
		idle:     true,
		speed:    MoveSpeed,
		sheet:    sheet,
		resolver: resolver,
		queue:    queue,
		log:      logger.OrDiscard(log).WithField("component", "player"),
	}
}

// Rect returns the collision box in world pixels.
func (p *Player) Rect() image.Rectangle { return p.rect }

// Facing returns the last movement direction.
func (p *Player) Facing() direction.Dir { return p.facing }

// Idle reports whether the player stood still or was stopped last tick.
func (p *Player) Idle() bool { return p.idle }

// SetSpeed changes the step size. Values below 1 are ignored.
func (p *Player) SetSpeed(speed int) {
	if speed > 0 {
		p.speed = speed
	}
}

// Camera returns the world point the screen is centered on.
func (p *Player) Camera() image.Point {
	return p.rect.Min.Add(image.Pt(p.rect.Dx()/2, p.rect.Dy()/2))
}

// PromptClosed tells the player the interface closed the action prompt.
func (p *Player) PromptClosed() {
	p.resolver.PromptClosed()
}

// Update moves the player one step and turns the collision outcome into
// interface signals.
func (p *Player) Update(in Input, dt time.Duration) collision.Result {
	dir := in.Dir()
	if dir == direction.None {
		p.idle = true
		p.walk = 0
		return collision.Result{Rect: p.rect}
	}
	p.facing = dir
	moved := p.rect.Add(dir.Delta().Mul(p.speed))
	res := p.resolver.Resolve(moved, dir)
	p.rect = res.Rect
	p.idle = res.Stopped
	if p.idle {
		p.walk = 0
	} else {
		p.walk += dt
	}

	if res.OpenPrompt != nil {
		p.queue.Push(events.EnableActions{Dir: dir, Object: res.OpenPrompt})
		if d, ok := res.OpenPrompt.(describer); ok {
			p.queue.Push(events.LogMessage{Text: d.Description(), Once: true})
		}
		p.log.WithField("object", res.OpenPrompt.Index()).Debug("action prompt opened")
	}
	if res.ClosePrompt {
		p.queue.Push(events.DisableActions{})
	}
	if res.Deselected != nil {
		if c, ok := res.Deselected.(interfaceCloser); ok && c.IsOpened() {
			c.CloseInterface()
		}
	}
	return res
}

// ScreenPos returns where the frame is drawn on a screen of the given size.
// The collision box is kept at the screen center.
func (p *Player) ScreenPos(screenW, screenH int) image.Point {
	return image.Pt(
		(screenW-p.inner.Dx())/2-p.inner.Min.X,
		(screenH-p.inner.Dy())/2-p.inner.Min.Y,
	)
}

// Draw draws the current frame on dst.
func (p *Player) Draw(dst render.Image) {
	if p.sheet == nil {
		return
	}
	w, h := dst.Size()
	at := p.ScreenPos(w, h)
	frame := p.sheet.Frame(p.facing, int(p.walk/FrameDelay), p.idle)
	opts := &render.DrawImageOptions{}
	opts.GeoM.Translate(float64(at.X), float64(at.Y))
	dst.DrawImage(frame, opts)
}
