// Package game runs the frame loop of the client: input, movement, timed
// object tasks, UI signals and drawing.
package game

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/stationkeeper/internal/chars"
	"chosenoffset.com/stationkeeper/internal/logger"
	"chosenoffset.com/stationkeeper/internal/render"
	"chosenoffset.com/stationkeeper/internal/ui/actions"
	"chosenoffset.com/stationkeeper/internal/ui/hud"
	"chosenoffset.com/stationkeeper/internal/ui/msglog"
)

// Options sets up the screen.
type Options struct {
	ScreenWidth  int
	ScreenHeight int
	Scale        int
	TPS          int
}

// Game holds the loaded world and the interface drawn over it.
type Game struct {
	world    *World
	renderer render.Renderer
	input    render.InputManager

	screenW, screenH int
	tick             time.Duration
	now              time.Duration

	prompt  *actions.Prompt
	msgs    *msglog.Log
	storage *hud.StoragePanel
	debug   hud.Debug

	frames    int
	fps       float64
	fpsWindow time.Duration
	drawErr   bool

	log logrus.FieldLogger
}

// New attaches the viewport cache to the world map and creates the UI.
func New(w *World, r render.Renderer, in render.InputManager, opts Options, log logrus.FieldLogger) (*Game, error) {
	if opts.TPS <= 0 {
		return nil, fmt.Errorf("invalid tps %d", opts.TPS)
	}
	if err := w.Map.AttachCache(r, opts.ScreenWidth, opts.ScreenHeight); err != nil {
		return nil, fmt.Errorf("failed to create viewport cache: %w", err)
	}
	return &Game{
		world:    w,
		renderer: r,
		input:    in,
		screenW:  opts.ScreenWidth,
		screenH:  opts.ScreenHeight,
		tick:     time.Second / time.Duration(opts.TPS),
		prompt:   actions.New(opts.ScreenWidth, opts.ScreenHeight, opts.Scale),
		msgs:     msglog.New(10, opts.ScreenHeight-130, opts.ScreenWidth/2, 120),
		storage:  hud.NewStoragePanel(opts.ScreenWidth, opts.ScreenHeight),
		log:      logger.OrDiscard(log).WithField("component", "game"),
	}, nil
}

// World returns the loaded world.
func (g *Game) World() *World {
	return g.world
}

// Now returns the game clock.
func (g *Game) Now() time.Duration {
	return g.now
}

// Prompt returns the action prompt.
func (g *Game) Prompt() *actions.Prompt {
	return g.prompt
}

// Messages returns the message log.
func (g *Game) Messages() *msglog.Log {
	return g.msgs
}

// Storage returns the storage panel.
func (g *Game) Storage() *hud.StoragePanel {
	return g.storage
}

// Update advances the game by one tick.
func (g *Game) Update() error {
	if g.input.IsKeyJustPressed(render.KeyEscape) {
		return render.ErrTerminated
	}
	if g.input.IsKeyJustPressed(render.KeyF3) {
		g.debug.Toggle()
	}

	in := chars.Input{
		Up:    g.input.IsKeyPressed(render.KeyUp),
		Down:  g.input.IsKeyPressed(render.KeyDown),
		Left:  g.input.IsKeyPressed(render.KeyLeft),
		Right: g.input.IsKeyPressed(render.KeyRight),
	}
	g.world.Player.Update(in, g.tick)

	g.now += g.tick
	if _, err := g.world.Objects.Update(g.now); err != nil {
		return fmt.Errorf("object tasks: %w", err)
	}
	g.drain()

	if a, ok := g.prompt.HandleKeys(g.input); ok {
		g.log.WithFields(logrus.Fields{
			"action": a,
			"object": g.prompt.Object().Index(),
		}).Debug("action")
		g.drain()
	}

	g.msgs.Update(g.tick)
	g.countFrames()
	return nil
}

// drain hands the queued UI signals to the interface.
func (g *Game) drain() {
	for _, e := range g.world.Events.Drain() {
		handled, closed := g.prompt.Handle(e)
		if closed {
			g.world.Player.PromptClosed()
		}
		if g.msgs.Handle(e) || g.storage.Handle(e) {
			handled = true
		}
		if !handled {
			g.log.WithField("event", fmt.Sprintf("%T", e)).Warn("unhandled event")
		}
	}
}

// countFrames measures the draw rate over one second of game time.
func (g *Game) countFrames() {
	g.fpsWindow += g.tick
	if g.fpsWindow < time.Second {
		return
	}
	g.fps = float64(g.frames) / g.fpsWindow.Seconds()
	g.frames = 0
	g.fpsWindow = 0
}

// Layout returns the fixed logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.screenW, g.screenH
}
