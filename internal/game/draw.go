package game

import (
	"image/color"

	"chosenoffset.com/stationkeeper/internal/render"
)

var background = color.RGBA{0, 0, 0, 255}

// Draw renders the cached map, the player, the top layer and the interface.
func (g *Game) Draw(screen render.Image) {
	g.frames++
	screen.Fill(background)

	camera := g.world.Player.Camera()
	if err := g.world.Map.Draw(screen, camera); err != nil {
		// logged once, the next frame retries
		if !g.drawErr {
			g.log.WithError(err).Error("failed to draw map")
			g.drawErr = true
		}
	} else {
		g.drawErr = false
	}
	g.world.Player.Draw(screen)
	g.world.Map.DrawTop(screen, camera)

	g.drawUI(screen)
}

func (g *Game) drawUI(screen render.Image) {
	g.msgs.Draw(g.renderer, screen)
	g.prompt.Draw(g.renderer, screen)
	g.storage.Draw(g.renderer, screen)
	if c := g.world.Map.Cache(); c != nil {
		g.debug.Draw(g.renderer, screen, g.fps, c.Stats(), g.world.Objects.Len())
	}
}

// FPS returns the measured draw rate.
func (g *Game) FPS() float64 {
	return g.fps
}

// DebugVisible reports whether the debug overlay is shown.
func (g *Game) DebugVisible() bool {
	return g.debug.Visible
}
