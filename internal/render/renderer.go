// Package render declares the drawing surface, input and engine interfaces the
// game is written against. Backends live in sub-packages so the world code can
// be driven by ebiten in the client and by a software rasterizer headless.
package render

import (
	"errors"
	"image"
	"image/color"
)

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. This allows swapping rendering backends without changing
// game logic.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Shape operations
	FillRect(dst Image, x, y, width, height float32, clr color.Color)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int, clr color.Color)
	MeasureText(text string) (width, height int)
}

// Image represents a renderable image surface that can be drawn to or drawn from.
type Image interface {
	// Properties
	Bounds() image.Rectangle
	Size() (width, height int)

	// SubImage shares pixels with the parent image.
	SubImage(r image.Rectangle) Image

	// Fill operations
	Fill(clr color.Color)
	Clear()

	// DrawImage draws src onto this image. A nil opts draws at the origin.
	DrawImage(src Image, opts *DrawImageOptions)

	// Resource management
	Dispose()
}

// DrawImageOptions contains options for drawing an image.
type DrawImageOptions struct {
	GeoM GeoM
}

// GeoM is a scale-then-translate transform. The zero value is the identity.
type GeoM struct {
	sx, sy float64
	tx, ty float64
	scaled bool
}

// Translate shifts the image by (tx, ty).
func (g *GeoM) Translate(tx, ty float64) {
	g.tx += tx
	g.ty += ty
}

// Scale scales the image by (sx, sy). Any translation applied so far is
// scaled as well.
func (g *GeoM) Scale(sx, sy float64) {
	if !g.scaled {
		g.sx, g.sy = 1, 1
		g.scaled = true
	}
	g.sx *= sx
	g.sy *= sy
	g.tx *= sx
	g.ty *= sy
}

// Reset resets the matrix to identity.
func (g *GeoM) Reset() {
	*g = GeoM{}
}

// Elements returns the scale and translation components.
func (g GeoM) Elements() (sx, sy, tx, ty float64) {
	if !g.scaled {
		return 1, 1, g.tx, g.ty
	}
	return g.sx, g.sy, g.tx, g.ty
}

// Apply transforms a source point.
func (g GeoM) Apply(x, y float64) (float64, float64) {
	sx, sy, tx, ty := g.Elements()
	return x*sx + tx, y*sy + ty
}

// InputManager handles keyboard input.
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the client listens to.
const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyZ // Help action
	KeyX // Use action
	KeyC // Force action
	KeyF3
	KeyEscape
)

// ResourceLoader handles loading resources like images from disk.
type ResourceLoader interface {
	LoadImage(path string) (Image, error)
}

// Game represents the game interface that the engine will call.
type Game interface {
	// Update updates the game logic. It is called every tick.
	Update() error

	// Draw draws the game screen. It is called every frame.
	Draw(screen Image)

	// Layout accepts the outside size and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the game engine that manages the game loop and window.
type Engine interface {
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	SetTPS(tps int)

	// RunGame runs the game loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}

// ErrTerminated is returned by Game.Update to end the loop cleanly.
var ErrTerminated = errors.New("game terminated")
