// Package direction names the four movement directions.
package direction

import "image"

// Dir is a movement direction. Diagonals do not exist.
type Dir int

const (
	None Dir = iota
	Up
	Right
	Down
	Left
)

func (d Dir) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return "none"
	}
}

// Delta returns the unit step of d.
func (d Dir) Delta() image.Point {
	switch d {
	case Up:
		return image.Pt(0, -1)
	case Right:
		return image.Pt(1, 0)
	case Down:
		return image.Pt(0, 1)
	case Left:
		return image.Pt(-1, 0)
	default:
		return image.Point{}
	}
}

// Horizontal reports whether d moves along the x axis.
func (d Dir) Horizontal() bool {
	return d == Left || d == Right
}

// Opposite returns the reverse direction.
func (d Dir) Opposite() Dir {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	default:
		return None
	}
}
