package chars

import "image"

// Char is anything standing on the map.
type Char interface {
	Rect() image.Rectangle
}

// Registry tracks every character on the map.
type Registry struct {
	chars []Char
}

// NewRegistry creates a registry holding chars.
func NewRegistry(chars ...Char) *Registry {
	r := &Registry{}
	for _, c := range chars {
		r.Add(c)
	}
	return r
}

// Add registers c once.
func (r *Registry) Add(c Char) {
	for _, have := range r.chars {
		if have == c {
			return
		}
	}
	r.chars = append(r.chars, c)
}

// Len returns the number of characters.
func (r *Registry) Len() int {
	return len(r.chars)
}

// IsRectOccupied reports whether any character overlaps rect.
func (r *Registry) IsRectOccupied(rect image.Rectangle) bool {
	for _, c := range r.chars {
		if c.Rect().Overlaps(rect) {
			return true
		}
	}
	return false
}
