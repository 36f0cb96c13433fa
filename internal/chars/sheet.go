package chars

import (
	"errors"
	"fmt"

	"chosenoffset.com/stationkeeper/internal/render"
	"chosenoffset.com/stationkeeper/internal/world/atlas"
	"chosenoffset.com/stationkeeper/internal/world/direction"
)

const (
	// FrameSize is the unscaled size of one character frame.
	FrameSize = 42
	// sheetFrames is the frame count per row and the row count.
	sheetFrames = 4
)

// ErrSheetSize is returned for a character tileset that is not 4x4 frames.
var ErrSheetSize = errors.New("character tileset must be 4x4 frames")

// sheetRows is the direction of each tileset row.
var sheetRows = []direction.Dir{direction.Up, direction.Right, direction.Down, direction.Left}

// Sheet holds the walk frames of a character for each direction. The first
// frame of a row doubles as the idle frame.
type Sheet struct {
	frames map[direction.Dir][]render.Image
	size   int
}

// LoadSheet reads a character tileset from path.
func LoadSheet(r render.Renderer, loader render.ResourceLoader, path string, scale int) (*Sheet, error) {
	img, err := loader.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load character tileset %s: %w", path, err)
	}
	s, err := NewSheet(r, img, scale)
	if err != nil {
		return nil, fmt.Errorf("character tileset %s: %w", path, err)
	}
	return s, nil
}

// NewSheet slices img into frames.
func NewSheet(r render.Renderer, img render.Image, scale int) (*Sheet, error) {
	w, h := img.Size()
	if w != FrameSize*sheetFrames || h != FrameSize*sheetFrames {
		return nil, fmt.Errorf("%w of %dpx, got %dx%d", ErrSheetSize, FrameSize, w, h)
	}
	a, err := atlas.New(r, img, atlas.Options{TileSize: FrameSize, Scale: scale, Aliases: map[int]int{}})
	if err != nil {
		return nil, err
	}
	s := &Sheet{frames: make(map[direction.Dir][]render.Image, len(sheetRows)), size: a.TileSize()}
	for row, dir := range sheetRows {
		for col := 0; col < sheetFrames; col++ {
			s.frames[dir] = append(s.frames[dir], a.Tile(row*sheetFrames+col+1))
		}
	}
	return s, nil
}

// Size returns the scaled frame size.
func (s *Sheet) Size() int {
	return s.size
}

// Frame returns walk frame n of dir, or the idle frame when idle.
func (s *Sheet) Frame(dir direction.Dir, n int, idle bool) render.Image {
	frames, ok := s.frames[dir]
	if !ok {
		frames = s.frames[direction.Down]
	}
	if idle {
		return frames[0]
	}
	return frames[n%len(frames)]
}
