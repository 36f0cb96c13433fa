package chars

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/stationkeeper/internal/events"
	"chosenoffset.com/stationkeeper/internal/placeholders"
	"chosenoffset.com/stationkeeper/internal/render/software"
	"chosenoffset.com/stationkeeper/internal/world/collision"
	"chosenoffset.com/stationkeeper/internal/world/direction"
	"chosenoffset.com/stationkeeper/internal/world/gamemap"
	"chosenoffset.com/stationkeeper/internal/world/layer"
)

// terrain is an open 1000px square with one solid object cell.
type terrain struct {
	pair gamemap.Pair
}

func (t *terrain) Bounds() image.Rectangle { return image.Rect(0, 0, 1000, 1000) }

func (t *terrain) Pairs(image.Rectangle) []gamemap.Pair { return []gamemap.Pair{t.pair} }

type locker struct {
	opened bool
	closed int
}

func (l *locker) Index() int          { return 4 }
func (l *locker) Description() string { return "A blue locker." }
func (l *locker) IsOpened() bool      { return l.opened }
func (l *locker) CloseInterface()     { l.opened = false; l.closed++ }

func newWorld(obj layer.ObjectRef) *terrain {
	return &terrain{pair: gamemap.Pair{
		Floor:  &layer.Cell{Rect: image.Rect(200, 80, 240, 120), Walkable: true},
		Object: &layer.Cell{Rect: image.Rect(200, 95, 240, 135), Object: obj},
	}}
}

func TestInputDirPriority(t *testing.T) {
	assert.Equal(t, direction.None, Input{}.Dir())
	assert.Equal(t, direction.Down, Input{Up: true, Down: true, Right: true}.Dir())
	assert.Equal(t, direction.Up, Input{Up: true, Left: true}.Dir())
	assert.Equal(t, direction.Left, Input{Left: true, Right: true}.Dir())
	assert.Equal(t, direction.Right, Input{Right: true}.Dir())
}

func TestPlayerStopsAndPrompts(t *testing.T) {
	obj := &locker{opened: true}
	q := events.NewQueue()
	p := NewPlayer(image.Pt(170, 100), nil, 1, collision.New(newWorld(obj)), q, nil)
	assert.Equal(t, image.Rect(170, 100, 192, 110), p.Rect())
	assert.Equal(t, image.Pt(181, 105), p.Camera())

	right := Input{Right: true}
	for i := 0; i < 4; i++ {
		res := p.Update(right, 16*time.Millisecond)
		assert.False(t, res.Stopped)
	}
	assert.False(t, p.Idle())
	assert.Empty(t, q.Drain())

	res := p.Update(right, 16*time.Millisecond)
	assert.True(t, res.Stopped)
	assert.True(t, p.Idle())
	assert.Equal(t, 200, p.Rect().Max.X)
	assert.Equal(t, []events.Event{
		events.EnableActions{Dir: direction.Right, Object: obj},
		events.LogMessage{Text: "A blue locker.", Once: true},
	}, q.Drain())

	// pushing on does not reopen the prompt
	p.Update(right, 16*time.Millisecond)
	assert.Empty(t, q.Drain())

	p.Update(Input{Left: true}, 16*time.Millisecond)
	assert.Equal(t, direction.Left, p.Facing())
	assert.Equal(t, []events.Event{events.DisableActions{}}, q.Drain())
	assert.Equal(t, 1, obj.closed)
	assert.False(t, obj.opened)
}

func TestPlayerIdleWithoutInput(t *testing.T) {
	q := events.NewQueue()
	p := NewPlayer(image.Pt(10, 10), nil, 2, collision.New(newWorld(nil)), q, nil)
	assert.Equal(t, image.Rect(10, 10, 54, 30), p.Rect())

	res := p.Update(Input{}, time.Second)
	assert.False(t, res.Stopped)
	assert.True(t, p.Idle())
	assert.Equal(t, direction.Down, p.Facing())
	assert.Equal(t, image.Rect(10, 10, 54, 30), p.Rect())
}

func TestPlayerSpeed(t *testing.T) {
	p := NewPlayer(image.Pt(10, 10), nil, 1, collision.New(newWorld(nil)), events.NewQueue(), nil)
	p.SetSpeed(0)
	p.Update(Input{Down: true}, 0)
	assert.Equal(t, 12, p.Rect().Min.Y)
	p.SetSpeed(5)
	p.Update(Input{Down: true}, 0)
	assert.Equal(t, 17, p.Rect().Min.Y)
}

func TestScreenPosCentersCollisionBox(t *testing.T) {
	p := NewPlayer(image.Pt(0, 0), nil, 1, collision.New(newWorld(nil)), events.NewQueue(), nil)
	at := p.ScreenPos(800, 600)
	// box center on screen = frame origin + inner offset + half the box
	assert.Equal(t, image.Pt(400, 300), at.Add(image.Pt(10+11, 30+5)))
}

func TestSheetFrames(t *testing.T) {
	r := software.NewRenderer()
	img := software.Wrap(placeholders.GenerateTileset(4, 4, FrameSize))
	s, err := NewSheet(r, img, 1)
	require.NoError(t, err)
	assert.Equal(t, FrameSize, s.Size())

	center := func(f interface{ Bounds() image.Rectangle }) image.Point {
		b := f.Bounds()
		return b.Min.Add(image.Pt(b.Dx()/2, b.Dy()/2))
	}
	right := s.Frame(direction.Right, 1, false).(*software.Image)
	c := center(right)
	assert.Equal(t, placeholders.IndexColor(6), right.RGBA().RGBAAt(c.X, c.Y))

	idle := s.Frame(direction.Left, 3, true).(*software.Image)
	c = center(idle)
	assert.Equal(t, placeholders.IndexColor(13), idle.RGBA().RGBAAt(c.X, c.Y))

	wrap := s.Frame(direction.Up, 5, false).(*software.Image)
	c = center(wrap)
	assert.Equal(t, placeholders.IndexColor(2), wrap.RGBA().RGBAAt(c.X, c.Y))
}

func TestSheetScale(t *testing.T) {
	r := software.NewRenderer()
	s, err := NewSheet(r, software.Wrap(placeholders.GenerateCharacterSheet(FrameSize)), 2)
	require.NoError(t, err)
	assert.Equal(t, 2*FrameSize, s.Size())
	w, h := s.Frame(direction.Down, 0, true).Size()
	assert.Equal(t, []int{84, 84}, []int{w, h})
}

func TestSheetWrongSize(t *testing.T) {
	r := software.NewRenderer()
	_, err := NewSheet(r, software.Wrap(placeholders.GenerateTileset(4, 3, FrameSize)), 1)
	assert.ErrorIs(t, err, ErrSheetSize)
}

func TestRegistryOccupancy(t *testing.T) {
	a := NewPlayer(image.Pt(100, 100), nil, 1, collision.New(newWorld(nil)), events.NewQueue(), nil)
	reg := NewRegistry(a, a)
	assert.Equal(t, 1, reg.Len())

	assert.True(t, reg.IsRectOccupied(image.Rect(96, 96, 128, 128)))
	assert.False(t, reg.IsRectOccupied(image.Rect(122, 96, 160, 128)))
	assert.False(t, NewRegistry().IsRectOccupied(image.Rect(0, 0, 1000, 1000)))
}
