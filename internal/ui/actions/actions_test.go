package actions

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"

	"chosenoffset.com/stationkeeper/internal/events"
	"chosenoffset.com/stationkeeper/internal/objects"
	"chosenoffset.com/stationkeeper/internal/render"
	"chosenoffset.com/stationkeeper/internal/render/software"
	"chosenoffset.com/stationkeeper/internal/world/direction"
)

type fakeObject struct {
	actions objects.ActionSet
	calls   []string
}

func (f *fakeObject) Index() int                 { return 1 }
func (f *fakeObject) Class() string              { return "simple_door" }
func (f *fakeObject) Coords() image.Point        { return image.Point{} }
func (f *fakeObject) SetCoords(image.Point)      {}
func (f *fakeObject) State() objects.State       { return objects.Closed }
func (f *fakeObject) Description() string        { return "A door." }
func (f *fakeObject) Actions() objects.ActionSet { return f.actions }
func (f *fakeObject) TilesUsed() []int           { return nil }
func (f *fakeObject) Sounds() []string           { return nil }
func (f *fakeObject) ActHelp()                   { f.calls = append(f.calls, "help") }
func (f *fakeObject) ActForce()                  { f.calls = append(f.calls, "force") }
func (f *fakeObject) ActUse()                    { f.calls = append(f.calls, "use") }

type fakeKeys map[render.Key]bool

func (k fakeKeys) IsKeyPressed(key render.Key) bool     { return k[key] }
func (k fakeKeys) IsKeyJustPressed(key render.Key) bool { return k[key] }

func TestEnableUpdateDisable(t *testing.T) {
	p := New(800, 600, 1)
	obj := &fakeObject{actions: objects.NewActionSet(objects.Force, objects.Use)}
	assert.False(t, p.Active())

	handled, closed := p.Handle(events.EnableActions{Dir: direction.Up, Object: obj})
	assert.True(t, handled)
	assert.False(t, closed)
	assert.True(t, p.Active())
	assert.Equal(t, []objects.Action{objects.Force, objects.Use}, p.Buttons())
	assert.Same(t, obj, p.Object())

	obj.actions = 0
	p.Handle(events.UpdateActions{Object: obj})
	assert.False(t, p.Active())

	obj.actions = objects.NewActionSet(objects.Force, objects.Use)
	p.Handle(events.UpdateActions{Object: obj})
	assert.True(t, p.Active())

	handled, closed = p.Handle(events.DisableActions{})
	assert.True(t, handled)
	assert.True(t, closed)
	assert.False(t, p.Active())

	handled, _ = p.Handle(events.LogMessage{Text: "x"})
	assert.False(t, handled)
}

func TestKeysRouteToObject(t *testing.T) {
	p := New(800, 600, 1)
	obj := &fakeObject{actions: objects.NewActionSet(objects.Help, objects.Force, objects.Use)}

	_, ok := p.HandleKeys(fakeKeys{render.KeyX: true})
	assert.False(t, ok)

	p.Handle(events.EnableActions{Dir: direction.Right, Object: obj})
	a, ok := p.HandleKeys(fakeKeys{render.KeyX: true})
	assert.True(t, ok)
	assert.Equal(t, objects.Use, a)
	p.HandleKeys(fakeKeys{render.KeyC: true})
	p.HandleKeys(fakeKeys{render.KeyZ: true})
	_, ok = p.HandleKeys(fakeKeys{render.KeyUp: true})
	assert.False(t, ok)
	assert.Equal(t, []string{"use", "force", "help"}, obj.calls)

	p.Handle(events.DisableActions{})
	p.HandleKeys(fakeKeys{render.KeyX: true})
	assert.Len(t, obj.calls, 3)
}

func TestPositions(t *testing.T) {
	p := New(800, 600, 1)
	for n := 1; n <= 3; n++ {
		for _, d := range []direction.Dir{direction.Up, direction.Right, direction.Down, direction.Left} {
			assert.Len(t, p.Positions(n, d), n, "n=%d dir=%s", n, d)
		}
	}
	assert.Nil(t, p.Positions(0, direction.Up))
	assert.Equal(t, []image.Point{{388, 620 - 300}}, p.Positions(1, direction.Down))
	assert.Equal(t, []image.Point{{420, 283}}, p.Positions(1, direction.Right))

	big := New(800, 600, 2)
	assert.Equal(t, []image.Point{{388, 200}}, big.Positions(1, direction.Up))
}

func TestDrawButtons(t *testing.T) {
	r := software.NewRenderer()
	dst := r.NewImage(800, 600)
	p := New(800, 600, 1)
	p.Draw(r, dst)
	img := dst.(*software.Image).RGBA()
	assert.Zero(t, img.RGBAAt(390, 322).A)

	obj := &fakeObject{actions: objects.NewActionSet(objects.Use)}
	p.Handle(events.EnableActions{Dir: direction.Down, Object: obj})
	p.Draw(r, dst)
	assert.NotZero(t, img.RGBAAt(390, 322).A)
}
