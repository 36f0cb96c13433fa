package hud

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/stationkeeper/internal/events"
	"chosenoffset.com/stationkeeper/internal/objects"
	"chosenoffset.com/stationkeeper/internal/render/software"
	"chosenoffset.com/stationkeeper/internal/render/viewport"
	"chosenoffset.com/stationkeeper/internal/world/direction"
)

func newLocker(t *testing.T) objects.Storer {
	t.Helper()
	text, err := objects.ParseLocale("eng", []byte(`{"wooden_locker": {"descriptions": {"shelf": "A shelf."}}}`))
	require.NoError(t, err)
	var cfg map[string]objects.Entry
	require.NoError(t, json.Unmarshal([]byte(`{"3": {"class": "wooden_locker", "args": {
		"description": "shelf", "items": [{"name": "fuse", "display_name": "Fuse"}]
	}}}`), &cfg))
	reg, err := objects.NewRegistry(cfg, objects.Env{Text: text, CellSize: 32})
	require.NoError(t, err)
	return reg.Object(3).(objects.Storer)
}

func TestStoragePanelFollowsEvents(t *testing.T) {
	p := NewStoragePanel(800, 600)
	locker := newLocker(t)

	assert.False(t, p.Handle(events.DisableActions{}))
	assert.True(t, p.Handle(events.ShowStorage{Object: locker}))
	assert.Same(t, locker, p.Open())
	assert.True(t, p.Handle(events.HideStorage{}))
	assert.Nil(t, p.Open())
}

func TestStoragePanelDraw(t *testing.T) {
	r := software.NewRenderer()
	dst := r.NewImage(800, 600)
	p := NewStoragePanel(800, 600)
	locker := newLocker(t)

	x, y := p.Origin(locker.Storage())
	assert.Equal(t, 800-2*CellSize-20, x)
	assert.Equal(t, (600-3*CellSize)/2, y)

	p.Draw(r, dst)
	img := dst.(*software.Image).RGBA()
	assert.Zero(t, img.RGBAAt(x+CellSize/2, y+CellSize/2).A)

	p.Handle(events.ShowStorage{Object: locker})
	p.Draw(r, dst)
	assert.Equal(t, itemColor, img.RGBAAt(x+CellSize/2, y+CellSize-5))
	assert.Equal(t, cellColor, img.RGBAAt(x+CellSize/2, y+CellSize*2+CellSize/2))
}

func TestDebugOverlay(t *testing.T) {
	var d Debug
	stats := viewport.Stats{Full: 1, Partial: 4, Invalidated: 2, LastDir: direction.Left, LastOvershoot: 30}
	lines := d.Lines(59.5, stats, 7)
	assert.Equal(t, "FPS: 59.5", lines[0])
	assert.Equal(t, "cache: 1 full, 4 partial, 2 cells", lines[1])
	assert.Contains(t, lines[2], "by 30")
	assert.Equal(t, "objects: 7", lines[3])

	r := software.NewRenderer()
	dst := r.NewImage(320, 240)
	d.Draw(r, dst, 60, stats, 7)
	assert.Zero(t, dst.(*software.Image).RGBA().RGBAAt(11, 11).A)

	d.Toggle()
	d.Draw(r, dst, 60, stats, 7)
	assert.NotZero(t, dst.(*software.Image).RGBA().RGBAAt(11, 11).A)
}
