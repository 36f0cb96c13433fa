package msglog

import (
	"fmt"
	"image"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/stationkeeper/internal/events"
	"chosenoffset.com/stationkeeper/internal/render/software"
)

func TestOnceMessages(t *testing.T) {
	l := New(0, 0, 300, 120)

	assert.True(t, l.Add(events.LogMessage{Text: "A plain door.", Once: true}))
	assert.False(t, l.Add(events.LogMessage{Text: "A plain door.", Once: true}))
	assert.True(t, l.Add(events.LogMessage{Text: "Access denied."}))
	assert.True(t, l.Add(events.LogMessage{Text: "Access denied."}))
	assert.False(t, l.Add(events.LogMessage{}))
	assert.Len(t, l.Entries(), 3)
}

func TestHandleOnlyLogMessages(t *testing.T) {
	l := New(0, 0, 300, 120)
	assert.True(t, l.Handle(events.LogMessage{Text: "hello", Kind: events.Success}))
	assert.False(t, l.Handle(events.DisableActions{}))
	require.Len(t, l.Entries(), 1)
	assert.Equal(t, events.Success, l.Entries()[0].Kind)
}

func TestFadeAndExpire(t *testing.T) {
	l := New(0, 0, 300, 120)
	l.Add(events.LogMessage{Text: "first"})
	l.Update(Lifetime / 2)
	l.Add(events.LogMessage{Text: "second"})

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.InDelta(t, 0.5, entries[0].Alpha(), 1e-9)
	assert.InDelta(t, 1.0, entries[1].Alpha(), 1e-9)

	l.Update(Lifetime / 2)
	require.Len(t, l.Entries(), 1)
	assert.Equal(t, "second", l.Entries()[0].Text)

	l.Update(time.Hour)
	assert.Empty(t, l.Entries())
}

func TestKeepsNewest(t *testing.T) {
	l := New(0, 0, 300, 120)
	for i := 0; i < MaxEntries+3; i++ {
		l.Add(events.LogMessage{Text: fmt.Sprintf("line %d", i)})
	}
	entries := l.Entries()
	require.Len(t, entries, MaxEntries)
	assert.Equal(t, "line 3", entries[0].Text)
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 12), 140)
	for _, line := range lines {
		assert.LessOrEqual(t, len(line), 20)
	}
	assert.Equal(t, "word word word word", lines[0])
	assert.Len(t, lines, 3)
	assert.Empty(t, wrapText("   ", 140))
}

func TestDrawStaysInPanel(t *testing.T) {
	r := software.NewRenderer()
	dst := r.NewImage(320, 240)
	l := New(10, 100, 200, 60)
	for i := 0; i < 5; i++ {
		l.Add(events.LogMessage{Text: fmt.Sprintf("message number %d", i)})
	}
	l.Draw(r, dst)

	img := dst.(*software.Image).RGBA()
	panel := image.Rect(10, 100, 210, 160)
	for y := 0; y < 240; y++ {
		for x := 0; x < 320; x++ {
			if !image.Pt(x, y).In(panel) {
				require.Zero(t, img.RGBAAt(x, y).A, "pixel %d,%d outside the panel", x, y)
			}
		}
	}
	assert.NotZero(t, img.RGBAAt(12, 102).A)
}
