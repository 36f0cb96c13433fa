// Package msglog draws the on-screen message log. Lines fade out after a
// while; a line logged with Once is shown only the first time.
package msglog

import (
	"image/color"
	"strings"
	"time"

	"chosenoffset.com/stationkeeper/internal/events"
	"chosenoffset.com/stationkeeper/internal/render"
)

const (
	// MaxEntries is how many messages the log keeps.
	MaxEntries = 10
	// Lifetime is how long a message stays on screen.
	Lifetime = 6 * time.Second
)

// Entry is one logged message.
type Entry struct {
	Text     string
	Lines    []string // wrapped for display
	Kind     events.MessageKind
	TimeLeft time.Duration
	MaxTime  time.Duration
}

// Alpha returns the fade factor in [0, 1].
func (e Entry) Alpha() float64 {
	if e.MaxTime <= 0 {
		return 0
	}
	return float64(e.TimeLeft) / float64(e.MaxTime)
}

// Log is the message log panel.
type Log struct {
	X, Y          int
	Width, Height int

	entries []Entry
	seen    map[string]bool

	bgColor    color.RGBA
	colors     map[events.MessageKind]color.RGBA
	lineHeight int
	padding    int
}

// New creates a log panel.
func New(x, y, width, height int) *Log {
	return &Log{
		X:       x,
		Y:       y,
		Width:   width,
		Height:  height,
		seen:    make(map[string]bool),
		bgColor: color.RGBA{10, 10, 10, 180},
		colors: map[events.MessageKind]color.RGBA{
			events.Info:    {230, 230, 0, 255},
			events.Warning: {230, 80, 60, 255},
			events.Success: {90, 220, 110, 255},
		},
		lineHeight: 14,
		padding:    8,
	}
}

// Add logs a message. It reports false for a Once message already shown.
func (l *Log) Add(msg events.LogMessage) bool {
	if msg.Text == "" {
		return false
	}
	if msg.Once {
		if l.seen[msg.Text] {
			return false
		}
		l.seen[msg.Text] = true
	}
	l.entries = append(l.entries, Entry{
		Text:     msg.Text,
		Lines:    wrapText(msg.Text, l.Width-l.padding*2),
		Kind:     msg.Kind,
		TimeLeft: Lifetime,
		MaxTime:  Lifetime,
	})
	if len(l.entries) > MaxEntries {
		l.entries = l.entries[len(l.entries)-MaxEntries:]
	}
	return true
}

// Handle consumes log events.
func (l *Log) Handle(e events.Event) bool {
	msg, ok := e.(events.LogMessage)
	if !ok {
		return false
	}
	l.Add(msg)
	return true
}

// Update ages the messages and drops the expired ones.
func (l *Log) Update(dt time.Duration) {
	active := l.entries[:0]
	for _, e := range l.entries {
		e.TimeLeft -= dt
		if e.TimeLeft > 0 {
			active = append(active, e)
		}
	}
	l.entries = active
}

// Entries returns the live messages, oldest first.
func (l *Log) Entries() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Draw draws the newest messages aligned to the bottom of the panel.
func (l *Log) Draw(r render.Renderer, dst render.Image) {
	if len(l.entries) == 0 {
		return
	}
	r.FillRect(dst, float32(l.X), float32(l.Y), float32(l.Width), float32(l.Height), l.bgColor)

	y := l.Y + l.Height - l.padding
	top := l.Y + l.padding
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		clr := l.colors[e.Kind]
		clr.A = uint8(float64(clr.A) * e.Alpha())
		for j := len(e.Lines) - 1; j >= 0; j-- {
			y -= l.lineHeight
			if y < top {
				return
			}
			r.DrawText(dst, e.Lines[j], l.X+l.padding, y, clr)
		}
	}
}

// wrapText breaks text into lines of at most maxWidth pixels, assuming a
// 7px wide font.
func wrapText(text string, maxWidth int) []string {
	charsPerLine := maxWidth / 7
	if charsPerLine < 20 {
		charsPerLine = 20
	}

	var lines []string
	var line string
	for _, word := range strings.Fields(text) {
		if line != "" && len(line)+len(word)+1 > charsPerLine {
			lines = append(lines, line)
			line = ""
		}
		if line != "" {
			line += " "
		}
		line += word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}
