// Package objects implements the interactive map objects (doors, terminals
// and lockers) and the registry that builds them from configuration.
//
// Objects never hold pointers to each other. A door knows its terminal by
// index and looks it up through the registry when it needs it, so objects can
// be built in any order.
package objects

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/stationkeeper/internal/audio"
	"chosenoffset.com/stationkeeper/internal/events"
	"chosenoffset.com/stationkeeper/internal/inventory"
	"chosenoffset.com/stationkeeper/internal/world/layer"
)

// State is the coarse state of an object.
type State int

const (
	Normal State = iota
	Broken
	Locked
	Closed
	Opened
	Blocked
)

func (s State) String() string {
	switch s {
	case Normal:
		return "normal"
	case Broken:
		return "broken"
	case Locked:
		return "locked"
	case Closed:
		return "closed"
	case Opened:
		return "opened"
	case Blocked:
		return "blocked"
	}
	return "unknown"
}

// Action is a player interaction.
type Action int

const (
	Help Action = iota
	Force
	Use
)

func (a Action) String() string {
	switch a {
	case Help:
		return "help"
	case Force:
		return "force"
	case Use:
		return "use"
	}
	return "unknown"
}

// ActionSet is a set of actions.
type ActionSet uint8

// NewActionSet returns the set of the given actions.
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s |= 1 << a
	}
	return s
}

// Has reports whether a is in the set.
func (s ActionSet) Has(a Action) bool {
	return s&(1<<a) != 0
}

// List returns the actions in button order: Help, Force, Use.
func (s ActionSet) List() []Action {
	var out []Action
	for _, a := range []Action{Help, Force, Use} {
		if s.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s ActionSet) String() string {
	names := make([]string, 0, 3)
	for _, a := range s.List() {
		names = append(names, a.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Object is an interactive map object bound to one object-layer cell.
type Object interface {
	Index() int
	Class() string
	Coords() image.Point
	SetCoords(p image.Point)
	State() State
	Description() string
	Actions() ActionSet
	// TilesUsed lists every tile the object may display.
	TilesUsed() []int
	// Sounds lists every sound the object may play.
	Sounds() []string
	ActHelp()
	ActForce()
	ActUse()
}

// TileChanger swaps map tiles. It is implemented by the game map.
type TileChanger interface {
	ChangeTile(kind layer.Kind, x, y, tile int, walkable *bool)
}

// Occupancy reports whether any character stands in a rectangle.
type Occupancy interface {
	IsRectOccupied(r image.Rectangle) bool
}

// Env is what objects need from the rest of the game.
type Env struct {
	Sounds    audio.Player
	Tiles     TileChanger
	Occupancy Occupancy
	Events    *events.Queue
	Keys      *inventory.Inventory
	Text      *Locale
	CellSize  int
	Log       logrus.FieldLogger
}

// base holds the fields every object shares.
type base struct {
	index       int
	class       string
	coords      image.Point
	state       State
	actions     ActionSet
	description string
	reg         *Registry
	self        Object
}

func (b *base) Index() int              { return b.index }
func (b *base) Class() string           { return b.class }
func (b *base) Coords() image.Point     { return b.coords }
func (b *base) SetCoords(p image.Point) { b.coords = p }
func (b *base) State() State            { return b.state }
func (b *base) Description() string     { return b.description }
func (b *base) Actions() ActionSet      { return b.actions }
func (b *base) TilesUsed() []int        { return nil }
func (b *base) Sounds() []string        { return nil }
func (b *base) ActHelp()                {}

func (b *base) env() *Env {
	return &b.reg.env
}

// say logs the localized action text of key.
func (b *base) say(key string, kind events.MessageKind, once bool) {
	text := b.env().Text.Action(b.class, key)
	b.env().Events.Push(events.LogMessage{Text: text, Kind: kind, Once: once})
}

func (b *base) play(sound string) {
	if sound != "" {
		b.env().Sounds.Play(sound)
	}
}

func (b *base) updateActions() {
	b.env().Events.Push(events.UpdateActions{Object: b.self})
}

func (b *base) changeTile(tile int, walkable *bool) {
	b.env().Tiles.ChangeTile(layer.Objects, b.coords.X, b.coords.Y, tile, walkable)
}

// cellRect is the nominal pixel rectangle of the object's cell.
func (b *base) cellRect() image.Rectangle {
	cs := b.env().CellSize
	min := b.coords.Mul(cs)
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(cs, cs))}
}

func (b *base) log() logrus.FieldLogger {
	return b.reg.log.WithFields(logrus.Fields{"object": b.index, "class": b.class})
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func boolPtr(v bool) *bool {
	return &v
}

// setup resolves the description text and records the outer object.
func (b *base) setup(self Object, description string) error {
	if description == "" {
		return errors.New("missing description")
	}
	text, err := b.env().Text.Description(b.class, description)
	if err != nil {
		return err
	}
	b.description = text
	b.self = self
	return nil
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("bad args: %w", err)
	}
	return nil
}
