package objects

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/stationkeeper/internal/events"
)

// DoorKind selects the door variant.
type DoorKind int

const (
	SimpleDoor DoorKind = iota
	SmartDoor
	ArmoredDoor
	GateDoor
)

const (
	doorSound  = "door_open_close.wav"
	gateSound  = "gate_open_close.wav"
	hitSound   = "door_hit.wav"
	stopSound  = "door_stop.wav"
	baseDelay  = 70 * time.Millisecond
	gateDelay  = 50 * time.Millisecond
	shortOpen  = time.Second
	mediumOpen = 1500 * time.Millisecond
	longOpen   = 3 * time.Second
)

type doorParams struct {
	// phases runs from the closed tile to the fully open tile, which is 0.
	phases         []int
	animationDelay time.Duration
	openedDelay    time.Duration
	openSound      string
	closeSound     string
	// handOpened doors open on Use; the others only open from a terminal.
	handOpened bool
	afterClose func(d *Door)
}

var doorKinds = map[DoorKind]doorParams{
	SimpleDoor: {
		phases:         []int{477, 478, 479, 480, 0},
		animationDelay: baseDelay,
		openedDelay:    shortOpen,
		openSound:      doorSound,
		closeSound:     doorSound,
		handOpened:     true,
	},
	SmartDoor: {
		phases:         []int{401, 402, 403, 404, 0},
		animationDelay: baseDelay,
		openedDelay:    mediumOpen,
		openSound:      doorSound,
		closeSound:     doorSound,
		afterClose:     releaseTerminal,
	},
	ArmoredDoor: {
		phases:         []int{421, 422, 423, 424, 0},
		animationDelay: baseDelay,
		openedDelay:    mediumOpen,
		openSound:      doorSound,
		closeSound:     doorSound,
		afterClose:     releaseTerminal,
	},
	GateDoor: {
		phases:         []int{410, 411, 412, 413, 414, 0},
		animationDelay: gateDelay,
		openedDelay:    longOpen,
		openSound:      gateSound,
		closeSound:     gateSound,
		afterClose:     unblockGatePair,
	},
}

func releaseTerminal(d *Door) {
	if t := d.reg.Terminal(d.terminal); t != nil {
		t.SetClosed()
	}
}

func unblockGatePair(d *Door) {
	if t := d.reg.Terminal(d.terminal); t != nil {
		t.ToggleWholePairBlock(false)
	}
}

type animMode int

const (
	animIdle animMode = iota
	animOpening
	animWaiting
	animClosing
)

func (m animMode) String() string {
	switch m {
	case animOpening:
		return "opening"
	case animWaiting:
		return "waiting"
	case animClosing:
		return "closing"
	}
	return "idle"
}

// anim is the door animation state advanced by the scheduler.
type anim struct {
	mode  animMode
	phase int
}

type doorArgs struct {
	Description string   `json:"description"`
	OpenedDelay *float64 `json:"opened_delay"`
	Terminal    int      `json:"terminal"`
	Automatics  int      `json:"automatics"`
}

// Door is an animated door. The kind selects phases, timing, sounds and
// what happens after it closes.
type Door struct {
	base
	kind        DoorKind
	params      doorParams
	openedDelay time.Duration
	terminal    int
	automatics  int
	anim        anim
}

func doorConstructor(kind DoorKind) constructor {
	return func(b base, raw json.RawMessage) (Object, error) {
		var args doorArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		params := doorKinds[kind]
		d := &Door{
			base:        b,
			kind:        kind,
			params:      params,
			openedDelay: params.openedDelay,
			terminal:    args.Terminal,
			automatics:  args.Automatics,
		}
		if args.OpenedDelay != nil {
			d.openedDelay = seconds(*args.OpenedDelay)
		}
		d.state = Closed
		d.actions = NewActionSet(Force, Use)
		if err := d.setup(d, args.Description); err != nil {
			return nil, err
		}
		return d, nil
	}
}

// Kind returns the door variant.
func (d *Door) Kind() DoorKind { return d.kind }

// Terminal returns the index of the linked terminal, 0 if none.
func (d *Door) Terminal() int { return d.terminal }

// Phase returns the animation mode name and the current phase index.
func (d *Door) Phase() (string, int) { return d.anim.mode.String(), d.anim.phase }

// Phases returns the door tiles from closed to open.
func (d *Door) Phases() []int {
	return append([]int(nil), d.params.phases...)
}

// AnimationDelay is the time between two animation phases.
func (d *Door) AnimationDelay() time.Duration { return d.params.animationDelay }

// OpenedDelay is how long the door stays open before trying to close.
func (d *Door) OpenedDelay() time.Duration { return d.openedDelay }

func (d *Door) TilesUsed() []int { return d.Phases() }

func (d *Door) Sounds() []string {
	return []string{d.params.openSound, d.params.closeSound, hitSound, stopSound}
}

func (d *Door) ActForce() {
	if d.actions.Has(Force) {
		d.say("senseless_hit", events.Info, true)
		d.play(hitSound)
	}
}

func (d *Door) ActUse() {
	if !d.actions.Has(Use) || d.state != Closed {
		return
	}
	if d.params.handOpened {
		d.Open()
		return
	}
	d.say("senseless_use", events.Info, true)
}

// Open starts the opening animation. It does nothing unless the door is
// closed and idle.
func (d *Door) Open() {
	if d.state != Closed || d.anim.mode != animIdle {
		return
	}
	d.say("opening", events.Info, true)
	d.play(d.params.openSound)
	d.actions = 0
	d.updateActions()
	d.state = Opened
	d.anim = anim{mode: animOpening}
	d.log().Debug("door opening")
	d.reg.RunAfter(d, d.params.animationDelay)
}

// Run implements schedule.Task.
func (d *Door) Run(now time.Duration) {
	d.Advance(now)
}

// Advance moves the animation one step. An idle door ignores it.
func (d *Door) Advance(now time.Duration) {
	last := len(d.params.phases) - 1
	switch d.anim.mode {
	case animOpening:
		d.anim.phase++
		if d.anim.phase > last {
			d.anim = anim{mode: animWaiting, phase: last}
			d.reg.RunAfter(d, d.openedDelay)
			return
		}
		var walkable *bool
		if d.anim.phase == last {
			walkable = boolPtr(true)
		}
		d.changeTile(d.params.phases[d.anim.phase], walkable)
		d.reg.RunAfter(d, d.params.animationDelay)

	case animWaiting:
		if d.env().Occupancy.IsRectOccupied(d.cellRect()) {
			d.play(stopSound)
			d.log().WithField("now", now).Debug("doorway occupied")
			d.reg.RunAfter(d, d.openedDelay)
			return
		}
		d.play(d.params.closeSound)
		d.anim = anim{mode: animClosing, phase: last}
		d.Advance(now)

	case animClosing:
		d.anim.phase--
		if d.anim.phase >= 0 {
			var walkable *bool
			if d.anim.phase == last-1 {
				walkable = boolPtr(false)
			}
			d.changeTile(d.params.phases[d.anim.phase], walkable)
			d.reg.RunAfter(d, d.params.animationDelay)
			return
		}
		d.anim = anim{}
		d.actions = NewActionSet(Force, Use)
		d.state = Closed
		d.updateActions()
		d.log().WithFields(logrus.Fields{"now": now}).Debug("door closed")
		if d.params.afterClose != nil {
			d.params.afterClose(d)
		}
	}
}
