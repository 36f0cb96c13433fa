package objects

import (
	"encoding/json"
	"time"

	"chosenoffset.com/stationkeeper/internal/events"
)

// TerminalKind selects the terminal variant.
type TerminalKind int

const (
	DoorTerminal TerminalKind = iota
	GateTerminal
)

const (
	accessedSound = "door_terminal_accessed.wav"
	deniedSound   = "door_terminal_denied.wav"
	wallHitSound  = "metal_wall_hit.wav"

	gateReadyTile = 408
	gateBusyTile  = 409

	defaultOpenDelay = 0.5
)

type terminalArgs struct {
	Description  string   `json:"description"`
	Door         int      `json:"door"`
	Code         string   `json:"code"`
	FreeAccess   *bool    `json:"free_access"`
	Delay        *float64 `json:"delay"`
	PairTerminal int      `json:"pair_terminal"`
}

// Terminal opens its door when used by a player with access. Gate terminals
// come in pairs and block both ends while the gate is moving.
type Terminal struct {
	base
	kind       TerminalKind
	door       int
	code       string
	freeAccess bool
	delay      time.Duration
	pair       int
}

func terminalConstructor(kind TerminalKind) constructor {
	return func(b base, raw json.RawMessage) (Object, error) {
		args := terminalArgs{}
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		t := &Terminal{
			base:       b,
			kind:       kind,
			door:       args.Door,
			code:       args.Code,
			freeAccess: true,
			delay:      seconds(defaultOpenDelay),
		}
		if args.FreeAccess != nil {
			t.freeAccess = *args.FreeAccess
		}
		if args.Delay != nil {
			t.delay = seconds(*args.Delay)
		}
		if kind == GateTerminal {
			t.pair = args.PairTerminal
		}
		t.state = Closed
		t.actions = NewActionSet(Force, Use)
		if err := t.setup(t, args.Description); err != nil {
			return nil, err
		}
		return t, nil
	}
}

// Kind returns the terminal variant.
func (t *Terminal) Kind() TerminalKind { return t.kind }

// Door returns the index of the controlled door.
func (t *Terminal) Door() int { return t.door }

// Pair returns the index of the paired gate terminal, 0 if none.
func (t *Terminal) Pair() int { return t.pair }

func (t *Terminal) TilesUsed() []int {
	if t.kind == GateTerminal {
		return []int{gateReadyTile, gateBusyTile}
	}
	return nil
}

func (t *Terminal) Sounds() []string {
	return []string{accessedSound, deniedSound, wallHitSound}
}

func (t *Terminal) ActForce() {
	if t.actions.Has(Force) {
		t.say("senseless_hit", events.Info, true)
		t.play(wallHitSound)
	}
}

func (t *Terminal) ActUse() {
	if !t.actions.Has(Use) {
		return
	}
	if !t.hasAccess() {
		t.deny("access_denied")
		return
	}
	if t.kind == GateTerminal {
		t.useGate()
		return
	}
	t.play(accessedSound)
	door := t.reg.Door(t.door)
	if door != nil && door.State() == Closed && t.state == Closed {
		t.say("successful_use", events.Success, false)
		t.state = Opened
		t.openDoor(door)
	}
}

func (t *Terminal) useGate() {
	switch t.state {
	case Blocked:
		t.deny("please_wait")
	case Opened:
		t.play(accessedSound)
	case Closed:
		t.play(accessedSound)
		door := t.reg.Door(t.door)
		if door != nil && door.State() == Closed {
			t.say("successful_use", events.Success, false)
			t.state = Opened
			t.ToggleWholePairBlock(true)
			t.openDoor(door)
		}
	}
}

func (t *Terminal) deny(key string) {
	t.say(key, events.Warning, false)
	t.play(deniedSound)
}

func (t *Terminal) openDoor(door *Door) {
	if t.delay <= 0 {
		door.Open()
		return
	}
	t.reg.RunAfter(openTask{door: door}, t.delay)
}

// openTask opens a door once the terminal delay has passed.
type openTask struct {
	door *Door
}

func (o openTask) Run(time.Duration) { o.door.Open() }

func (t *Terminal) hasAccess() bool {
	return t.freeAccess || t.env().Keys.HasAccess(t.code)
}

// SetClosed marks the door as closed again so the terminal can be reused.
func (t *Terminal) SetClosed() {
	t.state = Closed
}

// ToggleBlock blocks or releases a gate terminal and shows it on its tile.
func (t *Terminal) ToggleBlock(blocked bool) {
	tile := gateReadyTile
	t.state = Closed
	if blocked {
		tile = gateBusyTile
		t.state = Blocked
	}
	t.changeTile(tile, nil)
}

// ToggleWholePairBlock blocks or releases this terminal and its pair.
func (t *Terminal) ToggleWholePairBlock(blocked bool) {
	t.ToggleBlock(blocked)
	if p := t.reg.Terminal(t.pair); p != nil {
		p.ToggleBlock(blocked)
	}
}
