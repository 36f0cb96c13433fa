package objects

import (
	"encoding/json"
	"fmt"

	"chosenoffset.com/stationkeeper/internal/events"
	"chosenoffset.com/stationkeeper/internal/inventory"
)

// LockerKind selects the locker variant.
type LockerKind int

const (
	MetalLocker LockerKind = iota
	WoodenLocker
)

var lockerSizes = map[LockerKind]inventory.Size{
	MetalLocker:  {W: 2, H: 4},
	WoodenLocker: {W: 2, H: 3},
}

type lockerArgs struct {
	Description string            `json:"description"`
	OpenSound   string            `json:"open_sound"`
	CloseSound  string            `json:"close_sound"`
	BreakSound  string            `json:"break_sound"`
	Locked      bool              `json:"locked"`
	BrokenTile  int               `json:"broken_tile"`
	Items       []*inventory.Item `json:"items"`
}

// Storer is an object with a storage interface.
type Storer interface {
	Object
	Storage() *inventory.Storage
	IsOpened() bool
	OpenInterface()
	CloseInterface()
}

// Locker is a storage object. A metal locker may start locked; forcing it
// breaks the lock for good.
type Locker struct {
	base
	kind       LockerKind
	storage    *inventory.Storage
	openSound  string
	closeSound string
	breakSound string
	brokenTile int
	opened     bool
}

var _ Storer = (*Locker)(nil)

func lockerConstructor(kind LockerKind) constructor {
	return func(b base, raw json.RawMessage) (Object, error) {
		var args lockerArgs
		if err := decodeArgs(raw, &args); err != nil {
			return nil, err
		}
		size := lockerSizes[kind]
		l := &Locker{
			base:       b,
			kind:       kind,
			storage:    inventory.NewStorage(size.W, size.H),
			openSound:  args.OpenSound,
			closeSound: args.CloseSound,
		}
		if kind == MetalLocker {
			l.breakSound = args.BreakSound
			if l.breakSound == "" {
				l.breakSound = wallHitSound
			}
			l.brokenTile = args.BrokenTile
			if args.Locked {
				l.state = Locked
			}
		}
		for _, item := range args.Items {
			if _, ok := l.storage.Add(item); !ok {
				return nil, fmt.Errorf("item %s does not fit in the locker", item.Name)
			}
		}
		l.actions = NewActionSet(Force, Use)
		if err := l.setup(l, args.Description); err != nil {
			return nil, err
		}
		return l, nil
	}
}

// Kind returns the locker variant.
func (l *Locker) Kind() LockerKind { return l.kind }

// Storage returns the locker contents.
func (l *Locker) Storage() *inventory.Storage { return l.storage }

// IsOpened reports whether the storage interface is shown.
func (l *Locker) IsOpened() bool { return l.opened }

func (l *Locker) TilesUsed() []int {
	if l.brokenTile > 0 {
		return []int{l.brokenTile}
	}
	return nil
}

func (l *Locker) Sounds() []string {
	return []string{l.openSound, l.closeSound, l.breakSound}
}

func (l *Locker) ActForce() {
	if !l.actions.Has(Force) {
		return
	}
	if l.state != Locked {
		l.say("senseless_hit", events.Info, true)
		return
	}
	l.state = Broken
	if l.brokenTile > 0 {
		l.changeTile(l.brokenTile, nil)
	}
	l.play(l.breakSound)
	l.say("lock_broken", events.Success, false)
	l.log().Debug("lock broken")
	l.updateActions()
}

func (l *Locker) ActUse() {
	if !l.actions.Has(Use) || l.opened {
		return
	}
	if l.state == Locked {
		l.say("locked", events.Warning, false)
		return
	}
	l.OpenInterface()
}

// OpenInterface shows the storage and hides the action prompt.
func (l *Locker) OpenInterface() {
	if l.opened {
		return
	}
	l.env().Events.Push(events.ShowStorage{Object: l})
	l.env().Events.Push(events.DisableActions{})
	l.opened = true
	l.play(l.openSound)
	l.say("open", events.Info, false)
}

// CloseInterface hides the storage.
func (l *Locker) CloseInterface() {
	if !l.opened {
		return
	}
	l.env().Events.Push(events.HideStorage{})
	l.opened = false
	l.play(l.closeSound)
	l.say("close", events.Info, false)
}
