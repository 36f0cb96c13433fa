package objects

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/stationkeeper/internal/audio"
	"chosenoffset.com/stationkeeper/internal/events"
	"chosenoffset.com/stationkeeper/internal/logger"
	"chosenoffset.com/stationkeeper/internal/schedule"
	"chosenoffset.com/stationkeeper/internal/world/layer"
)

// ErrUnknownClass is returned for an object class missing from the type table.
var ErrUnknownClass = errors.New("unknown object class")

// Entry is one configured object.
type Entry struct {
	Class string          `json:"class"`
	Args  json.RawMessage `json:"args"`
}

type constructor func(b base, args json.RawMessage) (Object, error)

var classes = map[string]constructor{
	"simple_door":        doorConstructor(SimpleDoor),
	"smart_door":         doorConstructor(SmartDoor),
	"smart_armored_door": doorConstructor(ArmoredDoor),
	"gate_door":          doorConstructor(GateDoor),
	"door_terminal":      terminalConstructor(DoorTerminal),
	"gate_terminal":      terminalConstructor(GateTerminal),
	"blue_metal_locker":  lockerConstructor(MetalLocker),
	"wooden_locker":      lockerConstructor(WoodenLocker),
}

// Classes returns the known class names, sorted.
func Classes() []string {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Registry owns every map object and the scheduler that drives them.
type Registry struct {
	env     Env
	objects map[int]Object
	sched   *schedule.Scheduler
	log     logrus.FieldLogger
}

// Load reads the object configuration file and builds every object.
func Load(path string, env Env) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read objects config %s: %w", path, err)
	}
	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse objects config %s: %w", path, err)
	}
	return NewRegistry(raw, env)
}

// NewRegistry builds the objects of cfg, keyed by decimal object index.
// Any failure aborts the whole build.
func NewRegistry(cfg map[string]Entry, env Env) (*Registry, error) {
	if env.Events == nil {
		env.Events = events.NewQueue()
	}
	if env.Sounds == nil {
		env.Sounds = audio.Silent{}
	}
	if env.Tiles == nil {
		env.Tiles = noTiles{}
	}
	if env.Occupancy == nil {
		env.Occupancy = nobody{}
	}
	r := &Registry{
		env:     env,
		objects: make(map[int]Object, len(cfg)),
		sched:   schedule.New(),
		log:     logger.OrDiscard(env.Log).WithField("component", "objects"),
	}

	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		entry := cfg[key]
		index, err := strconv.Atoi(key)
		if err != nil || index <= 0 {
			return nil, fmt.Errorf("error creating object %q (%s): bad index", key, entry.Class)
		}
		ctor, ok := classes[entry.Class]
		if !ok {
			return nil, fmt.Errorf("error creating object #%d (%s): %w", index, entry.Class, ErrUnknownClass)
		}
		obj, err := ctor(base{index: index, class: entry.Class, reg: r}, entry.Args)
		if err != nil {
			return nil, fmt.Errorf("error creating object #%d (%s): %w", index, entry.Class, err)
		}
		r.objects[index] = obj
	}

	r.log.WithField("objects", len(r.objects)).Debug("objects created")
	return r, nil
}

// Object returns the object with the given index, or nil.
func (r *Registry) Object(index int) Object {
	return r.objects[index]
}

// Door returns the door with the given index, or nil.
func (r *Registry) Door(index int) *Door {
	d, _ := r.objects[index].(*Door)
	return d
}

// Terminal returns the terminal with the given index, or nil.
func (r *Registry) Terminal(index int) *Terminal {
	t, _ := r.objects[index].(*Terminal)
	return t
}

// Objects returns every object ordered by index.
func (r *Registry) Objects() []Object {
	out := make([]Object, 0, len(r.objects))
	for _, o := range r.objects {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}

// Len returns the number of objects.
func (r *Registry) Len() int {
	return len(r.objects)
}

// TilesUsed returns the union of the tiles every object may display.
func (r *Registry) TilesUsed() map[int]bool {
	used := make(map[int]bool)
	for _, o := range r.objects {
		for _, t := range o.TilesUsed() {
			if t > 0 {
				used[t] = true
			}
		}
	}
	return used
}

// Sounds returns every sound any object may play, sorted and unique.
func (r *Registry) Sounds() []string {
	seen := make(map[string]bool)
	var out []string
	for _, o := range r.objects {
		for _, s := range o.Sounds() {
			if s != "" && !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Link binds every map marker to its object: the object gets the marker
// coordinates and the object-layer cell gets the object.
func (r *Registry) Link(marks map[image.Point]int, grid *layer.Grid) error {
	if grid.Kind() != layer.Objects {
		return fmt.Errorf("objects can only be linked to the %s layer, got %s", layer.Objects, grid.Kind())
	}
	for p, index := range marks {
		obj := r.objects[index]
		if obj == nil {
			return fmt.Errorf("map marker at %v refers to object #%d which is not configured", p, index)
		}
		cell := grid.Cell(p.X, p.Y)
		if cell == nil {
			return fmt.Errorf("map marker for object #%d at %v is outside the map", index, p)
		}
		obj.SetCoords(p)
		cell.Object = obj
	}
	r.log.WithField("markers", len(marks)).Debug("objects linked")
	return nil
}

// Events returns the queue objects push UI signals to.
func (r *Registry) Events() *events.Queue {
	return r.env.Events
}

// Scheduler returns the scheduler driving object timers.
func (r *Registry) Scheduler() *schedule.Scheduler {
	return r.sched
}

// RunAfter schedules task d after the current game time.
func (r *Registry) RunAfter(task schedule.Task, d time.Duration) {
	r.sched.RunAfter(task, d)
}

// Update runs every object timer due at now.
func (r *Registry) Update(now time.Duration) (int, error) {
	n, err := r.sched.Update(now)
	if n > 0 {
		r.log.WithFields(logrus.Fields{"fired": n, "now": now}).Trace("object timers fired")
	}
	return n, err
}

type noTiles struct{}

func (noTiles) ChangeTile(layer.Kind, int, int, int, *bool) {}

type nobody struct{}

func (nobody) IsRectOccupied(image.Rectangle) bool { return false }
