package game

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"chosenoffset.com/stationkeeper/internal/audio"
	"chosenoffset.com/stationkeeper/internal/chars"
	"chosenoffset.com/stationkeeper/internal/config"
	"chosenoffset.com/stationkeeper/internal/events"
	"chosenoffset.com/stationkeeper/internal/inventory"
	"chosenoffset.com/stationkeeper/internal/logger"
	"chosenoffset.com/stationkeeper/internal/objects"
	"chosenoffset.com/stationkeeper/internal/render"
	"chosenoffset.com/stationkeeper/internal/world/atlas"
	"chosenoffset.com/stationkeeper/internal/world/collision"
	"chosenoffset.com/stationkeeper/internal/world/gamemap"
	"chosenoffset.com/stationkeeper/internal/world/insets"
	"chosenoffset.com/stationkeeper/internal/world/layer"
	"chosenoffset.com/stationkeeper/internal/world/maploader"
)

// ErrNoSpawn is returned for a map without a walkable cell.
var ErrNoSpawn = errors.New("map has no walkable cell to spawn on")

// ErrSpeedTooHigh is returned when the player step is not smaller than one
// cell. Collision only scans the cells next to the player.
var ErrSpeedTooHigh = errors.New("player speed must be smaller than one cell")

// World is a loaded station: the map, its objects and the player.
type World struct {
	Map     *gamemap.Map
	Objects *objects.Registry
	Player  *chars.Player
	Chars   *chars.Registry
	Events  *events.Queue
	Keys    *inventory.Inventory
}

// mapTiles forwards object tile changes to the map once it is built.
type mapTiles struct {
	m *gamemap.Map
}

func (t *mapTiles) ChangeTile(kind layer.Kind, x, y, tile int, walkable *bool) {
	if t.m != nil {
		t.m.ChangeTile(kind, x, y, tile, walkable)
	}
}

// LoadWorld reads the map, the object config, the locale text and the
// tilesets named by cfg. Any failure is fatal.
func LoadWorld(cfg *config.Config, r render.Renderer, loader render.ResourceLoader, sounds audio.Player, log logrus.FieldLogger) (*World, error) {
	log = logger.OrDiscard(log)
	scale := cfg.Display.Scale

	md, err := maploader.LoadMap(cfg.Path(cfg.Paths.Map))
	if err != nil {
		return nil, err
	}
	if cell := md.TileHeight * scale; cfg.Player.Speed >= cell {
		return nil, fmt.Errorf("%w: speed %d, cell %d", ErrSpeedTooHigh, cfg.Player.Speed, cell)
	}
	marks, err := md.Marks(cfg.Map.MarksLayerOffset)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", cfg.Paths.Map, err)
	}
	text, err := objects.LoadLocale(cfg.Path(cfg.Paths.TextDir), cfg.Locale)
	if err != nil {
		return nil, err
	}

	w := &World{
		Chars:  chars.NewRegistry(),
		Events: events.NewQueue(),
		Keys:   inventory.WithAccess(cfg.Player.AccessCodes...),
	}
	tiles := &mapTiles{}
	w.Objects, err = objects.Load(cfg.Path(cfg.Paths.Objects), objects.Env{
		Sounds:    sounds,
		Tiles:     tiles,
		Occupancy: w.Chars,
		Events:    w.Events,
		Keys:      w.Keys,
		Text:      text,
		CellSize:  md.TileHeight * scale,
		Log:       log,
	})
	if err != nil {
		return nil, err
	}

	used := md.TilesUsed()
	for t := range w.Objects.TilesUsed() {
		used[t] = true
	}
	at, err := atlas.Load(r, loader, cfg.Path(cfg.Paths.Tileset), atlas.Options{
		TileSize: md.TileHeight,
		Scale:    scale,
		Used:     used,
	})
	if err != nil {
		return nil, err
	}
	table, err := insets.Load(cfg.Path(cfg.Paths.Insets))
	if err != nil {
		return nil, err
	}

	w.Map, err = gamemap.New(md, at, layer.Options{
		Insets:         table,
		StoppableFloor: cfg.StoppableFloor(),
	}, log)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", cfg.Paths.Map, err)
	}
	tiles.m = w.Map
	if err := w.Objects.Link(marks, w.Map.Objects); err != nil {
		return nil, fmt.Errorf("map %s: %w", cfg.Paths.Map, err)
	}

	spawn, ok := w.Map.FirstWalkable()
	if !ok {
		return nil, ErrNoSpawn
	}
	var sheet *chars.Sheet
	if cfg.Paths.Character != "" {
		sheet, err = chars.LoadSheet(r, loader, cfg.Path(cfg.Paths.Character), scale)
		if err != nil {
			return nil, err
		}
	}
	w.Player = chars.NewPlayer(spawn, sheet, scale, collision.New(w.Map), w.Events, log)
	w.Player.SetSpeed(cfg.Player.Speed)
	w.Chars.Add(w.Player)

	log.WithFields(logrus.Fields{
		"map":     cfg.Paths.Map,
		"objects": w.Objects.Len(),
		"tiles":   len(used),
		"spawn":   spawn,
		"locale":  text.Name(),
	}).Info("station loaded")
	return w, nil
}
