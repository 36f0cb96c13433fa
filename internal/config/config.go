// Package config holds the client configuration. It is loaded from a YAML
// file over built-in defaults, so a missing file runs the bundled station.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"chosenoffset.com/stationkeeper/internal/audio"
	"chosenoffset.com/stationkeeper/internal/logger"
)

// Config holds all client settings.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Paths   PathsConfig   `yaml:"paths"`
	Map     MapConfig     `yaml:"map"`
	Player  PlayerConfig  `yaml:"player"`
	Audio   audio.Config  `yaml:"audio"`
	Log     logger.Config `yaml:"log"`
	Locale  string        `yaml:"locale"`
}

// DisplayConfig sets up the window.
type DisplayConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Scale  int    `yaml:"scale"` // tile zoom, 1 or 2
	TPS    int    `yaml:"tps"`   // game ticks per second
	Title  string `yaml:"title"`
}

// PathsConfig locates the game data. Relative paths are resolved against
// DataDir.
type PathsConfig struct {
	DataDir   string `yaml:"data_dir"`
	Map       string `yaml:"map"`
	Tileset   string `yaml:"tileset"`
	Objects   string `yaml:"objects"`
	TextDir   string `yaml:"text_dir"`
	SoundsDir string `yaml:"sounds_dir"`
	Insets    string `yaml:"insets"` // optional override of the built-in table
	Character string `yaml:"character"`
}

// MapConfig controls how the map file is read.
type MapConfig struct {
	StoppableFloor   []int `yaml:"stoppable_floor"`
	MarksLayerOffset int   `yaml:"marks_layer_offset"`
}

// PlayerConfig sets up the player.
type PlayerConfig struct {
	Speed       int      `yaml:"speed"`
	AccessCodes []string `yaml:"access_codes"`
}

// Default returns the settings of the bundled station.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Width:  800,
			Height: 600,
			Scale:  1,
			TPS:    60,
			Title:  "Station Keeper",
		},
		Paths: PathsConfig{
			DataDir:   "data",
			Map:       "maps/station.json",
			Tileset:   "images/tileset.png",
			Objects:   "maps/objects.json",
			TextDir:   "text",
			SoundsDir: "sounds",
			Character: "images/character.png",
		},
		Map: MapConfig{
			StoppableFloor:   []int{2, 3},
			MarksLayerOffset: 1280,
		},
		Player: PlayerConfig{
			Speed: 2,
		},
		Audio: audio.Config{
			Enabled:    true,
			SampleRate: 44100,
			CacheMB:    16,
		},
		Log: logger.Config{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
		Locale: "eng",
	}
}

// Load reads path over the defaults. A missing file returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the client cannot run with.
func (c *Config) Validate() error {
	d := c.Display
	if d.Scale != 1 && d.Scale != 2 {
		return fmt.Errorf("display.scale must be 1 or 2, got %d", d.Scale)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("display size must be positive, got %dx%d", d.Width, d.Height)
	}
	if d.TPS <= 0 {
		return fmt.Errorf("display.tps must be positive, got %d", d.TPS)
	}
	if c.Player.Speed <= 0 {
		return fmt.Errorf("player.speed must be positive, got %d", c.Player.Speed)
	}
	if c.Map.MarksLayerOffset < 0 {
		return fmt.Errorf("map.marks_layer_offset must not be negative, got %d", c.Map.MarksLayerOffset)
	}
	if c.Locale == "" {
		return errors.New("locale must be set")
	}
	return nil
}

// Path resolves a data path against DataDir. Absolute and empty paths are
// returned as they are.
func (c *Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.DataDir, p)
}

// StoppableFloor returns the stoppable floor tiles as a set.
func (c *Config) StoppableFloor() map[int]bool {
	set := make(map[int]bool, len(c.Map.StoppableFloor))
	for _, t := range c.Map.StoppableFloor {
		set[t] = true
	}
	return set
}

// AudioConfig returns the audio settings with the sound directory resolved.
func (c *Config) AudioConfig() audio.Config {
	a := c.Audio
	a.Dir = c.Path(c.Paths.SoundsDir)
	return a
}
