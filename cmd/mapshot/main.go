// Command mapshot renders the station around a point into a PNG without
// opening a window.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/stationkeeper/internal/config"
	"chosenoffset.com/stationkeeper/internal/game"
	"chosenoffset.com/stationkeeper/internal/logger"
	"chosenoffset.com/stationkeeper/internal/placeholders"
	"chosenoffset.com/stationkeeper/internal/render/software"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to the YAML config")
	out := flag.String("out", "mapshot.png", "output PNG")
	x := flag.Int("x", -1, "camera x in world pixels, default is the player")
	y := flag.Int("y", -1, "camera y in world pixels, default is the player")
	width := flag.Int("w", 0, "image width, default is the configured screen")
	height := flag.Int("h", 0, "image height, default is the configured screen")
	withPlayer := flag.Bool("player", true, "draw the player")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *width > 0 {
		cfg.Display.Width = *width
	}
	if *height > 0 {
		cfg.Display.Height = *height
	}

	if err := shoot(cfg, *out, image.Pt(*x, *y), *withPlayer, log); err != nil {
		log.WithError(err).Error("mapshot failed")
		os.Exit(1)
	}
}

func shoot(cfg *config.Config, out string, camera image.Point, withPlayer bool, log logrus.FieldLogger) error {
	r := software.NewRenderer()
	world, err := game.LoadWorld(cfg, r, software.NewLoader(), nil, log)
	if err != nil {
		return err
	}
	w, h := cfg.Display.Width, cfg.Display.Height
	if err := world.Map.AttachCache(r, w, h); err != nil {
		return err
	}

	if camera.X < 0 || camera.Y < 0 {
		camera = world.Player.Camera()
	}
	screen := r.NewImage(w, h)
	if err := world.Map.Draw(screen, camera); err != nil {
		return err
	}
	if withPlayer && camera == world.Player.Camera() {
		world.Player.Draw(screen)
	}
	world.Map.DrawTop(screen, camera)

	if err := placeholders.SavePNG(screen.(*software.Image).RGBA(), out); err != nil {
		return fmt.Errorf("failed to save %s: %w", out, err)
	}
	log.WithFields(logrus.Fields{"out": out, "camera": camera}).Info("map rendered")
	return nil
}
