package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"chosenoffset.com/stationkeeper/internal/audio"
	"chosenoffset.com/stationkeeper/internal/config"
	"chosenoffset.com/stationkeeper/internal/game"
	"chosenoffset.com/stationkeeper/internal/logger"
	"chosenoffset.com/stationkeeper/internal/render"
	ebitenrender "chosenoffset.com/stationkeeper/internal/render/ebiten"
)

func main() {
	// an optional .env may set LOG_LEVEL and STATIONKEEPER_CONFIG
	_ = godotenv.Load()

	defaultConfig := "config.yaml"
	if p := os.Getenv("STATIONKEEPER_CONFIG"); p != "" {
		defaultConfig = p
	}
	configPath := flag.String("config", defaultConfig, "path to the YAML config")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	if err := run(*configPath, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if debug {
		cfg.Log.Level = "debug"
		os.Unsetenv("LOG_LEVEL")
	}
	log, err := logger.New(cfg.Log)
	if err != nil {
		return err
	}

	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	loader := ebitenrender.NewResourceLoader()
	engine := ebitenrender.NewEngine()

	sounds, err := startAudio(cfg, log)
	if err != nil {
		return err
	}
	if lib, ok := sounds.(*audio.Library); ok {
		defer lib.Close()
	}

	world, err := game.LoadWorld(cfg, renderer, loader, sounds, log)
	if err != nil {
		log.WithError(err).Error("failed to load station")
		return err
	}
	if lib, ok := sounds.(*audio.Library); ok {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := lib.Preload(ctx, world.Objects.Sounds()); err != nil {
			log.WithError(err).Warn("some sounds failed to load")
		}
		cancel()
	}

	g, err := game.New(world, renderer, inputMgr, game.Options{
		ScreenWidth:  cfg.Display.Width,
		ScreenHeight: cfg.Display.Height,
		Scale:        cfg.Display.Scale,
		TPS:          cfg.Display.TPS,
	}, log)
	if err != nil {
		return err
	}

	engine.SetWindowSize(cfg.Display.Width, cfg.Display.Height)
	engine.SetWindowTitle(cfg.Display.Title)
	engine.SetTPS(cfg.Display.TPS)

	log.WithFields(logrus.Fields{
		"width":  cfg.Display.Width,
		"height": cfg.Display.Height,
		"scale":  cfg.Display.Scale,
	}).Info("starting game")
	if err := engine.RunGame(g); err != nil && !errors.Is(err, render.ErrTerminated) {
		return err
	}
	log.Info("bye")
	return nil
}

// startAudio opens the speaker. Without a working audio device the game
// runs silent.
func startAudio(cfg *config.Config, log logrus.FieldLogger) (audio.Player, error) {
	if !cfg.Audio.Enabled {
		return audio.Silent{}, nil
	}
	lib, err := audio.NewLibrary(cfg.AudioConfig(), log)
	if err != nil {
		return nil, err
	}
	if err := lib.Start(); err != nil {
		log.WithError(err).Warn("audio disabled")
		lib.Close()
		return audio.Silent{}, nil
	}
	return lib, nil
}
