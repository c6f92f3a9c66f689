package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Garsondee/Ace-Sky/internal/audio"
	"github.com/Garsondee/Ace-Sky/internal/config"
	"github.com/Garsondee/Ace-Sky/internal/game"
	"github.com/Garsondee/Ace-Sky/internal/logging"
	"github.com/Garsondee/Ace-Sky/internal/sim"
	"github.com/Garsondee/Ace-Sky/internal/telemetry"
)

const cueVolume = 0.6

func main() {
	var configDir string
	var model string
	var demo bool
	var seed int64
	var mute bool
	var telemetryPath string

	flag.StringVar(&configDir, "config", ".", "directory holding ace.{yaml,json,toml}")
	flag.StringVar(&model, "model", "", "flight model override (kinematic|dynamics)")
	flag.BoolVar(&demo, "demo", false, "let the autopilot fly")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "drone layout seed")
	flag.BoolVar(&mute, "mute", false, "disable audio cues")
	flag.StringVar(&telemetryPath, "telemetry", "", "record frames to this msgpack file")
	flag.Parse()

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if model != "" {
		cfg.Flight.Model = model
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}
	if telemetryPath != "" {
		cfg.Telemetry.Path = telemetryPath
	}

	start := time.Now()
	var logFile io.Writer
	if cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0o750); err != nil {
			fmt.Fprintf(os.Stderr, "error: logs dir: %v\n", err)
			os.Exit(1)
		}
		f, err := os.Create(filepath.Clean(logging.LogFilePath(cfg.LogsDir, "ace-sky", start)))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logFile = f
	}
	logger := logging.WithSession(logging.New(cfg.LogLevel, os.Stderr, logFile), cfg.Flight.Model, start)
	if cfg.File != "" {
		logger.Info().Str("file", cfg.File).Msg("config loaded")
	}

	fm, _ := sim.NewFlightModel(cfg.Flight.Model, cfg.Flight.Tuning)

	var player *audio.Player
	if cfg.Audio.Enabled && !mute {
		player = audio.NewPlayer(logger, cueVolume)
		// Init logs its own failure; the player then counts cues silently.
		_ = player.Init()
	}

	var rec *telemetry.Recorder
	if cfg.Telemetry.Path != "" {
		f, err := os.Create(filepath.Clean(cfg.Telemetry.Path))
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.Telemetry.Path).Msg("telemetry file")
		}
		defer f.Close()
		rec = telemetry.NewRecorder(f)
	}

	g := game.New(game.Options{
		Width:    cfg.Window.Width,
		Height:   cfg.Window.Height,
		Flight:   fm,
		Logger:   logger,
		Audio:    player,
		Recorder: rec,
		Seed:     seed,
		Demo:     demo,
	})

	ebiten.SetWindowTitle("Ace Sky")
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	runErr := ebiten.RunGame(g)
	if err := g.Close(); err != nil {
		logger.Error().Err(err).Msg("shutdown")
	}
	if rec != nil {
		logger.Info().Int("frames", rec.Frames()).Str("path", cfg.Telemetry.Path).Msg("telemetry written")
	}
	if runErr != nil {
		logger.Fatal().Err(runErr).Msg("game exited")
	}
}
