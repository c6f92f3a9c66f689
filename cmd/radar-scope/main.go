package main

import (
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Ace-Sky/internal/config"
	"github.com/Garsondee/Ace-Sky/internal/logging"
	"github.com/Garsondee/Ace-Sky/internal/sim"
)

const (
	simRate    = time.Second / 60
	renderRate = time.Second / 20
)

func main() {
	var configDir string
	var scenario string
	var model string
	var seed int64
	var auto bool
	var logPath string

	flag.StringVar(&configDir, "config", ".", "directory holding ace.{yaml,json,toml}")
	flag.StringVar(&scenario, "scenario", "", "scripted scenario (empty: open range)")
	flag.StringVar(&model, "model", "", "flight model override (kinematic|dynamics)")
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "drone layout seed")
	flag.BoolVar(&auto, "auto", false, "start with the autopilot flying")
	flag.StringVar(&logPath, "log", "", "write logs to this file (the terminal is the display)")
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

	var logFile io.Writer
	if logPath != "" {
		f, err := os.Create(filepath.Clean(logPath))
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logFile = f
	}
	logger := logging.WithSession(logging.New(cfg.LogLevel, io.Discard, logFile), cfg.Flight.Model, time.Now())

	world := sim.NewWorld()
	world.Camera = sim.NewCameraRig()
	var pilot *sim.Autopilot
	if scenario != "" {
		sc, ok := sim.ScenarioByName(scenario)
		if !ok {
			fmt.Fprintf(os.Stderr, "error: unsupported scenario %q (supported: %s)\n", scenario, strings.Join(sim.ScenarioNames(), ", "))
			os.Exit(1)
		}
		// The harness only places the player and drones; the scope runs
		// its own Sim over that world.
		world = sim.NewTestSim(sc.Options(seed)...).World
		pilot = sc.Autopilot(simRate.Seconds())
	} else {
		sim.PopulateRange(world, rand.New(rand.NewSource(seed))) // #nosec G404 -- drone layout only
		pilot = sim.NewAutopilot(simRate.Seconds(),
			sim.ManeuverCruise, sim.ManeuverBankL, sim.ManeuverCruise, sim.ManeuverBankR)
		pilot.FireEvery = 2
		pilot.LockOnFire = true
	}
	fm, _ := sim.NewFlightModel(cfg.Flight.Model, cfg.Flight.Tuning)

	s, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v", err)
		os.Exit(1)
	}
	if err := s.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v", err)
		os.Exit(1)
	}
	s.SetStyle(styleDefault)
	defer s.Fini()

	scope := NewScope(s, world, fm, pilot, logger)
	scope.autopilot = auto
	run(scope, s)
	logger.Info().Int("frames", scope.sim.Frame()).Msg("scope closed")
}

// run drives the scope until quit. Events are read on their own goroutine
// and handed to the loop over a channel; Tick, Render and HandleKey all run
// on the calling goroutine.
func run(scope *Scope, s tcell.Screen) {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go func() {
		for {
			ev := s.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	simTicker := time.NewTicker(simRate)
	renderTicker := time.NewTicker(renderRate)
	defer simTicker.Stop()
	defer renderTicker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				scope.resize()
				s.Sync()
			case *tcell.EventKey:
				if scope.HandleKey(ev) {
					return
				}
			}
		case <-simTicker.C:
			scope.Tick(simRate.Seconds())
		case <-renderTicker.C:
			scope.Render()
		}
	}
}
