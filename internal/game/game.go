package game

import (
	"fmt"
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Ace-Sky/internal/audio"
	"github.com/Garsondee/Ace-Sky/internal/sim"
	"github.com/Garsondee/Ace-Sky/internal/telemetry"
)

// frameDT is the fixed simulation step; ebiten calls Update at 60 TPS.
const frameDT = 1.0 / 60

// reportEvery is the reporter sampling interval in frames.
const reportEvery = 30

// Options configures a Game.
type Options struct {
	Width, Height int
	Flight        sim.FlightModel
	Logger        zerolog.Logger
	// Audio and Recorder are optional.
	Audio    *audio.Player
	Recorder *telemetry.Recorder
	Seed     int64
	// Demo hands the stick to the autopilot.
	Demo bool
}

type Game struct {
	opts   Options
	width  int
	height int

	world    *sim.World
	sim      *sim.Sim
	hud      *HUD
	input    inputReader
	events   *EventLog
	reporter *sim.FlightReporter
	sortie   *sim.SortieTracker
	logger   zerolog.Logger

	paused   bool
	showHelp bool
	status   string
	prevKeys map[ebiten.Key]bool
}

func New(opts Options) *Game {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1280, 720
	}
	g := &Game{
		opts:     opts,
		width:    opts.Width,
		height:   opts.Height,
		logger:   opts.Logger,
		showHelp: true,
		prevKeys: make(map[ebiten.Key]bool),
	}
	g.reset()
	return g
}

// reset builds a fresh world, sim and HUD.
func (g *Game) reset() {
	rng := rand.New(rand.NewSource(g.opts.Seed)) // #nosec G404 -- drone layout only
	g.world = sim.NewWorld()
	g.world.Camera = sim.NewCameraRig()
	g.world.Camera.SetViewport(g.viewport())
	sim.PopulateRange(g.world, rng)

	g.hud = NewHUD()
	g.events = NewEventLog()
	g.reporter = sim.NewFlightReporter(0)
	g.sortie = sim.NewSortieTracker()
	g.sim = sim.New(g.world, g.opts.Flight,
		sim.WithLogger(g.logger),
		sim.WithMarkers(g.hud),
	)
	if g.opts.Demo {
		sc, _ := sim.ScenarioByName("orbit")
		w := g.world
		g.input = NewAutopilotInput(sc.Autopilot(frameDT), func() bool {
			return w.Player != nil && w.Player.Target.Valid()
		})
	} else {
		g.input = NewInput()
	}
	g.logger.Info().Int("targets", g.world.Targets.Len()).Bool("demo", g.opts.Demo).Msg("range ready")
}

func (g *Game) viewport() sim.Viewport {
	return sim.Viewport{Width: float64(g.width), Height: float64(g.height)}
}

// Sim exposes the running simulation.
func (g *Game) Sim() *sim.Sim { return g.sim }

func (g *Game) keyEdge(current map[ebiten.Key]bool, k ebiten.Key) bool {
	current[k] = ebiten.IsKeyPressed(k)
	return current[k] && !g.prevKeys[k]
}

func (g *Game) handleKeys() {
	current := map[ebiten.Key]bool{}

	// H: help overlay.
	if g.keyEdge(current, ebiten.KeyH) {
		g.showHelp = !g.showHelp
	}
	// P: pause.
	if g.keyEdge(current, ebiten.KeyP) {
		g.paused = !g.paused
	}
	// R: restart the range.
	if g.keyEdge(current, ebiten.KeyR) {
		g.reset()
		g.status = "range reset"
	}
	// F9: copy a debug report.
	if g.keyEdge(current, ebiten.KeyF9) {
		report := flightDebugReport(g.sim, g.reporter, g.sortie, debugReportFrames)
		if err := copyText(report); err != nil {
			g.logger.Warn().Err(err).Msg("clipboard copy failed")
			g.status = "clipboard unavailable"
		} else {
			g.status = "debug report copied"
		}
	}
	g.prevKeys = current
}

func (g *Game) Update() error {
	g.handleKeys()
	if g.paused {
		return nil
	}

	in := g.input.Poll()
	fire, lock := g.input.Buttons()
	res := g.sim.Step(sim.FrameContext{
		DT:          frameDT,
		Input:       in,
		FirePressed: fire,
		LockPressed: lock,
		Viewport:    g.viewport(),
	})

	g.sortie.Update(g.sim, res)
	g.events.AddAll(res.Events)
	if g.opts.Audio != nil {
		g.opts.Audio.Handle(res.Events)
	}
	if res.Frame%reportEvery == 0 {
		g.reporter.Collect(g.sim)
	}
	if g.opts.Recorder != nil {
		if err := g.opts.Recorder.Record(g.sim, res); err != nil {
			g.logger.Error().Err(err).Msg("telemetry disabled")
			g.opts.Recorder = nil
		}
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawWorld(screen, g.world)
	g.hud.Draw(screen, g.world, g.sim.Tactical())
	g.events.Draw(screen, 12, 12)

	if g.showHelp {
		g.drawHelp(screen)
	}
	if g.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED", g.width/2-18, g.height/2-40)
	}
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, g.width/2-len(g.status)*3, 12)
	}
}

func (g *Game) drawHelp(screen *ebiten.Image) {
	src := "keyboard"
	if in, ok := g.input.(*Input); ok && in.HasGamepad() {
		src = "gamepad"
	} else if g.opts.Demo {
		src = "autopilot"
	}
	lines := []string{
		fmt.Sprintf("input: %s  model: %s", src, g.sim.Flight.Name()),
		"arrows stick  space throttle  shift brake",
		"Q/E rudder  IJKL look  F fire  T lock",
		"P pause  R reset  F9 copy report  H help",
	}
	const lineH = 14
	x := g.width - logPanelWidth - 12
	y := 12
	h := float32(len(lines)*lineH + 8)
	vector.FillRect(screen, float32(x), float32(y), logPanelWidth, h, color.RGBA{R: 8, G: 12, B: 18, A: 190}, false)
	for i, l := range lines {
		ebitenutil.DebugPrintAt(screen, l, x+6, y+4+i*lineH)
	}
}

// Layout tracks the window size so the viewport follows resizes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}

// Close flushes telemetry and silences audio.
func (g *Game) Close() error {
	if g.opts.Audio != nil {
		g.opts.Audio.Close()
	}
	if g.opts.Recorder != nil {
		return g.opts.Recorder.Flush()
	}
	return nil
}
