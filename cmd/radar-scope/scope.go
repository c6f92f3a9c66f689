package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleBorder  = styleDefault.Foreground(tcell.ColorDarkGray)
	styleHeader  = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleReticle = styleDefault.Foreground(tcell.ColorLime)
	styleLock    = styleDefault.Foreground(tcell.ColorOrangeRed).Bold(true)
	styleRadar   = styleDefault.Foreground(tcell.ColorGreen)
	styleLog     = styleDefault.Foreground(tcell.ColorGray)
	stylePaused  = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

const (
	logRows      = 3
	maxRadarRows = 15
	minCols      = 40
	minRows      = 12
)

// layout splits the terminal into a status row, the forward view, the
// radar box on the right and the event log underneath.
type layout struct {
	cols, rows int

	viewX, viewY, viewW, viewH     int
	radarX, radarY, radarW, radarH int
	logY                           int
}

func newLayout(cols, rows int) layout {
	if cols < minCols {
		cols = minCols
	}
	if rows < minRows {
		rows = minRows
	}
	l := layout{cols: cols, rows: rows}
	body := rows - 1 - logRows
	l.radarH = body - 2
	if l.radarH > maxRadarRows {
		l.radarH = maxRadarRows
	}
	// Terminal cells are about twice as tall as wide.
	l.radarW = 2 * l.radarH
	l.radarX = cols - l.radarW - 2
	l.radarY = 2

	l.viewX, l.viewY = 1, 2
	l.viewW = l.radarX - 3
	l.viewH = body - 2
	l.logY = rows - logRows
	return l
}

// reticleCell maps a screen-pixel position in vp to a cell inside the
// view box. ok is false when it falls outside.
func (l layout) reticleCell(p mgl64.Vec2, vp sim.Viewport) (int, int, bool) {
	if vp.Width <= 0 || vp.Height <= 0 {
		return 0, 0, false
	}
	fx := p.X() / vp.Width
	fy := p.Y() / vp.Height
	if fx < 0 || fx >= 1 || fy < 0 || fy >= 1 {
		return 0, 0, false
	}
	return l.viewX + int(fx*float64(l.viewW)), l.viewY + int(fy*float64(l.viewH)), true
}

// radarCell maps a radar percentage (from the box's left and bottom) to a
// cell inside the radar box.
func (l layout) radarCell(pct mgl64.Vec2) (int, int) {
	cx := int(math.Floor(pct.X() / 100 * float64(l.radarW)))
	cy := int(math.Floor(pct.Y() / 100 * float64(l.radarH)))
	cx = clampInt(cx, 0, l.radarW-1)
	cy = clampInt(cy, 0, l.radarH-1)
	return l.radarX + cx, l.radarY + l.radarH - 1 - cy
}

func (l layout) radarCentre() (int, int) {
	return l.radarCell(mgl64.Vec2{50, 50})
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Scope is the terminal frontend. Markers are kept by the embedded
// recorder and drawn as cells on every render.
type Scope struct {
	*sim.MarkerRecorder

	screen tcell.Screen
	layout layout
	world  *sim.World
	sim    *sim.Sim
	logger zerolog.Logger

	keys      *keyInput
	pilot     *sim.Autopilot
	autopilot bool
	paused    bool
	log       []string
}

func NewScope(s tcell.Screen, w *sim.World, fm sim.FlightModel, pilot *sim.Autopilot, logger zerolog.Logger) *Scope {
	sc := &Scope{
		MarkerRecorder: sim.NewMarkerRecorder(),
		screen:         s,
		world:          w,
		logger:         logger,
		keys:           newKeyInput(),
		pilot:          pilot,
		autopilot:      pilot != nil,
	}
	sc.resize()
	sc.sim = sim.New(w, fm, sim.WithLogger(logger), sim.WithMarkers(sc))
	return sc
}

func (sc *Scope) resize() {
	cols, rows := sc.screen.Size()
	sc.layout = newLayout(cols, rows)
}

// viewport is the fixed virtual resolution reticles are projected into
// before being mapped onto cells.
func (sc *Scope) viewport() sim.Viewport {
	return sim.Viewport{Width: 1280, Height: 720}
}

func (sc *Scope) locked() bool {
	return sc.world.Player != nil && sc.world.Player.Target.Valid()
}

// HandleKey applies one key event. It returns true when the scope should
// quit.
func (sc *Scope) HandleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape:
		return true
	case ev.Key() == tcell.KeyRune && ev.Rune() == 'p':
		sc.paused = !sc.paused
		return false
	case ev.Key() == tcell.KeyRune && ev.Rune() == 'a' && sc.pilot != nil:
		sc.autopilot = !sc.autopilot
		sc.addLog(fmt.Sprintf("autopilot %v", sc.autopilot))
		return false
	}
	sc.keys.Press(ev)
	return false
}

// Tick advances the simulation one frame.
func (sc *Scope) Tick(dt float64) sim.FrameResult {
	if sc.paused {
		return sim.FrameResult{Frame: sc.sim.Frame()}
	}
	var ctx sim.FrameContext
	if sc.autopilot && sc.pilot != nil {
		ctx = sc.pilot.Frame(sc.viewport(), sc.locked())
		// Manual buttons still count while the autopilot flies.
		fire, lock := sc.keys.Buttons()
		ctx.FirePressed += fire
		ctx.LockPressed = ctx.LockPressed || lock
		sc.keys.Poll()
	} else {
		ctx.Input = sc.keys.Poll()
		ctx.FirePressed, ctx.LockPressed = sc.keys.Buttons()
	}
	ctx.DT = dt
	ctx.Viewport = sc.viewport()
	res := sc.sim.Step(ctx)
	for _, ev := range res.Events {
		sc.addLog(fmt.Sprintf("%5d %s", ev.Frame, ev))
	}
	return res
}

func (sc *Scope) addLog(line string) {
	sc.log = append(sc.log, line)
	if len(sc.log) > logRows {
		sc.log = sc.log[len(sc.log)-logRows:]
	}
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func drawBox(s tcell.Screen, x, y, w, h int, style tcell.Style) {
	for i := x; i < x+w; i++ {
		s.SetContent(i, y-1, tcell.RuneHLine, nil, style)
		s.SetContent(i, y+h, tcell.RuneHLine, nil, style)
	}
	for j := y; j < y+h; j++ {
		s.SetContent(x-1, j, tcell.RuneVLine, nil, style)
		s.SetContent(x+w, j, tcell.RuneVLine, nil, style)
	}
	s.SetContent(x-1, y-1, tcell.RuneULCorner, nil, style)
	s.SetContent(x+w, y-1, tcell.RuneURCorner, nil, style)
	s.SetContent(x-1, y+h, tcell.RuneLLCorner, nil, style)
	s.SetContent(x+w, y+h, tcell.RuneLRCorner, nil, style)
}

// Render draws the current frame.
func (sc *Scope) Render() {
	s := sc.screen
	l := sc.layout
	s.Clear()

	status := "no craft"
	if p := sc.world.Player; p != nil {
		lock := "--"
		if t, ok := sc.world.Target(p.Target); ok {
			lock = t.Name
		}
		status = fmt.Sprintf("ACE SKY  %s  SPD %4d km/h  ALT %5d m  MSL %3d  LOCK %s",
			sc.sim.Flight.Name(), p.SpeedKMH(), p.AltitudeMeters(), p.MissilesFired, lock)
	}
	drawText(s, 0, 0, status, styleHeader)
	if sc.autopilot {
		drawText(s, l.cols-10, 0, "AUTOPILOT", styleHeader)
	}

	drawBox(s, l.viewX, l.viewY, l.viewW, l.viewH, styleBorder)
	cx, cy := l.viewX+l.viewW/2, l.viewY+l.viewH/2
	s.SetContent(cx, cy, '+', nil, styleBorder)

	vp := sc.viewport()
	for _, m := range sc.Markers(sim.MarkerReticle) {
		if x, y, ok := l.reticleCell(m.Position, vp); ok {
			s.SetContent(x, y, 'o', nil, styleReticle)
		}
	}
	tf := sc.sim.Tactical()
	if tf.LockVisible {
		if x, y, ok := l.reticleCell(tf.LockedScreen, vp); ok {
			s.SetContent(x-1, y, '[', nil, styleLock)
			s.SetContent(x, y, '@', nil, styleLock)
			s.SetContent(x+1, y, ']', nil, styleLock)
		}
	}

	drawBox(s, l.radarX, l.radarY, l.radarW, l.radarH, styleBorder)
	drawText(s, l.radarX, l.radarY-1, "RADAR", styleBorder)
	for _, m := range sc.Markers(sim.MarkerRadarDot) {
		x, y := l.radarCell(m.Position)
		s.SetContent(x, y, '*', nil, styleRadar)
	}
	if p := sc.world.Player; p != nil {
		if t, ok := sc.world.Target(p.Target); ok {
			off := sim.RadarOffset(p.Transform, t.Position)
			if sim.InRadarRange(off) {
				x, y := l.radarCell(sim.RadarPercent(off))
				s.SetContent(x, y, '@', nil, styleLock)
			}
		}
	}
	rx, ry := l.radarCentre()
	s.SetContent(rx, ry, '^', nil, styleReticle)

	for i, line := range sc.log {
		drawText(s, 1, l.logY+i, line, styleLog)
	}
	if sc.paused {
		drawText(s, cx-3, cy-2, "PAUSED", stylePaused)
	}
	s.Show()
}
