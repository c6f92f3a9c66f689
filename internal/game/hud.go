package game

import (
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

const (
	radarSize   = 180
	radarMargin = 16
	reticleHalf = 14
	lockHalf    = 20
)

var (
	hudFace     = text.NewGoXFace(basicfont.Face7x13)
	hudGreen    = color.RGBA{R: 90, G: 230, B: 120, A: 255}
	hudDim      = color.RGBA{R: 60, G: 140, B: 80, A: 160}
	hudLock     = color.RGBA{R: 255, G: 90, B: 60, A: 255}
	radarFill   = color.RGBA{R: 6, G: 18, B: 10, A: 200}
	radarBorder = color.RGBA{R: 60, G: 120, B: 70, A: 220}
)

// HUD is the ebiten marker factory. Marker bookkeeping is delegated to a
// MarkerRecorder; HUD only adds drawing.
type HUD struct {
	*sim.MarkerRecorder
}

func NewHUD() *HUD {
	return &HUD{MarkerRecorder: sim.NewMarkerRecorder()}
}

type panelRect struct {
	x, y, w, h float64
}

// radarPanel places the radar in the bottom-right corner of a w×h screen.
func radarPanel(w, h int) panelRect {
	return panelRect{
		x: float64(w - radarSize - radarMargin),
		y: float64(h - radarSize - radarMargin),
		w: radarSize,
		h: radarSize,
	}
}

// radarPixel converts a radar percentage (from the panel's left and
// bottom edges) to screen pixels.
func radarPixel(p panelRect, pct mgl64.Vec2) (float32, float32) {
	x := p.x + pct.X()/100*p.w
	y := p.y + p.h - pct.Y()/100*p.h
	return float32(x), float32(y)
}

// readoutLines are the flight instrument strings.
func readoutLines(c *sim.Craft, lockName string, lockVisible bool) []string {
	lock := "LOCK --"
	if lockName != "" {
		lock = "LOCK " + lockName
		if !lockVisible {
			lock += " (off-screen)"
		}
	}
	return []string{
		fmt.Sprintf("SPD %4d km/h", c.SpeedKMH()),
		fmt.Sprintf("ALT %5d m", c.AltitudeMeters()),
		fmt.Sprintf("MSL %4d fired", c.MissilesFired),
		lock,
	}
}

func drawText(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, hudFace, op)
}

// Draw renders reticles, the radar panel and instrument readouts.
func (h *HUD) Draw(screen *ebiten.Image, w *sim.World, tf sim.TacticalFrame) {
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()

	// Reticles.
	for _, m := range h.Markers(sim.MarkerReticle) {
		x, y := float32(m.Position.X()), float32(m.Position.Y())
		vector.StrokeRect(screen, x-reticleHalf, y-reticleHalf, 2*reticleHalf, 2*reticleHalf, 1.5, hudGreen, false)
	}
	if tf.LockVisible {
		x, y := float32(tf.LockedScreen.X()), float32(tf.LockedScreen.Y())
		vector.StrokeRect(screen, x-lockHalf, y-lockHalf, 2*lockHalf, 2*lockHalf, 2, hudLock, false)
		vector.StrokeLine(screen, x-lockHalf-6, y, x-lockHalf, y, 2, hudLock, false)
		vector.StrokeLine(screen, x+lockHalf, y, x+lockHalf+6, y, 2, hudLock, false)
	}

	// Boresight.
	cx, cy := float32(sw)/2, float32(sh)/2
	vector.StrokeLine(screen, cx-8, cy, cx-3, cy, 1, hudDim, false)
	vector.StrokeLine(screen, cx+3, cy, cx+8, cy, 1, hudDim, false)
	vector.StrokeLine(screen, cx, cy-8, cx, cy-3, 1, hudDim, false)

	// Radar panel.
	p := radarPanel(sw, sh)
	px, py, pw, ph := float32(p.x), float32(p.y), float32(p.w), float32(p.h)
	vector.FillRect(screen, px, py, pw, ph, radarFill, false)
	vector.StrokeRect(screen, px, py, pw, ph, 1.5, radarBorder, false)
	vector.StrokeLine(screen, px+pw/2, py, px+pw/2, py+ph, 0.5, hudDim, false)
	vector.StrokeLine(screen, px, py+ph/2, px+pw, py+ph/2, 0.5, hudDim, false)
	vector.StrokeCircle(screen, px+pw/2, py+ph/2, pw/4, 0.5, hudDim, false)
	// Player at the centre, nose up.
	vector.FillRect(screen, px+pw/2-2, py+ph/2-2, 4, 4, hudGreen, false)
	for _, m := range h.Markers(sim.MarkerRadarDot) {
		x, y := radarPixel(p, m.Position)
		vector.FillCircle(screen, x, y, 3, hudGreen, false)
	}
	if w.Player != nil && w.Player.Target.Valid() {
		if t, ok := w.Target(w.Player.Target); ok {
			off := sim.RadarOffset(w.Player.Transform, t.Position)
			if sim.InRadarRange(off) {
				x, y := radarPixel(p, sim.RadarPercent(off))
				vector.StrokeCircle(screen, x, y, 6, 1.5, hudLock, false)
			}
		}
	}
	drawText(screen, "RADAR 1km", float64(px)+4, float64(py)+2, hudDim)

	// Readouts.
	if w.Player == nil {
		return
	}
	lockName := ""
	if t, ok := w.Target(w.Player.Target); ok {
		lockName = t.Name
	}
	for i, line := range readoutLines(w.Player, lockName, tf.LockVisible) {
		clr := hudGreen
		if i == 3 && lockName != "" {
			clr = hudLock
		}
		drawText(screen, line, radarMargin, float64(sh-radarMargin-(4-i)*16), clr)
	}
}
