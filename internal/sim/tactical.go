package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RadarRange is the half-width of the square radar window in world units.
const RadarRange = 1000.0

// TacticalMark ties a marker position to the target that produced it.
type TacticalMark struct {
	Target Handle[Target]
	Point  mgl64.Vec2
}

// TacticalFrame is the overlay state computed for one frame.
type TacticalFrame struct {
	Reticles []TacticalMark
	Radar    []TacticalMark
	// LockedScreen is the on-screen position of the locked target, if it
	// is visible.
	LockedScreen mgl64.Vec2
	LockVisible  bool
}

// Points extracts positions in mark order.
func Points(marks []TacticalMark) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(marks))
	for i, m := range marks {
		out[i] = m.Point
	}
	return out
}

// ScreenMarks projects every target and keeps those inside the viewport,
// in target enumeration order.
func ScreenMarks(cam *CameraRig, targets *Arena[Target]) []TacticalMark {
	if cam == nil {
		return nil
	}
	vp := cam.Viewport()
	var out []TacticalMark
	targets.Each(func(h Handle[Target], t *Target) {
		p, ok := cam.WorldToScreen(t.Position)
		if ok && vp.Contains(p) {
			out = append(out, TacticalMark{Target: h, Point: p})
		}
	})
	return out
}

// RadarOffset returns a target's position relative to the player in the
// player's heading frame: x to the right, y ahead. Height is ignored.
func RadarOffset(player Transform, target mgl64.Vec3) mgl64.Vec2 {
	rel := target.Sub(player.Position)
	rel = mgl64.Vec3{rel.X(), 0, rel.Z()}

	fwd := player.Forward()
	flat := Normalize0(mgl64.Vec3{fwd.X(), 0, fwd.Z()})
	rot := mgl64.QuatIdent()
	if !IsZero(flat) {
		rot = Arc(flat, AxisZ)
	}
	v := rot.Rotate(rel)
	// Facing +Z with +Y up, +X is on the left.
	return mgl64.Vec2{-v.X(), v.Z()}
}

// InRadarRange reports whether a radar offset fits the radar window.
func InRadarRange(off mgl64.Vec2) bool {
	return math.Abs(off.X()) < RadarRange && math.Abs(off.Y()) < RadarRange
}

// RadarPercent maps a radar offset into panel percentages, centre (50, 50).
func RadarPercent(off mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		50 + off.X()/RadarRange*50,
		50 + off.Y()/RadarRange*50,
	}
}

// RadarMarks places every target within range on the radar.
func RadarMarks(player Transform, targets *Arena[Target]) []TacticalMark {
	var out []TacticalMark
	targets.Each(func(h Handle[Target], t *Target) {
		off := RadarOffset(player, t.Position)
		if InRadarRange(off) {
			out = append(out, TacticalMark{Target: h, Point: RadarPercent(off)})
		}
	})
	return out
}

// BuildTactical computes the overlay for a world. Missing player or camera
// leave the corresponding part empty.
func BuildTactical(w *World) TacticalFrame {
	var f TacticalFrame
	if w.Camera != nil {
		f.Reticles = ScreenMarks(w.Camera, &w.Targets)
	}
	if w.Player != nil {
		f.Radar = RadarMarks(w.Player.Transform, &w.Targets)
		for _, m := range f.Reticles {
			if m.Target == w.Player.Target {
				f.LockedScreen = m.Point
				f.LockVisible = true
				break
			}
		}
	}
	return f
}
