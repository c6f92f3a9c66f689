package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Deadzones applied by device input sources.
const (
	StickDeadzone   = 0.01
	TriggerDeadzone = 0.01
	LookDeadzone    = 0.1
)

// InputSnapshot is the resolved control state for one frame.
//
//	Axis.X  [-1, 1] turns about body X at PitchSpeed
//	Axis.Y  [-1, 1] turns about body Z at RollSpeed, sign inverted
//	Accel   [0, 1]
//	Brake   [0, 1]
//	Yaw     [-1, 1]
//	Camera  look offset, each component [-1, 1]
type InputSnapshot struct {
	Axis   mgl64.Vec2
	Accel  float64
	Brake  float64
	Yaw    float64
	Camera mgl64.Vec2
}

// Clamped returns the snapshot with every field forced into its range.
// NaN components become 0.
func (in InputSnapshot) Clamped() InputSnapshot {
	return InputSnapshot{
		Axis:   mgl64.Vec2{clampAxis(in.Axis.X()), clampAxis(in.Axis.Y())},
		Accel:  clampUnit(in.Accel),
		Brake:  clampUnit(in.Brake),
		Yaw:    clampAxis(in.Yaw),
		Camera: mgl64.Vec2{clampAxis(in.Camera.X()), clampAxis(in.Camera.Y())},
	}
}

// IsNeutral reports whether no control is deflected.
func (in InputSnapshot) IsNeutral() bool {
	return in == InputSnapshot{}
}

func clampAxis(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return mgl64.Clamp(v, -1, 1)
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp01(v)
}

// ApplyStickDeadzone zeroes a two-axis stick unless either axis exceeds dz.
// Both axes pass through unchanged once the stick is outside the deadzone.
func ApplyStickDeadzone(x, y, dz float64) mgl64.Vec2 {
	if math.Abs(x) > dz || math.Abs(y) > dz {
		return mgl64.Vec2{x, y}
	}
	return mgl64.Vec2{}
}

// ApplyDeadzone zeroes a single axis whose magnitude does not exceed dz.
func ApplyDeadzone(v, dz float64) float64 {
	if math.Abs(v) > dz {
		return v
	}
	return 0
}

// InputSource produces one snapshot per frame.
type InputSource interface {
	Poll() InputSnapshot
}

// EdgeTrigger turns a level (button value) into discrete press events.
// It fires once when the value rises above zero from zero or below.
type EdgeTrigger struct {
	prev float64
}

// Update feeds the current level and reports whether a press began.
func (e *EdgeTrigger) Update(v float64) bool {
	fired := v > 0 && e.prev <= 0
	e.prev = v
	return fired
}

// Reset forgets the previous level.
func (e *EdgeTrigger) Reset() { e.prev = 0 }
