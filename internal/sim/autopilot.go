package sim

import "github.com/go-gl/mathgl/mgl64"

// Maneuver holds one input for a fixed duration.
type Maneuver struct {
	Name     string
	Duration float64
	Input    InputSnapshot
}

// Autopilot replays a looping maneuver script and fires on a fixed cadence.
// It implements InputSource for headless and terminal frontends.
type Autopilot struct {
	Script []Maneuver
	// FireEvery is the launch interval in seconds; zero never fires.
	FireEvery float64
	// LockOnFire presses lock before each launch when nothing is locked.
	LockOnFire bool

	dt        float64
	step      int
	inStep    float64
	sinceFire float64
}

// NewAutopilot returns an autopilot sampling its script every dt seconds.
func NewAutopilot(dt float64, script ...Maneuver) *Autopilot {
	return &Autopilot{Script: script, dt: dt}
}

// Current returns the maneuver being flown, or nil for an empty script.
func (a *Autopilot) Current() *Maneuver {
	if len(a.Script) == 0 {
		return nil
	}
	return &a.Script[a.step]
}

// Poll returns this frame's input and advances the script clock.
func (a *Autopilot) Poll() InputSnapshot {
	m := a.Current()
	if m == nil {
		return InputSnapshot{}
	}
	in := m.Input
	a.inStep += a.dt
	if a.inStep >= m.Duration {
		a.inStep = 0
		a.step = (a.step + 1) % len(a.Script)
	}
	return in
}

// Frame builds a complete frame context: input, fire presses and lock press.
func (a *Autopilot) Frame(vp Viewport, locked bool) FrameContext {
	ctx := FrameContext{DT: a.dt, Input: a.Poll(), Viewport: vp}
	if a.FireEvery <= 0 {
		return ctx
	}
	a.sinceFire += a.dt
	if a.sinceFire >= a.FireEvery {
		a.sinceFire -= a.FireEvery
		ctx.FirePressed = 1
		if a.LockOnFire && !locked {
			ctx.LockPressed = true
		}
	}
	return ctx
}

// Stock maneuvers used by scenarios and the terminal scope.
var (
	ManeuverCruise = Maneuver{Name: "cruise", Duration: 3, Input: InputSnapshot{Accel: 0.5}}
	ManeuverClimb  = Maneuver{Name: "climb", Duration: 1.5, Input: InputSnapshot{Axis: mgl64.Vec2{0, -0.6}}}
	ManeuverDive   = Maneuver{Name: "dive", Duration: 1.5, Input: InputSnapshot{Axis: mgl64.Vec2{0, 0.6}}}
	ManeuverBankL  = Maneuver{Name: "bank-left", Duration: 2, Input: InputSnapshot{Axis: mgl64.Vec2{-0.8, -0.3}, Yaw: 0.5}}
	ManeuverBankR  = Maneuver{Name: "bank-right", Duration: 2, Input: InputSnapshot{Axis: mgl64.Vec2{0.8, -0.3}, Yaw: -0.5}}
	ManeuverBrake  = Maneuver{Name: "brake", Duration: 1, Input: InputSnapshot{Brake: 1}}
)
