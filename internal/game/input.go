package game

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

// keyPressed and the gamepad readers are injected so the mapping can be
// exercised without a window.
type (
	keyPressed  func(ebiten.Key) bool
	padAxis     func(ebiten.StandardGamepadAxis) float64
	padButton   func(ebiten.StandardGamepadButton) float64
	inputReader interface {
		sim.InputSource
		Buttons() (fire int, lock bool)
	}
)

// keyboardSnapshot maps held keys to flight input. Arrows are the stick
// (up is +Y), Space is throttle, Left Shift airbrake, Q/E rudder and
// I/J/K/L the free-look stick.
func keyboardSnapshot(pressed keyPressed) sim.InputSnapshot {
	axis := func(neg, pos ebiten.Key) float64 {
		v := 0.0
		if pressed(neg) {
			v--
		}
		if pressed(pos) {
			v++
		}
		return v
	}
	var in sim.InputSnapshot
	in.Axis = mgl64.Vec2{
		axis(ebiten.KeyArrowLeft, ebiten.KeyArrowRight),
		axis(ebiten.KeyArrowDown, ebiten.KeyArrowUp),
	}
	if pressed(ebiten.KeySpace) {
		in.Accel = 1
	}
	if pressed(ebiten.KeyShiftLeft) {
		in.Brake = 1
	}
	in.Yaw = axis(ebiten.KeyE, ebiten.KeyQ)
	in.Camera = mgl64.Vec2{
		axis(ebiten.KeyJ, ebiten.KeyL),
		axis(ebiten.KeyK, ebiten.KeyI),
	}
	return in
}

// gamepadSnapshot maps a standard-layout pad. Stick vertical axes report
// down as positive, so they are flipped to up-positive.
func gamepadSnapshot(axis padAxis, button padButton) sim.InputSnapshot {
	in := sim.InputSnapshot{
		Axis: sim.ApplyStickDeadzone(
			axis(ebiten.StandardGamepadAxisLeftStickHorizontal),
			-axis(ebiten.StandardGamepadAxisLeftStickVertical),
			sim.StickDeadzone),
		Accel: sim.ApplyDeadzone(button(ebiten.StandardGamepadButtonFrontBottomRight), sim.TriggerDeadzone),
		Brake: sim.ApplyDeadzone(button(ebiten.StandardGamepadButtonFrontBottomLeft), sim.TriggerDeadzone),
		Yaw: button(ebiten.StandardGamepadButtonFrontTopLeft) -
			button(ebiten.StandardGamepadButtonFrontTopRight),
		Camera: sim.ApplyStickDeadzone(
			axis(ebiten.StandardGamepadAxisRightStickHorizontal),
			-axis(ebiten.StandardGamepadAxisRightStickVertical),
			sim.LookDeadzone),
	}
	return in
}

// Input polls the keyboard, or the first standard-layout gamepad when one
// is connected. Fire is edge-triggered on East / F; lock on North / T.
type Input struct {
	pad     ebiten.GamepadID
	hasPad  bool
	fire    sim.EdgeTrigger
	fires   int
	lock    bool
	padIDs  []ebiten.GamepadID
	pressed keyPressed
}

func NewInput() *Input {
	return &Input{pressed: ebiten.IsKeyPressed}
}

// HasGamepad reports whether a pad is driving input.
func (in *Input) HasGamepad() bool { return in.hasPad }

func (in *Input) refreshPad() {
	in.padIDs = ebiten.AppendGamepadIDs(in.padIDs[:0])
	in.hasPad = false
	for _, id := range in.padIDs {
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			if in.pad != id {
				in.fire.Reset()
			}
			in.pad, in.hasPad = id, true
			return
		}
	}
}

// Poll reads this frame's axes and latches the button edges returned by
// the next Buttons call.
func (in *Input) Poll() sim.InputSnapshot {
	in.refreshPad()
	if in.hasPad {
		id := in.pad
		snap := gamepadSnapshot(
			func(a ebiten.StandardGamepadAxis) float64 { return ebiten.StandardGamepadAxisValue(id, a) },
			func(b ebiten.StandardGamepadButton) float64 { return ebiten.StandardGamepadButtonValue(id, b) },
		)
		if in.fire.Update(ebiten.StandardGamepadButtonValue(id, ebiten.StandardGamepadButtonRightRight)) {
			in.fires++
		}
		in.lock = in.lock || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
		in.pollKeyButtons()
		return snap
	}
	in.pollKeyButtons()
	return keyboardSnapshot(in.pressed)
}

func (in *Input) pollKeyButtons() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF) || inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		in.fires++
	}
	in.lock = in.lock || inpututil.IsKeyJustPressed(ebiten.KeyT)
}

// Buttons returns and clears the presses latched since the last call.
func (in *Input) Buttons() (fire int, lock bool) {
	fire, lock = in.fires, in.lock
	in.fires, in.lock = 0, false
	return fire, lock
}

// Autopilot adapts a sim.Autopilot to the frontend input interface for
// attract mode.
type Autopilot struct {
	*sim.Autopilot
	locked func() bool
	fire   int
	lock   bool
}

func NewAutopilotInput(a *sim.Autopilot, locked func() bool) *Autopilot {
	return &Autopilot{Autopilot: a, locked: locked}
}

func (a *Autopilot) Poll() sim.InputSnapshot {
	ctx := a.Autopilot.Frame(sim.Viewport{}, a.locked())
	a.fire += ctx.FirePressed
	a.lock = a.lock || ctx.LockPressed
	return ctx.Input
}

func (a *Autopilot) Buttons() (fire int, lock bool) {
	fire, lock = a.fire, a.lock
	a.fire, a.lock = 0, false
	return fire, lock
}
