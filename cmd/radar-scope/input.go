package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

// holdFrames is how long a key press keeps its axis deflected. Terminals
// report presses and auto-repeat but never releases.
const holdFrames = 12

type impulse struct {
	value float64
	left  int
}

func (im *impulse) set(v float64) {
	im.value, im.left = v, holdFrames
}

func (im *impulse) tick() float64 {
	if im.left <= 0 {
		return 0
	}
	im.left--
	return im.value
}

// keyInput turns key presses into decaying stick impulses plus latched
// fire and lock presses.
type keyInput struct {
	stickX, stickY impulse
	yaw            impulse
	accel, brake   impulse
	lookX, lookY   impulse

	fires int
	lock  bool
}

func newKeyInput() *keyInput { return &keyInput{} }

// Press records one key event.
func (k *keyInput) Press(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyLeft:
		k.stickX.set(-1)
	case tcell.KeyRight:
		k.stickX.set(1)
	case tcell.KeyUp:
		k.stickY.set(1)
	case tcell.KeyDown:
		k.stickY.set(-1)
	case tcell.KeyEnter:
		k.fires++
	case tcell.KeyRune:
		switch ev.Rune() {
		case ' ':
			k.accel.set(1)
		case 'b':
			k.brake.set(1)
		case 'q':
			k.yaw.set(1)
		case 'e':
			k.yaw.set(-1)
		case 'f':
			k.fires++
		case 't':
			k.lock = true
		case 'j':
			k.lookX.set(-1)
		case 'l':
			k.lookX.set(1)
		case 'i':
			k.lookY.set(1)
		case 'k':
			k.lookY.set(-1)
		}
	}
}

// Poll returns this frame's stick and advances every impulse by a frame.
func (k *keyInput) Poll() sim.InputSnapshot {
	return sim.InputSnapshot{
		Axis:   mgl64.Vec2{k.stickX.tick(), k.stickY.tick()},
		Accel:  k.accel.tick(),
		Brake:  k.brake.tick(),
		Yaw:    k.yaw.tick(),
		Camera: mgl64.Vec2{k.lookX.tick(), k.lookY.tick()},
	}
}

// Buttons returns and clears the latched presses.
func (k *keyInput) Buttons() (fire int, lock bool) {
	fire, lock = k.fires, k.lock
	k.fires, k.lock = 0, false
	return fire, lock
}
