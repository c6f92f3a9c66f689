package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Chase camera constants.
const (
	BaseFOV   = math.Pi / 3
	FOVSpread = math.Pi / 8

	CameraNear = 0.1
	CameraFar  = 2000.0

	cameraLookHeight    = 1.5
	cameraFollowBase    = 8.0
	cameraFollowSpread  = 16.0
	cameraRotationRate  = 5.0
	LookYawRange        = math.Pi
	LookPitchRange      = math.Pi / 3
	defaultViewportSize = 1
)

// CameraOffset is the chase position in craft space: behind and above.
var CameraOffset = mgl64.Vec3{-6, 2, 0}

// Viewport is the pixel size of the render target.
type Viewport struct {
	Width  float64
	Height float64
}

// Valid reports whether the viewport has area.
func (v Viewport) Valid() bool { return v.Width > 0 && v.Height > 0 }

// Center returns the viewport midpoint.
func (v Viewport) Center() mgl64.Vec2 { return mgl64.Vec2{v.Width / 2, v.Height / 2} }

// Contains reports whether p lies inside [0,w]x[0,h].
func (v Viewport) Contains(p mgl64.Vec2) bool {
	return p.X() >= 0 && p.X() <= v.Width && p.Y() >= 0 && p.Y() <= v.Height
}

// FieldOfView returns the vertical field of view for a speed ratio.
func FieldOfView(ratio float64) float64 {
	return BaseFOV + Clamp01(ratio)*FOVSpread
}

// LookRotationFromAxis turns the camera stick into a body-local rotation.
// Stick x swings around the craft, stick y tilts over it.
func LookRotationFromAxis(look mgl64.Vec2) mgl64.Quat {
	if look == (mgl64.Vec2{}) {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(-look.X()*LookYawRange, AxisY).
		Mul(mgl64.QuatRotate(look.Y()*LookPitchRange, AxisZ))
}

// IdealCameraPose returns where the chase camera wants to be for a craft.
// The look rotation is applied in craft space, after the craft rotation.
func IdealCameraPose(craft Transform, look mgl64.Vec2) Transform {
	up := Normalize0(craft.Up())
	if IsZero(up) {
		up = AxisY
	}
	frame := craft.Rotation.Mul(LookRotationFromAxis(look))
	eye := craft.Position.Add(frame.Rotate(CameraOffset))
	focus := craft.Position.Add(up.Mul(cameraLookHeight))
	return Transform{Position: eye, Rotation: LookRotation(eye, focus, up)}
}

// CameraRig is the smoothed chase camera plus its projection.
type CameraRig struct {
	Transform
	fov      float64
	viewport Viewport

	projection mgl64.Mat4
	dirty      bool
}

// NewCameraRig returns a camera at the origin with the base field of view.
func NewCameraRig() *CameraRig {
	return &CameraRig{
		Transform: NewTransform(mgl64.Vec3{}),
		fov:       BaseFOV,
		viewport:  Viewport{defaultViewportSize, defaultViewportSize},
		dirty:     true,
	}
}

// FOV returns the current vertical field of view in radians.
func (c *CameraRig) FOV() float64 { return c.fov }

// Viewport returns the current render target size.
func (c *CameraRig) Viewport() Viewport { return c.viewport }

// SetFOV changes the field of view, invalidating the projection.
func (c *CameraRig) SetFOV(fov float64) {
	if fov != c.fov {
		c.fov = fov
		c.dirty = true
	}
}

// SetViewport changes the render target size, invalidating the projection.
// Sizes without area are ignored.
func (c *CameraRig) SetViewport(v Viewport) {
	if !v.Valid() || v == c.viewport {
		return
	}
	c.viewport = v
	c.dirty = true
}

// Projection returns the perspective matrix, rebuilding it if stale.
func (c *CameraRig) Projection() mgl64.Mat4 {
	if c.dirty {
		aspect := c.viewport.Width / c.viewport.Height
		c.projection = mgl64.Perspective(c.fov, aspect, CameraNear, CameraFar)
		c.dirty = false
	}
	return c.projection
}

// View returns the world-to-camera matrix.
func (c *CameraRig) View() mgl64.Mat4 { return c.Inverse() }

// SnapTo jumps straight to the ideal pose for craft.
func (c *CameraRig) SnapTo(craft *Craft, look mgl64.Vec2) {
	c.Transform = IdealCameraPose(craft.Transform, look)
	c.SetFOV(FieldOfView(SpeedRatio(craft.Speed)))
}

// Follow eases the camera toward the ideal pose. Translation tightens with
// speed; the field of view widens with it.
func (c *CameraRig) Follow(craft *Craft, look mgl64.Vec2, dt float64) {
	if craft == nil || dt <= 0 {
		return
	}
	ratio := SpeedRatio(craft.Speed)
	ideal := IdealCameraPose(craft.Transform, look)

	c.Position = LerpVec(c.Position, ideal.Position, Clamp01((cameraFollowBase+cameraFollowSpread*ratio)*dt))
	c.Rotation = Nlerp(c.Rotation, ideal.Rotation, Clamp01(cameraRotationRate*dt))
	c.SetFOV(FieldOfView(ratio))
}

// WorldToScreen projects p into viewport pixels with a top-left origin.
// Points behind the camera report false.
func (c *CameraRig) WorldToScreen(p mgl64.Vec3) (mgl64.Vec2, bool) {
	view := c.View()
	proj := c.Projection()
	clip := proj.Mul4(view).Mul4x1(p.Vec4(1))
	if clip.W() <= geomEpsilon {
		return mgl64.Vec2{}, false
	}
	w, h := c.viewport.Width, c.viewport.Height
	win := mgl64.Project(p, view, proj, 0, 0, int(w), int(h))
	sx, sy := win.X(), h-win.Y()
	if math.IsNaN(sx) || math.IsNaN(sy) {
		return mgl64.Vec2{}, false
	}
	return mgl64.Vec2{sx, sy}, true
}
