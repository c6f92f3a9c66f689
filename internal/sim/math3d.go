package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// World axes. Y is up; a craft flies along its local +X, a missile along its local +Y.
var (
	AxisX = mgl64.Vec3{1, 0, 0}
	AxisY = mgl64.Vec3{0, 1, 0}
	AxisZ = mgl64.Vec3{0, 0, 1}
)

// geomEpsilon is the length below which a vector is treated as zero.
const geomEpsilon = 1e-9

// Normalize0 returns v scaled to unit length, or the zero vector when v has
// no usable length. It never returns NaN.
func Normalize0(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < geomEpsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// IsZero reports whether v is (numerically) the zero vector.
func IsZero(v mgl64.Vec3) bool {
	return v.Len() < geomEpsilon
}

// LerpVec linearly interpolates from a to b. t is not clamped.
func LerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// AngleBetween returns the unsigned angle between a and b in radians.
// A zero-length input yields 0.
func AngleBetween(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la < geomEpsilon || lb < geomEpsilon {
		return 0
	}
	return math.Acos(mgl64.Clamp(a.Dot(b)/(la*lb), -1, 1))
}

// Arc returns the shortest rotation taking direction from onto direction to.
// Either vector being zero yields the identity.
func Arc(from, to mgl64.Vec3) mgl64.Quat {
	if IsZero(from) || IsZero(to) {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatBetweenVectors(from, to).Normalize()
}

// YawPitchRoll composes Ry(yaw)·Rx(pitch)·Rz(roll).
func YawPitchRoll(yaw, pitch, roll float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, AxisY).
		Mul(mgl64.QuatRotate(pitch, AxisX)).
		Mul(mgl64.QuatRotate(roll, AxisZ))
}

// Nlerp interpolates between two rotations along the shorter arc and
// renormalises the result.
func Nlerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatNlerp(a, b, t)
}

// LookRotation returns the orientation of an object at eye whose local -Z
// points at target and whose local +Y is as close to up as possible.
func LookRotation(eye, target, up mgl64.Vec3) mgl64.Quat {
	back := Normalize0(eye.Sub(target))
	if IsZero(back) {
		return mgl64.QuatIdent()
	}
	right := Normalize0(up.Cross(back))
	if IsZero(right) {
		// up is parallel to the view direction; pick any perpendicular.
		right = Normalize0(AxisZ.Cross(back))
		if IsZero(right) {
			right = Normalize0(AxisX.Cross(back))
		}
	}
	trueUp := back.Cross(right)
	basis := mgl64.Mat3FromCols(right, trueUp, back)
	return mgl64.Mat4ToQuat(basis.Mat4()).Normalize()
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	return mgl64.Clamp(v, 0, 1)
}

// Transform is a position plus a unit rotation.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform returns a transform at pos with identity rotation.
func NewTransform(pos mgl64.Vec3) Transform {
	return Transform{Position: pos, Rotation: mgl64.QuatIdent()}
}

// Forward is the body +X axis in world space.
func (t Transform) Forward() mgl64.Vec3 { return t.Rotation.Rotate(AxisX) }

// Up is the body +Y axis in world space.
func (t Transform) Up() mgl64.Vec3 { return t.Rotation.Rotate(AxisY) }

// Right is the body +Z axis in world space.
func (t Transform) Right() mgl64.Vec3 { return t.Rotation.Rotate(AxisZ) }

// Matrix returns the local-to-world matrix.
func (t Transform) Matrix() mgl64.Mat4 {
	p := t.Position
	return mgl64.Translate3D(p.X(), p.Y(), p.Z()).Mul4(t.Rotation.Mat4())
}

// Inverse returns the world-to-local matrix.
func (t Transform) Inverse() mgl64.Mat4 {
	p := t.Position
	return t.Rotation.Conjugate().Mat4().Mul4(mgl64.Translate3D(-p.X(), -p.Y(), -p.Z()))
}

// normalized returns t with its rotation renormalised.
func (t Transform) normalized() Transform {
	t.Rotation = t.Rotation.Normalize()
	return t
}
