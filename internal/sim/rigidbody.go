package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BodyState is the kinematic state a RigidBody exposes.
type BodyState struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	LinearVelocity  mgl64.Vec3
	AngularVelocity mgl64.Vec3
}

// RigidBody is the physics backend driven by DynamicsModel. Forces and
// torques are world-space and accumulate until the next Integrate.
type RigidBody interface {
	AddForce(f mgl64.Vec3)
	AddTorque(t mgl64.Vec3)
	SetLinearDamping(d float64)
	SetAngularDamping(d float64)
	SetGravity(g mgl64.Vec3)
	Integrate(dt float64)
	State() BodyState
	SetState(s BodyState)
}

// PointMassBody is a rigid body with scalar mass and scalar (spherical)
// inertia, integrated with semi-implicit Euler.
type PointMassBody struct {
	Mass    float64
	Inertia float64

	state          BodyState
	force          mgl64.Vec3
	torque         mgl64.Vec3
	linearDamping  float64
	angularDamping float64
	gravity        mgl64.Vec3
}

// NewPointMassBody returns a body at rest with identity rotation. Mass and
// inertia must be positive; non-positive values become 1.
func NewPointMassBody(mass, inertia float64) *PointMassBody {
	if mass <= 0 {
		mass = 1
	}
	if inertia <= 0 {
		inertia = 1
	}
	return &PointMassBody{
		Mass:    mass,
		Inertia: inertia,
		state:   BodyState{Rotation: mgl64.QuatIdent()},
	}
}

func (b *PointMassBody) AddForce(f mgl64.Vec3)      { b.force = b.force.Add(f) }
func (b *PointMassBody) AddTorque(t mgl64.Vec3)     { b.torque = b.torque.Add(t) }
func (b *PointMassBody) SetLinearDamping(d float64) { b.linearDamping = math.Max(d, 0) }
func (b *PointMassBody) SetAngularDamping(d float64) {
	b.angularDamping = math.Max(d, 0)
}
func (b *PointMassBody) SetGravity(g mgl64.Vec3) { b.gravity = g }
func (b *PointMassBody) State() BodyState        { return b.state }

// SetState overwrites the body state. Pending forces are kept.
func (b *PointMassBody) SetState(s BodyState) {
	s.Rotation = s.Rotation.Normalize()
	b.state = s
}

// Integrate advances the body by dt and clears the force accumulators.
// Damping follows v *= 1/(1 + d*dt), which never reverses velocity.
func (b *PointMassBody) Integrate(dt float64) {
	if dt <= 0 {
		return
	}
	s := &b.state

	acc := b.force.Mul(1 / b.Mass).Add(b.gravity)
	s.LinearVelocity = s.LinearVelocity.Add(acc.Mul(dt)).Mul(1 / (1 + b.linearDamping*dt))
	s.Position = s.Position.Add(s.LinearVelocity.Mul(dt))

	alpha := b.torque.Mul(1 / b.Inertia)
	s.AngularVelocity = s.AngularVelocity.Add(alpha.Mul(dt)).Mul(1 / (1 + b.angularDamping*dt))

	// dq/dt = 0.5 * ω * q with ω as a pure quaternion in world space.
	spin := mgl64.Quat{W: 0, V: s.AngularVelocity}.Mul(s.Rotation).Scale(0.5 * dt)
	s.Rotation = s.Rotation.Add(spin).Normalize()

	b.force = mgl64.Vec3{}
	b.torque = mgl64.Vec3{}
}
