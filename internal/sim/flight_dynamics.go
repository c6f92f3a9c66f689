package sim

import "github.com/go-gl/mathgl/mgl64"

// DynamicsTuning holds the force-model constants. The values shape how the
// craft feels; none of them matter for the flight-envelope guarantees,
// which are enforced after integration.
type DynamicsTuning struct {
	Mass            float64 `mapstructure:"mass"`
	Inertia         float64 `mapstructure:"inertia"`
	Gravity         float64 `mapstructure:"gravity"`
	Thrust          float64 `mapstructure:"thrust"`
	WingLift        float64 `mapstructure:"wingLift"`
	FinLift         float64 `mapstructure:"finLift"`
	PitchTorque     float64 `mapstructure:"pitchTorque"`
	RollTorque      float64 `mapstructure:"rollTorque"`
	YawTorque       float64 `mapstructure:"yawTorque"`
	BaseDamping     float64 `mapstructure:"baseDamping"`
	AirbrakeDamping float64 `mapstructure:"airbrakeDamping"`
	AngularDamping  float64 `mapstructure:"angularDamping"`
}

// DefaultDynamicsTuning returns the stock handling.
func DefaultDynamicsTuning() DynamicsTuning {
	return DynamicsTuning{
		Mass:            1,
		Inertia:         1,
		Gravity:         9.81,
		Thrust:          30,
		WingLift:        2,
		FinLift:         1,
		PitchTorque:     3.6,
		RollTorque:      1.8,
		YawTorque:       0.5,
		BaseDamping:     0.1,
		AirbrakeDamping: 0.6,
		AngularDamping:  2,
	}
}

// DynamicsModel flies the craft by applying forces and torques to a
// RigidBody and reading the integrated state back.
type DynamicsModel struct {
	Tuning DynamicsTuning
	Body   RigidBody
}

// NewDynamicsModel wires a model to body. A nil body gets a PointMassBody
// sized from the tuning.
func NewDynamicsModel(tuning DynamicsTuning, body RigidBody) *DynamicsModel {
	if body == nil {
		body = NewPointMassBody(tuning.Mass, tuning.Inertia)
	}
	return &DynamicsModel{Tuning: tuning, Body: body}
}

func (m *DynamicsModel) Name() string { return ModelDynamics }

// Reset puts the body at rest so no spin carries over into a new world.
func (m *DynamicsModel) Reset() {
	m.Body.SetState(BodyState{Rotation: mgl64.QuatIdent()})
}

// Step applies one frame of force-based flight. The craft transform and
// velocity are authoritative going in; the body only carries angular
// velocity between frames.
func (m *DynamicsModel) Step(c *Craft, in InputSnapshot, dt float64) {
	if c == nil || dt <= 0 {
		return
	}
	in = in.Clamped()
	t := m.Tuning

	st := m.Body.State()
	st.Position = c.Position
	st.Rotation = c.Rotation
	st.LinearVelocity = c.Velocity
	m.Body.SetState(st)

	forward := c.Forward()
	mass := t.Mass
	if mass <= 0 {
		mass = 1
	}

	m.Body.AddForce(forward.Mul(in.Accel * t.Thrust * mass))
	m.Body.AddForce(LiftForce(c.Velocity, c.Up(), t.WingLift))
	m.Body.AddForce(LiftForce(c.Velocity, c.Right(), t.FinLift))

	local := mgl64.Vec3{
		in.Axis.X() * t.PitchTorque,
		in.Yaw * t.YawTorque,
		-in.Axis.Y() * t.RollTorque,
	}
	m.Body.AddTorque(c.Rotation.Rotate(local))

	m.Body.SetLinearDamping(t.BaseDamping + in.Brake*t.AirbrakeDamping)
	m.Body.SetAngularDamping(t.AngularDamping)
	m.Body.SetGravity(mgl64.Vec3{0, -t.Gravity, 0})

	m.Body.Integrate(dt)

	st = m.Body.State()
	st.Rotation = st.Rotation.Normalize()
	dir := Normalize0(st.LinearVelocity)
	if IsZero(dir) {
		dir = st.Rotation.Rotate(AxisX)
	}
	speed := ClampSpeed(st.LinearVelocity.Len())
	st.LinearVelocity = dir.Mul(speed)
	m.Body.SetState(st)

	c.Position = st.Position
	c.Rotation = st.Rotation
	c.Velocity = st.LinearVelocity
	c.Speed = speed
}

// LiftForce returns the aerodynamic force a surface with world normal
// produces at velocity v. Angle of attack is the sine of the angle between
// the flow and the surface; a stationary surface makes no lift.
func LiftForce(v, normal mgl64.Vec3, lift float64) mgl64.Vec3 {
	speed := v.Len()
	if speed < geomEpsilon {
		return mgl64.Vec3{}
	}
	aoa := -Normalize0(v).Dot(normal)
	return normal.Mul(speed * lift * aoa)
}
