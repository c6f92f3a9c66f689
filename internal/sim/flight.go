package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Flight envelope shared by both flight models.
const (
	RollSpeed  = 0.9  // rad/s at full stick
	PitchSpeed = 1.8  // rad/s at full stick
	YawSpeed   = 0.25 // rad/s at full rudder
	MinSpeed   = 20.0
	MaxSpeed   = 100.0
	Accel      = 20.0 // speed units per second at full throttle
	Brake      = 30.0 // speed units per second at full brake
)

// Player start state.
var (
	PlayerStart      = mgl64.Vec3{0, 400, 0}
	PlayerStartSpeed = 10.0
)

// Craft is the player aircraft. Forward is body +X.
type Craft struct {
	Transform
	// Speed is the scalar forward speed. The dynamics model mirrors its
	// linear speed into it after every step.
	Speed float64
	// Velocity is the world-space velocity.
	Velocity      mgl64.Vec3
	MissilesFired uint32
	Target        Handle[Target]
}

// NewCraft returns a level craft at pos. Speed is clamped into the flight
// envelope immediately.
func NewCraft(pos mgl64.Vec3, speed float64) *Craft {
	c := &Craft{Transform: NewTransform(pos)}
	c.Speed = ClampSpeed(speed)
	c.Velocity = c.Forward().Mul(c.Speed)
	return c
}

// ClampSpeed forces speed into [MinSpeed, MaxSpeed].
func ClampSpeed(speed float64) float64 {
	if math.IsNaN(speed) {
		return MinSpeed
	}
	return mgl64.Clamp(speed, MinSpeed, MaxSpeed)
}

// SpeedRatio maps a speed to [0, 1] across the flight envelope.
func SpeedRatio(speed float64) float64 {
	return Clamp01((speed - MinSpeed) / (MaxSpeed - MinSpeed))
}

// SpeedKMH is the readout shown on the HUD.
func (c *Craft) SpeedKMH() int {
	return int(math.Round(c.Speed * 25))
}

// AltitudeMeters is the readout shown on the HUD.
func (c *Craft) AltitudeMeters() int {
	return int(c.Position.Y() * 5)
}

// FlightModel advances the craft by one frame.
type FlightModel interface {
	Name() string
	Step(c *Craft, in InputSnapshot, dt float64)
}

// Resetter is implemented by flight models that carry state between
// frames. New calls Reset so a model reused across worlds starts at rest.
type Resetter interface {
	Reset()
}

// Flight model names accepted by NewFlightModel.
const (
	ModelKinematic = "kinematic"
	ModelDynamics  = "dynamics"
)

// NewFlightModel returns the model registered under name, falling back to
// the kinematic model for unknown names. The second result reports whether
// name was recognised.
func NewFlightModel(name string, tuning DynamicsTuning) (FlightModel, bool) {
	switch name {
	case ModelDynamics:
		return NewDynamicsModel(tuning, nil), true
	case ModelKinematic, "":
		return KinematicModel{}, name != ""
	default:
		return KinematicModel{}, false
	}
}

// KinematicModel rotates the craft directly from stick input and flies it
// along its nose at a scalar speed.
type KinematicModel struct{}

func (KinematicModel) Name() string { return ModelKinematic }

// Step applies one frame of kinematic flight.
func (KinematicModel) Step(c *Craft, in InputSnapshot, dt float64) {
	if c == nil || dt <= 0 {
		return
	}
	in = in.Clamped()

	pitch := in.Axis.X() * dt * PitchSpeed
	roll := -in.Axis.Y() * dt * RollSpeed
	yaw := in.Yaw * dt * YawSpeed
	c.Rotation = c.Rotation.Mul(YawPitchRoll(yaw, pitch, roll)).Normalize()

	c.Speed = ClampSpeed(c.Speed + in.Accel*dt*Accel - in.Brake*dt*Brake)

	c.Velocity = c.Forward().Mul(c.Speed)
	c.Position = c.Position.Add(c.Velocity.Mul(dt))
}
