package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Missile guidance constants.
const (
	MissileLifetime  = 5.0   // seconds
	MissileTurnRate  = 1.5   // heading blend per second
	MissileAccel     = 50.0  // speed units per second
	MissileMaxSpeed  = 400.0 // speed cap
	MissileHitRadius = 2.0   // proximity fuse distance
	MissileMaxTurn   = math.Pi / 2

	missileDrop = 0.5 // launch offset below the craft
	missileRail = 1.0 // launch offset to either side
)

// Rail is the hardpoint a missile launches from.
type Rail int

const (
	RailRight Rail = iota
	RailLeft
)

func (r Rail) String() string {
	if r == RailLeft {
		return "left"
	}
	return "right"
}

// RailFor returns the hardpoint used for the n-th missile (zero-based).
// Launches alternate right, left, right...
func RailFor(fired uint32) Rail {
	if fired%2 == 0 {
		return RailRight
	}
	return RailLeft
}

// MissileOutcome is the result of one guidance update.
type MissileOutcome int

const (
	MissileFlying MissileOutcome = iota
	MissileImpact
	MissileExpired
)

func (o MissileOutcome) String() string {
	switch o {
	case MissileImpact:
		return "impact"
	case MissileExpired:
		return "expired"
	default:
		return "flying"
	}
}

// Missile flies along its body +Y axis.
type Missile struct {
	Transform
	Target   Handle[Target]
	Speed    float64
	Lifetime float64
	Rail     Rail
	Velocity mgl64.Vec3
}

// LaunchMissile builds the missile the craft's next launch produces. It does
// not touch the craft; the caller bumps MissilesFired.
func LaunchMissile(c *Craft) Missile {
	rail := RailFor(c.MissilesFired)
	side := missileRail
	if rail == RailLeft {
		side = -missileRail
	}
	pos := c.Position.
		Sub(c.Up().Mul(missileDrop)).
		Add(c.Right().Mul(side))
	rot := c.Rotation.Mul(mgl64.QuatRotate(-math.Pi/2, AxisZ)).Normalize()
	return Missile{
		Transform: Transform{Position: pos, Rotation: rot},
		Target:    c.Target,
		Speed:     c.Speed,
		Lifetime:  MissileLifetime,
		Rail:      rail,
	}
}

// Heading is the unit body +Y axis, or zero for a degenerate rotation.
func (m *Missile) Heading() mgl64.Vec3 {
	return Normalize0(m.Rotation.Rotate(AxisY))
}

// SteerDirection returns the heading the missile takes this frame. The
// heading only bends toward the target while the target lies within
// MissileMaxTurn of the current heading; otherwise it holds.
func SteerDirection(current, toTarget mgl64.Vec3, dt float64) mgl64.Vec3 {
	desired := Normalize0(toTarget)
	if IsZero(desired) {
		return current
	}
	if AngleBetween(current, desired) >= MissileMaxTurn {
		return current
	}
	dir := Normalize0(LerpVec(current, desired, Clamp01(dt*MissileTurnRate)))
	if IsZero(dir) {
		return current
	}
	return dir
}

// Update advances the missile by dt. targetPos is ignored unless hasTarget
// is set; without a target the missile flies straight.
func (m *Missile) Update(targetPos mgl64.Vec3, hasTarget bool, dt float64) MissileOutcome {
	if dt < 0 {
		dt = 0
	}
	start := m.Position

	current := m.Heading()
	dir := current
	if hasTarget {
		dir = SteerDirection(current, targetPos.Sub(m.Position), dt)
	}
	m.Velocity = dir.Mul(m.Speed)
	m.Speed = mgl64.Clamp(m.Speed+dt*MissileAccel, 0, MissileMaxSpeed)

	m.Position = m.Position.Add(m.Velocity.Mul(dt))
	if heading := Normalize0(m.Velocity); !IsZero(heading) {
		m.Rotation = Arc(AxisY, heading)
	}

	m.Lifetime -= dt
	if hasTarget && segmentDistance(start, m.Position, targetPos) < MissileHitRadius {
		return MissileImpact
	}
	if m.Lifetime < 0 {
		return MissileExpired
	}
	return MissileFlying
}

// segmentDistance is the closest distance from p to the segment a-b, so a
// fast missile cannot step over its target between frames.
func segmentDistance(a, b, p mgl64.Vec3) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < geomEpsilon {
		return p.Sub(a).Len()
	}
	t := Clamp01(p.Sub(a).Dot(ab) / l2)
	return p.Sub(a.Add(ab.Mul(t))).Len()
}
