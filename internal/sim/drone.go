package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Target is a drone the player can lock and shoot.
type Target struct {
	Transform
	Name string
	// Path moves the drone each frame. Nil holds it in place.
	Path Path
}

// Path scripts drone movement.
type Path interface {
	Advance(t *Transform, dt float64)
}

// StaticPath never moves.
type StaticPath struct{}

func (StaticPath) Advance(*Transform, float64) {}

// faceTravel turns t so its body +X points along dir.
func faceTravel(t *Transform, dir mgl64.Vec3) {
	if d := Normalize0(dir); !IsZero(d) {
		t.Rotation = Arc(AxisX, d)
	}
}

// OrbitPath circles Center in the horizontal plane.
type OrbitPath struct {
	Center       mgl64.Vec3
	Radius       float64
	AngularSpeed float64 // rad/s, positive is counter-clockwise seen from above
	Phase        float64 // current angle
}

// Point returns the orbit position at the current phase.
func (o *OrbitPath) Point() mgl64.Vec3 {
	return o.Center.Add(mgl64.Vec3{o.Radius * math.Cos(o.Phase), 0, -o.Radius * math.Sin(o.Phase)})
}

func (o *OrbitPath) Advance(t *Transform, dt float64) {
	prev := o.Point()
	o.Phase = math.Mod(o.Phase+o.AngularSpeed*dt, 2*math.Pi)
	t.Position = o.Point()
	faceTravel(t, t.Position.Sub(prev))
}

// PatrolPath flies a closed loop of waypoints at constant speed.
type PatrolPath struct {
	Waypoints []mgl64.Vec3
	Speed     float64
	next      int
}

// NextWaypoint returns the index the drone is heading for.
func (p *PatrolPath) NextWaypoint() int { return p.next }

func (p *PatrolPath) Advance(t *Transform, dt float64) {
	if len(p.Waypoints) == 0 || p.Speed <= 0 || dt <= 0 {
		return
	}
	budget := p.Speed * dt
	// Bounded so a degenerate loop of identical waypoints cannot spin.
	for i := 0; i <= len(p.Waypoints) && budget > 0; i++ {
		goal := p.Waypoints[p.next]
		to := goal.Sub(t.Position)
		dist := to.Len()
		if dist > budget {
			t.Position = t.Position.Add(to.Mul(budget / dist))
			faceTravel(t, to)
			return
		}
		t.Position = goal
		budget -= dist
		if dist > geomEpsilon {
			faceTravel(t, to)
		}
		p.next = (p.next + 1) % len(p.Waypoints)
	}
}

// AdvanceTargets moves every drone along its path.
func AdvanceTargets(targets *Arena[Target], dt float64) {
	targets.Each(func(_ Handle[Target], t *Target) {
		if t.Path != nil {
			t.Path.Advance(&t.Transform, dt)
			t.Transform = t.Transform.normalized()
		}
	})
}
