package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestMissile(pos mgl64.Vec3, heading mgl64.Vec3, speed float64) *Missile {
	return &Missile{
		Transform: Transform{Position: pos, Rotation: Arc(AxisY, heading)},
		Speed:     speed,
		Lifetime:  MissileLifetime,
	}
}

// --- Launch ---

func TestLaunchMissile_RailsAlternate(t *testing.T) {
	c := NewCraft(mgl64.Vec3{}, 50)
	wantRails := []Rail{RailRight, RailLeft, RailRight, RailLeft}
	wantZ := []float64{1, -1, 1, -1}
	for i := range wantRails {
		m := LaunchMissile(c)
		c.MissilesFired++
		if m.Rail != wantRails[i] {
			t.Fatalf("launch %d: rail %s, want %s", i, m.Rail, wantRails[i])
		}
		want := mgl64.Vec3{0, -missileDrop, wantZ[i]}
		if !vecNear(m.Position, want, 1e-9) {
			t.Fatalf("launch %d: position %v, want %v", i, m.Position, want)
		}
	}
}

func TestLaunchMissile_InheritsCraft(t *testing.T) {
	c := NewCraft(mgl64.Vec3{10, 400, -3}, 72)
	c.Rotation = YawPitchRoll(0.7, 0.1, 0.2)
	c.Target = Handle[Target]{index: 3, gen: 1}
	m := LaunchMissile(c)
	if m.Speed != 72 {
		t.Fatalf("speed %.1f should be inherited", m.Speed)
	}
	if m.Target != c.Target {
		t.Fatal("missile should take the craft's lock")
	}
	if m.Lifetime != MissileLifetime {
		t.Fatalf("lifetime %.2f", m.Lifetime)
	}
	if !vecNear(m.Heading(), c.Forward(), 1e-9) {
		t.Fatalf("missile should head along the nose: %v vs %v", m.Heading(), c.Forward())
	}
}

// --- Homing ---

func TestMissileTurnLimit_BehindTargetHoldsHeading(t *testing.T) {
	for _, target := range []mgl64.Vec3{
		{0, -100, 0},  // dead astern
		{100, -1, 0},  // just past 90 degrees
		{0, -50, 200}, // well off to the side and behind
	} {
		m := newTestMissile(mgl64.Vec3{}, AxisY, 100)
		m.Update(target, true, 1.0/60)
		if !vecNear(m.Heading(), AxisY, 1e-9) {
			t.Errorf("target %v: heading changed to %v", target, m.Heading())
		}
	}
}

func TestMissileTurn_BendsTowardTargetWithoutSnapping(t *testing.T) {
	m := newTestMissile(mgl64.Vec3{}, AxisY, 100)
	target := mgl64.Vec3{100, 100, 0}
	before := AngleBetween(m.Heading(), target)
	m.Update(target, true, 1.0/60)
	after := AngleBetween(m.Heading(), target.Sub(m.Position))
	if after >= before {
		t.Fatalf("heading should close on target: %.4f -> %.4f", before, after)
	}
	if after < 0.1 {
		t.Fatalf("heading snapped onto target in one frame (%.4f rad left)", after)
	}
}

func TestSteerDirection_ZeroOffsetKeepsHeading(t *testing.T) {
	if got := SteerDirection(AxisY, mgl64.Vec3{}, 0.1); got != AxisY {
		t.Fatalf("zero offset should keep heading, got %v", got)
	}
}

func TestMissile_BallisticWithoutTarget(t *testing.T) {
	m := newTestMissile(mgl64.Vec3{}, AxisX, 100)
	for i := 0; i < 30; i++ {
		if out := m.Update(mgl64.Vec3{0, 1, 0}, false, 1.0/60); out != MissileFlying {
			t.Fatalf("frame %d: unexpected outcome %s", i, out)
		}
	}
	if !vecNear(m.Heading(), AxisX, 1e-9) {
		t.Fatalf("ballistic missile turned: %v", m.Heading())
	}
	if math.Abs(m.Position.Y()) > 1e-9 || math.Abs(m.Position.Z()) > 1e-9 {
		t.Fatalf("ballistic missile left its line: %v", m.Position)
	}
}

func TestMissile_VelocityUsesSpeedBeforeAcceleration(t *testing.T) {
	m := newTestMissile(mgl64.Vec3{}, AxisY, 100)
	m.Update(mgl64.Vec3{}, false, 0.1)
	if math.Abs(m.Position.Y()-10) > 1e-9 {
		t.Fatalf("should travel 100*0.1, got %.6f", m.Position.Y())
	}
	if math.Abs(m.Speed-105) > 1e-9 {
		t.Fatalf("speed should then rise by 50*0.1, got %.6f", m.Speed)
	}
}

func TestMissile_SpeedNonDecreasingAndCapped(t *testing.T) {
	m := newTestMissile(mgl64.Vec3{}, AxisY, 380)
	prev := m.Speed
	for i := 0; i < 120; i++ {
		m.Update(mgl64.Vec3{}, false, 1.0/60)
		if m.Speed < prev {
			t.Fatalf("speed decreased %.3f -> %.3f", prev, m.Speed)
		}
		if m.Speed > MissileMaxSpeed {
			t.Fatalf("speed %.3f above cap", m.Speed)
		}
		prev = m.Speed
	}
	if m.Speed != MissileMaxSpeed {
		t.Fatalf("speed should settle at cap, got %.3f", m.Speed)
	}
}

// --- Termination ---

func TestMissileTermination_Distance(t *testing.T) {
	m := newTestMissile(mgl64.Vec3{}, AxisY, 100)
	if out := m.Update(mgl64.Vec3{1, 0, 0}, true, 1.0/60); out != MissileImpact {
		t.Fatalf("target within fuse range should impact, got %s", out)
	}
}

func TestMissileTermination_FastMissileCannotTunnel(t *testing.T) {
	// Moves 400*0.05 = 20 units in one step, straight through the target.
	m := newTestMissile(mgl64.Vec3{}, AxisY, MissileMaxSpeed)
	if out := m.Update(mgl64.Vec3{0.5, 10, 0}, true, 0.05); out != MissileImpact {
		t.Fatalf("pass-through should count as impact, got %s", out)
	}
}

func TestMissileTermination_Lifetime(t *testing.T) {
	m := newTestMissile(mgl64.Vec3{}, AxisY, 100)
	m.Lifetime = -0.01
	if out := m.Update(mgl64.Vec3{0, 5000, 0}, true, 1.0/60); out != MissileExpired {
		t.Fatalf("expired missile should be removed, got %s", out)
	}
}

func TestMissileTermination_LifetimeCountdown(t *testing.T) {
	m := newTestMissile(mgl64.Vec3{}, AxisY, 20)
	frames := 0
	for m.Update(mgl64.Vec3{}, false, 1.0/60) == MissileFlying {
		frames++
		if frames > 1000 {
			t.Fatal("missile never expired")
		}
	}
	// 5 s at 60 FPS, expiry once the countdown drops below zero.
	if frames < 299 || frames > 301 {
		t.Fatalf("expected ~300 frames of flight, got %d", frames)
	}
}

// --- Through the pipeline ---

func TestMissile_HitsLockedTarget(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(PlayerStart, 50),
		WithTarget("alpha", PlayerStart.Add(mgl64.Vec3{300, 0, 20})),
		WithLock("alpha"),
	)
	ts.Fire(InputSnapshot{})
	if ts.World.Missiles.Len() != 1 {
		t.Fatalf("expected one missile in flight, got %d", ts.World.Missiles.Len())
	}
	hit := ts.RunUntil(func(ts *TestSim) bool {
		return ts.CountEvents(EventMissileImpact) > 0
	}, InputSnapshot{}, 300)
	if hit < 0 {
		t.Fatalf("missile never hit\n%s", ts.SimLog.Format())
	}
	if ts.World.Missiles.Len() != 0 {
		t.Fatal("impacting missile should be removed")
	}
	if !ts.SimLog.HasEntry(CategoryMissile, KeyImpact, "T0") {
		t.Fatalf("impact not logged\n%s", ts.SimLog.Format())
	}
}

func TestMissile_TargetDestroyedMidFlightGoesBallistic(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(PlayerStart, 50),
		WithTarget("alpha", PlayerStart.Add(mgl64.Vec3{600, 0, 200})),
		WithLock("alpha"),
	)
	ts.Fire(InputSnapshot{})
	ts.RunFrames(5, InputSnapshot{})
	ts.Sim.RemoveTarget(ts.Target("alpha"))

	h := ts.World.Missiles.Handles()[0]
	m, _ := ts.World.Missiles.Get(h)
	heading := m.Heading()

	ts.RunFrames(30, InputSnapshot{})
	m, ok := ts.World.Missiles.Get(h)
	if !ok {
		t.Fatal("missile should still be flying")
	}
	if !vecNear(m.Heading(), heading, 1e-9) {
		t.Fatalf("missile kept homing on a removed target: %v -> %v", heading, m.Heading())
	}
	if ts.World.Player.Target.Valid() {
		t.Fatal("lock on a removed target should clear")
	}
	if ts.CountEvents(EventLockLost) != 1 {
		t.Fatalf("expected one lock-lost event, got %d", ts.CountEvents(EventLockLost))
	}
}

func TestMissile_MultipleFirePressesInOneFrame(t *testing.T) {
	ts := NewTestSim(WithPlayer(PlayerStart, 50))
	ctx := ts.Frame(InputSnapshot{})
	ctx.FirePressed = 3
	res := ts.Step(ctx)
	if got := ts.World.Player.MissilesFired; got != 3 {
		t.Fatalf("expected 3 launches, got %d", got)
	}
	launched := 0
	for _, e := range res.Events {
		if e.Kind == EventMissileLaunched {
			launched++
		}
	}
	if launched != 3 {
		t.Fatalf("expected 3 launch events, got %d", launched)
	}
}
