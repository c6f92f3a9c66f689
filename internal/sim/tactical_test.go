package sim

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// --- Marker pool ---

func pts(n int) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, n)
	for i := range out {
		out[i] = mgl64.Vec2{float64(i * 10), float64(i * 5)}
	}
	return out
}

func TestMarkerPool_Sizing3To1To4(t *testing.T) {
	rec := NewMarkerRecorder()
	pool := NewMarkerPool(rec, MarkerReticle)

	for _, n := range []int{3, 1, 4} {
		pool.Reconcile(pts(n))
		if pool.Len() != n {
			t.Fatalf("pool length %d, want %d", pool.Len(), n)
		}
		if live := rec.Live(MarkerReticle); live != n {
			t.Fatalf("factory holds %d markers, want %d (leak)", live, n)
		}
	}
	if rec.Created-rec.Destroyed != 4 {
		t.Fatalf("created %d destroyed %d", rec.Created, rec.Destroyed)
	}
	if rec.Unknown != 0 {
		t.Fatalf("%d operations on unknown handles", rec.Unknown)
	}

	// Positions are zipped in order.
	got := rec.Markers(MarkerReticle)
	want := pts(4)
	for i, m := range got {
		if m.Position != want[i] {
			t.Fatalf("marker %d at %v, want %v", i, m.Position, want[i])
		}
	}
}

func TestMarkerPool_TailIsDestroyedFirst(t *testing.T) {
	rec := NewMarkerRecorder()
	pool := NewMarkerPool(rec, MarkerRadarDot)
	pool.Reconcile(pts(3))
	first := pool.Handles()[0]
	pool.Reconcile(pts(1))
	if pool.Handles()[0] != first {
		t.Fatal("shrinking should keep the head marker")
	}
}

func TestMarkerPool_ClearAndNilFactory(t *testing.T) {
	rec := NewMarkerRecorder()
	pool := NewMarkerPool(rec, MarkerReticle)
	pool.Reconcile(pts(5))
	pool.Clear()
	if rec.Live(MarkerReticle) != 0 {
		t.Fatal("clear should destroy every marker")
	}
	var nilPool *MarkerPool
	nilPool.Reconcile(pts(2)) // must not panic
}

func TestMarkerPool_ThroughSim(t *testing.T) {
	ts := NewTestSim(WithPlayer(PlayerStart, 50))
	add := func(n int) {
		for i := 0; i < n; i++ {
			ts.World.SpawnTarget("drone", PlayerStart.Add(mgl64.Vec3{300, float64(i) * 10, 0}), nil)
		}
	}
	add(3)
	ts.RunFrames(1, InputSnapshot{})
	if got := ts.Sim.Radar().Len(); got != 3 {
		t.Fatalf("radar pool %d, want 3", got)
	}
	hs := ts.World.Targets.Handles()
	ts.Sim.RemoveTarget(hs[1])
	ts.Sim.RemoveTarget(hs[2])
	ts.RunFrames(1, InputSnapshot{})
	if got := ts.Sim.Radar().Len(); got != 1 {
		t.Fatalf("radar pool %d, want 1", got)
	}
	add(3)
	ts.RunFrames(1, InputSnapshot{})
	if got := ts.Sim.Radar().Len(); got != 4 {
		t.Fatalf("radar pool %d, want 4", got)
	}
	if got := ts.Markers.Live(MarkerRadarDot); got != 4 {
		t.Fatalf("factory holds %d radar markers, want 4", got)
	}
	if got := ts.Markers.Live(MarkerReticle); got != ts.Sim.Reticles().Len() {
		t.Fatalf("reticle factory/pool mismatch: %d vs %d", got, ts.Sim.Reticles().Len())
	}
}

// --- Radar ---

func TestRadarOffset_Quadrants(t *testing.T) {
	player := NewTransform(mgl64.Vec3{0, 400, 0}) // facing +X, right is +Z
	cases := []struct {
		name   string
		target mgl64.Vec3
		want   mgl64.Vec2
	}{
		{"ahead", mgl64.Vec3{500, 400, 0}, mgl64.Vec2{0, 500}},
		{"behind", mgl64.Vec3{-500, 400, 0}, mgl64.Vec2{0, -500}},
		{"right", mgl64.Vec3{0, 400, 500}, mgl64.Vec2{500, 0}},
		{"left", mgl64.Vec3{0, 400, -500}, mgl64.Vec2{-500, 0}},
		{"height ignored", mgl64.Vec3{500, 900, 0}, mgl64.Vec2{0, 500}},
	}
	for _, c := range cases {
		got := RadarOffset(player, c.target)
		if math.Abs(got.X()-c.want.X()) > 1e-6 || math.Abs(got.Y()-c.want.Y()) > 1e-6 {
			t.Errorf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestRadarOffset_FollowsHeading(t *testing.T) {
	// Yawed to face -Z: world +X is now on the right.
	player := Transform{Rotation: mgl64.QuatRotate(math.Pi/2, AxisY)}
	got := RadarOffset(player, mgl64.Vec3{300, 0, 0})
	if math.Abs(got.X()-300) > 1e-6 || math.Abs(got.Y()) > 1e-6 {
		t.Fatalf("got %v, want (300, 0)", got)
	}
}

func TestRadarOffset_VerticalNoseFallsBackToIdentity(t *testing.T) {
	player := Transform{Rotation: mgl64.QuatRotate(math.Pi/2, AxisZ)} // nose straight up
	got := RadarOffset(player, mgl64.Vec3{10, 0, 20})
	for _, c := range got {
		if math.IsNaN(c) {
			t.Fatal("radar offset is NaN")
		}
	}
	if math.Abs(got.X()+10) > 1e-9 || math.Abs(got.Y()-20) > 1e-9 {
		t.Fatalf("identity fallback expected (-10, 20), got %v", got)
	}
}

func TestRadarPercent(t *testing.T) {
	if got := RadarPercent(mgl64.Vec2{}); got != (mgl64.Vec2{50, 50}) {
		t.Fatalf("centre should be 50/50, got %v", got)
	}
	if got := RadarPercent(mgl64.Vec2{500, -500}); got != (mgl64.Vec2{75, 25}) {
		t.Fatalf("got %v, want (75, 25)", got)
	}
}

func TestRadarExclusion_AndRestore(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(mgl64.Vec3{0, 400, 0}, MinSpeed),
		WithTarget("far", mgl64.Vec3{RadarRange + 500, 400, 0}),
	)
	ts.RunFrames(1, InputSnapshot{})
	if n := len(ts.Sim.Tactical().Radar); n != 0 {
		t.Fatalf("target beyond range should have no radar marker, got %d", n)
	}
	if ts.Markers.Live(MarkerRadarDot) != 0 {
		t.Fatal("radar factory should be empty")
	}

	tgt, _ := ts.World.Target(ts.Target("far"))
	tgt.Position = mgl64.Vec3{500, 400, 0}
	ts.RunFrames(1, InputSnapshot{})
	radar := ts.Sim.Tactical().Radar
	if len(radar) != 1 || radar[0].Target != ts.Target("far") {
		t.Fatalf("target back in range should get a marker, got %v", radar)
	}
	if ts.Markers.Live(MarkerRadarDot) != 1 {
		t.Fatal("radar factory should hold one marker")
	}
}

func TestRadarExclusion_BoundaryIsExclusive(t *testing.T) {
	if InRadarRange(mgl64.Vec2{RadarRange, 0}) {
		t.Fatal("exactly at range should be excluded")
	}
	if !InRadarRange(mgl64.Vec2{RadarRange - 1, -(RadarRange - 1)}) {
		t.Fatal("inside the square should be included")
	}
}

// --- Screen reticles ---

func TestScreenMarks_OnlyVisibleInOrder(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(PlayerStart, 50),
		WithTarget("left", PlayerStart.Add(mgl64.Vec3{300, 0, -40})),
		WithTarget("behind", PlayerStart.Add(mgl64.Vec3{-300, 0, 0})),
		WithTarget("right", PlayerStart.Add(mgl64.Vec3{300, 0, 40})),
		WithTarget("wide", PlayerStart.Add(mgl64.Vec3{10, 0, 500})),
	)
	ts.RunFrames(1, InputSnapshot{})
	marks := ts.Sim.Tactical().Reticles
	if len(marks) != 2 {
		t.Fatalf("expected 2 on-screen targets, got %d", len(marks))
	}
	if marks[0].Target != ts.Target("left") || marks[1].Target != ts.Target("right") {
		t.Fatalf("reticles out of enumeration order: %v", marks)
	}
	if marks[0].Point.X() >= marks[1].Point.X() {
		t.Fatal("left target should be left of right target on screen")
	}
	if ts.Markers.Live(MarkerReticle) != 2 {
		t.Fatalf("factory should hold 2 reticles, got %d", ts.Markers.Live(MarkerReticle))
	}
}

func TestScreenMarks_NoCamera(t *testing.T) {
	ts := NewTestSim(
		WithoutCamera(),
		WithPlayer(PlayerStart, 50),
		WithTarget("a", PlayerStart.Add(mgl64.Vec3{300, 0, 0})),
	)
	ts.RunFrames(1, InputSnapshot{})
	tf := ts.Sim.Tactical()
	if len(tf.Reticles) != 0 {
		t.Fatal("no camera means no reticles")
	}
	if len(tf.Radar) != 1 {
		t.Fatal("radar does not need a camera")
	}
}

func TestTacticalFrame_ReportsLockedScreenPosition(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(PlayerStart, 50),
		WithTarget("a", PlayerStart.Add(mgl64.Vec3{300, 0, 30})),
		WithLock("a"),
	)
	ts.RunFrames(1, InputSnapshot{})
	tf := ts.Sim.Tactical()
	if !tf.LockVisible {
		t.Fatal("locked target on screen should be reported")
	}
	if tf.LockedScreen != tf.Reticles[0].Point {
		t.Fatalf("locked position %v should match its reticle %v", tf.LockedScreen, tf.Reticles[0].Point)
	}
}
