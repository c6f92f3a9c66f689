package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func mark(idx uint32, x, y float64) TacticalMark {
	return TacticalMark{Target: Handle[Target]{index: idx, gen: 1}, Point: mgl64.Vec2{x, y}}
}

func TestCycleLock_Wraps(t *testing.T) {
	visible := []TacticalMark{mark(0, 100, 100), mark(2, 200, 100), mark(5, 300, 100)}
	cur := Handle[Target]{}
	var order []int
	for i := 0; i < 4; i++ {
		cur = CycleLock(cur, visible)
		order = append(order, cur.Index())
	}
	want := []int{0, 2, 5, 0}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("cycle order %v, want %v", order, want)
		}
	}
}

func TestCycleLock_EmptyClears(t *testing.T) {
	if h := CycleLock(Handle[Target]{index: 1, gen: 1}, nil); h.Valid() {
		t.Fatalf("no visible targets should clear the lock, got %v", h)
	}
}

func TestLockNearest_PicksCentre(t *testing.T) {
	vp := Viewport{Width: 800, Height: 600}
	visible := []TacticalMark{mark(0, 10, 10), mark(1, 390, 310), mark(2, 700, 300)}
	if h := LockNearest(visible, vp); h.Index() != 1 {
		t.Fatalf("expected T1 nearest centre, got %s", h)
	}
}

func TestLockPress_ThroughSim(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(PlayerStart, 50),
		WithTarget("left", PlayerStart.Add(mgl64.Vec3{300, 0, -40})),
		WithTarget("middle", PlayerStart.Add(mgl64.Vec3{300, 0, 0})),
		WithTarget("right", PlayerStart.Add(mgl64.Vec3{300, 0, 40})),
	)
	ts.RunFrames(1, InputSnapshot{})

	ts.PressLock()
	if got := ts.World.Player.Target; got != ts.Target("middle") {
		t.Fatalf("first press should lock the centre target, got %s", got)
	}
	ts.PressLock()
	if got := ts.World.Player.Target; got != ts.Target("right") {
		t.Fatalf("second press should cycle to the next target, got %s", got)
	}
	ts.PressLock()
	if got := ts.World.Player.Target; got != ts.Target("left") {
		t.Fatalf("third press should wrap, got %s", got)
	}
	if n := ts.CountEvents(EventLockAcquired); n != 3 {
		t.Fatalf("expected 3 lock events, got %d", n)
	}
	if n := ts.SimLog.CountCategory(CategoryLock, KeyAcquired); n != 3 {
		t.Fatalf("expected 3 logged locks, got %d", n)
	}
}

func TestLockPress_NothingVisible(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(PlayerStart, 50),
		WithTarget("behind", PlayerStart.Add(mgl64.Vec3{-300, 0, 0})),
	)
	ts.PressLock()
	if ts.World.Player.Target.Valid() {
		t.Fatal("nothing on screen, nothing to lock")
	}
	if len(ts.Events) != 0 {
		t.Fatalf("no events expected, got %v", ts.Events)
	}
}
