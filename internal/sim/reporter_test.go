package sim

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFlightReporter_Empty(t *testing.T) {
	r := NewFlightReporter(0)
	if r.Latest() != nil || r.WindowSummary() != nil {
		t.Fatal("empty reporter should have no data")
	}
	if out := r.WindowSummary().Format(); !strings.Contains(out, "No data") {
		t.Fatalf("nil window should format as no data, got %q", out)
	}
}

func TestFlightReporter_WindowStats(t *testing.T) {
	ts := NewTestSim(
		WithPlayer(PlayerStart, MinSpeed),
		WithTarget("alpha", PlayerStart.Add(mgl64.Vec3{250, 0, 0})),
		WithLock("alpha"),
	)
	r := NewFlightReporter(10000)
	r.Collect(ts.Sim)
	for i := 0; i < 3; i++ {
		ts.Fire(InputSnapshot{Accel: 1})
	}
	for i := 0; i < 30; i++ {
		ts.RunFrames(10, InputSnapshot{Accel: 1})
		r.Collect(ts.Sim)
	}

	wr := r.WindowSummary()
	if wr.SampleCount != 31 {
		t.Fatalf("expected 31 samples, got %d", wr.SampleCount)
	}
	if wr.MinSpeed > wr.AvgSpeed || wr.AvgSpeed > wr.MaxSpeed {
		t.Fatalf("speed stats out of order: min=%.1f avg=%.1f max=%.1f", wr.MinSpeed, wr.AvgSpeed, wr.MaxSpeed)
	}
	if wr.MinSpeed != MinSpeed || wr.MaxSpeed > MaxSpeed {
		t.Fatalf("speed range %.1f..%.1f outside envelope", wr.MinSpeed, wr.MaxSpeed)
	}
	if wr.Launched != 3 {
		t.Fatalf("expected 3 launches in window, got %d", wr.Launched)
	}
	if wr.Impacts+wr.Expiries != 3 {
		t.Fatalf("all 3 missiles should resolve within 5 s, got %d impacts %d expired",
			wr.Impacts, wr.Expiries)
	}
	out := wr.Format()
	for _, want := range []string{"=== Flight Report", "--- Envelope ---", "--- Weapons ---", "launched=3"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFlightReporter_WindowDropsOldSamples(t *testing.T) {
	ts := NewTestSim(WithPlayer(PlayerStart, 50))
	r := NewFlightReporter(60)
	for i := 0; i < 10; i++ {
		ts.RunFrames(30, InputSnapshot{})
		r.Collect(ts.Sim)
	}
	wr := r.WindowSummary()
	if wr.FromFrame < wr.ToFrame-60 {
		t.Fatalf("window %d..%d wider than 60 frames", wr.FromFrame, wr.ToFrame)
	}
	if wr.SampleCount != 3 {
		t.Fatalf("expected 3 samples in a 60-frame window at 30-frame spacing, got %d", wr.SampleCount)
	}
	if len(r.History()) != 10 {
		t.Fatalf("history should keep every sample, got %d", len(r.History()))
	}
	if !strings.Contains(r.FormatLatest(), "F=300") {
		t.Fatalf("latest snapshot should be frame 300:\n%s", r.FormatLatest())
	}
}

func TestAutopilot_ScriptLoopsAndFires(t *testing.T) {
	a := NewAutopilot(0.5,
		Maneuver{Name: "a", Duration: 1, Input: InputSnapshot{Accel: 1}},
		Maneuver{Name: "b", Duration: 0.5, Input: InputSnapshot{Brake: 1}},
	)
	a.FireEvery = 1
	a.LockOnFire = true

	var names []string
	fires := 0
	for i := 0; i < 6; i++ {
		names = append(names, a.Current().Name)
		ctx := a.Frame(Viewport{100, 100}, false)
		fires += ctx.FirePressed
		if ctx.FirePressed > 0 && !ctx.LockPressed {
			t.Fatal("lock should be pressed alongside fire when unlocked")
		}
	}
	want := "a a b a a b"
	if got := strings.Join(names, " "); got != want {
		t.Fatalf("script order %q, want %q", got, want)
	}
	if fires != 3 {
		t.Fatalf("expected 3 launches in 3 s, got %d", fires)
	}
}
