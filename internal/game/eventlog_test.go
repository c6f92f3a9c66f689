package game

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

func TestEventLog_WrapsOldestFirst(t *testing.T) {
	el := NewEventLog()
	for i := 0; i < logMaxEntries+5; i++ {
		el.Add(sim.Event{Kind: sim.EventMissileLaunched, Frame: i})
	}
	got := el.Recent()
	if len(got) != logMaxEntries {
		t.Fatalf("expected %d entries, got %d", logMaxEntries, len(got))
	}
	if got[0].Frame != 5 || got[len(got)-1].Frame != logMaxEntries+4 {
		t.Fatalf("ring order wrong: first=%d last=%d", got[0].Frame, got[len(got)-1].Frame)
	}
}

func TestEventLog_FromSim(t *testing.T) {
	ts := sim.NewTestSim(
		sim.WithPlayer(sim.PlayerStart, 50),
		sim.WithTarget("alpha", sim.PlayerStart.Add(mgl64.Vec3{250, 0, 0})),
		sim.WithLock("alpha"),
	)
	el := NewEventLog()
	el.AddAll(ts.Fire(sim.InputSnapshot{}).Events)
	got := el.Recent()
	if len(got) != 1 || got[0].Kind != sim.EventMissileLaunched {
		t.Fatalf("expected one launch entry, got %+v", got)
	}
	if !strings.Contains(got[0].Message, "launch") {
		t.Fatalf("message should name the event, got %q", got[0].Message)
	}
}

func TestFlightDebugReport(t *testing.T) {
	ts := sim.NewTestSim(
		sim.WithPlayer(sim.PlayerStart, 50),
		sim.WithTarget("alpha", sim.PlayerStart.Add(mgl64.Vec3{250, 0, 0})),
		sim.WithLock("alpha"),
	)
	r := sim.NewFlightReporter(0)
	st := sim.NewSortieTracker()
	st.Update(ts.Sim, ts.Fire(sim.InputSnapshot{}))
	r.Collect(ts.Sim)

	out := flightDebugReport(ts.Sim, r, st, 0)
	for _, want := range []string{"--- Ace Sky debug report ---", "model=kinematic", "== sim log ==", "launch", "grade="} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
