package sim

import (
	"strings"
	"testing"
)

func TestSimLog_FilterAndCount(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(1, "M0", CategoryFire, KeyLaunch, "right rail -> T0", 50)
	sl.Add(2, "M1", CategoryFire, KeyLaunch, "left rail -> T0", 50)
	sl.Add(40, "M0", CategoryMissile, KeyImpact, "T0 at 0.4u", 0.4)

	if n := sl.CountCategory(CategoryFire, ""); n != 2 {
		t.Fatalf("expected 2 fire entries, got %d", n)
	}
	if n := len(sl.FilterEntity("M0")); n != 2 {
		t.Fatalf("expected 2 entries for M0, got %d", n)
	}
	if n := len(sl.FilterFrameRange(2, 40)); n != 2 {
		t.Fatalf("expected 2 entries in F2..F40, got %d", n)
	}
	if !sl.HasEntry(CategoryFire, KeyLaunch, "left rail") {
		t.Fatal("expected a left-rail launch")
	}
	if sl.HasEntry(CategoryMissile, KeyExpired, "") {
		t.Fatal("no expiry was logged")
	}
	last, ok := sl.LastOf(CategoryFire, KeyLaunch)
	if !ok || last.Entity != "M1" {
		t.Fatalf("last launch should be M1, got %+v", last)
	}
}

func TestSimLog_VerboseGate(t *testing.T) {
	quiet := NewSimLog(false)
	quiet.AddVerbose(1, playerLabel, CategoryFlight, KeySample, "x", 1)
	if quiet.Len() != 0 {
		t.Fatal("verbose entry recorded in quiet log")
	}
	loud := NewSimLog(true)
	loud.AddVerbose(1, playerLabel, CategoryFlight, KeySample, "x", 1)
	if loud.Len() != 1 {
		t.Fatal("verbose entry dropped in verbose log")
	}
}

func TestSimLog_Format(t *testing.T) {
	sl := NewSimLog(false)
	sl.Add(42, "M3", CategoryMissile, KeyImpact, "T1 at 1.4u", 1.4)
	out := sl.Format()
	if !strings.HasPrefix(out, "[F=0042] M3") {
		t.Fatalf("unexpected format %q", out)
	}
	if !strings.Contains(out, "impact") || !strings.HasSuffix(out, "\n") {
		t.Fatalf("unexpected format %q", out)
	}
}

func TestSimLog_VerboseSimRecordsSamples(t *testing.T) {
	ts := NewTestSim(WithVerbose(true), WithPlayer(PlayerStart, 50))
	ts.RunFrames(10, InputSnapshot{})
	if n := ts.SimLog.CountCategory(CategoryFlight, KeySample); n != 10 {
		t.Fatalf("expected 10 flight samples, got %d", n)
	}
	if !ts.SimLog.HasEntry(CategoryFlight, KeyModel, ModelKinematic) {
		t.Fatal("flight model selection should be logged")
	}
	sum := ts.SimLog.Summary(ts.Sim.Frame(), ts.World)
	if !strings.Contains(sum, "speed=50.0") {
		t.Fatalf("summary missing player state:\n%s", sum)
	}
}
