package sim

import (
	"math/rand"
	"testing"
)

func TestScenarioNames_Sorted(t *testing.T) {
	names := ScenarioNames()
	if len(names) != 3 || names[0] != "gunnery" || names[1] != "orbit" || names[2] != "patrol" {
		t.Fatalf("unexpected scenarios %v", names)
	}
	if _, ok := ScenarioByName("dogfight"); ok {
		t.Fatal("unknown scenario should not resolve")
	}
}

func TestScenarios_RunWithinEnvelope(t *testing.T) {
	for _, name := range ScenarioNames() {
		sc, _ := ScenarioByName(name)
		for _, model := range []string{ModelKinematic, ModelDynamics} {
			ts := NewTestSim(append(sc.Options(7), WithFlightModel(model))...)
			ap := sc.Autopilot(ts.DT)
			for i := 0; i < 600; i++ {
				ts.Step(ap.Frame(ts.Viewport, ts.World.Player.Target.Valid()))
				if s := ts.World.Player.Speed; s < MinSpeed || s > MaxSpeed {
					t.Fatalf("%s/%s frame %d: speed %.3f outside envelope", name, model, i, s)
				}
			}
			if ts.CountEvents(EventMissileLaunched) == 0 {
				t.Errorf("%s/%s: autopilot never fired", name, model)
			}
		}
	}
}

func TestScenario_SeedIsDeterministic(t *testing.T) {
	sc, _ := ScenarioByName("gunnery")
	a := NewTestSim(sc.Options(11)...)
	b := NewTestSim(sc.Options(11)...)
	c := NewTestSim(sc.Options(12)...)
	pa, _ := a.World.TargetPosition(a.Target("g2"))
	pb, _ := b.World.TargetPosition(b.Target("g2"))
	pc, _ := c.World.TargetPosition(c.Target("g2"))
	if pa != pb {
		t.Fatal("same seed should give the same layout")
	}
	if pa == pc {
		t.Fatal("different seeds should jitter the layout")
	}
}

func TestPopulateRange(t *testing.T) {
	w := NewWorld()
	PopulateRange(w, rand.New(rand.NewSource(3)))
	if w.Player == nil {
		t.Fatal("range should spawn the player")
	}
	if w.Targets.Len() != 9 {
		t.Fatalf("expected 9 drones, got %d", w.Targets.Len())
	}
}
