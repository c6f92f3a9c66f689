package sim

import (
	"math"
	"math/rand"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Scenario is a scripted engagement for headless runs and demos.
type Scenario struct {
	Name        string
	Description string
	// Options places the player and drones. The seed jitters drone layout.
	Options func(seed int64) []SimOption
	Script  []Maneuver
	// FireEvery is the autopilot launch interval in seconds.
	FireEvery float64
}

// Autopilot returns a fresh autopilot flying the scenario at dt.
func (sc Scenario) Autopilot(dt float64) *Autopilot {
	a := NewAutopilot(dt, sc.Script...)
	a.FireEvery = sc.FireEvery
	a.LockOnFire = true
	return a
}

func jitter(rng *rand.Rand, spread float64) float64 {
	return (rng.Float64()*2 - 1) * spread
}

var scenarios = map[string]Scenario{
	"gunnery": {
		Name:        "gunnery",
		Description: "static drones strung out ahead of a level cruise",
		Options: func(seed int64) []SimOption {
			rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- layout jitter only
			opts := []SimOption{WithPlayer(PlayerStart, MinSpeed)}
			for i, name := range []string{"g1", "g2", "g3", "g4"} {
				off := mgl64.Vec3{300 + float64(i)*250, jitter(rng, 30), jitter(rng, 80)}
				opts = append(opts, WithTarget(name, PlayerStart.Add(off)))
			}
			return opts
		},
		Script:    []Maneuver{ManeuverCruise},
		FireEvery: 1.5,
	},
	"orbit": {
		Name:        "orbit",
		Description: "drones circling a point ahead while the player weaves",
		Options: func(seed int64) []SimOption {
			rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- layout jitter only
			center := PlayerStart.Add(mgl64.Vec3{600, 0, 0})
			opts := []SimOption{WithPlayer(PlayerStart, MinSpeed)}
			for i, name := range []string{"o1", "o2", "o3"} {
				phase := float64(i)*2*math.Pi/3 + jitter(rng, 0.3)
				opts = append(opts, WithOrbitTarget(name, center, 150+jitter(rng, 30), 0.4, phase))
			}
			return opts
		},
		Script:    []Maneuver{ManeuverCruise, ManeuverBankL, ManeuverCruise, ManeuverBankR},
		FireEvery: 2,
	},
	"patrol": {
		Name:        "patrol",
		Description: "drones crossing the nose on patrol legs",
		Options: func(seed int64) []SimOption {
			rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- layout jitter only
			opts := []SimOption{WithPlayer(PlayerStart, MinSpeed)}
			for i, name := range []string{"p1", "p2"} {
				x := 500 + float64(i)*300 + jitter(rng, 50)
				y := PlayerStart.Y() + jitter(rng, 40)
				opts = append(opts, WithPatrolTarget(name, 25,
					mgl64.Vec3{x, y, -300},
					mgl64.Vec3{x, y, 300},
				))
			}
			return opts
		},
		Script:    []Maneuver{ManeuverCruise, ManeuverClimb, ManeuverCruise, ManeuverDive},
		FireEvery: 2.5,
	},
}

// ScenarioNames lists the registered scenarios alphabetically.
func ScenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for n := range scenarios {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ScenarioByName looks up a scenario.
func ScenarioByName(name string) (Scenario, bool) {
	sc, ok := scenarios[name]
	return sc, ok
}

// PopulateRange spawns the player and a mixed drone field for interactive
// play: a ring of orbiters ahead, two patrols and a few static markers.
func PopulateRange(w *World, rng *rand.Rand) {
	w.SpawnPlayer(PlayerStart, PlayerStartSpeed)

	center := PlayerStart.Add(mgl64.Vec3{700, 0, 0})
	for i := 0; i < 4; i++ {
		o := &OrbitPath{
			Center:       center.Add(mgl64.Vec3{0, jitter(rng, 60), 0}),
			Radius:       200 + jitter(rng, 60),
			AngularSpeed: 0.3 + rng.Float64()*0.2,
			Phase:        float64(i) * math.Pi / 2,
		}
		w.SpawnTarget("orbiter", o.Point(), o)
	}
	for i := 0; i < 2; i++ {
		x := 400 + float64(i)*500
		y := PlayerStart.Y() + jitter(rng, 80)
		p := &PatrolPath{
			Waypoints: []mgl64.Vec3{{x, y, -400}, {x + 200, y, 0}, {x, y, 400}},
			Speed:     30,
		}
		w.SpawnTarget("patrol", p.Waypoints[0], p)
	}
	for i := 0; i < 3; i++ {
		pos := mgl64.Vec3{
			-300 + rng.Float64()*1200,
			PlayerStart.Y() + jitter(rng, 100),
			jitter(rng, 800),
		}
		w.SpawnTarget("beacon", pos, nil)
	}
}
