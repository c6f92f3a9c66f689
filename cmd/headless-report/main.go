package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Garsondee/Ace-Sky/internal/sim"
	"github.com/Garsondee/Ace-Sky/internal/telemetry"
)

type runStats struct {
	runIndex int
	seed     int64

	firstLockFrame   int
	firstLaunchFrame int
	firstImpactFrame int

	launched     int
	impacts      int
	expiries     int
	lockAcquired int
	lockLost     int
	hitTargets   map[string]struct{}

	windowSummary *sim.WindowReport
	grade         sim.PilotGrade
}

func main() {
	var runs int
	var frames int
	var seedBase int64
	var seedStep int64
	var scenario string
	var model string
	var telemetryPath string

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&frames, "frames", 3600, "frames per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "orbit", "scenario name")
	flag.StringVar(&model, "model", sim.ModelKinematic, "flight model (kinematic|dynamics)")
	flag.StringVar(&telemetryPath, "telemetry", "", "write every run's frames to this msgpack file")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if frames <= 0 {
		fmt.Println("error: -frames must be > 0")
		return
	}
	sc, ok := sim.ScenarioByName(scenario)
	if !ok {
		fmt.Printf("error: unsupported scenario %q (supported: %s)\n", scenario, strings.Join(sim.ScenarioNames(), ", "))
		return
	}
	if model != sim.ModelKinematic && model != sim.ModelDynamics {
		fmt.Printf("error: unsupported model %q (supported: %s, %s)\n", model, sim.ModelKinematic, sim.ModelDynamics)
		return
	}

	var rec *telemetry.Recorder
	if telemetryPath != "" {
		f, err := os.Create(telemetryPath) // #nosec G304 -- operator supplied path
		if err != nil {
			fmt.Printf("error: telemetry: %v\n", err)
			return
		}
		defer f.Close()
		rec = telemetry.NewRecorder(f)
	}

	fmt.Printf("=== Headless Flight Report ===\n")
	fmt.Printf("scenario=%s model=%s runs=%d frames=%d seed_base=%d seed_step=%d\n", sc.Name, model, runs, frames, seedBase, seedStep)
	fmt.Printf("%s\n\n", sc.Description)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runScenario(sc, model, i+1, seed, frames, rec)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, stats)
		printRun(stats)
	}
	if rec != nil {
		if err := rec.Flush(); err != nil {
			fmt.Printf("error: %v\n", err)
			return
		}
		fmt.Printf("telemetry: %d frames -> %s\n\n", rec.Frames(), telemetryPath)
	}

	printAggregate(all)
}

// reportEvery is the reporter sampling interval in frames.
const reportEvery = 30

func runScenario(sc sim.Scenario, model string, runIndex int, seed int64, frames int, rec *telemetry.Recorder) (runStats, error) {
	opts := append(sc.Options(seed), sim.WithSeed(seed), sim.WithFlightModel(model))
	ts := sim.NewTestSim(opts...)
	pilot := sc.Autopilot(ts.DT)
	reporter := sim.NewFlightReporter(0)
	sortie := sim.NewSortieTracker()

	reporter.Collect(ts.Sim)
	for i := 0; i < frames; i++ {
		locked := ts.World.Player != nil && ts.World.Player.Target.Valid()
		res := ts.Step(pilot.Frame(ts.Viewport, locked))
		sortie.Update(ts.Sim, res)
		if res.Frame%reportEvery == 0 {
			reporter.Collect(ts.Sim)
		}
		if rec != nil {
			if err := rec.Record(ts.Sim, res); err != nil {
				return runStats{}, err
			}
		}
	}

	entries := ts.SimLog.Entries()
	hit := map[string]struct{}{}
	for _, e := range entries {
		if e.Category == sim.CategoryMissile && e.Key == sim.KeyImpact {
			hit[impactTarget(e.Value)] = struct{}{}
		}
	}

	return runStats{
		runIndex:         runIndex,
		seed:             seed,
		firstLockFrame:   firstFrame(entries, sim.CategoryLock, sim.KeyAcquired, ""),
		firstLaunchFrame: firstFrame(entries, sim.CategoryFire, sim.KeyLaunch, ""),
		firstImpactFrame: firstFrame(entries, sim.CategoryMissile, sim.KeyImpact, ""),
		launched:         ts.SimLog.CountCategory(sim.CategoryFire, sim.KeyLaunch),
		impacts:          ts.SimLog.CountCategory(sim.CategoryMissile, sim.KeyImpact),
		expiries:         ts.SimLog.CountCategory(sim.CategoryMissile, sim.KeyExpired),
		lockAcquired:     ts.SimLog.CountCategory(sim.CategoryLock, sim.KeyAcquired),
		lockLost:         ts.SimLog.CountCategory(sim.CategoryLock, sim.KeyLost),
		hitTargets:       hit,
		windowSummary:    reporter.WindowSummary(),
		grade:            sortie.Grade(),
	}, nil
}

// impactTarget pulls the target label from an impact entry ("T1 at 1.4u").
func impactTarget(value string) string {
	if i := strings.IndexByte(value, ' '); i > 0 {
		return value[:i]
	}
	return value
}

func firstFrame(entries []sim.SimLogEntry, category, key, contains string) int {
	for _, e := range entries {
		if e.Category != category || e.Key != key {
			continue
		}
		if contains == "" || strings.Contains(e.Value, contains) {
			return e.Frame
		}
	}
	return -1
}

func hitRate(impacts, expiries int) float64 {
	if impacts+expiries == 0 {
		return 0
	}
	return float64(impacts) / float64(impacts+expiries)
}

// assessRun labels a run's outcome: no-contact when nothing was ever
// locked or fired, dominant on a high hit rate with at least three kills,
// wasteful when most missiles expired, otherwise mixed.
func assessRun(rs runStats) (string, string) {
	if rs.launched == 0 || rs.lockAcquired == 0 {
		return "no-contact", fmt.Sprintf("launched=%d locks=%d", rs.launched, rs.lockAcquired)
	}
	hr := hitRate(rs.impacts, rs.expiries)
	switch {
	case rs.impacts >= 3 && hr >= 0.75:
		return "dominant", fmt.Sprintf("hit_rate=%.2f impacts=%d", hr, rs.impacts)
	case rs.expiries > rs.impacts:
		return "wasteful", fmt.Sprintf("expiries=%d>impacts=%d", rs.expiries, rs.impacts)
	default:
		return "mixed", fmt.Sprintf("hit_rate=%.2f", hr)
	}
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	fmt.Printf("phase_markers: first_lock=%d first_launch=%d first_impact=%d\n",
		rs.firstLockFrame, rs.firstLaunchFrame, rs.firstImpactFrame)
	fmt.Printf("event_totals: launch=%d impact=%d expired=%d lock=%d lock_lost=%d hit_rate=%.2f\n",
		rs.launched, rs.impacts, rs.expiries, rs.lockAcquired, rs.lockLost, hitRate(rs.impacts, rs.expiries))
	fmt.Printf("targets_hit=%d [%s]\n", len(rs.hitTargets), joinSet(rs.hitTargets))
	if rs.windowSummary != nil {
		ws := rs.windowSummary
		fmt.Printf("window_samples=%d window_frame_range=%d..%d\n", ws.SampleCount, ws.FromFrame, ws.ToFrame)
		fmt.Printf("window_envelope: speed=%.1f (%.1f..%.1f) altitude=%.1f (%.1f..%.1f) fov=%.1f\n",
			ws.AvgSpeed, ws.MinSpeed, ws.MaxSpeed, ws.AvgAltitude, ws.MinAltitude, ws.MaxAltitude, ws.AvgFOVDeg)
		fmt.Printf("window_tactical: reticles=%.1f radar=%.1f locked=%.0f%% missiles_in_flight=%.1f\n",
			ws.AvgReticles, ws.AvgRadar, ws.LockedPct, ws.AvgMissilesInFlight)
	}
	verdict, reason := assessRun(rs)
	fmt.Printf("verdict=%s (%s)\n", verdict, reason)
	fmt.Print(sim.FormatGrade(rs.grade))
	fmt.Println()
}

func printAggregate(all []runStats) {
	totalLaunched := 0
	totalImpacts := 0
	totalExpiries := 0
	totalLocks := 0
	totalLost := 0

	lockFrames := make([]int, 0, len(all))
	launchFrames := make([]int, 0, len(all))
	impactFrames := make([]int, 0, len(all))
	hitGlobal := map[string]struct{}{}
	verdicts := map[string]int{}
	grades := make([]sim.PilotGrade, 0, len(all))
	scoreSum := 0.0

	for _, rs := range all {
		totalLaunched += rs.launched
		totalImpacts += rs.impacts
		totalExpiries += rs.expiries
		totalLocks += rs.lockAcquired
		totalLost += rs.lockLost
		if rs.firstLockFrame >= 0 {
			lockFrames = append(lockFrames, rs.firstLockFrame)
		}
		if rs.firstLaunchFrame >= 0 {
			launchFrames = append(launchFrames, rs.firstLaunchFrame)
		}
		if rs.firstImpactFrame >= 0 {
			impactFrames = append(impactFrames, rs.firstImpactFrame)
		}
		for label := range rs.hitTargets {
			hitGlobal[label] = struct{}{}
		}
		v, _ := assessRun(rs)
		verdicts[v]++
		grades = append(grades, rs.grade)
		scoreSum += rs.grade.Score
	}

	fmt.Println("=== Aggregate ===")
	fmt.Printf("runs=%d\n", len(all))
	fmt.Printf("avg_events_per_run: launch=%.1f impact=%.1f expired=%.1f lock=%.1f lock_lost=%.1f\n",
		avg(totalLaunched, len(all)), avg(totalImpacts, len(all)), avg(totalExpiries, len(all)),
		avg(totalLocks, len(all)), avg(totalLost, len(all)))
	fmt.Printf("overall_hit_rate=%.2f\n", hitRate(totalImpacts, totalExpiries))
	fmt.Printf("phase_marker_avg_frames: first_lock=%s first_launch=%s first_impact=%s\n",
		avgFrameString(lockFrames), avgFrameString(launchFrames), avgFrameString(impactFrames))
	fmt.Printf("unique_targets_hit=%d [%s]\n", len(hitGlobal), joinSet(hitGlobal))
	fmt.Printf("verdicts: %s\n", joinCounts(verdicts))

	fmt.Println("\n=== Aggregate Pilot Performance ===")
	avgScore := 0.0
	if len(all) > 0 {
		avgScore = scoreSum / float64(len(all))
	}
	fmt.Printf("  %s (avg=%.1f)", sim.LetterGrade(avgScore), avgScore)
	if good := sim.TopTraits(grades, true, 3); good != "" {
		fmt.Printf("  good=%s", good)
	}
	if bad := sim.TopTraits(grades, false, 3); bad != "" {
		fmt.Printf("  bad=%s", bad)
	}
	fmt.Println()
}

func avg(sum int, n int) float64 {
	if n <= 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

func avgFrameString(vals []int) string {
	if len(vals) == 0 {
		return "n/a"
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(len(vals)))
}

func joinSet(set map[string]struct{}) string {
	if len(set) == 0 {
		return "none"
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

func joinCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%d", k, counts[k])
	}
	return strings.Join(parts, " ")
}
