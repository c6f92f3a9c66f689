package sim

import (
	"fmt"
	"sort"
	"strings"
)

// SortieTracker accumulates per-frame pilot performance over a run.
type SortieTracker struct {
	Frames           int
	OnScreenFrames   int // frames with at least one reticle
	LockedOnScreen   int // of those, frames with a visible lock
	Launched         int
	LockedLaunches   int
	Impacts          int
	Expiries         int
	LockAcquired     int
	LockLost         int
	FirstImpactFrame int
	MinSpeedFrames   int
	MaxSpeedFrames   int
	speedSum         float64
}

func NewSortieTracker() *SortieTracker {
	return &SortieTracker{FirstImpactFrame: -1}
}

// Update folds one frame's result into the tracker. Call it after every
// Step.
func (st *SortieTracker) Update(s *Sim, res FrameResult) {
	st.Frames++
	if p := s.World.Player; p != nil {
		st.speedSum += p.Speed
		if p.Speed <= MinSpeed+geomEpsilon {
			st.MinSpeedFrames++
		}
		if p.Speed >= MaxSpeed-geomEpsilon {
			st.MaxSpeedFrames++
		}
	}
	if len(res.Tactical.Reticles) > 0 {
		st.OnScreenFrames++
		if res.Tactical.LockVisible {
			st.LockedOnScreen++
		}
	}
	for _, ev := range res.Events {
		switch ev.Kind {
		case EventMissileLaunched:
			st.Launched++
			if ev.Target.Valid() {
				st.LockedLaunches++
			}
		case EventMissileImpact:
			st.Impacts++
			if st.FirstImpactFrame < 0 {
				st.FirstImpactFrame = ev.Frame
			}
		case EventMissileExpired:
			st.Expiries++
		case EventLockAcquired:
			st.LockAcquired++
		case EventLockLost:
			st.LockLost++
		}
	}
}

// AvgSpeed is the mean player speed over tracked frames.
func (st *SortieTracker) AvgSpeed() float64 {
	if st.Frames == 0 {
		return 0
	}
	return st.speedSum / float64(st.Frames)
}

// PilotGrade is the graded outcome of a sortie.
type PilotGrade struct {
	Grade string  // A+ .. F
	Score float64 // 0-100

	// Component scores, -1 when there was nothing to grade.
	Marksmanship   float64
	LockDiscipline float64
	Tracking       float64
	Energy         float64

	GoodTraits []string
	BadTraits  []string
}

// Grade scores the sortie. Components without data are left out of the
// overall score.
func (st *SortieTracker) Grade() PilotGrade {
	g := PilotGrade{Marksmanship: -1, LockDiscipline: -1, Tracking: -1, Energy: -1}

	if resolved := st.Impacts + st.Expiries; resolved > 0 {
		g.Marksmanship = perfClamp(100 * perfFrac(st.Impacts, resolved))
	}
	if st.Launched > 0 {
		g.LockDiscipline = perfClamp(100 * perfFrac(st.LockedLaunches, st.Launched))
	}
	if st.OnScreenFrames > 0 {
		g.Tracking = perfClamp(100 * perfFrac(st.LockedOnScreen, st.OnScreenFrames))
	}
	if st.Frames > 0 {
		pinned := perfFrac(st.MinSpeedFrames+st.MaxSpeedFrames, st.Frames)
		g.Energy = perfClamp(100 - 100*pinned)
	}

	sum, n := 0.0, 0
	for _, s := range []float64{g.Marksmanship, g.LockDiscipline, g.Tracking, g.Energy} {
		if s >= 0 {
			sum += s
			n++
		}
	}
	if n > 0 {
		g.Score = sum / float64(n)
	}
	g.Grade = LetterGrade(g.Score)
	g.GoodTraits, g.BadTraits = sortieTraits(st)
	return g
}

func sortieTraits(st *SortieTracker) (good, bad []string) {
	resolved := st.Impacts + st.Expiries
	if resolved >= 3 && perfFrac(st.Impacts, resolved) >= 0.75 {
		good = append(good, "sharpshooter")
	}
	if st.FirstImpactFrame >= 0 && st.FirstImpactFrame <= 600 {
		good = append(good, "quick-kill")
	}
	if st.OnScreenFrames > 0 && perfFrac(st.LockedOnScreen, st.OnScreenFrames) >= 0.8 {
		good = append(good, "locked-on")
	}
	if st.Launched >= 2 && perfFrac(st.Launched-st.LockedLaunches, st.Launched) > 0.5 {
		bad = append(bad, "spray-and-pray")
	}
	if resolved > 0 && st.Expiries > st.Impacts {
		bad = append(bad, "wasteful")
	}
	if st.Frames > 0 && perfFrac(st.MinSpeedFrames, st.Frames) > 0.4 {
		bad = append(bad, "stall-prone")
	}
	if st.LockLost > st.LockAcquired/2 && st.LockLost > 0 {
		bad = append(bad, "loses-lock")
	}
	return good, bad
}

// FormatGrade renders a grade on a few lines.
func FormatGrade(g PilotGrade) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "grade=%s score=%.1f\n", g.Grade, g.Score)
	var scores []string
	add := func(name string, v float64) {
		if v >= 0 {
			scores = append(scores, fmt.Sprintf("%s=%.0f", name, v))
		}
	}
	add("Marksmanship", g.Marksmanship)
	add("Lock", g.LockDiscipline)
	add("Tracking", g.Tracking)
	add("Energy", g.Energy)
	if len(scores) > 0 {
		fmt.Fprintf(&sb, "  scores: %s\n", strings.Join(scores, "  "))
	}
	if len(g.GoodTraits) > 0 {
		fmt.Fprintf(&sb, "  good: %s\n", strings.Join(g.GoodTraits, ", "))
	}
	if len(g.BadTraits) > 0 {
		fmt.Fprintf(&sb, "  bad:  %s\n", strings.Join(g.BadTraits, ", "))
	}
	return sb.String()
}

// TopTraits counts traits across grades and returns the n most common as
// "trait(count)".
func TopTraits(grades []PilotGrade, good bool, n int) string {
	counts := map[string]int{}
	for _, g := range grades {
		list := g.BadTraits
		if good {
			list = g.GoodTraits
		}
		for _, t := range list {
			counts[t]++
		}
	}
	type kv struct {
		trait string
		count int
	}
	items := make([]kv, 0, len(counts))
	for k, v := range counts {
		items = append(items, kv{k, v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].trait < items[j].trait
	})
	if len(items) > n {
		items = items[:n]
	}
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = fmt.Sprintf("%s(%d)", it.trait, it.count)
	}
	return strings.Join(parts, ", ")
}

func perfFrac(num, denom int) float64 {
	if denom <= 0 {
		return 0
	}
	return float64(num) / float64(denom)
}

func perfClamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// LetterGrade maps a 0-100 score to a letter grade.
func LetterGrade(score float64) string {
	switch {
	case score >= 93:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 78:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 62:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 45:
		return "D"
	default:
		return "F"
	}
}
