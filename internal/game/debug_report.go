package game

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

// debugReportFrames is how far back the F9 report reaches.
const debugReportFrames = 600

// flightDebugReport is a plain-text snapshot for bug reports: current
// state, the reporter window, the sortie grade and the recent SimLog.
func flightDebugReport(s *sim.Sim, r *sim.FlightReporter, st *sim.SortieTracker, lastFrames int) string {
	if lastFrames <= 0 {
		lastFrames = debugReportFrames
	}
	to := s.Frame()
	from := to - lastFrames + 1
	if from < 0 {
		from = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- Ace Sky debug report ---\n")
	fmt.Fprintf(&b, "model=%s frame_range=[%d..%d] elapsed=%.1fs\n\n", s.Flight.Name(), from, to, s.Elapsed())
	b.WriteString(s.Log.Summary(to, s.World))
	b.WriteByte('\n')

	tf := s.Tactical()
	fmt.Fprintf(&b, "tactical: reticles=%d radar=%d lock_visible=%v\n", len(tf.Reticles), len(tf.Radar), tf.LockVisible)
	fmt.Fprintf(&b, "missiles_in_flight=%d targets=%d\n\n", s.World.Missiles.Len(), s.World.Targets.Len())

	if r != nil {
		b.WriteString(r.WindowSummary().Format())
		b.WriteByte('\n')
	}
	if st != nil {
		b.WriteString(sim.FormatGrade(st.Grade()))
		b.WriteByte('\n')
	}

	b.WriteString("== sim log ==\n")
	if log := s.Log.FormatRange(from, to); log != "" {
		b.WriteString(log)
	} else {
		b.WriteString("(no entries)\n")
	}
	return b.String()
}

// copyText puts text on the system clipboard.
var copyText = clipboard.WriteAll
