package sim

import (
	"fmt"
	"math"
	"strings"
)

// reportWindowFrames is the default sliding window for recent-flight reports (~10s at 60 FPS).
const reportWindowFrames = 600

// --- Snapshot types ---

// FlightReport is a snapshot of the simulation at one frame.
type FlightReport struct {
	Frame int

	HasPlayer     bool
	Speed         float64
	SpeedRatio    float64
	Altitude      float64
	FOV           float64
	MissilesFired uint32
	Locked        bool

	MissilesInFlight int
	Targets          int
	Reticles         int
	RadarContacts    int

	// Cumulative event counts taken from the SimLog.
	Impacts  int
	Expiries int
}

// --- Reporter ---

// FlightReporter collects periodic reports and summarises sliding windows.
type FlightReporter struct {
	history      []FlightReport
	windowFrames int
}

// NewFlightReporter creates a reporter with the given window size.
func NewFlightReporter(windowFrames int) *FlightReporter {
	if windowFrames <= 0 {
		windowFrames = reportWindowFrames
	}
	return &FlightReporter{windowFrames: windowFrames}
}

// Collect gathers a snapshot from the current simulation state.
// Call this periodically (e.g. every 60 frames / 1s).
func (r *FlightReporter) Collect(s *Sim) {
	w := s.World
	tf := s.Tactical()
	rpt := FlightReport{
		Frame:            s.Frame(),
		MissilesInFlight: w.Missiles.Len(),
		Targets:          w.Targets.Len(),
		Reticles:         len(tf.Reticles),
		RadarContacts:    len(tf.Radar),
		Impacts:          s.Log.CountCategory(CategoryMissile, KeyImpact),
		Expiries:         s.Log.CountCategory(CategoryMissile, KeyExpired),
	}
	if p := w.Player; p != nil {
		rpt.HasPlayer = true
		rpt.Speed = p.Speed
		rpt.SpeedRatio = SpeedRatio(p.Speed)
		rpt.Altitude = p.Position.Y()
		rpt.MissilesFired = p.MissilesFired
		rpt.Locked = p.Target.Valid()
	}
	if w.Camera != nil {
		rpt.FOV = w.Camera.FOV()
	}
	r.history = append(r.history, rpt)
}

// Latest returns the most recent report, or nil.
func (r *FlightReporter) Latest() *FlightReport {
	if len(r.history) == 0 {
		return nil
	}
	return &r.history[len(r.history)-1]
}

// History returns all collected reports.
func (r *FlightReporter) History() []FlightReport {
	return r.history
}

// WindowReport is an aggregated summary over a frame window.
type WindowReport struct {
	FromFrame, ToFrame int
	SampleCount        int

	AvgSpeed, MinSpeed, MaxSpeed float64
	AvgAltitude                  float64
	MinAltitude, MaxAltitude     float64
	AvgFOVDeg                    float64
	AvgMissilesInFlight          float64
	AvgReticles, AvgRadar        float64
	LockedPct                    float64

	// Deltas across the window.
	Launched int
	Impacts  int
	Expiries int
}

// HitRate is impacts over resolved missiles in the window, or 0.
func (wr *WindowReport) HitRate() float64 {
	resolved := wr.Impacts + wr.Expiries
	if resolved == 0 {
		return 0
	}
	return float64(wr.Impacts) / float64(resolved)
}

// WindowSummary aggregates every report within the window ending at the
// latest one.
func (r *FlightReporter) WindowSummary() *WindowReport {
	if len(r.history) == 0 {
		return nil
	}

	latest := r.history[len(r.history)-1].Frame
	cutoff := latest - r.windowFrames
	var window []FlightReport
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].Frame < cutoff {
			break
		}
		window = append(window, r.history[i])
	}

	n := float64(len(window))
	first, last := window[len(window)-1], window[0]
	wr := &WindowReport{
		FromFrame:   first.Frame,
		ToFrame:     last.Frame,
		SampleCount: len(window),
		MinSpeed:    math.Inf(1),
		MaxSpeed:    math.Inf(-1),
		MinAltitude: math.Inf(1),
		MaxAltitude: math.Inf(-1),
		Launched:    int(last.MissilesFired) - int(first.MissilesFired),
		Impacts:     last.Impacts - first.Impacts,
		Expiries:    last.Expiries - first.Expiries,
	}

	locked := 0
	for _, rpt := range window {
		wr.AvgSpeed += rpt.Speed
		wr.MinSpeed = math.Min(wr.MinSpeed, rpt.Speed)
		wr.MaxSpeed = math.Max(wr.MaxSpeed, rpt.Speed)
		wr.AvgAltitude += rpt.Altitude
		wr.MinAltitude = math.Min(wr.MinAltitude, rpt.Altitude)
		wr.MaxAltitude = math.Max(wr.MaxAltitude, rpt.Altitude)
		wr.AvgFOVDeg += rpt.FOV * 180 / math.Pi
		wr.AvgMissilesInFlight += float64(rpt.MissilesInFlight)
		wr.AvgReticles += float64(rpt.Reticles)
		wr.AvgRadar += float64(rpt.RadarContacts)
		if rpt.Locked {
			locked++
		}
	}

	wr.AvgSpeed /= n
	wr.AvgAltitude /= n
	wr.AvgFOVDeg /= n
	wr.AvgMissilesInFlight /= n
	wr.AvgReticles /= n
	wr.AvgRadar /= n
	wr.LockedPct = float64(locked) / n * 100

	return wr
}

// Format returns a human-readable multi-line string of the window summary.
func (wr *WindowReport) Format() string {
	if wr == nil {
		return "No data collected yet.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== Flight Report (F=%d..%d, %d samples) ===\n",
		wr.FromFrame, wr.ToFrame, wr.SampleCount)

	sb.WriteString("\n--- Envelope ---\n")
	fmt.Fprintf(&sb, "  speed:    avg=%.1f  min=%.1f  max=%.1f (%s)\n",
		wr.AvgSpeed, wr.MinSpeed, wr.MaxSpeed, speedLabel(SpeedRatio(wr.AvgSpeed)))
	fmt.Fprintf(&sb, "  altitude: avg=%.0f  min=%.0f  max=%.0f\n",
		wr.AvgAltitude, wr.MinAltitude, wr.MaxAltitude)
	fmt.Fprintf(&sb, "  fov:      avg=%.1f deg\n", wr.AvgFOVDeg)

	sb.WriteString("\n--- Weapons ---\n")
	fmt.Fprintf(&sb, "  launched=%d  impacts=%d  expired=%d  hit_rate=%.0f%%\n",
		wr.Launched, wr.Impacts, wr.Expiries, wr.HitRate()*100)
	fmt.Fprintf(&sb, "  in_flight avg=%.1f\n", wr.AvgMissilesInFlight)

	sb.WriteString("\n--- Tactical ---\n")
	fmt.Fprintf(&sb, "  reticles avg=%.1f  radar avg=%.1f  locked=%.0f%%\n",
		wr.AvgReticles, wr.AvgRadar, wr.LockedPct)

	return sb.String()
}

func speedLabel(ratio float64) string {
	switch {
	case ratio > 0.8:
		return "flat out"
	case ratio > 0.5:
		return "fast"
	case ratio > 0.2:
		return "cruise"
	default:
		return "stall margin"
	}
}

// FormatLatest returns a concise snapshot of the most recent report.
func (r *FlightReporter) FormatLatest() string {
	rpt := r.Latest()
	if rpt == nil {
		return "No data.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Snapshot F=%d ---\n", rpt.Frame)
	if rpt.HasPlayer {
		fmt.Fprintf(&sb, "Player: speed=%.1f (%.0f%%) alt=%.0f fired=%d locked=%t\n",
			rpt.Speed, rpt.SpeedRatio*100, rpt.Altitude, rpt.MissilesFired, rpt.Locked)
	} else {
		sb.WriteString("Player: none\n")
	}
	fmt.Fprintf(&sb, "Targets=%d  missiles=%d  reticles=%d  radar=%d\n",
		rpt.Targets, rpt.MissilesInFlight, rpt.Reticles, rpt.RadarContacts)
	fmt.Fprintf(&sb, "Impacts=%d  expired=%d\n", rpt.Impacts, rpt.Expiries)
	return sb.String()
}
