package audio

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

// Cue is a one-shot sound tied to a simulation event.
type Cue int

const (
	CueLaunch Cue = iota
	CueImpact
	CueExpired
	CueLock
	CueLockLost
)

func (c Cue) String() string {
	switch c {
	case CueLaunch:
		return "launch"
	case CueImpact:
		return "impact"
	case CueExpired:
		return "expired"
	case CueLock:
		return "lock"
	case CueLockLost:
		return "lock-lost"
	default:
		return "unknown"
	}
}

// CueFor maps an event to its cue.
func CueFor(k sim.EventKind) (Cue, bool) {
	switch k {
	case sim.EventMissileLaunched:
		return CueLaunch, true
	case sim.EventMissileImpact:
		return CueImpact, true
	case sim.EventMissileExpired:
		return CueExpired, true
	case sim.EventLockAcquired:
		return CueLock, true
	case sim.EventLockLost:
		return CueLockLost, true
	}
	return 0, false
}

// Streamer synthesises a fresh streamer for c at volume vol (0..1).
func (c Cue) Streamer(vol float64) beep.Streamer {
	var s beep.Streamer
	switch c {
	case CueLaunch:
		// Rail release thump under a falling hiss.
		s = beep.Mix(
			newVolume(tone(0, 0, 450*time.Millisecond, 5*time.Millisecond, 400*time.Millisecond, WaveNoise), 0.5),
			newVolume(tone(180, 60, 250*time.Millisecond, 2*time.Millisecond, 200*time.Millisecond, WaveSaw), 0.4),
		)
	case CueImpact:
		s = beep.Mix(
			newVolume(tone(0, 0, 700*time.Millisecond, 2*time.Millisecond, 650*time.Millisecond, WaveNoise), 0.6),
			newVolume(tone(90, 40, 500*time.Millisecond, 2*time.Millisecond, 450*time.Millisecond, WaveSine), 0.4),
		)
	case CueExpired:
		s = tone(0, 0, 200*time.Millisecond, 10*time.Millisecond, 150*time.Millisecond, WaveNoise)
		vol *= 0.3
	case CueLock:
		// Two rising pips.
		s = beep.Seq(
			tone(1320, 1320, 70*time.Millisecond, 3*time.Millisecond, 20*time.Millisecond, WaveSquare),
			beep.Silence(SampleRate.N(40*time.Millisecond)),
			tone(1760, 1760, 90*time.Millisecond, 3*time.Millisecond, 30*time.Millisecond, WaveSquare),
		)
		vol *= 0.5
	case CueLockLost:
		s = tone(880, 440, 180*time.Millisecond, 3*time.Millisecond, 60*time.Millisecond, WaveSquare)
		vol *= 0.4
	default:
		return nil
	}
	return newVolume(s, vol)
}
