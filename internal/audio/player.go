// Package audio plays synthesised cues for simulation events through a
// beep mixer.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

// MaxVoices caps simultaneous cues; extra cues are dropped.
const MaxVoices = 8

// Player turns simulation events into sound. A Player that failed to open
// the output device stays silent and only counts what it would have played.
type Player struct {
	mu     sync.Mutex
	logger zerolog.Logger
	mixer  *beep.Mixer
	volume float64
	live   bool
	// sink adds a streamer to the output; tests swap it out.
	sink    func(beep.Streamer)
	played  map[Cue]int
	dropped int
}

// NewPlayer returns a silent player. Call Init to open the device.
func NewPlayer(logger zerolog.Logger, volume float64) *Player {
	return &Player{
		logger: logger,
		mixer:  &beep.Mixer{},
		volume: volume,
		played: make(map[Cue]int),
	}
}

// Init opens the speaker. Failure is logged and leaves the player silent.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.live {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		p.logger.Warn().Err(err).Msg("audio init failed, continuing without sound")
		return err
	}
	speaker.Play(p.mixer)
	p.sink = func(s beep.Streamer) {
		speaker.Lock()
		p.mixer.Add(s)
		speaker.Unlock()
	}
	p.live = true
	p.logger.Debug().Int("rate", int(SampleRate)).Msg("audio ready")
	return nil
}

// Live reports whether cues reach an output.
func (p *Player) Live() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// Play queues one cue.
func (p *Player) Play(c Cue) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.played[c]++
	if p.sink == nil {
		return
	}
	if p.voices() >= MaxVoices {
		p.dropped++
		return
	}
	if s := c.Streamer(p.volume); s != nil {
		p.sink(s)
	}
}

func (p *Player) voices() int {
	if p.live {
		speaker.Lock()
		defer speaker.Unlock()
	}
	return p.mixer.Len()
}

// Handle plays the cue for each event in order.
func (p *Player) Handle(events []sim.Event) {
	for _, ev := range events {
		if c, ok := CueFor(ev.Kind); ok {
			p.Play(c)
		}
	}
}

// Played returns how many times c was requested.
func (p *Player) Played(c Cue) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played[c]
}

// Dropped returns how many cues were skipped at the voice cap.
func (p *Player) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Close silences everything and releases the device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.live {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.live = false
	p.sink = nil
}
