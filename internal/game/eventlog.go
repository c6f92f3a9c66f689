package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

const (
	logPanelWidth = 260
	logMaxEntries = 40
	logLineHeight = 14
	logVisible    = 8
)

// EventEntry is one line in the combat log.
type EventEntry struct {
	Frame   int
	Kind    sim.EventKind
	Message string
}

// EventLog is a ring buffer of recent simulation events.
type EventLog struct {
	entries []EventEntry
	head    int
	count   int
}

func NewEventLog() *EventLog {
	return &EventLog{entries: make([]EventEntry, logMaxEntries)}
}

// Add appends an entry, overwriting the oldest once full.
func (el *EventLog) Add(ev sim.Event) {
	el.entries[el.head] = EventEntry{Frame: ev.Frame, Kind: ev.Kind, Message: ev.String()}
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// AddAll appends events in order.
func (el *EventLog) AddAll(evs []sim.Event) {
	for _, ev := range evs {
		el.Add(ev)
	}
}

// Recent returns entries oldest first.
func (el *EventLog) Recent() []EventEntry {
	out := make([]EventEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		out[i] = el.entries[idx]
	}
	return out
}

func kindColor(k sim.EventKind) color.RGBA {
	switch k {
	case sim.EventMissileImpact:
		return color.RGBA{R: 255, G: 110, B: 60, A: 255}
	case sim.EventLockAcquired:
		return color.RGBA{R: 90, G: 230, B: 120, A: 255}
	case sim.EventLockLost, sim.EventMissileExpired:
		return color.RGBA{R: 140, G: 140, B: 140, A: 255}
	default:
		return color.RGBA{R: 200, G: 200, B: 230, A: 255}
	}
}

// Draw renders the newest entries in a panel at the top-left.
func (el *EventLog) Draw(screen *ebiten.Image, x, y int) {
	entries := el.Recent()
	if len(entries) > logVisible {
		entries = entries[len(entries)-logVisible:]
	}
	h := float32(16 + len(entries)*logLineHeight + 4)
	vector.FillRect(screen, float32(x), float32(y), logPanelWidth, h, color.RGBA{R: 8, G: 12, B: 18, A: 190}, false)
	vector.StrokeLine(screen, float32(x), float32(y+16), float32(x+logPanelWidth), float32(y+16), 1, color.RGBA{R: 50, G: 70, B: 90, A: 200}, false)
	ebitenutil.DebugPrintAt(screen, "COMBAT LOG", x+6, y+1)

	ly := y + 20
	for _, e := range entries {
		vector.FillRect(screen, float32(x+4), float32(ly+4), 3, 6, kindColor(e.Kind), false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%5d %s", e.Frame, e.Message), x+12, ly)
		ly += logLineHeight
	}
}
