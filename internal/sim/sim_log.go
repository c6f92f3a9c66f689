package sim

import (
	"fmt"
	"strings"
)

// SimLogEntry is one recorded simulation event.
type SimLogEntry struct {
	Frame    int
	Entity   string  // label e.g. "P", "M3", "T0", or "--" for global events
	Category string  // flight, fire, missile, lock, target, camera
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[F=0042] M3   missile   impact          T1 at 1.4u
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[F=%04d] %-4s %-9s %-15s %s",
		e.Frame, e.Entity, e.Category, e.Key, e.Value)
}

// SimLog collects structured events. Unlike the on-screen event log it is
// unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-frame flight samples
// are recorded too.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Verbose reports whether per-frame samples are kept.
func (sl *SimLog) Verbose() bool { return sl.verbose }

// Add records a new entry.
func (sl *SimLog) Add(frame int, entity, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Frame:    frame,
		Entity:   entity,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(frame int, entity, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(frame, entity, category, key, value, numVal)
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Len returns the number of entries.
func (sl *SimLog) Len() int { return len(sl.entries) }

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// FilterEntity returns entries for one entity label.
func (sl *SimLog) FilterEntity(label string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Entity == label {
			out = append(out, e)
		}
	}
	return out
}

// FilterFrameRange returns entries within [from, to] inclusive.
func (sl *SimLog) FilterFrameRange(from, to int) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.Frame >= from && e.Frame <= to {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	return formatEntries(sl.entries)
}

// FormatRange returns a log string filtered to a frame range.
func (sl *SimLog) FormatRange(from, to int) string {
	return formatEntries(sl.FilterFrameRange(from, to))
}

func formatEntries(entries []SimLogEntry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the world.
func (sl *SimLog) Summary(frame int, w *World) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at F=%04d ---\n", frame)
	if p := w.Player; p != nil {
		fmt.Fprintf(&sb, "Player: pos=(%.0f,%.0f,%.0f) speed=%.1f fired=%d lock=%s\n",
			p.Position.X(), p.Position.Y(), p.Position.Z(), p.Speed, p.MissilesFired, targetLabel(p.Target))
	} else {
		sb.WriteString("Player: none\n")
	}
	fmt.Fprintf(&sb, "Targets: %d  Missiles: %d\n", w.Targets.Len(), w.Missiles.Len())
	fmt.Fprintf(&sb, "Impacts: %d  Expired: %d\n",
		sl.CountCategory(CategoryMissile, KeyImpact), sl.CountCategory(CategoryMissile, KeyExpired))
	return sb.String()
}

// Log categories and keys written by Sim.
const (
	CategoryFlight  = "flight"
	CategoryFire    = "fire"
	CategoryMissile = "missile"
	CategoryLock    = "lock"
	CategoryTarget  = "target"

	KeyLaunch   = "launch"
	KeyImpact   = "impact"
	KeyExpired  = "expired"
	KeyAcquired = "acquired"
	KeyLost     = "lost"
	KeySample   = "sample"
	KeyModel    = "model"
	KeyRemoved  = "removed"
)

func targetLabel(h Handle[Target]) string {
	if !h.Valid() {
		return "--"
	}
	return fmt.Sprintf("T%d", h.Index())
}

func missileLabel(h Handle[Missile]) string {
	return fmt.Sprintf("M%d", h.Index())
}

const playerLabel = "P"
