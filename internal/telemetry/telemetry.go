// Package telemetry streams per-frame flight state as a sequence of
// msgpack-encoded FrameRecords.
package telemetry

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

// NoID marks an absent handle. Present handles are recorded as
// "index#generation", so an id is never shared by two entities that
// occupied the same slot.
const NoID = ""

// CraftRecord is the player's state.
type CraftRecord struct {
	Pos   [3]float64 `msgpack:"p"`
	Rot   [4]float64 `msgpack:"r"` // w, x, y, z
	Speed float64    `msgpack:"s"`
	Fired uint32     `msgpack:"f"`
	Lock  string     `msgpack:"l"`
}

// TargetRecord is one drone.
type TargetRecord struct {
	ID   string     `msgpack:"id"`
	Name string     `msgpack:"n"`
	Pos  [3]float64 `msgpack:"p"`
}

// MissileRecord is one missile in flight.
type MissileRecord struct {
	ID       string     `msgpack:"id"`
	Target   string     `msgpack:"t"`
	Pos      [3]float64 `msgpack:"p"`
	Speed    float64    `msgpack:"s"`
	Lifetime float64    `msgpack:"lt"`
}

// EventRecord is a flattened sim.Event.
type EventRecord struct {
	Kind    string `msgpack:"k"`
	Missile string `msgpack:"m"`
	Target  string `msgpack:"t"`
}

// RadarRecord is one radar blip in percent space.
type RadarRecord struct {
	Target string  `msgpack:"t"`
	X      float64 `msgpack:"x"`
	Y      float64 `msgpack:"y"`
}

// FrameRecord is one frame of the stream.
type FrameRecord struct {
	Frame    int             `msgpack:"f"`
	Elapsed  float64         `msgpack:"e"`
	Player   *CraftRecord    `msgpack:"pl,omitempty"`
	Targets  []TargetRecord  `msgpack:"tg"`
	Missiles []MissileRecord `msgpack:"ms"`
	Events   []EventRecord   `msgpack:"ev,omitempty"`
	Radar    []RadarRecord   `msgpack:"rd,omitempty"`
}

func vec(v mgl64.Vec3) [3]float64 { return [3]float64{v[0], v[1], v[2]} }

func handleID[T any](h sim.Handle[T]) string {
	if !h.Valid() {
		return NoID
	}
	return h.String()
}

// Capture snapshots s after the Step that produced res.
func Capture(s *sim.Sim, res sim.FrameResult) FrameRecord {
	w := s.World
	rec := FrameRecord{Frame: res.Frame, Elapsed: s.Elapsed()}

	if c := w.Player; c != nil {
		q := c.Rotation
		rec.Player = &CraftRecord{
			Pos:   vec(c.Position),
			Rot:   [4]float64{q.W, q.V[0], q.V[1], q.V[2]},
			Speed: c.Speed,
			Fired: c.MissilesFired,
			Lock:  handleID(c.Target),
		}
	}
	w.Targets.Each(func(h sim.Handle[sim.Target], t *sim.Target) {
		rec.Targets = append(rec.Targets, TargetRecord{ID: handleID(h), Name: t.Name, Pos: vec(t.Position)})
	})
	w.Missiles.Each(func(h sim.Handle[sim.Missile], m *sim.Missile) {
		rec.Missiles = append(rec.Missiles, MissileRecord{
			ID:       handleID(h),
			Target:   handleID(m.Target),
			Pos:      vec(m.Position),
			Speed:    m.Speed,
			Lifetime: m.Lifetime,
		})
	})
	for _, ev := range res.Events {
		rec.Events = append(rec.Events, EventRecord{
			Kind:    ev.Kind.String(),
			Missile: handleID(ev.Missile),
			Target:  handleID(ev.Target),
		})
	}
	for _, m := range res.Tactical.Radar {
		rec.Radar = append(rec.Radar, RadarRecord{Target: handleID(m.Target), X: m.Point.X(), Y: m.Point.Y()})
	}
	return rec
}

// Recorder appends FrameRecords to a writer.
type Recorder struct {
	buf    *bufio.Writer
	enc    *msgpack.Encoder
	frames int
}

// NewRecorder wraps w. Call Flush (or Close on the underlying file after
// Flush) before reading the stream back.
func NewRecorder(w io.Writer) *Recorder {
	buf := bufio.NewWriter(w)
	return &Recorder{buf: buf, enc: msgpack.NewEncoder(buf)}
}

// Write encodes one record.
func (r *Recorder) Write(rec FrameRecord) error {
	if err := r.enc.Encode(&rec); err != nil {
		return fmt.Errorf("telemetry: encode frame %d: %w", rec.Frame, err)
	}
	r.frames++
	return nil
}

// Record captures and writes one frame.
func (r *Recorder) Record(s *sim.Sim, res sim.FrameResult) error {
	return r.Write(Capture(s, res))
}

// Frames is the number of records written.
func (r *Recorder) Frames() int { return r.frames }

// Flush pushes buffered records to the writer.
func (r *Recorder) Flush() error {
	if err := r.buf.Flush(); err != nil {
		return fmt.Errorf("telemetry: flush: %w", err)
	}
	return nil
}

// Reader decodes a record stream.
type Reader struct {
	dec *msgpack.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: msgpack.NewDecoder(bufio.NewReader(r))}
}

// Next returns the next record, or io.EOF at a clean end of stream.
func (r *Reader) Next() (FrameRecord, error) {
	var rec FrameRecord
	if err := r.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return FrameRecord{}, io.EOF
		}
		return FrameRecord{}, fmt.Errorf("telemetry: decode: %w", err)
	}
	return rec, nil
}

// ReadAll decodes every record in r.
func ReadAll(r io.Reader) ([]FrameRecord, error) {
	rd := NewReader(r)
	var out []FrameRecord
	for {
		rec, err := rd.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// Summary tallies a decoded stream.
type Summary struct {
	Frames   int
	Launched int
	Impacts  int
	Expired  int
	MaxSpeed float64
}

// Summarize walks records once.
func Summarize(recs []FrameRecord) Summary {
	var s Summary
	for _, r := range recs {
		s.Frames++
		if r.Player != nil && r.Player.Speed > s.MaxSpeed {
			s.MaxSpeed = r.Player.Speed
		}
		for _, ev := range r.Events {
			switch ev.Kind {
			case sim.EventMissileLaunched.String():
				s.Launched++
			case sim.EventMissileImpact.String():
				s.Impacts++
			case sim.EventMissileExpired.String():
				s.Expired++
			}
		}
	}
	return s
}
