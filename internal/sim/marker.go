package sim

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// MarkerKind selects how a display draws a marker.
type MarkerKind int

const (
	MarkerReticle MarkerKind = iota
	MarkerRadarDot
)

func (k MarkerKind) String() string {
	if k == MarkerRadarDot {
		return "radar"
	}
	return "reticle"
}

// MarkerHandle is an opaque display-side marker id.
type MarkerHandle uint64

// MarkerFactory is the display surface tactical markers live on.
// Reticle positions are screen pixels; radar positions are percentages of
// the radar panel measured from its left and bottom edges.
type MarkerFactory interface {
	CreateMarker(kind MarkerKind) MarkerHandle
	DestroyMarker(h MarkerHandle)
	SetMarkerPosition(h MarkerHandle, pos mgl64.Vec2)
}

// MarkerPool keeps a factory's markers of one kind in step with a list of
// positions. Markers are reused positionally and carry no target identity.
type MarkerPool struct {
	factory MarkerFactory
	kind    MarkerKind
	handles []MarkerHandle
}

// NewMarkerPool returns an empty pool drawing on f.
func NewMarkerPool(f MarkerFactory, kind MarkerKind) *MarkerPool {
	return &MarkerPool{factory: f, kind: kind}
}

// Kind returns the marker kind the pool creates.
func (p *MarkerPool) Kind() MarkerKind { return p.kind }

// Len returns the live marker count.
func (p *MarkerPool) Len() int { return len(p.handles) }

// Handles returns a copy of the live handles in pool order.
func (p *MarkerPool) Handles() []MarkerHandle {
	return append([]MarkerHandle(nil), p.handles...)
}

// Reconcile resizes the pool to len(points) and moves marker i to points[i].
// Surplus markers are destroyed from the tail.
func (p *MarkerPool) Reconcile(points []mgl64.Vec2) {
	if p == nil || p.factory == nil {
		return
	}
	for len(p.handles) > len(points) {
		last := len(p.handles) - 1
		p.factory.DestroyMarker(p.handles[last])
		p.handles = p.handles[:last]
	}
	for len(p.handles) < len(points) {
		p.handles = append(p.handles, p.factory.CreateMarker(p.kind))
	}
	for i, h := range p.handles {
		p.factory.SetMarkerPosition(h, points[i])
	}
}

// Clear destroys every marker.
func (p *MarkerPool) Clear() { p.Reconcile(nil) }

// RecordedMarker is one marker held by a MarkerRecorder.
type RecordedMarker struct {
	Handle   MarkerHandle
	Kind     MarkerKind
	Position mgl64.Vec2
}

// MarkerRecorder is an in-memory MarkerFactory for headless runs. It counts
// creations and destructions so leaks show up as a mismatch.
type MarkerRecorder struct {
	next      MarkerHandle
	live      map[MarkerHandle]*RecordedMarker
	Created   int
	Destroyed int
	// Unknown counts operations on handles the recorder never issued or
	// already destroyed.
	Unknown int
}

// NewMarkerRecorder returns an empty recorder.
func NewMarkerRecorder() *MarkerRecorder {
	return &MarkerRecorder{live: make(map[MarkerHandle]*RecordedMarker)}
}

func (r *MarkerRecorder) CreateMarker(kind MarkerKind) MarkerHandle {
	r.next++
	r.live[r.next] = &RecordedMarker{Handle: r.next, Kind: kind}
	r.Created++
	return r.next
}

func (r *MarkerRecorder) DestroyMarker(h MarkerHandle) {
	if _, ok := r.live[h]; !ok {
		r.Unknown++
		return
	}
	delete(r.live, h)
	r.Destroyed++
}

func (r *MarkerRecorder) SetMarkerPosition(h MarkerHandle, pos mgl64.Vec2) {
	m, ok := r.live[h]
	if !ok {
		r.Unknown++
		return
	}
	m.Position = pos
}

// Live returns the number of markers of kind currently alive.
func (r *MarkerRecorder) Live(kind MarkerKind) int {
	n := 0
	for _, m := range r.live {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// Markers returns live markers of kind ordered by handle.
func (r *MarkerRecorder) Markers(kind MarkerKind) []RecordedMarker {
	out := make([]RecordedMarker, 0, len(r.live))
	for _, m := range r.live {
		if m.Kind == kind {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}
