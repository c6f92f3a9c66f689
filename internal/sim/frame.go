package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// FrameContext is everything the frame driver hands the simulation for one
// frame. It is passed by value; the simulation keeps no reference to it.
type FrameContext struct {
	DT    float64
	Input InputSnapshot
	// FirePressed is the number of fire presses since the previous frame.
	FirePressed int
	LockPressed bool
	// Viewport is the render target size. A zero viewport keeps the last one.
	Viewport Viewport
}

// EventKind classifies a simulation event.
type EventKind int

const (
	EventMissileLaunched EventKind = iota
	EventMissileImpact
	EventMissileExpired
	EventLockAcquired
	EventLockLost
)

func (k EventKind) String() string {
	switch k {
	case EventMissileLaunched:
		return "launch"
	case EventMissileImpact:
		return "impact"
	case EventMissileExpired:
		return "expired"
	case EventLockAcquired:
		return "lock"
	case EventLockLost:
		return "lock-lost"
	default:
		return "unknown"
	}
}

// Despawn reports whether the event ends a missile. Frontends release
// anything they attached to the missile (trails, sounds) on these.
func (k EventKind) Despawn() bool {
	return k == EventMissileImpact || k == EventMissileExpired
}

// Event is something frontends may react to: play a sound, drop a trail,
// print a line.
type Event struct {
	Kind     EventKind
	Frame    int
	Missile  Handle[Missile]
	Target   Handle[Target]
	Position mgl64.Vec3
	Rail     Rail
}

func (e Event) String() string {
	switch e.Kind {
	case EventMissileLaunched:
		return fmt.Sprintf("%s launched (%s rail) -> %s", missileLabel(e.Missile), e.Rail, targetLabel(e.Target))
	case EventMissileImpact:
		return fmt.Sprintf("%s hit %s", missileLabel(e.Missile), targetLabel(e.Target))
	case EventMissileExpired:
		return fmt.Sprintf("%s expired", missileLabel(e.Missile))
	case EventLockAcquired:
		return fmt.Sprintf("locked %s", targetLabel(e.Target))
	case EventLockLost:
		return fmt.Sprintf("lost lock on %s", targetLabel(e.Target))
	}
	return e.Kind.String()
}

// FrameResult is what one Step produced.
type FrameResult struct {
	Frame    int
	Events   []Event
	Tactical TacticalFrame
}

// Sim runs the per-frame pipeline over a World.
type Sim struct {
	World  *World
	Flight FlightModel
	Log    *SimLog

	reticles *MarkerPool
	radar    *MarkerPool
	logger   zerolog.Logger
	frame    int
	elapsed  float64
	last     TacticalFrame
}

// Option configures a Sim.
type Option func(*Sim)

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Sim) { s.logger = l }
}

// WithMarkers attaches marker pools for reticles and radar dots to f.
func WithMarkers(f MarkerFactory) Option {
	return func(s *Sim) {
		s.reticles = NewMarkerPool(f, MarkerReticle)
		s.radar = NewMarkerPool(f, MarkerRadarDot)
	}
}

// WithSimLog replaces the structured event log.
func WithSimLog(l *SimLog) Option {
	return func(s *Sim) { s.Log = l }
}

// New returns a Sim over w using flight model fm. A nil model selects the
// kinematic one.
func New(w *World, fm FlightModel, opts ...Option) *Sim {
	if fm == nil {
		fm = KinematicModel{}
	}
	s := &Sim{
		World:  w,
		Flight: fm,
		Log:    NewSimLog(false),
		logger: zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	if r, ok := fm.(Resetter); ok {
		r.Reset()
	}
	s.logger.Info().Str("model", fm.Name()).Msg("flight model selected")
	s.Log.Add(0, "--", CategoryFlight, KeyModel, fm.Name(), 0)
	if w.Player != nil && w.Camera != nil {
		w.Camera.SnapTo(w.Player, mgl64.Vec2{})
	}
	return s
}

// Frame returns the number of completed frames.
func (s *Sim) Frame() int { return s.frame }

// Elapsed returns simulated seconds.
func (s *Sim) Elapsed() float64 { return s.elapsed }

// Tactical returns the overlay computed by the last Step.
func (s *Sim) Tactical() TacticalFrame { return s.last }

// Reticles returns the reticle pool, nil without a marker factory.
func (s *Sim) Reticles() *MarkerPool { return s.reticles }

// Radar returns the radar pool, nil without a marker factory.
func (s *Sim) Radar() *MarkerPool { return s.radar }

// Step runs one frame. Phases run strictly in order and each one is a
// no-op when the entity it needs is missing.
func (s *Sim) Step(ctx FrameContext) FrameResult {
	s.frame++
	frame := s.frame
	dt := ctx.DT
	if dt < 0 {
		dt = 0
	}
	s.elapsed += dt
	res := FrameResult{Frame: frame}
	w := s.World

	// 1. INPUT
	in := ctx.Input.Clamped()
	if w.Camera != nil && ctx.Viewport.Valid() {
		w.Camera.SetViewport(ctx.Viewport)
	}
	s.checkLock(&res)

	// 2. DRONES
	AdvanceTargets(&w.Targets, dt)

	// 3. FLIGHT
	if w.Player != nil {
		s.Flight.Step(w.Player, in, dt)
		p := w.Player
		s.Log.AddVerbose(frame, playerLabel, CategoryFlight, KeySample,
			fmt.Sprintf("pos=(%.1f,%.1f,%.1f) speed=%.1f", p.Position.X(), p.Position.Y(), p.Position.Z(), p.Speed),
			p.Speed)
	}

	// 4. FIRE
	if w.Player != nil {
		for i := 0; i < ctx.FirePressed; i++ {
			s.fire(&res)
		}
	}

	// 5. MISSILES
	s.updateMissiles(dt, &res)

	// 6. CAMERA
	if w.Camera != nil && w.Player != nil {
		w.Camera.Follow(w.Player, in.Camera, dt)
	}

	// 7. TACTICAL
	tf := BuildTactical(w)
	if ctx.LockPressed && w.Player != nil {
		s.pressLock(tf.Reticles, &res)
		tf = BuildTactical(w)
	}
	s.reticles.Reconcile(Points(tf.Reticles))
	s.radar.Reconcile(Points(tf.Radar))
	s.last = tf
	res.Tactical = tf

	return res
}

func (s *Sim) emit(res *FrameResult, ev Event) {
	ev.Frame = res.Frame
	res.Events = append(res.Events, ev)
}

// checkLock drops a lock whose target no longer resolves.
func (s *Sim) checkLock(res *FrameResult) {
	p := s.World.Player
	if p == nil || !p.Target.Valid() || s.World.Targets.Contains(p.Target) {
		return
	}
	lost := p.Target
	p.Target = Handle[Target]{}
	s.Log.Add(res.Frame, playerLabel, CategoryLock, KeyLost, targetLabel(lost), 0)
	s.logger.Info().Str("target", targetLabel(lost)).Msg("lock lost")
	s.emit(res, Event{Kind: EventLockLost, Target: lost})
}

func (s *Sim) pressLock(visible []TacticalMark, res *FrameResult) {
	p := s.World.Player
	vp := Viewport{}
	if s.World.Camera != nil {
		vp = s.World.Camera.Viewport()
	}
	next := NextLock(p.Target, p.Target.Valid(), visible, vp)
	if next == p.Target {
		return
	}
	prev := p.Target
	p.Target = next
	if !next.Valid() {
		s.Log.Add(res.Frame, playerLabel, CategoryLock, KeyLost, targetLabel(prev), 0)
		s.emit(res, Event{Kind: EventLockLost, Target: prev})
		return
	}
	name := ""
	if t, ok := s.World.Target(next); ok {
		name = t.Name
	}
	s.Log.Add(res.Frame, playerLabel, CategoryLock, KeyAcquired, fmt.Sprintf("%s %s", targetLabel(next), name), 0)
	s.logger.Info().Str("target", targetLabel(next)).Str("name", name).Msg("lock acquired")
	s.emit(res, Event{Kind: EventLockAcquired, Target: next})
}

func (s *Sim) fire(res *FrameResult) {
	p := s.World.Player
	m := LaunchMissile(p)
	p.MissilesFired++
	h := s.World.Missiles.Insert(m)
	s.Log.Add(res.Frame, missileLabel(h), CategoryFire, KeyLaunch,
		fmt.Sprintf("%s rail -> %s", m.Rail, targetLabel(m.Target)), m.Speed)
	s.logger.Debug().Str("missile", missileLabel(h)).Str("rail", m.Rail.String()).
		Str("target", targetLabel(m.Target)).Msg("missile launched")
	s.emit(res, Event{Kind: EventMissileLaunched, Missile: h, Target: m.Target, Position: m.Position, Rail: m.Rail})
}

func (s *Sim) updateMissiles(dt float64, res *FrameResult) {
	w := s.World
	for _, h := range w.Missiles.Handles() {
		m, ok := w.Missiles.Get(h)
		if !ok {
			continue
		}
		tpos, hasTarget := w.TargetPosition(m.Target)
		outcome := m.Update(tpos, hasTarget, dt)
		if outcome == MissileFlying {
			continue
		}
		ev := Event{Missile: h, Target: m.Target, Position: m.Position, Rail: m.Rail}
		key := KeyExpired
		ev.Kind = EventMissileExpired
		if outcome == MissileImpact {
			key = KeyImpact
			ev.Kind = EventMissileImpact
		}
		dist := 0.0
		if hasTarget {
			dist = tpos.Sub(m.Position).Len()
		}
		s.Log.Add(res.Frame, missileLabel(h), CategoryMissile, key,
			fmt.Sprintf("%s at %.1fu", targetLabel(m.Target), dist), dist)
		s.logger.Debug().Str("missile", missileLabel(h)).Str("outcome", outcome.String()).Msg("missile despawned")
		w.Missiles.Remove(h)
		s.emit(res, ev)
	}
}

// RemoveTarget destroys a drone and logs it.
func (s *Sim) RemoveTarget(h Handle[Target]) bool {
	if !s.World.RemoveTarget(h) {
		return false
	}
	s.Log.Add(s.frame, targetLabel(h), CategoryTarget, KeyRemoved, "", 0)
	return true
}
