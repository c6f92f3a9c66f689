package sim

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// TestSim is a headless simulation harness used by tests and the headless
// report. It drives Sim exactly as a frontend would, with a recording
// marker factory and deterministic seeding.
type TestSim struct {
	World    *World
	Sim      *Sim
	Markers  *MarkerRecorder
	SimLog   *SimLog
	Viewport Viewport
	DT       float64
	// Events accumulates every event produced since construction.
	Events []Event

	modelName string
	tuning    DynamicsTuning
	body      RigidBody
	noCamera  bool
	logger    zerolog.Logger
	rng       *rand.Rand
	targets   map[string]Handle[Target]
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // viewport, dt, seed, model, verbose: applied first
	simOptEntity                      // player and targets: applied once the world exists
	simOptPost                        // locks and other cross references: applied last
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithViewport sets the render target size.
func WithViewport(w, h float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.Viewport = Viewport{Width: w, Height: h}
	}}
}

// WithDT sets the fixed frame step in seconds.
func WithDT(dt float64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.DT = dt }}
}

// WithSeed sets the RNG seed for deterministic random input.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- test harness
	}}
}

// WithVerbose enables per-frame flight samples in the SimLog.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.SimLog = NewSimLog(v)
	}}
}

// WithFlightModel selects the flight model by name.
func WithFlightModel(name string) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.modelName = name }}
}

// WithTuning overrides the dynamics tuning.
func WithTuning(t DynamicsTuning) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.tuning = t }}
}

// WithRigidBody swaps the dynamics backend.
func WithRigidBody(b RigidBody) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.body = b }}
}

// WithHarnessLogger routes the sim's diagnostic log.
func WithHarnessLogger(l zerolog.Logger) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.logger = l }}
}

// WithoutCamera runs without a chase camera, so no reticles are produced.
func WithoutCamera() SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) { ts.noCamera = true }}
}

// WithPlayer places the player craft.
func WithPlayer(pos mgl64.Vec3, speed float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.World.SpawnPlayer(pos, speed)
	}}
}

// WithPlayerRotation orients the player craft.
func WithPlayerRotation(rot mgl64.Quat) SimOption {
	return SimOption{simOptPost, func(ts *TestSim) {
		if ts.World.Player != nil {
			ts.World.Player.Rotation = rot.Normalize()
			ts.World.Player.Velocity = ts.World.Player.Forward().Mul(ts.World.Player.Speed)
		}
	}}
}

// WithTarget adds a stationary drone.
func WithTarget(name string, pos mgl64.Vec3) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		ts.targets[name] = ts.World.SpawnTarget(name, pos, nil)
	}}
}

// WithOrbitTarget adds a drone circling center.
func WithOrbitTarget(name string, center mgl64.Vec3, radius, angularSpeed, phase float64) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		o := &OrbitPath{Center: center, Radius: radius, AngularSpeed: angularSpeed, Phase: phase}
		ts.targets[name] = ts.World.SpawnTarget(name, o.Point(), o)
	}}
}

// WithPatrolTarget adds a drone looping over waypoints, starting at the first.
func WithPatrolTarget(name string, speed float64, waypoints ...mgl64.Vec3) SimOption {
	return SimOption{simOptEntity, func(ts *TestSim) {
		if len(waypoints) == 0 {
			return
		}
		p := &PatrolPath{Waypoints: waypoints, Speed: speed}
		ts.targets[name] = ts.World.SpawnTarget(name, waypoints[0], p)
	}}
}

// WithLock locks the player onto a named target.
func WithLock(name string) SimOption {
	return SimOption{simOptPost, func(ts *TestSim) {
		if ts.World.Player != nil {
			ts.World.Player.Target = ts.targets[name]
		}
	}}
}

// NewTestSim constructs a TestSim from the given options in ordered passes:
//  1. Infrastructure (viewport, dt, seed, model, verbose)
//  2. World and camera
//  3. Player and targets
//  4. Cross references (locks, orientation)
//  5. Sim
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		Viewport: Viewport{Width: 1280, Height: 720},
		DT:       1.0 / 60,
		SimLog:   NewSimLog(false),
		Markers:  NewMarkerRecorder(),
		tuning:   DefaultDynamicsTuning(),
		logger:   zerolog.Nop(),
		rng:      rand.New(rand.NewSource(1)), // #nosec G404 -- test harness default
		targets:  make(map[string]Handle[Target]),
	}
	ts.apply(opts, simOptInfra)

	ts.World = NewWorld()
	if !ts.noCamera {
		ts.World.Camera = NewCameraRig()
		ts.World.Camera.SetViewport(ts.Viewport)
	}
	ts.apply(opts, simOptEntity)
	ts.apply(opts, simOptPost)

	fm, _ := NewFlightModel(ts.modelName, ts.tuning)
	if dm, ok := fm.(*DynamicsModel); ok && ts.body != nil {
		dm.Body = ts.body
	}
	ts.Sim = New(ts.World, fm,
		WithLogger(ts.logger),
		WithMarkers(ts.Markers),
		WithSimLog(ts.SimLog),
	)
	return ts
}

func (ts *TestSim) apply(opts []SimOption, kind simOptionKind) {
	for _, o := range opts {
		if o.kind == kind {
			o.fn(ts)
		}
	}
}

// Target returns the handle of a named target.
func (ts *TestSim) Target(name string) Handle[Target] {
	return ts.targets[name]
}

// Frame returns a frame context carrying in with the harness dt and viewport.
func (ts *TestSim) Frame(in InputSnapshot) FrameContext {
	return FrameContext{DT: ts.DT, Input: in, Viewport: ts.Viewport}
}

// Step runs one frame with an explicit context.
func (ts *TestSim) Step(ctx FrameContext) FrameResult {
	res := ts.Sim.Step(ctx)
	ts.Events = append(ts.Events, res.Events...)
	return res
}

// RunFrames advances n frames holding in.
func (ts *TestSim) RunFrames(n int, in InputSnapshot) {
	for i := 0; i < n; i++ {
		ts.Step(ts.Frame(in))
	}
}

// RunUntil advances up to maxFrames, stopping early if predicate returns
// true. Returns the frame at which the predicate was satisfied, or -1.
func (ts *TestSim) RunUntil(predicate func(*TestSim) bool, in InputSnapshot, maxFrames int) int {
	for i := 0; i < maxFrames; i++ {
		ts.Step(ts.Frame(in))
		if predicate(ts) {
			return ts.Sim.Frame()
		}
	}
	return -1
}

// Fire runs one frame with a single fire press.
func (ts *TestSim) Fire(in InputSnapshot) FrameResult {
	ctx := ts.Frame(in)
	ctx.FirePressed = 1
	return ts.Step(ctx)
}

// PressLock runs one frame with the lock button pressed.
func (ts *TestSim) PressLock() FrameResult {
	ctx := ts.Frame(InputSnapshot{})
	ctx.LockPressed = true
	return ts.Step(ctx)
}

// RandomInput draws an arbitrary, possibly out-of-range, input snapshot.
func (ts *TestSim) RandomInput() InputSnapshot {
	r := func() float64 { return ts.rng.Float64()*3 - 1.5 }
	return InputSnapshot{
		Axis:   mgl64.Vec2{r(), r()},
		Accel:  r(),
		Brake:  r(),
		Yaw:    r(),
		Camera: mgl64.Vec2{r(), r()},
	}
}

// CountEvents returns how many accumulated events have kind k.
func (ts *TestSim) CountEvents(k EventKind) int {
	n := 0
	for _, e := range ts.Events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

// SimSnapshot captures a lightweight state summary.
type SimSnapshot struct {
	Frame         int
	Position      mgl64.Vec3
	Rotation      mgl64.Quat
	Speed         float64
	MissilesFired uint32
	Missiles      int
	Reticles      int
	RadarContacts int
	Locked        bool
}

// Snapshot returns the current state.
func (ts *TestSim) Snapshot() SimSnapshot {
	snap := SimSnapshot{
		Frame:         ts.Sim.Frame(),
		Missiles:      ts.World.Missiles.Len(),
		Reticles:      ts.Markers.Live(MarkerReticle),
		RadarContacts: ts.Markers.Live(MarkerRadarDot),
	}
	if p := ts.World.Player; p != nil {
		snap.Position = p.Position
		snap.Rotation = p.Rotation
		snap.Speed = p.Speed
		snap.MissilesFired = p.MissilesFired
		snap.Locked = p.Target.Valid()
	}
	return snap
}
