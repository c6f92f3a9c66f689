package game

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

const (
	gridSpacing = 100.0
	gridExtent  = 12 // lines either side of the player
	droneSize   = 6.0
	missileTail = 4.0
)

var (
	skyTop      = color.RGBA{R: 28, G: 52, B: 96, A: 255}
	groundCol   = color.RGBA{R: 40, G: 80, B: 50, A: 140}
	droneCol    = color.RGBA{R: 240, G: 200, B: 80, A: 255}
	missileCol  = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	craftCol    = color.RGBA{R: 200, G: 220, B: 255, A: 255}
	lockedDrone = color.RGBA{R: 255, G: 90, B: 60, A: 255}
)

// segment is a world-space line.
type segment struct {
	a, b mgl64.Vec3
}

// projectSegment maps s to screen space. Segments with an endpoint behind
// the camera are dropped.
func projectSegment(cam *sim.CameraRig, s segment) (mgl64.Vec2, mgl64.Vec2, bool) {
	a, ok := cam.WorldToScreen(s.a)
	if !ok {
		return mgl64.Vec2{}, mgl64.Vec2{}, false
	}
	b, ok := cam.WorldToScreen(s.b)
	if !ok {
		return mgl64.Vec2{}, mgl64.Vec2{}, false
	}
	return a, b, true
}

func strokeSegments(screen *ebiten.Image, cam *sim.CameraRig, segs []segment, width float32, clr color.Color) {
	for _, s := range segs {
		a, b, ok := projectSegment(cam, s)
		if !ok {
			continue
		}
		vector.StrokeLine(screen, float32(a.X()), float32(a.Y()), float32(b.X()), float32(b.Y()), width, clr, false)
	}
}

// groundGrid returns grid lines on y=0 snapped to gridSpacing around
// center so the grid appears fixed in the world as the player moves.
func groundGrid(center mgl64.Vec3) []segment {
	cx := math.Round(center.X()/gridSpacing) * gridSpacing
	cz := math.Round(center.Z()/gridSpacing) * gridSpacing
	span := gridSpacing * gridExtent
	out := make([]segment, 0, 2*(2*gridExtent+1))
	for i := -gridExtent; i <= gridExtent; i++ {
		off := float64(i) * gridSpacing
		out = append(out,
			segment{mgl64.Vec3{cx + off, 0, cz - span}, mgl64.Vec3{cx + off, 0, cz + span}},
			segment{mgl64.Vec3{cx - span, 0, cz + off}, mgl64.Vec3{cx + span, 0, cz + off}},
		)
	}
	return out
}

// diamond is an octahedron wireframe around p.
func diamond(p mgl64.Vec3, r float64) []segment {
	tips := [6]mgl64.Vec3{
		p.Add(mgl64.Vec3{r, 0, 0}), p.Add(mgl64.Vec3{-r, 0, 0}),
		p.Add(mgl64.Vec3{0, r, 0}), p.Add(mgl64.Vec3{0, -r, 0}),
		p.Add(mgl64.Vec3{0, 0, r}), p.Add(mgl64.Vec3{0, 0, -r}),
	}
	out := make([]segment, 0, 12)
	for _, eq := range []int{0, 1, 4, 5} {
		out = append(out, segment{tips[eq], tips[2]}, segment{tips[eq], tips[3]})
	}
	out = append(out,
		segment{tips[0], tips[4]}, segment{tips[4], tips[1]},
		segment{tips[1], tips[5]}, segment{tips[5], tips[0]},
	)
	return out
}

// craftOutline is a dart in body space: nose, right wingtip, tail, left
// wingtip and fin top.
var craftOutline = [...]mgl64.Vec3{
	{2.5, 0, 0},
	{-1.5, 0, 2},
	{-1, 0, 0},
	{-1.5, 0, -2},
	{-1.2, 0.8, 0},
}

func craftSegments(t sim.Transform) []segment {
	var v [len(craftOutline)]mgl64.Vec3
	for i, p := range craftOutline {
		v[i] = t.Position.Add(t.Rotation.Rotate(p))
	}
	return []segment{
		{v[0], v[1]}, {v[1], v[2]}, {v[2], v[3]}, {v[3], v[0]},
		{v[2], v[4]}, {v[4], v[0]},
	}
}

// drawWorld renders the sky, ground grid, drones, missiles and the
// player's craft as projected wireframes.
func drawWorld(screen *ebiten.Image, w *sim.World) {
	screen.Fill(skyTop)
	cam := w.Camera
	if cam == nil || w.Player == nil {
		return
	}
	strokeSegments(screen, cam, groundGrid(w.Player.Position), 1, groundCol)

	w.Targets.Each(func(h sim.Handle[sim.Target], t *sim.Target) {
		clr := droneCol
		if h == w.Player.Target {
			clr = lockedDrone
		}
		strokeSegments(screen, cam, diamond(t.Position, droneSize), 1.5, clr)
	})
	w.Missiles.Each(func(_ sim.Handle[sim.Missile], m *sim.Missile) {
		tail := m.Position.Sub(m.Heading().Mul(missileTail))
		strokeSegments(screen, cam, []segment{{tail, m.Position}}, 2, missileCol)
	})
	strokeSegments(screen, cam, craftSegments(w.Player.Transform), 1.5, craftCol)
}
