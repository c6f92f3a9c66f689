package sim

import "github.com/go-gl/mathgl/mgl64"

// World owns every entity of a running simulation. Each entity kind lives in
// its own arena; cross references are weak handles checked at lookup time.
type World struct {
	Player   *Craft
	Camera   *CameraRig
	Targets  Arena[Target]
	Missiles Arena[Missile]
}

// NewWorld returns an empty world with no player and no camera.
func NewWorld() *World {
	return &World{}
}

// SpawnPlayer places the player craft and returns it.
func (w *World) SpawnPlayer(pos mgl64.Vec3, speed float64) *Craft {
	w.Player = NewCraft(pos, speed)
	return w.Player
}

// SpawnTarget adds a drone.
func (w *World) SpawnTarget(name string, pos mgl64.Vec3, path Path) Handle[Target] {
	return w.Targets.Insert(Target{Transform: NewTransform(pos), Name: name, Path: path})
}

// RemoveTarget destroys a drone. Missiles and locks pointing at it fall back
// to "no target" the next time they look it up.
func (w *World) RemoveTarget(h Handle[Target]) bool {
	return w.Targets.Remove(h)
}

// Target resolves a weak target reference.
func (w *World) Target(h Handle[Target]) (*Target, bool) {
	return w.Targets.Get(h)
}

// TargetPosition resolves h to a world position.
func (w *World) TargetPosition(h Handle[Target]) (mgl64.Vec3, bool) {
	t, ok := w.Targets.Get(h)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return t.Position, true
}

// MissilesTargeting counts missiles whose target reference is h.
func (w *World) MissilesTargeting(h Handle[Target]) int {
	n := 0
	w.Missiles.Each(func(_ Handle[Missile], m *Missile) {
		if m.Target == h {
			n++
		}
	})
	return n
}
