package sim

import "math"

// CycleLock returns the visible target after current in mark order,
// wrapping around. With no current lock (or a current lock that is not
// visible) it starts from the first mark. No visible marks means no lock.
func CycleLock(current Handle[Target], visible []TacticalMark) Handle[Target] {
	if len(visible) == 0 {
		return Handle[Target]{}
	}
	for i, m := range visible {
		if m.Target == current {
			return visible[(i+1)%len(visible)].Target
		}
	}
	return visible[0].Target
}

// LockNearest returns the visible target closest to the viewport centre.
// Ties keep the earlier mark.
func LockNearest(visible []TacticalMark, vp Viewport) Handle[Target] {
	best := Handle[Target]{}
	bestDist := math.Inf(1)
	c := vp.Center()
	for _, m := range visible {
		d := m.Point.Sub(c).Len()
		if d < bestDist {
			best, bestDist = m.Target, d
		}
	}
	return best
}

// NextLock picks the lock a lock press produces: the target nearest the
// centre when nothing is locked, otherwise the next one in the cycle.
func NextLock(current Handle[Target], locked bool, visible []TacticalMark, vp Viewport) Handle[Target] {
	if !locked {
		return LockNearest(visible, vp)
	}
	return CycleLock(current, visible)
}
