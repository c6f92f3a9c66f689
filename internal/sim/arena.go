package sim

import "fmt"

// Handle is a weak, generation-checked reference into an Arena[T].
// The zero Handle refers to nothing.
type Handle[T any] struct {
	index uint32
	gen   uint32
}

// Valid reports whether h was ever issued by an arena. A valid handle can
// still be stale; only Arena.Get can tell.
func (h Handle[T]) Valid() bool { return h.gen != 0 }

// Index returns the slot index, useful as a stable short label.
func (h Handle[T]) Index() int { return int(h.index) }

func (h Handle[T]) String() string {
	if !h.Valid() {
		return "none"
	}
	return fmt.Sprintf("%d#%d", h.index, h.gen)
}

type arenaSlot[T any] struct {
	value T
	gen   uint32
	live  bool
}

// Arena stores values of one entity kind in reusable slots. Removing a value
// bumps the slot generation, so outstanding handles to it stop resolving.
// Enumeration is by ascending slot index.
type Arena[T any] struct {
	slots []arenaSlot[T]
	free  []uint32
	count int
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v T) Handle[T] {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, arenaSlot[T]{})
	}
	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.value = v
	s.live = true
	a.count++
	return Handle[T]{index: idx, gen: s.gen}
}

// Get resolves h. The pointer is valid until the next Insert.
func (a *Arena[T]) Get(h Handle[T]) (*T, bool) {
	if !h.Valid() || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.live || s.gen != h.gen {
		return nil, false
	}
	return &s.value, true
}

// Contains reports whether h still resolves.
func (a *Arena[T]) Contains(h Handle[T]) bool {
	_, ok := a.Get(h)
	return ok
}

// Remove frees the slot behind h. It returns false for stale handles.
func (a *Arena[T]) Remove(h Handle[T]) bool {
	if !a.Contains(h) {
		return false
	}
	s := &a.slots[h.index]
	var zero T
	s.value = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, h.index)
	a.count--
	return true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int { return a.count }

// Handles returns a snapshot of live handles in enumeration order. Callers
// that remove while iterating should range over this.
func (a *Arena[T]) Handles() []Handle[T] {
	out := make([]Handle[T], 0, a.count)
	for i := range a.slots {
		if a.slots[i].live {
			out = append(out, Handle[T]{index: uint32(i), gen: a.slots[i].gen})
		}
	}
	return out
}

// Each calls fn for every live value in enumeration order. fn must not
// insert or remove.
func (a *Arena[T]) Each(fn func(Handle[T], *T)) {
	for i := range a.slots {
		s := &a.slots[i]
		if s.live {
			fn(Handle[T]{index: uint32(i), gen: s.gen}, &s.value)
		}
	}
}

// Clear removes everything, invalidating all handles.
func (a *Arena[T]) Clear() {
	for _, h := range a.Handles() {
		a.Remove(h)
	}
}
