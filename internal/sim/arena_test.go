package sim

import "testing"

func TestArena_InsertGet(t *testing.T) {
	var a Arena[string]
	h := a.Insert("alpha")
	v, ok := a.Get(h)
	if !ok || *v != "alpha" {
		t.Fatalf("expected alpha, got %v ok=%v", v, ok)
	}
	if a.Len() != 1 {
		t.Fatalf("len should be 1, got %d", a.Len())
	}
}

func TestArena_ZeroHandleNeverResolves(t *testing.T) {
	var a Arena[int]
	a.Insert(1)
	if _, ok := a.Get(Handle[int]{}); ok {
		t.Fatal("zero handle must not resolve")
	}
}

func TestArena_StaleHandleRejected(t *testing.T) {
	var a Arena[int]
	h := a.Insert(7)
	if !a.Remove(h) {
		t.Fatal("first remove should succeed")
	}
	if a.Remove(h) {
		t.Fatal("second remove should fail")
	}
	if _, ok := a.Get(h); ok {
		t.Fatal("removed handle should not resolve")
	}

	h2 := a.Insert(8)
	if h2.Index() != h.Index() {
		t.Fatalf("slot should be reused: %d vs %d", h2.Index(), h.Index())
	}
	if _, ok := a.Get(h); ok {
		t.Fatal("stale handle must not see the new occupant")
	}
	if v, ok := a.Get(h2); !ok || *v != 8 {
		t.Fatalf("new handle should resolve to 8, got %v", v)
	}
}

func TestArena_EnumerationOrder(t *testing.T) {
	var a Arena[int]
	hs := []Handle[int]{a.Insert(0), a.Insert(1), a.Insert(2), a.Insert(3)}
	a.Remove(hs[1])

	var seen []int
	a.Each(func(_ Handle[int], v *int) { seen = append(seen, *v) })
	want := []int{0, 2, 3}
	if len(seen) != len(want) {
		t.Fatalf("expected %v, got %v", want, seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, seen)
		}
	}

	handles := a.Handles()
	for i := 1; i < len(handles); i++ {
		if handles[i].Index() <= handles[i-1].Index() {
			t.Fatalf("handles not ascending: %v", handles)
		}
	}
}

func TestArena_RemoveWhileRangingHandles(t *testing.T) {
	var a Arena[int]
	for i := 0; i < 5; i++ {
		a.Insert(i)
	}
	for _, h := range a.Handles() {
		v, _ := a.Get(h)
		if *v%2 == 0 {
			a.Remove(h)
		}
	}
	if a.Len() != 2 {
		t.Fatalf("expected 2 odd values left, got %d", a.Len())
	}
}

func TestArena_Clear(t *testing.T) {
	var a Arena[int]
	h := a.Insert(1)
	a.Insert(2)
	a.Clear()
	if a.Len() != 0 {
		t.Fatalf("expected empty arena, got %d", a.Len())
	}
	if a.Contains(h) {
		t.Fatal("cleared handle should be stale")
	}
}
