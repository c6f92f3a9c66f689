package game

import (
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Garsondee/Ace-Sky/internal/sim"
)

func TestRadarPanel_BottomRight(t *testing.T) {
	p := radarPanel(1280, 720)
	if p.x+p.w != 1280-radarMargin || p.y+p.h != 720-radarMargin {
		t.Fatalf("panel should hug the bottom-right corner: %+v", p)
	}
}

func TestRadarPixel_Corners(t *testing.T) {
	p := panelRect{x: 100, y: 50, w: 200, h: 200}
	cases := []struct {
		pct  mgl64.Vec2
		x, y float32
	}{
		{mgl64.Vec2{50, 50}, 200, 150},
		{mgl64.Vec2{0, 0}, 100, 250},   // bottom-left
		{mgl64.Vec2{100, 100}, 300, 50}, // top-right
	}
	for _, c := range cases {
		x, y := radarPixel(p, c.pct)
		if math.Abs(float64(x-c.x)) > 1e-4 || math.Abs(float64(y-c.y)) > 1e-4 {
			t.Errorf("pct %v: got (%.1f, %.1f), want (%.1f, %.1f)", c.pct, x, y, c.x, c.y)
		}
	}
}

func TestReadoutLines(t *testing.T) {
	c := sim.NewCraft(mgl64.Vec3{0, 100, 0}, 40)
	c.MissilesFired = 3
	lines := readoutLines(c, "", false)
	want := []string{"SPD 1000 km/h", "ALT   500 m", "MSL    3 fired", "LOCK --"}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
	if got := readoutLines(c, "o2", true)[3]; got != "LOCK o2" {
		t.Fatalf("visible lock readout %q", got)
	}
	if got := readoutLines(c, "o2", false)[3]; !strings.HasSuffix(got, "(off-screen)") {
		t.Fatalf("hidden lock should be flagged, got %q", got)
	}
}

func TestHUD_IsMarkerFactory(t *testing.T) {
	h := NewHUD()
	var f sim.MarkerFactory = h
	m := f.CreateMarker(sim.MarkerRadarDot)
	f.SetMarkerPosition(m, mgl64.Vec2{25, 75})
	if got := h.Markers(sim.MarkerRadarDot); len(got) != 1 || got[0].Position != (mgl64.Vec2{25, 75}) {
		t.Fatalf("unexpected markers %v", got)
	}
	f.DestroyMarker(m)
	if h.Live(sim.MarkerRadarDot) != 0 {
		t.Fatal("marker should be gone")
	}
}
