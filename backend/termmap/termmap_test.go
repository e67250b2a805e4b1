package termmap

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"

	"github.com/phanxgames/worldmap"
)

var red = worldmap.ColorFromHex(0xff0000)

func TestCanvasSize(t *testing.T) {
	c := NewCanvas(10, 4)
	if w, h := c.Size(); w != 10 || h != 8 {
		t.Errorf("Size = %v x %v, want 10 x 8", w, h)
	}
	if c.At(0, 0) != worldmap.ColorOcean || c.At(-1, 0) != worldmap.ColorOcean {
		t.Error("new canvas should be ocean everywhere")
	}
}

func TestFillPolygon(t *testing.T) {
	c := NewCanvas(10, 5)
	c.FillPolygon([]worldmap.Vec2{{X: 2, Y: 2}, {X: 6, Y: 2}, {X: 6, Y: 6}, {X: 2, Y: 6}}, red)

	tests := []struct {
		x, y int
		want bool
	}{
		{2, 2, true},
		{5, 5, true},
		{6, 2, false},
		{2, 6, false},
		{1, 3, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		if got := c.At(tt.x, tt.y) == red; got != tt.want {
			t.Errorf("pixel (%d,%d) filled = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestFillPolygonClipsAndSkipsDegenerate(t *testing.T) {
	c := NewCanvas(4, 2)
	c.FillPolygon([]worldmap.Vec2{{X: -10, Y: -10}, {X: 50, Y: -10}, {X: 50, Y: 50}, {X: -10, Y: 50}}, red)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if c.At(x, y) != red {
				t.Fatalf("pixel (%d,%d) not filled", x, y)
			}
		}
	}

	c.Clear()
	c.FillPolygon([]worldmap.Vec2{{X: 0, Y: 0}, {X: 3, Y: 3}}, red)
	if c.At(1, 1) == red {
		t.Error("a two-point polygon should not fill")
	}
}

func TestBlend(t *testing.T) {
	c := NewCanvas(1, 1)
	c.bg = worldmap.Color{A: 1}
	c.Clear()
	c.Blend(0, 0, worldmap.Color{R: 1, G: 1, B: 1, A: 0.25})
	got := c.At(0, 0)
	if got.R != 0.25 || got.G != 0.25 || got.B != 0.25 || got.A != 1 {
		t.Errorf("blended = %+v, want quarter grey", got)
	}
	c.Blend(5, 5, red)
}

func TestStrokePolygon(t *testing.T) {
	c := NewCanvas(10, 5)
	c.StrokePolygon([]worldmap.Vec2{{X: 1, Y: 1}, {X: 7, Y: 1}, {X: 7, Y: 6}, {X: 1, Y: 6}}, red, 1)

	for _, p := range [][2]int{{1, 1}, {4, 1}, {7, 1}, {7, 4}, {7, 6}, {3, 6}, {1, 6}, {1, 3}} {
		if c.At(p[0], p[1]) != red {
			t.Errorf("outline pixel %v not drawn", p)
		}
	}
	if c.At(4, 3) == red {
		t.Error("stroke should not fill the interior")
	}
}

func TestBlit(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(2, 1)

	c := NewCanvas(2, 1)
	c.Blend(0, 0, red)
	c.Blit(screen)
	screen.Show()

	ch, _, style, _ := screen.GetContent(0, 0)
	fg, bg, _ := style.Decompose()
	if ch != '▀' {
		t.Errorf("cell rune = %q, want upper half block", ch)
	}
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != termColor(worldmap.ColorOcean) {
		t.Errorf("cell colors = %v / %v", fg, bg)
	}
}

func TestCellToPixel(t *testing.T) {
	if x, y := CellToPixel(3, 4); x != 3.5 || y != 9 {
		t.Errorf("CellToPixel(3,4) = %v,%v", x, y)
	}
}

func newTestApp(t *testing.T) (*App, *worldmap.Map, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 31)

	features := []worldmap.Feature{
		{Name: "Westland", ISO3: "WST", ISO2: "WL", Geometry: orb.Polygon{{{-40, -10}, {-10, -10}, {-10, 20}, {-40, 20}, {-40, -10}}}},
		{Name: "Eastland", ISO3: "EST", ISO2: "EL", Geometry: orb.Polygon{{{0, -5}, {20, -5}, {20, 10}, {0, 10}, {0, -5}}}},
	}
	atlas, err := worldmap.NewProjector(nil, worldmap.ProjectorConfig{}).Project(features)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	canvas := NewCanvas(80, 30)
	m := worldmap.New(canvas, worldmap.WithViewportConfig(ViewportConfig()))
	m.Load(atlas)
	return NewApp(screen, m, canvas, nil), m, screen
}

func TestAppClickSelects(t *testing.T) {
	app, m, _ := newTestApp(t)
	east := m.Atlas().Lookup("EST")
	p := m.Container().WorldToScreen(east.MainSegment().Centroid())
	col, row := int(p.X), int(p.Y/2)

	app.HandleEvent(tcell.NewEventMouse(col, row, tcell.Button1, tcell.ModNone))
	app.HandleEvent(tcell.NewEventMouse(col, row, tcell.ButtonNone, tcell.ModNone))

	if m.ActiveCountry() != east {
		t.Fatalf("active = %v, want Eastland", m.ActiveCountry())
	}
	if !strings.HasSuffix(app.Label(), "Eastland") {
		t.Errorf("Label = %q", app.Label())
	}
}

func TestAppWheelZooms(t *testing.T) {
	app, m, _ := newTestApp(t)
	base := m.Viewport().Zoom()
	app.HandleEvent(tcell.NewEventMouse(40, 15, tcell.WheelUp, tcell.ModNone))
	if m.Viewport().Zoom() <= base {
		t.Errorf("wheel up should zoom in: %f -> %f", base, m.Viewport().Zoom())
	}
	if m.Router().Pressed() != 0 {
		t.Error("wheel must not press the pointer")
	}
}

func TestAppKeys(t *testing.T) {
	app, m, _ := newTestApp(t)
	base := m.Viewport().Zoom()

	if !app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone)) {
		t.Fatal("'+' should not quit")
	}
	if m.Viewport().Zoom() <= base {
		t.Error("'+' should zoom in")
	}
	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	if m.Viewport().Zoom() != base {
		t.Errorf("'r' should reset zoom, got %f want %f", m.Viewport().Zoom(), base)
	}

	if app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)) {
		t.Error("'q' should quit")
	}
	if app.HandleEvent(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)) {
		t.Error("ctrl-c should quit")
	}
}

func TestAppDraw(t *testing.T) {
	app, _, screen := newTestApp(t)
	app.Draw()

	ch, _, _, _ := screen.GetContent(0, 0)
	if ch != '▀' {
		t.Errorf("map cell = %q", ch)
	}
	var status strings.Builder
	for x := 0; x < 16; x++ {
		r, _, _, _ := screen.GetContent(x, 30)
		status.WriteRune(r)
	}
	if !strings.Contains(status.String(), "Click a country") {
		t.Errorf("status line = %q", status.String())
	}
}

func TestAppResize(t *testing.T) {
	app, m, screen := newTestApp(t)
	screen.SetSize(40, 21)
	app.HandleEvent(tcell.NewEventResize(40, 21))
	if w, h := m.Surface().Size(); w != 40 || h != 40 {
		t.Errorf("surface = %v x %v, want 40 x 40", w, h)
	}
}
