package worldmap

import "testing"

// newTestRouter builds a router over the standard 2048x1152 world on an
// 800x600 screen, with one 100x100 graphic at the world origin.
func newTestRouter(cfg RouterConfig) (*Router, *Viewport, *Container, *Graphic) {
	v, c, _ := newTestViewport(2048, 1152)
	g := NewGraphic("center")
	g.DrawPolygon(square(-50, -50, 100), ColorFromHex(0x336699), 0.18)
	g.SetHitRegion(g.Points)
	c.Add(g)
	return NewRouter(v, c, cfg), v, c, g
}

func TestRouterDefaults(t *testing.T) {
	r := NewRouter(nil, nil, RouterConfig{ClickSlop: -3})
	if r.cfg.WheelStep != 0.0012 || r.cfg.WheelClamp != 500 {
		t.Errorf("wheel defaults = %+v", r.cfg)
	}
	if r.cfg.ClickSlop != 0 {
		t.Errorf("ClickSlop = %f, want negative clamped to 0", r.cfg.ClickSlop)
	}
	if r.State() != GestureIdle {
		t.Errorf("State = %v, want Idle", r.State())
	}
}

func TestRouterDragPans(t *testing.T) {
	r, v, c, _ := newTestRouter(DefaultRouterConfig())
	v.SetZoom(1)
	start := c.Position()

	r.PointerDown(0, 100, 100)
	if r.State() != GestureDragging {
		t.Fatalf("State = %v, want Dragging", r.State())
	}
	r.PointerMove(0, 130, 110)
	r.PointerMove(0, 140, 90)
	want := start.Add(Vec2{40, -10})
	if c.Position() != want {
		t.Errorf("position = %v, want %v", c.Position(), want)
	}

	r.PointerUp(0, 140, 90)
	if r.State() != GestureIdle {
		t.Errorf("State = %v after release, want Idle", r.State())
	}
	r.PointerMove(0, 300, 300)
	if c.Position() != want {
		t.Error("hover movement should not pan")
	}
}

func TestRouterOnlyDragPointerPans(t *testing.T) {
	r, v, c, _ := newTestRouter(DefaultRouterConfig())
	v.SetZoom(1)
	start := c.Position()
	r.PointerDown(0, 100, 100)
	// Touch pointer 3 is not down, so its move is ignored entirely.
	r.PointerMove(3, 200, 200)
	if c.Position() != start {
		t.Errorf("position = %v, want unchanged %v", c.Position(), start)
	}
}

func TestRouterPinchZoom(t *testing.T) {
	r, v, c, _ := newTestRouter(DefaultRouterConfig())
	base := v.Zoom()

	r.PointerDown(1, 300, 300)
	r.PointerDown(2, 500, 300)
	if r.State() != GesturePinching {
		t.Fatalf("State = %v, want Pinching", r.State())
	}

	// First tick only records the baseline.
	r.Update()
	if v.Zoom() != base {
		t.Errorf("first pinch tick zoomed to %f", v.Zoom())
	}

	focal := Vec2{500, 300}
	before := c.ScreenToWorld(focal)
	r.PointerMove(2, 700, 300)
	if !approxEqual(v.Zoom(), base*2, 1e-9) {
		t.Errorf("Zoom = %f, want %f", v.Zoom(), base*2)
	}
	after := c.ScreenToWorld(focal)
	if !approxEqual(before.X, after.X, 1e-9) || !approxEqual(before.Y, after.Y, 1e-9) {
		t.Errorf("pinch midpoint moved in world space: %v -> %v", before, after)
	}

	// Repeated ticks at the same distance are stable.
	r.Update()
	r.Update()
	if !approxEqual(v.Zoom(), base*2, 1e-9) {
		t.Errorf("Zoom drifted to %f", v.Zoom())
	}

	r.PointerUp(2, 700, 300)
	if r.State() != GestureIdle {
		t.Errorf("State = %v with one pointer left, want Idle", r.State())
	}
	if r.pinch.baseline != 0 {
		t.Error("pinch baseline not cleared")
	}
}

func TestRouterWheel(t *testing.T) {
	tests := []struct {
		name   string
		deltaY float64
		factor float64
	}{
		{"zoom in", -100, 1.12},
		{"zoom out", 100, 0.88},
		{"clamped", 10000, 0.4},
		{"clamped negative", -10000, 1.6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, v, _, _ := newTestRouter(DefaultRouterConfig())
			base := v.Zoom()
			r.Wheel(400, 300, tt.deltaY)
			if !approxEqual(v.Zoom(), base*tt.factor, 1e-9) {
				t.Errorf("Zoom = %f, want %f", v.Zoom(), base*tt.factor)
			}
		})
	}
}

func TestRouterUpdateIdleIsNoop(t *testing.T) {
	r, v, c, _ := newTestRouter(DefaultRouterConfig())
	zoom, pos := v.Zoom(), c.Position()
	for i := 0; i < 5; i++ {
		r.Update()
	}
	if v.Zoom() != zoom || c.Position() != pos {
		t.Error("Update outside a pinch changed the view")
	}
}

func TestRouterHoverEnterLeave(t *testing.T) {
	r, _, _, g := newTestRouter(DefaultRouterConfig())
	var got []EventType
	record := func(ev *PointerEvent) { got = append(got, ev.Type) }
	g.OnPointerEnter = record
	g.OnPointerLeave = record

	r.PointerMove(0, 400, 300)
	r.PointerMove(0, 401, 301)
	r.PointerMove(0, 10, 10)

	want := []EventType{EventPointerEnter, EventPointerLeave}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("events = %v, want %v", got, want)
	}
}

func TestRouterEventCoordinates(t *testing.T) {
	r, _, c, g := newTestRouter(DefaultRouterConfig())
	var ev *PointerEvent
	g.OnPointerDown = func(e *PointerEvent) { ev = e }
	r.PointerDown(0, 400, 300)
	if ev == nil {
		t.Fatal("OnPointerDown not fired")
	}
	w := c.ScreenToWorld(Vec2{400, 300})
	if ev.WorldX != w.X || ev.WorldY != w.Y || ev.ScreenX != 400 {
		t.Errorf("event coords = %+v", ev)
	}
	if !ev.Down || ev.Graphic != g {
		t.Error("press event should be down and bound to the graphic")
	}
}

func TestRouterClickSlop(t *testing.T) {
	tests := []struct {
		name    string
		slop    float64
		path    []Vec2
		dragged bool
	}{
		{"still click", 5, nil, false},
		{"small wobble", 5, []Vec2{{403, 300}}, false},
		{"drag and return", 5, []Vec2{{420, 300}, {400, 300}}, true},
		{"slop disabled", 0, []Vec2{{420, 300}, {400, 300}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _, g := newTestRouter(RouterConfig{ClickSlop: tt.slop})
			var up *PointerEvent
			g.OnPointerUp = func(ev *PointerEvent) { up = ev }

			r.PointerDown(0, 400, 300)
			for _, p := range tt.path {
				r.PointerMove(0, p.X, p.Y)
			}
			r.PointerUp(0, 400, 300)
			if up == nil {
				t.Fatal("OnPointerUp not fired")
			}
			if up.Dragged != tt.dragged {
				t.Errorf("Dragged = %v, want %v", up.Dragged, tt.dragged)
			}
		})
	}
}

func TestRouterStopPropagation(t *testing.T) {
	r, _, _, g := newTestRouter(DefaultRouterConfig())
	var background int
	r.OnPointerUp = func(*PointerEvent) { background++ }

	r.PointerDown(0, 10, 10)
	r.PointerUp(0, 10, 10)
	if background != 1 {
		t.Errorf("background handler fired %d times for a miss, want 1", background)
	}

	g.OnPointerUp = func(ev *PointerEvent) { ev.StopPropagation() }
	r.PointerDown(0, 400, 300)
	r.PointerUp(0, 400, 300)
	if background != 1 {
		t.Error("stopped event reached the background handler")
	}
	if r.State() != GestureIdle {
		t.Errorf("State = %v, want Idle even when propagation stops", r.State())
	}
}

func TestRouterTouchHoverEndsOnRelease(t *testing.T) {
	r, _, _, g := newTestRouter(DefaultRouterConfig())
	left := 0
	g.OnPointerLeave = func(*PointerEvent) { left++ }
	r.PointerDown(4, 400, 300)
	r.PointerUp(4, 400, 300)
	if left != 1 {
		t.Errorf("leave fired %d times, want 1", left)
	}
	if r.pointers[4].hover != nil {
		t.Error("touch pointer still hovering after release")
	}
}

func TestRouterIgnoresInvalidPointers(t *testing.T) {
	r, _, _, _ := newTestRouter(DefaultRouterConfig())
	r.PointerDown(-1, 0, 0)
	r.PointerDown(maxPointers, 0, 0)
	r.PointerMove(42, 0, 0)
	r.PointerUp(maxPointers+1, 0, 0)
	r.PointerUp(0, 0, 0) // never pressed
	if r.Pressed() != 0 || r.State() != GestureIdle {
		t.Errorf("pressed %d state %v, want 0 Idle", r.Pressed(), r.State())
	}
}

func TestRouterCancel(t *testing.T) {
	r, _, _, _ := newTestRouter(DefaultRouterConfig())
	r.PointerDown(1, 100, 100)
	r.PointerDown(2, 200, 200)
	r.Cancel()
	if r.Pressed() != 0 || r.State() != GestureIdle {
		t.Errorf("after Cancel pressed %d state %v", r.Pressed(), r.State())
	}
}

func TestRouterCancelForgetsHover(t *testing.T) {
	r, _, _, g := newTestRouter(DefaultRouterConfig())
	entered, left := 0, 0
	g.OnPointerEnter = func(*PointerEvent) { entered++ }
	g.OnPointerLeave = func(*PointerEvent) { left++ }

	r.PointerMove(0, 400, 300)
	if entered != 1 {
		t.Fatalf("entered = %d, want 1", entered)
	}
	r.Cancel()
	r.PointerMove(0, 10, 10)
	if left != 0 {
		t.Errorf("leave fired %d times on a graphic hovered before Cancel", left)
	}
}
