package worldmap

import "math"

// --- Constants ---

const (
	maxPointers       = 10 // pointer 0 = mouse, 1-9 = touch
	defaultWheelStep  = 0.0012
	defaultWheelClamp = 500.0
	defaultClickSlop  = 5.0 // pixels
)

// RouterConfig tunes wheel zoom and click detection.
type RouterConfig struct {
	// WheelStep is the zoom change per unit of wheel delta.
	WheelStep float64
	// WheelClamp bounds the absolute wheel delta of a single event.
	WheelClamp float64
	// ClickSlop is how far a pointer may travel between press and release
	// and still count as a click. Zero makes every release a click.
	ClickSlop float64
}

// DefaultRouterConfig returns the standard wheel and click constants.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		WheelStep:  defaultWheelStep,
		WheelClamp: defaultWheelClamp,
		ClickSlop:  defaultClickSlop,
	}
}

// --- Per-pointer state ---

type pointerState struct {
	down   bool
	startX float64
	startY float64
	lastX  float64
	lastY  float64
	// furthest distance from the press position
	travel float64
	hover  *Graphic
}

// --- Pinch state ---

type pinchState struct {
	startZoom float64
	// baseline is 0 until the first pinch tick records it
	baseline float64
}

// Router turns raw pointer and wheel events into viewport changes and
// graphic callbacks. It tracks a single Idle/Dragging/Pinching gesture
// across up to ten pointers.
type Router struct {
	cfg       RouterConfig
	viewport  *Viewport
	container *Container

	state       GestureState
	pointers    [maxPointers]pointerState
	dragPointer int
	lastX       float64
	lastY       float64
	pinch       pinchState
	injectQueue []syntheticPointerEvent

	// OnPointerUp fires after the hit graphic's own callback unless that
	// callback stopped propagation.
	OnPointerUp func(*PointerEvent)
}

// NewRouter creates a router driving v and dispatching to graphics in c.
// Zero config fields take defaults; a negative ClickSlop is treated as zero.
func NewRouter(v *Viewport, c *Container, cfg RouterConfig) *Router {
	def := DefaultRouterConfig()
	if cfg.WheelStep <= 0 {
		cfg.WheelStep = def.WheelStep
	}
	if cfg.WheelClamp <= 0 {
		cfg.WheelClamp = def.WheelClamp
	}
	if cfg.ClickSlop < 0 {
		cfg.ClickSlop = 0
	}
	return &Router{cfg: cfg, viewport: v, container: c}
}

// State returns the current gesture state.
func (r *Router) State() GestureState { return r.state }

// Pressed returns how many pointers are currently down.
func (r *Router) Pressed() int {
	n := 0
	for i := range r.pointers {
		if r.pointers[i].down {
			n++
		}
	}
	return n
}

// PointerDown handles a press of pointer id at screen (x, y).
func (r *Router) PointerDown(id int, x, y float64) {
	if !validPointer(id) {
		return
	}
	ps := &r.pointers[id]
	ps.down = true
	ps.startX, ps.startY = x, y
	ps.lastX, ps.lastY = x, y
	ps.travel = 0

	target := r.hitTest(x, y)
	r.updateHover(id, target, x, y)
	r.dispatch(target, EventPointerDown, id, x, y)

	if r.Pressed() >= 2 {
		r.state = GesturePinching
		r.pinch = pinchState{startZoom: r.viewport.Zoom()}
		return
	}
	r.state = GestureDragging
	r.dragPointer = id
	r.lastX, r.lastY = x, y
}

// PointerMove handles movement of pointer id to screen (x, y). The mouse
// (pointer 0) also moves while released and updates hover.
func (r *Router) PointerMove(id int, x, y float64) {
	if !validPointer(id) {
		return
	}
	ps := &r.pointers[id]
	if !ps.down && id != 0 {
		return
	}
	ps.lastX, ps.lastY = x, y
	if ps.down {
		ps.travel = math.Max(ps.travel, math.Hypot(x-ps.startX, y-ps.startY))
	}

	r.updateHover(id, r.hitTest(x, y), x, y)

	switch r.state {
	case GestureDragging:
		if id != r.dragPointer {
			return
		}
		r.viewport.Pan(x-r.lastX, y-r.lastY)
		r.lastX, r.lastY = x, y
	case GesturePinching:
		r.pinchStep()
	}
}

// PointerUp handles the release of pointer id at screen (x, y).
func (r *Router) PointerUp(id int, x, y float64) {
	if !validPointer(id) {
		return
	}
	ps := &r.pointers[id]
	if !ps.down {
		return
	}
	ps.down = false
	ps.lastX, ps.lastY = x, y
	ps.travel = math.Max(ps.travel, math.Hypot(x-ps.startX, y-ps.startY))

	target := r.hitTest(x, y)
	ev := r.newEvent(EventPointerUp, id, x, y)
	ev.Dragged = r.cfg.ClickSlop > 0 && ps.travel > r.cfg.ClickSlop
	if target != nil {
		target.fire(ev)
	}
	if !ev.Stopped() && r.OnPointerUp != nil {
		ev.Graphic, ev.UserData = target, nil
		if target != nil {
			ev.UserData = target.UserData
		}
		r.OnPointerUp(ev)
	}

	// Touch pointers stop hovering once lifted.
	if id != 0 {
		r.updateHover(id, nil, x, y)
	}

	if r.state == GestureDragging {
		r.state = GestureIdle
	}
	if r.state == GesturePinching && r.Pressed() < 2 {
		r.state = GestureIdle
		r.pinch = pinchState{}
	}
}

// Wheel zooms around screen (x, y). Negative deltaY zooms in.
func (r *Router) Wheel(x, y, deltaY float64) {
	d := clamp(deltaY, -r.cfg.WheelClamp, r.cfg.WheelClamp)
	factor := 1 - d*r.cfg.WheelStep
	r.viewport.ZoomAt(r.viewport.Zoom()*factor, Vec2{x, y})
}

// Update runs the per-frame pinch step. It does nothing outside a pinch.
func (r *Router) Update() {
	if r.state == GesturePinching {
		r.pinchStep()
	}
}

// Cancel drops every pressed pointer and returns to Idle without firing
// callbacks. Hover is kept.
func (r *Router) Cancel() {
	for i := range r.pointers {
		r.pointers[i].down = false
		r.pointers[i].hover = nil
	}
	r.state = GestureIdle
	r.pinch = pinchState{}
}

// pinchStep zooms by the ratio of the current finger distance to the
// distance recorded on the first tick of the pinch.
func (r *Router) pinchStep() {
	var pts [2]*pointerState
	n := 0
	for i := range r.pointers {
		if r.pointers[i].down {
			pts[n] = &r.pointers[i]
			n++
			if n == 2 {
				break
			}
		}
	}
	if n < 2 {
		return
	}
	a := Vec2{pts[0].lastX, pts[0].lastY}
	b := Vec2{pts[1].lastX, pts[1].lastY}
	dist := a.Dist(b)
	if r.pinch.baseline == 0 {
		r.pinch.baseline = dist
		return
	}
	mid := a.Add(b).Scale(0.5)
	r.viewport.ZoomAt(r.pinch.startZoom*dist/r.pinch.baseline, mid)
}

// --- Event dispatch ---

func (r *Router) hitTest(x, y float64) *Graphic {
	if r.container == nil {
		return nil
	}
	return r.container.HitTest(x, y)
}

// updateHover fires leave on the previously hovered graphic and enter on
// target when they differ.
func (r *Router) updateHover(id int, target *Graphic, x, y float64) {
	ps := &r.pointers[id]
	if target == ps.hover {
		return
	}
	prev := ps.hover
	ps.hover = target
	if prev != nil {
		prev.fire(r.newEvent(EventPointerLeave, id, x, y))
	}
	if target != nil {
		target.fire(r.newEvent(EventPointerEnter, id, x, y))
	}
}

func (r *Router) dispatch(target *Graphic, typ EventType, id int, x, y float64) {
	if target == nil {
		return
	}
	target.fire(r.newEvent(typ, id, x, y))
}

func (r *Router) newEvent(typ EventType, id int, x, y float64) *PointerEvent {
	ev := &PointerEvent{
		Type:      typ,
		PointerID: id,
		ScreenX:   x,
		ScreenY:   y,
		WorldX:    x,
		WorldY:    y,
		Down:      r.pointers[id].down,
	}
	if r.container != nil {
		w := r.container.ScreenToWorld(Vec2{x, y})
		ev.WorldX, ev.WorldY = w.X, w.Y
	}
	return ev
}

func validPointer(id int) bool {
	return id >= 0 && id < maxPointers
}
