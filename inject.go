package worldmap

type syntheticKind uint8

const (
	syntheticPress syntheticKind = iota
	syntheticMove
	syntheticRelease
	syntheticWheel
)

// syntheticPointerEvent is a single injected event on the mouse pointer.
// Coordinates are in screen space, identical to real input.
type syntheticPointerEvent struct {
	kind             syntheticKind
	screenX, screenY float64
	deltaY           float64
}

// InjectPress queues a press at the given screen coordinates. Queued events
// are consumed one per frame by ProcessInjected.
func (r *Router) InjectPress(x, y float64) {
	r.injectQueue = append(r.injectQueue, syntheticPointerEvent{kind: syntheticPress, screenX: x, screenY: y})
}

// InjectMove queues a pointer move. Between InjectPress and InjectRelease
// it drags.
func (r *Router) InjectMove(x, y float64) {
	r.injectQueue = append(r.injectQueue, syntheticPointerEvent{kind: syntheticMove, screenX: x, screenY: y})
}

// InjectRelease queues a release at the given screen coordinates.
func (r *Router) InjectRelease(x, y float64) {
	r.injectQueue = append(r.injectQueue, syntheticPointerEvent{kind: syntheticRelease, screenX: x, screenY: y})
}

// InjectWheel queues a wheel event at the given screen coordinates.
func (r *Router) InjectWheel(x, y, deltaY float64) {
	r.injectQueue = append(r.injectQueue, syntheticPointerEvent{kind: syntheticWheel, screenX: x, screenY: y, deltaY: deltaY})
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two frames.
func (r *Router) InjectClick(x, y float64) {
	r.InjectPress(x, y)
	r.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly spaced
// moves ending at (toX, toY) and a release there. Minimum frames is 2.
func (r *Router) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	r.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		r.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	r.InjectRelease(toX, toY)
}

// Injected returns the number of queued synthetic events.
func (r *Router) Injected() int { return len(r.injectQueue) }

// ProcessInjected pops one synthetic event and feeds it through the router.
// Returns true if an event was consumed; backends skip real pointer input
// on such frames.
func (r *Router) ProcessInjected() bool {
	if len(r.injectQueue) == 0 {
		return false
	}
	evt := r.injectQueue[0]
	copy(r.injectQueue, r.injectQueue[1:])
	r.injectQueue = r.injectQueue[:len(r.injectQueue)-1]

	switch evt.kind {
	case syntheticPress:
		r.PointerDown(0, evt.screenX, evt.screenY)
	case syntheticMove:
		r.PointerMove(0, evt.screenX, evt.screenY)
	case syntheticRelease:
		r.PointerUp(0, evt.screenX, evt.screenY)
	case syntheticWheel:
		r.Wheel(evt.screenX, evt.screenY, evt.deltaY)
	}
	return true
}
