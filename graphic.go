package worldmap

// graphicIDCounter is a plain counter (no atomic, the core is single-threaded).
var graphicIDCounter uint32

func nextGraphicID() uint32 {
	graphicIDCounter++
	return graphicIDCounter
}

// PointerEvent carries pointer event data to Graphic callbacks.
type PointerEvent struct {
	Type      EventType
	Graphic   *Graphic
	UserData  any
	PointerID int
	ScreenX   float64
	ScreenY   float64
	WorldX    float64
	WorldY    float64
	// Down reports whether the pointer was pressed when the event fired.
	Down bool
	// Dragged is set on release when the pointer travelled further than the
	// click slop since it was pressed.
	Dragged bool

	stopped bool
}

// StopPropagation keeps the event from reaching graphics below the current one.
// Gesture tracking in the interaction router still sees every event.
func (e *PointerEvent) StopPropagation() { e.stopped = true }

// Stopped reports whether StopPropagation was called.
func (e *PointerEvent) Stopped() bool { return e.stopped }

// Graphic is a filled, outlined polygon in world space with an optional hit
// region and pointer callbacks. A single flat struct keeps the hot path free
// of interface dispatch.
type Graphic struct {
	ID   uint32
	Name string

	// Shape in world (container-local) coordinates.
	Points []Vec2

	Fill        Color
	Stroke      Color
	StrokeWidth float64
	StrokeAlpha float64

	Visible      bool
	Interactable bool

	// Metadata
	UserData any

	// Per-graphic callbacks (nil by default)
	OnPointerDown  func(*PointerEvent)
	OnPointerUp    func(*PointerEvent)
	OnPointerEnter func(*PointerEvent)
	OnPointerLeave func(*PointerEvent)

	hit       *HitPolygon
	hitEntry  *hitEntry
	bounds    Rect
	container *Container
	order     int
}

// NewGraphic creates an empty, visible graphic with a 1px white outline.
func NewGraphic(name string) *Graphic {
	return &Graphic{
		ID:          nextGraphicID(),
		Name:        name,
		Stroke:      ColorWhite,
		StrokeWidth: 1,
		Visible:     true,
	}
}

// DrawPolygon replaces the graphic's shape with a closed polygon filled with
// fill and outlined in translucent white at strokeAlpha. The path closes
// back to the first point.
func (g *Graphic) DrawPolygon(points []Vec2, fill Color, strokeAlpha float64) {
	g.Points = append(g.Points[:0], points...)
	g.bounds = boundsOf(g.Points)
	g.SetStyle(fill, strokeAlpha)
}

// SetStyle changes the fill and outline alpha without touching the shape.
func (g *Graphic) SetStyle(fill Color, strokeAlpha float64) {
	g.Fill = fill
	g.StrokeAlpha = strokeAlpha
}

// SetHitRegion makes the graphic pickable inside the given polygon. Regions
// with fewer than three points are ignored.
func (g *Graphic) SetHitRegion(points []Vec2) {
	if len(points) < 3 {
		return
	}
	if g.container != nil && g.hitEntry != nil {
		g.container.hits.remove(g)
	}
	g.hit = NewHitPolygon(points)
	g.Interactable = true
	if g.container != nil {
		g.container.hits.insert(g)
	}
}

// HitRegion returns the graphic's hit polygon, or nil.
func (g *Graphic) HitRegion() *HitPolygon {
	return g.hit
}

// Bounds returns the world-space bounding box of the graphic's shape.
func (g *Graphic) Bounds() Rect {
	return g.bounds
}

// Contains reports whether the world point lies in the graphic's hit region.
func (g *Graphic) Contains(wx, wy float64) bool {
	return g.hit != nil && g.hit.Contains(wx, wy)
}

// Container returns the container the graphic was added to, or nil.
func (g *Graphic) Container() *Container {
	return g.container
}

// fire invokes the callback for ev.Type, if one is set.
func (g *Graphic) fire(ev *PointerEvent) {
	var fn func(*PointerEvent)
	switch ev.Type {
	case EventPointerDown:
		fn = g.OnPointerDown
	case EventPointerUp:
		fn = g.OnPointerUp
	case EventPointerEnter:
		fn = g.OnPointerEnter
	case EventPointerLeave:
		fn = g.OnPointerLeave
	}
	if fn == nil {
		return
	}
	ev.Graphic = g
	ev.UserData = g.UserData
	fn(ev)
}
