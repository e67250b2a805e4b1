package worldmap

import "math"

// Vec2 is a 2D vector used for projected points, screen positions and
// offsets throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Dist returns the Euclidean distance between v and o.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(o.X-v.X, o.Y-v.Y)
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Area returns Width * Height.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// boundsOf returns the tight bounding box of points. Zero Rect for no points.
func boundsOf(points []Vec2) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// EventType identifies a kind of pointer event delivered to a Graphic.
type EventType uint8

const (
	EventPointerDown  EventType = iota // fires when a pointer button is pressed
	EventPointerUp                     // fires when a pointer button is released
	EventPointerMove                   // fires when the pointer moves
	EventPointerEnter                  // fires when the pointer enters a graphic's hit region
	EventPointerLeave                  // fires when the pointer leaves a graphic's hit region
)

// String returns the event name.
func (e EventType) String() string {
	switch e {
	case EventPointerDown:
		return "pointerdown"
	case EventPointerUp:
		return "pointerup"
	case EventPointerMove:
		return "pointermove"
	case EventPointerEnter:
		return "pointerenter"
	case EventPointerLeave:
		return "pointerleave"
	default:
		return "unknown"
	}
}

// GestureState is the interaction router's current mode.
type GestureState uint8

const (
	GestureIdle     GestureState = iota // no pointer is driving the viewport
	GestureDragging                     // one pointer pans the container 1:1
	GesturePinching                     // two or more pointers zoom around their midpoint
)

// String returns the state name.
func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case GesturePinching:
		return "pinching"
	default:
		return "unknown"
	}
}

// Surface is the display a map is presented on. Backends implement it to
// report their current size in screen pixels.
type Surface interface {
	Size() (width, height float64)
}

// FixedSurface is a Surface with a fixed size, used by headless renders.
type FixedSurface struct {
	Width, Height float64
}

// Size returns the fixed dimensions.
func (s *FixedSurface) Size() (float64, float64) { return s.Width, s.Height }
