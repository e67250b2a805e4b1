package worldmap

import "time"

// Painter draws screen-space polygons. Backends implement it. The points
// slice is reused between calls and must not be retained.
type Painter interface {
	FillPolygon(points []Vec2, fill Color)
	StrokePolygon(points []Vec2, stroke Color, width float64)
}

// Container is the world container: an ordered list of graphics drawn under
// one uniform scale and translation. X and Y are the screen position of the
// world origin; Scale is the zoom.
type Container struct {
	X, Y  float64
	Scale float64

	graphics []*Graphic
	hits     *hitIndex
	paintBuf []Vec2
}

// NewContainer returns an empty container at the screen origin with scale 1.
func NewContainer() *Container {
	return &Container{Scale: 1, hits: newHitIndex()}
}

// Add appends g on top of the existing graphics and indexes its hit region.
// Panics if g already belongs to a container.
func (c *Container) Add(g *Graphic) {
	if g.container != nil {
		panic("worldmap: graphic " + g.Name + " already belongs to a container")
	}
	g.container = c
	g.order = len(c.graphics)
	c.graphics = append(c.graphics, g)
	c.hits.insert(g)
}

// RemoveAll detaches every graphic and clears the hit index.
func (c *Container) RemoveAll() {
	for i, g := range c.graphics {
		g.container = nil
		g.hitEntry = nil
		c.graphics[i] = nil
	}
	c.graphics = c.graphics[:0]
	c.hits.reset()
}

// Graphics returns the graphics in painter order. The slice must not be modified.
func (c *Container) Graphics() []*Graphic {
	return c.graphics
}

// Len returns the number of graphics.
func (c *Container) Len() int {
	return len(c.graphics)
}

// SetPosition moves the world origin to screen point (x, y).
func (c *Container) SetPosition(x, y float64) {
	c.X = x
	c.Y = y
}

// Position returns the screen position of the world origin.
func (c *Container) Position() Vec2 {
	return Vec2{c.X, c.Y}
}

// SetScale sets the uniform zoom.
func (c *Container) SetScale(s float64) {
	c.Scale = s
}

func (c *Container) transform() [6]float64 {
	return containerTransform(c.Scale, c.X, c.Y)
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Container) WorldToScreen(p Vec2) Vec2 {
	x, y := transformPoint(c.transform(), p.X, p.Y)
	return Vec2{x, y}
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Container) ScreenToWorld(p Vec2) Vec2 {
	x, y := transformPoint(invertAffine(c.transform()), p.X, p.Y)
	return Vec2{x, y}
}

// HitTest returns the topmost interactable graphic under the screen point.
func (c *Container) HitTest(sx, sy float64) *Graphic {
	w := c.ScreenToWorld(Vec2{sx, sy})
	return c.hits.query(w.X, w.Y)
}

// PaintStats reports what a Paint call did.
type PaintStats struct {
	Painted  int
	Culled   int
	Duration time.Duration
}

// Paint draws every visible graphic that intersects view (a screen-space
// rectangle) through p, fill first and then outline.
func (c *Container) Paint(p Painter, view Rect) PaintStats {
	start := time.Now()
	var st PaintStats
	m := c.transform()
	for _, g := range c.graphics {
		if !g.Visible || len(g.Points) < 3 {
			continue
		}
		if !transformRect(m, g.bounds).Intersects(view) {
			st.Culled++
			continue
		}
		buf := c.paintBuf[:0]
		for _, pt := range g.Points {
			x, y := transformPoint(m, pt.X, pt.Y)
			buf = append(buf, Vec2{x, y})
		}
		c.paintBuf = buf
		p.FillPolygon(buf, g.Fill)
		if g.StrokeAlpha > 0 && g.StrokeWidth > 0 {
			p.StrokePolygon(buf, g.Stroke.WithAlpha(g.StrokeAlpha), g.StrokeWidth)
		}
		st.Painted++
	}
	st.Duration = time.Since(start)
	return st
}
