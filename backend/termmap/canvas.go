package termmap

import (
	"math"
	"sort"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/worldmap"
)

// Canvas is a pixel grid drawn with half-block characters: every terminal
// cell holds two stacked pixels, which keeps pixels roughly square.
// It implements worldmap.Painter and worldmap.Surface in pixel units.
type Canvas struct {
	width  int
	height int
	pix    []worldmap.Color
	bg     worldmap.Color
	xs     []float64
}

// NewCanvas creates a canvas for a cols x rows terminal area.
func NewCanvas(cols, rows int) *Canvas {
	c := &Canvas{bg: worldmap.ColorOcean}
	c.Resize(cols, rows)
	return c
}

// Resize changes the terminal area and clears the canvas.
func (c *Canvas) Resize(cols, rows int) {
	c.width = max(cols, 0)
	c.height = max(rows, 0) * 2
	c.pix = make([]worldmap.Color, c.width*c.height)
	c.Clear()
}

// Size reports the canvas size in pixels.
func (c *Canvas) Size() (float64, float64) { return float64(c.width), float64(c.height) }

// Clear fills the canvas with the background color.
func (c *Canvas) Clear() {
	for i := range c.pix {
		c.pix[i] = c.bg
	}
}

// At returns the pixel at x, y, or the background when out of range.
func (c *Canvas) At(x, y int) worldmap.Color {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return c.bg
	}
	return c.pix[y*c.width+x]
}

// Blend composites col over the pixel at x, y using col's alpha.
func (c *Canvas) Blend(x, y int, col worldmap.Color) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	i := y*c.width + x
	dst := c.pix[i]
	a := col.A
	c.pix[i] = worldmap.Color{
		R: col.R*a + dst.R*(1-a),
		G: col.G*a + dst.G*(1-a),
		B: col.B*a + dst.B*(1-a),
		A: 1,
	}
}

// FillPolygon fills with the even-odd rule, sampling pixel centers.
func (c *Canvas) FillPolygon(points []worldmap.Vec2, fill worldmap.Color) {
	n := len(points)
	if n < 3 {
		return
	}
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	y0 := max(int(math.Floor(minY)), 0)
	y1 := min(int(math.Ceil(maxY)), c.height-1)

	for y := y0; y <= y1; y++ {
		sy := float64(y) + 0.5
		xs := c.xs[:0]
		for i := range n {
			a, b := points[i], points[(i+1)%n]
			if (a.Y <= sy) == (b.Y <= sy) {
				continue
			}
			t := (sy - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
		c.xs = xs
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			from := max(int(math.Ceil(xs[i]-0.5)), 0)
			to := min(int(math.Floor(xs[i+1]-0.5)), c.width-1)
			for x := from; x <= to; x++ {
				c.Blend(x, y, fill)
			}
		}
	}
}

// StrokePolygon draws the closed outline one pixel wide; width is ignored.
func (c *Canvas) StrokePolygon(points []worldmap.Vec2, stroke worldmap.Color, width float64) {
	n := len(points)
	if n < 2 {
		return
	}
	for i := range n {
		a, b := points[i], points[(i+1)%n]
		c.line(int(math.Floor(a.X)), int(math.Floor(a.Y)), int(math.Floor(b.X)), int(math.Floor(b.Y)), stroke)
	}
}

// line draws with Bresenham's algorithm. The end pixel is left to the next
// segment so shared vertices are not blended twice.
func (c *Canvas) line(x0, y0, x1, y1 int, col worldmap.Color) {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for x0 != x1 || y0 != y1 {
		c.Blend(x0, y0, col)
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Blit copies the canvas to screen starting at the top-left cell.
func (c *Canvas) Blit(screen tcell.Screen) {
	for y := 0; y+1 < c.height; y += 2 {
		for x := 0; x < c.width; x++ {
			style := tcell.StyleDefault.
				Foreground(termColor(c.pix[y*c.width+x])).
				Background(termColor(c.pix[(y+1)*c.width+x]))
			screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}

// CellToPixel maps a terminal cell to the pixel at its center.
func CellToPixel(col, row int) (float64, float64) {
	return float64(col) + 0.5, float64(row)*2 + 1
}

func termColor(c worldmap.Color) tcell.Color {
	n := c.NRGBA()
	return tcell.NewRGBColor(int32(n.R), int32(n.G), int32(n.B))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
