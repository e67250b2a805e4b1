// Package svgmap renders a worldmap.Map to an SVG document.
package svgmap

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/phanxgames/worldmap"
)

// Canvas is a worldmap.Painter and worldmap.Surface that accumulates SVG
// path elements.
type Canvas struct {
	width, height float64
	background    worldmap.Color
	body          bytes.Buffer
	out           *svg.SVG
	paths         int
}

// New returns an empty canvas with the ocean background.
func New(width, height float64) *Canvas {
	c := &Canvas{width: width, height: height, background: worldmap.ColorOcean}
	c.out = svg.New(&c.body)
	return c
}

// Size reports the canvas dimensions.
func (c *Canvas) Size() (float64, float64) { return c.width, c.height }

// Paths is the number of path elements written so far.
func (c *Canvas) Paths() int { return c.paths }

// Reset drops everything painted so far.
func (c *Canvas) Reset() {
	c.body.Reset()
	c.paths = 0
}

func (c *Canvas) FillPolygon(points []worldmap.Vec2, fill worldmap.Color) {
	if len(points) < 3 {
		return
	}
	c.out.Path(pathData(points),
		fmt.Sprintf(`fill="%s" fill-opacity="%s"`, fill.HexString(), formatFloat(fill.A)))
	c.paths++
}

func (c *Canvas) StrokePolygon(points []worldmap.Vec2, stroke worldmap.Color, width float64) {
	if len(points) < 2 {
		return
	}
	c.out.Path(pathData(points),
		`fill="none"`,
		fmt.Sprintf(`stroke="%s" stroke-opacity="%s"`, stroke.HexString(), formatFloat(stroke.A)),
		fmt.Sprintf(`stroke-width="%s" stroke-linejoin="round"`, formatFloat(width)))
	c.paths++
}

// WriteTo writes the complete SVG document. The pixel size is rounded up
// to whole pixels.
func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	var doc bytes.Buffer
	pw, ph := int(math.Ceil(c.width)), int(math.Ceil(c.height))
	out := svg.New(&doc)
	out.Startview(pw, ph, 0, 0, pw, ph)
	out.Rect(0, 0, pw, ph, fmt.Sprintf(`fill="%s"`, c.background.HexString()))
	doc.Write(c.body.Bytes())
	out.End()
	return doc.WriteTo(w)
}

// Bytes returns the complete SVG document.
func (c *Canvas) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = c.WriteTo(&buf)
	return buf.Bytes()
}

// Render paints m onto a fresh canvas of m's surface size.
func Render(m *worldmap.Map) (*Canvas, worldmap.PaintStats) {
	w, h := m.Surface().Size()
	c := New(w, h)
	st := m.Paint(c)
	return c, st
}

// pathData builds a closed path through points.
func pathData(points []worldmap.Vec2) string {
	var b strings.Builder
	for i, pt := range points {
		if i == 0 {
			b.WriteByte('M')
		} else {
			b.WriteByte('L')
		}
		b.WriteString(formatFloat(pt.X))
		b.WriteByte(' ')
		b.WriteString(formatFloat(pt.Y))
	}
	b.WriteByte('Z')
	return b.String()
}

// formatFloat keeps two decimals and trims trailing zeros.
func formatFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
