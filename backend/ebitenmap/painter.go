package ebitenmap

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/worldmap"
)

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image that
// untextured triangles sample from.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// painter draws country polygons onto an ebiten image. Vertex and index
// buffers are reused across calls.
type painter struct {
	dst *ebiten.Image
	vs  []ebiten.Vertex
	is  []uint16
	op  ebiten.DrawTrianglesOptions
}

func newPainter() *painter {
	p := &painter{}
	p.op.AntiAlias = true
	p.op.FillRule = ebiten.FillRuleNonZero
	p.op.ColorScaleMode = ebiten.ColorScaleModeStraightAlpha
	return p
}

func (p *painter) FillPolygon(points []worldmap.Vec2, fill worldmap.Color) {
	var path vector.Path
	tracePath(&path, points)
	p.vs, p.is = path.AppendVerticesAndIndicesForFilling(p.vs[:0], p.is[:0])
	p.draw(fill)
}

func (p *painter) StrokePolygon(points []worldmap.Vec2, stroke worldmap.Color, width float64) {
	var path vector.Path
	tracePath(&path, points)
	p.vs, p.is = path.AppendVerticesAndIndicesForStroke(p.vs[:0], p.is[:0], &vector.StrokeOptions{
		Width:    float32(width),
		LineJoin: vector.LineJoinRound,
	})
	p.draw(stroke)
}

func (p *painter) draw(c worldmap.Color) {
	if p.dst == nil || len(p.is) == 0 {
		return
	}
	r, g, b, a := float32(c.R), float32(c.G), float32(c.B), float32(c.A)
	for i := range p.vs {
		v := &p.vs[i]
		v.SrcX, v.SrcY = 0.5, 0.5
		v.ColorR, v.ColorG, v.ColorB, v.ColorA = r, g, b, a
	}
	p.dst.DrawTriangles(p.vs, p.is, ensureWhitePixel(), &p.op)
}

func tracePath(path *vector.Path, points []worldmap.Vec2) {
	for i, pt := range points {
		if i == 0 {
			path.MoveTo(float32(pt.X), float32(pt.Y))
			continue
		}
		path.LineTo(float32(pt.X), float32(pt.Y))
	}
	path.Close()
}
