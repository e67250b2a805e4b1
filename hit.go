package worldmap

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// HitPolygon is a polygon hit area in world coordinates. Any simple polygon
// works, convex or not, in either winding order.
type HitPolygon struct {
	Points []Vec2
	bounds Rect
}

// NewHitPolygon copies points into a new HitPolygon.
func NewHitPolygon(points []Vec2) *HitPolygon {
	pts := append([]Vec2(nil), points...)
	return &HitPolygon{Points: pts, bounds: boundsOf(pts)}
}

// Bounds returns the polygon's bounding box.
func (p *HitPolygon) Bounds() Rect {
	return p.bounds
}

// Contains reports whether (x, y) lies inside the polygon using the
// even-odd crossing rule.
func (p *HitPolygon) Contains(x, y float64) bool {
	n := len(p.Points)
	if n < 3 || !p.bounds.Contains(x, y) {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := p.Points[i].X, p.Points[i].Y
		xj, yj := p.Points[j].X, p.Points[j].Y
		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// --- Spatial index ---

// minHitExtent keeps R-tree rectangles non-degenerate for flat polygons.
const minHitExtent = 1e-9

// hitEntry is the R-tree record for one graphic's hit region.
type hitEntry struct {
	g    *Graphic
	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *hitEntry) Bounds() rtreego.Rect {
	return e.rect
}

// hitIndex finds graphics under a world point. Bounding boxes narrow the
// candidates; the exact polygon test decides.
type hitIndex struct {
	tree *rtreego.Rtree
}

func newHitIndex() *hitIndex {
	return &hitIndex{tree: rtreego.NewTree(2, 25, 50)}
}

func (h *hitIndex) insert(g *Graphic) {
	if g.hit == nil {
		return
	}
	b := g.hit.Bounds()
	rect, err := rtreego.NewRect(
		rtreego.Point{b.X, b.Y},
		[]float64{math.Max(b.Width, minHitExtent), math.Max(b.Height, minHitExtent)},
	)
	if err != nil {
		return
	}
	g.hitEntry = &hitEntry{g: g, rect: rect}
	h.tree.Insert(g.hitEntry)
}

func (h *hitIndex) remove(g *Graphic) {
	if g.hitEntry == nil {
		return
	}
	h.tree.Delete(g.hitEntry)
	g.hitEntry = nil
}

func (h *hitIndex) reset() {
	h.tree = rtreego.NewTree(2, 25, 50)
}

func (h *hitIndex) size() int {
	return h.tree.Size()
}

// query returns the topmost (last painted) visible, interactable graphic
// whose hit region contains the world point.
func (h *hitIndex) query(wx, wy float64) *Graphic {
	var top *Graphic
	for _, s := range h.tree.SearchIntersect(rtreego.Point{wx, wy}.ToRect(minHitExtent)) {
		g := s.(*hitEntry).g
		if !g.Visible || !g.Interactable || !g.Contains(wx, wy) {
			continue
		}
		if top == nil || g.order > top.order {
			top = g
		}
	}
	return top
}
