package worldmap

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// ErrNoCoordinates is returned when a dataset holds no finite coordinate to
// derive a geographic extent from.
var ErrNoCoordinates = errors.New("worldmap: dataset contains no finite coordinates")

// ProjectorConfig holds the projection constants.
type ProjectorConfig struct {
	// TargetWidth and TargetHeight are the canvas the extent is fitted into.
	TargetWidth  float64
	TargetHeight float64
	// MinPointDistance drops ring vertices closer than this to the last kept one.
	MinPointDistance float64
}

// DefaultProjectorConfig returns the 2048x1152 target with a 1.4 unit
// simplification threshold.
func DefaultProjectorConfig() ProjectorConfig {
	return ProjectorConfig{
		TargetWidth:      2048,
		TargetHeight:     1152,
		MinPointDistance: 1.4,
	}
}

// minSpan guards the scale computation against zero-width extents.
const minSpan = 0.0001

// Projector turns geographic features into an Atlas using an
// equirectangular projection with a cosine correction for longitude.
type Projector struct {
	cfg    ProjectorConfig
	colors ColorResolver
}

// NewProjector creates a Projector. A nil colors resolver uses a fresh
// Palette with the built-in overrides. Zero config fields take defaults.
func NewProjector(colors ColorResolver, cfg ProjectorConfig) *Projector {
	def := DefaultProjectorConfig()
	if cfg.TargetWidth <= 0 {
		cfg.TargetWidth = def.TargetWidth
	}
	if cfg.TargetHeight <= 0 {
		cfg.TargetHeight = def.TargetHeight
	}
	if cfg.MinPointDistance <= 0 {
		cfg.MinPointDistance = def.MinPointDistance
	}
	if colors == nil {
		p, _ := NewPalette(nil)
		colors = p
	}
	return &Projector{cfg: cfg, colors: colors}
}

// Extent returns the geographic bounding box of every finite coordinate in
// every ring of every feature.
func Extent(features []Feature) (orb.Bound, error) {
	var b orb.Bound
	found := false
	for i := range features {
		for _, poly := range features[i].polygons() {
			for _, ring := range poly {
				for _, pt := range ring {
					if !finite(pt) {
						continue
					}
					if !found {
						b = orb.Bound{Min: pt, Max: pt}
						found = true
						continue
					}
					b = b.Extend(pt)
				}
			}
		}
	}
	if !found {
		return orb.Bound{}, ErrNoCoordinates
	}
	return b, nil
}

// Project builds the Atlas. It fails only when no finite coordinate exists.
// Features without a usable geometry, and rings that end up with fewer than
// three points, are skipped.
func (p *Projector) Project(features []Feature) (*Atlas, error) {
	ext, err := Extent(features)
	if err != nil {
		return nil, err
	}

	origin := ext.Center()
	cosine := math.Cos(origin[1] * math.Pi / 180)
	projW := (ext.Max[0] - ext.Min[0]) * cosine
	projH := ext.Max[1] - ext.Min[1]
	scale := math.Min(
		p.cfg.TargetWidth/math.Max(projW, minSpan),
		p.cfg.TargetHeight/math.Max(projH, minSpan),
	)

	atlas := &Atlas{Origin: origin, Cosine: cosine, Scale: scale}
	project := func(pt orb.Point) Vec2 {
		return Vec2{
			X: (pt[0] - origin[0]) * cosine * scale,
			Y: -(pt[1] - origin[1]) * scale,
		}
	}

	var acc boundsAccumulator
	for i := range features {
		f := &features[i]
		var segs []*Segment
		for _, poly := range f.polygons() {
			if len(poly) == 0 || len(poly[0]) < 3 {
				continue
			}
			outer := poly[0]
			pts := make([]Vec2, 0, len(outer))
			for _, pt := range outer {
				if finite(pt) {
					pts = append(pts, project(pt))
				}
			}
			pts = dropClosingPoint(simplify(pts, p.cfg.MinPointDistance))
			if len(pts) < 3 {
				continue
			}
			for _, pt := range pts {
				acc.add(pt)
			}
			segs = append(segs, &Segment{Points: pts})
		}
		if len(segs) == 0 {
			continue
		}

		id := f.identity()
		colors := p.colors.Resolve(id)
		c := &Country{
			Name:           id.Name,
			ISO3:           id.ISO3,
			ISO2:           id.ISO2,
			BaseColor:      colors.Base,
			HighlightColor: colors.Highlight,
			Segments:       segs,
		}
		for _, s := range segs {
			s.Country = c
		}
		atlas.Countries = append(atlas.Countries, c)
	}

	// Center the world on the origin.
	bounds := acc.rect()
	center := bounds.Center()
	for _, c := range atlas.Countries {
		for _, s := range c.Segments {
			for j := range s.Points {
				s.Points[j] = s.Points[j].Sub(center)
			}
		}
	}
	bounds.X = -bounds.Width / 2
	bounds.Y = -bounds.Height / 2
	atlas.Bounds = bounds
	return atlas, nil
}

// simplify keeps the first point, the last point, and every point at least
// minDist from the previously kept one. Rings of three or fewer points are
// returned unchanged.
func simplify(points []Vec2, minDist float64) []Vec2 {
	if len(points) <= 3 {
		return points
	}
	out := make([]Vec2, 0, len(points))
	out = append(out, points[0])
	last := points[0]
	for i := 1; i < len(points); i++ {
		pt := points[i]
		if i == len(points)-1 || last.Dist(pt) >= minDist {
			out = append(out, pt)
			last = pt
		}
	}
	return out
}

// dropClosingPoint removes a trailing vertex that repeats the first one.
func dropClosingPoint(points []Vec2) []Vec2 {
	if n := len(points); n > 1 && points[0] == points[n-1] {
		return points[:n-1]
	}
	return points
}

// boundsAccumulator tracks min and max corners over a stream of points.
type boundsAccumulator struct {
	minX, minY, maxX, maxY float64
	seen                   bool
}

func (a *boundsAccumulator) add(p Vec2) {
	if !a.seen {
		a.minX, a.maxX, a.minY, a.maxY = p.X, p.X, p.Y, p.Y
		a.seen = true
		return
	}
	a.minX = math.Min(a.minX, p.X)
	a.maxX = math.Max(a.maxX, p.X)
	a.minY = math.Min(a.minY, p.Y)
	a.maxY = math.Max(a.maxY, p.Y)
}

func (a *boundsAccumulator) rect() Rect {
	if !a.seen {
		return Rect{}
	}
	return Rect{X: a.minX, Y: a.minY, Width: a.maxX - a.minX, Height: a.maxY - a.minY}
}

func finite(pt orb.Point) bool {
	return !math.IsNaN(pt[0]) && !math.IsInf(pt[0], 0) &&
		!math.IsNaN(pt[1]) && !math.IsInf(pt[1], 0)
}
