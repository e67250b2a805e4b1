package worldmap

import (
	"strings"

	"github.com/paulmach/orb"
)

// Fallback identity for features whose properties are missing.
const (
	DefaultName = "Unknown region"
	DefaultISO3 = "UNK"
	DefaultISO2 = "UN"
)

// Feature is one geographic input record: an identity plus a Polygon or
// MultiPolygon of [longitude, latitude] rings. Any other geometry, including
// nil, is skipped by the projector.
type Feature struct {
	Name     string
	ISO3     string
	ISO2     string
	Geometry orb.Geometry
}

// identity returns the feature's identity with fallbacks applied.
func (f *Feature) identity() CountryIdentity {
	id := CountryIdentity{Name: f.Name, ISO3: f.ISO3, ISO2: f.ISO2}
	if id.Name == "" {
		id.Name = DefaultName
	}
	if id.ISO3 == "" {
		id.ISO3 = DefaultISO3
	}
	if id.ISO2 == "" {
		id.ISO2 = DefaultISO2
	}
	return id
}

// polygons flattens the feature geometry into its polygons.
func (f *Feature) polygons() []orb.Polygon {
	switch g := f.Geometry.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return g
	default:
		return nil
	}
}

// Segment is one contiguous landmass of a country: a closed ring of at
// least three projected, origin-centered points. The closing vertex is
// implied and not repeated.
type Segment struct {
	Points  []Vec2
	Country *Country

	graphic *Graphic
}

// Bounds returns the segment's axis-aligned bounding box.
func (s *Segment) Bounds() Rect {
	return boundsOf(s.Points)
}

// Centroid returns the average of the segment's points.
func (s *Segment) Centroid() Vec2 {
	return averagePoints(s.Points)
}

// Graphic returns the drawable built for this segment, or nil before the
// scene is built.
func (s *Segment) Graphic() *Graphic {
	return s.graphic
}

// Country is a projected country with its resolved colors and segments.
type Country struct {
	Name           string
	ISO3           string
	ISO2           string
	BaseColor      Color
	HighlightColor Color
	Segments       []*Segment
}

// Identity returns the identity the country's colors were resolved from.
func (c *Country) Identity() CountryIdentity {
	return CountryIdentity{Name: c.Name, ISO3: c.ISO3, ISO2: c.ISO2}
}

// Centroid averages the points of seg, or of every segment when seg is nil.
func (c *Country) Centroid(seg *Segment) Vec2 {
	if seg != nil {
		return seg.Centroid()
	}
	var sum Vec2
	n := 0
	for _, s := range c.Segments {
		for _, p := range s.Points {
			sum = sum.Add(p)
			n++
		}
	}
	if n == 0 {
		return Vec2{}
	}
	return sum.Scale(1 / float64(n))
}

// MainSegment returns the segment with the largest bounding-box area, the
// country's main landmass. Nil if the country has no segments.
func (c *Country) MainSegment() *Segment {
	var best *Segment
	bestArea := -1.0
	for _, s := range c.Segments {
		if a := s.Bounds().Area(); a > bestArea {
			best, bestArea = s, a
		}
	}
	return best
}

// Bounds returns the union of all segment bounds.
func (c *Country) Bounds() Rect {
	var pts []Vec2
	for _, s := range c.Segments {
		b := s.Bounds()
		pts = append(pts, Vec2{b.X, b.Y}, Vec2{b.X + b.Width, b.Y + b.Height})
	}
	return boundsOf(pts)
}

// Atlas is the projected world: every country that produced at least one
// segment, and a bounding box centered on the origin.
type Atlas struct {
	Countries []*Country
	Bounds    Rect

	// Origin is the geographic midpoint the projection is centered on.
	Origin orb.Point
	// Cosine is cos(origin latitude), the longitude compression factor.
	Cosine float64
	// Scale maps degrees to projected units.
	Scale float64
}

// AtlasStats summarizes an atlas.
type AtlasStats struct {
	Countries int
	Segments  int
	Points    int
}

// Stats counts countries, segments and points.
func (a *Atlas) Stats() AtlasStats {
	st := AtlasStats{Countries: len(a.Countries)}
	for _, c := range a.Countries {
		st.Segments += len(c.Segments)
		for _, s := range c.Segments {
			st.Points += len(s.Points)
		}
	}
	return st
}

// Lookup finds a country by ISO3 or ISO2 code, case-insensitively.
func (a *Atlas) Lookup(code string) *Country {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	for _, c := range a.Countries {
		if strings.EqualFold(c.ISO3, code) || strings.EqualFold(c.ISO2, code) {
			return c
		}
	}
	return nil
}

func averagePoints(points []Vec2) Vec2 {
	if len(points) == 0 {
		return Vec2{}
	}
	var sum Vec2
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(points)))
}
