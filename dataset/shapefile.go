package dataset

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/paulmach/orb"

	"github.com/phanxgames/worldmap"
)

// LoadShapefile reads country polygons from an ESRI shapefile, such as the
// Natural Earth admin-0 countries. Clockwise rings start a new polygon and
// counter-clockwise rings are holes of the polygon before them. Non-polygon
// shapes are skipped.
func LoadShapefile(path string) ([]worldmap.Feature, error) {
	shape, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shapefile %s: %w", path, err)
	}
	defer shape.Close()

	// Find the identity fields
	nameIdx, iso3Idx, iso2Idx := -1, -1, -1
	for i, field := range shape.Fields() {
		name := strings.TrimRight(string(field.Name[:]), "\x00 ")
		switch {
		case nameIdx < 0 && matchesKey(name, nameKeys):
			nameIdx = i
		case iso3Idx < 0 && matchesKey(name, iso3Keys):
			iso3Idx = i
		case iso2Idx < 0 && matchesKey(name, iso2Keys):
			iso2Idx = i
		}
	}

	features := make([]worldmap.Feature, 0)
	for shape.Next() {
		n, p := shape.Shape()
		poly, ok := p.(*shp.Polygon)
		if !ok {
			continue
		}
		features = append(features, worldmap.Feature{
			Name:     readAttr(shape, n, nameIdx),
			ISO3:     readAttr(shape, n, iso3Idx),
			ISO2:     readAttr(shape, n, iso2Idx),
			Geometry: shapeGeometry(poly),
		})
	}
	if err := shape.Err(); err != nil {
		return nil, fmt.Errorf("read shapefile %s: %w", path, err)
	}
	return features, nil
}

func matchesKey(field string, keys []string) bool {
	for _, k := range keys {
		if strings.EqualFold(field, k) {
			return true
		}
	}
	return false
}

func readAttr(shape *shp.Reader, n, idx int) string {
	if idx < 0 {
		return ""
	}
	v := strings.Trim(shape.ReadAttribute(n, idx), "\x00 ")
	if v == "-99" {
		return ""
	}
	return v
}

// shapeGeometry splits a shapefile polygon's parts into rings and groups
// them into polygons by orientation.
func shapeGeometry(p *shp.Polygon) orb.Geometry {
	var mp orb.MultiPolygon
	for i := range p.Parts {
		start := int(p.Parts[i])
		end := len(p.Points)
		if i+1 < len(p.Parts) {
			end = int(p.Parts[i+1])
		}
		if start < 0 || end > len(p.Points) || start >= end {
			continue
		}
		ring := make(orb.Ring, 0, end-start)
		for _, pt := range p.Points[start:end] {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		if signedArea(ring) > 0 && len(mp) > 0 {
			last := len(mp) - 1
			mp[last] = append(mp[last], ring)
			continue
		}
		mp = append(mp, orb.Polygon{ring})
	}
	switch len(mp) {
	case 0:
		return nil
	case 1:
		return mp[0]
	default:
		return mp
	}
}

// signedArea is positive for counter-clockwise rings.
func signedArea(r orb.Ring) float64 {
	var sum float64
	for i := range r {
		j := (i + 1) % len(r)
		sum += r[i][0]*r[j][1] - r[j][0]*r[i][1]
	}
	return sum / 2
}
