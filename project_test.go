package worldmap

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/paulmach/orb"
)

func unitSquare() orb.Polygon {
	return orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}}
}

func fixedColors() ColorResolver {
	return ColorResolverFunc(func(id CountryIdentity) CountryColors {
		return CountryColors{Base: ColorFromHex(0x336699), Highlight: ColorFromHex(0x6699cc)}
	})
}

func TestProjectUnitSquare(t *testing.T) {
	features := []Feature{{Name: "Square", ISO3: "SQR", ISO2: "SQ", Geometry: unitSquare()}}
	atlas, err := NewProjector(fixedColors(), ProjectorConfig{}).Project(features)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(atlas.Countries) != 1 {
		t.Fatalf("countries = %d, want 1", len(atlas.Countries))
	}
	c := atlas.Countries[0]
	if len(c.Segments) != 1 {
		t.Fatalf("segments = %d, want 1", len(c.Segments))
	}
	if n := len(c.Segments[0].Points); n != 4 {
		t.Errorf("points = %d, want 4", n)
	}
	if atlas.Bounds.Width <= 0 || atlas.Bounds.Height <= 0 {
		t.Errorf("bounds = %v, want positive size", atlas.Bounds)
	}
	if c.Segments[0].Country != c {
		t.Error("segment back-reference not set")
	}
	if c.BaseColor.Hex() != 0x336699 || c.HighlightColor.Hex() != 0x6699cc {
		t.Errorf("colors = %s/%s", c.BaseColor.HexString(), c.HighlightColor.HexString())
	}
	// The unit square fills the 1152 target height.
	if !approxEqual(atlas.Bounds.Height, 1152, 1e-6) {
		t.Errorf("height = %f, want 1152", atlas.Bounds.Height)
	}
}

func TestProjectBoundsSymmetric(t *testing.T) {
	features := []Feature{
		{Name: "A", Geometry: orb.Polygon{{{10, 40}, {20, 40}, {20, 50}, {10, 50}, {10, 40}}}},
		{Name: "B", Geometry: orb.MultiPolygon{
			{{{-30, -10}, {-25, -10}, {-25, -5}, {-30, -10}}},
			{{{100, 60}, {110, 60}, {105, 70}, {100, 60}}},
		}},
	}
	atlas, err := NewProjector(fixedColors(), ProjectorConfig{}).Project(features)
	if err != nil {
		t.Fatal(err)
	}
	b := atlas.Bounds
	if !approxEqual(b.X, -b.Width/2, 1e-9) || !approxEqual(b.Y, -b.Height/2, 1e-9) {
		t.Errorf("bounds %v not symmetric about origin", b)
	}
	for _, c := range atlas.Countries {
		for _, s := range c.Segments {
			if len(s.Points) < 3 {
				t.Errorf("%s has a segment with %d points", c.Name, len(s.Points))
			}
			grown := Rect{X: b.X - 1e-6, Y: b.Y - 1e-6, Width: b.Width + 2e-6, Height: b.Height + 2e-6}
			for _, p := range s.Points {
				if !grown.Contains(p.X, p.Y) {
					t.Errorf("point %v outside bounds %v", p, b)
				}
			}
		}
	}
	if got := len(atlas.Countries[1].Segments); got != 2 {
		t.Errorf("multipolygon segments = %d, want 2", got)
	}
}

func TestProjectDeterministic(t *testing.T) {
	features := []Feature{
		{Name: "A", Geometry: orb.Polygon{{{0, 0}, {3, 0}, {3, 2}, {1.5, 3}, {0, 2}, {0, 0}}}},
		{Name: "B", Geometry: orb.Polygon{{{5, 5}, {8, 5}, {8, 8}, {5, 5}}}},
	}
	p := NewProjector(fixedColors(), ProjectorConfig{})
	a1, err := p.Project(features)
	if err != nil {
		t.Fatal(err)
	}
	a2, err := p.Project(features)
	if err != nil {
		t.Fatal(err)
	}
	if a1.Bounds != a2.Bounds {
		t.Errorf("bounds differ: %v vs %v", a1.Bounds, a2.Bounds)
	}
	for i := range a1.Countries {
		for j := range a1.Countries[i].Segments {
			if !reflect.DeepEqual(a1.Countries[i].Segments[j].Points, a2.Countries[i].Segments[j].Points) {
				t.Errorf("country %d segment %d points differ", i, j)
			}
		}
	}
}

func TestProjectNoCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		features []Feature
	}{
		{"empty", nil},
		{"nil geometry", []Feature{{Name: "ghost"}}},
		{"non-finite", []Feature{{Geometry: orb.Polygon{{{math.NaN(), 0}, {math.Inf(1), 1}, {2, math.NaN()}}}}}},
		{"point geometry", []Feature{{Geometry: orb.Point{1, 2}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProjector(fixedColors(), ProjectorConfig{}).Project(tt.features)
			if !errors.Is(err, ErrNoCoordinates) {
				t.Errorf("err = %v, want ErrNoCoordinates", err)
			}
		})
	}
}

func TestProjectSkipsDegenerate(t *testing.T) {
	features := []Feature{
		{Name: "Real", Geometry: unitSquare()},
		{Name: "NoGeometry"},
		{Name: "Sliver", Geometry: orb.Polygon{{{0, 0}, {1, 1}}}},
		{Name: "Collapsed", Geometry: orb.Polygon{{{0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}, {0.5, 0.5}}}},
		{Name: "Empty", Geometry: orb.Polygon{}},
	}
	atlas, err := NewProjector(fixedColors(), ProjectorConfig{}).Project(features)
	if err != nil {
		t.Fatal(err)
	}
	if len(atlas.Countries) != 1 || atlas.Countries[0].Name != "Real" {
		names := []string{}
		for _, c := range atlas.Countries {
			names = append(names, c.Name)
		}
		t.Errorf("countries = %v, want [Real]", names)
	}
}

func TestProjectOuterRingOnly(t *testing.T) {
	poly := orb.Polygon{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		{{4, 4}, {6, 4}, {6, 6}, {4, 6}, {4, 4}},
	}
	atlas, err := NewProjector(fixedColors(), ProjectorConfig{}).Project([]Feature{{Geometry: poly}})
	if err != nil {
		t.Fatal(err)
	}
	if n := len(atlas.Countries[0].Segments); n != 1 {
		t.Errorf("segments = %d, want 1 (holes ignored)", n)
	}
}

func TestProjectDefaultIdentity(t *testing.T) {
	atlas, err := NewProjector(fixedColors(), ProjectorConfig{}).Project([]Feature{{Geometry: unitSquare()}})
	if err != nil {
		t.Fatal(err)
	}
	c := atlas.Countries[0]
	if c.Name != DefaultName || c.ISO3 != DefaultISO3 || c.ISO2 != DefaultISO2 {
		t.Errorf("identity = %q/%q/%q", c.Name, c.ISO3, c.ISO2)
	}
}

func TestProjectCosineCorrection(t *testing.T) {
	// At 60 degrees north a degree of longitude is half a degree of latitude.
	poly := orb.Polygon{{{0, 59}, {2, 59}, {2, 61}, {0, 61}, {0, 59}}}
	atlas, err := NewProjector(fixedColors(), ProjectorConfig{}).Project([]Feature{{Geometry: poly}})
	if err != nil {
		t.Fatal(err)
	}
	ratio := atlas.Bounds.Width / atlas.Bounds.Height
	if !approxEqual(ratio, 0.5, 1e-3) {
		t.Errorf("width/height = %f, want 0.5", ratio)
	}
	if !approxEqual(atlas.Cosine, 0.5, 1e-9) {
		t.Errorf("Cosine = %f, want 0.5", atlas.Cosine)
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name string
		in   []Vec2
		want []Vec2
	}{
		{
			name: "short ring untouched",
			in:   []Vec2{{0, 0}, {0.1, 0}, {0.2, 0}},
			want: []Vec2{{0, 0}, {0.1, 0}, {0.2, 0}},
		},
		{
			name: "drops close points keeps last",
			in:   []Vec2{{0, 0}, {0.5, 0}, {1.0, 0}, {1.5, 0}, {2.0, 0}},
			want: []Vec2{{0, 0}, {1.5, 0}, {2.0, 0}},
		},
		{
			name: "keeps spaced points",
			in:   []Vec2{{0, 0}, {2, 0}, {4, 0}, {6, 0}},
			want: []Vec2{{0, 0}, {2, 0}, {4, 0}, {6, 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := simplify(tt.in, 1.4)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("simplify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDropClosingPoint(t *testing.T) {
	got := dropClosingPoint([]Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 0}})
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
	open := []Vec2{{0, 0}, {1, 0}, {1, 1}}
	if got := dropClosingPoint(open); len(got) != 3 {
		t.Errorf("open ring changed: %v", got)
	}
}

func TestAtlasLookupAndStats(t *testing.T) {
	features := []Feature{
		{Name: "France", ISO3: "FRA", ISO2: "FR", Geometry: unitSquare()},
		{Name: "Peru", ISO3: "PER", ISO2: "PE", Geometry: orb.Polygon{{{3, 3}, {5, 3}, {5, 5}, {3, 5}, {3, 3}}}},
	}
	atlas, err := NewProjector(nil, ProjectorConfig{}).Project(features)
	if err != nil {
		t.Fatal(err)
	}
	if c := atlas.Lookup("fr"); c == nil || c.Name != "France" {
		t.Errorf("Lookup(fr) = %v", c)
	}
	if c := atlas.Lookup("PER"); c == nil || c.Name != "Peru" {
		t.Errorf("Lookup(PER) = %v", c)
	}
	if atlas.Lookup("xx") != nil || atlas.Lookup("") != nil {
		t.Error("Lookup of unknown code should be nil")
	}
	st := atlas.Stats()
	if st.Countries != 2 || st.Segments != 2 || st.Points != 8 {
		t.Errorf("Stats = %+v, want 2/2/8", st)
	}
	// Default palette resolves flag colors.
	if atlas.Lookup("FRA").BaseColor.Hex() != 0x0055a4 {
		t.Errorf("France color = %s", atlas.Lookup("FRA").BaseColor.HexString())
	}
}

func TestCountryMainSegmentAndCentroid(t *testing.T) {
	c := &Country{}
	small := &Segment{Points: []Vec2{{0, 0}, {1, 0}, {1, 1}}, Country: c}
	big := &Segment{Points: []Vec2{{10, 10}, {20, 10}, {20, 20}, {10, 20}}, Country: c}
	c.Segments = []*Segment{small, big}
	if c.MainSegment() != big {
		t.Error("MainSegment should pick the largest bounding box")
	}
	if got := c.Centroid(big); got != (Vec2{15, 15}) {
		t.Errorf("Centroid(big) = %v, want (15,15)", got)
	}
	all := c.Centroid(nil)
	if !approxEqual(all.X, (0+1+1+10+20+20+10)/7.0, 1e-9) {
		t.Errorf("Centroid(nil).X = %f", all.X)
	}
	if (&Country{}).MainSegment() != nil {
		t.Error("MainSegment of empty country should be nil")
	}
}
