package server

import (
	"encoding/json"
	"io"
	"math"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paulmach/orb"

	"github.com/phanxgames/worldmap"
	"github.com/phanxgames/worldmap/internal/logging"
)

const rawDataset = `{"type":"FeatureCollection","features":[]}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	features := []worldmap.Feature{
		{Name: "Westland", ISO3: "WST", ISO2: "WL", Geometry: orb.MultiPolygon{
			{{{-40, -10}, {-10, -10}, {-10, 20}, {-40, 20}, {-40, -10}}},
			{{{30, -25}, {35, -25}, {35, -20}, {30, -20}, {30, -25}}},
		}},
		{Name: "Eastland", ISO3: "EST", ISO2: "EL", Geometry: orb.Polygon{{{0, -5}, {20, -5}, {20, 10}, {0, 10}, {0, -5}}}},
	}
	atlas, err := worldmap.NewProjector(nil, worldmap.ProjectorConfig{}).Project(features)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	return New(atlas, []byte(rawDataset), Options{Logger: logging.Discard()})
}

func get(t *testing.T, s *Server, target string) (int, string, map[string][]string) {
	t.Helper()
	resp, err := s.App().Test(httptest.NewRequest("GET", target, nil), -1)
	if err != nil {
		t.Fatalf("GET %s: %v", target, err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body), resp.Header
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, body, _ := get(t, s, "/healthz")
	if status != 200 || strings.TrimSpace(body) != `{"status":"ok"}` {
		t.Errorf("healthz = %d %s", status, body)
	}
}

func TestDatasetAsset(t *testing.T) {
	s := newTestServer(t)
	status, body, header := get(t, s, "/assets/world.geo.json")
	if status != 200 || body != rawDataset {
		t.Fatalf("asset = %d %q", status, body)
	}
	if ct := header["Content-Type"]; len(ct) == 0 || !strings.HasPrefix(ct[0], "application/json") {
		t.Errorf("Content-Type = %v", ct)
	}
	if cc := header["Cache-Control"]; len(cc) == 0 || cc[0] != "no-cache" {
		t.Errorf("Cache-Control = %v", cc)
	}
}

func TestListCountries(t *testing.T) {
	s := newTestServer(t)
	status, body, _ := get(t, s, "/api/countries")
	if status != 200 {
		t.Fatalf("status = %d", status)
	}
	var out struct {
		Count     int           `json:"count"`
		Segments  int           `json:"segments"`
		Countries []countryJSON `json:"countries"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 2 || out.Segments != 3 || len(out.Countries) != 2 {
		t.Fatalf("summary = %+v", out)
	}
	west := out.Countries[0]
	if west.ISO3 != "WST" || west.Segments != 2 || !strings.HasPrefix(west.Color, "#") {
		t.Errorf("west = %+v", west)
	}
	if !strings.HasSuffix(west.Label, "Westland") {
		t.Errorf("label = %q", west.Label)
	}
}

func TestGetCountry(t *testing.T) {
	s := newTestServer(t)
	status, body, _ := get(t, s, "/api/countries/el?w=800&h=600")
	if status != 200 {
		t.Fatalf("status = %d: %s", status, body)
	}
	var out struct {
		Country countryJSON `json:"country"`
		Framing framingJSON `json:"framing"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Country.ISO3 != "EST" {
		t.Errorf("country = %+v", out.Country)
	}
	f := out.Framing
	if f.Width != 800 || f.Height != 600 || f.Zoom <= 0 {
		t.Errorf("framing = %+v", f)
	}

	// The framed country's center lands on the screen center.
	b := out.Country.Bounds
	cx := f.X + (b.X+b.Width/2)*f.Zoom
	cy := f.Y + (b.Y+b.Height/2)*f.Zoom
	if math.Abs(cx-400) > 1e-6 || math.Abs(cy-300) > 1e-6 {
		t.Errorf("country center on screen = (%f, %f), want (400, 300)", cx, cy)
	}
}

func TestGetCountryErrors(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		target string
		want   int
	}{
		{"/api/countries/XXX", 404},
		{"/api/countries/EST?w=0", 400},
		{"/api/countries/EST?w=99999", 400},
		{"/map.svg?active=XXX", 404},
		{"/map.svg?h=-1", 400},
	}
	for _, tt := range tests {
		if status, body, _ := get(t, s, tt.target); status != tt.want {
			t.Errorf("GET %s = %d (%s), want %d", tt.target, status, body, tt.want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	s := newTestServer(t)
	status, body, header := get(t, s, "/map.svg?w=640&h=360")
	if status != 200 {
		t.Fatalf("status = %d", status)
	}
	if ct := header["Content-Type"]; len(ct) == 0 || ct[0] != "image/svg+xml" {
		t.Errorf("Content-Type = %v", ct)
	}
	if !strings.HasPrefix(body, "<?xml") || !strings.Contains(body, `<svg width="640" height="360"`) {
		t.Errorf("body starts %q", body[:min(80, len(body))])
	}
	if n := strings.Count(body, "<path"); n != 6 {
		t.Errorf("paths = %d, want fill and outline for three segments", n)
	}

	status, active, _ := get(t, s, "/map.svg?w=640&h=360&active=EST")
	if status != 200 {
		t.Fatalf("active status = %d", status)
	}
	if active == body {
		t.Error("framing a country should change the render")
	}
	if !strings.Contains(active, `stroke-opacity="0.38"`) {
		t.Error("active country should use the active outline")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	get(t, s, "/healthz")
	status, body, _ := get(t, s, "/metrics")
	if status != 200 || !strings.Contains(body, "worldmap_atlas_countries 2") {
		t.Errorf("metrics = %d\n%s", status, body)
	}
}

func TestCORS(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("GET", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}
