package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"

	"github.com/phanxgames/worldmap"
)

// Property keys, tried in order. The first set is the world dataset's own;
// the rest cover Natural Earth exports.
var (
	nameKeys = []string{"name", "NAME", "ADMIN", "NAME_EN"}
	iso3Keys = []string{"ISO3166-1-Alpha-3", "ISO_A3", "ADM0_A3", "iso_a3"}
	iso2Keys = []string{"ISO3166-1-Alpha-2", "ISO_A2", "iso_a2"}
)

// LoadGeoJSONFile reads a GeoJSON feature collection from disk.
func LoadGeoJSONFile(path string) ([]worldmap.Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return DecodeGeoJSON(data)
}

// DecodeGeoJSON converts a GeoJSON feature collection into map features.
// Features without geometry are kept with a nil geometry; the projector
// skips them.
func DecodeGeoJSON(data []byte) ([]worldmap.Feature, error) {
	fc := geojson.NewFeatureCollection()
	if err := json.Unmarshal(data, fc); err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	out := make([]worldmap.Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		out = append(out, worldmap.Feature{
			Name:     property(f.Properties, nameKeys),
			ISO3:     property(f.Properties, iso3Keys),
			ISO2:     property(f.Properties, iso2Keys),
			Geometry: f.Geometry,
		})
	}
	return out, nil
}

// EncodeGeoJSON writes features back out as a feature collection using the
// world dataset's property keys. Features without geometry are dropped.
func EncodeGeoJSON(features []worldmap.Feature) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		if f.Geometry == nil {
			continue
		}
		gf := geojson.NewFeature(f.Geometry)
		gf.Properties["name"] = f.Name
		gf.Properties[iso3Keys[0]] = f.ISO3
		gf.Properties[iso2Keys[0]] = f.ISO2
		fc.Append(gf)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	return data, nil
}

func property(props geojson.Properties, keys []string) string {
	for _, k := range keys {
		if s, ok := props[k].(string); ok && s != "" && s != "-99" {
			return s
		}
	}
	return ""
}
