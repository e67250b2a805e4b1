// Package dataset loads country geometry for the world map from GeoJSON
// files, HTTP endpoints and ESRI shapefiles.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phanxgames/worldmap"
)

// DefaultSource is the dataset loaded when none is configured.
const DefaultSource = "assets/world.geo.json"

// ErrFetchStatus is returned when an HTTP dataset answers with a non-2xx status.
var ErrFetchStatus = errors.New("failed to load world data")

// Format identifies how a source is decoded.
type Format string

const (
	FormatAuto      Format = ""
	FormatGeoJSON   Format = "geojson"
	FormatShapefile Format = "shapefile"
)

// ParseFormat accepts "", "auto", "geojson", "json", "shp" and "shapefile".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "geojson", "json":
		return FormatGeoJSON, nil
	case "shp", "shapefile":
		return FormatShapefile, nil
	default:
		return FormatAuto, fmt.Errorf("unknown dataset format %q", s)
	}
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Detect returns the format implied by a source's extension.
func Detect(source string) Format {
	if strings.EqualFold(filepath.Ext(source), ".shp") {
		return FormatShapefile
	}
	return FormatGeoJSON
}

// Open loads features from source, detecting the format.
func Open(ctx context.Context, source string) ([]worldmap.Feature, error) {
	return OpenFormat(ctx, source, FormatAuto)
}

// OpenFormat loads features from source in the given format. Remote sources
// are always GeoJSON.
func OpenFormat(ctx context.Context, source string, format Format) ([]worldmap.Feature, error) {
	if source == "" {
		source = DefaultSource
	}
	if IsRemote(source) {
		return Fetch(ctx, nil, source)
	}
	if format == FormatAuto {
		format = Detect(source)
	}
	switch format {
	case FormatShapefile:
		return LoadShapefile(source)
	default:
		return LoadGeoJSONFile(source)
	}
}

// Read returns the dataset as GeoJSON bytes: the raw file or response body
// for GeoJSON sources, a re-encoded feature collection for shapefiles.
func Read(ctx context.Context, source string, format Format) ([]byte, error) {
	if source == "" {
		source = DefaultSource
	}
	if IsRemote(source) {
		return fetchBytes(ctx, nil, source)
	}
	if format == FormatAuto {
		format = Detect(source)
	}
	if format == FormatShapefile {
		features, err := LoadShapefile(source)
		if err != nil {
			return nil, err
		}
		return EncodeGeoJSON(features)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", source, err)
	}
	return data, nil
}
