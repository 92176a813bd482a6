package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	planar "github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/google/uuid"
)

// CircleSegments is the number of segments a Circle is written with.
const CircleSegments = 64

// LoadGeo reads a GeoJSON file. See ReadFeatures.
func LoadGeo(path string) ([]*Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadFeatures(f)
}

// ReadFeatures decodes a FeatureCollection, a single Feature or a bare
// geometry. Features without an id, or whose id repeats an earlier one,
// get a fresh UUID.
func ReadFeatures(r io.Reader) ([]*Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	var out []*Feature
	seen := make(map[string]bool)
	addFeature := func(fm map[string]any) error {
		gm, ok := fm["geometry"].(map[string]any)
		if !ok {
			return nil // null geometry
		}
		g, err := decodeGeometry(gm)
		if err != nil {
			return err
		}
		id := featureID(fm["id"])
		if id == "" || seen[id] {
			id = uuid.NewString()
		}
		seen[id] = true
		props, _ := fm["properties"].(map[string]any)
		if props == nil {
			props = map[string]any{}
		}
		out = append(out, &Feature{ID: id, Geometry: g, Properties: props})
		return nil
	}
	t, _ := raw["type"].(string)
	switch t {
	case "":
		return nil, errors.New("invalid geojson: missing type")
	case "Feature":
		if err := addFeature(raw); err != nil {
			return nil, err
		}
	case "FeatureCollection":
		fs, _ := raw["features"].([]any)
		for i, f := range fs {
			fm, ok := f.(map[string]any)
			if !ok {
				continue
			}
			if err := addFeature(fm); err != nil {
				return nil, fmt.Errorf("feature %d: %w", i, err)
			}
		}
	default:
		if err := addFeature(map[string]any{"geometry": raw}); err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no geometries found")
	}
	return out, nil
}

func featureID(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	}
	return ""
}

// flat2D drops altitude and any further ordinates so the codec, which
// only takes x,y pairs, accepts the coordinates.
func flat2D(v any) any {
	arr, ok := v.([]any)
	if !ok {
		return v
	}
	if len(arr) > 0 {
		if _, isNum := arr[0].(float64); isNum {
			if len(arr) > 2 {
				return arr[:2]
			}
			return arr
		}
	}
	out := make([]any, len(arr))
	for i, el := range arr {
		out[i] = flat2D(el)
	}
	return out
}

// decodeGeometry handles the three simple types through the codec and
// assembles the multi types from their parts.
func decodeGeometry(gm map[string]any) (planar.Geom, error) {
	gt, _ := gm["type"].(string)
	coords := flat2D(gm["coordinates"])
	part := func(typ string, c any) (planar.Geom, error) {
		return geojson.FromGeoJSON(&geojson.Geometry{Type: typ, Coordinates: c})
	}
	switch gt {
	case "Point", "LineString", "Polygon":
		return part(gt, coords)
	case "MultiPoint", "MultiLineString", "MultiPolygon":
		arr, ok := coords.([]any)
		if !ok {
			return nil, geojson.InvalidGeometryError{}
		}
		var (
			mp  planar.MultiPoint
			mls planar.MultiLineString
			mpg planar.MultiPolygon
		)
		for _, c := range arr {
			switch gt {
			case "MultiPoint":
				g, err := part("Point", c)
				if err != nil {
					return nil, err
				}
				mp = append(mp, g.(planar.Point))
			case "MultiLineString":
				g, err := part("LineString", c)
				if err != nil {
					return nil, err
				}
				mls = append(mls, g.(planar.LineString))
			case "MultiPolygon":
				g, err := part("Polygon", c)
				if err != nil {
					return nil, err
				}
				mpg = append(mpg, g.(planar.Polygon))
			}
		}
		switch gt {
		case "MultiPoint":
			return mp, nil
		case "MultiLineString":
			return mls, nil
		}
		return mpg, nil
	}
	return nil, geojson.UnsupportedGeometryError{Type: gt}
}

// EncodeGeometry converts g to a GeoJSON geometry object. A Circle is
// written as a polygon with CircleSegments sides.
func EncodeGeometry(g planar.Geom) (*geojson.Geometry, error) {
	coordsOf := func(p planar.Geom) (any, error) {
		gj, err := geojson.ToGeoJSON(p)
		if err != nil {
			return nil, err
		}
		return gj.Coordinates, nil
	}
	switch t := g.(type) {
	case Circle:
		return geojson.ToGeoJSON(t.Polygon(CircleSegments))
	case planar.MultiPoint:
		cs := make([]any, len(t))
		for i, p := range t {
			c, err := coordsOf(p)
			if err != nil {
				return nil, err
			}
			cs[i] = c
		}
		return &geojson.Geometry{Type: "MultiPoint", Coordinates: cs}, nil
	case planar.MultiLineString:
		cs := make([]any, len(t))
		for i, l := range t {
			c, err := coordsOf(l)
			if err != nil {
				return nil, err
			}
			cs[i] = c
		}
		return &geojson.Geometry{Type: "MultiLineString", Coordinates: cs}, nil
	case planar.MultiPolygon:
		cs := make([]any, len(t))
		for i, p := range t {
			c, err := coordsOf(p)
			if err != nil {
				return nil, err
			}
			cs[i] = c
		}
		return &geojson.Geometry{Type: "MultiPolygon", Coordinates: cs}, nil
	}
	return geojson.ToGeoJSON(g)
}

type featureJSON struct {
	Type       string            `json:"type"`
	ID         string            `json:"id,omitempty"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties map[string]any    `json:"properties"`
}

type collectionJSON struct {
	Type     string        `json:"type"`
	Features []featureJSON `json:"features"`
}

// WriteFeatures encodes features as an indented FeatureCollection.
func WriteFeatures(w io.Writer, features []*Feature) error {
	fc := collectionJSON{Type: "FeatureCollection", Features: []featureJSON{}}
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		g, err := EncodeGeometry(f.Geometry)
		if err != nil {
			return fmt.Errorf("feature %s: %w", f.ID, err)
		}
		props := f.Properties
		if props == nil {
			props = map[string]any{}
		}
		fc.Features = append(fc.Features, featureJSON{Type: "Feature", ID: f.ID, Geometry: g, Properties: props})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}

// SaveGeo writes features to path, replacing the file.
func SaveGeo(path string, features []*Feature) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteFeatures(f, features); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
