package geom

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	planar "github.com/ctessum/geom"
)

// LoadKML reads Placemarks with Point, LineString or Polygon (outer
// boundary) geometry. KML coordinates are "x,y[,alt]"; altitude is ignored.
func LoadKML(path string) ([]*Feature, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadKML(f)
}

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlCoords   `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlCoords `xml:"innerBoundaryIs>LinearRing"`
}

type kmlPlacemark struct {
	Name       string      `xml:"name"`
	Point      *kmlCoords  `xml:"Point"`
	LineString *kmlCoords  `xml:"LineString"`
	Polygon    *kmlPolygon `xml:"Polygon"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
	Document   struct {
		Placemarks []kmlPlacemark `xml:"Placemark"`
		Folders    []struct {
			Placemarks []kmlPlacemark `xml:"Placemark"`
		} `xml:"Folder"`
	} `xml:"Document"`
}

// ReadKML is LoadKML over a reader.
func ReadKML(r io.Reader) ([]*Feature, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	pms := append([]kmlPlacemark{}, doc.Placemarks...)
	pms = append(pms, doc.Document.Placemarks...)
	for _, f := range doc.Document.Folders {
		pms = append(pms, f.Placemarks...)
	}
	var out []*Feature
	for _, pm := range pms {
		var g planar.Geom
		switch {
		case pm.Point != nil:
			if pts := kmlTuples(pm.Point.Coordinates); len(pts) > 0 {
				g = pts[0]
			}
		case pm.LineString != nil:
			if pts := kmlTuples(pm.LineString.Coordinates); len(pts) >= 2 {
				g = planar.LineString(pts)
			}
		case pm.Polygon != nil:
			outer := kmlTuples(pm.Polygon.Outer.Coordinates)
			if len(outer) >= 3 {
				poly := planar.Polygon{closeRing(outer)}
				for _, in := range pm.Polygon.Inner {
					if pts := kmlTuples(in.Coordinates); len(pts) >= 3 {
						poly = append(poly, closeRing(pts))
					}
				}
				g = poly
			}
		}
		if g == nil {
			continue
		}
		props := map[string]any{}
		if pm.Name != "" {
			props["name"] = pm.Name
		}
		out = append(out, NewFeature(g, props))
	}
	if len(out) == 0 {
		return nil, errors.New("kml: no placemarks found")
	}
	return out, nil
}

// kmlTuples parses whitespace separated "x,y[,z]" tuples.
func kmlTuples(s string) []planar.Point {
	var out []planar.Point
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, planar.Point{X: x, Y: y})
	}
	return out
}
