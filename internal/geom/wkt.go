package geom

import (
	"errors"
	"fmt"
	"strings"

	planar "github.com/ctessum/geom"
	gg "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"
)

var ErrBadWKT = errors.New("wkt: invalid geometry")

// ParseWKT parses POINT, MULTIPOINT, LINESTRING, MULTILINESTRING, POLYGON
// and MULTIPOLYGON text. Z/M ordinates are dropped and polygon rings are
// closed.
func ParseWKT(s string) (planar.Geom, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrBadWKT)
	}
	t, err := wkt.Unmarshal(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadWKT, err)
	}
	switch g := t.(type) {
	case *gg.Point:
		if g.Empty() {
			return nil, fmt.Errorf("%w: empty point", ErrBadWKT)
		}
		return toPoint(g.Coords()), nil
	case *gg.MultiPoint:
		pts := toPoints(g.Coords())
		if len(pts) == 0 {
			return nil, fmt.Errorf("%w: empty multipoint", ErrBadWKT)
		}
		return planar.MultiPoint(pts), nil
	case *gg.LineString:
		return toLine(g.Coords())
	case *gg.MultiLineString:
		var ml planar.MultiLineString
		for _, cs := range g.Coords() {
			l, err := toLine(cs)
			if err != nil {
				return nil, err
			}
			ml = append(ml, l)
		}
		if len(ml) == 0 {
			return nil, fmt.Errorf("%w: empty multilinestring", ErrBadWKT)
		}
		return ml, nil
	case *gg.Polygon:
		return toPolygon(g.Coords())
	case *gg.MultiPolygon:
		var mp planar.MultiPolygon
		for _, rings := range g.Coords() {
			p, err := toPolygon(rings)
			if err != nil {
				return nil, err
			}
			mp = append(mp, p)
		}
		if len(mp) == 0 {
			return nil, fmt.Errorf("%w: empty multipolygon", ErrBadWKT)
		}
		return mp, nil
	}
	return nil, fmt.Errorf("%w: unsupported type %T", ErrBadWKT, t)
}

func toPoint(c gg.Coord) planar.Point {
	return planar.Point{X: c.X(), Y: c.Y()}
}

func toPoints(cs []gg.Coord) []planar.Point {
	out := make([]planar.Point, 0, len(cs))
	for _, c := range cs {
		if len(c) < 2 {
			continue
		}
		out = append(out, toPoint(c))
	}
	return out
}

func toLine(cs []gg.Coord) (planar.LineString, error) {
	pts := toPoints(cs)
	if len(pts) < 2 {
		return nil, fmt.Errorf("%w: linestring needs at least 2 points", ErrBadWKT)
	}
	return planar.LineString(pts), nil
}

func toPolygon(rings [][]gg.Coord) (planar.Polygon, error) {
	var poly planar.Polygon
	for _, cs := range rings {
		pts := closeRing(toPoints(cs))
		if len(pts) < 4 {
			return nil, fmt.Errorf("%w: ring needs at least 3 points", ErrBadWKT)
		}
		poly = append(poly, pts)
	}
	if len(poly) == 0 {
		return nil, fmt.Errorf("%w: empty polygon", ErrBadWKT)
	}
	return poly, nil
}

// LoadWKT reads one geometry per non-empty line.
func LoadWKT(data string) ([]*Feature, error) {
	var out []*Feature
	for n, line := range strings.Split(data, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		g, err := ParseWKT(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		out = append(out, NewFeature(g, nil))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no geometries found", ErrBadWKT)
	}
	return out, nil
}
