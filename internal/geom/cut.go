package geom

import (
	"errors"
	"fmt"
	"math"

	planar "github.com/ctessum/geom"
)

var (
	ErrNotPolygon     = errors.New("geom: cut target is not a polygon")
	ErrNotLine        = errors.New("geom: cut line is not a line string")
	ErrEndpointInside = errors.New("geom: cut line endpoint lies inside the polygon")
	ErrBadTolerance   = errors.New("geom: tolerance must be positive")
)

// linePaths returns the coordinate paths of a LineString or
// MultiLineString with at least two vertices.
func linePaths(g planar.Geom) ([][]planar.Point, bool) {
	var paths [][]planar.Point
	switch t := g.(type) {
	case planar.LineString:
		paths = append(paths, t)
	case planar.MultiLineString:
		for _, l := range t {
			if len(l) > 0 {
				paths = append(paths, l)
			}
		}
	default:
		return nil, false
	}
	n := 0
	for _, p := range paths {
		n += len(p)
	}
	return paths, len(paths) > 0 && n >= 2
}

// Cut splits polygon along line. The line's two ends must lie outside the
// polygon. A strip of half-width tolerance around the line is removed from
// the polygon and vertices of the pieces' outer rings that land within
// 2*tolerance of a crossing point (or of a line vertex) are moved onto it,
// so neighbouring pieces share a seam. Pieces keep polygon's properties and
// get ids "<id>-<n>". A line that misses the polygon yields one piece.
func Cut(polygon, line *Feature, tolerance float64, u Unit) ([]*Feature, error) {
	if polygon == nil {
		return nil, ErrNotPolygon
	}
	poly, ok := polygon.Geometry.(planar.Polygon)
	if !ok || len(poly) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotPolygon, polygon.Kind())
	}
	if line == nil {
		return nil, ErrNotLine
	}
	paths, ok := linePaths(line.Geometry)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLine, line.Kind())
	}
	if !(tolerance > 0) || math.IsInf(tolerance, 0) {
		return nil, fmt.Errorf("%w: %v", ErrBadTolerance, tolerance)
	}
	tol, err := u.ToMap(tolerance)
	if err != nil {
		return nil, err
	}

	first := paths[0][0]
	lastPath := paths[len(paths)-1]
	last := lastPath[len(lastPath)-1]
	for _, end := range []planar.Point{first, last} {
		if Inside(end, poly) {
			return nil, fmt.Errorf("%w: (%g, %g)", ErrEndpointInside, end.X, end.Y)
		}
	}

	snaps := LineIntersections(paths, poly)
	for _, p := range paths {
		snaps = append(snaps, p[:len(p)-1]...)
	}

	strip := Buffer(paths, tol)
	var pieces []planar.Polygon
	if len(strip) == 0 || !strip.Bounds().Overlaps(poly.Bounds()) {
		pieces = []planar.Polygon{CloneGeom(poly).(planar.Polygon)}
	} else {
		pieces = Pieces(poly.Difference(strip))
		if len(pieces) == 0 {
			return nil, ErrEmptyGeometry
		}
		for _, pc := range pieces {
			pc[0] = snapRing(pc[0], snaps, 2*tol)
		}
	}

	out := make([]*Feature, len(pieces))
	for i, pc := range pieces {
		f := polygon.Clone()
		f.ID = fmt.Sprintf("%s-%d", polygon.ID, i)
		f.Geometry = pc
		out[i] = f
	}
	return out, nil
}

// snapRing moves each vertex of ring within maxDist of a candidate onto
// the nearest candidate. Repeated neighbours created by snapping are
// collapsed; a ring that would degenerate is returned unsnapped.
func snapRing(ring []planar.Point, candidates []planar.Point, maxDist float64) []planar.Point {
	if len(candidates) == 0 {
		return ring
	}
	out := make([]planar.Point, 0, len(ring))
	for _, v := range ring {
		best, bestD := v, math.Inf(1)
		for _, c := range candidates {
			if d := Distance(v, c); d <= maxDist && d < bestD {
				best, bestD = c, d
			}
		}
		if len(out) > 0 && out[len(out)-1].Equals(best) {
			continue
		}
		out = append(out, best)
	}
	if len(out) > 1 && !out[0].Equals(out[len(out)-1]) {
		out = append(out, out[0])
	}
	if len(out) < 4 {
		return ring
	}
	return out
}
