package interaction

import (
	"math"

	planar "github.com/ctessum/geom"

	"geoedit/internal/geom"
)

// Hit reports whether p touches g: inside a polygon or circle, or within
// tol of a vertex or edge.
func Hit(g planar.Geom, p planar.Point, tol float64) bool {
	if c, ok := g.(geom.Circle); ok {
		return geom.Distance(c.Center, p) <= c.Radius+tol
	}
	if poly, ok := geom.Polygonal(g); ok && geom.Inside(p, poly) {
		return true
	}
	return distanceTo(g, p) <= tol
}

// distanceTo is the distance from p to the nearest vertex or edge of g.
func distanceTo(g planar.Geom, p planar.Point) float64 {
	d := math.Inf(1)
	for _, v := range geom.Vertices(g) {
		d = math.Min(d, geom.Distance(v, p))
	}
	if _, _, de, ok := geom.NearestEdge(g, p); ok {
		d = math.Min(d, de)
	}
	return d
}

// HitTest returns the topmost (last) feature hit at p.
func HitTest(features []*geom.Feature, p planar.Point, tol float64) *geom.Feature {
	for i := len(features) - 1; i >= 0; i-- {
		f := features[i]
		if f != nil && f.Geometry != nil && Hit(f.Geometry, p, tol) {
			return f
		}
	}
	return nil
}

// nearestVertex returns the index of the vertex of g closest to p if it is
// within tol.
func nearestVertex(g planar.Geom, p planar.Point, tol float64) (int, bool) {
	best, bestD := -1, math.Inf(1)
	for i, v := range geom.Vertices(g) {
		if d := geom.Distance(v, p); d <= tol && d < bestD {
			best, bestD = i, d
		}
	}
	return best, best >= 0
}
