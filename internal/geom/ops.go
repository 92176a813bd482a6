package geom

import (
	"errors"
	"math"
	"sort"

	planar "github.com/ctessum/geom"
)

var ErrEmptyGeometry = errors.New("geom: empty result geometry")

// Polygonal returns g as a planar.Polygonal if it is a Polygon or
// MultiPolygon.
func Polygonal(g planar.Geom) (planar.Polygonal, bool) {
	switch t := g.(type) {
	case planar.Polygon:
		return t, true
	case planar.MultiPolygon:
		return t, true
	}
	return nil, false
}

// Union merges a and b.
func Union(a, b planar.Polygonal) (planar.Geom, error) {
	return Normalize(a.Union(b))
}

// Difference removes b from a.
func Difference(a, b planar.Polygonal) (planar.Geom, error) {
	return Normalize(a.Difference(b))
}

// Intersection keeps the area shared by a and b.
func Intersection(a, b planar.Polygonal) (planar.Geom, error) {
	return Normalize(a.Intersection(b))
}

// Normalize turns a boolean-op result into a Polygon (one piece) or a
// MultiPolygon (several).
func Normalize(p planar.Polygon) (planar.Geom, error) {
	pieces := Pieces(p)
	switch len(pieces) {
	case 0:
		return nil, ErrEmptyGeometry
	case 1:
		return pieces[0], nil
	}
	return planar.MultiPolygon(pieces), nil
}

// Pieces splits a polygon whose rings mix several outer boundaries and
// holes into simple polygons. A ring nested inside an odd number of other
// rings is a hole of the smallest ring enclosing it. Order follows the
// first appearance of each outer ring.
func Pieces(p planar.Polygon) []planar.Polygon {
	var rings [][]planar.Point
	for _, r := range p {
		if len(r) >= 3 && ringArea(r) > 0 {
			rings = append(rings, r)
		}
	}
	n := len(rings)
	areas := make([]float64, n)
	for i, r := range rings {
		areas[i] = ringArea(r)
	}
	// parent[i] is the smallest ring that contains ring i.
	parent := make([]int, n)
	depth := make([]int, n)
	for i := range rings {
		parent[i] = -1
		probe := ringProbe(rings[i])
		for j := range rings {
			if i == j || areas[j] <= areas[i] {
				continue
			}
			if probe.Within(planar.Polygon{rings[j]}) == planar.Outside {
				continue
			}
			depth[i]++
			if parent[i] == -1 || areas[j] < areas[parent[i]] {
				parent[i] = j
			}
		}
	}
	index := make(map[int]int)
	var out []planar.Polygon
	for i := range rings {
		if depth[i]%2 == 0 {
			index[i] = len(out)
			out = append(out, planar.Polygon{closeRing(rings[i])})
		}
	}
	for i := range rings {
		if depth[i]%2 == 1 && parent[i] >= 0 {
			if k, ok := index[parent[i]]; ok {
				out[k] = append(out[k], closeRing(rings[i]))
			}
		}
	}
	return out
}

// ringProbe picks a point that lies on ring r's inner side, next to its
// first edge, so containment tests are not fooled by shared vertices.
func ringProbe(r []planar.Point) planar.Point {
	a, b := r[0], r[1]
	mid := planar.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return mid
	}
	eps := l * 1e-6
	// left normal for counter-clockwise rings
	nx, ny := -dy/l, dx/l
	if signedArea(r) < 0 {
		nx, ny = -nx, -ny
	}
	return planar.Point{X: mid.X + nx*eps, Y: mid.Y + ny*eps}
}

func closeRing(r []planar.Point) []planar.Point {
	out := clonePoints(r)
	if len(out) > 0 && !out[0].Equals(out[len(out)-1]) {
		out = append(out, out[0])
	}
	return out
}

func signedArea(r []planar.Point) float64 {
	a := 0.
	for i := 0; i < len(r); i++ {
		p, q := r[i], r[(i+1)%len(r)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

func ringArea(r []planar.Point) float64 {
	return math.Abs(signedArea(r))
}

// Inside reports whether pt is inside poly or on its boundary.
func Inside(pt planar.Point, poly planar.Polygonal) bool {
	return pt.Within(poly) != planar.Outside
}

// Distance is the planar distance between a and b.
func Distance(a, b planar.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// DistanceToSegment is the planar distance from p to segment ab.
func DistanceToSegment(p, a, b planar.Point) float64 {
	return Distance(p, ClosestOnSegment(p, a, b))
}

// ClosestOnSegment projects p onto segment ab.
func ClosestOnSegment(p, a, b planar.Point) planar.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return a
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return planar.Point{X: a.X + t*dx, Y: a.Y + t*dy}
}

// segmentIntersection returns the crossing point of segments ab and cd.
// Collinear overlaps report no crossing.
func segmentIntersection(a, b, c, d planar.Point) (planar.Point, bool) {
	r := planar.Point{X: b.X - a.X, Y: b.Y - a.Y}
	s := planar.Point{X: d.X - c.X, Y: d.Y - c.Y}
	den := r.X*s.Y - r.Y*s.X
	if den == 0 {
		return planar.Point{}, false
	}
	qp := planar.Point{X: c.X - a.X, Y: c.Y - a.Y}
	t := (qp.X*s.Y - qp.Y*s.X) / den
	u := (qp.X*r.Y - qp.Y*r.X) / den
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return planar.Point{}, false
	}
	return planar.Point{X: a.X + t*r.X, Y: a.Y + t*r.Y}, true
}

// LineIntersections returns every point where the paths cross a boundary
// ring of poly, ordered along the paths. Repeated points are reported once.
func LineIntersections(paths [][]planar.Point, poly planar.Polygon) []planar.Point {
	var out []planar.Point
	seen := func(p planar.Point) bool {
		for _, q := range out {
			if q.Equals(p) {
				return true
			}
		}
		return false
	}
	for _, path := range paths {
		for i := 0; i+1 < len(path); i++ {
			a, b := path[i], path[i+1]
			var hits []planar.Point
			for _, ring := range poly {
				for j := 0; j+1 < len(ring); j++ {
					if p, ok := segmentIntersection(a, b, ring[j], ring[j+1]); ok && !seen(p) {
						hits = append(hits, p)
					}
				}
			}
			sort.Slice(hits, func(x, y int) bool { return Distance(a, hits[x]) < Distance(a, hits[y]) })
			for _, h := range hits {
				if !seen(h) {
					out = append(out, h)
				}
			}
		}
	}
	return out
}

// Buffer builds a strip of half-width w around the paths: one rectangle per
// segment plus a square cap on every interior vertex, merged into a
// single polygonal area.
func Buffer(paths [][]planar.Point, w float64) planar.Polygon {
	var parts planar.MultiPolygon
	for _, path := range paths {
		for i := 0; i+1 < len(path); i++ {
			a, b := path[i], path[i+1]
			l := Distance(a, b)
			if l == 0 {
				continue
			}
			nx, ny := -(b.Y-a.Y)/l*w, (b.X-a.X)/l*w
			parts = append(parts, planar.Polygon{{
				{X: a.X + nx, Y: a.Y + ny},
				{X: a.X - nx, Y: a.Y - ny},
				{X: b.X - nx, Y: b.Y - ny},
				{X: b.X + nx, Y: b.Y + ny},
				{X: a.X + nx, Y: a.Y + ny},
			}})
		}
		for i := 1; i+1 < len(path); i++ {
			p := path[i]
			parts = append(parts, planar.Polygon{{
				{X: p.X - w, Y: p.Y},
				{X: p.X, Y: p.Y - w},
				{X: p.X + w, Y: p.Y},
				{X: p.X, Y: p.Y + w},
				{X: p.X - w, Y: p.Y},
			}})
		}
	}
	if len(parts) == 0 {
		return nil
	}
	// one part at a time: overlapping contours inside a single operand
	// would cancel out under the even-odd rule
	acc := parts[0]
	for _, p := range parts[1:] {
		acc = acc.Union(p)
	}
	return acc
}
