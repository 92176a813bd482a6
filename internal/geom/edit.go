package geom

import (
	"math"

	planar "github.com/ctessum/geom"
)

func clonePoints(pts []planar.Point) []planar.Point {
	if pts == nil {
		return nil
	}
	out := make([]planar.Point, len(pts))
	copy(out, pts)
	return out
}

func cloneRings(rings [][]planar.Point) [][]planar.Point {
	if rings == nil {
		return nil
	}
	out := make([][]planar.Point, len(rings))
	for i, r := range rings {
		out[i] = clonePoints(r)
	}
	return out
}

// CloneGeom returns a copy of g sharing no coordinate slices with it.
func CloneGeom(g planar.Geom) planar.Geom {
	switch t := g.(type) {
	case planar.Point, Circle:
		return t
	case planar.MultiPoint:
		return planar.MultiPoint(clonePoints(t))
	case planar.LineString:
		return planar.LineString(clonePoints(t))
	case planar.MultiLineString:
		out := make(planar.MultiLineString, len(t))
		for i, l := range t {
			out[i] = planar.LineString(clonePoints(l))
		}
		return out
	case planar.Polygon:
		return planar.Polygon(cloneRings(t))
	case planar.MultiPolygon:
		out := make(planar.MultiPolygon, len(t))
		for i, p := range t {
			out[i] = planar.Polygon(cloneRings(p))
		}
		return out
	}
	return g
}

// vertexRef addresses one editable coordinate: ring/part indices and the
// position inside it.
type vertexRef struct {
	part, ring, idx int
}

func vertexRefs(g planar.Geom) ([]planar.Point, []vertexRef) {
	var pts []planar.Point
	var refs []vertexRef
	addRing := func(part, ring int, r []planar.Point, closed bool) {
		n := len(r)
		if closed && n > 1 && r[0].Equals(r[n-1]) {
			n-- // closing vertex follows the first one
		}
		for i := 0; i < n; i++ {
			pts = append(pts, r[i])
			refs = append(refs, vertexRef{part, ring, i})
		}
	}
	switch t := g.(type) {
	case planar.Point:
		addRing(0, 0, []planar.Point{t}, false)
	case Circle:
		addRing(0, 0, []planar.Point{t.Center}, false)
	case planar.MultiPoint:
		addRing(0, 0, t, false)
	case planar.LineString:
		addRing(0, 0, t, false)
	case planar.MultiLineString:
		for i, l := range t {
			addRing(i, 0, l, false)
		}
	case planar.Polygon:
		for j, r := range t {
			addRing(0, j, r, true)
		}
	case planar.MultiPolygon:
		for i, p := range t {
			for j, r := range p {
				addRing(i, j, r, true)
			}
		}
	}
	return pts, refs
}

// Vertices lists the editable vertices of g. Closing vertices of rings are
// not repeated; a Circle exposes its center.
func Vertices(g planar.Geom) []planar.Point {
	pts, _ := vertexRefs(g)
	return pts
}

// MoveVertex returns a copy of g with vertex i (as numbered by Vertices)
// moved to p. Moving the first vertex of a ring also moves its closing
// vertex. Out of range indices return g unchanged.
func MoveVertex(g planar.Geom, i int, p planar.Point) planar.Geom {
	_, refs := vertexRefs(g)
	if i < 0 || i >= len(refs) {
		return g
	}
	ref := refs[i]
	setRing := func(r []planar.Point, closed bool) {
		n := len(r)
		wasClosed := closed && n > 1 && r[0].Equals(r[n-1])
		r[ref.idx] = p
		if wasClosed && ref.idx == 0 {
			r[n-1] = p
		}
	}
	out := CloneGeom(g)
	switch t := out.(type) {
	case planar.Point:
		return p
	case Circle:
		t.Center = p
		return t
	case planar.MultiPoint:
		t[ref.idx] = p
	case planar.LineString:
		t[ref.idx] = p
	case planar.MultiLineString:
		t[ref.part][ref.idx] = p
	case planar.Polygon:
		setRing(t[ref.ring], true)
	case planar.MultiPolygon:
		setRing(t[ref.part][ref.ring], true)
	}
	return out
}

// Translate returns a copy of g shifted by dx, dy.
func Translate(g planar.Geom, dx, dy float64) planar.Geom {
	shift := func(r []planar.Point) {
		for i := range r {
			r[i].X += dx
			r[i].Y += dy
		}
	}
	out := CloneGeom(g)
	switch t := out.(type) {
	case planar.Point:
		return planar.Point{X: t.X + dx, Y: t.Y + dy}
	case Circle:
		t.Center = planar.Point{X: t.Center.X + dx, Y: t.Center.Y + dy}
		return t
	case planar.MultiPoint:
		shift(t)
	case planar.LineString:
		shift(t)
	case planar.MultiLineString:
		for _, l := range t {
			shift(l)
		}
	case planar.Polygon:
		for _, r := range t {
			shift(r)
		}
	case planar.MultiPolygon:
		for _, p := range t {
			for _, r := range p {
				shift(r)
			}
		}
	}
	return out
}

// Paths flattens g into open paths and closed rings for rendering and
// hit testing. Circles are approximated with 48 segments.
func Paths(g planar.Geom) (points []planar.Point, lines [][]planar.Point, polys []planar.Polygon) {
	switch t := g.(type) {
	case planar.Point:
		points = append(points, t)
	case planar.MultiPoint:
		points = append(points, t...)
	case planar.LineString:
		lines = append(lines, t)
	case planar.MultiLineString:
		for _, l := range t {
			lines = append(lines, l)
		}
	case planar.Polygon:
		polys = append(polys, t)
	case planar.MultiPolygon:
		polys = append(polys, t...)
	case Circle:
		polys = append(polys, t.Polygon(48))
	}
	return points, lines, polys
}

// BBoxOf returns the extent of all feature geometries. ok is false when
// nothing has coordinates.
func BBoxOf(features []*Feature) (bb BBox, ok bool) {
	b := planar.NewBounds()
	for _, f := range features {
		if f == nil || f.Geometry == nil {
			continue
		}
		b.Extend(f.Geometry.Bounds())
	}
	if b.Empty() || math.IsInf(b.Min.X, 0) {
		return BBox{}, false
	}
	return BBox{MinX: b.Min.X, MinY: b.Min.Y, MaxX: b.Max.X, MaxY: b.Max.Y}, true
}

// NearestEdge finds the edge of g closest to p. i is the Vertices index of
// the edge's first vertex and q the closest point on it. ok is false when g
// has no edges.
func NearestEdge(g planar.Geom, p planar.Point) (i int, q planar.Point, d float64, ok bool) {
	pts, refs := vertexRefs(g)
	closed := false
	switch g.(type) {
	case planar.Polygon, planar.MultiPolygon:
		closed = true
	}
	d = math.Inf(1)
	for k := range refs {
		next := -1
		if k+1 < len(refs) && sameRing(refs[k], refs[k+1]) {
			next = k + 1
		} else if closed {
			// wrap to the first vertex of this ring
			for j := k; j >= 0 && sameRing(refs[j], refs[k]); j-- {
				next = j
			}
			if next == k {
				next = -1
			}
		}
		if next < 0 {
			continue
		}
		c := ClosestOnSegment(p, pts[k], pts[next])
		if dd := Distance(p, c); dd < d {
			i, q, d, ok = k, c, dd, true
		}
	}
	return i, q, d, ok
}

func sameRing(a, b vertexRef) bool { return a.part == b.part && a.ring == b.ring }

// InsertVertex returns a copy of g with p inserted after vertex i (as
// numbered by Vertices). Only line and polygon geometries take new
// vertices; others come back unchanged.
func InsertVertex(g planar.Geom, i int, p planar.Point) planar.Geom {
	_, refs := vertexRefs(g)
	if i < 0 || i >= len(refs) {
		return g
	}
	ref := refs[i]
	insert := func(r []planar.Point) []planar.Point {
		out := make([]planar.Point, 0, len(r)+1)
		out = append(out, r[:ref.idx+1]...)
		out = append(out, p)
		return append(out, r[ref.idx+1:]...)
	}
	out := CloneGeom(g)
	switch t := out.(type) {
	case planar.LineString:
		return planar.LineString(insert(t))
	case planar.MultiLineString:
		t[ref.part] = insert(t[ref.part])
	case planar.Polygon:
		t[ref.ring] = insert(t[ref.ring])
	case planar.MultiPolygon:
		t[ref.part][ref.ring] = insert(t[ref.part][ref.ring])
	}
	return out
}
