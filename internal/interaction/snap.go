package interaction

import (
	"math"

	planar "github.com/ctessum/geom"

	"geoedit/internal/geom"
	"geoedit/internal/surface"
)

// Snap pulls the pointer onto the nearest vertex, or failing that the
// nearest edge, of the features in its sources. It never stops an event.
// It must be the last interaction added so it sees events first.
type Snap struct {
	toggle
	sources   []surface.Source
	snapCells float64
	ignore    func(*geom.Feature) bool
}

func NewSnap(snapCells float64, sources ...surface.Source) *Snap {
	return &Snap{sources: sources, snapCells: snapCells}
}

// Ignore excludes features for which fn reports true (typically the one
// being dragged) from the snapping targets. nil snaps to everything.
func (s *Snap) Ignore(fn func(*geom.Feature) bool) { s.ignore = fn }

func (s *Snap) HandleEvent(e *surface.Event) (bool, error) {
	tol := tolerance(e, s.snapCells)
	if tol <= 0 {
		return true, nil
	}
	if p, ok := s.snap(e.Coord, tol); ok {
		e.Coord = p
	}
	return true, nil
}

func (s *Snap) snap(p planar.Point, tol float64) (planar.Point, bool) {
	vertex, vd := planar.Point{}, math.Inf(1)
	edge, ed := planar.Point{}, math.Inf(1)
	for _, src := range s.sources {
		for _, f := range src.All() {
			if f == nil || f.Geometry == nil || (s.ignore != nil && s.ignore(f)) {
				continue
			}
			for _, v := range geom.Vertices(f.Geometry) {
				if d := geom.Distance(v, p); d < vd {
					vertex, vd = v, d
				}
			}
			if _, q, d, ok := geom.NearestEdge(f.Geometry, p); ok && d < ed {
				edge, ed = q, d
			}
		}
	}
	switch {
	case vd <= tol:
		return vertex, true
	case ed <= tol:
		return edge, true
	}
	return p, false
}
