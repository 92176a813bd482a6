package interaction

import (
	"math"

	planar "github.com/ctessum/geom"

	"geoedit/internal/geom"
	"geoedit/internal/store"
	"geoedit/internal/surface"
)

type dragKind int

const (
	dragNone dragKind = iota
	dragVertex
	dragRadius
)

// Modify drags vertices of the selected feature. Pressing on an edge away
// from any vertex inserts a vertex there first. On a Circle the center
// moves the circle and the rim sets the radius.
type Modify struct {
	toggle
	selection *store.Selection
	hitCells  float64
	drag      dragKind
	vertex    int
	target    *geom.Feature
}

func NewModify(sel *store.Selection, hitCells float64) *Modify {
	return &Modify{selection: sel, hitCells: hitCells}
}

func (m *Modify) Disable() {
	m.toggle.Disable()
	m.drag, m.target = dragNone, nil
}

func (m *Modify) HandleEvent(e *surface.Event) (bool, error) {
	switch e.Type {
	case surface.PointerDown:
		return !m.start(e), nil
	case surface.PointerDrag:
		if m.drag == dragNone {
			return true, nil
		}
		m.move(e.Coord)
		return false, nil
	case surface.PointerUp:
		if m.drag == dragNone {
			return true, nil
		}
		m.drag, m.target = dragNone, nil
		return false, nil
	}
	return true, nil
}

// start begins a drag if the press is on the selected feature's vertex,
// edge or circle rim.
func (m *Modify) start(e *surface.Event) bool {
	f, ok := m.selection.Current()
	if !ok || f.Geometry == nil {
		return false
	}
	tol := tolerance(e, m.hitCells)
	if c, ok := f.Geometry.(geom.Circle); ok {
		switch {
		case geom.Distance(c.Center, e.Coord) <= tol:
			m.drag, m.vertex = dragVertex, 0
		case math.Abs(geom.Distance(c.Center, e.Coord)-c.Radius) <= tol:
			m.drag = dragRadius
		default:
			return false
		}
		m.target = f
		return true
	}
	if i, ok := nearestVertex(f.Geometry, e.Coord, tol); ok {
		m.drag, m.vertex, m.target = dragVertex, i, f
		return true
	}
	if i, q, d, ok := geom.NearestEdge(f.Geometry, e.Coord); ok && d <= tol {
		f.Geometry = geom.InsertVertex(f.Geometry, i, q)
		m.drag, m.vertex, m.target = dragVertex, i+1, f
		return true
	}
	return false
}

func (m *Modify) move(p planar.Point) {
	f := m.target
	switch m.drag {
	case dragVertex:
		f.Geometry = geom.MoveVertex(f.Geometry, m.vertex, p)
	case dragRadius:
		c := f.Geometry.(geom.Circle)
		c.Radius = geom.Distance(c.Center, p)
		f.Geometry = c
	}
}
