package interaction

import (
	planar "github.com/ctessum/geom"

	"geoedit/internal/geom"
	"geoedit/internal/store"
	"geoedit/internal/surface"
)

// Translate drags the selected feature as a whole.
type Translate struct {
	toggle
	selection *store.Selection
	hitCells  float64
	target    *geom.Feature
	last      planar.Point
}

func NewTranslate(sel *store.Selection, hitCells float64) *Translate {
	return &Translate{selection: sel, hitCells: hitCells}
}

func (t *Translate) Disable() {
	t.toggle.Disable()
	t.target = nil
}

func (t *Translate) HandleEvent(e *surface.Event) (bool, error) {
	switch e.Type {
	case surface.PointerDown:
		f, ok := t.selection.Current()
		if !ok || f.Geometry == nil || !Hit(f.Geometry, e.Coord, tolerance(e, t.hitCells)) {
			return true, nil
		}
		t.target, t.last = f, e.Coord
		return false, nil
	case surface.PointerDrag:
		if t.target == nil {
			return true, nil
		}
		dx, dy := e.Coord.X-t.last.X, e.Coord.Y-t.last.Y
		t.target.Geometry = geom.Translate(t.target.Geometry, dx, dy)
		t.last = e.Coord
		return false, nil
	case surface.PointerUp:
		if t.target == nil {
			return true, nil
		}
		t.target = nil
		return false, nil
	}
	return true, nil
}
