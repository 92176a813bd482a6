package interaction

import (
	"geoedit/internal/store"
	"geoedit/internal/surface"
)

// Select picks the feature under a click. Clicking empty space clears the
// selection.
type Select struct {
	toggle
	source     surface.Source
	selection  *store.Selection
	hitCells   float64
	deactivate listeners[func()]
}

func NewSelect(src surface.Source, sel *store.Selection, hitCells float64) *Select {
	return &Select{source: src, selection: sel, hitCells: hitCells}
}

// OnDeactivate subscribes fn to every enabled to disabled transition.
func (s *Select) OnDeactivate(fn func()) func() {
	return s.deactivate.add(fn)
}

func (s *Select) Disable() {
	was := s.enabled
	s.toggle.Disable()
	if !was {
		return
	}
	for _, fn := range s.deactivate.snapshot() {
		fn()
	}
}

func (s *Select) HandleEvent(e *surface.Event) (bool, error) {
	if e.Type != surface.Click {
		return true, nil
	}
	if f := HitTest(s.source.All(), e.Coord, tolerance(e, s.hitCells)); f != nil {
		s.selection.Select(f)
	} else {
		s.selection.Clear()
	}
	return true, nil
}
