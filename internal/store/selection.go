package store

import "geoedit/internal/geom"

// Selection tracks the selected feature. At most one feature is selected:
// Select replaces the previous selection.
type Selection struct {
	current   *geom.Feature
	listeners []func(*geom.Feature)
}

func NewSelection() *Selection { return &Selection{} }

// Select makes f the selection. A nil f clears it.
func (s *Selection) Select(f *geom.Feature) {
	s.current = f
	s.notify()
}

// Clear empties the selection.
func (s *Selection) Clear() {
	if s.current == nil {
		return
	}
	s.current = nil
	s.notify()
}

// Current returns the selected feature.
func (s *Selection) Current() (*geom.Feature, bool) {
	return s.current, s.current != nil
}

func (s *Selection) Len() int {
	if s.current == nil {
		return 0
	}
	return 1
}

// OnChange registers fn to run after every change. The returned func
// unregisters it.
func (s *Selection) OnChange(fn func(*geom.Feature)) func() {
	s.listeners = append(s.listeners, fn)
	idx := len(s.listeners) - 1
	return func() {
		if idx < len(s.listeners) {
			s.listeners[idx] = nil
		}
	}
}

func (s *Selection) notify() {
	for _, fn := range s.listeners {
		if fn != nil {
			fn(s.current)
		}
	}
}
