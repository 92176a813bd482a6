// Package surface is the map the editor draws on: an ordered stack of
// feature layers and a chain of input interactions.
package surface

import (
	planar "github.com/ctessum/geom"

	"geoedit/internal/geom"
)

type EventType int

const (
	PointerMove EventType = iota
	PointerDown
	PointerDrag
	PointerUp
	Click
	DoubleClick
)

func (t EventType) String() string {
	switch t {
	case PointerMove:
		return "pointermove"
	case PointerDown:
		return "pointerdown"
	case PointerDrag:
		return "pointerdrag"
	case PointerUp:
		return "pointerup"
	case Click:
		return "click"
	case DoubleClick:
		return "dblclick"
	}
	return "unknown"
}

// Event is a pointer event in map coordinates. Resolution is the size of
// one screen cell in map units, so tolerances given in cells can be
// converted.
type Event struct {
	Type       EventType
	Coord      planar.Point
	Resolution float64
}

// Interaction consumes pointer events while enabled. HandleEvent returns
// false to stop the event reaching interactions added earlier.
type Interaction interface {
	Enable()
	Disable()
	Enabled() bool
	HandleEvent(e *Event) (bool, error)
}

// Source provides the features of a layer.
type Source interface {
	All() []*geom.Feature
}

type Layer struct {
	name    string
	source  Source
	visible bool
}

func NewLayer(name string, src Source) *Layer {
	return &Layer{name: name, source: src, visible: true}
}

func (l *Layer) Name() string      { return l.name }
func (l *Layer) Source() Source    { return l.source }
func (l *Layer) Visible() bool     { return l.visible }
func (l *Layer) SetVisible(v bool) { l.visible = v }

// Surface is what the editor needs from a map.
type Surface interface {
	AddLayer(l *Layer)
	AddInteraction(i Interaction)
	RemoveInteraction(i Interaction)
}

// Map is an in-memory Surface that also routes events.
type Map struct {
	layers       []*Layer
	interactions []Interaction
}

func NewMap() *Map { return &Map{} }

func (m *Map) AddLayer(l *Layer) {
	if l != nil {
		m.layers = append(m.layers, l)
	}
}

// Layers returns layers bottom to top.
func (m *Map) Layers() []*Layer {
	out := make([]*Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

// AddInteraction appends i to the chain. An interaction already present
// is moved to the end.
func (m *Map) AddInteraction(i Interaction) {
	if i == nil {
		return
	}
	m.RemoveInteraction(i)
	m.interactions = append(m.interactions, i)
}

// RemoveInteraction is a no-op if i is not in the chain.
func (m *Map) RemoveInteraction(i Interaction) {
	for k, x := range m.interactions {
		if x == i {
			m.interactions = append(m.interactions[:k], m.interactions[k+1:]...)
			return
		}
	}
}

// Interactions returns the chain in registration order.
func (m *Map) Interactions() []Interaction {
	out := make([]Interaction, len(m.interactions))
	copy(out, m.interactions)
	return out
}

// Dispatch hands e to enabled interactions, last added first. A handler
// may change the chain; the event still walks the chain as it was when
// dispatch started.
func (m *Map) Dispatch(e Event) error {
	chain := m.Interactions()
	for k := len(chain) - 1; k >= 0; k-- {
		i := chain[k]
		if !i.Enabled() {
			continue
		}
		cont, err := i.HandleEvent(&e)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}
