package surface

import (
	"errors"
	"testing"

	planar "github.com/ctessum/geom"
)

type recorder struct {
	name    string
	enabled bool
	stop    bool
	err     error
	log     *[]string
}

func (r *recorder) Enable()       { r.enabled = true }
func (r *recorder) Disable()      { r.enabled = false }
func (r *recorder) Enabled() bool { return r.enabled }

func (r *recorder) HandleEvent(e *Event) (bool, error) {
	*r.log = append(*r.log, r.name)
	return !r.stop, r.err
}

func TestDispatchLastAddedFirst(t *testing.T) {
	var log []string
	a := &recorder{name: "a", enabled: true, log: &log}
	b := &recorder{name: "b", enabled: false, log: &log}
	c := &recorder{name: "c", enabled: true, log: &log}
	m := NewMap()
	m.AddInteraction(a)
	m.AddInteraction(b)
	m.AddInteraction(c)
	if err := m.Dispatch(Event{Type: Click, Coord: planar.Point{X: 1, Y: 1}}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(log) != 2 || log[0] != "c" || log[1] != "a" {
		t.Errorf("Dispatch() order = %v, want [c a]", log)
	}
}

func TestDispatchStopsPropagation(t *testing.T) {
	var log []string
	a := &recorder{name: "a", enabled: true, log: &log}
	b := &recorder{name: "b", enabled: true, stop: true, log: &log}
	m := NewMap()
	m.AddInteraction(a)
	m.AddInteraction(b)
	_ = m.Dispatch(Event{Type: Click})
	if len(log) != 1 || log[0] != "b" {
		t.Errorf("Dispatch() order = %v, want [b]", log)
	}
}

func TestDispatchReturnsHandlerError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	m := NewMap()
	m.AddInteraction(&recorder{name: "a", enabled: true, log: &log})
	m.AddInteraction(&recorder{name: "b", enabled: true, err: boom, log: &log})
	if err := m.Dispatch(Event{Type: Click}); !errors.Is(err, boom) {
		t.Errorf("Dispatch() error = %v, want %v", err, boom)
	}
	if len(log) != 1 {
		t.Errorf("Dispatch() reached %v after an error", log)
	}
}

func TestReAddMovesToEnd(t *testing.T) {
	var log []string
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", log: &log}
	m := NewMap()
	m.AddInteraction(a)
	m.AddInteraction(b)
	m.AddInteraction(a)
	got := m.Interactions()
	if len(got) != 2 || got[1] != Interaction(a) {
		t.Errorf("Interactions() = %v, want [b a]", got)
	}
	m.RemoveInteraction(b)
	m.RemoveInteraction(b)
	m.RemoveInteraction(nil)
	if n := len(m.Interactions()); n != 1 {
		t.Errorf("Interactions() len = %d, want 1", n)
	}
}

func TestLayerVisibility(t *testing.T) {
	l := NewLayer("main", nil)
	if !l.Visible() {
		t.Errorf("NewLayer().Visible() = false, want true")
	}
	l.SetVisible(false)
	if l.Visible() {
		t.Errorf("Visible() after SetVisible(false) = true")
	}
	m := NewMap()
	m.AddLayer(l)
	if ls := m.Layers(); len(ls) != 1 || ls[0].Name() != "main" {
		t.Errorf("Layers() = %v", ls)
	}
}
