package tui

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	planar "github.com/ctessum/geom"

	"geoedit/internal/editor"
	"geoedit/internal/geom"
	"geoedit/internal/surface"
)

func mouse(x, y int, a tea.MouseAction, b tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: a, Button: b}
}

func TestPointerTracker(t *testing.T) {
	var p pointerTracker
	t0 := time.Unix(0, 0)
	c := cell{3, 4}
	press := mouse(0, 0, tea.MouseActionPress, tea.MouseButtonLeft)
	release := mouse(0, 0, tea.MouseActionRelease, tea.MouseButtonLeft)
	motion := mouse(0, 0, tea.MouseActionMotion, tea.MouseButtonNone)

	steps := []struct {
		name string
		msg  tea.MouseMsg
		c    cell
		at   time.Time
		want []surface.EventType
	}{
		{"hover", motion, c, t0, []surface.EventType{surface.PointerMove}},
		{"press", press, c, t0, []surface.EventType{surface.PointerDown}},
		{"click", release, c, t0, []surface.EventType{surface.PointerUp, surface.Click}},
		{"second press", press, c, t0.Add(100 * time.Millisecond), []surface.EventType{surface.PointerDown}},
		{"double click", release, c, t0.Add(150 * time.Millisecond), []surface.EventType{surface.PointerUp, surface.Click, surface.DoubleClick}},
		{"third press", press, c, t0.Add(200 * time.Millisecond), []surface.EventType{surface.PointerDown}},
		{"no triple", release, c, t0.Add(250 * time.Millisecond), []surface.EventType{surface.PointerUp, surface.Click}},
		{"late press", press, c, t0.Add(time.Second), []surface.EventType{surface.PointerDown}},
		{"too late", release, c, t0.Add(time.Second), []surface.EventType{surface.PointerUp, surface.Click}},
		{"drag press", press, cell{0, 0}, t0.Add(2 * time.Second), []surface.EventType{surface.PointerDown}},
		{"drag", mouse(0, 0, tea.MouseActionMotion, tea.MouseButtonLeft), cell{5, 5}, t0.Add(2 * time.Second), []surface.EventType{surface.PointerDrag}},
		{"drop back", release, cell{0, 0}, t0.Add(2 * time.Second), []surface.EventType{surface.PointerUp}},
		{"right button", mouse(0, 0, tea.MouseActionPress, tea.MouseButtonRight), c, t0, nil},
		{"stray release", release, c, t0, nil},
	}
	for _, s := range steps {
		if got := p.translate(s.msg, s.c, s.at); !reflect.DeepEqual(got, s.want) {
			t.Errorf("%s: translate() = %v, want %v", s.name, got, s.want)
		}
	}
}

func TestCellToMapMatchesRendering(t *testing.T) {
	m := New(Options{})
	m.bbox = geom.BBox{MinX: -50, MinY: 10, MaxX: 150, MaxY: 90}
	for _, zoom := range []float64{1, 2.5} {
		m.zoom = zoom
		m.offsetX, m.offsetY = 3, -2
		for _, c := range []cell{{0, 0}, {17, 9}, {59, 19}} {
			x, y, ok := m.cellToMap(c.x, c.y, 60, 20)
			if !ok {
				t.Fatal("cellToMap() not ok")
			}
			mx, my, _ := m.screenXYMicro(x, y, 60, 20)
			if mx/2 != c.x || my/4 != c.y {
				t.Errorf("zoom %v: cell %v maps back to (%d, %d)", zoom, c, mx/2, my/4)
			}
		}
	}
}

func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func sized(t *testing.T, opts Options) Model {
	t.Helper()
	next, _ := New(opts).Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model)
}

func clickAt(m *Model, x, y int, at time.Time) {
	m.handleMouse(mouse(x, y, tea.MouseActionPress, tea.MouseButtonLeft), at)
	m.handleMouse(mouse(x, y, tea.MouseActionRelease, tea.MouseButtonLeft), at)
}

func TestDrawPolygonWithMouse(t *testing.T) {
	m := sized(t, Options{})
	m = press(t, m, "3")
	if got := m.Editor().Mode().String(); got != "drawing Polygon" {
		t.Fatalf("mode = %q, want %q", got, "drawing Polygon")
	}
	t0 := time.Unix(100, 0)
	clickAt(&m, 10, 5, t0)
	clickAt(&m, 40, 5, t0.Add(time.Second))
	clickAt(&m, 40, 15, t0.Add(2*time.Second))
	if !hasBraille(m.renderMap(80, 21)) {
		t.Error("sketch not rendered")
	}
	clickAt(&m, 40, 15, t0.Add(2*time.Second+200*time.Millisecond))

	fs := m.Store().All()
	if len(fs) != 1 {
		t.Fatalf("store has %d features, want 1", len(fs))
	}
	if k := fs[0].Kind(); k != geom.KindPolygon {
		t.Errorf("Kind() = %v, want %v", k, geom.KindPolygon)
	}
	if n := len(geom.Vertices(fs[0].Geometry)); n != 3 {
		t.Errorf("vertices = %d, want 3", n)
	}
}

func TestEscapeAbortsThenStops(t *testing.T) {
	m := sized(t, Options{})
	m = press(t, m, "2")
	clickAt(&m, 10, 5, time.Unix(0, 0))
	if m.Editor().Sketch() == nil {
		t.Fatal("no sketch after click")
	}
	m = press(t, m, "esc")
	if m.Editor().Sketch() != nil {
		t.Error("esc kept the sketch")
	}
	if _, ok := m.Editor().Mode().(editor.Drawing); !ok {
		t.Errorf("first esc left drawing mode: %v", m.Editor().Mode())
	}
	m = press(t, m, "esc")
	if _, ok := m.Editor().Mode().(editor.Idle); !ok {
		t.Errorf("second esc mode = %v, want idle", m.Editor().Mode())
	}
}

func TestKeysToggleSubModes(t *testing.T) {
	m := sized(t, Options{})
	m = press(t, m, "m")
	if !strings.Contains(m.status, "not in edit mode") {
		t.Errorf("status = %q, want not-editing error", m.status)
	}
	steps := []struct{ key, want string }{
		{"e", "editing"},
		{"m", "editing/modify"},
		{"t", "editing/translate"},
		{"t", "editing"},
	}
	for _, s := range steps {
		m = press(t, m, s.key)
		if got := m.Editor().Mode().String(); got != s.want {
			t.Errorf("after %q mode = %q, want %q", s.key, got, s.want)
		}
	}
	m = press(t, m, "H")
	if !strings.Contains(m.status, "select") {
		t.Errorf("status = %q, want a hint to select first", m.status)
	}
}

func TestExtendWithMouse(t *testing.T) {
	m := sized(t, Options{})
	m.pasteWKT("POLYGON((0 0, 400 0, 400 400, 0 400, 0 0))")
	if m.Store().Main().Len() != 1 {
		t.Fatalf("paste added %d features", m.Store().Main().Len())
	}
	m.bbox = geom.BBox{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 1000}
	id := m.Store().All()[0].ID

	m = press(t, m, "e")
	lay := m.layout()
	x, y, _ := m.cellToMap(10, 15, lay.mapW, lay.mapH)
	if !geom.Inside(planar.Point{X: x, Y: y}, m.Store().All()[0].Geometry.(planar.Polygon)) {
		t.Fatalf("cell (10, 15) maps to (%v, %v), outside the square", x, y)
	}
	t0 := time.Unix(0, 0)
	clickAt(&m, 10, 15+lay.mapY, t0)
	if cur, ok := m.sel.Current(); !ok || cur.ID != id {
		t.Fatalf("selection = %v, %v, want %s", cur, ok, id)
	}
	m = press(t, m, "E")
	if got := m.Editor().Mode().String(); got != "editing/extend" {
		t.Fatalf("mode = %q, want editing/extend", got)
	}
	clickAt(&m, 20, 2, t0.Add(time.Second))
	clickAt(&m, 70, 2, t0.Add(2*time.Second))
	clickAt(&m, 70, 18, t0.Add(3*time.Second))
	m = press(t, m, "enter")
	m = press(t, m, "E")
	if got := m.Editor().Mode().String(); got != "editing" {
		t.Fatalf("mode = %q, want editing", got)
	}
	f, ok := m.Store().Get(id)
	if !ok {
		t.Fatal("feature lost after extend")
	}
	p, _ := geom.Polygonal(f.Geometry)
	if a := p.Area(); a <= 160000 {
		t.Errorf("area = %v, want more than the original 160000", a)
	}
}

func TestSaveWritesGeoJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.geojson")
	m := sized(t, Options{Output: out})
	m.pasteWKT("POINT(1 2)\nLINESTRING(0 0, 5 5)")
	m = press(t, m, "w")
	fs, err := geom.LoadGeo(out)
	if err != nil {
		t.Fatalf("LoadGeo() error = %v", err)
	}
	if len(fs) != 2 {
		t.Errorf("saved %d features, want 2", len(fs))
	}
	if !strings.HasPrefix(m.status, "saved 2") {
		t.Errorf("status = %q", m.status)
	}
}

func hasBraille(s string) bool {
	for _, r := range s {
		if r > 0x2800 && r <= 0x28FF {
			return true
		}
	}
	return false
}

func TestViewRendersFeatures(t *testing.T) {
	m := sized(t, Options{})
	if hasBraille(m.View()) {
		t.Error("empty map rendered braille cells")
	}
	m.pasteWKT("POLYGON((0 0, 10 0, 10 10, 0 10, 0 0))")
	if !hasBraille(m.View()) {
		t.Error("View() has no braille cells")
	}
}

func TestBuildAttributes(t *testing.T) {
	fs := []*geom.Feature{
		{ID: "a", Geometry: planar.Point{X: 1, Y: 1}, Properties: map[string]any{"name": "well", "depth": 12.5}},
		{ID: "b", Geometry: planar.LineString{{X: 0, Y: 0}, {X: 1, Y: 1}}, Properties: map[string]any{"open": true}},
	}
	cols, rows := buildAttributes(fs)
	wantCols := []string{"id", "kind", "depth", "name", "open"}
	if !reflect.DeepEqual(cols, wantCols) {
		t.Errorf("columns = %v, want %v", cols, wantCols)
	}
	wantRows := [][]string{
		{"a", "Point", "12.5", "well", ""},
		{"b", "LineString", "", "", "true"},
	}
	if !reflect.DeepEqual(rows, wantRows) {
		t.Errorf("rows = %v, want %v", rows, wantRows)
	}
}
