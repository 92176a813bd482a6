package interaction

import (
	"errors"
	"testing"

	planar "github.com/ctessum/geom"

	"geoedit/internal/geom"
	"geoedit/internal/store"
	"geoedit/internal/surface"
)

func pt(x, y float64) planar.Point { return planar.Point{X: x, Y: y} }

func click(x, y float64) *surface.Event {
	return &surface.Event{Type: surface.Click, Coord: pt(x, y), Resolution: 1}
}

func ev(t surface.EventType, x, y float64) *surface.Event {
	return &surface.Event{Type: t, Coord: pt(x, y), Resolution: 1}
}

func TestParseShapeKind(t *testing.T) {
	for _, k := range ShapeKinds {
		got, err := ParseShapeKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseShapeKind(%s) = %v, %v", k, got, err)
		}
	}
	if got, _ := ParseShapeKind("box"); got != Box {
		t.Errorf("ParseShapeKind(box) = %v, want Box", got)
	}
	if _, err := ParseShapeKind("Hexagon"); !errors.Is(err, ErrUnknownShape) {
		t.Errorf("ParseShapeKind(Hexagon) error = %v, want %v", err, ErrUnknownShape)
	}
}

func TestDrawFinishesByKind(t *testing.T) {
	tests := []struct {
		kind   ShapeKind
		clicks [][2]float64
		dbl    bool
		want   geom.Kind
	}{
		{Point, [][2]float64{{1, 1}}, false, geom.KindPoint},
		{MultiPoint, [][2]float64{{1, 1}}, false, geom.KindMultiPoint},
		{Circle, [][2]float64{{0, 0}, {3, 4}}, false, geom.KindCircle},
		{Square, [][2]float64{{0, 0}, {2, 0}}, false, geom.KindPolygon},
		{Box, [][2]float64{{0, 0}, {2, 3}}, false, geom.KindPolygon},
		{LineString, [][2]float64{{0, 0}, {1, 1}, {1, 1}}, true, geom.KindLineString},
		{Polygon, [][2]float64{{0, 0}, {4, 0}, {4, 4}}, true, geom.KindPolygon},
		{MultiLineString, [][2]float64{{0, 0}, {1, 1}}, true, geom.KindMultiLineString},
		{MultiPolygon, [][2]float64{{0, 0}, {4, 0}, {4, 4}}, true, geom.KindMultiPolygon},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			target := store.NewCollection()
			d, err := NewDraw(tt.kind, target)
			if err != nil {
				t.Fatalf("NewDraw() error = %v", err)
			}
			d.Enable()
			var ended []*geom.Feature
			d.OnDrawEnd(func(f *geom.Feature) error {
				ended = append(ended, f)
				return nil
			})
			for _, c := range tt.clicks {
				if _, err := d.HandleEvent(click(c[0], c[1])); err != nil {
					t.Fatalf("HandleEvent(click) error = %v", err)
				}
			}
			if tt.dbl {
				if len(ended) != 0 {
					t.Fatalf("finished before double click")
				}
				last := tt.clicks[len(tt.clicks)-1]
				if _, err := d.HandleEvent(ev(surface.DoubleClick, last[0], last[1])); err != nil {
					t.Fatalf("HandleEvent(dblclick) error = %v", err)
				}
			}
			if len(ended) != 1 {
				t.Fatalf("OnDrawEnd calls = %d, want 1", len(ended))
			}
			if got := ended[0].Kind(); got != tt.want {
				t.Errorf("drawn kind = %s, want %s", got, tt.want)
			}
			if ended[0].ID == "" || target.Len() != 1 {
				t.Errorf("drawn id = %q, target len = %d", ended[0].ID, target.Len())
			}
			if d.Drawing() {
				t.Errorf("Drawing() after finish = true")
			}
		})
	}
}

func TestDrawSquareIsRegular(t *testing.T) {
	d, _ := NewDraw(Square, nil)
	var got *geom.Feature
	d.OnDrawEnd(func(f *geom.Feature) error { got = f; return nil })
	d.HandleEvent(click(0, 0))
	d.HandleEvent(click(2, 0))
	p := got.Geometry.(planar.Polygon)
	if len(p[0]) != 5 {
		t.Fatalf("square ring = %d points, want 5", len(p[0]))
	}
	// diagonal 4, so side 2*sqrt(2), area 8
	if a := p.Area(); a < 8-1e-9 || a > 8+1e-9 {
		t.Errorf("square area = %v, want 8", a)
	}
}

func TestDrawFinishTooFewPoints(t *testing.T) {
	d, _ := NewDraw(Polygon, nil)
	d.HandleEvent(click(0, 0))
	d.HandleEvent(click(1, 0))
	if err := d.Finish(); !errors.Is(err, ErrTooFewPoints) {
		t.Errorf("Finish() error = %v, want %v", err, ErrTooFewPoints)
	}
	if !d.Drawing() {
		t.Errorf("Finish() with too few points dropped the sketch")
	}
}

func TestDrawListenerErrorAndUnsubscribe(t *testing.T) {
	boom := errors.New("boom")
	d, _ := NewDraw(Point, nil)
	off := d.OnDrawEnd(func(*geom.Feature) error { return boom })
	if _, err := d.HandleEvent(click(1, 1)); !errors.Is(err, boom) {
		t.Errorf("HandleEvent() error = %v, want %v", err, boom)
	}
	off()
	if _, err := d.HandleEvent(click(2, 2)); err != nil {
		t.Errorf("HandleEvent() after unsubscribe error = %v", err)
	}
}

func TestDrawSketchFollowsPointer(t *testing.T) {
	d, _ := NewDraw(Polygon, nil)
	if d.Sketch() != nil {
		t.Errorf("Sketch() before drawing = %v, want nil", d.Sketch())
	}
	d.HandleEvent(click(0, 0))
	d.HandleEvent(ev(surface.PointerMove, 2, 0))
	if _, ok := d.Sketch().(planar.LineString); !ok {
		t.Errorf("Sketch() with 2 points = %T, want LineString", d.Sketch())
	}
	d.HandleEvent(click(2, 0))
	d.HandleEvent(ev(surface.PointerMove, 2, 2))
	if _, ok := d.Sketch().(planar.Polygon); !ok {
		t.Errorf("Sketch() with 3 points = %T, want Polygon", d.Sketch())
	}
	d.Disable()
	if d.Sketch() != nil {
		t.Errorf("Sketch() after Disable = %v, want nil", d.Sketch())
	}
}

func TestSelectHitAndDeactivate(t *testing.T) {
	src := store.NewCollection()
	sq := &geom.Feature{ID: "sq", Geometry: planar.Polygon{{pt(0, 0), pt(4, 0), pt(4, 4), pt(0, 4), pt(0, 0)}}}
	ln := &geom.Feature{ID: "ln", Geometry: planar.LineString{pt(10, 0), pt(20, 0)}}
	_ = src.Add(sq)
	_ = src.Add(ln)
	sel := store.NewSelection()
	s := NewSelect(src, sel, 1)
	var deactivations int
	s.OnDeactivate(func() {
		deactivations++
		sel.Clear()
	})
	s.Enable()

	s.HandleEvent(click(2, 2))
	if f, _ := sel.Current(); f != sq {
		t.Errorf("click inside square selected %v, want sq", f)
	}
	s.HandleEvent(click(15, 0.5))
	if f, _ := sel.Current(); f != ln {
		t.Errorf("click near line selected %v, want ln", f)
	}
	s.HandleEvent(click(50, 50))
	if _, ok := sel.Current(); ok {
		t.Errorf("click on nothing kept a selection")
	}

	s.HandleEvent(click(2, 2))
	s.Disable()
	s.Disable()
	if deactivations != 1 {
		t.Errorf("deactivations = %d, want 1", deactivations)
	}
	if _, ok := sel.Current(); ok {
		t.Errorf("selection survived Disable")
	}
}

func TestModifyDragsVertex(t *testing.T) {
	f := &geom.Feature{ID: "sq", Geometry: planar.Polygon{{pt(0, 0), pt(4, 0), pt(4, 4), pt(0, 4), pt(0, 0)}}}
	sel := store.NewSelection()
	sel.Select(f)
	m := NewModify(sel, 0.5)
	m.Enable()
	if cont, _ := m.HandleEvent(ev(surface.PointerDown, 4.2, 4.1)); cont {
		t.Fatalf("PointerDown on a vertex propagated")
	}
	m.HandleEvent(ev(surface.PointerDrag, 6, 6))
	m.HandleEvent(ev(surface.PointerUp, 6, 6))
	if v := geom.Vertices(f.Geometry)[2]; !v.Equals(pt(6, 6)) {
		t.Errorf("vertex 2 = %v, want (6, 6)", v)
	}
	// a press on the bottom edge inserts a vertex
	m.HandleEvent(ev(surface.PointerDown, 2, 0.2))
	m.HandleEvent(ev(surface.PointerDrag, 2, -2))
	m.HandleEvent(ev(surface.PointerUp, 2, -2))
	vs := geom.Vertices(f.Geometry)
	if len(vs) != 5 || !vs[1].Equals(pt(2, -2)) {
		t.Errorf("vertices = %v, want 5 with (2, -2) second", vs)
	}
	if cont, _ := m.HandleEvent(ev(surface.PointerDown, 30, 30)); !cont {
		t.Errorf("PointerDown away from the feature stopped propagation")
	}
}

func TestModifyCircleRadius(t *testing.T) {
	f := &geom.Feature{ID: "c", Geometry: geom.Circle{Center: pt(0, 0), Radius: 5}}
	sel := store.NewSelection()
	sel.Select(f)
	m := NewModify(sel, 0.5)
	m.Enable()
	m.HandleEvent(ev(surface.PointerDown, 5, 0))
	m.HandleEvent(ev(surface.PointerDrag, 8, 0))
	m.HandleEvent(ev(surface.PointerUp, 8, 0))
	if c := f.Geometry.(geom.Circle); c.Radius != 8 || !c.Center.Equals(pt(0, 0)) {
		t.Errorf("circle = %+v, want radius 8 at origin", c)
	}
}

func TestTranslateDragsFeature(t *testing.T) {
	f := &geom.Feature{ID: "p", Geometry: planar.Polygon{{pt(0, 0), pt(2, 0), pt(2, 2), pt(0, 2), pt(0, 0)}}}
	sel := store.NewSelection()
	sel.Select(f)
	tr := NewTranslate(sel, 0)
	tr.Enable()
	tr.HandleEvent(ev(surface.PointerDown, 1, 1))
	tr.HandleEvent(ev(surface.PointerDrag, 2, 1))
	tr.HandleEvent(ev(surface.PointerDrag, 4, 3))
	tr.HandleEvent(ev(surface.PointerUp, 4, 3))
	if b := f.Geometry.Bounds(); !b.Min.Equals(pt(3, 2)) || !b.Max.Equals(pt(5, 4)) {
		t.Errorf("bounds = %v, want (3,2)-(5,4)", b)
	}
	tr.HandleEvent(ev(surface.PointerDrag, 9, 9))
	if b := f.Geometry.Bounds(); !b.Min.Equals(pt(3, 2)) {
		t.Errorf("drag after release moved the feature to %v", b)
	}
}

func TestSnapPrefersVertex(t *testing.T) {
	src := store.NewCollection()
	sq := &geom.Feature{ID: "sq", Geometry: planar.Polygon{{pt(0, 0), pt(10, 0), pt(10, 10), pt(0, 10), pt(0, 0)}}}
	_ = src.Add(sq)
	s := NewSnap(1, src)
	s.Enable()
	tests := []struct {
		in, want planar.Point
	}{
		{pt(0.5, 0.6), pt(0, 0)},
		{pt(5, 0.7), pt(5, 0)},
		{pt(5, 5), pt(5, 5)},
	}
	for _, tt := range tests {
		e := ev(surface.PointerMove, tt.in.X, tt.in.Y)
		cont, _ := s.HandleEvent(e)
		if !cont {
			t.Errorf("Snap stopped propagation")
		}
		if !e.Coord.Equals(tt.want) {
			t.Errorf("snap(%v) = %v, want %v", tt.in, e.Coord, tt.want)
		}
	}
	s.Ignore(func(f *geom.Feature) bool { return f == sq })
	e := ev(surface.PointerMove, 0.5, 0.6)
	s.HandleEvent(e)
	if !e.Coord.Equals(pt(0.5, 0.6)) {
		t.Errorf("snap to ignored feature: %v", e.Coord)
	}
}

func TestSnapRunsBeforeDraw(t *testing.T) {
	src := store.NewCollection()
	_ = src.Add(&geom.Feature{ID: "p", Geometry: pt(3, 3)})
	m := surface.NewMap()
	d, _ := NewDraw(Point, nil)
	var got planar.Point
	d.OnDrawEnd(func(f *geom.Feature) error { got = f.Geometry.(planar.Point); return nil })
	s := NewSnap(1, src)
	d.Enable()
	s.Enable()
	m.AddInteraction(d)
	m.AddInteraction(s)
	if err := m.Dispatch(surface.Event{Type: surface.Click, Coord: pt(3.4, 2.8), Resolution: 1}); err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if !got.Equals(pt(3, 3)) {
		t.Errorf("drawn point = %v, want snapped (3, 3)", got)
	}
}
