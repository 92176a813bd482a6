package interaction

import (
	planar "github.com/ctessum/geom"

	"geoedit/internal/geom"
	"geoedit/internal/surface"
)

// Target receives finished drawings.
type Target interface {
	Add(f *geom.Feature) error
}

// DrawEndFunc runs when a sketch is finished. An error aborts the
// remaining listeners and is returned to whoever finished the sketch.
type DrawEndFunc func(f *geom.Feature) error

// Draw captures clicks into a new feature of one ShapeKind.
type Draw struct {
	toggle
	kind       ShapeKind
	target     Target
	geometryFn GeometryFunc
	coords     []planar.Point
	pointer    *planar.Point
	ends       listeners[DrawEndFunc]
}

// NewDraw makes a disabled Draw. target may be nil when the caller only
// wants the drawn geometry through OnDrawEnd.
func NewDraw(kind ShapeKind, target Target) (*Draw, error) {
	if _, err := ParseShapeKind(string(kind)); err != nil {
		return nil, err
	}
	d := &Draw{kind: kind, target: target}
	switch kind {
	case Square:
		d.geometryFn = RegularPolygon(4)
	case Box:
		d.geometryFn = BoxGeometry()
	case Circle:
		d.geometryFn = CircleGeometry
	}
	return d, nil
}

func (d *Draw) Kind() ShapeKind { return d.kind }

// OnDrawEnd subscribes fn; call the returned func to unsubscribe.
func (d *Draw) OnDrawEnd(fn DrawEndFunc) func() {
	return d.ends.add(fn)
}

// Disable also drops any unfinished sketch.
func (d *Draw) Disable() {
	d.toggle.Disable()
	d.Abort()
}

// Abort drops the sketch.
func (d *Draw) Abort() {
	d.coords = nil
	d.pointer = nil
}

// Drawing reports whether a sketch has been started.
func (d *Draw) Drawing() bool { return len(d.coords) > 0 }

func (d *Draw) HandleEvent(e *surface.Event) (bool, error) {
	switch e.Type {
	case surface.PointerMove, surface.PointerDrag:
		p := e.Coord
		d.pointer = &p
		return true, nil
	case surface.Click:
		return false, d.click(e.Coord)
	case surface.DoubleClick:
		switch d.kind.native() {
		case LineString, Polygon, MultiLineString, MultiPolygon:
			if d.Drawing() {
				return false, d.Finish()
			}
		}
		return false, nil
	}
	return true, nil
}

func (d *Draw) click(p planar.Point) error {
	if n := len(d.coords); n > 0 && d.coords[n-1].Equals(p) {
		return nil
	}
	d.coords = append(d.coords, p)
	switch d.kind.native() {
	case Point, MultiPoint:
		return d.Finish()
	case Circle:
		if len(d.coords) == 2 {
			return d.Finish()
		}
	}
	return nil
}

func (d *Draw) minPoints() int {
	switch d.kind.native() {
	case Point, MultiPoint:
		return 1
	case LineString, MultiLineString, Circle:
		return 2
	}
	return 3
}

func (d *Draw) build(coords []planar.Point) planar.Geom {
	switch d.kind.native() {
	case Point:
		return coords[0]
	case MultiPoint:
		return planar.MultiPoint{coords[0]}
	case LineString:
		return planar.LineString(coords)
	case MultiLineString:
		return planar.MultiLineString{coords}
	case Polygon:
		return planar.Polygon{closed(coords)}
	case MultiPolygon:
		return planar.MultiPolygon{{closed(coords)}}
	case Circle:
		return d.geometryFn(coords[0], coords[len(coords)-1])
	}
	return nil
}

func closed(coords []planar.Point) []planar.Point {
	ring := append([]planar.Point{}, coords...)
	return append(ring, ring[0])
}

// Sketch returns the shape being drawn, following the pointer, or nil.
func (d *Draw) Sketch() planar.Geom {
	coords := append([]planar.Point{}, d.coords...)
	if d.pointer != nil && len(coords) > 0 && !coords[len(coords)-1].Equals(*d.pointer) {
		coords = append(coords, *d.pointer)
	}
	switch {
	case len(coords) == 0:
		return nil
	case len(coords) >= d.minPoints():
		return d.build(coords)
	case len(coords) >= 2:
		return planar.LineString(coords)
	}
	return coords[0]
}

// Finish completes the sketch. The feature gets a fresh id, goes to the
// target and then to the OnDrawEnd listeners.
func (d *Draw) Finish() error {
	if len(d.coords) < d.minPoints() {
		return ErrTooFewPoints
	}
	f := geom.NewFeature(d.build(d.coords), nil)
	d.Abort()
	if d.target != nil {
		if err := d.target.Add(f); err != nil {
			return err
		}
	}
	for _, fn := range d.ends.snapshot() {
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}
