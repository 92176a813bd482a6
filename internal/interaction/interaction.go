// Package interaction implements the pointer behaviours of the editor:
// drawing new shapes, selecting, reshaping and moving features, and
// snapping the pointer onto existing geometry.
package interaction

import (
	"errors"
	"fmt"
	"math"
	"strings"

	planar "github.com/ctessum/geom"

	"geoedit/internal/geom"
	"geoedit/internal/surface"
)

var (
	ErrUnknownShape = errors.New("interaction: unknown shape kind")
	ErrTooFewPoints = errors.New("interaction: sketch has too few vertices")
)

// ShapeKind is what a Draw produces. Square and Box are drawn like a
// Circle (center/corner then edge/corner) and converted by a GeometryFunc.
type ShapeKind string

const (
	Point           ShapeKind = "Point"
	LineString      ShapeKind = "LineString"
	Polygon         ShapeKind = "Polygon"
	MultiPoint      ShapeKind = "MultiPoint"
	MultiLineString ShapeKind = "MultiLineString"
	MultiPolygon    ShapeKind = "MultiPolygon"
	Circle          ShapeKind = "Circle"
	Square          ShapeKind = "Square"
	Box             ShapeKind = "Box"
)

// ShapeKinds lists every accepted kind in menu order.
var ShapeKinds = []ShapeKind{Point, LineString, Polygon, MultiPoint, MultiLineString, MultiPolygon, Circle, Square, Box}

// ParseShapeKind matches s against ShapeKinds ignoring case.
func ParseShapeKind(s string) (ShapeKind, error) {
	for _, k := range ShapeKinds {
		if strings.EqualFold(string(k), strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownShape, s)
}

// native is the capture behaviour behind k.
func (k ShapeKind) native() ShapeKind {
	switch k {
	case Square, Box:
		return Circle
	}
	return k
}

// GeometryFunc builds the drawn geometry from the two points of a
// circle-style draw: the first click and the current or final pointer.
type GeometryFunc func(start, end planar.Point) planar.Geom

// CircleGeometry is the default for Circle draws.
func CircleGeometry(start, end planar.Point) planar.Geom {
	return geom.Circle{Center: start, Radius: geom.Distance(start, end)}
}

// RegularPolygon returns a GeometryFunc for an n-sided regular polygon
// centred on the first point with one vertex on the pointer.
func RegularPolygon(n int) GeometryFunc {
	return func(start, end planar.Point) planar.Geom {
		r := geom.Distance(start, end)
		a0 := math.Atan2(end.Y-start.Y, end.X-start.X)
		ring := make([]planar.Point, n+1)
		for i := 0; i < n; i++ {
			a := a0 + 2*math.Pi*float64(i)/float64(n)
			ring[i] = planar.Point{X: start.X + r*math.Cos(a), Y: start.Y + r*math.Sin(a)}
		}
		ring[n] = ring[0]
		return planar.Polygon{ring}
	}
}

// BoxGeometry returns a GeometryFunc for the axis-aligned rectangle spanned
// by the two points.
func BoxGeometry() GeometryFunc {
	return func(start, end planar.Point) planar.Geom {
		x0, x1 := math.Min(start.X, end.X), math.Max(start.X, end.X)
		y0, y1 := math.Min(start.Y, end.Y), math.Max(start.Y, end.Y)
		return planar.Polygon{{
			{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0},
		}}
	}
}

// toggle carries the enabled flag shared by all interactions.
type toggle struct {
	enabled bool
}

func (t *toggle) Enable()       { t.enabled = true }
func (t *toggle) Disable()      { t.enabled = false }
func (t *toggle) Enabled() bool { return t.enabled }

// tolerance converts a distance in screen cells to map units.
func tolerance(e *surface.Event, cells float64) float64 {
	return e.Resolution * cells
}

// listeners is a set of callbacks with unsubscribe handles.
type listeners[F any] struct {
	fns []*F
}

func (l *listeners[F]) add(fn F) func() {
	p := &fn
	l.fns = append(l.fns, p)
	return func() {
		for i, x := range l.fns {
			if x == p {
				l.fns = append(l.fns[:i], l.fns[i+1:]...)
				return
			}
		}
	}
}

// snapshot copies the callbacks so they may unsubscribe while running.
func (l *listeners[F]) snapshot() []F {
	out := make([]F, len(l.fns))
	for i, p := range l.fns {
		out[i] = *p
	}
	return out
}
