package geom

import (
	"errors"
	"fmt"
	"math"

	planar "github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
	"github.com/google/uuid"
)

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Empty reports whether b has no area to project onto.
func (b BBox) Empty() bool {
	return !(b.MaxX > b.MinX && b.MaxY > b.MinY)
}

// Pad grows b by frac of its size on every side.
func (b BBox) Pad(frac float64) BBox {
	dx := (b.MaxX - b.MinX) * frac
	dy := (b.MaxY - b.MinY) * frac
	return BBox{MinX: b.MinX - dx, MinY: b.MinY - dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// Kind names the geometry variants a Feature can hold.
type Kind string

const (
	KindPoint           Kind = "Point"
	KindLineString      Kind = "LineString"
	KindPolygon         Kind = "Polygon"
	KindMultiPoint      Kind = "MultiPoint"
	KindMultiLineString Kind = "MultiLineString"
	KindMultiPolygon    Kind = "MultiPolygon"
	KindCircle          Kind = "Circle"
)

var ErrUnknownGeometry = errors.New("geom: unknown geometry type")

// KindOf returns the variant tag of g.
func KindOf(g planar.Geom) (Kind, error) {
	switch g.(type) {
	case planar.Point:
		return KindPoint, nil
	case planar.LineString:
		return KindLineString, nil
	case planar.Polygon:
		return KindPolygon, nil
	case planar.MultiPoint:
		return KindMultiPoint, nil
	case planar.MultiLineString:
		return KindMultiLineString, nil
	case planar.MultiPolygon:
		return KindMultiPolygon, nil
	case Circle:
		return KindCircle, nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnknownGeometry, g)
}

// Circle is a center and radius in map units. It satisfies planar.Geom so
// it can sit in a Feature next to the polygonal types.
type Circle struct {
	Center planar.Point
	Radius float64
}

func (c Circle) Bounds() *planar.Bounds {
	return &planar.Bounds{
		Min: planar.Point{X: c.Center.X - c.Radius, Y: c.Center.Y - c.Radius},
		Max: planar.Point{X: c.Center.X + c.Radius, Y: c.Center.Y + c.Radius},
	}
}

func (c Circle) Similar(g planar.Geom, tolerance float64) bool {
	c2, ok := g.(Circle)
	if !ok {
		return false
	}
	return math.Abs(c.Radius-c2.Radius) < tolerance &&
		math.Abs(c.Center.X-c2.Center.X) < tolerance &&
		math.Abs(c.Center.Y-c2.Center.Y) < tolerance
}

// Transform moves the center; the radius is kept in the source units.
func (c Circle) Transform(t proj.Transformer) (planar.Geom, error) {
	x, y, err := t(c.Center.X, c.Center.Y)
	if err != nil {
		return nil, err
	}
	return Circle{Center: planar.Point{X: x, Y: y}, Radius: c.Radius}, nil
}

// Polygon approximates c with n segments.
func (c Circle) Polygon(n int) planar.Polygon {
	if n < 3 {
		n = 3
	}
	ring := make([]planar.Point, n+1)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		ring[i] = planar.Point{X: c.Center.X + c.Radius*math.Cos(a), Y: c.Center.Y + c.Radius*math.Sin(a)}
	}
	ring[n] = ring[0]
	return planar.Polygon{ring}
}

// Feature is an identifiable shape with attributes.
type Feature struct {
	ID         string
	Geometry   planar.Geom
	Properties map[string]any
}

// NewFeature wraps g with a fresh UUID.
func NewFeature(g planar.Geom, props map[string]any) *Feature {
	if props == nil {
		props = map[string]any{}
	}
	return &Feature{ID: uuid.NewString(), Geometry: g, Properties: props}
}

// Kind returns the variant of f's geometry, or "" if it has none.
func (f *Feature) Kind() Kind {
	if f == nil || f.Geometry == nil {
		return ""
	}
	k, _ := KindOf(f.Geometry)
	return k
}

// Clone deep-copies coordinates and the top level of the property map.
func (f *Feature) Clone() *Feature {
	if f == nil {
		return nil
	}
	props := make(map[string]any, len(f.Properties))
	for k, v := range f.Properties {
		props[k] = v
	}
	return &Feature{ID: f.ID, Geometry: CloneGeom(f.Geometry), Properties: props}
}
