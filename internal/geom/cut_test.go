package geom

import (
	"errors"
	"math"
	"testing"

	planar "github.com/ctessum/geom"
	"github.com/ctessum/unit"
)

func square(id string) *Feature {
	return &Feature{
		ID: id,
		Geometry: planar.Polygon{{
			{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}, {X: 0, Y: 0},
		}},
		Properties: map[string]any{"name": "lot"},
	}
}

func line(pts ...float64) *Feature {
	var ls planar.LineString
	for i := 0; i+1 < len(pts); i += 2 {
		ls = append(ls, planar.Point{X: pts[i], Y: pts[i+1]})
	}
	return &Feature{ID: "l", Geometry: ls}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestCutRejectsInteriorEndpoints(t *testing.T) {
	tests := []struct {
		name string
		line *Feature
	}{
		{"both inside", line(1, 1, 2, 2)},
		{"start inside", line(1, 1, 6, 1)},
		{"end inside", line(-1, 1, 2, 2)},
		{"end on edge", line(-1, 1, 0, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			poly := square("sq")
			before := CloneGeom(poly.Geometry)
			_, err := Cut(poly, tt.line, 0.001, Meters)
			if !errors.Is(err, ErrEndpointInside) {
				t.Fatalf("Cut() error = %v, want %v", err, ErrEndpointInside)
			}
			if !poly.Geometry.Similar(before, 1e-9) {
				t.Errorf("Cut() mutated its input")
			}
		})
	}
}

func TestCutPreconditions(t *testing.T) {
	if _, err := Cut(line(0, 0, 1, 1), line(-1, 2, 5, 2), 0.001, Meters); !errors.Is(err, ErrNotPolygon) {
		t.Errorf("Cut(line, line) error = %v, want %v", err, ErrNotPolygon)
	}
	pt := &Feature{ID: "p", Geometry: planar.Point{X: 9, Y: 9}}
	if _, err := Cut(square("sq"), pt, 0.001, Meters); !errors.Is(err, ErrNotLine) {
		t.Errorf("Cut(square, point) error = %v, want %v", err, ErrNotLine)
	}
	if _, err := Cut(square("sq"), line(-1, 2, 5, 2), 0, Meters); !errors.Is(err, ErrBadTolerance) {
		t.Errorf("Cut(tolerance 0) error = %v, want %v", err, ErrBadTolerance)
	}
	if _, err := Cut(square("sq"), line(-1, 2, 5, 2), 0.001, Unit("furlong")); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("Cut(furlong) error = %v, want %v", err, ErrUnknownUnit)
	}
}

func TestCutMissingLineReturnsInput(t *testing.T) {
	poly := square("sq")
	pieces, err := Cut(poly, line(10, 10, 11, 11), 0.001, Meters)
	if err != nil {
		t.Fatalf("Cut() error = %v", err)
	}
	if len(pieces) != 1 {
		t.Fatalf("Cut() = %d pieces, want 1", len(pieces))
	}
	if !pieces[0].Geometry.Similar(poly.Geometry, 1e-9) {
		t.Errorf("Cut() piece = %v, want %v", pieces[0].Geometry, poly.Geometry)
	}
	if pieces[0].Properties["name"] != "lot" {
		t.Errorf("Cut() properties = %v, want name=lot", pieces[0].Properties)
	}
}

func reversed(p planar.Polygon) planar.Polygon {
	out := make(planar.Polygon, len(p))
	for i, r := range p {
		for j := len(r) - 1; j >= 0; j-- {
			out[i] = append(out[i], r[j])
		}
	}
	return out
}

func TestCutLineInsideBoundsMissesPolygon(t *testing.T) {
	l := planar.Polygon{{
		{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 4}, {X: 0, Y: 4}, {X: 0, Y: 0},
	}}
	poly := &Feature{ID: "ell", Geometry: l, Properties: map[string]any{"name": "yard"}}
	pieces, err := Cut(poly, line(2, 2, 5, 5), 0.001, Meters)
	if err != nil {
		t.Fatalf("Cut() error = %v", err)
	}
	if len(pieces) != 1 {
		t.Fatalf("Cut() = %d pieces, want 1", len(pieces))
	}
	got := pieces[0].Geometry
	if !got.Similar(l, 1e-9) && !got.Similar(reversed(l), 1e-9) {
		t.Errorf("Cut() piece = %v, want %v", got, l)
	}
	if a := math.Abs(got.(planar.Polygon).Area()); !near(a, 7) {
		t.Errorf("Cut() piece area = %v, want 7", a)
	}
	if pieces[0].ID != "ell-0" || pieces[0].Properties["name"] != "yard" {
		t.Errorf("Cut() piece = %s %v, want ell-0 name=yard", pieces[0].ID, pieces[0].Properties)
	}
}

func TestCutSplitsSquare(t *testing.T) {
	pieces, err := Cut(square("sq"), line(-1, 2, 5, 2), 0.001, Meters)
	if err != nil {
		t.Fatalf("Cut() error = %v", err)
	}
	if len(pieces) != 2 {
		t.Fatalf("Cut() = %d pieces, want 2", len(pieces))
	}
	ids := map[string]bool{}
	var lower, upper int
	for _, pc := range pieces {
		ids[pc.ID] = true
		if pc.Properties["name"] != "lot" {
			t.Errorf("piece %s properties = %v, want name=lot", pc.ID, pc.Properties)
		}
		p, ok := pc.Geometry.(planar.Polygon)
		if !ok {
			t.Fatalf("piece %s geometry = %T, want Polygon", pc.ID, pc.Geometry)
		}
		b := p.Bounds()
		if !near(b.Min.X, 0) || !near(b.Max.X, 4) {
			t.Errorf("piece %s x range = [%v, %v], want [0, 4]", pc.ID, b.Min.X, b.Max.X)
		}
		switch {
		case near(b.Min.Y, 0) && near(b.Max.Y, 2):
			lower++
		case near(b.Min.Y, 2) && near(b.Max.Y, 4):
			upper++
		default:
			t.Errorf("piece %s y range = [%v, %v], want [0, 2] or [2, 4]", pc.ID, b.Min.Y, b.Max.Y)
		}
		if a := p.Area(); !near(a, 8) {
			t.Errorf("piece %s area = %v, want 8", pc.ID, a)
		}
	}
	if lower != 1 || upper != 1 {
		t.Errorf("Cut() lower/upper = %d/%d, want 1/1", lower, upper)
	}
	if !ids["sq-0"] || !ids["sq-1"] {
		t.Errorf("Cut() ids = %v, want sq-0 and sq-1", ids)
	}
}

func TestCutZigzagMakesThreePieces(t *testing.T) {
	// enters at the bottom, leaves at the top, re-enters and leaves again
	pieces, err := Cut(square("sq"), line(1, -1, 1, 5, 3, 5, 3, -1), 0.001, Meters)
	if err != nil {
		t.Fatalf("Cut() error = %v", err)
	}
	if len(pieces) != 3 {
		t.Fatalf("Cut() = %d pieces, want 3", len(pieces))
	}
	total := 0.
	for _, pc := range pieces {
		total += pc.Geometry.(planar.Polygon).Area()
	}
	if !near(total, 16) {
		t.Errorf("Cut() total area = %v, want 16", total)
	}
}

func TestCutToleranceUnits(t *testing.T) {
	got, err := Kilometers.ToMap(0.5)
	if err != nil || got != 500 {
		t.Errorf("Kilometers.ToMap(0.5) = %v, %v, want 500", got, err)
	}
	u, err := ParseUnit("ft")
	if err != nil || u != Feet {
		t.Errorf("ParseUnit(ft) = %v, %v, want %v", u, err, Feet)
	}
	if _, err := ParseUnit("parsec"); !errors.Is(err, ErrUnknownUnit) {
		t.Errorf("ParseUnit(parsec) error = %v, want %v", err, ErrUnknownUnit)
	}
}

func TestMapDistanceRejectsOtherDimensions(t *testing.T) {
	mile, err := Miles.Length(2)
	if err != nil {
		t.Fatalf("Miles.Length(2) error = %v", err)
	}
	if got, err := MapDistance(mile); err != nil || !near(got, 3218.688) {
		t.Errorf("MapDistance(2 mi) = %v, %v, want 3218.688", got, err)
	}
	tests := []struct {
		name string
		in   *unit.Unit
	}{
		{"time", unit.New(3, unit.Second)},
		{"area", unit.Mul(mile, mile)},
		{"dimensionless", unit.New(3, unit.Dimless)},
		{"nil", nil},
	}
	for _, tt := range tests {
		if _, err := MapDistance(tt.in); !errors.Is(err, ErrNotLength) {
			t.Errorf("MapDistance(%s) error = %v, want %v", tt.name, err, ErrNotLength)
		}
	}
}
