package geom

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ctessum/unit"
)

var (
	ErrUnknownUnit = errors.New("geom: unknown unit")
	ErrNotLength   = errors.New("geom: value is not a length")
)

// Unit is a length unit a tolerance can be given in. Map coordinates are
// planar metres (web mercator).
type Unit string

const (
	Meters     Unit = "meters"
	Kilometers Unit = "kilometers"
	Feet       Unit = "feet"
	Miles      Unit = "miles"
	MapUnits   Unit = "map"
)

// unitLengths holds one of each unit as an SI length.
var unitLengths = map[Unit]*unit.Unit{
	Meters:     unit.New(1, unit.Meter),
	Kilometers: unit.New(1000, unit.Meter),
	Feet:       unit.New(0.3048, unit.Meter),
	Miles:      unit.New(1609.344, unit.Meter),
	MapUnits:   unit.New(1, unit.Meter),
}

// ParseUnit accepts the unit names and their usual abbreviations.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "m", "meter", "meters", "metre", "metres":
		return Meters, nil
	case "km", "kilometer", "kilometers", "kilometre", "kilometres":
		return Kilometers, nil
	case "ft", "foot", "feet":
		return Feet, nil
	case "mi", "mile", "miles":
		return Miles, nil
	case "map", "units":
		return MapUnits, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
}

// Length returns v of u as a dimensioned length.
func (u Unit) Length(v float64) (*unit.Unit, error) {
	one, ok := unitLengths[u]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, string(u))
	}
	return unit.Mul(unit.New(v, unit.Dimless), one), nil
}

// MapDistance converts a length to map units. Values of any other
// dimension are rejected.
func MapDistance(l *unit.Unit) (float64, error) {
	if l == nil {
		return 0, ErrNotLength
	}
	if err := l.Check(unit.Meter); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNotLength, err)
	}
	return l.Value(), nil
}

// ToMap converts a length v in u to map units.
func (u Unit) ToMap(v float64) (float64, error) {
	l, err := u.Length(v)
	if err != nil {
		return 0, err
	}
	return MapDistance(l)
}
