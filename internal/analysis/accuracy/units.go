package accuracy

import (
	"fmt"
	"strings"
)

// Unit is a distance unit expressed as meters per unit
type Unit struct {
	Name          string
	MetersPerUnit float64
}

// Supported distance units
var (
	Meters     = Unit{Name: "m", MetersPerUnit: 1}
	Kilometers = Unit{Name: "km", MetersPerUnit: 1000}
	Miles      = Unit{Name: "mi", MetersPerUnit: 1609.344}
	Feet       = Unit{Name: "ft", MetersPerUnit: 0.3048}
)

// FromMeters converts a distance in meters into the unit
func (u Unit) FromMeters(m float64) float64 {
	return m / u.MetersPerUnit
}

// ParseUnit resolves a unit name such as "km" or "miles"
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "meter", "meters", "metre", "metres":
		return Meters, nil
	case "km", "kilometer", "kilometers", "kilometre", "kilometres":
		return Kilometers, nil
	case "mi", "mile", "miles":
		return Miles, nil
	case "ft", "foot", "feet":
		return Feet, nil
	default:
		return Unit{}, fmt.Errorf("unknown distance unit: %q", s)
	}
}
