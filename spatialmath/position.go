package spatialmath

import (
	"strconv"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ParsePosition parses x, y, z component strings into a vector.
func ParsePosition(xyz [3]string) (r3.Vector, error) {
	var vals [3]float64
	for i, component := range xyz {
		val, err := strconv.ParseFloat(component, 64)
		if err != nil {
			return r3.Vector{}, errors.Wrapf(err, "invalid position component %q", component)
		}
		vals[i] = val
	}
	return r3.Vector{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}
