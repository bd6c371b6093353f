// Package spatialmath defines the orientation and position helpers used when rewriting pose rows.
package spatialmath

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// QuaternionOrder is the order in which quaternion components are serialized in a row.
type QuaternionOrder string

const (
	// XYZW places the scalar component last, as Kalibr and TUM RGB-D do.
	XYZW QuaternionOrder = "xyzw"
	// WXYZ places the scalar component first.
	WXYZ QuaternionOrder = "wxyz"
)

// ParseQuaternionOrder validates a quaternion order name.
func ParseQuaternionOrder(order string) (QuaternionOrder, error) {
	switch QuaternionOrder(order) {
	case XYZW, WXYZ:
		return QuaternionOrder(order), nil
	default:
		return "", errors.Errorf("unsupported quaternion order %q", order)
	}
}

// ReorderQuaternion returns the four components of a quaternion given in `order` as x, y, z, w.
// The component strings are not modified.
func ReorderQuaternion(components [4]string, order QuaternionOrder) ([4]string, error) {
	switch order {
	case XYZW:
		return components, nil
	case WXYZ:
		return [4]string{components[1], components[2], components[3], components[0]}, nil
	default:
		return components, errors.Errorf("unsupported quaternion order %q", order)
	}
}

// OrderQuaternion is the inverse of ReorderQuaternion: it takes x, y, z, w components and returns
// them in `order`.
func OrderQuaternion(xyzw [4]string, order QuaternionOrder) ([4]string, error) {
	switch order {
	case XYZW:
		return xyzw, nil
	case WXYZ:
		return [4]string{xyzw[3], xyzw[0], xyzw[1], xyzw[2]}, nil
	default:
		return xyzw, errors.Errorf("unsupported quaternion order %q", order)
	}
}

// ParseQuaternion parses x, y, z, w component strings into a quaternion.
func ParseQuaternion(xyzw [4]string) (quat.Number, error) {
	var vals [4]float64
	for i, component := range xyzw {
		val, err := strconv.ParseFloat(component, 64)
		if err != nil {
			return quat.Number{}, errors.Wrapf(err, "invalid quaternion component %q", component)
		}
		vals[i] = val
	}
	return quat.Number{Real: vals[3], Imag: vals[0], Jmag: vals[1], Kmag: vals[2]}, nil
}

// IsUnitQuaternion reports whether q has unit norm within tol.
func IsUnitQuaternion(q quat.Number, tol float64) bool {
	return math.Abs(quat.Abs(q)-1) <= tol
}

// NormalizeQuaternion rescales q to unit length.
func NormalizeQuaternion(q quat.Number) (quat.Number, error) {
	norm := quat.Abs(q)
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return quat.Number{}, errors.Errorf("cannot normalize quaternion with norm %v", norm)
	}
	return quat.Scale(1/norm, q), nil
}

// FormatQuaternion renders q as x, y, z, w strings with `digits` fractional digits.
func FormatQuaternion(q quat.Number, digits int) [4]string {
	return [4]string{
		strconv.FormatFloat(q.Imag, 'f', digits, 64),
		strconv.FormatFloat(q.Jmag, 'f', digits, 64),
		strconv.FormatFloat(q.Kmag, 'f', digits, 64),
		strconv.FormatFloat(q.Real, 'f', digits, 64),
	}
}
