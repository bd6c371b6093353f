package posefile

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// TimeUnit is the unit of a single-column timestamp.
type TimeUnit string

const (
	// TimeUnitAuto lets the sniffer decide.
	TimeUnitAuto TimeUnit = ""
	// Seconds as a decimal number, e.g. 1614950000.123456789.
	Seconds TimeUnit = "s"
	// Milliseconds as an integer.
	Milliseconds TimeUnit = "ms"
	// Microseconds as an integer.
	Microseconds TimeUnit = "us"
	// Nanoseconds as an integer.
	Nanoseconds TimeUnit = "ns"
)

const nanosPerSecond = 1_000_000_000

// nanosPerUnit holds the integer units and how many nanoseconds one of them is.
var nanosPerUnit = map[TimeUnit]int64{
	Milliseconds: 1_000_000,
	Microseconds: 1_000,
	Nanoseconds:  1,
}

// ParseTimeUnit validates a time unit name. The empty string means auto-detection.
func ParseTimeUnit(unit string) (TimeUnit, error) {
	switch TimeUnit(unit) {
	case TimeUnitAuto, Seconds, Milliseconds, Microseconds, Nanoseconds:
		return TimeUnit(unit), nil
	default:
		return "", errors.Errorf("unsupported time unit %q", unit)
	}
}

// Timestamp is a non-negative point in time split into whole seconds and the nanosecond
// remainder. Nanoseconds is always in [0, 1e9).
type Timestamp struct {
	Seconds     int64
	Nanoseconds int64
}

// ParseTimestamp parses a single timestamp field given in unit. Decimal seconds are parsed exactly
// and rounded half up to the nearest nanosecond.
func ParseTimestamp(field string, unit TimeUnit) (Timestamp, error) {
	if unit == Seconds {
		return parseDecimalSeconds(field)
	}
	scale, ok := nanosPerUnit[unit]
	if !ok {
		return Timestamp{}, errors.Errorf("unsupported time unit %q", unit)
	}
	if !isIntegerLiteral(field) {
		return Timestamp{}, errors.Errorf("timestamp %q is not an integer number of %s", field, unit)
	}
	val, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return Timestamp{}, errors.Wrapf(err, "invalid timestamp %q", field)
	}
	if val < 0 {
		return Timestamp{}, errors.Errorf("negative timestamp %q", field)
	}
	perSecond := nanosPerSecond / scale
	return Timestamp{Seconds: val / perSecond, Nanoseconds: (val % perSecond) * scale}, nil
}

// ParseSplitTimestamp parses a timestamp stored as an integer seconds column followed by an
// integer nanoseconds column.
func ParseSplitTimestamp(secsField, nanosField string) (Timestamp, error) {
	if !isIntegerLiteral(secsField) || !isIntegerLiteral(nanosField) {
		return Timestamp{}, errors.Errorf("timestamp (%q, %q) is not a pair of integers", secsField, nanosField)
	}
	secs, err := strconv.ParseInt(secsField, 10, 64)
	if err != nil {
		return Timestamp{}, errors.Wrapf(err, "invalid seconds %q", secsField)
	}
	nanos, err := strconv.ParseInt(nanosField, 10, 64)
	if err != nil {
		return Timestamp{}, errors.Wrapf(err, "invalid nanoseconds %q", nanosField)
	}
	if secs < 0 {
		return Timestamp{}, errors.Errorf("negative timestamp %q", secsField)
	}
	if nanos < 0 || nanos >= nanosPerSecond {
		return Timestamp{}, errors.Errorf("nanoseconds %q out of range [0, 1e9)", nanosField)
	}
	return Timestamp{Seconds: secs, Nanoseconds: nanos}, nil
}

func parseDecimalSeconds(field string) (Timestamp, error) {
	// big.Rat also accepts fractions like "1/3", which are not valid in a pose file.
	if !isNumber(field) {
		return Timestamp{}, errors.Errorf("timestamp %q is not a decimal number of seconds", field)
	}
	secs, ok := new(big.Rat).SetString(field)
	if !ok {
		return Timestamp{}, errors.Errorf("timestamp %q is not a decimal number of seconds", field)
	}
	if secs.Sign() < 0 {
		return Timestamp{}, errors.Errorf("negative timestamp %q", field)
	}

	// round(secs * 1e9) == floor((2 * num * 1e9 + den) / (2 * den))
	num := new(big.Int).Mul(secs.Num(), big.NewInt(2*nanosPerSecond))
	num.Add(num, secs.Denom())
	den := new(big.Int).Lsh(secs.Denom(), 1)
	totalNanos := num.Quo(num, den)

	wholeSecs, nanos := new(big.Int).QuoRem(totalNanos, big.NewInt(nanosPerSecond), new(big.Int))
	if !wholeSecs.IsInt64() {
		return Timestamp{}, errors.Errorf("timestamp %q out of range", field)
	}
	return Timestamp{Seconds: wholeSecs.Int64(), Nanoseconds: nanos.Int64()}, nil
}

// KalibrString renders the timestamp as integer nanoseconds.
func (ts Timestamp) KalibrString() string {
	if ts.Seconds > 0 {
		return fmt.Sprintf("%d%09d", ts.Seconds, ts.Nanoseconds)
	}
	return strconv.FormatInt(ts.Nanoseconds, 10)
}

// TUMString renders the timestamp as decimal seconds. With whole seconds the nanoseconds are
// always 9 zero-padded digits. Sub-second timestamps are printed as the shortest float that round
// trips, e.g. "0.5" or "1e-09", and keep a trailing ".0" when whole, e.g. "0.0".
func (ts Timestamp) TUMString() string {
	if ts.Seconds > 0 {
		return fmt.Sprintf("%d.%09d", ts.Seconds, ts.Nanoseconds)
	}
	str := strconv.FormatFloat(float64(ts.Nanoseconds)/nanosPerSecond, 'g', -1, 64)
	if !strings.ContainsAny(str, ".e") {
		str += ".0"
	}
	return str
}
