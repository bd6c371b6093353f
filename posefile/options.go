package posefile

import (
	"github.com/pkg/errors"

	"go.viam.com/posefmt/spatialmath"
)

// OutputFormat is the column layout written for every row.
type OutputFormat string

const (
	// Kalibr writes t[ns], x, y, z, qx, qy, qz, qw.
	Kalibr OutputFormat = "KALIBR"
	// TUMRGBD writes t[s], x, y, z, qx, qy, qz, qw.
	TUMRGBD OutputFormat = "TUM_RGBD"
)

// ParseOutputFormat validates an output format name.
func ParseOutputFormat(format string) (OutputFormat, error) {
	switch OutputFormat(format) {
	case Kalibr, TUMRGBD:
		return OutputFormat(format), nil
	default:
		return "", errors.Errorf("unsupported output format %q", format)
	}
}

// Options configure a Converter.
type Options struct {
	// TimeUnit overrides the sniffed time unit unless it is TimeUnitAuto.
	TimeUnit        TimeUnit
	QuaternionOrder spatialmath.QuaternionOrder
	OutputFormat    OutputFormat
	OutputDelimiter string
	// NormalizeQuaternion rescales every quaternion to unit length instead of copying the
	// components verbatim.
	NormalizeQuaternion bool
}

// DefaultOptions returns the options used when nothing is specified.
func DefaultOptions() Options {
	return Options{
		TimeUnit:        TimeUnitAuto,
		QuaternionOrder: spatialmath.XYZW,
		OutputFormat:    TUMRGBD,
		OutputDelimiter: ",",
	}
}

// Validate returns a ConversionError describing the first invalid option.
func (opts Options) Validate() error {
	if _, err := ParseTimeUnit(string(opts.TimeUnit)); err != nil {
		return newConversionError(0, err, "invalid options")
	}
	if _, err := spatialmath.ParseQuaternionOrder(string(opts.QuaternionOrder)); err != nil {
		return newConversionError(0, err, "invalid options")
	}
	if _, err := ParseOutputFormat(string(opts.OutputFormat)); err != nil {
		return newConversionError(0, err, "invalid options")
	}
	if opts.OutputDelimiter == "" {
		return newConversionError(0, nil, "invalid options: empty output delimiter")
	}
	return nil
}
