package posefile

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/posefmt/logging"
	"go.viam.com/posefmt/spatialmath"
)

const (
	// normalizedDigits is the number of fractional digits written for rescaled quaternions.
	normalizedDigits = 9
	// unitTolerance is how far a quaternion norm may be from 1 before it is reported.
	unitTolerance = 1e-3
)

// Converter rewrites pose rows into one of the output formats.
type Converter struct {
	opts   Options
	logger logging.Logger
}

// NewConverter returns a converter for the given options. Invalid options are reported as a
// ConversionError.
func NewConverter(opts Options, logger logging.Logger) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Converter{opts: opts, logger: logger}, nil
}

// ConvertFile converts infile into outfile and returns the number of rows written. The layout of
// infile is sniffed before outfile is created, so a FormatError leaves no output behind.
func (c *Converter) ConvertFile(infile, outfile string) (rows int, err error) {
	sniffed, err := sniffFile(infile)
	if err != nil {
		return 0, err
	}

	//nolint:gosec
	in, err := os.Open(infile)
	if err != nil {
		return 0, errors.Wrap(err, "unable to open input file")
	}
	defer utils.UncheckedErrorFunc(in.Close)

	//nolint:gosec
	out, err := os.Create(outfile)
	if err != nil {
		return 0, errors.Wrap(err, "unable to create output file")
	}
	defer func() {
		err = multierr.Combine(err, out.Close())
	}()

	rows, err = c.Convert(sniffed, in, out)
	if err != nil {
		return rows, err
	}
	c.logger.Infow("converted pose file", "infile", infile, "outfile", outfile, "rows", rows)
	return rows, nil
}

func sniffFile(infile string) (SniffResult, error) {
	//nolint:gosec
	f, err := os.Open(infile)
	if err != nil {
		return SniffResult{}, errors.Wrap(err, "unable to open input file")
	}
	defer utils.UncheckedErrorFunc(f.Close)

	sniffed, err := Sniff(f)
	if err != nil {
		return SniffResult{}, errors.Wrapf(err, "cannot infer layout of %s", infile)
	}
	return sniffed, nil
}

// Convert writes one output row for every data row read from r and returns the number of rows
// written. The time unit option, when set, replaces the sniffed one. Conversion stops at the first
// row that cannot be converted; rows before it have been written to w.
func (c *Converter) Convert(sniffed SniffResult, r io.Reader, w io.Writer) (int, error) {
	rc := &rowConverter{
		layout: c.layout(sniffed),
		opts:   c.opts,
		logger: c.logger,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	bw := bufio.NewWriter(w)

	var (
		rows    int
		lineNum int
		runErr  error
	)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if IsHeaderLine(line) {
			continue
		}
		row, err := rc.convert(line, lineNum)
		if err != nil {
			runErr = err
			break
		}
		if _, err := bw.WriteString(row); err != nil {
			runErr = errors.Wrap(err, "error writing output")
			break
		}
		rows++
	}
	if runErr == nil {
		if err := scanner.Err(); err != nil {
			runErr = errors.Wrap(err, "error reading input")
		}
	}
	if err := bw.Flush(); err != nil {
		runErr = multierr.Combine(runErr, errors.Wrap(err, "error writing output"))
	}
	return rows, runErr
}

// layout applies the time unit option to the sniffed layout and logs the result.
func (c *Converter) layout(sniffed SniffResult) SniffResult {
	if c.opts.TimeUnit != TimeUnitAuto {
		if sniffed.SplitTime {
			c.logger.Warnw("ignoring time unit for a seconds and nanoseconds timestamp", "time_unit", c.opts.TimeUnit)
		} else {
			sniffed = sniffed.WithTimeUnit(c.opts.TimeUnit)
		}
	}
	c.logger.Infow("determined input layout",
		"delimiter", sniffed.Delimiter.String(),
		"time_index", sniffed.TimeIndex,
		"time_unit", string(sniffed.TimeUnit),
		"split_time", sniffed.SplitTime,
		"position_index", sniffed.PositionIndex,
	)
	return sniffed
}

// rowConverter holds the state of a single Convert call.
type rowConverter struct {
	layout SniffResult
	opts   Options
	logger logging.Logger

	warnedNonUnit bool
}

func (rc *rowConverter) convert(line string, lineNum int) (string, error) {
	fields := rc.layout.Delimiter.Split(line)
	if len(fields) < rc.layout.MinColumns() {
		return "", newConversionError(lineNum, nil, "too few columns: got %d, need %d", len(fields), rc.layout.MinColumns())
	}

	ts, err := rc.parseTime(fields)
	if err != nil {
		return "", newConversionError(lineNum, err, "invalid timestamp")
	}
	timeStr, err := rc.formatTime(ts)
	if err != nil {
		return "", newConversionError(lineNum, err, "cannot format timestamp")
	}

	var position [3]string
	copy(position[:], fields[rc.layout.PositionIndex:])
	if _, err := spatialmath.ParsePosition(position); err != nil {
		return "", newConversionError(lineNum, err, "invalid position")
	}

	xyzw, err := rc.quaternion(fields, lineNum)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(timeStr)
	for _, field := range position {
		sb.WriteString(rc.opts.OutputDelimiter)
		sb.WriteString(field)
	}
	for _, field := range xyzw {
		sb.WriteString(rc.opts.OutputDelimiter)
		sb.WriteString(field)
	}
	sb.WriteByte('\n')
	return sb.String(), nil
}

func (rc *rowConverter) parseTime(fields []string) (Timestamp, error) {
	if rc.layout.SplitTime {
		return ParseSplitTimestamp(fields[rc.layout.TimeIndex], fields[rc.layout.TimeIndex+1])
	}
	return ParseTimestamp(fields[rc.layout.TimeIndex], rc.layout.TimeUnit)
}

func (rc *rowConverter) formatTime(ts Timestamp) (string, error) {
	switch rc.opts.OutputFormat {
	case Kalibr:
		return ts.KalibrString(), nil
	case TUMRGBD:
		return ts.TUMString(), nil
	default:
		return "", errors.Errorf("unsupported output format %q", rc.opts.OutputFormat)
	}
}

// quaternion returns the row's quaternion as x, y, z, w strings.
func (rc *rowConverter) quaternion(fields []string, lineNum int) ([4]string, error) {
	var raw [4]string
	copy(raw[:], fields[rc.layout.QuaternionIndex():])
	xyzw, err := spatialmath.ReorderQuaternion(raw, rc.opts.QuaternionOrder)
	if err != nil {
		return xyzw, newConversionError(lineNum, err, "cannot reorder quaternion")
	}
	q, err := spatialmath.ParseQuaternion(xyzw)
	if err != nil {
		return xyzw, newConversionError(lineNum, err, "invalid quaternion")
	}

	if rc.opts.NormalizeQuaternion {
		unit, err := spatialmath.NormalizeQuaternion(q)
		if err != nil {
			return xyzw, newConversionError(lineNum, err, "invalid quaternion")
		}
		return spatialmath.FormatQuaternion(unit, normalizedDigits), nil
	}
	if !rc.warnedNonUnit && !spatialmath.IsUnitQuaternion(q, unitTolerance) {
		rc.warnedNonUnit = true
		rc.logger.Warnw("quaternion is not unit length, writing it unchanged", "line", lineNum, "quaternion", xyzw)
	}
	return xyzw, nil
}
