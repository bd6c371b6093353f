// Package posefile infers the layout of pose trajectory text files and rewrites their rows into
// the Kalibr or TUM RGB-D layouts.
//
// A pose row holds a timestamp, a position x, y, z and an orientation quaternion. Inputs differ in
// delimiter, timestamp unit, whether a frame counter precedes the timestamp, whether the timestamp
// is split into seconds and nanoseconds columns, and quaternion order. All but the quaternion
// order are inferred by Sniff from the first two data rows.
package posefile

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

const (
	// sampleLines is the number of data rows looked at when sniffing.
	sampleLines = 2
	// poseColumns is the number of columns of a row with a single time column.
	poseColumns = 8
	// maxLineSize bounds a single input line.
	maxLineSize = 1 << 20

	// maxEpochSeconds bounds integer timestamps read as seconds. Larger ones are nanoseconds.
	maxEpochSeconds = 1e10
	// maxSecondsStep is the largest step between sample rows with integer seconds timestamps.
	maxSecondsStep = 1000
)

// SniffResult describes the layout of an input file. It is computed once per file.
type SniffResult struct {
	Delimiter Delimiter
	// TimeIndex is the column of the timestamp, or of its seconds part when SplitTime is set.
	TimeIndex int
	TimeUnit  TimeUnit
	// SplitTime means the timestamp is an integer seconds column followed by an integer
	// nanoseconds column. TimeUnit does not apply then.
	SplitTime     bool
	PositionIndex int
}

// QuaternionIndex is the column of the first quaternion component.
func (sr SniffResult) QuaternionIndex() int {
	return sr.PositionIndex + 3
}

// MinColumns is the number of columns a row needs to be converted.
func (sr SniffResult) MinColumns() int {
	return sr.PositionIndex + 7
}

// WithTimeUnit returns a copy of the result using unit instead of the inferred one. TimeUnitAuto
// keeps the inferred unit.
func (sr SniffResult) WithTimeUnit(unit TimeUnit) SniffResult {
	if unit != TimeUnitAuto {
		sr.TimeUnit = unit
	}
	return sr
}

// Sniff reads leading lines of r, skipping headers, until two data rows are found and infers the
// layout from them.
func Sniff(r io.Reader) (SniffResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineSize)
	var lines []string
	for len(lines) < sampleLines && scanner.Scan() {
		if line := scanner.Text(); !IsHeaderLine(line) {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return SniffResult{}, errors.Wrap(err, "error reading input")
	}
	return SniffLines(lines)
}

// SniffLines infers the layout from sample lines. Header lines among them are ignored and at least
// two data rows are required.
func SniffLines(lines []string) (SniffResult, error) {
	samples := make([]string, 0, sampleLines)
	for _, line := range lines {
		if IsHeaderLine(line) {
			continue
		}
		samples = append(samples, line)
		if len(samples) == sampleLines {
			break
		}
	}
	if len(samples) < sampleLines {
		return SniffResult{}, newFormatError("insufficient data: found %d data rows, need %d", len(samples), sampleLines)
	}

	delimiter, err := decideDelimiter(samples)
	if err != nil {
		return SniffResult{}, err
	}
	rows := make([][]string, len(samples))
	for i, sample := range samples {
		rows[i] = delimiter.Split(sample)
		for col, field := range rows[i] {
			if !isNumber(field) {
				return SniffResult{}, newFormatError("non-numeric column %d %q in sample row %d", col, field, i+1)
			}
		}
	}

	result := decideTimeLayout(rows)
	result.Delimiter = delimiter
	if !result.SplitTime {
		result.TimeUnit = decideTimeUnit(rows[0][result.TimeIndex], rows[len(rows)-1][result.TimeIndex])
	}
	return result, nil
}

// decideDelimiter returns the first candidate that splits every sample into the same number of
// fields, with at least as many as a pose row needs.
func decideDelimiter(samples []string) (Delimiter, error) {
	for _, candidate := range delimiterCandidates {
		numCols := len(candidate.Split(samples[len(samples)-1]))
		if numCols < poseColumns {
			continue
		}
		stable := true
		for _, sample := range samples {
			if len(candidate.Split(sample)) != numCols {
				stable = false
				break
			}
		}
		if stable {
			return candidate, nil
		}
	}
	return "", newFormatError("ambiguous delimiter: no candidate yields a stable count of at least %d columns", poseColumns)
}

// decideTimeLayout finds where the time columns are from the first two columns of the sample rows.
//   - 8 columns, or a non-integer first column: time first.
//   - an integer first column below 1e10 and a second integer column below 1e9: seconds and
//     nanoseconds.
//   - an integer first column counting up by one: a frame counter, time second.
func decideTimeLayout(rows [][]string) SniffResult {
	first, last := rows[0], rows[len(rows)-1]
	single := SniffResult{TimeIndex: 0, PositionIndex: 1}
	if len(first) <= poseColumns {
		return single
	}
	if !isIntegerLiteral(first[0]) || !isIntegerLiteral(last[0]) {
		return single
	}

	splitNanos := true
	for _, row := range rows {
		secs, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil || secs < 0 || secs >= maxEpochSeconds {
			splitNanos = false
			break
		}
		if !isIntegerLiteral(row[1]) {
			splitNanos = false
			break
		}
		nanos, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil || nanos < 0 || nanos >= nanosPerSecond {
			splitNanos = false
			break
		}
	}
	if splitNanos {
		return SniffResult{TimeIndex: 0, SplitTime: true, PositionIndex: 2}
	}

	firstFrame, err1 := strconv.ParseInt(first[0], 10, 64)
	lastFrame, err2 := strconv.ParseInt(last[0], 10, 64)
	if err1 == nil && err2 == nil && lastFrame-firstFrame == 1 {
		return SniffResult{TimeIndex: 1, PositionIndex: 2}
	}
	return single
}

// decideTimeUnit infers the unit of a single time column. Decimals are seconds and integers are
// nanoseconds, unless they are small and close together, which only integer seconds are.
func decideTimeUnit(first, last string) TimeUnit {
	if !isIntegerLiteral(first) || !isIntegerLiteral(last) {
		return Seconds
	}
	firstVal, err1 := strconv.ParseFloat(first, 64)
	lastVal, err2 := strconv.ParseFloat(last, 64)
	if err1 != nil || err2 != nil {
		return Nanoseconds
	}
	step := lastVal - firstVal
	if step < 0 {
		step = -step
	}
	if firstVal < maxEpochSeconds && lastVal < maxEpochSeconds && step < maxSecondsStep {
		return Seconds
	}
	return Nanoseconds
}
