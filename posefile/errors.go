package posefile

import (
	"fmt"

	"github.com/pkg/errors"
)

// FormatError is returned when the layout of an input file cannot be inferred. Nothing has been
// written when it is returned.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "format error: " + e.Reason
}

func newFormatError(format string, args ...interface{}) error {
	return errors.WithStack(&FormatError{Reason: fmt.Sprintf(format, args...)})
}

// ConversionError is returned when a row cannot be converted or the conversion options are
// invalid. Line is the 1-based input line number, or 0 for option errors. Rows written before the
// failing one are left in the output.
type ConversionError struct {
	Line   int
	Reason string
	Err    error
}

func (e *ConversionError) Error() string {
	msg := "conversion error"
	if e.Line > 0 {
		msg = fmt.Sprintf("conversion error at line %d", e.Line)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func newConversionError(line int, cause error, format string, args ...interface{}) error {
	return errors.WithStack(&ConversionError{Line: line, Reason: fmt.Sprintf(format, args...), Err: cause})
}

// IsFormatError returns whether err is or wraps a FormatError.
func IsFormatError(err error) bool {
	var formatErr *FormatError
	return errors.As(err, &formatErr)
}

// IsConversionError returns whether err is or wraps a ConversionError.
func IsConversionError(err error) bool {
	var convErr *ConversionError
	return errors.As(err, &convErr)
}
