package posefile

import (
	"strconv"
	"strings"
)

// headerMarkers start comment lines in the pose files we have seen, e.g. "# timestamp tx ty..."
// or "%time" from MATLAB exports or "//" from C++ tools.
const headerMarkers = "#%/"

// fieldSeparators are the characters that can end the leading token of a row.
const fieldSeparators = ",\t; "

// IsHeaderLine reports whether line is a header or comment rather than a data row. Empty lines,
// lines starting with a comment marker and lines whose leading token is not a number are headers.
func IsHeaderLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	if strings.ContainsRune(headerMarkers, rune(line[0])) {
		return true
	}
	leading := line
	if idx := strings.IndexAny(line, fieldSeparators); idx >= 0 {
		leading = line[:idx]
	}
	return !isNumber(leading)
}

// isNumber reports whether s is a finite decimal number.
func isNumber(s string) bool {
	if s == "" {
		return false
	}
	// ParseFloat also accepts "inf", "nan" and hex floats, none of which are timestamps.
	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return false
		}
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// isIntegerLiteral reports whether s is an optionally signed string of digits.
func isIntegerLiteral(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
