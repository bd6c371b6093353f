package posefile

import "strings"

// Delimiter separates the fields of an input row.
type Delimiter string

const (
	// Comma separated fields.
	Comma Delimiter = ","
	// Tab separated fields.
	Tab Delimiter = "\t"
	// Semicolon separated fields.
	Semicolon Delimiter = ";"
	// Whitespace separated fields. Runs of spaces and tabs count as one separator.
	Whitespace Delimiter = " "
)

// delimiterCandidates are tried in order when sniffing.
var delimiterCandidates = []Delimiter{Comma, Tab, Semicolon, Whitespace}

func (d Delimiter) String() string {
	switch d {
	case Comma:
		return "comma"
	case Tab:
		return "tab"
	case Semicolon:
		return "semicolon"
	case Whitespace:
		return "whitespace"
	default:
		return string(d)
	}
}

// Split splits a line into whitespace-trimmed fields. A single trailing delimiter, as in "1,2,3,",
// does not produce an empty last field.
func (d Delimiter) Split(line string) []string {
	line = strings.TrimSpace(line)
	if d == Whitespace {
		return strings.Fields(line)
	}
	fields := strings.Split(line, string(d))
	for i, field := range fields {
		fields[i] = strings.TrimSpace(field)
	}
	if n := len(fields); n > 1 && fields[n-1] == "" {
		fields = fields[:n-1]
	}
	return fields
}
