package parse

import (
	"fmt"
	"strings"
)

// Split splits a line segment into fields on delim, honoring double-quoted
// spans: delimiter characters and surrounding whitespace inside a quoted
// field are preserved verbatim until the matching unescaped closing quote,
// per Section 4.10. Whitespace around an unquoted delimiter is trimmed —
// spaces and tabs when delim is comma or pipe, spaces only when delim is a
// tab (so the delimiter itself is never mistaken for padding).
func Split(s string, delim rune) ([]string, error) {
	trimCutset := " \t"
	if delim == '\t' {
		trimCutset = " "
	}

	var fields []string
	var cur strings.Builder
	inQuotes := false
	escaped := false

	runes := []rune(s)
	for _, r := range runes {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuotes && r == '\\':
			cur.WriteRune(r)
			escaped = true
		case inQuotes && r == '"':
			cur.WriteRune(r)
			inQuotes = false
		case !inQuotes && r == '"':
			cur.WriteRune(r)
			inQuotes = true
		case !inQuotes && r == delim:
			fields = append(fields, strings.Trim(cur.String(), trimCutset))
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quoted field")
	}
	fields = append(fields, strings.Trim(cur.String(), trimCutset))
	return fields, nil
}
