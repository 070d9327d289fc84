package format

import (
	"fmt"
	"strings"
)

// Context identifies where a string token is being rendered, since the
// quoting rules for object keys differ slightly from values (Section 4.3).
type Context int

const (
	ContextObjectKey Context = iota
	ContextObjectValue
	ContextArrayElement
)

// unquotedKeyBodyRune reports whether r is legal as a non-leading character of an
// unquoted key ([A-Za-z0-9_.]).
func unquotedKeyBodyRune(r byte) bool {
	return r == '_' || r == '.' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// KeyBodyRune reports whether b may appear in an unquoted key, including as
// its first character (callers that need the stricter first-character rule
// use IsValidUnquotedKey on the whole token instead).
func KeyBodyRune(b byte) bool { return unquotedKeyBodyRune(b) }

// IsValidUnquotedKey reports whether s matches the unquoted-key grammar
// [A-Za-z_][A-Za-z0-9_.]*.
func IsValidUnquotedKey(s string) bool {
	if s == "" {
		return false
	}
	first := s[0]
	if !(first == '_' || (first >= 'a' && first <= 'z') || (first >= 'A' && first <= 'Z')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !unquotedKeyBodyRune(s[i]) {
			return false
		}
	}
	return true
}

// LooksNumeric reports whether s parses under the grammar
// -? digits (. digits)? ([eE][+-]? digits)? with at least one digit.
func LooksNumeric(s string) bool {
	i := 0
	n := len(s)
	if i < n && s[i] == '-' {
		i++
	}
	start := i
	for i < n && isDigit(s[i]) {
		i++
	}
	if i == start {
		return false
	}
	if i < n && s[i] == '.' {
		i++
		fracStart := i
		for i < n && isDigit(s[i]) {
			i++
		}
		if i == fracStart {
			return false
		}
	}
	if i < n && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < n && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expStart := i
		for i < n && isDigit(s[i]) {
			i++
		}
		if i == expStart {
			return false
		}
	}
	return i == n
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// hasForbiddenChars reports whether s contains any character that always
// forces quoting, regardless of context: the five escapable characters plus
// the structural punctuation of the format.
func hasForbiddenChars(s string) bool {
	return strings.ContainsAny(s, "\"\\\n\r\t:[]{}")
}

// hasControlChar reports whether s contains a rune below U+0020.
func hasControlChar(s string) bool {
	for _, r := range s {
		if r < 0x20 {
			return true
		}
	}
	return false
}

// NeedsQuoting decides whether s must be wrapped in quotes when rendered in
// the given context with the given active delimiter, per Section 4.3.
func NeedsQuoting(s string, ctx Context, delim rune) bool {
	if s == "" {
		return true
	}
	if s == "true" || s == "false" || s == "null" {
		return true
	}
	if LooksNumeric(s) {
		return true
	}
	first := s[0]
	last := s[len(s)-1]
	if first <= 0x20 || last <= 0x20 {
		return true
	}
	if hasForbiddenChars(s) {
		return true
	}
	if hasControlChar(s) {
		return true
	}
	if first == '-' {
		return true
	}
	if ctx != ContextObjectKey && strings.ContainsRune(s, delim) {
		return true
	}
	if ctx == ContextObjectKey && !IsValidUnquotedKey(s) {
		return true
	}
	return false
}

// Escape renders s with the five defined escapes applied, without the
// surrounding quotes.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Quote wraps s in double quotes with escapes applied.
func Quote(s string) string {
	return `"` + Escape(s) + `"`
}

// EncodeToken renders s as it should appear in the given context: quoted
// and escaped if required, raw otherwise.
func EncodeToken(s string, ctx Context, delim rune) string {
	if NeedsQuoting(s, ctx, delim) {
		return Quote(s)
	}
	return s
}

// Unescape reverses Escape on the content between a pair of quotes (the
// quotes themselves must already be stripped). An unrecognized escape
// sequence is a parse error.
func Unescape(s string) (string, error) {
	var b strings.Builder
	b.Grow(len(s))
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			b.WriteRune(r)
			continue
		}
		i++
		if i >= len(runes) {
			return "", fmt.Errorf("unterminated escape sequence")
		}
		switch runes[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			return "", fmt.Errorf("invalid escape sequence \\%c", runes[i])
		}
	}
	return b.String(), nil
}

// DecodeQuoted strips a leading/trailing double quote from token and
// unescapes its content. token must start with '"'; it is an error if it
// does not end with an unescaped closing quote.
func DecodeQuoted(token string) (string, error) {
	if len(token) < 2 || token[0] != '"' {
		return "", fmt.Errorf("not a quoted string")
	}
	body := token[1:]
	// Find the matching unescaped closing quote, honoring backslash escapes.
	escaped := false
	end := -1
	for i, r := range body {
		if escaped {
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if r == '"' {
			end = i
			break
		}
	}
	if end == -1 {
		return "", fmt.Errorf("unterminated string")
	}
	if end != len(body)-1 {
		return "", fmt.Errorf("trailing content after closing quote")
	}
	return Unescape(body[:end])
}
