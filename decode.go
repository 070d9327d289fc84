package toon

import (
	"errors"
	"strconv"
	"strings"

	"github.com/daphil19/ktoon/internal/format"
	"github.com/daphil19/ktoon/internal/parse"
)

// Decoder parses TOON text into a Value tree under a fixed configuration.
// A Decoder is stateless between calls and safe for concurrent use.
type Decoder struct {
	cfg decoderConfig
}

// NewDecoder builds a Decoder, applying opts over the defaults (strict,
// delimiter COMMA, indentSize 2, path expansion off).
func NewDecoder(opts ...DecodeOption) (*Decoder, error) {
	cfg := defaultDecoderConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Decoder{cfg: cfg}, nil
}

// Decode parses text into a Value tree.
func (d *Decoder) Decode(text string) (Value, error) {
	sc := parse.NewScanner(d.cfg.indentSize, d.cfg.strict)
	lines, err := sc.Scan(strings.NewReader(text))
	if err != nil {
		return Value{}, scanErrorToError(err)
	}

	ds := &decodeState{cfg: d.cfg, lines: lines}
	ds.skipBlank()
	if ds.atEnd() {
		return Null(), nil
	}
	v, err := ds.parseValue(ds.lines[ds.pos].Indent)
	if err != nil {
		return Value{}, err
	}
	ds.skipBlank()
	if !ds.atEnd() {
		line := ds.lines[ds.pos]
		return Value{}, parsingErrorf(line.Number, line.Column, ErrUnexpectedToken, "unexpected content after document value")
	}
	return v, nil
}

// scanErrorToError converts a line-scanning failure into the codec's own
// Error type. Indentation problems (tab in indent, bad indent multiple) are
// strict-mode ValidationErrors per Section 7; everything else the scanner
// reports (I/O failure, invalid UTF-8) is a ParsingError.
func scanErrorToError(err error) *Error {
	se, ok := err.(*parse.ScanError)
	if !ok {
		return parsingErrorf(0, 0, ErrUnexpectedToken, err.Error())
	}
	if se.Kind == parse.ScanErrorIndentation {
		return validationErrorf(se.Line, se.Column, ErrInvalidIndentation, se.Msg)
	}
	return parsingErrorf(se.Line, se.Column, ErrUnexpectedToken, se.Msg)
}

// decodeState is the recursive-descent cursor over the scanned line stream.
type decodeState struct {
	cfg   decoderConfig
	lines []parse.Line
	pos   int
}

func (ds *decodeState) atEnd() bool { return ds.pos >= len(ds.lines) }

func (ds *decodeState) skipBlank() {
	for ds.pos < len(ds.lines) && ds.lines[ds.pos].Blank {
		ds.pos++
	}
}

func (ds *decodeState) peek() (parse.Line, bool) {
	if ds.atEnd() {
		return parse.Line{}, false
	}
	return ds.lines[ds.pos], true
}

// parseValue implements the root-dispatch rule of Section 4.9: an object
// field line, an array header, or a bare primitive token.
func (ds *decodeState) parseValue(indent int) (Value, error) {
	ds.skipBlank()
	line, ok := ds.peek()
	if !ok {
		return Null(), nil
	}
	if line.Indent != indent {
		return Value{}, parsingErrorf(line.Number, line.Column, ErrUnexpectedToken, "unexpected indentation")
	}
	trimmed := strings.TrimSpace(line.Content)
	switch {
	case strings.HasPrefix(trimmed, "["):
		ds.pos++
		return ds.parseArrayHeaderAndBody(trimmed, line, indent, ds.cfg.delimiter.Rune())
	case looksLikeObjectField(trimmed):
		return ds.parseObject(indent)
	default:
		ds.pos++
		return ds.parsePrimitiveToken(trimmed, line.Number, line.Column)
	}
}

// looksLikeObjectField reports whether s begins with a key token (quoted
// string or unquoted identifier) followed by ':' or by an array header's
// '[', the marker of an object field line (as opposed to a bare array
// header, which itself begins with '[').
func looksLikeObjectField(s string) bool {
	_, _, restIdx, err := parseFieldKey(s)
	if err != nil || restIdx >= len(s) {
		return false
	}
	return s[restIdx] == ':' || s[restIdx] == '['
}

// parseFieldKey extracts the key token at the start of s (quoted or
// unquoted), returning the decoded key text, whether it was quoted, and the
// index of the first byte after the key token (expected to be ':' or '[').
func parseFieldKey(s string) (key string, quoted bool, restIndex int, err error) {
	if strings.HasPrefix(s, "\"") {
		escaped := false
		end := -1
		for i := 1; i < len(s); i++ {
			c := s[i]
			if escaped {
				escaped = false
				continue
			}
			if c == '\\' {
				escaped = true
				continue
			}
			if c == '"' {
				end = i
				break
			}
		}
		if end == -1 {
			return "", false, 0, parsingErrorf(0, 0, ErrUnterminatedString, "unterminated quoted key")
		}
		decoded, uerr := format.Unescape(s[1:end])
		if uerr != nil {
			return "", false, 0, parsingErrorf(0, 0, ErrInvalidEscape, uerr.Error())
		}
		return decoded, true, end + 1, nil
	}
	i := 0
	for i < len(s) && format.KeyBodyRune(s[i]) {
		i++
	}
	if i == 0 {
		return "", false, 0, parsingErrorf(0, 0, ErrUnexpectedToken, "expected a key")
	}
	return s[:i], false, i, nil
}

// parseObject consumes consecutive field lines at indent, applying
// duplicate-key/path-expansion rules once the whole set is known.
func (ds *decodeState) parseObject(indent int) (Value, error) {
	raw, err := ds.parseRawFields(indent)
	if err != nil {
		return Value{}, err
	}
	obj, err := ds.finalizeObject(raw)
	if err != nil {
		return Value{}, err
	}
	return ObjectValue(obj), nil
}

// parseRawFields is the shared field-reading loop used both at plain object
// indent levels and for the continuation fields of a structured EXPANDED
// array element.
func (ds *decodeState) parseRawFields(indent int) ([]rawField, error) {
	var raw []rawField
	for {
		ds.skipBlank()
		line, ok := ds.peek()
		if !ok || line.Indent != indent {
			break
		}
		content := line.Content
		if !looksLikeObjectField(strings.TrimSpace(content)) {
			break
		}
		trimmed := strings.TrimSpace(content)
		key, quoted, restIdx, err := parseFieldKey(trimmed)
		if err != nil {
			return nil, parsingErrorAt(line.Number, line.Column, err)
		}
		ds.pos++
		val, err := ds.parseFieldValue(trimmed, restIdx, line, indent, ds.cfg.delimiter.Rune())
		if err != nil {
			return nil, err
		}
		raw = append(raw, rawField{Key: key, Quoted: quoted, Value: val})
	}
	return raw, nil
}

// parseFieldValue parses what follows a field's key token: an array header
// fused directly to the key, a ": value" primitive, or ":" followed by a
// nested value on subsequent, deeper-indented lines. defaultDelim is the
// delimiter an unmarked array header on this field falls back to: the
// document's configured delimiter for an ordinary field, or COMMA for the
// first field of a structured EXPANDED element (Section 4.9's nested-array
// reset applies there too).
func (ds *decodeState) parseFieldValue(content string, restIdx int, line parse.Line, indent int, defaultDelim rune) (Value, error) {
	if restIdx >= len(content) {
		return Value{}, parsingErrorf(line.Number, line.Column, ErrUnexpectedToken, "expected ':' or '[' after key")
	}
	switch content[restIdx] {
	case '[':
		return ds.parseArrayHeaderAndBody(content[restIdx:], line, indent, defaultDelim)
	case ':':
		rest := strings.TrimSpace(content[restIdx+1:])
		if rest == "" {
			return ds.parseValue(indent + 1)
		}
		return ds.parsePrimitiveToken(rest, line.Number, line.Column)
	default:
		return Value{}, parsingErrorf(line.Number, line.Column, ErrUnexpectedToken, "expected ':' or '[' after key")
	}
}

func parsingErrorAt(line, column int, err error) error {
	if te, ok := err.(*Error); ok {
		te.Line = line
		te.Column = column
		return te
	}
	return parsingErrorf(line, column, ErrUnexpectedToken, err.Error())
}

// finalizeObject applies duplicate-key rejection (or path expansion, which
// subsumes it) to a flat list of parsed fields.
func (ds *decodeState) finalizeObject(raw []rawField) (Object, error) {
	if ds.cfg.pathExpansion {
		return expandFields(raw, ds.cfg.strict)
	}
	b := NewBuilder()
	for _, f := range raw {
		if !b.Add(f.Key, f.Value) {
			if ds.cfg.strict {
				return Object{}, validationErrorf(0, 0, ErrDuplicateKey, "duplicate key %q", f.Key)
			}
			b.Replace(f.Key, f.Value)
		}
	}
	return b.Object(), nil
}

// parseArrayHeaderAndBody parses "[N]" / "[N D]" followed by either ":"
// (inline or expanded) or "{fields}:" (tabular), then dispatches to the
// matching body parser. s starts at '[' and the header's line has already
// been consumed (ds.pos advanced) by the caller. defaultDelim is the
// delimiter this header falls back to when it carries no trailing
// tab/pipe marker (Section 4.9: the document's configured delimiter at the
// document root and for ordinary fields, COMMA for arrays nested directly
// under a dash or fused to a structured element's first field).
func (ds *decodeState) parseArrayHeaderAndBody(s string, line parse.Line, indent int, defaultDelim rune) (Value, error) {
	n, delim, rest, err := parseArrayHeader(s, defaultDelim)
	if err != nil {
		return Value{}, parsingErrorf(line.Number, line.Column, ErrUnexpectedToken, err.Error())
	}
	switch {
	case strings.HasPrefix(rest, "{"):
		return ds.parseTabularArray(n, delim, rest, line, indent)
	case strings.HasPrefix(rest, ":"):
		body := strings.TrimSpace(rest[1:])
		if body == "" {
			return ds.parseExpandedArray(n, indent+1)
		}
		return ds.parseInlineArray(n, delim, body, line)
	default:
		return Value{}, parsingErrorf(line.Number, line.Column, ErrUnexpectedToken, "malformed array header")
	}
}

// parseArrayHeader parses the "[N]" or "[N D]" prefix of s, returning the
// declared length, the delimiter it selects (defaultDelim if unmarked, as
// chosen by the caller), and whatever follows the closing ']'.
func parseArrayHeader(s string, defaultDelim rune) (int, rune, string, error) {
	end := strings.IndexByte(s, ']')
	if end == -1 {
		return 0, 0, "", errUnterminatedHeader
	}
	inner := s[1:end]
	rest := s[end+1:]
	delim := defaultDelim
	digits := inner
	if len(inner) > 0 {
		last := inner[len(inner)-1]
		if last == byte(DelimiterTab.Rune()) || last == byte(DelimiterPipe.Rune()) {
			delim = rune(last)
			digits = inner[:len(inner)-1]
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0, "", errInvalidArrayLength
	}
	return n, delim, rest, nil
}

var (
	errUnterminatedHeader = errors.New("unterminated array header")
	errInvalidArrayLength = errors.New("invalid array length")
)

// parseInlineArray splits body on delim and parses each field as a
// primitive.
func (ds *decodeState) parseInlineArray(n int, delim rune, body string, line parse.Line) (Value, error) {
	fields, err := parse.Split(body, delim)
	if err != nil {
		return Value{}, parsingErrorf(line.Number, line.Column, ErrUnterminatedString, err.Error())
	}
	if len(fields) != n && ds.cfg.strict {
		return Value{}, validationErrorf(line.Number, line.Column, ErrArrayLengthMismatch, "array declares length %d, got %d elements", n, len(fields))
	}
	elements := make([]Value, 0, len(fields))
	for _, f := range fields {
		v, err := ds.parsePrimitiveToken(f, line.Number, line.Column)
		if err != nil {
			return Value{}, err
		}
		elements = append(elements, v)
	}
	return ArrayValue(elements...), nil
}

// parseTabularArray reads the "{fields}:" header tail and then exactly the
// declared number of rows (strict) or as many matching rows as follow
// (non-strict), each split by the header's delimiter into one object per
// row keyed by the header's field names.
func (ds *decodeState) parseTabularArray(n int, delim rune, s string, line parse.Line, indent int) (Value, error) {
	end := strings.IndexByte(s, '}')
	if end == -1 {
		return Value{}, parsingErrorf(line.Number, line.Column, ErrUnexpectedToken, "unterminated tabular header")
	}
	fieldsPart := s[1:end]
	tail := s[end+1:]
	if !strings.HasPrefix(tail, ":") {
		return Value{}, parsingErrorf(line.Number, line.Column, ErrUnexpectedToken, "expected ':' after tabular header")
	}
	fieldNames, err := parse.Split(fieldsPart, delim)
	if err != nil {
		return Value{}, parsingErrorf(line.Number, line.Column, ErrUnterminatedString, err.Error())
	}
	for i, fn := range fieldNames {
		if strings.HasPrefix(fn, "\"") {
			dec, derr := format.DecodeQuoted(fn)
			if derr != nil {
				return Value{}, parsingErrorf(line.Number, line.Column, ErrUnexpectedToken, derr.Error())
			}
			fieldNames[i] = dec
		}
	}

	rowIndent := indent + 1
	var rows []Value
	for {
		line2, ok := ds.peek()
		if !ok {
			break
		}
		if line2.Blank {
			if len(rows) >= n {
				break
			}
			if ds.cfg.strict {
				return Value{}, validationErrorf(line2.Number, line2.Column, ErrBlankLineInArray, "blank line inside array body")
			}
			ds.pos++
			continue
		}
		if line2.Indent != rowIndent {
			break
		}
		if ds.cfg.strict && len(rows) >= n {
			break
		}
		ds.pos++
		fields, serr := parse.Split(line2.Content, delim)
		if serr != nil {
			return Value{}, parsingErrorf(line2.Number, line2.Column, ErrUnterminatedString, serr.Error())
		}
		if len(fields) != len(fieldNames) && ds.cfg.strict {
			return Value{}, validationErrorf(line2.Number, line2.Column, ErrTabularRowWidth, "row has %d fields, header declares %d", len(fields), len(fieldNames))
		}
		b := NewBuilder()
		for i, fn := range fieldNames {
			if i >= len(fields) {
				break
			}
			v, perr := ds.parsePrimitiveToken(fields[i], line2.Number, line2.Column)
			if perr != nil {
				return Value{}, perr
			}
			b.Add(fn, v)
		}
		rows = append(rows, ObjectValue(b.Object()))
	}
	if len(rows) != n && ds.cfg.strict {
		return Value{}, validationErrorf(line.Number, line.Column, ErrArrayLengthMismatch, "array declares length %d, got %d rows", n, len(rows))
	}
	return ArrayValue(rows...), nil
}

// parseExpandedArray reads dash-prefixed elements at elementIndent until
// the declared count is reached (or, non-strict, until lines stop matching).
func (ds *decodeState) parseExpandedArray(n int, elementIndent int) (Value, error) {
	var elements []Value
	for {
		line, ok := ds.peek()
		if !ok {
			break
		}
		if line.Blank {
			if len(elements) >= n {
				break
			}
			if ds.cfg.strict {
				return Value{}, validationErrorf(line.Number, line.Column, ErrBlankLineInArray, "blank line inside array body")
			}
			ds.pos++
			continue
		}
		if line.Indent != elementIndent {
			break
		}
		trimmed := strings.TrimSpace(line.Content)
		if trimmed != "-" && !strings.HasPrefix(trimmed, "- ") {
			break
		}
		if ds.cfg.strict && len(elements) >= n {
			break
		}
		ds.pos++
		elemContent := strings.TrimPrefix(trimmed, "-")
		elemContent = strings.TrimPrefix(elemContent, " ")
		v, err := ds.parseExpandedElement(elemContent, line, elementIndent+1)
		if err != nil {
			return Value{}, err
		}
		elements = append(elements, v)
	}
	if len(elements) != n && ds.cfg.strict {
		return Value{}, validationErrorf(0, 0, ErrArrayLengthMismatch, "array declares length %d, got %d elements", n, len(elements))
	}
	return ArrayValue(elements...), nil
}

// parseExpandedElement parses what follows "- " on a dash line: a nested
// array header, a structured element's first field, or a bare primitive.
func (ds *decodeState) parseExpandedElement(content string, line parse.Line, childIndent int) (Value, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return Value{}, parsingErrorf(line.Number, line.Column, ErrUnexpectedEOF, "empty array element")
	}
	switch {
	case strings.HasPrefix(trimmed, "["):
		return ds.parseArrayHeaderAndBody(trimmed, line, childIndent, DelimiterComma.Rune())
	case looksLikeObjectField(trimmed):
		return ds.parseStructuredElement(trimmed, line, childIndent)
	default:
		return ds.parsePrimitiveToken(trimmed, line.Number, line.Column)
	}
}

// parseStructuredElement parses a Structure array element: its first field
// inline on the dash line, then any remaining fields at childIndent.
func (ds *decodeState) parseStructuredElement(firstLineContent string, line parse.Line, childIndent int) (Value, error) {
	key, quoted, restIdx, err := parseFieldKey(firstLineContent)
	if err != nil {
		return Value{}, parsingErrorAt(line.Number, line.Column, err)
	}
	firstVal, err := ds.parseFieldValue(firstLineContent, restIdx, line, childIndent, DelimiterComma.Rune())
	if err != nil {
		return Value{}, err
	}
	restRaw, err := ds.parseRawFields(childIndent)
	if err != nil {
		return Value{}, err
	}
	raw := append([]rawField{{Key: key, Quoted: quoted, Value: firstVal}}, restRaw...)
	obj, err := ds.finalizeObject(raw)
	if err != nil {
		return Value{}, err
	}
	return ObjectValue(obj), nil
}

// parsePrimitiveToken parses a single primitive token: a quoted string, the
// null/true/false literals, a number, or (per the fallback the original
// reference decoder applies for lenient input) a bare unquoted string.
func (ds *decodeState) parsePrimitiveToken(tok string, lineNumber, column int) (Value, error) {
	if strings.HasPrefix(tok, "\"") {
		s, err := format.DecodeQuoted(tok)
		if err != nil {
			return Value{}, parsingErrorf(lineNumber, column, ErrUnterminatedString, err.Error())
		}
		return String(s), nil
	}
	switch tok {
	case "null":
		return Null(), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}
	if format.LooksNumeric(tok) {
		return numberFromCanonical(format.CanonicalizeNumberText(tok)), nil
	}
	return String(tok), nil
}
