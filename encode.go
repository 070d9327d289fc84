package toon

import (
	"strconv"
	"strings"

	"github.com/daphil19/ktoon/internal/format"
)

// Encoder renders a Value tree to TOON text under a fixed configuration.
// An Encoder is stateless between calls and safe for concurrent use.
type Encoder struct {
	cfg encoderConfig
}

// NewEncoder builds an Encoder, applying opts over the defaults (indentSize
// 2, delimiter COMMA, key folding off).
func NewEncoder(opts ...EncodeOption) (*Encoder, error) {
	cfg := defaultEncoderConfig()
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &Encoder{cfg: cfg}, nil
}

// Encode renders v to TOON text.
func (e *Encoder) Encode(v Value) (string, error) {
	if e.cfg.keyFolding == KeyFoldingSafe {
		v = foldKeysValue(v, e.cfg.flattenDepth)
	}
	es := &encodeState{cfg: e.cfg, w: format.NewWriter(e.cfg.indentSize)}
	var err error
	switch v.Kind() {
	case KindObject:
		err = es.encodeObject(v.Object(), 0)
	case KindArray:
		err = es.encodeArray("", v.Array(), 0, e.cfg.delimiter.Rune())
	default:
		es.startLine(0)
		es.w.WriteString(es.encodePrimitiveCtx(v, format.ContextObjectValue, e.cfg.delimiter.Rune()))
	}
	if err != nil {
		return "", err
	}
	return es.w.String(), nil
}

// encodeState carries the writer and the line-start bookkeeping shared by
// every recursive encode call.
type encodeState struct {
	cfg      encoderConfig
	w        *format.Writer
	wroteAny bool
}

// startLine emits a newline before every line except the very first one
// written to the document, then the indentation for level.
func (es *encodeState) startLine(level int) {
	if es.wroteAny {
		es.w.WriteNewline()
	}
	es.wroteAny = true
	es.w.WriteIndent(level)
}

func (es *encodeState) encodeKey(key string) string {
	return format.EncodeToken(key, format.ContextObjectKey, es.cfg.delimiter.Rune())
}

func (es *encodeState) encodePrimitiveCtx(v Value, ctx format.Context, delim rune) string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return v.Number()
	case KindString:
		return format.EncodeToken(v.StringValue(), ctx, delim)
	default:
		panic("toon: encodePrimitiveCtx called on a non-primitive Value")
	}
}

// encodeObject emits obj's fields in declaration order, each on its own
// line at the given indent level, rejecting duplicate keys per the
// misbehaving-schema-layer rule of Section 9.
func (es *encodeState) encodeObject(obj Object, level int) error {
	seen := make(map[string]bool, len(obj.Fields))
	for _, f := range obj.Fields {
		if seen[f.Key] {
			return encodingErrorCodef(ErrDuplicateField, "duplicate field %q", f.Key)
		}
		seen[f.Key] = true
		if err := es.encodeField(f.Key, f.Value, level); err != nil {
			return err
		}
	}
	return nil
}

// encodeField emits a single "key: value"-shaped line (or a key header
// followed by recursion), starting a new line first.
func (es *encodeState) encodeField(key string, v Value, level int) error {
	switch v.Kind() {
	case KindArray:
		return es.encodeArray(key, v.Array(), level, es.cfg.delimiter.Rune())
	case KindObject:
		es.startLine(level)
		es.w.WriteKey(es.encodeKey(key))
		return es.encodeObject(v.Object(), level+1)
	default:
		es.startLine(level)
		es.w.WriteKeyValue(es.encodeKey(key), es.encodePrimitiveCtx(v, format.ContextObjectValue, es.cfg.delimiter.Rune()))
		return nil
	}
}

// encodeInlineField emits a field continuing the current line, used for the
// first field of a structured EXPANDED-array element (Section 4.5: "the
// first field appears on the dash line as key: value"). level is the dash
// line's level; the element's other fields sit at level+1, so whatever
// follows this field on later lines (array rows or elements, nested object
// fields) goes one level deeper than those, where the decoder reads it.
func (es *encodeState) encodeInlineField(key string, v Value, level int) error {
	switch v.Kind() {
	case KindArray:
		return es.encodeArrayBody(key, v.Array(), level+1, DelimiterComma.Rune())
	case KindObject:
		es.w.WriteString(es.encodeKey(key))
		es.w.WriteByte(':')
		return es.encodeObject(v.Object(), level+2)
	default:
		es.w.WriteString(es.encodeKey(key))
		es.w.WriteString(": ")
		es.w.WriteString(es.encodePrimitiveCtx(v, format.ContextObjectValue, es.cfg.delimiter.Rune()))
		return nil
	}
}

// encodeArray starts a new line, then emits an array field or root array
// value in whichever of the three surface forms its elements select.
func (es *encodeState) encodeArray(key string, elements []Value, level int, delim rune) error {
	es.startLine(level)
	return es.encodeArrayBody(key, elements, level, delim)
}

// encodeArrayBody emits the array header and body on the current line
// position, without starting a new line first (so it can also serve a
// header that continues an already-open line, e.g. a NestedArray element or
// an array-valued first field of a structured EXPANDED element).
func (es *encodeState) encodeArrayBody(key string, elements []Value, level int, delim rune) error {
	format_, fieldNames := selectArrayFormat(elements)
	switch format_ {
	case formatInline:
		es.writeInlineArrayBody(key, elements, delim)
		return nil
	case formatTabular:
		es.writeTabularArrayBody(key, elements, fieldNames, level, delim)
		return nil
	default:
		return es.writeExpandedArrayBody(key, elements, level, delim)
	}
}

func (es *encodeState) keyPrefix(key string) string {
	if key == "" {
		return ""
	}
	return es.encodeKey(key)
}

func arrayHeaderBracket(n int, delim rune) string {
	if delim == DelimiterComma.Rune() {
		return "[" + strconv.Itoa(n) + "]"
	}
	return "[" + strconv.Itoa(n) + string(delim) + "]"
}

func (es *encodeState) writeInlineArrayBody(key string, elements []Value, delim rune) {
	header := es.keyPrefix(key) + arrayHeaderBracket(len(elements), delim) + ":"
	es.w.WriteString(header)
	if len(elements) == 0 {
		return
	}
	parts := make([]string, len(elements))
	for i, el := range elements {
		parts[i] = es.encodePrimitiveCtx(el, format.ContextArrayElement, delim)
	}
	es.w.WriteByte(' ')
	es.w.WriteString(strings.Join(parts, string(delim)))
}

func (es *encodeState) writeTabularArrayBody(key string, elements []Value, fieldNames []string, level int, delim rune) {
	quotedFields := make([]string, len(fieldNames))
	for i, fn := range fieldNames {
		quotedFields[i] = format.EncodeToken(fn, format.ContextObjectKey, delim)
	}
	header := es.keyPrefix(key) + arrayHeaderBracket(len(elements), delim) + "{" + strings.Join(quotedFields, string(delim)) + "}:"
	es.w.WriteString(header)
	for _, el := range elements {
		obj := el.Object()
		row := make([]string, len(fieldNames))
		for i, fn := range fieldNames {
			v, _ := obj.Get(fn)
			row[i] = es.encodePrimitiveCtx(v, format.ContextArrayElement, delim)
		}
		es.startLine(level + 1)
		es.w.WriteString(strings.Join(row, string(delim)))
	}
}

func (es *encodeState) writeExpandedArrayBody(key string, elements []Value, level int, delim rune) error {
	header := es.keyPrefix(key) + arrayHeaderBracket(len(elements), delim) + ":"
	es.w.WriteString(header)
	for _, el := range elements {
		es.startLine(level + 1)
		es.w.WriteString("- ")
		if err := es.encodeElement(el, level+1); err != nil {
			return err
		}
	}
	return nil
}

// encodeElement emits a single EXPANDED-array element, continuing the
// "- " prefix already written on the current line.
func (es *encodeState) encodeElement(v Value, dashLevel int) error {
	switch v.Kind() {
	case KindObject:
		obj := v.Object()
		if obj.IsEmpty() {
			return nil
		}
		first := obj.Fields[0]
		if err := es.encodeInlineField(first.Key, first.Value, dashLevel); err != nil {
			return err
		}
		seen := map[string]bool{first.Key: true}
		for _, f := range obj.Fields[1:] {
			if seen[f.Key] {
				return encodingErrorCodef(ErrDuplicateField, "duplicate field %q", f.Key)
			}
			seen[f.Key] = true
			if err := es.encodeField(f.Key, f.Value, dashLevel+1); err != nil {
				return err
			}
		}
		return nil
	case KindArray:
		return es.encodeArrayBody("", v.Array(), dashLevel+1, DelimiterComma.Rune())
	default:
		es.w.WriteString(es.encodePrimitiveCtx(v, format.ContextArrayElement, es.cfg.delimiter.Rune()))
		return nil
	}
}

// arrayFormat identifies which of the three surface forms Section 4.4
// selects for a given element slice.
type arrayFormat int

const (
	formatInline arrayFormat = iota
	formatTabular
	formatExpanded
)

func isPrimitiveValue(v Value) bool {
	switch v.Kind() {
	case KindNull, KindBool, KindNumber, KindString:
		return true
	default:
		return false
	}
}

// selectArrayFormat implements Section 4.4: INLINE if every element is a
// primitive, TABULAR if every element is an object sharing the same ordered
// field names with primitive values, EXPANDED otherwise. An empty array is
// always INLINE.
func selectArrayFormat(elements []Value) (arrayFormat, []string) {
	if len(elements) == 0 {
		return formatInline, nil
	}
	allPrimitive := true
	for _, el := range elements {
		if !isPrimitiveValue(el) {
			allPrimitive = false
			break
		}
	}
	if allPrimitive {
		return formatInline, nil
	}

	var fieldNames []string
	for i, el := range elements {
		if el.Kind() != KindObject {
			return formatExpanded, nil
		}
		obj := el.Object()
		names := make([]string, len(obj.Fields))
		for j, f := range obj.Fields {
			if !isPrimitiveValue(f.Value) {
				return formatExpanded, nil
			}
			names[j] = f.Key
		}
		if i == 0 {
			fieldNames = names
		} else if !sameFieldNames(fieldNames, names) {
			return formatExpanded, nil
		}
	}
	return formatTabular, fieldNames
}

func sameFieldNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
