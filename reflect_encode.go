package toon

import (
	"reflect"
	"sort"
)

// Marshaler lets a type take over its own encoding by returning a plain Go
// value (nil, bool, a numeric type, string, a slice, or a map[string]any)
// that is then normalized the ordinary way. Mirrors the teacher's
// Marshaler/MarshalNT pair, adapted to this codec's name.
type Marshaler interface {
	MarshalTOON() (any, error)
}

// Marshal normalizes v into the core Value tree via reflection and encodes
// it to TOON text. Struct fields use a `toon:"name,omitempty"` tag; map keys
// must be strings and are emitted in sorted order.
func Marshal(v any, opts ...EncodeOption) ([]byte, error) {
	s, err := MarshalString(v, opts...)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// MarshalString is Marshal, returning a string directly.
func MarshalString(v any, opts ...EncodeOption) (string, error) {
	enc, err := NewEncoder(opts...)
	if err != nil {
		return "", err
	}
	value, err := normalize(reflect.ValueOf(v), nil)
	if err != nil {
		return "", err
	}
	return enc.Encode(value)
}

// normalize walks an arbitrary Go value with reflection, producing the core
// Value tree. seen tracks pointer/map/slice addresses already on the
// current path, so a cyclic graph is rejected with an EncodingError instead
// of recursing forever (Section 9: "Encoders that accept general object
// graphs must detect and reject cycles").
func normalize(rv reflect.Value, seen map[uintptr]bool) (Value, error) {
	if !rv.IsValid() {
		return Null(), nil
	}
	if rv.CanInterface() {
		if m, ok := rv.Interface().(Marshaler); ok {
			out, err := m.MarshalTOON()
			if err != nil {
				return Value{}, wrapError(KindEncodingError, ErrUnsupportedValue, "MarshalTOON failed", err)
			}
			return normalize(reflect.ValueOf(out), seen)
		}
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		ptr := rv.Pointer()
		if seen[ptr] {
			return Value{}, encodingErrorCodef(ErrCircularReference, "circular reference detected")
		}
		return normalize(rv.Elem(), withSeen(seen, ptr))

	case reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return normalize(rv.Elem(), seen)

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NumberFromInt64(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NumberFromUint64(rv.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return NumberFromFloat64(rv.Float()), nil

	case reflect.Array:
		return normalizeSequence(rv, seen)

	case reflect.Slice:
		if rv.IsNil() {
			return ArrayValue(), nil
		}
		ptr := rv.Pointer()
		if seen[ptr] {
			return Value{}, encodingErrorCodef(ErrCircularReference, "circular reference detected")
		}
		return normalizeSequence(rv, withSeen(seen, ptr))

	case reflect.Map:
		return normalizeMap(rv, seen)

	case reflect.Struct:
		return normalizeStruct(rv, seen)

	default:
		return Value{}, encodingErrorf("unable to encode type %s", rv.Type())
	}
}

func normalizeSequence(rv reflect.Value, seen map[uintptr]bool) (Value, error) {
	elems := make([]Value, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		v, err := normalize(rv.Index(i), seen)
		if err != nil {
			return Value{}, err
		}
		elems[i] = v
	}
	return ArrayValue(elems...), nil
}

func normalizeMap(rv reflect.Value, seen map[uintptr]bool) (Value, error) {
	if rv.IsNil() {
		return ObjectValue(Object{}), nil
	}
	if rv.Type().Key().Kind() != reflect.String {
		return Value{}, encodingErrorf("map key type %s is not supported, keys must be strings", rv.Type().Key())
	}
	ptr := rv.Pointer()
	if seen[ptr] {
		return Value{}, encodingErrorCodef(ErrCircularReference, "circular reference detected")
	}
	seen = withSeen(seen, ptr)

	keys := rv.MapKeys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	sort.Strings(names)

	b := NewBuilder()
	keyType := rv.Type().Key()
	for _, name := range names {
		val, err := normalize(rv.MapIndex(reflect.ValueOf(name).Convert(keyType)), seen)
		if err != nil {
			return Value{}, err
		}
		b.Add(name, val)
	}
	return ObjectValue(b.Object()), nil
}

func normalizeStruct(rv reflect.Value, seen map[uintptr]bool) (Value, error) {
	info := getStructInfo(rv.Type())
	b := NewBuilder()
	for _, fi := range info.fields {
		if fi.ignore {
			continue
		}
		fv := rv.Field(fi.index)
		if fi.omitEmpty && isEmptyValue(fv) {
			continue
		}
		val, err := normalize(fv, seen)
		if err != nil {
			return Value{}, err
		}
		name := fi.encodedName()
		if !b.Add(name, val) {
			return Value{}, encodingErrorCodef(ErrDuplicateField, "duplicate field %q", name)
		}
	}
	return ObjectValue(b.Object()), nil
}

func withSeen(seen map[uintptr]bool, ptr uintptr) map[uintptr]bool {
	next := make(map[uintptr]bool, len(seen)+1)
	for k := range seen {
		next[k] = true
	}
	next[ptr] = true
	return next
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	}
	return false
}
