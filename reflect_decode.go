package toon

import (
	"reflect"
	"strconv"
)

// Unmarshaler lets a type take over its own decoding from a plain Go value
// (nil, bool, string, []any, map[string]any). Numbers arrive as their
// canonical decimal text in a string, not as a numeric type. Mirrors the
// teacher's Unmarshaler/UnmarshalNT pair.
type Unmarshaler interface {
	UnmarshalTOON(value any) error
}

// Unmarshal decodes data into v, which must be a non-nil pointer.
func Unmarshal(data []byte, v any, opts ...DecodeOption) error {
	return UnmarshalString(string(data), v, opts...)
}

// UnmarshalString is Unmarshal, reading from a string directly.
func UnmarshalString(text string, v any, opts ...DecodeOption) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return decodingErrorf(ErrTypeMismatch, "Unmarshal requires a non-nil pointer argument")
	}
	dec, err := NewDecoder(opts...)
	if err != nil {
		return err
	}
	value, err := dec.Decode(text)
	if err != nil {
		return err
	}
	return populate(value, rv.Elem())
}

// populate recursively fills rv from the decoded Value tree, the mirror
// image of normalize.
func populate(value Value, rv reflect.Value) error {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	if rv.CanAddr() {
		if u, ok := rv.Addr().Interface().(Unmarshaler); ok {
			return u.UnmarshalTOON(toPlainValue(value))
		}
	}

	switch rv.Kind() {
	case reflect.Interface:
		rv.Set(reflect.ValueOf(toPlainValue(value)))
		return nil
	case reflect.String:
		return populateString(value, rv)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return populateInt(value, rv)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return populateUint(value, rv)
	case reflect.Float32, reflect.Float64:
		return populateFloat(value, rv)
	case reflect.Bool:
		return populateBool(value, rv)
	case reflect.Slice:
		return populateSlice(value, rv)
	case reflect.Array:
		return populateArray(value, rv)
	case reflect.Map:
		return populateMap(value, rv)
	case reflect.Struct:
		return populateStruct(value, rv)
	default:
		return decodingErrorf(ErrTypeMismatch, "unsupported target type %s", rv.Type())
	}
}

// toPlainValue converts a decoded Value tree into the generic
// nil/bool/string/[]any/map[string]any shape Unmarshaler implementations and
// interface{} targets receive.
func toPlainValue(v Value) any {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBool:
		return v.Bool()
	case KindNumber:
		return v.Number()
	case KindString:
		return v.StringValue()
	case KindArray:
		arr := v.Array()
		out := make([]any, len(arr))
		for i, e := range arr {
			out[i] = toPlainValue(e)
		}
		return out
	case KindObject:
		obj := v.Object()
		out := make(map[string]any, len(obj.Fields))
		for _, f := range obj.Fields {
			out[f.Key] = toPlainValue(f.Value)
		}
		return out
	default:
		return nil
	}
}

func populateString(value Value, rv reflect.Value) error {
	if value.Kind() != KindString {
		return decodingErrorf(ErrTypeMismatch, "cannot decode %s into string", value.Kind())
	}
	rv.SetString(value.StringValue())
	return nil
}

func populateInt(value Value, rv reflect.Value) error {
	if value.Kind() != KindNumber {
		return decodingErrorf(ErrTypeMismatch, "cannot decode %s into %s", value.Kind(), rv.Type())
	}
	n, err := strconv.ParseInt(value.Number(), 10, rv.Type().Bits())
	if err != nil {
		return decodingErrorf(ErrTypeMismatch, "value %q does not fit in %s", value.Number(), rv.Type())
	}
	rv.SetInt(n)
	return nil
}

func populateUint(value Value, rv reflect.Value) error {
	if value.Kind() != KindNumber {
		return decodingErrorf(ErrTypeMismatch, "cannot decode %s into %s", value.Kind(), rv.Type())
	}
	n, err := strconv.ParseUint(value.Number(), 10, rv.Type().Bits())
	if err != nil {
		return decodingErrorf(ErrTypeMismatch, "value %q does not fit in %s", value.Number(), rv.Type())
	}
	rv.SetUint(n)
	return nil
}

func populateFloat(value Value, rv reflect.Value) error {
	if value.Kind() != KindNumber {
		return decodingErrorf(ErrTypeMismatch, "cannot decode %s into %s", value.Kind(), rv.Type())
	}
	f, err := strconv.ParseFloat(value.Number(), rv.Type().Bits())
	if err != nil {
		return decodingErrorf(ErrTypeMismatch, "value %q does not fit in %s", value.Number(), rv.Type())
	}
	rv.SetFloat(f)
	return nil
}

func populateBool(value Value, rv reflect.Value) error {
	if value.Kind() != KindBool {
		return decodingErrorf(ErrTypeMismatch, "cannot decode %s into bool", value.Kind())
	}
	rv.SetBool(value.Bool())
	return nil
}

func populateSlice(value Value, rv reflect.Value) error {
	if value.Kind() != KindArray {
		return decodingErrorf(ErrTypeMismatch, "cannot decode %s into slice", value.Kind())
	}
	elems := value.Array()
	slice := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
	for i, e := range elems {
		if err := populate(e, slice.Index(i)); err != nil {
			return err
		}
	}
	rv.Set(slice)
	return nil
}

func populateArray(value Value, rv reflect.Value) error {
	if value.Kind() != KindArray {
		return decodingErrorf(ErrTypeMismatch, "cannot decode %s into array", value.Kind())
	}
	elems := value.Array()
	if len(elems) != rv.Len() {
		return decodingErrorf(ErrTypeMismatch, "array has %d elements, target has %d", len(elems), rv.Len())
	}
	for i, e := range elems {
		if err := populate(e, rv.Index(i)); err != nil {
			return err
		}
	}
	return nil
}

func populateMap(value Value, rv reflect.Value) error {
	if value.Kind() != KindObject {
		return decodingErrorf(ErrTypeMismatch, "cannot decode %s into map", value.Kind())
	}
	if rv.Type().Key().Kind() != reflect.String {
		return decodingErrorf(ErrTypeMismatch, "map key type %s is not supported, keys must be strings", rv.Type().Key())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMap(rv.Type()))
	}
	elemType := rv.Type().Elem()
	keyType := rv.Type().Key()
	for _, f := range value.Object().Fields {
		elemValue := reflect.New(elemType).Elem()
		if err := populate(f.Value, elemValue); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(f.Key).Convert(keyType), elemValue)
	}
	return nil
}

func populateStruct(value Value, rv reflect.Value) error {
	if value.Kind() != KindObject {
		return decodingErrorf(ErrTypeMismatch, "cannot decode %s into struct %s", value.Kind(), rv.Type())
	}
	obj := value.Object()
	info := getStructInfo(rv.Type())
	seen := make(map[int]bool, len(obj.Fields))
	for _, f := range obj.Fields {
		fi := findField(info, f.Key)
		if fi == nil {
			continue
		}
		if err := populate(f.Value, rv.Field(fi.index)); err != nil {
			return err
		}
		seen[fi.index] = true
	}
	for _, fi := range info.fields {
		if fi.required && !seen[fi.index] {
			return decodingErrorf(ErrMissingField, "missing required field %q", fi.encodedName())
		}
	}
	return nil
}
