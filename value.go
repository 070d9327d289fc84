package toon

import "github.com/daphil19/ktoon/internal/format"

// Kind identifies which alternative of the Value tagged union is active.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is the tagged union described in Section 3 of the spec: every node
// of the tree the codec operates over is exactly one of Null, Bool, Number
// (canonical decimal text), String, Array, or Object.
type Value struct {
	kind Kind
	b    bool
	num  string
	str  string
	arr  []Value
	obj  Object
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// String returns a string value. The text is stored raw and unescaped;
// escaping is purely a property of serialization (Section 3).
func String(s string) Value { return Value{kind: KindString, str: s} }

// NumberFromInt64 returns a number value holding the exact decimal text of i.
func NumberFromInt64(i int64) Value {
	return Value{kind: KindNumber, num: format.CanonicalizeInt(i)}
}

// NumberFromUint64 returns a number value holding the exact decimal text of u.
func NumberFromUint64(u uint64) Value {
	return Value{kind: KindNumber, num: format.CanonicalizeUint(u)}
}

// NumberFromFloat64 returns a number value holding f's canonical decimal
// text. NaN and ±Inf have no decimal representation and are mapped to Null,
// per Section 4.2.
func NumberFromFloat64(f float64) Value {
	canon, ok := format.CanonicalizeFloat(f)
	if !ok {
		return Null()
	}
	return Value{kind: KindNumber, num: canon}
}

// numberFromCanonical wraps text that the caller has already canonicalized
// (used by the decoder, which canonicalizes raw number tokens itself).
func numberFromCanonical(canonical string) Value {
	return Value{kind: KindNumber, num: canonical}
}

// ArrayValue returns an array value wrapping elements in order.
func ArrayValue(elements ...Value) Value {
	return Value{kind: KindArray, arr: elements}
}

// ObjectValue returns an object value wrapping obj.
func ObjectValue(obj Object) Value {
	return Value{kind: KindObject, obj: obj}
}

// Kind reports which alternative of the union v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bool returns the boolean payload of v. It panics if v is not a KindBool.
func (v Value) Bool() bool {
	if v.kind != KindBool {
		panic("toon: Bool called on non-bool Value")
	}
	return v.b
}

// Number returns the canonical decimal text payload of v. It panics if v is
// not a KindNumber.
func (v Value) Number() string {
	if v.kind != KindNumber {
		panic("toon: Number called on non-number Value")
	}
	return v.num
}

// StringValue returns the string payload of v. It panics if v is not a KindString.
func (v Value) StringValue() string {
	if v.kind != KindString {
		panic("toon: StringValue called on non-string Value")
	}
	return v.str
}

// Array returns the element slice of v. It panics if v is not a KindArray.
func (v Value) Array() []Value {
	if v.kind != KindArray {
		panic("toon: Array called on non-array Value")
	}
	return v.arr
}

// Object returns the Object payload of v. It panics if v is not a KindObject.
func (v Value) Object() Object {
	if v.kind != KindObject {
		panic("toon: Object called on non-object Value")
	}
	return v.obj
}

// Field is a single key/value pair of an Object, in encounter order.
type Field struct {
	Key   string
	Value Value
}

// Object is an insertion-ordered mapping from string keys to Value, with
// keys required to be unique (Section 3).
type Object struct {
	Fields []Field
}

// NewObject constructs an Object from the given fields, in the order given.
// Callers are responsible for key uniqueness; the encoder detects and
// rejects duplicates rather than silently deduplicating (see the Design
// Notes on schema misbehavior in Section 9), while Set replaces the value
// of a key that is already present.
func NewObject(fields ...Field) Object {
	return Object{Fields: fields}
}

// IsEmpty reports whether obj has no fields.
func (obj Object) IsEmpty() bool { return len(obj.Fields) == 0 }

// Get returns the value stored under key and whether it was present.
func (obj Object) Get(key string) (Value, bool) {
	for _, f := range obj.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether key is present in obj.
func (obj Object) Has(key string) bool {
	_, ok := obj.Get(key)
	return ok
}

// Set appends key/value to obj, or replaces the existing field's value if
// key is already present. Set always succeeds; use Builder when duplicate
// keys must be rejected.
func (obj *Object) Set(key string, v Value) {
	for i := range obj.Fields {
		if obj.Fields[i].Key == key {
			obj.Fields[i].Value = v
			return
		}
	}
	obj.Fields = append(obj.Fields, Field{Key: key, Value: v})
}

// Builder accumulates Fields while enforcing key uniqueness, the way the
// decoder, key folding and the reflection layer's duplicate-field check
// need.
type Builder struct {
	fields []Field
	seen   map[string]int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{seen: make(map[string]int)}
}

// Add appends key/value. It reports false if key has already been added.
func (b *Builder) Add(key string, v Value) bool {
	if _, dup := b.seen[key]; dup {
		return false
	}
	b.seen[key] = len(b.fields)
	b.fields = append(b.fields, Field{Key: key, Value: v})
	return true
}

// Has reports whether key has already been added.
func (b *Builder) Has(key string) bool {
	_, ok := b.seen[key]
	return ok
}

// Get returns the value most recently stored under key.
func (b *Builder) Get(key string) (Value, bool) {
	idx, ok := b.seen[key]
	if !ok {
		return Value{}, false
	}
	return b.fields[idx].Value, true
}

// Replace overwrites the value stored under an already-added key (used by
// last-writer-wins merges in non-strict path expansion).
func (b *Builder) Replace(key string, v Value) {
	idx, ok := b.seen[key]
	if !ok {
		b.Add(key, v)
		return
	}
	b.fields[idx].Value = v
}

// Object finalizes the Builder into an Object.
func (b *Builder) Object() Object {
	return Object{Fields: b.fields}
}
