package toon

import (
	"strings"

	"github.com/daphil19/ktoon/internal/format"
)

// foldKeysValue applies SAFE key folding (Section 4.7) to every object
// reachable from v.
func foldKeysValue(v Value, flattenDepth int) Value {
	switch v.Kind() {
	case KindObject:
		return ObjectValue(foldObject(v.Object(), flattenDepth))
	case KindArray:
		elems := v.Array()
		folded := make([]Value, len(elems))
		for i, e := range elems {
			folded[i] = foldKeysValue(e, flattenDepth)
		}
		return ArrayValue(folded...)
	default:
		return v
	}
}

func foldObject(obj Object, flattenDepth int) Object {
	b := NewBuilder()
	for _, f := range obj.Fields {
		segments, leaf := foldChain(f.Key, f.Value, flattenDepth)
		key := strings.Join(segments, ".")
		if !b.Add(key, leaf) {
			// A misbehaving fold collision (two distinct chains collapsing to
			// the same dotted key): keep the earlier value, leave this one
			// under its own unfolded top-level key instead of losing it.
			b.Add(f.Key, foldKeysValue(f.Value, flattenDepth))
		}
	}
	return b.Object()
}

// foldChain walks the single-field-object chain starting at key/v, returning
// the path segments collapsed so far and the leaf value (itself folded
// internally). Folding stops as soon as a segment fails the unquoted-key
// grammar, the object has more than one field, or flattenDepth segments have
// been collected.
func foldChain(key string, v Value, flattenDepth int) ([]string, Value) {
	if !format.IsValidUnquotedKey(key) {
		return []string{key}, foldKeysValue(v, flattenDepth)
	}
	limit := flattenDepth
	if limit <= 0 {
		limit = 1<<31 - 1
	}
	segments := []string{key}
	cur := v
	for len(segments) < limit {
		if cur.Kind() != KindObject {
			break
		}
		obj := cur.Object()
		if len(obj.Fields) != 1 {
			break
		}
		only := obj.Fields[0]
		if !format.IsValidUnquotedKey(only.Key) {
			break
		}
		segments = append(segments, only.Key)
		cur = only.Value
	}
	return segments, foldKeysValue(cur, flattenDepth)
}

// rawField is an object field as parsed from text, before path-expansion
// merging: Quoted records whether the key appeared as a quoted string in the
// source, which exempts it from dotted-key expansion (Section 4.7).
type rawField struct {
	Key    string
	Quoted bool
	Value  Value
}

// expandFields builds the final Object for a parsed set of fields, applying
// decode-time path expansion when any key is an unquoted dotted path.
func expandFields(fields []rawField, strict bool) (Object, error) {
	b := NewBuilder()
	for _, f := range fields {
		if f.Quoted || !strings.Contains(f.Key, ".") {
			if !addOrMerge(b, f.Key, f.Value, strict) {
				return Object{}, validationErrorf(0, 0, ErrDuplicateKey, "duplicate key %q", f.Key)
			}
			continue
		}
		segments := strings.Split(f.Key, ".")
		if err := mergePath(b, segments, f.Value, strict); err != nil {
			return Object{}, err
		}
	}
	return b.Object(), nil
}

// addOrMerge adds key/v to b. If key is already present it reports false in
// strict mode and otherwise replaces the earlier value (last-writer-wins);
// it never merges the two values (only reachable here when path expansion produces two
// top-level assignments to a plain, undotted key — reported as a duplicate
// key in strict mode rather than silently merged, matching §4.8/§3).
func addOrMerge(b *Builder, key string, v Value, strict bool) bool {
	if !b.Has(key) {
		b.Add(key, v)
		return true
	}
	if strict {
		return false
	}
	b.Replace(key, v)
	return true
}

func mergePath(b *Builder, segments []string, v Value, strict bool) error {
	head := segments[0]
	if len(segments) == 1 {
		if !b.Has(head) {
			b.Add(head, v)
			return nil
		}
		existing, _ := b.Get(head)
		merged, err := mergeValue(existing, v, strict)
		if err != nil {
			return err
		}
		b.Replace(head, merged)
		return nil
	}

	var childObj Object
	if b.Has(head) {
		existing, _ := b.Get(head)
		if existing.Kind() != KindObject {
			if strict {
				return validationErrorf(0, 0, ErrExpansionConflict, "path expansion conflict at %q", head)
			}
		} else {
			childObj = existing.Object()
		}
	}
	childBuilder := builderFromObject(childObj)
	if err := mergePath(childBuilder, segments[1:], v, strict); err != nil {
		return err
	}
	b.Replace(head, ObjectValue(childBuilder.Object()))
	return nil
}

// mergeValue combines an existing value with a newly expanded one at the
// same path. Two objects deep-merge field by field; any other clash is an
// expansion conflict in strict mode, and last-writer-wins otherwise.
func mergeValue(existing, v Value, strict bool) (Value, error) {
	if existing.Kind() == KindObject && v.Kind() == KindObject {
		b := builderFromObject(existing.Object())
		for _, f := range v.Object().Fields {
			if !b.Has(f.Key) {
				b.Add(f.Key, f.Value)
				continue
			}
			ex, _ := b.Get(f.Key)
			merged, err := mergeValue(ex, f.Value, strict)
			if err != nil {
				return Value{}, err
			}
			b.Replace(f.Key, merged)
		}
		return ObjectValue(b.Object()), nil
	}
	if strict {
		return Value{}, validationErrorf(0, 0, ErrExpansionConflict, "path expansion conflict")
	}
	return v, nil
}

func builderFromObject(obj Object) *Builder {
	b := NewBuilder()
	for _, f := range obj.Fields {
		b.Add(f.Key, f.Value)
	}
	return b
}
