// Package toon implements TOON (Token-Oriented Object Notation), a
// human-readable, indentation-sensitive text format for representing
// JSON-equivalent data — objects, arrays, strings, numbers, booleans, and
// null — more compactly than JSON while preserving round-trip fidelity for
// typed data.
//
// The core of the package is a pair of algorithms operating on Value, a
// tagged union modeling the data model of Section 3: encode renders a Value
// to TOON text, and decode parses TOON text back into a Value. Encoder and
// Decoder hold immutable configuration (delimiter, indent size, strictness,
// key folding/path expansion) built with functional options.
//
// Marshal and Unmarshal layer reflection-driven convenience over the core,
// normalizing arbitrary Go values (structs, maps, slices, primitives) to and
// from a Value tree, the way encoding/json does for JSON. Struct fields use
// a `toon:"name,omitempty"` tag.
package toon

// Encode renders v to TOON text, applying opts over the default
// configuration.
func Encode(v Value, opts ...EncodeOption) (string, error) {
	enc, err := NewEncoder(opts...)
	if err != nil {
		return "", err
	}
	return enc.Encode(v)
}

// Decode parses TOON text into a Value tree, applying opts over the default
// configuration.
func Decode(text string, opts ...DecodeOption) (Value, error) {
	dec, err := NewDecoder(opts...)
	if err != nil {
		return Value{}, err
	}
	return dec.Decode(text)
}
