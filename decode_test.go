package toon

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var cmpValue = cmp.Comparer(func(a, b Value) bool {
	ea, erra := Encode(a)
	eb, errb := Encode(b)
	if erra != nil || errb != nil {
		return false
	}
	return ea == eb
})

func expectDecode(t *testing.T, text string, want Value, opts ...DecodeOption) {
	t.Helper()
	got, err := Decode(text, opts...)
	if err != nil {
		t.Fatalf("Decode(%q) returned error: %v", text, err)
	}
	if diff := cmp.Diff(want, got, cmpValue); diff != "" {
		t.Errorf("Decode(%q) mismatch (-want +got):\n%s", text, diff)
	}
}

func TestDecodeSimpleObject(t *testing.T) {
	want := ObjectValue(NewObject(
		Field{Key: "variety", Value: String("Granny Smith")},
		Field{Key: "weight", Value: NumberFromFloat64(1.2)},
	))
	expectDecode(t, "variety: Granny Smith\nweight: 1.2", want)
}

func TestDecodeTabularArray(t *testing.T) {
	want := ObjectValue(NewObject(Field{Key: "users", Value: ArrayValue(
		ObjectValue(NewObject(Field{Key: "id", Value: NumberFromInt64(1)}, Field{Key: "name", Value: String("Alice")})),
		ObjectValue(NewObject(Field{Key: "id", Value: NumberFromInt64(2)}, Field{Key: "name", Value: String("Bob")})),
	)}))
	expectDecode(t, "users[2]{id,name}:\n  1,Alice\n  2,Bob", want)
}

func TestDecodeInlinePipeDelimiter(t *testing.T) {
	want := ObjectValue(NewObject(Field{Key: "tags", Value: ArrayValue(String("a"), String("b"), String("c"))}))
	expectDecode(t, "tags[3|]: a|b|c", want)
}

func TestDecodeQuotedStringThatLooksLikeLiteral(t *testing.T) {
	want := ObjectValue(NewObject(Field{Key: "s", Value: String("true")}))
	expectDecode(t, `s: "true"`, want)
}

func TestDecodeExpandedArray(t *testing.T) {
	want := ArrayValue(String("a"), String("b"))
	expectDecode(t, "[2]:\n  - a\n  - b", want)
}

func TestDecodeEmptyInlineArray(t *testing.T) {
	want := ObjectValue(NewObject(Field{Key: "xs", Value: ArrayValue()}))
	expectDecode(t, "xs[0]:", want)
}

func TestDecodeNestedArrayDefaultsToComma(t *testing.T) {
	want := ArrayValue(ArrayValue(String("a"), String("b")))
	expectDecode(t, "[1|]:\n  - [2]: a,b", want, WithDecodeDelimiter(DelimiterPipe))
}

func TestDecodeNullLiteral(t *testing.T) {
	expectDecode(t, "k: null", ObjectValue(NewObject(Field{Key: "k", Value: Null()})))
}

func TestDecodeEmptyDocumentIsNull(t *testing.T) {
	v, err := Decode("")
	if err != nil {
		t.Fatal(err)
	}
	if !v.IsNull() {
		t.Errorf("Decode(\"\") = %v, want Null", v)
	}
}

// Strict blank-line property, Section 8.
func TestDecodeStrictBlankLineInArrayErrors(t *testing.T) {
	_, err := Decode("items[2]:\n  - a\n\n  - b")
	if err == nil {
		t.Fatal("expected an error for a blank line inside a strict array body")
	}
}

func TestDecodeNonStrictBlankLineInArrayIsIgnored(t *testing.T) {
	want := ObjectValue(NewObject(Field{Key: "items", Value: ArrayValue(String("a"), String("b"))}))
	expectDecode(t, "items[2]:\n  - a\n\n  - b", want, WithStrict(false))
}

// Path-expansion merge property, Section 8.
func TestDecodePathExpansionMerge(t *testing.T) {
	want := ObjectValue(NewObject(Field{Key: "a", Value: ObjectValue(NewObject(
		Field{Key: "b", Value: ObjectValue(NewObject(Field{Key: "c", Value: NumberFromInt64(1)}))},
		Field{Key: "d", Value: NumberFromInt64(2)},
	))}))
	expectDecode(t, "a.b.c: 1\na.d: 2", want, WithPathExpansion(true))
}

func TestDecodePathExpansionQuotedKeyIsExempt(t *testing.T) {
	want := ObjectValue(NewObject(Field{Key: "a.b", Value: NumberFromInt64(1)}))
	expectDecode(t, `"a.b": 1`, want, WithPathExpansion(true))
}

func TestDecodeStrictArrayLengthMismatchErrors(t *testing.T) {
	_, err := Decode("[3]: a,b")
	if err == nil {
		t.Fatal("expected a length-mismatch error")
	}
	terr, ok := err.(*Error)
	if !ok || terr.Kind != KindValidationError || terr.Code != ErrArrayLengthMismatch {
		t.Errorf("got %#v, want ValidationError/ErrArrayLengthMismatch", err)
	}
}

func TestDecodeNonStrictArrayLengthMismatchTrustsActualCount(t *testing.T) {
	want := ArrayValue(String("a"), String("b"))
	expectDecode(t, "[3]: a,b", want, WithStrict(false))
}

func TestDecodeStrictDuplicateKeyErrors(t *testing.T) {
	_, err := Decode("a: 1\na: 2")
	if err == nil {
		t.Fatal("expected a duplicate-key error")
	}
}

func TestDecodeNonStrictDuplicateKeyLastWriterWins(t *testing.T) {
	want := ObjectValue(NewObject(Field{Key: "a", Value: NumberFromInt64(2)}))
	expectDecode(t, "a: 1\na: 2", want, WithStrict(false))
}

func TestDecodeUnterminatedStringErrors(t *testing.T) {
	_, err := Decode(`k: "unterminated`)
	if err == nil {
		t.Fatal("expected an unterminated-string error")
	}
}

func TestDecodeInvalidEscapeErrors(t *testing.T) {
	_, err := Decode(`k: "bad \q escape"`)
	if err == nil {
		t.Fatal("expected an invalid-escape error")
	}
}

func TestDecodeTabInIndentationErrors(t *testing.T) {
	_, err := Decode("a:\n\tb: 1")
	if err == nil {
		t.Fatal("expected an error for a tab character in indentation")
	}
	terr, ok := err.(*Error)
	if !ok || terr.Kind != KindValidationError || terr.Code != ErrInvalidIndentation {
		t.Errorf("got %#v, want ValidationError/ErrInvalidIndentation", err)
	}
}

func TestDecodeConfiguredDelimiterAppliesToUnmarkedHeader(t *testing.T) {
	want := ObjectValue(NewObject(Field{Key: "tags", Value: ArrayValue(String("a"), String("b"))}))
	expectDecode(t, "tags[2]: a|b", want, WithDecodeDelimiter(DelimiterPipe))
}

func TestDecodeNumberCanonicalization(t *testing.T) {
	v, err := Decode("1.50")
	if err != nil {
		t.Fatal(err)
	}
	if v.Number() != "1.5" {
		t.Errorf("Number() = %q, want %q", v.Number(), "1.5")
	}
}

func TestDecodeTabularRowWidthMismatchErrors(t *testing.T) {
	_, err := Decode("xs[1]{a,b}:\n  1")
	if err == nil {
		t.Fatal("expected a row-width mismatch error")
	}
	terr, ok := err.(*Error)
	if !ok || terr.Kind != KindValidationError || terr.Code != ErrTabularRowWidth {
		t.Errorf("got %#v, want ValidationError/ErrTabularRowWidth", err)
	}
}
