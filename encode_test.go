package toon

import "testing"

func expectEncode(t *testing.T, v Value, want string, opts ...EncodeOption) {
	t.Helper()
	got, err := Encode(v, opts...)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if got != want {
		t.Errorf("Encode() =\n%q\nwant\n%q", got, want)
	}
}

func appleObject() Value {
	return ObjectValue(NewObject(
		Field{Key: "variety", Value: String("Granny Smith")},
		Field{Key: "weight", Value: NumberFromFloat64(1.2)},
	))
}

// Scenario 1 of Section 8.
func TestEncodeSimpleObject(t *testing.T) {
	expectEncode(t, appleObject(), "variety: Granny Smith\nweight: 1.2")
}

// Scenario 2 of Section 8.
func TestEncodeTabularSingleElement(t *testing.T) {
	v := ArrayValue(appleObject())
	expectEncode(t, v, "[1]{variety,weight}:\n  Granny Smith,1.2")
}

// Scenario 3 of Section 8.
func TestEncodeTabularArrayField(t *testing.T) {
	v := ObjectValue(NewObject(Field{Key: "users", Value: ArrayValue(
		ObjectValue(NewObject(Field{Key: "id", Value: NumberFromInt64(1)}, Field{Key: "name", Value: String("Alice")})),
		ObjectValue(NewObject(Field{Key: "id", Value: NumberFromInt64(2)}, Field{Key: "name", Value: String("Bob")})),
	)}))
	expectEncode(t, v, "users[2]{id,name}:\n  1,Alice\n  2,Bob")
}

// Scenario 4 of Section 8.
func TestEncodeInlinePipeDelimiter(t *testing.T) {
	v := ObjectValue(NewObject(Field{Key: "tags", Value: ArrayValue(String("a"), String("b"), String("c"))}))
	expectEncode(t, v, "tags[3|]: a|b|c", WithDelimiter(DelimiterPipe))
}

// Scenario 5 of Section 8.
func TestEncodeStringThatLooksLikeLiteral(t *testing.T) {
	v := ObjectValue(NewObject(Field{Key: "s", Value: String("true")}))
	expectEncode(t, v, `s: "true"`)
}

// Scenario 6 of Section 8.
func TestEncodeKeyFolding(t *testing.T) {
	v := ObjectValue(NewObject(Field{Key: "a", Value: ObjectValue(NewObject(
		Field{Key: "b", Value: ObjectValue(NewObject(Field{Key: "c", Value: String("value")}))},
	))}))
	expectEncode(t, v, "a.b.c: value", WithKeyFolding(KeyFoldingSafe))
}

func TestEncodeEmptyInlineArray(t *testing.T) {
	expectEncode(t, ObjectValue(NewObject(Field{Key: "xs", Value: ArrayValue()})), "xs[0]:")
}

func TestEncodeExpandedArrayOfMixedPrimitivesAndObjects(t *testing.T) {
	v := ArrayValue(String("a"), ObjectValue(NewObject(Field{Key: "k", Value: NumberFromInt64(1)})))
	want := "[2]:\n  - a\n  - k: 1"
	expectEncode(t, v, want)
}

func TestEncodeExpandedStructuredElementWithMultipleFields(t *testing.T) {
	v := ArrayValue(
		ObjectValue(NewObject(Field{Key: "id", Value: NumberFromInt64(1)}, Field{Key: "tags", Value: ArrayValue(String("a"), String("b"))})),
		ObjectValue(NewObject(Field{Key: "id", Value: NumberFromInt64(2)})),
	)
	want := "[2]:\n  - id: 1\n    tags[2]: a,b\n  - id: 2"
	expectEncode(t, v, want)
}

func TestEncodeNestedArrayResetsDelimiterToComma(t *testing.T) {
	v := ArrayValue(ArrayValue(String("a"), String("b")))
	want := "[1|]:\n  - [2]: a,b"
	expectEncode(t, v, want, WithDelimiter(DelimiterPipe))
}

func TestEncodeNullChild(t *testing.T) {
	v := ObjectValue(NewObject(Field{Key: "k", Value: Null()}))
	expectEncode(t, v, "k: null")
}

func TestEncodeQuotesStringContainingActiveDelimiter(t *testing.T) {
	v := ArrayValue(String("a,b"), String("c"))
	expectEncode(t, v, `[2]: "a,b",c`)
}

func TestEncodeDoesNotQuoteCommaWhenDelimiterIsPipe(t *testing.T) {
	v := ArrayValue(String("a,b"), String("c"))
	expectEncode(t, v, "[2|]: a,b|c", WithDelimiter(DelimiterPipe))
}

func TestEncodeRejectsDuplicateFieldFromMisbehavingCaller(t *testing.T) {
	obj := Object{Fields: []Field{
		{Key: "a", Value: NumberFromInt64(1)},
		{Key: "a", Value: NumberFromInt64(2)},
	}}
	_, err := Encode(ObjectValue(obj))
	if err == nil {
		t.Fatal("expected an EncodingError for a duplicate field name")
	}
	terr, ok := err.(*Error)
	if !ok || terr.Kind != KindEncodingError || terr.Code != ErrDuplicateField {
		t.Errorf("got %#v, want EncodingError/ErrDuplicateField", err)
	}
}

func TestEncodeRootPrimitive(t *testing.T) {
	expectEncode(t, NumberFromInt64(42), "42")
	expectEncode(t, String("hi"), "hi")
	expectEncode(t, Null(), "null")
	expectEncode(t, Bool(true), "true")
}

func TestEncodeFlattenDepthLimitsFolding(t *testing.T) {
	v := ObjectValue(NewObject(Field{Key: "a", Value: ObjectValue(NewObject(
		Field{Key: "b", Value: ObjectValue(NewObject(Field{Key: "c", Value: String("value")}))},
	))}))
	want := "a.b:\n  c: value"
	expectEncode(t, v, want, WithKeyFolding(KeyFoldingSafe), WithFlattenDepth(2))
}
