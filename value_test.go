package toon

import "testing"

func TestNumberFromFloat64CollapsesNegativeZero(t *testing.T) {
	v := NumberFromFloat64(-0.0)
	if v.Number() != "0" {
		t.Errorf("NumberFromFloat64(-0.0).Number() = %q, want %q", v.Number(), "0")
	}
}

func TestNumberFromFloat64NonFiniteIsNull(t *testing.T) {
	inf := 1.0
	for i := 0; i < 2000; i++ {
		inf *= 10
	}
	v := NumberFromFloat64(inf)
	if !v.IsNull() {
		t.Errorf("NumberFromFloat64(+Inf) should be Null, got kind %v", v.Kind())
	}
}

func TestObjectGetSet(t *testing.T) {
	obj := NewObject(Field{Key: "a", Value: NumberFromInt64(1)})
	obj.Set("b", String("x"))
	obj.Set("a", NumberFromInt64(2))

	v, ok := obj.Get("a")
	if !ok || v.Number() != "2" {
		t.Errorf("Get(a) = (%v, %v), want (2, true)", v, ok)
	}
	if !obj.Has("b") {
		t.Error("Has(b) = false, want true")
	}
	if len(obj.Fields) != 2 {
		t.Errorf("len(Fields) = %d, want 2 (Set on existing key must not duplicate)", len(obj.Fields))
	}
}

func TestBuilderRejectsDuplicates(t *testing.T) {
	b := NewBuilder()
	if !b.Add("k", String("1")) {
		t.Fatal("first Add should succeed")
	}
	if b.Add("k", String("2")) {
		t.Error("second Add with the same key should report false")
	}
	b.Replace("k", String("3"))
	v, _ := b.Get("k")
	if v.StringValue() != "3" {
		t.Errorf("Replace did not overwrite: got %q", v.StringValue())
	}
}

func TestValueAccessorsPanicOnWrongKind(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic calling Number() on a string Value")
		}
	}()
	String("x").Number()
}
