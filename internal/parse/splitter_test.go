package parse

import (
	"reflect"
	"testing"
)

func TestSplitComma(t *testing.T) {
	got, err := Split("a, b ,c", ',')
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSplitQuotedPreservesDelimiter(t *testing.T) {
	got, err := Split(`"a,b",c`, ',')
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	want := []string{`"a,b"`, "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSplitTabTrimsOnlySpaces(t *testing.T) {
	got, err := Split("a \t b", '\t')
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	want := []string{"a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSplitUnterminatedQuote(t *testing.T) {
	if _, err := Split(`"unterminated`, ','); err == nil {
		t.Error("expected error for unterminated quoted field")
	}
}
