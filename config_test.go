package toon

import "testing"

func TestWithIndentSizeValidatesRange(t *testing.T) {
	if _, err := NewEncoder(WithIndentSize(0)); err == nil {
		t.Error("expected error for indentSize below minimum")
	}
	if _, err := NewEncoder(WithIndentSize(17)); err == nil {
		t.Error("expected error for indentSize above maximum")
	}
	if _, err := NewEncoder(WithIndentSize(4)); err != nil {
		t.Errorf("unexpected error for valid indentSize: %v", err)
	}
}

func TestWithDelimiterValidation(t *testing.T) {
	if _, err := NewEncoder(WithDelimiter(Delimiter(99))); err == nil {
		t.Error("expected error for invalid delimiter")
	}
	if _, err := NewEncoder(WithDelimiter(DelimiterPipe)); err != nil {
		t.Errorf("unexpected error for valid delimiter: %v", err)
	}
}

func TestDecoderDefaultsAreStrict(t *testing.T) {
	dec, err := NewDecoder()
	if err != nil {
		t.Fatal(err)
	}
	if !dec.cfg.strict {
		t.Error("default decoder configuration should be strict")
	}
}

func TestDelimiterRuneAndString(t *testing.T) {
	cases := []struct {
		d    Delimiter
		rune rune
		str  string
	}{
		{DelimiterComma, ',', "COMMA"},
		{DelimiterTab, '\t', "TAB"},
		{DelimiterPipe, '|', "PIPE"},
	}
	for _, c := range cases {
		if c.d.Rune() != c.rune {
			t.Errorf("%v.Rune() = %q, want %q", c.d, c.d.Rune(), c.rune)
		}
		if c.d.String() != c.str {
			t.Errorf("%v.String() = %q, want %q", c.d, c.d.String(), c.str)
		}
	}
}
