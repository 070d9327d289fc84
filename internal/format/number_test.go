package format

import "testing"

func TestCanonicalizeFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
		ok   bool
	}{
		{0, "0", true},
		{-0.0, "0", true},
		{1.5, "1.5", true},
		{100, "100", true},
		{-42.25, "-42.25", true},
	}
	for _, c := range cases {
		got, ok := CanonicalizeFloat(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("CanonicalizeFloat(%v) = (%q, %v), want (%q, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestCanonicalizeFloatNonFinite(t *testing.T) {
	inf := 1.0
	for i := 0; i < 2000; i++ {
		inf *= 10
	}
	if _, ok := CanonicalizeFloat(inf); ok {
		t.Errorf("CanonicalizeFloat(+Inf) should report ok=false")
	}
	nan := inf - inf
	if _, ok := CanonicalizeFloat(nan); ok {
		t.Errorf("CanonicalizeFloat(NaN) should report ok=false")
	}
}

func TestCanonicalizeNumberText(t *testing.T) {
	cases := map[string]string{
		"0":         "0",
		"-0":        "0",
		"007":       "7",
		"1.200":     "1.2",
		"1.0":       "1",
		"-1.50":     "-1.5",
		"1e3":       "1000",
		"1.5e2":     "150",
		"1.5e-2":    "0.015",
		"123":       "123",
		"-123":      "-123",
		"0.00100":   "0.001",
		"10000000000000000000": "10000000000000000000",
	}
	for in, want := range cases {
		if got := CanonicalizeNumberText(in); got != want {
			t.Errorf("CanonicalizeNumberText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCanonicalizeIntUint(t *testing.T) {
	if got := CanonicalizeInt(-42); got != "-42" {
		t.Errorf("CanonicalizeInt(-42) = %q", got)
	}
	if got := CanonicalizeUint(42); got != "42" {
		t.Errorf("CanonicalizeUint(42) = %q", got)
	}
}
