package core

import (
	"math"
	"testing"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1000", 1000, true},
		{"1000.00", 1000, true},
		{"1000,50", 1000.5, true},
		{"1.000,50", 1000.5, true},
		{"1,000.50", 1000.5, true},
		{"1.000.000", 1000000, true},
		{"1.234.567,89", 1234567.89, true},
		{"R$ 2.500,00", 2500, true},
		{"1.000", 1, true},
		{"R$ 1.000", 1000, true},
		{"R$1.000", 1000, true},
		{"R$ 12.345", 12345, true},
		{"R$ 1.50", 1.5, true},
		{"R$ 1.5000", 1.5, true},
		{"R$ .500", 0, false},
		{" 5,5 ", 5.5, true},
		{",5", 0.5, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1,2,3", 0, false},
		{"1e5", 0, false},
		{"1.000,00,0", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimal(tc.in)
		if tc.ok {
			if err != nil || math.Abs(got-tc.out) > 1e-9 {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error, got %v", tc.in, got)
		}
	}
}

func TestParseTerm(t *testing.T) {
	if n, err := ParseTerm(" 12 "); err != nil || n != 12 {
		t.Fatalf("expected 12, got %d (err=%v)", n, err)
	}
	for _, in := range []string{"", "1.5", "doze"} {
		if _, err := ParseTerm(in); err == nil {
			t.Fatalf("%q expected error", in)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		in  float64
		out string
	}{
		{0, "R$ 0,00"},
		{5, "R$ 5,00"},
		{1000, "R$ 1.000,00"},
		{1795.856326, "R$ 1.795,86"},
		{1234567.891, "R$ 1.234.567,89"},
		{1004.9999999999999, "R$ 1.005,00"},
		{0.005, "R$ 0,01"},
		{-42.5, "-R$ 42,50"},
		{math.Inf(1), "R$ -"},
	}
	for _, tc := range cases {
		if got := FormatBRL(tc.in); got != tc.out {
			t.Errorf("FormatBRL(%v) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestFormatBRLWholeAndPercent(t *testing.T) {
	if got := FormatBRLWhole(1795.86); got != "R$ 1.796" {
		t.Errorf("FormatBRLWhole = %q", got)
	}
	if got := FormatPercent(5); got != "5,00%" {
		t.Errorf("FormatPercent = %q", got)
	}
	if got := FormatPercent(0.5); got != "0,50%" {
		t.Errorf("FormatPercent = %q", got)
	}
}
