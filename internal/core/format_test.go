package core

import "testing"

func TestFormatRupees(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{9000, "9,000"},
		{34000, "34,000"},
		{100000, "1,00,000"},
		{12345678, "1,23,45,678"},
	}
	for _, tc := range cases {
		if got := FormatRupees(tc.in); got != tc.want {
			t.Fatalf("FormatRupees(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{100000, "1,00,000"},
		{1234.5, "1,234.5"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.want {
			t.Fatalf("FormatCurrency(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
