package core

import (
	"errors"
	"testing"
)

func TestParseRupees(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 1, true},
		{"0", 0, true},
		{"34000", 34000, true},
		{"34,000", 34000, true},
		{"1,00,000", 100000, true},
		{" 9 000 ", 9000, true},
		{"₹500", 500, true},
		{"500.00", 500, true},
		{"12.50", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
		{".", 0, false},
		{"1,00,00,00,00,000", MaxAmount, true},
		{"1000000000001", 0, false},
		{"9223372036854775807", 0, false},
		{"99999999999999999999", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseRupees(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestParseRupeesRejectsHugeAmounts(t *testing.T) {
	for _, in := range []string{"1000000000001", "9223372036854775807", "99999999999999999999"} {
		if _, err := ParseRupees(in); !errors.Is(err, ErrAmountTooLarge) {
			t.Errorf("ParseRupees(%q) error = %v, want ErrAmountTooLarge", in, err)
		}
	}
}
