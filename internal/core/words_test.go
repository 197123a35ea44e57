package core

import (
	"errors"
	"strconv"
	"strings"
	"testing"
)

func TestToWords(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "શૂન્ય"},
		{1, "એક રૂપિયા પૂરા"},
		{19, "ઓગણીસ રૂપિયા પૂરા"},
		{20, "વીસ રૂપિયા પૂરા"},
		{45, "ચાલીસ પાંચ રૂપિયા પૂરા"},
		{100, "એક સો રૂપિયા પૂરા"},
		{115, "એક સો પંદર રૂપિયા પૂરા"},
		{999, "નવ સો નેવું નવ રૂપિયા પૂરા"},
		{1000, "એક હજાર રૂપિયા પૂરા"},
		{9000, "નવ હજાર રૂપિયા પૂરા"},
		{34000, "ત્રીસ ચાર હજાર રૂપિયા પૂરા"},
		{34500, "ત્રીસ ચાર હજાર પાંચ સો રૂપિયા પૂરા"},
		{100000, "એક લાખ રૂપિયા પૂરા"},
		{150000, "એક લાખ પચાસ હજાર રૂપિયા પૂરા"},
		{9999999, "નેવું નવ લાખ નેવું નવ હજાર નવ સો નેવું નવ રૂપિયા પૂરા"},
		{10000000, "10000000"},
		{25000001, "25000001"},
	}
	for _, tc := range cases {
		t.Run(strconv.FormatInt(tc.in, 10), func(t *testing.T) {
			got, err := ToWords(tc.in)
			if err != nil {
				t.Fatalf("ToWords(%d) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("ToWords(%d) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestToWordsUnitsAreDistinct(t *testing.T) {
	seen := map[string]int64{}
	for n := int64(1); n <= 19; n++ {
		got, err := ToWords(n)
		if err != nil {
			t.Fatalf("ToWords(%d): %v", n, err)
		}
		if !strings.HasSuffix(got, " "+currencyWord) {
			t.Fatalf("ToWords(%d) = %q, missing currency suffix", n, got)
		}
		word := strings.TrimSuffix(got, " "+currencyWord)
		if word != units[n] {
			t.Fatalf("ToWords(%d) word = %q, want %q", n, word, units[n])
		}
		if prev, dup := seen[word]; dup {
			t.Fatalf("ToWords(%d) and ToWords(%d) share the word %q", prev, n, word)
		}
		seen[word] = n
	}
}

func TestToWordsNoDoubleSpaces(t *testing.T) {
	for _, n := range []int64{100, 200, 1000, 1100, 10000, 100000, 100100, 2000000} {
		got, err := ToWords(n)
		if err != nil {
			t.Fatalf("ToWords(%d): %v", n, err)
		}
		if strings.Contains(got, "  ") || strings.HasPrefix(got, " ") {
			t.Fatalf("ToWords(%d) = %q has stray spaces", n, got)
		}
	}
}

func TestToWordsRejectsNegative(t *testing.T) {
	if _, err := ToWords(-1); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("ToWords(-1) error = %v, want ErrNegativeAmount", err)
	}
}
