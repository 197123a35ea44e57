package core

import (
	"strconv"
	"strings"
)

const (
	zeroWord     = "શૂન્ય"
	currencyWord = "રૂપિયા પૂરા"
	hundredWord  = "સો"
	thousandWord = "હજાર"
	lakhWord     = "લાખ"

	// wordsLimit is one crore. Amounts at or above it are not spelled out.
	wordsLimit = 10000000
)

// units holds the irregular words for 0..19; index 0 is the empty filler.
var units = [20]string{
	"", "એક", "બે", "ત્રણ", "ચાર", "પાંચ", "છ", "સાત", "આઠ", "નવ",
	"દસ", "અગિયાર", "બાર", "તેર", "ચૌદ", "પંદર", "સોળ", "સત્તર", "અઢાર", "ઓગણીસ",
}

// tens holds the multiples of ten; indices 0 and 1 are never used.
var tens = [10]string{
	"", "", "વીસ", "ત્રીસ", "ચાલીસ", "પચાસ", "સાઠ", "સિત્તર", "એંસી", "નેવું",
}

// ToWords spells out a whole rupee amount in Gujarati using the Indian
// numbering system, ending with the "rupees exactly" suffix.
//
// Zero returns the bare zero word. Amounts of one crore or more are
// returned as plain decimal digits. Negative amounts are rejected.
//
// Examples:
//
//	ToWords(0)      -> "શૂન્ય"
//	ToWords(100)    -> "એક સો રૂપિયા પૂરા"
//	ToWords(150000) -> "એક લાખ પચાસ હજાર રૂપિયા પૂરા"
func ToWords(amount int64) (string, error) {
	if amount < 0 {
		return "", ErrNegativeAmount
	}
	if amount == 0 {
		return zeroWord, nil
	}
	if amount >= wordsLimit {
		return strconv.FormatInt(amount, 10), nil
	}
	parts := spell(amount, nil)
	parts = append(parts, currencyWord)
	return strings.Join(parts, " "), nil
}

// spell appends the word segments for 0 < n < wordsLimit to parts.
func spell(n int64, parts []string) []string {
	switch {
	case n < 20:
		return append(parts, units[n])
	case n < 100:
		parts = append(parts, tens[n/10])
		if n%10 != 0 {
			parts = append(parts, units[n%10])
		}
		return parts
	case n < 1000:
		return group(units[n/100], hundredWord, n%100, parts)
	case n < 100000:
		return group(strings.Join(spell(n/1000, nil), " "), thousandWord, n%1000, parts)
	default:
		return group(strings.Join(spell(n/100000, nil), " "), lakhWord, n%100000, parts)
	}
}

// group emits "<head> <unit>" followed by the remainder when it is non-zero.
func group(head, unit string, rem int64, parts []string) []string {
	parts = append(parts, head, unit)
	if rem != 0 {
		parts = spell(rem, parts)
	}
	return parts
}
