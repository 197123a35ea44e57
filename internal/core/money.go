// Package core holds the trust's domain model and the pure helpers used to
// display amounts: digit grouping and spelling out rupees in words.
//
// This file contains parsing of user-entered rupee amounts.
package core

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// ParseRupees converts user input to a whole rupee amount.
//
// Grouping commas and spaces are ignored so that both 34000 and 34,000 are
// accepted, as is the Indian form 1,00,000. A trailing ".00" style zero
// fraction is tolerated; any other fraction, a sign or a non-digit is an
// error. Zero is a valid amount.
//
// Examples:
//
//	ParseRupees("34,000")   -> 34000, nil
//	ParseRupees("1,00,000") -> 100000, nil
//	ParseRupees("12.50")    -> 0, ErrInvalidAmount
func ParseRupees(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeAmount
	}
	s = strings.TrimPrefix(s, "₹")
	s = strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	intPart, fracPart, hasFrac := strings.Cut(s, ".")
	if hasFrac && strings.Trim(fracPart, "0") != "" {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if r < '0' || r > '9' {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, ErrAmountTooLarge
		}
		return 0, ErrInvalidAmount
	}
	if v > MaxAmount {
		return 0, ErrAmountTooLarge
	}
	return v, nil
}
