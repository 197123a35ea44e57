package core

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// displayLocale drives digit grouping: en-IN groups as 1,00,000.
var displayLocale = language.MustParse("en-IN")

// FormatCurrency formats an amount with Indian digit grouping, without a
// currency symbol. Fraction digits appear only for non-integer input.
func FormatCurrency(amount float64) string {
	p := message.NewPrinter(displayLocale)
	return p.Sprint(number.Decimal(amount, number.MaxFractionDigits(3)))
}

// FormatRupees formats a whole rupee amount with Indian digit grouping.
func FormatRupees(amount int64) string {
	p := message.NewPrinter(displayLocale)
	return p.Sprint(number.Decimal(amount))
}
