// Package format holds the pure display formatting used by the banking
// views: currency amounts, relative dates, masked IBANs and result counters.
// Nothing here touches business state.
package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var crPrinter = message.NewPrinter(language.MustParse("es-CR"))

// CurrencySymbol returns the display prefix for an ISO-like currency code.
// Only two symbols ever appear in the product; anything unexpected falls back
// to the colón.
func CurrencySymbol(code string) string {
	if code == "USD" {
		return "$"
	}
	return "₡"
}

// Currency renders an amount with two decimals and es-CR digit grouping,
// prefixed by the currency symbol. Amounts are magnitudes; callers add the
// +/- sign from the movement kind.
func Currency(amount decimal.Decimal, code string) string {
	// float64 is fine here: display only, calculations stay on decimal.
	v, _ := amount.Float64()
	return CurrencySymbol(code) + crPrinter.Sprint(number.Decimal(v,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
