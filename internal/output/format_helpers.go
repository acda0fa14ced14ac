package output

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as USD currency with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return "$" + amount.StringFixed(2) }

// FormatPercentage formats a decimal that is already a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// FormatRate formats a fractional rate (0.0425) as a percentage ("4.25%").
func FormatRate(rate decimal.Decimal) string { return rate.Shift(2).StringFixed(2) + "%" }

// FormatOptionalRate formats a rate pointer, or "n/a" when it is absent.
func FormatOptionalRate(rate *decimal.Decimal) string {
	if rate == nil {
		return "n/a"
	}
	return FormatRate(*rate)
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func nullMoney(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
