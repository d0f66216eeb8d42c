package services

import (
	"strings"

	"github.com/LovationAdmin/horizon-api/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const DefaultCurrency = "USD"

var currencySymbols = map[string]string{
	"USD": "$",
	"CAD": "CA$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders a transaction amount in dollars. Debits get a leading
// minus sign; the amount itself is never negated.
func FormatAmount(amount decimal.Decimal, direction models.Direction) string {
	formatted := formatMagnitude(amount.Abs(), DefaultCurrency)
	if direction == models.Debit {
		return "-" + formatted
	}
	return formatted
}

// FormatCurrency renders a signed amount, such as a balance, in the given ISO
// currency. Unknown or empty codes fall back to USD.
func FormatCurrency(amount decimal.Decimal, isoCode string) string {
	code := normalizeCurrency(isoCode)
	formatted := formatMagnitude(amount.Abs(), code)
	if amount.IsNegative() && !amount.Round(2).IsZero() {
		return "-" + formatted
	}
	return formatted
}

func formatMagnitude(amount decimal.Decimal, code string) string {
	value, _ := amount.Round(2).Float64()
	digits := printer.Sprint(number.Decimal(value, number.Scale(2)))

	symbol, ok := currencySymbols[code]
	if !ok {
		return code + " " + digits
	}
	return symbol + digits
}

func normalizeCurrency(isoCode string) string {
	unit, err := currency.ParseISO(strings.TrimSpace(isoCode))
	if err != nil {
		return DefaultCurrency
	}
	return unit.String()
}
