// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
)

// DefaultCurrency is used when no currency code is configured or the code is unknown.
const DefaultCurrency = money.USD

// FormatCurrency formats an amount as whole units of the given ISO 4217
// currency, e.g. 50000 USD -> "$50,000". Fractions are rounded half away from zero.
func FormatCurrency(amount float64, code string) string {
	cur := money.GetCurrency(strings.ToUpper(strings.TrimSpace(code)))
	if cur == nil {
		cur = money.GetCurrency(DefaultCurrency)
	}
	formatter := money.NewFormatter(0, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return formatter.Format(int64(math.Round(amount)))
}

// IsKnownCurrency reports whether code names a currency go-money can format.
func IsKnownCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(strings.TrimSpace(code))) != nil
}

// FormatLongDate formats a date as "Monday, January 2, 2006".
func FormatLongDate(t time.Time) string {
	return t.Format("Monday, January 2, 2006")
}

// FormatShortDate formats a date as "Jan 2".
func FormatShortDate(t time.Time) string {
	return t.Format("Jan 2")
}

// FormatDate formats a date as ISO "2006-01-02".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// Pluralize returns "1 day" / "3 days" style counts.
func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// TruncateString shortens s to maxLen runes, ending with "...".
func TruncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// MaskSecret keeps the first and last four characters of a secret,
// e.g. "secret_abcdef123456" -> "secr...3456". Short values are fully masked.
func MaskSecret(value string) string {
	if len(value) <= 8 {
		return strings.Repeat("*", len(value))
	}
	return value[:4] + "..." + value[len(value)-4:]
}
