// Package money parses and formats the decimal money strings that show
// up in e-commerce CSV exports, validates http(s) URLs, and converts
// legacy weight columns to grams.
//
// Decimal parsing is backed by github.com/shopspring/decimal rather
// than float64 so that repeated parse/format round trips never drift
// by a cent — the same reasoning the pack's own CSV importers use
// (see DESIGN.md).
package money

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = strings.NewReplacer("$", "", "£", "", "€", "", "¥", "", ",", "")

var moneyShape = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)

// Parse trims s, strips currency symbols/commas/whitespace, and parses
// the remainder as a signed decimal. It returns ok=false (not an error)
// when the cleaned string doesn't look like a plain decimal number, so
// callers can treat "unparsable" as a simple boolean.
func Parse(s string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(currencySymbols.Replace(s))
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" || !moneyShape.MatchString(cleaned) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Format renders d as a fixed two-decimal string, e.g. "19.99".
func Format(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// ParseAndFormat is the common "reformat if parsable, leave alone
// otherwise" operation optimizers run on money cells.
func ParseAndFormat(s string) (formatted string, ok bool) {
	d, ok := Parse(s)
	if !ok {
		return s, false
	}
	return Format(d), true
}

// IsHTTPURL reports whether s is a well-formed http:// or https:// URL
// with a non-empty host.
func IsHTTPURL(s string) bool {
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Host != ""
}

// gramsPerUnit converts a weight unit name to the number of grams in
// one unit of it. Shopify's legacy "Variant Weight Unit" column only
// ever carries these four values.
var gramsPerUnit = map[string]float64{
	"g":  1,
	"kg": 1000,
	"oz": 28.349523125,
	"lb": 453.59237,
}

// GramsFromWeight converts a (value, unit) pair to grams. ok is false
// when unit is not one of g/kg/oz/lb (case-insensitive).
func GramsFromWeight(value float64, unit string) (grams float64, ok bool) {
	factor, known := gramsPerUnit[strings.ToLower(strings.TrimSpace(unit))]
	if !known {
		return 0, false
	}
	return value * factor, true
}

// ParseNonNegativeInt parses s as a non-negative integer, tolerating
// surrounding whitespace. Used for inventory/quantity columns.
func ParseNonNegativeInt(s string) (int, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
