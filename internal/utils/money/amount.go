// Package money parses user supplied monetary amounts.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amounts that are not plain decimal numbers.
var ErrInvalidAmount = errors.New("invalid amount")

// digitNormalizer maps Persian and Arabic-Indic digits to ASCII, the Persian
// decimal separator to '.', and strips thousands separators and spaces.
var digitNormalizer = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
	"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
	"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
	"٫", ".",
	",", "", "٬", "", "،", "",
	" ", "", "\u200c", "",
)

// Normalize converts an amount written with Persian or Arabic-Indic digits into ASCII digits.
func Normalize(raw string) string {
	return digitNormalizer.Replace(strings.TrimSpace(raw))
}

// ParseAmount parses a monetary amount. An empty value is zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := Normalize(raw)
	if s == "" {
		return decimal.Zero, nil
	}
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' && !(i == 0 && (r == '-' || r == '+')) {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return d, nil
}

// WithinTolerance reports whether |a - b| <= tolerance.
func WithinTolerance(a, b, tolerance decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(tolerance)
}
