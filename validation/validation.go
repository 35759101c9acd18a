// Package validation collects per-field violations of submitted records.
package validation

import (
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Violations maps a field name to a violation code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already has a violation.
func (v Violations) Add(field, code string) {
	if _, ok := v[field]; !ok {
		v[field] = code
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "required")
	}
}

// MinLen checks the trimmed rune length of value.
func MinLen(field, value string, n int, v Violations) {
	if utf8.RuneCountInString(strings.TrimSpace(value)) < n {
		v.Add(field, "too_short")
	}
}

func Email(field, value string, v Violations) {
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != strings.TrimSpace(value) {
		v.Add(field, "invalid_email")
	}
}

// OptionalURL accepts an empty value or an absolute http(s) URL.
func OptionalURL(field, value string, v Violations) {
	if value == "" {
		return
	}
	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		v.Add(field, "invalid_url")
	}
}

func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.Add(field, "not_allowed")
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v.Add(field, "must_be_positive")
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v.Add(field, "out_of_range")
	}
}

func NonNegativeDecimal(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v.Add(field, "must_not_be_negative")
	}
}

func RangeDecimal(field string, val, minVal, maxVal decimal.Decimal, v Violations) {
	if val.LessThan(minVal) || val.GreaterThan(maxVal) {
		v.Add(field, "out_of_range")
	}
}

// MaxPlaces rejects values that need more than places fractional digits.
func MaxPlaces(field string, val decimal.Decimal, places int32, v Violations) {
	if !val.Equal(val.Round(places)) {
		v.Add(field, "too_many_decimals")
	}
}

func MinInt(field string, val, minVal int, v Violations) {
	if val < minVal {
		v.Add(field, "too_small")
	}
}
