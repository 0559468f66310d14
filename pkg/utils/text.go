package utils

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDescriptionWords product descriptions above this are rejected
const MaxDescriptionWords = 100

// Price column shape: DECIMAL(10,2)
const (
	PriceMaxDigits     = 10
	PriceDecimalPlaces = 2
)

// WordCount whitespace-delimited words, empty tokens discarded
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// NormalizePrice accepts a plain non-negative decimal ("9", "9.9", "+9.99") that fits DECIMAL(10,2)
// and renders it with two fraction digits, "9.9" -> "9.90". Nothing is rounded.
func NormalizePrice(s string) (string, error) {
	s = strings.TrimSpace(s)
	if !plainDecimal(s) {
		return "", ErrInvalidPrice
	}

	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil || d.IsNegative() {
		return "", ErrInvalidPrice
	}
	if d.Exponent() < -PriceDecimalPlaces {
		return "", ErrPriceDecimalPlaces
	}
	if d.GreaterThanOrEqual(decimal.New(1, PriceMaxDigits-PriceDecimalPlaces)) {
		return "", ErrPriceTooLarge
	}
	return d.StringFixed(PriceDecimalPlaces), nil
}

// plainDecimal optional sign, digits, optional fraction; no exponents, radix prefixes or separators
func plainDecimal(s string) bool {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")
	intPart, frac, hasDot := strings.Cut(s, ".")
	if intPart == "" && (!hasDot || frac == "") {
		return false
	}
	for _, part := range []string{intPart, frac} {
		for _, r := range part {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

var (
	ErrInvalidPrice       = errors.New("price must be a non-negative decimal number")
	ErrPriceDecimalPlaces = errors.New("price must have no more than 2 decimal places")
	ErrPriceTooLarge      = errors.New("price must have no more than 10 digits in total")
)
