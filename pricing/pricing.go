// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package pricing computes what a campaign costs. Amounts are kept in minor
// currency units so that totals never drift.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
)

const (
	// DefaultCurrency is the Ethiopian birr.
	DefaultCurrency = "ETB"
	// DefaultPerSegment is 0.25 ETB expressed in santim.
	DefaultPerSegment int64 = 25

	minorDigits = 2
	minorUnit   = 100
)

var (
	// ErrInvalidAmount indicates a price that is not a non-negative decimal
	// with at most two fraction digits.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurrency indicates a currency that is not a three letter code.
	ErrInvalidCurrency = errors.New("invalid currency")
)

// Amount is a sum of money in minor units.
type Amount struct {
	Minor    int64  `json:"minor"`
	Currency string `json:"currency"`
}

// String formats the amount as major units with two decimals, e.g.
// "312.50 ETB".
func (a Amount) String() string {
	sign := ""
	minor := a.Minor
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, minor/minorUnit, minor%minorUnit, a.Currency)
}

// Major returns the amount in major units.
func (a Amount) Major() float64 {
	return float64(a.Minor) / minorUnit
}

// ParseMinor parses a decimal major-unit price such as "0.25" into minor
// units.
func ParseMinor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	whole, frac, _ := strings.Cut(s, ".")
	if !digits(whole) || !digits(frac) || whole+frac == "" || len(frac) > minorDigits {
		return 0, ErrInvalidAmount
	}
	if whole == "" {
		whole = "0"
	}
	frac += strings.Repeat("0", minorDigits-len(frac))

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	return w*minorUnit + f, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Rate is the price of a single SMS segment.
type Rate struct {
	PerSegment Amount `json:"per_segment"`
}

// DefaultRate returns 0.25 ETB per segment.
func DefaultRate() Rate {
	return Rate{PerSegment: Amount{Minor: DefaultPerSegment, Currency: DefaultCurrency}}
}

// NewRate builds a rate from a decimal price and a currency code. An empty
// currency defaults to ETB.
func NewRate(price, currency string) (Rate, error) {
	minor, err := ParseMinor(price)
	if err != nil {
		return Rate{}, err
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	currency = strings.ToUpper(currency)
	if len(currency) != 3 {
		return Rate{}, ErrInvalidCurrency
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return Rate{}, ErrInvalidCurrency
		}
	}

	return Rate{PerSegment: Amount{Minor: minor, Currency: currency}}, nil
}

// Cost returns recipients × segments × per-segment price. A total outside
// the int64 range saturates at math.MaxInt64, or math.MinInt64 for a negative
// price.
func (r Rate) Cost(recipients uint64, segments int) Amount {
	a := Amount{Currency: r.PerSegment.Currency}
	price := r.PerSegment.Minor
	if segments <= 0 || recipients == 0 || price == 0 {
		return a
	}

	mag := uint64(price)
	if price < 0 {
		mag = uint64(-price)
	}
	hi, units := bits.Mul64(recipients, uint64(segments))
	if hi == 0 {
		hi, units = bits.Mul64(units, mag)
	}

	switch {
	case hi != 0 || units > math.MaxInt64:
		a.Minor = math.MaxInt64
		if price < 0 {
			a.Minor = math.MinInt64
		}
	case price < 0:
		a.Minor = -int64(units)
	default:
		a.Minor = int64(units)
	}

	return a
}
