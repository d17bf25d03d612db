// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package pricing_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/dairylink/outreach/pricing"
	"github.com/stretchr/testify/assert"
)

func TestParseMinor(t *testing.T) {
	cases := []struct {
		desc  string
		input string
		minor int64
		err   error
	}{
		{desc: "quarter birr", input: "0.25", minor: 25},
		{desc: "whole amount", input: "3", minor: 300},
		{desc: "single fraction digit", input: "1.5", minor: 150},
		{desc: "leading dot", input: ".05", minor: 5},
		{desc: "surrounding spaces", input: " 2.10 ", minor: 210},
		{desc: "zero", input: "0", minor: 0},
		{desc: "empty", input: "", err: pricing.ErrInvalidAmount},
		{desc: "negative", input: "-1", err: pricing.ErrInvalidAmount},
		{desc: "too many fraction digits", input: "0.125", err: pricing.ErrInvalidAmount},
		{desc: "not a number", input: "abc", err: pricing.ErrInvalidAmount},
		{desc: "signed fraction", input: "1.-5", err: pricing.ErrInvalidAmount},
	}

	for _, tc := range cases {
		minor, err := pricing.ParseMinor(tc.input)
		assert.Equal(t, tc.err, err, fmt.Sprintf("%s: expected error %v got %v", tc.desc, tc.err, err))
		assert.Equal(t, tc.minor, minor, fmt.Sprintf("%s: expected %d got %d", tc.desc, tc.minor, minor))
	}
}

func TestNewRate(t *testing.T) {
	cases := []struct {
		desc     string
		price    string
		currency string
		rate     pricing.Rate
		err      error
	}{
		{
			desc:  "default currency",
			price: "0.25",
			rate:  pricing.DefaultRate(),
		},
		{
			desc:     "lower case currency",
			price:    "0.05",
			currency: "usd",
			rate:     pricing.Rate{PerSegment: pricing.Amount{Minor: 5, Currency: "USD"}},
		},
		{
			desc:     "invalid currency",
			price:    "0.05",
			currency: "dollars",
			err:      pricing.ErrInvalidCurrency,
		},
		{
			desc:     "non letter currency",
			price:    "0.05",
			currency: "U5D",
			err:      pricing.ErrInvalidCurrency,
		},
		{
			desc:  "invalid price",
			price: "cheap",
			err:   pricing.ErrInvalidAmount,
		},
	}

	for _, tc := range cases {
		rate, err := pricing.NewRate(tc.price, tc.currency)
		assert.Equal(t, tc.err, err, fmt.Sprintf("%s: expected error %v got %v", tc.desc, tc.err, err))
		assert.Equal(t, tc.rate, rate, fmt.Sprintf("%s: expected %v got %v", tc.desc, tc.rate, rate))
	}
}

func TestCost(t *testing.T) {
	rate := pricing.DefaultRate()

	cases := []struct {
		desc       string
		recipients uint64
		segments   int
		cost       string
	}{
		{desc: "no recipients", recipients: 0, segments: 2, cost: "0.00 ETB"},
		{desc: "empty message", recipients: 100, segments: 0, cost: "0.00 ETB"},
		{desc: "single recipient single segment", recipients: 1, segments: 1, cost: "0.25 ETB"},
		{desc: "cooperative broadcast", recipients: 1250, segments: 1, cost: "312.50 ETB"},
		{desc: "multipart broadcast", recipients: 1250, segments: 3, cost: "937.50 ETB"},
		{desc: "negative segments", recipients: 10, segments: -1, cost: "0.00 ETB"},
	}

	for _, tc := range cases {
		cost := rate.Cost(tc.recipients, tc.segments)
		assert.Equal(t, tc.cost, cost.String(), fmt.Sprintf("%s: expected %s got %s", tc.desc, tc.cost, cost))
	}
}

func TestCostBounds(t *testing.T) {
	cases := []struct {
		desc       string
		price      int64
		recipients uint64
		segments   int
		minor      int64
	}{
		{desc: "largest exact total", price: 1, recipients: math.MaxInt64, segments: 1, minor: math.MaxInt64},
		{desc: "total just past int64", price: 1, recipients: math.MaxInt64, segments: 2, minor: math.MaxInt64},
		{desc: "recipients times segments past uint64", price: 25, recipients: 1 << 62, segments: 8, minor: math.MaxInt64},
		{desc: "price product past uint64", price: 25, recipients: math.MaxUint64 / 10, segments: 10, minor: math.MaxInt64},
		{desc: "large campaign within range", price: 25, recipients: 1 << 40, segments: 10, minor: 25 * 10 << 40},
		{desc: "negative price saturates low", price: -25, recipients: math.MaxUint64, segments: 10, minor: math.MinInt64},
		{desc: "negative price within range", price: -25, recipients: 4, segments: 2, minor: -200},
	}

	for _, tc := range cases {
		rate := pricing.Rate{PerSegment: pricing.Amount{Minor: tc.price, Currency: pricing.DefaultCurrency}}
		cost := rate.Cost(tc.recipients, tc.segments)
		assert.Equal(t, tc.minor, cost.Minor, fmt.Sprintf("%s: expected %d got %d", tc.desc, tc.minor, cost.Minor))
		assert.Equal(t, pricing.DefaultCurrency, cost.Currency)
	}
}

func TestAmount(t *testing.T) {
	assert.Equal(t, "-1.05 ETB", pricing.Amount{Minor: -105, Currency: "ETB"}.String())
	assert.Equal(t, 312.5, pricing.Amount{Minor: 31250, Currency: "ETB"}.Major())
}
