// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package recipients parses and screens the phone numbers a campaign is sent
// to.
package recipients

import (
	"regexp"
	"strings"
)

// numberPattern accepts 10 to 13 digits with an optional leading plus.
var numberPattern = regexp.MustCompile(`^\+?[0-9]{10,13}$`)

var separators = regexp.MustCompile(`[,\n]`)

// Valid reports whether number is a well formed phone number.
func Valid(number string) bool {
	return numberPattern.MatchString(number)
}

// Parsed is the outcome of parsing a free-form list of numbers.
type Parsed struct {
	// Numbers holds the valid numbers, deduplicated, in order of first
	// appearance.
	Numbers []string `json:"numbers"`
	// Total counts every non-empty entry.
	Total int `json:"total"`
	// Valid counts unique valid numbers.
	Valid int `json:"valid"`
	// Invalid counts malformed entries, repeats included.
	Invalid int `json:"invalid"`
	// Duplicates counts repeated valid numbers.
	Duplicates int `json:"duplicates"`
	// Rejected holds the malformed entries in order of appearance.
	Rejected []string `json:"rejected,omitempty"`
}

// Parse splits input on commas and newlines, trims every entry and drops
// empty ones.
func Parse(input string) Parsed {
	var p Parsed
	seen := make(map[string]struct{})

	for _, entry := range separators.Split(input, -1) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		p.Total++

		if !Valid(entry) {
			p.Invalid++
			p.Rejected = append(p.Rejected, entry)
			continue
		}
		if _, ok := seen[entry]; ok {
			p.Duplicates++
			continue
		}
		seen[entry] = struct{}{}
		p.Numbers = append(p.Numbers, entry)
	}
	p.Valid = len(p.Numbers)

	return p
}

// Merge concatenates number lists, keeping the first occurrence of each
// number.
func Merge(lists ...[]string) []string {
	var ret []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, n := range list {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			ret = append(ret, n)
		}
	}
	return ret
}

// Filter removes the numbers for which blocked reports true. It returns the
// remaining numbers and how many were removed.
func Filter(numbers []string, blocked func(string) bool) ([]string, int) {
	if blocked == nil {
		return numbers, 0
	}
	kept := make([]string, 0, len(numbers))
	for _, n := range numbers {
		if blocked(n) {
			continue
		}
		kept = append(kept, n)
	}
	return kept, len(numbers) - len(kept)
}

// Set is a set of numbers.
type Set map[string]struct{}

// NewSet returns a set holding numbers.
func NewSet(numbers ...string) Set {
	s := make(Set, len(numbers))
	for _, n := range numbers {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether number is in s.
func (s Set) Contains(number string) bool {
	_, ok := s[number]
	return ok
}
