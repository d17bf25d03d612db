// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package segments estimates the transport encoding of an SMS body and the
// number of segments it occupies once submitted to an SMSC.
//
// All functions in this package are pure and total: they never fail, keep no
// state and are safe for concurrent use.
package segments

import (
	"encoding/json"
	"errors"
	"strings"
)

// Per-segment capacities. A concatenated message loses part of every segment
// to the User Data Header, hence the lower part limits.
const (
	GSM7SingleLimit = 160
	GSM7PartLimit   = 153
	UCS2SingleLimit = 70
	UCS2PartLimit   = 67
)

// longFactor is the number of single segments after which a body is
// considered long.
const longFactor = 3

const (
	gsm7Name = "GSM-7"
	ucs2Name = "UCS-2"

	asciiName   = "ascii"
	gsm0338Name = "gsm0338"
)

var (
	// ErrInvalidEncoding indicates an unknown encoding name.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrInvalidPolicy indicates an unknown encoding policy name.
	ErrInvalidPolicy = errors.New("invalid encoding policy")
)

// Encoding is the SMS data coding a body is transmitted with.
type Encoding uint8

const (
	// GSM7 is the 7-bit default alphabet.
	GSM7 Encoding = iota
	// UCS2 is the 16-bit encoding used for any other script.
	UCS2
)

// String returns the conventional encoding name.
func (e Encoding) String() string {
	if e == UCS2 {
		return ucs2Name
	}
	return gsm7Name
}

// Limits returns the single-segment and per-part capacities of the encoding.
func (e Encoding) Limits() (single, part int) {
	if e == UCS2 {
		return UCS2SingleLimit, UCS2PartLimit
	}
	return GSM7SingleLimit, GSM7PartLimit
}

// ToEncoding converts an encoding name to Encoding.
func ToEncoding(s string) (Encoding, error) {
	switch strings.ToUpper(s) {
	case gsm7Name, "GSM7":
		return GSM7, nil
	case ucs2Name, "UCS2":
		return UCS2, nil
	}
	return GSM7, ErrInvalidEncoding
}

func (e Encoding) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *Encoding) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	enc, err := ToEncoding(s)
	if err != nil {
		return err
	}
	*e = enc
	return nil
}

// Policy decides which characters force a body into UCS-2 and how its
// length is measured.
type Policy uint8

const (
	// Unset lets the caller fall back to a configured default. It estimates
	// exactly like ASCII.
	Unset Policy = iota
	// ASCII treats any character outside 7-bit ASCII as forcing UCS-2 and
	// counts characters. Accented Latin letters that the GSM alphabet can
	// carry are therefore reported as UCS-2.
	ASCII
	// GSM0338 applies the GSM 03.38 default alphabet and extension table.
	// Extension characters occupy two septets and are never split across
	// segments.
	GSM0338
)

// String returns the policy name.
func (p Policy) String() string {
	if p == GSM0338 {
		return gsm0338Name
	}
	return asciiName
}

// ToPolicy converts a policy name to Policy. An empty name yields Unset.
func ToPolicy(s string) (Policy, error) {
	switch strings.ToLower(s) {
	case "":
		return Unset, nil
	case asciiName:
		return ASCII, nil
	case gsm0338Name, "gsm":
		return GSM0338, nil
	}
	return Unset, ErrInvalidPolicy
}

func (p Policy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Policy) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	pol, err := ToPolicy(str)
	if err != nil {
		return err
	}
	*p = pol
	return nil
}

// Or returns p, or def when p is Unset.
func (p Policy) Or(def Policy) Policy {
	if p == Unset {
		return def
	}
	return p
}

// Estimate describes how a body will be transmitted.
type Estimate struct {
	Encoding    Encoding `json:"encoding"`
	Length      int      `json:"length"`
	Segments    int      `json:"segments"`
	SingleLimit int      `json:"single_limit"`
	PartLimit   int      `json:"part_limit"`
	PerSegment  int      `json:"per_segment"`
	Remaining   int      `json:"remaining"`
	Long        bool     `json:"long"`
	Unsupported []string `json:"unsupported,omitempty"`
}

// Calculate estimates text with the ASCII policy.
func Calculate(text string) Estimate {
	return ASCII.Estimate(text)
}

// Split splits text into segments with the ASCII policy.
func Split(text string) []string {
	return ASCII.Split(text)
}

// Estimate returns the encoding and segment count of text. Empty text has
// zero segments.
func (p Policy) Estimate(text string) Estimate {
	m := p.measure(text)
	single, part := m.encoding.Limits()

	e := Estimate{
		Encoding:    m.encoding,
		SingleLimit: single,
		PartLimit:   part,
		PerSegment:  single,
		Unsupported: m.unsupported,
	}
	for _, r := range text {
		e.Length += m.width(r)
	}
	e.Long = e.Length > longFactor*single

	switch {
	case e.Length == 0:
		e.Remaining = single
	case e.Length <= single:
		e.Segments = 1
		e.Remaining = single - e.Length
	default:
		e.PerSegment = part
		var fill int
		e.Segments, fill = pack(text, m.width, part, nil)
		e.Remaining = part - fill
	}

	return e
}

// Split returns the parts text is transmitted as. The number of parts always
// equals the segment count Estimate reports for the same text.
func (p Policy) Split(text string) []string {
	if text == "" {
		return nil
	}
	m := p.measure(text)
	single, part := m.encoding.Limits()

	var length int
	for _, r := range text {
		length += m.width(r)
	}
	if length <= single {
		return []string{text}
	}

	var parts []string
	pack(text, m.width, part, func(s string) {
		parts = append(parts, s)
	})
	return parts
}

type measurement struct {
	encoding    Encoding
	width       func(rune) int
	unsupported []string
}

func (p Policy) measure(text string) measurement {
	if p == GSM0338 {
		unsupported := unsupportedGSM(text)
		if len(unsupported) == 0 {
			return measurement{encoding: GSM7, width: septets}
		}
		return measurement{encoding: UCS2, width: utf16Units, unsupported: unsupported}
	}

	for _, r := range text {
		if r >= 0x80 {
			return measurement{encoding: UCS2, width: utf16Units}
		}
	}
	return measurement{encoding: GSM7, width: one}
}

// pack fills parts of the given capacity greedily, never splitting a
// character. It returns the number of parts and the fill of the last one.
// emit, when not nil, receives every part in order.
func pack(text string, width func(rune) int, capacity int, emit func(string)) (parts, fill int) {
	start := 0
	for i, r := range text {
		w := width(r)
		if fill+w > capacity && fill > 0 {
			if emit != nil {
				emit(text[start:i])
			}
			parts++
			start, fill = i, 0
		}
		fill += w
	}
	if fill > 0 {
		if emit != nil {
			emit(text[start:])
		}
		parts++
	}
	return parts, fill
}

func one(rune) int {
	return 1
}

func utf16Units(r rune) int {
	if r >= 0x10000 && r <= 0x10FFFF {
		return 2
	}
	return 1
}
