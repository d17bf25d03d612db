// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package campaigns

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// ReviewStatus is the outcome of content screening.
type ReviewStatus uint8

const (
	// Approved content may be sent.
	Approved ReviewStatus = iota
	// Pending content is too short to judge.
	Pending
	// Warning content may be sent but deserves a second look.
	Warning
	// Blocked content must not be sent.
	Blocked
)

// MinReviewLength is the number of characters below which content is left
// pending.
const MinReviewLength = 10

func (r ReviewStatus) String() string {
	switch r {
	case Pending:
		return "pending"
	case Warning:
		return "warning"
	case Blocked:
		return "blocked"
	default:
		return "approved"
	}
}

func (r ReviewStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *ReviewStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "pending":
		*r = Pending
	case "warning":
		*r = Warning
	case "blocked":
		*r = Blocked
	default:
		*r = Approved
	}
	return nil
}

// Review is the screening result of a message.
type Review struct {
	Status ReviewStatus `json:"status"`
	// Matches lists the keywords that decided the status.
	Matches []string `json:"matches,omitempty"`
}

// Reviewer screens message content by keyword. Matching is case-insensitive.
type Reviewer struct {
	Blocked []string `env:"BLOCKED_KEYWORDS" envDefault:"scam,fraud" envSeparator:","`
	Flagged []string `env:"FLAGGED_KEYWORDS" envDefault:"urgent,penalty" envSeparator:","`
}

// DefaultReviewer returns a Reviewer with the default keyword lists.
func DefaultReviewer() Reviewer {
	return Reviewer{
		Blocked: []string{"scam", "fraud"},
		Flagged: []string{"urgent", "penalty"},
	}
}

// Review screens message. Blocked keywords take precedence over flagged ones.
func (rv Reviewer) Review(message string) Review {
	if utf8.RuneCountInString(strings.TrimSpace(message)) < MinReviewLength {
		return Review{Status: Pending}
	}
	lower := strings.ToLower(message)
	if m := matches(lower, rv.Blocked); len(m) > 0 {
		return Review{Status: Blocked, Matches: m}
	}
	if m := matches(lower, rv.Flagged); len(m) > 0 {
		return Review{Status: Warning, Matches: m}
	}
	return Review{Status: Approved}
}

func matches(text string, keywords []string) []string {
	var found []string
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" && strings.Contains(text, kw) {
			found = append(found, kw)
		}
	}
	return found
}
