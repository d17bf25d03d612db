// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package campaigns

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/dairylink/outreach/pkg/errors"
	"github.com/dairylink/outreach/pricing"
	"github.com/dairylink/outreach/recipients"
	"github.com/dairylink/outreach/segments"
)

// Status is the lifecycle state of a campaign.
type Status uint8

const (
	Draft Status = iota
	Scheduled
	Sending
	Sent
	Failed
	Cancelled

	// AllStatus is used for querying purposes to list campaigns irrespective
	// of their status. It is never stored.
	AllStatus
)

const (
	draft     = "draft"
	scheduled = "scheduled"
	sending   = "sending"
	sent      = "sent"
	failed    = "failed"
	cancelled = "cancelled"
	all       = "all"
	unknown   = "unknown"
)

// ErrInvalidStatus indicates an unknown status name.
var ErrInvalidStatus = errors.New("invalid campaign status")

// String converts campaign status to string literal.
func (s Status) String() string {
	switch s {
	case Draft:
		return draft
	case Scheduled:
		return scheduled
	case Sending:
		return sending
	case Sent:
		return sent
	case Failed:
		return failed
	case Cancelled:
		return cancelled
	case AllStatus:
		return all
	default:
		return unknown
	}
}

// ToStatus converts string value to a valid campaign status.
func ToStatus(status string) (Status, error) {
	switch strings.ToLower(status) {
	case draft:
		return Draft, nil
	case scheduled:
		return Scheduled, nil
	case sending:
		return Sending, nil
	case sent:
		return Sent, nil
	case failed:
		return Failed, nil
	case cancelled:
		return Cancelled, nil
	case "", all:
		return AllStatus, nil
	}
	return Status(0), ErrInvalidStatus
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	val, err := ToStatus(str)
	if err != nil {
		return err
	}
	*s = val
	return nil
}

// Sendable reports whether a campaign in this status may be dispatched.
// Failed campaigns may be retried.
func (s Status) Sendable() bool {
	return s == Draft || s == Scheduled || s == Failed
}

// Cancellable reports whether a campaign in this status may be cancelled.
func (s Status) Cancellable() bool {
	return s == Draft || s == Scheduled
}

// Mode is how a campaign is delivered.
type Mode uint8

const (
	// Single sends to exactly one recipient.
	Single Mode = iota
	// Bulk sends to many recipients at once.
	Bulk
	// Deferred sends at a scheduled time.
	Deferred
)

// ErrInvalidMode indicates an unknown mode name.
var ErrInvalidMode = errors.New("invalid campaign mode")

func (m Mode) String() string {
	switch m {
	case Bulk:
		return "bulk"
	case Deferred:
		return scheduled
	default:
		return "single"
	}
}

// ToMode converts a mode name to Mode. An empty name yields Bulk.
func ToMode(mode string) (Mode, error) {
	switch strings.ToLower(mode) {
	case "single":
		return Single, nil
	case "", "bulk":
		return Bulk, nil
	case scheduled:
		return Deferred, nil
	}
	return Bulk, ErrInvalidMode
}

func (m Mode) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Mode) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	val, err := ToMode(str)
	if err != nil {
		return err
	}
	*m = val
	return nil
}

// Throttle names a delivery pace.
type Throttle string

const (
	// ThrottleAuto uses the pace configured for the gateway.
	ThrottleAuto     Throttle = "auto"
	ThrottleFast     Throttle = "fast"
	ThrottleModerate Throttle = "moderate"
	ThrottleSlow     Throttle = "slow"
)

// ErrInvalidThrottle indicates an unknown throttle name.
var ErrInvalidThrottle = errors.New("invalid throttle")

// ToThrottle validates a throttle name. An empty name yields ThrottleAuto.
func ToThrottle(s string) (Throttle, error) {
	switch t := Throttle(strings.ToLower(s)); t {
	case "":
		return ThrottleAuto, nil
	case ThrottleAuto, ThrottleFast, ThrottleModerate, ThrottleSlow:
		return t, nil
	}
	return ThrottleAuto, ErrInvalidThrottle
}

// PerMinute returns the number of messages submitted per minute. auto is
// the rate passed in; zero means unlimited.
func (t Throttle) PerMinute(auto int) int {
	switch t {
	case ThrottleFast:
		return 500
	case ThrottleModerate:
		return 200
	case ThrottleSlow:
		return 50
	default:
		return auto
	}
}

// Campaign is an SMS broadcast to a set of recipients.
type Campaign struct {
	ID             string            `json:"id"`
	SenderID       string            `json:"sender_id"`
	Message        string            `json:"message"`
	Policy         segments.Policy   `json:"policy"`
	Encoding       segments.Encoding `json:"encoding"`
	Segments       int               `json:"segments"`
	Recipients     []string          `json:"recipients,omitempty"`
	Groups         []string          `json:"groups,omitempty"`
	RecipientCount uint64            `json:"recipient_count"`
	Cost           pricing.Amount    `json:"cost"`
	Review         ReviewStatus      `json:"review"`
	Mode           Mode              `json:"mode"`
	Throttle       Throttle          `json:"throttle"`
	Status         Status            `json:"status"`
	Delivered      uint64            `json:"delivered"`
	Failures       uint64            `json:"failures"`
	ScheduledAt    time.Time         `json:"scheduled_at,omitempty"`
	SentAt         time.Time         `json:"sent_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at,omitempty"`
}

// Composition is a campaign being composed.
type Composition struct {
	SenderID    string
	Message     string
	// Numbers is free-form input, comma or newline separated.
	Numbers     string
	Groups      []string
	Mode        Mode
	Throttle    Throttle
	ScheduledAt time.Time
	Policy      segments.Policy
}

// Quote summarises what sending a draft would take and cost.
type Quote struct {
	Estimate        segments.Estimate `json:"estimate"`
	// Numbers are the parsed numbers left after blacklist filtering.
	Numbers         []string          `json:"numbers"`
	Parsed          recipients.Parsed `json:"parsed"`
	Blacklisted     int               `json:"blacklisted"`
	GroupRecipients uint64            `json:"group_recipients"`
	RecipientCount  uint64            `json:"recipient_count"`
	Rate            pricing.Rate      `json:"rate"`
	Cost            pricing.Amount    `json:"cost"`
	Review          Review            `json:"review"`
	Warnings        []string          `json:"warnings,omitempty"`
}

// PageMetadata contains page metadata that helps navigation.
type PageMetadata struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
	Total  uint64 `json:"total"`
	Status Status `json:"status,omitempty"`
}

// Page contains a page of campaigns.
type Page struct {
	PageMetadata
	Campaigns []Campaign
}

// Repository specifies a campaign persistence API.
type Repository interface {
	// Save persists a new campaign.
	Save(ctx context.Context, c Campaign) (Campaign, error)

	// RetrieveByID retrieves the campaign with the given id.
	RetrieveByID(ctx context.Context, id string) (Campaign, error)

	// RetrieveAll retrieves campaigns newest first.
	RetrieveAll(ctx context.Context, pm PageMetadata) (Page, error)

	// RetrieveDue retrieves scheduled campaigns whose send time is not after
	// now, oldest first.
	RetrieveDue(ctx context.Context, now time.Time) ([]Campaign, error)

	// Transition moves the campaign to status to, provided its current
	// status is one of from. It fails with a not found error otherwise.
	Transition(ctx context.Context, id string, from []Status, to Status) (Campaign, error)

	// Update stores the delivery outcome of a campaign: its status, counters
	// and send time.
	Update(ctx context.Context, c Campaign) (Campaign, error)
}
