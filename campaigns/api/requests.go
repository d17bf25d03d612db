// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/internal/api"
	"github.com/dairylink/outreach/pkg/apiutil"
	"github.com/dairylink/outreach/recipients"
	"github.com/dairylink/outreach/segments"
)

const (
	minSenderLen = 3
	maxSenderLen = 11
)

type estimateReq struct {
	Message string `json:"message"`
	Policy  string `json:"policy,omitempty"`
	parts   bool
}

func (req estimateReq) validate() error {
	if utf8.RuneCountInString(req.Message) > api.MaxMessageSize {
		return apiutil.ErrMessageSize
	}
	if _, err := segments.ToPolicy(req.Policy); err != nil {
		return apiutil.ErrInvalidPolicy
	}

	return nil
}

type draftReq struct {
	SenderID    string    `json:"sender_id,omitempty"`
	Message     string    `json:"message"`
	Numbers     string    `json:"numbers,omitempty"`
	Recipients  []string  `json:"recipients,omitempty"`
	Groups      []string  `json:"groups,omitempty"`
	Mode        string    `json:"mode,omitempty"`
	Throttle    string    `json:"throttle,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at,omitempty"`
	Policy      string    `json:"policy,omitempty"`
}

func (req draftReq) validate() error {
	if utf8.RuneCountInString(req.Message) > api.MaxMessageSize {
		return apiutil.ErrMessageSize
	}
	if _, err := segments.ToPolicy(req.Policy); err != nil {
		return apiutil.ErrInvalidPolicy
	}
	mode, err := campaigns.ToMode(req.Mode)
	if err != nil {
		return apiutil.ErrInvalidMode
	}
	if mode == campaigns.Deferred && req.ScheduledAt.IsZero() {
		return apiutil.ErrMissingSchedule
	}
	if _, err := campaigns.ToThrottle(req.Throttle); err != nil {
		return apiutil.ErrInvalidThrottle
	}
	for _, id := range req.Groups {
		if strings.TrimSpace(id) == "" {
			return apiutil.ErrMissingID
		}
	}

	return nil
}

// draft converts a validated request.
func (req draftReq) draft() campaigns.Composition {
	policy, _ := segments.ToPolicy(req.Policy)
	mode, _ := campaigns.ToMode(req.Mode)
	throttle, _ := campaigns.ToThrottle(req.Throttle)

	numbers := req.Numbers
	if len(req.Recipients) > 0 {
		numbers = strings.Join(append([]string{req.Numbers}, req.Recipients...), "\n")
	}

	return campaigns.Composition{
		SenderID:    req.SenderID,
		Message:     req.Message,
		Numbers:     numbers,
		Groups:      req.Groups,
		Mode:        mode,
		Throttle:    throttle,
		ScheduledAt: req.ScheduledAt,
		Policy:      policy,
	}
}

type quoteReq struct {
	draftReq
}

type createCampaignReq struct {
	draftReq
}

func (req createCampaignReq) validate() error {
	if req.SenderID == "" {
		return apiutil.ErrMissingSender
	}
	if n := len(req.SenderID); n < minSenderLen || n > maxSenderLen {
		return apiutil.ErrInvalidSender
	}
	if strings.TrimSpace(req.Message) == "" {
		return apiutil.ErrEmptyMessage
	}
	if strings.TrimSpace(req.Numbers) == "" && len(req.Recipients) == 0 && len(req.Groups) == 0 {
		return apiutil.ErrMissingRecipients
	}

	return req.draftReq.validate()
}

type validateRecipientsReq struct {
	Numbers string `json:"numbers"`
}

func (req validateRecipientsReq) validate() error {
	if strings.TrimSpace(req.Numbers) == "" {
		return apiutil.ErrMissingRecipients
	}

	return nil
}

type renderTemplateReq struct {
	id     string
	Values map[string]string `json:"values"`
}

func (req renderTemplateReq) validate() error {
	if req.id == "" {
		return apiutil.ErrMissingTemplate
	}

	return nil
}

type campaignReq struct {
	id string
}

func (req campaignReq) validate() error {
	if req.id == "" {
		return apiutil.ErrMissingID
	}

	return nil
}

type listReq struct {
	pm campaigns.PageMetadata
}

func (req listReq) validate() error {
	if req.pm.Limit == 0 || req.pm.Limit > api.MaxLimitSize {
		return apiutil.ErrLimitSize
	}

	return nil
}

type addBlacklistReq struct {
	Number  string `json:"number"`
	Reason  string `json:"reason,omitempty"`
	Source  string `json:"source,omitempty"`
	AddedBy string `json:"added_by,omitempty"`
}

func (req addBlacklistReq) validate() error {
	if req.Number == "" {
		return apiutil.ErrMissingNumber
	}
	if !recipients.Valid(strings.TrimSpace(req.Number)) {
		return apiutil.ErrInvalidNumber
	}

	return nil
}

type removeBlacklistReq struct {
	number string
}

func (req removeBlacklistReq) validate() error {
	if req.number == "" {
		return apiutil.ErrMissingNumber
	}

	return nil
}
