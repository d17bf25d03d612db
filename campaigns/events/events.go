// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"maps"
	"time"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/pkg/events"
)

const (
	campaignPrefix   = "campaign."
	campaignCreate   = campaignPrefix + "create"
	campaignSend     = campaignPrefix + "send"
	campaignCancel   = campaignPrefix + "cancel"
	campaignDispatch = campaignPrefix + "dispatch"

	blacklistPrefix = "blacklist."
	blacklistAdd    = blacklistPrefix + "add"
	blacklistRemove = blacklistPrefix + "remove"
)

var (
	_ events.Event = (*createCampaignEvent)(nil)
	_ events.Event = (*sendCampaignEvent)(nil)
	_ events.Event = (*cancelCampaignEvent)(nil)
	_ events.Event = (*addBlacklistEvent)(nil)
	_ events.Event = (*removeBlacklistEvent)(nil)
)

// AllOperations lists every operation published by the event store.
var AllOperations = [...]string{
	campaignCreate,
	campaignSend,
	campaignCancel,
	campaignDispatch,
	blacklistAdd,
	blacklistRemove,
}

func encodeCampaign(c campaigns.Campaign) map[string]interface{} {
	val := map[string]interface{}{
		"id":              c.ID,
		"sender_id":       c.SenderID,
		"status":          c.Status.String(),
		"mode":            c.Mode.String(),
		"encoding":        c.Encoding.String(),
		"segments":        c.Segments,
		"recipient_count": c.RecipientCount,
		"cost":            c.Cost.String(),
		"created_at":      c.CreatedAt,
	}
	if len(c.Groups) > 0 {
		val["groups"] = c.Groups
	}
	if !c.ScheduledAt.IsZero() {
		val["scheduled_at"] = c.ScheduledAt
	}

	return val
}

type createCampaignEvent struct {
	campaign  campaigns.Campaign
	requestID string
}

func (cce createCampaignEvent) Encode() (map[string]interface{}, error) {
	val := map[string]interface{}{
		"operation":  campaignCreate,
		"request_id": cce.requestID,
	}
	maps.Copy(val, encodeCampaign(cce.campaign))

	return val, nil
}

type sendCampaignEvent struct {
	campaign  campaigns.Campaign
	operation string
	requestID string
}

func (sce sendCampaignEvent) Encode() (map[string]interface{}, error) {
	val := map[string]interface{}{
		"operation":  sce.operation,
		"request_id": sce.requestID,
		"delivered":  sce.campaign.Delivered,
		"failures":   sce.campaign.Failures,
	}
	maps.Copy(val, encodeCampaign(sce.campaign))
	if !sce.campaign.SentAt.IsZero() {
		val["sent_at"] = sce.campaign.SentAt
	}

	return val, nil
}

type cancelCampaignEvent struct {
	id        string
	requestID string
}

func (cce cancelCampaignEvent) Encode() (map[string]interface{}, error) {
	return map[string]interface{}{
		"operation":  campaignCancel,
		"id":         cce.id,
		"request_id": cce.requestID,
	}, nil
}

type addBlacklistEvent struct {
	entry     campaigns.BlacklistEntry
	requestID string
}

func (abe addBlacklistEvent) Encode() (map[string]interface{}, error) {
	val := map[string]interface{}{
		"operation":  blacklistAdd,
		"number":     abe.entry.Number,
		"created_at": abe.entry.CreatedAt.Format(time.RFC3339Nano),
		"request_id": abe.requestID,
	}
	if abe.entry.Reason != "" {
		val["reason"] = abe.entry.Reason
	}
	if abe.entry.Source != "" {
		val["source"] = abe.entry.Source
	}
	if abe.entry.AddedBy != "" {
		val["added_by"] = abe.entry.AddedBy
	}

	return val, nil
}

type removeBlacklistEvent struct {
	number    string
	requestID string
}

func (rbe removeBlacklistEvent) Encode() (map[string]interface{}, error) {
	return map[string]interface{}{
		"operation":  blacklistRemove,
		"number":     rbe.number,
		"request_id": rbe.requestID,
	}, nil
}
