// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package events

import (
	"context"
	"time"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/pkg/events"
	"github.com/dairylink/outreach/pkg/events/nats"
	"github.com/go-chi/chi/v5/middleware"
)

// Stream is the subject suffix campaign events are published under.
const Stream = "campaigns"

var _ campaigns.Service = (*eventStore)(nil)

type eventStore struct {
	events.Publisher
	campaigns.Service
}

// NewEventStoreMiddleware returns wrapper around campaigns service that sends
// events to event store.
func NewEventStoreMiddleware(ctx context.Context, svc campaigns.Service, url string) (campaigns.Service, error) {
	publisher, err := nats.NewPublisher(ctx, url, Stream)
	if err != nil {
		return nil, err
	}

	return NewEventStore(svc, publisher), nil
}

// NewEventStore wraps svc so that state changing calls publish through
// publisher. Read only calls pass through.
func NewEventStore(svc campaigns.Service, publisher events.Publisher) campaigns.Service {
	return &eventStore{
		Publisher: publisher,
		Service:   svc,
	}
}

func (es *eventStore) CreateCampaign(ctx context.Context, d campaigns.Composition) (campaigns.Campaign, error) {
	c, err := es.Service.CreateCampaign(ctx, d)
	if err != nil {
		return c, err
	}
	event := createCampaignEvent{
		campaign:  c,
		requestID: middleware.GetReqID(ctx),
	}
	if err := es.Publish(ctx, event); err != nil {
		return c, err
	}

	return c, nil
}

func (es *eventStore) SendCampaign(ctx context.Context, id string) (campaigns.Campaign, error) {
	c, err := es.Service.SendCampaign(ctx, id)
	if err != nil {
		return c, err
	}
	event := sendCampaignEvent{
		campaign:  c,
		operation: campaignSend,
		requestID: middleware.GetReqID(ctx),
	}
	if err := es.Publish(ctx, event); err != nil {
		return c, err
	}

	return c, nil
}

func (es *eventStore) CancelCampaign(ctx context.Context, id string) (campaigns.Campaign, error) {
	c, err := es.Service.CancelCampaign(ctx, id)
	if err != nil {
		return c, err
	}
	event := cancelCampaignEvent{
		id:        id,
		requestID: middleware.GetReqID(ctx),
	}
	if err := es.Publish(ctx, event); err != nil {
		return c, err
	}

	return c, nil
}

func (es *eventStore) DispatchDue(ctx context.Context, now time.Time) ([]campaigns.Campaign, error) {
	sent, err := es.Service.DispatchDue(ctx, now)
	for _, c := range sent {
		event := sendCampaignEvent{
			campaign:  c,
			operation: campaignDispatch,
		}
		if perr := es.Publish(ctx, event); perr != nil && err == nil {
			err = perr
		}
	}

	return sent, err
}

func (es *eventStore) AddToBlacklist(ctx context.Context, entry campaigns.BlacklistEntry) (campaigns.BlacklistEntry, error) {
	saved, err := es.Service.AddToBlacklist(ctx, entry)
	if err != nil {
		return saved, err
	}
	event := addBlacklistEvent{
		entry:     saved,
		requestID: middleware.GetReqID(ctx),
	}
	if err := es.Publish(ctx, event); err != nil {
		return saved, err
	}

	return saved, nil
}

func (es *eventStore) RemoveFromBlacklist(ctx context.Context, number string) error {
	if err := es.Service.RemoveFromBlacklist(ctx, number); err != nil {
		return err
	}
	event := removeBlacklistEvent{
		number:    number,
		requestID: middleware.GetReqID(ctx),
	}

	return es.Publish(ctx, event)
}
