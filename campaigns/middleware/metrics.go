// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/recipients"
	"github.com/dairylink/outreach/segments"
	"github.com/go-kit/kit/metrics"
)

var (
	_ campaigns.Service = (*metricsMiddleware)(nil)
	_ campaigns.Sender  = (*senderMetrics)(nil)
)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     campaigns.Service
}

// MetricsMiddleware instruments the campaigns service by tracking request
// count and latency.
func MetricsMiddleware(svc campaigns.Service, counter metrics.Counter, latency metrics.Histogram) campaigns.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) Estimate(ctx context.Context, message string, policy segments.Policy) (est segments.Estimate, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "estimate").Add(1)
		mm.latency.With("method", "estimate").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Estimate(ctx, message, policy)
}

func (mm *metricsMiddleware) Split(ctx context.Context, message string, policy segments.Policy) (parts []string, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "split").Add(1)
		mm.latency.With("method", "split").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Split(ctx, message, policy)
}

func (mm *metricsMiddleware) ValidateRecipients(ctx context.Context, numbers string) (parsed recipients.Parsed, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "validate_recipients").Add(1)
		mm.latency.With("method", "validate_recipients").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ValidateRecipients(ctx, numbers)
}

func (mm *metricsMiddleware) Quote(ctx context.Context, d campaigns.Composition) (q campaigns.Quote, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "quote").Add(1)
		mm.latency.With("method", "quote").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.Quote(ctx, d)
}

func (mm *metricsMiddleware) ListTemplates(ctx context.Context) (tpls []campaigns.Template, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list_templates").Add(1)
		mm.latency.With("method", "list_templates").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListTemplates(ctx)
}

func (mm *metricsMiddleware) RenderTemplate(ctx context.Context, id string, values map[string]string) (r campaigns.Rendered, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "render_template").Add(1)
		mm.latency.With("method", "render_template").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.RenderTemplate(ctx, id, values)
}

func (mm *metricsMiddleware) CreateCampaign(ctx context.Context, d campaigns.Composition) (c campaigns.Campaign, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "create_campaign").Add(1)
		mm.latency.With("method", "create_campaign").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.CreateCampaign(ctx, d)
}

func (mm *metricsMiddleware) ViewCampaign(ctx context.Context, id string) (c campaigns.Campaign, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "view_campaign").Add(1)
		mm.latency.With("method", "view_campaign").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ViewCampaign(ctx, id)
}

func (mm *metricsMiddleware) ListCampaigns(ctx context.Context, pm campaigns.PageMetadata) (page campaigns.Page, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list_campaigns").Add(1)
		mm.latency.With("method", "list_campaigns").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListCampaigns(ctx, pm)
}

func (mm *metricsMiddleware) SendCampaign(ctx context.Context, id string) (c campaigns.Campaign, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "send_campaign").Add(1)
		mm.latency.With("method", "send_campaign").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.SendCampaign(ctx, id)
}

func (mm *metricsMiddleware) CancelCampaign(ctx context.Context, id string) (c campaigns.Campaign, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "cancel_campaign").Add(1)
		mm.latency.With("method", "cancel_campaign").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.CancelCampaign(ctx, id)
}

func (mm *metricsMiddleware) DispatchDue(ctx context.Context, now time.Time) (sent []campaigns.Campaign, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "dispatch_due").Add(1)
		mm.latency.With("method", "dispatch_due").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.DispatchDue(ctx, now)
}

func (mm *metricsMiddleware) AddToBlacklist(ctx context.Context, entry campaigns.BlacklistEntry) (saved campaigns.BlacklistEntry, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "add_to_blacklist").Add(1)
		mm.latency.With("method", "add_to_blacklist").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.AddToBlacklist(ctx, entry)
}

func (mm *metricsMiddleware) RemoveFromBlacklist(ctx context.Context, number string) (err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "remove_from_blacklist").Add(1)
		mm.latency.With("method", "remove_from_blacklist").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.RemoveFromBlacklist(ctx, number)
}

func (mm *metricsMiddleware) ListBlacklist(ctx context.Context, pm campaigns.PageMetadata) (page campaigns.BlacklistPage, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list_blacklist").Add(1)
		mm.latency.With("method", "list_blacklist").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListBlacklist(ctx, pm)
}

func (mm *metricsMiddleware) ListGroups(ctx context.Context) (gs []campaigns.Group, err error) {
	defer func(begin time.Time) {
		mm.counter.With("method", "list_groups").Add(1)
		mm.latency.With("method", "list_groups").Observe(time.Since(begin).Seconds())
	}(time.Now())

	return mm.svc.ListGroups(ctx)
}

type senderMetrics struct {
	segments metrics.Counter
	failures metrics.Counter
	sender   campaigns.Sender
}

// SenderMetrics counts the segments submitted through sender and the
// submissions it failed, labelled by encoding.
func SenderMetrics(sender campaigns.Sender, segments, failures metrics.Counter) campaigns.Sender {
	return &senderMetrics{
		segments: segments,
		failures: failures,
		sender:   sender,
	}
}

func (sm *senderMetrics) Send(ctx context.Context, msg campaigns.Message) error {
	enc := msg.Estimate.Encoding.String()
	if err := sm.sender.Send(ctx, msg); err != nil {
		sm.failures.With("encoding", enc).Add(1)
		return err
	}
	sm.segments.With("encoding", enc).Add(float64(msg.Estimate.Segments))

	return nil
}
