// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"time"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/recipients"
	"github.com/dairylink/outreach/segments"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ campaigns.Service = (*tracingMiddleware)(nil)

type tracingMiddleware struct {
	tracer trace.Tracer
	svc    campaigns.Service
}

// TracingMiddleware traces every campaigns service call.
func TracingMiddleware(svc campaigns.Service, tracer trace.Tracer) campaigns.Service {
	return &tracingMiddleware{tracer, svc}
}

func (tm *tracingMiddleware) Estimate(ctx context.Context, message string, policy segments.Policy) (est segments.Estimate, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_estimate", trace.WithAttributes(
		attribute.String("policy", policy.String()),
		attribute.Int("length", len(message)),
	))
	defer span.End()

	return tm.svc.Estimate(ctx, message, policy)
}

func (tm *tracingMiddleware) Split(ctx context.Context, message string, policy segments.Policy) (parts []string, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_split", trace.WithAttributes(
		attribute.String("policy", policy.String()),
	))
	defer span.End()

	return tm.svc.Split(ctx, message, policy)
}

func (tm *tracingMiddleware) ValidateRecipients(ctx context.Context, numbers string) (parsed recipients.Parsed, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_validate_recipients", trace.WithAttributes(
		attribute.Int("input_size", len(numbers)),
	))
	defer span.End()

	return tm.svc.ValidateRecipients(ctx, numbers)
}

func (tm *tracingMiddleware) Quote(ctx context.Context, d campaigns.Composition) (q campaigns.Quote, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_quote", trace.WithAttributes(
		attribute.StringSlice("groups", d.Groups),
		attribute.String("policy", d.Policy.String()),
	))
	defer span.End()

	return tm.svc.Quote(ctx, d)
}

func (tm *tracingMiddleware) ListTemplates(ctx context.Context) (tpls []campaigns.Template, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_list_templates")
	defer span.End()

	return tm.svc.ListTemplates(ctx)
}

func (tm *tracingMiddleware) RenderTemplate(ctx context.Context, id string, values map[string]string) (r campaigns.Rendered, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_render_template", trace.WithAttributes(
		attribute.String("template_id", id),
	))
	defer span.End()

	return tm.svc.RenderTemplate(ctx, id, values)
}

func (tm *tracingMiddleware) CreateCampaign(ctx context.Context, d campaigns.Composition) (c campaigns.Campaign, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_create_campaign", trace.WithAttributes(
		attribute.String("sender_id", d.SenderID),
		attribute.String("mode", d.Mode.String()),
		attribute.StringSlice("groups", d.Groups),
	))
	defer span.End()

	return tm.svc.CreateCampaign(ctx, d)
}

func (tm *tracingMiddleware) ViewCampaign(ctx context.Context, id string) (c campaigns.Campaign, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_view_campaign", trace.WithAttributes(
		attribute.String("id", id),
	))
	defer span.End()

	return tm.svc.ViewCampaign(ctx, id)
}

func (tm *tracingMiddleware) ListCampaigns(ctx context.Context, pm campaigns.PageMetadata) (page campaigns.Page, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_list_campaigns", trace.WithAttributes(
		attribute.String("status", pm.Status.String()),
		attribute.Int64("offset", int64(pm.Offset)),
		attribute.Int64("limit", int64(pm.Limit)),
	))
	defer span.End()

	return tm.svc.ListCampaigns(ctx, pm)
}

func (tm *tracingMiddleware) SendCampaign(ctx context.Context, id string) (c campaigns.Campaign, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_send_campaign", trace.WithAttributes(
		attribute.String("id", id),
	))
	defer span.End()

	return tm.svc.SendCampaign(ctx, id)
}

func (tm *tracingMiddleware) CancelCampaign(ctx context.Context, id string) (c campaigns.Campaign, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_cancel_campaign", trace.WithAttributes(
		attribute.String("id", id),
	))
	defer span.End()

	return tm.svc.CancelCampaign(ctx, id)
}

func (tm *tracingMiddleware) DispatchDue(ctx context.Context, now time.Time) (sent []campaigns.Campaign, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_dispatch_due", trace.WithAttributes(
		attribute.String("due", now.Format(time.RFC3339)),
	))
	defer span.End()

	return tm.svc.DispatchDue(ctx, now)
}

func (tm *tracingMiddleware) AddToBlacklist(ctx context.Context, entry campaigns.BlacklistEntry) (saved campaigns.BlacklistEntry, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_add_to_blacklist", trace.WithAttributes(
		attribute.String("number", entry.Number),
		attribute.String("source", entry.Source),
	))
	defer span.End()

	return tm.svc.AddToBlacklist(ctx, entry)
}

func (tm *tracingMiddleware) RemoveFromBlacklist(ctx context.Context, number string) (err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_remove_from_blacklist", trace.WithAttributes(
		attribute.String("number", number),
	))
	defer span.End()

	return tm.svc.RemoveFromBlacklist(ctx, number)
}

func (tm *tracingMiddleware) ListBlacklist(ctx context.Context, pm campaigns.PageMetadata) (page campaigns.BlacklistPage, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_list_blacklist", trace.WithAttributes(
		attribute.Int64("offset", int64(pm.Offset)),
		attribute.Int64("limit", int64(pm.Limit)),
	))
	defer span.End()

	return tm.svc.ListBlacklist(ctx, pm)
}

func (tm *tracingMiddleware) ListGroups(ctx context.Context) (gs []campaigns.Group, err error) {
	ctx, span := tm.tracer.Start(ctx, "svc_list_groups")
	defer span.End()

	return tm.svc.ListGroups(ctx)
}
