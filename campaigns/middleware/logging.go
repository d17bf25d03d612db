// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/recipients"
	"github.com/dairylink/outreach/segments"
)

var _ campaigns.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    campaigns.Service
}

// LoggingMiddleware adds logging facilities to the campaigns service.
func LoggingMiddleware(svc campaigns.Service, logger *slog.Logger) campaigns.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func (lm *loggingMiddleware) Estimate(ctx context.Context, message string, policy segments.Policy) (est segments.Estimate, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("estimate",
				slog.String("policy", policy.String()),
				slog.String("encoding", est.Encoding.String()),
				slog.Int("length", est.Length),
				slog.Int("segments", est.Segments),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Estimate segments failed", args...)
			return
		}
		lm.logger.Debug("Estimate segments completed successfully", args...)
	}(time.Now())

	return lm.svc.Estimate(ctx, message, policy)
}

func (lm *loggingMiddleware) Split(ctx context.Context, message string, policy segments.Policy) (parts []string, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("policy", policy.String()),
			slog.Int("parts", len(parts)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Split message failed", args...)
			return
		}
		lm.logger.Debug("Split message completed successfully", args...)
	}(time.Now())

	return lm.svc.Split(ctx, message, policy)
}

func (lm *loggingMiddleware) ValidateRecipients(ctx context.Context, numbers string) (parsed recipients.Parsed, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("recipients",
				slog.Int("total", parsed.Total),
				slog.Int("valid", parsed.Valid),
				slog.Int("invalid", parsed.Invalid),
				slog.Int("duplicates", parsed.Duplicates),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Validate recipients failed", args...)
			return
		}
		lm.logger.Info("Validate recipients completed successfully", args...)
	}(time.Now())

	return lm.svc.ValidateRecipients(ctx, numbers)
}

func (lm *loggingMiddleware) Quote(ctx context.Context, d campaigns.Composition) (q campaigns.Quote, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("quote",
				slog.Uint64("recipients", q.RecipientCount),
				slog.Int("segments", q.Estimate.Segments),
				slog.String("cost", q.Cost.String()),
				slog.String("review", q.Review.Status.String()),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Quote campaign failed", args...)
			return
		}
		lm.logger.Info("Quote campaign completed successfully", args...)
	}(time.Now())

	return lm.svc.Quote(ctx, d)
}

func (lm *loggingMiddleware) ListTemplates(ctx context.Context) (tpls []campaigns.Template, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("templates", len(tpls)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List templates failed", args...)
			return
		}
		lm.logger.Debug("List templates completed successfully", args...)
	}(time.Now())

	return lm.svc.ListTemplates(ctx)
}

func (lm *loggingMiddleware) RenderTemplate(ctx context.Context, id string, values map[string]string) (r campaigns.Rendered, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("template_id", id),
			slog.Any("missing", r.Missing),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Render template failed", args...)
			return
		}
		lm.logger.Info("Render template completed successfully", args...)
	}(time.Now())

	return lm.svc.RenderTemplate(ctx, id, values)
}

func (lm *loggingMiddleware) CreateCampaign(ctx context.Context, d campaigns.Composition) (c campaigns.Campaign, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("campaign",
				slog.String("id", c.ID),
				slog.String("sender_id", d.SenderID),
				slog.String("mode", d.Mode.String()),
				slog.String("status", c.Status.String()),
				slog.Uint64("recipients", c.RecipientCount),
				slog.String("cost", c.Cost.String()),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Create campaign failed", args...)
			return
		}
		lm.logger.Info("Create campaign completed successfully", args...)
	}(time.Now())

	return lm.svc.CreateCampaign(ctx, d)
}

func (lm *loggingMiddleware) ViewCampaign(ctx context.Context, id string) (c campaigns.Campaign, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("campaign_id", id),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("View campaign failed", args...)
			return
		}
		lm.logger.Info("View campaign completed successfully", args...)
	}(time.Now())

	return lm.svc.ViewCampaign(ctx, id)
}

func (lm *loggingMiddleware) ListCampaigns(ctx context.Context, pm campaigns.PageMetadata) (page campaigns.Page, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("page",
				slog.String("status", pm.Status.String()),
				slog.Uint64("offset", pm.Offset),
				slog.Uint64("limit", pm.Limit),
				slog.Uint64("total", page.Total),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List campaigns failed", args...)
			return
		}
		lm.logger.Info("List campaigns completed successfully", args...)
	}(time.Now())

	return lm.svc.ListCampaigns(ctx, pm)
}

func (lm *loggingMiddleware) SendCampaign(ctx context.Context, id string) (c campaigns.Campaign, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("campaign",
				slog.String("id", id),
				slog.String("status", c.Status.String()),
				slog.Uint64("delivered", c.Delivered),
				slog.Uint64("failures", c.Failures),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Send campaign failed", args...)
			return
		}
		lm.logger.Info("Send campaign completed successfully", args...)
	}(time.Now())

	return lm.svc.SendCampaign(ctx, id)
}

func (lm *loggingMiddleware) CancelCampaign(ctx context.Context, id string) (c campaigns.Campaign, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("campaign_id", id),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Cancel campaign failed", args...)
			return
		}
		lm.logger.Info("Cancel campaign completed successfully", args...)
	}(time.Now())

	return lm.svc.CancelCampaign(ctx, id)
}

func (lm *loggingMiddleware) DispatchDue(ctx context.Context, now time.Time) (sent []campaigns.Campaign, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Time("due", now),
			slog.Int("dispatched", len(sent)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Dispatch due campaigns failed", args...)
			return
		}
		lm.logger.Debug("Dispatch due campaigns completed successfully", args...)
	}(time.Now())

	return lm.svc.DispatchDue(ctx, now)
}

func (lm *loggingMiddleware) AddToBlacklist(ctx context.Context, entry campaigns.BlacklistEntry) (saved campaigns.BlacklistEntry, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("blacklist",
				slog.String("number", entry.Number),
				slog.String("source", entry.Source),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Add to blacklist failed", args...)
			return
		}
		lm.logger.Info("Add to blacklist completed successfully", args...)
	}(time.Now())

	return lm.svc.AddToBlacklist(ctx, entry)
}

func (lm *loggingMiddleware) RemoveFromBlacklist(ctx context.Context, number string) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.String("number", number),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Remove from blacklist failed", args...)
			return
		}
		lm.logger.Info("Remove from blacklist completed successfully", args...)
	}(time.Now())

	return lm.svc.RemoveFromBlacklist(ctx, number)
}

func (lm *loggingMiddleware) ListBlacklist(ctx context.Context, pm campaigns.PageMetadata) (page campaigns.BlacklistPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("page",
				slog.Uint64("offset", pm.Offset),
				slog.Uint64("limit", pm.Limit),
				slog.Uint64("total", page.Total),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List blacklist failed", args...)
			return
		}
		lm.logger.Info("List blacklist completed successfully", args...)
	}(time.Now())

	return lm.svc.ListBlacklist(ctx, pm)
}

func (lm *loggingMiddleware) ListGroups(ctx context.Context) (gs []campaigns.Group, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("groups", len(gs)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List groups failed", args...)
			return
		}
		lm.logger.Info("List groups completed successfully", args...)
	}(time.Now())

	return lm.svc.ListGroups(ctx)
}
