// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package campaigns

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dairylink/outreach"
	"github.com/dairylink/outreach/pkg/errors"
	svcerr "github.com/dairylink/outreach/pkg/errors/service"
	"github.com/dairylink/outreach/pricing"
	"github.com/dairylink/outreach/recipients"
	"github.com/dairylink/outreach/segments"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// defWorkers bounds concurrent submissions when Config.Workers is unset.
	defWorkers = 10
	// defConcurrent bounds campaigns delivered at once by DispatchDue when
	// Config.Concurrent is unset.
	defConcurrent = 4
	// finishTimeout bounds storing the outcome of a delivered campaign.
	finishTimeout = 10 * time.Second
)

var senderPattern = regexp.MustCompile(`^[A-Za-z0-9-]{3,11}$`)

var (
	// ErrInvalidSenderID indicates a malformed sender ID.
	ErrInvalidSenderID = errors.New("sender id must be 3 to 11 letters, digits or dashes")

	// ErrEmptyMessage indicates a campaign without a body.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrNoRecipients indicates a campaign nobody would receive.
	ErrNoRecipients = errors.New("campaign has no recipients")

	// ErrSingleRecipient indicates a single mode campaign with more or less
	// than one recipient.
	ErrSingleRecipient = errors.New("single mode requires exactly one recipient")

	// ErrMissingSchedule indicates a scheduled mode campaign without a send time.
	ErrMissingSchedule = errors.New("scheduled mode requires a send time")

	// ErrScheduleInPast indicates a scheduled mode campaign due in the past.
	ErrScheduleInPast = errors.New("scheduled time is in the past")

	// ErrUnknownGroup indicates a reference to a missing contact group.
	ErrUnknownGroup = errors.New("unknown contact group")

	// ErrUnknownTemplate indicates a reference to a missing template.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrInvalidNumber indicates a malformed phone number.
	ErrInvalidNumber = errors.New("invalid phone number")
)

// Service specifies an API that must be fulfilled by the domain service
// implementation, and all of its decorators (e.g. logging & metrics).
type Service interface {
	// Estimate returns the encoding and segment count of message. An Unset
	// policy falls back to the configured one.
	Estimate(ctx context.Context, message string, policy segments.Policy) (segments.Estimate, error)

	// Split cuts message into the bodies of its segments.
	Split(ctx context.Context, message string, policy segments.Policy) ([]string, error)

	// ValidateRecipients parses a free-form number list.
	ValidateRecipients(ctx context.Context, numbers string) (recipients.Parsed, error)

	// Quote prices a draft without persisting it.
	Quote(ctx context.Context, d Composition) (Quote, error)

	// ListTemplates returns the built-in message templates.
	ListTemplates(ctx context.Context) ([]Template, error)

	// RenderTemplate fills the template with values.
	RenderTemplate(ctx context.Context, id string, values map[string]string) (Rendered, error)

	// CreateCampaign validates, prices and stores a draft.
	CreateCampaign(ctx context.Context, d Composition) (Campaign, error)

	// ViewCampaign retrieves a campaign by its id.
	ViewCampaign(ctx context.Context, id string) (Campaign, error)

	// ListCampaigns retrieves campaigns newest first.
	ListCampaigns(ctx context.Context, pm PageMetadata) (Page, error)

	// SendCampaign delivers a draft, scheduled or failed campaign now.
	SendCampaign(ctx context.Context, id string) (Campaign, error)

	// CancelCampaign cancels a draft or scheduled campaign.
	CancelCampaign(ctx context.Context, id string) (Campaign, error)

	// DispatchDue sends every scheduled campaign due at now. It returns the
	// campaigns it dispatched.
	DispatchDue(ctx context.Context, now time.Time) ([]Campaign, error)

	// AddToBlacklist stops number from receiving messages.
	AddToBlacklist(ctx context.Context, entry BlacklistEntry) (BlacklistEntry, error)

	// RemoveFromBlacklist lets number receive messages again.
	RemoveFromBlacklist(ctx context.Context, number string) error

	// ListBlacklist retrieves blacklisted numbers newest first.
	ListBlacklist(ctx context.Context, pm PageMetadata) (BlacklistPage, error)

	// ListGroups retrieves the contact groups.
	ListGroups(ctx context.Context) ([]Group, error)
}

// Rendered is a template filled with values.
type Rendered struct {
	Message  string            `json:"message"`
	Missing  []string          `json:"missing,omitempty"`
	Estimate segments.Estimate `json:"estimate"`
}

// Config holds the service settings.
type Config struct {
	// Policy is used whenever a request leaves the policy unset.
	Policy   segments.Policy
	Rate     pricing.Rate
	Reviewer Reviewer
	// Workers bounds concurrent submissions per campaign.
	Workers int
	// Concurrent bounds the due campaigns delivered at once.
	Concurrent int
	// AutoRate is the auto throttle in messages per minute. Zero disables
	// pacing.
	AutoRate int
}

var _ Service = (*service)(nil)

type service struct {
	repo      Repository
	blacklist BlacklistRepository
	groups    GroupRepository
	sender    Sender
	idp       outreach.IDProvider
	cfg       Config
}

// NewService returns a new campaigns service.
func NewService(repo Repository, blacklist BlacklistRepository, groups GroupRepository, sender Sender, idp outreach.IDProvider, cfg Config) Service {
	if cfg.Policy == segments.Unset {
		cfg.Policy = segments.ASCII
	}
	if cfg.Workers <= 0 {
		cfg.Workers = defWorkers
	}
	if cfg.Concurrent <= 0 {
		cfg.Concurrent = defConcurrent
	}
	if cfg.Rate.PerSegment.Currency == "" {
		cfg.Rate = pricing.DefaultRate()
	}
	return &service{
		repo:      repo,
		blacklist: blacklist,
		groups:    groups,
		sender:    sender,
		idp:       idp,
		cfg:       cfg,
	}
}

func (svc *service) Estimate(_ context.Context, message string, policy segments.Policy) (segments.Estimate, error) {
	return policy.Or(svc.cfg.Policy).Estimate(message), nil
}

func (svc *service) Split(_ context.Context, message string, policy segments.Policy) ([]string, error) {
	return policy.Or(svc.cfg.Policy).Split(message), nil
}

func (svc *service) ValidateRecipients(_ context.Context, numbers string) (recipients.Parsed, error) {
	return recipients.Parse(numbers), nil
}

func (svc *service) Quote(ctx context.Context, d Composition) (Quote, error) {
	est := d.Policy.Or(svc.cfg.Policy).Estimate(d.Message)
	parsed := recipients.Parse(d.Numbers)

	numbers, blacklisted, err := svc.screen(ctx, parsed.Numbers)
	if err != nil {
		return Quote{}, err
	}

	var groupTotal uint64
	if len(d.Groups) > 0 {
		ids := recipients.Merge(d.Groups)
		gs, err := svc.groups.RetrieveByIDs(ctx, ids)
		if err != nil {
			return Quote{}, errors.Wrap(svcerr.ErrViewEntity, err)
		}
		if len(gs) != len(ids) {
			return Quote{}, errors.Wrap(svcerr.ErrNotFound, ErrUnknownGroup)
		}
		for _, g := range gs {
			groupTotal += g.Count
		}
	}

	count := uint64(len(numbers)) + groupTotal
	q := Quote{
		Estimate:        est,
		Numbers:         numbers,
		Parsed:          parsed,
		Blacklisted:     blacklisted,
		GroupRecipients: groupTotal,
		RecipientCount:  count,
		Rate:            svc.cfg.Rate,
		Cost:            svc.cfg.Rate.Cost(count, est.Segments),
		Review:          svc.cfg.Reviewer.Review(d.Message),
	}
	q.Warnings = warnings(q)

	return q, nil
}

func warnings(q Quote) []string {
	var ret []string
	if q.RecipientCount == 0 {
		ret = append(ret, "no recipients selected")
	}
	if q.Parsed.Invalid > 0 {
		ret = append(ret, fmt.Sprintf("%d invalid numbers ignored", q.Parsed.Invalid))
	}
	if q.Blacklisted > 0 {
		ret = append(ret, fmt.Sprintf("%d blacklisted numbers removed", q.Blacklisted))
	}
	if q.Estimate.Encoding == segments.UCS2 && q.Estimate.Length > 0 {
		ret = append(ret, "message contains characters outside GSM-7 and is sent as UCS-2")
	}
	if q.Estimate.Long {
		ret = append(ret, fmt.Sprintf("message spans %d segments", q.Estimate.Segments))
	}
	switch q.Review.Status {
	case Pending:
		ret = append(ret, "message is too short to review")
	case Warning:
		ret = append(ret, "message flagged for review: "+strings.Join(q.Review.Matches, ", "))
	case Blocked:
		ret = append(ret, "message blocked: "+strings.Join(q.Review.Matches, ", "))
	}
	return ret
}

// screen drops blacklisted numbers.
func (svc *service) screen(ctx context.Context, numbers []string) ([]string, int, error) {
	if len(numbers) == 0 {
		return numbers, 0, nil
	}
	blocked, err := svc.blacklist.RetrieveBlocked(ctx, numbers)
	if err != nil {
		return nil, 0, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	kept, removed := recipients.Filter(numbers, recipients.NewSet(blocked...).Contains)
	return kept, removed, nil
}

func (svc *service) ListTemplates(_ context.Context) ([]Template, error) {
	return Templates(), nil
}

func (svc *service) RenderTemplate(_ context.Context, id string, values map[string]string) (Rendered, error) {
	t, ok := TemplateByID(id)
	if !ok {
		return Rendered{}, errors.Wrap(svcerr.ErrNotFound, ErrUnknownTemplate)
	}
	msg, missing := t.Render(values)
	return Rendered{
		Message:  msg,
		Missing:  missing,
		Estimate: svc.cfg.Policy.Estimate(msg),
	}, nil
}

func (svc *service) CreateCampaign(ctx context.Context, d Composition) (Campaign, error) {
	now := time.Now().UTC()
	if err := validateDraft(d, now); err != nil {
		return Campaign{}, errors.Wrap(svcerr.ErrMalformedEntity, err)
	}

	q, err := svc.Quote(ctx, d)
	if err != nil {
		return Campaign{}, err
	}
	switch {
	case q.Review.Status == Blocked:
		return Campaign{}, svcerr.ErrBlockedContent
	case q.RecipientCount == 0:
		return Campaign{}, errors.Wrap(svcerr.ErrMalformedEntity, ErrNoRecipients)
	case d.Mode == Single && q.RecipientCount != 1:
		return Campaign{}, errors.Wrap(svcerr.ErrMalformedEntity, ErrSingleRecipient)
	}

	id, err := svc.idp.ID()
	if err != nil {
		return Campaign{}, errors.Wrap(svcerr.ErrUniqueID, err)
	}

	c := Campaign{
		ID:             id,
		SenderID:       d.SenderID,
		Message:        d.Message,
		Policy:         d.Policy.Or(svc.cfg.Policy),
		Encoding:       q.Estimate.Encoding,
		Segments:       q.Estimate.Segments,
		Recipients:     q.Numbers,
		Groups:         recipients.Merge(d.Groups),
		RecipientCount: q.RecipientCount,
		Cost:           q.Cost,
		Review:         q.Review.Status,
		Mode:           d.Mode,
		Throttle:       d.Throttle,
		Status:         Draft,
		CreatedAt:      now,
	}
	if c.Throttle == "" {
		c.Throttle = ThrottleAuto
	}
	if d.ScheduledAt.After(now) {
		c.ScheduledAt = d.ScheduledAt.UTC()
		c.Status = Scheduled
	}

	saved, err := svc.repo.Save(ctx, c)
	if err != nil {
		return Campaign{}, errors.Wrap(svcerr.ErrCreateEntity, err)
	}
	return saved, nil
}

func validateDraft(d Composition, now time.Time) error {
	if !senderPattern.MatchString(d.SenderID) {
		return ErrInvalidSenderID
	}
	if strings.TrimSpace(d.Message) == "" {
		return ErrEmptyMessage
	}
	if _, err := ToThrottle(string(d.Throttle)); err != nil {
		return err
	}
	if d.Mode == Deferred {
		if d.ScheduledAt.IsZero() {
			return ErrMissingSchedule
		}
		if !d.ScheduledAt.After(now) {
			return ErrScheduleInPast
		}
	}
	return nil
}

func (svc *service) ViewCampaign(ctx context.Context, id string) (Campaign, error) {
	c, err := svc.repo.RetrieveByID(ctx, id)
	if err != nil {
		return Campaign{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	return c, nil
}

func (svc *service) ListCampaigns(ctx context.Context, pm PageMetadata) (Page, error) {
	page, err := svc.repo.RetrieveAll(ctx, pm)
	if err != nil {
		return Page{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	return page, nil
}

func (svc *service) SendCampaign(ctx context.Context, id string) (Campaign, error) {
	c, err := svc.repo.RetrieveByID(ctx, id)
	if err != nil {
		return Campaign{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	if !c.Status.Sendable() {
		return Campaign{}, svcerr.ErrInvalidStatus
	}
	return svc.dispatch(ctx, id, []Status{Draft, Scheduled, Failed})
}

func (svc *service) CancelCampaign(ctx context.Context, id string) (Campaign, error) {
	c, err := svc.repo.RetrieveByID(ctx, id)
	if err != nil {
		return Campaign{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	if !c.Status.Cancellable() {
		return Campaign{}, svcerr.ErrInvalidStatus
	}
	c, err = svc.repo.Transition(ctx, id, []Status{Draft, Scheduled}, Cancelled)
	if err != nil {
		return Campaign{}, errors.Wrap(svcerr.ErrInvalidStatus, err)
	}
	return c, nil
}

func (svc *service) DispatchDue(ctx context.Context, now time.Time) ([]Campaign, error) {
	due, err := svc.repo.RetrieveDue(ctx, now)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}

	var (
		mu      sync.Mutex
		lastErr error
		results = make([]*Campaign, len(due))
	)
	var g errgroup.Group
	g.SetLimit(svc.cfg.Concurrent)
	for i, c := range due {
		i, id := i, c.ID
		g.Go(func() error {
			sent, err := svc.dispatch(ctx, id, []Status{Scheduled})
			switch {
			case errors.Contains(err, svcerr.ErrInvalidStatus):
				// Cancelled or sent since it was listed.
			case err != nil:
				mu.Lock()
				lastErr = err
				mu.Unlock()
			default:
				results[i] = &sent
			}
			return nil
		})
	}
	_ = g.Wait()

	var dispatched []Campaign
	for _, c := range results {
		if c != nil {
			dispatched = append(dispatched, *c)
		}
	}

	return dispatched, lastErr
}

// dispatch claims the campaign by moving it to Sending and delivers it.
// Delivery stops early when ctx is done; the outcome is stored regardless.
func (svc *service) dispatch(ctx context.Context, id string, from []Status) (Campaign, error) {
	c, err := svc.repo.Transition(ctx, id, from, Sending)
	if err != nil {
		return Campaign{}, errors.Wrap(svcerr.ErrInvalidStatus, err)
	}

	numbers, err := svc.resolve(ctx, c)
	if err != nil {
		c.Status = Failed
		c.UpdatedAt = time.Now().UTC()
		if _, uerr := svc.finish(ctx, c); uerr != nil {
			return Campaign{}, uerr
		}
		return Campaign{}, err
	}

	delivered, failures := svc.deliver(ctx, c, numbers)

	c.Delivered = delivered
	c.Failures = failures
	c.Status = Sent
	if delivered == 0 {
		c.Status = Failed
	}
	c.SentAt = time.Now().UTC()
	c.UpdatedAt = c.SentAt

	return svc.finish(ctx, c)
}

// finish stores the outcome of a claimed campaign on a context detached
// from ctx, so a cancelled caller cannot leave the campaign in Sending.
func (svc *service) finish(ctx context.Context, c Campaign) (Campaign, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()

	saved, err := svc.repo.Update(ctx, c)
	if err != nil {
		return Campaign{}, errors.Wrap(svcerr.ErrUpdateEntity, err)
	}
	return saved, nil
}

// resolve expands the campaign groups and drops numbers blacklisted since
// the campaign was created.
func (svc *service) resolve(ctx context.Context, c Campaign) ([]string, error) {
	numbers := c.Recipients
	if len(c.Groups) > 0 {
		members, err := svc.groups.RetrieveMembers(ctx, c.Groups)
		if err != nil {
			return nil, errors.Wrap(svcerr.ErrViewEntity, err)
		}
		numbers = recipients.Merge(numbers, members)
	}
	numbers, _, err := svc.screen(ctx, numbers)
	return numbers, err
}

func (svc *service) deliver(ctx context.Context, c Campaign, numbers []string) (delivered, failures uint64) {
	policy := c.Policy.Or(svc.cfg.Policy)
	est := policy.Estimate(c.Message)
	parts := policy.Split(c.Message)

	var limiter *rate.Limiter
	if perMin := c.Throttle.PerMinute(svc.cfg.AutoRate); perMin > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), 1)
	}

	var ok, failed atomic.Uint64
	var g errgroup.Group
	g.SetLimit(svc.cfg.Workers)
	for i, number := range numbers {
		if ctx.Err() != nil {
			failed.Add(uint64(len(numbers) - i))
			break
		}
		number := number
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					failed.Add(1)
					return nil
				}
			}
			msg := Message{
				From:     c.SenderID,
				To:       number,
				Body:     c.Message,
				Parts:    parts,
				Estimate: est,
			}
			if err := svc.sender.Send(ctx, msg); err != nil {
				failed.Add(1)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return ok.Load(), failed.Load()
}

func (svc *service) AddToBlacklist(ctx context.Context, entry BlacklistEntry) (BlacklistEntry, error) {
	entry.Number = strings.TrimSpace(entry.Number)
	if !recipients.Valid(entry.Number) {
		return BlacklistEntry{}, errors.Wrap(svcerr.ErrMalformedEntity, ErrInvalidNumber)
	}
	entry.CreatedAt = time.Now().UTC()

	saved, err := svc.blacklist.Save(ctx, entry)
	if err != nil {
		return BlacklistEntry{}, errors.Wrap(svcerr.ErrCreateEntity, err)
	}
	return saved, nil
}

func (svc *service) RemoveFromBlacklist(ctx context.Context, number string) error {
	if err := svc.blacklist.Remove(ctx, number); err != nil {
		return errors.Wrap(svcerr.ErrRemoveEntity, err)
	}
	return nil
}

func (svc *service) ListBlacklist(ctx context.Context, pm PageMetadata) (BlacklistPage, error) {
	page, err := svc.blacklist.RetrieveAll(ctx, pm)
	if err != nil {
		return BlacklistPage{}, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	return page, nil
}

func (svc *service) ListGroups(ctx context.Context) ([]Group, error) {
	gs, err := svc.groups.RetrieveAll(ctx)
	if err != nil {
		return nil, errors.Wrap(svcerr.ErrViewEntity, err)
	}
	return gs, nil
}
