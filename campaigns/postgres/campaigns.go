// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/internal/postgres"
	"github.com/dairylink/outreach/pkg/errors"
	repoerr "github.com/dairylink/outreach/pkg/errors/repository"
	pgclient "github.com/dairylink/outreach/pkg/postgres"
	"github.com/dairylink/outreach/pricing"
	"github.com/dairylink/outreach/segments"
	"github.com/jackc/pgtype"
)

const campaignColumns = `id, sender_id, message, policy, encoding, segments, recipients, group_ids,
	recipient_count, cost_minor, currency, review, mode, throttle, status, delivered, failures,
	scheduled_at, sent_at, created_at, updated_at`

var _ campaigns.Repository = (*campaignRepository)(nil)

type campaignRepository struct {
	db pgclient.Database
}

// NewRepository instantiates a PostgreSQL implementation of campaign
// repository.
func NewRepository(db pgclient.Database) campaigns.Repository {
	return &campaignRepository{db: db}
}

func (repo *campaignRepository) Save(ctx context.Context, c campaigns.Campaign) (campaigns.Campaign, error) {
	q := fmt.Sprintf(`INSERT INTO campaigns (%s)
		VALUES (:id, :sender_id, :message, :policy, :encoding, :segments, :recipients, :group_ids,
		:recipient_count, :cost_minor, :currency, :review, :mode, :throttle, :status, :delivered, :failures,
		:scheduled_at, :sent_at, :created_at, :updated_at)
		RETURNING %s`, campaignColumns, campaignColumns)

	dbc, err := toDBCampaign(c)
	if err != nil {
		return campaigns.Campaign{}, errors.Wrap(repoerr.ErrCreateEntity, err)
	}

	return repo.one(ctx, q, dbc, repoerr.ErrCreateEntity)
}

func (repo *campaignRepository) RetrieveByID(ctx context.Context, id string) (campaigns.Campaign, error) {
	q := fmt.Sprintf(`SELECT %s FROM campaigns WHERE id = :id`, campaignColumns)

	return repo.one(ctx, q, map[string]interface{}{"id": id}, repoerr.ErrViewEntity)
}

func (repo *campaignRepository) RetrieveAll(ctx context.Context, pm campaigns.PageMetadata) (campaigns.Page, error) {
	params := map[string]interface{}{
		"limit":  pm.Limit,
		"offset": pm.Offset,
		"status": int16(pm.Status),
	}
	var cond string
	if pm.Status != campaigns.AllStatus {
		cond = "status = :status"
	}
	where := pgclient.WhereClause(cond)

	q := fmt.Sprintf(`SELECT %s FROM campaigns %s ORDER BY created_at DESC LIMIT :limit OFFSET :offset`, campaignColumns, where)
	items, err := repo.many(ctx, q, params)
	if err != nil {
		return campaigns.Page{}, err
	}

	tq := fmt.Sprintf(`SELECT COUNT(*) FROM campaigns %s`, where)
	total, err := pgclient.Total(ctx, repo.db, tq, params)
	if err != nil {
		return campaigns.Page{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}

	return campaigns.Page{
		PageMetadata: campaigns.PageMetadata{
			Total:  total,
			Offset: pm.Offset,
			Limit:  pm.Limit,
			Status: pm.Status,
		},
		Campaigns: items,
	}, nil
}

func (repo *campaignRepository) RetrieveDue(ctx context.Context, now time.Time) ([]campaigns.Campaign, error) {
	q := fmt.Sprintf(`SELECT %s FROM campaigns
		WHERE status = :status AND scheduled_at IS NOT NULL AND scheduled_at <= :now
		ORDER BY scheduled_at ASC`, campaignColumns)
	params := map[string]interface{}{
		"status": int16(campaigns.Scheduled),
		"now":    now.UTC(),
	}

	return repo.many(ctx, q, params)
}

func (repo *campaignRepository) Transition(ctx context.Context, id string, from []campaigns.Status, to campaigns.Status) (campaigns.Campaign, error) {
	q := fmt.Sprintf(`UPDATE campaigns SET status = :to, updated_at = :updated_at
		WHERE id = :id AND status = ANY(:from)
		RETURNING %s`, campaignColumns)

	statuses := make([]int16, len(from))
	for i, s := range from {
		statuses[i] = int16(s)
	}
	params := map[string]interface{}{
		"id":         id,
		"to":         int16(to),
		"from":       statuses,
		"updated_at": time.Now().UTC(),
	}

	return repo.one(ctx, q, params, repoerr.ErrUpdateEntity)
}

func (repo *campaignRepository) Update(ctx context.Context, c campaigns.Campaign) (campaigns.Campaign, error) {
	q := fmt.Sprintf(`UPDATE campaigns SET status = :status, delivered = :delivered, failures = :failures,
		sent_at = :sent_at, updated_at = :updated_at
		WHERE id = :id
		RETURNING %s`, campaignColumns)

	dbc, err := toDBCampaign(c)
	if err != nil {
		return campaigns.Campaign{}, errors.Wrap(repoerr.ErrUpdateEntity, err)
	}

	return repo.one(ctx, q, dbc, repoerr.ErrUpdateEntity)
}

// one runs a query expected to yield a single campaign row. No row maps to
// repoerr.ErrNotFound.
func (repo *campaignRepository) one(ctx context.Context, q string, params interface{}, wrapper error) (campaigns.Campaign, error) {
	rows, err := repo.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return campaigns.Campaign{}, postgres.HandleError(wrapper, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return campaigns.Campaign{}, postgres.HandleError(wrapper, err)
		}
		return campaigns.Campaign{}, repoerr.ErrNotFound
	}

	var dbc dbCampaign
	if err := rows.StructScan(&dbc); err != nil {
		return campaigns.Campaign{}, postgres.HandleError(wrapper, err)
	}

	return toCampaign(dbc), nil
}

func (repo *campaignRepository) many(ctx context.Context, q string, params interface{}) ([]campaigns.Campaign, error) {
	rows, err := repo.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	var items []campaigns.Campaign
	for rows.Next() {
		var dbc dbCampaign
		if err := rows.StructScan(&dbc); err != nil {
			return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
		}
		items = append(items, toCampaign(dbc))
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
	}

	return items, nil
}

type dbCampaign struct {
	ID             string           `db:"id"`
	SenderID       string           `db:"sender_id"`
	Message        string           `db:"message"`
	Policy         int16            `db:"policy"`
	Encoding       int16            `db:"encoding"`
	Segments       int32            `db:"segments"`
	Recipients     pgtype.TextArray `db:"recipients"`
	Groups         pgtype.TextArray `db:"group_ids"`
	RecipientCount int64            `db:"recipient_count"`
	CostMinor      int64            `db:"cost_minor"`
	Currency       string           `db:"currency"`
	Review         int16            `db:"review"`
	Mode           int16            `db:"mode"`
	Throttle       string           `db:"throttle"`
	Status         int16            `db:"status"`
	Delivered      int64            `db:"delivered"`
	Failures       int64            `db:"failures"`
	ScheduledAt    sql.NullTime     `db:"scheduled_at"`
	SentAt         sql.NullTime     `db:"sent_at"`
	CreatedAt      time.Time        `db:"created_at"`
	UpdatedAt      sql.NullTime     `db:"updated_at"`
}

func toDBCampaign(c campaigns.Campaign) (dbCampaign, error) {
	var rcpts pgtype.TextArray
	if err := rcpts.Set(c.Recipients); err != nil {
		return dbCampaign{}, errors.Wrap(repoerr.ErrMalformedEntity, err)
	}
	var groups pgtype.TextArray
	if err := groups.Set(c.Groups); err != nil {
		return dbCampaign{}, errors.Wrap(repoerr.ErrMalformedEntity, err)
	}
	if c.Throttle == "" {
		c.Throttle = campaigns.ThrottleAuto
	}

	return dbCampaign{
		ID:             c.ID,
		SenderID:       c.SenderID,
		Message:        c.Message,
		Policy:         int16(c.Policy),
		Encoding:       int16(c.Encoding),
		Segments:       int32(c.Segments),
		Recipients:     rcpts,
		Groups:         groups,
		RecipientCount: int64(c.RecipientCount),
		CostMinor:      c.Cost.Minor,
		Currency:       c.Cost.Currency,
		Review:         int16(c.Review),
		Mode:           int16(c.Mode),
		Throttle:       string(c.Throttle),
		Status:         int16(c.Status),
		Delivered:      int64(c.Delivered),
		Failures:       int64(c.Failures),
		ScheduledAt:    toNullTime(c.ScheduledAt),
		SentAt:         toNullTime(c.SentAt),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      toNullTime(c.UpdatedAt),
	}, nil
}

func toCampaign(c dbCampaign) campaigns.Campaign {
	return campaigns.Campaign{
		ID:             c.ID,
		SenderID:       c.SenderID,
		Message:        c.Message,
		Policy:         segments.Policy(c.Policy),
		Encoding:       segments.Encoding(c.Encoding),
		Segments:       int(c.Segments),
		Recipients:     toStrings(c.Recipients),
		Groups:         toStrings(c.Groups),
		RecipientCount: uint64(c.RecipientCount),
		Cost:           pricing.Amount{Minor: c.CostMinor, Currency: c.Currency},
		Review:         campaigns.ReviewStatus(c.Review),
		Mode:           campaigns.Mode(c.Mode),
		Throttle:       campaigns.Throttle(c.Throttle),
		Status:         campaigns.Status(c.Status),
		Delivered:      uint64(c.Delivered),
		Failures:       uint64(c.Failures),
		ScheduledAt:    fromNullTime(c.ScheduledAt),
		SentAt:         fromNullTime(c.SentAt),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      fromNullTime(c.UpdatedAt),
	}
}

func toStrings(arr pgtype.TextArray) []string {
	var ret []string
	for _, e := range arr.Elements {
		ret = append(ret, e.String)
	}
	return ret
}

func toNullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func fromNullTime(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}
