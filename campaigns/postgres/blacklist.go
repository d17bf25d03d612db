// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/internal/postgres"
	repoerr "github.com/dairylink/outreach/pkg/errors/repository"
	pgclient "github.com/dairylink/outreach/pkg/postgres"
)

var _ campaigns.BlacklistRepository = (*blacklistRepository)(nil)

type blacklistRepository struct {
	db pgclient.Database
}

// NewBlacklistRepository instantiates a PostgreSQL implementation of
// blacklist repository.
func NewBlacklistRepository(db pgclient.Database) campaigns.BlacklistRepository {
	return &blacklistRepository{db: db}
}

func (repo *blacklistRepository) Save(ctx context.Context, entry campaigns.BlacklistEntry) (campaigns.BlacklistEntry, error) {
	q := `INSERT INTO blacklist (number, reason, source, added_by, created_at)
		VALUES (:number, :reason, :source, :added_by, :created_at)`

	if _, err := repo.db.NamedExecContext(ctx, q, toDBEntry(entry)); err != nil {
		return campaigns.BlacklistEntry{}, postgres.HandleError(repoerr.ErrCreateEntity, err)
	}

	return entry, nil
}

func (repo *blacklistRepository) Remove(ctx context.Context, number string) error {
	q := `DELETE FROM blacklist WHERE number = :number`

	result, err := repo.db.NamedExecContext(ctx, q, map[string]interface{}{"number": number})
	if err != nil {
		return postgres.HandleError(repoerr.ErrRemoveEntity, err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return repoerr.ErrNotFound
	}

	return nil
}

func (repo *blacklistRepository) RetrieveAll(ctx context.Context, pm campaigns.PageMetadata) (campaigns.BlacklistPage, error) {
	q := `SELECT number, reason, source, added_by, created_at FROM blacklist
		ORDER BY created_at DESC, number LIMIT :limit OFFSET :offset`
	params := map[string]interface{}{
		"limit":  pm.Limit,
		"offset": pm.Offset,
	}

	rows, err := repo.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return campaigns.BlacklistPage{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	var entries []campaigns.BlacklistEntry
	for rows.Next() {
		var e dbEntry
		if err := rows.StructScan(&e); err != nil {
			return campaigns.BlacklistPage{}, postgres.HandleError(repoerr.ErrViewEntity, err)
		}
		entries = append(entries, toEntry(e))
	}

	total, err := pgclient.Total(ctx, repo.db, `SELECT COUNT(*) FROM blacklist`, params)
	if err != nil {
		return campaigns.BlacklistPage{}, postgres.HandleError(repoerr.ErrViewEntity, err)
	}

	return campaigns.BlacklistPage{
		PageMetadata: campaigns.PageMetadata{
			Total:  total,
			Offset: pm.Offset,
			Limit:  pm.Limit,
		},
		Entries: entries,
	}, nil
}

func (repo *blacklistRepository) RetrieveBlocked(ctx context.Context, numbers []string) ([]string, error) {
	if len(numbers) == 0 {
		return nil, nil
	}
	q := `SELECT number FROM blacklist WHERE number = ANY(:numbers)`

	rows, err := repo.db.NamedQueryContext(ctx, q, map[string]interface{}{"numbers": numbers})
	if err != nil {
		return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	var blocked []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
		}
		blocked = append(blocked, number)
	}

	return blocked, nil
}

type dbEntry struct {
	Number    string         `db:"number"`
	Reason    sql.NullString `db:"reason"`
	Source    sql.NullString `db:"source"`
	AddedBy   sql.NullString `db:"added_by"`
	CreatedAt time.Time      `db:"created_at"`
}

func toDBEntry(e campaigns.BlacklistEntry) dbEntry {
	return dbEntry{
		Number:    e.Number,
		Reason:    toNullString(e.Reason),
		Source:    toNullString(e.Source),
		AddedBy:   toNullString(e.AddedBy),
		CreatedAt: e.CreatedAt,
	}
}

func toEntry(e dbEntry) campaigns.BlacklistEntry {
	return campaigns.BlacklistEntry{
		Number:    e.Number,
		Reason:    e.Reason.String,
		Source:    e.Source.String,
		AddedBy:   e.AddedBy.String,
		CreatedAt: e.CreatedAt,
	}
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}

	return sql.NullString{
		String: s,
		Valid:  true,
	}
}
