// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"fmt"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/internal/postgres"
	repoerr "github.com/dairylink/outreach/pkg/errors/repository"
	pgclient "github.com/dairylink/outreach/pkg/postgres"
)

const groupsQuery = `SELECT g.id, g.name, COUNT(m.number) AS count
	FROM contact_groups g LEFT JOIN group_members m ON m.group_id = g.id
	%s
	GROUP BY g.id, g.name ORDER BY g.name`

var _ campaigns.GroupRepository = (*groupRepository)(nil)

type groupRepository struct {
	db pgclient.Database
}

// NewGroupRepository instantiates a PostgreSQL implementation of contact
// group repository.
func NewGroupRepository(db pgclient.Database) campaigns.GroupRepository {
	return &groupRepository{db: db}
}

func (repo *groupRepository) RetrieveAll(ctx context.Context) ([]campaigns.Group, error) {
	return repo.retrieve(ctx, fmt.Sprintf(groupsQuery, ""), map[string]interface{}{})
}

func (repo *groupRepository) RetrieveByIDs(ctx context.Context, ids []string) ([]campaigns.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := fmt.Sprintf(groupsQuery, "WHERE g.id = ANY(:ids)")

	return repo.retrieve(ctx, q, map[string]interface{}{"ids": ids})
}

func (repo *groupRepository) RetrieveMembers(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := `SELECT DISTINCT number FROM group_members WHERE group_id = ANY(:ids) ORDER BY number`

	rows, err := repo.db.NamedQueryContext(ctx, q, map[string]interface{}{"ids": ids})
	if err != nil {
		return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
		}
		numbers = append(numbers, number)
	}

	return numbers, nil
}

func (repo *groupRepository) retrieve(ctx context.Context, q string, params map[string]interface{}) ([]campaigns.Group, error) {
	rows, err := repo.db.NamedQueryContext(ctx, q, params)
	if err != nil {
		return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
	}
	defer rows.Close()

	var groups []campaigns.Group
	for rows.Next() {
		var g dbGroup
		if err := rows.StructScan(&g); err != nil {
			return nil, postgres.HandleError(repoerr.ErrViewEntity, err)
		}
		groups = append(groups, campaigns.Group{ID: g.ID, Name: g.Name, Count: uint64(g.Count)})
	}

	return groups, nil
}

type dbGroup struct {
	ID    string `db:"id"`
	Name  string `db:"name"`
	Count int64  `db:"count"`
}
