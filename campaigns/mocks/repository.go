// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"time"

	"github.com/dairylink/outreach/campaigns"
	"github.com/stretchr/testify/mock"
)

var _ campaigns.Repository = (*Repository)(nil)

type Repository struct {
	mock.Mock
}

func (m *Repository) Save(ctx context.Context, c campaigns.Campaign) (campaigns.Campaign, error) {
	ret := m.Called(ctx, c)

	return ret.Get(0).(campaigns.Campaign), ret.Error(1)
}

func (m *Repository) RetrieveByID(ctx context.Context, id string) (campaigns.Campaign, error) {
	ret := m.Called(ctx, id)

	return ret.Get(0).(campaigns.Campaign), ret.Error(1)
}

func (m *Repository) RetrieveAll(ctx context.Context, pm campaigns.PageMetadata) (campaigns.Page, error) {
	ret := m.Called(ctx, pm)

	return ret.Get(0).(campaigns.Page), ret.Error(1)
}

func (m *Repository) RetrieveDue(ctx context.Context, now time.Time) ([]campaigns.Campaign, error) {
	ret := m.Called(ctx, now)

	return ret.Get(0).([]campaigns.Campaign), ret.Error(1)
}

func (m *Repository) Transition(ctx context.Context, id string, from []campaigns.Status, to campaigns.Status) (campaigns.Campaign, error) {
	ret := m.Called(ctx, id, from, to)

	return ret.Get(0).(campaigns.Campaign), ret.Error(1)
}

func (m *Repository) Update(ctx context.Context, c campaigns.Campaign) (campaigns.Campaign, error) {
	ret := m.Called(ctx, c)

	return ret.Get(0).(campaigns.Campaign), ret.Error(1)
}
