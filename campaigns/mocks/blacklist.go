// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/dairylink/outreach/campaigns"
	"github.com/stretchr/testify/mock"
)

var _ campaigns.BlacklistRepository = (*BlacklistRepository)(nil)

type BlacklistRepository struct {
	mock.Mock
}

func (m *BlacklistRepository) Save(ctx context.Context, entry campaigns.BlacklistEntry) (campaigns.BlacklistEntry, error) {
	ret := m.Called(ctx, entry)

	return ret.Get(0).(campaigns.BlacklistEntry), ret.Error(1)
}

func (m *BlacklistRepository) Remove(ctx context.Context, number string) error {
	ret := m.Called(ctx, number)

	return ret.Error(0)
}

func (m *BlacklistRepository) RetrieveAll(ctx context.Context, pm campaigns.PageMetadata) (campaigns.BlacklistPage, error) {
	ret := m.Called(ctx, pm)

	return ret.Get(0).(campaigns.BlacklistPage), ret.Error(1)
}

func (m *BlacklistRepository) RetrieveBlocked(ctx context.Context, numbers []string) ([]string, error) {
	ret := m.Called(ctx, numbers)

	return ret.Get(0).([]string), ret.Error(1)
}
