// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/dairylink/outreach/campaigns"
	"github.com/stretchr/testify/mock"
)

var _ campaigns.GroupRepository = (*GroupRepository)(nil)

type GroupRepository struct {
	mock.Mock
}

func (m *GroupRepository) RetrieveAll(ctx context.Context) ([]campaigns.Group, error) {
	ret := m.Called(ctx)

	return ret.Get(0).([]campaigns.Group), ret.Error(1)
}

func (m *GroupRepository) RetrieveByIDs(ctx context.Context, ids []string) ([]campaigns.Group, error) {
	ret := m.Called(ctx, ids)

	return ret.Get(0).([]campaigns.Group), ret.Error(1)
}

func (m *GroupRepository) RetrieveMembers(ctx context.Context, ids []string) ([]string, error) {
	ret := m.Called(ctx, ids)

	return ret.Get(0).([]string), ret.Error(1)
}
