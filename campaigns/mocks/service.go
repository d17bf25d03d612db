// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"time"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/recipients"
	"github.com/dairylink/outreach/segments"
	"github.com/stretchr/testify/mock"
)

var _ campaigns.Service = (*Service)(nil)

type Service struct {
	mock.Mock
}

func (m *Service) Estimate(ctx context.Context, message string, policy segments.Policy) (segments.Estimate, error) {
	ret := m.Called(ctx, message, policy)

	return ret.Get(0).(segments.Estimate), ret.Error(1)
}

func (m *Service) Split(ctx context.Context, message string, policy segments.Policy) ([]string, error) {
	ret := m.Called(ctx, message, policy)

	return ret.Get(0).([]string), ret.Error(1)
}

func (m *Service) ValidateRecipients(ctx context.Context, numbers string) (recipients.Parsed, error) {
	ret := m.Called(ctx, numbers)

	return ret.Get(0).(recipients.Parsed), ret.Error(1)
}

func (m *Service) Quote(ctx context.Context, d campaigns.Composition) (campaigns.Quote, error) {
	ret := m.Called(ctx, d)

	return ret.Get(0).(campaigns.Quote), ret.Error(1)
}

func (m *Service) ListTemplates(ctx context.Context) ([]campaigns.Template, error) {
	ret := m.Called(ctx)

	return ret.Get(0).([]campaigns.Template), ret.Error(1)
}

func (m *Service) RenderTemplate(ctx context.Context, id string, values map[string]string) (campaigns.Rendered, error) {
	ret := m.Called(ctx, id, values)

	return ret.Get(0).(campaigns.Rendered), ret.Error(1)
}

func (m *Service) CreateCampaign(ctx context.Context, d campaigns.Composition) (campaigns.Campaign, error) {
	ret := m.Called(ctx, d)

	return ret.Get(0).(campaigns.Campaign), ret.Error(1)
}

func (m *Service) ViewCampaign(ctx context.Context, id string) (campaigns.Campaign, error) {
	ret := m.Called(ctx, id)

	return ret.Get(0).(campaigns.Campaign), ret.Error(1)
}

func (m *Service) ListCampaigns(ctx context.Context, pm campaigns.PageMetadata) (campaigns.Page, error) {
	ret := m.Called(ctx, pm)

	return ret.Get(0).(campaigns.Page), ret.Error(1)
}

func (m *Service) SendCampaign(ctx context.Context, id string) (campaigns.Campaign, error) {
	ret := m.Called(ctx, id)

	return ret.Get(0).(campaigns.Campaign), ret.Error(1)
}

func (m *Service) CancelCampaign(ctx context.Context, id string) (campaigns.Campaign, error) {
	ret := m.Called(ctx, id)

	return ret.Get(0).(campaigns.Campaign), ret.Error(1)
}

func (m *Service) DispatchDue(ctx context.Context, now time.Time) ([]campaigns.Campaign, error) {
	ret := m.Called(ctx, now)

	return ret.Get(0).([]campaigns.Campaign), ret.Error(1)
}

func (m *Service) AddToBlacklist(ctx context.Context, entry campaigns.BlacklistEntry) (campaigns.BlacklistEntry, error) {
	ret := m.Called(ctx, entry)

	return ret.Get(0).(campaigns.BlacklistEntry), ret.Error(1)
}

func (m *Service) RemoveFromBlacklist(ctx context.Context, number string) error {
	ret := m.Called(ctx, number)

	return ret.Error(0)
}

func (m *Service) ListBlacklist(ctx context.Context, pm campaigns.PageMetadata) (campaigns.BlacklistPage, error) {
	ret := m.Called(ctx, pm)

	return ret.Get(0).(campaigns.BlacklistPage), ret.Error(1)
}

func (m *Service) ListGroups(ctx context.Context) ([]campaigns.Group, error) {
	ret := m.Called(ctx)

	return ret.Get(0).([]campaigns.Group), ret.Error(1)
}
