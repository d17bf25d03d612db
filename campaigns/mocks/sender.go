// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/dairylink/outreach/campaigns"
	"github.com/stretchr/testify/mock"
)

var _ campaigns.Sender = (*Sender)(nil)

type Sender struct {
	mock.Mock
}

func (m *Sender) Send(ctx context.Context, msg campaigns.Message) error {
	ret := m.Called(ctx, msg)

	return ret.Error(0)
}
