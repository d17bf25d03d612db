// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"

	"github.com/dairylink/outreach/campaigns"
)

// Keep service as a global var so it can be set once by SetService and
// used by every command.
var svc campaigns.Service

// SetService sets the service the commands run against.
func SetService(s campaigns.Service) {
	svc = s
}

// NewService returns a service that works without storage or a gateway. It
// can estimate, quote, validate and render, but has no blacklist, no contact
// groups and cannot store or send campaigns.
func NewService(cfg campaigns.Config) campaigns.Service {
	return campaigns.NewService(nil, emptyBlacklist{}, emptyGroups{}, nil, nil, cfg)
}

type emptyBlacklist struct{}

func (emptyBlacklist) Save(_ context.Context, e campaigns.BlacklistEntry) (campaigns.BlacklistEntry, error) {
	return e, nil
}

func (emptyBlacklist) Remove(context.Context, string) error {
	return nil
}

func (emptyBlacklist) RetrieveAll(_ context.Context, pm campaigns.PageMetadata) (campaigns.BlacklistPage, error) {
	return campaigns.BlacklistPage{PageMetadata: pm}, nil
}

func (emptyBlacklist) RetrieveBlocked(context.Context, []string) ([]string, error) {
	return nil, nil
}

type emptyGroups struct{}

func (emptyGroups) RetrieveAll(context.Context) ([]campaigns.Group, error) {
	return nil, nil
}

func (emptyGroups) RetrieveByIDs(context.Context, []string) ([]campaigns.Group, error) {
	return nil, nil
}

func (emptyGroups) RetrieveMembers(context.Context, []string) ([]string, error) {
	return nil, nil
}
