// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package campaigns

import "context"

// Group is a named contact list.
type Group struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count uint64 `json:"count"`
}

// GroupRepository specifies contact group persistence API.
type GroupRepository interface {
	// RetrieveAll retrieves every group ordered by name.
	RetrieveAll(ctx context.Context) ([]Group, error)

	// RetrieveByIDs retrieves the groups with the given ids. Unknown ids are
	// skipped.
	RetrieveByIDs(ctx context.Context, ids []string) ([]Group, error)

	// RetrieveMembers retrieves the distinct member numbers of the groups.
	RetrieveMembers(ctx context.Context, ids []string) ([]string, error)
}
