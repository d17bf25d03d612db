// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package campaigns

import (
	"context"
	"time"
)

// BlacklistEntry is a number that must never receive messages.
type BlacklistEntry struct {
	Number    string    `json:"number"`
	Reason    string    `json:"reason,omitempty"`
	Source    string    `json:"source,omitempty"`
	AddedBy   string    `json:"added_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// BlacklistPage contains a page of blacklist entries.
type BlacklistPage struct {
	PageMetadata
	Entries []BlacklistEntry
}

// BlacklistRepository specifies blacklist persistence API.
type BlacklistRepository interface {
	// Save adds an entry. Adding a number twice is a conflict.
	Save(ctx context.Context, entry BlacklistEntry) (BlacklistEntry, error)

	// Remove deletes the entry for number.
	Remove(ctx context.Context, number string) error

	// RetrieveAll retrieves entries newest first.
	RetrieveAll(ctx context.Context, pm PageMetadata) (BlacklistPage, error)

	// RetrieveBlocked returns the subset of numbers that are blacklisted.
	RetrieveBlocked(ctx context.Context, numbers []string) ([]string, error)
}
