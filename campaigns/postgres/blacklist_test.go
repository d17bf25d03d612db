// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/campaigns/postgres"
	"github.com/dairylink/outreach/pkg/errors"
	repoerr "github.com/dairylink/outreach/pkg/errors/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanBlacklist(t *testing.T) {
	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM blacklist")
		require.Nil(t, err, fmt.Sprintf("clean blacklist unexpected error: %s", err))
	})
}

func newEntry(number string, offset time.Duration) campaigns.BlacklistEntry {
	return campaigns.BlacklistEntry{
		Number:    number,
		Reason:    "opted out",
		Source:    "sms",
		AddedBy:   "admin@dairylink.et",
		CreatedAt: time.Now().UTC().Add(offset).Truncate(time.Microsecond),
	}
}

func TestBlacklistSave(t *testing.T) {
	cleanBlacklist(t)
	repo := postgres.NewBlacklistRepository(database)

	entry := newEntry("+251911000001", 0)
	bare := campaigns.BlacklistEntry{Number: "+251911000002", CreatedAt: entry.CreatedAt}

	cases := []struct {
		desc  string
		entry campaigns.BlacklistEntry
		err   error
	}{
		{
			desc:  "add a number",
			entry: entry,
			err:   nil,
		},
		{
			desc:  "add a number without details",
			entry: bare,
			err:   nil,
		},
		{
			desc:  "add a number twice",
			entry: entry,
			err:   repoerr.ErrConflict,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			saved, err := repo.Save(context.Background(), tc.entry)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
			if err == nil {
				assert.Equal(t, tc.entry, saved)
			}
		})
	}

	page, err := repo.RetrieveAll(context.Background(), campaigns.PageMetadata{Limit: 10})
	require.Nil(t, err, fmt.Sprintf("retrieve blacklist unexpected error: %s", err))
	assert.ElementsMatch(t, []campaigns.BlacklistEntry{entry, bare}, page.Entries)
}

func TestBlacklistRetrieveAll(t *testing.T) {
	cleanBlacklist(t)
	repo := postgres.NewBlacklistRepository(database)

	var entries []campaigns.BlacklistEntry
	for i := 0; i < 5; i++ {
		e := newEntry(fmt.Sprintf("+25191100000%d", i), time.Duration(i)*time.Second)
		_, err := repo.Save(context.Background(), e)
		require.Nil(t, err, fmt.Sprintf("save entry unexpected error: %s", err))
		entries = append([]campaigns.BlacklistEntry{e}, entries...)
	}

	cases := []struct {
		desc    string
		pm      campaigns.PageMetadata
		entries []campaigns.BlacklistEntry
	}{
		{
			desc:    "retrieve all entries",
			pm:      campaigns.PageMetadata{Limit: 10},
			entries: entries,
		},
		{
			desc:    "retrieve a page of entries",
			pm:      campaigns.PageMetadata{Offset: 1, Limit: 2},
			entries: entries[1:3],
		},
		{
			desc: "retrieve past the last page",
			pm:   campaigns.PageMetadata{Offset: 5, Limit: 2},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			page, err := repo.RetrieveAll(context.Background(), tc.pm)
			assert.Nil(t, err, fmt.Sprintf("%s: unexpected error: %s", tc.desc, err))
			assert.Equal(t, uint64(5), page.Total)
			assert.Equal(t, tc.entries, page.Entries)
		})
	}
}

func TestBlacklistRetrieveBlocked(t *testing.T) {
	cleanBlacklist(t)
	repo := postgres.NewBlacklistRepository(database)

	for _, n := range []string{"+251911000001", "+251911000003"} {
		_, err := repo.Save(context.Background(), newEntry(n, 0))
		require.Nil(t, err, fmt.Sprintf("save entry unexpected error: %s", err))
	}

	cases := []struct {
		desc    string
		numbers []string
		blocked []string
	}{
		{
			desc:    "screen numbers with blacklisted ones",
			numbers: []string{"+251911000001", "+251911000002", "+251911000003"},
			blocked: []string{"+251911000001", "+251911000003"},
		},
		{
			desc:    "screen clean numbers",
			numbers: []string{"+251911000002"},
		},
		{
			desc: "screen no numbers",
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			blocked, err := repo.RetrieveBlocked(context.Background(), tc.numbers)
			assert.Nil(t, err, fmt.Sprintf("%s: unexpected error: %s", tc.desc, err))
			assert.ElementsMatch(t, tc.blocked, blocked)
		})
	}
}

func TestBlacklistRemove(t *testing.T) {
	cleanBlacklist(t)
	repo := postgres.NewBlacklistRepository(database)

	entry := newEntry("+251911000001", 0)
	_, err := repo.Save(context.Background(), entry)
	require.Nil(t, err, fmt.Sprintf("save entry unexpected error: %s", err))

	cases := []struct {
		desc   string
		number string
		err    error
	}{
		{
			desc:   "remove a blacklisted number",
			number: entry.Number,
			err:    nil,
		},
		{
			desc:   "remove a removed number",
			number: entry.Number,
			err:    repoerr.ErrNotFound,
		},
		{
			desc:   "remove an unknown number",
			number: "+251911999999",
			err:    repoerr.ErrNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			err := repo.Remove(context.Background(), tc.number)
			assert.True(t, errors.Contains(err, tc.err), fmt.Sprintf("%s: expected %s got %s\n", tc.desc, tc.err, err))
		})
	}
}
