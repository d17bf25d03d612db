// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	_ "github.com/jackc/pgx/v5/stdlib" // required for SQL access
	migrate "github.com/rubenv/sql-migrate"
)

// Migration of campaigns service.
func Migration() *migrate.MemoryMigrationSource {
	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "campaigns_01",
				// VARCHAR(36) for colums with IDs as UUIDS have a maximum of 36 characters
				Up: []string{
					`CREATE TABLE IF NOT EXISTS campaigns (
						id				VARCHAR(36) PRIMARY KEY,
						sender_id		VARCHAR(11) NOT NULL,
						message			TEXT NOT NULL,
						policy			SMALLINT NOT NULL DEFAULT 0,
						encoding		SMALLINT NOT NULL DEFAULT 0,
						segments		INTEGER NOT NULL DEFAULT 0,
						recipients		TEXT[],
						group_ids		TEXT[],
						recipient_count	BIGINT NOT NULL DEFAULT 0,
						cost_minor		BIGINT NOT NULL DEFAULT 0,
						currency		VARCHAR(3) NOT NULL,
						review			SMALLINT NOT NULL DEFAULT 0,
						mode			SMALLINT NOT NULL DEFAULT 0,
						throttle		VARCHAR(16) NOT NULL DEFAULT 'auto',
						status			SMALLINT NOT NULL DEFAULT 0 CHECK (status >= 0),
						delivered		BIGINT NOT NULL DEFAULT 0,
						failures		BIGINT NOT NULL DEFAULT 0,
						scheduled_at	TIMESTAMP,
						sent_at			TIMESTAMP,
						created_at		TIMESTAMP NOT NULL,
						updated_at		TIMESTAMP
					)`,
					`CREATE INDEX IF NOT EXISTS campaigns_due_idx ON campaigns (status, scheduled_at)`,
					`CREATE TABLE IF NOT EXISTS blacklist (
						number			VARCHAR(32) PRIMARY KEY,
						reason			TEXT,
						source			VARCHAR(64),
						added_by		VARCHAR(254),
						created_at		TIMESTAMP NOT NULL
					)`,
				},
				Down: []string{
					`DROP TABLE IF EXISTS campaigns`,
					`DROP TABLE IF EXISTS blacklist`,
				},
			},
			{
				Id: "campaigns_02_contact_groups",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS contact_groups (
						id				VARCHAR(36) PRIMARY KEY,
						name			VARCHAR(254) NOT NULL UNIQUE,
						created_at		TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
					)`,
					`CREATE TABLE IF NOT EXISTS group_members (
						group_id		VARCHAR(36) NOT NULL REFERENCES contact_groups (id) ON DELETE CASCADE,
						number			VARCHAR(32) NOT NULL,
						PRIMARY KEY (group_id, number)
					)`,
				},
				Down: []string{
					`DROP TABLE IF EXISTS group_members`,
					`DROP TABLE IF EXISTS contact_groups`,
				},
			},
		},
	}
}
