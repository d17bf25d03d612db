// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"fmt"
	"strings"
)

// Total returns the number of rows counted by query.
//
// For example:
//
//	total, err := Total(ctx, db, "SELECT COUNT(*) FROM campaigns WHERE status = :status", params)
func Total(ctx context.Context, db Database, query string, params interface{}) (uint64, error) {
	rows, err := db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	total := uint64(0)
	if rows.Next() {
		if err := rows.Scan(&total); err != nil {
			return 0, err
		}
	}

	return total, nil
}

// WhereClause joins non-empty conditions with AND and prefixes them with
// WHERE. It returns an empty string when there is nothing to filter on.
func WhereClause(conditions ...string) string {
	var parts []string
	for _, c := range conditions {
		if c != "" {
			parts = append(parts, c)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("WHERE %s", strings.Join(parts, " AND "))
}
