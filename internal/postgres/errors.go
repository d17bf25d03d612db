// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"github.com/dairylink/outreach/pkg/errors"
	repoerr "github.com/dairylink/outreach/pkg/errors/repository"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// HandleError maps a Postgres error onto a repository error. Errors without a
// recognised SQLSTATE are wrapped with wrapper.
func HandleError(wrapper, err error) error {
	pgErr, ok := err.(*pgconn.PgError)
	if ok {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return errors.Wrap(repoerr.ErrConflict, err)
		case pgerrcode.InvalidTextRepresentation, pgerrcode.StringDataRightTruncationDataException,
			pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
			return errors.Wrap(repoerr.ErrMalformedEntity, err)
		case pgerrcode.ForeignKeyViolation:
			return errors.Wrap(repoerr.ErrCreateEntity, err)
		}
	}

	return errors.Wrap(wrapper, err)
}
