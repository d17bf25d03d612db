// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ Database = (*database)(nil)

// Database is the subset of sqlx used by the repositories. Every statement
// runs inside a client span.
type Database interface {
	// NamedQueryContext executes a named query and returns the rows.
	NamedQueryContext(ctx context.Context, query string, arg interface{}) (*sqlx.Rows, error)

	// NamedExecContext executes a named statement without returning rows.
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

type database struct {
	cfg    Config
	db     *sqlx.DB
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

// NewDatabase wraps db so that every statement is recorded as a span.
func NewDatabase(db *sqlx.DB, cfg Config, tracer trace.Tracer) Database {
	return &database{
		cfg:    cfg,
		db:     db,
		tracer: tracer,
		attrs: []attribute.KeyValue{
			attribute.String("db.system", "postgresql"),
			attribute.String("db.name", cfg.Name),
			attribute.String("db.user", cfg.User),
			attribute.String("server.address", cfg.Host),
			attribute.String("server.port", cfg.Port),
		},
	}
}

func (d *database) NamedQueryContext(ctx context.Context, query string, arg interface{}) (*sqlx.Rows, error) {
	ctx, span := d.startSpan(ctx, query)
	defer span.End()

	rows, err := d.db.NamedQueryContext(ctx, query, arg)
	record(span, err)

	return rows, err
}

func (d *database) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	ctx, span := d.startSpan(ctx, query)
	defer span.End()

	res, err := d.db.NamedExecContext(ctx, query, arg)
	record(span, err)

	return res, err
}

// startSpan names the span after the SQL verb and target database,
// e.g. "SELECT campaigns".
func (d *database) startSpan(ctx context.Context, query string) (context.Context, trace.Span) {
	verb := "QUERY"
	if fields := strings.Fields(query); len(fields) > 0 {
		verb = strings.ToUpper(strings.TrimLeft(fields[0], "("))
	}

	return d.tracer.Start(ctx, verb+" "+d.cfg.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(d.attrs...),
		trace.WithAttributes(
			attribute.String("db.operation", verb),
			attribute.String("db.statement", query),
		),
	)
}

func record(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
