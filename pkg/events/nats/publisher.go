// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package nats publishes events to a NATS JetStream stream.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dairylink/outreach/pkg/events"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	// Value -1 represents an unlimited number of reconnect retries.
	maxReconnects = -1

	// reconnectBufSize is obtained from the maximum number of unpublished events
	// multiplied by the approximate maximum size of a single event.
	reconnectBufSize = events.MaxUnpublishedEvents * (1024 * 1024)

	eventsPrefix = "events"
)

var (
	// StreamConfig is the JetStream stream events are published to.
	StreamConfig = jetstream.StreamConfig{
		Name:              "events",
		Description:       "Outreach stream for campaign and blacklist events",
		Subjects:          []string{"events.>"},
		Retention:         jetstream.LimitsPolicy,
		MaxMsgsPerSubject: 1e9,
		MaxAge:            time.Hour * 24,
		MaxMsgSize:        1024 * 1024,
		Discard:           jetstream.DiscardOld,
		Storage:           jetstream.FileStorage,
	}

	// ErrEmptyStream is returned when stream name is empty.
	ErrEmptyStream = errors.New("stream name cannot be empty")
)

var _ events.Publisher = (*pubEventStore)(nil)

type pubEventStore struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	stream string
}

// NewPublisher returns a publisher writing to the events.<stream> subject.
func NewPublisher(ctx context.Context, url, stream string) (events.Publisher, error) {
	if stream == "" {
		return nil, ErrEmptyStream
	}

	conn, err := nats.Connect(url, nats.MaxReconnects(maxReconnects), nats.ReconnectBufSize(int(reconnectBufSize)))
	if err != nil {
		return nil, err
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := js.CreateStream(ctx, StreamConfig); err != nil {
		conn.Close()
		return nil, err
	}

	return &pubEventStore{
		conn:   conn,
		js:     js,
		stream: stream,
	}, nil
}

func (es *pubEventStore) Publish(ctx context.Context, event events.Event) error {
	values, err := event.Encode()
	if err != nil {
		return err
	}
	values["occurred_at"] = time.Now().UnixNano()

	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("%s.%s", eventsPrefix, es.stream)
	_, err = es.js.Publish(ctx, subject, data)

	return err
}

func (es *pubEventStore) Close() error {
	es.conn.Close()
	return nil
}
