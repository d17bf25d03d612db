// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package events defines the event store API services publish domain events
// through.
package events

import (
	"context"
	"time"
)

const (
	// ConnCheckInterval is how often a publisher checks its connection.
	ConnCheckInterval = 100 * time.Millisecond
	// MaxUnpublishedEvents bounds the events buffered while disconnected.
	MaxUnpublishedEvents uint64 = 1e4
)

// Event represents an event.
type Event interface {
	// Encode encodes event to map.
	Encode() (map[string]interface{}, error)
}

// Publisher specifies events publishing API.
type Publisher interface {
	// Publish publishes event to stream.
	Publish(ctx context.Context, event Event) error

	// Close gracefully closes event publisher's connection.
	Close() error
}

// Read reads value from event map.
// If value is not of type T, returns default value.
func Read[T any](event map[string]interface{}, key string, def T) T {
	val, ok := event[key].(T)
	if !ok {
		return def
	}

	return val
}

// ReadStringSlice reads string slice from event map.
// If value is not a string slice, returns empty slice.
func ReadStringSlice(event map[string]interface{}, key string) []string {
	var res []string

	vals, ok := event[key].([]interface{})
	if !ok {
		return res
	}

	for _, v := range vals {
		if s, ok := v.(string); ok {
			res = append(res, s)
		}
	}

	return res
}
