// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package ticker abstracts time.Ticker so that periodic work can be driven
// by tests.
package ticker

import "time"

type Ticker interface {
	Tick() <-chan time.Time
	Stop()
}

type timeTicker struct {
	*time.Ticker
}

func NewTicker(d time.Duration) Ticker {
	return &timeTicker{time.NewTicker(d)}
}

func (t *timeTicker) Tick() <-chan time.Time {
	return t.C
}

// Manual is a Ticker fired explicitly with Fire.
type Manual struct {
	ch chan time.Time
}

// NewManual returns a Ticker that only ticks when fired.
func NewManual() *Manual {
	return &Manual{ch: make(chan time.Time)}
}

func (m *Manual) Tick() <-chan time.Time {
	return m.ch
}

// Fire delivers t to the consumer, blocking until it is received.
func (m *Manual) Fire(t time.Time) {
	m.ch <- t
}

func (m *Manual) Stop() {}
