// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package campaigns

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dairylink/outreach/pkg/ticker"
)

// Scheduler dispatches scheduled campaigns as they fall due.
type Scheduler struct {
	svc    Service
	ticker ticker.Ticker
	logger *slog.Logger
}

// NewScheduler returns a Scheduler calling svc on every tick.
func NewScheduler(svc Service, t ticker.Ticker, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		svc:    svc,
		ticker: t,
		logger: logger,
	}
}

// Start runs until ctx is done. Every tick is handled in its own goroutine,
// so a long delivery never delays campaigns falling due later; Start returns
// once all of them finished.
func (s *Scheduler) Start(ctx context.Context) error {
	defer s.ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-s.ticker.Tick():
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.dispatch(ctx, now)
			}()
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context, now time.Time) {
	due := now.UTC()
	sent, err := s.svc.DispatchDue(ctx, due)
	if err != nil {
		s.logger.Error("failed to dispatch due campaigns", slog.Time("due", due), slog.Any("error", err))
	}
	if len(sent) > 0 {
		s.logger.Info("dispatched scheduled campaigns", slog.Int("count", len(sent)), slog.Duration("lag", time.Since(now)))
	}
}
