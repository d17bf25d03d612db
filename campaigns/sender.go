// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package campaigns

import (
	"context"

	"github.com/dairylink/outreach/segments"
)

// Message is a single submission to one recipient. Parts holds the segments
// Body is transmitted as and has Estimate.Segments entries.
type Message struct {
	From     string
	To       string
	Body     string
	Parts    []string
	Estimate segments.Estimate
}

// Sender submits messages to an SMS gateway.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
