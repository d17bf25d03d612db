// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"io"
	"log/slog"
)

// NewMock returns a logger that discards everything.
func NewMock() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
