// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package logger builds the structured loggers used by every outreach
// binary.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// New returns a JSON logger writing to w at the named level.
func New(w io.Writer, levelText string) (*slog.Logger, error) {
	var level Level
	if err := level.UnmarshalText(levelText); err != nil {
		return nil, fmt.Errorf("%w: %q", err, levelText)
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level.slog(),
	})

	return slog.New(handler), nil
}

// ExitWithError exits the process with *code when it is non-zero. It is
// meant to be deferred first in main so that other deferred calls run before
// exiting.
func ExitWithError(code *int) {
	if *code != 0 {
		os.Exit(*code)
	}
}
