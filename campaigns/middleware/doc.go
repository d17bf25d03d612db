// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package middleware decorates the campaigns service with logging, metrics
// and tracing, and the SMS sender with delivery metrics.
package middleware
