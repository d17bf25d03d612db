// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package errors

// ErrMalformedEntity indicates a request body that cannot be decoded.
var ErrMalformedEntity = New("malformed entity specification")
