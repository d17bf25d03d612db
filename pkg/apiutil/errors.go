// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package apiutil

import "github.com/dairylink/outreach/pkg/errors"

// Errors defined in this file are used by the LoggingErrorEncoder decorator
// to distinguish and log API request validation errors and avoid that service
// errors are logged twice.
var (
	// ErrValidation indicates that an error was returned by the API.
	ErrValidation = errors.New("something went wrong with the request")

	// ErrMissingID indicates missing entity ID.
	ErrMissingID = errors.New("missing entity id")

	// ErrInvalidIDFormat indicates an invalid ID format.
	ErrInvalidIDFormat = errors.New("invalid id format provided")

	// ErrLimitSize indicates that an invalid limit.
	ErrLimitSize = errors.New("invalid limit size")

	// ErrOffsetSize indicates an invalid offset.
	ErrOffsetSize = errors.New("invalid offset size")

	// ErrInvalidQueryParams indicates invalid query parameters.
	ErrInvalidQueryParams = errors.New("invalid query parameters")

	// ErrUnsupportedContentType indicates unacceptable or lack of Content-Type.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrEmptyMessage indicates empty message.
	ErrEmptyMessage = errors.New("empty message")

	// ErrMessageSize indicates a message longer than the service accepts.
	ErrMessageSize = errors.New("message exceeds maximum size")

	// ErrInvalidPolicy indicates an unknown encoding policy.
	ErrInvalidPolicy = errors.New("invalid encoding policy")

	// ErrMissingSender indicates missing sender ID.
	ErrMissingSender = errors.New("missing sender id")

	// ErrInvalidSender indicates a sender ID that is not 3 to 11 alphanumeric characters.
	ErrInvalidSender = errors.New("invalid sender id")

	// ErrMissingRecipients indicates that neither numbers nor groups were provided.
	ErrMissingRecipients = errors.New("missing recipients")

	// ErrMissingNumber indicates missing phone number.
	ErrMissingNumber = errors.New("missing phone number")

	// ErrInvalidNumber indicates a malformed phone number.
	ErrInvalidNumber = errors.New("invalid phone number")

	// ErrInvalidMode indicates an unknown campaign mode.
	ErrInvalidMode = errors.New("invalid campaign mode")

	// ErrInvalidStatus indicates an unknown campaign status filter.
	ErrInvalidStatus = errors.New("invalid campaign status")

	// ErrMissingSchedule indicates a scheduled campaign without a send time.
	ErrMissingSchedule = errors.New("missing scheduled time")

	// ErrInvalidThrottle indicates a negative send rate.
	ErrInvalidThrottle = errors.New("invalid throttle")

	// ErrMissingTemplate indicates missing template ID.
	ErrMissingTemplate = errors.New("missing template id")
)
