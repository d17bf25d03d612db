// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dairylink/outreach"
	"github.com/dairylink/outreach/pkg/apiutil"
	"github.com/dairylink/outreach/pkg/errors"
	svcerr "github.com/dairylink/outreach/pkg/errors/service"
)

const (
	StatusKey    = "status"
	OffsetKey    = "offset"
	LimitKey     = "limit"
	PartsKey     = "parts"
	PolicyKey    = "policy"
	DefOffset    = 0
	DefLimit     = 10
	MaxLimitSize = 100

	// ContentType represents JSON content type.
	ContentType = "application/json"

	// MaxMessageSize limits the body of a single message. Ten concatenated
	// GSM-7 segments fit in it.
	MaxMessageSize = 1530
)

// EncodeResponse encodes successful response.
func EncodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	if ar, ok := response.(outreach.Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

// EncodeError encodes an error response.
func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	var wrapper error
	if errors.Contains(err, apiutil.ErrValidation) {
		wrapper, err = errors.Unwrap(err)
	}

	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Contains(err, svcerr.ErrMalformedEntity),
		errors.Contains(err, errors.ErrMalformedEntity),
		errors.Contains(err, apiutil.ErrValidation),
		errors.Contains(err, apiutil.ErrMissingID),
		errors.Contains(err, apiutil.ErrInvalidIDFormat),
		errors.Contains(err, apiutil.ErrLimitSize),
		errors.Contains(err, apiutil.ErrOffsetSize),
		errors.Contains(err, apiutil.ErrInvalidQueryParams),
		errors.Contains(err, apiutil.ErrEmptyMessage),
		errors.Contains(err, apiutil.ErrMessageSize),
		errors.Contains(err, apiutil.ErrInvalidPolicy),
		errors.Contains(err, apiutil.ErrMissingSender),
		errors.Contains(err, apiutil.ErrInvalidSender),
		errors.Contains(err, apiutil.ErrMissingRecipients),
		errors.Contains(err, apiutil.ErrMissingNumber),
		errors.Contains(err, apiutil.ErrInvalidNumber),
		errors.Contains(err, apiutil.ErrInvalidMode),
		errors.Contains(err, apiutil.ErrInvalidStatus),
		errors.Contains(err, apiutil.ErrMissingSchedule),
		errors.Contains(err, apiutil.ErrInvalidThrottle),
		errors.Contains(err, apiutil.ErrMissingTemplate):
		err = unwrap(err)
		w.WriteHeader(http.StatusBadRequest)

	case errors.Contains(err, svcerr.ErrBlockedContent):
		err = unwrap(err)
		w.WriteHeader(http.StatusUnprocessableEntity)

	case errors.Contains(err, svcerr.ErrNotFound):
		err = unwrap(err)
		w.WriteHeader(http.StatusNotFound)

	case errors.Contains(err, svcerr.ErrConflict),
		errors.Contains(err, svcerr.ErrInvalidStatus):
		err = unwrap(err)
		w.WriteHeader(http.StatusConflict)

	case errors.Contains(err, svcerr.ErrSend):
		err = unwrap(err)
		w.WriteHeader(http.StatusBadGateway)

	case errors.Contains(err, apiutil.ErrUnsupportedContentType):
		err = unwrap(err)
		w.WriteHeader(http.StatusUnsupportedMediaType)

	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if wrapper != nil {
		err = errors.Wrap(wrapper, err)
	}

	if errorVal, ok := err.(errors.Error); ok {
		if err := json.NewEncoder(w).Encode(errorVal); err != nil {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}
}

func unwrap(err error) error {
	wrapper, err := errors.Unwrap(err)
	if wrapper != nil {
		return wrapper
	}
	return err
}
