// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dairylink/outreach"
	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/internal/api"
	"github.com/dairylink/outreach/pkg/apiutil"
	"github.com/dairylink/outreach/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	idKey     = "id"
	numberKey = "number"
)

// MakeHandler returns a HTTP handler for API endpoints.
func MakeHandler(svc campaigns.Service, logger *slog.Logger, svcName, instanceID string) http.Handler {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(apiutil.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	r.Post("/estimate", otelhttp.NewHandler(kithttp.NewServer(
		estimateEndpoint(svc),
		decodeEstimate,
		api.EncodeResponse,
		opts...,
	), "estimate").ServeHTTP)

	r.Post("/quote", otelhttp.NewHandler(kithttp.NewServer(
		quoteEndpoint(svc),
		decodeQuote,
		api.EncodeResponse,
		opts...,
	), "quote").ServeHTTP)

	r.Post("/recipients/validate", otelhttp.NewHandler(kithttp.NewServer(
		validateRecipientsEndpoint(svc),
		decodeValidateRecipients,
		api.EncodeResponse,
		opts...,
	), "validate_recipients").ServeHTTP)

	r.Route("/templates", func(r chi.Router) {
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listTemplatesEndpoint(svc),
			decodeEmpty,
			api.EncodeResponse,
			opts...,
		), "list_templates").ServeHTTP)

		r.Post("/{id}/render", otelhttp.NewHandler(kithttp.NewServer(
			renderTemplateEndpoint(svc),
			decodeRenderTemplate,
			api.EncodeResponse,
			opts...,
		), "render_template").ServeHTTP)
	})

	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", otelhttp.NewHandler(kithttp.NewServer(
			createCampaignEndpoint(svc),
			decodeCreateCampaign,
			api.EncodeResponse,
			opts...,
		), "create_campaign").ServeHTTP)

		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listCampaignsEndpoint(svc),
			decodeListCampaigns,
			api.EncodeResponse,
			opts...,
		), "list_campaigns").ServeHTTP)

		r.Get("/{id}", otelhttp.NewHandler(kithttp.NewServer(
			viewCampaignEndpoint(svc),
			decodeCampaign,
			api.EncodeResponse,
			opts...,
		), "view_campaign").ServeHTTP)

		r.Post("/{id}/send", otelhttp.NewHandler(kithttp.NewServer(
			sendCampaignEndpoint(svc),
			decodeCampaign,
			api.EncodeResponse,
			opts...,
		), "send_campaign").ServeHTTP)

		r.Post("/{id}/cancel", otelhttp.NewHandler(kithttp.NewServer(
			cancelCampaignEndpoint(svc),
			decodeCampaign,
			api.EncodeResponse,
			opts...,
		), "cancel_campaign").ServeHTTP)
	})

	r.Get("/groups", otelhttp.NewHandler(kithttp.NewServer(
		listGroupsEndpoint(svc),
		decodeEmpty,
		api.EncodeResponse,
		opts...,
	), "list_groups").ServeHTTP)

	r.Route("/blacklist", func(r chi.Router) {
		r.Post("/", otelhttp.NewHandler(kithttp.NewServer(
			addBlacklistEndpoint(svc),
			decodeAddBlacklist,
			api.EncodeResponse,
			opts...,
		), "add_to_blacklist").ServeHTTP)

		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listBlacklistEndpoint(svc),
			decodeListBlacklist,
			api.EncodeResponse,
			opts...,
		), "list_blacklist").ServeHTTP)

		r.Delete("/{number}", otelhttp.NewHandler(kithttp.NewServer(
			removeBlacklistEndpoint(svc),
			decodeRemoveBlacklist,
			api.EncodeResponse,
			opts...,
		), "remove_from_blacklist").ServeHTTP)
	})

	r.Get("/health", outreach.Health(svcName, instanceID))
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func decodeEmpty(_ context.Context, _ *http.Request) (interface{}, error) {
	return nil, nil
}

func decodeJSON(r *http.Request, req interface{}) error {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return errors.Wrap(apiutil.ErrValidation, apiutil.ErrUnsupportedContentType)
	}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return errors.Wrap(apiutil.ErrValidation, errors.Wrap(errors.ErrMalformedEntity, err))
	}

	return nil
}

func decodeEstimate(_ context.Context, r *http.Request) (interface{}, error) {
	var req estimateReq
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}
	parts, err := apiutil.ReadBoolQuery(r, api.PartsKey, false)
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}
	req.parts = parts
	if req.Policy == "" {
		if req.Policy, err = apiutil.ReadStringQuery(r, api.PolicyKey, ""); err != nil {
			return nil, errors.Wrap(apiutil.ErrValidation, err)
		}
	}

	return req, nil
}

func decodeQuote(_ context.Context, r *http.Request) (interface{}, error) {
	var req quoteReq
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	return req, nil
}

func decodeValidateRecipients(_ context.Context, r *http.Request) (interface{}, error) {
	var req validateRecipientsReq
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	return req, nil
}

func decodeRenderTemplate(_ context.Context, r *http.Request) (interface{}, error) {
	req := renderTemplateReq{id: chi.URLParam(r, idKey)}
	if r.ContentLength == 0 {
		return req, nil
	}
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	return req, nil
}

func decodeCreateCampaign(_ context.Context, r *http.Request) (interface{}, error) {
	var req createCampaignReq
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	return req, nil
}

func decodeCampaign(_ context.Context, r *http.Request) (interface{}, error) {
	return campaignReq{id: chi.URLParam(r, idKey)}, nil
}

func decodePage(r *http.Request) (campaigns.PageMetadata, error) {
	offset, err := apiutil.ReadNumQuery[uint64](r, api.OffsetKey, api.DefOffset)
	if err != nil {
		return campaigns.PageMetadata{}, errors.Wrap(apiutil.ErrValidation, err)
	}
	limit, err := apiutil.ReadNumQuery[uint64](r, api.LimitKey, api.DefLimit)
	if err != nil {
		return campaigns.PageMetadata{}, errors.Wrap(apiutil.ErrValidation, err)
	}

	return campaigns.PageMetadata{Offset: offset, Limit: limit}, nil
}

func decodeListCampaigns(_ context.Context, r *http.Request) (interface{}, error) {
	pm, err := decodePage(r)
	if err != nil {
		return nil, err
	}
	s, err := apiutil.ReadStringQuery(r, api.StatusKey, "")
	if err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, err)
	}
	if pm.Status, err = campaigns.ToStatus(s); err != nil {
		return nil, errors.Wrap(apiutil.ErrValidation, apiutil.ErrInvalidStatus)
	}

	return listReq{pm: pm}, nil
}

func decodeListBlacklist(_ context.Context, r *http.Request) (interface{}, error) {
	pm, err := decodePage(r)
	if err != nil {
		return nil, err
	}

	return listReq{pm: pm}, nil
}

func decodeAddBlacklist(_ context.Context, r *http.Request) (interface{}, error) {
	var req addBlacklistReq
	if err := decodeJSON(r, &req); err != nil {
		return nil, err
	}

	return req, nil
}

func decodeRemoveBlacklist(_ context.Context, r *http.Request) (interface{}, error) {
	return removeBlacklistReq{number: chi.URLParam(r, numberKey)}, nil
}
