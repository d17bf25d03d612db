// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package api_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/campaigns/api"
	"github.com/dairylink/outreach/campaigns/mocks"
	"github.com/dairylink/outreach/logger"
	repoerr "github.com/dairylink/outreach/pkg/errors/repository"
	svcerr "github.com/dairylink/outreach/pkg/errors/service"
	"github.com/dairylink/outreach/pkg/uuid"
	"github.com/dairylink/outreach/recipients"
	"github.com/dairylink/outreach/segments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	contentType = "application/json"
	number      = "0911000001"
	message     = "Milk collection is scheduled for tomorrow at 7:00."
)

var campaignID = uuid.MockID(1)

type testRequest struct {
	client      *http.Client
	method      string
	url         string
	contentType string
	body        io.Reader
}

func (tr testRequest) make() (*http.Response, error) {
	req, err := http.NewRequest(tr.method, tr.url, tr.body)
	if err != nil {
		return nil, err
	}
	if tr.contentType != "" {
		req.Header.Set("Content-Type", tr.contentType)
	}

	return tr.client.Do(req)
}

func newServer() (*httptest.Server, *mocks.Service) {
	svc := new(mocks.Service)
	mux := api.MakeHandler(svc, logger.NewMock(), "campaigns", "test")

	return httptest.NewServer(mux), svc
}

func toJSON(data interface{}) string {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return string(jsonData)
}

func TestEstimateEndpoint(t *testing.T) {
	ts, svc := newServer()
	defer ts.Close()

	cases := []struct {
		desc        string
		url         string
		contentType string
		body        string
		policy      segments.Policy
		parts       bool
		status      int
	}{
		{
			desc:        "estimate message",
			url:         "/estimate",
			contentType: contentType,
			body:        toJSON(map[string]string{"message": message}),
			status:      http.StatusOK,
		},
		{
			desc:        "estimate empty message",
			url:         "/estimate",
			contentType: contentType,
			body:        toJSON(map[string]string{"message": ""}),
			status:      http.StatusOK,
		},
		{
			desc:        "estimate with GSM 03.38 policy",
			url:         "/estimate",
			contentType: contentType,
			body:        toJSON(map[string]string{"message": message, "policy": "gsm0338"}),
			policy:      segments.GSM0338,
			status:      http.StatusOK,
		},
		{
			desc:        "estimate with policy query",
			url:         "/estimate?policy=gsm0338",
			contentType: contentType,
			body:        toJSON(map[string]string{"message": message}),
			policy:      segments.GSM0338,
			status:      http.StatusOK,
		},
		{
			desc:        "estimate with parts",
			url:         "/estimate?parts=true",
			contentType: contentType,
			body:        toJSON(map[string]string{"message": message}),
			parts:       true,
			status:      http.StatusOK,
		},
		{
			desc:        "estimate with invalid parts",
			url:         "/estimate?parts=maybe",
			contentType: contentType,
			body:        toJSON(map[string]string{"message": message}),
			status:      http.StatusBadRequest,
		},
		{
			desc:        "estimate with invalid policy",
			url:         "/estimate",
			contentType: contentType,
			body:        toJSON(map[string]string{"message": message, "policy": "utf8"}),
			status:      http.StatusBadRequest,
		},
		{
			desc:        "estimate oversized message",
			url:         "/estimate",
			contentType: contentType,
			body:        toJSON(map[string]string{"message": strings.Repeat("a", 1531)}),
			status:      http.StatusBadRequest,
		},
		{
			desc:        "estimate with invalid content type",
			url:         "/estimate",
			contentType: "text/plain",
			body:        toJSON(map[string]string{"message": message}),
			status:      http.StatusUnsupportedMediaType,
		},
		{
			desc:        "estimate with malformed body",
			url:         "/estimate",
			contentType: contentType,
			body:        "{",
			status:      http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			est := segments.Estimate{Encoding: segments.GSM7, Length: 50, Segments: 1}
			svcCall := svc.On("Estimate", mock.Anything, mock.Anything, tc.policy).Return(est, nil)
			splitCall := svc.On("Split", mock.Anything, mock.Anything, tc.policy).Return([]string{message}, nil)

			req := testRequest{
				client:      ts.Client(),
				method:      http.MethodPost,
				url:         ts.URL + tc.url,
				contentType: tc.contentType,
				body:        strings.NewReader(tc.body),
			}
			res, err := req.make()
			require.Nil(t, err)
			assert.Equal(t, tc.status, res.StatusCode)

			if tc.status == http.StatusOK {
				var body map[string]interface{}
				require.Nil(t, json.NewDecoder(res.Body).Decode(&body))
				assert.Equal(t, "GSM-7", body["encoding"])
				_, hasParts := body["parts"]
				assert.Equal(t, tc.parts, hasParts)
			}
			svcCall.Unset()
			splitCall.Unset()
		})
	}
}

func TestQuoteEndpoint(t *testing.T) {
	ts, svc := newServer()
	defer ts.Close()

	cases := []struct {
		desc   string
		body   string
		svcErr error
		status int
	}{
		{
			desc:   "quote draft",
			body:   toJSON(map[string]interface{}{"message": message, "numbers": number, "groups": []string{"north"}}),
			status: http.StatusOK,
		},
		{
			desc:   "quote with unknown group",
			body:   toJSON(map[string]interface{}{"message": message, "groups": []string{"south"}}),
			svcErr: svcerr.ErrNotFound,
			status: http.StatusNotFound,
		},
		{
			desc:   "quote with empty group id",
			body:   toJSON(map[string]interface{}{"message": message, "groups": []string{" "}}),
			status: http.StatusBadRequest,
		},
		{
			desc:   "quote with invalid mode",
			body:   toJSON(map[string]interface{}{"message": message, "mode": "later"}),
			status: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svcCall := svc.On("Quote", mock.Anything, mock.Anything).Return(campaigns.Quote{RecipientCount: 41}, tc.svcErr)

			req := testRequest{
				client:      ts.Client(),
				method:      http.MethodPost,
				url:         ts.URL + "/quote",
				contentType: contentType,
				body:        strings.NewReader(tc.body),
			}
			res, err := req.make()
			require.Nil(t, err)
			assert.Equal(t, tc.status, res.StatusCode)
			svcCall.Unset()
		})
	}
}

func TestValidateRecipientsEndpoint(t *testing.T) {
	ts, svc := newServer()
	defer ts.Close()

	parsed := recipients.Parse(number + ",bad")
	svc.On("ValidateRecipients", mock.Anything, number+",bad").Return(parsed, nil)

	req := testRequest{
		client:      ts.Client(),
		method:      http.MethodPost,
		url:         ts.URL + "/recipients/validate",
		contentType: contentType,
		body:        strings.NewReader(toJSON(map[string]string{"numbers": number + ",bad"})),
	}
	res, err := req.make()
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var got recipients.Parsed
	require.Nil(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, parsed, got)

	req.body = strings.NewReader(toJSON(map[string]string{"numbers": " "}))
	res, err = req.make()
	require.Nil(t, err)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestTemplatesEndpoints(t *testing.T) {
	ts, svc := newServer()
	defer ts.Close()

	svc.On("ListTemplates", mock.Anything).Return(campaigns.Templates(), nil)
	svc.On("RenderTemplate", mock.Anything, "payment", map[string]string{"amount": "100"}).
		Return(campaigns.Rendered{Message: "Payment of 100 ETB", Missing: []string{"period"}}, nil)
	svc.On("RenderTemplate", mock.Anything, "unknown", mock.Anything).Return(campaigns.Rendered{}, svcerr.ErrNotFound)

	res, err := testRequest{client: ts.Client(), method: http.MethodGet, url: ts.URL + "/templates"}.make()
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	var list struct {
		Templates []campaigns.Template `json:"templates"`
	}
	require.Nil(t, json.NewDecoder(res.Body).Decode(&list))
	assert.Len(t, list.Templates, 5)

	cases := []struct {
		desc   string
		id     string
		body   string
		status int
	}{
		{
			desc:   "render template",
			id:     "payment",
			body:   toJSON(map[string]interface{}{"values": map[string]string{"amount": "100"}}),
			status: http.StatusOK,
		},
		{
			desc:   "render unknown template",
			id:     "unknown",
			status: http.StatusNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			req := testRequest{
				client:      ts.Client(),
				method:      http.MethodPost,
				url:         fmt.Sprintf("%s/templates/%s/render", ts.URL, tc.id),
				contentType: contentType,
				body:        strings.NewReader(tc.body),
			}
			res, err := req.make()
			require.Nil(t, err)
			assert.Equal(t, tc.status, res.StatusCode)
		})
	}
}

func TestCreateCampaignEndpoint(t *testing.T) {
	ts, svc := newServer()
	defer ts.Close()

	valid := map[string]interface{}{
		"sender_id":  "DairyCoop",
		"message":    message,
		"recipients": []string{number},
		"mode":       "bulk",
		"throttle":   "moderate",
	}
	with := func(key string, val interface{}) map[string]interface{} {
		m := map[string]interface{}{}
		for k, v := range valid {
			m[k] = v
		}
		if val == nil {
			delete(m, key)
			return m
		}
		m[key] = val
		return m
	}

	cases := []struct {
		desc   string
		body   map[string]interface{}
		svcErr error
		status int
	}{
		{
			desc:   "create campaign",
			body:   valid,
			status: http.StatusCreated,
		},
		{
			desc:   "create scheduled campaign",
			body:   with("scheduled_at", time.Now().Add(time.Hour).Format(time.RFC3339)),
			status: http.StatusCreated,
		},
		{
			desc:   "create campaign without sender",
			body:   with("sender_id", nil),
			status: http.StatusBadRequest,
		},
		{
			desc:   "create campaign with long sender",
			body:   with("sender_id", "DairyCooperative"),
			status: http.StatusBadRequest,
		},
		{
			desc:   "create campaign without message",
			body:   with("message", " "),
			status: http.StatusBadRequest,
		},
		{
			desc:   "create campaign without recipients",
			body:   with("recipients", nil),
			status: http.StatusBadRequest,
		},
		{
			desc:   "create scheduled mode campaign without time",
			body:   with("mode", "scheduled"),
			status: http.StatusBadRequest,
		},
		{
			desc:   "create campaign with invalid throttle",
			body:   with("throttle", "turbo"),
			status: http.StatusBadRequest,
		},
		{
			desc:   "create campaign with blocked content",
			body:   valid,
			svcErr: svcerr.ErrBlockedContent,
			status: http.StatusUnprocessableEntity,
		},
		{
			desc:   "create campaign rejected by service",
			body:   valid,
			svcErr: svcerr.ErrMalformedEntity,
			status: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svcCall := svc.On("CreateCampaign", mock.Anything, mock.Anything).Return(campaigns.Campaign{ID: campaignID}, tc.svcErr)

			req := testRequest{
				client:      ts.Client(),
				method:      http.MethodPost,
				url:         ts.URL + "/campaigns",
				contentType: contentType,
				body:        strings.NewReader(toJSON(tc.body)),
			}
			res, err := req.make()
			require.Nil(t, err)
			assert.Equal(t, tc.status, res.StatusCode)
			if tc.status == http.StatusCreated {
				assert.Equal(t, "/campaigns/"+campaignID, res.Header.Get("Location"))
			}
			svcCall.Unset()
		})
	}
}

func TestListCampaignsEndpoint(t *testing.T) {
	ts, svc := newServer()
	defer ts.Close()

	cases := []struct {
		desc   string
		query  string
		pm     campaigns.PageMetadata
		status int
	}{
		{
			desc:   "list campaigns",
			pm:     campaigns.PageMetadata{Limit: 10, Status: campaigns.AllStatus},
			status: http.StatusOK,
		},
		{
			desc:   "list sent campaigns",
			query:  "?status=sent&offset=5&limit=20",
			pm:     campaigns.PageMetadata{Offset: 5, Limit: 20, Status: campaigns.Sent},
			status: http.StatusOK,
		},
		{
			desc:   "list with invalid status",
			query:  "?status=archived",
			status: http.StatusBadRequest,
		},
		{
			desc:   "list with oversized limit",
			query:  "?limit=1000",
			status: http.StatusBadRequest,
		},
		{
			desc:   "list with invalid offset",
			query:  "?offset=ten",
			status: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			page := campaigns.Page{PageMetadata: tc.pm}
			svcCall := svc.On("ListCampaigns", mock.Anything, tc.pm).Return(page, nil)

			res, err := testRequest{client: ts.Client(), method: http.MethodGet, url: ts.URL + "/campaigns" + tc.query}.make()
			require.Nil(t, err)
			assert.Equal(t, tc.status, res.StatusCode)
			if tc.status == http.StatusOK {
				var body map[string]interface{}
				require.Nil(t, json.NewDecoder(res.Body).Decode(&body))
				assert.Equal(t, []interface{}{}, body["campaigns"])
			}
			svcCall.Unset()
		})
	}
}

func TestCampaignActionsEndpoints(t *testing.T) {
	ts, svc := newServer()
	defer ts.Close()

	cases := []struct {
		desc   string
		method string
		url    string
		call   string
		svcErr error
		status int
	}{
		{
			desc:   "view campaign",
			method: http.MethodGet,
			url:    "/campaigns/" + campaignID,
			call:   "ViewCampaign",
			status: http.StatusOK,
		},
		{
			desc:   "view missing campaign",
			method: http.MethodGet,
			url:    "/campaigns/" + campaignID,
			call:   "ViewCampaign",
			svcErr: svcerr.ErrNotFound,
			status: http.StatusNotFound,
		},
		{
			desc:   "send campaign",
			method: http.MethodPost,
			url:    "/campaigns/" + campaignID + "/send",
			call:   "SendCampaign",
			status: http.StatusOK,
		},
		{
			desc:   "send sent campaign",
			method: http.MethodPost,
			url:    "/campaigns/" + campaignID + "/send",
			call:   "SendCampaign",
			svcErr: svcerr.ErrInvalidStatus,
			status: http.StatusConflict,
		},
		{
			desc:   "send campaign with failing gateway",
			method: http.MethodPost,
			url:    "/campaigns/" + campaignID + "/send",
			call:   "SendCampaign",
			svcErr: svcerr.ErrSend,
			status: http.StatusBadGateway,
		},
		{
			desc:   "cancel campaign",
			method: http.MethodPost,
			url:    "/campaigns/" + campaignID + "/cancel",
			call:   "CancelCampaign",
			status: http.StatusOK,
		},
		{
			desc:   "cancel campaign with failing repository",
			method: http.MethodPost,
			url:    "/campaigns/" + campaignID + "/cancel",
			call:   "CancelCampaign",
			svcErr: svcerr.ErrViewEntity,
			status: http.StatusInternalServerError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svcCall := svc.On(tc.call, mock.Anything, campaignID).Return(campaigns.Campaign{ID: campaignID}, tc.svcErr)

			res, err := testRequest{client: ts.Client(), method: tc.method, url: ts.URL + tc.url}.make()
			require.Nil(t, err)
			assert.Equal(t, tc.status, res.StatusCode)
			svcCall.Unset()
		})
	}
}

func TestGroupsEndpoint(t *testing.T) {
	ts, svc := newServer()
	defer ts.Close()

	groups := []campaigns.Group{{ID: "north", Name: "North", Count: 40}}
	svc.On("ListGroups", mock.Anything).Return(groups, nil)

	res, err := testRequest{client: ts.Client(), method: http.MethodGet, url: ts.URL + "/groups"}.make()
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		Groups []campaigns.Group `json:"groups"`
	}
	require.Nil(t, json.NewDecoder(res.Body).Decode(&body))
	assert.Equal(t, groups, body.Groups)
}

func TestBlacklistEndpoints(t *testing.T) {
	ts, svc := newServer()
	defer ts.Close()

	cases := []struct {
		desc        string
		method      string
		url         string
		contentType string
		body        string
		svcErr      error
		status      int
	}{
		{
			desc:        "add number",
			method:      http.MethodPost,
			url:         "/blacklist",
			contentType: contentType,
			body:        toJSON(map[string]string{"number": number, "reason": "opted out"}),
			status:      http.StatusCreated,
		},
		{
			desc:        "add existing number",
			method:      http.MethodPost,
			url:         "/blacklist",
			contentType: contentType,
			body:        toJSON(map[string]string{"number": number}),
			svcErr:      repoerr.ErrConflict,
			status:      http.StatusConflict,
		},
		{
			desc:        "add without number",
			method:      http.MethodPost,
			url:         "/blacklist",
			contentType: contentType,
			body:        toJSON(map[string]string{"reason": "opted out"}),
			status:      http.StatusBadRequest,
		},
		{
			desc:        "add invalid number",
			method:      http.MethodPost,
			url:         "/blacklist",
			contentType: contentType,
			body:        toJSON(map[string]string{"number": "12-34"}),
			status:      http.StatusBadRequest,
		},
		{
			desc:   "list blacklist",
			method: http.MethodGet,
			url:    "/blacklist?limit=50",
			status: http.StatusOK,
		},
		{
			desc:   "list blacklist with zero limit",
			method: http.MethodGet,
			url:    "/blacklist?limit=0",
			status: http.StatusBadRequest,
		},
		{
			desc:   "remove number",
			method: http.MethodDelete,
			url:    "/blacklist/" + number,
			status: http.StatusNoContent,
		},
		{
			desc:   "remove missing number",
			method: http.MethodDelete,
			url:    "/blacklist/" + number,
			svcErr: svcerr.ErrNotFound,
			status: http.StatusNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			addCall := svc.On("AddToBlacklist", mock.Anything, mock.Anything).Return(campaigns.BlacklistEntry{Number: number}, tc.svcErr)
			listCall := svc.On("ListBlacklist", mock.Anything, campaigns.PageMetadata{Limit: 50}).Return(campaigns.BlacklistPage{}, tc.svcErr)
			removeCall := svc.On("RemoveFromBlacklist", mock.Anything, number).Return(tc.svcErr)

			req := testRequest{
				client:      ts.Client(),
				method:      tc.method,
				url:         ts.URL + tc.url,
				contentType: tc.contentType,
				body:        strings.NewReader(tc.body),
			}
			res, err := req.make()
			require.Nil(t, err)
			assert.Equal(t, tc.status, res.StatusCode)
			addCall.Unset()
			listCall.Unset()
			removeCall.Unset()
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts, _ := newServer()
	defer ts.Close()

	res, err := testRequest{client: ts.Client(), method: http.MethodGet, url: ts.URL + "/health"}.make()
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = testRequest{client: ts.Client(), method: http.MethodGet, url: ts.URL + "/metrics"}.make()
	require.Nil(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
