// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/campaigns/mocks"
	"github.com/dairylink/outreach/cli"
	svcerr "github.com/dairylink/outreach/pkg/errors/service"
	"github.com/dairylink/outreach/pricing"
	"github.com/dairylink/outreach/recipients"
	"github.com/dairylink/outreach/segments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestQuoteCmd(t *testing.T) {
	parsed := recipients.Parse(number1 + "\n" + number2)
	rate := pricing.DefaultRate()
	quote := campaigns.Quote{
		Estimate:       segments.Calculate(message),
		Numbers:        parsed.Numbers,
		Parsed:         parsed,
		RecipientCount: 2,
		Rate:           rate,
		Cost:           rate.Cost(2, 1),
		Review:         campaigns.Review{Status: campaigns.Approved},
	}

	cases := []struct {
		desc          string
		args          []string
		draft         campaigns.Composition
		quote         campaigns.Quote
		svcErr        error
		errLogMessage string
		logType       outputLog
	}{
		{
			desc:    "quote a campaign",
			args:    []string{message, number1, number2},
			draft:   campaigns.Composition{Message: message, Numbers: number1 + "\n" + number2},
			quote:   quote,
			logType: entityLog,
		},
		{
			desc:    "quote a campaign with comma separated numbers",
			args:    []string{message, number1 + "," + number2},
			draft:   campaigns.Composition{Message: message, Numbers: number1 + "," + number2},
			quote:   quote,
			logType: entityLog,
		},
		{
			desc:    "quote a campaign with gsm0338 policy",
			args:    []string{message, number1, number2, "--policy=gsm0338"},
			draft:   campaigns.Composition{Message: message, Numbers: number1 + "\n" + number2, Policy: segments.GSM0338},
			quote:   quote,
			logType: entityLog,
		},
		{
			desc:          "quote with service error",
			args:          []string{message, number1},
			draft:         campaigns.Composition{Message: message, Numbers: number1},
			svcErr:        svcerr.ErrViewEntity,
			errLogMessage: fmt.Sprintf("\nerror: %s\n\n", svcerr.ErrViewEntity),
			logType:       errLog,
		},
		{
			desc:    "quote without numbers",
			args:    []string{message},
			logType: usageLog,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			svc := new(mocks.Service)
			cli.SetService(svc)
			rootCmd := setFlags(cli.NewQuoteCmd())

			svcCall := svc.On("Quote", mock.Anything, tc.draft).Return(tc.quote, tc.svcErr)
			out := executeCommand(t, rootCmd, tc.args...)

			switch tc.logType {
			case entityLog:
				var q campaigns.Quote
				err := json.Unmarshal([]byte(out), &q)
				assert.Nil(t, err, fmt.Sprintf("%s unexpected error: %s", tc.desc, err))
				assert.Equal(t, tc.quote, q)
			case errLog:
				assert.Equal(t, tc.errLogMessage, out, fmt.Sprintf("%s unexpected error response: expected %s got %s", tc.desc, tc.errLogMessage, out))
			case usageLog:
				assert.True(t, strings.Contains(out, "usage:"), fmt.Sprintf("%s invalid usage: %s", tc.desc, out))
				svc.AssertNotCalled(t, "Quote", mock.Anything, mock.Anything)
			}

			svcCall.Unset()
		})
	}
}

func TestQuoteCmdWarnings(t *testing.T) {
	svc := new(mocks.Service)
	cli.SetService(svc)
	rootCmd := setFlags(cli.NewQuoteCmd())

	q := campaigns.Quote{Warnings: []string{"no recipients selected"}}
	svc.On("Quote", mock.Anything, mock.Anything).Return(q, nil)

	out := executeCommand(t, rootCmd, message, "123")
	assert.True(t, strings.Contains(out, "warning: no recipients selected"), fmt.Sprintf("expected warning in output, got %s", out))
}
