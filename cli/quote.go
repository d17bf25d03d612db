// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"strings"

	"github.com/dairylink/outreach/campaigns"
	"github.com/dairylink/outreach/segments"
	"github.com/spf13/cobra"
)

// NewQuoteCmd returns the campaign quote command.
func NewQuoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote <message> <number> [<number>...]",
		Short: "Quote a campaign",
		Long: "Quote the segments, cost and review status of sending a message\n" +
			"Usage:\n" +
			"\toutreach-cli quote \"<message>\" 0911000001 0911000002 - quotes two recipients\n" +
			"\toutreach-cli quote \"<message>\" \"0911000001,0911000002\" - numbers may be comma separated\n",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) < 2 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			policy, err := segments.ToPolicy(Policy)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			d := campaigns.Composition{
				Message: args[0],
				Numbers: strings.Join(args[1:], "\n"),
				Policy:  policy,
			}
			q, err := svc.Quote(context.Background(), d)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, q)
			logWarningsCmd(*cmd, q.Warnings)
		},
	}
}
