// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"os"
	"strings"

	"github.com/dairylink/outreach/segments"
	"github.com/spf13/cobra"
)

type estimateRes struct {
	segments.Estimate
	Parts []string `json:"parts,omitempty"`
}

// NewEstimateCmd returns the segment estimate command.
func NewEstimateCmd() *cobra.Command {
	var (
		file  string
		parts bool
	)
	cmd := cobra.Command{
		Use:   "estimate [<message>]",
		Short: "Estimate SMS segments",
		Long: "Estimate the encoding and number of SMS segments a message takes\n" +
			"Usage:\n" +
			"\toutreach-cli estimate \"Milk collection starts at 6am\" - estimates the message\n" +
			"\toutreach-cli estimate --file message.txt - estimates the contents of a file\n" +
			"\toutreach-cli estimate --parts \"<message>\" - also prints the segment parts\n",
		Run: func(cmd *cobra.Command, args []string) {
			var message string
			switch {
			case file != "" && len(args) == 0:
				b, err := os.ReadFile(file)
				if err != nil {
					logErrorCmd(*cmd, err)
					return
				}
				message = strings.TrimRight(string(b), "\r\n")
			case file == "" && len(args) == 1:
				message = args[0]
			default:
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			policy, err := segments.ToPolicy(Policy)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			ctx := context.Background()
			est, err := svc.Estimate(ctx, message, policy)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}
			res := estimateRes{Estimate: est}
			if parts {
				if res.Parts, err = svc.Split(ctx, message, policy); err != nil {
					logErrorCmd(*cmd, err)
					return
				}
			}

			logJSONCmd(*cmd, res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the message from a file")
	cmd.Flags().BoolVarP(&parts, "parts", "p", false, "Print the segment parts")

	return &cmd
}
