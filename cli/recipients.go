// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
)

// NewRecipientsCmd returns the recipients validation command.
func NewRecipientsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recipients <number> [<number>...]",
		Short: "Validate recipients",
		Long: "Parse, validate and deduplicate phone numbers\n" +
			"Usage:\n" +
			"\toutreach-cli recipients 0911000001 +251911000002 - validates the numbers\n",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			parsed, err := svc.ValidateRecipients(context.Background(), strings.Join(args, "\n"))
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, parsed)
		},
	}
}
