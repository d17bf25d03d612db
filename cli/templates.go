// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"strings"

	"github.com/dairylink/outreach/pkg/errors"
	"github.com/spf13/cobra"
)

var errInvalidField = errors.New("invalid field, expected <field>=<value>")

var cmdTemplates = []cobra.Command{
	{
		Use:   "list",
		Short: "List templates",
		Long: "List built-in message templates\n" +
			"Usage:\n" +
			"\toutreach-cli templates list\n",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			ts, err := svc.ListTemplates(context.Background())
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, ts)
		},
	},
	{
		Use:   "render <template_id> [<field>=<value>...]",
		Short: "Render template",
		Long: "Render a template with field values\n" +
			"Usage:\n" +
			"\toutreach-cli templates render milk-collection time=6am quantity=20\n",
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				logUsageCmd(*cmd, cmd.Use)
				return
			}

			values := map[string]string{}
			for _, a := range args[1:] {
				k, v, ok := strings.Cut(a, "=")
				if !ok || k == "" {
					logErrorCmd(*cmd, errors.Wrap(errInvalidField, errors.New(a)))
					return
				}
				values[k] = v
			}

			r, err := svc.RenderTemplate(context.Background(), args[0], values)
			if err != nil {
				logErrorCmd(*cmd, err)
				return
			}

			logJSONCmd(*cmd, r)
			if len(r.Missing) > 0 {
				logWarningsCmd(*cmd, []string{"missing fields: " + strings.Join(r.Missing, ", ")})
			}
		},
	},
}

// NewTemplatesCmd returns templates command.
func NewTemplatesCmd() *cobra.Command {
	cmd := cobra.Command{
		Use:   "templates [list | render]",
		Short: "Message templates",
		Long:  `List and render built-in message templates`,
	}

	for i := range cmdTemplates {
		cmd.AddCommand(&cmdTemplates[i])
	}

	return &cmd
}
