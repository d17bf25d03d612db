// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"github.com/dairylink/outreach"
	"github.com/spf13/cobra"
)

type versionRes struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

// NewVersionCmd returns version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Outreach CLI version",
		Long:  `Print the version, commit and build time of the Outreach CLI`,
		Run: func(cmd *cobra.Command, args []string) {
			logJSONCmd(*cmd, versionRes{
				Version:   outreach.Version,
				Commit:    outreach.Commit,
				BuildTime: outreach.BuildTime,
			})
		},
	}
}
