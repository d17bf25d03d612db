// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package main contains cli main function to run Outreach CLI.
package main

import (
	"log"

	"github.com/dairylink/outreach/cli"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
)

func main() {
	// Root
	rootCmd := &cobra.Command{
		Use: "outreach-cli",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := cli.ParseConfig()
			if err != nil {
				log.Fatalf("Failed to parse config: %s", err)
			}
			cli.SetService(cli.NewService(cfg))
		},
	}

	cc.Init(&cc.Config{
		RootCmd:         rootCmd,
		Headings:        cc.HiCyan + cc.Bold + cc.Underline,
		Commands:        cc.HiYellow + cc.Bold,
		CmdShortDescr:   cc.Magenta,
		Example:         cc.Italic,
		ExecName:        cc.Bold,
		Flags:           cc.HiGreen + cc.Bold,
		FlagsDescr:      cc.White,
		FlagsDataType:   cc.Italic + cc.White,
		NoExtraNewlines: true,
		NoBottomNewline: true,
	})

	// Root Commands
	rootCmd.AddCommand(cli.NewEstimateCmd())
	rootCmd.AddCommand(cli.NewQuoteCmd())
	rootCmd.AddCommand(cli.NewRecipientsCmd())
	rootCmd.AddCommand(cli.NewTemplatesCmd())
	rootCmd.AddCommand(cli.NewVersionCmd())

	// Root Flags
	rootCmd.PersistentFlags().StringVarP(
		&cli.ConfigPath,
		"config",
		"c",
		cli.ConfigPath,
		"Config path",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&cli.RawOutput,
		"raw",
		"r",
		cli.RawOutput,
		"Enables raw output mode for easier parsing of output",
	)

	rootCmd.PersistentFlags().StringVarP(
		&cli.Policy,
		"policy",
		"P",
		cli.Policy,
		"Encoding policy, ascii or gsm0338",
	)

	rootCmd.PersistentFlags().StringVar(
		&cli.Price,
		"price",
		cli.Price,
		"Price of one SMS segment, e.g. 0.25",
	)

	rootCmd.PersistentFlags().StringVar(
		&cli.Currency,
		"currency",
		cli.Currency,
		"Three letter currency code of the price",
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
