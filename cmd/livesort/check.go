// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Figoh-cpu/code/internal/config"
	"github.com/Figoh-cpu/code/internal/health"
	"github.com/Figoh-cpu/code/internal/platform/httpx"
	"github.com/Figoh-cpu/code/internal/probe"
	"github.com/Figoh-cpu/code/internal/source"
	"github.com/Figoh-cpu/code/internal/tables"
	"github.com/Figoh-cpu/code/internal/version"
)

// newCheckCmd verifies configuration, lookup tables, the output directory and
// prober availability without running the pipeline.
func newCheckCmd(logOut io.Writer, opts *options) *cobra.Command {
	var (
		checkSource bool
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify configuration, lookup tables, output directory and ffprobe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			configureLogging(cfg, logOut)

			rep := preflight(cfg, checkSource).Run(cmd.Context())
			out := cmd.OutOrStdout()
			if asJSON {
				err = rep.WriteJSON(out)
			} else {
				err = rep.WriteText(out)
			}
			if err != nil {
				return err
			}
			return rep.Err()
		},
	}
	cmd.Flags().BoolVar(&checkSource, "source", false, "also check that the source URL answers")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func preflight(cfg config.AppConfig, checkSource bool) *health.Manager {
	m := health.NewManager(version.Version)
	m.RegisterChecker(health.NewFuncChecker("tables", func(context.Context) health.CheckResult {
		set, err := tables.Load(cfg.TablesFile)
		if err != nil {
			return health.CheckResult{Status: health.StatusUnhealthy, Error: err.Error()}
		}
		return health.CheckResult{
			Status: health.StatusHealthy,
			Message: fmt.Sprintf("%s: %d categories, %d rules, %d aliases",
				set.Source, set.Categories.Categories(), set.Categories.Rules(), set.Aliases.Len()),
		}
	}))
	m.RegisterChecker(health.NewDirChecker("output", cfg.OutputDir))
	m.RegisterChecker(health.NewBinaryChecker("prober", cfg.FFprobeBin, probe.CheckAvailable))
	if checkSource {
		m.RegisterChecker(health.NewURLChecker("source", source.RawURL(cfg.SourceURL),
			httpx.NewClient(cfg.FetchTimeout), cfg.FetchTimeout))
	}
	return m
}
