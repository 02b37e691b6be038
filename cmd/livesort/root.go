// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Figoh-cpu/code/internal/config"
	xglog "github.com/Figoh-cpu/code/internal/log"
	"github.com/Figoh-cpu/code/internal/metrics"
	"github.com/Figoh-cpu/code/internal/pipeline"
	"github.com/Figoh-cpu/code/internal/telemetry"
	"github.com/Figoh-cpu/code/internal/version"
)

// options holds flag values. Flags override the config file and environment.
type options struct {
	configPath string

	sourceURL     string
	outputDir     string
	format        string
	skipLines     int
	workers       int
	probeTimeout  time.Duration
	probeRate     float64
	ffprobeBin    string
	tablesFile    string
	m3u           bool
	metricsListen string
	logLevel      string
	logFormat     string
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "livesort",
		Short: "Filter an IPTV directory down to live groups and categorize its channels",
		Long: `livesort downloads a channel directory, probes the first channel of every
group with ffprobe, drops dead groups and duplicates, normalizes channel names
and writes a flat list, a categorized list and optionally an M3U playlist.`,
		Version:       version.String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags(), opts)
			if err != nil {
				return err
			}
			configureLogging(cfg, logOut)
			return run(cmd.Context(), cfg)
		},
	}
	cmd.SetVersionTemplate("livesort {{.Version}}\n")

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "path to config file (YAML)")
	pf.StringVar(&opts.sourceURL, "source-url", "", "URL of the channel directory")
	pf.StringVar(&opts.ffprobeBin, "ffprobe", "", "path to the ffprobe binary")
	pf.StringVar(&opts.tablesFile, "tables", "", "lookup tables file (YAML); embedded tables when empty")
	pf.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for the output files")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&opts.logFormat, "log-format", "", "log format (json, console)")

	f := cmd.Flags()
	f.StringVar(&opts.format, "format", "", "directory format (auto, plain, quoted)")
	f.IntVar(&opts.skipLines, "skip-lines", 0, "leading lines to skip")
	f.IntVarP(&opts.workers, "workers", "w", 0, fmt.Sprintf("concurrent probes (1-%d)", config.MaxWorkers))
	f.DurationVar(&opts.probeTimeout, "probe-timeout", 0, "per-probe timeout passed to ffprobe")
	f.Float64Var(&opts.probeRate, "probe-rate", 0, "maximum probe launches per second (0 = unlimited)")
	f.BoolVar(&opts.m3u, "m3u", false, "also write an M3U playlist")
	f.StringVar(&opts.metricsListen, "metrics-listen", "", "serve /metrics on this address during the run")

	cmd.AddCommand(newCheckCmd(logOut, opts))
	return cmd
}

// loadConfig applies ENV > file > defaults, then flags, and validates the result.
func loadConfig(flags *pflag.FlagSet, opts *options) (config.AppConfig, error) {
	cfg, err := config.NewLoader(strings.TrimSpace(opts.configPath), version.Version).Load()
	if err != nil {
		return cfg, err
	}

	// Run-only flags are absent on subcommands and report unchanged.
	changed := flags.Changed
	if changed("source-url") {
		cfg.SourceURL = opts.sourceURL
	}
	if changed("ffprobe") {
		cfg.FFprobeBin = opts.ffprobeBin
	}
	if changed("tables") {
		cfg.TablesFile = opts.tablesFile
	}
	if changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if changed("output-dir") {
		cfg.OutputDir = opts.outputDir
	}
	if changed("format") {
		cfg.Format = opts.format
	}
	if changed("skip-lines") {
		cfg.SkipLines = opts.skipLines
	}
	if changed("workers") {
		cfg.Workers = config.ClampWorkers(opts.workers)
	}
	if changed("probe-timeout") {
		cfg.ProbeTimeout = opts.probeTimeout
	}
	if changed("probe-rate") {
		cfg.ProbeRate = opts.probeRate
	}
	if changed("m3u") {
		cfg.WriteM3U = opts.m3u
	}
	if changed("metrics-listen") {
		cfg.MetricsListen = opts.metricsListen
	}

	if err := config.Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func configureLogging(cfg config.AppConfig, out io.Writer) {
	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  out,
		Service: cfg.LogService,
		Version: cfg.Version,
	})
}

func run(ctx context.Context, cfg config.AppConfig) error {
	logger := xglog.WithComponent("cli")
	logger.Info().
		Str(xglog.FieldEvent, "config.loaded").
		Str(xglog.FieldSourceURL, maskURL(cfg.SourceURL)).
		Str("output_dir", cfg.OutputDir).
		Int("workers", cfg.Workers).
		Dur("probe_timeout", cfg.ProbeTimeout).
		Msg("configuration loaded")

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Telemetry.Exporter,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer func() {
		if serr := tp.Shutdown(context.WithoutCancel(ctx)); serr != nil {
			logger.Warn().Err(serr).Str(xglog.FieldEvent, "telemetry.shutdown_failed").Msg("telemetry shutdown failed")
		}
	}()

	if cfg.MetricsListen != "" {
		srv, err := metrics.Listen(cfg.MetricsListen)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		logger.Info().Str(xglog.FieldEvent, "metrics.listen").Str("addr", srv.Addr()).Msg("serving metrics")
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if serr := srv.Shutdown(shutdownCtx); serr != nil {
				logger.Warn().Err(serr).Str(xglog.FieldEvent, "metrics.shutdown_failed").Msg("metrics shutdown failed")
			}
		}()
	}

	p, err := pipeline.New(cfg, pipeline.Deps{})
	if err != nil {
		return err
	}
	rep, err := p.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info().
		Str(xglog.FieldEvent, "outputs.ready").
		Str("run_id", rep.RunID).
		Str("flat", rep.Outputs.Flat).
		Str("categorized", rep.Outputs.Categorized).
		Str("m3u", rep.Outputs.M3U).
		Int("channels", rep.Channels).
		Msg("done")
	return nil
}
