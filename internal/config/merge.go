// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"time"
)

func mergeFileConfig(dst *AppConfig, src *FileConfig) error {
	if src == nil {
		return nil
	}

	if s := src.Source; s != nil {
		if s.URL != "" {
			dst.SourceURL = s.URL
		}
		if err := mergeDuration(&dst.FetchTimeout, "source.timeout", s.Timeout); err != nil {
			return err
		}
	}

	if p := src.Parser; p != nil {
		if p.Format != "" {
			dst.Format = p.Format
		}
		if p.SkipLines != nil {
			dst.SkipLines = *p.SkipLines
		}
		if p.MulticastTag != nil {
			dst.MulticastTag = *p.MulticastTag
		}
		if p.GenreMarker != "" {
			dst.GenreMarker = p.GenreMarker
		}
	}

	if p := src.Probe; p != nil {
		if p.FFprobeBin != "" {
			dst.FFprobeBin = p.FFprobeBin
		}
		if p.FFmpegBin != "" {
			dst.FFmpegBin = p.FFmpegBin
		}
		if p.Workers != 0 {
			dst.Workers = p.Workers
		}
		if err := mergeDuration(&dst.ProbeTimeout, "probe.timeout", p.Timeout); err != nil {
			return err
		}
		if err := mergeDuration(&dst.ProbeMargin, "probe.margin", p.Margin); err != nil {
			return err
		}
		if p.Rate != nil {
			dst.ProbeRate = *p.Rate
		}
	}

	if o := src.Output; o != nil {
		if o.Dir != "" {
			dst.OutputDir = o.Dir
		}
		if o.Flat != "" {
			dst.FlatFile = o.Flat
		}
		if o.Categorized != "" {
			dst.CategorizedFile = o.Categorized
		}
		if o.M3U != "" {
			dst.M3UFile = o.M3U
		}
		if o.WriteM3U != nil {
			dst.WriteM3U = *o.WriteM3U
		}
	}

	if src.Tables != "" {
		dst.TablesFile = src.Tables
	}
	if src.LogLevel != "" {
		dst.LogLevel = src.LogLevel
	}
	if src.LogFormat != "" {
		dst.LogFormat = src.LogFormat
	}
	if src.Metrics != nil && src.Metrics.Listen != "" {
		dst.MetricsListen = src.Metrics.Listen
	}

	if t := src.Telemetry; t != nil {
		if t.Enabled != nil {
			dst.Telemetry.Enabled = *t.Enabled
		}
		if t.Exporter != "" {
			dst.Telemetry.Exporter = t.Exporter
		}
		if t.Endpoint != "" {
			dst.Telemetry.Endpoint = t.Endpoint
		}
		if t.SamplingRate != nil {
			dst.Telemetry.SamplingRate = *t.SamplingRate
		}
	}
	return nil
}

func mergeDuration(dst *time.Duration, field, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", field, raw, err)
	}
	*dst = d
	return nil
}

// mergeEnvConfig applies LIVESORT_* overrides on top of defaults and file values.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.SourceURL = l.envString("LIVESORT_SOURCE_URL", cfg.SourceURL)
	cfg.FetchTimeout = l.envDuration("LIVESORT_FETCH_TIMEOUT", cfg.FetchTimeout)

	cfg.Format = l.envString("LIVESORT_FORMAT", cfg.Format)
	cfg.SkipLines = l.envInt("LIVESORT_SKIP_LINES", cfg.SkipLines)

	cfg.FFprobeBin = l.envString("LIVESORT_FFPROBE_BIN", cfg.FFprobeBin)
	cfg.FFmpegBin = l.envString("LIVESORT_FFMPEG_BIN", cfg.FFmpegBin)
	cfg.Workers = l.envInt("LIVESORT_WORKERS", cfg.Workers)
	cfg.ProbeTimeout = l.envDuration("LIVESORT_PROBE_TIMEOUT", cfg.ProbeTimeout)
	cfg.ProbeMargin = l.envDuration("LIVESORT_PROBE_MARGIN", cfg.ProbeMargin)
	cfg.ProbeRate = l.envFloat("LIVESORT_PROBE_RATE", cfg.ProbeRate)

	cfg.TablesFile = l.envString("LIVESORT_TABLES_FILE", cfg.TablesFile)
	cfg.OutputDir = l.envString("LIVESORT_OUTPUT_DIR", cfg.OutputDir)
	cfg.WriteM3U = l.envBool("LIVESORT_M3U", cfg.WriteM3U)

	cfg.LogLevel = l.envString("LIVESORT_LOG_LEVEL", cfg.LogLevel)
	cfg.MetricsListen = l.envString("LIVESORT_METRICS_LISTEN", cfg.MetricsListen)

	cfg.Telemetry.Enabled = l.envBool("LIVESORT_OTEL_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString("LIVESORT_OTEL_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString("LIVESORT_OTEL_ENDPOINT", cfg.Telemetry.Endpoint)
}
