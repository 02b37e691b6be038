// SPDX-License-Identifier: MIT

package config

import (
	"time"

	"github.com/Figoh-cpu/code/internal/validate"
)

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.URL("SourceURL", cfg.SourceURL, []string{"http", "https"})
	v.MinDuration("FetchTimeout", cfg.FetchTimeout, time.Second)

	v.OneOf("Format", cfg.Format, []string{FormatAuto, FormatPlain, FormatQuoted})
	v.NonNegative("SkipLines", cfg.SkipLines)
	v.NotEmpty("GenreMarker", cfg.GenreMarker)

	v.NotEmpty("FFprobeBin", cfg.FFprobeBin)
	v.Range("Workers", cfg.Workers, 1, MaxWorkers)
	v.MinDuration("ProbeTimeout", cfg.ProbeTimeout, 100*time.Millisecond)
	v.MinDuration("ProbeMargin", cfg.ProbeMargin, 0)
	v.NonNegativeFloat("ProbeRate", cfg.ProbeRate)

	v.File("TablesFile", cfg.TablesFile)

	v.Directory("OutputDir", cfg.OutputDir, false)
	v.FileName("FlatFile", cfg.FlatFile)
	v.FileName("CategorizedFile", cfg.CategorizedFile)
	v.FileName("M3UFile", cfg.M3UFile)

	if _, err := validate.ParseLogLevel(cfg.LogLevel); err != nil {
		v.AddError("LogLevel", err.Error(), cfg.LogLevel)
	}
	v.OneOf("LogFormat", cfg.LogFormat, validate.LogFormats)
	v.ListenAddr("MetricsListen", cfg.MetricsListen)

	if cfg.Telemetry.Enabled {
		v.OneOf("Telemetry.Exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("Telemetry.Endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("Telemetry.SamplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}
