// SPDX-License-Identifier: MIT

package config

import "time"

// Input directory formats understood by the parser.
const (
	FormatAuto   = "auto"
	FormatPlain  = "plain"
	FormatQuoted = "quoted"
)

// AppConfig is the effective, validated configuration of a run.
type AppConfig struct {
	Version string

	// Source
	SourceURL    string
	FetchTimeout time.Duration

	// Parser
	Format       string
	SkipLines    int
	MulticastTag string
	GenreMarker  string

	// Prober
	FFprobeBin   string
	FFmpegBin    string
	Workers      int
	ProbeTimeout time.Duration
	ProbeMargin  time.Duration
	ProbeRate    float64

	// Tables
	TablesFile string

	// Output
	OutputDir       string
	FlatFile        string
	CategorizedFile string
	M3UFile         string
	WriteM3U        bool

	// Observability
	LogLevel      string
	LogFormat     string
	LogService    string
	MetricsListen string
	Telemetry     TelemetryConfig
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// FileConfig mirrors the YAML config file. Pointer fields distinguish "unset" from zero.
type FileConfig struct {
	Source    *SourceFileConfig    `yaml:"source,omitempty"`
	Parser    *ParserFileConfig    `yaml:"parser,omitempty"`
	Probe     *ProbeFileConfig     `yaml:"probe,omitempty"`
	Output    *OutputFileConfig    `yaml:"output,omitempty"`
	Tables    string               `yaml:"tables,omitempty"`
	LogLevel  string               `yaml:"logLevel,omitempty"`
	LogFormat string               `yaml:"logFormat,omitempty"`
	Metrics   *MetricsFileConfig   `yaml:"metrics,omitempty"`
	Telemetry *TelemetryFileConfig `yaml:"telemetry,omitempty"`
}

// SourceFileConfig configures the directory download.
type SourceFileConfig struct {
	URL     string `yaml:"url,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

// ParserFileConfig configures the record parser.
type ParserFileConfig struct {
	Format       string  `yaml:"format,omitempty"`
	SkipLines    *int    `yaml:"skipLines,omitempty"`
	MulticastTag *string `yaml:"multicastTag,omitempty"`
	GenreMarker  string  `yaml:"genreMarker,omitempty"`
}

// ProbeFileConfig configures ffprobe and the group validator.
type ProbeFileConfig struct {
	FFprobeBin string   `yaml:"ffprobeBin,omitempty"`
	FFmpegBin  string   `yaml:"ffmpegBin,omitempty"`
	Workers    int      `yaml:"workers,omitempty"`
	Timeout    string   `yaml:"timeout,omitempty"`
	Margin     string   `yaml:"margin,omitempty"`
	Rate       *float64 `yaml:"rate,omitempty"`
}

// OutputFileConfig configures the written artifacts.
type OutputFileConfig struct {
	Dir         string `yaml:"dir,omitempty"`
	Flat        string `yaml:"flat,omitempty"`
	Categorized string `yaml:"categorized,omitempty"`
	M3U         string `yaml:"m3u,omitempty"`
	WriteM3U    *bool  `yaml:"writeM3U,omitempty"`
}

// MetricsFileConfig configures the optional Prometheus listener.
type MetricsFileConfig struct {
	Listen string `yaml:"listen,omitempty"`
}

// TelemetryFileConfig configures OpenTelemetry.
type TelemetryFileConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}
