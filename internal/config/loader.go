// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values applied before the config file and the environment.
const (
	DefaultSourceURL       = "https://raw.githubusercontent.com/q1017673817/iptvz/main/zubo_all.txt"
	DefaultFetchTimeout    = 30 * time.Second
	DefaultSkipLines       = 2
	DefaultMulticastTag    = "-组播"
	DefaultGenreMarker     = "#genre#"
	DefaultWorkers         = 3
	MaxWorkers             = 32
	DefaultProbeTimeout    = 5 * time.Second
	DefaultProbeMargin     = 2 * time.Second
	DefaultFlatFile        = "flat_iptv_list.txt"
	DefaultCategorizedFile = "categorized_iptv_list.txt"
	DefaultM3UFile         = "categorized_iptv_list.m3u"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults.
// The file is parsed strictly before env overrides are applied; the result is validated last.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	cfg.FFprobeBin = ResolveFFprobeBin(cfg.FFprobeBin, cfg.FFmpegBin)
	cfg.Workers = ClampWorkers(cfg.Workers)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		SourceURL:       DefaultSourceURL,
		FetchTimeout:    DefaultFetchTimeout,
		Format:          FormatAuto,
		SkipLines:       DefaultSkipLines,
		MulticastTag:    DefaultMulticastTag,
		GenreMarker:     DefaultGenreMarker,
		Workers:         DefaultWorkers,
		ProbeTimeout:    DefaultProbeTimeout,
		ProbeMargin:     DefaultProbeMargin,
		OutputDir:       ".",
		FlatFile:        DefaultFlatFile,
		CategorizedFile: DefaultCategorizedFile,
		M3UFile:         DefaultM3UFile,
		LogLevel:        "info",
		LogFormat:       "json",
		LogService:      "livesort",
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
	}
}

// ClampWorkers bounds a requested worker count to [1, MaxWorkers].
func ClampWorkers(n int) int {
	switch {
	case n < 1:
		return 1
	case n > MaxWorkers:
		return MaxWorkers
	default:
		return n
	}
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return parseFileConfig(data)
}

func parseFileConfig(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return &fileCfg, nil
}
