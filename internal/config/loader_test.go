// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LIVESORT_OUTPUT_DIR", t.TempDir())
	t.Setenv("LIVESORT_FFPROBE_BIN", "")

	cfg, err := NewLoader("", "v1.2.3").Load()
	require.NoError(t, err)

	assert.Equal(t, "v1.2.3", cfg.Version)
	assert.Equal(t, DefaultSourceURL, cfg.SourceURL)
	assert.Equal(t, FormatAuto, cfg.Format)
	assert.Equal(t, 2, cfg.SkipLines)
	assert.Equal(t, "-组播", cfg.MulticastTag)
	assert.Equal(t, "#genre#", cfg.GenreMarker)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 2*time.Second, cfg.ProbeMargin)
	assert.Equal(t, DefaultFFprobeBin, cfg.FFprobeBin)
	assert.Equal(t, "flat_iptv_list.txt", cfg.FlatFile)
	assert.Equal(t, "categorized_iptv_list.txt", cfg.CategorizedFile)
	assert.False(t, cfg.WriteM3U)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	out := t.TempDir()
	path := writeConfig(t, `
source:
  url: https://example.com/list.txt
  timeout: 10s
parser:
  format: quoted
  skipLines: 0
  multicastTag: ""
probe:
  workers: 8
  timeout: 3s
  margin: 1s
  rate: 4
output:
  dir: `+out+`
  writeM3U: true
logLevel: debug
`)

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/list.txt", cfg.SourceURL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, FormatQuoted, cfg.Format)
	assert.Equal(t, 0, cfg.SkipLines)
	assert.Equal(t, "", cfg.MulticastTag)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, 3*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, time.Second, cfg.ProbeMargin)
	assert.InDelta(t, 4.0, cfg.ProbeRate, 1e-9)
	assert.Equal(t, out, cfg.OutputDir)
	assert.True(t, cfg.WriteM3U)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
probe:
  workers: 8
output:
  dir: `+t.TempDir()+`
`)
	t.Setenv("LIVESORT_WORKERS", "5")
	t.Setenv("LIVESORT_FORMAT", "plain")
	t.Setenv("LIVESORT_M3U", "true")

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, FormatPlain, cfg.Format)
	assert.True(t, cfg.WriteM3U)
}

func TestLoad_WorkersAreClamped(t *testing.T) {
	t.Setenv("LIVESORT_OUTPUT_DIR", t.TempDir())

	t.Setenv("LIVESORT_WORKERS", "500")
	cfg, err := NewLoader("", "").Load()
	require.NoError(t, err)
	assert.Equal(t, MaxWorkers, cfg.Workers)

	t.Setenv("LIVESORT_WORKERS", "-4")
	cfg, err = NewLoader("", "").Load()
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Workers)
}

func TestStrictConfig_FailsOnUnknownFields(t *testing.T) {
	path := writeConfig(t, `
source:
  url: https://example.com/list.txt
unknownField: should_fail
`)

	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	if !errors.Is(err, ErrUnknownConfigField) {
		t.Fatalf("expected ErrUnknownConfigField, got: %v", err)
	}
	if !strings.Contains(err.Error(), "unknownField") {
		t.Errorf("expected error to mention unknown field, got: %v", err)
	}
}

func TestStrictConfig_RejectsMultipleDocuments(t *testing.T) {
	path := writeConfig(t, "logLevel: info\n---\nlogLevel: debug\n")

	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple documents")
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	t.Setenv("LIVESORT_OUTPUT_DIR", t.TempDir())
	path := writeConfig(t, "")

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSourceURL, cfg.SourceURL)
}

func TestLoad_RejectsNonYAMLExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))

	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only YAML supported")
}

func TestLoad_InvalidDurationInFile(t *testing.T) {
	path := writeConfig(t, "probe:\n  timeout: forever\n")

	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probe.timeout")
}

func TestLoad_TracksConsumedEnvKeys(t *testing.T) {
	t.Setenv("LIVESORT_OUTPUT_DIR", t.TempDir())
	l := NewLoader("", "")
	_, err := l.Load()
	require.NoError(t, err)

	for _, key := range []string{"LIVESORT_SOURCE_URL", "LIVESORT_WORKERS", "LIVESORT_PROBE_RATE", "LIVESORT_OTEL_ENDPOINT"} {
		_, ok := l.ConsumedEnvKeys[key]
		assert.True(t, ok, key)
	}
}
