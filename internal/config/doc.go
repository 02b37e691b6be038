// SPDX-License-Identifier: MIT

// Package config provides configuration management for livesort.
//
// Precedence is ENV > YAML file > defaults. The file is parsed strictly: unknown
// keys are rejected so that a typo never silently falls back to a default.
package config
