// SPDX-License-Identifier: MIT
package validate

import "slices"

// LogLevel is a zerolog level name accepted in configuration.
type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = []LogLevel{LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError}

// IsValid checks if the log level is valid
func (l LogLevel) IsValid() bool {
	return slices.Contains(logLevels, l)
}

func (l LogLevel) String() string {
	return string(l)
}

// ParseLogLevel parses a string into a LogLevel
func ParseLogLevel(s string) (LogLevel, error) {
	level := LogLevel(s)
	if !level.IsValid() {
		return "", ErrInvalidLogLevel
	}
	return level, nil
}

// LogFormats lists the accepted log output formats.
var LogFormats = []string{"json", "console"}

var (
	ErrInvalidLogLevel = &Error{
		Field:   "LogLevel",
		Message: "must be one of: trace, debug, info, warn, error",
	}
)
