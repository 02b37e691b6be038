// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared by pipeline spans.
const (
	RunIDKey     = "livesort.run_id"
	SourceURLKey = "livesort.source_url"
	StageKey     = "livesort.stage"

	DirectoryFormatKey   = "directory.format"
	DirectoryLinesKey    = "directory.lines"
	DirectoryGroupsKey   = "directory.groups"
	DirectoryChannelsKey = "directory.channels"
	MalformedLinesKey    = "directory.malformed"

	ProbeWorkersKey = "probe.workers"
	LiveGroupsKey   = "probe.live_groups"

	ChannelsKey   = "channels.count"
	DuplicatesKey = "channels.duplicates"
	CategoriesKey = "categories.count"

	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// RunAttributes identifies a pipeline run.
func RunAttributes(runID, sourceURL string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 2)
	if runID != "" {
		attrs = append(attrs, attribute.String(RunIDKey, runID))
	}
	if sourceURL != "" {
		attrs = append(attrs, attribute.String(SourceURLKey, sourceURL))
	}
	return attrs
}

// DirectoryAttributes describes a parsed directory.
func DirectoryAttributes(format string, lines, groups, channels, malformed int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(DirectoryFormatKey, format),
		attribute.Int(DirectoryLinesKey, lines),
		attribute.Int(DirectoryGroupsKey, groups),
		attribute.Int(DirectoryChannelsKey, channels),
		attribute.Int(MalformedLinesKey, malformed),
	}
}

// ValidateAttributes describes a liveness pass.
func ValidateAttributes(workers, groups, live int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(ProbeWorkersKey, workers),
		attribute.Int(DirectoryGroupsKey, groups),
		attribute.Int(LiveGroupsKey, live),
	}
}

// OutputAttributes describes the emitted lists.
func OutputAttributes(channels, duplicates, categories int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(ChannelsKey, channels),
		attribute.Int(DuplicatesKey, duplicates),
		attribute.Int(CategoriesKey, categories),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}

// RecordError marks span as failed. A nil err is a no-op.
func RecordError(span trace.Span, err error, errorType string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetAttributes(ErrorAttributes(errorType)...)
	span.SetStatus(codes.Error, err.Error())
}
