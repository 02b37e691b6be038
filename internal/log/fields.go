// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRunID = "run_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldStage     = "stage"

	// Directory fields
	FieldGroup    = "group"
	FieldChannel  = "channel"
	FieldAddress  = "address"
	FieldCategory = "category"

	// Probe fields
	FieldOutcome = "outcome"
	FieldBinary  = "binary"

	// Path / URL fields
	FieldPath      = "path"
	FieldSourceURL = "source_url"
)
