// SPDX-License-Identifier: MIT

package pipeline

import (
	"time"

	"github.com/Figoh-cpu/code/internal/directory"
	"github.com/Figoh-cpu/code/internal/playlist"
)

// Report summarizes a completed run.
type Report struct {
	RunID     string
	SourceURL string
	Tables    string

	Format     string
	Directory  directory.Stats
	Groups     int
	LiveGroups int

	Channels   int
	Duplicates int

	// Categories maps each non-empty category to its channel count.
	Categories map[string]int
	// Normalized counts name resolutions by match kind.
	Normalized map[string]int
	// Via counts category assignments by decision path.
	Via map[string]int

	Outputs  playlist.Written
	Started  time.Time
	Duration time.Duration
}
