// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultFFprobeBin is looked up on PATH when nothing more specific is configured.
const DefaultFFprobeBin = "ffprobe"

// ResolveFFprobeBin returns an effective ffprobe binary based on configured values.
//
// Resolution order:
// 1) Explicit ffprobeBin (LIVESORT_FFPROBE_BIN / probe.ffprobeBin)
// 2) Derive from ffmpegBin (.../ffmpeg -> .../ffprobe) if the derived binary exists
// 3) DefaultFFprobeBin, resolved through PATH by the caller
func ResolveFFprobeBin(ffprobeBin, ffmpegBin string) string {
	return resolveFFprobeBinWithStat(ffprobeBin, ffmpegBin, os.Stat)
}

func resolveFFprobeBinWithStat(ffprobeBin, ffmpegBin string, stat func(string) (os.FileInfo, error)) string {
	if ffprobeBin = strings.TrimSpace(ffprobeBin); ffprobeBin != "" {
		return ffprobeBin
	}

	ffmpegBin = strings.TrimSpace(ffmpegBin)
	// Only derive from a concrete ffmpeg path; a bare "ffmpeg" means PATH.
	if ffmpegBin == "" || !strings.ContainsRune(ffmpegBin, filepath.Separator) {
		return DefaultFFprobeBin
	}
	if filepath.Base(ffmpegBin) != "ffmpeg" {
		return DefaultFFprobeBin
	}

	candidate := filepath.Join(filepath.Dir(ffmpegBin), "ffprobe")
	if fi, err := stat(candidate); err == nil && fi != nil && !fi.IsDir() {
		return candidate
	}
	return DefaultFFprobeBin
}
