// SPDX-License-Identifier: MIT

package playlist

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/Figoh-cpu/code/internal/categorize"
	"github.com/Figoh-cpu/code/internal/channels"
	xglog "github.com/Figoh-cpu/code/internal/log"
	"github.com/Figoh-cpu/code/internal/metrics"
	"github.com/google/renameio/v2"
)

// WriteFileAtomic writes path through fn with full durability guarantees:
// the content goes to a temp file that is fsynced and renamed over path, so
// readers see either the old file or the complete new one.
func WriteFileAtomic(ctx context.Context, path string, fn func(io.Writer) error) error {
	logger := xglog.FromContext(ctx)

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file %s: %w", path, err)
	}
	defer func() {
		// no-op once committed
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str(xglog.FieldPath, path).Msg("cleanup pending file")
		}
	}()

	if err := fn(pendingFile); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}

// Files names the output artifacts. An empty M3U disables the playlist.
type Files struct {
	Dir         string
	Flat        string
	Categorized string
	M3U         string
}

// Written lists the paths produced by Emit.
type Written struct {
	Flat        string
	Categorized string
	M3U         string
}

// Emit writes the flat list, the categorized list and, if configured, the M3U playlist.
func Emit(ctx context.Context, files Files, flat []channels.FlatChannel, out categorize.Output) (Written, error) {
	logger := xglog.WithComponentFromContext(ctx, "playlist")
	var w Written

	w.Flat = filepath.Join(files.Dir, files.Flat)
	if err := WriteFileAtomic(ctx, w.Flat, func(wr io.Writer) error { return WriteFlat(wr, flat) }); err != nil {
		metrics.IncOutputWriteError("flat")
		return w, err
	}

	w.Categorized = filepath.Join(files.Dir, files.Categorized)
	if err := WriteFileAtomic(ctx, w.Categorized, func(wr io.Writer) error { return WriteCategorized(wr, out) }); err != nil {
		metrics.IncOutputWriteError("categorized")
		return w, err
	}

	if files.M3U != "" {
		w.M3U = filepath.Join(files.Dir, files.M3U)
		items := ItemsFromOutput(out)
		if err := WriteFileAtomic(ctx, w.M3U, func(wr io.Writer) error { return WriteM3U(wr, items) }); err != nil {
			metrics.IncOutputWriteError("m3u")
			return w, err
		}
	}

	logger.Info().
		Str(xglog.FieldEvent, "emit.done").
		Str("flat", w.Flat).
		Str("categorized", w.Categorized).
		Str("m3u", w.M3U).
		Int("channels", len(flat)).
		Int("categories", len(out)).
		Msg("outputs written")
	return w, nil
}
