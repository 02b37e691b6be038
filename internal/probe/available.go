// SPDX-License-Identifier: MIT

package probe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/Figoh-cpu/code/internal/log"
	"github.com/Figoh-cpu/code/internal/metrics"
	"github.com/Figoh-cpu/code/internal/procgroup"
)

// ErrUnavailable reports that the prober binary cannot be found or does not run.
var ErrUnavailable = errors.New("probe: prober binary unavailable")

const versionCheckTimeout = 10 * time.Second

// CheckAvailable resolves bin on PATH and runs "bin -version". It returns the
// resolved path, or an error wrapping ErrUnavailable.
func CheckAvailable(ctx context.Context, bin string) (string, error) {
	logger := log.WithComponentFromContext(ctx, "probe")

	path, err := exec.LookPath(bin)
	if err != nil {
		metrics.IncProberUnavailable()
		return "", fmt.Errorf("%w: %s: %w", ErrUnavailable, bin, err)
	}

	ctx, cancel := context.WithTimeout(ctx, versionCheckTimeout)
	defer cancel()

	// #nosec G204 -- binary comes from operator config
	cmd := exec.CommandContext(ctx, path, "-version")
	procgroup.Bind(cmd)
	cmd.WaitDelay = defaultWaitDelay
	if err := cmd.Run(); err != nil {
		metrics.IncProberUnavailable()
		return "", fmt.Errorf("%w: %s -version: %w", ErrUnavailable, path, err)
	}

	logger.Info().
		Str(log.FieldEvent, "probe.available").
		Str(log.FieldBinary, path).
		Msg("prober binary available")
	return path, nil
}
