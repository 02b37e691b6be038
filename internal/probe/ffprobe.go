// SPDX-License-Identifier: MIT

package probe

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"time"

	"github.com/Figoh-cpu/code/internal/log"
	"github.com/Figoh-cpu/code/internal/metrics"
	"github.com/Figoh-cpu/code/internal/procgroup"
)

const (
	DefaultTimeout   = 5 * time.Second
	DefaultMargin    = 2 * time.Second
	defaultWaitDelay = time.Second
	maxStderrLog     = 512
)

// FFprobe probes addresses by asking ffprobe for the first video stream.
type FFprobe struct {
	Bin string
	// Timeout is handed to ffprobe itself.
	Timeout time.Duration
	// Margin is added on top of Timeout for the caller-side deadline, so ffprobe
	// can give up on its own before it is killed.
	Margin time.Duration
	// WaitDelay bounds how long Wait blocks on output pipes after a kill.
	WaitDelay time.Duration
}

// NewFFprobe returns an ffprobe runner. Zero durations fall back to defaults.
func NewFFprobe(bin string, timeout, margin time.Duration) *FFprobe {
	if bin == "" {
		bin = "ffprobe"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if margin < 0 {
		margin = DefaultMargin
	}
	return &FFprobe{
		Bin:       bin,
		Timeout:   timeout,
		Margin:    margin,
		WaitDelay: defaultWaitDelay,
	}
}

// Args returns the ffprobe argument vector for address.
func (p *FFprobe) Args(address string) []string {
	return []string{
		"-v", "error",
		"-timeout", strconv.FormatInt(p.Timeout.Microseconds(), 10),
		"-show_streams",
		"-select_streams", "v:0",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"-i", address,
	}
}

// Probe implements Prober.
func (p *FFprobe) Probe(ctx context.Context, address string) bool {
	return p.Run(ctx, address).Live()
}

// Run executes ffprobe against address and classifies the result.
// Live means exit status 0 and non-empty stdout.
func (p *FFprobe) Run(ctx context.Context, address string) Outcome {
	logger := log.WithComponentFromContext(ctx, "probe")
	start := time.Now()

	metrics.IncProbesInFlight()
	defer metrics.DecProbesInFlight()

	runCtx, cancel := context.WithTimeout(ctx, p.Timeout+p.Margin)
	defer cancel()

	// #nosec G204 -- binary comes from operator config; address is passed as a single argv element
	cmd := exec.CommandContext(runCtx, p.Bin, p.Args(address)...)
	procgroup.Bind(cmd)
	cmd.WaitDelay = p.WaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	outcome := OutcomeLive
	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil:
		outcome = OutcomeTimeout
	case err != nil:
		outcome = OutcomeDead
	case len(bytes.TrimSpace(stdout.Bytes())) == 0:
		outcome = OutcomeDead
	}

	elapsed := time.Since(start)
	metrics.ObserveProbe(outcome.String(), elapsed)

	ev := logger.Debug()
	if outcome == OutcomeTimeout {
		ev = logger.Warn()
	}
	ev = ev.
		Str(log.FieldEvent, "probe."+outcome.String()).
		Str(log.FieldAddress, address).
		Str(log.FieldOutcome, outcome.String()).
		Dur("duration", elapsed)
	if err != nil {
		ev = ev.Err(err)
	}
	if outcome != OutcomeLive && stderr.Len() > 0 {
		msg := stderr.String()
		if len(msg) > maxStderrLog {
			msg = msg[:maxStderrLog] + "..."
		}
		ev = ev.Str("stderr", msg)
	}
	ev.Msg("probe finished")

	return outcome
}
