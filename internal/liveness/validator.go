// SPDX-License-Identifier: MIT

// Package liveness decides which directory groups are live by probing one
// representative channel per group under a bounded worker pool.
package liveness

import (
	"context"
	"time"

	"github.com/Figoh-cpu/code/internal/directory"
	"github.com/Figoh-cpu/code/internal/log"
	"github.com/Figoh-cpu/code/internal/probe"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	DefaultWorkers = 3
	MaxWorkers     = 32
)

// Result is the verdict for one group.
type Result struct {
	Group  string
	IsLive bool
	// Probed is false for groups excluded without a probe call.
	Probed bool
}

// Options configures a Validator.
type Options struct {
	// Workers caps concurrent probes. Values outside [1, MaxWorkers] are clamped;
	// zero selects DefaultWorkers.
	Workers int
	// Rate limits probe launches per second. Zero means unlimited.
	Rate float64
}

// Validator fans group probes out over a bounded pool.
type Validator struct {
	prober  probe.Prober
	workers int
	limiter *rate.Limiter
}

// New returns a Validator using p for every probe.
func New(p probe.Prober, opts Options) *Validator {
	v := &Validator{
		prober:  p,
		workers: clampWorkers(opts.Workers),
	}
	if opts.Rate > 0 {
		v.limiter = rate.NewLimiter(rate.Limit(opts.Rate), 1)
	}
	return v
}

// Workers returns the effective worker cap.
func (v *Validator) Workers() int { return v.workers }

func clampWorkers(n int) int {
	switch {
	case n == 0:
		return DefaultWorkers
	case n < 1:
		return 1
	case n > MaxWorkers:
		return MaxWorkers
	default:
		return n
	}
}

type verdict struct {
	idx  int
	live bool
}

// Validate probes the first channel of every non-empty group and returns one
// Result per group, in the order of groups. It waits for every probe before
// returning. If ctx is cancelled it returns ctx.Err() and no results.
func (v *Validator) Validate(ctx context.Context, groups []directory.Group) ([]Result, error) {
	logger := log.WithComponentFromContext(ctx, "liveness")
	start := time.Now()

	results := make([]Result, len(groups))
	verdicts := make(chan verdict, len(groups))

	var g errgroup.Group
	g.SetLimit(v.workers)

	for i, grp := range groups {
		results[i] = Result{Group: grp.Name}

		first, ok := grp.First()
		if !ok {
			logger.Debug().Str(log.FieldGroup, grp.Name).Msg("empty group excluded without probe")
			continue
		}
		if ctx.Err() != nil {
			break
		}

		// Blocks while the pool is full.
		g.Go(func() error {
			if v.limiter != nil {
				if err := v.limiter.Wait(ctx); err != nil {
					return err
				}
			}
			live := v.prober.Probe(ctx, first.Address)
			if err := ctx.Err(); err != nil {
				return err
			}
			verdicts <- verdict{idx: i, live: live}
			return nil
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- g.Wait()
		close(verdicts)
	}()

	for vd := range verdicts {
		results[vd.idx].IsLive = vd.live
		results[vd.idx].Probed = true
	}
	if err := <-waitErr; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	live, probed := 0, 0
	for _, r := range results {
		if r.Probed {
			probed++
		}
		if r.IsLive {
			live++
			logger.Debug().Str(log.FieldGroup, r.Group).Str(log.FieldEvent, "group.live").Msg("group is live")
		}
	}
	logger.Info().
		Str(log.FieldEvent, "validate.done").
		Int("groups", len(groups)).
		Int("probed", probed).
		Int("live", live).
		Int("workers", v.workers).
		Dur("duration", time.Since(start)).
		Msg("group validation completed")

	return results, nil
}

// LiveCount returns the number of live results.
func LiveCount(results []Result) int {
	n := 0
	for _, r := range results {
		if r.IsLive {
			n++
		}
	}
	return n
}
