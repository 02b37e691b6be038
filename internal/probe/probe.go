// SPDX-License-Identifier: MIT

// Package probe decides whether a stream address currently serves video.
package probe

import (
	"context"
)

// Outcome is the tri-state result of a single probe.
type Outcome int

const (
	OutcomeDead Outcome = iota
	OutcomeLive
	OutcomeTimeout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLive:
		return "live"
	case OutcomeTimeout:
		return "timeout"
	default:
		return "dead"
	}
}

// Live collapses the outcome to the boolean used by the validator.
func (o Outcome) Live() bool { return o == OutcomeLive }

// Prober reports whether address is live. Implementations never return errors:
// every failure is reported as false.
type Prober interface {
	Probe(ctx context.Context, address string) bool
}

// Func adapts a plain function to the Prober interface.
type Func func(ctx context.Context, address string) bool

// Probe calls f(ctx, address).
func (f Func) Probe(ctx context.Context, address string) bool {
	return f(ctx, address)
}
