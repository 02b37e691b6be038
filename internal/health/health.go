// SPDX-License-Identifier: MIT

// Package health runs preflight checks against the environment a run depends
// on and summarizes them as healthy, degraded or unhealthy.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Figoh-cpu/code/internal/log"
)

// Status represents the overall or per-check status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the result of a component check
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NamedResult is a CheckResult tagged with its checker name.
type NamedResult struct {
	Name string `json:"name"`
	CheckResult
}

// Report is the outcome of running every registered checker.
type Report struct {
	Status    Status        `json:"status"`
	Version   string        `json:"version,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []NamedResult `json:"checks"`
}

// Checker defines the interface for health checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager runs registered checks in registration order.
type Manager struct {
	version  string
	checkers []Checker
	now      func() time.Time
}

// NewManager creates a new health check manager
func NewManager(version string) *Manager {
	return &Manager{
		version:  version,
		checkers: make([]Checker, 0),
		now:      time.Now,
	}
}

// RegisterChecker adds a health checker to the manager
func (m *Manager) RegisterChecker(checker Checker) {
	m.checkers = append(m.checkers, checker)
}

// Run executes every checker. Any unhealthy check makes the report unhealthy;
// otherwise any degraded check makes it degraded.
func (m *Manager) Run(ctx context.Context) Report {
	logger := log.WithComponentFromContext(ctx, "health")
	rep := Report{
		Status:    StatusHealthy,
		Version:   m.version,
		Timestamp: m.now(),
		Checks:    make([]NamedResult, 0, len(m.checkers)),
	}

	hasUnhealthy := false
	hasDegraded := false
	for _, checker := range m.checkers {
		result := checker.Check(ctx)
		rep.Checks = append(rep.Checks, NamedResult{Name: checker.Name(), CheckResult: result})

		switch result.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
			hasDegraded = true
		}
		logger.Debug().
			Str(log.FieldEvent, "health.checked").
			Str("check", checker.Name()).
			Str("status", string(result.Status)).
			Msg("check performed")
	}

	if hasUnhealthy {
		rep.Status = StatusUnhealthy
	} else if hasDegraded {
		rep.Status = StatusDegraded
	}
	return rep
}

// Err returns an error naming every unhealthy check, or nil.
func (r Report) Err() error {
	var failed []string
	for _, c := range r.Checks {
		if c.Status == StatusUnhealthy {
			failed = append(failed, fmt.Sprintf("%s: %s", c.Name, c.Error))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d check(s) failed: %s", len(failed), strings.Join(failed, "; "))
}

// WriteText prints one aligned line per check followed by the overall status.
func (r Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range r.Checks {
		detail := c.Message
		if c.Error != "" {
			detail = strings.TrimSpace(c.Message + " " + c.Error)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Status, detail)
	}
	fmt.Fprintf(tw, "overall\t%s\t\n", r.Status)
	return tw.Flush()
}

// WriteJSON encodes the report as indented JSON.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
