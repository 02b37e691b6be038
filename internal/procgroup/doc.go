// SPDX-License-Identifier: MIT

// Package procgroup starts child processes in their own process group so that a
// probe and anything it spawned can be reaped together.
package procgroup

import "os/exec"

// Bind puts cmd in its own process group and makes context cancellation kill the
// whole group instead of only the direct child. Call before cmd.Start.
func Bind(cmd *exec.Cmd) {
	Set(cmd)
	cmd.Cancel = func() error {
		return Kill(cmd, killSignal)
	}
}
