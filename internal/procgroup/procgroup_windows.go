// SPDX-License-Identifier: MIT

//go:build windows

package procgroup

import (
	"os/exec"
	"syscall"
)

const killSignal = syscall.SIGKILL

// Set is a no-op on Windows.
func Set(cmd *exec.Cmd) {}

// Kill terminates the direct child on Windows. Only SIGKILL is honoured.
func Kill(cmd *exec.Cmd, sig syscall.Signal) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if sig == syscall.SIGKILL {
		return cmd.Process.Kill()
	}
	return nil
}
