//go:build !windows

package dev

import (
	"os/exec"
	"syscall"
	"time"
)

// configureProcessGroup starts the build in its own process group so that
// cancelling the context also stops the children it spawned (node workers etc.).
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if pgid, err := syscall.Getpgid(cmd.Process.Pid); err == nil {
			return syscall.Kill(-pgid, syscall.SIGTERM)
		}
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	// Kill the leader if the group ignores SIGTERM.
	cmd.WaitDelay = 5 * time.Second
}
