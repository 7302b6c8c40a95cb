//go:build windows

package dev

import (
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
)

// configureProcessGroup starts the build in a new process group. On cancel the
// default exec behaviour kills the build process.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP,
	}
	cmd.WaitDelay = 5 * time.Second
}
