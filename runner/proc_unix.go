//go:build unix

package runner

import (
	"os/exec"
	"syscall"
)

// setProcessGroup configures the command to run in its own process group,
// so a timeout can terminate the subject together with any helper
// processes it spawned.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends SIGKILL to the entire process group. The signal
// is unconditional: a subject that ignores termination requests at the
// individual level is still torn down.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	pgid, err := syscall.Getpgid(cmd.Process.Pid)
	if err != nil {
		return cmd.Process.Kill()
	}
	return syscall.Kill(-pgid, syscall.SIGKILL)
}
