//go:build !unix

package runner

import "os/exec"

// setProcessGroup is a no-op on platforms without process groups. Only
// the direct child can be terminated on timeout; cleanup of grandchildren
// is best-effort.
func setProcessGroup(cmd *exec.Cmd) {}

// killProcessGroup kills the direct child. Grandchildren may survive;
// this is a documented reduced guarantee on non-Unix platforms.
func killProcessGroup(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
