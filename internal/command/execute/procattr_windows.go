//go:build windows

package execute

import (
	"os/exec"
	"time"
)

const killWaitDelay = 5 * time.Second

// setProcessGroup kills the process on cancel. Windows has no process groups to signal.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = killWaitDelay
}
