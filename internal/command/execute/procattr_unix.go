//go:build !windows

package execute

import (
	"os/exec"
	"syscall"
	"time"

	"mediadl/internal/utils/logging"
)

const killWaitDelay = 5 * time.Second

// setProcessGroup starts cmd in its own process group and kills the whole group on cancel.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
			logging.E("Failed to kill process group %d: %v", cmd.Process.Pid, err)
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = killWaitDelay
}
