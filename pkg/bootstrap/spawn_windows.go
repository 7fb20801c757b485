//go:build windows

package bootstrap

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/devicehive/setup/pkg/cmdline"
)

// detachedCommand passes commandLine to CreateProcess verbatim so the
// forwarded arguments reach msiexec exactly as we received them.
func detachedCommand(commandLine string) (*exec.Cmd, error) {
	path, err := exec.LookPath(cmdline.Program(commandLine))
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(path)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CmdLine:       commandLine,
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}
	return cmd, nil
}
