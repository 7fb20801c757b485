//go:build !windows

package bootstrap

import (
	"errors"
	"os/exec"
	"syscall"

	"github.com/devicehive/setup/pkg/cmdline"
)

// detachedCommand splits commandLine with the Windows rules it was built
// with and starts the child in its own session.
func detachedCommand(commandLine string) (*exec.Cmd, error) {
	argv, err := cmdline.Split(commandLine)
	if err != nil {
		return nil, err
	}
	if len(argv) == 0 {
		return nil, errors.New("empty command line")
	}

	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(path, argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	return cmd, nil
}
