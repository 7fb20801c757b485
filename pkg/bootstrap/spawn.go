package bootstrap

import (
	"fmt"

	"github.com/hashicorp/go-hclog"
)

// ProcessSpawner starts the installer as a detached child process and
// releases it immediately. The bootstrapper may exit before the child
// has even started running.
type ProcessSpawner struct {
	Logger hclog.Logger
}

// Spawn implements Spawner.
func (s *ProcessSpawner) Spawn(commandLine string) (int, error) {
	logger := s.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	cmd, err := detachedCommand(commandLine)
	if err != nil {
		return 0, err
	}

	logger.Info("Starting installer", "path", cmd.Path)
	logger.Debug("Installer command line", "command_line", commandLine)

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start installer: %w", err)
	}

	pid := cmd.Process.Pid
	// Release lets the OS fully detach the child; we never Wait on it.
	if err := cmd.Process.Release(); err != nil {
		logger.Warn("Failed to release installer process", "pid", pid, "error", err)
	}

	logger.Debug("Installer started", "pid", pid)
	return pid, nil
}
