package bootstrap

import (
	"fmt"
	"os"

	"github.com/devicehive/setup/pkg/logging"
	"github.com/devicehive/setup/pkg/payload"
)

type failedSource struct{ err error }

func (s failedSource) Load() ([]byte, error) { return nil, s.err }

// Main runs the bootstrapper against the running executable and returns
// the process exit status. productName titles the error dialog.
func Main(productName string) int {
	logger, closeLog := logging.Open("setup", "")
	defer closeLog()

	cfg, err := LoadConfig(productName)
	if err != nil {
		logger.Warn("Ignoring invalid configuration", "error", err)
	}
	logger.Debug("Configuration",
		"product", cfg.ProductName,
		"installer", cfg.Installer,
		"temp_dir", cfg.TempDir,
		"cleanup", cfg.Cleanup,
		"dialogs", cfg.Dialogs)

	var source PayloadSource
	exePath, err := os.Executable()
	if err != nil {
		source = failedSource{fmt.Errorf("failed to get executable path: %w", err)}
	} else {
		source = &payload.Executable{Path: exePath, Logger: logger}
	}

	return New(cfg, source, WithLogger(logger)).Run(ForwardedArgs())
}
