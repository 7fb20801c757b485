package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitPanic   = 101
)

// Environment variables read by LoadConfig.
const (
	EnvTempDir   = "SETUP_TEMP_DIR"
	EnvInstaller = "SETUP_INSTALLER"
	EnvCleanup   = "SETUP_CLEANUP"
	EnvNoDialog  = "SETUP_NO_DIALOG"
)

const (
	DefaultProductName = "DeviceHive"
	DefaultInstaller   = "msiexec"
	DefaultTempPrefix  = "NEW"

	// MaxCommandLine is the CreateProcess limit in UTF-16 code units,
	// terminating NUL included.
	MaxCommandLine = 32767
)

// CleanupPolicy decides what happens to the temp file when a later step fails.
type CleanupPolicy string

const (
	// CleanupRetain leaves the temp file on disk.
	CleanupRetain CleanupPolicy = "retain"
	// CleanupRemove deletes the temp file.
	CleanupRemove CleanupPolicy = "remove"
)

// ParseCleanupPolicy validates a policy name; the empty name means retain.
func ParseCleanupPolicy(s string) (CleanupPolicy, error) {
	switch CleanupPolicy(strings.ToLower(s)) {
	case "", CleanupRetain:
		return CleanupRetain, nil
	case CleanupRemove:
		return CleanupRemove, nil
	default:
		return CleanupRetain, fmt.Errorf("invalid %s %q (want retain or remove)", EnvCleanup, s)
	}
}

// Config holds bootstrapper settings.
type Config struct {
	ProductName    string
	Installer      string
	TempDir        string // empty means os.TempDir()
	TempPrefix     string
	Cleanup        CleanupPolicy
	MaxCommandLine int
	Dialogs        bool
}

// DefaultConfig returns the settings of a plain setup.exe run.
func DefaultConfig() Config {
	return Config{
		ProductName:    DefaultProductName,
		Installer:      DefaultInstaller,
		TempPrefix:     DefaultTempPrefix,
		Cleanup:        CleanupRetain,
		MaxCommandLine: MaxCommandLine,
		Dialogs:        true,
	}
}

// LoadConfig applies SETUP_* environment overrides to the defaults. An
// invalid value is reported in the error while the returned config keeps
// the default for that setting.
func LoadConfig(productName string) (Config, error) {
	cfg := DefaultConfig()
	if productName != "" {
		cfg.ProductName = productName
	}
	if dir := os.Getenv(EnvTempDir); dir != "" {
		cfg.TempDir = dir
	}
	if installer := os.Getenv(EnvInstaller); installer != "" {
		cfg.Installer = installer
	}
	cfg.Dialogs = !isEnvTrue(EnvNoDialog)

	policy, err := ParseCleanupPolicy(os.Getenv(EnvCleanup))
	cfg.Cleanup = policy
	return cfg, err
}

// isEnvTrue checks if an environment variable is set to a true value
func isEnvTrue(key string) bool {
	val := os.Getenv(key)
	if val == "" {
		return false
	}

	valLower := strings.ToLower(val)
	if valLower == "on" || valLower == "yes" {
		return true
	}

	result, err := strconv.ParseBool(val)
	return err == nil && result
}
