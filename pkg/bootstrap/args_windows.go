//go:build windows

package bootstrap

import (
	"golang.org/x/sys/windows"

	"github.com/devicehive/setup/pkg/cmdline"
)

// ForwardedArgs returns our raw command line minus the program name,
// untouched by Go's argv splitting.
func ForwardedArgs() string {
	return cmdline.Tail(windows.UTF16PtrToString(windows.GetCommandLine()))
}
