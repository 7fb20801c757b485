//go:build !windows

package bootstrap

import (
	"os"

	"github.com/devicehive/setup/pkg/cmdline"
)

// ForwardedArgs rebuilds a Windows-style argument string from os.Args.
func ForwardedArgs() string {
	return cmdline.Join(os.Args[1:])
}
