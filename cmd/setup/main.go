// Command setup is the DeviceHive installer bootstrapper. It carries an MSI
// package inside its own image, writes it to the temp directory and hands
// it to msiexec together with its own command line.
//
// Build it as a GUI-subsystem binary so no console window flashes up:
//
//	go build -ldflags "-H windowsgui -X main.productName=DeviceHive" ./cmd/setup
//
// then attach the package with setup-builder.
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/devicehive/setup/pkg/bootstrap"
)

// productName titles the error dialog; override at link time.
var productName = bootstrap.DefaultProductName

func main() {
	// Set up panic recovery to return specific exit code
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "PANIC: %v\n", r)
			debug.PrintStack()
			os.Exit(bootstrap.ExitPanic)
		}
	}()

	os.Exit(bootstrap.Main(productName))
}
