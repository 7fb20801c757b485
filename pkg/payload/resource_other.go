//go:build !windows

package payload

import (
	"github.com/hashicorp/go-hclog"
)

// ReadResource reads the installer package from the PE resources of the
// executable at exePath. Off Windows the image is parsed directly, which
// lets the builder inspect bootstrappers it produced.
func ReadResource(exePath string, logger hclog.Logger) ([]byte, error) {
	logger.Debug("Reading payload from PE resources", "exe", exePath)
	data, err := readResourceFile(exePath)
	if err != nil {
		return nil, err
	}
	logger.Debug("Read payload from PE resources", "exe", exePath, "size", len(data))
	return data, nil
}
