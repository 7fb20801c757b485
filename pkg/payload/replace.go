package payload

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-hclog"
)

const replaceRetries = 2

// atomicReplace moves sourcePath over destPath. Windows may briefly hold
// the destination open (antivirus, indexer), so failures are retried with
// exponential backoff.
func atomicReplace(sourcePath, destPath string, logger hclog.Logger) error {
	logger.Debug("Performing atomic file replacement", "source", sourcePath, "dest", destPath)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.RandomizationFactor = 0
	b.Multiplier = 2

	attempt := 0
	op := func() error {
		attempt++
		err := replaceFile(sourcePath, destPath)
		if err != nil {
			logger.Debug("Retrying file replacement", "attempt", attempt, "error", err)
		}
		return err
	}

	if err := backoff.Retry(op, backoff.WithMaxRetries(b, replaceRetries)); err != nil {
		return fmt.Errorf("failed to replace %s after %d attempts: %w", destPath, attempt, err)
	}

	logger.Debug("Atomic file replacement successful", "dest", destPath, "attempts", attempt)
	return nil
}
