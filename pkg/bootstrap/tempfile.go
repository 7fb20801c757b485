package bootstrap

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxNameAttempts bounds retries when a generated name is already taken.
const maxNameAttempts = 16

type tempFile interface {
	io.Writer
	io.Closer
}

// uniqueSuffix returns eight random upper-case hex digits.
func uniqueSuffix() string {
	id := uuid.New()
	return strings.ToUpper(hex.EncodeToString(id[:4]))
}

func openTempFile(path string) (tempFile, error) {
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
}

// reserveTempName creates an empty file named <prefix><suffix>.tmp in dir
// and returns its path. The exclusive create is what makes the name unique.
func (b *Bootstrapper) reserveTempName(dir string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		path := filepath.Join(dir, b.cfg.TempPrefix+b.newSuffix()+".tmp")

		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			if err := f.Close(); err != nil {
				return "", err
			}
			return path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", err
		}

		b.logger.Trace("Temporary name taken, retrying", "path", path, "attempt", attempt)
		lastErr = err
	}
	return "", fmt.Errorf("no unique name after %d attempts: %w", maxNameAttempts, lastErr)
}

// writeTempFile writes the whole payload to path and closes it. Writing
// fewer bytes than the payload holds is a failure.
func (b *Bootstrapper) writeTempFile(path string, data []byte) error {
	f, err := b.openFile(path)
	if err != nil {
		return err
	}

	n, err := f.Write(data)
	if n != len(data) {
		f.Close()
		if err == nil {
			err = ErrShortWrite
		}
		return fmt.Errorf("wrote %d of %d bytes: %w", n, len(data), err)
	}

	return f.Close()
}

func (b *Bootstrapper) cleanup(path string) {
	if b.cfg.Cleanup != CleanupRemove {
		b.logger.Debug("Leaving temporary file in place", "path", path)
		return
	}
	if err := os.Remove(path); err != nil {
		b.logger.Debug("Failed to remove temporary file", "path", path, "error", err)
		return
	}
	b.logger.Debug("Removed temporary file", "path", path)
}
