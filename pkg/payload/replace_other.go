//go:build !windows

package payload

import "os"

// rename(2) is already atomic within a filesystem.
func replaceFile(sourcePath, destPath string) error {
	return os.Rename(sourcePath, destPath)
}
