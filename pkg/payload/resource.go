package payload

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/tc-hib/winres"
)

// The installer package is stored as a custom resource: type "MSI",
// integer ID 1, en-US. Existing DeviceHive setup stubs look it up there.
const (
	ResourceType = "MSI"
	ResourceID   = 1
	ResourceLang = 0x0409
)

// IsPE reports whether data is a PE image: an MZ header whose e_lfanew
// field (offset 0x3C) points at a "PE\0\0" signature.
func IsPE(data []byte) bool {
	if len(data) < 0x40 || data[0] != 'M' || data[1] != 'Z' {
		return false
	}
	peOffset := int64(binary.LittleEndian.Uint32(data[0x3C:0x40]))
	if peOffset+4 > int64(len(data)) {
		return false
	}
	return bytes.Equal(data[peOffset:peOffset+4], []byte{'P', 'E', 0, 0})
}

// checkPEImage parses the PE headers of data. winres indexes into the
// optional header without checking its size, so images without one are
// rejected here.
func checkPEImage(data []byte) error {
	if !IsPE(data) {
		return errors.New("not a PE image")
	}
	f, err := pe.NewFile(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("invalid PE headers: %w", err)
	}
	defer f.Close()

	if f.OptionalHeader == nil {
		return errors.New("PE image has no optional header")
	}
	return nil
}

// readResourceFile reads the payload resource by parsing the image with
// winres, so images built on any host can be read back on any host.
func readResourceFile(exePath string) ([]byte, error) {
	image, err := os.ReadFile(exePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", exePath, err)
	}
	if err := checkPEImage(image); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, exePath, err)
	}

	rs, err := winres.LoadFromEXESingleType(bytes.NewReader(image), winres.Name(ResourceType))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotFound, exePath, err)
	}
	data := rs.Get(winres.Name(ResourceType), winres.ID(ResourceID), ResourceLang)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: resource %s/%d", ErrNotFound, ResourceType, ResourceID)
	}
	return data, nil
}
