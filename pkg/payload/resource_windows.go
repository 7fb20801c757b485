//go:build windows

package payload

import (
	"fmt"
	"unsafe"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/windows"
)

// ReadResource reads the installer package from the PE resources of the
// executable at exePath.
func ReadResource(exePath string, logger hclog.Logger) ([]byte, error) {
	logger.Debug("Reading payload from PE resources", "exe", exePath)

	// Load as a data file: resources only, no code execution. A file that
	// is not a PE image has no resources, so the envelope may still apply.
	handle, err := windows.LoadLibraryEx(exePath, 0, windows.LOAD_LIBRARY_AS_DATAFILE)
	if err != nil {
		return nil, fmt.Errorf("%w: load %s as data file: %v", ErrNotFound, exePath, err)
	}
	defer windows.FreeLibrary(handle)

	resInfo, err := windows.FindResource(handle, windows.ResourceID(ResourceID), ResourceType)
	if err != nil {
		return nil, fmt.Errorf("%w: resource %s/%d: %v", ErrNotFound, ResourceType, ResourceID, err)
	}

	resData, err := windows.LoadResource(handle, resInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to load resource data: %w", err)
	}

	size, err := windows.SizeofResource(handle, resInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to get resource size: %w", err)
	}
	if size == 0 {
		return nil, fmt.Errorf("%w: resource %s/%d has zero size", ErrNotFound, ResourceType, ResourceID)
	}

	ptr, err := windows.LockResource(resData)
	if err != nil {
		return nil, fmt.Errorf("failed to lock resource: %w", err)
	}
	if ptr == 0 {
		return nil, fmt.Errorf("lock resource returned null pointer")
	}

	// Resource memory is read-only and goes away with FreeLibrary.
	data := make([]byte, size)
	copy(data, unsafe.Slice((*byte)(unsafe.Pointer(ptr)), size))

	logger.Debug("Read payload from PE resources", "exe", exePath, "size", size)
	return data, nil
}
