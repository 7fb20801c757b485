// Package payload locates the installer package carried inside a
// bootstrapper executable, and embeds one at build time.
//
// A payload lives in one of two places. Windows stubs carry it as a PE
// resource (type "MSI", ID 1), which keeps the image valid for signing.
// Any other stub carries it as an envelope appended after the image and
// terminated by a fixed-size trailer.
package payload

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

var (
	ErrNotFound         = errors.New("installer package not found")
	ErrInvalidMagic     = errors.New("invalid envelope magic")
	ErrSizeMismatch     = errors.New("payload size mismatch")
	ErrChecksumMismatch = errors.New("payload checksum mismatch")
	ErrEmptyPackage     = errors.New("installer package is empty")
)

// Origin records where a payload was found.
type Origin string

const (
	OriginResource Origin = "resource"
	OriginEnvelope Origin = "envelope"
)

// Payload is an installer package read back out of an executable.
type Payload struct {
	Data        []byte
	Origin      Origin
	Codec       string
	EncodedSize int64
}

// Size returns the decoded payload length.
func (p *Payload) Size() int64 {
	return int64(len(p.Data))
}

// Checksum returns the prefixed sha256 of the decoded payload.
func (p *Payload) Checksum() string {
	return CalculateChecksum(p.Data, ChecksumSHA256)
}

// WriteFile writes the decoded payload to path.
func (p *Payload) WriteFile(path string) error {
	if err := os.WriteFile(path, p.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// Open reads the payload of the executable at exePath. The PE resource is
// preferred; the appended envelope is the fallback.
func Open(exePath string, logger hclog.Logger) (*Payload, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	data, err := ReadResource(exePath, logger)
	if err == nil {
		return &Payload{
			Data:        data,
			Origin:      OriginResource,
			Codec:       CodecNameNone,
			EncodedSize: int64(len(data)),
		}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	logger.Debug("No payload resource, looking for appended envelope", "exe", exePath)

	return ReadEnvelope(exePath, logger)
}

// Executable loads the payload embedded in an executable file.
type Executable struct {
	Path   string
	Logger hclog.Logger
}

// Load implements bootstrap.PayloadSource.
func (e *Executable) Load() ([]byte, error) {
	p, err := Open(e.Path, e.Logger)
	if err != nil {
		return nil, err
	}
	return p.Data, nil
}
