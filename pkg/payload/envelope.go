package payload

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Trailer layout, little endian:
//
//	📦 (4) | codec (1) | reserved (3) | encoded size (8) | raw size (8) | sha256 (32) | 🪄 (4)
const TrailerSize = 60

var (
	trailerStart = []byte{0xF0, 0x9F, 0x93, 0xA6} // 📦
	trailerEnd   = []byte{0xF0, 0x9F, 0xAA, 0x84} // 🪄
)

// Trailer describes an appended payload envelope.
type Trailer struct {
	Codec       uint8
	EncodedSize uint64
	RawSize     uint64
	Checksum    [sha256.Size]byte
}

func (t *Trailer) bytes() []byte {
	b := make([]byte, TrailerSize)
	copy(b[0:4], trailerStart)
	b[4] = t.Codec
	binary.LittleEndian.PutUint64(b[8:16], t.EncodedSize)
	binary.LittleEndian.PutUint64(b[16:24], t.RawSize)
	copy(b[24:56], t.Checksum[:])
	copy(b[56:60], trailerEnd)
	return b
}

func parseTrailer(b []byte) (*Trailer, error) {
	if len(b) != TrailerSize || !bytes.Equal(b[56:60], trailerEnd) {
		return nil, ErrNotFound
	}
	if !bytes.Equal(b[0:4], trailerStart) {
		return nil, fmt.Errorf("%w: trailer start %x", ErrInvalidMagic, b[0:4])
	}
	t := &Trailer{
		Codec:       b[4],
		EncodedSize: binary.LittleEndian.Uint64(b[8:16]),
		RawSize:     binary.LittleEndian.Uint64(b[16:24]),
	}
	copy(t.Checksum[:], b[24:56])
	return t, nil
}

// AppendEnvelope encodes data with codec and writes it followed by its
// trailer. It returns the number of bytes written.
func AppendEnvelope(w io.Writer, data []byte, codec Codec) (int64, error) {
	encoded, err := codec.Encode(data)
	if err != nil {
		return 0, fmt.Errorf("failed to encode payload with %s: %w", codec.Name(), err)
	}

	t := Trailer{
		Codec:       codec.ID(),
		EncodedSize: uint64(len(encoded)),
		RawSize:     uint64(len(data)),
		Checksum:    sha256.Sum256(data),
	}

	n, err := w.Write(encoded)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write payload: %w", err)
	}
	m, err := w.Write(t.bytes())
	if err != nil {
		return int64(n + m), fmt.Errorf("failed to write trailer: %w", err)
	}
	return int64(n + m), nil
}

// ReadEnvelope reads the envelope appended to the file at path.
func ReadEnvelope(path string, logger hclog.Logger) (*Payload, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	fileSize := info.Size()
	if fileSize < TrailerSize {
		return nil, fmt.Errorf("%w: %s is smaller than a trailer", ErrNotFound, path)
	}

	raw := make([]byte, TrailerSize)
	if _, err := f.ReadAt(raw, fileSize-TrailerSize); err != nil {
		return nil, fmt.Errorf("failed to read trailer: %w", err)
	}
	t, err := parseTrailer(raw)
	if err != nil {
		return nil, err
	}
	logger.Trace("Envelope trailer", "codec", t.Codec, "encoded_size", t.EncodedSize, "raw_size", t.RawSize)

	if t.EncodedSize > uint64(fileSize-TrailerSize) {
		return nil, fmt.Errorf("%w: trailer claims %d bytes, file holds %d",
			ErrSizeMismatch, t.EncodedSize, fileSize-TrailerSize)
	}

	codec, err := CodecByID(t.Codec)
	if err != nil {
		return nil, err
	}

	encoded := make([]byte, t.EncodedSize)
	offset := fileSize - TrailerSize - int64(t.EncodedSize)
	if _, err := f.ReadAt(encoded, offset); err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	data, err := codec.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode payload with %s: %w", codec.Name(), err)
	}
	if uint64(len(data)) != t.RawSize {
		return nil, fmt.Errorf("%w: decoded %d bytes, expected %d", ErrSizeMismatch, len(data), t.RawSize)
	}
	if sum := sha256.Sum256(data); sum != t.Checksum {
		return nil, ErrChecksumMismatch
	}

	logger.Debug("Read payload envelope", "path", path, "size", len(data), "codec", codec.Name())
	return &Payload{
		Data:        data,
		Origin:      OriginEnvelope,
		Codec:       codec.Name(),
		EncodedSize: int64(t.EncodedSize),
	}, nil
}
