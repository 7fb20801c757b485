package payload

import (
	"fmt"
	"sort"
)

// Codec IDs stored in the envelope trailer.
const (
	CodecNone  = 0x00
	CodecGzip  = 0x10
	CodecBzip2 = 0x13
)

const CodecNameNone = "none"

// Codec transforms the payload bytes stored in an envelope.
type Codec interface {
	ID() uint8
	Name() string
	Encode(input []byte) ([]byte, error)
	Decode(input []byte) ([]byte, error)
}

var registry = make(map[uint8]Codec)

// Register makes a codec available by ID and name.
func Register(c Codec) {
	registry[c.ID()] = c
}

// CodecByID looks up a registered codec.
func CodecByID(id uint8) (Codec, error) {
	c, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown codec: 0x%02x", id)
	}
	return c, nil
}

// CodecByName looks up a registered codec; the empty name means none.
func CodecByName(name string) (Codec, error) {
	if name == "" {
		name = CodecNameNone
	}
	for _, c := range registry {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown codec %q (available: %v)", name, CodecNames())
}

// CodecNames lists registered codec names in ID order.
func CodecNames() []string {
	ids := make([]int, 0, len(registry))
	for id := range registry {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = registry[uint8(id)].Name()
	}
	return names
}

type noneCodec struct{}

func init() {
	Register(noneCodec{})
}

func (noneCodec) ID() uint8                           { return CodecNone }
func (noneCodec) Name() string                        { return CodecNameNone }
func (noneCodec) Encode(input []byte) ([]byte, error) { return input, nil }
func (noneCodec) Decode(input []byte) ([]byte, error) { return input, nil }
