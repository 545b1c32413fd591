// Package filter provides the compression side of the container's dataset
// pipeline: byte codecs the chunk writer and reader dispatch through, and the
// mode configuration block that travels with a filtered dataset.
package filter

import "fmt"

// Codec IDs as stored in the container metadata.
const (
	CodecRaw    uint8 = 0
	CodecZstd   uint8 = 1
	CodecLZ4    uint8 = 2
	CodecSnappy uint8 = 3
	CodecZlib   uint8 = 4
)

// Codec compresses and decompresses one chunk at a time.
type Codec interface {
	ID() uint8
	Name() string
	Encode(src []byte) ([]byte, error)
	Decode(src []byte) ([]byte, error)
}

// ByID returns the codec registered under id, configured with cfg.
func ByID(id uint8, cfg Config) (Codec, error) {
	switch id {
	case CodecRaw:
		return rawCodec{}, nil
	case CodecZstd:
		return newZstd(cfg), nil
	case CodecLZ4:
		return lz4Codec{}, nil
	case CodecSnappy:
		return snappyCodec{}, nil
	case CodecZlib:
		return newZlib(cfg), nil
	default:
		return nil, fmt.Errorf("unknown codec id %d", id)
	}
}

// ByName returns the codec with the given name, configured with cfg.
func ByName(name string, cfg Config) (Codec, error) {
	for _, id := range []uint8{CodecRaw, CodecZstd, CodecLZ4, CodecSnappy, CodecZlib} {
		c, _ := ByID(id, cfg)
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

// rawCodec stores chunks unmodified.
type rawCodec struct{}

func (rawCodec) ID() uint8                         { return CodecRaw }
func (rawCodec) Name() string                      { return "raw" }
func (rawCodec) Encode(src []byte) ([]byte, error) { return src, nil }
func (rawCodec) Decode(src []byte) ([]byte, error) { return src, nil }
