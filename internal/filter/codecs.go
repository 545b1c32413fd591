package filter

import (
	"bytes"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	lz4 "github.com/pierrec/lz4/v4"
)

type zstdCodec struct {
	level zstd.EncoderLevel
}

// newZstd picks the encoder level from the filter configuration: a rate-mode
// budget of 8 bits per value or less asks for the strongest compression,
// everything else takes the default speed/ratio trade-off.
func newZstd(cfg Config) zstdCodec {
	level := zstd.SpeedDefault
	if cfg.Mode == ModeRate && cfg.Rate > 0 && cfg.Rate <= 8 {
		level = zstd.SpeedBestCompression
	}
	return zstdCodec{level: level}
}

func (zstdCodec) ID() uint8    { return CodecZstd }
func (zstdCodec) Name() string { return "zstd" }

func (c zstdCodec) Encode(src []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(c.level))
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(src, make([]byte, 0, len(src))), nil
}

func (zstdCodec) Decode(src []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(src, nil)
}

type lz4Codec struct{}

func (lz4Codec) ID() uint8    { return CodecLZ4 }
func (lz4Codec) Name() string { return "lz4" }

func (lz4Codec) Encode(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lz4Codec) Decode(src []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(src))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type snappyCodec struct{}

func (snappyCodec) ID() uint8    { return CodecSnappy }
func (snappyCodec) Name() string { return "snappy" }

func (snappyCodec) Encode(src []byte) ([]byte, error) {
	return snappy.Encode(nil, src), nil
}

func (snappyCodec) Decode(src []byte) ([]byte, error) {
	return snappy.Decode(nil, src)
}

type zlibCodec struct {
	level int
}

// newZlib maps a precision-mode bit count onto the zlib level range; other
// modes use the default level.
func newZlib(cfg Config) zlibCodec {
	level := zlib.DefaultCompression
	if cfg.Mode == ModePrecision && cfg.Precision > 0 {
		level = int(cfg.Precision) * zlib.BestCompression / 64
		if level < zlib.BestSpeed {
			level = zlib.BestSpeed
		}
		if level > zlib.BestCompression {
			level = zlib.BestCompression
		}
	}
	return zlibCodec{level: level}
}

func (zlibCodec) ID() uint8    { return CodecZlib }
func (zlibCodec) Name() string { return "zlib" }

func (c zlibCodec) Encode(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(src); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (zlibCodec) Decode(src []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
