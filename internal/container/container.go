// Package container implements the GRDF dataset container: a sectioned binary
// file holding named N-dimensional numeric arrays, stored as a row-major grid
// of fixed-size chunks with an optional compression codec applied per chunk.
//
// Layout: 8-byte magic, a fixed header (version, section count), fixed-size
// TOC records, then 4096-aligned payload sections. Section 1 is JSON metadata
// describing every dataset (kind, dims, chunking, codec, filter parameter
// block, per-chunk stored sizes and xxh3-64 checksums of the pre-filter
// bytes); each dataset occupies one further section holding its chunk bank.
package container

import "fmt"

var magic = [8]byte{'G', 'R', 'D', 'F', 0, 0, 0, 0}

const formatVersion = 1

// Section type IDs. Dataset sections are numbered upward from TypeData.
const (
	TypeMeta uint32 = 1
	TypeData uint32 = 16
)

type header struct {
	Ver, Num, Res uint32
}

type tocEntry struct {
	TypeID uint32
	Offset uint64
	Size   uint64
	Flags  uint32
}

// Kind identifies a dataset's element type.
type Kind string

const (
	Float64 Kind = "float64"
	Int32   Kind = "int32"
)

// Size returns the element size in bytes, or 0 for an unknown kind.
func (k Kind) Size() int {
	switch k {
	case Float64:
		return 8
	case Int32:
		return 4
	default:
		return 0
	}
}

// Meta is the decoded metadata section.
type Meta struct {
	Tool     string        `json:"tool"`
	Version  int           `json:"version"`
	Datasets []DatasetMeta `json:"datasets"`
}

// DatasetMeta describes one stored dataset.
type DatasetMeta struct {
	Name      string      `json:"name"`
	Kind      Kind        `json:"kind"`
	Dims      []int       `json:"dims"`
	ChunkDims []int       `json:"chunk_dims"`
	CodecID   uint8       `json:"codec_id"`
	Codec     string      `json:"codec"`
	Filter    []uint32    `json:"filter_values,omitempty"`
	Section   uint32      `json:"section"`
	Chunks    []ChunkMeta `json:"chunks"`
}

// ChunkMeta records one stored chunk: its encoded size in the bank and the
// xxh3-64 checksum of its decoded (pre-filter) bytes, hex encoded.
type ChunkMeta struct {
	Stored int    `json:"stored_size"`
	Hash   string `json:"hash_hex"`
}

// Elems returns the logical element count.
func (d *DatasetMeta) Elems() int {
	n := 1
	for _, v := range d.Dims {
		n *= v
	}
	return n
}

// StoredBytes returns the total encoded size of the chunk bank.
func (d *DatasetMeta) StoredBytes() int {
	n := 0
	for _, c := range d.Chunks {
		n += c.Stored
	}
	return n
}

func (d *DatasetMeta) validate() error {
	if d.Name == "" {
		return fmt.Errorf("dataset name is empty")
	}
	if d.Kind.Size() == 0 {
		return fmt.Errorf("dataset %s: unknown kind %q", d.Name, d.Kind)
	}
	if len(d.Dims) == 0 {
		return fmt.Errorf("dataset %s: no dimensions", d.Name)
	}
	if len(d.ChunkDims) != len(d.Dims) {
		return fmt.Errorf("dataset %s: %d chunk dims for %d dims", d.Name, len(d.ChunkDims), len(d.Dims))
	}
	for i := range d.Dims {
		if d.Dims[i] < 1 {
			return fmt.Errorf("dataset %s: dim %d is %d", d.Name, i, d.Dims[i])
		}
		if d.ChunkDims[i] < 1 {
			return fmt.Errorf("dataset %s: chunk dim %d is %d", d.Name, i, d.ChunkDims[i])
		}
	}
	return nil
}
