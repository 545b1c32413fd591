package container

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nvale/gridfile/internal/filter"
)

// Reader reads a container file written by Writer.
type Reader struct {
	f    *os.File
	toc  []tocEntry
	Meta Meta
}

func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	head := make([]byte, 8)
	if _, err := io.ReadFull(f, head); err != nil {
		f.Close()
		return nil, err
	}
	if !bytes.Equal(head, magic[:]) {
		f.Close()
		return nil, errors.New("not a GRDF file")
	}
	var hdr header
	if err := binary.Read(f, binary.LittleEndian, &hdr); err != nil {
		f.Close()
		return nil, err
	}
	if hdr.Ver != formatVersion {
		f.Close()
		return nil, fmt.Errorf("unsupported format version %d", hdr.Ver)
	}
	toc := make([]tocEntry, hdr.Num)
	for i := range toc {
		if err := binary.Read(f, binary.LittleEndian, &toc[i]); err != nil {
			f.Close()
			return nil, err
		}
	}

	r := &Reader{f: f, toc: toc}
	metaJSON, err := r.section(TypeMeta)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := json.Unmarshal(metaJSON, &r.Meta); err != nil {
		f.Close()
		return nil, fmt.Errorf("metadata: %w", err)
	}
	return r, nil
}

func (r *Reader) Close() error { return r.f.Close() }

func (r *Reader) section(typeID uint32) ([]byte, error) {
	for _, e := range r.toc {
		if e.TypeID == typeID {
			buf := make([]byte, e.Size)
			if _, err := r.f.ReadAt(buf, int64(e.Offset)); err != nil {
				return nil, err
			}
			return buf, nil
		}
	}
	return nil, fmt.Errorf("section %d not found", typeID)
}

// Dataset returns the metadata for one dataset.
func (r *Reader) Dataset(name string) (*DatasetMeta, error) {
	for i := range r.Meta.Datasets {
		if r.Meta.Datasets[i].Name == name {
			return &r.Meta.Datasets[i], nil
		}
	}
	return nil, fmt.Errorf("dataset %s not found", name)
}

// DatasetChunks returns the decoded full-size chunks of a dataset, in storage
// order, with edge padding still in place.
func (r *Reader) DatasetChunks(name string) (*DatasetMeta, [][]byte, error) {
	ds, err := r.Dataset(name)
	if err != nil {
		return nil, nil, err
	}
	if err := ds.validate(); err != nil {
		return nil, nil, err
	}
	cfg, err := filter.ParseValues(ds.Filter)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	codec, err := filter.ByID(ds.CodecID, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	bank, err := r.section(ds.Section)
	if err != nil {
		return nil, nil, fmt.Errorf("dataset %s: %w", name, err)
	}
	if len(bank) != ds.StoredBytes() {
		return nil, nil, fmt.Errorf("dataset %s: bank is %d bytes, chunks record %d", name, len(bank), ds.StoredBytes())
	}

	chunkBytes := ds.Kind.Size()
	for _, c := range ds.ChunkDims {
		chunkBytes *= c
	}

	chunks := make([][]byte, 0, len(ds.Chunks))
	off := 0
	for i, cm := range ds.Chunks {
		if cm.Stored < 0 || off+cm.Stored > len(bank) {
			return nil, nil, fmt.Errorf("dataset %s: chunk %d stored size %d out of range", name, i, cm.Stored)
		}
		dec, err := codec.Decode(bank[off : off+cm.Stored : off+cm.Stored])
		if err != nil {
			return nil, nil, fmt.Errorf("dataset %s: decode chunk %d: %w", name, i, err)
		}
		// a short or oversized chunk would otherwise alias neighboring bank
		// bytes or run joinChunks out of range
		if len(dec) != chunkBytes {
			return nil, nil, fmt.Errorf("dataset %s: chunk %d decoded to %d bytes, want %d", name, i, len(dec), chunkBytes)
		}
		chunks = append(chunks, dec)
		off += cm.Stored
	}
	return ds, chunks, nil
}

// ReadDataset returns the flattened row-major element bytes of a dataset.
func (r *Reader) ReadDataset(name string) ([]byte, error) {
	ds, chunks, err := r.DatasetChunks(name)
	if err != nil {
		return nil, err
	}
	return joinChunks(chunks, ds.Dims, ds.ChunkDims, ds.Kind.Size()), nil
}

// ReadFloat64s reads a float64 dataset.
func (r *Reader) ReadFloat64s(name string) ([]float64, error) {
	ds, err := r.Dataset(name)
	if err != nil {
		return nil, err
	}
	if ds.Kind != Float64 {
		return nil, fmt.Errorf("dataset %s is %s, not %s", name, ds.Kind, Float64)
	}
	raw, err := r.ReadDataset(name)
	if err != nil {
		return nil, err
	}
	return BytesToFloat64(raw)
}

// ReadInt32s reads an int32 dataset.
func (r *Reader) ReadInt32s(name string) ([]int32, error) {
	ds, err := r.Dataset(name)
	if err != nil {
		return nil, err
	}
	if ds.Kind != Int32 {
		return nil, fmt.Errorf("dataset %s is %s, not %s", name, ds.Kind, Int32)
	}
	raw, err := r.ReadDataset(name)
	if err != nil {
		return nil, err
	}
	return BytesToInt32(raw)
}
