package container

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	xxh3 "github.com/zeebo/xxh3"

	"github.com/nvale/gridfile/internal/filter"
)

// Writer accumulates datasets and writes them out as one container file.
type Writer struct {
	datasets []DatasetMeta
	banks    [][]byte
}

func NewWriter() *Writer { return &Writer{} }

// AddDataset chunks raw (the flattened row-major element bytes), runs every
// chunk through codec, and queues the dataset for WriteFile. cfg is the filter
// configuration recorded with the dataset; its parameter block travels in the
// metadata so readers reconstruct the codec the same way.
func (w *Writer) AddDataset(name string, kind Kind, dims, chunkDims []int, codec filter.Codec, cfg filter.Config, raw []byte) error {
	ds := DatasetMeta{
		Name:      name,
		Kind:      kind,
		Dims:      dims,
		ChunkDims: chunkDims,
		CodecID:   codec.ID(),
		Codec:     codec.Name(),
		Filter:    cfg.Values(),
		Section:   TypeData + uint32(len(w.datasets)),
	}
	if err := ds.validate(); err != nil {
		return err
	}
	for _, prev := range w.datasets {
		if prev.Name == name {
			return fmt.Errorf("dataset %s already added", name)
		}
	}
	if want := ds.Elems() * kind.Size(); len(raw) != want {
		return fmt.Errorf("dataset %s: payload is %d bytes, dims want %d", name, len(raw), want)
	}

	var bank []byte
	for _, chunk := range splitChunks(raw, dims, chunkDims, kind.Size()) {
		enc, err := codec.Encode(chunk)
		if err != nil {
			return fmt.Errorf("dataset %s: encode chunk %d: %w", name, len(ds.Chunks), err)
		}
		ds.Chunks = append(ds.Chunks, ChunkMeta{
			Stored: len(enc),
			Hash:   fmt.Sprintf("%016x", xxh3.Hash(chunk)),
		})
		bank = append(bank, enc...)
	}

	w.datasets = append(w.datasets, ds)
	w.banks = append(w.banks, bank)
	return nil
}

func alignUp(x, a int64) int64 {
	r := x % a
	if r == 0 {
		return x
	}
	return x + (a - r)
}

// WriteFile writes the container to path, truncating any existing file.
func (w *Writer) WriteFile(path string) error {
	meta := Meta{Tool: "gridfile", Version: formatVersion, Datasets: w.datasets}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	payloads := append([][]byte{metaJSON}, w.banks...)
	types := make([]uint32, len(payloads))
	types[0] = TypeMeta
	for i, ds := range w.datasets {
		types[i+1] = ds.Section
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(magic[:]); err != nil {
		return err
	}
	hdr := header{Ver: formatVersion, Num: uint32(len(payloads))}
	if err := binary.Write(f, binary.LittleEndian, &hdr); err != nil {
		return err
	}

	// fixed-size TOC records, sections aligned to 4096 after header+toc
	recs := make([]tocEntry, len(payloads))
	base := int64(8 + 12 + 24*len(payloads))
	offset := alignUp(base, 4096)
	for i, p := range payloads {
		recs[i] = tocEntry{TypeID: types[i], Offset: uint64(offset), Size: uint64(len(p))}
		offset = alignUp(offset+int64(len(p)), 4096)
	}
	for _, r := range recs {
		if err := binary.Write(f, binary.LittleEndian, &r); err != nil {
			return err
		}
	}

	cur, _ := f.Seek(0, io.SeekCurrent)
	if first := int64(recs[0].Offset); cur < first {
		if _, err := f.Write(make([]byte, first-cur)); err != nil {
			return err
		}
	}
	for i, p := range payloads {
		if _, err := f.Seek(int64(recs[i].Offset), io.SeekStart); err != nil {
			return err
		}
		if _, err := f.Write(p); err != nil {
			return err
		}
	}
	return nil
}
