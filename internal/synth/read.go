package synth

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// ReadRaw reads npoints little-endian float64 values from a flat binary file.
// It is the bypass path for callers that already have data to write.
func ReadRaw(path string, npoints int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	raw := make([]byte, npoints*8)
	if _, err := io.ReadFull(f, raw); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	out := make([]float64, npoints)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
	}
	return out, nil
}
