package container

// Chunking follows the usual scientific-container scheme: the array is covered
// by a grid of equally sized chunks, edge chunks are zero-padded to full size
// before encoding, and chunks are ordered with axis 0 varying fastest, the
// same convention as element storage.

// chunkGrid returns the per-axis chunk counts and the total chunk count.
func chunkGrid(dims, chunkDims []int) ([]int, int) {
	grid := make([]int, len(dims))
	total := 1
	for i := range dims {
		grid[i] = (dims[i] + chunkDims[i] - 1) / chunkDims[i]
		total *= grid[i]
	}
	return grid, total
}

// increment advances coord as an odometer over limit, axis 0 fastest.
// It reports false after the last coordinate wraps around.
func increment(coord, limit []int) bool {
	for i := range coord {
		coord[i]++
		if coord[i] < limit[i] {
			return true
		}
		coord[i] = 0
	}
	return false
}

// splitChunks cuts the flattened row-major buffer into full-size chunks.
func splitChunks(raw []byte, dims, chunkDims []int, elemSize int) [][]byte {
	grid, total := chunkGrid(dims, chunkDims)
	chunkElems := 1
	for _, c := range chunkDims {
		chunkElems *= c
	}

	strides := make([]int, len(dims))
	n := 1
	for i, d := range dims {
		strides[i] = n
		n *= d
	}

	chunks := make([][]byte, 0, total)
	cc := make([]int, len(dims)) // chunk coordinate
	ec := make([]int, len(dims)) // element coordinate within chunk
	for ci := 0; ci < total; ci++ {
		chunk := make([]byte, chunkElems*elemSize)
		for i := range ec {
			ec[i] = 0
		}
		for ei := 0; ; ei++ {
			src, ok := 0, true
			for i := range dims {
				g := cc[i]*chunkDims[i] + ec[i]
				if g >= dims[i] {
					ok = false
					break
				}
				src += g * strides[i]
			}
			if ok {
				copy(chunk[ei*elemSize:(ei+1)*elemSize], raw[src*elemSize:])
			}
			if !increment(ec, chunkDims) {
				break
			}
		}
		chunks = append(chunks, chunk)
		increment(cc, grid)
	}
	return chunks
}

// joinChunks reassembles the flattened buffer from decoded full-size chunks,
// discarding edge padding.
func joinChunks(chunks [][]byte, dims, chunkDims []int, elemSize int) []byte {
	grid, _ := chunkGrid(dims, chunkDims)

	strides := make([]int, len(dims))
	n := 1
	for i, d := range dims {
		strides[i] = n
		n *= d
	}

	raw := make([]byte, n*elemSize)
	cc := make([]int, len(dims))
	ec := make([]int, len(dims))
	for _, chunk := range chunks {
		for i := range ec {
			ec[i] = 0
		}
		for ei := 0; ; ei++ {
			dst, ok := 0, true
			for i := range dims {
				g := cc[i]*chunkDims[i] + ec[i]
				if g >= dims[i] {
					ok = false
					break
				}
				dst += g * strides[i]
			}
			if ok {
				copy(raw[dst*elemSize:(dst+1)*elemSize], chunk[ei*elemSize:])
			}
			if !increment(ec, chunkDims) {
				break
			}
		}
		increment(cc, grid)
	}
	return raw
}
