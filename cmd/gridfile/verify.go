package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	xxh3 "github.com/zeebo/xxh3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/nvale/gridfile/internal/container"
)

func cmdVerify() {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Println("usage: gridfile verify <file.grdf>")
		os.Exit(1)
	}
	r, err := container.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: open error: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	if !verifyContainer(r, os.Stdout) {
		fmt.Fprintln(os.Stderr, "checksum verify: FAILED")
		os.Exit(3)
	}
	fmt.Println("checksum verify: OK")
}

// verifyContainer recomputes every chunk checksum over the decoded bytes and
// reports error statistics for each plain/filtered dataset pair.
func verifyContainer(r *container.Reader, out io.Writer) bool {
	ok := true
	for _, ds := range r.Meta.Datasets {
		meta, chunks, err := r.DatasetChunks(ds.Name)
		if err != nil {
			fmt.Fprintf(out, "read %s error: %v\n", ds.Name, err)
			ok = false
			continue
		}
		for i, c := range chunks {
			if have := fmt.Sprintf("%016x", xxh3.Hash(c)); have != meta.Chunks[i].Hash {
				fmt.Fprintf(out, "%s: chunk %d checksum mismatch\n", ds.Name, i)
				ok = false
			}
		}
	}

	for _, ds := range r.Meta.Datasets {
		if ds.Kind != container.Float64 || !strings.Contains(ds.Name, "compressed") {
			continue
		}
		ref := strings.Replace(ds.Name, "compressed", "original", 1)
		a, err := r.ReadFloat64s(ref)
		if err != nil {
			continue
		}
		b, err := r.ReadFloat64s(ds.Name)
		if err != nil || len(a) != len(b) {
			fmt.Fprintf(out, "%s vs %s: not comparable\n", ds.Name, ref)
			ok = false
			continue
		}
		diff := make([]float64, len(a))
		floats.SubTo(diff, b, a)
		maxAbs := floats.Norm(diff, math.Inf(1))
		rms := math.Sqrt(floats.Dot(diff, diff) / float64(len(diff)))
		fmt.Fprintf(out, "%s vs %s: max|err|=%g rms=%g mean=%g\n",
			ds.Name, ref, maxAbs, rms, stat.Mean(diff, nil))
	}
	return ok
}
