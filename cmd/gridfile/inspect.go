package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nvale/gridfile/internal/container"
	"github.com/nvale/gridfile/internal/filter"
)

func cmdInspect() {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.Parse(os.Args[2:])
	if fs.NArg() < 1 {
		fmt.Println("usage: gridfile inspect <file.grdf>")
		os.Exit(1)
	}
	path := fs.Arg(0)
	r, err := container.Open(path)
	if err != nil {
		fail("open "+path, err)
	}
	defer r.Close()

	fmt.Printf("%s: format v%d, %d datasets\n", path, r.Meta.Version, len(r.Meta.Datasets))
	for _, ds := range r.Meta.Datasets {
		cfg, err := filter.ParseValues(ds.Filter)
		if err != nil {
			fail("parse filter values", err)
		}
		logical := ds.Elems() * ds.Kind.Size()
		stored := ds.StoredBytes()
		fmt.Printf("  %-18s %-8s dims=%v chunk=%v codec=%s filter=%s\n",
			ds.Name, ds.Kind, ds.Dims, ds.ChunkDims, ds.Codec, cfg)
		fmt.Printf("    %d chunks, %d stored / %d logical bytes (%.2fx)\n",
			len(ds.Chunks), stored, logical, float64(logical)/float64(stored))
		if len(ds.Filter) > 0 {
			fmt.Printf("    cd_values=%v\n", ds.Filter)
		}
	}
}
