package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	switch os.Args[1] {
	case "write":
		cmdWrite()
	case "inspect":
		cmdInspect()
	case "verify":
		cmdVerify()
	case "help", "-h", "--help":
		usage()
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("gridfile - compression filter exercise harness")
	fmt.Println("usage: gridfile <command> [args]")
	fmt.Println("  write  [key=value ...] generate datasets, write them plain and filtered (`write help` lists options)")
	fmt.Println("  inspect <file.grdf>    show datasets, chunking and filter configuration")
	fmt.Println("  verify  <file.grdf>    check chunk checksums and compare dataset pairs")
}

// fail reports the failing operation with its source location and exits.
func fail(op string, err error) {
	_, file, line, _ := runtime.Caller(1)
	fmt.Fprintf(os.Stderr, "%s failed at %s:%d: %v\n", op, filepath.Base(file), line, err)
	os.Exit(1)
}
