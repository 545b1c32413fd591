package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/nvale/gridfile/internal/container"
	"github.com/nvale/gridfile/internal/filter"
	"github.com/nvale/gridfile/internal/synth"
)

// argList parses key=value arguments, echoing each option with its effective
// value and help text as it goes, so every run doubles as its own usage dump.
// Any argument starting with "help" (case-insensitive) asks for the option
// table only.
type argList struct {
	args []string
	out  io.Writer
	help bool
}

func newArgList(args []string, out io.Writer) *argList {
	a := &argList{args: args, out: out}
	for _, s := range args {
		if len(s) >= 4 && strings.EqualFold(s[:4], "help") {
			a.help = true
		}
	}
	return a
}

func (a *argList) lookup(name string) (string, bool) {
	for _, s := range a.args {
		if strings.HasPrefix(s, name+"=") {
			return s[len(name)+1:], true
		}
	}
	return "", false
}

func (a *argList) echo(name, val, help string) {
	fmt.Fprintf(a.out, "    %-28s %s\n", name+"="+val, help)
}

func (a *argList) stringArg(name, def, help string) string {
	v := def
	if s, ok := a.lookup(name); ok {
		v = s
	}
	a.echo(name, fmt.Sprintf("%q", v), help)
	return v
}

func (a *argList) intArg(name string, def int, help string) int {
	v := def
	if s, ok := a.lookup(name); ok {
		n, err := strconv.Atoi(s)
		if err != nil {
			fail("parse "+name, err)
		}
		v = n
	}
	a.echo(name, strconv.Itoa(v), help)
	return v
}

func (a *argList) floatArg(name string, def float64, help string) float64 {
	v := def
	if s, ok := a.lookup(name); ok {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			fail("parse "+name, err)
		}
		v = f
	}
	a.echo(name, strconv.FormatFloat(v, 'g', -1, 64), help)
	return v
}

type writeOpts struct {
	ifile, ofile string
	npoints      int
	noise, amp   float64
	doint, highd bool
	chunk        int
	codec        string
	cfg          filter.Config
}

func parseWriteArgs(args []string, out io.Writer) (writeOpts, bool) {
	a := newArgList(args, out)
	var o writeOpts

	o.ifile = a.stringArg("ifile", "", "set input filename (bypasses generation)")
	o.ofile = a.stringArg("ofile", "test_gridfile.grdf", "set output filename")

	o.npoints = a.intArg("npoints", 1024, "set number of points for generated dataset")
	o.noise = a.floatArg("noise", 0.001, "set amount of random noise in generated dataset")
	o.amp = a.floatArg("amp", 17.7, "set amplitude of sinusoid in generated dataset")
	o.doint = a.intArg("doint", 0, "also write integer data") != 0
	o.highd = a.intArg("highd", 0, "also write high-dimensional (4D) datasets") != 0

	o.chunk = a.intArg("chunk", 256, "set chunk size for 1D datasets")
	o.codec = a.stringArg("codec", "zstd", "set codec for filtered datasets (raw,zstd,lz4,snappy,zlib)")
	mode := a.stringArg("mode", "accuracy", "set filter mode (none,rate,precision,accuracy,expert)")
	rate := a.floatArg("rate", 4, "set bits per value for rate mode")
	acc := a.floatArg("acc", 0, "set error tolerance for accuracy mode")
	prec := a.intArg("prec", 11, "set bit precision for precision mode")
	minbits := a.intArg("minbits", 0, "set minbits for expert mode")
	maxbits := a.intArg("maxbits", 4171, "set maxbits for expert mode")
	maxprec := a.intArg("maxprec", 64, "set maxprec for expert mode")
	minexp := a.intArg("minexp", -1074, "set minexp for expert mode")

	m, err := filter.ParseMode(mode)
	if err != nil {
		fail("parse mode", err)
	}
	o.cfg = filter.Config{
		Mode:      m,
		Rate:      rate,
		Precision: uint32(prec),
		Accuracy:  acc,
		MinBits:   uint32(minbits),
		MaxBits:   uint32(maxbits),
		MaxPrec:   uint32(maxprec),
		MinExp:    int32(minexp),
	}
	return o, a.help
}

func cmdWrite() {
	o, help := parseWriteArgs(os.Args[2:], os.Stdout)
	if help {
		return
	}

	// print the parameter block so a filtered file can be reproduced elsewhere
	cd := o.cfg.Values()
	fmt.Printf("%d cd_values= ", len(cd))
	for _, v := range cd {
		fmt.Printf("%d,", v)
	}
	fmt.Println()

	if err := runWrite(o); err != nil {
		fail("write", err)
	}
	fmt.Println("wrote", o.ofile)
}

func runWrite(o writeOpts) error {
	codec, err := filter.ByName(o.codec, o.cfg)
	if err != nil {
		return fmt.Errorf("select codec: %w", err)
	}
	plain, err := filter.ByID(filter.CodecRaw, filter.Config{})
	if err != nil {
		return err
	}

	var vals []float64
	if o.ifile == "" {
		vals = synth.Sinusoid[float64](o.npoints, o.noise, o.amp)
	} else {
		if vals, err = synth.ReadRaw(o.ifile, o.npoints); err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}
	fmt.Printf("data range [%g, %g]\n", floats.Min(vals), floats.Max(vals))

	w := container.NewWriter()
	raw := container.Float64Bytes(vals)
	dims, chunk := []int{o.npoints}, []int{o.chunk}
	if err := w.AddDataset("original", container.Float64, dims, chunk, plain, filter.Config{}, raw); err != nil {
		return fmt.Errorf("create dataset original: %w", err)
	}
	if err := w.AddDataset("compressed", container.Float64, dims, chunk, codec, o.cfg, raw); err != nil {
		return fmt.Errorf("create dataset compressed: %w", err)
	}

	if o.doint {
		ints := synth.Sinusoid[int32](o.npoints, o.noise*100, o.amp*1000000)
		iraw := container.Int32Bytes(ints)
		if err := w.AddDataset("int_original", container.Int32, dims, chunk, plain, filter.Config{}, iraw); err != nil {
			return fmt.Errorf("create dataset int_original: %w", err)
		}
		if err := w.AddDataset("int_compressed", container.Int32, dims, chunk, codec, o.cfg, iraw); err != nil {
			return fmt.Errorf("create dataset int_compressed: %w", err)
		}
	}

	if o.highd {
		hdims := []int{128, 128, 16, 32}
		hchunk := []int{1, 128, 1, 32}
		hd, err := synth.Correlated[float64](hdims, []int{1, 3}, synth.SeparableProduct)
		if err != nil {
			return fmt.Errorf("generate correlated array: %w", err)
		}
		hraw := container.Float64Bytes(hd)
		if err := w.AddDataset("highD_original", container.Float64, hdims, hchunk, plain, filter.Config{}, hraw); err != nil {
			return fmt.Errorf("create dataset highD_original: %w", err)
		}
		if err := w.AddDataset("highD_compressed", container.Float64, hdims, hchunk, codec, o.cfg, hraw); err != nil {
			return fmt.Errorf("create dataset highD_compressed: %w", err)
		}
	}

	if err := w.WriteFile(o.ofile); err != nil {
		return fmt.Errorf("write %s: %w", o.ofile, err)
	}
	return nil
}
