package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/nvale/gridfile/internal/container"
	"github.com/nvale/gridfile/internal/filter"
)

func TestParseWriteArgsDefaults(t *testing.T) {
	o, help := parseWriteArgs(nil, io.Discard)
	if help {
		t.Fatal("help flagged with no args")
	}
	if o.ofile != "test_gridfile.grdf" || o.npoints != 1024 || o.noise != 0.001 || o.amp != 17.7 {
		t.Fatalf("unexpected defaults: %+v", o)
	}
	if o.doint || o.highd || o.chunk != 256 || o.codec != "zstd" {
		t.Fatalf("unexpected defaults: %+v", o)
	}
	if o.cfg.Mode != filter.ModeAccuracy || o.cfg.Accuracy != 0 {
		t.Fatalf("unexpected filter defaults: %+v", o.cfg)
	}
	if o.cfg.MaxBits != 4171 || o.cfg.MaxPrec != 64 || o.cfg.MinExp != -1074 {
		t.Fatalf("unexpected expert defaults: %+v", o.cfg)
	}
}

func TestParseWriteArgsOverrides(t *testing.T) {
	var buf bytes.Buffer
	o, help := parseWriteArgs([]string{
		"ofile=x.grdf", "npoints=64", "doint=1", "highd=1",
		"codec=lz4", "mode=expert", "minbits=2", "maxexp=ignored",
	}, &buf)
	if help {
		t.Fatal("help flagged")
	}
	if o.ofile != "x.grdf" || o.npoints != 64 || !o.doint || !o.highd || o.codec != "lz4" {
		t.Fatalf("overrides not applied: %+v", o)
	}
	if o.cfg.Mode != filter.ModeExpert || o.cfg.MinBits != 2 {
		t.Fatalf("filter overrides not applied: %+v", o.cfg)
	}
	// every option is echoed with its help text
	if !bytes.Contains(buf.Bytes(), []byte("npoints=64")) {
		t.Fatalf("option echo missing: %s", buf.String())
	}
}

func TestParseWriteArgsHelp(t *testing.T) {
	for _, arg := range []string{"help", "HELP", "Help=1"} {
		if _, help := parseWriteArgs([]string{arg}, io.Discard); !help {
			t.Fatalf("%q not recognized as help", arg)
		}
	}
	if _, help := parseWriteArgs([]string{"ofile=help.grdf"}, io.Discard); help {
		t.Fatal("value containing help misread as help request")
	}
}

func TestWriteThenReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.grdf")
	o, _ := parseWriteArgs([]string{
		"ofile=" + path, "npoints=512", "chunk=100", "doint=1",
		"codec=lz4", "mode=rate", "rate=6.5",
	}, io.Discard)
	if err := runWrite(o); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := container.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()
	if len(r.Meta.Datasets) != 4 {
		t.Fatalf("dataset count want 4 got %d", len(r.Meta.Datasets))
	}

	orig, err := r.ReadFloat64s("original")
	if err != nil {
		t.Fatalf("read original: %v", err)
	}
	comp, err := r.ReadFloat64s("compressed")
	if err != nil {
		t.Fatalf("read compressed: %v", err)
	}
	if len(orig) != 512 {
		t.Fatalf("length want 512 got %d", len(orig))
	}
	for i := range orig {
		if orig[i] != comp[i] {
			t.Fatalf("filtered copy differs at %d", i)
		}
	}

	iorig, err := r.ReadInt32s("int_original")
	if err != nil {
		t.Fatalf("read int_original: %v", err)
	}
	icomp, err := r.ReadInt32s("int_compressed")
	if err != nil {
		t.Fatalf("read int_compressed: %v", err)
	}
	for i := range iorig {
		if iorig[i] != icomp[i] {
			t.Fatalf("int filtered copy differs at %d", i)
		}
	}

	ds, err := r.Dataset("compressed")
	if err != nil {
		t.Fatalf("dataset: %v", err)
	}
	cfg, err := filter.ParseValues(ds.Filter)
	if err != nil {
		t.Fatalf("parse values: %v", err)
	}
	if cfg.Mode != filter.ModeRate || cfg.Rate != 6.5 {
		t.Fatalf("filter config lost: %+v", cfg)
	}

	if !verifyContainer(r, io.Discard) {
		t.Fatal("verify failed on a fresh file")
	}
}

func TestWriteIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	read := func(name string) []float64 {
		o, _ := parseWriteArgs([]string{"ofile=" + filepath.Join(dir, name), "npoints=256"}, io.Discard)
		if err := runWrite(o); err != nil {
			t.Fatalf("write: %v", err)
		}
		r, err := container.Open(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		defer r.Close()
		vals, err := r.ReadFloat64s("original")
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		return vals
	}
	a, b := read("a.grdf"), read("b.grdf")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("runs differ at %d", i)
		}
	}
}

func TestVerifyDetectsCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.grdf")
	o, _ := parseWriteArgs([]string{"ofile=" + path, "npoints=128", "codec=raw", "mode=none"}, io.Discard)
	if err := runWrite(o); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	raw[len(raw)-1] ^= 0xFF
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	r, err := container.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()
	if verifyContainer(r, io.Discard) {
		t.Fatal("corruption not detected")
	}
}

func TestWriteFromInputFile(t *testing.T) {
	dir := t.TempDir()
	vals := []float64{1.5, -2.5, 3.25, 0, 8}
	in := filepath.Join(dir, "input.bin")
	if err := os.WriteFile(in, container.Float64Bytes(vals), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	out := filepath.Join(dir, "out.grdf")
	o, _ := parseWriteArgs([]string{"ifile=" + in, "ofile=" + out, "npoints=5", "chunk=4"}, io.Discard)
	if err := runWrite(o); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := container.Open(out)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()
	got, err := r.ReadFloat64s("original")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for i := range vals {
		if got[i] != vals[i] {
			t.Fatalf("value mismatch at %d: %v != %v", i, got[i], vals[i])
		}
	}
}
