// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ptab-dump exports the content of a photon lookup table to
// CSV or JSON for inspection with external tooling.
package main // import "github.com/go-lpc/photab/cmd/ptab-dump"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-lpc/photab/internal/export"
	"github.com/go-lpc/photab/ptab"
	"github.com/go-lpc/photab/ptabio"
)

func main() {
	log.SetPrefix("ptab-dump: ")
	log.SetFlags(0)

	var (
		format = flag.String("format", "csv", "output format (csv or json)")
		oname  = flag.String("o", "", "path to the output file (default: stdout)")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: ptab-dump [OPTIONS] table.h5

ex:
 $> ptab-dump photon_lookup_table.h5
 $> ptab-dump -format json -o table.json photon_lookup_table.h5

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	var dump func(io.Writer, *ptab.Table) error
	switch *format {
	case "csv":
		dump = export.CSV
	case "json":
		dump = export.JSON
	default:
		log.Fatalf("unknown output format %q (want csv or json)", *format)
	}

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("missing input lookup table")
	}

	err := process(flag.Arg(0), *oname, dump)
	if err != nil {
		log.Fatalf("could not dump table: %+v", err)
	}
}

func process(fname, oname string, dump func(io.Writer, *ptab.Table) error) error {
	tab, err := ptabio.Read(fname)
	if err != nil {
		return fmt.Errorf("could not read lookup table: %w", err)
	}

	if oname == "" {
		return dump(os.Stdout, tab)
	}

	f, err := os.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create %q: %w", oname, err)
	}
	defer f.Close()

	err = dump(f, tab)
	if err != nil {
		return err
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("could not close %q: %w", oname, err)
	}
	return nil
}
