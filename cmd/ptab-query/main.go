// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ptab-query evaluates a photon lookup table at one or more
// (energy, angle, distance) points, interpolating between bin
// centers. Queries come from the command line, from a batch file or
// from an interactive prompt.
package main // import "github.com/go-lpc/photab/cmd/ptab-query"

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-lpc/photab/ptab"
	"github.com/go-lpc/photab/ptabio"
	"github.com/peterh/liner"
)

func main() {
	log.SetPrefix("ptab-query: ")
	log.SetFlags(0)

	var (
		tname   = flag.String("t", ptabio.DefaultName, "path to the HDF5 lookup table")
		modeTag = flag.String("mode", "clamp", "out-of-range handling (clamp, zero, nearest)")
		batch   = flag.String("f", "", "path to a batch file of queries, one 'energy angle distance' triplet per line")
		repl    = flag.Bool("i", false, "start an interactive prompt")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: ptab-query [OPTIONS] [energy angle distance]

ex:
 $> ptab-query -t photon_lookup_table.h5 150 0.5 1200
 $> ptab-query -mode zero -f queries.txt
 $> ptab-query -i

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	mode, err := ptab.ParseMode(*modeTag)
	if err != nil {
		log.Fatalf("could not parse query mode: %+v", err)
	}

	tab, err := ptabio.Read(*tname)
	if err != nil {
		log.Fatalf("could not read lookup table: %+v", err)
	}
	eng, err := ptab.NewEngine(tab, ptab.WithMode(mode))
	if err != nil {
		log.Fatalf("could not create lookup engine: %+v", err)
	}

	switch {
	case flag.NArg() == 3:
		err = single(os.Stdout, eng, flag.Args())
	case *batch != "":
		err = fromFile(os.Stdout, eng, *batch)
	case *repl:
		err = interact(os.Stdout, eng)
	default:
		flag.Usage()
		log.Fatalf("missing query (3 coordinates, -f file or -i)")
	}
	if err != nil {
		log.Fatalf("could not run query: %+v", err)
	}
}

func single(w io.Writer, eng *ptab.Engine, args []string) error {
	q, err := parseQuery(args)
	if err != nil {
		return err
	}
	v, err := eng.Value(q[0], q[1], q[2])
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n", v)
	return nil
}

// fromFile evaluates a batch file: one query per line, three
// whitespace-separated coordinates, '#' starting a comment line.
func fromFile(w io.Writer, eng *ptab.Engine, fname string) error {
	f, err := os.Open(fname)
	if err != nil {
		return fmt.Errorf("could not open %q: %w", fname, err)
	}
	defer f.Close()

	var (
		es, as, ds []float64
		line       int
		sc         = bufio.NewScanner(f)
	)
	for sc.Scan() {
		line++
		txt := strings.TrimSpace(sc.Text())
		if txt == "" || strings.HasPrefix(txt, "#") {
			continue
		}
		q, err := parseQuery(strings.Fields(txt))
		if err != nil {
			return fmt.Errorf("%s:%d: %w", fname, line, err)
		}
		es = append(es, q[0])
		as = append(as, q[1])
		ds = append(ds, q[2])
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("could not read %q: %w", fname, err)
	}

	vs, err := eng.Batch(es, as, ds)
	if err != nil {
		return err
	}

	wbuf := bufio.NewWriter(w)
	for i, v := range vs {
		fmt.Fprintf(wbuf, "%v %v %v %v\n", es[i], as[i], ds[i], v)
	}
	return wbuf.Flush()
}

func interact(w io.Writer, eng *ptab.Engine) error {
	term := liner.NewLiner()
	defer term.Close()
	term.SetCtrlCAborts(true)

	fmt.Fprintf(w, "photon lookup table prompt. enter 'energy angle distance', 'stats' or 'q' to quit.\n")
	for {
		txt, err := term.Prompt("ptab> ")
		switch {
		case err == nil:
			// ok
		case errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted):
			fmt.Fprintf(w, "\n")
			return nil
		default:
			return fmt.Errorf("could not read prompt: %w", err)
		}

		txt = strings.TrimSpace(txt)
		switch txt {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "stats":
			printStats(w, eng.Table())
			term.AppendHistory(txt)
			continue
		}

		q, err := parseQuery(strings.Fields(txt))
		if err != nil {
			fmt.Fprintf(w, "error: %+v\n", err)
			continue
		}
		v, err := eng.Value(q[0], q[1], q[2])
		if err != nil {
			fmt.Fprintf(w, "error: %+v\n", err)
			continue
		}
		fmt.Fprintf(w, "%v\n", v)
		term.AppendHistory(txt)
	}
}

func parseQuery(fields []string) ([3]float64, error) {
	var q [3]float64
	if len(fields) != 3 {
		return q, fmt.Errorf("invalid query: got %d coordinates, want 3 (energy angle distance)", len(fields))
	}
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return q, fmt.Errorf("invalid coordinate %q", field)
		}
		q[i] = v
	}
	return q, nil
}

func printStats(w io.Writer, tab *ptab.Table) {
	var (
		stats      = tab.Stats()
		ne, na, nd = tab.Bins()
	)
	fmt.Fprintf(w, "normalization: %v\n", tab.Norm())
	fmt.Fprintf(w, "bins:          %d x %d x %d (energy x angle x distance)\n", ne, na, nd)
	fmt.Fprintf(w, "coverage:      %.1f%% (%d of %d bins non-zero)\n", 100*stats.Coverage, stats.NonZero, stats.Bins)
	fmt.Fprintf(w, "photons:       %v\n", stats.TotalPhotons)
}
