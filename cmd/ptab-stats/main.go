// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ptab-stats prints occupancy statistics for a photon lookup
// table: axis layout, events per energy layer, bin coverage and the
// distribution of the stored values.
package main // import "github.com/go-lpc/photab/cmd/ptab-stats"

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/go-lpc/photab/ptab"
	"github.com/go-lpc/photab/ptabio"
	"gonum.org/v1/gonum/stat"
)

func main() {
	log.SetPrefix("ptab-stats: ")
	log.SetFlags(0)

	flag.Usage = func() {
		fmt.Printf(`Usage: ptab-stats [OPTIONS] [table.h5]

ex:
 $> ptab-stats photon_lookup_table.h5

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	fname := ptabio.DefaultName
	switch flag.NArg() {
	case 0:
		// default table name
	case 1:
		fname = flag.Arg(0)
	default:
		flag.Usage()
		log.Fatalf("too many arguments: %v", flag.Args())
	}

	err := process(os.Stdout, fname)
	if err != nil {
		log.Fatalf("could not dump stats: %+v", err)
	}
}

func process(w io.Writer, fname string) error {
	tab, err := ptabio.Read(fname)
	if err != nil {
		return fmt.Errorf("could not read lookup table: %w", err)
	}

	wbuf := bufio.NewWriter(w)
	defer wbuf.Flush()

	fmt.Fprintf(wbuf, "=== %s ===\n", fname)
	fmt.Fprintf(wbuf, "normalization: %v\n", tab.Norm())
	for _, ax := range []ptab.Axis{tab.EnergyAxis(), tab.AngleAxis(), tab.DistAxis()} {
		fmt.Fprintf(wbuf, "axis %-8s %4d bins [%v, %v) %s\n",
			ax.Name()+":", ax.Bins(), ax.Min(), ax.Max(), ax.Unit(),
		)
	}

	evts := tab.EventsPerEnergy()
	energies := make([]float64, 0, len(evts))
	for e := range evts {
		energies = append(energies, e)
	}
	sort.Float64s(energies)
	fmt.Fprintf(wbuf, "events:\n")
	for _, e := range energies {
		fmt.Fprintf(wbuf, "  E=%v %s: %d\n", e, tab.EnergyAxis().Unit(), evts[e])
	}

	stats := tab.Stats()
	fmt.Fprintf(wbuf, "photons:  %v\n", stats.TotalPhotons)
	fmt.Fprintf(wbuf, "bins:     %d\n", stats.Bins)
	fmt.Fprintf(wbuf, "non-zero: %d (%.1f%%)\n", stats.NonZero, 100*stats.Coverage)
	fmt.Fprintf(wbuf, "max:      %v\n", stats.Max)
	fmt.Fprintf(wbuf, "mean:     %v\n", stats.Mean)

	nz := nonZero(tab.Values())
	if len(nz) == 0 {
		return wbuf.Flush()
	}
	sort.Float64s(nz)
	for _, p := range []float64{0.50, 0.90, 0.99} {
		fmt.Fprintf(wbuf, "p%.0f:      %v\n", 100*p, stat.Quantile(p, stat.Empirical, nz, nil))
	}

	return wbuf.Flush()
}

func nonZero(vs []float64) []float64 {
	var nz []float64
	for _, v := range vs {
		if v != 0 {
			nz = append(nz, v)
		}
	}
	return nz
}
