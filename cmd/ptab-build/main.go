// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ptab-build assembles a photon lookup table from per-energy
// Cherenkov simulation outputs (ROOT files or CSV photon dumps) and
// stores it as an HDF5 file.
package main // import "github.com/go-lpc/photab/cmd/ptab-build"

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/go-lpc/photab/ingest"
	"github.com/go-lpc/photab/ptab"
	"github.com/go-lpc/photab/ptabio"
)

func main() {
	log.SetPrefix("ptab-build: ")
	log.SetFlags(0)

	var (
		oname   = flag.String("o", ptabio.DefaultName, "path to output HDF5 table")
		normTag = flag.String("norm", "density", "normalization to apply (raw, per_event_average, density)")
		hist    = flag.String("hist", ingest.DefaultHist, "name of the 2D photon histogram in ROOT sources")
		tree    = flag.String("tree", ingest.DefaultTree, "name of the per-event tree in ROOT sources")
		abins   = flag.Int("angle-bins", 500, "number of angle bins for CSV sources")
		amax    = flag.Float64("angle-max", math.Pi, "angle range upper edge (rad) for CSV sources")
		dbins   = flag.Int("dist-bins", 500, "number of distance bins for CSV sources")
		dmax    = flag.Float64("dist-max", 10000, "distance range upper edge (mm) for CSV sources")
		procs   = flag.String("procs", "cherenkov", "comma-separated photon processes to keep from CSV sources")
		evtCap  = flag.Int("sample-cap", 0, "subsample events with more records than this cap (0 keeps everything)")
		seed    = flag.Int64("seed", 1, "seed of the per-event subsampler")
		workers = flag.Int("j", runtime.NumCPU(), "number of sources ingested concurrently")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: ptab-build [OPTIONS] <runs-dir | file1.root [file2.csv ...]>

ex:
 $> ptab-build -o photon_lookup_table.h5 -norm density ./runs
 $> ptab-build -norm per_event_average run_100MeV.root run_200MeV.csv

The energy of each source is inferred from its file name
(run_100MeV.root, sim_5.5_MeV.csv, energy_300.root, ...).

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing input run directory or source files")
	}

	norm, err := ptab.ParseNorm(*normTag)
	if err != nil {
		log.Fatalf("could not parse normalization: %+v", err)
	}

	keep, err := parseProcs(*procs)
	if err != nil {
		log.Fatalf("could not parse process list: %+v", err)
	}

	inputs, err := collect(flag.Args())
	if err != nil {
		log.Fatalf("could not collect sources: %+v", err)
	}
	log.Printf("sources: %d", len(inputs))

	err = process(*oname, norm, inputs, []ingest.Option{
		ingest.WithHist(*hist),
		ingest.WithTree(*tree),
		ingest.WithAngleBins(*abins, 0, *amax),
		ingest.WithDistBins(*dbins, 0, *dmax),
		ingest.WithProcesses(keep...),
		ingest.WithSampleCap(*evtCap),
		ingest.WithSeed(*seed),
		ingest.WithWorkers(*workers),
	})
	if err != nil {
		log.Fatalf("could not build lookup table: %+v", err)
	}
}

// collect resolves the command line into per-energy sources: a single
// directory is scanned, explicit files must carry their energy in the
// name.
func collect(args []string) ([]ingest.Input, error) {
	if len(args) == 1 {
		fi, err := os.Stat(args[0])
		if err != nil {
			return nil, fmt.Errorf("could not stat %q: %w", args[0], err)
		}
		if fi.IsDir() {
			return ingest.ScanDir(args[0])
		}
	}

	inputs := make([]ingest.Input, 0, len(args))
	for _, fname := range args {
		e, ok := ingest.EnergyFromName(fname)
		if !ok {
			return nil, fmt.Errorf("could not infer energy from %q", fname)
		}
		inputs = append(inputs, ingest.Input{Path: fname, Energy: e})
	}
	return inputs, nil
}

func parseProcs(list string) ([]ingest.Process, error) {
	var procs []ingest.Process
	for _, tag := range strings.Split(list, ",") {
		if strings.TrimSpace(tag) == "" {
			continue
		}
		p, err := ingest.ParseProcess(tag)
		if err != nil {
			return nil, err
		}
		procs = append(procs, p)
	}
	if len(procs) == 0 {
		return nil, fmt.Errorf("empty process list %q", list)
	}
	return procs, nil
}

func process(oname string, norm ptab.Norm, inputs []ingest.Input, opts []ingest.Option) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	defer signal.Stop(stop)
	go func() {
		<-stop
		cancel()
	}()

	var (
		rnr = ingest.NewRunner(opts...)
		bld = ptab.NewBuilder()
	)
	_, err := rnr.Run(ctx, inputs, bld)
	if err != nil {
		return fmt.Errorf("could not ingest sources: %w", err)
	}

	tab, err := bld.Finalize(norm)
	if err != nil {
		return fmt.Errorf("could not assemble table: %w", err)
	}

	err = ptabio.Write(oname, tab)
	if err != nil {
		return fmt.Errorf("could not write table: %w", err)
	}

	stats := tab.Stats()
	log.Printf("output:   %s", oname)
	log.Printf("bins:     %d (%.1f%% non-zero)", stats.Bins, 100*stats.Coverage)
	log.Printf("photons:  %v", stats.TotalPhotons)
	return nil
}
