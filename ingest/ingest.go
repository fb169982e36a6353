// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ingest loads per-energy Cherenkov simulation outputs (ROOT
// histogram files or CSV photon dumps) into table layers, one source
// per energy, and runs whole directories of them in parallel.
package ingest // import "github.com/go-lpc/photab/ingest"

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-lpc/photab/ptab"
	"go-hep.org/x/hep/hbook"
)

// ErrSkipLayer tags the recoverable per-source conditions of a batch
// ingestion: a missing source file, an absent histogram or event
// tree, a source without recorded events. Batch runners log such
// layers and carry on; anything else aborts the build.
var ErrSkipLayer = errors.New("ingest: skip layer")

const (
	// DefaultHist is the name of the per-energy 2D photon histogram
	// in ROOT sources.
	DefaultHist = "PhotonHist_AngleDistance"
	// DefaultTree is the name of the per-event tree whose entry count
	// gives the number of simulated events.
	DefaultTree = "OpticalPhotons"
)

const (
	sampleFloor = 100 // minimum records kept when subsampling an event
	sampleFrac  = 0.1 // fraction of records kept when subsampling
)

type config struct {
	msg *log.Logger

	root struct {
		hist string // name of the 2D photon histogram
		tree string // name of the per-event tree
	}

	csv struct {
		angle struct {
			n        int
			min, max float64
		}
		dist struct {
			n        int
			min, max float64
		}
		procs map[Process]bool // photon categories kept
		seed  int64            // subsampling seed
		cap   int              // per-event record cap, 0 disables subsampling
	}

	workers int
}

func newConfig() config {
	cfg := config{
		msg:     log.New(os.Stdout, "ingest: ", 0),
		workers: runtime.NumCPU(),
	}
	cfg.root.hist = DefaultHist
	cfg.root.tree = DefaultTree
	cfg.csv.angle.n, cfg.csv.angle.min, cfg.csv.angle.max = 500, 0, math.Pi
	cfg.csv.dist.n, cfg.csv.dist.min, cfg.csv.dist.max = 500, 0, 10000
	cfg.csv.procs = map[Process]bool{ProcCherenkov: true}
	cfg.csv.seed = 1
	return cfg
}

// Option configures the ingestion of sources.
type Option func(*config)

// WithLogger sets the logger used to report skipped layers and batch
// progress.
func WithLogger(msg *log.Logger) Option {
	return func(cfg *config) { cfg.msg = msg }
}

// WithHist sets the name of the 2D photon histogram read from ROOT
// sources.
func WithHist(name string) Option {
	return func(cfg *config) { cfg.root.hist = name }
}

// WithTree sets the name of the per-event tree whose entries count
// the simulated events of a ROOT source.
func WithTree(name string) Option {
	return func(cfg *config) { cfg.root.tree = name }
}

// WithAngleBins sets the opening-angle binning applied to CSV photon
// records.
func WithAngleBins(n int, min, max float64) Option {
	return func(cfg *config) {
		cfg.csv.angle.n, cfg.csv.angle.min, cfg.csv.angle.max = n, min, max
	}
}

// WithDistBins sets the distance binning applied to CSV photon
// records.
func WithDistBins(n int, min, max float64) Option {
	return func(cfg *config) {
		cfg.csv.dist.n, cfg.csv.dist.min, cfg.csv.dist.max = n, min, max
	}
}

// WithProcesses selects the photon creation processes kept from CSV
// records. The default keeps Cherenkov photons only.
func WithProcesses(procs ...Process) Option {
	return func(cfg *config) {
		cfg.csv.procs = make(map[Process]bool, len(procs))
		for _, p := range procs {
			cfg.csv.procs[p] = true
		}
	}
}

// WithSeed seeds the per-event subsampler, so builds are
// reproducible. Every source of a batch is decoded with its own
// generator starting from this seed.
func WithSeed(seed int64) Option {
	return func(cfg *config) { cfg.csv.seed = seed }
}

// WithSampleCap bounds the number of records kept per event: events
// with more than n records are subsampled down to
// max(100, 10% of the records). n=0 (the default) disables
// subsampling.
func WithSampleCap(n int) Option {
	return func(cfg *config) { cfg.csv.cap = n }
}

// WithWorkers bounds the number of sources ingested concurrently by
// a Runner. The default is the number of CPUs.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.workers = n
		}
	}
}

// File ingests the per-energy source fname into a layer.
//
// ROOT sources provide the named 2D photon histogram and the entry
// count of the event tree; CSV photon dumps are binned on the fly
// with the configured binning and take their event count from the
// _summary companion file. Missing sources, absent histograms or
// trees and zero-event sources are recoverable: they are reported as
// ErrSkipLayer. Malformed content is a format error and aborts.
func File(fname string, energy float64, opts ...Option) (*ptab.Layer, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return load(fname, energy, &cfg)
}

func load(fname string, energy float64, cfg *config) (*ptab.Layer, error) {
	if _, err := os.Stat(fname); err != nil {
		return nil, fmt.Errorf("%w: missing source %q", ErrSkipLayer, fname)
	}

	switch ext := strings.ToLower(filepath.Ext(fname)); ext {
	case ".root":
		return loadROOT(fname, energy, cfg)
	case ".csv":
		return loadCSV(fname, energy, cfg)
	default:
		return nil, fmt.Errorf("ingest: unknown source type %q for %q", ext, fname)
	}
}

// LayerFromH2D converts a filled 2D (angle, distance) histogram into
// a layer, reconstructing its regular bin edges from the histogram
// binning.
func LayerFromH2D(h *hbook.H2D, energy float64, events int64) (*ptab.Layer, error) {
	var (
		nx = h.Binning.Nx
		ny = h.Binning.Ny
	)
	if nx < 1 || ny < 1 {
		return nil, fmt.Errorf("ingest: histogram for E=%v has invalid binning (%d, %d)", energy, nx, ny)
	}

	var (
		angle  = regularEdges(h.XMin(), h.XMax(), nx)
		dist   = regularEdges(h.YMin(), h.YMax(), ny)
		counts = make([]float64, nx*ny)
		grid   = h.GridXYZ()
	)
	for ix := 0; ix < nx; ix++ {
		for iy := 0; iy < ny; iy++ {
			counts[ix*ny+iy] = grid.Z(ix, iy)
		}
	}
	return ptab.NewLayer(energy, events, angle, dist, counts)
}

func regularEdges(min, max float64, n int) []float64 {
	var (
		edges = make([]float64, n+1)
		step  = (max - min) / float64(n)
	)
	for i := range edges {
		edges[i] = min + float64(i)*step
	}
	edges[n] = max
	return edges
}
