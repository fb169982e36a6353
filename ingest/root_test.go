// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ingest

import (
	"context"
	"errors"
	"io"
	"log"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-lpc/photab/ptab"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/groot/rtree"
	"go-hep.org/x/hep/hbook"
)

// writeROOT creates a ROOT source with the standard photon histogram
// (4x4 bins over [0,pi]x[0,40]) under hname and an event tree with
// nevts entries under tname. Empty names drop the object.
func writeROOT(t *testing.T, fname, hname, tname string, nevts int) {
	t.Helper()

	f, err := groot.Create(fname)
	if err != nil {
		t.Fatalf("could not create %s: %+v", fname, err)
	}
	defer f.Close()

	if hname != "" {
		h := hbook.NewH2D(4, 0, math.Pi, 4, 0, 40)
		h.Fill(0.1, 5, 1)
		h.Fill(1.0, 15, 2)
		h.Fill(2.0, 35, 1)
		err = f.Put(hname, rhist.NewH2DFrom(h))
		if err != nil {
			t.Fatalf("could not put histogram: %+v", err)
		}
	}

	if tname != "" {
		var evt struct {
			ID int32 `groot:"EventID"`
			N  int32 `groot:"NOpticalPhotons"`
		}
		w, err := rtree.NewWriter(f, tname, rtree.WriteVarsFromStruct(&evt))
		if err != nil {
			t.Fatalf("could not create tree: %+v", err)
		}
		for i := 0; i < nevts; i++ {
			evt.ID = int32(i)
			evt.N = 1
			_, err = w.Write()
			if err != nil {
				t.Fatalf("could not write event %d: %+v", i, err)
			}
		}
		err = w.Close()
		if err != nil {
			t.Fatalf("could not close tree: %+v", err)
		}
	}

	err = f.Close()
	if err != nil {
		t.Fatalf("could not close %s: %+v", fname, err)
	}
}

func TestLoadROOT(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "run_150MeV.root")
	writeROOT(t, fname, DefaultHist, DefaultTree, 3)

	layer, err := File(fname, 150)
	if err != nil {
		t.Fatalf("could not ingest %s: %+v", fname, err)
	}

	if got, want := layer.Energy, 150.0; got != want {
		t.Fatalf("invalid energy: got=%v, want=%v", got, want)
	}
	if got, want := layer.Events, int64(3); got != want {
		t.Fatalf("invalid events: got=%v, want=%v", got, want)
	}
	na, nd := layer.Bins()
	if na != 4 || nd != 4 {
		t.Fatalf("invalid bins: got=(%d, %d), want=(4, 4)", na, nd)
	}
	for _, tc := range []struct {
		ia, id int
		want   float64
	}{
		{0, 0, 1}, // fill (0.1, 5)
		{1, 1, 2}, // fill (1.0, 15)
		{2, 3, 1}, // fill (2.0, 35)
		{3, 3, 0},
	} {
		if got := layer.At(tc.ia, tc.id); got != tc.want {
			t.Fatalf("invalid count at (%d, %d): got=%v, want=%v", tc.ia, tc.id, got, tc.want)
		}
	}
	if got, want := layer.Sum(), 4.0; got != want {
		t.Fatalf("invalid sum: got=%v, want=%v", got, want)
	}
}

func TestLoadROOTCustomNames(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "run_150MeV.root")
	writeROOT(t, fname, "MyHist", "MyEvents", 2)

	layer, err := File(fname, 150, WithHist("MyHist"), WithTree("MyEvents"))
	if err != nil {
		t.Fatalf("could not ingest %s: %+v", fname, err)
	}
	if got, want := layer.Events, int64(2); got != want {
		t.Fatalf("invalid events: got=%v, want=%v", got, want)
	}
}

func TestLoadROOTNoHist(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "run_150MeV.root")
	writeROOT(t, fname, "", DefaultTree, 3)

	_, err := File(fname, 150)
	if !errors.Is(err, ErrSkipLayer) {
		t.Fatalf("invalid error: got=%+v, want=%v", err, ErrSkipLayer)
	}
}

func TestLoadROOTNoTree(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "run_150MeV.root")
	writeROOT(t, fname, DefaultHist, "", 0)

	_, err := File(fname, 150)
	if !errors.Is(err, ErrSkipLayer) {
		t.Fatalf("invalid error: got=%+v, want=%v", err, ErrSkipLayer)
	}
}

func TestLoadROOTNoEvents(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "run_150MeV.root")
	writeROOT(t, fname, DefaultHist, DefaultTree, 0)

	_, err := File(fname, 150)
	if !errors.Is(err, ErrSkipLayer) {
		t.Fatalf("invalid error: got=%+v, want=%v", err, ErrSkipLayer)
	}
}

func TestLoadROOTWrongType(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "run_150MeV.root")
	f, err := groot.Create(fname)
	if err != nil {
		t.Fatalf("could not create %s: %+v", fname, err)
	}
	h := hbook.NewH2D(4, 0, math.Pi, 4, 0, 40)
	h.Fill(0.1, 5, 1)
	for _, name := range []string{DefaultHist, DefaultTree} {
		err = f.Put(name, rhist.NewH2DFrom(h))
		if err != nil {
			t.Fatalf("could not put %q: %+v", name, err)
		}
	}
	err = f.Close()
	if err != nil {
		t.Fatalf("could not close %s: %+v", fname, err)
	}

	_, err = File(fname, 150)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if errors.Is(err, ErrSkipLayer) {
		t.Fatalf("type mismatch should not be recoverable: %+v", err)
	}
	if !strings.Contains(err.Error(), "not a tree") {
		t.Fatalf("invalid error: %+v", err)
	}
}

func TestRunnerMixedGeometry(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "run_100MeV.root")
	writeROOT(t, root, DefaultHist, DefaultTree, 3)
	inputs := []Input{
		{Path: root, Energy: 100},
		{Path: writeDump(t, dir, "run_200MeV.csv", testDump, testSummary), Energy: 200},
	}

	rnr := NewRunner(WithLogger(log.New(io.Discard, "", 0))) // CSV binned 500x500, ROOT is 4x4
	bld := ptab.NewBuilder(ptab.WithBuilderLogger(log.New(io.Discard, "", 0)))

	rep, err := rnr.Run(context.Background(), inputs, bld)
	if err != nil {
		t.Fatalf("could not run batch: %+v", err)
	}
	if got, want := rep, (Report{Ingested: 1, Skipped: 1, Total: 2}); got != want {
		t.Fatalf("invalid report: got=%+v, want=%+v", got, want)
	}

	tab, err := bld.Finalize(ptab.NormRaw)
	if err != nil {
		t.Fatalf("could not finalize: %+v", err)
	}
	na, nd := tab.AngleAxis().Bins(), tab.DistAxis().Bins()
	if na != 4 || nd != 4 {
		t.Fatalf("invalid geometry: got=(%d, %d), want=(4, 4)", na, nd)
	}
}
