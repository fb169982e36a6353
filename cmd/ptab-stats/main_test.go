// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-lpc/photab/ptab"
	"github.com/go-lpc/photab/ptabio"
)

func writeTable(t *testing.T) string {
	t.Helper()
	bld := ptab.NewBuilder()
	layer, err := ptab.NewLayer(
		100, 2,
		[]float64{0, 1, 2},
		[]float64{0, 10, 20},
		[]float64{1, 2, 3, 4},
	)
	if err != nil {
		t.Fatalf("could not create layer: %+v", err)
	}
	err = bld.AddLayer(layer)
	if err != nil {
		t.Fatalf("could not add layer: %+v", err)
	}
	tab, err := bld.Finalize(ptab.NormRaw)
	if err != nil {
		t.Fatalf("could not finalize table: %+v", err)
	}

	fname := filepath.Join(t.TempDir(), "table.h5")
	err = ptabio.Write(fname, tab)
	if err != nil {
		t.Fatalf("could not write table: %+v", err)
	}
	return fname
}

func TestProcess(t *testing.T) {
	fname := writeTable(t)

	o := new(strings.Builder)
	err := process(o, fname)
	if err != nil {
		t.Fatalf("could not dump stats: %+v", err)
	}

	got := o.String()
	for _, want := range []string{
		"normalization: raw\n",
		"bins [99.5, 100.5) MeV\n",
		"bins [0, 2) rad\n",
		"bins [0, 20) mm\n",
		"  E=100 MeV: 2\n",
		"photons:  10\n",
		"bins:     4\n",
		"non-zero: 4 (100.0%)\n",
		"max:      4\n",
		"mean:     2.5\n",
		"p50:      2\n",
		"p90:      4\n",
		"p99:      4\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in output:\n%s", want, got)
		}
	}
}

func TestProcessMissing(t *testing.T) {
	o := new(strings.Builder)
	err := process(o, filepath.Join(t.TempDir(), "missing.h5"))
	if err == nil {
		t.Fatalf("expected an error for a missing table")
	}
}
