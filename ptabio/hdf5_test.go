// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ptabio

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/go-lpc/photab/ptab"
)

func buildTable(t *testing.T, norm ptab.Norm) *ptab.Table {
	t.Helper()

	var (
		bld   = ptab.NewBuilder(ptab.WithBuilderLogger(log.New(io.Discard, "", 0)))
		angle = []float64{0, 1, 2}
		dist  = []float64{0, 10, 20}
	)
	for _, l := range []struct {
		energy float64
		events int64
		counts []float64
	}{
		{energy: 100, events: 10, counts: []float64{10, 0, 0, 0}},
		{energy: 200, events: 10, counts: []float64{0, 0, 0, 20}},
	} {
		layer, err := ptab.NewLayer(l.energy, l.events, angle, dist, l.counts)
		if err != nil {
			t.Fatalf("could not create layer E=%v: %+v", l.energy, err)
		}
		err = bld.AddLayer(layer)
		if err != nil {
			t.Fatalf("could not add layer E=%v: %+v", l.energy, err)
		}
	}

	tab, err := bld.Finalize(norm)
	if err != nil {
		t.Fatalf("could not finalize table: %+v", err)
	}
	return tab
}

func TestWriteRead(t *testing.T) {
	for _, norm := range []ptab.Norm{
		ptab.NormRaw,
		ptab.NormPerEvent,
		ptab.NormDensity,
	} {
		t.Run(norm.String(), func(t *testing.T) {
			want := buildTable(t, norm)
			fname := filepath.Join(t.TempDir(), DefaultName)

			err := Write(fname, want)
			if err != nil {
				t.Fatalf("could not write table: %+v", err)
			}

			got, err := Read(fname)
			if err != nil {
				t.Fatalf("could not read table: %+v", err)
			}

			if got.Norm() != want.Norm() {
				t.Fatalf("invalid norm: got=%v, want=%v", got.Norm(), want.Norm())
			}
			if !got.Frozen() {
				t.Fatalf("table not frozen")
			}
			ge, ga, gd := got.Bins()
			we, wa, wd := want.Bins()
			if ge != we || ga != wa || gd != wd {
				t.Fatalf("invalid bins: got=(%d, %d, %d), want=(%d, %d, %d)", ge, ga, gd, we, wa, wd)
			}
			if !reflect.DeepEqual(got.Values(), want.Values()) {
				t.Fatalf("invalid values:\ngot= %v\nwant=%v", got.Values(), want.Values())
			}
			if !reflect.DeepEqual(got.EnergyAxis().Centers(), want.EnergyAxis().Centers()) {
				t.Fatalf("invalid energies: got=%v, want=%v",
					got.EnergyAxis().Centers(), want.EnergyAxis().Centers(),
				)
			}
			if !reflect.DeepEqual(got.EnergyAxis().Edges(), want.EnergyAxis().Edges()) {
				t.Fatalf("invalid energy edges: got=%v, want=%v",
					got.EnergyAxis().Edges(), want.EnergyAxis().Edges(),
				)
			}
			if !reflect.DeepEqual(got.AngleAxis().Edges(), want.AngleAxis().Edges()) {
				t.Fatalf("invalid angle edges: got=%v, want=%v",
					got.AngleAxis().Edges(), want.AngleAxis().Edges(),
				)
			}
			if !reflect.DeepEqual(got.DistAxis().Edges(), want.DistAxis().Edges()) {
				t.Fatalf("invalid distance edges: got=%v, want=%v",
					got.DistAxis().Edges(), want.DistAxis().Edges(),
				)
			}
			if !reflect.DeepEqual(got.EventsPerEnergy(), want.EventsPerEnergy()) {
				t.Fatalf("invalid events: got=%v, want=%v",
					got.EventsPerEnergy(), want.EventsPerEnergy(),
				)
			}
			if got.TotalPhotons() != want.TotalPhotons() {
				t.Fatalf("invalid total: got=%v, want=%v", got.TotalPhotons(), want.TotalPhotons())
			}
			if got.HasAreas() != (norm == ptab.NormDensity) {
				t.Fatalf("invalid areas presence: got=%v", got.HasAreas())
			}
			if norm == ptab.NormDensity && !reflect.DeepEqual(got.Areas(), want.Areas()) {
				t.Fatalf("invalid areas:\ngot= %v\nwant=%v", got.Areas(), want.Areas())
			}

			weng, err := ptab.NewEngine(want)
			if err != nil {
				t.Fatalf("could not create engine: %+v", err)
			}
			geng, err := ptab.NewEngine(got)
			if err != nil {
				t.Fatalf("could not create engine: %+v", err)
			}
			for _, q := range [][3]float64{
				{100, 0.5, 5},
				{150, 0.5, 5},
				{200, 1.5, 15},
				{-10, 0.5, 25},
			} {
				wv, err := weng.Value(q[0], q[1], q[2])
				if err != nil {
					t.Fatalf("could not query source table: %+v", err)
				}
				gv, err := geng.Value(q[0], q[1], q[2])
				if err != nil {
					t.Fatalf("could not query loaded table: %+v", err)
				}
				if gv != wv {
					t.Fatalf("invalid value at %v: got=%v, want=%v", q, gv, wv)
				}
			}
		})
	}
}

func TestWriteNotFrozen(t *testing.T) {
	var tab ptab.Table
	err := Write(filepath.Join(t.TempDir(), DefaultName), &tab)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(err.Error(), ptab.ErrNotFrozen.Error()) {
		t.Fatalf("invalid error: %+v", err)
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "not-there.h5"))
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestReadGarbage(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "garbage.h5")
	err := os.WriteFile(fname, []byte("this is not an HDF5 file"), 0644)
	if err != nil {
		t.Fatalf("could not write %s: %+v", fname, err)
	}

	_, err = Read(fname)
	if err == nil {
		t.Fatalf("expected an error")
	}
}
