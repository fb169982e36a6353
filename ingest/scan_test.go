// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ingest

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEnergyFromName(t *testing.T) {
	for _, tc := range []struct {
		name string
		want float64
		ok   bool
	}{
		{name: "run_100MeV.root", want: 100, ok: true},
		{name: "run_100mev.root", want: 100, ok: true},
		{name: "gamma_5.5MeV.csv", want: 5.5, ok: true},
		{name: "sim_200_MeV.root", want: 200, ok: true},
		{name: "energy_300.csv", want: 300, ok: true},
		{name: "energy-12.5.root", want: 12.5, ok: true},
		{name: "Energy_42.root", want: 42, ok: true},
		{name: "/data/prod/e_50MeV.csv", want: 50, ok: true},
		{name: "run_0MeV.root", ok: false},
		{name: "run.root", ok: false},
		{name: "mev_run.root", ok: false},
		{name: "", ok: false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := EnergyFromName(tc.name)
			if ok != tc.ok {
				t.Fatalf("invalid match: got=%v, want=%v", ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("invalid energy: got=%v, want=%v", got, tc.want)
			}
		})
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"run_100MeV.csv",
		"run_100MeV_summary.csv",
		"run_50MeV.csv",
		"run_50MeV_summary.csv",
		"sim_200_MeV.root",
		"gamma_5.5MeV.csv",
		"notes.txt",
		"README.md",
		"no-energy-here.csv",
	} {
		err := os.WriteFile(filepath.Join(dir, name), nil, 0644)
		if err != nil {
			t.Fatalf("could not create %s: %+v", name, err)
		}
	}
	err := os.Mkdir(filepath.Join(dir, "sub_10MeV.csv"), 0755)
	if err != nil {
		t.Fatalf("could not create sub-directory: %+v", err)
	}

	got, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("could not scan %s: %+v", dir, err)
	}

	want := []Input{
		{Path: filepath.Join(dir, "gamma_5.5MeV.csv"), Energy: 5.5},
		{Path: filepath.Join(dir, "run_50MeV.csv"), Energy: 50},
		{Path: filepath.Join(dir, "run_100MeV.csv"), Energy: 100},
		{Path: filepath.Join(dir, "sim_200_MeV.root"), Energy: 200},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid inputs:\ngot= %v\nwant=%v", got, want)
	}
}

func TestScanDirMissing(t *testing.T) {
	_, err := ScanDir(filepath.Join(t.TempDir(), "not-there"))
	if err == nil {
		t.Fatalf("expected an error")
	}
}

func TestScanDirSameEnergy(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b_100MeV.csv", "a_100MeV.csv"} {
		err := os.WriteFile(filepath.Join(dir, name), nil, 0644)
		if err != nil {
			t.Fatalf("could not create %s: %+v", name, err)
		}
	}

	got, err := ScanDir(dir)
	if err != nil {
		t.Fatalf("could not scan %s: %+v", dir, err)
	}
	want := []Input{
		{Path: filepath.Join(dir, "a_100MeV.csv"), Energy: 100},
		{Path: filepath.Join(dir, "b_100MeV.csv"), Energy: 100},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid inputs:\ngot= %v\nwant=%v", got, want)
	}
}
