// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Input names one per-energy source file of a batch ingestion.
type Input struct {
	Path   string  // source file, ROOT or CSV
	Energy float64 // beam energy, in MeV
}

var energyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)MeV`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)_MeV`),
	regexp.MustCompile(`(?i)energy[_-](\d+(?:\.\d+)?)`),
}

// EnergyFromName extracts the beam energy (in MeV) encoded in a
// source file name, such as run_100MeV.root, gamma_5.5MeV.csv,
// sim_200_MeV.root or energy_300.csv.
func EnergyFromName(name string) (float64, bool) {
	base := filepath.Base(name)
	for _, re := range energyPatterns {
		m := re.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		e, err := strconv.ParseFloat(m[1], 64)
		if err != nil || e <= 0 {
			continue
		}
		return e, true
	}
	return 0, false
}

// ScanDir lists the per-energy sources of dir: regular .root or .csv
// entries whose names carry an energy. Events-summary companions are
// not sources of their own. The result is sorted by energy, then
// path, so batch builds are deterministic.
func ScanDir(dir string) ([]Input, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ingest: could not read directory %q: %w", dir, err)
	}

	var inputs []Input
	for _, ent := range ents {
		if ent.IsDir() {
			continue
		}
		name := ent.Name()
		switch strings.ToLower(filepath.Ext(name)) {
		case ".root", ".csv":
		default:
			continue
		}
		if isSummary(name) {
			continue
		}
		e, ok := EnergyFromName(name)
		if !ok {
			continue
		}
		inputs = append(inputs, Input{Path: filepath.Join(dir, name), Energy: e})
	}

	sort.Slice(inputs, func(i, j int) bool {
		if inputs[i].Energy != inputs[j].Energy {
			return inputs[i].Energy < inputs[j].Energy
		}
		return inputs[i].Path < inputs[j].Path
	})
	return inputs, nil
}

func isSummary(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasSuffix(base, "_summary")
}
