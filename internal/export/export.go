// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package export renders photon lookup tables to text formats for
// inspection and for downstream tools that do not speak HDF5.
package export // import "github.com/go-lpc/photab/internal/export"

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-lpc/photab/ptab"
)

// CSV writes one row per table bin, addressed by bin centers:
//
//	energy,angle,distance,value
//	100,0.5,5,0.25
//
// Rows scan the distance axis fastest, then angle, then energy.
func CSV(w io.Writer, tab *ptab.Table) error {
	if !tab.Frozen() {
		return fmt.Errorf("export: could not write CSV: %w", ptab.ErrNotFrozen)
	}

	wbuf := bufio.NewWriter(w)
	fmt.Fprintf(wbuf, "energy,angle,distance,value\n")

	var (
		energy     = tab.EnergyAxis().Centers()
		angle      = tab.AngleAxis().Centers()
		dist       = tab.DistAxis().Centers()
		ne, na, nd = tab.Bins()
	)
	for ie := 0; ie < ne; ie++ {
		for ia := 0; ia < na; ia++ {
			for id := 0; id < nd; id++ {
				fmt.Fprintf(wbuf, "%v,%v,%v,%v\n",
					energy[ie], angle[ia], dist[id], tab.At(ie, ia, id),
				)
			}
		}
	}

	err := wbuf.Flush()
	if err != nil {
		return fmt.Errorf("export: could not write CSV: %w", err)
	}
	return nil
}

// Axis is the JSON rendering of one table coordinate.
type Axis struct {
	Name    string    `json:"name"`
	Unit    string    `json:"unit"`
	Edges   []float64 `json:"edges"`
	Centers []float64 `json:"centers"`
}

// Events is the JSON rendering of the simulated-events count behind
// one energy layer.
type Events struct {
	Energy float64 `json:"energy"`
	Events int64   `json:"events"`
}

// Table is the JSON rendering of a lookup table. Values are flat,
// row-major over (energy, angle, distance).
type Table struct {
	Normalization string    `json:"normalization"`
	TotalPhotons  float64   `json:"total_photons"`
	Energy        Axis      `json:"energy"`
	Angle         Axis      `json:"angle"`
	Distance      Axis      `json:"distance"`
	Events        []Events  `json:"events"`
	Values        []float64 `json:"values"`
	BinAreas      []float64 `json:"bin_areas,omitempty"`
}

// JSON writes the whole table as a single JSON document.
func JSON(w io.Writer, tab *ptab.Table) error {
	if !tab.Frozen() {
		return fmt.Errorf("export: could not write JSON: %w", ptab.ErrNotFrozen)
	}

	var (
		nevts = tab.EventsPerEnergy()
		doc   = Table{
			Normalization: tab.Norm().String(),
			TotalPhotons:  tab.TotalPhotons(),
			Energy:        axisOf(tab.EnergyAxis()),
			Angle:         axisOf(tab.AngleAxis()),
			Distance:      axisOf(tab.DistAxis()),
			Values:        tab.Values(),
		}
	)
	for _, e := range tab.EnergyAxis().Centers() {
		doc.Events = append(doc.Events, Events{Energy: e, Events: nevts[e]})
	}
	if tab.HasAreas() {
		doc.BinAreas = tab.Areas()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	err := enc.Encode(doc)
	if err != nil {
		return fmt.Errorf("export: could not write JSON: %w", err)
	}
	return nil
}

func axisOf(ax ptab.Axis) Axis {
	return Axis{
		Name:    ax.Name(),
		Unit:    ax.Unit(),
		Edges:   ax.Edges(),
		Centers: ax.Centers(),
	}
}
