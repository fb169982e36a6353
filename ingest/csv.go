// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ingest

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-lpc/photab/internal/mmap"
	"github.com/go-lpc/photab/ptab"
	"go-hep.org/x/hep/hbook"
)

const (
	csvHeader = "EventID,PrimaryEnergy_MeV,PhotonPosX_mm,PhotonPosY_mm,PhotonPosZ_mm,PhotonDirX,PhotonDirY,PhotonDirZ,PhotonTime_ns,Process"
	sumHeader = "EventID,PrimaryEnergy_MeV,NOpticalPhotons"

	csvFields = 10
)

// summaryName returns the events-summary companion of a photon dump:
// run_100MeV.csv becomes run_100MeV_summary.csv.
func summaryName(fname string) string {
	ext := filepath.Ext(fname)
	return strings.TrimSuffix(fname, ext) + "_summary" + ext
}

// loadCSV ingests a CSV photon dump: records are decoded from a
// memory-mapped view of the file and binned on the fly, the event
// count comes from the _summary companion.
func loadCSV(fname string, energy float64, cfg *config) (*ptab.Layer, error) {
	events, err := summaryEvents(summaryName(fname))
	if err != nil {
		return nil, err
	}
	if events == 0 {
		return nil, fmt.Errorf("%w: %q has no recorded events", ErrSkipLayer, fname)
	}

	f, err := mmap.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("ingest: could not map %q: %w", fname, err)
	}
	defer f.Close()

	hist := hbook.NewH2D(
		cfg.csv.angle.n, cfg.csv.angle.min, cfg.csv.angle.max,
		cfg.csv.dist.n, cfg.csv.dist.min, cfg.csv.dist.max,
	)
	dec := newCSVDecoder(f.Reader(), hist, cfg)
	err = dec.run()
	if err != nil {
		return nil, fmt.Errorf("ingest: could not decode %q: %w", fname, err)
	}

	return LayerFromH2D(hist, energy, events)
}

// summaryEvents counts the data rows of an events-summary file, one
// row per simulated event.
func summaryEvents(fname string) (int64, error) {
	f, err := os.Open(fname)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: missing events summary %q", ErrSkipLayer, fname)
		}
		return 0, fmt.Errorf("ingest: could not open %q: %w", fname, err)
	}
	defer f.Close()

	var (
		n     int64
		first = true
		sc    = bufio.NewScanner(f)
	)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if line != sumHeader {
				return 0, fmt.Errorf("ingest: %s: invalid events summary header %q", fname, line)
			}
			continue
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("ingest: could not read %q: %w", fname, err)
	}
	return n, nil
}

// csvDecoder streams photon records into a 2D (angle, distance)
// histogram, grouping consecutive records by event so per-event
// subsampling can trigger before anything is binned.
type csvDecoder struct {
	sc   *bufio.Scanner
	line int

	hist  *hbook.H2D
	rnd   *rand.Rand
	procs map[Process]bool
	cap   int

	evt  int64 // id of the event being accumulated
	open bool  // an event is being accumulated
	recs []rec // accepted records of that event
}

// rec is one accepted photon record, reduced to its histogram
// coordinates.
type rec struct {
	angle float64 // opening angle wrt the beam axis, in rad
	dist  float64 // distance to the emission point, in mm
}

func newCSVDecoder(r io.Reader, hist *hbook.H2D, cfg *config) *csvDecoder {
	return &csvDecoder{
		sc:    bufio.NewScanner(r),
		hist:  hist,
		rnd:   rand.New(rand.NewSource(cfg.csv.seed)),
		procs: cfg.csv.procs,
		cap:   cfg.csv.cap,
	}
}

func (dec *csvDecoder) run() error {
	first := true
	for dec.sc.Scan() {
		dec.line++
		line := strings.TrimSpace(dec.sc.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if line != csvHeader {
				return fmt.Errorf("line %d: invalid photon dump header %q", dec.line, line)
			}
			continue
		}
		if err := dec.record(line); err != nil {
			return err
		}
	}
	if err := dec.sc.Err(); err != nil {
		return fmt.Errorf("line %d: %w", dec.line, err)
	}
	dec.flush()
	return nil
}

func (dec *csvDecoder) record(line string) error {
	fields := strings.Split(line, ",")
	if len(fields) != csvFields {
		return fmt.Errorf("line %d: invalid record: got %d fields, want %d", dec.line, len(fields), csvFields)
	}

	evt, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return fmt.Errorf("line %d: invalid event id %q", dec.line, fields[0])
	}
	if dec.open && evt != dec.evt {
		dec.flush()
	}
	dec.evt, dec.open = evt, true

	if !dec.procs[processOf(fields[9])] {
		return nil
	}

	var pos [3]float64
	for i, field := range fields[2:5] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid position %q", dec.line, field)
		}
		pos[i] = v
	}
	dirz, err := strconv.ParseFloat(fields[7], 64)
	if err != nil {
		return fmt.Errorf("line %d: invalid direction %q", dec.line, fields[7])
	}

	dec.recs = append(dec.recs, rec{
		angle: math.Acos(clamp(dirz, -1, +1)),
		dist:  math.Sqrt(pos[0]*pos[0] + pos[1]*pos[1] + pos[2]*pos[2]),
	})
	return nil
}

// flush bins the records of the completed event, subsampling first
// when the event exceeds the configured cap.
func (dec *csvDecoder) flush() {
	recs := dec.recs
	if dec.cap > 0 && len(recs) > dec.cap {
		keep := int(sampleFrac * float64(len(recs)))
		if keep < sampleFloor {
			keep = sampleFloor
		}
		if keep > len(recs) {
			keep = len(recs)
		}
		sampled := make([]rec, 0, keep)
		for _, i := range dec.rnd.Perm(len(recs))[:keep] {
			sampled = append(sampled, recs[i])
		}
		recs = sampled
	}
	for _, r := range recs {
		dec.hist.Fill(r.angle, r.dist, 1)
	}
	dec.recs = dec.recs[:0]
}

func clamp(v, min, max float64) float64 {
	switch {
	case v < min:
		return min
	case v > max:
		return max
	}
	return v
}
