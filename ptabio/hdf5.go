// Copyright 2026 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ptabio reads and writes photon lookup tables as HDF5
// files.
//
// The on-disk layout is:
//
//	/data/values          float64, dims (n-energy, n-angle, n-dist)
//	/data/bin_areas       float64, dims (n-angle, n-dist), density tables only
//	/coordinates/energy_centers
//	/coordinates/energy_edges
//	/coordinates/angle_edges
//	/coordinates/dist_edges
//	/metadata/info        one row: format version, normalization, dims, total photons
//	/metadata/events      one row per energy: simulated events
//
// Values are chunked per energy layer and deflate-compressed.
// Energies are in MeV, angles in rad, distances in mm.
package ptabio // import "github.com/go-lpc/photab/ptabio"

import (
	"fmt"

	"github.com/go-lpc/photab/ptab"
	hdf5 "github.com/jmbenlloch/go-hdf5"
)

// DefaultName is the conventional file name of a photon lookup table
// artifact.
const DefaultName = "photon_lookup_table.h5"

const (
	formatMajor = 1
	formatMinor = 0

	deflateLevel = 4
)

// tableInfo is the single-row /metadata/info compound.
type tableInfo struct {
	version_major int64
	version_minor int64
	norm          int64
	n_energy      int64
	n_angle       int64
	n_dist        int64
	total_photons float64
}

// eventsEntry is one row of the /metadata/events compound: the number
// of simulated events behind one energy layer.
type eventsEntry struct {
	energy float64
	events int64
}

// Write stores tab at fname, replacing any previous file.
func Write(fname string, tab *ptab.Table) error {
	if !tab.Frozen() {
		return fmt.Errorf("ptabio: could not write %q: %w", fname, ptab.ErrNotFrozen)
	}

	f, err := hdf5.CreateFile(fname, hdf5.F_ACC_TRUNC)
	if err != nil {
		return fmt.Errorf("ptabio: could not create %q: %w", fname, err)
	}
	defer f.Close()

	err = writeData(f, tab)
	if err != nil {
		return fmt.Errorf("ptabio: could not write %q: %w", fname, err)
	}
	err = writeCoords(f, tab)
	if err != nil {
		return fmt.Errorf("ptabio: could not write %q: %w", fname, err)
	}
	err = writeMeta(f, tab)
	if err != nil {
		return fmt.Errorf("ptabio: could not write %q: %w", fname, err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("ptabio: could not close %q: %w", fname, err)
	}
	return nil
}

func writeData(f *hdf5.File, tab *ptab.Table) error {
	g, err := f.CreateGroup("data")
	if err != nil {
		return fmt.Errorf("could not create group /data: %w", err)
	}
	defer g.Close()

	ne, na, nd := tab.Bins()
	err = writeChunked(g, "values", tab.Values(),
		[]uint{uint(ne), uint(na), uint(nd)},
		[]uint{1, uint(na), uint(nd)},
	)
	if err != nil {
		return err
	}

	if tab.HasAreas() {
		err = writeChunked(g, "bin_areas", tab.Areas(),
			[]uint{uint(na), uint(nd)},
			[]uint{uint(na), uint(nd)},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeCoords(f *hdf5.File, tab *ptab.Table) error {
	g, err := f.CreateGroup("coordinates")
	if err != nil {
		return fmt.Errorf("could not create group /coordinates: %w", err)
	}
	defer g.Close()

	for _, v := range []struct {
		name string
		data []float64
	}{
		{"energy_centers", tab.EnergyAxis().Centers()},
		{"energy_edges", tab.EnergyAxis().Edges()},
		{"angle_edges", tab.AngleAxis().Edges()},
		{"dist_edges", tab.DistAxis().Edges()},
	} {
		err = writeFloats(g, v.name, v.data)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeMeta(f *hdf5.File, tab *ptab.Table) error {
	g, err := f.CreateGroup("metadata")
	if err != nil {
		return fmt.Errorf("could not create group /metadata: %w", err)
	}
	defer g.Close()

	ne, na, nd := tab.Bins()
	info := []tableInfo{{
		version_major: formatMajor,
		version_minor: formatMinor,
		norm:          int64(tab.Norm()),
		n_energy:      int64(ne),
		n_angle:       int64(na),
		n_dist:        int64(nd),
		total_photons: tab.TotalPhotons(),
	}}
	err = writeTable(g, "info", tableInfo{}, &info, 1)
	if err != nil {
		return err
	}

	var (
		nevts = tab.EventsPerEnergy()
		rows  = make([]eventsEntry, 0, ne)
	)
	for _, e := range tab.EnergyAxis().Centers() {
		rows = append(rows, eventsEntry{energy: e, events: nevts[e]})
	}
	return writeTable(g, "events", eventsEntry{}, &rows, uint(len(rows)))
}

// writeChunked creates a chunked, deflate-compressed float64 dataset
// and fills it with data.
func writeChunked(g *hdf5.Group, name string, data []float64, dims, chunks []uint) error {
	space, err := hdf5.CreateSimpleDataspace(dims, nil)
	if err != nil {
		return fmt.Errorf("could not create dataspace %q: %w", name, err)
	}
	defer space.Close()

	plist, err := hdf5.NewPropList(hdf5.P_DATASET_CREATE)
	if err != nil {
		return fmt.Errorf("could not create property list %q: %w", name, err)
	}
	defer plist.Close()
	plist.SetChunk(chunks)
	plist.SetDeflate(deflateLevel)

	dset, err := g.CreateDatasetWith(name, hdf5.T_NATIVE_DOUBLE, space, plist)
	if err != nil {
		return fmt.Errorf("could not create dataset %q: %w", name, err)
	}
	err = dset.Write(&data)
	if err != nil {
		dset.Close()
		return fmt.Errorf("could not write dataset %q: %w", name, err)
	}
	return dset.Close()
}

// writeFloats creates a plain 1D float64 dataset.
func writeFloats(g *hdf5.Group, name string, data []float64) error {
	space, err := hdf5.CreateSimpleDataspace([]uint{uint(len(data))}, nil)
	if err != nil {
		return fmt.Errorf("could not create dataspace %q: %w", name, err)
	}
	defer space.Close()

	dset, err := g.CreateDataset(name, hdf5.T_NATIVE_DOUBLE, space)
	if err != nil {
		return fmt.Errorf("could not create dataset %q: %w", name, err)
	}
	err = dset.Write(&data)
	if err != nil {
		dset.Close()
		return fmt.Errorf("could not write dataset %q: %w", name, err)
	}
	return dset.Close()
}

// writeTable creates a compound dataset of n rows shaped like sample
// and fills it from rows, a pointer to a slice of sample's type.
func writeTable(g *hdf5.Group, name string, sample, rows interface{}, n uint) error {
	space, err := hdf5.CreateSimpleDataspace([]uint{n}, nil)
	if err != nil {
		return fmt.Errorf("could not create dataspace %q: %w", name, err)
	}
	defer space.Close()

	dtype, err := hdf5.NewDatatypeFromValue(sample)
	if err != nil {
		return fmt.Errorf("could not create datatype %q: %w", name, err)
	}

	dset, err := g.CreateDataset(name, dtype, space)
	if err != nil {
		return fmt.Errorf("could not create dataset %q: %w", name, err)
	}
	err = dset.Write(rows)
	if err != nil {
		dset.Close()
		return fmt.Errorf("could not write dataset %q: %w", name, err)
	}
	return dset.Close()
}

// Read loads a photon lookup table from fname.
func Read(fname string) (*ptab.Table, error) {
	f, err := hdf5.OpenFile(fname, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, fmt.Errorf("ptabio: could not open %q: %w", fname, err)
	}
	defer f.Close()

	tab, err := readTable(f)
	if err != nil {
		return nil, fmt.Errorf("ptabio: could not read %q: %w", fname, err)
	}
	return tab, nil
}

func readTable(f *hdf5.File) (*ptab.Table, error) {
	meta, err := f.OpenGroup("metadata")
	if err != nil {
		return nil, fmt.Errorf("could not open group /metadata: %w", err)
	}
	defer meta.Close()

	info, err := readInfo(meta)
	if err != nil {
		return nil, err
	}
	if info.version_major != formatMajor {
		return nil, fmt.Errorf("unsupported format version %d.%d", info.version_major, info.version_minor)
	}
	if info.norm < int64(ptab.NormRaw) || info.norm > int64(ptab.NormDensity) {
		return nil, fmt.Errorf("%w (norm=%d)", ptab.ErrBadNorm, info.norm)
	}
	norm := ptab.Norm(info.norm)

	rows, err := readEvents(meta)
	if err != nil {
		return nil, err
	}
	if int64(len(rows)) != info.n_energy {
		return nil, fmt.Errorf("invalid events table: got %d rows, want %d", len(rows), info.n_energy)
	}
	nevts := make(map[float64]int64, len(rows))
	for _, row := range rows {
		nevts[row.energy] = row.events
	}

	coords, err := f.OpenGroup("coordinates")
	if err != nil {
		return nil, fmt.Errorf("could not open group /coordinates: %w", err)
	}
	defer coords.Close()

	centers, err := readFloats(coords, "energy_centers")
	if err != nil {
		return nil, err
	}
	angleEdges, err := readFloats(coords, "angle_edges")
	if err != nil {
		return nil, err
	}
	distEdges, err := readFloats(coords, "dist_edges")
	if err != nil {
		return nil, err
	}

	energy, err := ptab.NewAxisFromCenters("energy", "MeV", centers)
	if err != nil {
		return nil, err
	}
	angle, err := ptab.NewAxis("angle", "rad", angleEdges)
	if err != nil {
		return nil, err
	}
	dist, err := ptab.NewAxis("distance", "mm", distEdges)
	if err != nil {
		return nil, err
	}
	if int64(energy.Bins()) != info.n_energy ||
		int64(angle.Bins()) != info.n_angle ||
		int64(dist.Bins()) != info.n_dist {
		return nil, fmt.Errorf("inconsistent coordinates: got (%d, %d, %d) bins, want (%d, %d, %d)",
			energy.Bins(), angle.Bins(), dist.Bins(),
			info.n_energy, info.n_angle, info.n_dist,
		)
	}

	data, err := f.OpenGroup("data")
	if err != nil {
		return nil, fmt.Errorf("could not open group /data: %w", err)
	}
	defer data.Close()

	values, err := readFloats(data, "values")
	if err != nil {
		return nil, err
	}
	var areas []float64
	if norm == ptab.NormDensity {
		areas, err = readFloats(data, "bin_areas")
		if err != nil {
			return nil, err
		}
	}

	return ptab.NewTable(energy, angle, dist, norm, values, areas, nevts, info.total_photons)
}

func readInfo(g *hdf5.Group) (tableInfo, error) {
	dset, err := g.OpenDataset("info")
	if err != nil {
		return tableInfo{}, fmt.Errorf("could not open dataset \"info\": %w", err)
	}
	defer dset.Close()

	n, err := extentOf(dset)
	if err != nil {
		return tableInfo{}, fmt.Errorf("could not read dims of \"info\": %w", err)
	}
	if n != 1 {
		return tableInfo{}, fmt.Errorf("invalid info table: got %d rows, want 1", n)
	}

	rows := make([]tableInfo, 1)
	err = dset.Read(&rows)
	if err != nil {
		return tableInfo{}, fmt.Errorf("could not read dataset \"info\": %w", err)
	}
	return rows[0], nil
}

func readEvents(g *hdf5.Group) ([]eventsEntry, error) {
	dset, err := g.OpenDataset("events")
	if err != nil {
		return nil, fmt.Errorf("could not open dataset \"events\": %w", err)
	}
	defer dset.Close()

	n, err := extentOf(dset)
	if err != nil {
		return nil, fmt.Errorf("could not read dims of \"events\": %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	rows := make([]eventsEntry, n)
	err = dset.Read(&rows)
	if err != nil {
		return nil, fmt.Errorf("could not read dataset \"events\": %w", err)
	}
	return rows, nil
}

// readFloats loads a float64 dataset of any rank as a flat,
// row-major slice.
func readFloats(g *hdf5.Group, name string) ([]float64, error) {
	dset, err := g.OpenDataset(name)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset %q: %w", name, err)
	}
	defer dset.Close()

	n, err := extentOf(dset)
	if err != nil {
		return nil, fmt.Errorf("could not read dims of %q: %w", name, err)
	}

	data := make([]float64, n)
	err = dset.Read(&data)
	if err != nil {
		return nil, fmt.Errorf("could not read dataset %q: %w", name, err)
	}
	return data, nil
}

// extentOf returns the total number of elements of a dataset.
func extentOf(dset *hdf5.Dataset) (int, error) {
	space := dset.Space()
	defer space.Close()

	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return 0, err
	}
	n := 1
	for _, d := range dims {
		n *= int(d)
	}
	return n, nil
}
