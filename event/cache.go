// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"compress/flate"
	"fmt"
	"os"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"
)

// Names of the trees stored in cached event files.
const (
	eventTree = "T"
	metaTree  = "meta"
)

// Save writes the batch to the fname cache file.
func (p *Production) Save(fname string) error {
	return save(fname, "g2p production events", p.columns(), -1)
}

// Save writes the batch to the fname cache file.
func (s *Simulation) Save(fname string) error {
	return save(fname, "g2p simulated events", s.columns(), s.N)
}

// LoadProduction reads a production batch from the fname cache file.
func LoadProduction(fname string) (*Production, error) {
	var p Production
	_, err := load(fname, p.columns(), false)
	if err != nil {
		return nil, err
	}
	return NewProduction(p.Hel, p.BPM, p.SR, p.Gold, p.Rec)
}

// LoadSimulation reads a simulation batch from the fname cache file.
func LoadSimulation(fname string) (*Simulation, error) {
	var s Simulation
	n, err := load(fname, s.columns(), true)
	if err != nil {
		return nil, err
	}
	return NewSimulation(s.BPM, s.Rec, s.XS, n)
}

// save writes the columns to fname. A negative n means no meta tree.
// The file only appears under fname once fully written.
func save(fname, title string, cols []column, n int64) (err error) {
	tmp := fname + ".tmp"
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	f, err := groot.Create(tmp)
	if err != nil {
		return fmt.Errorf("event: could not create cache file: %w", err)
	}
	defer f.Close()

	err = writeColumns(f, title, cols)
	if err != nil {
		return fmt.Errorf("event: could not write events to %q: %w", fname, err)
	}

	if n >= 0 {
		err = writeMeta(f, n)
		if err != nil {
			return fmt.Errorf("event: could not write metadata to %q: %w", fname, err)
		}
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("event: could not close cache file: %w", err)
	}

	err = os.Rename(tmp, fname)
	if err != nil {
		return fmt.Errorf("event: could not rename cache file: %w", err)
	}
	return nil
}

func writeColumns(dir riofs.Directory, title string, cols []column) error {
	var (
		row   = make([]float64, len(cols))
		wvars = make([]rtree.WriteVar, len(cols))
	)
	for i, col := range cols {
		wvars[i] = rtree.WriteVar{Name: col.name, Value: &row[i]}
	}

	w, err := rtree.NewWriter(
		dir, eventTree, wvars,
		rtree.WithZlib(flate.BestCompression),
		rtree.WithTitle(title),
	)
	if err != nil {
		return fmt.Errorf("could not create tree writer: %w", err)
	}
	defer w.Close()

	n := len(*cols[0].data)
	for i := 0; i < n; i++ {
		for j, col := range cols {
			row[j] = (*col.data)[i]
		}
		_, err = w.Write()
		if err != nil {
			return fmt.Errorf("could not write event %d: %w", i, err)
		}
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("could not close tree writer: %w", err)
	}
	return nil
}

func writeMeta(dir riofs.Directory, n int64) error {
	w, err := rtree.NewWriter(
		dir, metaTree, []rtree.WriteVar{{Name: "n", Value: &n}},
		rtree.WithTitle("generated events"),
	)
	if err != nil {
		return fmt.Errorf("could not create meta writer: %w", err)
	}
	defer w.Close()

	_, err = w.Write()
	if err != nil {
		return fmt.Errorf("could not write meta: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("could not close meta writer: %w", err)
	}
	return nil
}

// load reads the columns from the fname cache file, and the number of
// generated events when meta is true.
func load(fname string, cols []column, meta bool) (int64, error) {
	kind, err := KindOf(fname)
	if err != nil {
		return 0, err
	}
	if kind != Cache {
		return 0, fmt.Errorf("%w: %q is not a cache file", ErrSchema, fname)
	}

	f, err := groot.Open(fname)
	if err != nil {
		return 0, fmt.Errorf("event: could not open cache file: %w", err)
	}
	defer f.Close()

	t, err := getTree(f, eventTree)
	if err != nil {
		return 0, fmt.Errorf("event: could not load %q: %w", fname, err)
	}

	names := make([]string, len(cols))
	dsts := make([]*[]float64, len(cols))
	for i, col := range cols {
		names[i] = col.name
		*col.data = make([]float64, 0, t.Entries())
		dsts[i] = col.data
	}
	err = readColumns(t, names, dsts, nil, -1)
	if err != nil {
		return 0, fmt.Errorf("event: could not read %q: %w", fname, err)
	}

	if !meta {
		return 0, nil
	}

	mt, err := getTree(f, metaTree)
	if err != nil {
		return 0, fmt.Errorf("event: could not load metadata of %q: %w", fname, err)
	}

	var n int64
	r, err := rtree.NewReader(mt, []rtree.ReadVar{{Name: "n", Value: &n}})
	if err != nil {
		return 0, fmt.Errorf("event: could not create meta reader: %w", err)
	}
	defer r.Close()

	err = r.Read(func(rtree.RCtx) error { return nil })
	if err != nil {
		return 0, fmt.Errorf("event: could not read metadata of %q: %w", fname, err)
	}
	return n, nil
}

func getTree(dir riofs.Directory, name string) (rtree.Tree, error) {
	obj, err := dir.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w: could not find tree %q: %v", ErrSchema, name, err)
	}
	t, ok := obj.(rtree.Tree)
	if !ok {
		return nil, fmt.Errorf("%w: object %q is a %T, not a tree", ErrSchema, name, obj)
	}
	return t, nil
}

// readColumns reads the float64 branches names of t, appending each entry
// accepted by keep to dsts. dsts receive the first len(dsts) branches;
// keep is handed all the values of the entry.
// A non-negative stop bounds the number of entries read.
func readColumns(t rtree.Tree, names []string, dsts []*[]float64, keep func(vs []float64) bool, stop int64) error {
	var (
		vals  = make([]float64, len(names))
		rvars = make([]rtree.ReadVar, len(names))
		ropts []rtree.ReadOption
	)
	for i, name := range names {
		rvars[i] = rtree.ReadVar{Name: name, Value: &vals[i]}
	}
	if stop >= 0 && stop < t.Entries() {
		ropts = append(ropts, rtree.WithRange(0, stop))
	}

	r, err := rtree.NewReader(t, rvars, ropts...)
	if err != nil {
		return fmt.Errorf("could not create tree reader: %w", err)
	}
	defer r.Close()

	return r.Read(func(rtree.RCtx) error {
		if keep != nil && !keep(vals) {
			return nil
		}
		for i, dst := range dsts {
			*dst = append(*dst, vals[i])
		}
		return nil
	})
}
