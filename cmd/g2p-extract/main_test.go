// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/go-lpc/g2p/event"
	"github.com/go-lpc/g2p/rundb"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"
)

type store map[int]*rundb.Conditions

func (db store) Conditions(ctx context.Context, run int) (*rundb.Conditions, error) {
	cond, ok := db[run]
	if !ok {
		return nil, fmt.Errorf("no such run %d", run)
	}
	return cond, nil
}

var simBranches = []string{
	"bpm.l_x", "bpm.l_y", "bpm.l_t", "bpm.l_p",
	"rec.x", "rec.t", "rec.y", "rec.p", "rec.d",
	"phys.react.xs",
	"isgood",
}

func writeSim(t *testing.T, fname string, n int, good func(i int) bool) {
	t.Helper()

	f, err := groot.Create(fname)
	if err != nil {
		t.Fatalf("could not create %q: %+v", fname, err)
	}
	defer f.Close()

	var (
		row   = make([]float64, len(simBranches))
		wvars = make([]rtree.WriteVar, len(simBranches))
	)
	for i, name := range simBranches {
		wvars[i] = rtree.WriteVar{Name: name, Value: &row[i]}
	}

	w, err := rtree.NewWriter(f, "T", wvars)
	if err != nil {
		t.Fatalf("could not create writer: %+v", err)
	}
	defer w.Close()

	for i := 0; i < n; i++ {
		for j := range row {
			row[j] = float64(i)
		}
		row[len(row)-1] = 0
		if good(i) {
			row[len(row)-1] = 1
		}
		_, err = w.Write()
		if err != nil {
			t.Fatalf("could not write row: %+v", err)
		}
	}

	err = w.Close()
	if err != nil {
		t.Fatalf("could not close writer: %+v", err)
	}
	err = f.Close()
	if err != nil {
		t.Fatalf("could not close file: %+v", err)
	}
}

func TestGroupRuns(t *testing.T) {
	runs, err := groupRuns("g2p", []string{
		"/data/g2p_3133.root",
		"/data/g2p_3132.root",
		"/data/g2p_3132_1.root",
	})
	if err != nil {
		t.Fatalf("could not group runs: %+v", err)
	}
	want := map[int][]string{
		3132: {"/data/g2p_3132.root", "/data/g2p_3132_1.root"},
		3133: {"/data/g2p_3133.root"},
	}
	if !reflect.DeepEqual(runs, want) {
		t.Fatalf("invalid runs:\ngot= %v\nwant=%v", runs, want)
	}
	if got, want := sortedRuns(runs), []int{3132, 3133}; !reflect.DeepEqual(got, want) {
		t.Fatalf("invalid sorted runs: got=%v, want=%v", got, want)
	}

	_, err = groupRuns("g2p", []string{"/data/g2p_3132.cache.root"})
	if err == nil {
		t.Fatalf("expected an error for a cache file")
	}

	_, err = groupRuns("g2p", []string{"/data/sim_3132.root"})
	if !errors.Is(err, rundb.ErrRun) {
		t.Fatalf("invalid error: got=%v, want=%v", err, rundb.ErrRun)
	}
}

func TestExtractSim(t *testing.T) {
	var (
		ctx  = context.Background()
		idir = t.TempDir()
		odir = t.TempDir()
		db   = store{3132: rundb.Missing(3132), 3140: rundb.Missing(3140)}
	)

	even := func(i int) bool { return i%2 == 0 }
	writeSim(t, filepath.Join(idir, "sim_3132.root"), 6, even)
	writeSim(t, filepath.Join(idir, "sim_3132_1.root"), 4, even)
	writeSim(t, filepath.Join(idir, "sim_3140.root"), 5, func(int) bool { return true })

	x := extractor{db: db, odir: odir, sim: true, stop: -1, njobs: 2}
	err := x.run(ctx, []string{
		filepath.Join(idir, "sim_3132.root"),
		filepath.Join(idir, "sim_3132_1.root"),
		filepath.Join(idir, "sim_3140.root"),
	})
	if err != nil {
		t.Fatalf("could not extract runs: %+v", err)
	}

	for _, tc := range []struct {
		run   int
		n     int
		ngen  int64
		delta []float64
	}{
		{3132, 5, 10, []float64{0, 2, 4, 0, 2}},
		{3140, 5, 5, []float64{0, 1, 2, 3, 4}},
	} {
		t.Run(fmt.Sprintf("run-%d", tc.run), func(t *testing.T) {
			s, err := event.LoadSimulation(filepath.Join(odir, fmt.Sprintf("sim_%d.cache.root", tc.run)))
			if err != nil {
				t.Fatalf("could not load cache file: %+v", err)
			}
			if got, want := s.Len(), tc.n; got != want {
				t.Fatalf("invalid number of events: got=%d, want=%d", got, want)
			}
			if got, want := s.N, tc.ngen; got != want {
				t.Fatalf("invalid number of generated events: got=%d, want=%d", got, want)
			}
			if got, want := s.Rec.Delta, tc.delta; !reflect.DeepEqual(got, want) {
				t.Fatalf("invalid delta: got=%v, want=%v", got, want)
			}
		})
	}

	x.stop = 4
	err = x.run(ctx, []string{filepath.Join(idir, "sim_3132.root")})
	if err != nil {
		t.Fatalf("could not extract run with a limit: %+v", err)
	}
	s, err := event.LoadSimulation(filepath.Join(odir, "sim_3132.cache.root"))
	if err != nil {
		t.Fatalf("could not load cache file: %+v", err)
	}
	if got, want := s.Len(), 2; got != want {
		t.Fatalf("invalid number of events: got=%d, want=%d", got, want)
	}

	err = x.run(ctx, []string{filepath.Join(idir, "sim_4000.root")})
	if err == nil {
		t.Fatalf("expected an error for an unknown run")
	}
}
