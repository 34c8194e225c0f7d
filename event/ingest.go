// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package event

import (
	"errors"
	"fmt"
	"os"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/riofs"
	"go-hep.org/x/hep/groot/rtree"

	"github.com/go-lpc/g2p/rundb"
)

// Selection holds the particle identification thresholds applied
// to analyzer events.
type Selection struct {
	Arm    rundb.Arm
	CerCut float64 // Cherenkov ADC sum
	PR1Cut float64 // first preshower layer energy, in MeV
	SumCut float64 // preshower plus shower energy, in MeV
}

// SelectionFrom returns the event selection of a run.
// Calorimeter thresholds are stored relative to the central momentum.
func SelectionFrom(cond *rundb.Conditions) Selection {
	p0 := cond.D1P * 1000
	return Selection{
		Arm:    cond.Arm(),
		CerCut: cond.CerCut,
		PR1Cut: cond.PR1Cut * p0,
		SumCut: cond.SumCut * p0,
	}
}

// branches returns the names of the selection branches.
func (sel Selection) branches() []string {
	arm := sel.Arm.String()
	calo1, calo2 := arm+".prl1.e", arm+".prl2.e"
	if sel.Arm == rundb.RightArm {
		calo1, calo2 = arm+".ps.e", arm+".sh.e"
	}
	return []string{
		"D" + arm + ".evtypebits",
		arm + ".tr.n",
		arm + ".cer.asum_c",
		calo1,
		calo2,
		arm + "rb.bpmavail",
	}
}

// keep applies the selection to the values of its branches.
func (sel Selection) keep(vs []float64) bool {
	var (
		evtype   = vs[0]
		ntracks  = vs[1]
		cer      = vs[2]
		e1, e2   = vs[3], vs[4]
		bpmavail = vs[5]
	)
	return evtype != 0 &&
		ntracks == 1 &&
		cer > sel.CerCut &&
		e1 > sel.PR1Cut &&
		e1+e2 > sel.SumCut &&
		bpmavail > 0.5
}

type readConfig struct {
	stop int64
}

// ReadOption configures the ingestion of analyzer trees.
type ReadOption func(*readConfig)

// WithStop limits the number of entries read from the input trees.
func WithStop(n int64) ReadOption {
	return func(cfg *readConfig) {
		cfg.stop = n
	}
}

func newReadConfig(opts []ReadOption) readConfig {
	cfg := readConfig{stop: -1}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// ReadProduction reads the production events of the analyzer output
// files that pass the selection. Missing files are skipped.
func ReadProduction(fnames []string, sel Selection, opts ...ReadOption) (*Production, error) {
	cfg := newReadConfig(opts)

	t, closer, err := openChain(fnames)
	if err != nil {
		return nil, err
	}
	defer closer()

	var (
		arm  = sel.Arm.String()
		rb   = arm + "rb."
		p    Production
		dsts = []*[]float64{
			&p.Hel.Val, &p.Hel.Err,
			&p.BPM.X, &p.BPM.Y, &p.BPM.Theta, &p.BPM.Phi,
			&p.SR.X, &p.SR.Y,
			&p.Gold.Theta, &p.Gold.Y, &p.Gold.Phi, &p.Gold.Delta,
			&p.Rec.X, &p.Rec.Theta, &p.Rec.Y, &p.Rec.Phi, &p.Rec.Delta,
		}
		names = []string{
			"hel." + arm + ".hel_act", "hel." + arm + ".error",
			rb + "tgt_0_x", rb + "tgt_0_y", rb + "tgt_0_theta", rb + "tgt_0_phi",
			rb + "Raster.rawcurSL.x", rb + "Raster.rawcurSL.y",
			arm + ".gold.th", arm + ".gold.y", arm + ".gold.ph", arm + ".gold.dp",
			arm + ".rec.x", arm + ".rec.th", arm + ".rec.y", arm + ".rec.ph", arm + ".rec.dp",
		}
	)
	names = append(names, sel.branches()...)

	n := len(dsts)
	err = readColumns(t, names, dsts, func(vs []float64) bool {
		return sel.keep(vs[n:])
	}, cfg.stop)
	if err != nil {
		return nil, fmt.Errorf("event: could not read production events: %w", err)
	}

	return NewProduction(p.Hel, p.BPM, p.SR, p.Gold, p.Rec)
}

// ReadSimulation reads the simulated events of the simulation output
// files flagged as good. Missing files are skipped.
func ReadSimulation(fnames []string, opts ...ReadOption) (*Simulation, error) {
	cfg := newReadConfig(opts)

	t, closer, err := openChain(fnames)
	if err != nil {
		return nil, err
	}
	defer closer()

	var (
		s    Simulation
		dsts = []*[]float64{
			&s.BPM.X, &s.BPM.Y, &s.BPM.Theta, &s.BPM.Phi,
			&s.Rec.X, &s.Rec.Theta, &s.Rec.Y, &s.Rec.Phi, &s.Rec.Delta,
			&s.XS,
		}
		names = []string{
			"bpm.l_x", "bpm.l_y", "bpm.l_t", "bpm.l_p",
			"rec.x", "rec.t", "rec.y", "rec.p", "rec.d",
			"phys.react.xs",
			"isgood",
		}
	)

	n := len(dsts)
	err = readColumns(t, names, dsts, func(vs []float64) bool {
		return vs[n] > 0.5
	}, cfg.stop)
	if err != nil {
		return nil, fmt.Errorf("event: could not read simulated events: %w", err)
	}

	return NewSimulation(s.BPM, s.Rec, s.XS, t.Entries())
}

// openChain chains the event trees of the existing raw files.
func openChain(fnames []string) (rtree.Tree, func(), error) {
	kind, err := KindOfAll(fnames)
	if err != nil {
		return nil, nil, err
	}
	if kind != Raw {
		return nil, nil, fmt.Errorf("%w: expected raw event files", ErrSchema)
	}

	var (
		files []*riofs.File
		trees []rtree.Tree
	)
	closer := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}

	for _, fname := range fnames {
		_, err := os.Stat(fname)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}

		f, err := groot.Open(fname)
		if err != nil {
			closer()
			return nil, nil, fmt.Errorf("event: could not open %q: %w", fname, err)
		}
		files = append(files, f)

		t, err := getTree(f, eventTree)
		if err != nil {
			closer()
			return nil, nil, fmt.Errorf("event: could not load %q: %w", fname, err)
		}
		trees = append(trees, t)
	}

	if len(trees) == 0 {
		return nil, nil, fmt.Errorf("event: no existing input file among %q", fnames)
	}

	return rtree.Chain(trees...), closer, nil
}
