// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package event holds the columnar event batches of production runs and
// simulations, their cached on-disk format and their ingestion from
// analyzer trees.
package event // import "github.com/go-lpc/g2p/event"

import (
	"errors"
	"fmt"
	"strings"
)

var ErrSchema = errors.New("event: schema mismatch")

// Helicity holds the beam helicity of each event.
type Helicity struct {
	Val []float64
	Err []float64
}

// BPM holds the beam position and direction at the target.
type BPM struct {
	X, Y       []float64
	Theta, Phi []float64
}

// Raster holds the slow raster currents.
type Raster struct {
	X, Y []float64
}

// Gold holds the golden track target-frame kinematics.
type Gold struct {
	Theta, Y, Phi, Delta []float64
}

// Rec holds the reconstructed target-frame kinematics.
// Delta is the relative momentum deviation from the central momentum.
type Rec struct {
	X, Theta, Y, Phi, Delta []float64
}

// Production is a batch of production events.
type Production struct {
	Hel  Helicity
	BPM  BPM
	SR   Raster
	Gold Gold
	Rec  Rec
}

// NewProduction creates a production batch.
// All columns must have the same length.
func NewProduction(hel Helicity, bpm BPM, sr Raster, gold Gold, rec Rec) (*Production, error) {
	p := &Production{Hel: hel, BPM: bpm, SR: sr, Gold: gold, Rec: rec}
	err := checkLen(p.columns())
	if err != nil {
		return nil, fmt.Errorf("event: invalid production batch: %w", err)
	}
	return p, nil
}

// Len returns the number of events in the batch.
func (p *Production) Len() int { return len(p.Rec.Delta) }

func (p *Production) columns() []column {
	return []column{
		{"hel_val", &p.Hel.Val},
		{"hel_err", &p.Hel.Err},
		{"bpm_x", &p.BPM.X},
		{"bpm_y", &p.BPM.Y},
		{"bpm_t", &p.BPM.Theta},
		{"bpm_p", &p.BPM.Phi},
		{"sr_x", &p.SR.X},
		{"sr_y", &p.SR.Y},
		{"gold_t", &p.Gold.Theta},
		{"gold_y", &p.Gold.Y},
		{"gold_p", &p.Gold.Phi},
		{"gold_d", &p.Gold.Delta},
		{"rec_x", &p.Rec.X},
		{"rec_t", &p.Rec.Theta},
		{"rec_y", &p.Rec.Y},
		{"rec_p", &p.Rec.Phi},
		{"rec_d", &p.Rec.Delta},
	}
}

// Simulation is a batch of simulated events.
// N is the number of generated events, accepted or not.
type Simulation struct {
	BPM BPM
	Rec Rec
	XS  []float64 // generator cross section weight
	N   int64
}

// NewSimulation creates a simulation batch.
// All columns must have the same length.
func NewSimulation(bpm BPM, rec Rec, xs []float64, n int64) (*Simulation, error) {
	s := &Simulation{BPM: bpm, Rec: rec, XS: xs, N: n}
	err := checkLen(s.columns())
	if err != nil {
		return nil, fmt.Errorf("event: invalid simulation batch: %w", err)
	}
	if n < int64(s.Len()) {
		return nil, fmt.Errorf(
			"event: invalid simulation batch: %w: %d generated events for %d accepted ones",
			ErrSchema, n, s.Len(),
		)
	}
	return s, nil
}

// Len returns the number of accepted events in the batch.
func (s *Simulation) Len() int { return len(s.Rec.Delta) }

func (s *Simulation) columns() []column {
	return []column{
		{"bpm_x", &s.BPM.X},
		{"bpm_y", &s.BPM.Y},
		{"bpm_t", &s.BPM.Theta},
		{"bpm_p", &s.BPM.Phi},
		{"rec_x", &s.Rec.X},
		{"rec_t", &s.Rec.Theta},
		{"rec_y", &s.Rec.Y},
		{"rec_p", &s.Rec.Phi},
		{"rec_d", &s.Rec.Delta},
		{"xs_val", &s.XS},
	}
}

// column is a named float64 array of a batch.
type column struct {
	name string
	data *[]float64
}

func checkLen(cols []column) error {
	n := len(*cols[0].data)
	for _, col := range cols[1:] {
		if got := len(*col.data); got != n {
			return fmt.Errorf(
				"%w: column %q has %d entries (want %d)",
				ErrSchema, col.name, got, n,
			)
		}
	}
	return nil
}

// Kind is the kind of an event file.
type Kind uint8

const (
	Raw   Kind = iota // analyzer or simulation output tree
	Cache             // cached event batch
)

func (k Kind) String() string {
	switch k {
	case Raw:
		return "raw"
	case Cache:
		return "cache"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Extensions of event files.
const (
	RawExt   = ".root"
	CacheExt = ".cache.root"
)

// KindOf returns the kind of the fname event file.
func KindOf(fname string) (Kind, error) {
	switch {
	case strings.HasSuffix(fname, CacheExt):
		return Cache, nil
	case strings.HasSuffix(fname, RawExt):
		return Raw, nil
	}
	return 0, fmt.Errorf("%w: unknown event file extension %q", ErrSchema, fname)
}

// KindOfAll returns the kind shared by all the provided event files.
func KindOfAll(fnames []string) (Kind, error) {
	if len(fnames) == 0 {
		return 0, fmt.Errorf("%w: no event file", ErrSchema)
	}
	kind, err := KindOf(fnames[0])
	if err != nil {
		return 0, err
	}
	for _, fname := range fnames[1:] {
		k, err := KindOf(fname)
		if err != nil {
			return 0, err
		}
		if k != kind {
			return 0, fmt.Errorf(
				"%w: mixed event file kinds (%v for %q, %v for %q)",
				ErrSchema, kind, fnames[0], k, fname,
			)
		}
	}
	return kind, nil
}
