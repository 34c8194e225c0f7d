// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"fmt"

	"github.com/go-lpc/g2p/event"
	"github.com/go-lpc/g2p/rundb"
)

// Data is a production run with its conditions.
//
// Ref holds the conditions providing efficiencies and beam spot cuts.
// It is the run itself unless the run is normalized against another one,
// as an empty target run against its production run.
type Data struct {
	Events *event.Production
	Cond   *rundb.Conditions
	Ref    *rundb.Conditions

	cuts *Cuts
}

// NewData creates a production run. A nil ref defaults to cond.
func NewData(evts *event.Production, cond, ref *rundb.Conditions) *Data {
	if ref == nil {
		ref = cond
	}
	return &Data{Events: evts, Cond: cond, Ref: ref}
}

// Run returns the run number.
func (d *Data) Run() int { return d.Cond.Run }

// E0 returns the beam energy.
func (d *Data) E0() float64 { return d.Cond.BeamEnergy }

// P0 returns the central momentum of the spectrometer, in MeV.
func (d *Data) P0() float64 { return d.Cond.D1P * 1000 }

// Charge returns the accumulated beam charge of the run.
func (d *Data) Charge() float64 { return d.Cond.Charge }

// SetCuts sets the event selection. A nil cuts accepts all events.
// Production cuts need the y, t and p ranges.
func (d *Data) SetCuts(cuts *Cuts) error {
	if cuts == nil {
		d.cuts = nil
		return nil
	}
	err := cuts.check("y", "t", "p")
	if err != nil {
		return fmt.Errorf("ana: invalid production cuts for run %d: %w", d.Run(), err)
	}
	c := *cuts
	d.cuts = &c
	return nil
}

// Mask returns whether each event passes the cuts.
func (d *Data) Mask() []bool {
	var (
		evts = d.Events
		mask = make([]bool, evts.Len())
	)
	if d.cuts == nil {
		for i := range mask {
			mask[i] = true
		}
		return mask
	}

	var (
		cuts = d.cuts
		cx   = d.Ref.RasterX
		cy   = d.Ref.RasterY
		r    = d.Ref.RasterR * cuts.SR
	)
	for i := range mask {
		dx := evts.SR.X[i] - cx
		dy := evts.SR.Y[i] - cy
		mask[i] = inRange(cuts.Y, evts.Gold.Y[i]) &&
			inRange(cuts.Theta, evts.Rec.Theta[i]) &&
			inRange(cuts.Phi, evts.Rec.Phi[i]) &&
			inRange(cuts.Delta, evts.Rec.Delta[i]) &&
			dx*dx+dy*dy < r*r
	}
	return mask
}

// Nu returns the energy transfer of each event.
func (d *Data) Nu() []float64 {
	return nu(d.E0(), d.P0(), d.Events.Rec.Delta)
}

// Scale returns the yield scale factor of the run.
func (d *Data) Scale() float64 { return ScaleFactor(d.Cond, d.Ref, Total) }

// ScalePlus returns the yield scale factor of the positive helicity events.
func (d *Data) ScalePlus() float64 { return ScaleFactor(d.Cond, d.Ref, Plus) }

// ScaleMinus returns the yield scale factor of the negative helicity events.
func (d *Data) ScaleMinus() float64 { return ScaleFactor(d.Cond, d.Ref, Minus) }

// Sim is a simulation of a run with the conditions of that run.
type Sim struct {
	Events *event.Simulation
	Cond   *rundb.Conditions
	Ref    *rundb.Conditions

	// Space is the generated phase space.
	Space PhaseSpace

	cuts *Cuts
}

// PhaseSpace is the extent of the generated relative momentum and angles.
type PhaseSpace struct {
	Delta, Theta, Phi float64
}

// DefaultPhaseSpace is the phase space of the g2p simulations.
var DefaultPhaseSpace = PhaseSpace{Delta: 0.08, Theta: 0.12, Phi: 0.08}

// Volume returns the phase space volume.
func (ps PhaseSpace) Volume() float64 { return ps.Delta * ps.Theta * ps.Phi }

// NewSim creates a simulation. A nil ref defaults to cond.
func NewSim(evts *event.Simulation, cond, ref *rundb.Conditions) *Sim {
	if ref == nil {
		ref = cond
	}
	return &Sim{Events: evts, Cond: cond, Ref: ref, Space: DefaultPhaseSpace}
}

// Run returns the simulated run number.
func (s *Sim) Run() int { return s.Cond.Run }

// E0 returns the beam energy.
func (s *Sim) E0() float64 { return s.Cond.BeamEnergy }

// P0 returns the central momentum of the spectrometer, in MeV.
func (s *Sim) P0() float64 { return s.Cond.D1P * 1000 }

// SetCuts sets the event selection. A nil cuts accepts all events.
// Simulation cuts need the t and p ranges; the y range is not applied.
func (s *Sim) SetCuts(cuts *Cuts) error {
	if cuts == nil {
		s.cuts = nil
		return nil
	}
	err := cuts.check("t", "p")
	if err != nil {
		return fmt.Errorf("ana: invalid simulation cuts for run %d: %w", s.Run(), err)
	}
	c := *cuts
	s.cuts = &c
	return nil
}

// Mask returns whether each event passes the cuts.
// The beam spot cut is applied on the simulated beam position, in m.
func (s *Sim) Mask() []bool {
	var (
		evts = s.Events
		mask = make([]bool, evts.Len())
	)
	if s.cuts == nil {
		for i := range mask {
			mask[i] = true
		}
		return mask
	}

	const mm = 1e-3
	var (
		cuts = s.cuts
		cx   = s.Ref.SimX * mm
		cy   = s.Ref.SimY * mm
		r    = s.Ref.SimR * cuts.SR * mm
	)
	for i := range mask {
		dx := evts.BPM.X[i] - cx
		dy := evts.BPM.Y[i] - cy
		mask[i] = inRange(cuts.Theta, evts.Rec.Theta[i]) &&
			inRange(cuts.Phi, evts.Rec.Phi[i]) &&
			inRange(cuts.Delta, evts.Rec.Delta[i]) &&
			dx*dx+dy*dy < r*r
	}
	return mask
}

// Nu returns the energy transfer of each event.
func (s *Sim) Nu() []float64 {
	return nu(s.E0(), s.P0(), s.Events.Rec.Delta)
}

func nu(e0, p0 float64, delta []float64) []float64 {
	o := make([]float64, len(delta))
	for i, d := range delta {
		o[i] = e0 - p0*(1+d)
	}
	return o
}
