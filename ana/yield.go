// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"fmt"
	"math"
)

const (
	Avogadro       = 6.023e23        // 1/mol
	ElectronCharge = 1.602176487e-13 // µC

	// XSFactor converts cm^2/(sr.MeV) to µb/(sr.GeV).
	XSFactor = 1e33
)

// Target describes the scattering target.
type Target struct {
	Length   float64 // cm
	Density  float64 // g/cm^3
	Molar    float64 // g/mol
	Dilution float64 // fraction of the yield from the nuclei of interest
}

// Luminosity returns the integrated luminosity, in cm^-2, of a beam
// charge in µC.
func (tgt Target) Luminosity(charge float64) float64 {
	return charge / ElectronCharge * tgt.Density / tgt.Molar * Avogadro * tgt.Length
}

// Spectrum is a binned distribution with its statistical errors.
type Spectrum struct {
	Binning Binning
	Values  []float64
	Errs    []float64
}

// Yield returns the selected energy transfer spectrum of the run,
// scaled by its normalization factor and divided by its beam charge.
func (d *Data) Yield(b Binning) (*Spectrum, error) {
	h, err := Hist(d.Nu(), d.Mask(), nil, b)
	if err != nil {
		return nil, fmt.Errorf("ana: could not fill yield of run %d: %w", d.Run(), err)
	}

	var (
		scale = d.Scale() / d.Charge()
		vs    = counts(h)
		es    = make([]float64, len(vs))
	)
	for i, v := range vs {
		es[i] = math.Sqrt(v) * scale
		vs[i] = v * scale
	}
	return &Spectrum{Binning: b, Values: vs, Errs: es}, nil
}

// Subtract returns the yield of the production run with the yield of the
// empty target run removed, both normalized by their beam charge.
func Subtract(prod, empty *Data, b Binning) (*Spectrum, error) {
	p, err := prod.Yield(b)
	if err != nil {
		return nil, err
	}
	e, err := empty.Yield(b)
	if err != nil {
		return nil, err
	}

	o := &Spectrum{
		Binning: b,
		Values:  make([]float64, b.Bins),
		Errs:    make([]float64, b.Bins),
	}
	for i := range o.Values {
		o.Values[i] = p.Values[i] - e.Values[i]
		o.Errs[i] = math.Hypot(p.Errs[i], e.Errs[i])
	}
	return o, nil
}

// CrossSection returns the energy transfer cross section spectrum of the
// run, corrected by the bin acceptances acc, and weighted by the momentum
// correction poly (highest order first, see PolyWeight).
// Errors are the relative statistical errors of the raw counts.
func (d *Data) CrossSection(acc []float64, poly []float64, tgt Target, b Binning) (*Spectrum, error) {
	if len(acc) != b.Bins {
		return nil, fmt.Errorf("%w: %d acceptance bins for %d bins", ErrConfig, len(acc), b.Bins)
	}

	var (
		mask = d.Mask()
		nu   = d.Nu()
		w    []float64
	)
	if len(poly) > 0 {
		w = PolyWeight(d.Events.Rec.Delta, poly)
	}

	hw, err := Hist(nu, mask, w, b)
	if err != nil {
		return nil, fmt.Errorf("ana: could not fill weighted yield of run %d: %w", d.Run(), err)
	}
	hn, err := Hist(nu, mask, nil, b)
	if err != nil {
		return nil, fmt.Errorf("ana: could not fill yield of run %d: %w", d.Run(), err)
	}

	var (
		vs    = counts(hw)
		ns    = entries(hn)
		es    = make([]float64, len(vs))
		scale = d.Scale() / tgt.Luminosity(d.Charge()) * XSFactor * tgt.Dilution
	)
	for i := range vs {
		vs[i] *= scale / acc[i]
		if ns[i] > 0 {
			es[i] = vs[i] / math.Sqrt(float64(ns[i]))
		}
	}
	return &Spectrum{Binning: b, Values: vs, Errs: es}, nil
}

// PolyWeight evaluates the polynomial with coefficients coeffs, highest
// order first, at each x.
func PolyWeight(xs, coeffs []float64) []float64 {
	o := make([]float64, len(xs))
	for i, x := range xs {
		v := 0.0
		for _, c := range coeffs {
			v = v*x + c
		}
		o[i] = v
	}
	return o
}
