// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formfactor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-lpc/g2p/internal/quadk"
	"github.com/go-lpc/g2p/nuclear"
)

// RadiusCutoff is the upper radius (in fm) of all density integrals.
const RadiusCutoff = 20.0

var ErrParamSet = errors.New("formfactor: invalid parameter set")

// Component selects the charge or magnetization density of a nucleus.
type Component uint8

const (
	Charge Component = iota
	Magnetization
)

func (c Component) String() string {
	switch c {
	case Charge:
		return "charge"
	case Magnetization:
		return "magnetization"
	default:
		return fmt.Sprintf("Component(%d)", uint8(c))
	}
}

// Kind is the functional form of a radial density.
type Kind uint8

const (
	ThreeParamFermi            Kind = iota // 3pF
	HarmonicOscillator                     // HO
	ModifiedHarmonicOscillator             // MHO
)

func (k Kind) String() string {
	switch k {
	case ThreeParamFermi:
		return "3pF"
	case HarmonicOscillator:
		return "HO"
	case ModifiedHarmonicOscillator:
		return "MHO"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParamSet is a radial density parametrization.
// W is only used by the 3pF form.
// [QMin, QMax] is the momentum transfer range (in fm^-1) the
// parametrization was fitted to.
type ParamSet struct {
	Kind    Kind
	C, Z, W float64
	QMin    float64
	QMax    float64
}

// Rho returns the (unnormalized) density at radius r (in fm).
func (p ParamSet) Rho(r float64) float64 {
	x := r / p.C
	switch p.Kind {
	case ThreeParamFermi:
		return (1 + p.W*x*x) / (1 + math.Exp((r-p.C)/p.Z))
	default:
		return (1 + p.Z*x*x) * math.Exp(-x*x)
	}
}

// De Jager, De Vries and De Vries, At. Data Nucl. Data Tables 14 (1974) 479.
var (
	chargeSets = map[nuclear.Nucleus][]ParamSet{
		{Z: 2, A: 4}: {
			{Kind: ThreeParamFermi, C: 0.964, Z: 0.322, W: 0.517, QMin: 0.59, QMax: 2.5},
			{Kind: ThreeParamFermi, C: 1.008, Z: 0.327, W: 0.445, QMin: 0.7, QMax: 4.47},
		},
		{Z: 6, A: 12}: {
			{Kind: ThreeParamFermi, C: 2.355, Z: 0.5224, W: -0.149, QMin: 0.25, QMax: 2.3},
			{Kind: ModifiedHarmonicOscillator, C: 1.649, Z: 1.247, QMin: 1.05, QMax: 4.01},
			{Kind: HarmonicOscillator, C: 1.687, Z: 1.067, QMin: 0.18, QMax: 0.70},
			{Kind: ModifiedHarmonicOscillator, C: 1.672, Z: 1.150, QMin: 1.04, QMax: 2.15},
			{Kind: HarmonicOscillator, C: 1.692, Z: 1.082, QMin: 0.29, QMax: 0.48},
		},
		{Z: 7, A: 14}: {
			{Kind: HarmonicOscillator, C: 1.76, Z: 1.234, QMin: 0.86, QMax: 1.62},
			{Kind: HarmonicOscillator, C: 1.729, Z: 1.291, QMin: 0.29, QMax: 0.46},
		},
	}

	// magnetSets holds the magnetization densities.
	// The N14 harmonic oscillator set is used on purpose: the legacy g2p
	// analysis lost it to a missing separator in its table and computed N14
	// without magnetization, so N14 cross sections differ from its values.
	magnetSets = map[nuclear.Nucleus][]ParamSet{
		{Z: 7, A: 14}: {
			{Kind: HarmonicOscillator, C: 1.61, Z: 0.404, QMin: 1.00, QMax: 1.80},
		},
	}
)

// ParamSets returns the parametrizations available for the (z,a) nucleus.
func ParamSets(comp Component, z, a int) []ParamSet {
	key := nuclear.Nucleus{Z: z, A: a}
	switch comp {
	case Charge:
		return chargeSets[key]
	case Magnetization:
		return magnetSets[key]
	}
	return nil
}

// Density is a normalized radial density of a nucleus.
type Density struct {
	comp Component
	pars ParamSet
	norm float64 // int_0^R rho(r) r^2 dr
}

// NewDensity creates the id-th density parametrization of the (z,a) nucleus.
// NewDensity returns a nil density (and no error) when the nucleus has no
// parametrization for that component.
func NewDensity(comp Component, z, a, id int) (*Density, error) {
	sets := ParamSets(comp, z, a)
	if len(sets) == 0 {
		return nil, nil
	}
	if id < 0 || id >= len(sets) {
		return nil, fmt.Errorf(
			"%w: %v density of (Z=%d, A=%d) has no set #%d (n=%d)",
			ErrParamSet, comp, z, a, id, len(sets),
		)
	}

	dens := &Density{comp: comp, pars: sets[id]}
	res, err := quadk.Integrate(func(r float64) float64 {
		return dens.pars.Rho(r) * r * r
	}, 0, RadiusCutoff, quadOpts())
	if err != nil {
		return nil, fmt.Errorf("formfactor: could not normalize %v density: %w", comp, err)
	}
	dens.norm = res.Value
	return dens, nil
}

func quadOpts() quadk.Options {
	return quadk.Options{Abs: 1.49e-8, Rel: 1.49e-8, MaxEval: 21 * 200}
}

func (dens *Density) Component() Component { return dens.comp }
func (dens *Density) Params() ParamSet     { return dens.pars }

// Norm returns the zero momentum normalization of the density.
func (dens *Density) Norm() float64 { return dens.norm }

// Rho returns the unnormalized density at radius r (in fm).
func (dens *Density) Rho(r float64) float64 { return dens.pars.Rho(r) }

// FormFactor returns the Fourier transform of the density at the
// momentum transfer q (in fm^-1), normalized to 1 at q=0.
func (dens *Density) FormFactor(q float64) (float64, error) {
	q = math.Abs(q)
	res, err := quadk.Integrate(func(r float64) float64 {
		return dens.pars.Rho(r) * r * sinc(r, q) / dens.norm
	}, 0, RadiusCutoff, quadOpts())
	if err != nil {
		return 0, fmt.Errorf("formfactor: could not transform %v density (q=%g): %w", dens.comp, q, err)
	}
	return res.Value, nil
}

// FormFactors returns the form factor for each momentum transfer of qs.
func (dens *Density) FormFactors(qs []float64) ([]float64, error) {
	out := make([]float64, len(qs))
	for i, q := range qs {
		v, err := dens.FormFactor(q)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// sinc returns sin(r*q)/q, continued to r at q=0.
func sinc(r, q float64) float64 {
	if q == 0 {
		return r
	}
	return math.Sin(r*q) / q
}
