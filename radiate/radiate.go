// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package radiate computes radiated cross sections from non-radiated ones,
// following the internal and external bremsstrahlung treatment of
// Mo and Tsai, as laid out by S. Stein et al., Phys. Rev. D 12 (1975) 1884.
package radiate // import "github.com/go-lpc/g2p/radiate"

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/go-lpc/g2p/internal/bcast"
	"github.com/go-lpc/g2p/internal/quadk"
	"github.com/go-lpc/g2p/nuclear"
)

var ErrKinematics = errors.New("radiate: invalid kinematics")

// Func is a non-radiated cross section, for a (z,a) target,
// an incident energy e, a scattered energy ep and a scattering angle theta.
// An error aborts the radiative computation of the tuple being evaluated.
type Func func(z, a int, e, ep, theta float64) (float64, error)

// DefaultCutoff is the default low-energy resolution cutoff, in GeV.
const DefaultCutoff = 0.01

type config struct {
	cutoff  float64
	tol     float64
	workers int
}

func newConfig() config {
	return config{
		cutoff:  DefaultCutoff,
		tol:     quadk.Default().Rel,
		workers: 1,
	}
}

// Option configures the radiative computation.
type Option func(*config)

// WithCutoff sets the low-energy resolution cutoff, in GeV.
func WithCutoff(de float64) Option {
	return func(cfg *config) {
		cfg.cutoff = de
	}
}

// WithTolerance sets the relative tolerance of the numerical integrations.
func WithTolerance(rel float64) Option {
	return func(cfg *config) {
		cfg.tol = rel
	}
}

// WithWorkers sets the number of goroutines sharing the kinematic tuples.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		if n < 1 {
			n = 1
		}
		cfg.workers = n
	}
}

// XS returns the radiated cross sections of f, for each broadcast
// (e, ep, theta) tuple, with tb and ta the radiation lengths before and
// after the scattering vertex.
//
// Non-positive energies, angles outside (0, pi) and scattered energies beyond
// the kinematic limit of the target are ErrKinematics.
// A radiation direction without phase space contributes nothing.
func XS(f Func, z, a int, e, ep, theta []float64, tb, ta float64, opts ...Option) ([]float64, error) {
	cfg := newConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case f == nil:
		return nil, fmt.Errorf("radiate: nil cross section function")
	case z < 1 || a < z:
		return nil, fmt.Errorf("radiate: invalid nucleus (Z=%d, A=%d)", z, a)
	case !(cfg.cutoff > 0):
		return nil, fmt.Errorf("radiate: invalid cutoff %g", cfg.cutoff)
	case !(cfg.tol > 0):
		return nil, fmt.Errorf("radiate: invalid tolerance %g", cfg.tol)
	case tb < 0 || ta < 0:
		return nil, fmt.Errorf("radiate: invalid radiation lengths (tb=%g, ta=%g)", tb, ta)
	}

	n, err := bcast.Len(e, ep, theta)
	if err != nil {
		return nil, fmt.Errorf("radiate: could not broadcast inputs: %w", err)
	}

	rad := newRadiator(f, z, a, tb, ta, cfg)
	out := make([]float64, n)
	eval := func(i int) error {
		var (
			ei  = bcast.At(e, i)
			epi = bcast.At(ep, i)
			thi = bcast.At(theta, i)
		)
		v, err := rad.xs(ei, epi, thi)
		if err != nil {
			return fmt.Errorf(
				"radiate: could not compute xs[%d] (E=%g, E'=%g, theta=%g): %w",
				i, ei, epi, thi, err,
			)
		}
		out[i] = v
		return nil
	}

	if cfg.workers == 1 {
		for i := range out {
			err := eval(i)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	var grp errgroup.Group
	grp.SetLimit(cfg.workers)
	for i := range out {
		i := i
		grp.Go(func() error { return eval(i) })
	}
	err = grp.Wait()
	if err != nil {
		return nil, err
	}
	return out, nil
}

// radiator holds the per-call constants of the radiative computation.
// It is read-only once created.
type radiator struct {
	f      Func
	z, a   int
	mt     float64 // target mass
	de     float64 // resolution cutoff
	b      float64
	tb, ta float64
	t      float64
	xi     float64
	quad   quadk.Options
}

func newRadiator(f Func, z, a int, tb, ta float64, cfg config) *radiator {
	var (
		zf     = float64(z)
		logz13 = math.Log(183 * math.Pow(zf, -1.0/3))
		eta    = math.Log(1440*math.Pow(zf, -2.0/3)) / logz13
		t      = tb + ta
	)
	quad := quadk.Default()
	quad.Rel = cfg.tol
	return &radiator{
		f:    f,
		z:    z,
		a:    a,
		mt:   nuclear.Mass(z, a),
		de:   cfg.cutoff,
		b:    4.0 / 3 * (1 + 1.0/9*((zf+1)/(zf+eta))/logz13),
		tb:   tb,
		ta:   ta,
		t:    t,
		xi:   nuclear.ElectronMass / (2 * nuclear.AlphaPi) * t / ((zf + eta) * logz13),
		quad: quad,
	}
}

// tuple holds the per-tuple kinematic quantities.
type tuple struct {
	es, ep, theta float64
	sin2          float64
	r             float64
	tr            float64 // equivalent radiator of the vertex
	ff            float64 // vertex and vacuum correction
}

func (rad *radiator) tuple(es, ep, theta float64) (tuple, error) {
	if !(es > 0) || !(ep > 0) || !(theta > 0 && theta < math.Pi) {
		return tuple{}, ErrKinematics
	}

	var (
		sin2 = math.Pow(math.Sin(theta/2), 2)
		q2   = 4 * es * ep * sin2
		den  = rad.mt - 2*ep*sin2
	)
	if !(den > 0) {
		return tuple{}, fmt.Errorf("%w: scattered energy beyond the kinematic limit", ErrKinematics)
	}

	var (
		me2  = nuclear.ElectronMass * nuclear.ElectronMass
		lq2  = math.Log(q2 / me2)
		lees = math.Log(es / ep)
		tr   = nuclear.AlphaPi * (lq2 - 1) / rad.b
		ff   = 1 + 0.5772*rad.b*rad.t
	)
	ff += 2 * nuclear.AlphaPi * (-14.0/9 + 13.0/12*lq2)
	ff -= nuclear.AlphaPi / 2 * lees * lees
	ff += nuclear.AlphaPi * (pi2o6 - Spence(sin2))

	return tuple{
		es:    es,
		ep:    ep,
		theta: theta,
		sin2:  sin2,
		r:     (rad.mt + 2*es*sin2) / den,
		tr:    tr,
		ff:    ff,
	}, nil
}

func phi(v float64) float64 { return 1 - v + 0.75*v*v }

func (rad *radiator) xs(es, ep, theta float64) (float64, error) {
	k, err := rad.tuple(es, ep, theta)
	if err != nil {
		return 0, err
	}

	// first error of f inside an integrand; the integrand then returns NaN
	// to stop the integration.
	var ferr error
	f := func(e1, ep1 float64) float64 {
		v, err := rad.f(rad.z, rad.a, e1, ep1, theta)
		if err != nil {
			if ferr == nil {
				ferr = err
			}
			return math.NaN()
		}
		return v
	}
	integrate := func(g func(float64) float64, lo, hi float64) (float64, error) {
		// no phase space for radiation in this direction.
		if !(lo < hi) {
			return 0, nil
		}
		res, err := quadk.Integrate(g, lo, hi, rad.quad)
		if ferr != nil {
			return 0, fmt.Errorf("could not evaluate cross section: %w", ferr)
		}
		if err != nil {
			return 0, err
		}
		return res.Value, nil
	}

	f0, err := rad.f(rad.z, rad.a, es, ep, theta)
	if err != nil {
		return 0, fmt.Errorf("could not evaluate cross section: %w", err)
	}

	var (
		b   = rad.b
		de  = rad.de
		btb = b * (rad.tb + k.tr)
		bta = b * (rad.ta + k.tr)
	)

	// radiation-free peak.
	term1 := math.Pow(k.r*de/es, btb) * math.Pow(de/ep, bta)
	term1 *= 1 - rad.xi/de/(1-b*(rad.t+2*k.tr))
	term1 *= k.ff * f0

	// radiation before the vertex.
	term2, err := integrate(func(esp float64) float64 {
		d := es - esp
		v := math.Pow(d/(ep*k.r), bta) * math.Pow(d/es, btb)
		v *= btb/d*phi(d/es) + rad.xi/(2*d*d)
		return v * k.ff * f(esp, ep)
	}, ep/(1-2*ep*k.sin2/rad.mt), es-k.r*de)
	if err != nil {
		return 0, fmt.Errorf("could not integrate incident energy loss: %w", err)
	}

	// radiation after the vertex.
	term3, err := integrate(func(epp float64) float64 {
		d := epp - ep
		v := math.Pow(d/epp, bta) * math.Pow(d*k.r/es, btb)
		v *= bta/d*phi(d/epp) + rad.xi/(2*d*d)
		return v * k.ff * f(es, epp)
	}, ep+de, es/(1+2*es*k.sin2/rad.mt))
	if err != nil {
		return 0, fmt.Errorf("could not integrate scattered energy loss: %w", err)
	}

	return term1 + term2 + term3, nil
}
