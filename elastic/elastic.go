// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package elastic computes elastic electron-nucleus differential
// cross sections.
package elastic // import "github.com/go-lpc/g2p/elastic"

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-lpc/g2p/formfactor"
	"github.com/go-lpc/g2p/internal/bcast"
	"github.com/go-lpc/g2p/nuclear"
)

var (
	ErrNucleus    = errors.New("elastic: invalid nucleus")
	ErrKinematics = errors.New("elastic: invalid kinematics")
)

// Strategy is the form factor model used for a nucleus.
type Strategy uint8

const (
	PointProton     Strategy = iota // proton Sachs form factors
	DensityIntegral                 // transforms of nuclear radial densities
	GenericFallback                 // empirical gaussian-like form factor
)

func (s Strategy) String() string {
	switch s {
	case PointProton:
		return "point-proton"
	case DensityIntegral:
		return "density-integral"
	case GenericFallback:
		return "generic-fallback"
	default:
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
}

// Model computes elastic cross sections off a given nucleus.
type Model struct {
	Z, A int
	M    float64 // target mass, in GeV

	strategy Strategy

	// density-integral payload. magnet may be nil.
	charge *formfactor.Density
	magnet *formfactor.Density
}

// New creates the elastic model for the (z,a) nucleus.
// The form factor strategy is selected once, from (z,a).
func New(z, a int) (*Model, error) {
	if z < 1 || a < z {
		return nil, fmt.Errorf("%w (Z=%d, A=%d)", ErrNucleus, z, a)
	}

	m := &Model{
		Z: z,
		A: a,
		M: nuclear.Mass(z, a),
	}

	switch (nuclear.Nucleus{Z: z, A: a}) {
	case nuclear.Nucleus{Z: 1, A: 1}:
		m.strategy = PointProton

	case nuclear.Nucleus{Z: 2, A: 4},
		nuclear.Nucleus{Z: 6, A: 12},
		nuclear.Nucleus{Z: 7, A: 14}:
		var err error
		m.strategy = DensityIntegral
		m.charge, err = formfactor.NewDensity(formfactor.Charge, z, a, 0)
		if err != nil {
			return nil, fmt.Errorf("elastic: could not create charge density: %w", err)
		}
		m.magnet, err = formfactor.NewDensity(formfactor.Magnetization, z, a, 0)
		if err != nil {
			return nil, fmt.Errorf("elastic: could not create magnetization density: %w", err)
		}

	default:
		m.strategy = GenericFallback
	}

	return m, nil
}

// Strategy returns the form factor strategy of the model.
func (m *Model) Strategy() Strategy { return m.strategy }

// XS returns the elastic cross section (in µb/sr) for an incident
// energy e (in GeV) and a scattering angle theta (in rad).
func (m *Model) XS(e, theta float64) (float64, error) {
	if !(e > 0) || !(theta > 0 && theta < math.Pi) {
		return 0, fmt.Errorf("%w (E=%g, theta=%g)", ErrKinematics, e, theta)
	}

	var (
		sin2   = math.Pow(math.Sin(theta/2), 2)
		cos2   = 1 - sin2
		recoil = 1 / (1 + 2*e/m.M*sin2)
		ep     = e * recoil
		q2     = 4 * e * ep * sin2
		mott   = math.Pow(float64(m.Z)*nuclear.Alpha/(2*e*sin2), 2) * cos2
	)

	ff, err := m.FormFactor(e, q2)
	if err != nil {
		return 0, err
	}

	return mott * recoil * ff * nuclear.InvGeV2ToMicrobarn, nil
}

// XSs returns the elastic cross sections for the broadcast (e, theta) arrays.
func (m *Model) XSs(e, theta []float64) ([]float64, error) {
	n, err := bcast.Len(e, theta)
	if err != nil {
		return nil, fmt.Errorf("elastic: could not broadcast inputs: %w", err)
	}

	out := make([]float64, n)
	for i := range out {
		out[i], err = m.XS(bcast.At(e, i), bcast.At(theta, i))
		if err != nil {
			return nil, fmt.Errorf("elastic: could not compute xs[%d]: %w", i, err)
		}
	}
	return out, nil
}

// FormFactor returns the form factor contribution entering the cross
// section, for the incident energy e and the momentum transfer q2.
func (m *Model) FormFactor(e, q2 float64) (float64, error) {
	switch m.strategy {
	case PointProton:
		ge := formfactor.ProtonGE(q2)
		gm := formfactor.ProtonGM(q2)
		return m.rosenbluth(e, q2, ge, gm), nil

	case DensityIntegral:
		q := math.Sqrt(q2) / nuclear.HbarC
		var ge, gm float64
		if m.charge != nil {
			v, err := m.charge.FormFactor(q)
			if err != nil {
				return 0, fmt.Errorf("elastic: could not compute charge form factor: %w", err)
			}
			ge = v
		}
		if m.magnet != nil {
			v, err := m.magnet.FormFactor(q)
			if err != nil {
				return 0, fmt.Errorf("elastic: could not compute magnetization form factor: %w", err)
			}
			gm = v
		}
		return m.rosenbluth(e, q2, ge, gm), nil

	case GenericFallback:
		return GenericFormFactor(m.Z, q2), nil
	}
	panic(fmt.Errorf("elastic: unknown strategy %v", m.strategy))
}

// rosenbluth combines the electric and magnetic form factors with the
// virtual photon polarization of the (e, q2) kinematics.
func (m *Model) rosenbluth(e, q2, ge, gm float64) float64 {
	var (
		ep   = e - q2/(2*m.M)
		sin2 = q2 / (4 * e * ep)
		tan2 = sin2 / (1 - sin2)
		tau  = q2 / (4 * m.M * m.M)
		eps  = 1 / (1 + 2*(1+tau)*tan2)
	)
	return (eps*ge*ge + tau*gm*gm) / (eps * (1 + tau))
}
