// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package nuclear holds physical constants and nuclear masses used by the
// g2p cross section models.
package nuclear // import "github.com/go-lpc/g2p/nuclear"

import "math"

// Physical constants, in GeV and fm where dimensionful (CODATA 2018).
const (
	Alpha          = 7.2973525693e-3 // fine-structure constant
	ElectronMass   = 0.51099895000e-3
	ProtonMass     = 0.93827208816
	AtomicMassUnit = 0.93149410242 // atomic mass constant energy equivalent

	HbarC = 0.1973269804 // GeV.fm

	// InvGeV2ToMicrobarn converts GeV^-2 to µb.
	InvGeV2ToMicrobarn = HbarC * HbarC * 1e4
)

// AlphaPi is the fine-structure constant divided by π.
const AlphaPi = Alpha / math.Pi

// Nucleus identifies a nucleus by its atomic (Z) and mass (A) numbers.
type Nucleus struct {
	Z int
	A int
}

// atomic masses, in atomic mass units.
var masses = map[Nucleus]float64{
	{1, 1}:  1.007940,
	{2, 4}:  4.002602,
	{6, 12}: 12.0107,
	{7, 14}: 14.0067,
}

// Mass returns the rest mass (in GeV) of the (z,a) nucleus.
// Nuclei missing from the table are approximated as a atomic mass units.
func Mass(z, a int) float64 {
	if m, ok := masses[Nucleus{z, a}]; ok {
		return m * AtomicMassUnit
	}
	return float64(a) * AtomicMassUnit
}

// Mass returns the rest mass of the nucleus, in GeV.
func (n Nucleus) Mass() float64 { return Mass(n.Z, n.A) }
