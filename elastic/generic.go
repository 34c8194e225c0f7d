// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package elastic

import (
	"math"

	"github.com/go-lpc/g2p/nuclear"
)

// FormFactorFloor is the lowest value returned by GenericFormFactor.
const FormFactorFloor = 1e-6

// carbon diffraction minimum, in fm^-2.
const (
	carbonLo = 3.2
	carbonHi = 3.5
)

// GenericFormFactor returns the empirical form factor of a Z nucleus
// at the momentum transfer q2 (in GeV^2).
//
// For carbon, the shape parameter differs on both sides of the second
// diffraction minimum; inside [3.2, 3.5] fm^-2 the form factor has no
// tabulated value and only the floor contributes.
func GenericFormFactor(z int, q2 float64) float64 {
	var (
		xalpha = float64(z-2) / 3
		q2fm   = q2 / (nuclear.HbarC * nuclear.HbarC)
		xa     = 1.64
	)

	if z == 6 {
		switch {
		case q2fm < carbonLo:
			xa = 1.64
		case q2fm > carbonHi:
			xa = 1.68
		default:
			return FormFactorFloor
		}
	}

	v := 1 - xalpha/(2*(2+3*xalpha))*q2fm*xa*xa
	v *= math.Exp(-(q2fm * xa * xa) / 4)

	if !(v >= FormFactorFloor) {
		return FormFactorFloor
	}
	return v
}
