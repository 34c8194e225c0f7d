// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package formfactor

// Proton Sachs form factors fit, from:
//  S. Venkat et al., Phys. Rev. C 83 (2011) 015203.

const (
	protonMass = 0.938783 // mass used by the fit, in GeV
	protonMu   = 2.792782 // magnetic moment
)

func tau(q2 float64) float64 {
	return q2 / (4 * protonMass * protonMass)
}

// ProtonGE returns the proton electric form factor at q2 (in GeV^2).
func ProtonGE(q2 float64) float64 {
	t := tau(q2)
	num := poly(t, 1, 2.90966, -1.11542229, 3.866171e-2)
	den := poly(t, 1, 14.5187212, 40.88333, 99.999998, 4.579e-5, 10.3580447)
	return num / den
}

// ProtonGM returns the proton magnetic form factor at q2 (in GeV^2).
func ProtonGM(q2 float64) float64 {
	t := tau(q2)
	num := poly(t, 1, -1.43573, 1.19052066, 2.5455841e-1)
	den := poly(t, 1, 9.70703681, 3.7357e-4, 6.0e-8, 9.9527277, 12.7977739)
	return protonMu * num / den
}

// poly evaluates the polynomial with coefficients cs (lowest order first).
func poly(x float64, cs ...float64) float64 {
	v := 0.0
	for i := len(cs) - 1; i >= 0; i-- {
		v = v*x + cs[i]
	}
	return v
}
