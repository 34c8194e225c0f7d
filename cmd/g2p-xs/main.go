// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command g2p-xs prints a table of elastic cross sections off a nucleus,
// for a range of scattering angles.
package main // import "github.com/go-lpc/g2p/cmd/g2p-xs"

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/go-lpc/g2p/elastic"
	"gonum.org/v1/gonum/floats"
)

func main() {
	log.SetPrefix("g2p-xs: ")
	log.SetFlags(0)

	var (
		z    = flag.Int("z", 6, "atomic number of the target nucleus")
		a    = flag.Int("a", 12, "mass number of the target nucleus")
		e    = flag.Float64("e", 2.2535, "beam energy (GeV)")
		tmin = flag.Float64("tmin", 5, "minimum scattering angle (deg)")
		tmax = flag.Float64("tmax", 7, "maximum scattering angle (deg)")
		n    = flag.Int("n", 11, "number of scattering angles")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: g2p-xs [OPTIONS]

ex:
 $> g2p-xs -z 2 -a 4 -e 1.1 -tmin 4 -tmax 8 -n 21

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	err := process(os.Stdout, *z, *a, *e, *tmin, *tmax, *n)
	if err != nil {
		log.Fatalf("could not compute cross sections: %+v", err)
	}
}

func process(w io.Writer, z, a int, e, tmin, tmax float64, n int) error {
	if n < 2 || !(tmin < tmax) {
		return fmt.Errorf("invalid angle range [%g, %g] (n=%d)", tmin, tmax, n)
	}

	m, err := elastic.New(z, a)
	if err != nil {
		return fmt.Errorf("could not create elastic model: %w", err)
	}

	var (
		degs = floats.Span(make([]float64, n), tmin, tmax)
		rads = make([]float64, n)
	)
	for i, deg := range degs {
		rads[i] = deg * math.Pi / 180
	}

	xs, err := m.XSs([]float64{e}, rads)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "# Z=%d A=%d M=%.6f GeV E=%g GeV form-factor=%v\n", z, a, m.M, e, m.Strategy())
	fmt.Fprintf(w, "# %8s %12s %14s\n", "theta", "Q2", "xs")
	fmt.Fprintf(w, "# %8s %12s %14s\n", "(deg)", "(GeV^2)", "(ub/sr)")
	for i, theta := range rads {
		var (
			sin2 = math.Pow(math.Sin(theta/2), 2)
			ep   = e / (1 + 2*e/m.M*sin2)
			q2   = 4 * e * ep * sin2
		)
		fmt.Fprintf(w, "%10.4f %12.6e %14.6e\n", degs[i], q2, xs[i])
	}
	return nil
}
