// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command g2p-yield computes the normalized yield or the acceptance
// corrected cross section of a production run, as a function of the
// energy transfer, and writes it as a YODA scatter.
package main // import "github.com/go-lpc/g2p/cmd/g2p-yield"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/go-lpc/g2p"
	"github.com/go-lpc/g2p/ana"
	"github.com/go-lpc/g2p/internal/config"
	"github.com/go-lpc/g2p/rundb"
	"go-hep.org/x/hep/hbook"
)

func main() {
	log.SetPrefix("g2p-yield: ")
	log.SetFlags(0)

	var (
		cname = flag.String("cfg", "", "path to YAML analysis configuration")
		oname = flag.String("o", "out.yoda", "path to output YODA file")
		sims  = flag.String("sim", "", "comma-separated simulation files (enables cross section)")
		empty = flag.String("empty", "", "comma-separated empty target run files to subtract")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: g2p-yield [OPTIONS] g2p_RUN.root [g2p_RUN_1.root ...]

ex:
 $> g2p-yield -cfg g2p.yaml -o yield.yoda ./g2p_3132.cache.root
 $> g2p-yield -cfg g2p.yaml -sim ./sim_3132.cache.root -o xs.yoda ./g2p_3132.cache.root

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing input event files")
	}

	cfg, err := config.Load(*cname)
	if err != nil {
		log.Fatalf("could not load configuration: %+v", err)
	}

	db, err := cfg.OpenDB()
	if err != nil {
		log.Fatalf("could not open run database: %+v", err)
	}
	defer db.Close()

	f, err := os.Create(*oname)
	if err != nil {
		log.Fatalf("could not create output file: %+v", err)
	}
	defer f.Close()

	err = process(
		context.Background(), rundb.NewCache(db), cfg, f,
		flag.Args(), split(*sims), split(*empty),
	)
	if err != nil {
		log.Fatalf("could not process run: %+v", err)
	}

	err = f.Close()
	if err != nil {
		log.Fatalf("could not close output file: %+v", err)
	}
}

func split(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func process(ctx context.Context, db ana.Store, cfg *config.Config, w io.Writer, data, sims, empty []string) error {
	if len(sims) > 0 && len(empty) > 0 {
		return fmt.Errorf("empty target subtraction only applies to yields")
	}

	var opts []ana.Option
	if cfg.Ref >= 0 {
		opts = append(opts, ana.WithRef(cfg.Ref))
	}

	cuts, err := cfg.AnaCuts()
	if err != nil {
		return err
	}

	d, err := ana.OpenData(ctx, db, data, opts...)
	if err != nil {
		return fmt.Errorf("could not open production run: %w", err)
	}
	err = d.SetCuts(cuts)
	if err != nil {
		return err
	}

	var (
		b    = cfg.AnaBinning()
		sp   *ana.Spectrum
		name string
	)
	switch {
	case len(sims) > 0:
		name = fmt.Sprintf("/g2p/%d/xs", d.Run())
		s, err := ana.OpenSim(ctx, db, sims, opts...)
		if err != nil {
			return fmt.Errorf("could not open simulation: %w", err)
		}
		err = s.SetCuts(cuts)
		if err != nil {
			return err
		}
		acc, err := s.Acceptance(s.Nu(), b)
		if err != nil {
			return fmt.Errorf("could not compute acceptance: %w", err)
		}
		sp, err = d.CrossSection(acc, cfg.Poly, cfg.AnaTarget(), b)
		if err != nil {
			return fmt.Errorf("could not compute cross section: %w", err)
		}

	case len(empty) > 0:
		name = fmt.Sprintf("/g2p/%d/yield", d.Run())
		// the empty target run shares the efficiencies and beam spot of the
		// production run it is subtracted from.
		eopts := append(opts[:len(opts):len(opts)], ana.WithRef(d.Run()))
		e, err := ana.OpenData(ctx, db, empty, eopts...)
		if err != nil {
			return fmt.Errorf("could not open empty target run: %w", err)
		}
		err = e.SetCuts(cuts)
		if err != nil {
			return err
		}
		sp, err = ana.Subtract(d, e, b)
		if err != nil {
			return fmt.Errorf("could not subtract empty target yield: %w", err)
		}

	default:
		name = fmt.Sprintf("/g2p/%d/yield", d.Run())
		sp, err = d.Yield(b)
		if err != nil {
			return fmt.Errorf("could not compute yield: %w", err)
		}
	}

	return writeYODA(w, name, sp)
}

func writeYODA(w io.Writer, name string, sp *ana.Spectrum) error {
	var (
		xs  = sp.Binning.Centers()
		dx  = 0.5 * sp.Binning.Width()
		pts = make([]hbook.Point2D, len(xs))
	)
	for i, x := range xs {
		pts[i] = hbook.Point2D{
			X:    x,
			Y:    sp.Values[i],
			ErrX: hbook.Range{Min: dx, Max: dx},
			ErrY: hbook.Range{Min: sp.Errs[i], Max: sp.Errs[i]},
		}
	}

	s2 := hbook.NewS2D(pts...)
	s2.Annotation()["name"] = name
	if v, _ := g2p.Version(); v != "" {
		s2.Annotation()["g2p-version"] = v
	}

	raw, err := s2.MarshalYODA()
	if err != nil {
		return fmt.Errorf("could not marshal %q to YODA: %w", name, err)
	}
	_, err = w.Write(raw)
	if err != nil {
		return fmt.Errorf("could not write %q: %w", name, err)
	}
	return nil
}
