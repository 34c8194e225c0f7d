// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command g2p-rundb displays the conditions of runs stored in the g2p run
// database.
package main // import "github.com/go-lpc/g2p/cmd/g2p-rundb"

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/go-lpc/g2p/internal/config"
	"github.com/go-lpc/g2p/rundb"
)

type querier interface {
	Lookup(ctx context.Context, run int, column string) (any, error)
	Conditions(ctx context.Context, run int) (*rundb.Conditions, error)
}

func main() {
	log.SetPrefix("g2p-rundb: ")
	log.SetFlags(0)

	var (
		cname = flag.String("cfg", "", "path to YAML analysis configuration")
		cols  = flag.String("col", "", "comma-separated raw columns to display")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: g2p-rundb [OPTIONS] RUN [RUN ...]

ex:
 $> g2p-rundb -cfg g2p.yaml 3132 22545
 $> g2p-rundb -cfg g2p.yaml -col Energy,QTotal 3132

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("missing run number")
	}

	runs := make([]int, flag.NArg())
	for i, arg := range flag.Args() {
		run, err := strconv.Atoi(arg)
		if err != nil {
			log.Fatalf("invalid run number %q: %+v", arg, err)
		}
		runs[i] = run
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

	var columns []string
	if *cols != "" {
		columns = strings.Split(*cols, ",")
	}

	ctx := context.Background()
	for _, run := range runs {
		err = doQuery(ctx, os.Stdout, db, run, columns)
		if err != nil {
			log.Fatalf("could not do query for run %d: %+v", run, err)
		}
	}
}

func doQuery(ctx context.Context, w io.Writer, db querier, run int, columns []string) error {
	fmt.Fprintf(w, "run %d (arm=%v, table=%s)\n", run, rundb.ArmOf(run), rundb.Table(run))

	if len(columns) > 0 {
		for _, col := range columns {
			v, err := db.Lookup(ctx, run, col)
			if err != nil {
				return fmt.Errorf("could not lookup %q: %w", col, err)
			}
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			fmt.Fprintf(w, "  %-16s %v\n", col, v)
		}
		return nil
	}

	cond, err := db.Conditions(ctx, run)
	if err != nil {
		return fmt.Errorf("could not retrieve conditions: %w", err)
	}

	ps := cond.PS3
	if cond.Arm() == rundb.RightArm {
		ps = cond.PS1
	}

	for _, v := range []struct {
		name string
		val  any
	}{
		{"quality", cond.RunQuality},
		{"energy", cond.BeamEnergy},
		{"d1p", cond.D1P},
		{"target", cond.TargetCup},
		{"charge", cond.Charge},
		{"prescale", ps},
		{"deadtime", cond.Deadtime},
		{"trigger-eff", cond.TriggerEff},
		{"1-track-eff", cond.OneTrackEff},
		{"all-track-eff", cond.AllTrackEff},
		{"cer-eff", cond.CerEff},
		{"pr-eff", cond.PREff},
		{"raster", [3]float64{cond.RasterX, cond.RasterY, cond.RasterR}},
		{"comment", cond.ExpertComment},
	} {
		fmt.Fprintf(w, "  %-16s %v\n", v.name, v.val)
	}
	return nil
}
