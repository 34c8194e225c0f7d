// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command g2p-extract selects the events of analyzer (or simulation)
// output files and stores them, one cache file per run, for later
// analysis.
package main // import "github.com/go-lpc/g2p/cmd/g2p-extract"

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-lpc/g2p/ana"
	"github.com/go-lpc/g2p/event"
	"github.com/go-lpc/g2p/internal/config"
	"github.com/go-lpc/g2p/rundb"
	"golang.org/x/sync/errgroup"
)

var (
	msg = log.New(os.Stdout, "g2p-extract: ", 0)
)

func main() {
	log.SetPrefix("g2p-extract: ")
	log.SetFlags(0)

	var (
		cname = flag.String("cfg", "", "path to YAML analysis configuration")
		odir  = flag.String("o", ".", "output directory for cache files")
		sim   = flag.Bool("sim", false, "input files are simulation files")
		nmax  = flag.Int64("n", -1, "maximum number of entries to read per run (-1: all)")
		njobs = flag.Int("j", 0, "number of runs extracted concurrently (0: from configuration)")
	)

	flag.Usage = func() {
		fmt.Printf(`Usage: g2p-extract [OPTIONS] g2p_RUN.root [g2p_RUN_1.root ...]

ex:
 $> g2p-extract -cfg g2p.yaml -o ./cache ./g2p_3132.root ./g2p_3132_1.root ./g2p_3133.root
 $> g2p-extract -cfg g2p.yaml -sim -o ./cache ./sim_3132.root

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
	if *njobs <= 0 {
		*njobs = cfg.Workers
	}

	db, err := cfg.OpenDB()
	if err != nil {
		log.Fatalf("could not open run database: %+v", err)
	}
	defer db.Close()

	x := extractor{
		db:    rundb.NewCache(db),
		odir:  *odir,
		sim:   *sim,
		stop:  *nmax,
		njobs: *njobs,
	}

	err = x.run(context.Background(), flag.Args())
	if err != nil {
		log.Fatalf("could not extract events: %+v", err)
	}
}

type extractor struct {
	db    ana.Store
	odir  string
	sim   bool
	stop  int64
	njobs int
}

func (x *extractor) prefix() string {
	if x.sim {
		return ana.SimPrefix
	}
	return ana.DataPrefix
}

func (x *extractor) run(ctx context.Context, fnames []string) error {
	runs, err := groupRuns(x.prefix(), fnames)
	if err != nil {
		return err
	}

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(max(x.njobs, 1))

	for _, run := range sortedRuns(runs) {
		run := run
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return x.extract(ctx, run, runs[run])
		})
	}

	return grp.Wait()
}

func (x *extractor) extract(ctx context.Context, run int, fnames []string) error {
	var (
		oname = filepath.Join(x.odir, fmt.Sprintf("%s_%d%s", x.prefix(), run, event.CacheExt))
		opts  = []ana.Option{ana.WithStop(x.stop)}
		n     int
		err   error
	)

	switch {
	case x.sim:
		var s *ana.Sim
		s, err = ana.OpenSim(ctx, x.db, fnames, opts...)
		if err != nil {
			return fmt.Errorf("could not open simulation run %d: %w", run, err)
		}
		n = s.Events.Len()
		err = s.Events.Save(oname)
	default:
		var d *ana.Data
		d, err = ana.OpenData(ctx, x.db, fnames, opts...)
		if err != nil {
			return fmt.Errorf("could not open run %d: %w", run, err)
		}
		n = d.Events.Len()
		err = d.Events.Save(oname)
	}
	if err != nil {
		return fmt.Errorf("could not save run %d: %w", run, err)
	}

	msg.Printf("run %d: %d events from %d files -> %s", run, n, len(fnames), oname)
	return nil
}

// groupRuns groups the raw event files by run number.
func groupRuns(prefix string, fnames []string) (map[int][]string, error) {
	runs := make(map[int][]string)
	for _, fname := range fnames {
		kind, err := event.KindOf(fname)
		if err != nil {
			return nil, err
		}
		if kind != event.Raw {
			return nil, fmt.Errorf("%q is not a raw event file", fname)
		}
		run, err := rundb.RunFromFilename(prefix, fname)
		if err != nil {
			return nil, err
		}
		runs[run] = append(runs[run], fname)
	}
	return runs, nil
}

func sortedRuns(runs map[int][]string) []int {
	o := make([]int, 0, len(runs))
	for run := range runs {
		o = append(o, run)
	}
	sort.Ints(o)
	return o
}
