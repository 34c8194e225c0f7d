// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"context"
	"fmt"

	"github.com/go-lpc/g2p/event"
	"github.com/go-lpc/g2p/rundb"
)

// File name prefixes of production and simulation files.
const (
	DataPrefix = "g2p"
	SimPrefix  = "sim"
)

// Store provides the conditions of runs.
type Store interface {
	Conditions(ctx context.Context, run int) (*rundb.Conditions, error)
}

type config struct {
	ref  int
	stop int64
}

// Option configures how runs are opened.
type Option func(*config)

// WithRef normalizes the run against the conditions of the ref run.
func WithRef(run int) Option {
	return func(cfg *config) {
		cfg.ref = run
	}
}

// WithStop limits the number of entries read from raw event files.
func WithStop(n int64) Option {
	return func(cfg *config) {
		cfg.stop = n
	}
}

func newConfig(opts []Option) config {
	cfg := config{ref: -1, stop: -1}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// conditions returns the conditions of the run of fnames, and of the
// reference run.
func conditions(ctx context.Context, db Store, prefix string, fnames []string, cfg config) (kind event.Kind, cond, ref *rundb.Conditions, err error) {
	kind, err = event.KindOfAll(fnames)
	if err != nil {
		return kind, nil, nil, err
	}
	if kind == event.Cache && len(fnames) != 1 {
		return kind, nil, nil, fmt.Errorf("%w: %d cache files (want 1)", ErrConfig, len(fnames))
	}

	run, err := rundb.RunFromFilename(prefix, fnames[0])
	if err != nil {
		return kind, nil, nil, err
	}

	cond, err = db.Conditions(ctx, run)
	if err != nil {
		return kind, nil, nil, fmt.Errorf("ana: could not retrieve conditions of run %d: %w", run, err)
	}

	ref = cond
	if cfg.ref >= 0 {
		ref, err = db.Conditions(ctx, cfg.ref)
		if err != nil {
			return kind, nil, nil, fmt.Errorf("ana: could not retrieve conditions of reference run %d: %w", cfg.ref, err)
		}
	}
	return kind, cond, ref, nil
}

// OpenData opens the production run stored in the fnames event files:
// either analyzer output files or a single cache file.
func OpenData(ctx context.Context, db Store, fnames []string, opts ...Option) (*Data, error) {
	cfg := newConfig(opts)
	kind, cond, ref, err := conditions(ctx, db, DataPrefix, fnames, cfg)
	if err != nil {
		return nil, err
	}

	var evts *event.Production
	switch kind {
	case event.Raw:
		var ropts []event.ReadOption
		if cfg.stop >= 0 {
			ropts = append(ropts, event.WithStop(cfg.stop))
		}
		evts, err = event.ReadProduction(fnames, event.SelectionFrom(cond), ropts...)
	case event.Cache:
		evts, err = event.LoadProduction(fnames[0])
	}
	if err != nil {
		return nil, fmt.Errorf("ana: could not load events of run %d: %w", cond.Run, err)
	}

	return NewData(evts, cond, ref), nil
}

// OpenSim opens the simulation stored in the fnames event files:
// either simulation output files or a single cache file.
func OpenSim(ctx context.Context, db Store, fnames []string, opts ...Option) (*Sim, error) {
	cfg := newConfig(opts)
	kind, cond, ref, err := conditions(ctx, db, SimPrefix, fnames, cfg)
	if err != nil {
		return nil, err
	}

	var evts *event.Simulation
	switch kind {
	case event.Raw:
		var ropts []event.ReadOption
		if cfg.stop >= 0 {
			ropts = append(ropts, event.WithStop(cfg.stop))
		}
		evts, err = event.ReadSimulation(fnames, ropts...)
	case event.Cache:
		evts, err = event.LoadSimulation(fnames[0])
	}
	if err != nil {
		return nil, fmt.Errorf("ana: could not load simulated events of run %d: %w", cond.Run, err)
	}

	return NewSim(evts, cond, ref), nil
}
