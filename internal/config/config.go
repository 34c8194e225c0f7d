// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the configuration of the g2p analysis commands.
//
// A configuration is built from the defaults of New, overridden by an
// optional YAML file, overridden by G2P_ environment variables.
// Nested keys are separated by a double underscore in variable names,
// e.g. G2P_DB__HOST sets db.host.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-lpc/g2p/ana"
	"github.com/go-lpc/g2p/radiate"
	"github.com/go-lpc/g2p/rundb"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "G2P_"

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the analysis configuration.
type Config struct {
	DB      DB                   `koanf:"db"`
	Cuts    map[string][]float64 `koanf:"cuts"`
	SR      float64              `koanf:"sr"`      // beam spot radius scale
	Ref     int                  `koanf:"ref"`     // reference run, -1 for none
	Binning Binning              `koanf:"binning"` // energy transfer binning, in MeV
	Target  Target               `koanf:"target"`
	Poly    []float64            `koanf:"poly"` // momentum weight, highest order first
	Radiate Radiate              `koanf:"radiate"`
	Workers int                  `koanf:"workers"`
}

// DB describes how to reach the run conditions database.
// A non-empty File selects the sqlite file, the MySQL server otherwise.
type DB struct {
	File     string `koanf:"file"`
	Host     string `koanf:"host"`
	Name     string `koanf:"name"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
}

type Binning struct {
	Bins int     `koanf:"bins"`
	Lo   float64 `koanf:"lo"`
	Hi   float64 `koanf:"hi"`
}

type Target struct {
	Length   float64 `koanf:"length"`
	Density  float64 `koanf:"density"`
	Molar    float64 `koanf:"molar"`
	Dilution float64 `koanf:"dilution"`
}

// Radiate holds the radiative correction inputs.
type Radiate struct {
	Cutoff    float64 `koanf:"cutoff"` // GeV
	Tolerance float64 `koanf:"tolerance"`
	TB        float64 `koanf:"tb"` // radiation lengths before the vertex
	TA        float64 `koanf:"ta"` // radiation lengths after the vertex
}

// New returns the default configuration.
func New() *Config {
	return &Config{
		DB: DB{
			Host: "localhost",
			Name: "g2p",
			User: "g2p",
		},
		SR:      1,
		Ref:     -1,
		Binning: Binning{Bins: 100, Lo: 0, Hi: 1000},
		Target: Target{
			Length:   2.83,
			Density:  0.817,
			Molar:    17.031,
			Dilution: 1,
		},
		Radiate: Radiate{
			Cutoff:    radiate.DefaultCutoff,
			Tolerance: 1e-3,
		},
		Workers: 1,
	}
}

// Load builds a configuration from the defaults, the optional YAML file
// fname and the environment.
func Load(fname string) (*Config, error) {
	k := koanf.New(".")

	if fname != "" {
		err := k.Load(file.Provider(fname), yaml.Parser())
		if err != nil {
			return nil, fmt.Errorf("config: could not load %q: %w", fname, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("config: could not load environment: %w", err)
	}

	cfg := New()
	err = k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"})
	if err != nil {
		return nil, fmt.Errorf("config: could not decode configuration: %w", err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	s = strings.ToLower(s)
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks the consistency of the configuration.
func (cfg *Config) Validate() error {
	switch {
	case cfg.DB.File == "" && cfg.DB.Host == "":
		return fmt.Errorf("%w: no database file nor host", ErrInvalidConfig)
	case cfg.SR <= 0:
		return fmt.Errorf("%w: invalid beam spot scale %v", ErrInvalidConfig, cfg.SR)
	case cfg.Binning.Bins <= 0 || !(cfg.Binning.Lo < cfg.Binning.Hi):
		return fmt.Errorf("%w: invalid binning %+v", ErrInvalidConfig, cfg.Binning)
	case cfg.Target.Length <= 0 || cfg.Target.Density <= 0 || cfg.Target.Molar <= 0:
		return fmt.Errorf("%w: invalid target %+v", ErrInvalidConfig, cfg.Target)
	case cfg.Radiate.Cutoff <= 0 || cfg.Radiate.Tolerance <= 0:
		return fmt.Errorf("%w: invalid radiative inputs %+v", ErrInvalidConfig, cfg.Radiate)
	case cfg.Radiate.TB < 0 || cfg.Radiate.TA < 0:
		return fmt.Errorf("%w: negative radiation lengths %+v", ErrInvalidConfig, cfg.Radiate)
	case cfg.Workers < 1:
		return fmt.Errorf("%w: invalid number of workers %d", ErrInvalidConfig, cfg.Workers)
	}
	return nil
}

// OpenDB opens the run conditions database.
func (cfg *Config) OpenDB() (*rundb.DB, error) {
	if cfg.DB.File != "" {
		return rundb.OpenFile(cfg.DB.File)
	}
	dsn := rundb.MySQL(cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Name)
	return rundb.Open("mysql", dsn)
}

// AnaCuts returns the event selection cuts.
func (cfg *Config) AnaCuts() (*ana.Cuts, error) {
	if len(cfg.Cuts) == 0 {
		return nil, nil
	}
	cuts, err := ana.ParseCuts(cfg.Cuts, cfg.SR)
	if err != nil {
		return nil, fmt.Errorf("config: invalid cuts: %w", err)
	}
	return cuts, nil
}

func (cfg *Config) AnaBinning() ana.Binning {
	return ana.Binning{Bins: cfg.Binning.Bins, Lo: cfg.Binning.Lo, Hi: cfg.Binning.Hi}
}

func (cfg *Config) AnaTarget() ana.Target {
	return ana.Target{
		Length:   cfg.Target.Length,
		Density:  cfg.Target.Density,
		Molar:    cfg.Target.Molar,
		Dilution: cfg.Target.Dilution,
	}
}

// RadiateOptions returns the options of the radiative correction.
func (cfg *Config) RadiateOptions() []radiate.Option {
	return []radiate.Option{
		radiate.WithCutoff(cfg.Radiate.Cutoff),
		radiate.WithTolerance(cfg.Radiate.Tolerance),
		radiate.WithWorkers(cfg.Workers),
	}
}
