// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-lpc/g2p/ana"
	"github.com/go-lpc/g2p/internal/config"
	"github.com/go-lpc/g2p/radiate"
	"github.com/smartystreets/goconvey/convey"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	fname := filepath.Join(t.TempDir(), "g2p.yaml")
	err := os.WriteFile(fname, []byte(content), 0644)
	if err != nil {
		t.Fatalf("could not write config file: %+v", err)
	}
	return fname
}

func setenv(vs map[string]string) {
	for k, v := range vs {
		_ = os.Setenv(k, v)
	}
}

func unsetenv(keys ...string) {
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	convey.Convey("Given the g2p configuration loader", t, func() {

		convey.Convey("When loading without file nor environment", func() {
			cfg, err := config.Load("")

			convey.Convey("Then the defaults are used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldResemble, config.New())
				convey.So(cfg.Ref, convey.ShouldEqual, -1)
				convey.So(cfg.Radiate.Cutoff, convey.ShouldEqual, radiate.DefaultCutoff)
				convey.So(cfg.Workers, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When loading a YAML file", func() {
			fname := writeConfig(t, `
db:
  file: /data/g2p/rundb.sqlite
cuts:
  y: [-0.01, 0.01]
  t: [-0.04, 0.04]
  p: [-0.02, 0.02]
sr: 0.8
ref: 3132
binning:
  bins: 50
  lo: 100
  hi: 600
target:
  dilution: 0.17
poly: [1, 0.5]
radiate:
  tb: 0.0011
  ta: 0.0238
workers: 8
`)
			cfg, err := config.Load(fname)

			convey.Convey("Then the file overrides the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DB.File, convey.ShouldEqual, "/data/g2p/rundb.sqlite")
				convey.So(cfg.DB.Host, convey.ShouldEqual, "localhost")
				convey.So(cfg.Cuts["t"], convey.ShouldResemble, []float64{-0.04, 0.04})
				convey.So(cfg.SR, convey.ShouldEqual, 0.8)
				convey.So(cfg.Ref, convey.ShouldEqual, 3132)
				convey.So(cfg.AnaBinning(), convey.ShouldResemble, ana.Binning{Bins: 50, Lo: 100, Hi: 600})
				convey.So(cfg.Target.Dilution, convey.ShouldEqual, 0.17)
				convey.So(cfg.Target.Molar, convey.ShouldEqual, config.New().Target.Molar)
				convey.So(cfg.Poly, convey.ShouldResemble, []float64{1, 0.5})
				convey.So(cfg.Radiate.TB, convey.ShouldEqual, 0.0011)
				convey.So(cfg.Radiate.TA, convey.ShouldEqual, 0.0238)
				convey.So(cfg.Workers, convey.ShouldEqual, 8)
				convey.So(cfg.RadiateOptions(), convey.ShouldHaveLength, 3)
			})

			convey.Convey("Then the cuts are parsed", func() {
				cuts, err := cfg.AnaCuts()
				convey.So(err, convey.ShouldBeNil)
				convey.So(cuts.SR, convey.ShouldEqual, 0.8)
				convey.So(*cuts.Y, convey.ShouldResemble, ana.Range{Lo: -0.01, Hi: 0.01})
				convey.So(cuts.Delta, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the environment is set", func() {
			fname := writeConfig(t, "workers: 8\nbinning:\n  bins: 50\n")
			setenv(map[string]string{
				"G2P_WORKERS":     "4",
				"G2P_DB__HOST":    "clrlpc.in2p3.fr",
				"G2P_RADIATE__TB": "0.002",
			})
			defer unsetenv("G2P_WORKERS", "G2P_DB__HOST", "G2P_RADIATE__TB")

			cfg, err := config.Load(fname)

			convey.Convey("Then the environment overrides the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Workers, convey.ShouldEqual, 4)
				convey.So(cfg.DB.Host, convey.ShouldEqual, "clrlpc.in2p3.fr")
				convey.So(cfg.Radiate.TB, convey.ShouldEqual, 0.002)
				convey.So(cfg.Binning.Bins, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			convey.Convey("Then an error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})

		convey.Convey("When the configuration is inconsistent", func() {
			for _, content := range []string{
				"workers: 0",
				"sr: -1",
				"binning:\n  lo: 10\n  hi: 1\n",
				"radiate:\n  ta: -0.1\n",
				"target:\n  molar: 0\n",
				"db:\n  host: \"\"\n",
			} {
				_, err := config.Load(writeConfig(t, content))
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			}
		})

		convey.Convey("When the cuts are invalid", func() {
			cfg := config.New()
			cfg.Cuts = map[string][]float64{"x": {0, 1}}
			_, err := cfg.AnaCuts()

			convey.Convey("Then the cut error is reported", func() {
				convey.So(errors.Is(err, ana.ErrConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When no cuts are configured", func() {
			cuts, err := config.New().AnaCuts()

			convey.Convey("Then all events are accepted", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cuts, convey.ShouldBeNil)
			})
		})
	})
}
