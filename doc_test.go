// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package g2p

import (
	"runtime/debug"
	"testing"
)

func TestVersion(t *testing.T) {
	for _, tc := range []struct {
		name    string
		bi      *debug.BuildInfo
		version string
		sum     string
	}{
		{name: "nil"},
		{
			name: "no-dep",
			bi:   &debug.BuildInfo{Deps: []*debug.Module{{Path: "gonum.org/v1/gonum", Version: "v0.12.0"}}},
		},
		{
			name:    "dep",
			bi:      &debug.BuildInfo{Deps: []*debug.Module{{Path: "github.com/go-lpc/g2p", Version: "v0.1.0", Sum: "h1:xxx"}}},
			version: "v0.1.0",
			sum:     "h1:xxx",
		},
		{
			name: "replace-path",
			bi: &debug.BuildInfo{Deps: []*debug.Module{{
				Path: "github.com/go-lpc/g2p", Version: "v0.1.0",
				Replace: &debug.Module{Path: "../g2p"},
			}}},
			version: "../g2p",
		},
		{
			name: "replace-version",
			bi: &debug.BuildInfo{Deps: []*debug.Module{{
				Path: "github.com/go-lpc/g2p", Version: "v0.1.0",
				Replace: &debug.Module{Path: "github.com/sbinet/g2p", Version: "v0.2.0", Sum: "h1:yyy"},
			}}},
			version: "github.com/sbinet/g2p v0.2.0",
			sum:     "h1:yyy",
		},
		{
			name: "replace-empty",
			bi: &debug.BuildInfo{Deps: []*debug.Module{{
				Path: "github.com/go-lpc/g2p", Version: "v0.1.0",
				Replace: &debug.Module{},
			}}},
			version: "v0.1.0*",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			version, sum := versionOf(tc.bi)
			if version != tc.version || sum != tc.sum {
				t.Fatalf("invalid version: got=(%q, %q), want=(%q, %q)", version, sum, tc.version, tc.sum)
			}
		})
	}
}
