// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package formfactor provides nucleon and nuclear form factor models:
// the proton Sachs form factors and the charge/magnetization radial
// densities of light nuclei, with their momentum-space transforms.
package formfactor // import "github.com/go-lpc/g2p/formfactor"
