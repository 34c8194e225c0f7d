// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rundb

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
)

var ErrRun = errors.New("rundb: invalid run number")

// RunFromFilename extracts the run number from a file named
// like "<prefix>_<run>...".
func RunFromFilename(prefix, fname string) (int, error) {
	re, err := regexp.Compile(regexp.QuoteMeta(prefix) + `_(\d+)`)
	if err != nil {
		return 0, fmt.Errorf("rundb: could not compile run pattern: %w", err)
	}

	m := re.FindStringSubmatch(filepath.Base(fname))
	if m == nil {
		return 0, fmt.Errorf("%w: no %s run in %q", ErrRun, prefix, fname)
	}

	run, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrRun, fname, err)
	}
	return run, nil
}
