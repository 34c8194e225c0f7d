// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rundb

// RightArmRun is the first run number taken with the right arm.
const RightArmRun = 20000

// Arm is a spectrometer arm of the experiment.
type Arm uint8

const (
	LeftArm Arm = iota
	RightArm
)

// ArmOf returns the spectrometer arm a run was taken with.
func ArmOf(run int) Arm {
	if run < RightArmRun {
		return LeftArm
	}
	return RightArm
}

// String returns the single letter prefix of the arm in analyzer trees.
func (arm Arm) String() string {
	switch arm {
	case LeftArm:
		return "L"
	case RightArm:
		return "R"
	}
	return "?"
}

// Table returns the conditions table of the arm.
func (arm Arm) Table() string {
	return "AnaInfo" + arm.String()
}

// Table returns the conditions table holding the provided run.
func Table(run int) string {
	return ArmOf(run).Table()
}
