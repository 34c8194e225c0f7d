// Copyright 2020 The go-lpc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rundb

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Sentinel values of missing conditions.
const (
	MissingInt    = -999
	MissingFloat  = -999.0
	MissingString = "NULL"
	MissingTime   = int64(-999)
)

// TimeLayout is the layout of timestamps stored as text.
const TimeLayout = "2006-01-02 15:04:05"

// Conditions is the snapshot of the conditions of a run.
// Times are seconds since the Unix epoch.
type Conditions struct {
	Run int

	RunQuality        int
	RunStatus         int
	SeptaStatus       int
	HWP               int
	TargetOrientation int
	MaterialID        int

	HWPErr           float64
	PS7, PS8         float64
	TargetEncoder    float64
	TargetEncoderErr float64

	Q1P, Q1PErr float64
	Q2P, Q2PErr float64
	Q3P, Q3PErr float64
	D1P, D1PErr float64

	SeptaCurrent    float64
	SeptaCurrentErr float64
	BeamEnergy      float64
	BeamEnergyErr   float64

	TriggerEff      float64
	Deadtime        float64
	DeadtimePlus    float64
	DeadtimeMinus   float64
	LiveTimeAsym    float64
	OneTrackEff     float64
	AllTrackEff     float64
	AllTrackEffLow  float64
	AllTrackEffHigh float64
	CerEff          float64
	PREff           float64

	CerCut float64
	PR1Cut float64
	SumCut float64

	BeamPol      float64
	BeamPolStat  float64
	BeamPolSys   float64
	BleedThrough float64

	TargetPol     float64
	TargetPolErr  float64
	TargetPolStat float64
	TargetPolSys  float64
	TargetField   float64

	Charge      float64
	ChargePlus  float64
	ChargeMinus float64
	ChargeAsym  float64
	Current     float64

	ThetaCutMin, ThetaCutMax float64
	PhiCutMin, PhiCutMax     float64

	// beam spot cut of simulated events, in mm.
	SimX, SimY, SimR float64
	// slow raster cut of production events.
	RasterX, RasterY, RasterR float64

	// prescales of the right (1,2) and left (3,4) arms.
	PS1, PS2, PS3, PS4 float64

	ExpertComment string
	TargetCup     string

	RunStart  int64
	EntryTime int64
	RunStop   int64
}

// Missing returns the conditions of a run without any database entry.
func Missing(run int) *Conditions {
	return newConditions(run, nil)
}

// Arm returns the spectrometer arm of the run.
func (c *Conditions) Arm() Arm { return ArmOf(c.Run) }

type column struct {
	name string
	ptr  any // *int, *float64, *string or *int64 (time)
}

func (c *Conditions) columns() []column {
	cols := []column{
		{"RunQuality", &c.RunQuality},
		{"RunStatus", &c.RunStatus},
		{"SeptaStatus", &c.SeptaStatus},
		{"Ihwp", &c.HWP},
		{"IhwpSTD", &c.HWPErr},
		{"ps7", &c.PS7},
		{"ps8", &c.PS8},
		{"TargetEncoder", &c.TargetEncoder},
		{"TargetSTD", &c.TargetEncoderErr},
		{"Q1p", &c.Q1P},
		{"Q1pSTD", &c.Q1PErr},
		{"Q2p", &c.Q2P},
		{"Q2pSTD", &c.Q2PErr},
		{"Q3p", &c.Q3P},
		{"Q3pSTD", &c.Q3PErr},
		{"D1p", &c.D1P},
		{"D1pSTD", &c.D1PErr},
		{"SeptaI", &c.SeptaCurrent},
		{"SeptaSTD", &c.SeptaCurrentErr},
		{"Energy", &c.BeamEnergy},
		{"EnergySTD", &c.BeamEnergyErr},
		{"TEff", &c.TriggerEff},
		{"Deadtime", &c.Deadtime},
		{"CerCut", &c.CerCut},
		{"PR1Cut", &c.PR1Cut},
		{"SumCut", &c.SumCut},
		{"BeamPol", &c.BeamPol},
		{"BeamPolStat", &c.BeamPolStat},
		{"BeamPolSys", &c.BeamPolSys},
		{"Bleedthrough", &c.BleedThrough},
		{"OneTrackEff", &c.OneTrackEff},
		{"AllTrackEff", &c.AllTrackEff},
		{"AllTrackEffLow", &c.AllTrackEffLow},
		{"AllTrackEffHigh", &c.AllTrackEffHigh},
		{"TargetPol", &c.TargetPol},
		{"TargetPolError", &c.TargetPolErr},
		{"TargetPolStat", &c.TargetPolStat},
		{"TargetPolSys", &c.TargetPolSys},
		{"DTPlus", &c.DeadtimePlus},
		{"DTMinus", &c.DeadtimeMinus},
		{"LTAsym", &c.LiveTimeAsym},
		{"ChargeAsym", &c.ChargeAsym},
		{"QPlus", &c.ChargePlus},
		{"QMinus", &c.ChargeMinus},
		{"QTotal", &c.Charge},
		{"TargetField", &c.TargetField},
		{"TargetOrientation", &c.TargetOrientation},
		{"MaterialID", &c.MaterialID},
		{"ExpertC", &c.ExpertComment},
		{"TargetCup", &c.TargetCup},
		{"RunStartTime", &c.RunStart},
		{"EntryTime", &c.EntryTime},
		{"RunStopTime", &c.RunStop},
		{"CerDetEff", &c.CerEff},
		{"PRDetEff", &c.PREff},
		{"Current", &c.Current},
		{"thCutMin", &c.ThetaCutMin},
		{"thCutMax", &c.ThetaCutMax},
		{"phCutMin", &c.PhiCutMin},
		{"phCutMax", &c.PhiCutMax},
		{"xBeam", &c.SimX},
		{"yBeam", &c.SimY},
		{"rBeam", &c.SimR},
		{"xSR", &c.RasterX},
		{"ySR", &c.RasterY},
		{"rSR", &c.RasterR},
	}
	switch c.Arm() {
	case RightArm:
		cols = append(cols, column{"ps1", &c.PS1}, column{"ps2", &c.PS2})
	default:
		cols = append(cols, column{"ps3", &c.PS3}, column{"ps4", &c.PS4})
	}
	return cols
}

// newConditions fills the conditions of run from the vals row,
// keyed by column name. A nil row yields only sentinels.
func newConditions(run int, vals map[string]any) *Conditions {
	c := &Conditions{
		Run: run,
		PS1: MissingFloat,
		PS2: MissingFloat,
		PS3: MissingFloat,
		PS4: MissingFloat,
	}

	fold := make(map[string]any, len(vals))
	for k, v := range vals {
		fold[strings.ToLower(k)] = v
	}

	for _, col := range c.columns() {
		v, ok := vals[col.name]
		if !ok {
			v = fold[strings.ToLower(col.name)]
		}
		switch ptr := col.ptr.(type) {
		case *int:
			*ptr = toInt(v)
		case *float64:
			*ptr = toFloat(v)
		case *string:
			*ptr = toString(v)
		case *int64:
			*ptr = toTime(v)
		}
	}
	return c
}

func toInt(v any) int {
	switch v := v.(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return MissingInt
		}
		return int(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case []byte:
		return toInt(string(v))
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return MissingInt
		}
		return i
	}
	return MissingInt
}

func toFloat(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	case bool:
		if v {
			return 1
		}
		return 0
	case []byte:
		return toFloat(string(v))
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return MissingFloat
		}
		return f
	}
	return MissingFloat
}

func toString(v any) string {
	switch v := v.(type) {
	case nil:
		return MissingString
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		return v.Format(TimeLayout)
	case bool:
		return strconv.FormatBool(v)
	}
	return MissingString
}

func toTime(v any) int64 {
	switch v := v.(type) {
	case time.Time:
		if v.IsZero() {
			return MissingTime
		}
		return v.Unix()
	case []byte:
		return toTime(string(v))
	case string:
		t, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(v), time.Local)
		if err != nil {
			return MissingTime
		}
		return t.Unix()
	}
	return MissingTime
}
