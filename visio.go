// Package visio turns a VL53L1X time-of-flight sensor and a bank of 16
// vibration motors into a coarse "touch image" of nearby obstacles.
//
// The sensor's region of interest is stepped over a 4x4 grid of SPAD centres.
// Each distance is mapped to a PWM duty cycle on the motor at the same grid
// position, and the raw distances are shown on a debug display.
package visio

import "github.com/swdee/go-visio/vl53l1x"

// GridSize is the number of regions scanned and motors driven
const GridSize = 16

// ROICenters are the sensor SPAD centres ordered by vibration motor index,
// row-major over the 4x4 motor grid
var ROICenters = [GridSize]vl53l1x.ROICenter{
	{SPAD: 10}, {SPAD: 42}, {SPAD: 74}, {SPAD: 106}, // first row
	{SPAD: 14}, {SPAD: 46}, {SPAD: 78}, {SPAD: 110}, // second row
	{SPAD: 245}, {SPAD: 213}, {SPAD: 181}, {SPAD: 149}, // third row
	{SPAD: 241}, {SPAD: 209}, {SPAD: 177}, {SPAD: 145}, // fourth row
}

// Distances holds one distance in millimetres per region, index aligned with
// ROICenters and the motor channels
type Distances [GridSize]uint16

// Strengths holds one PWM off-tick per motor channel
type Strengths [GridSize]uint16

// Ranger is the part of the sensor used while scanning
type Ranger interface {
	StopRanging() error
	SetROICenter(center vl53l1x.ROICenter) error
	StartRanging() error
	GetRangeStatus() (vl53l1x.RangeStatus, error)
	ClearInterrupt() error
	GetDistance() (uint16, error)
}

// Sensor is a Ranger that can also be configured during bring-up.
// *vl53l1x.VL53L1X satisfies it.
type Sensor interface {
	Ranger
	Init(voltage vl53l1x.IOVoltage) error
	SetDistanceMode(mode vl53l1x.DistanceMode) error
	SetTimingBudget(budget uint32) error
	SetInterMeasurementPeriod(period uint32) error
	SetROI(roi vl53l1x.ROI) error
}

// PWM drives the motor outputs.  A channel is on from tick on until tick off
// of each PWM cycle.
type PWM interface {
	SetChannelOnOff(ch Channel, on, off uint16) error
}

// Screen is the debug display
type Screen interface {
	ShowText(text string) error
}
