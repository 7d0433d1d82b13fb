// Package vl53l1x is an I2C driver for the ST VL53L1X time‐of‐flight sensor.
//
// The ranging calls follow the shape of ST's Ultra Lite Driver: the caller
// starts ranging, polls GetRangeStatus until the measurement is classified,
// clears the interrupt and then reads the distance.
package vl53l1x

import (
	"io"
	"log"
	"time"

	"github.com/benbjohnson/clock"
)

const (
	// Address is the default address of the sensor on I2C bus
	Address uint8 = 0x29
	// TimingGuard is used in measurement timing budget calculations and is
	// given in microseconds
	TimingGuard uint32 = 4528
	// TargetRate is used in DSS calculations
	TargetRate uint16 = 0x0A00
	// DefaultTimeout bounds the boot and warm up polls performed by Init
	DefaultTimeout = 500 * time.Millisecond

	modelID uint16 = 0xEACC
)

// Bus is the I2C connection to a single sensor.  Every write starts with the
// 16 bit register address; a two byte write only moves the register pointer
// for the following read.  *i2c.Options from github.com/swdee/go-i2c
// satisfies this interface.
type Bus interface {
	WriteBytes(buf []byte) (int, error)
	ReadBytes(buf []byte) (int, error)
}

// resultBuffer holds raw values read from the sensor
type resultBuffer struct {
	rangeStatus                                   uint8
	streamCount                                   uint8
	dssActualEffectiveSpadsSD0                    uint16
	ambientCountRateMCPS_SD0                      uint16
	finalCrosstalkCorrectedRangeMM_SD0            uint16
	peakSignalCountRateCrosstalkCorrectedMCPS_SD0 uint16
}

// VL53L1X represents a single VL53L1X sensor instance.
type VL53L1X struct {
	bus   Bus
	clock clock.Clock

	ioTimeout    time.Duration
	didTimeout   bool
	timeoutStart time.Time

	fastOscFrequency uint16
	oscCalibrateVal  uint16

	// interruptPolarity is the GPIO1 level that signals new data
	interruptPolarity uint8

	calibrated      bool
	savedVHVInit    uint8
	savedVHVTimeout uint8

	distanceMode DistanceMode
	// timing budget in milliseconds
	timingBudget uint32

	results resultBuffer

	// log logger for debugging
	log *log.Logger
}

// New returns a sensor instance on the given bus.  The sensor is not touched
// until Init is called.
func New(bus Bus) *VL53L1X {
	return NewWithLog(bus, log.New(io.Discard, "", log.LstdFlags))
}

// NewWithLog returns a sensor instance with logger to be used for debugging
func NewWithLog(bus Bus, log *log.Logger) *VL53L1X {
	return &VL53L1X{
		bus:          bus,
		clock:        clock.New(),
		distanceMode: Long,
		timingBudget: 50,
		log:          log,
	}
}

// SetClock replaces the clock used for sleeps and I/O timeouts
func (v *VL53L1X) SetClock(c clock.Clock) {
	v.clock = c
}
