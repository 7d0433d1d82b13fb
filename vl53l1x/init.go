package vl53l1x

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when the sensor does not answer a poll within the
// configured timeout
var ErrTimeout = errors.New("vl53l1x: timeout")

// ErrNotInitialized is returned by timing calls made before Init has read the
// oscillator frequency
var ErrNotInitialized = errors.New("vl53l1x: sensor not initialized")

// regWrite is one entry of a register configuration sequence
type regWrite struct {
	reg  uint16
	val  uint16
	wide bool
}

// staticConfig is written once during Init.  Based on VL53L1X_StaticInit()
// and the low power auto preset; distance mode and timing budget are applied
// afterwards.
var staticConfig = []regWrite{
	{reg: DSS_CONFIG_TARGET_TOTAL_RATE_MCPS, val: TargetRate, wide: true},
	{reg: GPIO_TIO_HV_STATUS, val: 0x02},
	{reg: SIGMA_EST_EFFECTIVE_PULSE_WIDTH_NS, val: 8},
	{reg: SIGMA_EST_EFFECTIVE_AMBIENT_WIDTH_NS, val: 16},
	{reg: ALGO_CROSSTALK_COMP_VALID_HEIGHT_MM, val: 0x01},
	{reg: ALGO_RANGE_IGNORE_VALID_HEIGHT_MM, val: 0xFF},
	{reg: ALGO_RANGE_MIN_CLIP, val: 0},
	{reg: ALGO_CONSISTENCY_CHECK_TOLERANCE, val: 2},
	{reg: SYSTEM_THRESH_RATE_HIGH, val: 0x0000, wide: true},
	{reg: SYSTEM_THRESH_RATE_LOW, val: 0x0000, wide: true},
	{reg: DSS_CONFIG_APERTURE_ATTENUATION, val: 0x38},
	{reg: RANGE_CONFIG_SIGMA_THRESH, val: 360, wide: true},
	{reg: RANGE_CONFIG_MIN_COUNT_RATE_RTN_LIMIT_MCPS, val: 192, wide: true},
	{reg: SYSTEM_GROUPED_PARAMETER_HOLD_0, val: 0x01},
	{reg: SYSTEM_GROUPED_PARAMETER_HOLD_1, val: 0x01},
	{reg: SD_CONFIG_QUANTIFIER, val: 2},
	{reg: SYSTEM_GROUPED_PARAMETER_HOLD, val: 0x00},
	{reg: SYSTEM_SEED_CONFIG, val: 1},
	{reg: SYSTEM_SEQUENCE_CONFIG, val: 0x8B},
	{reg: DSS_CONFIG_MANUAL_EFFECTIVE_SPADS_SELECT, val: 200 << 8, wide: true},
	{reg: DSS_CONFIG_ROI_MODE_CONTROL, val: 2},
}

// writeSequence applies a register configuration sequence in order
func (v *VL53L1X) writeSequence(seq []regWrite) error {

	for _, w := range seq {
		var err error

		if w.wide {
			err = v.writeReg16Bit(w.reg, w.val)
		} else {
			err = v.writeReg(w.reg, uint8(w.val))
		}

		if err != nil {
			return err
		}
	}

	return nil
}

// Init resets and configures the sensor for the given I/O voltage, then takes
// one throw away measurement so the calibration routines have run before the
// first real reading.
func (v *VL53L1X) Init(voltage IOVoltage) error {

	v.log.Printf("Starting Init() with %s I/O", voltage)

	if v.ioTimeout == 0 {
		v.SetTimeout(DefaultTimeout)
	}

	if err := v.dataInit(voltage); err != nil {
		return fmt.Errorf("data init: %w", err)
	}

	if err := v.staticInit(); err != nil {
		return fmt.Errorf("static init: %w", err)
	}

	if err := v.warmSensor(); err != nil {
		return fmt.Errorf("warm up: %w", err)
	}

	v.log.Printf("Device Init()'d")

	return nil
}

// dataInit checks the model, soft resets the device, waits for boot and reads
// the oscillator values later used for timing calculations
func (v *VL53L1X) dataInit(voltage IOVoltage) error {

	model, err := v.readReg16Bit(IDENTIFICATION_MODEL_ID)

	if err != nil {
		return err
	}

	if model != modelID {
		return fmt.Errorf("unexpected model ID: 0x%X", model)
	}

	if err := v.writeReg(SOFT_RESET, 0x00); err != nil {
		return err
	}

	v.clock.Sleep(100 * time.Microsecond)

	if err := v.writeReg(SOFT_RESET, 0x01); err != nil {
		return err
	}

	// the sensor NACKs if it is read straight after reset
	v.clock.Sleep(1 * time.Millisecond)

	if err := v.waitBooted(); err != nil {
		return err
	}

	pad, err := v.readReg(PAD_I2C_HV_EXTSUP_CONFIG)

	if err != nil {
		return err
	}

	if voltage == IOVoltage2V8 {
		pad |= 0x01
	} else {
		pad &^= 0x01
	}

	if err := v.writeReg(PAD_I2C_HV_EXTSUP_CONFIG, pad); err != nil {
		return err
	}

	if v.fastOscFrequency, err = v.readReg16Bit(OSC_MEASURED_FAST_OSC_FREQUENCY); err != nil {
		return err
	}

	if v.fastOscFrequency == 0 {
		return fmt.Errorf("fast oscillator frequency reads zero")
	}

	if v.oscCalibrateVal, err = v.readReg16Bit(RESULT_OSC_CALIBRATE_VAL); err != nil {
		return err
	}

	mux, err := v.readReg(GPIO_HV_MUX_CTRL)

	if err != nil {
		return err
	}

	// bit 4 set means GPIO1 is active low
	v.interruptPolarity = ^(mux >> 4) & 0x01

	return nil
}

// waitBooted polls the firmware status until the device reports it has booted
func (v *VL53L1X) waitBooted() error {

	v.startTimeout()

	for {
		status, err := v.readReg(FIRMWARE_SYSTEM_STATUS)

		if err != nil {
			return err
		}

		if status&0x01 != 0 {
			return nil
		}

		if v.checkTimeoutExpired() {
			v.didTimeout = true
			return fmt.Errorf("waiting for boot: %w", ErrTimeout)
		}

		v.clock.Sleep(1 * time.Millisecond)
	}
}

// staticInit writes the static configuration.  The register values take
// effect when ranging starts.
func (v *VL53L1X) staticInit() error {

	if err := v.writeSequence(staticConfig); err != nil {
		return err
	}

	if err := v.writeSequence(distancePresets[v.distanceMode]); err != nil {
		return err
	}

	if err := v.SetTimingBudget(v.timingBudget); err != nil {
		return err
	}

	// part to part range offset is stored in 1/4 mm
	outerOffset, err := v.readReg16Bit(MM_CONFIG_OUTER_OFFSET_MM)

	if err != nil {
		return err
	}

	return v.writeReg16Bit(ALGO_PART_TO_PART_RANGE_OFFSET_MM, outerOffset*4)
}

// warmSensor takes a single distance reading so the manual calibration is
// captured; the first measurement after reset is slightly off
func (v *VL53L1X) warmSensor() error {

	if err := v.SetInterMeasurementPeriod(v.timingBudget + 5); err != nil {
		return err
	}

	if err := v.StartRanging(); err != nil {
		return err
	}

	v.startTimeout()

	for {
		ready, err := v.DataReady()

		if err != nil {
			return err
		}

		if ready {
			break
		}

		if v.checkTimeoutExpired() {
			v.didTimeout = true
			return fmt.Errorf("waiting for first measurement: %w", ErrTimeout)
		}

		v.clock.Sleep(1 * time.Millisecond)
	}

	if _, err := v.GetDistance(); err != nil {
		return err
	}

	if err := v.ClearInterrupt(); err != nil {
		return err
	}

	return v.StopRanging()
}
