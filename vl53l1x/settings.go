package vl53l1x

import "fmt"

// IOVoltage selects the sensor's I/O pad supply level
type IOVoltage int

const (
	IOVoltage1V8 IOVoltage = iota
	IOVoltage2V8
)

// String implement Stringer interface for IOVoltage
func (iv IOVoltage) String() string {
	if iv == IOVoltage2V8 {
		return "2V8"
	}
	return "1V8"
}

// DistanceMode represents the selected ranging mode of sensor
type DistanceMode int

const (
	// Short distance mode is limited to 1.3m range in ambient and dark light
	Short DistanceMode = iota
	// Medium distance mode is limited to 2.9m in dark and 76cm in ambient light
	Medium
	// Long distance mode is limited to 3.6m in dark and 73cm in ambient light
	Long
)

// String implement Stringer interface for DistanceMode
func (m DistanceMode) String() string {
	switch m {
	case Short:
		return "short"
	case Medium:
		return "medium"
	case Long:
		return "long"
	default:
		return "unknown"
	}
}

// distancePresets holds the VCSEL periods and phase windows of each mode,
// from the VL53L1_preset_mode_standard_ranging_*() functions
var distancePresets = map[DistanceMode][]regWrite{
	Short: {
		{reg: RANGE_CONFIG_VCSEL_PERIOD_A, val: 0x07},
		{reg: RANGE_CONFIG_VCSEL_PERIOD_B, val: 0x05},
		{reg: RANGE_CONFIG_VALID_PHASE_HIGH, val: 0x38},
		{reg: SD_CONFIG_WOI_SD0, val: 0x07},
		{reg: SD_CONFIG_WOI_SD1, val: 0x05},
		{reg: SD_CONFIG_INITIAL_PHASE_SD0, val: 6},
		{reg: SD_CONFIG_INITIAL_PHASE_SD1, val: 6},
	},
	Medium: {
		{reg: RANGE_CONFIG_VCSEL_PERIOD_A, val: 0x0B},
		{reg: RANGE_CONFIG_VCSEL_PERIOD_B, val: 0x09},
		{reg: RANGE_CONFIG_VALID_PHASE_HIGH, val: 0x78},
		{reg: SD_CONFIG_WOI_SD0, val: 0x0B},
		{reg: SD_CONFIG_WOI_SD1, val: 0x09},
		{reg: SD_CONFIG_INITIAL_PHASE_SD0, val: 10},
		{reg: SD_CONFIG_INITIAL_PHASE_SD1, val: 10},
	},
	Long: {
		{reg: RANGE_CONFIG_VCSEL_PERIOD_A, val: 0x0F},
		{reg: RANGE_CONFIG_VCSEL_PERIOD_B, val: 0x0D},
		{reg: RANGE_CONFIG_VALID_PHASE_HIGH, val: 0xB8},
		{reg: SD_CONFIG_WOI_SD0, val: 0x0F},
		{reg: SD_CONFIG_WOI_SD1, val: 0x0D},
		{reg: SD_CONFIG_INITIAL_PHASE_SD0, val: 14},
		{reg: SD_CONFIG_INITIAL_PHASE_SD1, val: 14},
	},
}

// GetDistanceMode returns the sensors current DistanceMode setting
func (v *VL53L1X) GetDistanceMode() DistanceMode {
	return v.distanceMode
}

// SetDistanceMode configures the sensor for Short, Medium, or Long range.  The
// VCSEL periods change with the mode so the current timing budget is
// reapplied afterwards.
func (v *VL53L1X) SetDistanceMode(mode DistanceMode) error {

	preset, ok := distancePresets[mode]

	if !ok {
		return fmt.Errorf("unrecognized distance mode %d", mode)
	}

	budget, err := v.GetTimingBudget()

	if err != nil {
		return err
	}

	if err := v.writeSequence(preset); err != nil {
		return err
	}

	if err := v.SetTimingBudget(budget); err != nil {
		return err
	}

	v.log.Printf("Distance mode set to %s", mode)

	v.distanceMode = mode
	return nil
}

// SetTimingBudget sets the time in milliseconds the sensor is allowed for one
// measurement
func (v *VL53L1X) SetTimingBudget(budget uint32) error {

	if v.fastOscFrequency == 0 {
		return ErrNotInitialized
	}

	budgetUs := budget * 1000

	if budgetUs <= TimingGuard {
		return fmt.Errorf("timing budget %d ms too low", budget)
	}

	// the budget is split between the A and B ranges
	rangeTimeoutUs := (budgetUs - TimingGuard) / 2

	if rangeTimeoutUs > 1100000 {
		return fmt.Errorf("timing budget %d ms too high", budget)
	}

	vcselA, err := v.readReg(RANGE_CONFIG_VCSEL_PERIOD_A)

	if err != nil {
		return err
	}

	macroPeriodA := macroPeriod(v.fastOscFrequency, vcselA)

	phasecalTimeout := microsecondsToMclks(1000, macroPeriodA)

	if phasecalTimeout > 0xFF {
		phasecalTimeout = 0xFF
	}

	vcselB, err := v.readReg(RANGE_CONFIG_VCSEL_PERIOD_B)

	if err != nil {
		return err
	}

	macroPeriodB := macroPeriod(v.fastOscFrequency, vcselB)

	seq := []regWrite{
		{reg: PHASECAL_CONFIG_TIMEOUT_MACROP, val: uint16(phasecalTimeout)},
		{reg: MM_CONFIG_TIMEOUT_MACROP_A, val: encodeTimeout(microsecondsToMclks(1, macroPeriodA)), wide: true},
		{reg: RANGE_CONFIG_TIMEOUT_MACROP_A, val: encodeTimeout(microsecondsToMclks(rangeTimeoutUs, macroPeriodA)), wide: true},
		{reg: MM_CONFIG_TIMEOUT_MACROP_B, val: encodeTimeout(microsecondsToMclks(1, macroPeriodB)), wide: true},
		{reg: RANGE_CONFIG_TIMEOUT_MACROP_B, val: encodeTimeout(microsecondsToMclks(rangeTimeoutUs, macroPeriodB)), wide: true},
	}

	if err := v.writeSequence(seq); err != nil {
		return err
	}

	v.timingBudget = budget
	return nil
}

// GetTimingBudget reads back the timing budget in milliseconds from the range
// A timeout register
func (v *VL53L1X) GetTimingBudget() (uint32, error) {

	if v.fastOscFrequency == 0 {
		return 0, ErrNotInitialized
	}

	vcselA, err := v.readReg(RANGE_CONFIG_VCSEL_PERIOD_A)

	if err != nil {
		return 0, err
	}

	encoded, err := v.readReg16Bit(RANGE_CONFIG_TIMEOUT_MACROP_A)

	if err != nil {
		return 0, err
	}

	rangeTimeoutUs := mclksToMicroseconds(decodeTimeout(encoded), macroPeriod(v.fastOscFrequency, vcselA))

	return (2*rangeTimeoutUs + TimingGuard) / 1000, nil
}

// SetInterMeasurementPeriod sets the time in milliseconds between the start
// of two measurements while ranging.  It should be at least as long as the
// timing budget.
func (v *VL53L1X) SetInterMeasurementPeriod(period uint32) error {

	if v.fastOscFrequency == 0 || v.oscCalibrateVal&0x3FF == 0 {
		return ErrNotInitialized
	}

	// the register counts oscillator ticks; 1.075 is ST's PLL correction
	clockPLL := uint32(v.oscCalibrateVal & 0x3FF)
	val := clockPLL * period * 1075 / 1000

	return v.writeReg32Bit(SYSTEM_INTERMEASUREMENT_PERIOD, val)
}

// GetInterMeasurementPeriod returns the inter-measurement period in
// milliseconds
func (v *VL53L1X) GetInterMeasurementPeriod() (uint32, error) {

	val, err := v.readReg32Bit(SYSTEM_INTERMEASUREMENT_PERIOD)

	if err != nil {
		return 0, err
	}

	clockPLL := uint32(v.oscCalibrateVal & 0x3FF)

	if clockPLL == 0 {
		return 0, ErrNotInitialized
	}

	return val * 1000 / (clockPLL * 1075), nil
}

// decodeTimeout decode sequence step timeout in MCLKs from register value
// based on VL53L1_decode_timeout()
func decodeTimeout(regVal uint16) uint32 {
	return (uint32(regVal&0xFF) << (regVal >> 8)) + 1
}

// encodeTimeout packs a timeout in MCLKs as mantissa (LSB) and exponent (MSB)
// based on VL53L1_encode_timeout()
func encodeTimeout(timeoutMclks uint32) uint16 {

	if timeoutMclks == 0 {
		return 0
	}

	ls := timeoutMclks - 1
	var ms uint16

	for ls&0xFFFFFF00 > 0 {
		ls >>= 1
		ms++
	}

	return (ms << 8) | uint16(ls&0xFF)
}

// mclksToMicroseconds convert a timeout in macro periods to microseconds with
// the macro period given in 12.12 fixed point microseconds
func mclksToMicroseconds(timeoutMclks, macroPeriodUs uint32) uint32 {
	return ((timeoutMclks * macroPeriodUs) + 0x800) >> 12
}

// microsecondsToMclks is the inverse of mclksToMicroseconds, rounding to the
// nearest macro period
func microsecondsToMclks(timeoutUs, macroPeriodUs uint32) uint32 {
	return ((timeoutUs << 12) + (macroPeriodUs >> 1)) / macroPeriodUs
}

// macroPeriod returns the macro period in 12.12 fixed point microseconds for
// a VCSEL period register value, based on VL53L1_calc_macro_period_us()
func macroPeriod(fastOscFrequency uint16, vcselPeriod uint8) uint32 {

	pllPeriodUs := (uint32(1) << 30) / uint32(fastOscFrequency)

	vcselPeriodPclks := (uint32(vcselPeriod) + 1) << 1

	// 2304 VCSEL periods per macro period
	macroPeriodUs := 2304 * pllPeriodUs
	macroPeriodUs >>= 6
	macroPeriodUs *= vcselPeriodPclks
	macroPeriodUs >>= 6

	return macroPeriodUs
}
