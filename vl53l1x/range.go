package vl53l1x

// RangeStatus represents the sensor’s reported status.
type RangeStatus uint8

const (
	RangeValid                RangeStatus = 0
	SigmaFail                 RangeStatus = 1
	SignalFail                RangeStatus = 2
	RangeValidMinRangeClipped RangeStatus = 3
	OutOfBoundsFail           RangeStatus = 4
	HardwareFail              RangeStatus = 5
	RangeValidNoWrapCheckFail RangeStatus = 6
	WrapTargetFail            RangeStatus = 7
	XtalkSignalFail           RangeStatus = 9
	SynchronizationInt        RangeStatus = 10
	MinRangeFail              RangeStatus = 13
	// RangePending means the current measurement has not completed yet
	RangePending RangeStatus = 254
	NoneStatus   RangeStatus = 255
)

// String implement Stringer interface for RangeStatus
func (s RangeStatus) String() string {
	switch s {
	case RangeValid:
		return "range valid"
	case SigmaFail:
		return "sigma fail"
	case SignalFail:
		return "signal fail"
	case RangeValidMinRangeClipped:
		return "range valid, min range clipped"
	case OutOfBoundsFail:
		return "out of bounds fail"
	case HardwareFail:
		return "hardware fail"
	case RangeValidNoWrapCheckFail:
		return "range valid, no wrap check fail"
	case WrapTargetFail:
		return "wrap target fail"
	case XtalkSignalFail:
		return "xtalk signal fail"
	case SynchronizationInt:
		return "synchronization int"
	case MinRangeFail:
		return "min range fail"
	case RangePending:
		return "pending"
	case NoneStatus:
		return "no update"
	default:
		return "unknown status"
	}
}

// statusFromDevice converts the device range status register value into a
// RangeStatus, as done by VL53L1_GetRangingMeasurementData()
func statusFromDevice(raw, streamCount uint8) RangeStatus {

	switch raw & 0x1F {
	case 17, 2, 1, 3:
		return HardwareFail
	case 13:
		return MinRangeFail
	case 18:
		return SynchronizationInt
	case 5:
		return OutOfBoundsFail
	case 4:
		return SignalFail
	case 6:
		return SigmaFail
	case 7:
		return WrapTargetFail
	case 12:
		return XtalkSignalFail
	case 8:
		return RangeValidMinRangeClipped
	case 9:
		// the first range after start has no wrap around check
		if streamCount == 0 {
			return RangeValidNoWrapCheckFail
		}
		return RangeValid
	default:
		return NoneStatus
	}
}

// StartRanging starts timed ranging.  Measurements repeat every
// inter-measurement period until StopRanging is called.
func (v *VL53L1X) StartRanging() error {

	v.log.Print("Start ranging")

	if err := v.writeReg(SYSTEM_INTERRUPT_CLEAR, 0x01); err != nil {
		return err
	}

	// 0x40 is mode_start timed
	return v.writeReg(SYSTEM_MODE_START, 0x40)
}

// StopRanging aborts any measurement in progress and drops the manual
// calibration so it is captured again on the next start.
func (v *VL53L1X) StopRanging() error {

	v.log.Print("Stop ranging")

	// 0x80 is mode_start abort
	if err := v.writeReg(SYSTEM_MODE_START, 0x80); err != nil {
		return err
	}

	v.calibrated = false

	if v.savedVHVInit != 0 {
		if err := v.writeReg(VHV_CONFIG_INIT, v.savedVHVInit); err != nil {
			return err
		}
	}

	if v.savedVHVTimeout != 0 {
		if err := v.writeReg(VHV_CONFIG_TIMEOUT_MACROP_LOOP_BOUND, v.savedVHVTimeout); err != nil {
			return err
		}
	}

	// remove phasecal override
	return v.writeReg(PHASECAL_CONFIG_OVERRIDE, 0x00)
}

// DataReady reports whether a new measurement is waiting, by comparing the
// GPIO1 level against the configured interrupt polarity
func (v *VL53L1X) DataReady() (bool, error) {

	status, err := v.readReg(GPIO_TIO_HV_STATUS)

	if err != nil {
		return false, err
	}

	return status&0x01 == v.interruptPolarity, nil
}

// GetRangeStatus returns RangePending while the current measurement is
// running, otherwise the classified status of the completed measurement.
// It does not block.
func (v *VL53L1X) GetRangeStatus() (RangeStatus, error) {

	ready, err := v.DataReady()

	if err != nil {
		return NoneStatus, err
	}

	if !ready {
		return RangePending, nil
	}

	// range status, report status, stream count
	buf := make([]byte, 3)

	if err := v.readBlock(RESULT_RANGE_STATUS, buf); err != nil {
		return NoneStatus, err
	}

	return statusFromDevice(buf[0], buf[2]), nil
}

// ClearInterrupt acknowledges the completed measurement so the next one can
// be signalled
func (v *VL53L1X) ClearInterrupt() error {
	return v.writeReg(SYSTEM_INTERRUPT_CLEAR, 0x01)
}

// GetDistance returns the range of the last completed measurement in
// millimeters.  The result registers stay valid after ClearInterrupt until the
// next measurement completes.
func (v *VL53L1X) GetDistance() (uint16, error) {

	if err := v.readResults(); err != nil {
		return 0, err
	}

	if !v.calibrated {
		if err := v.setupManualCalibration(); err != nil {
			return 0, err
		}

		v.calibrated = true
	}

	if err := v.updateDSS(); err != nil {
		return 0, err
	}

	return correctRange(v.results.finalCrosstalkCorrectedRangeMM_SD0), nil
}

// correctRange applies the fixed gain correction (r * 2011 + 0x0400) / 0x0800
func correctRange(raw uint16) uint16 {
	return uint16((uint32(raw)*2011 + 0x0400) / 0x0800)
}

// readResults reads the measurement result block into the results buffer
func (v *VL53L1X) readResults() error {

	buf := make([]byte, resultBlockLen)

	if err := v.readBlock(RESULT_RANGE_STATUS, buf); err != nil {
		return err
	}

	// report status, peak signal rate, sigma and phase are unused
	v.results = resultBuffer{
		rangeStatus:                        buf[0],
		streamCount:                        buf[2],
		dssActualEffectiveSpadsSD0:         uint16(buf[3])<<8 | uint16(buf[4]),
		ambientCountRateMCPS_SD0:           uint16(buf[7])<<8 | uint16(buf[8]),
		finalCrosstalkCorrectedRangeMM_SD0: uint16(buf[13])<<8 | uint16(buf[14]),
		peakSignalCountRateCrosstalkCorrectedMCPS_SD0: uint16(buf[15])<<8 | uint16(buf[16]),
	}

	return nil
}

// setupManualCalibration turns off the firmware calibration steps after the
// first range and programs static values instead.  Based on
// VL53L1_low_power_auto_setup_manual_calibration()
func (v *VL53L1X) setupManualCalibration() error {

	var err error

	if v.savedVHVInit, err = v.readReg(VHV_CONFIG_INIT); err != nil {
		return err
	}

	if v.savedVHVTimeout, err = v.readReg(VHV_CONFIG_TIMEOUT_MACROP_LOOP_BOUND); err != nil {
		return err
	}

	// disable VHV init
	if err := v.writeReg(VHV_CONFIG_INIT, v.savedVHVInit&0x7F); err != nil {
		return err
	}

	// loop bound tuning parameter is 3
	if err := v.writeReg(VHV_CONFIG_TIMEOUT_MACROP_LOOP_BOUND, (v.savedVHVTimeout&0x03)+(3<<2)); err != nil {
		return err
	}

	if err := v.writeReg(PHASECAL_CONFIG_OVERRIDE, 0x01); err != nil {
		return err
	}

	phStart, err := v.readReg(PHASECAL_RESULT_VCSEL_START)

	if err != nil {
		return err
	}

	return v.writeReg(CAL_CONFIG_VCSEL_START, phStart)
}

// updateDSS recalculates the dynamic SPAD selection from the last result.
// Based on VL53L1_low_power_auto_update_DSS()
func (v *VL53L1X) updateDSS() error {

	spadCount := v.results.dssActualEffectiveSpadsSD0

	if spadCount != 0 {
		totalRatePerSpad := uint32(v.results.peakSignalCountRateCrosstalkCorrectedMCPS_SD0) +
			uint32(v.results.ambientCountRateMCPS_SD0)

		totalRatePerSpad = min(totalRatePerSpad, 0xFFFF)

		// shift up to take advantage of 32 bits
		totalRatePerSpad <<= 16
		totalRatePerSpad /= uint32(spadCount)

		if totalRatePerSpad != 0 {
			requiredSpads := min((uint32(TargetRate)<<16)/totalRatePerSpad, 0xFFFF)

			return v.writeReg16Bit(DSS_CONFIG_MANUAL_EFFECTIVE_SPADS_SELECT, uint16(requiredSpads))
		}
	}

	// no usable rate, fall back to a mid point target
	return v.writeReg16Bit(DSS_CONFIG_MANUAL_EFFECTIVE_SPADS_SELECT, 0x8000)
}
