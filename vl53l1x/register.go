package vl53l1x

import (
	"encoding/binary"
	"fmt"
)

const (
	SOFT_RESET uint16 = 0x0000

	// Identification and status registers
	IDENTIFICATION_MODEL_ID uint16 = 0x010F
	FIRMWARE_SYSTEM_STATUS  uint16 = 0x00E5

	// Oscillator and calibration registers
	OSC_MEASURED_FAST_OSC_FREQUENCY uint16 = 0x0006
	RESULT_OSC_CALIBRATE_VAL        uint16 = 0x00DE

	// DSS (Dynamic SPAD Selection)
	DSS_CONFIG_TARGET_TOTAL_RATE_MCPS        uint16 = 0x0024
	DSS_CONFIG_MANUAL_EFFECTIVE_SPADS_SELECT uint16 = 0x0054
	DSS_CONFIG_ROI_MODE_CONTROL              uint16 = 0x004F
	DSS_CONFIG_APERTURE_ATTENUATION          uint16 = 0x0057

	SD_CONFIG_WOI_SD0           uint16 = 0x0078
	SD_CONFIG_WOI_SD1           uint16 = 0x0079
	SD_CONFIG_INITIAL_PHASE_SD0 uint16 = 0x007A
	SD_CONFIG_INITIAL_PHASE_SD1 uint16 = 0x007B
	SD_CONFIG_QUANTIFIER        uint16 = 0x007E

	PAD_I2C_HV_EXTSUP_CONFIG uint16 = 0x002E

	// GPIO1 interrupt configuration and level
	GPIO_HV_MUX_CTRL   uint16 = 0x0030
	GPIO_TIO_HV_STATUS uint16 = 0x0031

	SIGMA_EST_EFFECTIVE_PULSE_WIDTH_NS   uint16 = 0x0036
	SIGMA_EST_EFFECTIVE_AMBIENT_WIDTH_NS uint16 = 0x0037

	ALGO_PART_TO_PART_RANGE_OFFSET_MM   uint16 = 0x001E
	ALGO_CROSSTALK_COMP_VALID_HEIGHT_MM uint16 = 0x0039
	ALGO_RANGE_IGNORE_VALID_HEIGHT_MM   uint16 = 0x003E
	ALGO_RANGE_MIN_CLIP                 uint16 = 0x003F
	ALGO_CONSISTENCY_CHECK_TOLERANCE    uint16 = 0x0040

	SYSTEM_THRESH_RATE_HIGH uint16 = 0x0050
	SYSTEM_THRESH_RATE_LOW  uint16 = 0x0052

	RANGE_CONFIG_SIGMA_THRESH                  uint16 = 0x0064
	RANGE_CONFIG_MIN_COUNT_RATE_RTN_LIMIT_MCPS uint16 = 0x0066
	RANGE_CONFIG_VCSEL_PERIOD_A                uint16 = 0x0060
	RANGE_CONFIG_VCSEL_PERIOD_B                uint16 = 0x0063
	RANGE_CONFIG_VALID_PHASE_HIGH              uint16 = 0x0069

	SYSTEM_GROUPED_PARAMETER_HOLD_0 uint16 = 0x0071
	SYSTEM_GROUPED_PARAMETER_HOLD_1 uint16 = 0x007C
	SYSTEM_GROUPED_PARAMETER_HOLD   uint16 = 0x0082
	SYSTEM_SEED_CONFIG              uint16 = 0x0077
	SYSTEM_SEQUENCE_CONFIG          uint16 = 0x0081

	ROI_CONFIG_USER_ROI_CENTRE_SPAD              uint16 = 0x007F
	ROI_CONFIG_USER_ROI_REQUESTED_GLOBAL_XY_SIZE uint16 = 0x0080

	// Timing timeout registers
	MM_CONFIG_OUTER_OFFSET_MM      uint16 = 0x0022
	PHASECAL_CONFIG_TIMEOUT_MACROP uint16 = 0x004B
	MM_CONFIG_TIMEOUT_MACROP_A     uint16 = 0x005A
	RANGE_CONFIG_TIMEOUT_MACROP_A  uint16 = 0x005E
	MM_CONFIG_TIMEOUT_MACROP_B     uint16 = 0x005C
	RANGE_CONFIG_TIMEOUT_MACROP_B  uint16 = 0x0061

	PHASECAL_CONFIG_OVERRIDE    uint16 = 0x004D
	CAL_CONFIG_VCSEL_START      uint16 = 0x0047
	PHASECAL_RESULT_VCSEL_START uint16 = 0x00D8

	// VHV configuration registers (for low‑power auto mode)
	VHV_CONFIG_INIT                      uint16 = 0x000B
	VHV_CONFIG_TIMEOUT_MACROP_LOOP_BOUND uint16 = 0x0008

	SYSTEM_INTERRUPT_CLEAR         uint16 = 0x0086
	SYSTEM_MODE_START              uint16 = 0x0087
	SYSTEM_INTERMEASUREMENT_PERIOD uint16 = 0x006C

	// RESULT_RANGE_STATUS starts the result block, the status is followed by
	// the report status and the stream count
	RESULT_RANGE_STATUS uint16 = 0x0089
)

// resultBlockLen is the number of bytes read from RESULT_RANGE_STATUS onwards
// to get a full measurement
const resultBlockLen = 17

// writeBlock writes data to consecutive registers starting at reg
func (v *VL53L1X) writeBlock(reg uint16, data ...byte) error {

	buf := make([]byte, 2, 2+len(data))
	binary.BigEndian.PutUint16(buf, reg)
	buf = append(buf, data...)

	if _, err := v.bus.WriteBytes(buf); err != nil {
		return fmt.Errorf("write register 0x%04X: %w", reg, err)
	}

	return nil
}

// readBlock fills buf from consecutive registers starting at reg
func (v *VL53L1X) readBlock(reg uint16, buf []byte) error {

	addr := make([]byte, 2)
	binary.BigEndian.PutUint16(addr, reg)

	if _, err := v.bus.WriteBytes(addr); err != nil {
		return fmt.Errorf("select register 0x%04X: %w", reg, err)
	}

	n, err := v.bus.ReadBytes(buf)

	if err != nil {
		return fmt.Errorf("read register 0x%04X: %w", reg, err)
	}

	if n < len(buf) {
		return fmt.Errorf("read register 0x%04X: got %d of %d bytes", reg, n, len(buf))
	}

	return nil
}

func (v *VL53L1X) writeReg(reg uint16, value uint8) error {
	return v.writeBlock(reg, value)
}

func (v *VL53L1X) writeReg16Bit(reg uint16, value uint16) error {
	return v.writeBlock(reg, byte(value>>8), byte(value))
}

func (v *VL53L1X) writeReg32Bit(reg uint16, value uint32) error {
	return v.writeBlock(reg, byte(value>>24), byte(value>>16), byte(value>>8), byte(value))
}

func (v *VL53L1X) readReg(reg uint16) (uint8, error) {

	buf := make([]byte, 1)

	if err := v.readBlock(reg, buf); err != nil {
		return 0, err
	}

	return buf[0], nil
}

func (v *VL53L1X) readReg16Bit(reg uint16) (uint16, error) {

	buf := make([]byte, 2)

	if err := v.readBlock(reg, buf); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint16(buf), nil
}

func (v *VL53L1X) readReg32Bit(reg uint16) (uint32, error) {

	buf := make([]byte, 4)

	if err := v.readBlock(reg, buf); err != nil {
		return 0, err
	}

	return binary.BigEndian.Uint32(buf), nil
}
