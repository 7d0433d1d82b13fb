package vl53l1x

import "fmt"

// ROI is the size of the region of interest in SPADs, between 4x4 and 16x16
type ROI struct {
	Width  uint8
	Height uint8
}

// ROICenter selects the SPAD at the centre of the region of interest.
//
// SPAD numbering from ST user manual UM2555, looking into the front of the
// sensor (199 is the default centre):
//
//	128,136,144,152,160,168,176,184,  192,200,208,216,224,232,240,248
//	...
//	135,143,151,159,167,175,183,191,  199,207,215,223,231,239,247,255
//
//	127,119,111,103, 95, 87, 79, 71,   63, 55, 47, 39, 31, 23, 15,  7
//	...
//	120,112,104, 96, 88, 80, 72, 64,   56, 48, 40, 32, 24, 16,  8,  0 <- Pin 1
//
// The lens inverts the image, so to look toward the upper left pick a centre
// in the lower right.
type ROICenter struct {
	SPAD uint8
}

// centreSPAD is used whenever the ROI is too wide to be moved
const centreSPAD uint8 = 199

// SetROI sets the region‐of‐interest size.  Sizes above 16 are clamped and
// anything below 4x4 is rejected.
func (v *VL53L1X) SetROI(roi ROI) error {

	width, height := min(roi.Width, 16), min(roi.Height, 16)

	if width < 4 || height < 4 {
		return fmt.Errorf("ROI size %dx%d must be at least 4x4", roi.Width, roi.Height)
	}

	// the ULD API forces the ROI to be centred when it is wider than 10
	if width > 10 || height > 10 {
		if err := v.SetROICenter(ROICenter{SPAD: centreSPAD}); err != nil {
			return err
		}
	}

	val := ((height - 1) << 4) | (width - 1)

	return v.writeReg(ROI_CONFIG_USER_ROI_REQUESTED_GLOBAL_XY_SIZE, val)
}

// GetROI returns the current ROI size
func (v *VL53L1X) GetROI() (ROI, error) {

	regVal, err := v.readReg(ROI_CONFIG_USER_ROI_REQUESTED_GLOBAL_XY_SIZE)

	if err != nil {
		return ROI{}, err
	}

	return ROI{Width: (regVal & 0x0F) + 1, Height: (regVal >> 4) + 1}, nil
}

// SetROICenter moves the region of interest.  The change applies to the next
// measurement started.
func (v *VL53L1X) SetROICenter(center ROICenter) error {
	return v.writeReg(ROI_CONFIG_USER_ROI_CENTRE_SPAD, center.SPAD)
}

// GetROICenter returns the current center SPAD
func (v *VL53L1X) GetROICenter() (ROICenter, error) {

	spad, err := v.readReg(ROI_CONFIG_USER_ROI_CENTRE_SPAD)

	if err != nil {
		return ROICenter{}, err
	}

	return ROICenter{SPAD: spad}, nil
}
