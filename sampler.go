package visio

import (
	"context"
	"fmt"

	"github.com/swdee/go-visio/vl53l1x"
)

// accepted reports whether a range status completes the poll for a region.
// Signal and min range failures still carry a distance, taking it keeps one
// bad region from stalling the whole scan.
func accepted(status vl53l1x.RangeStatus) bool {
	switch status {
	case vl53l1x.RangeValid, vl53l1x.SignalFail, vl53l1x.MinRangeFail:
		return true
	default:
		return false
	}
}

// SampleAll measures every region in index order and writes each distance
// into dst.  For each region the sensor is stopped, retargeted and restarted,
// then the range status is polled without delay until it is accepted.
//
// Errors stopping, retargeting, starting, clearing or reading the sensor are
// returned straight away.  The poll only gives up when ctx is done; with a
// background context it waits for as long as the sensor takes.
func SampleAll(ctx context.Context, sensor Ranger, dst *Distances) error {

	for i, center := range ROICenters {
		dist, err := sampleRegion(ctx, sensor, center)

		if err != nil {
			return fmt.Errorf("region %d: %w", i, err)
		}

		dst[i] = dist
	}

	return nil
}

func sampleRegion(ctx context.Context, sensor Ranger, center vl53l1x.ROICenter) (uint16, error) {

	if err := sensor.StopRanging(); err != nil {
		return 0, err
	}

	if err := sensor.SetROICenter(center); err != nil {
		return 0, err
	}

	if err := sensor.StartRanging(); err != nil {
		return 0, err
	}

	// a failed status read is treated like any other unaccepted status
	var statusErr error

	for {
		if err := ctx.Err(); err != nil {
			if statusErr != nil {
				return 0, fmt.Errorf("%w, last status read: %v", err, statusErr)
			}
			return 0, err
		}

		status, err := sensor.GetRangeStatus()

		if err != nil {
			statusErr = err
			continue
		}

		if accepted(status) {
			break
		}
	}

	if err := sensor.ClearInterrupt(); err != nil {
		return 0, err
	}

	return sensor.GetDistance()
}
