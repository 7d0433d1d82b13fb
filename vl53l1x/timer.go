package vl53l1x

import "time"

// SetTimeout set the timeout duration for the polls done during Init.  A zero
// timeout polls forever.
func (v *VL53L1X) SetTimeout(timeout time.Duration) {
	v.ioTimeout = timeout
}

// TimeoutOccurred reports whether a timeout has occurred since the last call
func (v *VL53L1X) TimeoutOccurred() bool {
	tmp := v.didTimeout
	v.didTimeout = false
	return tmp
}

func (v *VL53L1X) startTimeout() {
	v.timeoutStart = v.clock.Now()
}

func (v *VL53L1X) checkTimeoutExpired() bool {
	return (v.ioTimeout > 0) && (v.clock.Since(v.timeoutStart) > v.ioTimeout)
}
