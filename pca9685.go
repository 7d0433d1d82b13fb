package visio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/pca9685"
)

// PWMFrequency gives a PCA9685 prescale of 100.  The driver writes
// round(25 MHz / 4096 / f) to the prescale register as is, so this is
// 25 MHz / (4096 * 100).
const PWMFrequency = 61035 * physic.MilliHertz

// PCA9685 drives the motors from a PCA9685 16 channel PWM generator
type PCA9685 struct {
	dev *pca9685.Dev
}

// NewPCA9685 wakes the PCA9685 at addr, with all outputs off, and sets its
// PWM frequency
func NewPCA9685(bus i2c.Bus, addr uint16) (*PCA9685, error) {

	dev, err := pca9685.NewI2C(bus, addr)

	if err != nil {
		return nil, fmt.Errorf("pca9685 init: %w", err)
	}

	if err := dev.SetPwmFreq(PWMFrequency); err != nil {
		return nil, fmt.Errorf("pca9685 set frequency: %w", err)
	}

	return &PCA9685{dev: dev}, nil
}

// SetChannelOnOff implements PWM.  Ticks are out of 4096 per cycle.
func (p *PCA9685) SetChannelOnOff(ch Channel, on, off uint16) error {

	if ch == ChannelAll {
		return p.dev.SetAllPwm(gpio.Duty(on), gpio.Duty(off))
	}

	if ch > C15 {
		return fmt.Errorf("pca9685 has no channel %d", ch)
	}

	return p.dev.SetPwm(int(ch), gpio.Duty(on), gpio.Duty(off))
}
