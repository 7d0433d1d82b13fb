package visio

import (
	"fmt"
	"strconv"
)

// Channel is a PWM output driving one motor
type Channel uint8

const (
	C0 Channel = iota
	C1
	C2
	C3
	C4
	C5
	C6
	C7
	C8
	C9
	C10
	C11
	C12
	C13
	C14
	C15
	// ChannelAll addresses every output at once
	ChannelAll Channel = 0xFF
)

// String implement Stringer interface for Channel
func (c Channel) String() string {
	if c == ChannelAll {
		return "all"
	}
	return "C" + strconv.Itoa(int(c))
}

// ChannelFrom returns the channel driving the motor at index idx.  Indexes
// outside the grid resolve to ChannelAll.
func ChannelFrom(idx int) Channel {

	if idx < 0 || idx >= GridSize {
		return ChannelAll
	}

	return Channel(idx)
}

// Actuate writes each strength to the channel of the same index, on at tick 0
// and off at the strength.  The first write error is returned and the
// remaining channels are left as they were.
func Actuate(pwm PWM, strengths Strengths) error {

	for i, s := range strengths {
		ch := ChannelFrom(i)

		if err := pwm.SetChannelOnOff(ch, 0, s); err != nil {
			return fmt.Errorf("set %s to %d: %w", ch, s, err)
		}
	}

	return nil
}
